package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"coursehub-server-go/models"
)

const topicColumns = "topic_id, subject, message, author, created_at"

// ListTopics returns topics matching search over subject, message and author.
func (s *SQLStore) ListTopics(ctx context.Context, q models.ListQuery) ([]models.Topic, error) {
	where, args := searchClause(q.Search, "subject", "message", "author")
	column, desc := topicSort.resolve(q)
	query := "SELECT " + topicColumns + " FROM topics" + where + orderClause(column, desc, "topic_id")

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	defer rows.Close()

	topics := []models.Topic{}
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.Subject, &t.Message, &t.Author, &t.CreatedAt); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// GetTopic retrieves a topic by its topic id.
func (s *SQLStore) GetTopic(ctx context.Context, id string) (*models.Topic, error) {
	var t models.Topic
	err := s.db.QueryRowContext(ctx, s.rebind("SELECT "+topicColumns+" FROM topics WHERE topic_id = ?"), id).
		Scan(&t.ID, &t.Subject, &t.Message, &t.Author, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTopic inserts a topic, rejecting a topic id that is already taken.
func (s *SQLStore) CreateTopic(ctx context.Context, t *models.Topic) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		taken, err := s.exists(ctx, tx, "topics", "topic_id", t.ID)
		if err != nil {
			return fmt.Errorf("failed to check topic id: %w", err)
		}
		if taken {
			return ErrDuplicate
		}
		now := models.Now()
		if _, err := tx.ExecContext(ctx, s.rebind(
			"INSERT INTO topics (topic_id, subject, message, author, created_at) VALUES (?, ?, ?, ?, ?)"),
			t.ID, t.Subject, t.Message, t.Author, now); err != nil {
			return fmt.Errorf("failed to insert topic: %w", err)
		}
		t.CreatedAt = now
		return nil
	})
}

// UpdateTopic changes the subject and/or message of a topic.
func (s *SQLStore) UpdateTopic(ctx context.Context, id string, p models.TopicPatch) (*models.Topic, error) {
	var sets []string
	var args []any
	if p.Subject != nil {
		sets, args = append(sets, "subject = ?"), append(args, *p.Subject)
	}
	if p.Message != nil {
		sets, args = append(sets, "message = ?"), append(args, *p.Message)
	}
	if len(sets) > 0 {
		if err := s.update(ctx, "topics", "topic_id", id, sets, args); err != nil {
			return nil, err
		}
	}
	return s.GetTopic(ctx, id)
}

// DeleteTopic removes the topic and all of its replies in one transaction.
func (s *SQLStore) DeleteTopic(ctx context.Context, id string) error {
	return s.cascadeDelete(ctx, "replies", "topic_id", "topics", "topic_id", id)
}

const replyColumns = "reply_id, topic_id, text, author, created_at"

// ListReplies returns the replies of a topic, oldest first.
func (s *SQLStore) ListReplies(ctx context.Context, topicID string) ([]models.Reply, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		"SELECT "+replyColumns+" FROM replies WHERE topic_id = ? ORDER BY created_at ASC, reply_id ASC"), topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	defer rows.Close()

	replies := []models.Reply{}
	for rows.Next() {
		var r models.Reply
		if err := rows.Scan(&r.ID, &r.TopicID, &r.Text, &r.Author, &r.CreatedAt); err != nil {
			return nil, err
		}
		replies = append(replies, r)
	}
	return replies, rows.Err()
}

// GetReply retrieves a reply by its reply id.
func (s *SQLStore) GetReply(ctx context.Context, id string) (*models.Reply, error) {
	var r models.Reply
	err := s.db.QueryRowContext(ctx, s.rebind("SELECT "+replyColumns+" FROM replies WHERE reply_id = ?"), id).
		Scan(&r.ID, &r.TopicID, &r.Text, &r.Author, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateReply checks the parent topic first, then the reply id, then inserts.
func (s *SQLStore) CreateReply(ctx context.Context, r *models.Reply) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := s.exists(ctx, tx, "topics", "topic_id", r.TopicID)
		if err != nil {
			return fmt.Errorf("failed to check topic: %w", err)
		}
		if !ok {
			return ErrParentNotFound
		}
		taken, err := s.exists(ctx, tx, "replies", "reply_id", r.ID)
		if err != nil {
			return fmt.Errorf("failed to check reply id: %w", err)
		}
		if taken {
			return ErrDuplicate
		}
		now := models.Now()
		if _, err := tx.ExecContext(ctx, s.rebind(
			"INSERT INTO replies (reply_id, topic_id, text, author, created_at) VALUES (?, ?, ?, ?, ?)"),
			r.ID, r.TopicID, r.Text, r.Author, now); err != nil {
			return fmt.Errorf("failed to insert reply: %w", err)
		}
		r.CreatedAt = now
		return nil
	})
}

// UpdateReply changes the author and/or text of a reply.
func (s *SQLStore) UpdateReply(ctx context.Context, id string, p models.TextPatch) (*models.Reply, error) {
	sets, args := textPatchSets(p)
	if len(sets) > 0 {
		if err := s.update(ctx, "replies", "reply_id", id, sets, args); err != nil {
			return nil, err
		}
	}
	return s.GetReply(ctx, id)
}

// DeleteReply removes one reply.
func (s *SQLStore) DeleteReply(ctx context.Context, id string) error {
	return s.deleteRow(ctx, "replies", "reply_id", id)
}
