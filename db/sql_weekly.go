package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"coursehub-server-go/models"
)

const weekColumns = "week_id, title, start_date, description, links"

// ListWeeks returns weeks matching search over title and description.
func (s *SQLStore) ListWeeks(ctx context.Context, q models.ListQuery) ([]models.Week, error) {
	where, args := searchClause(q.Search, "title", "description")
	column, desc := weekSort.resolve(q)
	query := "SELECT " + weekColumns + " FROM weeks" + where + orderClause(column, desc, "week_id")

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list weeks: %w", err)
	}
	defer rows.Close()

	weeks := []models.Week{}
	for rows.Next() {
		w, err := scanWeek(rows)
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, *w)
	}
	return weeks, rows.Err()
}

// GetWeek retrieves a week by id.
func (s *SQLStore) GetWeek(ctx context.Context, id string) (*models.Week, error) {
	row := s.db.QueryRowContext(ctx, s.rebind("SELECT "+weekColumns+" FROM weeks WHERE week_id = ?"), id)
	w, err := scanWeek(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return w, err
}

// CreateWeek inserts a week, rejecting an id that is already taken.
func (s *SQLStore) CreateWeek(ctx context.Context, w *models.Week) error {
	links, err := encodeList(w.Links)
	if err != nil {
		return fmt.Errorf("failed to encode links: %w", err)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		taken, err := s.exists(ctx, tx, "weeks", "week_id", w.ID)
		if err != nil {
			return fmt.Errorf("failed to check week id: %w", err)
		}
		if taken {
			return ErrDuplicate
		}
		if _, err := tx.ExecContext(ctx, s.rebind(
			"INSERT INTO weeks (week_id, title, start_date, description, links) VALUES (?, ?, ?, ?, ?)"),
			w.ID, w.Title, w.StartDate, w.Description, links); err != nil {
			return fmt.Errorf("failed to insert week: %w", err)
		}
		if w.Links == nil {
			w.Links = []string{}
		}
		return nil
	})
}

// UpdateWeek changes only the supplied week fields.
func (s *SQLStore) UpdateWeek(ctx context.Context, id string, p models.WeekPatch) (*models.Week, error) {
	var sets []string
	var args []any
	if p.Title != nil {
		sets, args = append(sets, "title = ?"), append(args, *p.Title)
	}
	if p.StartDate != nil {
		sets, args = append(sets, "start_date = ?"), append(args, *p.StartDate)
	}
	if p.Description != nil {
		sets, args = append(sets, "description = ?"), append(args, *p.Description)
	}
	if p.Links != nil {
		links, err := encodeList(*p.Links)
		if err != nil {
			return nil, fmt.Errorf("failed to encode links: %w", err)
		}
		sets, args = append(sets, "links = ?"), append(args, links)
	}
	if len(sets) > 0 {
		if err := s.update(ctx, "weeks", "week_id", id, sets, args); err != nil {
			return nil, err
		}
	}
	return s.GetWeek(ctx, id)
}

// DeleteWeek removes the week and its comments in one transaction.
func (s *SQLStore) DeleteWeek(ctx context.Context, id string) error {
	return s.cascadeDelete(ctx, "week_comments", "week_id", "weeks", "week_id", id)
}

const weekCommentColumns = "id, week_id, author, text, created_at"

// ListWeekComments returns the comments of a week, oldest first.
func (s *SQLStore) ListWeekComments(ctx context.Context, weekID string) ([]models.WeekComment, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		"SELECT "+weekCommentColumns+" FROM week_comments WHERE week_id = ? ORDER BY created_at ASC, id ASC"), weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to list week comments: %w", err)
	}
	defer rows.Close()

	comments := []models.WeekComment{}
	for rows.Next() {
		var c models.WeekComment
		if err := rows.Scan(&c.ID, &c.WeekID, &c.Author, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// GetWeekComment retrieves a single week comment.
func (s *SQLStore) GetWeekComment(ctx context.Context, id int64) (*models.WeekComment, error) {
	var c models.WeekComment
	err := s.db.QueryRowContext(ctx, s.rebind("SELECT "+weekCommentColumns+" FROM week_comments WHERE id = ?"), id).
		Scan(&c.ID, &c.WeekID, &c.Author, &c.Text, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateWeekComment inserts a comment after checking the week exists.
func (s *SQLStore) CreateWeekComment(ctx context.Context, c *models.WeekComment) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := s.exists(ctx, tx, "weeks", "week_id", c.WeekID)
		if err != nil {
			return fmt.Errorf("failed to check week: %w", err)
		}
		if !ok {
			return ErrParentNotFound
		}
		now := models.Now()
		err = tx.QueryRowContext(ctx, s.rebind(
			"INSERT INTO week_comments (week_id, author, text, created_at) VALUES (?, ?, ?, ?) RETURNING id"),
			c.WeekID, c.Author, c.Text, now).Scan(&c.ID)
		if err != nil {
			return fmt.Errorf("failed to insert week comment: %w", err)
		}
		c.CreatedAt = now
		return nil
	})
}

// UpdateWeekComment changes the author and/or text of a week comment.
func (s *SQLStore) UpdateWeekComment(ctx context.Context, id int64, p models.TextPatch) (*models.WeekComment, error) {
	sets, args := textPatchSets(p)
	if len(sets) > 0 {
		if err := s.update(ctx, "week_comments", "id", id, sets, args); err != nil {
			return nil, err
		}
	}
	return s.GetWeekComment(ctx, id)
}

// DeleteWeekComment removes one week comment.
func (s *SQLStore) DeleteWeekComment(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "week_comments", "id", id)
}

func scanWeek(row rowScanner) (*models.Week, error) {
	var w models.Week
	var links string
	if err := row.Scan(&w.ID, &w.Title, &w.StartDate, &w.Description, &links); err != nil {
		return nil, err
	}
	list, err := decodeList(links)
	if err != nil {
		return nil, fmt.Errorf("invalid links for week %s: %w", w.ID, err)
	}
	w.Links = list
	return &w, nil
}
