package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"coursehub-server-go/models"
)

const assignmentColumns = "id, title, description, due_date, files, created_at, updated_at"

// ListAssignments returns assignments filtered by title/description and sorted by the whitelist.
func (s *SQLStore) ListAssignments(ctx context.Context, q models.ListQuery) ([]models.Assignment, error) {
	where, args := searchClause(q.Search, "title", "description")
	column, desc := assignmentSort.resolve(q)
	query := "SELECT " + assignmentColumns + " FROM assignments" + where + orderClause(column, desc, "id")

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	assignments := []models.Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

// GetAssignment retrieves an assignment by id.
func (s *SQLStore) GetAssignment(ctx context.Context, id int64) (*models.Assignment, error) {
	row := s.db.QueryRowContext(ctx, s.rebind("SELECT "+assignmentColumns+" FROM assignments WHERE id = ?"), id)
	a, err := scanAssignment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

// CreateAssignment inserts a new assignment and fills in its id and timestamps.
func (s *SQLStore) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	files, err := encodeList(a.Files)
	if err != nil {
		return fmt.Errorf("failed to encode files: %w", err)
	}
	now := models.Now()
	err = s.db.QueryRowContext(ctx, s.rebind(`
		INSERT INTO assignments (title, description, due_date, files, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
		a.Title, a.Description, a.DueDate, files, now, now).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to insert assignment: %w", err)
	}
	a.CreatedAt, a.UpdatedAt = now, now
	if a.Files == nil {
		a.Files = []string{}
	}
	return nil
}

// UpdateAssignment changes only the supplied fields and bumps updated_at.
func (s *SQLStore) UpdateAssignment(ctx context.Context, id int64, p models.AssignmentPatch) (*models.Assignment, error) {
	var sets []string
	var args []any
	if p.Title != nil {
		sets, args = append(sets, "title = ?"), append(args, *p.Title)
	}
	if p.Description != nil {
		sets, args = append(sets, "description = ?"), append(args, *p.Description)
	}
	if p.DueDate != nil {
		sets, args = append(sets, "due_date = ?"), append(args, *p.DueDate)
	}
	if p.Files != nil {
		files, err := encodeList(*p.Files)
		if err != nil {
			return nil, fmt.Errorf("failed to encode files: %w", err)
		}
		sets, args = append(sets, "files = ?"), append(args, files)
	}
	sets, args = append(sets, "updated_at = ?"), append(args, models.Now())

	if err := s.update(ctx, "assignments", "id", id, sets, args); err != nil {
		return nil, err
	}
	return s.GetAssignment(ctx, id)
}

// DeleteAssignment removes the assignment and its comments in one transaction.
func (s *SQLStore) DeleteAssignment(ctx context.Context, id int64) error {
	return s.cascadeDelete(ctx, "assignment_comments", "assignment_id", "assignments", "id", id)
}

const assignmentCommentColumns = "id, assignment_id, author, text, created_at"

// ListAssignmentComments returns the comments of an assignment, oldest first.
func (s *SQLStore) ListAssignmentComments(ctx context.Context, assignmentID int64) ([]models.AssignmentComment, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		"SELECT "+assignmentCommentColumns+" FROM assignment_comments WHERE assignment_id = ? ORDER BY created_at ASC, id ASC"),
		assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignment comments: %w", err)
	}
	defer rows.Close()

	comments := []models.AssignmentComment{}
	for rows.Next() {
		var c models.AssignmentComment
		if err := rows.Scan(&c.ID, &c.AssignmentID, &c.Author, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// GetAssignmentComment retrieves a single comment.
func (s *SQLStore) GetAssignmentComment(ctx context.Context, id int64) (*models.AssignmentComment, error) {
	var c models.AssignmentComment
	err := s.db.QueryRowContext(ctx, s.rebind("SELECT "+assignmentCommentColumns+" FROM assignment_comments WHERE id = ?"), id).
		Scan(&c.ID, &c.AssignmentID, &c.Author, &c.Text, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateAssignmentComment inserts a comment after checking the assignment exists.
func (s *SQLStore) CreateAssignmentComment(ctx context.Context, c *models.AssignmentComment) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := s.exists(ctx, tx, "assignments", "id", c.AssignmentID)
		if err != nil {
			return fmt.Errorf("failed to check assignment: %w", err)
		}
		if !ok {
			return ErrParentNotFound
		}
		now := models.Now()
		err = tx.QueryRowContext(ctx, s.rebind(
			"INSERT INTO assignment_comments (assignment_id, author, text, created_at) VALUES (?, ?, ?, ?) RETURNING id"),
			c.AssignmentID, c.Author, c.Text, now).Scan(&c.ID)
		if err != nil {
			return fmt.Errorf("failed to insert assignment comment: %w", err)
		}
		c.CreatedAt = now
		return nil
	})
}

// UpdateAssignmentComment changes the author and/or text of a comment.
func (s *SQLStore) UpdateAssignmentComment(ctx context.Context, id int64, p models.TextPatch) (*models.AssignmentComment, error) {
	sets, args := textPatchSets(p)
	if len(sets) > 0 {
		if err := s.update(ctx, "assignment_comments", "id", id, sets, args); err != nil {
			return nil, err
		}
	}
	return s.GetAssignmentComment(ctx, id)
}

// DeleteAssignmentComment removes one comment.
func (s *SQLStore) DeleteAssignmentComment(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "assignment_comments", "id", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row rowScanner) (*models.Assignment, error) {
	var a models.Assignment
	var files string
	if err := row.Scan(&a.ID, &a.Title, &a.Description, &a.DueDate, &files, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	list, err := decodeList(files)
	if err != nil {
		return nil, fmt.Errorf("invalid files for assignment %d: %w", a.ID, err)
	}
	a.Files = list
	return &a, nil
}

func textPatchSets(p models.TextPatch) ([]string, []any) {
	var sets []string
	var args []any
	if p.Author != nil {
		sets, args = append(sets, "author = ?"), append(args, *p.Author)
	}
	if p.Text != nil {
		sets, args = append(sets, "text = ?"), append(args, *p.Text)
	}
	return sets, args
}
