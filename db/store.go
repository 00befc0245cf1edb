package db

import (
	"context"
	"errors"

	"coursehub-server-go/models"
)

var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrParentNotFound is returned when a child references a missing parent.
	ErrParentNotFound = errors.New("parent record not found")
	// ErrDuplicate is returned when a caller supplied id is already taken.
	ErrDuplicate = errors.New("record already exists")
	// ErrReadOnly is returned by backends that only serve static data.
	ErrReadOnly = errors.New("store is read-only")
)

// AssignmentStore persists assignments and their comments.
type AssignmentStore interface {
	ListAssignments(ctx context.Context, q models.ListQuery) ([]models.Assignment, error)
	GetAssignment(ctx context.Context, id int64) (*models.Assignment, error)
	// CreateAssignment assigns a.ID and the timestamps.
	CreateAssignment(ctx context.Context, a *models.Assignment) error
	UpdateAssignment(ctx context.Context, id int64, p models.AssignmentPatch) (*models.Assignment, error)
	// DeleteAssignment removes the assignment together with its comments.
	DeleteAssignment(ctx context.Context, id int64) error

	ListAssignmentComments(ctx context.Context, assignmentID int64) ([]models.AssignmentComment, error)
	GetAssignmentComment(ctx context.Context, id int64) (*models.AssignmentComment, error)
	CreateAssignmentComment(ctx context.Context, c *models.AssignmentComment) error
	UpdateAssignmentComment(ctx context.Context, id int64, p models.TextPatch) (*models.AssignmentComment, error)
	DeleteAssignmentComment(ctx context.Context, id int64) error
}

// DiscussionStore persists topics and replies.
type DiscussionStore interface {
	ListTopics(ctx context.Context, q models.ListQuery) ([]models.Topic, error)
	GetTopic(ctx context.Context, id string) (*models.Topic, error)
	CreateTopic(ctx context.Context, t *models.Topic) error
	UpdateTopic(ctx context.Context, id string, p models.TopicPatch) (*models.Topic, error)
	// DeleteTopic removes the topic together with its replies.
	DeleteTopic(ctx context.Context, id string) error

	ListReplies(ctx context.Context, topicID string) ([]models.Reply, error)
	GetReply(ctx context.Context, id string) (*models.Reply, error)
	CreateReply(ctx context.Context, r *models.Reply) error
	UpdateReply(ctx context.Context, id string, p models.TextPatch) (*models.Reply, error)
	DeleteReply(ctx context.Context, id string) error
}

// WeeklyStore persists weeks and their comments.
type WeeklyStore interface {
	ListWeeks(ctx context.Context, q models.ListQuery) ([]models.Week, error)
	GetWeek(ctx context.Context, id string) (*models.Week, error)
	CreateWeek(ctx context.Context, w *models.Week) error
	UpdateWeek(ctx context.Context, id string, p models.WeekPatch) (*models.Week, error)
	// DeleteWeek removes the week together with its comments.
	DeleteWeek(ctx context.Context, id string) error

	ListWeekComments(ctx context.Context, weekID string) ([]models.WeekComment, error)
	GetWeekComment(ctx context.Context, id int64) (*models.WeekComment, error)
	CreateWeekComment(ctx context.Context, c *models.WeekComment) error
	UpdateWeekComment(ctx context.Context, id int64, p models.TextPatch) (*models.WeekComment, error)
	DeleteWeekComment(ctx context.Context, id int64) error
}

// Store is the full persistence contract served by every adapter.
type Store interface {
	AssignmentStore
	DiscussionStore
	WeeklyStore
	Close() error
}
