package client

import (
	"context"

	"coursehub-server-go/db"
	"coursehub-server-go/models"
)

// Source is the read side shared by the live API and the static fallback.
type Source interface {
	ListAssignments(ctx context.Context, q models.ListQuery) ([]models.Assignment, error)
	GetAssignment(ctx context.Context, id int64) (*models.Assignment, error)
	ListAssignmentComments(ctx context.Context, assignmentID int64) ([]models.AssignmentComment, error)

	ListTopics(ctx context.Context, q models.ListQuery) ([]models.Topic, error)
	GetTopic(ctx context.Context, id string) (*models.Topic, error)
	ListReplies(ctx context.Context, topicID string) ([]models.Reply, error)

	ListWeeks(ctx context.Context, q models.ListQuery) ([]models.Week, error)
	GetWeek(ctx context.Context, id string) (*models.Week, error)
	ListWeekComments(ctx context.Context, weekID string) ([]models.WeekComment, error)
}

var (
	_ Source = (*Client)(nil)
	_ Source = (*db.DocStore)(nil)
)

// NewStaticSource reads the JSON fallback files in dir (assignments.json,
// comments.json, weeks.json, week-comments.json and, when present,
// topics.json and replies.json). It never writes them.
func NewStaticSource(dir string) *db.DocStore {
	return db.NewDocStore(db.NewStaticFileBackend(dir))
}
