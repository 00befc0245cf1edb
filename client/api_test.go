package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"coursehub-server-go/db"
	"coursehub-server-go/handlers"
	"coursehub-server-go/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	b, err := db.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(handlers.NewRouter(handlers.NewAPIHandler(db.NewDocStore(b))))
	t.Cleanup(srv.Close)
	return New(srv.URL + "/")
}

func TestClientWeeks(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	created, err := c.CreateWeek(ctx, models.Week{ID: "week_1", Title: "Intro", StartDate: "2024-09-02"})
	if err != nil {
		t.Fatalf("CreateWeek: %v", err)
	}
	if created.Links == nil {
		t.Error("links should decode as empty list")
	}

	_, err = c.CreateWeek(ctx, models.Week{ID: "week_1", Title: "Again", StartDate: "2024-09-02"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict {
		t.Fatalf("duplicate week: err = %v, want 409 APIError", err)
	}

	if _, err := c.CreateWeekComment(ctx, models.WeekComment{WeekID: "week_1", Author: "Ann", Text: "Lab?"}); err != nil {
		t.Fatalf("CreateWeekComment: %v", err)
	}
	comments, err := c.ListWeekComments(ctx, "week_1")
	if err != nil || len(comments) != 1 {
		t.Fatalf("ListWeekComments = %v, %v", comments, err)
	}

	updated, err := c.UpdateWeek(ctx, "week_1", map[string]any{"title": "Introduction"})
	if err != nil {
		t.Fatalf("UpdateWeek: %v", err)
	}
	if updated.Title != "Introduction" || updated.StartDate != "2024-09-02" {
		t.Errorf("UpdateWeek = %+v", updated)
	}

	msg, err := c.DeleteWeek(ctx, "week_1")
	if err != nil || msg == "" {
		t.Fatalf("DeleteWeek = %q, %v", msg, err)
	}
	_, err = c.GetWeek(ctx, "week_1")
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound || apiErr.Message != "Week not found" {
		t.Errorf("GetWeek after delete: err = %v", err)
	}
}

func TestClientAssignmentsAndTopics(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	a, err := c.CreateAssignment(ctx, models.Assignment{Title: "Essay", DueDate: "2024-10-01", Files: []string{"a.pdf"}})
	if err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
	if _, err := c.CreateAssignmentComment(ctx, models.AssignmentComment{AssignmentID: a.ID, Author: "Ann", Text: "hi"}); err != nil {
		t.Fatalf("CreateAssignmentComment: %v", err)
	}
	list, err := c.ListAssignments(ctx, models.ListQuery{Search: "ess"})
	if err != nil || len(list) != 1 {
		t.Fatalf("ListAssignments = %v, %v", list, err)
	}

	if _, err := c.CreateTopic(ctx, models.Topic{ID: "topic_1", Subject: "Exam", Message: "When?", Author: "Ann"}); err != nil {
		t.Fatalf("CreateTopic: %v", err)
	}
	_, err = c.CreateReply(ctx, models.Reply{ID: "reply_1", TopicID: "nope", Text: "x", Author: "Ben"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Parent topic not found" {
		t.Fatalf("orphan reply: err = %v", err)
	}
	if _, err := c.CreateReply(ctx, models.Reply{ID: "reply_1", TopicID: "topic_1", Text: "Friday", Author: "Ben"}); err != nil {
		t.Fatalf("CreateReply: %v", err)
	}
	replies, err := c.ListReplies(ctx, "topic_1")
	if err != nil || len(replies) != 1 {
		t.Fatalf("ListReplies = %v, %v", replies, err)
	}
	if _, err := c.DeleteTopic(ctx, "topic_1"); err != nil {
		t.Fatalf("DeleteTopic: %v", err)
	}
	replies, err = c.ListReplies(ctx, "topic_1")
	if err != nil || len(replies) != 0 {
		t.Fatalf("replies after cascade = %v, %v", replies, err)
	}
}

func TestClientReportsUnreachableServer(t *testing.T) {
	c := New("http://127.0.0.1:1")
	if _, err := c.ListWeeks(context.Background(), models.ListQuery{}); err == nil {
		t.Error("expected an error for an unreachable server")
	}
}
