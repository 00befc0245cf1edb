package db

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"coursehub-server-go/models"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadNestedComments(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, weeksDoc, `[{"id":"week_1","title":"One","startDate":"2024-09-02","description":"","links":[]}]`)
	writeFixture(t, dir, weekCommentsDoc, `{
		"week_1": [
			{"id": 7, "author": "Ann", "text": "old", "created_at": "2024-09-02 10:00:00"},
			{"author": "Ben", "text": "no id or time"}
		]
	}`)

	s := NewDocStore(NewStaticFileBackend(dir))
	comments, err := s.ListWeekComments(context.Background(), "week_1")
	if err != nil {
		t.Fatalf("ListWeekComments: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(comments))
	}
	if comments[0].ID != 7 || comments[0].Text != "old" {
		t.Errorf("first comment = %+v", comments[0])
	}
	if comments[1].ID != 8 {
		t.Errorf("missing id should follow the max, got %d", comments[1].ID)
	}
	if comments[1].CreatedAt.IsZero() {
		t.Error("missing timestamp should default to load time")
	}
}

func TestStaticBackendIsReadOnly(t *testing.T) {
	dir := t.TempDir()
	original := `[{"id":"week_1","title":"One","startDate":"2024-09-02","description":"","links":["https://x"]}]`
	writeFixture(t, dir, weeksDoc, original)

	s := NewDocStore(NewStaticFileBackend(dir))
	ctx := context.Background()

	if err := s.CreateWeek(ctx, &models.Week{ID: "week_2", Title: "Two", StartDate: "2024-09-09"}); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("CreateWeek: err = %v, want ErrReadOnly", err)
	}
	if err := s.DeleteWeek(ctx, "week_1"); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("DeleteWeek: err = %v, want ErrReadOnly", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, weeksDoc+".json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != original {
		t.Errorf("static file changed: %s", data)
	}
	w, err := s.GetWeek(ctx, "week_1")
	if err != nil {
		t.Fatal(err)
	}
	if len(w.Links) != 1 {
		t.Errorf("links = %v", w.Links)
	}
}

func TestCommentsPersistNested(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	if err != nil {
		t.Fatal(err)
	}
	s := NewDocStore(b)
	ctx := context.Background()

	a := models.Assignment{Title: "Essay", DueDate: "2024-10-01"}
	if err := s.CreateAssignment(ctx, &a); err != nil {
		t.Fatal(err)
	}
	c := models.AssignmentComment{AssignmentID: a.ID, Author: "Ann", Text: "hi"}
	if err := s.CreateAssignmentComment(ctx, &c); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, assignmentCommentsDoc+".json"))
	if err != nil {
		t.Fatal(err)
	}
	var buckets map[string][]map[string]any
	if err := json.Unmarshal(data, &buckets); err != nil {
		t.Fatalf("comments file is not nested: %v", err)
	}
	entries := buckets["1"]
	if len(entries) != 1 || entries[0]["text"] != "hi" || entries[0]["id"] != float64(1) {
		t.Errorf("unexpected nested entries %v", buckets)
	}
}

func TestMissingDocumentsReadAsEmpty(t *testing.T) {
	s := NewDocStore(NewStaticFileBackend(t.TempDir()))
	ctx := context.Background()

	weeks, err := s.ListWeeks(ctx, models.ListQuery{})
	if err != nil || weeks == nil || len(weeks) != 0 {
		t.Errorf("ListWeeks = %v, %v; want empty list", weeks, err)
	}
	comments, err := s.ListAssignmentComments(ctx, 1)
	if err != nil || comments == nil || len(comments) != 0 {
		t.Errorf("ListAssignmentComments = %v, %v; want empty list", comments, err)
	}
}

func TestParseLooseTime(t *testing.T) {
	fallback := models.Now()
	tests := []struct {
		raw      string
		fallback bool
	}{
		{"2024-09-02T10:00:00Z", false},
		{"2024-09-02 10:00:00", false},
		{"2024-09-02", false},
		{"", true},
		{"yesterday", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := parseLooseTime(tt.raw, fallback)
			if got.Equal(fallback) != tt.fallback {
				t.Errorf("parseLooseTime(%q) = %v", tt.raw, got)
			}
		})
	}
}

// blockDocument makes any write of name fail: its path is a non-empty directory.
func blockDocument(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name+".json")
	if err := os.MkdirAll(filepath.Join(path, "keep"), 0750); err != nil {
		t.Fatal(err)
	}
}

func TestFileWriteIsAllOrNothing(t *testing.T) {
	tests := []struct {
		name string
		bad  Document
	}{
		{"replace fails", Document{Name: "blocked", Data: []byte("[]")}},
		{"staging fails", Document{Name: "no/such/dir", Data: []byte("[]")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			b, err := NewFileBackend(dir)
			if err != nil {
				t.Fatal(err)
			}
			blockDocument(t, dir, "blocked")
			writeFixture(t, dir, weeksDoc, `["old"]`)

			ctx := context.Background()
			err = b.Write(ctx,
				Document{Name: weeksDoc, Data: []byte(`["new"]`)},
				Document{Name: topicsDoc, Data: []byte(`["fresh"]`)},
				tt.bad,
			)
			if err == nil {
				t.Fatal("expected the write to fail")
			}

			if data, _ := b.Read(ctx, weeksDoc); string(data) != `["old"]` {
				t.Errorf("weeks = %s, want the prior content", data)
			}
			if data, _ := b.Read(ctx, topicsDoc); data != nil {
				t.Errorf("topics should not exist, got %s", data)
			}
			leftovers, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
			if len(leftovers) != 0 {
				t.Errorf("temp files left behind: %v", leftovers)
			}
		})
	}
}

// trailingFailure appends a document that cannot be written to every write.
type trailingFailure struct {
	*FileBackend
}

func (f trailingFailure) Write(ctx context.Context, docs ...Document) error {
	return f.FileBackend.Write(ctx, append(docs, Document{Name: "blocked", Data: []byte("{}")})...)
}

func TestFailedCascadeDeleteKeepsChildren(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	if err != nil {
		t.Fatal(err)
	}
	s := NewDocStore(b)
	ctx := context.Background()

	if err := s.CreateWeek(ctx, &models.Week{ID: "week_1", Title: "One", StartDate: "2024-09-02"}); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateWeekComment(ctx, &models.WeekComment{WeekID: "week_1", Author: "Ann", Text: "hi"}); err != nil {
		t.Fatal(err)
	}

	blockDocument(t, dir, "blocked")
	failing := NewDocStore(trailingFailure{b})
	if err := failing.DeleteWeek(ctx, "week_1"); err == nil {
		t.Fatal("expected DeleteWeek to fail")
	}

	if _, err := s.GetWeek(ctx, "week_1"); err != nil {
		t.Errorf("week should survive the failed delete: %v", err)
	}
	comments, err := s.ListWeekComments(ctx, "week_1")
	if err != nil || len(comments) != 1 {
		t.Errorf("comments = %v, %v; want the one comment kept", comments, err)
	}
}
