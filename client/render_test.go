package client

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"coursehub-server-go/models"
)

func TestRenderEmptyCollections(t *testing.T) {
	tests := []struct {
		name   string
		render func(*bytes.Buffer) error
		want   string
	}{
		{"weeks", func(b *bytes.Buffer) error { return RenderWeeks(b, nil) }, "No weeks found."},
		{"assignments", func(b *bytes.Buffer) error { return RenderAssignments(b, nil) }, "No assignments found."},
		{"topics", func(b *bytes.Buffer) error { return RenderTopics(b, nil) }, "No topics found."},
		{"week comments", func(b *bytes.Buffer) error {
			return RenderWeek(b, models.Week{ID: "w", Title: "T", StartDate: "2024-01-01"}, nil)
		}, "No comments yet."},
		{"replies", func(b *bytes.Buffer) error { return RenderTopic(b, models.Topic{Subject: "S"}, nil) }, "No replies yet."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.render(&buf); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %q does not contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestRenderUnescapesStoredText(t *testing.T) {
	var buf bytes.Buffer
	a := models.Assignment{ID: 3, Title: "Tom &amp; Jerry", DueDate: "2024-10-01"}
	comments := []models.AssignmentComment{{ID: 1, Author: "Ann", Text: "&lt;3", CreatedAt: time.Now()}}
	if err := RenderAssignment(&buf, a, comments); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Tom & Jerry") || !strings.Contains(out, "<3") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
