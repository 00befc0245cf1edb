package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"

	"coursehub-server-go/db"
	"coursehub-server-go/handlers"
	"coursehub-server-go/models"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	out, color.Output, color.NoColor = &buf, &buf, true
	t.Cleanup(func() {
		out, color.Output = os.Stdout, os.Stdout
	})

	// Flag variables outlive a single Execute.
	apiURL, staticDir, identityFlag = "http://localhost:8080", "", ""
	listOpts = models.ListQuery{}
	assignmentTitle, assignmentDue, assignmentDescription, assignmentFiles = "", "", "", nil
	topicSubject, topicMessage = "", ""
	weekTitle, weekStart, weekDescription, weekLinks = "", "", "", nil

	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func liveServer(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	b, err := db.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(handlers.NewRouter(handlers.NewAPIHandler(db.NewDocStore(b))))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestWeeksAgainstServer(t *testing.T) {
	url := liveServer(t)

	got, err := run(t, "--api", url, "weeks", "add", "week_1", "--title", "Intro", "--start", "2024-09-02")
	if err != nil || !strings.Contains(got, "Created week week_1") {
		t.Fatalf("add: %q, %v", got, err)
	}
	if _, err := run(t, "--api", url, "--as", "ann", "weeks", "comment", "week_1", "Is there a lab?"); err != nil {
		t.Fatalf("comment: %v", err)
	}
	got, err = run(t, "--api", url, "weeks", "show", "week_1")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"Intro (starts 2024-09-02)", "ann", "Is there a lab?"} {
		if !strings.Contains(got, want) {
			t.Errorf("show output missing %q:\n%s", want, got)
		}
	}

	got, err = run(t, "--api", url, "weeks", "rm", "week_1")
	if err != nil || !strings.Contains(got, "Week and associated comments deleted successfully") {
		t.Fatalf("rm: %q, %v", got, err)
	}
	if _, err := run(t, "--api", url, "weeks", "show", "week_1"); err == nil || !strings.Contains(err.Error(), "Week not found") {
		t.Errorf("show after rm: err = %v", err)
	}
}

func TestTopicsAgainstServer(t *testing.T) {
	url := liveServer(t)

	got, err := run(t, "--api", url, "--as", "ann", "topics", "add", "--subject", "Exam", "--message", "When is it?")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	id := regexp.MustCompile(`topic_[0-9a-f-]{36}`).FindString(got)
	if id == "" {
		t.Fatalf("no topic id in %q", got)
	}

	if _, err := run(t, "--api", url, "--as", "ben", "topics", "reply", id, "Friday"); err != nil {
		t.Fatalf("reply: %v", err)
	}
	got, err = run(t, "--api", url, "topics", "show", id)
	if err != nil || !strings.Contains(got, "Replies (1)") || !strings.Contains(got, "Friday") {
		t.Fatalf("show: %q, %v", got, err)
	}

	if _, err := run(t, "--api", url, "topics", "reply", "topic_missing", "hello"); err == nil {
		t.Error("reply to a missing topic should fail")
	}
}

func TestStaticChangesAreNotSaved(t *testing.T) {
	dir := t.TempDir()
	original := `[{"id":"week_1","title":"Intro","startDate":"2024-09-02","description":"","links":[]}]`
	if err := os.WriteFile(filepath.Join(dir, "weeks.json"), []byte(original), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := run(t, "--static", dir, "weeks", "add", "week_2", "--title", "Loops", "--start", "2024-09-09")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(got, "week_2") || !strings.Contains(got, "week_1") || !strings.Contains(got, "not saved") {
		t.Errorf("add output:\n%s", got)
	}

	data, err := os.ReadFile(filepath.Join(dir, "weeks.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != original {
		t.Errorf("weeks.json changed: %s", data)
	}

	got, err = run(t, "--static", dir, "weeks", "list")
	if err != nil || strings.Contains(got, "week_2") {
		t.Errorf("list after static add: %q, %v", got, err)
	}
}

func TestArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad id", []string{"assignments", "show", "abc"}, "invalid id: abc"},
		{"missing title", []string{"assignments", "add", "--due", "2024-10-01"}, "--title is required"},
		{"missing start", []string{"weeks", "add", "week_9", "--title", "x"}, "--start is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}
