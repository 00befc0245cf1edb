package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"coursehub-server-go/db"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// forEachStore runs fn against a router backed by a fresh sqlite store and
// a fresh JSON file store.
func forEachStore(t *testing.T, fn func(t *testing.T, r *gin.Engine)) {
	t.Helper()
	openers := map[string]func(t *testing.T) db.Store{
		"sqlite": func(t *testing.T) db.Store {
			s, err := db.OpenSQL("sqlite", filepath.Join(t.TempDir(), "test.db"))
			if err != nil {
				t.Fatalf("OpenSQL: %v", err)
			}
			return s
		},
		"file": func(t *testing.T) db.Store {
			b, err := db.NewFileBackend(t.TempDir())
			if err != nil {
				t.Fatalf("NewFileBackend: %v", err)
			}
			return db.NewDocStore(b)
		},
	}
	for name, open := range openers {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			t.Cleanup(func() { _ = s.Close() })
			fn(t, NewRouter(NewAPIHandler(s)))
		})
	}
}

func do(t *testing.T, r http.Handler, method, path string, body any) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: body is not JSON: %s", method, path, w.Body.String())
		}
	}
	return w.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return v
}

func expect(t *testing.T, gotStatus int, env envelope, wantStatus int, wantError string) {
	t.Helper()
	if gotStatus != wantStatus {
		t.Fatalf("status = %d, want %d (body %+v)", gotStatus, wantStatus, env)
	}
	if wantError != "" && env.Error != wantError {
		t.Fatalf("error = %q, want %q", env.Error, wantError)
	}
	if wantStatus >= 400 && env.Success {
		t.Fatalf("error response marked success")
	}
}

func TestDispatch(t *testing.T) {
	forEachStore(t, func(t *testing.T, r *gin.Engine) {
		tests := []struct {
			name       string
			method     string
			path       string
			body       any
			wantStatus int
			wantError  string
		}{
			{"unknown resource", "GET", "/api/weekly?resource=nope", nil, 400, "Invalid resource. Use 'weeks' or 'comments'"},
			{"unknown discussion resource", "GET", "/api/discussion?resource=x", nil, 400, "Invalid resource. Use 'topics' or 'replies'"},
			{"missing resource lists primary", "GET", "/api/assignments", nil, 200, ""},
			{"unsupported method", "PATCH", "/api/assignments?resource=comments", nil, 405, "Method not allowed"},
			{"invalid json", "POST", "/api/discussion?resource=topics", "{not json", 400, "Invalid JSON body"},
			{"array body", "PUT", "/api/weekly?resource=weeks", "[1,2]", 400, "Invalid JSON body"},
			{"null body", "POST", "/api/weekly?resource=weeks", "null", 400, "Invalid JSON body"},
			{"empty body reads as no fields", "POST", "/api/weekly?resource=weeks", "", 400, "id, title, startDate, and description are required"},
			{"blank body reads as no fields", "POST", "/api/discussion?resource=topics", "  \n", 400, "topic_id, subject, message, and author are required"},
			{"options", "OPTIONS", "/api/weekly?resource=anything", nil, 200, ""},
			{"ping", "GET", "/api/ping", nil, 200, ""},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				status, env := do(t, r, tt.method, tt.path, tt.body)
				expect(t, status, env, tt.wantStatus, tt.wantError)
			})
		}
	})
}

func TestCORSPreflight(t *testing.T) {
	forEachStore(t, func(t *testing.T, r *gin.Engine) {
		req := httptest.NewRequest(http.MethodOptions, "/api/assignments", nil)
		// httptest requests are addressed to example.com, so use another origin
		req.Header.Set("Origin", "http://client.test")
		req.Header.Set("Access-Control-Request-Method", "PUT")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("preflight status = %d, want 200", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "DELETE") {
			t.Errorf("Access-Control-Allow-Methods = %q", got)
		}
	})
}

type assignmentBody struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"dueDate"`
	Files       []string `json:"files"`
}

type commentBody struct {
	ID           int64  `json:"id"`
	AssignmentID int64  `json:"assignment_id"`
	WeekID       string `json:"week_id"`
	Author       string `json:"author"`
	Text         string `json:"text"`
}

func TestAssignments(t *testing.T) {
	forEachStore(t, func(t *testing.T, r *gin.Engine) {
		status, env := do(t, r, "POST", "/api/assignments", map[string]any{
			"title": "  <b>Essay</b> ", "description": `Tom & "Jerry"`, "dueDate": "2024-10-01",
			"files": []string{" brief.pdf ", ""},
		})
		expect(t, status, env, 201, "")
		first := decode[assignmentBody](t, env)
		if first.Title != "Essay" || first.Description != "Tom &amp; &#34;Jerry&#34;" {
			t.Errorf("not sanitized: %+v", first)
		}
		if len(first.Files) != 1 || first.Files[0] != "brief.pdf" {
			t.Errorf("files = %v", first.Files)
		}

		status, env = do(t, r, "POST", "/api/assignments", map[string]any{"title": "Lab", "due_date": "2024-09-15"})
		expect(t, status, env, 201, "")
		second := decode[assignmentBody](t, env)
		if second.ID == first.ID {
			t.Fatalf("ids should be unique, both %d", first.ID)
		}
		if second.Files == nil {
			t.Error("files should encode as [], not null")
		}

		for _, bad := range []string{"2024-13-01", "2024-02-30", "2024-1-05"} {
			status, env = do(t, r, "POST", "/api/assignments", map[string]any{"title": "X", "dueDate": bad})
			expect(t, status, env, 400, "Invalid dueDate format. Use YYYY-MM-DD")
		}
		status, env = do(t, r, "POST", "/api/assignments", map[string]any{"title": "   ", "dueDate": "2024-01-01"})
		expect(t, status, env, 400, "title and dueDate are required")

		status, env = do(t, r, "GET", "/api/assignments?resource=assignments&id=999", nil)
		expect(t, status, env, 404, "Assignment not found")

		// Partial update keeps untouched fields.
		status, env = do(t, r, "PUT", "/api/assignments", map[string]any{"id": first.ID, "dueDate": "2024-11-01"})
		expect(t, status, env, 200, "")
		updated := decode[assignmentBody](t, env)
		if updated.Title != "Essay" || updated.DueDate != "2024-11-01" || len(updated.Files) != 1 {
			t.Errorf("unexpected update result %+v", updated)
		}

		status, env = do(t, r, "PUT", "/api/assignments", map[string]any{"id": first.ID, "unknown": 1})
		expect(t, status, env, 400, "No fields to update")
		status, env = do(t, r, "PUT", "/api/assignments", map[string]any{"title": "x"})
		expect(t, status, env, 400, "id is required")
		status, env = do(t, r, "PUT", "/api/assignments", map[string]any{"id": "999", "title": "x"})
		expect(t, status, env, 404, "Assignment not found")
		status, env = do(t, r, "PUT", "/api/assignments", map[string]any{"id": first.ID, "dueDate": "2024-02-30"})
		expect(t, status, env, 400, "")
		status, env = do(t, r, "PUT", "/api/assignments", map[string]any{"id": first.ID, "title": "  "})
		expect(t, status, env, 400, "title cannot be empty")

		// Comments, then cascade on delete.
		status, env = do(t, r, "POST", "/api/assignments?resource=comments", map[string]any{"assignment_id": 999, "author": "Ann", "text": "hi"})
		expect(t, status, env, 404, "Parent assignment not found")

		status, env = do(t, r, "POST", "/api/assignments?resource=comments", map[string]any{"assignment_id": first.ID, "author": "Ann", "text": "hi"})
		expect(t, status, env, 201, "")
		comment := decode[commentBody](t, env)

		status, env = do(t, r, "PUT", "/api/assignments?resource=comments", map[string]any{"id": comment.ID, "text": "edited"})
		expect(t, status, env, 200, "")
		if got := decode[commentBody](t, env); got.Text != "edited" || got.Author != "Ann" {
			t.Errorf("comment update = %+v", got)
		}

		status, env = do(t, r, "DELETE", "/api/assignments?id="+itoa(first.ID), nil)
		expect(t, status, env, 200, "")
		if env.Message == "" {
			t.Error("delete should confirm with a message")
		}

		status, env = do(t, r, "GET", "/api/assignments?resource=comments&assignment_id="+itoa(first.ID), nil)
		expect(t, status, env, 200, "")
		if comments := decode[[]commentBody](t, env); len(comments) != 0 {
			t.Errorf("comments survived cascade: %+v", comments)
		}
		status, env = do(t, r, "GET", "/api/assignments?resource=comments&id="+itoa(comment.ID), nil)
		expect(t, status, env, 404, "Comment not found")

		status, env = do(t, r, "DELETE", "/api/assignments", map[string]any{"id": first.ID})
		expect(t, status, env, 404, "Assignment not found")
		status, env = do(t, r, "DELETE", "/api/assignments", nil)
		expect(t, status, env, 400, "id is required")
	})
}

func TestAssignmentsListFallsBackOnBadSort(t *testing.T) {
	forEachStore(t, func(t *testing.T, r *gin.Engine) {
		for _, title := range []string{"Charlie", "Alpha", "Bravo"} {
			status, env := do(t, r, "POST", "/api/assignments", map[string]any{"title": title, "dueDate": "2024-01-01"})
			expect(t, status, env, 201, "")
		}

		status, env := do(t, r, "GET", "/api/assignments?sort=title&order=desc", nil)
		expect(t, status, env, 200, "")
		if got := decode[[]assignmentBody](t, env); got[0].Title != "Charlie" || got[2].Title != "Alpha" {
			t.Errorf("title desc = %+v", got)
		}

		status, env = do(t, r, "GET", "/api/assignments?sort=password&order=sideways", nil)
		expect(t, status, env, 200, "")
		got := decode[[]assignmentBody](t, env)
		if len(got) != 3 || got[0].Title != "Charlie" || got[2].Title != "Bravo" {
			t.Errorf("fallback should be creation order: %+v", got)
		}

		status, env = do(t, r, "GET", "/api/assignments?search=nothing-matches", nil)
		expect(t, status, env, 200, "")
		if string(env.Data) != "[]" {
			t.Errorf("empty search data = %s, want []", env.Data)
		}
	})
}

type topicBody struct {
	ID      string `json:"topic_id"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Author  string `json:"author"`
}

type replyBody struct {
	ID      string `json:"reply_id"`
	TopicID string `json:"topic_id"`
	Text    string `json:"text"`
	Author  string `json:"author"`
}

func TestDiscussion(t *testing.T) {
	forEachStore(t, func(t *testing.T, r *gin.Engine) {
		topic := map[string]any{"topic_id": "topic_1", "subject": "Exam", "message": "When?", "author": "Ann"}
		status, env := do(t, r, "POST", "/api/discussion?resource=topics", topic)
		expect(t, status, env, 201, "")

		dup := map[string]any{"topic_id": "topic_1", "subject": "Other", "message": "m", "author": "Ben"}
		status, env = do(t, r, "POST", "/api/discussion?resource=topics", dup)
		expect(t, status, env, 409, "Topic ID already exists")
		status, env = do(t, r, "GET", "/api/discussion?resource=topics&id=topic_1", nil)
		expect(t, status, env, 200, "")
		if got := decode[topicBody](t, env); got.Subject != "Exam" || got.Author != "Ann" {
			t.Errorf("duplicate create changed the original: %+v", got)
		}

		status, env = do(t, r, "POST", "/api/discussion?resource=topics", map[string]any{"topic_id": "t2", "subject": "s"})
		expect(t, status, env, 400, "topic_id, subject, message, and author are required")

		orphan := map[string]any{"reply_id": "reply_x", "topic_id": "topic_missing", "text": "hi", "author": "Ann"}
		status, env = do(t, r, "POST", "/api/discussion?resource=replies", orphan)
		expect(t, status, env, 404, "Parent topic not found")
		status, env = do(t, r, "GET", "/api/discussion?resource=replies&id=reply_x", nil)
		expect(t, status, env, 404, "Reply not found")

		reply := map[string]any{"reply_id": "reply_1", "topic_id": "topic_1", "text": "Friday", "author": "Ben"}
		status, env = do(t, r, "POST", "/api/discussion?resource=replies", reply)
		expect(t, status, env, 201, "")
		status, env = do(t, r, "POST", "/api/discussion?resource=replies", reply)
		expect(t, status, env, 409, "Reply ID already exists")

		status, env = do(t, r, "PUT", "/api/discussion?resource=topics", map[string]any{"topic_id": "topic_1", "message": "When is it?"})
		expect(t, status, env, 200, "")
		if got := decode[topicBody](t, env); got.Subject != "Exam" || got.Message != "When is it?" {
			t.Errorf("partial topic update = %+v", got)
		}
		status, env = do(t, r, "PUT", "/api/discussion?resource=topics", map[string]any{"topic_id": "topic_1"})
		expect(t, status, env, 400, "No fields to update")

		status, env = do(t, r, "PUT", "/api/discussion?resource=replies", map[string]any{"reply_id": "reply_1", "text": "Thursday"})
		expect(t, status, env, 200, "")

		status, env = do(t, r, "GET", "/api/discussion?resource=replies&topic_id=topic_1", nil)
		expect(t, status, env, 200, "")
		if got := decode[[]replyBody](t, env); len(got) != 1 || got[0].Text != "Thursday" {
			t.Errorf("replies = %+v", got)
		}

		status, env = do(t, r, "DELETE", "/api/discussion?resource=topics", map[string]any{"topic_id": "topic_1"})
		expect(t, status, env, 200, "")
		status, env = do(t, r, "GET", "/api/discussion?resource=replies&topic_id=topic_1", nil)
		expect(t, status, env, 200, "")
		if got := decode[[]replyBody](t, env); len(got) != 0 {
			t.Errorf("replies survived cascade: %+v", got)
		}
		status, env = do(t, r, "GET", "/api/discussion?resource=replies&id=reply_1", nil)
		expect(t, status, env, 404, "Reply not found")
	})
}

type weekBody struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	StartDate   string   `json:"startDate"`
	Description string   `json:"description"`
	Links       []string `json:"links"`
}

func TestWeeklyScenario(t *testing.T) {
	forEachStore(t, func(t *testing.T, r *gin.Engine) {
		week := map[string]any{
			"id": "week_1", "title": "Intro", "startDate": "2024-09-02",
			"description": "Overview", "links": []string{" https://go.dev/?a=1&b=2 ", ""},
		}
		status, env := do(t, r, "POST", "/api/weekly", week)
		expect(t, status, env, 201, "")
		created := decode[weekBody](t, env)
		if len(created.Links) != 1 || created.Links[0] != "https://go.dev/?a=1&b=2" {
			t.Errorf("links should be trimmed but not escaped: %v", created.Links)
		}

		status, env = do(t, r, "POST", "/api/weekly", week)
		expect(t, status, env, 409, "Week with this id already exists")
		status, env = do(t, r, "POST", "/api/weekly", map[string]any{"id": "week_9", "title": "Bad", "startDate": "2024-13-01", "description": ""})
		expect(t, status, env, 400, "Invalid startDate format. Use YYYY-MM-DD")

		status, env = do(t, r, "POST", "/api/weekly", map[string]any{"id": "week_0", "title": "Prep", "startDate": "2024-08-26"})
		expect(t, status, env, 400, "id, title, startDate, and description are required")
		status, env = do(t, r, "GET", "/api/weekly?week_id=week_0", nil)
		expect(t, status, env, 404, "Week not found")

		status, env = do(t, r, "POST", "/api/weekly", map[string]any{"id": "week_0", "title": "Prep", "startDate": "2024-08-26", "description": ""})
		expect(t, status, env, 201, "")

		status, env = do(t, r, "GET", "/api/weekly?resource=weeks&sort=bogus&order=bogus", nil)
		expect(t, status, env, 200, "")
		weeks := decode[[]weekBody](t, env)
		if len(weeks) != 2 || weeks[0].ID != "week_0" {
			t.Fatalf("default order should be startDate asc: %+v", weeks)
		}

		comment := map[string]any{"week_id": "week_1", "author": "Ann", "text": "Is there a lab?"}
		status, env = do(t, r, "POST", "/api/weekly?resource=comments", comment)
		expect(t, status, env, 201, "")
		c := decode[commentBody](t, env)
		status, env = do(t, r, "POST", "/api/weekly?resource=comments", map[string]any{"week_id": "week_x", "author": "a", "text": "b"})
		expect(t, status, env, 404, "Parent week not found")

		status, env = do(t, r, "PUT", "/api/weekly", map[string]any{"id": "week_1", "title": "Introduction"})
		expect(t, status, env, 200, "")
		if got := decode[weekBody](t, env); got.Title != "Introduction" || got.StartDate != "2024-09-02" || len(got.Links) != 1 {
			t.Errorf("partial week update = %+v", got)
		}

		status, env = do(t, r, "GET", "/api/weekly?resource=comments&week_id=week_1", nil)
		expect(t, status, env, 200, "")
		if got := decode[[]commentBody](t, env); len(got) != 1 || got[0].ID != c.ID {
			t.Errorf("week comments = %+v", got)
		}

		status, env = do(t, r, "DELETE", "/api/weekly?week_id=week_1", nil)
		expect(t, status, env, 200, "")
		status, env = do(t, r, "GET", "/api/weekly?resource=comments&week_id=week_1", nil)
		expect(t, status, env, 200, "")
		if got := decode[[]commentBody](t, env); len(got) != 0 {
			t.Errorf("week comments survived cascade: %+v", got)
		}
		status, env = do(t, r, "GET", "/api/weekly?resource=comments&id="+itoa(c.ID), nil)
		expect(t, status, env, 404, "Comment not found")
		status, env = do(t, r, "GET", "/api/weekly?week_id=week_1", nil)
		expect(t, status, env, 404, "Week not found")
	})
}

func TestPersistenceFailureIsGeneric(t *testing.T) {
	s := db.NewDocStore(db.NewStaticFileBackend(t.TempDir()))
	r := NewRouter(NewAPIHandler(s))

	status, env := do(t, r, "POST", "/api/weekly", map[string]any{"id": "w", "title": "T", "startDate": "2024-01-01", "description": "d"})
	expect(t, status, env, 500, "An error occurred")
	if strings.Contains(env.Error, "read-only") {
		t.Error("internal error leaked to the client")
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
