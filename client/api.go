// Package client talks to the course API and renders what it returns.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"coursehub-server-go/models"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// Client calls the /api/assignments, /api/discussion and /api/weekly surfaces.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// call sends one request and decodes the envelope's data into out when out is non-nil.
func (c *Client) call(ctx context.Context, method, surface string, query url.Values, body, out any) (string, error) {
	u := c.BaseURL + "/api/" + surface
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request to %s failed: %w", surface, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", &APIError{Status: resp.StatusCode, Message: "invalid response from server"}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", fmt.Errorf("failed to decode %s data: %w", surface, err)
		}
	}
	return env.Message, nil
}

func listValues(resource string, q models.ListQuery) url.Values {
	v := url.Values{"resource": {resource}}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	return v
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

// --- Assignments ---

func (c *Client) ListAssignments(ctx context.Context, q models.ListQuery) ([]models.Assignment, error) {
	var out []models.Assignment
	_, err := c.call(ctx, http.MethodGet, "assignments", listValues("assignments", q), nil, &out)
	return out, err
}

func (c *Client) GetAssignment(ctx context.Context, id int64) (*models.Assignment, error) {
	var out models.Assignment
	q := url.Values{"resource": {"assignments"}, "id": {itoa(id)}}
	if _, err := c.call(ctx, http.MethodGet, "assignments", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateAssignment(ctx context.Context, a models.Assignment) (*models.Assignment, error) {
	body := map[string]any{"title": a.Title, "description": a.Description, "dueDate": a.DueDate, "files": a.Files}
	var out models.Assignment
	if _, err := c.call(ctx, http.MethodPost, "assignments", url.Values{"resource": {"assignments"}}, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAssignment sends only the given fields, keyed by their wire names.
func (c *Client) UpdateAssignment(ctx context.Context, id int64, fields map[string]any) (*models.Assignment, error) {
	body := withID(fields, "id", id)
	var out models.Assignment
	if _, err := c.call(ctx, http.MethodPut, "assignments", url.Values{"resource": {"assignments"}}, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAssignment(ctx context.Context, id int64) (string, error) {
	return c.call(ctx, http.MethodDelete, "assignments", url.Values{"resource": {"assignments"}, "id": {itoa(id)}}, nil, nil)
}

func (c *Client) ListAssignmentComments(ctx context.Context, assignmentID int64) ([]models.AssignmentComment, error) {
	var out []models.AssignmentComment
	q := url.Values{"resource": {"comments"}, "assignment_id": {itoa(assignmentID)}}
	_, err := c.call(ctx, http.MethodGet, "assignments", q, nil, &out)
	return out, err
}

func (c *Client) CreateAssignmentComment(ctx context.Context, cm models.AssignmentComment) (*models.AssignmentComment, error) {
	body := map[string]any{"assignment_id": cm.AssignmentID, "author": cm.Author, "text": cm.Text}
	var out models.AssignmentComment
	if _, err := c.call(ctx, http.MethodPost, "assignments", url.Values{"resource": {"comments"}}, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAssignmentComment(ctx context.Context, id int64) (string, error) {
	return c.call(ctx, http.MethodDelete, "assignments", url.Values{"resource": {"comments"}, "id": {itoa(id)}}, nil, nil)
}

// --- Discussion ---

func (c *Client) ListTopics(ctx context.Context, q models.ListQuery) ([]models.Topic, error) {
	var out []models.Topic
	_, err := c.call(ctx, http.MethodGet, "discussion", listValues("topics", q), nil, &out)
	return out, err
}

func (c *Client) GetTopic(ctx context.Context, id string) (*models.Topic, error) {
	var out models.Topic
	if _, err := c.call(ctx, http.MethodGet, "discussion", url.Values{"resource": {"topics"}, "id": {id}}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTopic(ctx context.Context, t models.Topic) (*models.Topic, error) {
	body := map[string]any{"topic_id": t.ID, "subject": t.Subject, "message": t.Message, "author": t.Author}
	var out models.Topic
	if _, err := c.call(ctx, http.MethodPost, "discussion", url.Values{"resource": {"topics"}}, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTopic(ctx context.Context, id string, fields map[string]any) (*models.Topic, error) {
	body := withID(fields, "topic_id", id)
	var out models.Topic
	if _, err := c.call(ctx, http.MethodPut, "discussion", url.Values{"resource": {"topics"}}, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTopic(ctx context.Context, id string) (string, error) {
	return c.call(ctx, http.MethodDelete, "discussion", url.Values{"resource": {"topics"}, "id": {id}}, nil, nil)
}

func (c *Client) ListReplies(ctx context.Context, topicID string) ([]models.Reply, error) {
	var out []models.Reply
	_, err := c.call(ctx, http.MethodGet, "discussion", url.Values{"resource": {"replies"}, "topic_id": {topicID}}, nil, &out)
	return out, err
}

func (c *Client) CreateReply(ctx context.Context, r models.Reply) (*models.Reply, error) {
	body := map[string]any{"reply_id": r.ID, "topic_id": r.TopicID, "text": r.Text, "author": r.Author}
	var out models.Reply
	if _, err := c.call(ctx, http.MethodPost, "discussion", url.Values{"resource": {"replies"}}, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteReply(ctx context.Context, id string) (string, error) {
	return c.call(ctx, http.MethodDelete, "discussion", url.Values{"resource": {"replies"}, "id": {id}}, nil, nil)
}

// --- Weekly ---

func (c *Client) ListWeeks(ctx context.Context, q models.ListQuery) ([]models.Week, error) {
	var out []models.Week
	_, err := c.call(ctx, http.MethodGet, "weekly", listValues("weeks", q), nil, &out)
	return out, err
}

func (c *Client) GetWeek(ctx context.Context, id string) (*models.Week, error) {
	var out models.Week
	if _, err := c.call(ctx, http.MethodGet, "weekly", url.Values{"resource": {"weeks"}, "week_id": {id}}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateWeek(ctx context.Context, w models.Week) (*models.Week, error) {
	var out models.Week
	if _, err := c.call(ctx, http.MethodPost, "weekly", url.Values{"resource": {"weeks"}}, w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateWeek(ctx context.Context, id string, fields map[string]any) (*models.Week, error) {
	body := withID(fields, "id", id)
	var out models.Week
	if _, err := c.call(ctx, http.MethodPut, "weekly", url.Values{"resource": {"weeks"}}, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteWeek(ctx context.Context, id string) (string, error) {
	return c.call(ctx, http.MethodDelete, "weekly", url.Values{"resource": {"weeks"}, "week_id": {id}}, nil, nil)
}

func (c *Client) ListWeekComments(ctx context.Context, weekID string) ([]models.WeekComment, error) {
	var out []models.WeekComment
	_, err := c.call(ctx, http.MethodGet, "weekly", url.Values{"resource": {"comments"}, "week_id": {weekID}}, nil, &out)
	return out, err
}

func (c *Client) CreateWeekComment(ctx context.Context, cm models.WeekComment) (*models.WeekComment, error) {
	body := map[string]any{"week_id": cm.WeekID, "author": cm.Author, "text": cm.Text}
	var out models.WeekComment
	if _, err := c.call(ctx, http.MethodPost, "weekly", url.Values{"resource": {"comments"}}, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteWeekComment(ctx context.Context, id int64) (string, error) {
	return c.call(ctx, http.MethodDelete, "weekly", url.Values{"resource": {"comments"}, "id": {itoa(id)}}, nil, nil)
}

func withID(fields map[string]any, key string, id any) map[string]any {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body[key] = id
	return body
}
