package db

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"
)

// Collection names double as document names in every backend.
const (
	assignmentsDoc        = "assignments"
	assignmentCommentsDoc = "comments"
	topicsDoc             = "topics"
	repliesDoc            = "replies"
	weeksDoc              = "weeks"
	weekCommentsDoc       = "week-comments"
)

// Document is one named JSON blob handed to a backend.
type Document struct {
	Name string
	Data []byte
}

// Backend stores whole documents by name.
type Backend interface {
	// Read returns nil, nil when the document has never been written.
	Read(ctx context.Context, name string) ([]byte, error)
	// Write persists all docs; backends apply them atomically where they can,
	// otherwise in the order given.
	Write(ctx context.Context, docs ...Document) error
	Close() error
}

// DocStore keeps each collection as a single JSON document on a Backend.
// Writers are serialised by a process-level lock; separate processes sharing
// one backend still race and the last write wins.
type DocStore struct {
	mu      sync.RWMutex
	backend Backend
}

// NewDocStore wraps a backend.
func NewDocStore(b Backend) *DocStore {
	return &DocStore{backend: b}
}

// Close closes the underlying backend.
func (s *DocStore) Close() error {
	return s.backend.Close()
}

func loadList[T any](ctx context.Context, b Backend, name string) ([]T, error) {
	data, err := b.Read(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	items := []T{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func encodeDoc(name string, v any) (Document, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return Document{}, fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return Document{Name: name, Data: data}, nil
}

// nestedEntry is a comment as stored under its parent's key.
type nestedEntry struct {
	ID        int64  `json:"id,omitempty"`
	Author    string `json:"author"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at,omitempty"`
}

// flatComment is a nested entry lifted out of its bucket.
type flatComment struct {
	ID        int64
	Parent    string
	Author    string
	Text      string
	CreatedAt time.Time
}

// loadComments flattens a {"<parent>": [entries]} document. Entries without an
// id are numbered after the current maximum; entries without a timestamp get
// the load time.
func loadComments(ctx context.Context, b Backend, name string) ([]flatComment, error) {
	data, err := b.Read(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	comments := []flatComment{}
	if len(data) == 0 {
		return comments, nil
	}
	buckets := map[string][]nestedEntry{}
	if err := json.Unmarshal(data, &buckets); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	parents := make([]string, 0, len(buckets))
	var maxID int64
	for parent, entries := range buckets {
		parents = append(parents, parent)
		for _, e := range entries {
			maxID = max(maxID, e.ID)
		}
	}
	sort.Strings(parents)

	loaded := time.Now().UTC()
	for _, parent := range parents {
		for _, e := range buckets[parent] {
			c := flatComment{ID: e.ID, Parent: parent, Author: e.Author, Text: e.Text}
			if c.ID == 0 {
				maxID++
				c.ID = maxID
			}
			c.CreatedAt = parseLooseTime(e.CreatedAt, loaded)
			comments = append(comments, c)
		}
	}
	return comments, nil
}

func encodeComments(name string, comments []flatComment) (Document, error) {
	buckets := map[string][]nestedEntry{}
	for _, c := range comments {
		buckets[c.Parent] = append(buckets[c.Parent], nestedEntry{
			ID:        c.ID,
			Author:    c.Author,
			Text:      c.Text,
			CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return encodeDoc(name, buckets)
}

var looseLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"}

func parseLooseTime(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	for _, layout := range looseLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return fallback
}

func nextCommentID(comments []flatComment) int64 {
	var id int64
	for _, c := range comments {
		id = max(id, c.ID)
	}
	return id + 1
}

func childrenOf(comments []flatComment, parent string) []flatComment {
	out := []flatComment{}
	for _, c := range comments {
		if c.Parent == parent {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b flatComment) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func withoutParent(comments []flatComment, parent string) []flatComment {
	out := make([]flatComment, 0, len(comments))
	for _, c := range comments {
		if c.Parent != parent {
			out = append(out, c)
		}
	}
	return out
}

func commentIndex(comments []flatComment, id int64) int {
	return slices.IndexFunc(comments, func(c flatComment) bool { return c.ID == id })
}

// orderBy sorts items by the resolved column, breaking ties by key ascending.
func orderBy[T any](items []T, desc bool, by func(a, b T) int, key func(a, b T) int) {
	slices.SortStableFunc(items, func(a, b T) int {
		c := by(a, b)
		if desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return key(a, b)
	})
}
