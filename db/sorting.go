package db

import (
	"html"
	"strings"

	"coursehub-server-go/models"
)

// sortSpec is the whitelist of sortable fields for one collection. Keys are
// the values clients may send, values are canonical column names.
type sortSpec struct {
	allowed      map[string]string
	defaultKey   string
	defaultOrder string
}

var (
	assignmentSort = sortSpec{
		allowed: map[string]string{
			"title":      "title",
			"dueDate":    "due_date",
			"due_date":   "due_date",
			"created_at": "created_at",
			"createdAt":  "created_at",
		},
		defaultKey:   "created_at",
		defaultOrder: "asc",
	}
	topicSort = sortSpec{
		allowed: map[string]string{
			"subject":    "subject",
			"author":     "author",
			"created_at": "created_at",
		},
		defaultKey:   "created_at",
		defaultOrder: "desc",
	}
	weekSort = sortSpec{
		allowed: map[string]string{
			"title":     "title",
			"startDate": "start_date",
		},
		defaultKey:   "start_date",
		defaultOrder: "asc",
	}
)

// resolve maps raw client values onto the whitelist, falling back to the defaults.
func (s sortSpec) resolve(q models.ListQuery) (column string, desc bool) {
	column, ok := s.allowed[q.Sort]
	if !ok {
		column = s.defaultKey
	}
	order := strings.ToLower(q.Order)
	if order != "asc" && order != "desc" {
		order = s.defaultOrder
	}
	return column, order == "desc"
}

// searchTerm puts a raw search into the entity-escaped form text is stored in.
func searchTerm(search string) string {
	return strings.ToLower(html.EscapeString(search))
}

// matches reports whether any field contains search, ignoring case.
func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	needle := searchTerm(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
