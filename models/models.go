package models

import "time"

// Assignment represents a course assignment
type Assignment struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     string    `json:"dueDate"` // YYYY-MM-DD
	Files       []string  `json:"files"`   // Ordered list of filenames
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AssignmentComment is a discussion comment attached to an assignment
type AssignmentComment struct {
	ID           int64     `json:"id"`
	AssignmentID int64     `json:"assignment_id"`
	Author       string    `json:"author"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
}

// Topic represents a discussion board topic
type Topic struct {
	ID        string    `json:"topic_id"` // Caller supplied, e.g. "topic_1700000000"
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// Reply represents a reply posted under a topic
type Reply struct {
	ID        string    `json:"reply_id"` // Caller supplied, e.g. "reply_1700000000"
	TopicID   string    `json:"topic_id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// Week represents one entry of the weekly breakdown
type Week struct {
	ID          string   `json:"id"` // Caller supplied, e.g. "week_1"
	Title       string   `json:"title"`
	StartDate   string   `json:"startDate"` // YYYY-MM-DD
	Description string   `json:"description"`
	Links       []string `json:"links"` // Ordered list of URLs
}

// WeekComment is a question or comment posted on a week
type WeekComment struct {
	ID        int64     `json:"id"`
	WeekID    string    `json:"week_id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// ListQuery carries the optional list parameters shared by every collection.
// Sort and Order are raw client values; stores fall back to their defaults
// for anything outside the whitelist.
type ListQuery struct {
	Search string
	Sort   string
	Order  string
}

// AssignmentPatch holds the fields supplied in a partial update. Nil means untouched.
type AssignmentPatch struct {
	Title       *string
	Description *string
	DueDate     *string
	Files       *[]string
}

// Empty reports whether the patch changes nothing.
func (p AssignmentPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil && p.Files == nil
}

// TopicPatch holds the fields supplied in a partial topic update.
type TopicPatch struct {
	Subject *string
	Message *string
}

// Empty reports whether the patch changes nothing.
func (p TopicPatch) Empty() bool {
	return p.Subject == nil && p.Message == nil
}

// WeekPatch holds the fields supplied in a partial week update.
type WeekPatch struct {
	Title       *string
	StartDate   *string
	Description *string
	Links       *[]string
}

// Empty reports whether the patch changes nothing.
func (p WeekPatch) Empty() bool {
	return p.Title == nil && p.StartDate == nil && p.Description == nil && p.Links == nil
}

// TextPatch is the partial update shared by comments and replies.
type TextPatch struct {
	Author *string
	Text   *string
}

// Empty reports whether the patch changes nothing.
func (p TextPatch) Empty() bool {
	return p.Author == nil && p.Text == nil
}

// Apply copies the supplied patch fields onto a.
func (p AssignmentPatch) Apply(a *Assignment) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.DueDate != nil {
		a.DueDate = *p.DueDate
	}
	if p.Files != nil {
		a.Files = append([]string{}, (*p.Files)...)
	}
}

// Apply copies the supplied patch fields onto t.
func (p TopicPatch) Apply(t *Topic) {
	if p.Subject != nil {
		t.Subject = *p.Subject
	}
	if p.Message != nil {
		t.Message = *p.Message
	}
}

// Apply copies the supplied patch fields onto w.
func (p WeekPatch) Apply(w *Week) {
	if p.Title != nil {
		w.Title = *p.Title
	}
	if p.StartDate != nil {
		w.StartDate = *p.StartDate
	}
	if p.Description != nil {
		w.Description = *p.Description
	}
	if p.Links != nil {
		w.Links = append([]string{}, (*p.Links)...)
	}
}

// Now returns the current time in the precision every store can round-trip.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
