package handlers

import (
	"errors"
	"log"
	"net/http"

	"coursehub-server-go/db"
)

// apiError is an error that is safe to show to a client as is.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string { return e.message }

func badRequest(msg string) *apiError { return &apiError{http.StatusBadRequest, msg} }

func notFound(msg string) *apiError { return &apiError{http.StatusNotFound, msg} }

func conflict(msg string) *apiError { return &apiError{http.StatusConflict, msg} }

var (
	errMethodNotAllowed = &apiError{http.StatusMethodNotAllowed, "Method not allowed"}
	errInvalidJSON      = badRequest("Invalid JSON body")
	errNoFields         = badRequest("No fields to update")
	errInternal         = &apiError{http.StatusInternalServerError, "An error occurred"}
)

// entity names the record a store call was about, for client messages.
type entity struct {
	name      string // "Assignment"
	parent    string // "assignment", for "Parent assignment not found"
	duplicate string // 409 message
}

var (
	assignmentEntity        = entity{name: "Assignment"}
	assignmentCommentEntity = entity{name: "Comment", parent: "assignment"}
	topicEntity             = entity{name: "Topic", duplicate: "Topic ID already exists"}
	replyEntity             = entity{name: "Reply", parent: "topic", duplicate: "Reply ID already exists"}
	weekEntity              = entity{name: "Week", duplicate: "Week with this id already exists"}
	weekCommentEntity       = entity{name: "Comment", parent: "week"}
)

// storeError translates a store failure. Unknown failures are logged with
// the operation and collapse to the generic 500.
func storeError(err error, op string, e entity) error {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return notFound(e.name + " not found")
	case errors.Is(err, db.ErrParentNotFound):
		return notFound("Parent " + e.parent + " not found")
	case errors.Is(err, db.ErrDuplicate):
		msg := e.duplicate
		if msg == "" {
			msg = e.name + " already exists"
		}
		return conflict(msg)
	default:
		log.Printf("Error in %s: %v", op, err)
		return errInternal
	}
}
