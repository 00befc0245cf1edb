package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coursehub-server-go/models"
)

func (h *APIHandler) assignmentsSurface() surface {
	return surface{
		resources: []string{"assignments", "comments"},
		actions: map[endpoint]action{
			{http.MethodGet, "assignments"}:    h.getAssignments,
			{http.MethodPost, "assignments"}:   h.createAssignment,
			{http.MethodPut, "assignments"}:    h.updateAssignment,
			{http.MethodDelete, "assignments"}: h.deleteAssignment,
			{http.MethodGet, "comments"}:       h.getAssignmentComments,
			{http.MethodPost, "comments"}:      h.createAssignmentComment,
			{http.MethodPut, "comments"}:       h.updateAssignmentComment,
			{http.MethodDelete, "comments"}:    h.deleteAssignmentComment,
		},
	}
}

// getAssignments handles GET /api/assignments, one record with ?id= or the filtered list
func (h *APIHandler) getAssignments(c *gin.Context, req *request) error {
	if raw := req.query("id"); raw != "" {
		id, err := intID(raw, "id is required")
		if err != nil {
			return err
		}
		a, err := h.Store.GetAssignment(c.Request.Context(), id)
		if err != nil {
			return storeError(err, "get assignment "+raw, assignmentEntity)
		}
		respondData(c, http.StatusOK, a)
		return nil
	}

	assignments, err := h.Store.ListAssignments(c.Request.Context(), req.listQuery())
	if err != nil {
		return storeError(err, "list assignments", assignmentEntity)
	}
	respondData(c, http.StatusOK, assignments)
	return nil
}

// cleanAssignment sanitizes a new assignment and checks its required fields.
func cleanAssignment(a models.Assignment) (models.Assignment, error) {
	a.Title = models.Sanitize(a.Title)
	a.Description = models.Sanitize(a.Description)
	a.DueDate = strings.TrimSpace(a.DueDate)
	a.Files = models.SanitizeList(a.Files)
	if a.Title == "" || a.DueDate == "" {
		return a, badRequest("title and dueDate are required")
	}
	if !models.ValidDate(a.DueDate) {
		return a, badRequest("Invalid dueDate format. Use YYYY-MM-DD")
	}
	return a, nil
}

func (h *APIHandler) createAssignment(c *gin.Context, req *request) error {
	var a models.Assignment
	var err error
	if a.Title, _, err = req.body.text("title"); err != nil {
		return err
	}
	if a.Description, _, err = req.body.text("description"); err != nil {
		return err
	}
	if a.DueDate, _, err = req.body.firstText("dueDate", "due_date"); err != nil {
		return err
	}
	if a.Files, _, err = req.body.list("files"); err != nil {
		return err
	}

	if a, err = cleanAssignment(a); err != nil {
		return err
	}
	if err := h.Store.CreateAssignment(c.Request.Context(), &a); err != nil {
		return storeError(err, "create assignment", assignmentEntity)
	}
	respondData(c, http.StatusCreated, a)
	return nil
}

func (h *APIHandler) updateAssignment(c *gin.Context, req *request) error {
	raw, err := req.lookup([]string{"id"}, "id")
	if err != nil {
		return err
	}
	id, err := intID(raw, "id is required")
	if err != nil {
		return err
	}
	ctx := c.Request.Context()
	if _, err := h.Store.GetAssignment(ctx, id); err != nil {
		return storeError(err, "get assignment "+raw, assignmentEntity)
	}

	var patch models.AssignmentPatch
	if v, ok, err := req.body.text("title"); err != nil {
		return err
	} else if ok {
		title := models.Sanitize(v)
		if title == "" {
			return badRequest("title cannot be empty")
		}
		patch.Title = &title
	}
	if v, ok, err := req.body.text("description"); err != nil {
		return err
	} else if ok {
		desc := models.Sanitize(v)
		patch.Description = &desc
	}
	if v, ok, err := req.body.firstText("dueDate", "due_date"); err != nil {
		return err
	} else if ok {
		due := strings.TrimSpace(v)
		if !models.ValidDate(due) {
			return badRequest("Invalid dueDate format. Use YYYY-MM-DD")
		}
		patch.DueDate = &due
	}
	if v, ok, err := req.body.list("files"); err != nil {
		return err
	} else if ok {
		files := models.SanitizeList(v)
		patch.Files = &files
	}
	if patch.Empty() {
		return errNoFields
	}

	updated, err := h.Store.UpdateAssignment(ctx, id, patch)
	if err != nil {
		return storeError(err, "update assignment "+raw, assignmentEntity)
	}
	respondData(c, http.StatusOK, updated)
	return nil
}

func (h *APIHandler) deleteAssignment(c *gin.Context, req *request) error {
	raw, err := req.lookup([]string{"id"}, "id")
	if err != nil {
		return err
	}
	id, err := intID(raw, "id is required")
	if err != nil {
		return err
	}
	if err := h.Store.DeleteAssignment(c.Request.Context(), id); err != nil {
		return storeError(err, "delete assignment "+raw, assignmentEntity)
	}
	respondMessage(c, "Assignment and associated comments deleted successfully")
	return nil
}

// getAssignmentComments serves ?id= for one comment, otherwise ?assignment_id= for the list
func (h *APIHandler) getAssignmentComments(c *gin.Context, req *request) error {
	ctx := c.Request.Context()
	if raw := req.query("id"); raw != "" {
		id, err := intID(raw, "id is required")
		if err != nil {
			return err
		}
		comment, err := h.Store.GetAssignmentComment(ctx, id)
		if err != nil {
			return storeError(err, "get assignment comment "+raw, assignmentCommentEntity)
		}
		respondData(c, http.StatusOK, comment)
		return nil
	}

	assignmentID, err := intID(req.query("assignment_id"), "assignment_id is required")
	if err != nil {
		return err
	}
	comments, err := h.Store.ListAssignmentComments(ctx, assignmentID)
	if err != nil {
		return storeError(err, "list assignment comments", assignmentCommentEntity)
	}
	respondData(c, http.StatusOK, comments)
	return nil
}

func (h *APIHandler) createAssignmentComment(c *gin.Context, req *request) error {
	rawParent, _, err := req.body.firstText("assignment_id", "assignmentId")
	if err != nil {
		return err
	}
	author, _, err := req.body.text("author")
	if err != nil {
		return err
	}
	text, _, err := req.body.text("text")
	if err != nil {
		return err
	}

	comment := models.AssignmentComment{Author: models.Sanitize(author), Text: models.Sanitize(text)}
	rawParent = strings.TrimSpace(rawParent)
	if rawParent == "" || comment.Author == "" || comment.Text == "" {
		return badRequest("assignment_id, author, and text are required")
	}
	if comment.AssignmentID, err = intID(rawParent, "assignment_id is required"); err != nil {
		return err
	}

	if err := h.Store.CreateAssignmentComment(c.Request.Context(), &comment); err != nil {
		return storeError(err, "create assignment comment", assignmentCommentEntity)
	}
	respondData(c, http.StatusCreated, comment)
	return nil
}

func (h *APIHandler) updateAssignmentComment(c *gin.Context, req *request) error {
	raw, err := req.lookup([]string{"id"}, "id")
	if err != nil {
		return err
	}
	id, err := intID(raw, "id is required")
	if err != nil {
		return err
	}
	ctx := c.Request.Context()
	if _, err := h.Store.GetAssignmentComment(ctx, id); err != nil {
		return storeError(err, "get assignment comment "+raw, assignmentCommentEntity)
	}
	patch, err := textPatch(req.body)
	if err != nil {
		return err
	}
	updated, err := h.Store.UpdateAssignmentComment(ctx, id, patch)
	if err != nil {
		return storeError(err, "update assignment comment "+raw, assignmentCommentEntity)
	}
	respondData(c, http.StatusOK, updated)
	return nil
}

func (h *APIHandler) deleteAssignmentComment(c *gin.Context, req *request) error {
	raw, err := req.lookup([]string{"id"}, "id")
	if err != nil {
		return err
	}
	id, err := intID(raw, "id is required")
	if err != nil {
		return err
	}
	if err := h.Store.DeleteAssignmentComment(c.Request.Context(), id); err != nil {
		return storeError(err, "delete assignment comment "+raw, assignmentCommentEntity)
	}
	respondMessage(c, "Comment deleted successfully")
	return nil
}

// textPatch reads the author/text update shared by comments and replies.
func textPatch(body payload) (models.TextPatch, error) {
	var patch models.TextPatch
	if v, ok, err := body.text("author"); err != nil {
		return patch, err
	} else if ok {
		author := models.Sanitize(v)
		if author == "" {
			return patch, badRequest("author cannot be empty")
		}
		patch.Author = &author
	}
	if v, ok, err := body.text("text"); err != nil {
		return patch, err
	} else if ok {
		text := models.Sanitize(v)
		if text == "" {
			return patch, badRequest("text cannot be empty")
		}
		patch.Text = &text
	}
	if patch.Empty() {
		return patch, errNoFields
	}
	return patch, nil
}
