package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coursehub-server-go/models"
)

func (h *APIHandler) weeklySurface() surface {
	return surface{
		resources: []string{"weeks", "comments"},
		actions: map[endpoint]action{
			{http.MethodGet, "weeks"}:       h.getWeeks,
			{http.MethodPost, "weeks"}:      h.createWeek,
			{http.MethodPut, "weeks"}:       h.updateWeek,
			{http.MethodDelete, "weeks"}:    h.deleteWeek,
			{http.MethodGet, "comments"}:    h.getWeekComments,
			{http.MethodPost, "comments"}:   h.createWeekComment,
			{http.MethodPut, "comments"}:    h.updateWeekComment,
			{http.MethodDelete, "comments"}: h.deleteWeekComment,
		},
	}
}

func (h *APIHandler) getWeeks(c *gin.Context, req *request) error {
	ctx := c.Request.Context()
	if id := req.query("week_id"); id != "" {
		week, err := h.Store.GetWeek(ctx, id)
		if err != nil {
			return storeError(err, "get week "+id, weekEntity)
		}
		respondData(c, http.StatusOK, week)
		return nil
	}

	weeks, err := h.Store.ListWeeks(ctx, req.listQuery())
	if err != nil {
		return storeError(err, "list weeks", weekEntity)
	}
	respondData(c, http.StatusOK, weeks)
	return nil
}

var errWeekFields = badRequest("id, title, startDate, and description are required")

// cleanWeek sanitizes a new week and checks its required fields.
func cleanWeek(w models.Week) (models.Week, error) {
	w.ID = strings.TrimSpace(w.ID)
	w.Title = models.Sanitize(w.Title)
	w.StartDate = strings.TrimSpace(w.StartDate)
	w.Description = models.Sanitize(w.Description)
	w.Links = models.CleanLinks(w.Links)
	if w.ID == "" || w.Title == "" || w.StartDate == "" {
		return w, errWeekFields
	}
	if !models.ValidDate(w.StartDate) {
		return w, badRequest("Invalid startDate format. Use YYYY-MM-DD")
	}
	return w, nil
}

func (h *APIHandler) createWeek(c *gin.Context, req *request) error {
	var w models.Week
	var err error
	if w.ID, _, err = req.body.text("id"); err != nil {
		return err
	}
	if w.Title, _, err = req.body.text("title"); err != nil {
		return err
	}
	if w.StartDate, _, err = req.body.firstText("startDate", "start_date"); err != nil {
		return err
	}
	var hasDescription bool
	if w.Description, hasDescription, err = req.body.text("description"); err != nil {
		return err
	}
	// description may be empty but must be sent
	if !hasDescription {
		return errWeekFields
	}
	if w.Links, _, err = req.body.list("links"); err != nil {
		return err
	}

	if w, err = cleanWeek(w); err != nil {
		return err
	}
	if err := h.Store.CreateWeek(c.Request.Context(), &w); err != nil {
		return storeError(err, "create week "+w.ID, weekEntity)
	}
	respondData(c, http.StatusCreated, w)
	return nil
}

func (h *APIHandler) updateWeek(c *gin.Context, req *request) error {
	id, err := req.lookup([]string{"week_id"}, "id", "week_id")
	if err != nil {
		return err
	}
	if id == "" {
		return badRequest("id is required")
	}
	ctx := c.Request.Context()
	if _, err := h.Store.GetWeek(ctx, id); err != nil {
		return storeError(err, "get week "+id, weekEntity)
	}

	var patch models.WeekPatch
	if v, ok, err := req.body.text("title"); err != nil {
		return err
	} else if ok {
		title := models.Sanitize(v)
		if title == "" {
			return badRequest("title cannot be empty")
		}
		patch.Title = &title
	}
	if v, ok, err := req.body.firstText("startDate", "start_date"); err != nil {
		return err
	} else if ok {
		start := strings.TrimSpace(v)
		if !models.ValidDate(start) {
			return badRequest("Invalid startDate format. Use YYYY-MM-DD")
		}
		patch.StartDate = &start
	}
	if v, ok, err := req.body.text("description"); err != nil {
		return err
	} else if ok {
		desc := models.Sanitize(v)
		patch.Description = &desc
	}
	if v, ok, err := req.body.list("links"); err != nil {
		return err
	} else if ok {
		links := models.CleanLinks(v)
		patch.Links = &links
	}
	if patch.Empty() {
		return errNoFields
	}

	updated, err := h.Store.UpdateWeek(ctx, id, patch)
	if err != nil {
		return storeError(err, "update week "+id, weekEntity)
	}
	respondData(c, http.StatusOK, updated)
	return nil
}

func (h *APIHandler) deleteWeek(c *gin.Context, req *request) error {
	id, err := req.lookup([]string{"week_id", "id"}, "week_id", "id")
	if err != nil {
		return err
	}
	if id == "" {
		return badRequest("week_id is required")
	}
	if err := h.Store.DeleteWeek(c.Request.Context(), id); err != nil {
		return storeError(err, "delete week "+id, weekEntity)
	}
	respondMessage(c, "Week and associated comments deleted successfully")
	return nil
}

func (h *APIHandler) getWeekComments(c *gin.Context, req *request) error {
	ctx := c.Request.Context()
	if raw := req.query("id"); raw != "" {
		id, err := intID(raw, "id is required")
		if err != nil {
			return err
		}
		comment, err := h.Store.GetWeekComment(ctx, id)
		if err != nil {
			return storeError(err, "get week comment "+raw, weekCommentEntity)
		}
		respondData(c, http.StatusOK, comment)
		return nil
	}

	weekID := req.query("week_id")
	if weekID == "" {
		return badRequest("week_id is required")
	}
	comments, err := h.Store.ListWeekComments(ctx, weekID)
	if err != nil {
		return storeError(err, "list week comments for "+weekID, weekCommentEntity)
	}
	respondData(c, http.StatusOK, comments)
	return nil
}

func (h *APIHandler) createWeekComment(c *gin.Context, req *request) error {
	weekID, _, err := req.body.text("week_id")
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

	comment := models.WeekComment{
		WeekID: strings.TrimSpace(weekID),
		Author: models.Sanitize(author),
		Text:   models.Sanitize(text),
	}
	if comment.WeekID == "" || comment.Author == "" || comment.Text == "" {
		return badRequest("week_id, author, and text are required")
	}

	if err := h.Store.CreateWeekComment(c.Request.Context(), &comment); err != nil {
		return storeError(err, "create week comment", weekCommentEntity)
	}
	respondData(c, http.StatusCreated, comment)
	return nil
}

func (h *APIHandler) updateWeekComment(c *gin.Context, req *request) error {
	raw, err := req.lookup([]string{"id"}, "id")
	if err != nil {
		return err
	}
	id, err := intID(raw, "id is required")
	if err != nil {
		return err
	}
	ctx := c.Request.Context()
	if _, err := h.Store.GetWeekComment(ctx, id); err != nil {
		return storeError(err, "get week comment "+raw, weekCommentEntity)
	}
	patch, err := textPatch(req.body)
	if err != nil {
		return err
	}
	updated, err := h.Store.UpdateWeekComment(ctx, id, patch)
	if err != nil {
		return storeError(err, "update week comment "+raw, weekCommentEntity)
	}
	respondData(c, http.StatusOK, updated)
	return nil
}

func (h *APIHandler) deleteWeekComment(c *gin.Context, req *request) error {
	raw, err := req.lookup([]string{"id"}, "id")
	if err != nil {
		return err
	}
	id, err := intID(raw, "id is required")
	if err != nil {
		return err
	}
	if err := h.Store.DeleteWeekComment(c.Request.Context(), id); err != nil {
		return storeError(err, "delete week comment "+raw, weekCommentEntity)
	}
	respondMessage(c, "Comment deleted successfully")
	return nil
}
