package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coursehub-server-go/models"
)

func (h *APIHandler) discussionSurface() surface {
	return surface{
		resources: []string{"topics", "replies"},
		actions: map[endpoint]action{
			{http.MethodGet, "topics"}:     h.getTopics,
			{http.MethodPost, "topics"}:    h.createTopic,
			{http.MethodPut, "topics"}:     h.updateTopic,
			{http.MethodDelete, "topics"}:  h.deleteTopic,
			{http.MethodGet, "replies"}:    h.getReplies,
			{http.MethodPost, "replies"}:   h.createReply,
			{http.MethodPut, "replies"}:    h.updateReply,
			{http.MethodDelete, "replies"}: h.deleteReply,
		},
	}
}

func (h *APIHandler) getTopics(c *gin.Context, req *request) error {
	ctx := c.Request.Context()
	if id, _ := req.lookup([]string{"id", "topic_id"}); id != "" {
		topic, err := h.Store.GetTopic(ctx, id)
		if err != nil {
			return storeError(err, "get topic "+id, topicEntity)
		}
		respondData(c, http.StatusOK, topic)
		return nil
	}

	topics, err := h.Store.ListTopics(ctx, req.listQuery())
	if err != nil {
		return storeError(err, "list topics", topicEntity)
	}
	respondData(c, http.StatusOK, topics)
	return nil
}

func (h *APIHandler) createTopic(c *gin.Context, req *request) error {
	var t models.Topic
	fields := []struct {
		key string
		dst *string
	}{
		{"topic_id", &t.ID}, {"subject", &t.Subject}, {"message", &t.Message}, {"author", &t.Author},
	}
	for _, f := range fields {
		v, _, err := req.body.text(f.key)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	t.ID = strings.TrimSpace(t.ID)
	t.Subject = models.Sanitize(t.Subject)
	t.Message = models.Sanitize(t.Message)
	t.Author = models.Sanitize(t.Author)
	if t.ID == "" || t.Subject == "" || t.Message == "" || t.Author == "" {
		return badRequest("topic_id, subject, message, and author are required")
	}

	if err := h.Store.CreateTopic(c.Request.Context(), &t); err != nil {
		return storeError(err, "create topic "+t.ID, topicEntity)
	}
	respondData(c, http.StatusCreated, t)
	return nil
}

func (h *APIHandler) updateTopic(c *gin.Context, req *request) error {
	id, err := req.lookup([]string{"id"}, "topic_id", "id")
	if err != nil {
		return err
	}
	if id == "" {
		return badRequest("Topic ID is required")
	}
	ctx := c.Request.Context()
	if _, err := h.Store.GetTopic(ctx, id); err != nil {
		return storeError(err, "get topic "+id, topicEntity)
	}

	var patch models.TopicPatch
	if v, ok, err := req.body.text("subject"); err != nil {
		return err
	} else if ok {
		subject := models.Sanitize(v)
		if subject == "" {
			return badRequest("subject cannot be empty")
		}
		patch.Subject = &subject
	}
	if v, ok, err := req.body.text("message"); err != nil {
		return err
	} else if ok {
		message := models.Sanitize(v)
		if message == "" {
			return badRequest("message cannot be empty")
		}
		patch.Message = &message
	}
	if patch.Empty() {
		return errNoFields
	}

	updated, err := h.Store.UpdateTopic(ctx, id, patch)
	if err != nil {
		return storeError(err, "update topic "+id, topicEntity)
	}
	respondData(c, http.StatusOK, updated)
	return nil
}

func (h *APIHandler) deleteTopic(c *gin.Context, req *request) error {
	id, err := req.lookup([]string{"id", "topic_id"}, "id", "topic_id")
	if err != nil {
		return err
	}
	if id == "" {
		return badRequest("Topic ID is required")
	}
	if err := h.Store.DeleteTopic(c.Request.Context(), id); err != nil {
		return storeError(err, "delete topic "+id, topicEntity)
	}
	respondMessage(c, "Topic and its replies deleted successfully")
	return nil
}

// getReplies serves ?id= for one reply, otherwise ?topic_id= for the thread
func (h *APIHandler) getReplies(c *gin.Context, req *request) error {
	ctx := c.Request.Context()
	if id := req.query("id"); id != "" {
		reply, err := h.Store.GetReply(ctx, id)
		if err != nil {
			return storeError(err, "get reply "+id, replyEntity)
		}
		respondData(c, http.StatusOK, reply)
		return nil
	}

	topicID := req.query("topic_id")
	if topicID == "" {
		return badRequest("Topic ID is required")
	}
	replies, err := h.Store.ListReplies(ctx, topicID)
	if err != nil {
		return storeError(err, "list replies for "+topicID, replyEntity)
	}
	respondData(c, http.StatusOK, replies)
	return nil
}

func (h *APIHandler) createReply(c *gin.Context, req *request) error {
	var r models.Reply
	fields := []struct {
		key string
		dst *string
	}{
		{"reply_id", &r.ID}, {"topic_id", &r.TopicID}, {"text", &r.Text}, {"author", &r.Author},
	}
	for _, f := range fields {
		v, _, err := req.body.text(f.key)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	r.ID = strings.TrimSpace(r.ID)
	r.TopicID = strings.TrimSpace(r.TopicID)
	r.Text = models.Sanitize(r.Text)
	r.Author = models.Sanitize(r.Author)
	if r.ID == "" || r.TopicID == "" || r.Text == "" || r.Author == "" {
		return badRequest("reply_id, topic_id, text, and author are required")
	}

	if err := h.Store.CreateReply(c.Request.Context(), &r); err != nil {
		return storeError(err, "create reply "+r.ID, replyEntity)
	}
	respondData(c, http.StatusCreated, r)
	return nil
}

func (h *APIHandler) updateReply(c *gin.Context, req *request) error {
	id, err := req.lookup([]string{"id"}, "reply_id", "id")
	if err != nil {
		return err
	}
	if id == "" {
		return badRequest("Reply ID is required")
	}
	ctx := c.Request.Context()
	if _, err := h.Store.GetReply(ctx, id); err != nil {
		return storeError(err, "get reply "+id, replyEntity)
	}
	patch, err := textPatch(req.body)
	if err != nil {
		return err
	}
	updated, err := h.Store.UpdateReply(ctx, id, patch)
	if err != nil {
		return storeError(err, "update reply "+id, replyEntity)
	}
	respondData(c, http.StatusOK, updated)
	return nil
}

func (h *APIHandler) deleteReply(c *gin.Context, req *request) error {
	id, err := req.lookup([]string{"id", "reply_id"}, "id", "reply_id")
	if err != nil {
		return err
	}
	if id == "" {
		return badRequest("Reply ID is required")
	}
	if err := h.Store.DeleteReply(c.Request.Context(), id); err != nil {
		return storeError(err, "delete reply "+id, replyEntity)
	}
	respondMessage(c, "Reply deleted successfully")
	return nil
}
