package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursehub-server-go/db"
)

// APIHandler holds the dependencies for API handlers, like the course store
type APIHandler struct {
	Store db.Store
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(store db.Store) *APIHandler {
	return &APIHandler{
		Store: store,
	}
}

// PingHandler handles GET /api/ping
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Pong!"})
}
