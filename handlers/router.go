package handlers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the three course surfaces plus the spreadsheet and ping routes.
func NewRouter(h *APIHandler) *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:              []string{"Content-Type", "Authorization"},
		OptionsResponseStatusCode: http.StatusOK,
	}))

	api := router.Group("/api")
	{
		api.Any("/assignments", h.assignmentsSurface().serve())
		api.Any("/discussion", h.discussionSurface().serve())
		api.Any("/weekly", h.weeklySurface().serve())

		// Spreadsheet routes
		api.POST("/assignments/import", h.ImportAssignments)
		api.GET("/assignments/export", h.ExportAssignments)
		api.POST("/weekly/import", h.ImportWeeks)
		api.GET("/weekly/export", h.ExportWeeks)

		api.GET("/ping", PingHandler)
	}
	return router
}
