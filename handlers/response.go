package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every response body is one of:
//
//	{"success": true, "data": ...}
//	{"success": true, "message": "..."}
//	{"success": false, "error": "..."}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

func respondError(c *gin.Context, err error) {
	var apiErr *apiError
	if !errors.As(err, &apiErr) {
		log.Printf("Unhandled error for %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		apiErr = errInternal
	}
	c.AbortWithStatusJSON(apiErr.status, gin.H{"success": false, "error": apiErr.message})
}
