package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// action serves one (method, resource) pair. A returned error becomes the
// response; on success the action has already written its body.
type action func(c *gin.Context, req *request) error

type endpoint struct {
	method   string
	resource string
}

// surface is one API path multiplexed over the resource query parameter.
type surface struct {
	resources []string // first entry is served when resource is omitted
	actions   map[endpoint]action
}

func (s surface) known(resource string) bool {
	for _, r := range s.resources {
		if r == resource {
			return true
		}
	}
	return false
}

func (s surface) invalidResource() *apiError {
	quoted := make([]string, len(s.resources))
	for i, r := range s.resources {
		quoted[i] = "'" + r + "'"
	}
	return badRequest("Invalid resource. Use " + strings.Join(quoted, " or "))
}

// serve turns a surface into a gin handler registered for every method.
func (s surface) serve() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method == http.MethodOptions {
			c.Status(http.StatusOK)
			return
		}

		resource := strings.TrimSpace(c.Query("resource"))
		if resource == "" {
			resource = s.resources[0]
		}
		if !s.known(resource) {
			respondError(c, s.invalidResource())
			return
		}
		act, ok := s.actions[endpoint{method, resource}]
		if !ok {
			respondError(c, errMethodNotAllowed)
			return
		}

		req := &request{c: c, body: payload{}}
		switch method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			body, err := decodeBody(c)
			if err != nil {
				respondError(c, err)
				return
			}
			req.body = body
		}

		if err := act(c, req); err != nil {
			respondError(c, err)
		}
	}
}
