package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"coursehub-server-go/models"
)

// flexString accepts a JSON string or number, so ids can be sent either way.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// payload is a decoded JSON object body, kept raw so handlers can tell an
// absent field from an empty one.
type payload map[string]json.RawMessage

// decodeBody binds the JSON object body. An empty body reads as {}.
func decodeBody(c *gin.Context) (payload, error) {
	p := payload{}
	if err := c.ShouldBindJSON(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return payload{}, nil
		}
		return nil, errInvalidJSON
	}
	if p == nil {
		// a literal null body
		return nil, errInvalidJSON
	}
	return p, nil
}

// text returns the scalar value of key. present is false when the key is
// missing or null.
func (p payload) text(key string) (value string, present bool, err error) {
	raw, ok := p[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", false, nil
	}
	var f flexString
	if err := json.Unmarshal(raw, &f); err != nil {
		return "", false, badRequest("Invalid value for " + key)
	}
	return string(f), true, nil
}

// firstText is text over several accepted spellings of one field.
func (p payload) firstText(keys ...string) (string, bool, error) {
	for _, key := range keys {
		v, ok, err := p.text(key)
		if err != nil || ok {
			return v, ok, err
		}
	}
	return "", false, nil
}

// list returns the string array stored under key.
func (p payload) list(key string) ([]string, bool, error) {
	raw, ok := p[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false, nil
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, badRequest(key + " must be a list of strings")
	}
	return items, true, nil
}

// request is what a resource action sees of the incoming call.
type request struct {
	c    *gin.Context
	body payload
}

func (r *request) query(name string) string {
	return strings.TrimSpace(r.c.Query(name))
}

// lookup returns the first non-empty value among the query parameters, then
// the body fields.
func (r *request) lookup(queryKeys []string, bodyKeys ...string) (string, error) {
	for _, key := range queryKeys {
		if v := r.query(key); v != "" {
			return v, nil
		}
	}
	for _, key := range bodyKeys {
		v, _, err := r.body.text(key)
		if err != nil {
			return "", err
		}
		if v = strings.TrimSpace(v); v != "" {
			return v, nil
		}
	}
	return "", nil
}

func (r *request) listQuery() models.ListQuery {
	return models.ListQuery{
		Search: r.query("search"),
		Sort:   r.query("sort"),
		Order:  r.query("order"),
	}
}

// intID parses a numeric record id; missing maps to the given 400 message.
func intID(raw, missing string) (int64, error) {
	if raw == "" {
		return 0, badRequest(missing)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("Invalid id: " + raw)
	}
	return id, nil
}
