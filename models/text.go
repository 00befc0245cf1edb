package models

import (
	"html"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the only accepted calendar date format.
const DateLayout = "2006-01-02"

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// ValidDate reports whether s is a real calendar date written exactly as YYYY-MM-DD.
// "2024-02-30" and "2024-1-05" are both rejected.
func ValidDate(s string) bool {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return false
	}
	return d.Format(DateLayout) == s
}

// Sanitize trims s, strips markup tags and escapes HTML entities.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = tagPattern.ReplaceAllString(s, "")
	return html.EscapeString(strings.TrimSpace(s))
}

// SanitizeList sanitizes each entry and drops the ones left empty.
func SanitizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if v := Sanitize(item); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// CleanLinks trims each link and drops empty entries. Links are kept unescaped
// so query strings survive.
func CleanLinks(links []string) []string {
	out := make([]string, 0, len(links))
	for _, link := range links {
		if v := strings.TrimSpace(link); v != "" {
			out = append(out, v)
		}
	}
	return out
}
