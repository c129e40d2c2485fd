package util

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()
)

// PlainText strips all markup from a single-line value such as a title or
// display name, and trims surrounding whitespace.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// RichText keeps user-generated-content safe markup and drops the rest.
func RichText(s string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(s))
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
