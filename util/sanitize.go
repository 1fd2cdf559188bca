package util

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// Posts are stored as plain text and escaped again when rendered.
var plainTextPolicy = bluemonday.StrictPolicy()

// SanitizePlainText strips all markup from val and unescapes the entities
// left behind. The result is raw text: only write it through html/template or JSON.
func SanitizePlainText(val string) string {
	return html.UnescapeString(plainTextPolicy.Sanitize(val))
}
