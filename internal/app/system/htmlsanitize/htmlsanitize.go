// Package htmlsanitize strips markup from user-supplied text before it is
// echoed into template.HTML values (form error messages and the like).
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Sanitize removes all HTML from s and unescapes the remaining entities,
// returning plain text safe to embed in a message that is later rendered
// through html/template escaping.
func Sanitize(s string) string {
	clean := strict.Sanitize(s)
	return strings.TrimSpace(html.UnescapeString(clean))
}
