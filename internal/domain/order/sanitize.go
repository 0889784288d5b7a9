package order

import (
	"regexp"
	"strings"
)

var (
	reAngles     = regexp.MustCompile(`[<>]`)
	reJavascript = regexp.MustCompile(`(?i)javascript:`)
	reHandler    = regexp.MustCompile(`(?i)on\w+\s*=`)
)

// Sanitize elimina <, >, "javascript:" y atributos on*= de texto libre.
func Sanitize(s string) string {
	s = reAngles.ReplaceAllString(s, "")
	s = reJavascript.ReplaceAllString(s, "")
	s = reHandler.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
