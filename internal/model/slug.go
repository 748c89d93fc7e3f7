package model

import (
	"regexp"
	"strings"
)

const maxSlugLen = 100

var (
	slugStrip    = regexp.MustCompile(`[^a-z0-9 -]`)
	slugSpaces   = regexp.MustCompile(`\s+`)
	slugCollapse = regexp.MustCompile(`-+`)
)

// Slugify derives a URL-safe slug from a title: lowercase, non-alphanumeric
// characters stripped, whitespace runs replaced with single hyphens, hyphen
// runs collapsed, truncated to 100 characters.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugCollapse.ReplaceAllString(s, "-")
	if len(s) > maxSlugLen {
		s = s[:maxSlugLen]
	}
	return s
}
