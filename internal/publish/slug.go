package publish

import (
	"regexp"
	"strings"
)

var (
	slugStripRe  = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaceRe  = regexp.MustCompile(`\s+`)
	slugHyphenRe = regexp.MustCompile(`-+`)
)

// Slugify derives the URL slug slug-routed platforms assign to a title:
// lowercase ASCII letters, digits and single hyphens, no leading or
// trailing hyphen.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugSpaceRe.ReplaceAllString(s, "-")
	s = slugHyphenRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
