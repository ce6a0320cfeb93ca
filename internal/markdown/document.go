package markdown

import (
	"fmt"
	"strings"
)

// DefaultTitle is used when the document has no level-1 heading.
const DefaultTitle = "Untitled Post"

// Document is the platform-ready form of a README.
type Document struct {
	Title string
	Tags  []string // nil when the document declares no tags
	Body  string
}

// HasTags reports whether the document carries at least one tag. Callers
// omit the tags field from payloads entirely when it returns false.
func (d Document) HasTags() bool {
	return len(d.Tags) > 0
}

// Repo identifies the repository relative assets are served from.
type Repo struct {
	Owner  string
	Name   string
	Branch string
}

// RawURL returns the raw-content URL for a path inside the repository.
// Backslash separators are normalized to forward slashes.
func (r Repo) RawURL(path string) string {
	path = strings.ReplaceAll(path, `\`, "/")
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", r.Owner, r.Name, r.Branch, path)
}

// String renders the repository as owner/name@branch.
func (r Repo) String() string {
	return fmt.Sprintf("%s/%s@%s", r.Owner, r.Name, r.Branch)
}

// Policy switches the platform-dependent rewrite steps on or off.
type Policy struct {
	// RewriteFileLinks rewrites relative links to binary assets
	// (documents, media, fonts) to raw-content URLs.
	RewriteFileLinks bool
	// StripBadges removes badge images and the lines that carry them.
	StripBadges bool
}
