package publish

import (
	"github.com/dt-pm-tools/readme-publish/internal/markdown"
)

// Method records which mutation a run issued.
type Method string

const (
	MethodCreate Method = "POST"
	MethodUpdate Method = "UPDATE"
)

// Post is the platform-neutral view of a remote post.
type Post struct {
	ID          string
	Slug        string // only on slug-routed platforms
	Title       string
	URL         string
	PublishedAt string
	UpdatedAt   string
}

// Hint is what a previous successful run left behind. Only ID is used for
// matching; the other fields are echoed back on failure so the caller can
// persist them unchanged.
type Hint struct {
	ID          string `json:"id,omitempty"           yaml:"id,omitempty"`
	Slug        string `json:"slug,omitempty"         yaml:"slug,omitempty"`
	Title       string `json:"title,omitempty"        yaml:"title,omitempty"`
	URL         string `json:"url,omitempty"          yaml:"url,omitempty"`
	PublishedAt string `json:"published_at,omitempty" yaml:"published_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"   yaml:"updated_at,omitempty"`
}

// Empty reports whether the hint carries no id. A hint without an id means
// "no hint" regardless of the other fields.
func (h *Hint) Empty() bool {
	return h == nil || h.ID == ""
}

// RunContext is everything the reconciler knows about one run. It is the
// only cross-run memory: nothing is read from the environment directly.
type RunContext struct {
	Document markdown.Document
	Hint     *Hint
}

// Result describes the post a successful run created or updated.
type Result struct {
	ID          string `json:"id"                     yaml:"id"`
	Slug        string `json:"slug,omitempty"         yaml:"slug,omitempty"`
	Title       string `json:"title"                  yaml:"title"`
	URL         string `json:"url"                    yaml:"url"`
	PublishedAt string `json:"published_at"           yaml:"published_at"`
	UpdatedAt   string `json:"updated_at"             yaml:"updated_at"`
	Method      Method `json:"method"                 yaml:"method"`
}

// Hint converts a result into the hint the next run should be given.
func (r *Result) Hint() *Hint {
	return &Hint{
		ID:          r.ID,
		Slug:        r.Slug,
		Title:       r.Title,
		URL:         r.URL,
		PublishedAt: r.PublishedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func newResult(p *Post, method Method) *Result {
	updated := p.UpdatedAt
	if updated == "" {
		updated = p.PublishedAt
	}
	return &Result{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       p.Title,
		URL:         p.URL,
		PublishedAt: p.PublishedAt,
		UpdatedAt:   updated,
		Method:      method,
	}
}
