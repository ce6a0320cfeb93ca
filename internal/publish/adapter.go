package publish

import (
	"context"

	"github.com/dt-pm-tools/readme-publish/internal/markdown"
)

// Adapter is one blogging platform. Implementations own transport,
// authentication and payload shaping (tags included); the reconciler only
// ever hands them a markdown.Document.
type Adapter interface {
	// Name is the platform name used in logs and errors.
	Name() string
	// ValidID reports whether id has this platform's identifier shape.
	ValidID(id string) bool
	// ListPosts returns one page of the authenticated user's posts.
	ListPosts(ctx context.Context) ([]Post, error)
	Create(ctx context.Context, doc markdown.Document) (*Post, error)
	Update(ctx context.Context, id string, doc markdown.Document) (*Post, error)
}

// SlugFinder is implemented by platforms that can look a post up by slug.
// FindBySlug returns nil, nil when no post has that slug.
type SlugFinder interface {
	FindBySlug(ctx context.Context, slug string) (*Post, error)
}
