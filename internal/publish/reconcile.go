package publish

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dt-pm-tools/readme-publish/internal/logger"
)

// strategy resolves the post a run should update. It returns nil when it
// has no answer; errors are reported to the reconciler, which logs them and
// moves on.
type strategy struct {
	name string
	find func(ctx context.Context, rc RunContext) (*Post, error)
}

// Reconciler decides between create and update and issues exactly one
// mutation against its adapter.
type Reconciler struct {
	adapter Adapter
	logger  *slog.Logger
}

// NewReconciler returns a reconciler for adapter. A nil logger discards
// diagnostics.
func NewReconciler(adapter Adapter, log *slog.Logger) *Reconciler {
	if log == nil {
		log = logger.Discard()
	}
	return &Reconciler{
		adapter: adapter,
		logger:  log.With("platform", adapter.Name()),
	}
}

// strategies lists the identity strategies in the order they are tried.
func (r *Reconciler) strategies() []strategy {
	list := []strategy{
		{name: "saved id", find: r.fromHint},
		{name: "title", find: r.byTitle},
	}
	if finder, ok := r.adapter.(SlugFinder); ok {
		list = append(list, strategy{
			name: "slug",
			find: func(ctx context.Context, rc RunContext) (*Post, error) {
				return r.bySlug(ctx, finder, rc)
			},
		})
	}
	return list
}

// Resolve returns the post to update, or nil when the document has not
// been published yet. The first strategy with an answer wins.
func (r *Reconciler) Resolve(ctx context.Context, rc RunContext) *Post {
	for _, s := range r.strategies() {
		post, err := s.find(ctx, rc)
		if err != nil {
			r.logger.Warn("lookup failed, treating as no match", "strategy", s.name, "error", err)
			continue
		}
		if post != nil {
			r.logger.Info("found existing post", "strategy", s.name, "id", post.ID)
			return post
		}
	}
	r.logger.Info("no existing post found")
	return nil
}

// Reconcile resolves the target post and then either updates it or creates
// a new one. It never issues more than one mutation.
func (r *Reconciler) Reconcile(ctx context.Context, rc RunContext) (*Result, error) {
	r.logger.Info("processing article", "title", rc.Document.Title)

	target := r.Resolve(ctx, rc)

	var (
		post   *Post
		err    error
		method Method
	)
	if target != nil {
		method = MethodUpdate
		r.logger.Info("updating existing post", "id", target.ID)
		post, err = r.adapter.Update(ctx, target.ID, rc.Document)
	} else {
		method = MethodCreate
		r.logger.Info("publishing new post")
		post, err = r.adapter.Create(ctx, rc.Document)
	}

	if err != nil {
		mutErr := &MutationError{
			Platform: r.adapter.Name(),
			Method:   method,
			Hint:     rc.Hint,
			Err:      err,
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			mutErr.Status = apiErr.Status
		}
		return nil, mutErr
	}

	result := newResult(post, method)
	r.logger.Info("post published", "method", string(result.Method), "id", result.ID, "url", result.URL)
	return result, nil
}

func (r *Reconciler) fromHint(_ context.Context, rc RunContext) (*Post, error) {
	if rc.Hint.Empty() {
		return nil, nil
	}
	if !r.adapter.ValidID(rc.Hint.ID) {
		r.logger.Warn("saved id appears to be from another platform, ignoring", "id", rc.Hint.ID)
		return nil, nil
	}
	return &Post{ID: rc.Hint.ID}, nil
}

func (r *Reconciler) byTitle(ctx context.Context, rc RunContext) (*Post, error) {
	posts, err := r.adapter.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	return MatchTitle(posts, rc.Document.Title), nil
}

func (r *Reconciler) bySlug(ctx context.Context, finder SlugFinder, rc RunContext) (*Post, error) {
	slug := Slugify(rc.Document.Title)
	if slug == "" {
		return nil, nil
	}
	r.logger.Debug("searching by slug", "slug", slug)
	return finder.FindBySlug(ctx, slug)
}

// MatchTitle returns the first post whose trimmed title equals the trimmed
// title exactly, or nil.
func MatchTitle(posts []Post, title string) *Post {
	want := strings.TrimSpace(title)
	for i := range posts {
		if strings.TrimSpace(posts[i].Title) == want {
			return &posts[i]
		}
	}
	return nil
}
