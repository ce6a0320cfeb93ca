package hashnode

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/dt-pm-tools/readme-publish/internal/config"
	"github.com/dt-pm-tools/readme-publish/internal/logger"
	"github.com/dt-pm-tools/readme-publish/internal/markdown"
	"github.com/dt-pm-tools/readme-publish/internal/publish"
)

const platformName = "Hashnode"

var (
	idRe         = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

var (
	_ publish.Adapter    = (*Client)(nil)
	_ publish.SlugFinder = (*Client)(nil)
)

// Client is a Hashnode GraphQL API client implementing publish.Adapter and
// publish.SlugFinder.
type Client struct {
	endpoint      string
	token         string
	publicationID string
	host          string
	pageSize      int
	httpClient    *http.Client
	logger        *slog.Logger
}

// NewClient creates a new Hashnode client from the given config.
func NewClient(cfg config.HashnodeConfig, log *slog.Logger) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		endpoint:      cfg.APIURL,
		token:         cfg.Token,
		publicationID: cfg.PublicationID,
		host:          cfg.PublicationHost,
		pageSize:      pageSize,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		logger:        log,
	}
}

// Name returns the platform name.
func (c *Client) Name() string {
	return platformName
}

// ValidID reports whether id looks like a Hashnode object id.
func (c *Client) ValidID(id string) bool {
	return len(id) >= 20 && idRe.MatchString(id)
}

// ListPosts returns the first page of posts in the configured publication.
func (c *Client) ListPosts(ctx context.Context) ([]publish.Post, error) {
	vars := map[string]any{"host": c.host, "first": c.pageSize}

	var data postsData
	if err := c.query(ctx, listPostsQuery, vars, &data); err != nil {
		return nil, fmt.Errorf("%w: listing posts: %w", publish.ErrSearchFailed, err)
	}
	if data.Publication == nil {
		return nil, fmt.Errorf("%w: publication %q not found", publish.ErrSearchFailed, c.host)
	}

	posts := make([]publish.Post, 0, len(data.Publication.Posts.Edges))
	for _, edge := range data.Publication.Posts.Edges {
		posts = append(posts, edge.Node.toPost())
	}
	return posts, nil
}

// FindBySlug looks a post up by slug. It returns nil, nil when the
// publication has no post with that slug.
func (c *Client) FindBySlug(ctx context.Context, slug string) (*publish.Post, error) {
	vars := map[string]any{"slug": slug, "host": c.host}

	var data postBySlugData
	if err := c.query(ctx, postBySlugQuery, vars, &data); err != nil {
		return nil, fmt.Errorf("%w: looking up slug %q: %w", publish.ErrSearchFailed, slug, err)
	}
	if data.Publication == nil {
		return nil, fmt.Errorf("%w: publication %q not found", publish.ErrSearchFailed, c.host)
	}
	if data.Publication.Post == nil {
		return nil, nil
	}
	post := data.Publication.Post.toPost()
	return &post, nil
}

// Create publishes a new post in the configured publication.
func (c *Client) Create(ctx context.Context, doc markdown.Document) (*publish.Post, error) {
	input := PublishPostInput{
		PublicationID:   c.publicationID,
		Title:           doc.Title,
		ContentMarkdown: doc.Body,
		Tags:            ShapeTags(doc.Tags),
	}

	var data publishPostData
	if err := c.query(ctx, publishPostMutation, map[string]any{"input": input}, &data); err != nil {
		return nil, err
	}
	post := data.PublishPost.Post.toPost()
	return &post, nil
}

// Update replaces the title, content and tags of an existing post.
func (c *Client) Update(ctx context.Context, id string, doc markdown.Document) (*publish.Post, error) {
	input := UpdatePostInput{
		ID:              id,
		Title:           doc.Title,
		ContentMarkdown: doc.Body,
		Tags:            ShapeTags(doc.Tags),
	}

	var data updatePostData
	if err := c.query(ctx, updatePostMutation, map[string]any{"input": input}, &data); err != nil {
		return nil, err
	}
	post := data.UpdatePost.Post.toPost()
	return &post, nil
}

// ShapeTags turns plain tag names into Hashnode tag objects. The slug is
// the lowercased name with all whitespace removed. A nil result means the
// tags field is omitted from the mutation input.
func ShapeTags(tags []string) []Tag {
	if len(tags) == 0 {
		return nil
	}
	shaped := make([]Tag, 0, len(tags))
	for _, name := range tags {
		shaped = append(shaped, Tag{
			Slug: whitespaceRe.ReplaceAllString(strings.ToLower(name), ""),
			Name: name,
		})
	}
	return shaped
}

func (p Post) toPost() publish.Post {
	return publish.Post{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       p.Title,
		URL:         p.URL,
		PublishedAt: p.PublishedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// query posts a GraphQL operation and decodes its data into out. Transport
// failures and non-2xx answers become *publish.APIError with the HTTP
// status; a non-empty errors array becomes *publish.APIError with status 0.
func (c *Client) query(ctx context.Context, q string, vars map[string]any, out any) error {
	data, err := json.Marshal(graphQLRequest{Query: q, Variables: vars})
	if err != nil {
		return fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	c.logger.Debug("hashnode request", "operation", operationName(q))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(respBody))
		var envelope graphQLResponse
		if json.Unmarshal(respBody, &envelope) == nil && len(envelope.Errors) > 0 {
			msg = joinErrors(envelope.Errors)
		}
		if msg == "" {
			msg = resp.Status
		}
		return &publish.APIError{Platform: platformName, Status: resp.StatusCode, Message: msg}
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return &publish.APIError{Platform: platformName, Message: joinErrors(envelope.Errors)}
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return errors.New("response carried no data")
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decoding data: %w", err)
	}
	return nil
}

func joinErrors(errs []graphQLError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// operationName pulls "GetPosts" out of "query GetPosts(...)" for logging.
func operationName(q string) string {
	fields := strings.Fields(q)
	if len(fields) < 2 {
		return ""
	}
	name, _, _ := strings.Cut(fields[1], "(")
	return name
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
