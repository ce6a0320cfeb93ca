package devto

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dt-pm-tools/readme-publish/internal/config"
	"github.com/dt-pm-tools/readme-publish/internal/logger"
	"github.com/dt-pm-tools/readme-publish/internal/markdown"
	"github.com/dt-pm-tools/readme-publish/internal/publish"
)

const platformName = "Dev.to"

var idRe = regexp.MustCompile(`^\d+$`)

var _ publish.Adapter = (*Client)(nil)

// Client is a Dev.to REST API client implementing publish.Adapter.
type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new Dev.to client from the given config.
func NewClient(cfg config.DevToConfig, log *slog.Logger) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 30
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.APIURL, "/"),
		apiKey:     cfg.APIKey,
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     log,
	}
}

// Name returns the platform name.
func (c *Client) Name() string {
	return platformName
}

// ValidID reports whether id looks like a Dev.to article id (all digits).
func (c *Client) ValidID(id string) bool {
	return idRe.MatchString(id)
}

// ListPosts returns the first page of the authenticated user's articles.
func (c *Client) ListPosts(ctx context.Context) ([]publish.Post, error) {
	path := fmt.Sprintf("/articles/me?per_page=%d", c.pageSize)

	var articles []Article
	if err := c.do(ctx, http.MethodGet, path, nil, &articles); err != nil {
		return nil, fmt.Errorf("%w: listing articles: %w", publish.ErrSearchFailed, err)
	}

	posts := make([]publish.Post, 0, len(articles))
	for _, a := range articles {
		posts = append(posts, a.toPost())
	}
	return posts, nil
}

// Create publishes a new article.
func (c *Client) Create(ctx context.Context, doc markdown.Document) (*publish.Post, error) {
	var article Article
	if err := c.do(ctx, http.MethodPost, "/articles", newPayload(doc), &article); err != nil {
		return nil, err
	}
	post := article.toPost()
	return &post, nil
}

// Update replaces the title, body and tags of an existing article.
func (c *Client) Update(ctx context.Context, id string, doc markdown.Document) (*publish.Post, error) {
	var article Article
	if err := c.do(ctx, http.MethodPut, "/articles/"+id, newPayload(doc), &article); err != nil {
		return nil, err
	}
	post := article.toPost()
	return &post, nil
}

func newPayload(doc markdown.Document) ArticlePayload {
	input := ArticleInput{
		Title:        doc.Title,
		BodyMarkdown: doc.Body,
		Published:    true,
	}
	if doc.HasTags() {
		input.Tags = doc.Tags
	}
	return ArticlePayload{Article: input}
}

// toPost leaves Slug empty: Dev.to routes by id, so results never carry one.
func (a Article) toPost() publish.Post {
	return publish.Post{
		ID:          strconv.FormatInt(a.ID, 10),
		Title:       a.Title,
		URL:         a.URL,
		PublishedAt: a.PublishedAt,
		UpdatedAt:   a.EditedAt,
	}
}

// do executes a request against the API and decodes a successful JSON
// response into out. Non-2xx answers become *publish.APIError.
func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshalling payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	c.logger.Debug("dev.to request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return &publish.APIError{
			Platform: platformName,
			Status:   resp.StatusCode,
			Message:  errorMessage(respBody, resp.Status),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// errorMessage prefers the "error" field of a JSON error body and falls
// back to the raw body, then to the status line.
func errorMessage(body []byte, status string) string {
	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return status
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/vnd.forem.api-v1+json")
}
