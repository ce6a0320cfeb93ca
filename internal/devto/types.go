package devto

// Article is an article as returned by the Dev.to REST API.
type Article struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at,omitempty"`
	EditedAt    string `json:"edited_at,omitempty"`
}

// ArticlePayload is the body for POST /articles and PUT /articles/{id}.
type ArticlePayload struct {
	Article ArticleInput `json:"article"`
}

// ArticleInput holds the article fields we send. Tags is omitted entirely
// when the document has none.
type ArticleInput struct {
	Title        string   `json:"title"`
	BodyMarkdown string   `json:"body_markdown"`
	Published    bool     `json:"published"`
	Tags         []string `json:"tags,omitempty"`
}

// errorResponse is the JSON error envelope Dev.to returns on failure.
type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}
