package hashnode

import "encoding/json"

// graphQLRequest is the POST body sent to the GraphQL endpoint.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphQLResponse is the envelope every GraphQL answer arrives in.
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// Post is a post as returned by the Hashnode GraphQL API.
type Post struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// Tag is the structured tag shape Hashnode expects in post inputs.
type Tag struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// PublishPostInput is the input of the publishPost mutation.
type PublishPostInput struct {
	PublicationID   string `json:"publicationId"`
	Title           string `json:"title"`
	ContentMarkdown string `json:"contentMarkdown"`
	Tags            []Tag  `json:"tags,omitempty"`
}

// UpdatePostInput is the input of the updatePost mutation.
type UpdatePostInput struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	ContentMarkdown string `json:"contentMarkdown"`
	Tags            []Tag  `json:"tags,omitempty"`
}

type postsData struct {
	Publication *struct {
		Posts struct {
			Edges []struct {
				Node Post `json:"node"`
			} `json:"edges"`
		} `json:"posts"`
	} `json:"publication"`
}

type postBySlugData struct {
	Publication *struct {
		Post *Post `json:"post"`
	} `json:"publication"`
}

type publishPostData struct {
	PublishPost struct {
		Post Post `json:"post"`
	} `json:"publishPost"`
}

type updatePostData struct {
	UpdatePost struct {
		Post Post `json:"post"`
	} `json:"updatePost"`
}
