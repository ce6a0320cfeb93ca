package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const readme = "# My Project\n\ntags: go, cli\n\n![diagram](docs/diagram.png)\n\nSome text.\n"

// setupRun isolates a command run from the caller's environment and any
// state left by a previous test.
func setupRun(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	for _, name := range []string{
		"DEV_TO_API_KEY", "DEV_TO_API_URL", "DEV_TO_PAGE_SIZE",
		"HASHNODE_PAT", "HASHNODE_PUBLICATION_ID", "HASHNODE_PUBLICATION_HOST", "HASHNODE_API_URL",
		"USER_CONTENT_PATH", "LOG_LEVEL", "LOG_FORMAT",
		"DEV_TO_SAVED_POST_ID", "DEV_TO_SAVED_POST_TITLE", "HASHNODE_SAVED_POST_ID", "HASHNODE_SAVED_POST_SLUG",
	} {
		t.Setenv(name, "")
	}
	t.Setenv("USER_REPO_PATH", dir)
	t.Setenv("GITHUB_USERNAME", "octo")
	t.Setenv("GITHUB_REPO", "proj")
	t.Setenv("GITHUB_BRANCH", "main")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte(readme), 0o644))
	return dir
}

func execute(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	cfgFile, logLevel, logFormat = "", "", ""
	publishStateFile, publishSavedID, publishRepoPath, publishContentPath = "", "", "", ""
	previewJSON = false
	postsOutput = "table"

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(dir, "absent.yaml")}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

type fakeDevTo struct {
	lists, creates, updates atomic.Int32
	lastBody                atomic.Value
}

func (f *fakeDevTo) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/articles/me":
			f.lists.Add(1)
			_, _ = w.Write([]byte(`[]`))
		case r.Method == http.MethodPost && r.URL.Path == "/articles":
			f.creates.Add(1)
			body, _ := io.ReadAll(r.Body)
			f.lastBody.Store(string(body))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":7,"title":"My Project","slug":"my-project-1a2b","url":"https://dev.to/octo/my-project","published_at":"2024-01-01T00:00:00Z"}`))
		case r.Method == http.MethodPut && r.URL.Path == "/articles/7":
			f.updates.Add(1)
			_, _ = w.Write([]byte(`{"id":7,"title":"My Project","url":"https://dev.to/octo/my-project","published_at":"2024-01-01T00:00:00Z","edited_at":"2024-02-01T00:00:00Z"}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestPublishDevToCreates(t *testing.T) {
	dir := setupRun(t)
	fake := &fakeDevTo{}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	t.Setenv("DEV_TO_API_KEY", "secret-key")
	t.Setenv("DEV_TO_API_URL", server.URL)

	stdout, stderr, err := execute(t, dir, "publish", "devto")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 1)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &result))
	assert.Equal(t, "7", result["id"])
	assert.Equal(t, "POST", result["method"])
	assert.Equal(t, "2024-01-01T00:00:00Z", result["updated_at"])
	assert.NotContains(t, result, "slug")

	assert.Equal(t, int32(1), fake.creates.Load())
	assert.Equal(t, int32(0), fake.updates.Load())

	body, _ := fake.lastBody.Load().(string)
	assert.Contains(t, body, "https://raw.githubusercontent.com/octo/proj/main/docs/diagram.png")
	assert.NotContains(t, body, "tags: go")

	assert.NotContains(t, stderr, "secret-key")
	assert.Contains(t, stderr, "environment check")
}

func TestPublishDevToStateFileRoundTrip(t *testing.T) {
	dir := setupRun(t)
	fake := &fakeDevTo{}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	t.Setenv("DEV_TO_API_KEY", "secret-key")
	t.Setenv("DEV_TO_API_URL", server.URL)
	stateFile := filepath.Join(dir, "state.yaml")

	_, _, err := execute(t, dir, "publish", "devto", "--state-file", stateFile)
	require.NoError(t, err)

	stdout, _, err := execute(t, dir, "publish", "devto", "--state-file", stateFile)
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(stdout)), &result))
	assert.Equal(t, "UPDATE", result["method"])
	assert.Equal(t, "2024-02-01T00:00:00Z", result["updated_at"])

	assert.Equal(t, int32(1), fake.creates.Load())
	assert.Equal(t, int32(1), fake.updates.Load())
	assert.Equal(t, int32(1), fake.lists.Load(), "trusted id skips the title search")
}

func TestPublishMissingConfiguration(t *testing.T) {
	dir := setupRun(t)
	t.Setenv("DEV_TO_SAVED_POST_ID", "99")
	t.Setenv("DEV_TO_SAVED_POST_TITLE", "Old Title")

	stdout, _, err := execute(t, dir, "publish", "devto")
	require.Error(t, err)

	var failure map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(stdout)), &failure))
	assert.Equal(t, true, failure["error"])
	assert.Contains(t, failure["message"], "DEV_TO_API_KEY")
	assert.Equal(t, "99", failure["id"])
	assert.Equal(t, "Old Title", failure["title"])
}

func TestPublishSavedFieldsWithoutIDAreNoHint(t *testing.T) {
	dir := setupRun(t)
	t.Setenv("DEV_TO_SAVED_POST_TITLE", "Old Title")

	stdout, _, err := execute(t, dir, "publish", "devto")
	require.Error(t, err)

	var failure map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(stdout)), &failure))
	assert.Equal(t, true, failure["error"])
	assert.NotContains(t, failure, "title")
	assert.NotContains(t, failure, "id")
}

func TestPublishReadmeNotFound(t *testing.T) {
	dir := setupRun(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "README.md")))
	t.Setenv("DEV_TO_API_KEY", "secret-key")
	t.Setenv("DEV_TO_API_URL", "http://127.0.0.1:1")

	stdout, _, err := execute(t, dir, "publish", "devto")
	require.Error(t, err)

	var failure map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(stdout)), &failure))
	assert.Contains(t, failure["message"], "README file not found")
}

func TestPublishMutationFailureEchoesHint(t *testing.T) {
	dir := setupRun(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"Body markdown is too long","status":422}`))
	}))
	defer server.Close()

	t.Setenv("DEV_TO_API_KEY", "secret-key")
	t.Setenv("DEV_TO_API_URL", server.URL)

	stdout, _, err := execute(t, dir, "publish", "devto", "--saved-id", "42")
	require.Error(t, err)

	var failure map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(stdout)), &failure))
	assert.Equal(t, true, failure["error"])
	assert.Equal(t, float64(422), failure["status"])
	assert.Equal(t, "42", failure["id"])
	assert.Contains(t, failure["message"], "Body markdown is too long")
}

func TestPreviewJSON(t *testing.T) {
	dir := setupRun(t)

	stdout, _, err := execute(t, dir, "preview", "hashnode", "--json")
	require.NoError(t, err)

	var doc struct {
		Title string   `json:"title"`
		Tags  []string `json:"tags"`
		Body  string   `json:"body"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "My Project", doc.Title)
	assert.Equal(t, []string{"go", "cli"}, doc.Tags)
	assert.Contains(t, doc.Body, "https://raw.githubusercontent.com/octo/proj/main/docs/diagram.png")
}

func TestPreviewRejectsUnknownPlatform(t *testing.T) {
	dir := setupRun(t)
	_, _, err := execute(t, dir, "preview", "medium")
	assert.Error(t, err)
}

func TestPostsJSON(t *testing.T) {
	dir := setupRun(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/articles/me", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":7,"title":"My Project","slug":"my-project-1a2b","url":"https://dev.to/octo/my-project","published_at":"2024-01-01T00:00:00Z"}]`))
	}))
	defer server.Close()

	t.Setenv("DEV_TO_API_KEY", "secret-key")
	t.Setenv("DEV_TO_API_URL", server.URL)

	stdout, _, err := execute(t, dir, "posts", "devto", "-o", "json")
	require.NoError(t, err)

	var posts []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "7", posts[0]["id"])
	assert.NotContains(t, posts[0], "slug")
}

func TestPostsTable(t *testing.T) {
	dir := setupRun(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":7,"title":"My Project","url":"https://dev.to/octo/my-project","published_at":"2024-01-01T00:00:00Z"}]`))
	}))
	defer server.Close()

	t.Setenv("DEV_TO_API_KEY", "secret-key")
	t.Setenv("DEV_TO_API_URL", server.URL)

	stdout, _, err := execute(t, dir, "posts", "devto")
	require.NoError(t, err)
	assert.Contains(t, stdout, "TITLE")
	assert.Contains(t, stdout, "My Project")
	assert.Contains(t, stdout, "2024-01-01T00:00:00Z")
}
