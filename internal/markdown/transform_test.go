package markdown

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRepo = Repo{Owner: "octocat", Name: "hello", Branch: "main"}

const rawBase = "https://raw.githubusercontent.com/octocat/hello/main/"

func TestRawURL(t *testing.T) {
	assert.Equal(t, rawBase+"docs/img/a.png", testRepo.RawURL(`docs\img\a.png`))
	assert.Equal(t, rawBase+"a.png", testRepo.RawURL("a.png"))
	assert.Equal(t, "octocat/hello@main", testRepo.String())
}

func TestTransformRewritesImages(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"relative", "![Logo](images/logo.png)", "![Logo](" + rawBase + "images/logo.png)"},
		{"windows separators", `![shot](assets\shots\one.png)`, "![shot](" + rawBase + "assets/shots/one.png)"},
		{"empty alt", "![](a.gif)", "![](" + rawBase + "a.gif)"},
		{"absolute https untouched", "![x](https://example.com/x.png)", "![x](https://example.com/x.png)"},
		{"absolute http untouched", "![x](http://example.com/x.png)", "![x](http://example.com/x.png)"},
		{"alt preserved verbatim", "![A *fancy* alt](p.png)", "![A *fancy* alt](" + rawBase + "p.png)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Transform(tt.in, testRepo, Policy{})
			assert.Equal(t, tt.want, doc.Body)
		})
	}
}

func TestTransformRewriteIsIdempotent(t *testing.T) {
	in := "# T\n\n![a](a.png) [deck](slides/deck.pptx) <img src=\"b.png\">"
	policy := Policy{RewriteFileLinks: true}

	once := Transform(in, testRepo, policy)
	twice := Transform(once.Body, testRepo, policy)

	assert.Equal(t, once.Body, twice.Body)
	assert.NotContains(t, once.Body, "](a.png)")
}

func TestTransformFileLinks(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		policy Policy
		want   string
	}{
		{
			name:   "pdf rewritten",
			in:     "[Paper](docs/paper.pdf)",
			policy: Policy{RewriteFileLinks: true},
			want:   "[Paper](" + rawBase + "docs/paper.pdf)",
		},
		{
			name:   "extension match is case insensitive",
			in:     "[Deck](talks/Deck.PPTX)",
			policy: Policy{RewriteFileLinks: true},
			want:   "[Deck](" + rawBase + "talks/Deck.PPTX)",
		},
		{
			name:   "markdown links left alone",
			in:     "[Contributing](CONTRIBUTING.md)",
			policy: Policy{RewriteFileLinks: true},
			want:   "[Contributing](CONTRIBUTING.md)",
		},
		{
			name:   "absolute file links left alone",
			in:     "[Paper](https://example.com/paper.pdf)",
			policy: Policy{RewriteFileLinks: true},
			want:   "[Paper](https://example.com/paper.pdf)",
		},
		{
			name:   "disabled by policy",
			in:     "[Paper](docs/paper.pdf)",
			policy: Policy{},
			want:   "[Paper](docs/paper.pdf)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transform(tt.in, testRepo, tt.policy).Body)
		})
	}
}

func TestTransformHTMLImages(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "relative src with other attributes",
			in:   `<img width="200" src='img/a.png' alt="A">`,
			want: `<img width="200" src="` + rawBase + `img/a.png" alt="A">`,
		},
		{
			name: "absolute src untouched",
			in:   `<IMG src="https://example.com/a.png" alt="A">`,
			want: `<IMG src="https://example.com/a.png" alt="A">`,
		},
		{
			name: "absolute data-src before relative src",
			in:   `<img data-src="https://cdn.example.com/x.png" src="docs/local.png">`,
			want: `<img data-src="https://cdn.example.com/x.png" src="` + rawBase + `docs/local.png">`,
		},
		{
			name: "relative data-src before relative src",
			in:   `<img data-src="lazy.png" src="docs/local.png">`,
			want: `<img data-src="lazy.png" src="` + rawBase + `docs/local.png">`,
		},
		{
			name: "relative data-src after absolute src",
			in:   `<img src="https://example.com/a.png" data-src="lazy.png">`,
			want: `<img src="https://example.com/a.png" data-src="lazy.png">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transform(tt.in, testRepo, Policy{}).Body)
		})
	}
}

func TestTransformStripsBadges(t *testing.T) {
	in := strings.Join([]string{
		"# Project",
		"",
		"[![Build](https://img.shields.io/badge/build-passing-green)](https://ci.example.com)",
		"",
		"",
		"",
		"Intro text.",
		`<p><img src="https://img.shields.io/npm/v/pkg"></p>`,
		"Outro ![License](https://img.shields.io/badge/license-MIT-blue) here.",
	}, "\n")

	doc := Transform(in, testRepo, Policy{StripBadges: true})

	assert.NotContains(t, doc.Body, "img.shields.io")
	assert.Equal(t, "# Project\n\nIntro text.\n\nOutro  here.", doc.Body)
}

func TestTransformKeepsBadgesWhenPolicyOff(t *testing.T) {
	in := "# P\n\n![Build](https://img.shields.io/badge/x)"
	doc := Transform(in, testRepo, Policy{})
	assert.Contains(t, doc.Body, "img.shields.io")
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "# Hello World", "Hello World"},
		{"trailing whitespace", "# Hello World   \t", "Hello World"},
		{"closing hashes", "# Hello World ##", "Hello World"},
		{"hash inside word kept", "# Learning C#", "Learning C#"},
		{"unspaced closing hash kept", "# Hello World#", "Hello World#"},
		{"spaced closing hash stripped", "# Hello World #", "Hello World"},
		{"first heading wins", "intro\n# First\n# Second", "First"},
		{"level two ignored", "## Sub\ntext", DefaultTitle},
		{"indented heading ignored", "  # Indented", DefaultTitle},
		{"no heading", "just text", DefaultTitle},
		{"crlf", "# Windows\r\nbody", "Windows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTitle(tt.in))
		})
	}
}

func TestExtractTags(t *testing.T) {
	t.Run("trims and drops empties", func(t *testing.T) {
		tags, line, ok := ExtractTags("body\nTags: go, Rust,  \nmore")
		require.True(t, ok)
		assert.Equal(t, []string{"go", "Rust"}, tags)
		assert.Equal(t, "Tags: go, Rust,  ", line)
	})

	t.Run("singular and case insensitive", func(t *testing.T) {
		tags, _, ok := ExtractTags("  TAG: devops  ")
		require.True(t, ok)
		assert.Equal(t, []string{"devops"}, tags)
	})

	t.Run("remainder after first colon", func(t *testing.T) {
		tags, _, _ := ExtractTags("tags: k8s: the hard way, go")
		assert.Equal(t, []string{"k8s: the hard way", "go"}, tags)
	})

	t.Run("empty line yields nil", func(t *testing.T) {
		tags, _, ok := ExtractTags("Tags:")
		assert.True(t, ok)
		assert.Nil(t, tags)
	})

	t.Run("absent", func(t *testing.T) {
		tags, _, ok := ExtractTags("# Title\nno tags here")
		assert.False(t, ok)
		assert.Nil(t, tags)
	})
}

func TestTransformDocument(t *testing.T) {
	in := "\n# My Post\n\n![diagram](docs/arch.png)\n\nSome text.\n\nTags: go, cli\n"

	doc := Transform(in, testRepo, Policy{RewriteFileLinks: true})

	assert.Equal(t, "My Post", doc.Title)
	assert.Equal(t, []string{"go", "cli"}, doc.Tags)
	assert.True(t, doc.HasTags())
	assert.Equal(t, "# My Post\n\n![diagram]("+rawBase+"docs/arch.png)\n\nSome text.", doc.Body)
	assert.NotContains(t, doc.Body, "Tags:")
}

func TestTransformEmptyTagLine(t *testing.T) {
	doc := Transform("# T\n\nTags:\n\nbody", testRepo, Policy{})

	assert.Nil(t, doc.Tags)
	assert.False(t, doc.HasTags())
	assert.NotContains(t, doc.Body, "Tags:")
}

func TestTransformerLogsRewrites(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tr := &Transformer{Repo: testRepo, Logger: logger}
	tr.Transform("![a](a.png)")

	assert.Contains(t, buf.String(), "rewrote image")
	assert.Contains(t, buf.String(), rawBase+"a.png")
}
