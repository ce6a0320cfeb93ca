package markdown

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/dt-pm-tools/readme-publish/internal/logger"
)

// fileLinkExts are the link targets that platforms cannot render from a
// relative path and must fetch from the raw-content host.
var fileLinkExts = []string{
	"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx",
	"mp4", "webm", "ogg", "mp3", "wav",
	"svg", "ttf", "woff", "woff2",
}

// badgeHosts serve generated status images.
var badgeHosts = []string{"img.shields.io", "badgen.net"}

var (
	imageRe    = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	fileLinkRe = regexp.MustCompile(`(?i)\[([^\]]+)\]\(([^)]+\.(?:` + strings.Join(fileLinkExts, "|") + `))\)`)
	htmlImgRe  = regexp.MustCompile(`(?i)<img\s+((?:[^>]*?\s)?)src=["']([^"']+)["']([^>]*?)>`)

	badgeHostPattern = `(?:` + quoteAll(badgeHosts) + `)`
	badgeImageRe     = regexp.MustCompile(`\[?!\[[^\]]*\]\(https?://` + badgeHostPattern + `/[^)]+\)\]?(?:\([^)]+\))?`)
	badgeLineRe      = regexp.MustCompile(`(?m)^.*` + badgeHostPattern + `.*$`)
	blankRunRe       = regexp.MustCompile(`\n\s*\n\s*\n`)

	headingMarkerRe = regexp.MustCompile(`^#\s+`)
	closingHashesRe = regexp.MustCompile(`\s+#+$`)
	tagLineRe       = regexp.MustCompile(`(?i)^tags?:`)
)

func quoteAll(hosts []string) string {
	quoted := make([]string, len(hosts))
	for i, h := range hosts {
		quoted[i] = regexp.QuoteMeta(h)
	}
	return strings.Join(quoted, "|")
}

// Transformer turns a raw README into a Document. It performs no I/O
// besides logging each rewrite at debug level.
type Transformer struct {
	Repo   Repo
	Policy Policy
	Logger *slog.Logger
}

// Transform runs the rewrite pipeline with a silent logger.
func Transform(raw string, repo Repo, policy Policy) Document {
	t := &Transformer{Repo: repo, Policy: policy}
	return t.Transform(raw)
}

// Transform rewrites relative assets, optionally strips badges, then
// extracts the title and tags from the rewritten text.
func (t *Transformer) Transform(raw string) Document {
	content := t.rewriteImages(raw)
	if t.Policy.RewriteFileLinks {
		content = t.rewriteFileLinks(content)
	}
	content = t.rewriteHTMLImages(content)
	if t.Policy.StripBadges {
		content = t.stripBadges(content)
	}

	title := ExtractTitle(content)
	tags, tagLine, ok := ExtractTags(content)
	if ok {
		content = removeLine(content, tagLine)
	}

	t.logger().Debug("document transformed", "title", title, "tags", tags)

	return Document{
		Title: title,
		Tags:  tags,
		Body:  strings.TrimSpace(content),
	}
}

func (t *Transformer) logger() *slog.Logger {
	if t.Logger == nil {
		return logger.Discard()
	}
	return t.Logger
}

// IsAbsolute reports whether a link target already carries an http(s) scheme.
func IsAbsolute(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (t *Transformer) rewriteImages(content string) string {
	return imageRe.ReplaceAllStringFunc(content, func(m string) string {
		sub := imageRe.FindStringSubmatch(m)
		alt, path := sub[1], sub[2]
		if IsAbsolute(path) {
			return m
		}
		url := t.Repo.RawURL(path)
		t.logger().Debug("rewrote image", "from", path, "to", url)
		return "![" + alt + "](" + url + ")"
	})
}

func (t *Transformer) rewriteFileLinks(content string) string {
	return fileLinkRe.ReplaceAllStringFunc(content, func(m string) string {
		sub := fileLinkRe.FindStringSubmatch(m)
		text, path := sub[1], sub[2]
		if IsAbsolute(path) {
			return m
		}
		url := t.Repo.RawURL(path)
		t.logger().Debug("rewrote file link", "from", path, "to", url)
		return "[" + text + "](" + url + ")"
	})
}

func (t *Transformer) rewriteHTMLImages(content string) string {
	return htmlImgRe.ReplaceAllStringFunc(content, func(m string) string {
		sub := htmlImgRe.FindStringSubmatch(m)
		before, src, after := sub[1], sub[2], sub[3]
		if IsAbsolute(src) {
			return m
		}
		url := t.Repo.RawURL(src)
		t.logger().Debug("rewrote html image", "from", src, "to", url)
		return `<img ` + before + `src="` + url + `"` + after + `>`
	})
}

func (t *Transformer) stripBadges(content string) string {
	stripped := badgeImageRe.ReplaceAllString(content, "")
	stripped = badgeLineRe.ReplaceAllString(stripped, "")
	stripped = blankRunRe.ReplaceAllString(stripped, "\n\n")
	if stripped != content {
		t.logger().Debug("removed badges")
	}
	return stripped
}

// ExtractTitle returns the text of the first line starting with "# ", with
// the marker, any closing hashes and surrounding whitespace removed.
func ExtractTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if !strings.HasPrefix(line, "# ") {
			continue
		}
		title := strings.TrimSpace(headingMarkerRe.ReplaceAllString(line, ""))
		title = strings.TrimSpace(closingHashesRe.ReplaceAllString(title, ""))
		if title == "" || strings.Trim(title, "#") == "" {
			return DefaultTitle
		}
		return title
	}
	return DefaultTitle
}

// ExtractTags finds the first line that, once trimmed, starts with "tags:" or
// "tag:" in any case. It returns the comma-separated tags after the first
// colon, the raw line they came from, and whether such a line exists. Tags
// is nil when the line names no tags.
func ExtractTags(content string) ([]string, string, bool) {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !tagLineRe.MatchString(trimmed) {
			continue
		}
		_, rest, _ := strings.Cut(trimmed, ":")
		var tags []string
		for _, tag := range strings.Split(rest, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		return tags, line, true
	}
	return nil, "", false
}

// removeLine drops the first occurrence of line together with its newline.
func removeLine(content, line string) string {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		if l == line {
			return strings.Join(append(lines[:i:i], lines[i+1:]...), "\n")
		}
	}
	return content
}
