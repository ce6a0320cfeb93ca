package markdown

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultNames are the README spellings tried in each candidate directory.
var DefaultNames = []string{"README.md", "Readme.md", "readme.md"}

// ErrDocumentNotFound is wrapped by NotFoundError.
var ErrDocumentNotFound = errors.New("document not found")

// NotFoundError lists every path Locate tried, in order.
type NotFoundError struct {
	Paths []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("README file not found. Tried: %s", strings.Join(e.Paths, ", "))
}

func (e *NotFoundError) Unwrap() error {
	return ErrDocumentNotFound
}

// CandidateDirs returns the directories searched for a README: the content
// subdirectory first (when configured), then the repository root.
func CandidateDirs(root, contentPath string) []string {
	if contentPath == "" {
		return []string{root}
	}
	return []string{filepath.Join(root, contentPath), root}
}

// Locate returns the first readable file among dirs × names, trying every
// name in a directory before moving to the next directory.
func Locate(dirs, names []string) (string, []byte, error) {
	var tried []string
	for _, dir := range dirs {
		for _, name := range names {
			path := filepath.Join(dir, name)
			data, err := os.ReadFile(path)
			if err != nil {
				tried = append(tried, path)
				continue
			}
			return path, data, nil
		}
	}
	return "", nil, &NotFoundError{Paths: tried}
}
