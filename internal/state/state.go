// Package state persists the hint each platform's last successful run left
// behind, as an alternative to the *_SAVED_POST_* environment variables.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dt-pm-tools/readme-publish/internal/publish"
)

// File is the on-disk layout: one hint per platform key.
type File struct {
	Posts map[string]*publish.Hint `yaml:"posts"`
}

// Read loads the whole state file. A missing file yields an empty File.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &File{Posts: map[string]*publish.Hint{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing state file %s: %w", path, err)
	}
	if f.Posts == nil {
		f.Posts = map[string]*publish.Hint{}
	}
	return &f, nil
}

// Load returns the stored hint for platform, or nil when there is none.
func Load(path, platform string) (*publish.Hint, error) {
	f, err := Read(path)
	if err != nil {
		return nil, err
	}
	hint := f.Posts[platform]
	if hint.Empty() {
		return nil, nil
	}
	return hint, nil
}

// Save records result as platform's hint, keeping other platforms' entries.
func Save(path, platform string, result *publish.Result) error {
	f, err := Read(path)
	if err != nil {
		return err
	}
	f.Posts[platform] = result.Hint()

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshalling state: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating state directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}
