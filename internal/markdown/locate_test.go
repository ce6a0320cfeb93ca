package markdown

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateDirs(t *testing.T) {
	assert.Equal(t, []string{filepath.Join("/repo", "content"), "/repo"}, CandidateDirs("/repo", "content"))
	assert.Equal(t, []string{"/repo"}, CandidateDirs("/repo", ""))
}

func TestLocatePrefersContentDir(t *testing.T) {
	root := t.TempDir()
	contentDir := filepath.Join(root, "content")
	require.NoError(t, os.MkdirAll(contentDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "readme.md"), []byte("content"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("root"), 0644))

	path, data, err := Locate(CandidateDirs(root, "content"), DefaultNames)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
	assert.Equal(t, contentDir, filepath.Dir(path))
}

func TestLocateFallsBackToRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "Readme.md"), []byte("root"), 0644))

	_, data, err := Locate(CandidateDirs(root, "content"), DefaultNames)
	require.NoError(t, err)
	assert.Equal(t, "root", string(data))
}

func TestLocateNotFoundListsEveryPath(t *testing.T) {
	root := t.TempDir()

	_, _, err := Locate(CandidateDirs(root, "docs"), DefaultNames)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDocumentNotFound))

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, []string{
		filepath.Join(root, "docs", "README.md"),
		filepath.Join(root, "docs", "Readme.md"),
		filepath.Join(root, "docs", "readme.md"),
		filepath.Join(root, "README.md"),
		filepath.Join(root, "Readme.md"),
		filepath.Join(root, "readme.md"),
	}, nf.Paths)

	for _, p := range nf.Paths {
		assert.Contains(t, err.Error(), p)
	}
}
