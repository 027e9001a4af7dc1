package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectRoot(t *testing.T) {
	t.Run("docs in working directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0o750))
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "documentation"), 0o750))

		root, found := DetectRoot(dir)
		assert.True(t, found)
		assert.Equal(t, filepath.Join(dir, "docs"), root)
	})

	t.Run("documentation fallback", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "documentation"), 0o750))

		root, found := DetectRoot(dir)
		assert.True(t, found)
		assert.Equal(t, filepath.Join(dir, "documentation"), root)
	})

	t.Run("repository root from subdirectory", func(t *testing.T) {
		repo := t.TempDir()
		_, err := git.PlainInit(repo, false)
		require.NoError(t, err)
		require.NoError(t, os.MkdirAll(filepath.Join(repo, "docs"), 0o750))
		sub := filepath.Join(repo, "cmd", "tool")
		require.NoError(t, os.MkdirAll(sub, 0o750))

		root, found := DetectRoot(sub)
		assert.True(t, found)
		assert.Equal(t, filepath.Join(repo, "docs"), root)
	})

	t.Run("fallback to directory", func(t *testing.T) {
		dir := t.TempDir()
		root, found := DetectRoot(dir)
		assert.False(t, found)
		assert.Equal(t, dir, root)
	})
}
