package docfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemFS(t *testing.T) {
	m := NewMemFS(map[string]string{
		"/docs/a.md":        "# A",
		"/docs/sub/b.md":    "# B",
		"/docs/sub/img.png": "",
		"/other/outside.md": "# O",
		"/docs/sub/../c.md": "# C",
	})

	t.Run("exists", func(t *testing.T) {
		assert.True(t, m.Exists("/docs/a.md"))
		assert.True(t, m.Exists("/docs/sub"))
		assert.True(t, m.Exists("/docs/sub/"))
		assert.True(t, m.Exists("/docs/c.md"))
		assert.False(t, m.Exists("/docs/su"))
		assert.False(t, m.Exists("/docs/missing.md"))
	})

	t.Run("list", func(t *testing.T) {
		files, err := m.ListMarkdownFiles("/docs")
		require.NoError(t, err)
		assert.Equal(t, []string{"a.md", "c.md", "sub/b.md"}, files)
	})

	t.Run("list missing root", func(t *testing.T) {
		_, err := m.ListMarkdownFiles("/nowhere")
		require.Error(t, err)
	})

	t.Run("read counts", func(t *testing.T) {
		text, err := m.ReadText("/docs/a.md")
		require.NoError(t, err)
		assert.Equal(t, "# A", text)
		assert.Equal(t, 1, m.Reads("/docs/a.md"))
	})

	t.Run("unreadable", func(t *testing.T) {
		m.Unreadable = map[string]bool{"/docs/sub/b.md": true}
		assert.True(t, m.Exists("/docs/sub/b.md"))
		_, err := m.ReadText("/docs/sub/b.md")
		require.Error(t, err)
	})
}
