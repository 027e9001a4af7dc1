package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	foundationerrors "git.home.luguber.info/inful/doclinks/internal/foundation/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, []string{".md"}, cfg.Extensions)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 256, cfg.HeadingCacheSize)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.Events.NATSURL)
	assert.Equal(t, "doclinks.runs", cfg.Events.Subject)
	assert.False(t, cfg.Events.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	t.Setenv("DOCLINKS_TEST_ROOT", "handbook")

	raw := `
root: ${DOCLINKS_TEST_ROOT}
extensions: [".md", ".markdown"]
exclude: ["node_modules/**"]
workers: 4
skip_code_blocks: true
output:
  format: json
  quiet: true
metrics:
  textfile: /tmp/doclinks.prom
events:
  enabled: true
  subject: docs.links
`
	cfg, err := Parse([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "handbook", cfg.Root)
	assert.Equal(t, []string{".md", ".markdown"}, cfg.Extensions)
	assert.Equal(t, []string{"node_modules/**"}, cfg.Exclude)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.SkipCodeBlocks)
	assert.Equal(t, 256, cfg.HeadingCacheSize)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.Output.Quiet)
	assert.Equal(t, "/tmp/doclinks.prom", cfg.Metrics.Textfile)
	assert.True(t, cfg.Events.Enabled)
	assert.Equal(t, "docs.links", cfg.Events.Subject)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.Events.NATSURL)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unknown field", "roots: docs\n"},
		{"negative workers", "workers: -2\n"},
		{"bad format", "output:\n  format: xml\n"},
		{"bad extension", "extensions: [md]\n"},
		{"bad exclude", "exclude: ['[unclosed']\n"},
		{"malformed yaml", "root: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			require.Error(t, err)
			assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryConfig))
		})
	}
}

func TestValidate_Events(t *testing.T) {
	cfg := Default()
	cfg.Events.Enabled = true
	cfg.Events.Subject = ""
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Events.Enabled = true
	cfg.Events.NATSURL = ""
	require.Error(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	t.Run("missing optional file gives defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(dir, DefaultPath), false)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("missing required file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "custom.yaml"), true)
		require.Error(t, err)
		assert.Equal(t, foundationerrors.ExitConfig, foundationerrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
	})

	t.Run("env file feeds expansion", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCLINKS_ENV_ROOT=manual\n"), 0o600))
		t.Cleanup(func() { _ = os.Unsetenv("DOCLINKS_ENV_ROOT") })
		path := filepath.Join(dir, "with-env.yaml")
		require.NoError(t, os.WriteFile(path, []byte("root: ${DOCLINKS_ENV_ROOT}\n"), 0o600))

		cfg, err := Load(path, true)
		require.NoError(t, err)
		assert.Equal(t, "manual", cfg.Root)
	})
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, Init(path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "docs", cfg.Root)

	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))
}
