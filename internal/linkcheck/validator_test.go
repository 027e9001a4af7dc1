package linkcheck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doclinks/internal/docfs"
	foundationerrors "git.home.luguber.info/inful/doclinks/internal/foundation/errors"
	"git.home.luguber.info/inful/doclinks/internal/metrics"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type countingRecorder struct {
	files    int
	links    map[string]int
	outcomes map[metrics.RunOutcome]int
	runs     int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{links: map[string]int{}, outcomes: map[metrics.RunOutcome]int{}}
}

func (c *countingRecorder) ObserveRunDuration(time.Duration)         { c.runs++ }
func (c *countingRecorder) SetFilesScanned(n int)                    { c.files = n }
func (c *countingRecorder) AddLinkOutcomes(status string, n int)     { c.links[status] += n }
func (c *countingRecorder) IncRunOutcome(outcome metrics.RunOutcome) { c.outcomes[outcome]++ }

func sampleTree() map[string]string {
	return map[string]string{
		"/docs/index.md":          "# Home\n[guide](guide/setup.md#install)\n[ext](https://example.com)\n",
		"/docs/guide/setup.md":    "# Setup\n## Install\n[back](../index.md#home)\n[bad](../nope.md)\n",
		"/docs/guide/advanced.md": "# Advanced\n[setup](setup.md#configure)\n",
		"/docs/zz/last.md":        "[self](#last)\n# Last\n",
	}
}

func TestValidator_Run_Ordering(t *testing.T) {
	v := NewValidator(docfs.NewMemFS(sampleTree()), "/docs", WithLogger(discardLogger()))

	report, err := v.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, report.FilesScanned)
	assert.Equal(t, "/docs", report.Root)
	assert.NotEmpty(t, report.RunID)

	var got []string
	for _, occ := range report.Occurrences {
		got = append(got, fmt.Sprintf("%s:%d %s %s", occ.File, occ.Line, occ.Status, occ.Target))
	}
	assert.Equal(t, []string{
		"guide/advanced.md:2 broken #configure",
		"guide/setup.md:3 ok ",
		"guide/setup.md:4 broken /docs/nope.md",
		"index.md:2 ok ",
		"index.md:3 external ",
		"zz/last.md:1 ok ",
	}, got)

	assert.Equal(t, Counts{OK: 3, External: 1, Broken: 2}, report.Counts())
	assert.True(t, report.HasBroken())
	assert.Len(t, report.Broken(), 2)
}

func TestValidator_Run_ParallelMatchesSequential(t *testing.T) {
	tree := sampleTree()
	for i := range 40 {
		tree[fmt.Sprintf("/docs/bulk/page%02d.md", i)] = fmt.Sprintf("# Page %d\n[next](page%02d.md#page-%d)\n[home](../index.md)\n", i, i+1, i+1)
	}

	seq, err := NewValidator(docfs.NewMemFS(tree), "/docs", WithLogger(discardLogger())).Run(context.Background())
	require.NoError(t, err)

	par, err := NewValidator(docfs.NewMemFS(tree), "/docs", WithWorkers(8), WithLogger(discardLogger())).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, seq.Occurrences, par.Occurrences)
	assert.Equal(t, seq.Counts(), par.Counts())
	// page39 links to page40, which does not exist.
	assert.Equal(t, 3, seq.Counts().Broken)
}

func TestValidator_Run_Idempotent(t *testing.T) {
	v := NewValidator(docfs.NewMemFS(sampleTree()), "/docs", WithLogger(discardLogger()))

	first, err := v.Run(context.Background())
	require.NoError(t, err)
	second, err := v.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Occurrences, second.Occurrences)
	assert.Equal(t, first.Counts(), second.Counts())
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestValidator_Run_NoLinks(t *testing.T) {
	v := NewValidator(docfs.NewMemFS(map[string]string{"/docs/a.md": "# Only text\n"}), "/docs", WithLogger(discardLogger()))

	report, err := v.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Occurrences)
	assert.False(t, report.HasBroken())
	assert.Equal(t, 0, report.Counts().Total())
}

func TestValidator_Run_FatalErrors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		rec := newCountingRecorder()
		v := NewValidator(docfs.NewMemFS(nil), "/docs", WithRecorder(rec), WithLogger(discardLogger()))
		report, err := v.Run(context.Background())
		require.Error(t, err)
		assert.Nil(t, report)
		assert.Equal(t, 1, rec.outcomes[metrics.OutcomeError])
	})

	t.Run("unreadable target aborts without report", func(t *testing.T) {
		fsys := docfs.NewMemFS(sampleTree())
		fsys.Unreadable = map[string]bool{"/docs/guide/setup.md": true}
		for _, workers := range []int{1, 4} {
			report, err := NewValidator(fsys, "/docs", WithWorkers(workers), WithLogger(discardLogger())).Run(context.Background())
			require.Error(t, err)
			assert.Nil(t, report)
			assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryFileSystem))
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewValidator(docfs.NewMemFS(sampleTree()), "/docs", WithLogger(discardLogger())).Run(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestValidator_Run_RecordsMetrics(t *testing.T) {
	rec := newCountingRecorder()
	v := NewValidator(docfs.NewMemFS(sampleTree()), "/docs", WithRecorder(rec), WithLogger(discardLogger()))

	_, err := v.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, rec.runs)
	assert.Equal(t, 4, rec.files)
	assert.Equal(t, map[string]int{"ok": 3, "external": 1, "broken": 2}, rec.links)
	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeFailed])
}

func TestValidator_Run_SkipCodeBlocks(t *testing.T) {
	tree := map[string]string{
		"/docs/a.md": "# Real\n\n```md\n# Fake\n[x](missing.md)\n```\n\n[real](#real) [fake](#fake)\n",
	}

	plain, err := NewValidator(docfs.NewMemFS(tree), "/docs", WithLogger(discardLogger())).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Counts{OK: 2, Broken: 1}, plain.Counts())

	skipping, err := NewValidator(docfs.NewMemFS(tree), "/docs", WithSkipCodeBlocks(true), WithLogger(discardLogger())).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Counts{OK: 1, Broken: 1}, skipping.Counts())
	require.Len(t, skipping.Broken(), 1)
	assert.Equal(t, "#fake", skipping.Broken()[0].Target)
}

// TestValidator_EndToEnd_OSFS exercises the heading change scenario on real files.
func TestValidator_EndToEnd_OSFS(t *testing.T) {
	root := t.TempDir()
	docs := filepath.Join(root, "docs")
	require.NoError(t, os.MkdirAll(docs, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "a.md"), []byte("# Intro\n\n[b](b.md#intro)\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "b.md"), []byte("## Intro\n"), 0o600))

	v := NewValidator(docfs.NewOSFS(nil, nil), root, WithLogger(discardLogger()))

	report, err := v.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Occurrences, 1)
	assert.Equal(t, StatusOK, report.Occurrences[0].Status)
	assert.Equal(t, filepath.Join("docs", "a.md"), report.Occurrences[0].File)

	require.NoError(t, os.WriteFile(filepath.Join(docs, "b.md"), []byte("## Introduction\n"), 0o600))

	report, err = v.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Occurrences, 1)
	assert.Equal(t, Outcome{Status: StatusBroken, Target: "#intro"}, report.Occurrences[0].Outcome)
	assert.Equal(t, 3, report.Occurrences[0].Line)

	require.NoError(t, os.WriteFile(filepath.Join(docs, "a.md"), []byte("[x](missing.md#intro)\n"), 0o600))
	report, err = v.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Broken(), 1)
	assert.Equal(t, filepath.Join(docs, "missing.md"), report.Broken()[0].Target)
}
