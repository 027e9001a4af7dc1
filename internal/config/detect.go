package config

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/doclinks/internal/git"
)

// candidateDirs are checked in order when no root is configured.
var candidateDirs = []string{"docs", "documentation"}

// DetectRoot picks the documentation root for a run started in dir. It looks
// for docs/ then documentation/ in dir, then in the enclosing git worktree
// root. It falls back to dir itself and reports false in that case.
func DetectRoot(dir string) (string, bool) {
	if root, ok := findCandidate(dir); ok {
		return root, true
	}
	if repoRoot, err := git.RepositoryRoot(dir); err == nil {
		if root, ok := findCandidate(repoRoot); ok {
			return root, true
		}
	}
	return dir, false
}

func findCandidate(base string) (string, bool) {
	for _, name := range candidateDirs {
		p := filepath.Join(base, name)
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			return p, true
		}
	}
	return "", false
}
