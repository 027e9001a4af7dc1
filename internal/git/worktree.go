package git

import (
	stderrors "errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNotRepository is returned when no enclosing git repository exists.
var ErrNotRepository = git.ErrRepositoryNotExists

// Worktree describes the repository enclosing a path.
type Worktree struct {
	Root   string // absolute worktree root
	Commit string // HEAD commit hash, empty for a repository without commits
	Branch string // short branch name, empty when HEAD is detached or unborn
}

// Open finds the worktree containing start, searching parent directories.
func Open(start string) (*Worktree, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return nil, err
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", abs, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}

	info := &Worktree{Root: wt.Filesystem.Root()}
	head, err := repo.Head()
	switch {
	case err == nil:
		info.Commit = head.Hash().String()
		if head.Name().IsBranch() {
			info.Branch = head.Name().Short()
		}
	case stderrors.Is(err, plumbing.ErrReferenceNotFound):
		// Unborn HEAD: fresh repository without commits.
	default:
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	return info, nil
}

// RepositoryRoot returns the worktree root containing start.
func RepositoryRoot(start string) (string, error) {
	wt, err := Open(start)
	if err != nil {
		return "", err
	}
	return wt.Root, nil
}
