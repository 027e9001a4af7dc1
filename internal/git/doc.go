// Package git locates the git worktree enclosing a documentation tree so the
// documentation root can be auto-detected and runs can be tagged with the
// checked-out commit.
package git
