// Package docfs abstracts the filesystem access needed to validate a
// documentation tree so the link resolver can run against real files or an
// in-memory fake.
package docfs

import "path/filepath"

// FS is the capability set the link resolver needs.
type FS interface {
	// Exists reports whether path names an existing file or directory.
	Exists(path string) bool
	// ReadText returns the full content of path as text with "\n" line separators.
	ReadText(path string) (string, error)
	// ListMarkdownFiles returns root-relative paths of all markdown files
	// under root in lexical order.
	ListMarkdownFiles(root string) ([]string, error)
}

// DefaultExtensions lists the file extensions treated as markdown.
var DefaultExtensions = []string{".md"}

func hasExtension(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
