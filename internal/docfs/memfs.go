package docfs

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"

	foundationerrors "git.home.luguber.info/inful/doclinks/internal/foundation/errors"
)

// MemFS is an in-memory FS keyed by cleaned path. Directories are implied by
// the files beneath them. Paths listed in Unreadable exist but fail to read.
type MemFS struct {
	Files      map[string]string
	Unreadable map[string]bool
	Extensions []string

	mu    sync.Mutex
	reads map[string]int
}

// NewMemFS creates a MemFS from a path -> content map.
func NewMemFS(files map[string]string) *MemFS {
	m := &MemFS{Files: make(map[string]string, len(files)), reads: map[string]int{}}
	for p, c := range files {
		m.Files[filepath.Clean(p)] = c
	}
	return m
}

// Exists reports whether path is a file or an implied directory.
func (m *MemFS) Exists(path string) bool {
	path = filepath.Clean(path)
	if _, ok := m.Files[path]; ok {
		return true
	}
	prefix := path + string(filepath.Separator)
	if path == string(filepath.Separator) {
		prefix = path
	}
	for p := range m.Files {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// ReadText returns the stored content of path.
func (m *MemFS) ReadText(path string) (string, error) {
	path = filepath.Clean(path)
	content, ok := m.Files[path]
	if !ok || m.Unreadable[path] {
		return "", foundationerrors.FileSystemError("read document").WithContext("path", path).Build()
	}
	m.mu.Lock()
	if m.reads == nil {
		m.reads = map[string]int{}
	}
	m.reads[path]++
	m.mu.Unlock()
	return content, nil
}

// Reads returns how many times path was read.
func (m *MemFS) Reads(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[filepath.Clean(path)]
}

// ListMarkdownFiles returns markdown files under root in lexical order.
func (m *MemFS) ListMarkdownFiles(root string) ([]string, error) {
	root = filepath.Clean(root)
	if !m.Exists(root) {
		return nil, foundationerrors.FileSystemError("list markdown files").WithContext("root", root).Build()
	}
	exts := m.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	var files []string
	for p := range m.Files {
		rel, err := filepath.Rel(root, p)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		if hasExtension(p, exts) {
			files = append(files, rel)
		}
	}
	slices.Sort(files)
	return files, nil
}
