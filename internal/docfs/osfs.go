package docfs

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	foundationerrors "git.home.luguber.info/inful/doclinks/internal/foundation/errors"
)

// OSFS implements FS on the host filesystem.
type OSFS struct {
	// Extensions selects markdown files; DefaultExtensions when empty.
	Extensions []string
	// Exclude holds doublestar patterns matched against slash-separated
	// root-relative paths. Matching directories are not descended into.
	Exclude []string
}

// NewOSFS creates an OSFS with the given extensions and exclude patterns.
func NewOSFS(extensions, exclude []string) *OSFS {
	return &OSFS{Extensions: extensions, Exclude: exclude}
}

// Exists reports whether path exists. Directories count, matching how link
// targets to folders are treated.
func (o *OSFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadText reads path and decodes it as UTF-8. A byte order mark selects
// UTF-16 decoding when present and is dropped. CRLF line endings become LF.
func (o *OSFS) ReadText(path string) (string, error) {
	// #nosec G304 -- path is a resolved documentation link target
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "read document").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return decodeText(raw)
}

func decodeText(raw []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	decoded, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", foundationerrors.WrapError(err, foundationerrors.CategoryDocs, "decode document").Fatal().Build()
	}
	return strings.ReplaceAll(string(decoded), "\r\n", "\n"), nil
}

// ListMarkdownFiles walks root recursively. Hidden directories are skipped.
func (o *OSFS) ListMarkdownFiles(root string) ([]string, error) {
	exts := o.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || o.excluded(rel) {
				return fs.SkipDir
			}
			return nil
		}
		if !hasExtension(path, exts) || o.excluded(rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "list markdown files").
			Fatal().
			WithContext("root", root).
			Build()
	}

	slices.Sort(files)
	return files, nil
}

func (o *OSFS) excluded(rel string) bool {
	slashed := filepath.ToSlash(rel)
	for _, pattern := range o.Exclude {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
	}
	return false
}
