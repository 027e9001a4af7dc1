package linkcheck

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"git.home.luguber.info/inful/doclinks/internal/docfs"
	foundationerrors "git.home.luguber.info/inful/doclinks/internal/foundation/errors"
	"git.home.luguber.info/inful/doclinks/internal/headings"
	"git.home.luguber.info/inful/doclinks/internal/util/sets"
)

// DefaultLinkPattern matches inline markdown links: group 1 is the display
// text, group 2 the target.
const DefaultLinkPattern = `\[([^\]]*)\]\(([^)]+)\)`

// Resolver extracts and classifies the links of single documents.
type Resolver struct {
	fsys    docfs.FS
	root    string
	links   *regexp.Regexp
	indexer *headings.Indexer
	mask    headings.LineMask
	cache   *lru.Cache[string, sets.Set[string]]
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver) error

// WithLinkPattern overrides the link pattern. It must have two capture groups.
func WithLinkPattern(re *regexp.Regexp) ResolverOption {
	return func(r *Resolver) error {
		if re.NumSubexp() < 2 {
			return foundationerrors.ConfigError("link pattern needs display and target capture groups").
				WithContext("pattern", re.String()).
				Build()
		}
		r.links = re
		return nil
	}
}

// WithIndexer sets the heading indexer used for anchor checks.
func WithIndexer(ix *headings.Indexer) ResolverOption {
	return func(r *Resolver) error {
		r.indexer = ix
		return nil
	}
}

// WithLineMask skips link tokens on lines reported by mask.
func WithLineMask(mask headings.LineMask) ResolverOption {
	return func(r *Resolver) error {
		r.mask = mask
		return nil
	}
}

// WithHeadingCache keeps up to size heading indexes keyed by target path.
// Content must not change while the resolver is in use.
func WithHeadingCache(size int) ResolverOption {
	return func(r *Resolver) error {
		if size <= 0 {
			r.cache = nil
			return nil
		}
		cache, err := lru.New[string, sets.Set[string]](size)
		if err != nil {
			return fmt.Errorf("create heading cache: %w", err)
		}
		r.cache = cache
		return nil
	}
}

// NewResolver creates a Resolver for documents under root.
func NewResolver(fsys docfs.FS, root string, opts ...ResolverOption) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "resolve documentation root").
			Fatal().
			WithContext("root", root).
			Build()
	}
	r := &Resolver{
		fsys:    fsys,
		root:    abs,
		links:   regexp.MustCompile(DefaultLinkPattern),
		indexer: headings.NewIndexer(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Root returns the absolute documentation root.
func (r *Resolver) Root() string { return r.root }

// ResolveDocument reads the document at rel (relative to the root) and
// classifies every link token in it, in line order then token order.
func (r *Resolver) ResolveDocument(rel string) ([]LinkOccurrence, error) {
	sourcePath := filepath.Join(r.root, rel)
	content, err := r.fsys.ReadText(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}

	var skip sets.Set[int]
	if r.mask != nil {
		skip = r.mask(content)
	}

	var out []LinkOccurrence
	for i, line := range strings.Split(content, "\n") {
		if skip.Has(i + 1) {
			continue
		}
		for _, m := range r.links.FindAllStringSubmatch(line, -1) {
			outcome, err := r.Classify(sourcePath, m[2])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", rel, i+1, err)
			}
			out = append(out, LinkOccurrence{
				File:    rel,
				Line:    i + 1,
				Text:    m[1],
				Link:    m[2],
				Outcome: outcome,
			})
		}
	}
	return out, nil
}

// Classify resolves one link target found in the document at sourcePath.
//
// External URLs bypass every check. A non-empty path is resolved against
// the source document's directory and must exist; only then is the anchor,
// if any, looked up in the target's headings (the source's own headings when
// the path is empty). A read failure on an existing target is returned as
// an error rather than a broken outcome.
func (r *Resolver) Classify(sourcePath, link string) (Outcome, error) {
	linkPath, anchor := splitTarget(link)
	if isExternal(linkPath) {
		return Outcome{Status: StatusExternal}, nil
	}

	targetPath := sourcePath
	if linkPath != "" {
		targetPath = resolvePath(filepath.Dir(sourcePath), linkPath)
		if !r.fsys.Exists(targetPath) {
			return Outcome{Status: StatusBroken, Target: targetPath}, nil
		}
	}

	if anchor != "" {
		index, err := r.HeadingIndex(targetPath)
		if err != nil {
			return Outcome{}, err
		}
		if !index.Has(anchor) {
			return Outcome{Status: StatusBroken, Target: "#" + anchor}, nil
		}
	}

	return Outcome{Status: StatusOK}, nil
}

// HeadingIndex returns the heading slugs of the document at path.
func (r *Resolver) HeadingIndex(path string) (sets.Set[string], error) {
	if r.cache != nil {
		if index, ok := r.cache.Get(path); ok {
			return index, nil
		}
	}
	content, err := r.fsys.ReadText(path)
	if err != nil {
		if foundationerrors.IsClassified(err) {
			return nil, err
		}
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "read link target").
			Fatal().
			WithContext("path", path).
			Build()
	}
	index := r.indexer.Index(content)
	if r.cache != nil {
		r.cache.Add(path, index)
	}
	return index, nil
}

func isExternal(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

// splitTarget separates the path from the anchor. Only the segment between
// the first and second '#' is used as the anchor.
func splitTarget(link string) (linkPath, anchor string) {
	parts := strings.Split(link, "#")
	linkPath = parts[0]
	if len(parts) > 1 {
		anchor = parts[1]
	}
	return linkPath, anchor
}

func resolvePath(baseDir, linkPath string) string {
	if filepath.IsAbs(linkPath) {
		return filepath.Clean(linkPath)
	}
	return filepath.Join(baseDir, linkPath)
}
