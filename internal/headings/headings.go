// Package headings extracts markdown headings and computes their anchor slugs.
package headings

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/doclinks/internal/util/sets"
)

// DefaultPattern matches an ATX heading line: one to six '#' followed by
// whitespace and the heading text. A bare '#' line matches with empty text.
const DefaultPattern = `^#{1,6}(?:\s+(.*))?$`

// whitespace mirrors the ECMAScript \s class so that non-breaking and other
// Unicode spaces are hyphenated rather than stripped.
const whitespace = `\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`

var (
	nonSlugChars  = regexp.MustCompile(`[^\w` + whitespace + `-]`)
	whitespaceRun = regexp.MustCompile(`[` + whitespace + `]+`)
)

// Slugify converts heading text into its anchor slug.
//
// The text is trimmed and lower-cased, every character that is not an ASCII
// word character, whitespace or '-' is removed, and each run of whitespace
// becomes a single '-'. Removed punctuation leaves no hyphen behind:
// "API (v2)" becomes "api-v2".
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = nonSlugChars.ReplaceAllString(s, "")
	return whitespaceRun.ReplaceAllString(s, "-")
}

// Heading is a heading line found in a document.
type Heading struct {
	Text string
	Slug string
	Line int // 1-based
}

// LineMask reports the 1-based line numbers of content that must be ignored.
type LineMask func(content string) sets.Set[int]

// Indexer extracts headings from document text.
type Indexer struct {
	pattern *regexp.Regexp
	mask    LineMask
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithPattern overrides the heading line pattern. Capture group 1, when
// present, is taken as the heading text.
func WithPattern(re *regexp.Regexp) Option {
	return func(ix *Indexer) {
		if re != nil {
			ix.pattern = re
		}
	}
}

// WithLineMask skips lines reported by mask (e.g. lines inside code blocks).
func WithLineMask(mask LineMask) Option {
	return func(ix *Indexer) { ix.mask = mask }
}

// NewIndexer creates an Indexer using DefaultPattern unless overridden.
func NewIndexer(opts ...Option) *Indexer {
	ix := &Indexer{pattern: regexp.MustCompile(DefaultPattern)}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Headings returns every heading in content in document order.
func (ix *Indexer) Headings(content string) []Heading {
	var skip sets.Set[int]
	if ix.mask != nil {
		skip = ix.mask(content)
	}

	var out []Heading
	for i, line := range strings.Split(content, "\n") {
		if skip.Has(i + 1) {
			continue
		}
		m := ix.pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := ""
		if len(m) > 1 {
			text = strings.TrimSpace(m[1])
		}
		out = append(out, Heading{Text: text, Slug: Slugify(text), Line: i + 1})
	}
	return out
}

// Index returns the set of heading slugs in content. Duplicate slugs collapse.
func (ix *Indexer) Index(content string) sets.Set[string] {
	hs := ix.Headings(content)
	index := make(sets.Set[string], len(hs))
	for _, h := range hs {
		index.Add(h.Slug)
	}
	return index
}
