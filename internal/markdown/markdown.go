// Package markdown holds goldmark-backed analysis helpers used to refine
// line-based scanning of documentation files.
package markdown

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/doclinks/internal/util/sets"
)

// CodeLines parses content and returns the 1-based line numbers covered by
// fenced or indented code blocks, fence lines included.
func CodeLines(content string) sets.Set[int] {
	src := []byte(content)
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	lines := strings.Split(content, "\n")
	starts := lineStarts(src)
	out := sets.New[int]()

	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if n.Kind() != gmast.KindFencedCodeBlock && n.Kind() != gmast.KindCodeBlock {
			return gmast.WalkContinue, nil
		}

		first, last := 0, 0
		segs := n.Lines()
		for i := range segs.Len() {
			line := lineAt(starts, segs.At(i).Start)
			out.Add(line)
			if first == 0 {
				first = line
			}
			last = line
		}

		if fenced, ok := n.(*gmast.FencedCodeBlock); ok {
			markFences(out, fenced, lines, starts, first, last)
		}
		return gmast.WalkSkipChildren, nil
	})

	return out
}

func markFences(out sets.Set[int], n *gmast.FencedCodeBlock, lines []string, starts []int, first, last int) {
	open := 0
	switch {
	case n.Info != nil:
		open = lineAt(starts, n.Info.Segment.Start)
	case first > 1:
		open = first - 1
	}
	if open > 0 {
		out.Add(open)
	}

	closeLine := last + 1
	if last == 0 {
		closeLine = open + 1
	}
	if open > 0 && closeLine <= len(lines) && isFence(lines[closeLine-1]) {
		out.Add(closeLine)
	}
}

func isFence(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}

// lineStarts returns the byte offset at which each line begins.
func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineAt maps a byte offset to its 1-based line number.
func lineAt(starts []int, offset int) int {
	return sort.Search(len(starts), func(i int) bool { return starts[i] > offset })
}
