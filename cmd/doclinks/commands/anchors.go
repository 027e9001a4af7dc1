package commands

import (
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/doclinks/internal/docfs"
	"git.home.luguber.info/inful/doclinks/internal/headings"
	"git.home.luguber.info/inful/doclinks/internal/markdown"
)

// AnchorsCmd implements the 'anchors' command.
type AnchorsCmd struct {
	File           string `arg:"" help:"Markdown file to index" type:"existingfile"`
	SkipCodeBlocks bool   `name:"skip-code-blocks" help:"Ignore headings inside code blocks"`
}

// Run prints one line per heading: line number, anchor and heading text.
func (a *AnchorsCmd) Run(g *Global) error {
	content, err := docfs.NewOSFS(nil, nil).ReadText(a.File)
	if err != nil {
		return err
	}

	var opts []headings.Option
	if a.SkipCodeBlocks {
		opts = append(opts, headings.WithLineMask(markdown.CodeLines))
	}
	hs := headings.NewIndexer(opts...).Headings(content)

	tw := tabwriter.NewWriter(g.Stdout, 0, 4, 2, ' ', 0)
	for _, h := range hs {
		if _, err := fmt.Fprintf(tw, "%d\t#%s\t%s\n", h.Line, h.Slug, h.Text); err != nil {
			return err
		}
	}
	return tw.Flush()
}
