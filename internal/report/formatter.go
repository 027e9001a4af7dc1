// Package report renders validation reports for people and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"git.home.luguber.info/inful/doclinks/internal/linkcheck"
)

// Formatter writes a validation report.
type Formatter interface {
	Format(w io.Writer, r *linkcheck.Report) error
}

// NewFormatter creates the appropriate formatter based on format string.
func NewFormatter(format string, quiet bool) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	default:
		return NewTextFormatter(quiet)
	}
}

// TextFormatter formats results as human-readable text.
type TextFormatter struct {
	quiet bool
}

// NewTextFormatter creates a text formatter. Quiet output lists broken links only.
func NewTextFormatter(quiet bool) *TextFormatter {
	return &TextFormatter{quiet: quiet}
}

// Format outputs the counts followed by the broken link listing.
func (f *TextFormatter) Format(w io.Writer, r *linkcheck.Report) error {
	p := &printer{w: w}
	counts := r.Counts()

	if !f.quiet {
		p.line("Validating documentation links in %s", r.Root)
		p.line("")
		p.line("Results:")
		p.line("   Valid: %s", humanize.Comma(int64(counts.OK)))
		p.line("   External: %s", humanize.Comma(int64(counts.External)))
		p.line("   Broken: %s", humanize.Comma(int64(counts.Broken)))
		p.line("")
	}

	broken := r.Broken()
	if len(broken) > 0 {
		if !f.quiet {
			p.line("Broken Links:")
			p.line("")
		}
		for _, occ := range broken {
			p.line("   %s:%d", occ.File, occ.Line)
			p.line("   -> %s => %s", occ.Link, occ.Target)
			p.line("")
		}
	}

	if !f.quiet {
		if len(broken) == 0 {
			p.line("All links valid!")
		} else {
			p.line("%d broken link%s found.", len(broken), pluralize(len(broken)))
		}
		p.line("%s", strings.Repeat("━", 60))
		p.line("Scanned %s file%s in %s", humanize.Comma(int64(r.FilesScanned)), pluralize(r.FilesScanned), r.Duration.Round(time.Microsecond))
	}
	return p.err
}

// printer remembers the first write error so Format can stay linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

// JSONFormatter formats results as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// JSONOutput represents the JSON output structure.
type JSONOutput struct {
	RunID      string           `json:"run_id"`
	Root       string           `json:"root"`
	FilesTotal int              `json:"files_total"`
	DurationMS int64            `json:"duration_ms"`
	Counts     linkcheck.Counts `json:"counts"`
	Broken     []JSONBrokenLink `json:"broken"`
}

// JSONBrokenLink represents a single broken link in JSON format.
type JSONBrokenLink struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Link   string `json:"link"`
	Target string `json:"target"`
}

// Format outputs results in JSON format.
func (f *JSONFormatter) Format(w io.Writer, r *linkcheck.Report) error {
	output := JSONOutput{
		RunID:      r.RunID,
		Root:       r.Root,
		FilesTotal: r.FilesScanned,
		DurationMS: r.Duration.Milliseconds(),
		Counts:     r.Counts(),
		Broken:     []JSONBrokenLink{},
	}
	for _, occ := range r.Broken() {
		output.Broken = append(output.Broken, JSONBrokenLink{
			File:   occ.File,
			Line:   occ.Line,
			Text:   occ.Text,
			Link:   occ.Link,
			Target: occ.Target,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// pluralize returns "s" if count != 1, otherwise empty string.
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
