package events

import (
	"time"

	"git.home.luguber.info/inful/doclinks/internal/linkcheck"
)

// RunEvent is published once per completed validation run.
type RunEvent struct {
	RunID      string    `json:"run_id"`
	Root       string    `json:"root"`
	Files      int       `json:"files"`
	DurationMS int64     `json:"duration_ms"`
	Counts     Counts    `json:"counts"`
	Passed     bool      `json:"passed"`
	Broken     []Broken  `json:"broken,omitempty"`
	Timestamp  time.Time `json:"timestamp"`

	// Repository context, empty outside a git worktree.
	Commit string `json:"commit,omitempty"`
	Branch string `json:"branch,omitempty"`
}

// Counts mirrors linkcheck.Counts on the wire.
type Counts struct {
	OK       int `json:"ok"`
	External int `json:"external"`
	Broken   int `json:"broken"`
}

// Broken describes one broken link occurrence.
type Broken struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Link   string `json:"link"`
	Target string `json:"target"`
}

// NewRunEvent builds the event payload for a finished report.
func NewRunEvent(report *linkcheck.Report) *RunEvent {
	c := report.Counts()
	ev := &RunEvent{
		RunID:      report.RunID,
		Root:       report.Root,
		Files:      report.FilesScanned,
		DurationMS: report.Duration.Milliseconds(),
		Counts:     Counts{OK: c.OK, External: c.External, Broken: c.Broken},
		Passed:     c.Broken == 0,
		Timestamp:  time.Now().UTC(),
	}
	for _, occ := range report.Broken() {
		ev.Broken = append(ev.Broken, Broken{
			File:   occ.File,
			Line:   occ.Line,
			Link:   occ.Link,
			Target: occ.Target,
		})
	}
	return ev
}
