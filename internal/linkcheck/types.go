package linkcheck

import "time"

// Status classifies a single link occurrence.
type Status string

const (
	// StatusOK means the target file and anchor (if any) resolve.
	StatusOK Status = "ok"
	// StatusExternal marks http:// and https:// targets, which are never checked.
	StatusExternal Status = "external"
	// StatusBroken means the target file is missing or the anchor is not a heading slug.
	StatusBroken Status = "broken"
)

// Outcome is the classification of one link target.
type Outcome struct {
	Status Status `json:"status"`
	// Target is set for broken links: the resolved absolute path of a missing
	// file, or "#anchor" for a missing heading.
	Target string `json:"target,omitempty"`
}

// LinkOccurrence is one [text](target) match on one line of one document.
type LinkOccurrence struct {
	File string `json:"file"` // relative to the documentation root
	Line int    `json:"line"` // 1-based
	Text string `json:"text"`
	Link string `json:"link"`
	Outcome
}

// Counts aggregates occurrences by status.
type Counts struct {
	OK       int `json:"ok"`
	External int `json:"external"`
	Broken   int `json:"broken"`
}

// Total returns the number of occurrences counted.
func (c Counts) Total() int { return c.OK + c.External + c.Broken }

// Report is the complete output of a validation run. Occurrences are ordered
// by discovery order of the document, then line, then position in the line.
type Report struct {
	RunID        string
	Root         string
	FilesScanned int
	Occurrences  []LinkOccurrence
	Duration     time.Duration
}

// Counts tallies occurrences by status.
func (r *Report) Counts() Counts {
	var c Counts
	for _, occ := range r.Occurrences {
		switch occ.Status {
		case StatusOK:
			c.OK++
		case StatusExternal:
			c.External++
		case StatusBroken:
			c.Broken++
		}
	}
	return c
}

// Broken returns the broken occurrences in report order.
func (r *Report) Broken() []LinkOccurrence {
	var out []LinkOccurrence
	for _, occ := range r.Occurrences {
		if occ.Status == StatusBroken {
			out = append(out, occ)
		}
	}
	return out
}

// HasBroken reports whether any link is broken.
func (r *Report) HasBroken() bool {
	for _, occ := range r.Occurrences {
		if occ.Status == StatusBroken {
			return true
		}
	}
	return false
}
