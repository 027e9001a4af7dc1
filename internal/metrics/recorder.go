package metrics

import "time"

// RunOutcome enumerates final run states.
type RunOutcome string

const (
	OutcomePassed RunOutcome = "passed" // no broken links
	OutcomeFailed RunOutcome = "failed" // at least one broken link
	OutcomeError  RunOutcome = "error"  // aborted by a fatal error
)

// Recorder defines observability hooks for validation runs.
type Recorder interface {
	ObserveRunDuration(d time.Duration)
	SetFilesScanned(n int)
	AddLinkOutcomes(status string, n int)
	IncRunOutcome(outcome RunOutcome)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(time.Duration) {}
func (NoopRecorder) SetFilesScanned(int)              {}
func (NoopRecorder) AddLinkOutcomes(string, int)      {}
func (NoopRecorder) IncRunOutcome(RunOutcome)         {}
