// Package events publishes link check run results to NATS JetStream.
//
// A run produces one RunEvent carrying the counts and every broken link.
// Publication is best effort: callers log failures and keep their exit code.
package events
