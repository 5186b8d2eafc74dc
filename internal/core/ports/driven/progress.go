package driven

import "github.com/stashware/dredge-cli/internal/core/domain"

// ProgressSink receives run progress and log events.
//
// Both methods are fire-and-forget: implementations must return without
// blocking, dropping events if their consumer is slow or unavailable,
// so that ingestion is never stalled by observation.
type ProgressSink interface {
	// Progress reports that one host finished processing.
	Progress(event domain.ProgressEvent)

	// Log reports a run log line.
	Log(event domain.LogEvent)
}
