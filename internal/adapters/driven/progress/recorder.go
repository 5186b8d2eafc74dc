package progress

import (
	"sync"

	"github.com/stashware/dredge-cli/internal/core/domain"
	"github.com/stashware/dredge-cli/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.ProgressSink = (*Recorder)(nil)

// Recorder captures every event it receives. For tests.
type Recorder struct {
	mu sync.Mutex

	ProgressEvents []domain.ProgressEvent
	LogEvents      []domain.LogEvent
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Progress records a progress event.
func (r *Recorder) Progress(event domain.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ProgressEvents = append(r.ProgressEvents, event)
}

// Log records a log event.
func (r *Recorder) Log(event domain.LogEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LogEvents = append(r.LogEvents, event)
}

// Logs returns a copy of the recorded log events.
func (r *Recorder) Logs() []domain.LogEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.LogEvent, len(r.LogEvents))
	copy(out, r.LogEvents)
	return out
}
