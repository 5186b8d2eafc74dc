// Package progress provides ProgressSink implementations. The console
// sink renders run progress to a terminal; the recorder captures events
// for tests.
package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/stashware/dredge-cli/internal/core/domain"
	"github.com/stashware/dredge-cli/internal/core/ports/driven"
)

// Ensure ConsoleSink implements the interface.
var _ driven.ProgressSink = (*ConsoleSink)(nil)

const consoleBuffer = 256

// ConsoleSink renders progress and log events to a writer. Events are
// handed to a single render goroutine through a buffered channel; when
// the buffer is full events are dropped so the pipeline never blocks on
// a slow terminal.
type ConsoleSink struct {
	events chan any
	done   chan struct{}
	out    io.Writer

	mu     sync.RWMutex
	closed bool
}

// NewConsoleSink creates a console sink writing to out and starts its
// render goroutine. Call Close to flush buffered events.
func NewConsoleSink(out io.Writer) *ConsoleSink {
	s := &ConsoleSink{
		events: make(chan any, consoleBuffer),
		done:   make(chan struct{}),
		out:    out,
	}
	go s.render()
	return s
}

// Progress reports per-host progress. Never blocks.
func (s *ConsoleSink) Progress(event domain.ProgressEvent) {
	s.offer(event)
}

// Log reports a run log line. Never blocks.
func (s *ConsoleSink) Log(event domain.LogEvent) {
	s.offer(event)
}

// offer hands an event to the render goroutine, dropping it when the
// buffer is full or the sink is already closed.
func (s *ConsoleSink) offer(event any) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.events <- event:
	default:
		// Buffer full, drop the event.
	}
}

// Close drains buffered events and stops the render goroutine.
// Events offered after Close are dropped.
func (s *ConsoleSink) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.events)
	s.mu.Unlock()
	<-s.done
}

func (s *ConsoleSink) render() {
	defer close(s.done)
	for e := range s.events {
		switch ev := e.(type) {
		case domain.ProgressEvent:
			fmt.Fprintf(s.out, "  [%d/%d] %s\n", ev.HostIndex, ev.HostTotal, ev.HostName)
		case domain.LogEvent:
			fmt.Fprintf(s.out, "  %s: %s\n", ev.Severity, ev.Line)
		}
	}
}
