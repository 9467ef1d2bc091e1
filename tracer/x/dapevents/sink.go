// Copyright © 2026 The pyclewn authors

// Package dapevents mirrors debugger stops onto a Debug Adapter
// Protocol event stream. It does not implement a DAP server: it only
// writes the one-way event messages (stopped, continued, terminated,
// output) that let a DAP-speaking frontend follow a trace session.
package dapevents

import (
	"io"
	"sync"

	"github.com/google/go-dap"
)

// The tracer runs one logical execution thread.
const traceeThreadID = 1

// Sink serializes DAP protocol messages onto a writer, numbering them
// with a monotonic sequence. Safe for concurrent use.
type Sink struct {
	mu     sync.Mutex
	writer io.Writer
	seq    int
}

// NewSink creates a sink writing DAP wire messages to w.
func NewSink(w io.Writer) *Sink {
	return &Sink{writer: w}
}

func (s *Sink) send(msg dap.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dap.WriteProtocolMessage(s.writer, msg)
}

func (s *Sink) newEvent(event string) dap.Event {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()
	return dap.Event{
		ProtocolMessage: dap.ProtocolMessage{Seq: seq, Type: "event"},
		Event:           event,
	}
}

// Stopped emits a stopped event. reason follows the DAP vocabulary:
// "step", "breakpoint" or "exception".
func (s *Sink) Stopped(reason string, hitBreakpointIDs []int) error {
	evt := &dap.StoppedEvent{Event: s.newEvent("stopped")}
	evt.Body.Reason = reason
	evt.Body.ThreadId = traceeThreadID
	evt.Body.AllThreadsStopped = true
	if len(hitBreakpointIDs) > 0 {
		evt.Body.HitBreakpointIds = hitBreakpointIDs
	}
	return s.send(evt)
}

// Continued emits a continued event after a stop resumes.
func (s *Sink) Continued() error {
	evt := &dap.ContinuedEvent{Event: s.newEvent("continued")}
	evt.Body.ThreadId = traceeThreadID
	evt.Body.AllThreadsContinued = true
	return s.send(evt)
}

// Terminated emits a terminated event when tracing ends.
func (s *Sink) Terminated() error {
	return s.send(&dap.TerminatedEvent{Event: s.newEvent("terminated")})
}

// Output emits an output event on the console category.
func (s *Sink) Output(text string) error {
	evt := &dap.OutputEvent{Event: s.newEvent("output")}
	evt.Body.Category = "console"
	evt.Body.Output = text
	return s.send(evt)
}
