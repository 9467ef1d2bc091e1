// Copyright © 2026 The pyclewn authors

package tracer

import (
	"errors"
	"fmt"
)

// ErrSessionActive is returned by InstallSession when another session
// already holds the process-wide trace hook.
var ErrSessionActive = errors.New("a trace session is already active")

// LookupError indicates the breakpoint index returned malformed or
// inconsistent state while resolving breakpoints for a source path.
type LookupError struct {
	Path string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("breakpoint lookup for %q: %v", e.Path, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// HandlerError wraps a failure raised by the UserEventHandler capability.
// Handler failures are never retried; they end the session.
type HandlerError struct {
	Op  string
	Err error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler %s: %v", e.Op, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// DecodeError reports a stop-line value that could not be interpreted.
// It signals internal state corruption and is never silently mapped to a
// "do not stop" decision.
type DecodeError struct {
	Value StopLine
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode stop line %#v", e.Value)
}

// FrameError is the diagnostic recorded against the frame where dispatch
// failed. Tracing has been torn down by the time a FrameError is returned
// to the host; the traced program resumes untraced.
type FrameError struct {
	Path  string
	Line  int
	Event Event
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("trace dispatch failed at %s:%d (%s event): %v",
		e.Path, e.Line, e.Event, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }
