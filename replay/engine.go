// Copyright © 2026 The pyclewn authors

package replay

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Mistobaan/pyclewn/tracer"
)

// Stats summarizes one replay run.
type Stats struct {
	Delivered  int // events delivered to a trace hook
	Suppressed int // events executed untraced
	Failed     int // dispatch failures (tracing torn down)
}

// Engine emulates the host runtime. It owns the process-wide trace hook
// slot (implementing tracer.HookInstaller) and replays a scripted event
// stream with the same delivery rules an interpreter applies: call
// events go to the global hook, every other event only reaches a frame
// that carries a local hook.
type Engine struct {
	global tracer.Hook
	log    *logrus.Logger
	stats  Stats
}

var _ tracer.HookInstaller = (*Engine)(nil)

// NewEngine creates an engine logging through log (a default logger when
// nil).
func NewEngine(log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.New()
	}
	return &Engine{log: log}
}

// InstallTraceHook implements tracer.HookInstaller.
func (e *Engine) InstallTraceHook(h tracer.Hook) { e.global = h }

// RemoveTraceHook implements tracer.HookInstaller.
func (e *Engine) RemoveTraceHook() { e.global = nil }

// Traced reports whether a global trace hook is installed.
func (e *Engine) Traced() bool { return e.global != nil }

// Stats returns the counters of the last Run.
func (e *Engine) Stats() Stats { return e.stats }

// Run replays the script's event stream. Scripted events for unknown or
// already-returned frames are script errors; dispatch failures disable
// tracing (the hooks are already torn down by the tracer) and the rest
// of the program runs untraced, mirroring the host contract.
func (e *Engine) Run(s *Script) error {
	e.stats = Stats{}
	frames := make(map[string]*Frame)
	var current *Frame

	for i, step := range s.Steps {
		switch step.Event {
		case tracer.EventCall:
			unit := s.Units[step.Unit]
			line := step.Line
			if line == 0 {
				line = unit.First
			}
			frame := NewFrame(step.Frame, unit, current, line)
			frames[step.Frame] = frame
			current = frame
			if e.global == nil {
				e.stats.Suppressed++
				continue
			}
			e.deliver(frame, step)

		case tracer.EventLine, tracer.EventException:
			frame, ok := frames[step.Frame]
			if !ok {
				return errors.Errorf("replay: event %d: frame %q is not live", i, step.Frame)
			}
			if step.Line != 0 {
				frame.SetLine(step.Line)
			}
			if e.global == nil || frame.Hook() == nil {
				e.stats.Suppressed++
				continue
			}
			e.deliver(frame, step)

		case tracer.EventReturn:
			frame, ok := frames[step.Frame]
			if !ok {
				return errors.Errorf("replay: event %d: frame %q is not live", i, step.Frame)
			}
			if frame != current {
				return errors.Errorf("replay: event %d: return from %q but %q is innermost",
					i, step.Frame, current.ID())
			}
			if e.global != nil && frame.Hook() != nil {
				e.deliver(frame, step)
			} else {
				e.stats.Suppressed++
			}
			// No event for a frame is ever delivered after its return.
			delete(frames, step.Frame)
			current = frame.caller
		}
	}
	return nil
}

func (e *Engine) deliver(frame *Frame, step Step) {
	var arg any
	if step.Arg != "" {
		arg = step.Arg
	}
	hook := e.global
	if step.Event != tracer.EventCall {
		hook = frame.Hook()
	}
	if err := hook.Trace(frame, step.Event, arg); err != nil {
		e.stats.Failed++
		e.log.WithError(err).WithFields(logrus.Fields{
			"frame": frame.ID(),
			"event": step.Event.String(),
		}).Error("trace hook failed; continuing untraced")
		return
	}
	e.stats.Delivered++
}
