// Copyright © 2026 The pyclewn authors

// Package tracer implements the per-event decision engine of a
// source-level debugger for an embedded or interpreted runtime.
//
// The host runtime delivers one event per traced execution step (line
// reached, function called, function returned, exception raised) to
// Tracer.Dispatch. The tracer decides whether a breakpoint or stepping
// condition is met and, when it is, delegates to the UserEventHandler
// capability that implements the interactive debugger. Everything else —
// breakpoint add/remove, source printing, the command loop — lives with
// collaborators; the tracer only reads the breakpoint index and drives
// the per-frame trace hooks.
//
// The hot path is the line event. Two caches keep it cheap: a
// reference-counted LineCache filters lines that cannot hold a
// breakpoint before any map lookup, and the last-resolved
// (module, code, unit) triple lets consecutive events inside one
// compilation unit skip the breakpoint index entirely.
//
// Concurrency: a Tracer is invoked synchronously and reentrantly on the
// host's single logical execution thread. It performs no locking and
// must not be shared across OS threads without external synchronization;
// a host with several tracees needs one Tracer per tracee.
package tracer

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// Tracer is the event dispatcher and stepping state machine. Create one
// with NewTracer, install it with Install, and deliver events through
// Dispatch (or the Hook interface).
type Tracer struct {
	handler UserEventHandler
	index   BreakpointIndex
	state   State
	lines   *LineCache
	folds   *FoldCache // nil when filename folding is disabled
	session *Session
	log     *logrus.Logger
}

var _ Hook = (*Tracer)(nil)

// Option configures a Tracer.
type Option func(*Tracer)

// WithFoldFilenames enables case-folding of source paths before index
// lookups, for hosts on case-insensitive filesystems.
func WithFoldFilenames(fold bool) Option {
	return func(t *Tracer) {
		if fold {
			t.folds = NewFoldCache()
		} else {
			t.folds = nil
		}
	}
}

// WithSkipModules sets the fnmatch-style module patterns whose events
// never stop. The handler's IsSkippedModule decides matches; the list
// only gates whether it is consulted at all.
func WithSkipModules(patterns ...string) Option {
	return func(t *Tracer) {
		t.state.skipModules = patterns
	}
}

// WithSkipCalls sets the compilation units whose call events are ignored
// entirely: no hook is installed on their frames and no event from
// inside them reaches the dispatcher.
func WithSkipCalls(units ...Unit) Option {
	return func(t *Tracer) {
		t.state.skipCalls = make(map[Unit]struct{}, len(units))
		for _, u := range units {
			t.state.skipCalls[u] = struct{}{}
		}
	}
}

// WithLogger replaces the tracer's logger. Logging happens off the hot
// path only: session lifecycle and dispatch failures.
func WithLogger(log *logrus.Logger) Option {
	return func(t *Tracer) {
		t.log = log
	}
}

// WithLineCache shares a pre-built line cache with the tracer. The
// breakpoint-management collaborator registers breakpoint lines in the
// cache, and it may need to exist before the tracer does.
func WithLineCache(lines *LineCache) Option {
	return func(t *Tracer) {
		if lines != nil {
			t.lines = lines
		}
	}
}

// NewTracer creates a tracer bound to its two capabilities. Both are
// required; construction fails rather than deferring the nil capability
// error to the first event. The new tracer starts armed to absorb the
// synthetic first call event.
func NewTracer(handler UserEventHandler, index BreakpointIndex, opts ...Option) (*Tracer, error) {
	if handler == nil {
		return nil, errors.New("tracer: nil UserEventHandler")
	}
	if index == nil {
		return nil, errors.New("tracer: nil BreakpointIndex")
	}
	t := &Tracer{
		handler: handler,
		index:   index,
		lines:   NewLineCache(),
		log:     logrus.New(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.state.Reset(true, nil)
	return t, nil
}

// State returns the tracer's mutable session state.
func (t *Tracer) State() *State { return &t.state }

// Lines returns the line cache shared with the breakpoint-management
// collaborator, which registers breakpoint lines through it.
func (t *Tracer) Lines() *LineCache { return t.lines }

// Session returns the active session, or nil when the tracer is not
// installed.
func (t *Tracer) Session() *Session { return t.session }

// Install acquires the process-wide trace slot with this tracer as the
// global hook.
func (t *Tracer) Install(installer HookInstaller) (*Session, error) {
	s, err := InstallSession(installer, t)
	if err != nil {
		return nil, err
	}
	t.session = s
	t.log.WithField("component", "tracer").Debug("trace session installed")
	return s, nil
}

// Trace implements Hook by dispatching the event.
func (t *Tracer) Trace(frame Frame, event Event, arg any) error {
	return t.Dispatch(frame, event, arg)
}

// Dispatch processes one execution event for a borrowed frame and
// updates the frame's trace hook with the outcome: the tracer (or a
// replacement hook chosen by the handler) to keep tracing the frame, or
// a cleared slot to detach it.
//
// Any capability failure is fatal to the session: the error is recorded
// against the frame, the global hook is uninstalled, the frame's local
// hook is cleared, and the wrapped diagnostic is returned to the host.
func (t *Tracer) Dispatch(frame Frame, event Event, arg any) error {
	next, err := t.dispatch(frame, event, arg)
	if err != nil {
		return t.fail(frame, event, err)
	}
	frame.SetHook(next)
	return nil
}

func (t *Tracer) dispatch(frame Frame, event Event, arg any) (Hook, error) {
	switch event {
	case EventLine:
		return t.dispatchLine(frame)
	case EventCall:
		return t.dispatchCall(frame, arg)
	case EventReturn:
		return t.dispatchReturn(frame, arg)
	case EventException:
		return t.dispatchException(frame, arg)
	default:
		return t, nil
	}
}

func (t *Tracer) dispatchLine(frame Frame) (Hook, error) {
	stop, err := t.ShouldStop(frame)
	if err != nil {
		return nil, err
	}
	if stop {
		return t.runHandler(frame, "OnUserLine", func() error {
			return t.handler.OnUserLine(frame)
		})
	}
	moduleBPs, err := t.BreakpointsAtLine(frame)
	if err != nil {
		return nil, err
	}
	if moduleBPs != nil {
		return t.runHandler(frame, "OnBreakpointLine", func() error {
			return t.handler.OnBreakpointLine(frame, moduleBPs)
		})
	}
	return t, nil
}

func (t *Tracer) dispatchCall(frame Frame, arg any) (Hook, error) {
	if t.state.ignoreFirstCall {
		t.state.ignoreFirstCall = false
		return t, nil
	}
	if _, skip := t.state.skipCalls[frame.Unit()]; skip {
		return nil, nil
	}
	stop, err := t.ShouldStop(frame)
	if err != nil {
		return nil, err
	}
	// Resolve even when stopping: the called unit becomes the cached
	// unit, so the first line events inside it hit the fast path.
	moduleBPs, err := t.BreakpointsInUnit(frame)
	if err != nil {
		return nil, err
	}
	if !stop && moduleBPs == nil {
		// Nothing can stop inside this function.
		return nil, nil
	}
	if stop {
		return t.runHandler(frame, "OnUserCall", func() error {
			return t.handler.OnUserCall(frame, arg)
		})
	}
	// A breakpoint is set in this function: trace it so the line event
	// that reaches the breakpoint fires, but do not stop yet.
	return t, nil
}

func (t *Tracer) dispatchReturn(frame Frame, arg any) (Hook, error) {
	next := Hook(t)
	stop, err := t.ShouldStop(frame)
	if err != nil {
		return nil, err
	}
	if stop || frame == t.state.stopFrame {
		next, err = t.runHandler(frame, "OnUserReturn", func() error {
			return t.handler.OnUserReturn(frame, arg)
		})
		if err != nil {
			return nil, err
		}
		if next == nil {
			// The handler detached the frame: terminal, do not fall
			// through to hook propagation.
			return nil, nil
		}
		// Returning from the frame completes step, next, until and
		// return commands: move tracing to the caller and clear the
		// target.
		if frame != t.state.bottomFrame &&
			((t.state.stopFrame == nil && t.state.stopLine.matchesEveryLine()) ||
				frame == t.state.stopFrame) {
			if caller := frame.Caller(); caller != nil && caller.Hook() == nil {
				caller.SetHook(t)
			}
			t.state.setStop(nil, LineUnconstrained())
		}
	}
	if frame == t.state.bottomFrame {
		if err := t.handler.OnStopTracing(frame); err != nil {
			return nil, &HandlerError{Op: "OnStopTracing", Err: err}
		}
		return nil, nil
	}
	return next, nil
}

func (t *Tracer) dispatchException(frame Frame, arg any) (Hook, error) {
	stop, err := t.ShouldStop(frame)
	if err != nil {
		return nil, err
	}
	if stop {
		return t.runHandler(frame, "OnUserException", func() error {
			return t.handler.OnUserException(frame, arg)
		})
	}
	return t, nil
}

// runHandler wraps one handler callback: it adopts the frame as bottom
// frame when tracing just started, publishes the frame as the top frame
// for the duration of the call, keeps the locals view synchronized on
// every exit path, and re-reads the handler's choice of trace hook
// afterwards.
func (t *Tracer) runHandler(frame Frame, op string, call func() error) (Hook, error) {
	if t.state.bottomFrame == nil {
		t.state.bottomFrame = frame
	}
	t.state.topFrame = frame
	t.state.topFrameLocals = nil
	frame.SyncLocalsOut()
	err := call()
	frame.SyncLocalsIn()
	t.state.topFrame = nil
	t.state.topFrameLocals = nil
	if err != nil {
		return nil, &HandlerError{Op: op, Err: err}
	}
	return t.handler.ActiveHook(), nil
}

// fail tears tracing down after an unrecoverable dispatch error. The
// traced program keeps running, just without further stops.
func (t *Tracer) fail(frame Frame, event Event, err error) error {
	diag := &FrameError{
		Path:  frame.Unit().Filename(),
		Line:  frame.Line(),
		Event: event,
		Err:   err,
	}
	t.log.WithError(diag).Error("trace dispatch failed; tracing disabled")
	if t.session != nil {
		t.session.Uninstall()
	}
	frame.SetHook(nil)
	return diag
}

// Locals returns the locals view of a frame during a handler call. The
// top frame's view is synchronized once and cached for the rest of the
// callback so repeated reads observe the handler's own mutations; any
// other frame is synchronized fresh.
func (t *Tracer) Locals(frame Frame) LocalsView {
	if frame == t.state.topFrame {
		if t.state.topFrameLocals == nil {
			t.state.topFrameLocals = frame.SyncLocalsOut()
		}
		return t.state.topFrameLocals
	}
	return frame.SyncLocalsOut()
}

// SetStopTarget stores the stepping target. A non-nil stop frame is
// clamped into the traced interval: walking the stack from the top
// frame, a target not found before the bottom frame is replaced with the
// bottom frame. The resulting stop frame gets a trace hook if it has
// none, so its events are delivered again.
func (t *Tracer) SetStopTarget(stopFrame Frame, line StopLine) {
	frame := t.state.topFrame
	for stopFrame != nil && frame != nil && frame != stopFrame {
		if frame == t.state.bottomFrame {
			stopFrame = t.state.bottomFrame
			break
		}
		frame = frame.Caller()
	}
	if stopFrame != nil && stopFrame.Hook() == nil {
		stopFrame.SetHook(t)
	}
	t.state.setStop(stopFrame, line)
}

// SetStep arranges to stop at the next line in any frame.
func (t *Tracer) SetStep() {
	t.SetStopTarget(nil, LineAlways())
}

// SetNext arranges to stop at the next line in or below the given frame.
func (t *Tracer) SetNext(frame Frame) {
	t.SetStopTarget(frame, LineUnconstrained())
}

// SetUntil arranges to stop when the given frame reaches a line greater
// than or equal to line, or when it returns. line zero means the line
// after the frame's current one.
func (t *Tracer) SetUntil(frame Frame, line int) {
	if line <= 0 {
		line = frame.Line() + 1
	}
	t.SetStopTarget(frame, LineAtLeast(line))
}

// SetReturn arranges to stop when the given frame returns.
func (t *Tracer) SetReturn(frame Frame) {
	t.SetStopTarget(frame, LineNever())
}

// SetContinue arranges to run without stepping stops; only breakpoints
// stop execution.
func (t *Tracer) SetContinue() {
	t.SetStopTarget(nil, LineNever())
}

// SetQuit ends the session: the quitting flag is raised and tracing is
// torn down from the current top frame.
func (t *Tracer) SetQuit() {
	t.state.quitting = true
	t.StopTracing(nil)
}

// StopTracing uninstalls the global hook and clears the per-frame hooks
// from the given frame (the top frame when nil) down to the bottom
// frame.
func (t *Tracer) StopTracing(frame Frame) {
	if t.session != nil {
		t.session.Uninstall()
	}
	if frame == nil {
		frame = t.state.topFrame
	}
	for f := frame; f != nil; f = f.Caller() {
		f.SetHook(nil)
		if f == t.state.bottomFrame {
			break
		}
	}
	t.log.WithField("component", "tracer").Debug("tracing stopped")
}
