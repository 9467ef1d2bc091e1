// Copyright © 2026 The pyclewn authors

package tracer

// State is the mutable session state of one Tracer. It is owned
// exclusively by its Tracer and mutated only through Tracer and State
// methods; handlers reach it with Tracer.State during a callback.
type State struct {
	quitting        bool
	bottomFrame     Frame
	topFrame        Frame
	topFrameLocals  LocalsView
	stopFrame       Frame
	stopLine        StopLine
	ignoreFirstCall bool

	skipModules []string
	skipCalls   map[Unit]struct{}

	// Last-resolved breakpoint cache. Valid while events keep arriving
	// from cachedUnit; refreshed by BreakpointsInUnit when they do not.
	cachedModule ModuleBreakpoints
	cachedCode   CodeBreakpoints
	cachedUnit   Unit
}

// Reset rearms the state for a new run. The stepping target is cleared,
// the quitting flag dropped, and the bottom frame replaced with the one
// given (nil meaning "adopt the first frame that reaches a handler").
// When ignoreFirstCall is true the next call event is absorbed as the
// synthetic top-level call made when tracing is first installed.
//
// The skip lists and the breakpoint resolution caches survive a reset:
// they are session-scoped, not step-scoped.
func (s *State) Reset(ignoreFirstCall bool, bottomFrame Frame) {
	s.ignoreFirstCall = ignoreFirstCall
	s.bottomFrame = bottomFrame
	s.quitting = false
	s.topFrame = nil
	s.topFrameLocals = nil
	s.stopFrame = nil
	s.stopLine = LineUnconstrained()
}

// Quitting reports whether the handler asked to end the session. The
// dispatcher does not poll it on the hot path; hosts and handlers detect
// it through the ActiveHook protocol.
func (s *State) Quitting() bool { return s.quitting }

// SetQuitting marks the session as ending. Handlers usually call
// Tracer.SetQuit instead, which also tears the trace hooks down.
func (s *State) SetQuitting(quitting bool) { s.quitting = quitting }

// BottomFrame returns the frame at which tracing started, or nil before
// the first handler call.
func (s *State) BottomFrame() Frame { return s.bottomFrame }

// TopFrame returns the frame of the handler call in progress, or nil
// outside one.
func (s *State) TopFrame() Frame { return s.topFrame }

// StopFrame returns the stepping target frame. Nil means the target is
// unconstrained and every frame is eligible.
func (s *State) StopFrame() Frame { return s.stopFrame }

// StopLine returns the stepping line constraint.
func (s *State) StopLine() StopLine { return s.stopLine }

// IgnoreFirstCall reports whether the next call event will be absorbed.
func (s *State) IgnoreFirstCall() bool { return s.ignoreFirstCall }

// SkipModules returns the configured skip-module patterns.
func (s *State) SkipModules() []string { return s.skipModules }

// setStop stores the stepping target without the clamping walk. The
// exported mutator is Tracer.SetStopTarget.
func (s *State) setStop(frame Frame, line StopLine) {
	s.stopFrame = frame
	s.stopLine = line
}
