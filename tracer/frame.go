// Copyright © 2026 The pyclewn authors

package tracer

// Event identifies the kind of execution event delivered to the tracer.
type Event int

const (
	// EventLine is delivered when the host reaches a new source line in a
	// traced frame.
	EventLine Event = iota
	// EventCall is delivered when a new frame is entered.
	EventCall
	// EventReturn is delivered when a frame is about to return.
	EventReturn
	// EventException is delivered when an exception is raised in a frame.
	EventException
)

func (e Event) String() string {
	switch e {
	case EventLine:
		return "line"
	case EventCall:
		return "call"
	case EventReturn:
		return "return"
	case EventException:
		return "exception"
	default:
		return "unknown"
	}
}

// LocalsView is the host's view of a frame's local variables. The core
// never inspects it; it only threads the view between the frame and the
// user event handler.
type LocalsView any

// Unit is a compilation unit: the static code object a frame executes.
// Implementations must be comparable (typically pointers) because the
// core relies on identity comparison for its resolution cache and for
// the skip-calls set.
type Unit interface {
	// Filename returns the raw source path identifier of the unit.
	Filename() string
	// FirstLine returns the line at which the unit's definition begins.
	FirstLine() int
}

// Hook is the value stored in a frame's trace slot. The host's execution
// engine delivers further events for a frame only while its slot holds a
// hook. The Tracer itself is the usual hook; handlers may substitute a
// replacement through ActiveHook.
type Hook interface {
	Trace(frame Frame, event Event, arg any) error
}

// Frame is one activation record of the host runtime. The core borrows a
// frame only for the duration of a single event callback and never owns
// it. Implementations must be comparable (typically pointers): frame
// identity drives the stepping state machine.
type Frame interface {
	// Unit returns the compilation unit the frame executes.
	Unit() Unit
	// Line returns the current source line of the frame.
	Line() int
	// Caller returns the parent frame, or nil at the bottom of the stack.
	Caller() Frame
	// Hook returns the frame's current trace hook, or nil when the frame
	// is not traced.
	Hook() Hook
	// SetHook stores a trace hook in the frame's slot. SetHook(nil)
	// clears the slot.
	SetHook(Hook)
	// SyncLocalsOut materializes the frame's locals so a handler can
	// inspect and mutate them, and returns the resulting view. It is
	// paired with SyncLocalsIn around every handler invocation.
	SyncLocalsOut() LocalsView
	// SyncLocalsIn writes the locals view back into the running frame.
	SyncLocalsIn()
}

// UserEventHandler implements the interactive debugger on top of the
// tracer. Every method runs synchronously on the host's execution thread
// and may mutate the tracer's stepping state (SetStopTarget, SetQuit and
// friends) before returning; the dispatcher re-reads state afterwards.
//
// There is no default implementation: NewTracer fails when the handler is
// nil rather than deferring the error to the first event.
type UserEventHandler interface {
	// OnUserLine is called when the stepping state stops at a line event.
	OnUserLine(frame Frame) error
	// OnUserCall is called when the stepping state stops at a call event.
	OnUserCall(frame Frame, arg any) error
	// OnUserReturn is called when the stepping state stops at a return
	// event. value is the frame's return value.
	OnUserReturn(frame Frame, value any) error
	// OnUserException is called when the stepping state stops at an
	// exception event.
	OnUserException(frame Frame, exc any) error
	// OnBreakpointLine is called when a line event hits a breakpoint
	// while the stepping state alone would not stop. bps is the whole
	// per-module breakpoint mapping so the handler can report which
	// module was hit; the per-line set is bps[unit first line][line].
	OnBreakpointLine(frame Frame, bps ModuleBreakpoints) error
	// OnStopTracing is called when the bottom frame returns and tracing
	// ends. The handler typically uninstalls the session here.
	OnStopTracing(frame Frame) error
	// IsSkippedModule reports whether the frame belongs to a module the
	// debugger must never stop in. It is consulted only while the skip
	// pattern list is non-empty.
	IsSkippedModule(frame Frame) (bool, error)
	// ActiveHook returns the trace hook to install on the current frame
	// after a handler call, or nil to detach the frame from tracing.
	ActiveHook() Hook
}
