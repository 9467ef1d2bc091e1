// Copyright © 2026 The pyclewn authors

package dapevents

import (
	"github.com/Mistobaan/pyclewn/tracer"
)

// Notifier decorates a UserEventHandler, mirroring every stop onto a
// DAP event stream before delegating. Event write failures are
// surfaced through the handler chain and therefore tear tracing down.
type Notifier struct {
	inner tracer.UserEventHandler
	sink  *Sink
	ids   func(tracer.BreakpointSet) []int
}

var _ tracer.UserEventHandler = (*Notifier)(nil)

// Option configures a Notifier.
type Option func(*Notifier)

// WithBreakpointIDs supplies the extractor used to report which
// breakpoints were hit. The breakpoint sets are opaque to the tracer,
// so only the index owner can decode them.
func WithBreakpointIDs(ids func(tracer.BreakpointSet) []int) Option {
	return func(n *Notifier) {
		n.ids = ids
	}
}

// NewNotifier wraps inner so its stops are mirrored to sink.
func NewNotifier(inner tracer.UserEventHandler, sink *Sink, opts ...Option) *Notifier {
	n := &Notifier{inner: inner, sink: sink}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Notifier) OnUserLine(frame tracer.Frame) error {
	if err := n.sink.Stopped("step", nil); err != nil {
		return err
	}
	return n.inner.OnUserLine(frame)
}

func (n *Notifier) OnUserCall(frame tracer.Frame, arg any) error {
	if err := n.sink.Stopped("step", nil); err != nil {
		return err
	}
	return n.inner.OnUserCall(frame, arg)
}

func (n *Notifier) OnUserReturn(frame tracer.Frame, value any) error {
	if err := n.sink.Stopped("step", nil); err != nil {
		return err
	}
	return n.inner.OnUserReturn(frame, value)
}

func (n *Notifier) OnUserException(frame tracer.Frame, exc any) error {
	if err := n.sink.Stopped("exception", nil); err != nil {
		return err
	}
	return n.inner.OnUserException(frame, exc)
}

func (n *Notifier) OnBreakpointLine(frame tracer.Frame, bps tracer.ModuleBreakpoints) error {
	var hit []int
	if n.ids != nil {
		first := frame.Unit().FirstLine()
		if codeBPs, ok := bps[first]; ok {
			if set, ok := codeBPs[frame.Line()]; ok {
				hit = n.ids(set)
			}
		}
	}
	if err := n.sink.Stopped("breakpoint", hit); err != nil {
		return err
	}
	return n.inner.OnBreakpointLine(frame, bps)
}

func (n *Notifier) OnStopTracing(frame tracer.Frame) error {
	if err := n.sink.Terminated(); err != nil {
		return err
	}
	return n.inner.OnStopTracing(frame)
}

func (n *Notifier) IsSkippedModule(frame tracer.Frame) (bool, error) {
	return n.inner.IsSkippedModule(frame)
}

func (n *Notifier) ActiveHook() tracer.Hook {
	return n.inner.ActiveHook()
}
