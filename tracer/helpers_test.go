// Copyright © 2026 The pyclewn authors

package tracer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeUnit struct {
	file  string
	first int
}

func (u *fakeUnit) Filename() string { return u.file }
func (u *fakeUnit) FirstLine() int   { return u.first }

type fakeFrame struct {
	unit   *fakeUnit
	line   int
	caller *fakeFrame
	hook   Hook

	syncsOut int
	syncsIn  int
}

func (f *fakeFrame) Unit() Unit { return f.unit }
func (f *fakeFrame) Line() int  { return f.line }
func (f *fakeFrame) Caller() Frame {
	if f.caller == nil {
		return nil
	}
	return f.caller
}
func (f *fakeFrame) Hook() Hook     { return f.hook }
func (f *fakeFrame) SetHook(h Hook) { f.hook = h }
func (f *fakeFrame) SyncLocalsOut() LocalsView {
	f.syncsOut++
	return map[string]any{"frame": f}
}
func (f *fakeFrame) SyncLocalsIn() { f.syncsIn++ }

// fakeHandler records callback invocations. The zero value keeps the
// tracer attached; bind must be called before dispatching.
type fakeHandler struct {
	t *Tracer

	calls []string

	detach  bool
	lineErr error
	skip    func(Frame) (bool, error)
}

func (h *fakeHandler) bind(t *Tracer) { h.t = t }

func (h *fakeHandler) OnUserLine(frame Frame) error {
	h.calls = append(h.calls, "line")
	return h.lineErr
}

func (h *fakeHandler) OnUserCall(frame Frame, arg any) error {
	h.calls = append(h.calls, "call")
	return nil
}

func (h *fakeHandler) OnUserReturn(frame Frame, value any) error {
	h.calls = append(h.calls, "return")
	return nil
}

func (h *fakeHandler) OnUserException(frame Frame, exc any) error {
	h.calls = append(h.calls, "exception")
	return nil
}

func (h *fakeHandler) OnBreakpointLine(frame Frame, bps ModuleBreakpoints) error {
	h.calls = append(h.calls, "breakpoint")
	return nil
}

func (h *fakeHandler) OnStopTracing(frame Frame) error {
	h.calls = append(h.calls, "stop-tracing")
	return nil
}

func (h *fakeHandler) IsSkippedModule(frame Frame) (bool, error) {
	h.calls = append(h.calls, "is-skipped")
	if h.skip != nil {
		return h.skip(frame)
	}
	return false, nil
}

func (h *fakeHandler) ActiveHook() Hook {
	if h.detach {
		return nil
	}
	return h.t
}

// fakeInstaller is an in-memory process trace slot.
type fakeInstaller struct {
	hook    Hook
	removes int
}

func (i *fakeInstaller) InstallTraceHook(h Hook) { i.hook = h }
func (i *fakeInstaller) RemoveTraceHook() {
	i.hook = nil
	i.removes++
}

// newTestTracer builds a tracer over a map index with the first-call
// absorption already disarmed, which is what most dispatch tests want.
func newTestTracer(t *testing.T, index BreakpointIndex, opts ...Option) (*Tracer, *fakeHandler) {
	t.Helper()
	h := &fakeHandler{}
	if index == nil {
		index = make(IndexMap)
	}
	tr, err := NewTracer(h, index, opts...)
	require.NoError(t, err)
	h.bind(tr)
	tr.state.ignoreFirstCall = false
	return tr, h
}

// addBreakpoint registers a breakpoint in the index and line cache the
// way a breakpoint store would.
func addBreakpoint(t *testing.T, tr *Tracer, index IndexMap, file string, first, line int) {
	t.Helper()
	moduleBPs, ok := index[file]
	if !ok {
		moduleBPs = make(ModuleBreakpoints)
		index[file] = moduleBPs
	}
	codeBPs, ok := moduleBPs[first]
	if !ok {
		codeBPs = make(CodeBreakpoints)
		moduleBPs[first] = codeBPs
		tr.Lines().Add(first)
	}
	if _, ok := codeBPs[line]; !ok {
		tr.Lines().Add(line)
	}
	codeBPs[line] = struct{}{}
}
