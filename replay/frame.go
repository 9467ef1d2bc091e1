// Copyright © 2026 The pyclewn authors

package replay

import "github.com/Mistobaan/pyclewn/tracer"

// Unit is a scripted compilation unit.
type Unit struct {
	// ID doubles as the module name for skip-module matching.
	ID    string
	File  string
	First int
}

var _ tracer.Unit = (*Unit)(nil)

// Filename implements tracer.Unit.
func (u *Unit) Filename() string { return u.File }

// FirstLine implements tracer.Unit.
func (u *Unit) FirstLine() int { return u.First }

// Frame is a scripted activation record.
type Frame struct {
	id     string
	unit   *Unit
	line   int
	caller *Frame
	hook   tracer.Hook
	locals map[string]any

	// syncedOut counts SyncLocalsOut calls without a matching
	// SyncLocalsIn; tests assert it returns to zero.
	syncedOut int
}

var _ tracer.Frame = (*Frame)(nil)

// NewFrame creates a frame executing unit, called from caller (nil for
// the bottom of the stack).
func NewFrame(id string, unit *Unit, caller *Frame, line int) *Frame {
	return &Frame{
		id:     id,
		unit:   unit,
		caller: caller,
		line:   line,
		locals: make(map[string]any),
	}
}

// ID returns the scripted frame identifier.
func (f *Frame) ID() string { return f.id }

// ModuleName returns the module name used for skip-module matching.
func (f *Frame) ModuleName() string { return f.unit.ID }

// SetLine advances the frame to a new source line.
func (f *Frame) SetLine(line int) { f.line = line }

// Unit implements tracer.Frame.
func (f *Frame) Unit() tracer.Unit { return f.unit }

// Line implements tracer.Frame.
func (f *Frame) Line() int { return f.line }

// Caller implements tracer.Frame.
func (f *Frame) Caller() tracer.Frame {
	if f.caller == nil {
		return nil
	}
	return f.caller
}

// Hook implements tracer.Frame.
func (f *Frame) Hook() tracer.Hook { return f.hook }

// SetHook implements tracer.Frame.
func (f *Frame) SetHook(h tracer.Hook) { f.hook = h }

// SyncLocalsOut implements tracer.Frame.
func (f *Frame) SyncLocalsOut() tracer.LocalsView {
	f.syncedOut++
	return f.locals
}

// SyncLocalsIn implements tracer.Frame.
func (f *Frame) SyncLocalsIn() {
	if f.syncedOut > 0 {
		f.syncedOut--
	}
}

// LocalsBalanced reports whether every SyncLocalsOut was paired with a
// SyncLocalsIn.
func (f *Frame) LocalsBalanced() bool { return f.syncedOut == 0 }
