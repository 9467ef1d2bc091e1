// Copyright © 2026 The pyclewn authors

// Package replay provides a scripted host runtime for the tracer: frames
// and compilation units built from a JSON script, and an engine that
// delivers the scripted event stream through the per-frame trace hooks
// exactly the way a real interpreter would. It backs the pyclewn replay
// command and the integration tests.
package replay

import (
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/Mistobaan/pyclewn/tracer"
)

// Breakpoint is a scripted breakpoint record. The tracer treats the
// per-line collection of these as an opaque BreakpointSet.
type Breakpoint struct {
	ID        int
	File      string
	FirstLine int
	Line      int
}

// Step is one scripted execution event.
type Step struct {
	Event tracer.Event
	Frame string // frame identifier
	Unit  string // unit identifier, call events only
	Line  int
	Arg   string // call argument, return value or exception text
}

// Script is a recorded program: its compilation units, breakpoints and
// event stream, plus the debugger actions to apply at successive stops.
type Script struct {
	Units       map[string]*Unit
	Breakpoints []Breakpoint
	Steps       []Step
	Actions     []string
}

var eventNames = map[string]tracer.Event{
	"line":      tracer.EventLine,
	"call":      tracer.EventCall,
	"return":    tracer.EventReturn,
	"exception": tracer.EventException,
}

// Load parses a JSON script. See testdata/ for the format.
func Load(data []byte) (*Script, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("replay: script is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	s := &Script{Units: make(map[string]*Unit)}

	for _, u := range doc.Get("units").Array() {
		id := u.Get("id").String()
		if id == "" {
			return nil, errors.New("replay: unit without id")
		}
		s.Units[id] = &Unit{
			ID:    id,
			File:  u.Get("file").String(),
			First: int(u.Get("first_line").Int()),
		}
	}

	for i, b := range doc.Get("breakpoints").Array() {
		bp := Breakpoint{
			ID:        int(b.Get("id").Int()),
			File:      b.Get("file").String(),
			FirstLine: int(b.Get("first_line").Int()),
			Line:      int(b.Get("line").Int()),
		}
		if bp.ID == 0 {
			bp.ID = i + 1
		}
		if bp.File == "" || bp.Line == 0 {
			return nil, errors.Errorf("replay: breakpoint %d needs file and line", bp.ID)
		}
		s.Breakpoints = append(s.Breakpoints, bp)
	}

	for i, ev := range doc.Get("events").Array() {
		kind, ok := eventNames[ev.Get("event").String()]
		if !ok {
			return nil, errors.Errorf("replay: event %d: unknown kind %q",
				i, ev.Get("event").String())
		}
		step := Step{
			Event: kind,
			Frame: ev.Get("frame").String(),
			Unit:  ev.Get("unit").String(),
			Line:  int(ev.Get("line").Int()),
			Arg:   ev.Get("arg").String(),
		}
		if step.Frame == "" {
			return nil, errors.Errorf("replay: event %d: missing frame", i)
		}
		if step.Event == tracer.EventCall {
			if _, ok := s.Units[step.Unit]; !ok {
				return nil, errors.Errorf("replay: event %d: unknown unit %q",
					i, step.Unit)
			}
		}
		s.Steps = append(s.Steps, step)
	}

	for _, a := range doc.Get("actions").Array() {
		s.Actions = append(s.Actions, a.String())
	}
	return s, nil
}

// BreakpointIDs decodes one of the script-built breakpoint sets into
// breakpoint identifiers, for stop reporting.
func BreakpointIDs(set tracer.BreakpointSet) []int {
	bps, ok := set.([]Breakpoint)
	if !ok {
		return nil
	}
	ids := make([]int, len(bps))
	for i, bp := range bps {
		ids[i] = bp.ID
	}
	return ids
}

// BuildIndex assembles the breakpoint index from the script and
// registers every breakpoint line (and its unit's first line) in the
// tracer's line cache.
func (s *Script) BuildIndex(lines *tracer.LineCache) tracer.IndexMap {
	index := make(tracer.IndexMap)
	for _, bp := range s.Breakpoints {
		moduleBPs, ok := index[bp.File]
		if !ok {
			moduleBPs = make(tracer.ModuleBreakpoints)
			index[bp.File] = moduleBPs
		}
		codeBPs, ok := moduleBPs[bp.FirstLine]
		if !ok {
			codeBPs = make(tracer.CodeBreakpoints)
			moduleBPs[bp.FirstLine] = codeBPs
			lines.Add(bp.FirstLine)
		}
		var set []Breakpoint
		if prev, ok := codeBPs[bp.Line]; ok {
			set = prev.([]Breakpoint)
		} else {
			lines.Add(bp.Line)
		}
		codeBPs[bp.Line] = append(set, bp)
	}
	return index
}
