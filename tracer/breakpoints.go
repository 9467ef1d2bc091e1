// Copyright © 2026 The pyclewn authors

package tracer

// BreakpointSet is an opaque collection of breakpoint records registered
// at one source line. The core never inspects it: it tests presence and
// passes the resolved mapping through to the handler.
type BreakpointSet any

// CodeBreakpoints maps the actual line of each breakpoint inside one
// compilation unit to the set registered there.
type CodeBreakpoints map[int]BreakpointSet

// ModuleBreakpoints maps a compilation unit's first line number to the
// breakpoint lines of that unit.
//
// The breakpoint-management collaborator must mutate these maps in place
// and never replace a ModuleBreakpoints or CodeBreakpoints value with a
// fresh map while the old one is non-empty: the tracer caches the last
// resolved pair and a replaced map would silently go stale.
type ModuleBreakpoints map[int]CodeBreakpoints

// BreakpointIndex is the read-only view of the breakpoint store. The
// core only resolves through it; add/remove/enable live with the
// collaborator that owns the store.
type BreakpointIndex interface {
	// Module returns the breakpoints of the module identified by the
	// (possibly case-folded) source path, or nil when the module has
	// none. A non-nil error signals an inconsistent index and ends the
	// session.
	Module(path string) (ModuleBreakpoints, error)
}

// IndexMap is a map-backed BreakpointIndex. Hosts that track several
// spellings of the same path (absolute, relative) store each spelling as
// a key for the shared ModuleBreakpoints value.
type IndexMap map[string]ModuleBreakpoints

// Module implements BreakpointIndex.
func (m IndexMap) Module(path string) (ModuleBreakpoints, error) {
	return m[path], nil
}

// BreakpointsInUnit resolves the breakpoints of the frame's compilation
// unit. It returns nil when the unit has none. On success the
// last-resolved cache is updated so that subsequent line events in the
// same unit skip the index entirely; a miss leaves the cache untouched,
// still valid for the unit it was resolved for.
func (t *Tracer) BreakpointsInUnit(frame Frame) (ModuleBreakpoints, error) {
	unit := frame.Unit()
	path := unit.Filename()
	if t.folds != nil {
		path = t.folds.Fold(path)
	}
	moduleBPs, err := t.index.Module(path)
	if err != nil {
		return nil, &LookupError{Path: path, Err: err}
	}
	if moduleBPs == nil {
		return nil, nil
	}
	first := unit.FirstLine()
	if !t.lines.Contains(first) {
		return nil, nil
	}
	codeBPs, ok := moduleBPs[first]
	if !ok {
		return nil, nil
	}
	t.state.cachedModule = moduleBPs
	t.state.cachedCode = codeBPs
	t.state.cachedUnit = unit
	return moduleBPs, nil
}

// BreakpointsAtLine resolves the breakpoints registered at the frame's
// current line, returning the whole per-module mapping when the line
// hits and nil otherwise. Consecutive events inside the unit of the
// last resolution reuse the cached pair without consulting the index.
func (t *Tracer) BreakpointsAtLine(frame Frame) (ModuleBreakpoints, error) {
	var moduleBPs ModuleBreakpoints
	if t.state.cachedUnit != nil && frame.Unit() == t.state.cachedUnit {
		moduleBPs = t.state.cachedModule
	} else {
		var err error
		moduleBPs, err = t.BreakpointsInUnit(frame)
		if err != nil || moduleBPs == nil {
			return nil, err
		}
	}
	line := frame.Line()
	if t.lines.Contains(line) {
		if _, ok := t.state.cachedCode[line]; ok {
			return moduleBPs, nil
		}
	}
	return nil, nil
}
