// Copyright © 2026 The pyclewn authors

package console

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Mistobaan/pyclewn/tracer"
)

// Breakpoint is one user breakpoint. The store keeps these as the
// opaque per-line sets of the tracer's breakpoint index.
type Breakpoint struct {
	ID        int
	File      string
	FirstLine int // first line of the enclosing compilation unit
	Line      int
	Enabled   bool
}

func (bp *Breakpoint) key() string {
	return fmt.Sprintf("%s:%d", bp.File, bp.Line)
}

// Store manages breakpoints and maintains the tracer's breakpoint index
// and line cache as they change. It implements tracer.BreakpointIndex.
//
// The index's nested maps are mutated in place and never replaced while
// non-empty, so the tracer's last-resolved cache stays coherent across
// breakpoint changes.
//
// Methods are safe for concurrent use, though the tracer itself reads
// the index from the host's execution thread only.
type Store struct {
	mu     sync.RWMutex
	index  tracer.IndexMap
	lines  *tracer.LineCache
	byKey  map[string]*Breakpoint
	nextID int
	fold   bool
}

var _ tracer.BreakpointIndex = (*Store)(nil)

// NewStore creates an empty store maintaining the given line cache.
// fold must match the tracer's filename folding setting so index keys
// line up with folded lookups.
func NewStore(lines *tracer.LineCache, fold bool) *Store {
	return &Store{
		index: make(tracer.IndexMap),
		lines: lines,
		byKey: make(map[string]*Breakpoint),
		fold:  fold,
	}
}

func (s *Store) foldKey(file string) string {
	if s.fold {
		return strings.ToLower(file)
	}
	return file
}

// Module implements tracer.BreakpointIndex.
func (s *Store) Module(path string) (tracer.ModuleBreakpoints, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index[path], nil
}

// Set adds a breakpoint, or re-enables the existing one at the same
// location.
func (s *Store) Set(file string, firstLine, line int) *Breakpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	file = s.foldKey(file)
	key := fmt.Sprintf("%s:%d", file, line)
	if bp, ok := s.byKey[key]; ok {
		bp.Enabled = true
		return bp
	}
	s.nextID++
	bp := &Breakpoint{
		ID:        s.nextID,
		File:      file,
		FirstLine: firstLine,
		Line:      line,
		Enabled:   true,
	}
	s.byKey[key] = bp

	moduleBPs, ok := s.index[file]
	if !ok {
		moduleBPs = make(tracer.ModuleBreakpoints)
		s.index[file] = moduleBPs
	}
	codeBPs, ok := moduleBPs[firstLine]
	if !ok {
		codeBPs = make(tracer.CodeBreakpoints)
		moduleBPs[firstLine] = codeBPs
		s.lines.Add(firstLine)
	}
	if _, ok := codeBPs[line]; !ok {
		s.lines.Add(line)
	}
	codeBPs[line] = []*Breakpoint{bp}
	return bp
}

// Remove deletes the breakpoint at file:line. It reports whether one
// existed.
func (s *Store) Remove(file string, line int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	file = s.foldKey(file)
	key := fmt.Sprintf("%s:%d", file, line)
	bp, ok := s.byKey[key]
	if !ok {
		return false
	}
	delete(s.byKey, key)

	moduleBPs := s.index[file]
	codeBPs := moduleBPs[bp.FirstLine]
	delete(codeBPs, line)
	s.lines.Delete(line)
	if len(codeBPs) == 0 {
		delete(moduleBPs, bp.FirstLine)
		s.lines.Delete(bp.FirstLine)
	}
	// The module map stays registered even when empty: the tracer may
	// hold it in its resolution cache and must keep observing it.
	return true
}

// All returns every breakpoint, ordered by ID.
func (s *Store) All() []*Breakpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*Breakpoint, 0, len(s.byKey))
	for _, bp := range s.byKey {
		all = append(all, bp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

// IDs decodes one of the store's opaque breakpoint sets into breakpoint
// identifiers, for stop reporting.
func IDs(set tracer.BreakpointSet) []int {
	bps, ok := set.([]*Breakpoint)
	if !ok {
		return nil
	}
	ids := make([]int, 0, len(bps))
	for _, bp := range bps {
		if bp.Enabled {
			ids = append(ids, bp.ID)
		}
	}
	return ids
}
