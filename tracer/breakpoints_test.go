// Copyright © 2026 The pyclewn authors

package tracer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingIndex wraps an IndexMap and counts Module lookups.
type countingIndex struct {
	index   IndexMap
	lookups int
}

func (c *countingIndex) Module(path string) (ModuleBreakpoints, error) {
	c.lookups++
	return c.index.Module(path)
}

func TestTracer_BreakpointsInUnit(t *testing.T) {
	index := make(IndexMap)
	tr, _ := newTestTracer(t, index)
	addBreakpoint(t, tr, index, "a.py", 10, 12)

	unit := &fakeUnit{file: "a.py", first: 10}
	frame := &fakeFrame{unit: unit, line: 10}

	moduleBPs, err := tr.BreakpointsInUnit(frame)
	require.NoError(t, err)
	require.NotNil(t, moduleBPs)
	assert.Contains(t, moduleBPs, 10)

	// No breakpoints in another unit of the same module.
	other := &fakeFrame{unit: &fakeUnit{file: "a.py", first: 50}, line: 50}
	moduleBPs, err = tr.BreakpointsInUnit(other)
	require.NoError(t, err)
	assert.Nil(t, moduleBPs)

	// Unknown module.
	unknown := &fakeFrame{unit: &fakeUnit{file: "b.py", first: 1}, line: 1}
	moduleBPs, err = tr.BreakpointsInUnit(unknown)
	require.NoError(t, err)
	assert.Nil(t, moduleBPs)
}

func TestTracer_BreakpointsAtLine(t *testing.T) {
	index := make(IndexMap)
	tr, _ := newTestTracer(t, index)
	addBreakpoint(t, tr, index, "a.py", 10, 12)

	unit := &fakeUnit{file: "a.py", first: 10}
	frame := &fakeFrame{unit: unit, line: 12}

	moduleBPs, err := tr.BreakpointsAtLine(frame)
	require.NoError(t, err)
	assert.NotNil(t, moduleBPs)

	frame.line = 11
	moduleBPs, err = tr.BreakpointsAtLine(frame)
	require.NoError(t, err)
	assert.Nil(t, moduleBPs)
}

func TestTracer_BreakpointLookupCached(t *testing.T) {
	index := make(IndexMap)
	counting := &countingIndex{index: index}
	tr, _ := newTestTracer(t, counting)
	addBreakpoint(t, tr, index, "a.py", 10, 12)

	unit := &fakeUnit{file: "a.py", first: 10}
	frame := &fakeFrame{unit: unit, line: 12}

	_, err := tr.BreakpointsAtLine(frame)
	require.NoError(t, err)
	assert.Equal(t, 1, counting.lookups)

	// Subsequent lines in the same unit never touch the index.
	for _, line := range []int{11, 12, 13, 12} {
		frame.line = line
		_, err = tr.BreakpointsAtLine(frame)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, counting.lookups)

	// A different unit refreshes the cache with one lookup.
	addBreakpoint(t, tr, index, "b.py", 1, 3)
	other := &fakeFrame{unit: &fakeUnit{file: "b.py", first: 1}, line: 3}
	moduleBPs, err := tr.BreakpointsAtLine(other)
	require.NoError(t, err)
	assert.NotNil(t, moduleBPs)
	assert.Equal(t, 2, counting.lookups)
}

func TestTracer_CacheObservesInPlaceMutation(t *testing.T) {
	index := make(IndexMap)
	counting := &countingIndex{index: index}
	tr, _ := newTestTracer(t, counting)
	addBreakpoint(t, tr, index, "a.py", 10, 12)

	unit := &fakeUnit{file: "a.py", first: 10}
	frame := &fakeFrame{unit: unit, line: 12}
	_, err := tr.BreakpointsAtLine(frame)
	require.NoError(t, err)
	require.Equal(t, 1, counting.lookups)

	// Adding a breakpoint mutates the cached maps in place; the cached
	// resolution must see it without a fresh lookup.
	addBreakpoint(t, tr, index, "a.py", 10, 14)
	frame.line = 14
	moduleBPs, err := tr.BreakpointsAtLine(frame)
	require.NoError(t, err)
	assert.NotNil(t, moduleBPs)
	assert.Equal(t, 1, counting.lookups)
}

func TestTracer_FoldedLookup(t *testing.T) {
	index := make(IndexMap)
	tr, _ := newTestTracer(t, index, WithFoldFilenames(true))
	addBreakpoint(t, tr, index, "a.py", 10, 12)

	// The frame reports the unfolded spelling.
	frame := &fakeFrame{unit: &fakeUnit{file: "A.PY", first: 10}, line: 12}
	moduleBPs, err := tr.BreakpointsAtLine(frame)
	require.NoError(t, err)
	assert.NotNil(t, moduleBPs)
}

func TestTracer_IndexFailureSurfaces(t *testing.T) {
	tr, _ := newTestTracer(t, failingIndex{})
	frame := &fakeFrame{unit: &fakeUnit{file: "a.py", first: 1}, line: 1}
	_, err := tr.BreakpointsInUnit(frame)
	require.Error(t, err)
	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, "a.py", lookupErr.Path)
}

type failingIndex struct{}

func (failingIndex) Module(path string) (ModuleBreakpoints, error) {
	return nil, assert.AnError
}
