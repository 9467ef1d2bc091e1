// Copyright © 2026 The pyclewn authors

package tracer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineCache_AddContains(t *testing.T) {
	c := NewLineCache()
	assert.False(t, c.Contains(5))

	assert.Equal(t, 5, c.Add(5))
	assert.True(t, c.Contains(5))
	assert.False(t, c.Contains(4))
	assert.False(t, c.Contains(6))
	assert.Equal(t, 6, c.Len())
}

func TestLineCache_ReferenceCounting(t *testing.T) {
	c := NewLineCache()
	c.Add(5)
	c.Add(5)

	c.Delete(5)
	assert.True(t, c.Contains(5), "line registered twice survives one delete")
	c.Delete(5)
	assert.False(t, c.Contains(5))
}

func TestLineCache_PacksTrailingSlots(t *testing.T) {
	c := NewLineCache()
	c.Add(3)
	c.Add(7)
	assert.Equal(t, 8, c.Len())

	c.Delete(7)
	assert.Equal(t, 4, c.Len(), "trailing slots packed after deleting the highest line")
	assert.True(t, c.Contains(3))

	c.Delete(3)
	assert.Equal(t, 0, c.Len())
}

func TestLineCache_IgnoresBadLines(t *testing.T) {
	c := NewLineCache()
	assert.Equal(t, -1, c.Add(-1))
	assert.False(t, c.Contains(-1))

	// Deleting unregistered lines is a no-op.
	c.Delete(-1)
	c.Delete(100)
	c.Add(2)
	c.Delete(1)
	assert.True(t, c.Contains(2))
}

func TestFoldCache_Memoizes(t *testing.T) {
	c := NewFoldCache()
	assert.Equal(t, "a/b.py", c.Fold("A/B.py"))
	assert.Equal(t, "a/b.py", c.Fold("A/B.py"))
	assert.Equal(t, "a/b.py", c.Fold("a/b.py"))
}
