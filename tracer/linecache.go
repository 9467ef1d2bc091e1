// Copyright © 2026 The pyclewn authors

package tracer

// LineCache is a reference-counted set of line numbers that carry
// breakpoints. It sits in front of the breakpoint maps on the hot path:
// a plain slice index decides whether a line can possibly hold a
// breakpoint before any map lookup happens.
//
// The breakpoint-management collaborator registers a unit's first line
// and every actual breakpoint line through Add, and releases them with
// Delete when a breakpoint is removed. A line registered twice must be
// deleted twice before it stops matching.
//
// LineCache is not safe for concurrent use; it is owned by the same
// single-threaded session as the Tracer reading it.
type LineCache struct {
	refs []int
}

// NewLineCache returns an empty line cache.
func NewLineCache() *LineCache {
	return &LineCache{}
}

// Add registers the line number and returns it. Negative lines are
// ignored and returned unchanged.
func (c *LineCache) Add(line int) int {
	if line < 0 {
		return line
	}
	if line >= len(c.refs) {
		grown := make([]int, line+1)
		copy(grown, c.refs)
		c.refs = grown
	}
	c.refs[line]++
	return line
}

// Delete releases one registration of the line number. When the last
// registration of the highest line is released, the trailing unused
// slots are packed off the end of the cache.
func (c *LineCache) Delete(line int) {
	if line < 0 || line >= len(c.refs) || c.refs[line] == 0 {
		return
	}
	c.refs[line]--
	if c.refs[line] > 0 || line != len(c.refs)-1 {
		return
	}
	end := line
	for end >= 0 && c.refs[end] == 0 {
		end--
	}
	c.refs = c.refs[:end+1]
}

// Contains reports whether the line number is registered.
func (c *LineCache) Contains(line int) bool {
	return line >= 0 && line < len(c.refs) && c.refs[line] > 0
}

// Len returns the extent of the cache, one past the highest registered
// line number.
func (c *LineCache) Len() int {
	return len(c.refs)
}
