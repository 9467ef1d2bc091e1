// Copyright © 2026 The pyclewn authors

package tracer

import "strings"

// FoldCache memoizes the case-folded form of raw source paths for hosts
// on case-insensitive filesystems. Folding the same path is computed once
// and reused on every subsequent event from that path.
type FoldCache struct {
	folded map[string]string
}

// NewFoldCache returns an empty fold cache.
func NewFoldCache() *FoldCache {
	return &FoldCache{folded: make(map[string]string)}
}

// Fold returns the case-folded form of path, computing and caching it on
// first use.
func (c *FoldCache) Fold(path string) string {
	if lc, ok := c.folded[path]; ok {
		return lc
	}
	lc := strings.ToLower(path)
	c.folded[path] = lc
	return lc
}
