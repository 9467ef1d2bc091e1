// Copyright © 2026 The pyclewn authors

package tracer

import "path"

// MatchModulePattern reports whether a module name matches any of the
// fnmatch-style patterns (`*`, `?`, character classes). Handlers
// implement IsSkippedModule with it, supplying the module name of the
// frame from host-side knowledge.
//
// A malformed pattern matches nothing.
func MatchModulePattern(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, err := path.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
