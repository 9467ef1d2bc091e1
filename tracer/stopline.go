// Copyright © 2026 The pyclewn authors

package tracer

import "fmt"

type stopLineMode uint8

const (
	lineUnconstrained stopLineMode = iota
	lineAlways
	lineAtLeast
	lineNever
)

// StopLine constrains the source line at which a matching frame stops.
// The zero value is the unconstrained line, which matches every line of
// the stop frame.
//
// Combined with the stop frame, the stepping states are:
//
//	(nil frame, LineUnconstrained)  stop at the next line anywhere (step)
//	(frame, LineUnconstrained)      stop at the next line in frame (next)
//	(frame, LineAtLeast(n))         stop in frame at line >= n (until)
//	(frame, LineNever)              stop only when frame returns (return)
//	(nil frame, LineNever)          never stop at lines (continue)
//
// LineAlways matches by frame alone, ignoring the line number entirely.
type StopLine struct {
	mode stopLineMode
	n    int
}

// LineUnconstrained returns the zero StopLine: no line constraint, the
// stop frame matches regardless of its current line.
func LineUnconstrained() StopLine { return StopLine{} }

// LineAlways returns the StopLine that matches by frame alone.
func LineAlways() StopLine { return StopLine{mode: lineAlways} }

// LineAtLeast returns the StopLine matching lines greater than or equal
// to n.
func LineAtLeast(n int) StopLine { return StopLine{mode: lineAtLeast, n: n} }

// LineNever returns the StopLine that matches no line event. Return
// events still stop at the stop frame itself.
func LineNever() StopLine { return StopLine{mode: lineNever} }

// IsUnconstrained reports whether l is the zero, unconstrained line.
func (l StopLine) IsUnconstrained() bool { return l.mode == lineUnconstrained }

// matchesEveryLine reports whether the constraint stops at every line of
// a matching frame, which is what distinguishes stepping from until and
// return targets.
func (l StopLine) matchesEveryLine() bool {
	return l.mode == lineUnconstrained || l.mode == lineAlways
}

func (l StopLine) String() string {
	switch l.mode {
	case lineUnconstrained:
		return "unconstrained"
	case lineAlways:
		return "always"
	case lineAtLeast:
		return fmt.Sprintf("at-least(%d)", l.n)
	case lineNever:
		return "never"
	default:
		return fmt.Sprintf("invalid(%d)", l.mode)
	}
}

// match decides whether a frame currently at the given line satisfies the
// constraint. A StopLine holding an unknown mode cannot be interpreted
// and fails with a DecodeError rather than silently not matching.
func (l StopLine) match(line int) (bool, error) {
	switch l.mode {
	case lineUnconstrained:
		return line >= 0, nil
	case lineAlways:
		return true, nil
	case lineAtLeast:
		return line >= l.n, nil
	case lineNever:
		return false, nil
	default:
		return false, &DecodeError{Value: l}
	}
}
