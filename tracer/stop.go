// Copyright © 2026 The pyclewn authors

package tracer

// ShouldStop decides whether execution must stop at the frame's current
// position given the stepping state. It is evaluated on every traced
// event, so the skip-module capability is consulted only while the skip
// pattern list is non-empty.
func (t *Tracer) ShouldStop(frame Frame) (bool, error) {
	if len(t.state.skipModules) > 0 {
		skipped, err := t.handler.IsSkippedModule(frame)
		if err != nil {
			return false, &HandlerError{Op: "IsSkippedModule", Err: err}
		}
		if skipped {
			return false, nil
		}
	}
	match, err := t.state.stopLine.match(frame.Line())
	if err != nil {
		return false, err
	}
	if frame == t.state.stopFrame || t.state.stopFrame == nil {
		return match, nil
	}
	return false, nil
}
