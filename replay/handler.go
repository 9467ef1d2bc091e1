// Copyright © 2026 The pyclewn authors

package replay

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Mistobaan/pyclewn/tracer"
)

// Stop records one debugger stop for the run report.
type Stop struct {
	Event  tracer.Event
	File   string
	Line   int
	Reason string // "step" or "breakpoint"
	Arg    string // return value or exception text, when present
	Action string // scripted action applied at this stop
}

// moduleNamer is the host-side knowledge IsSkippedModule needs; the
// scripted frames satisfy it with their unit identifier.
type moduleNamer interface {
	ModuleName() string
}

// LogHandler is a non-interactive debugger: at every stop it logs the
// position and applies the next scripted action. It is the handler
// behind `pyclewn replay` without --interactive, and the workhorse of
// the integration tests.
type LogHandler struct {
	tracer  *tracer.Tracer
	log     *logrus.Logger
	actions []string
	next    int

	// Stops accumulates the stop reports of the run.
	Stops []Stop
}

var _ tracer.UserEventHandler = (*LogHandler)(nil)

// NewLogHandler creates a handler that applies the scripted actions in
// order, running to completion (continue) once they are exhausted.
func NewLogHandler(log *logrus.Logger, actions []string) *LogHandler {
	if log == nil {
		log = logrus.New()
	}
	return &LogHandler{log: log, actions: actions}
}

// Bind attaches the tracer the handler drives. The handler and the
// tracer reference each other, so binding happens after construction.
func (h *LogHandler) Bind(t *tracer.Tracer) { h.tracer = t }

// OnUserLine implements tracer.UserEventHandler.
func (h *LogHandler) OnUserLine(frame tracer.Frame) error {
	return h.stopped(frame, tracer.EventLine, "step", "")
}

// OnUserCall implements tracer.UserEventHandler.
func (h *LogHandler) OnUserCall(frame tracer.Frame, arg any) error {
	return h.stopped(frame, tracer.EventCall, "step", argText(arg))
}

// OnUserReturn implements tracer.UserEventHandler.
func (h *LogHandler) OnUserReturn(frame tracer.Frame, value any) error {
	return h.stopped(frame, tracer.EventReturn, "step", argText(value))
}

// OnUserException implements tracer.UserEventHandler.
func (h *LogHandler) OnUserException(frame tracer.Frame, exc any) error {
	return h.stopped(frame, tracer.EventException, "step", argText(exc))
}

// OnBreakpointLine implements tracer.UserEventHandler.
func (h *LogHandler) OnBreakpointLine(frame tracer.Frame, bps tracer.ModuleBreakpoints) error {
	return h.stopped(frame, tracer.EventLine, "breakpoint", "")
}

// OnStopTracing implements tracer.UserEventHandler.
func (h *LogHandler) OnStopTracing(frame tracer.Frame) error {
	h.log.WithFields(logrus.Fields{
		"file": frame.Unit().Filename(),
		"line": frame.Line(),
	}).Info("tracing stopped")
	h.tracer.StopTracing(frame)
	return nil
}

// IsSkippedModule implements tracer.UserEventHandler by matching the
// frame's module name against the tracer's skip patterns.
func (h *LogHandler) IsSkippedModule(frame tracer.Frame) (bool, error) {
	named, ok := frame.(moduleNamer)
	if !ok {
		return false, errors.New("replay: frame has no module name")
	}
	patterns := h.tracer.State().SkipModules()
	return tracer.MatchModulePattern(patterns, named.ModuleName()), nil
}

// ActiveHook implements tracer.UserEventHandler. A quitting or
// uninstalled session detaches the frame.
func (h *LogHandler) ActiveHook() tracer.Hook {
	if h.tracer.State().Quitting() {
		return nil
	}
	if s := h.tracer.Session(); s != nil && !s.Active() {
		return nil
	}
	return h.tracer
}

// stopped records the stop and applies the next scripted action.
func (h *LogHandler) stopped(frame tracer.Frame, event tracer.Event, reason, arg string) error {
	action := "continue"
	if h.next < len(h.actions) {
		action = h.actions[h.next]
		h.next++
	}
	h.Stops = append(h.Stops, Stop{
		Event:  event,
		File:   frame.Unit().Filename(),
		Line:   frame.Line(),
		Reason: reason,
		Arg:    arg,
		Action: action,
	})
	h.log.WithFields(logrus.Fields{
		"event":  event.String(),
		"file":   frame.Unit().Filename(),
		"line":   frame.Line(),
		"reason": reason,
		"action": action,
	}).Info("stopped")
	return h.apply(frame, action)
}

func (h *LogHandler) apply(frame tracer.Frame, action string) error {
	name, param, _ := strings.Cut(action, ":")
	switch name {
	case "step":
		h.tracer.SetStep()
	case "next":
		h.tracer.SetNext(frame)
	case "until":
		line := 0
		if param != "" {
			n, err := strconv.Atoi(param)
			if err != nil {
				return errors.Wrapf(err, "replay: bad until action %q", action)
			}
			line = n
		}
		h.tracer.SetUntil(frame, line)
	case "return":
		h.tracer.SetReturn(frame)
	case "continue":
		h.tracer.SetContinue()
	case "quit":
		h.tracer.SetQuit()
	default:
		return errors.Errorf("replay: unknown action %q", action)
	}
	return nil
}

func argText(arg any) string {
	if arg == nil {
		return ""
	}
	if s, ok := arg.(string); ok {
		return s
	}
	return ""
}
