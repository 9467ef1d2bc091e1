// Copyright © 2026 The pyclewn authors

// Package console implements an interactive command-line debugger on
// top of the tracer: a readline loop entered at every stop, plus the
// breakpoint store that feeds the tracer's breakpoint index.
package console

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ergochat/readline"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/pkg/errors"

	"github.com/Mistobaan/pyclewn/tracer"
)

type config struct {
	stdin  io.ReadCloser
	stdout io.Writer
}

// Option configures the console.
type Option func(*config)

// WithStdin overrides the command input, for tests.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStdout overrides the console output.
func WithStdout(stdout io.Writer) Option {
	return func(c *config) {
		c.stdout = stdout
	}
}

// moduleNamer is the host-side knowledge needed to match skip-module
// patterns against a frame.
type moduleNamer interface {
	ModuleName() string
}

// Console is an interactive UserEventHandler: every stop prints the
// position and reads commands until one resumes execution.
type Console struct {
	tracer *tracer.Tracer
	store  *Store
	rl     *readline.Instance
	out    io.Writer
}

var _ tracer.UserEventHandler = (*Console)(nil)

// NewConsole creates the interactive handler around a breakpoint store.
func NewConsole(store *Store, opts ...Option) (*Console, error) {
	cfg := &config{stdout: os.Stderr}
	for _, opt := range opts {
		opt(cfg)
	}
	rlCfg := &readline.Config{
		Prompt:            "(pyclewn) ",
		HistoryFile:       historyPath(),
		HistorySearchFold: true,
		Stdout:            cfg.stdout,
		Stderr:            cfg.stdout,
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return nil, errors.Wrap(err, "console: readline init")
	}
	return &Console{store: store, rl: rl, out: cfg.stdout}, nil
}

// Bind attaches the tracer the console drives.
func (c *Console) Bind(t *tracer.Tracer) { c.tracer = t }

// Close releases the readline instance.
func (c *Console) Close() error { return c.rl.Close() }

// OnUserLine implements tracer.UserEventHandler.
func (c *Console) OnUserLine(frame tracer.Frame) error {
	c.printStop(frame, "line", "")
	return c.interact(frame)
}

// OnUserCall implements tracer.UserEventHandler.
func (c *Console) OnUserCall(frame tracer.Frame, arg any) error {
	c.printStop(frame, "call", argText(arg))
	return c.interact(frame)
}

// OnUserReturn implements tracer.UserEventHandler.
func (c *Console) OnUserReturn(frame tracer.Frame, value any) error {
	c.printStop(frame, "return", argText(value))
	return c.interact(frame)
}

// OnUserException implements tracer.UserEventHandler.
func (c *Console) OnUserException(frame tracer.Frame, exc any) error {
	c.printStop(frame, "exception", argText(exc))
	return c.interact(frame)
}

// OnBreakpointLine implements tracer.UserEventHandler.
func (c *Console) OnBreakpointLine(frame tracer.Frame, bps tracer.ModuleBreakpoints) error {
	hit := ""
	if codeBPs, ok := bps[frame.Unit().FirstLine()]; ok {
		if ids := IDs(codeBPs[frame.Line()]); len(ids) > 0 {
			hit = fmt.Sprintf(" (breakpoint %v)", ids)
		}
	}
	c.printStop(frame, "breakpoint", hit)
	return c.interact(frame)
}

// OnStopTracing implements tracer.UserEventHandler.
func (c *Console) OnStopTracing(frame tracer.Frame) error {
	fmt.Fprintln(c.out, "The program finished")
	c.tracer.StopTracing(frame)
	return nil
}

// IsSkippedModule implements tracer.UserEventHandler.
func (c *Console) IsSkippedModule(frame tracer.Frame) (bool, error) {
	named, ok := frame.(moduleNamer)
	if !ok {
		return false, errors.New("console: frame has no module name")
	}
	patterns := c.tracer.State().SkipModules()
	return tracer.MatchModulePattern(patterns, named.ModuleName()), nil
}

// ActiveHook implements tracer.UserEventHandler.
func (c *Console) ActiveHook() tracer.Hook {
	if c.tracer.State().Quitting() {
		return nil
	}
	if s := c.tracer.Session(); s != nil && !s.Active() {
		return nil
	}
	return c.tracer
}

func (c *Console) printStop(frame tracer.Frame, reason, extra string) {
	fmt.Fprintf(c.out, "> %s:%d [%s]%s\n",
		frame.Unit().Filename(), frame.Line(), reason, extra)
}

// interact reads commands until one resumes execution or input ends.
// EOF continues: an exhausted script should not wedge the tracee.
func (c *Console) interact(frame tracer.Frame) error {
	for {
		raw, err := c.rl.ReadSlice()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			c.tracer.SetContinue()
			return nil
		}
		line := string(bytes.TrimSpace(raw))
		if line == "" {
			continue
		}
		done, err := c.command(frame, line)
		if err != nil {
			fmt.Fprintln(c.out, "***", err)
			continue
		}
		if done {
			return nil
		}
	}
}

// command runs one console command. It reports whether execution
// resumes.
func (c *Console) command(frame tracer.Frame, line string) (bool, error) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "s", "step":
		c.tracer.SetStep()
		return true, nil
	case "n", "next":
		c.tracer.SetNext(frame)
		return true, nil
	case "u", "until":
		target := 0
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return false, errors.Errorf("until: bad line %q", args[0])
			}
			target = n
		}
		c.tracer.SetUntil(frame, target)
		return true, nil
	case "r", "return":
		c.tracer.SetReturn(frame)
		return true, nil
	case "c", "continue":
		c.tracer.SetContinue()
		return true, nil
	case "q", "quit":
		c.tracer.SetQuit()
		return true, nil
	case "w", "where":
		c.where(frame)
		return false, nil
	case "l", "locals":
		c.locals(frame)
		return false, nil
	case "b", "break":
		return false, c.breakCmd(args)
	case "clear":
		return false, c.clearCmd(args)
	case "bl", "breakpoints":
		c.listBreakpoints()
		return false, nil
	case "h", "help":
		fmt.Fprintln(c.out, helpText())
		return false, nil
	default:
		return false, errors.Errorf("unknown command %q (try help)", cmd)
	}
}

func (c *Console) where(frame tracer.Frame) {
	depth := 0
	for f := frame; f != nil; f = f.Caller() {
		fmt.Fprintf(c.out, "  #%d %s:%d\n", depth, f.Unit().Filename(), f.Line())
		depth++
		if f == c.tracer.State().BottomFrame() {
			break
		}
	}
}

func (c *Console) locals(frame tracer.Frame) {
	view := c.tracer.Locals(frame)
	if locals, ok := view.(map[string]any); ok {
		for name, value := range locals {
			fmt.Fprintf(c.out, "  %s = %v\n", name, value)
		}
		return
	}
	fmt.Fprintf(c.out, "  %v\n", view)
}

// breakCmd parses `break <file>:<line> [firstline]`.
func (c *Console) breakCmd(args []string) error {
	if len(args) == 0 {
		return errors.New("break: usage: break <file>:<line> [firstline]")
	}
	file, lineStr, ok := strings.Cut(args[0], ":")
	if !ok {
		return errors.Errorf("break: bad location %q", args[0])
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil || line <= 0 {
		return errors.Errorf("break: bad line %q", lineStr)
	}
	first := 1
	if len(args) > 1 {
		first, err = strconv.Atoi(args[1])
		if err != nil || first <= 0 {
			return errors.Errorf("break: bad first line %q", args[1])
		}
	}
	bp := c.store.Set(file, first, line)
	fmt.Fprintf(c.out, "Breakpoint %d at %s:%d\n", bp.ID, bp.File, bp.Line)
	return nil
}

func (c *Console) clearCmd(args []string) error {
	if len(args) == 0 {
		return errors.New("clear: usage: clear <file>:<line>")
	}
	file, lineStr, ok := strings.Cut(args[0], ":")
	if !ok {
		return errors.Errorf("clear: bad location %q", args[0])
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil {
		return errors.Errorf("clear: bad line %q", lineStr)
	}
	if !c.store.Remove(file, line) {
		return errors.Errorf("clear: no breakpoint at %s:%d", file, line)
	}
	fmt.Fprintf(c.out, "Deleted breakpoint at %s:%d\n", file, line)
	return nil
}

func (c *Console) listBreakpoints() {
	all := c.store.All()
	if len(all) == 0 {
		fmt.Fprintln(c.out, "No breakpoints")
		return
	}
	for _, bp := range all {
		state := "enabled"
		if !bp.Enabled {
			state = "disabled"
		}
		fmt.Fprintf(c.out, "  %d  %s:%d  %s\n", bp.ID, bp.File, bp.Line, state)
	}
}

func helpText() string {
	const doc = `step (s): stop at the next line in any function.
next (n): stop at the next line in the current function or below.
until (u) [line]: run until the current function reaches the given line, or the next one.
return (r): run until the current function returns.
continue (c): run until the next breakpoint.
where (w): print the call stack.
locals (l): print the local variables of the current frame.
break (b) <file>:<line> [firstline]: set a breakpoint.
clear <file>:<line>: delete a breakpoint.
breakpoints (bl): list breakpoints.
quit (q): end the debug session.`
	return indent.String(wordwrap.String(doc, 72), 2)
}

func argText(arg any) string {
	if arg == nil {
		return ""
	}
	return fmt.Sprintf(" %v", arg)
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pyclewn_history")
}
