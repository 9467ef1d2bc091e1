// Copyright © 2026 The pyclewn authors

package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Mistobaan/pyclewn/replay"
	"github.com/Mistobaan/pyclewn/tracer"
	"github.com/Mistobaan/pyclewn/tracer/x/console"
	"github.com/Mistobaan/pyclewn/tracer/x/dapevents"
)

var (
	replayInteractive bool
	replayReport      string
	replayDAPEvents   string
	replaySkipModules []string
	replayFold        bool
)

// replayCmd represents the replay command
var replayCmd = &cobra.Command{
	Use:   "replay <script.json>",
	Short: "Replay a recorded event stream through the tracer",
	Long: `Replay drives the tracer with a recorded execution event stream. The
scripted debugger actions (or an interactive console with -i) decide
where execution stops.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logrus.New()
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(logrus.DebugLevel)
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		script, err := replay.Load(data)
		if err != nil {
			return err
		}

		lines := tracer.NewLineCache()
		var (
			handler tracer.UserEventHandler
			index   tracer.BreakpointIndex
			bpIDs   func(tracer.BreakpointSet) []int
			logged  *replay.LogHandler
			cons    *console.Console
		)
		if replayInteractive {
			store := console.NewStore(lines, replayFold)
			for _, bp := range script.Breakpoints {
				store.Set(bp.File, bp.FirstLine, bp.Line)
			}
			cons, err = console.NewConsole(store)
			if err != nil {
				return err
			}
			defer cons.Close()
			handler, index, bpIDs = cons, store, console.IDs
		} else {
			logged = replay.NewLogHandler(log, script.Actions)
			handler, index, bpIDs = logged, script.BuildIndex(lines), replay.BreakpointIDs
		}

		if replayDAPEvents != "" {
			f, err := os.Create(replayDAPEvents)
			if err != nil {
				return err
			}
			defer f.Close()
			handler = dapevents.NewNotifier(handler, dapevents.NewSink(f),
				dapevents.WithBreakpointIDs(bpIDs))
		}

		t, err := tracer.NewTracer(handler, index,
			tracer.WithLineCache(lines),
			tracer.WithFoldFilenames(replayFold),
			tracer.WithSkipModules(replaySkipModules...),
			tracer.WithLogger(log),
		)
		if err != nil {
			return err
		}
		if cons != nil {
			cons.Bind(t)
		}
		if logged != nil {
			logged.Bind(t)
		}

		engine := replay.NewEngine(log)
		session, err := t.Install(engine)
		if err != nil {
			return err
		}
		defer session.Uninstall()

		if err := engine.Run(script); err != nil {
			return err
		}

		if replayReport != "" && logged != nil {
			out, err := replay.Report(logged.Stops, engine.Stats())
			if err != nil {
				return err
			}
			if err := os.WriteFile(replayReport, out, 0o644); err != nil {
				return err
			}
		}
		stats := engine.Stats()
		fmt.Fprintf(cmd.OutOrStdout(), "delivered %d, suppressed %d, failed %d\n",
			stats.Delivered, stats.Suppressed, stats.Failed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().BoolVarP(&replayInteractive, "interactive", "i", false,
		"Stop into an interactive console instead of scripted actions")
	replayCmd.Flags().StringVar(&replayReport, "report", "",
		"Write a JSON stop report to the given file")
	replayCmd.Flags().StringVar(&replayDAPEvents, "dap-events", "",
		"Mirror stops as DAP event messages to the given file")
	replayCmd.Flags().StringSliceVar(&replaySkipModules, "skip-module", nil,
		"fnmatch-style module patterns the debugger never stops in")
	replayCmd.Flags().BoolVar(&replayFold, "fold", false,
		"Case-fold source paths before breakpoint lookups")
}
