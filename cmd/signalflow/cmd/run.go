package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/signalflow/config"
	"github.com/rustyeddy/signalflow/journal"
	"github.com/rustyeddy/signalflow/orchestrate"
)

var (
	runConfigPath string
	runMaxTicks   int
	runQuiet      bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a configured pipeline and stream its tick records",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFromFile(runConfigPath)
		if err != nil {
			return err
		}
		pipe, err := cfg.Build()
		if err != nil {
			return err
		}
		defer pipe.Close()

		names := make([]string, 0, len(pipe.Sinks))
		for name := range pipe.Sinks {
			names = append(names, name)
		}
		sort.Strings(names)

		var sink journal.TickWriter
		switch cfg.Journal.Type {
		case "sqlite":
			sink, err = journal.NewSQLite(cfg.Journal.DBPath)
		case "csv":
			sink, err = journal.NewCSV(cfg.Journal.File, names)
		}
		if err != nil {
			return err
		}
		if sink != nil {
			defer sink.Close()
		}

		session, err := orchestrate.New(pipe.Sinks, orchestrate.WithLogger(slog.Default()))
		if err != nil {
			return err
		}

		if !runQuiet {
			fmt.Println(strings.Join(append([]string{"tick"}, names...), "\t"))
		}
		tick := 0
		err = session.Run(cmd.Context(), func(rec orchestrate.Record) error {
			tick++
			if sink != nil {
				if werr := sink.WriteTick(tick, rec); werr != nil {
					return werr
				}
			}
			if !runQuiet {
				row := make([]string, 0, len(names)+1)
				row = append(row, fmt.Sprintf("%d", tick))
				for _, name := range names {
					row = append(row, rec[name].String())
				}
				fmt.Println(strings.Join(row, "\t"))
			}
			if runMaxTicks > 0 && tick >= runMaxTicks {
				return errStopped
			}
			return nil
		})
		if err == errStopped {
			err = nil
		}
		if err != nil {
			slog.Error("pipeline run failed", "error", err)
			return err
		}
		fmt.Fprintf(os.Stderr, "run complete: %d ticks\n", tick)
		return nil
	},
}

// errStopped ends a run early once --max-ticks is reached.
var errStopped = fmt.Errorf("stopped")

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "pipeline.yaml", "pipeline configuration file")
	runCmd.Flags().IntVar(&runMaxTicks, "max-ticks", 0, "stop after this many ticks (0 = run to exhaustion)")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "suppress per-tick stdout output")
	rootCmd.AddCommand(runCmd)
}
