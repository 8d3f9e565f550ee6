package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/keytrace/internal/config"
	"github.com/verte-zerg/keytrace/internal/replay"
	"github.com/verte-zerg/keytrace/internal/stats"
	"github.com/verte-zerg/keytrace/internal/store"
)

var (
	replaySave bool
	replayLang string
)

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Replay a recorded keystroke log (.jsonl or .yaml) and print its result",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplayCmd,
	}
	cmd.Flags().BoolVar(&replaySave, "save", false, "store the replayed session in the stats database")
	cmd.Flags().StringVar(&replayLang, "lang", defaultLang, "language recorded with a saved session")
	addTelemetryFlags(cmd)
	return cmd
}

func runReplayCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	telemetry := applyTelemetryConfig(cmd, fileCfg.Telemetry)
	if err := validateTelemetry(telemetry); err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr, telemetry.LogLevel)
	if err != nil {
		return err
	}

	path := args[0]
	events, err := replay.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read replay: %w", err)
	}
	logger.Debug("replay loaded", "path", path, "events", len(events))

	res := replay.Run(events, recorderOptions(telemetry, logger))
	result := stats.Compute(res)

	out := cmd.OutOrStdout()
	if err := stats.RenderResult(out, result); err != nil {
		return err
	}
	if err := stats.RenderSpeedCharts(out, result, 0, 4); err != nil {
		return err
	}
	if len(result.MissedWords) > 0 {
		if err := stats.RenderMissedWords(out, result.MissedWords); err != nil {
			return err
		}
	}

	if !replaySave {
		return nil
	}
	if result.Bailout {
		return fmt.Errorf("replayed test was abandoned; not saving")
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	startedAt := time.Now().Add(-time.Duration(result.DurationMs * float64(time.Millisecond)))
	rec := result.Record(startedAt, replayLang, result.Words, "replay:"+filepath.Base(path))
	if err := st.InsertSession(context.Background(), rec); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	logger.Info("replayed session saved", "id", rec.ID, "source", path)
	return nil
}
