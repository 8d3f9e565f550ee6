// Package main provides the CLI entrypoint for keytrace.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/keytrace/internal/config"
	"github.com/verte-zerg/keytrace/internal/generator"
	"github.com/verte-zerg/keytrace/internal/model"
	"github.com/verte-zerg/keytrace/internal/recorder"
	"github.com/verte-zerg/keytrace/internal/session"
	"github.com/verte-zerg/keytrace/internal/store"
	"github.com/verte-zerg/keytrace/internal/tui"
	"github.com/verte-zerg/keytrace/internal/wordlist"
)

const (
	defaultLang         = "en"
	defaultWords        = 25
	defaultCaps         = 0.0
	defaultPunct        = 0.0
	defaultMissedWindow = 20
	defaultMissedFactor = 2.0
	defaultCurveWindow  = 20
	defaultTopWords     = 20
	defaultLogLevel     = "info"
)

const defaultPunctSet = ".,!?;:"

var (
	practiceLang         string
	practiceWords        int
	practiceCaps         float64
	practicePunct        float64
	practicePunctSet     string
	practiceFocusMissed  bool
	practiceMissedWindow int
	practiceMissedFactor float64

	telemetryDebug       bool
	telemetryMaxSamples  int
	telemetryTrackedKeys []string
	telemetryLogLevel    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "keytrace",
		Short:         "Terminal typing test with keystroke telemetry",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceLang, "lang", defaultLang, "language code")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per test")
	rootCmd.Flags().Float64Var(&practiceCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	rootCmd.Flags().Float64Var(&practicePunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	rootCmd.Flags().StringVar(&practicePunctSet, "punct-set", defaultPunctSet, "punctuation set")
	rootCmd.Flags().BoolVar(&practiceFocusMissed, "focus-missed", false, "bias tests toward recently missed words")
	rootCmd.Flags().IntVar(&practiceMissedWindow, "missed-window", defaultMissedWindow, "number of recent sessions to collect missed words from")
	rootCmd.Flags().Float64Var(&practiceMissedFactor, "missed-factor", defaultMissedFactor, "extra weight per miss for a word")
	addTelemetryFlags(rootCmd)

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newReplayCmd())

	return rootCmd
}

func addTelemetryFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&telemetryDebug, "debug", false, "log keystroke timing trace points")
	cmd.Flags().IntVar(&telemetryMaxSamples, "max-timing-samples", recorder.DefaultMaxTimingSamples, "freeze timing collection at this many samples (0 disables)")
	cmd.Flags().StringSliceVar(&telemetryTrackedKeys, "tracked-keys", nil, "key codes to time (default: letters, digits, punctuation, space)")
	cmd.Flags().StringVar(&telemetryLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
}

func applyTelemetryConfig(cmd *cobra.Command, fileCfg config.TelemetryConfig) model.TelemetryConfig {
	applyBoolConfig(cmd, "debug", &telemetryDebug, fileCfg.Debug)
	applyIntConfig(cmd, "max-timing-samples", &telemetryMaxSamples, fileCfg.MaxTimingSamples)
	applyStringSliceConfig(cmd, "tracked-keys", &telemetryTrackedKeys, fileCfg.TrackedKeys)
	applyStringConfig(cmd, "log-level", &telemetryLogLevel, fileCfg.LogLevel)
	return model.TelemetryConfig{
		Debug:            telemetryDebug,
		MaxTimingSamples: telemetryMaxSamples,
		TrackedKeys:      telemetryTrackedKeys,
		LogLevel:         telemetryLogLevel,
	}
}

func recorderOptions(cfg model.TelemetryConfig, logger *loggerHandle) recorder.Options {
	opts := recorder.Options{
		MaxTimingSamples: cfg.MaxTimingSamples,
		Debug:            cfg.Debug,
		Logger:           logger.Logger,
	}
	if len(cfg.TrackedKeys) > 0 {
		opts.Keys = session.NewKeySet(cfg.TrackedKeys...)
	}
	return opts
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyFloatConfig(cmd, "caps", &practiceCaps, fileCfg.Practice.CapsPct)
	applyFloatConfig(cmd, "punct", &practicePunct, fileCfg.Practice.PunctPct)
	applyStringConfig(cmd, "punct-set", &practicePunctSet, fileCfg.Practice.PunctSet)
	applyBoolConfig(cmd, "focus-missed", &practiceFocusMissed, fileCfg.Practice.FocusMissed)
	applyIntConfig(cmd, "missed-window", &practiceMissedWindow, fileCfg.Practice.MissedWindow)
	applyFloatConfig(cmd, "missed-factor", &practiceMissedFactor, fileCfg.Practice.MissedFactor)

	cfg := model.Config{
		Lang:         practiceLang,
		Words:        practiceWords,
		CapsPct:      practiceCaps,
		PunctPct:     practicePunct,
		PunctSet:     practicePunctSet,
		FocusMissed:  practiceFocusMissed,
		MissedWindow: practiceMissedWindow,
		MissedFactor: practiceMissedFactor,
		Telemetry:    applyTelemetryConfig(cmd, fileCfg.Telemetry),
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	logger, err := openFileLogger(config.DefaultLogPath(), cfg.Telemetry.LogLevel)
	if err != nil {
		return err
	}
	defer logger.close()

	wordPath := config.DefaultWordListPath(cfg.Lang)
	words, source, err := wordlist.LoadOrEmbedded(wordPath, cfg.Lang)
	if err != nil {
		return wordListLoadError(cfg.Lang, wordPath, err)
	}
	words = wordlist.Usable(words, cfg.Lang)
	if len(words) == 0 {
		return fmt.Errorf("word list %s has no usable words for %q", source, cfg.Lang)
	}
	logger.Info("practice started", "lang", cfg.Lang, "words", cfg.Words, "source", source)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	rec := recorder.New(recorderOptions(cfg.Telemetry, logger))
	gen := generator.New(generator.Options{CapsPct: cfg.CapsPct, PunctPct: cfg.PunctPct, PunctSet: []rune(cfg.PunctSet)})
	m := tui.NewModel(cfg, st, gen, rec, words, source, logger.Logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List available word list languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	langs, err := listLangs(config.DefaultWordListDir())
	if err != nil {
		return err
	}
	for _, lang := range langs {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), lang); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// listLangs returns the languages with a word list in dir. English is always
// available through the built-in list.
func listLangs(dir string) ([]string, error) {
	seen := map[string]struct{}{defaultLang: {}}
	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read wordlist directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		seen[strings.TrimSuffix(name, ".txt")] = struct{}{}
	}
	langs := make([]string, 0, len(seen))
	for lang := range seen {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyStringSliceConfig(cmd *cobra.Command, name string, target, value *[]string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = append([]string(nil), (*value)...)
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# keytrace configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = "en"              # Language code (default %q)
# words = %d               # Words per test
# caps = %.2f              # Probability of capitalized first letter (0-1)
# punct = %.2f             # Punctuation probability per word (0-1)
# punct-set = %q           # Punctuation set
# focus-missed = false     # Bias tests toward recently missed words
# missed-window = %d       # Recent sessions to collect missed words from
# missed-factor = %.1f     # Extra weight per miss

[telemetry]
# debug = false            # Log keystroke timing trace points
# max-timing-samples = %d  # Freeze timing collection at this many samples (0 disables)
# tracked-keys = []        # Key codes to time, e.g. ["KeyA", "Space"]
# log-level = %q           # debug, info, warn, error
`,
		defaultLang,
		defaultWords,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		defaultMissedWindow,
		defaultMissedFactor,
		recorder.DefaultMaxTimingSamples,
		defaultLogLevel,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctPct > 0 && cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if cfg.MissedWindow < 0 {
		return fmt.Errorf("--missed-window must be >= 0")
	}
	if cfg.MissedFactor < 0 {
		return fmt.Errorf("--missed-factor must be >= 0")
	}
	return validateTelemetry(cfg.Telemetry)
}

func validateTelemetry(cfg model.TelemetryConfig) error {
	if cfg.MaxTimingSamples < 0 {
		return fmt.Errorf("--max-timing-samples must be >= 0")
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	return nil
}

func wordListLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load word list: %v", err),
		fmt.Sprintf("expected word list at: %s", path),
		fmt.Sprintf("language %q not found", lang),
		"Run: keytrace langs",
		"Add a list with one word per line at the path above.",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
