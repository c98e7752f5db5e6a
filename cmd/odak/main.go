// Package main provides the CLI entrypoint for odak.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/odak/internal/category"
	"github.com/verte-zerg/odak/internal/config"
	"github.com/verte-zerg/odak/internal/log"
	"github.com/verte-zerg/odak/internal/model"
	"github.com/verte-zerg/odak/internal/prefs"
	"github.com/verte-zerg/odak/internal/session"
	"github.com/verte-zerg/odak/internal/sound"
	"github.com/verte-zerg/odak/internal/stats"
	"github.com/verte-zerg/odak/internal/statsui"
	"github.com/verte-zerg/odak/internal/store"
	"github.com/verte-zerg/odak/internal/ticker"
	"github.com/verte-zerg/odak/internal/tui"
)

const defaultVolume = -1.0

var (
	timerFocus     int
	timerShort     int
	timerLong      int
	timerCategory  string
	timerMute      bool
	timerNoCatchUp bool

	statsPlain bool
	statsDay   int

	exportFormat string
	exportDay    int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := model.DefaultDurations()
	rootCmd := &cobra.Command{
		Use:           "odak",
		Short:         "Terminal focus timer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTimerCmd,
	}

	rootCmd.Flags().IntVar(&timerFocus, "focus", defaults.Focus, "focus length in minutes (1-180)")
	rootCmd.Flags().IntVar(&timerShort, "short", defaults.Short, "short break length in minutes (1-180)")
	rootCmd.Flags().IntVar(&timerLong, "long", defaults.Long, "long break length in minutes (1-180)")
	rootCmd.Flags().StringVar(&timerCategory, "category", "", "category for completed focus intervals")
	rootCmd.Flags().BoolVar(&timerMute, "mute", false, "disable the completion sound")
	rootCmd.Flags().BoolVar(&timerNoCatchUp, "no-catch-up", false, "freeze the countdown while the process is suspended")

	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newCategoriesCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDoctorCmd())

	return rootCmd
}

// app bundles the opened persistence layers.
type app struct {
	db     *store.Store
	logger *log.Logger
	prefs  *prefs.Prefs
	stats  *stats.Store
}

func openApp(ctx context.Context) (*app, error) {
	logger, err := log.NewLogger(config.DefaultLogPath())
	if err != nil {
		// The event log is optional; a nil logger discards events.
		logErrf("failed to open event log: %v\n", err)
	}
	db, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return &app{
		db:     db,
		logger: logger,
		prefs:  prefs.Load(ctx, db, logger),
		stats:  stats.Load(ctx, db, stats.WithLogger(logger)),
	}, nil
}

func (a *app) close() {
	if cerr := a.db.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

// timerSettings is the resolved configuration for one timer run.
type timerSettings struct {
	Durations model.Durations
	Category  string
	Sound     bool
	Volume    float64
	CatchUp   bool
}

// resolveSettings layers persisted prefs, then the TOML file, then flags.
func resolveSettings(cmd *cobra.Command, fileCfg config.FileConfig, stored model.Durations, storedCategory string) timerSettings {
	applyIntConfig(cmd, "focus", &timerFocus, &stored.Focus)
	applyIntConfig(cmd, "short", &timerShort, &stored.Short)
	applyIntConfig(cmd, "long", &timerLong, &stored.Long)
	applyStringConfig(cmd, "category", &timerCategory, &storedCategory)

	applyIntConfig(cmd, "focus", &timerFocus, fileCfg.Timer.Focus)
	applyIntConfig(cmd, "short", &timerShort, fileCfg.Timer.Short)
	applyIntConfig(cmd, "long", &timerLong, fileCfg.Timer.Long)
	applyStringConfig(cmd, "category", &timerCategory, fileCfg.Timer.Category)

	if fileCfg.Sound.Enabled != nil {
		muted := !*fileCfg.Sound.Enabled
		applyBoolConfig(cmd, "mute", &timerMute, &muted)
	}
	if fileCfg.Timer.CatchUp != nil {
		noCatchUp := !*fileCfg.Timer.CatchUp
		applyBoolConfig(cmd, "no-catch-up", &timerNoCatchUp, &noCatchUp)
	}

	volume := defaultVolume
	if fileCfg.Sound.Volume != nil {
		volume = *fileCfg.Sound.Volume
	}
	return timerSettings{
		Durations: model.Durations{Focus: timerFocus, Short: timerShort, Long: timerLong}.Clamp(),
		Category:  strings.TrimSpace(timerCategory),
		Sound:     !timerMute,
		Volume:    volume,
		CatchUp:   !timerNoCatchUp,
	}
}

func runTimerCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	settings := resolveSettings(cmd, fileCfg, a.prefs.Durations(), a.prefs.Category())
	label := a.prefs.SelectCategory(ctx, settings.Category)

	var notifier session.Notifier = sound.Nop{}
	if settings.Sound {
		notifier = sound.NewTone(settings.Volume, a.logger)
	}
	engine := session.NewEngine(
		session.NewState(settings.Durations, a.stats.FocusCount(), a.stats.TotalMinutes()),
		a.stats,
		session.WithCategory(label),
		session.WithNotifier(notifier),
		session.WithLogger(a.logger),
	)
	tk := ticker.New(ticker.WithCatchUp(settings.CatchUp))
	defer tk.Stop()

	program := tea.NewProgram(tui.NewModel(engine, a.prefs, a.stats, tk), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show focus statistics",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print tables instead of the interactive view")
	cmd.Flags().IntVar(&statsDay, "day", 0, "day offset (0 today, -1 yesterday)")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsDay > 0 {
		return fmt.Errorf("--day must be <= 0")
	}
	a, err := openApp(context.Background())
	if err != nil {
		return err
	}
	defer a.close()

	if statsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		out := cmd.OutOrStdout()
		report := stats.BuildReport(a.stats, statsDay)
		if err := stats.Render(out, report, stats.DefaultRenderOptions(out, a.stats.CategoryColor)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	program := tea.NewProgram(statsui.NewModel(a.stats, statsDay), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export statistics as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", "json", "output format (json|yaml)")
	cmd.Flags().IntVar(&exportDay, "day", 0, "day offset (0 today, -1 yesterday)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	if exportDay > 0 {
		return fmt.Errorf("--day must be <= 0")
	}
	a, err := openApp(context.Background())
	if err != nil {
		return err
	}
	defer a.close()
	return stats.Encode(cmd.OutOrStdout(), stats.BuildReport(a.stats, exportDay), exportFormat)
}

func newCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List or add focus categories",
		Args:  cobra.NoArgs,
		RunE:  runCategoriesListCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE:  runCategoriesListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <label>",
		Short: "Add a category",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCategoriesAddCmd,
	})
	return cmd
}

func runCategoriesListCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(context.Background())
	if err != nil {
		return err
	}
	defer a.close()
	return writeCategories(cmd, a.prefs.Categories(), a.prefs.Category(), a.stats.CategoryMinutes())
}

func writeCategories(cmd *cobra.Command, set *category.Set, selected string, minutes map[string]int) error {
	for _, label := range set.Sorted() {
		marker := " "
		if category.Equal(label, selected) {
			marker = "*"
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n", marker, label, stats.FormatMinutes(minutes[label])); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runCategoriesAddCmd(cmd *cobra.Command, args []string) error {
	label := strings.TrimSpace(strings.Join(args, " "))
	if label == "" {
		return fmt.Errorf("category label must not be empty")
	}
	a, err := openApp(context.Background())
	if err != nil {
		return err
	}
	defer a.close()
	if !a.prefs.AddCategory(context.Background(), label) {
		logErrf("category %q already exists\n", label)
		return nil
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", label); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
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

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Show storage locations, stored keys and counter health",
		Args:  cobra.NoArgs,
		RunE:  runDoctorCmd,
	}
}

func runDoctorCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	entries, err := a.db.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	lines := []string{
		"config: " + config.DefaultConfigPath(),
		"db:     " + config.DefaultDBPath(),
		"log:    " + a.logger.Path(),
		"",
	}
	lines = append(lines, describeEntries(entries)...)
	lines = append(lines, "")
	lines = append(lines, checkCounters(a.stats)...)
	if events, err := a.logger.ReadAll(); err == nil {
		failures := 0
		for _, ev := range events {
			if ev.Event == log.EventStorageError || ev.Event == log.EventAudioError {
				failures++
			}
		}
		lines = append(lines, fmt.Sprintf("log: %d events, %d storage/audio errors", len(events), failures))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func describeEntries(entries []store.Entry) []string {
	known := make(map[string]bool, len(store.Keys))
	for _, k := range store.Keys {
		known[k] = true
	}
	lines := make([]string, 0, len(entries)+1)
	if len(entries) == 0 {
		return append(lines, "no stored keys")
	}
	for _, e := range entries {
		note := ""
		if !known[e.Key] {
			note = "  (unknown)"
		}
		lines = append(lines, fmt.Sprintf("%-18s %7d bytes  %s%s", e.Key, e.Size, e.UpdatedAt.Local().Format("2006-01-02 15:04"), note))
	}
	return lines
}

// checkCounters compares the cached counters with a replay of the event log.
// Cached values above the replay are expected once old events were evicted.
func checkCounters(st *stats.Store) []string {
	events := st.Events()
	replayed := stats.Replay(events)
	cached := st.CategoryMinutes()

	lines := []string{fmt.Sprintf("events: %d of %d kept", len(events), model.MaxEvents)}
	replayTotal := 0
	for _, item := range stats.TopCategories(replayed, 0) {
		replayTotal += item.Minutes
	}
	mismatch := 0
	for _, item := range stats.TopCategories(cached, 0) {
		fromLog := replayed[item.Category]
		if item.Minutes < fromLog {
			lines = append(lines, fmt.Sprintf("category %s: cache %d below log %d", item.Category, item.Minutes, fromLog))
			mismatch++
		} else if item.Minutes > fromLog {
			lines = append(lines, fmt.Sprintf("category %s: %d minutes predate the kept log", item.Category, item.Minutes-fromLog))
		}
	}
	if st.TotalMinutes() < replayTotal {
		lines = append(lines, fmt.Sprintf("total minutes %d below log %d", st.TotalMinutes(), replayTotal))
		mismatch++
	}
	if mismatch == 0 {
		lines = append(lines, fmt.Sprintf("counters ok: %s in %d focus sessions", stats.FormatMinutes(st.TotalMinutes()), st.FocusCount()))
	}
	return lines
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

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
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
	d := model.DefaultDurations()
	return fmt.Sprintf(`# odak configuration
# Uncomment a value to enable it. CLI flags override config values,
# config values override durations saved from the timer screen.

[timer]
# focus = %d              # Focus length in minutes (%d-%d)
# short = %d               # Short break length in minutes
# long = %d               # Long break length in minutes
# category = %q       # Category for completed focus intervals
# catch-up = true         # Count time spent suspended

[sound]
# enabled = true          # Play a tone when an interval completes
# volume = %.1f           # Base-2 gain: 0 unchanged, -1 half, -10 silent
`,
		d.Focus, model.MinDuration, model.MaxDuration,
		d.Short,
		d.Long,
		model.DefaultCategory,
		defaultVolume,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
