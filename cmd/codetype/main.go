// Package main provides the CLI entrypoint for codetype.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/codetype/internal/config"
	"github.com/verte-zerg/codetype/internal/logging"
	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/prefs"
	"github.com/verte-zerg/codetype/internal/snippet"
	"github.com/verte-zerg/codetype/internal/store"
	"github.com/verte-zerg/codetype/internal/tui"
)

const (
	defaultIndent      = "2"
	defaultWeakTop     = 2
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultCurveWindow = 20
	defaultHistory     = 10
)

var difficulties = []string{"easy", "medium", "hard"}

var (
	rootUser  string
	rootDebug bool
	fileCfg   config.FileConfig

	practiceLang       string
	practiceDifficulty string
	practiceSnippet    string
	practiceIndent     string
	practiceCacheTTL   string
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceWeakWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "codetype",
		Short:             "TUI code typing trainer",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: setupRoot,
		RunE:              runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&rootUser, "user", "", "user whose results and preferences are used (default: $CODETYPE_USER or login name)")
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "write debug entries to the log file")

	rootCmd.Flags().StringVar(&practiceLang, "lang", "", "snippet language (default: any)")
	rootCmd.Flags().StringVar(&practiceDifficulty, "difficulty", "", "snippet difficulty: easy, medium or hard (default: any)")
	rootCmd.Flags().StringVar(&practiceSnippet, "snippet", "", "practice one snippet by id")
	rootCmd.Flags().StringVar(&practiceIndent, "indent-unit", defaultIndent, "what tab inserts: a number of spaces or \"tab\"")
	rootCmd.Flags().StringVar(&practiceCacheTTL, "cache-ttl", snippet.DefaultCacheTTL.String(), "how long snippet listings are cached")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias snippet choice toward weak character classes")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak classes to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak classes")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent results to compute weak classes")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newSnippetsCmd())
	rootCmd.AddCommand(newPrefsCmd())

	return rootCmd
}

// setupRoot loads the environment and config file and resolves the user.
func setupRoot(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnv(".env"); err != nil {
		logErrf("%v\n", err)
	}
	if cmd.Name() == "config" {
		return nil
	}
	cfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fileCfg = cfg
	if !cmd.Flags().Changed("user") {
		rootUser = config.DefaultUser()
		if os.Getenv(config.EnvUser) == "" && fileCfg.User.Name != nil {
			rootUser = *fileCfg.User.Name
		}
	}
	rootUser = strings.TrimSpace(rootUser)
	if rootUser == "" {
		return fmt.Errorf("--user must not be empty")
	}
	return nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyStringConfig(cmd, "difficulty", &practiceDifficulty, fileCfg.Practice.Difficulty)
	applyStringConfig(cmd, "indent-unit", &practiceIndent, fileCfg.Practice.IndentUnit)
	applyStringConfig(cmd, "cache-ttl", &practiceCacheTTL, fileCfg.Practice.CacheTTL)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)

	indentUnit, err := parseIndentUnit(practiceIndent)
	if err != nil {
		return err
	}
	cacheTTL, err := time.ParseDuration(practiceCacheTTL)
	if err != nil {
		return fmt.Errorf("invalid --cache-ttl value: %w", err)
	}
	lang := strings.TrimSpace(practiceLang)
	if lang != "" {
		lang = snippet.NormalizeLanguage(lang)
	}
	cfg := model.Config{
		User:       rootUser,
		Lang:       lang,
		Difficulty: strings.ToLower(strings.TrimSpace(practiceDifficulty)),
		SnippetID:  strings.TrimSpace(practiceSnippet),
		IndentUnit: indentUnit,
		CacheTTL:   cacheTTL,
		FocusWeak:  practiceFocusWeak,
		WeakTop:    practiceWeakTop,
		WeakFactor: practiceWeakFactor,
		WeakWindow: practiceWeakWindow,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	logger := openLogger()
	defer syncLogger(logger)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	seedBuiltin(ctx, st, cfg.IndentUnit)

	userPrefs, _, err := st.GetPreferences(ctx, cfg.User)
	if err != nil {
		logErrf("failed to load preferences, using defaults: %v\n", err)
		logger.Warn("failed to load preferences", zap.String("user", cfg.User), zap.Error(err))
		userPrefs = prefs.Defaults()
	}

	var initial *model.Snippet
	if cfg.SnippetID != "" {
		sn, err := st.GetSnippet(ctx, cfg.SnippetID)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("snippet %q not found (run: codetype snippets list)", cfg.SnippetID)
		}
		if err != nil {
			return fmt.Errorf("failed to load snippet: %w", err)
		}
		initial = &sn
	}

	library := snippet.NewLibrary(st, snippet.NewCache(cfg.CacheTTL, nil), nil)
	practice, err := tui.NewModel(tui.Options{
		Config:   cfg,
		Prefs:    userPrefs,
		Store:    st,
		Snippets: library,
		Logger:   logger,
		Initial:  initial,
	})
	if errors.Is(err, snippet.ErrNoSnippets) {
		return noSnippetsError(cfg)
	}
	if err != nil {
		return err
	}
	logger.Info("practice started",
		zap.String("user", cfg.User),
		zap.String("lang", cfg.Lang),
		zap.String("difficulty", cfg.Difficulty),
		zap.Bool("focus_weak", cfg.FocusWeak))

	program := tea.NewProgram(practice, tea.WithAltScreen())
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

func openLogger() *zap.Logger {
	logger, err := logging.New(config.DefaultLogPath(), rootDebug)
	if err != nil {
		logErrf("failed to open log file, logging disabled: %v\n", err)
		return zap.NewNop()
	}
	return logger
}

func syncLogger(logger *zap.Logger) {
	if err := logger.Sync(); err != nil {
		// Best-effort flush.
		_ = err
	}
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

// seedBuiltin stores the builtin snippets on first use.
func seedBuiltin(ctx context.Context, st *store.Store, indentUnit string) {
	n, err := snippet.Seed(ctx, st, indentUnit, false)
	if err != nil {
		logErrf("failed to seed builtin snippets: %v\n", err)
		return
	}
	if n > 0 {
		logErrf("Added %d builtin snippets\n", n)
	}
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
	return fmt.Sprintf(`# codetype configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = "go"             # Snippet language (default: any)
# difficulty = "easy"     # easy, medium or hard (default: any)
# indent-unit = %q         # What tab inserts: number of spaces or "tab"
# cache-ttl = %q         # How long snippet listings are cached
# focus-weak = false      # Bias snippet choice toward weak character classes
# weak-top = %d            # Number of weak classes to focus on
# weak-factor = %.1f      # Weight factor for weak classes
# weak-window = %d        # Number of recent results to compute weak classes

[user]
# name = "me"             # Results and preferences key (default: login name)
`,
		defaultIndent,
		snippet.DefaultCacheTTL.String(),
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
	)
}

// parseIndentUnit turns "tab" or a number of spaces into the inserted text.
func parseIndentUnit(value string) (string, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "tab" {
		return "\t", nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || n > 8 {
		return "", fmt.Errorf("--indent-unit must be 1-8 spaces or \"tab\"")
	}
	return strings.Repeat(" ", n), nil
}

func validateConfig(cfg model.Config) error {
	if cfg.Lang != "" {
		if _, ok := snippet.LookupLanguage(cfg.Lang); !ok {
			return fmt.Errorf("unknown language %q (run: codetype langs)", cfg.Lang)
		}
	}
	if cfg.Difficulty != "" && !slices.Contains(difficulties, cfg.Difficulty) {
		return fmt.Errorf("--difficulty must be one of %s", strings.Join(difficulties, ", "))
	}
	if cfg.CacheTTL < 0 {
		return fmt.Errorf("--cache-ttl must be >= 0")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func noSnippetsError(cfg model.Config) error {
	lang := cfg.Lang
	if lang == "" {
		lang = "any"
	}
	difficulty := cfg.Difficulty
	if difficulty == "" {
		difficulty = "any"
	}
	lines := []string{
		fmt.Sprintf("no snippets for lang=%s difficulty=%s", lang, difficulty),
		"Run: codetype langs",
		"Import: codetype snippets import <file|dir>",
		"Restore builtin snippets: codetype snippets seed --force",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
