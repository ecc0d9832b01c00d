package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/prefs"
	"github.com/verte-zerg/codetype/internal/scorer"
	"github.com/verte-zerg/codetype/internal/snippet"
	"github.com/verte-zerg/codetype/internal/stats"
	"github.com/verte-zerg/codetype/internal/statsui"
)

var (
	statsLang        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	historyLimit int

	snippetsLang       string
	snippetsDifficulty string
	snippetsLimit      int
	snippetsIndent     string
	snippetsForce      bool
)

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List supported languages and stored snippet counts",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	seedBuiltin(ctx, st, scorer.DefaultIndentUnit)
	counts, err := st.ListLanguages(ctx)
	if err != nil {
		return fmt.Errorf("failed to list languages: %w", err)
	}
	byLang := make(map[string]int, len(counts))
	for _, c := range counts {
		byLang[c.Language] = c.Count
	}

	t := stats.Table{
		Headers: []string{"Language", "Name", "Alias", "Snippets"},
		Right:   map[int]bool{3: true},
	}
	for _, lang := range snippet.Languages {
		t.Rows = append(t.Rows, []string{lang.Value, lang.Name, lang.ID, fmt.Sprintf("%d", byLang[lang.Value])})
		delete(byLang, lang.Value)
	}
	// Languages imported under names outside the catalogue.
	for _, c := range counts {
		if _, ok := byLang[c.Language]; ok {
			t.Rows = append(t.Rows, []string{c.Language, "-", "-", fmt.Sprintf("%d", c.Count)})
		}
	}
	if err := t.Write(cmd.OutOrStdout(), ""); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N results")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print the report to stdout instead of opening the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	lang := strings.TrimSpace(statsLang)
	if lang != "" {
		lang = snippet.NormalizeLanguage(lang)
	}

	cfg := model.StatsConfig{
		User:        rootUser,
		Lang:        lang,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if statsPlain {
		report, err := stats.BuildReport(context.Background(), st, cfg, time.Now())
		if err != nil {
			return err
		}
		if err := stats.RenderReport(cmd.OutOrStdout(), report, cfg.CurveWindow, 0, false); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	logger := openLogger()
	defer syncLogger(logger)

	model := statsui.NewModel(st, cfg, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent results",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLimit, "limit", defaultHistory, "number of results to show")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLimit <= 0 {
		return fmt.Errorf("--limit must be > 0")
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	records, err := st.RecentResults(context.Background(), rootUser, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}
	if len(records) == 0 {
		logErrln("No results yet. Start practicing with: codetype")
		return nil
	}
	if err := stats.RecentTable(records).Write(cmd.OutOrStdout(), ""); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newSnippetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snippets",
		Short: "Manage practice snippets",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored snippets, newest first",
		Args:  cobra.NoArgs,
		RunE:  runSnippetsListCmd,
	}
	list.Flags().StringVar(&snippetsLang, "lang", "", "language filter")
	list.Flags().StringVar(&snippetsDifficulty, "difficulty", "", "difficulty filter")
	list.Flags().IntVar(&snippetsLimit, "limit", 0, "maximum number of snippets (0: all)")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one snippet",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnippetsShowCmd,
	}

	importCmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Import a YAML pack, a source file or a directory of source files",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnippetsImportCmd,
	}
	importCmd.Flags().StringVar(&snippetsIndent, "indent-unit", defaultIndent, "indentation that leading tabs are expanded to")

	seed := &cobra.Command{
		Use:   "seed",
		Short: "Store the builtin snippets",
		Args:  cobra.NoArgs,
		RunE:  runSnippetsSeedCmd,
	}
	seed.Flags().BoolVar(&snippetsForce, "force", false, "rewrite builtin snippets even when snippets exist")
	seed.Flags().StringVar(&snippetsIndent, "indent-unit", defaultIndent, "indentation that leading tabs are expanded to")

	cmd.AddCommand(list, show, importCmd, seed)
	return cmd
}

func runSnippetsListCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	filter := model.SnippetFilter{
		Difficulty: strings.ToLower(strings.TrimSpace(snippetsDifficulty)),
		Limit:      snippetsLimit,
	}
	if lang := strings.TrimSpace(snippetsLang); lang != "" {
		filter.Language = snippet.NormalizeLanguage(lang)
	}
	snippets, err := st.ListSnippets(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("failed to list snippets: %w", err)
	}
	if len(snippets) == 0 {
		logErrln("No snippets found. Import with: codetype snippets import <path>")
		return nil
	}
	t := stats.Table{
		Headers: []string{"ID", "Language", "Difficulty", "Lines", "Title"},
		Right:   map[int]bool{3: true},
	}
	for _, sn := range snippets {
		lines := strings.Count(sn.Code, "\n") + 1
		t.Rows = append(t.Rows, []string{sn.ID, sn.Language, sn.Difficulty, fmt.Sprintf("%d", lines), sn.Title})
	}
	if err := t.Write(cmd.OutOrStdout(), ""); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runSnippetsShowCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	sn, err := st.GetSnippet(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load snippet: %w", err)
	}
	header := fmt.Sprintf("%s (%s, %s)", sn.Title, sn.Language, sn.Difficulty)
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", header, sn.Code); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runSnippetsImportCmd(cmd *cobra.Command, args []string) error {
	indentUnit, err := parseIndentUnit(snippetsIndent)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	imported, err := snippet.Import(context.Background(), st, args[0], indentUnit)
	if err != nil {
		return err
	}
	for _, sn := range imported {
		logErrf("Imported %s (%s, %s)\n", sn.ID, sn.Language, sn.Difficulty)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d snippet(s)\n", len(imported)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runSnippetsSeedCmd(cmd *cobra.Command, _ []string) error {
	indentUnit, err := parseIndentUnit(snippetsIndent)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	n, err := snippet.Seed(context.Background(), st, indentUnit, snippetsForce)
	if err != nil {
		return err
	}
	if n == 0 {
		logErrln("Snippets already present; use --force to rewrite the builtin ones")
		return nil
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Stored %d builtin snippet(s)\n", n); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change display and practice preferences",
	}
	show := &cobra.Command{
		Use:   "show",
		Short: "Print preferences",
		Args:  cobra.NoArgs,
		RunE:  runPrefsShowCmd,
	}
	set := &cobra.Command{
		Use:   "set key=value...",
		Short: "Change preferences (keys: " + strings.Join(prefs.Keys(), ", ") + ")",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runPrefsSetCmd,
	}
	cmd.AddCommand(show, set)
	return cmd
}

func runPrefsShowCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	p, stored, err := st.GetPreferences(context.Background(), rootUser)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}
	if !stored {
		logErrf("No preferences stored for %s; showing defaults\n", rootUser)
	}
	return writePrefs(cmd, p)
}

func runPrefsSetCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	p, _, err := st.GetPreferences(ctx, rootUser)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}
	for _, arg := range args {
		key, value, err := prefs.ParseAssignment(arg)
		if err != nil {
			return err
		}
		if p, err = prefs.Set(p, key, value); err != nil {
			return err
		}
	}
	if err := st.SavePreferences(ctx, rootUser, p); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return writePrefs(cmd, p)
}

func writePrefs(cmd *cobra.Command, p model.Preferences) error {
	for _, line := range prefs.Lines(p) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
