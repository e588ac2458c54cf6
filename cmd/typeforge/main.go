// Package main provides the CLI entrypoint for typeforge.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/aldenmoor/typeforge/internal/config"
	"github.com/aldenmoor/typeforge/internal/lexer"
	"github.com/aldenmoor/typeforge/internal/model"
	"github.com/aldenmoor/typeforge/internal/normalize"
	"github.com/aldenmoor/typeforge/internal/segment"
	"github.com/aldenmoor/typeforge/internal/source"
	"github.com/aldenmoor/typeforge/internal/stats"
	"github.com/aldenmoor/typeforge/internal/statsui"
	"github.com/aldenmoor/typeforge/internal/store"
	"github.com/aldenmoor/typeforge/internal/tui"
)

const defaultCurveWindow = 20

var (
	flagLinesPerSegment        int
	flagTabWidth               int
	flagSlack                  int
	flagMaxSegmentChars        int
	flagIncludeComments        bool
	flagSkipLeadingIndentation bool
	flagTrimTrailingWhitespace bool
	flagAutoSkipBlankLines     bool
	flagAllowWhitespaceAdvance bool

	statsFile        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsChars       string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typeforge",
		Short:         "TUI source-code typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newPracticeCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newFilesCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func newPracticeCmd() *cobra.Command {
	defaults := config.HardDefaults()
	cmd := &cobra.Command{
		Use:   "practice <file>",
		Short: "Practice typing a source file",
		Args:  cobra.ExactArgs(1),
		RunE:  runPracticeCmd,
	}
	cmd.Flags().IntVar(&flagLinesPerSegment, "lines-per-segment", defaults.LinesPerSegment, "lines per practice segment")
	cmd.Flags().IntVar(&flagTabWidth, "tab-width", defaults.TabWidth, "columns a tab expands to")
	cmd.Flags().IntVar(&flagSlack, "slack", defaults.SlackN, "characters of lookahead slack before locking on error")
	cmd.Flags().IntVar(&flagMaxSegmentChars, "max-segment-chars", defaults.MaxSegmentChars, "maximum characters per segment")
	cmd.Flags().BoolVar(&flagIncludeComments, "include-comments", defaults.IncludeComments, "require comments to be typed instead of skipping them")
	cmd.Flags().BoolVar(&flagSkipLeadingIndentation, "skip-leading-indentation", defaults.SkipLeadingIndentation, "auto-advance over each line's leading indentation")
	cmd.Flags().BoolVar(&flagTrimTrailingWhitespace, "trim-trailing-whitespace", defaults.TrimTrailingWhitespace, "auto-advance over trailing whitespace on each line")
	cmd.Flags().BoolVar(&flagAutoSkipBlankLines, "auto-skip-blank-lines", defaults.AutoSkipBlankLines, "auto-advance over blank lines")
	cmd.Flags().BoolVar(&flagAllowWhitespaceAdvance, "allow-whitespace-advance", defaults.AllowWhitespaceAdvance, "accept a space keypress where a newline is expected")
	return cmd
}

func runPracticeCmd(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	settings := mergePracticeSettings(cmd, fileCfg.Practice)
	cfg := config.Resolve(settings)

	text, err := source.Load(filePath)
	if err != nil {
		return fmt.Errorf("failed to load source file: %w", err)
	}
	normalized := normalize.Normalize(text, cfg.TabWidth)
	commentRanges := lexer.ParseCommentRanges(normalized, filePath)
	segments := segment.Split(normalized, cfg.LinesPerSegment, cfg.MaxSegmentChars, commentRanges)
	if len(segments) == 0 {
		return fmt.Errorf("%s has no typeable content", filePath)
	}

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	printWeakCharHint(cmd, st, filePath)

	practiceModel := tui.NewModel(cfg, st, segments, filePath)
	program := tea.NewProgram(practiceModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

const (
	weakCharHintWindow = 20
	weakCharHintCount  = 5
)

// printWeakCharHint looks at the most recent attempts against filePath and,
// if any exist, prints the characters the player has struggled with most so
// they know what to watch for in the segment ahead.
func printWeakCharHint(cmd *cobra.Command, st *store.Store, filePath string) {
	aggs, err := st.GetWeakChars(cmd.Context(), weakCharHintWindow, filePath)
	if err != nil || len(aggs) == 0 {
		return
	}
	weakSet := stats.SelectWeakChars(aggs, weakCharHintCount)
	if len(weakSet) == 0 {
		return
	}
	weak := make([]string, 0, len(weakSet))
	for r := range weakSet {
		weak = append(weak, string(r))
	}
	sort.Strings(weak)
	logErrln("Weak characters from recent attempts on this file:", strings.Join(weak, " "))
}

func mergePracticeSettings(cmd *cobra.Command, file config.PracticeSettings) config.PracticeSettings {
	merged := file
	flags := cmd.Flags()
	if flags.Changed("lines-per-segment") {
		v := flagLinesPerSegment
		merged.LinesPerSegment = &v
	}
	if flags.Changed("tab-width") {
		v := flagTabWidth
		merged.TabWidth = &v
	}
	if flags.Changed("slack") {
		v := flagSlack
		merged.Slack = &v
	}
	if flags.Changed("max-segment-chars") {
		v := flagMaxSegmentChars
		merged.MaxSegmentChars = &v
	}
	if flags.Changed("include-comments") {
		v := flagIncludeComments
		merged.IncludeComments = &v
	}
	if flags.Changed("skip-leading-indentation") {
		v := flagSkipLeadingIndentation
		merged.SkipLeadingIndentation = &v
	}
	if flags.Changed("trim-trailing-whitespace") {
		v := flagTrimTrailingWhitespace
		merged.TrimTrailingWhitespace = &v
	}
	if flags.Changed("auto-skip-blank-lines") {
		v := flagAutoSkipBlankLines
		merged.AutoSkipBlankLines = &v
	}
	if flags.Changed("allow-whitespace-advance") {
		v := flagAllowWhitespaceAdvance
		merged.AllowWhitespaceAdvance = &v
	}
	return merged
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

func defaultConfigTemplate() string {
	d := config.HardDefaults()
	return fmt.Sprintf(`# typeforge configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lines-per-segment = %d          # Lines per practice segment
# tab-width = %d                  # Columns a tab expands to
# slack = %d                      # Lookahead slack before locking on error
# max-segment-chars = %d          # Maximum characters per segment
# include-comments = %t        # Require comments to be typed instead of skipped
# skip-leading-indentation = %t # Auto-advance over each line's leading indentation
# trim-trailing-whitespace = %t  # Auto-advance over trailing whitespace
# auto-skip-blank-lines = %t    # Auto-advance over blank lines
# allow-whitespace-advance = %t # Accept space where a newline is expected
`,
		d.LinesPerSegment, d.TabWidth, d.SlackN, d.MaxSegmentChars,
		d.IncludeComments, d.SkipLeadingIndentation, d.TrimTrailingWhitespace,
		d.AutoSkipBlankLines, d.AllowWhitespaceAdvance,
	)
}

func newFilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List files with recorded practice attempts",
		Args:  cobra.NoArgs,
		RunE:  runFilesCmd,
	}
}

func runFilesCmd(cmd *cobra.Command, _ []string) error {
	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	paths, err := st.ListFilePaths(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}
	if len(paths) == 0 {
		logErrln("No attempts recorded yet. Run: typeforge practice <file>")
		return nil
	}
	sort.Strings(paths)
	for _, p := range paths {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), p); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsFile, "file", "", "file path filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N attempts")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&statsChars, "char", "", "characters for per-char curves")
	return cmd
}

func runStatsCmd(_ *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	cfg := model.StatsConfig{
		FilePath:    statsFile,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Chars:       statsChars,
	}

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	statsModel := statsui.NewModel(st, cfg)
	program := tea.NewProgram(statsModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		_ = err
	}
}
