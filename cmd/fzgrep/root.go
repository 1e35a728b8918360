package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fzgrep/fzgrep/internal/clipboard"
	"github.com/fzgrep/fzgrep/internal/config"
	"github.com/fzgrep/fzgrep/internal/logging"
	"github.com/fzgrep/fzgrep/internal/platform"
	"github.com/fzgrep/fzgrep/internal/search"
	"github.com/fzgrep/fzgrep/internal/ui"
)

var errNotTerminal = errors.New("stdout is not a terminal; use 'fzgrep list', 'fzgrep find' or 'fzgrep grep' instead")

var (
	rootDir     string
	rootPattern string

	// appConfig is loaded once per invocation by loadConfig.
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "fzgrep",
	Short: "Fuzzy file finder and content search for the terminal",
	Long: `fzgrep lists every file under a directory and lets you narrow them down
with a fuzzy filename query as you type. Press Tab to switch to content
search, which greps every file for the query when you press Enter.

Files ignored by .gitignore, .ignore and .git/info/exclude are skipped.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	PersistentPostRun: func(*cobra.Command, []string) { logging.Shutdown() },
	RunE:              runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootDir, "directory", "d", ".", "directory to search")
	rootCmd.Flags().StringVarP(&rootPattern, "pattern", "p", "", "initial filename query")
}

// loadConfig reads the user config and starts logging. A broken config file
// is reported and the defaults are used.
func loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		cmd.PrintErrf("warning: %v\n", err)
	}
	appConfig = cfg

	dir, dirErr := config.Dir()
	if dirErr == nil && cfg.Debug {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			cmd.PrintErrf("warning: cannot create %s: %v\n", dir, err)
			dir = ""
		}
	}
	logging.Init(cfg.LogConfig(dir))
	log.SetOutput(logging.NewBridgeWriter(logging.CompCLI))
	if dir != "" {
		watchDumpSignal(dir)
	}

	logging.ForComponent(logging.CompCLI).Info("start",
		"version", version,
		"command", cmd.Name(),
		"root", rootDir)
	return nil
}

func newEngine() (*search.Engine, error) {
	engine, err := search.New(rootDir, appConfig.SearchOptions())
	if err != nil {
		return nil, fmt.Errorf("cannot search %s: %w", rootDir, err)
	}
	return engine, nil
}

// slowRootNotice warns when the root is on a network mount, where every
// refresh is a full remote walk.
func slowRootNotice(engine *search.Engine) string {
	kind := platform.SlowFilesystem(engine.Root())
	if kind == "" {
		return ""
	}
	logging.ForComponent(logging.CompCLI).Warn("slow_filesystem", "root", engine.Root(), "kind", kind)
	return fmt.Sprintf("%s is on a %s; walks and greps will be slow", engine.Root(), kind)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}
	engine, err := newEngine()
	if err != nil {
		return err
	}

	initColorProfile()
	home := ui.NewHome(cmd.Context(), engine, ui.Options{
		PageSize:     appConfig.UI.PageSize,
		Debounce:     appConfig.UI.Debounce,
		TickInterval: appConfig.UI.TickInterval,
		Theme:        ui.Theme(appConfig.ResolveTheme()),
		InitialQuery: rootPattern,
		Notice:       slowRootNotice(engine),
		Clipboard:    clipboard.System{OSC52: true},
	})

	p := tea.NewProgram(home, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
