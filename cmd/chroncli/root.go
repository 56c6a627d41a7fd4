package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"chroncli/internal/config"
	"chroncli/internal/fsutil"
	"chroncli/internal/storage"
	"chroncli/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// Version information, set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// debugEnv enables the debug log in <data_dir>/debug.log when non-empty.
const debugEnv = "CHRONCLI_DEBUG"

// rootOptions are the flags shared by every command.
type rootOptions struct {
	dataDir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "chroncli",
		Short: "A terminal calendar and task scheduler",
		Long: `chroncli shows a task list next to a month calendar in your terminal.

Tasks live in a single JSON file in the data directory (~/.chroncli by
default). Press 'a' to add a task, 'd' to delete, space to toggle it done,
'p'/'n' to change month and 'q' to quit.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf("chroncli version %s\n  commit: %s\n  built:  %s\n", version, commit, date))
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "override the data directory")

	cmd.AddCommand(
		newBackupCmd(opts),
		newRestoreCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}

// execute runs the CLI and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig reads the config file and applies flag overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	return cfg, nil
}

// openStore loads the task store. A load warning is printed to stderr and
// returned so the TUI can show it too; the store is usable either way.
func openStore(cmd *cobra.Command, cfg *config.Config) (*storage.Store, string, error) {
	if err := os.MkdirAll(cfg.GetDataDir(), fsutil.DirPerm); err != nil {
		return nil, "", fmt.Errorf("create data directory: %w", err)
	}
	store, err := storage.Open(cfg.TasksPath())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		log.Printf("load: %v", err)
		return store, err.Error(), nil
	}
	return store, "", nil
}

// setupLogging sends the standard logger to the debug log when enabled and
// discards it otherwise, since the TUI owns the terminal.
func setupLogging(cfg *config.Config) (func(), error) {
	if os.Getenv(debugEnv) == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile(filepath.Join(cfg.GetDataDir(), "debug.log"), "chroncli")
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}
	return func() { _ = f.Close() }, nil
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.GetDataDir(), fsutil.DirPerm); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	log.Printf("chroncli %s starting, data dir %s", version, cfg.GetDataDir())

	store, notice, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}

	appCfg := ui.NewAppConfig(cfg)
	appCfg.Notice = notice
	if err := ui.Run(store, ui.NewStylesFromTheme(&cfg.Theme), appCfg); err != nil {
		return err
	}
	log.Printf("chroncli exiting")
	return nil
}
