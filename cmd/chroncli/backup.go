package main

import (
	"fmt"
	"io"
	"time"

	"chroncli/internal/backup"

	"github.com/spf13/cobra"
)

func newBackupCmd(opts *rootOptions) *cobra.Command {
	var (
		list bool
		keep int
	)

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create a backup of the task file",
		Long: `Create a timestamped copy of tasks.json under <data_dir>/backups.

With --list, show the available backups instead. With --prune N, keep only
the N newest backups after creating this one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			mgr := backup.NewManager(cfg.TasksPath(), cfg.BackupDir(), version)
			out := cmd.OutOrStdout()

			if list {
				backups, err := mgr.List()
				if err != nil {
					return fmt.Errorf("list backups: %w", err)
				}
				printBackups(out, backups, time.Now())
				return nil
			}

			name, err := mgr.Create()
			if err != nil {
				return fmt.Errorf("create backup: %w", err)
			}
			info, err := mgr.Get(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Backup created: %s\n", name)
			if info.Empty {
				fmt.Fprintln(out, "  No task file yet; restoring this backup empties the list.")
			} else {
				fmt.Fprintf(out, "  Tasks: %d (%d completed)\n", info.Tasks, info.Completed)
			}
			fmt.Fprintf(out, "  Location: %s\n", info.Path)

			if cmd.Flags().Changed("prune") {
				deleted, err := mgr.Prune(keep)
				if err != nil {
					return fmt.Errorf("prune backups: %w", err)
				}
				if deleted > 0 {
					fmt.Fprintf(out, "  Pruned %d old backup(s)\n", deleted)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list available backups")
	cmd.Flags().IntVar(&keep, "prune", 0, "keep only the N newest backups")
	return cmd
}

func printBackups(out io.Writer, backups []backup.Info, now time.Time) {
	if len(backups) == 0 {
		fmt.Fprintln(out, "No backups available.")
		return
	}
	fmt.Fprintln(out, "Available backups:")
	for _, b := range backups {
		counts := fmt.Sprintf("%d tasks, %d completed", b.Tasks, b.Completed)
		if b.Empty {
			counts = "empty"
		}
		fmt.Fprintf(out, "  %s  (%s, %s)\n", b.Name, formatAge(now.Sub(b.CreatedAt)), counts)
	}
}

// formatAge renders a duration as a rough human age.
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour") + " ago"
	default:
		return plural(int(d.Hours()/24), "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
