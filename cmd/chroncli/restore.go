package main

import (
	"errors"
	"fmt"

	"chroncli/internal/backup"

	"github.com/spf13/cobra"
)

func newRestoreCmd(opts *rootOptions) *cobra.Command {
	var latest bool

	cmd := &cobra.Command{
		Use:   "restore [NAME]",
		Short: "Restore the task file from a backup",
		Long: `Replace tasks.json with the copy held in backup NAME, or in the newest
backup with --latest. The current file is backed up first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if latest == (len(args) == 1) {
				return errors.New("give either a backup name or --latest")
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			mgr := backup.NewManager(cfg.TasksPath(), cfg.BackupDir(), version)

			var restored, safety string
			if latest {
				restored, safety, err = mgr.RestoreLatest()
			} else {
				restored = args[0]
				safety, err = mgr.Restore(restored)
			}
			if err != nil {
				return fmt.Errorf("restore: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Restored from backup: %s\n", restored)
			fmt.Fprintf(out, "  Previous tasks saved as: %s\n", safety)
			return nil
		},
	}
	cmd.Flags().BoolVar(&latest, "latest", false, "restore the most recent backup")
	return cmd
}
