package main

import (
	"fmt"
	"strings"
	"time"

	"chroncli/internal/fsutil"
	"chroncli/internal/reports"

	"github.com/spf13/cobra"
)

const monthLayout = "2006-01"

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		month  string
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a month of tasks",
		Long: `Export the tasks of one month as a markdown report, JSON or an iCalendar
file. The month defaults to the current one.`,
		Example: `  chroncli export --month 2024-02
  chroncli export --format ics --output february.ics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			year, mon := now.Year(), now.Month()
			if month != "" {
				t, err := time.Parse(monthLayout, month)
				if err != nil {
					return fmt.Errorf("invalid month %q, want YYYY-MM", month)
				}
				year, mon = t.Year(), t.Month()
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			store, _, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			gen := reports.NewGenerator(store)

			var data []byte
			switch strings.ToLower(format) {
			case "markdown", "md":
				data = []byte(reports.FormatMonthMarkdown(gen.GenerateMonth(year, mon)))
			case "json":
				if data, err = reports.FormatMonthJSON(gen.GenerateMonth(year, mon)); err != nil {
					return fmt.Errorf("format json: %w", err)
				}
			case "ics", "ical":
				data = []byte(reports.FormatICS(gen.MonthTasks(year, mon), now))
			default:
				return fmt.Errorf("unknown format %q (use markdown, json or ics)", format)
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := fsutil.WriteFileAtomic(output, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %s %d to %s\n", mon, year, output)
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month to export (YYYY-MM)")
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "output format: markdown, json or ics")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}
