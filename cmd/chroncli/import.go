package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"chroncli/internal/importer"

	"github.com/spf13/cobra"
)

// previewLimit caps the tasks listed by a dry run.
const previewLimit = 20

func newImportCmd(opts *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import FORMAT FILE",
		Short: "Import tasks from another tool",
		Long: fmt.Sprintf(`Add tasks from an export file to the task list.

Supported formats: %s. Entries without a name or a start time are
skipped and reported.`, strings.Join(importer.SupportedFormats(), ", ")),
		Example: `  chroncli import ics calendar.ics
  task export | chroncli import taskwarrior - --dry-run`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			imp := importer.GetImporter(args[0])
			if imp == nil {
				return fmt.Errorf("unknown format %q (supported: %s)", args[0], strings.Join(importer.SupportedFormats(), ", "))
			}

			in := cmd.InOrStdin()
			if args[1] != "-" {
				f, err := os.Open(args[1])
				if err != nil {
					return fmt.Errorf("open file: %w", err)
				}
				defer f.Close()
				in = f
			}
			out := cmd.OutOrStdout()

			if dryRun {
				p, err := imp.Preview(in)
				if err != nil {
					return fmt.Errorf("parse %s: %w", imp.Name(), err)
				}
				fmt.Fprintf(out, "Preview: %d tasks to import\n", len(p.Tasks))
				for i, t := range p.Tasks {
					if i == previewLimit {
						fmt.Fprintf(out, "  ... and %d more\n", len(p.Tasks)-previewLimit)
						break
					}
					fmt.Fprintf(out, "  %s  %s\n", t.Start.Format("2006-01-02 15:04"), t.Name)
				}
				printSkipped(out, p.Skipped, p.Errors)
				fmt.Fprintln(out, "\nRun without --dry-run to import.")
				return nil
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			store, _, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			res, err := importer.Import(imp, in, store)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Imported %d tasks from %s\n", res.Imported, imp.Name())
			printSkipped(out, res.Skipped, res.Errors)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be imported without saving")
	return cmd
}

func printSkipped(out io.Writer, skipped int, errs []string) {
	if skipped == 0 {
		return
	}
	fmt.Fprintf(out, "Skipped %d entries:\n", skipped)
	for _, e := range errs {
		fmt.Fprintf(out, "  - %s\n", e)
	}
}
