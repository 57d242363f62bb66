package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"chrononame/internal/confirm"
	"chrononame/internal/renamer"
	"chrononame/internal/workflow"
)

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var dirFlag string
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename every media file in a directory after its capture time",
		Long: strings.TrimSpace(`
Resolves a capture timestamp for each file in the directory (embedded EXIF
DateTimeOriginal, then exiftool CreationDate, then CreateDate) and renames it
to YYYY-MM-DD_HH-MM-SS.<ext>. Names derived from CreateDate carry " (utc)".
Nothing is renamed if two files resolve to the same timestamp.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir, err := targetDir(dirFlag)
			if err != nil {
				return err
			}
			logger, closeLog, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()
			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()
			printBanner(out)

			var gate confirm.Gate = confirm.Prompt{In: cmd.InOrStdin(), Out: out, Render: renderWarnings}
			if assumeYes || cfg.Rename.AssumeYes {
				gate = confirm.AssumeYes{}
			}
			opts := []workflow.Option{workflow.WithGate(gate)}

			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
				opts = append(opts, workflow.WithRecorder(store))
			}

			report, err := workflow.NewRunner(cfg, logger, opts...).Run(cmd.Context(), dir)
			switch {
			case errors.Is(err, workflow.ErrDeclined):
				fmt.Fprintln(out, "Exiting...")
				return nil
			case errors.Is(err, workflow.ErrCollisions):
				fmt.Fprintln(errOut, "Timestamp collisions found; nothing was renamed:")
				fmt.Fprintln(errOut, collisionsTable(report.Collisions))
				return err
			}
			if report != nil {
				printOutcomes(cmd, report.Outcomes)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "Directory to rename (defaults to the working directory)")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Proceed without asking when files were skipped")
	return cmd
}

func printOutcomes(cmd *cobra.Command, outcomes []renamer.Outcome) {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	for _, o := range outcomes {
		switch o.Status {
		case renamer.StatusRenamed:
			fmt.Fprintf(out, "Renaming success for %s to timestamp %s\n", o.Entry.Source.Name, o.Entry.Target)
		case renamer.StatusSkipped:
			fmt.Fprintf(out, "Already named %s\n", o.Entry.Source.Name)
		case renamer.StatusFailed:
			fmt.Fprintf(errOut, "Renaming failed for %s: %v\n", o.Entry.Source.Name, o.Err)
		}
	}
	renamed, skipped, failed := renamer.Counts(outcomes)
	fmt.Fprintf(out, "Renamed %d, unchanged %d, failed %d\n", renamed, skipped, failed)
}
