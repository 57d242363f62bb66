package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chrononame/internal/workflow"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var dirFlag string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what rename would do without touching any file",
		Args:  cobra.NoArgs,
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

			report, err := workflow.NewRunner(cfg, logger).Plan(cmd.Context(), dir)
			if err != nil {
				return err
			}

			var collisionErr error
			if report.Aborted() {
				collisionErr = fmt.Errorf("%w: %d pair(s); rename would abort", workflow.ErrCollisions, len(report.Collisions))
			}
			if jsonOutput {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
				return collisionErr
			}

			out := cmd.OutOrStdout()
			printBanner(out)
			fmt.Fprintf(out, "Directory: %s\n", report.Directory)
			if len(report.Entries) == 0 {
				fmt.Fprintln(out, "No files to rename")
			} else {
				fmt.Fprintln(out, planTable(report.Entries))
			}
			if report.NeedsConfirmation() {
				fmt.Fprintf(out, "\nSkipped (%d), confirmation will be required:\n", len(report.Warnings))
				fmt.Fprintln(out, warningsTable(report.Warnings))
			}
			if report.Aborted() {
				fmt.Fprintf(out, "\nCollisions (%d):\n", len(report.Collisions))
				fmt.Fprintln(out, collisionsTable(report.Collisions))
			}
			return collisionErr
		},
	}

	cmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "Directory to inspect (defaults to the working directory)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the plan as JSON")
	return cmd
}
