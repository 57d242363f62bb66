package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"chrononame/internal/config"
	"chrononame/internal/deps"
	"chrononame/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var dirFlag string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check external tools and directory access",
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

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			results := preflight.RunAll(cfg, dir)
			for _, line := range checkLines(cmd.Context(), cfg, results, colorize) {
				fmt.Fprintln(out, line)
			}
			for _, result := range results {
				if !result.Passed {
					return fmt.Errorf("%s not usable", strings.ToLower(result.Name))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "Directory to check (defaults to the working directory)")
	return cmd
}

func checkLines(ctx context.Context, cfg *config.Config, results []preflight.Result, colorize bool) []string {
	var lines []string
	lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
	lines = append(lines, dependencyLines(ctx, preflight.CheckSystemDeps(cfg), colorize)...)

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Directories", colorize)...)
	for _, result := range results {
		kind := statusOK
		if !result.Passed {
			kind = statusError
		}
		lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
	}

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Settings", colorize)...)
	lines = append(lines,
		renderStatusLine("History journal", statusInfo, yesNo(cfg.History.Enabled), colorize),
		renderStatusLine("Assume yes", statusInfo, yesNo(cfg.Rename.AssumeYes), colorize),
		renderStatusLine("Log format", statusInfo, cfg.Logging.Format, colorize),
	)
	return lines
}

func dependencyLines(ctx context.Context, statuses []deps.Status, colorize bool) []string {
	lines := make([]string, 0, len(statuses))
	for _, dep := range statuses {
		if dep.Available {
			message := "Ready"
			if dep.Command != "" {
				message = fmt.Sprintf("Ready (command: %s)", dep.Command)
			}
			if dep.Name == deps.ExifTool("").Name {
				if version, err := deps.ExifToolVersion(ctx, dep.Command); err == nil {
					message = fmt.Sprintf("Ready (command: %s, version %s)", dep.Command, version)
				}
			}
			lines = append(lines, renderStatusLine(dep.Name, statusOK, message, colorize))
			continue
		}

		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		kind := statusError
		if dep.Optional {
			kind = statusWarn
			detail += "; only embedded EXIF timestamps will resolve"
		}
		lines = append(lines, renderStatusLine(dep.Name, kind, detail, colorize))
	}
	return lines
}
