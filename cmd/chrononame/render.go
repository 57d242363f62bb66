package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"chrononame/internal/confirm"
	"chrononame/internal/history"
	"chrononame/internal/plan"
)

// detailWidth wraps error text so tables stay readable in a terminal.
const detailWidth = 60

func planTable(entries []plan.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		target := e.Target
		if e.AlreadyNamed() {
			target += " (unchanged)"
		}
		rows = append(rows, []string{e.Source.Name, target, e.Origin})
	}
	return renderTable([]column{{Header: "Current"}, {Header: "Target"}, {Header: "Source"}}, rows)
}

func warningsTable(warnings []confirm.Warning) string {
	rows := make([][]string, 0, len(warnings))
	for _, w := range warnings {
		rows = append(rows, []string{filepath.Base(w.Path), w.Kind, w.Detail})
	}
	return renderTable([]column{{Header: "File"}, {Header: "Kind"}, {Header: "Detail", MaxWidth: detailWidth}}, rows)
}

// renderWarnings satisfies confirm.Prompt.Render.
func renderWarnings(w io.Writer, warnings []confirm.Warning) {
	fmt.Fprintf(w, "%d file(s) will be left untouched:\n", len(warnings))
	fmt.Fprintln(w, warningsTable(warnings))
}

func collisionsTable(collisions []plan.Collision) string {
	rows := make([][]string, 0, len(collisions))
	for _, c := range collisions {
		rows = append(rows, []string{string(c.Timestamp), c.Existing.Source.Path, c.Incoming.Source.Path})
	}
	return renderTable([]column{{Header: "Timestamp"}, {Header: "File"}, {Header: "Collides with"}}, rows)
}

func runsTable(runs []history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			shortID(r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Status,
			strconv.Itoa(r.Renamed),
			strconv.Itoa(r.Failed),
			strconv.Itoa(r.Warnings),
			r.Directory,
		})
	}
	return renderTable([]column{
		{Header: "Run"},
		{Header: "Started"},
		{Header: "Status"},
		{Header: "Renamed", Numeric: true},
		{Header: "Failed", Numeric: true},
		{Header: "Warnings", Numeric: true},
		{Header: "Directory"},
	}, rows)
}

func renamesTable(renames []history.Rename) string {
	rows := make([][]string, 0, len(renames))
	for _, r := range renames {
		rows = append(rows, []string{filepath.Base(r.Source), r.Target, r.Status, r.Error})
	}
	return renderTable([]column{{Header: "Source"}, {Header: "Target"}, {Header: "Status"}, {Header: "Error", MaxWidth: detailWidth}}, rows)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
