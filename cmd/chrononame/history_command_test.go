package main

import (
	"encoding/json"
	"errors"
	"testing"

	"chrononame/internal/history"
	"chrononame/internal/testsupport"
)

func TestHistoryCommandListsAndShowsRuns(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFile(t, env.path("c.mov"), 32)
	if _, _, err := runCLI(t, []string{"rename", "--dir", env.workDir}, env.configPath, ""); err != nil {
		t.Fatalf("rename: %v", err)
	}

	out, _, err := runCLI(t, []string{"history"}, env.configPath, "")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, history.StatusCompleted)
	requireContains(t, out, env.workDir)

	out, _, err = runCLI(t, []string{"history", "--json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("history --json: %v", err)
	}
	var runs []history.Run
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode runs: %v\n%s", err, out)
	}
	if len(runs) != 1 || runs[0].Renamed != 1 {
		t.Fatalf("unexpected runs: %#v", runs)
	}

	out, _, err = runCLI(t, []string{"history", "show", runs[0].ID[:8]}, env.configPath, "")
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, "2023-05-14_21-34-06 (utc).mov")
	requireContains(t, out, "renamed")
}

func TestHistoryCommandDisabled(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistoryDisabled())

	_, _, err := runCLI(t, []string{"history"}, env.configPath, "")
	if !errors.Is(err, errHistoryDisabled) {
		t.Fatalf("expected errHistoryDisabled, got %v", err)
	}
}

func TestHistoryShowUnknownRun(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"history", "show", "missing"}, env.configPath, "")
	if !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
