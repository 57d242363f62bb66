package plan_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"chrononame/internal/metadata"
	"chrononame/internal/plan"
	"chrononame/internal/scan"
)

func entry(path string, ts metadata.Timestamp) plan.Entry {
	file := scan.NewSourceFile(path)
	target := string(ts)
	if file.Ext != "" {
		target += "." + file.Ext
	}
	return plan.Entry{Source: file, Timestamp: ts, Target: target, Origin: "test"}
}

func TestInsertKeepsKeyOrder(t *testing.T) {
	p := plan.New()
	for _, e := range []plan.Entry{
		entry("/d/c.jpg", "2023-05-25_19-47-30"),
		entry("/d/a.jpg", "2021-01-01_08-00-00"),
		entry("/d/b.jpg", "2022-12-31_23-59-59"),
	} {
		if err := p.Insert(e); err != nil {
			t.Fatalf("Insert(%s): %v", e.Source.Path, err)
		}
	}

	got := p.Entries()
	want := []string{"/d/a.jpg", "/d/b.jpg", "/d/c.jpg"}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Source.Path != want[i] {
			t.Fatalf("entry %d = %s, want %s", i, got[i].Source.Path, want[i])
		}
	}
}

func TestInsertDuplicateNeverOverwrites(t *testing.T) {
	p := plan.New()
	first := entry("/d/a.jpg", "2023-05-25_19-47-30")
	second := entry("/d/b.heic", "2023-05-25_19-47-30")
	if err := p.Insert(first); err != nil {
		t.Fatalf("Insert first: %v", err)
	}

	err := p.Insert(second)
	var collision *plan.CollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("expected *CollisionError, got %v", err)
	}
	if collision.Existing.Source.Path != "/d/a.jpg" || collision.Incoming.Source.Path != "/d/b.heic" {
		t.Fatalf("unexpected collision: %#v", collision.Collision)
	}
	for _, path := range []string{"/d/a.jpg", "/d/b.heic"} {
		if !strings.Contains(err.Error(), path) {
			t.Fatalf("expected %s in %q", path, err.Error())
		}
	}

	stored, ok := p.Get("2023-05-25_19-47-30")
	if !ok || stored.Source.Path != "/d/a.jpg" {
		t.Fatalf("expected original entry retained, got %#v", stored)
	}
	if p.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", p.Len())
	}
}

func TestBuilderReportsEveryCollision(t *testing.T) {
	b := plan.NewBuilder()
	inputs := []plan.Entry{
		entry("/d/a.jpg", "2023-05-25_19-47-30"),
		entry("/d/b.heic", "2023-05-25_19-47-30"),
		entry("/d/c.jpg", "2020-02-02_02-02-02"),
		entry("/d/d.mov", "2020-02-02_02-02-02"),
		entry("/d/e.png", "2023-05-25_19-47-30"),
	}
	for _, e := range inputs {
		_ = b.Add(e)
	}

	if !b.Aborted() {
		t.Fatal("expected builder to be aborted")
	}
	_, collisions := b.Result()
	if len(collisions) != 3 {
		t.Fatalf("expected 3 collisions, got %d", len(collisions))
	}
	if collisions[1].Existing.Source.Path != "/d/c.jpg" || collisions[1].Incoming.Source.Path != "/d/d.mov" {
		t.Fatalf("unexpected second collision: %#v", collisions[1])
	}
	if collisions[2].Existing.Source.Path != "/d/a.jpg" || collisions[2].Incoming.Source.Path != "/d/e.png" {
		t.Fatalf("unexpected third collision: %#v", collisions[2])
	}
}

func TestBuilderCleanBatch(t *testing.T) {
	b := plan.NewBuilder()
	if err := b.Add(entry("/d/a.jpg", "2023-05-25_19-47-30")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if b.Aborted() {
		t.Fatal("expected clean builder")
	}
	p, collisions := b.Result()
	if len(collisions) != 0 || p.Len() != 1 {
		t.Fatalf("unexpected result: %d entries, %d collisions", p.Len(), len(collisions))
	}
}

func TestEntryHelpers(t *testing.T) {
	e := entry("/d/IMG_1.JPG", "2023-05-25_19-47-30")
	if e.TargetPath() != "/d/2023-05-25_19-47-30.jpg" {
		t.Fatalf("unexpected target path %q", e.TargetPath())
	}
	if e.AlreadyNamed() {
		t.Fatal("expected rename needed")
	}
	named := entry("/d/2023-05-25_19-47-30.jpg", "2023-05-25_19-47-30")
	if !named.AlreadyNamed() {
		t.Fatal("expected already named")
	}
}

func TestPlanMarshalsAsOrderedList(t *testing.T) {
	p := plan.New()
	_ = p.Insert(entry("/d/b.jpg", "2023-01-02_00-00-00"))
	_ = p.Insert(entry("/d/a.jpg", "2023-01-01_00-00-00"))

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded []plan.Entry
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Source.Path != "/d/a.jpg" {
		t.Fatalf("unexpected JSON order: %s", data)
	}
}
