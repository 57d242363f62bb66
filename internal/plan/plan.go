package plan

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"

	"chrononame/internal/metadata"
	"chrononame/internal/resolver"
	"chrononame/internal/scan"
)

// Entry pairs a source file with the name it will be given.
type Entry struct {
	Source    scan.SourceFile    `json:"source"`
	Timestamp metadata.Timestamp `json:"timestamp"`
	Target    string             `json:"target"`
	Origin    string             `json:"origin"`
	Ambiguous bool               `json:"ambiguous"`
}

// FromResolution converts a resolver result into a plan entry.
func FromResolution(res resolver.Resolution) Entry {
	return Entry{
		Source:    res.File,
		Timestamp: res.Timestamp,
		Target:    res.Target,
		Origin:    res.Source,
		Ambiguous: res.Ambiguous,
	}
}

// TargetPath is the destination path, in the source file's directory.
func (e Entry) TargetPath() string {
	return filepath.Join(filepath.Dir(e.Source.Path), e.Target)
}

// AlreadyNamed reports whether the source already carries its target name.
func (e Entry) AlreadyNamed() bool {
	return e.Source.Name == e.Target
}

// Collision names the two files that resolved to the same timestamp.
type Collision struct {
	Timestamp metadata.Timestamp `json:"timestamp"`
	Existing  Entry              `json:"existing"`
	Incoming  Entry              `json:"incoming"`
}

// CollisionError is returned by Plan.Insert for a duplicate timestamp.
type CollisionError struct {
	Collision
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("timestamp %s collides: %s and %s", e.Timestamp, e.Existing.Source.Path, e.Incoming.Source.Path)
}

// Plan is a map from timestamp to entry that iterates in key order. Keys use
// the fixed-width canonical format, so lexical order is chronological order.
type Plan struct {
	entries map[metadata.Timestamp]Entry
	keys    []metadata.Timestamp
}

// New returns an empty plan.
func New() *Plan {
	return &Plan{entries: make(map[metadata.Timestamp]Entry)}
}

// Insert adds entry under its timestamp. An occupied key is left untouched and
// a *CollisionError is returned.
func (p *Plan) Insert(entry Entry) error {
	if existing, ok := p.entries[entry.Timestamp]; ok {
		return &CollisionError{Collision{
			Timestamp: entry.Timestamp,
			Existing:  existing,
			Incoming:  entry,
		}}
	}
	idx, _ := slices.BinarySearch(p.keys, entry.Timestamp)
	p.keys = slices.Insert(p.keys, idx, entry.Timestamp)
	p.entries[entry.Timestamp] = entry
	return nil
}

// Get returns the entry stored under ts.
func (p *Plan) Get(ts metadata.Timestamp) (Entry, bool) {
	entry, ok := p.entries[ts]
	return entry, ok
}

func (p *Plan) Len() int {
	return len(p.keys)
}

// Entries returns a copy of the entries in timestamp order.
func (p *Plan) Entries() []Entry {
	out := make([]Entry, 0, len(p.keys))
	for _, key := range p.keys {
		out = append(out, p.entries[key])
	}
	return out
}

func (p *Plan) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Entries())
}
