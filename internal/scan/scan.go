// Package scan enumerates the immediate entries of one directory.
package scan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SourceFile identifies one candidate file by path. It is never mutated after
// Discover builds it.
type SourceFile struct {
	Path string `json:"path"`
	Name string `json:"name"`
	// Ext is the lowercased extension without the leading dot; empty when the
	// name has none.
	Ext string `json:"ext,omitempty"`
}

// HasExt reports whether the file name carries an extension.
func (f SourceFile) HasExt() bool {
	return f.Ext != ""
}

// Problem records a directory entry that could not be inspected.
type Problem struct {
	Path string
	Err  error
}

func (p Problem) Error() string {
	if p.Path == "" {
		return fmt.Sprintf("unreadable directory entry: %v", p.Err)
	}
	return fmt.Sprintf("unreadable directory entry %q: %v", p.Path, p.Err)
}

func (p Problem) Unwrap() error {
	return p.Err
}

var lower = cases.Lower(language.Und)

// NewSourceFile builds a SourceFile for path.
func NewSourceFile(path string) SourceFile {
	name := filepath.Base(path)
	return SourceFile{
		Path: path,
		Name: name,
		Ext:  normalizeExt(name),
	}
}

func normalizeExt(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		// ".profile" style names have no stem; treat them as extensionless.
		return ""
	}
	return lower.String(strings.TrimPrefix(ext, "."))
}

// Discover lists the non-directory entries directly inside dir, sorted by
// name. Entries whose type cannot be determined are returned as problems and
// do not stop the listing.
func Discover(dir string) ([]SourceFile, []Problem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read directory %q: %w", dir, err)
	}

	var files []SourceFile
	var problems []Problem
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		isDir, err := entryIsDir(path, entry)
		if err != nil {
			problems = append(problems, Problem{Path: path, Err: err})
			continue
		}
		if isDir {
			continue
		}
		files = append(files, NewSourceFile(path))
	}

	return files, problems, nil
}

// entryIsDir follows symlinks so a link to a directory is skipped like the
// directory itself.
func entryIsDir(path string, entry os.DirEntry) (bool, error) {
	if entry.Type()&os.ModeSymlink == 0 {
		return entry.IsDir(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("dangling symlink: %w", err)
		}
		return false, err
	}
	return info.IsDir(), nil
}
