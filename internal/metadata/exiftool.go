package metadata

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"chrononame/internal/scan"
)

const (
	// CreationDateName identifies results read from the QuickTime CreationDate tag.
	CreationDateName = "exiftool:CreationDate"
	// CreateDateName identifies results read from the CreateDate tag.
	CreateDateName = "exiftool:CreateDate"

	// offsetLen is the length of the "+HH:MM" suffix CreationDate carries once
	// the line terminator is removed; with "\n" it is the 7-byte tail of the
	// raw output.
	offsetLen = len("+00:00")
)

// ToolRunner runs an external command and returns its standard output.
type ToolRunner interface {
	Run(ctx context.Context, binary string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec, one child process per call.
type ExecRunner struct {
	Timeout time.Duration
}

func (r ExecRunner) Run(ctx context.Context, binary string, args ...string) ([]byte, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if detail := strings.TrimSpace(string(exitErr.Stderr)); detail != "" {
				return nil, fmt.Errorf("%s: %w: %s", binary, err, detail)
			}
		}
		return nil, fmt.Errorf("%s: %w", binary, err)
	}
	return output, nil
}

// ExifToolTag reads a single tag through exiftool, printing the bare value
// (-s3) without a label.
type ExifToolTag struct {
	Tag    string
	Binary string
	Runner ToolRunner

	name       string
	ambiguous  bool
	withOffset bool
}

// NewCreationDate returns the source for the QuickTime CreationDate tag, whose
// value ends in a UTC offset that is dropped after reading.
func NewCreationDate(binary string, runner ToolRunner) *ExifToolTag {
	return &ExifToolTag{
		Tag:        "CreationDate",
		Binary:     binary,
		Runner:     runner,
		name:       CreationDateName,
		withOffset: true,
	}
}

// NewCreateDate returns the source for the CreateDate tag. Its value carries
// no offset, so results are marked ambiguous.
func NewCreateDate(binary string, runner ToolRunner) *ExifToolTag {
	return &ExifToolTag{
		Tag:       "CreateDate",
		Binary:    binary,
		Runner:    runner,
		name:      CreateDateName,
		ambiguous: true,
	}
}

func (s *ExifToolTag) Name() string {
	if s.name != "" {
		return s.name
	}
	return "exiftool:" + s.Tag
}

func (s *ExifToolTag) Ambiguous() bool { return s.ambiguous }

func (s *ExifToolTag) Resolve(ctx context.Context, file scan.SourceFile) (Timestamp, error) {
	binary := strings.TrimSpace(s.Binary)
	if binary == "" {
		binary = "exiftool"
	}
	runner := s.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	output, err := runner.Run(ctx, binary, "-"+s.Tag, "-s3", file.Path)
	if err != nil {
		return "", newWarning(KindToolExecution, s.Name(), file.Path, err)
	}
	if !utf8.Valid(output) {
		return "", newWarning(KindDecode, s.Name(), file.Path, errors.New("output is not valid UTF-8"))
	}

	value := strings.TrimRight(string(output), "\r\n")
	if strings.TrimSpace(value) == "" {
		return "", newWarning(KindEmptyOutput, s.Name(), file.Path, fmt.Errorf("tag %s not present", s.Tag))
	}

	if s.withOffset {
		value, err = stripOffset(value)
		if err != nil {
			return "", newWarning(KindDecode, s.Name(), file.Path, err)
		}
	}

	ts, err := Normalize(value)
	if err != nil {
		return "", newWarning(KindDecode, s.Name(), file.Path, err)
	}
	return ts, nil
}

// stripOffset removes a trailing "+HH:MM" or "-HH:MM".
func stripOffset(value string) (string, error) {
	if len(value) <= offsetLen {
		return "", fmt.Errorf("%w: %q has no UTC offset", ErrMalformedTimestamp, value)
	}
	suffix := value[len(value)-offsetLen:]
	if (suffix[0] != '+' && suffix[0] != '-') || suffix[3] != ':' {
		return "", fmt.Errorf("%w: %q has no UTC offset", ErrMalformedTimestamp, value)
	}
	return value[:len(value)-offsetLen], nil
}
