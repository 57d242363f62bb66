// Package confirm asks whether a batch with warnings may proceed.
package confirm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// PromptText is written before reading the answer.
const PromptText = "Are all the warnings okay with you? [y/n] "

// ErrInvalidResponse is returned with Decline for anything but y or n.
var ErrInvalidResponse = errors.New("invalid confirmation response")

// Decision is the gate outcome.
type Decision int

const (
	Decline Decision = iota
	Accept
)

func (d Decision) String() string {
	if d == Accept {
		return "accept"
	}
	return "decline"
}

// Warning describes one file left out of the plan.
type Warning struct {
	Path   string `json:"path"`
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

// Gate decides whether to proceed after warnings.
type Gate interface {
	Confirm(ctx context.Context, warnings []Warning) (Decision, error)
}

// Prompt asks on a terminal. Exactly one answer is read; there is no retry.
type Prompt struct {
	In  io.Reader
	Out io.Writer
	// Render lists the warnings before the question. When nil each warning
	// is printed on its own line.
	Render func(w io.Writer, warnings []Warning)
}

func (p Prompt) Confirm(ctx context.Context, warnings []Warning) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decline, err
	}
	out := p.Out
	if out == nil {
		out = io.Discard
	}
	if len(warnings) > 0 {
		render := p.Render
		if render == nil {
			render = renderLines
		}
		render(out, warnings)
	}
	fmt.Fprint(out, PromptText)

	if p.In == nil {
		return Decline, fmt.Errorf("%w: no input", ErrInvalidResponse)
	}
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Decline, fmt.Errorf("read confirmation: %w", err)
	}
	return Parse(line)
}

// Parse maps one answer to a decision. Y and y accept, N and n decline.
func Parse(answer string) (Decision, error) {
	switch strings.TrimSpace(answer) {
	case "Y", "y":
		return Accept, nil
	case "N", "n":
		return Decline, nil
	default:
		return Decline, fmt.Errorf("%w: %q", ErrInvalidResponse, strings.TrimSpace(answer))
	}
}

func renderLines(w io.Writer, warnings []Warning) {
	for _, warning := range warnings {
		fmt.Fprintf(w, "warning: %s: %s: %s\n", warning.Path, warning.Kind, warning.Detail)
	}
}

// AssumeYes accepts without asking.
type AssumeYes struct{}

func (AssumeYes) Confirm(context.Context, []Warning) (Decision, error) {
	return Accept, nil
}
