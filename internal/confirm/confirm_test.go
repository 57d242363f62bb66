package confirm_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"chrononame/internal/confirm"
)

func TestPromptDecisions(t *testing.T) {
	cases := []struct {
		input   string
		want    confirm.Decision
		invalid bool
	}{
		{"y\n", confirm.Accept, false},
		{"Y\n", confirm.Accept, false},
		{"n\n", confirm.Decline, false},
		{"N", confirm.Decline, false},
		{"yes\n", confirm.Decline, true},
		{"\n", confirm.Decline, true},
		{"", confirm.Decline, true},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		p := confirm.Prompt{In: strings.NewReader(tc.input), Out: &out}
		got, err := p.Confirm(context.Background(), nil)
		if got != tc.want {
			t.Fatalf("input %q: got %s, want %s", tc.input, got, tc.want)
		}
		if tc.invalid != errors.Is(err, confirm.ErrInvalidResponse) {
			t.Fatalf("input %q: unexpected error %v", tc.input, err)
		}
		if !strings.HasSuffix(out.String(), confirm.PromptText) {
			t.Fatalf("input %q: prompt not written, got %q", tc.input, out.String())
		}
	}
}

func TestPromptReadsSingleAnswer(t *testing.T) {
	in := strings.NewReader("x\ny\n")
	got, err := confirm.Prompt{In: in, Out: io.Discard}.Confirm(context.Background(), nil)
	if got != confirm.Decline || !errors.Is(err, confirm.ErrInvalidResponse) {
		t.Fatalf("expected invalid decline without retry, got %s %v", got, err)
	}
}

func TestPromptListsWarnings(t *testing.T) {
	var out bytes.Buffer
	warnings := []confirm.Warning{
		{Path: "/d/anim.gif", Kind: "unsupported_extension", Detail: "unsupported extension"},
		{Path: "/d/x.jpg", Kind: "unresolved", Detail: "no timestamp"},
	}
	_, _ = confirm.Prompt{In: strings.NewReader("y\n"), Out: &out}.Confirm(context.Background(), warnings)
	for _, want := range []string{"/d/anim.gif", "unsupported_extension", "/d/x.jpg"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in %q", want, out.String())
		}
	}

	var rendered int
	custom := confirm.Prompt{
		In:     strings.NewReader("y\n"),
		Out:    io.Discard,
		Render: func(_ io.Writer, w []confirm.Warning) { rendered = len(w) },
	}
	if _, err := custom.Confirm(context.Background(), warnings); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if rendered != 2 {
		t.Fatalf("expected custom renderer to see 2 warnings, got %d", rendered)
	}
}

func TestAssumeYes(t *testing.T) {
	got, err := confirm.AssumeYes{}.Confirm(context.Background(), []confirm.Warning{{Path: "/d/a"}})
	if err != nil || got != confirm.Accept {
		t.Fatalf("expected accept, got %s %v", got, err)
	}
}

func TestPromptCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got, err := confirm.Prompt{In: strings.NewReader("y\n"), Out: io.Discard}.Confirm(ctx, nil)
	if got != confirm.Decline || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled decline, got %s %v", got, err)
	}
}
