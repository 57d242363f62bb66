package testsupport

import (
	"context"
	"strings"
	"sync"
)

// ToolCall records one FakeTool invocation.
type ToolCall struct {
	Binary string
	Tag    string
	Path   string
}

// FakeTool stands in for exiftool. Outputs are keyed by path and tag name
// (without the leading dash); unknown pairs print nothing, like exiftool does
// for an absent tag.
type FakeTool struct {
	mu      sync.Mutex
	outputs map[string]map[string]string
	// Err, when set, is returned from every call.
	Err   error
	calls []ToolCall
}

// NewFakeTool returns an empty FakeTool.
func NewFakeTool() *FakeTool {
	return &FakeTool{outputs: make(map[string]map[string]string)}
}

// Set registers the raw stdout printed for tag on path.
func (f *FakeTool) Set(path, tag, output string) *FakeTool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.outputs[path] == nil {
		f.outputs[path] = make(map[string]string)
	}
	f.outputs[path][tag] = output
	return f
}

func (f *FakeTool) Run(_ context.Context, binary string, args ...string) ([]byte, error) {
	call := ToolCall{Binary: binary}
	if len(args) > 0 {
		call.Tag = strings.TrimPrefix(args[0], "-")
		call.Path = args[len(args)-1]
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if f.Err != nil {
		return nil, f.Err
	}
	return []byte(f.outputs[call.Path][call.Tag]), nil
}

// Calls returns every recorded invocation in order.
func (f *FakeTool) Calls() []ToolCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ToolCall(nil), f.calls...)
}

// TagsFor returns the tags requested for path, in call order.
func (f *FakeTool) TagsFor(path string) []string {
	var tags []string
	for _, call := range f.Calls() {
		if call.Path == path {
			tags = append(tags, call.Tag)
		}
	}
	return tags
}
