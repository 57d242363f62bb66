package metadata

import "fmt"

// Kind classifies why a Source could not produce a timestamp.
type Kind string

const (
	// KindUnreadable means the file could not be opened.
	KindUnreadable Kind = "unreadable"
	// KindNoMetadata means the metadata container could not be decoded.
	KindNoMetadata Kind = "no_metadata"
	// KindMissingTag means the container decoded but lacks the tag.
	KindMissingTag Kind = "missing_tag"
	// KindToolExecution means the external tool could not be run.
	KindToolExecution Kind = "tool_execution"
	// KindEmptyOutput means the external tool printed nothing for the tag.
	KindEmptyOutput Kind = "empty_output"
	// KindDecode means the tag value was not valid UTF-8 or not a timestamp.
	KindDecode Kind = "decode_error"
)

// Warning is the failure type returned by every Source. It only ever excludes
// the single file it refers to.
type Warning struct {
	Kind   Kind
	Source string
	Path   string
	Err    error
}

func (w *Warning) Error() string {
	if w.Err == nil {
		return fmt.Sprintf("%s: %s: %s", w.Source, w.Kind, w.Path)
	}
	return fmt.Sprintf("%s: %s: %s: %v", w.Source, w.Kind, w.Path, w.Err)
}

func (w *Warning) Unwrap() error {
	return w.Err
}

func newWarning(kind Kind, source, path string, err error) *Warning {
	return &Warning{Kind: kind, Source: source, Path: path, Err: err}
}
