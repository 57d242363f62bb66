package metadata

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	rawLayout       = "2006:01:02 15:04:05"
	canonicalLayout = "2006-01-02_15-04-05"
)

// ErrMalformedTimestamp is returned when a raw tag value does not match the
// "YYYY:MM:DD HH:MM:SS" layout.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// Timestamp is a capture time in canonical "YYYY-MM-DD_HH-MM-SS" form. It is
// used both as the plan key and as the target file stem, so lexical order is
// chronological order.
type Timestamp string

func (t Timestamp) String() string {
	return string(t)
}

// Normalize converts a raw "YYYY:MM:DD HH:MM:SS" value into a Timestamp.
// Trailing NULs and surrounding whitespace are ignored; anything else that does
// not parse, including the all-zero value some cameras write, is rejected.
func Normalize(raw string) (Timestamp, error) {
	value := strings.TrimSpace(strings.TrimRight(raw, "\x00"))
	parsed, err := time.Parse(rawLayout, value)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedTimestamp, value)
	}
	return Timestamp(parsed.Format(canonicalLayout)), nil
}
