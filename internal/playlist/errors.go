package playlist

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedLine reports a playlist line that does not match the grammar.
	ErrMalformedLine = errors.New("malformed playlist line")
	// ErrNotFound reports an operation on a path that is not in the store.
	ErrNotFound = errors.New("playlist entry not found")
	// ErrEmptySelection reports that no entry can be drawn: nothing passed the
	// filter or the total weight is zero.
	ErrEmptySelection = errors.New("no selectable playlist entries")
	// ErrNoPath reports a write with neither an explicit nor a source path.
	ErrNoPath = errors.New("cannot determine playlist path")
	// ErrNoValues reports a merge step where neither side holds a value.
	ErrNoValues = errors.New("no values to merge")
	// ErrNoCommonDivisor reports that RepeatedList could not guess a scale.
	ErrNoCommonDivisor = errors.New("could not determine a common divisor of weights")
)

// LineError describes a line that failed to parse. It matches
// ErrMalformedLine under errors.Is.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: bad line %q: %v", e.Line, e.Text, e.Err)
	}
	return fmt.Sprintf("line %d: bad line %q", e.Line, e.Text)
}

func (e *LineError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedLine}
	}
	return []error{ErrMalformedLine, e.Err}
}
