/*
errors.go - Error types for history construction

PURPOSE:
  History construction is the only fallible operation in this package; every
  computation routine is a total function over already-validated inputs.
  ParseError surfaces eagerly, carrying enough context to point at the
  offending raw record.

PRECONDITION NOTE:
  Intervals with Start after End are NOT rejected here. The computation
  routines treat such intervals as contributing zero days (the overlap
  formula yields an empty range) and callers own that data-quality check.

SEE ALSO:
  - history.go: Raises ParseError
*/
package residence

import (
	"errors"
	"fmt"
)

// ErrInvalidRecord is the sentinel wrapped by every ParseError.
// Use with errors.Is().
var ErrInvalidRecord = errors.New("invalid travel record")

// ParseError reports a raw travel record that could not be turned into an
// Interval: a missing field, or a date that is neither an ISO YYYY-MM-DD
// string nor a native date value.
type ParseError struct {
	Index int    // position of the record in the input collection
	Field string // "country", "start" or "end"
	Value any    // the offending raw value
	Err   error  // underlying cause, if any
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("record %d: field %q: %v (value: %v)", e.Index, e.Field, e.Err, e.Value)
	}
	return fmt.Sprintf("record %d: field %q is missing or invalid (value: %v)", e.Index, e.Field, e.Value)
}

func (e *ParseError) Unwrap() error { return ErrInvalidRecord }
