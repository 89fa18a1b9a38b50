// Package fields provides the typed per-category parsers for scholarship
// announcement text and the three-state field values they produce.
package fields

import (
	"encoding/json"
	"fmt"
)

// Status describes whether a field value was found in the source text.
type Status string

const (
	// StatusPresent means the value was located and parsed successfully.
	StatusPresent Status = "present"

	// StatusAbsent means the provision does not appear in the text. Absent is
	// distinct from an explicit zero value: a supplement that did not exist in
	// a given year is absent, not zero.
	StatusAbsent Status = "absent"

	// StatusFailed means the surrounding marker matched but the value could
	// not be extracted or failed type/range validation.
	StatusFailed Status = "failed"
)

// Field is a three-state container for one extracted value.
type Field[T any] struct {
	Status Status
	Value  T
	Reason string
}

// Present returns a field holding a successfully parsed value.
func Present[T any](v T) Field[T] {
	return Field[T]{Status: StatusPresent, Value: v}
}

// Absent returns a field for a provision not found in the text.
func Absent[T any]() Field[T] {
	return Field[T]{Status: StatusAbsent}
}

// Failed returns a field for a value that was located but could not be parsed.
func Failed[T any](reason string) Field[T] {
	return Field[T]{Status: StatusFailed, Reason: reason}
}

// IsPresent reports whether the field holds a parsed value.
func (f Field[T]) IsPresent() bool { return f.Status == StatusPresent }

// IsAbsent reports whether the provision was not found.
func (f Field[T]) IsAbsent() bool { return f.Status == StatusAbsent || f.Status == "" }

// IsFailed reports whether extraction of the value failed.
func (f Field[T]) IsFailed() bool { return f.Status == StatusFailed }

// Get returns the value and whether it is present.
func (f Field[T]) Get() (T, bool) {
	if f.Status != StatusPresent {
		var zero T
		return zero, false
	}
	return f.Value, true
}

// fieldJSON is the wire form of a Field.
type fieldJSON[T any] struct {
	Status Status `json:"status"`
	Value  *T     `json:"value,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// MarshalJSON encodes the field with its status so that absence, failure and
// explicit values survive serialization.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	out := fieldJSON[T]{Status: f.Status, Reason: f.Reason}
	if out.Status == "" {
		out.Status = StatusAbsent
	}
	if f.Status == StatusPresent {
		v := f.Value
		out.Value = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the wire form produced by MarshalJSON.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	var in fieldJSON[T]
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	f.Status = in.Status
	f.Reason = in.Reason
	if in.Status == StatusPresent {
		if in.Value == nil {
			return fmt.Errorf("field marked present but has no value")
		}
		f.Value = *in.Value
	} else {
		var zero T
		f.Value = zero
	}
	return nil
}

// ParseFailure identifies a sub-field that could not be extracted from a
// matched category span.
type ParseFailure struct {
	Category string `json:"category"`
	Field    string `json:"field"`
	Reason   string `json:"reason"`
}

// Error implements the error interface.
func (p ParseFailure) Error() string {
	return fmt.Sprintf("%s.%s: %s", p.Category, p.Field, p.Reason)
}
