package stimerr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFLAC is returned when a file handed to the analysis tools is not a FLAC stream.
var ErrNotFLAC = errors.New("notFlac")

// FieldError describes one rejected configuration field.
type FieldError struct {
	Field  string
	Value  any
	Reason string
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s=%v: %s", f.Field, f.Value, f.Reason)
}

// ConfigError lists every invalid field of a configuration.
type ConfigError struct {
	Fields []FieldError
}

func (e *ConfigError) Error() string {
	var parts = make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}

// Has reports whether the named field was rejected.
func (e *ConfigError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Add records a rejected field.
func (e *ConfigError) Add(field string, value any, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Value: value, Reason: reason})
}

// Err returns e when it holds at least one field, otherwise nil.
func (e *ConfigError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// EncodingError wraps a failure reported by the encoder while writing frames.
// Frame is the index of the first frame of the chunk that failed.
type EncodingError struct {
	Op    string
	Frame int64
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding failed during %s at frame %d: %v", e.Op, e.Frame, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// InvariantError reports a frame or channel count mismatch found during assembly.
type InvariantError struct {
	What string
	Want int64
	Got  int64
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("internal invariant violated: %s: want %d, got %d", e.What, e.Want, e.Got)
}
