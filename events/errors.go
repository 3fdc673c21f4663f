package events

import (
	"errors"
	"fmt"

	"scap-recorder/schema"
)

// Framing errors. Each is fatal to the one buffer it was raised for and
// recoverable by the caller.
var (
	// ErrTooShort is returned when a buffer cannot hold the fixed header.
	ErrTooShort = errors.New("events: buffer too short for event header")

	// ErrLengthMismatch is returned when the header's declared total length
	// is smaller than the header or larger than the supplied buffer.
	ErrLengthMismatch = errors.New("events: declared length does not fit the buffer")

	// ErrUnknownEventType is returned by strict framing when the event type
	// has no schema entry. Lenient framing keeps the raw event instead so it
	// can still be forwarded unmodified.
	ErrUnknownEventType = errors.New("events: unknown event type")
)

// Decode errors.
var (
	// ErrTypeMismatch is returned when a typed Decode is invoked on a raw
	// event of a different kind.
	ErrTypeMismatch = errors.New("events: event type does not match target kind")

	// ErrParamCountMismatch is returned when the parameter length table and
	// lengths do not consume the payload exactly.
	ErrParamCountMismatch = errors.New("events: parameter lengths do not match payload")

	// ErrMissingField is returned when parameters run out before a field the
	// schema does not mark tail-optional.
	ErrMissingField = errors.New("events: required field missing")
)

// Encode errors for hand-constructed events. Events obtained from a
// successful decode always encode cleanly; only sink I/O can fail for them.
var (
	// ErrParamTooLong is returned when a parameter does not fit the event
	// kind's length-table width.
	ErrParamTooLong = errors.New("events: parameter too long for length table")

	// ErrBadParamSize is returned when a parameter of a fixed-layout event
	// does not have its field's static size. Absent interior fields fall
	// under this too: a fixed layout has no way to carry them.
	ErrBadParamSize = errors.New("events: parameter size does not match fixed layout")
)

// DecodeError wraps a field-level failure with the event kind and field name
// it occurred on.
type DecodeError struct {
	Type  schema.EventType
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("events: decoding %s field %q: %v", schema.Name(e.Type), e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
