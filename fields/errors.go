package fields

import "errors"

var (
	// ErrBufTooShort is returned when a parameter's bytes are shorter than
	// the field type requires.
	ErrBufTooShort = errors.New("fields: buffer too short")

	// ErrInvalidString is returned when a string field is not valid UTF-8
	// and lossy decoding was not requested.
	ErrInvalidString = errors.New("fields: invalid string encoding")

	// ErrUnknownVariant is returned when a dynamic parameter's discriminator
	// has no entry in the field's dispatch table.
	ErrUnknownVariant = errors.New("fields: unknown dynamic parameter variant")
)
