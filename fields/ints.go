// Package fields implements the field type library for the event codec.
//
// Every field type knows how to decode itself from a parameter's raw bytes
// and how to write itself back in the same layout. All multi-byte values are
// little-endian, matching the kernel producer. Decoded buffer and string
// types are views into the input buffer and must not outlive it.
package fields

import (
	"encoding/binary"
	"io"
)

// Fixed-width integer decoding. Numeric types fail only when the buffer is
// too short; extra trailing bytes are the caller's concern.

func DecodeUint8(b []byte) (uint8, error) {
	if len(b) < 1 {
		return 0, ErrBufTooShort
	}
	return b[0], nil
}

func DecodeUint16(b []byte) (uint16, error) {
	if len(b) < 2 {
		return 0, ErrBufTooShort
	}
	return binary.LittleEndian.Uint16(b), nil
}

func DecodeUint32(b []byte) (uint32, error) {
	if len(b) < 4 {
		return 0, ErrBufTooShort
	}
	return binary.LittleEndian.Uint32(b), nil
}

func DecodeUint64(b []byte) (uint64, error) {
	if len(b) < 8 {
		return 0, ErrBufTooShort
	}
	return binary.LittleEndian.Uint64(b), nil
}

func DecodeInt8(b []byte) (int8, error) {
	v, err := DecodeUint8(b)
	return int8(v), err
}

func DecodeInt16(b []byte) (int16, error) {
	v, err := DecodeUint16(b)
	return int16(v), err
}

func DecodeInt32(b []byte) (int32, error) {
	v, err := DecodeUint32(b)
	return int32(v), err
}

func DecodeInt64(b []byte) (int64, error) {
	v, err := DecodeUint64(b)
	return int64(v), err
}

// DecodeBool decodes a boolean stored as a 32-bit value; any nonzero value
// is true.
func DecodeBool(b []byte) (bool, error) {
	v, err := DecodeUint32(b)
	return v != 0, err
}

func EncodeUint8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

func EncodeUint16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func EncodeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func EncodeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func EncodeInt8(w io.Writer, v int8) error   { return EncodeUint8(w, uint8(v)) }
func EncodeInt16(w io.Writer, v int16) error { return EncodeUint16(w, uint16(v)) }
func EncodeInt32(w io.Writer, v int32) error { return EncodeUint32(w, uint32(v)) }
func EncodeInt64(w io.Writer, v int64) error { return EncodeUint64(w, uint64(v)) }

func EncodeBool(w io.Writer, v bool) error {
	var raw uint32
	if v {
		raw = 1
	}
	return EncodeUint32(w, raw)
}
