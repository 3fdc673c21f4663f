package fields

import (
	"io"
)

// Dynamic parameters carry a one-byte discriminator in front of the value
// bytes; the discriminator selects the concrete value type through a static
// dispatch table. The only dynamic field in the carried schema is the
// setsockopt option value.

// Sockopt value discriminators.
const (
	SockoptIdxUnknown  uint8 = 0
	SockoptIdxErrno    uint8 = 1
	SockoptIdxUint32   uint8 = 2
	SockoptIdxUint64   uint8 = 3
	SockoptIdxInterval uint8 = 4
)

// SockoptVal is one variant of the setsockopt value parameter.
type SockoptVal interface {
	// SockoptIdx returns the discriminator this variant encodes under.
	SockoptIdx() uint8

	valueSize() int
	writeValue(w io.Writer) error
}

// SockoptBuf is the fallback variant for values the producer could not
// interpret; it carries the raw option bytes.
type SockoptBuf ByteBuf

// SockoptErrno is an error return carried in the option value.
type SockoptErrno int64

// SockoptUint32 is a plain 32-bit option value.
type SockoptUint32 uint32

// SockoptUint64 is a plain 64-bit option value.
type SockoptUint64 uint64

// SockoptInterval is a timeval-style option value (SO_RCVTIMEO and friends),
// normalized to nanoseconds.
type SockoptInterval RelTime

func (v SockoptBuf) SockoptIdx() uint8      { return SockoptIdxUnknown }
func (v SockoptErrno) SockoptIdx() uint8    { return SockoptIdxErrno }
func (v SockoptUint32) SockoptIdx() uint8   { return SockoptIdxUint32 }
func (v SockoptUint64) SockoptIdx() uint8   { return SockoptIdxUint64 }
func (v SockoptInterval) SockoptIdx() uint8 { return SockoptIdxInterval }

func (v SockoptBuf) valueSize() int      { return len(v) }
func (v SockoptErrno) valueSize() int    { return 8 }
func (v SockoptUint32) valueSize() int   { return 4 }
func (v SockoptUint64) valueSize() int   { return 8 }
func (v SockoptInterval) valueSize() int { return 8 }

func (v SockoptBuf) writeValue(w io.Writer) error      { return EncodeByteBuf(w, ByteBuf(v)) }
func (v SockoptErrno) writeValue(w io.Writer) error    { return EncodeInt64(w, int64(v)) }
func (v SockoptUint32) writeValue(w io.Writer) error   { return EncodeUint32(w, uint32(v)) }
func (v SockoptUint64) writeValue(w io.Writer) error   { return EncodeUint64(w, uint64(v)) }
func (v SockoptInterval) writeValue(w io.Writer) error { return EncodeRelTime(w, RelTime(v)) }

// sockoptTable maps discriminators to value decoders. Encoding needs no
// table: each variant knows its own discriminator and layout.
var sockoptTable = map[uint8]func([]byte) (SockoptVal, error){
	SockoptIdxUnknown: func(b []byte) (SockoptVal, error) {
		return SockoptBuf(b), nil
	},
	SockoptIdxErrno: func(b []byte) (SockoptVal, error) {
		v, err := DecodeInt64(b)
		return SockoptErrno(v), err
	},
	SockoptIdxUint32: func(b []byte) (SockoptVal, error) {
		v, err := DecodeUint32(b)
		return SockoptUint32(v), err
	},
	SockoptIdxUint64: func(b []byte) (SockoptVal, error) {
		v, err := DecodeUint64(b)
		return SockoptUint64(v), err
	},
	SockoptIdxInterval: func(b []byte) (SockoptVal, error) {
		v, err := DecodeRelTime(b)
		return SockoptInterval(v), err
	},
}

// DecodeSockoptVal reads the discriminator byte and decodes the remaining
// bytes as the selected variant. A discriminator outside the table is
// ErrUnknownVariant, never a guess.
func DecodeSockoptVal(b []byte) (SockoptVal, error) {
	if len(b) < 1 {
		return nil, ErrBufTooShort
	}
	decode, ok := sockoptTable[b[0]]
	if !ok {
		return nil, ErrUnknownVariant
	}
	return decode(b[1:])
}

// EncodeSockoptVal writes the discriminator byte followed by the variant's
// value bytes.
func EncodeSockoptVal(w io.Writer, v SockoptVal) error {
	if err := EncodeUint8(w, v.SockoptIdx()); err != nil {
		return err
	}
	return v.writeValue(w)
}

// SockoptValSize is the encoded size of a sockopt value, discriminator
// included.
func SockoptValSize(v SockoptVal) int {
	return 1 + v.valueSize()
}
