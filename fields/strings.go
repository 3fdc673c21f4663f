package fields

import (
	"bytes"
	"io"
	"unicode/utf8"
)

// ByteBuf is an uninterpreted byte parameter. It is a view into the input
// buffer, never a copy.
type ByteBuf []byte

// DecodeByteBuf passes the parameter bytes through unmodified.
func DecodeByteBuf(b []byte) (ByteBuf, error) {
	return ByteBuf(b), nil
}

func EncodeByteBuf(w io.Writer, v ByteBuf) error {
	_, err := w.Write(v)
	return err
}

// CharBuf is a NUL-terminated string parameter. The decoded view excludes
// the terminator; encoding adds it back.
type CharBuf []byte

// FsPath is a filesystem path parameter. Paths share the char buffer wire
// layout; the distinction only matters to consumers.
type FsPath = CharBuf

// DecodeCharBuf trims the NUL terminator (if present) and validates the
// remainder as UTF-8. With lossy set, invalid sequences are replaced with
// U+FFFD instead of failing; this is the one decode path that may allocate,
// since untrusted producers do emit garbage in comm and path fields.
func DecodeCharBuf(b []byte, lossy bool) (CharBuf, error) {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	if utf8.Valid(b) {
		return CharBuf(b), nil
	}
	if !lossy {
		return nil, ErrInvalidString
	}
	return CharBuf(bytes.ToValidUTF8(b, []byte("�"))), nil
}

func EncodeCharBuf(w io.Writer, v CharBuf) error {
	if _, err := w.Write(v); err != nil {
		return err
	}
	_, err := w.Write([]byte{0})
	return err
}

// CharBufSize is the encoded size of a char buffer, including the NUL.
func CharBufSize(v CharBuf) int {
	return len(v) + 1
}

func (c CharBuf) String() string {
	return string(c)
}

// DecodeCharBufArray splits a parameter holding consecutive NUL-terminated
// strings (argv, environment). A trailing run without a terminator counts as
// a final element.
func DecodeCharBufArray(b []byte, lossy bool) ([]CharBuf, error) {
	var out []CharBuf
	for len(b) > 0 {
		i := bytes.IndexByte(b, 0)
		var chunk []byte
		if i < 0 {
			chunk, b = b, nil
		} else {
			chunk, b = b[:i], b[i+1:]
		}
		s, err := DecodeCharBuf(chunk, lossy)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func EncodeCharBufArray(w io.Writer, v []CharBuf) error {
	for _, s := range v {
		if err := EncodeCharBuf(w, s); err != nil {
			return err
		}
	}
	return nil
}

func CharBufArraySize(v []CharBuf) int {
	n := 0
	for _, s := range v {
		n += CharBufSize(s)
	}
	return n
}
