package fields

import (
	"io"
	"time"
)

// RelTime is a time interval in nanoseconds, stored on the wire as an
// unsigned 64-bit value.
type RelTime uint64

func DecodeRelTime(b []byte) (RelTime, error) {
	v, err := DecodeUint64(b)
	return RelTime(v), err
}

func EncodeRelTime(w io.Writer, v RelTime) error {
	return EncodeUint64(w, uint64(v))
}

func (t RelTime) Duration() time.Duration {
	return time.Duration(t)
}

// AbsTime is an absolute timestamp, nanoseconds since the Unix epoch.
type AbsTime uint64

func DecodeAbsTime(b []byte) (AbsTime, error) {
	v, err := DecodeUint64(b)
	return AbsTime(v), err
}

func EncodeAbsTime(w io.Writer, v AbsTime) error {
	return EncodeUint64(w, uint64(v))
}

func (t AbsTime) Time() time.Time {
	return time.Unix(0, int64(t))
}
