package events

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"scap-recorder/schema"
)

// mkEvent assembles a wire buffer by hand: header, optional length table,
// then the parameter payloads.
func mkEvent(ts, tid uint64, typ schema.EventType, width int, params [][]byte) []byte {
	total := HeaderSize + width*len(params)
	for _, p := range params {
		total += len(p)
	}
	buf := make([]byte, 0, total)

	var hdr [HeaderSize]byte
	binary.LittleEndian.PutUint64(hdr[0:8], ts)
	binary.LittleEndian.PutUint64(hdr[8:16], tid)
	binary.LittleEndian.PutUint32(hdr[16:20], uint32(total))
	binary.LittleEndian.PutUint16(hdr[20:22], uint16(typ))
	binary.LittleEndian.PutUint16(hdr[22:24], uint16(len(params)))
	buf = append(buf, hdr[:]...)

	for _, p := range params {
		switch width {
		case 1:
			buf = append(buf, byte(len(p)))
		case 2:
			buf = append(buf, byte(len(p)), byte(len(p)>>8))
		}
	}
	for _, p := range params {
		buf = append(buf, p...)
	}
	return buf
}

func le32(v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return b[:]
}

func le64(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}

func le16(v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return b[:]
}

func TestNewRawEventTooShort(t *testing.T) {
	for n := 0; n < HeaderSize; n++ {
		_, err := NewRawEvent(make([]byte, n))
		if !errors.Is(err, ErrTooShort) {
			t.Errorf("len %d: got %v, want ErrTooShort", n, err)
		}
	}
}

func TestNewRawEventLengthMismatch(t *testing.T) {
	buf := mkEvent(1, 2, schema.CloseE, 0, [][]byte{le64(3)})

	tests := []struct {
		name    string
		declare uint32
	}{
		{"longer than buffer", uint32(len(buf)) + 1},
		{"much longer than buffer", 1 << 20},
		{"shorter than header", HeaderSize - 1},
		{"zero", 0},
	}
	for _, tt := range tests {
		b := append([]byte(nil), buf...)
		binary.LittleEndian.PutUint32(b[16:20], tt.declare)
		if _, err := NewRawEvent(b); !errors.Is(err, ErrLengthMismatch) {
			t.Errorf("%s: got %v, want ErrLengthMismatch", tt.name, err)
		}
	}
}

// A buffer longer than the declared length is legal (ring buffer records are
// often over-allocated); the payload view must end at the declared length.
func TestNewRawEventOverAllocated(t *testing.T) {
	buf := mkEvent(1, 2, schema.CloseE, 0, [][]byte{le64(3)})
	padded := append(append([]byte(nil), buf...), 0xaa, 0xbb, 0xcc)

	raw, err := NewRawEvent(padded)
	if err != nil {
		t.Fatalf("NewRawEvent: %v", err)
	}
	if got, want := len(raw.Payload()), 8; got != want {
		t.Errorf("payload length = %d, want %d", got, want)
	}
}

func TestNewRawEventStrictUnknownType(t *testing.T) {
	buf := mkEvent(1, 2, schema.EventType(999), 1, nil)

	if _, err := NewRawEventStrict(buf); !errors.Is(err, ErrUnknownEventType) {
		t.Errorf("strict: got %v, want ErrUnknownEventType", err)
	}

	raw, err := NewRawEvent(buf)
	if err != nil {
		t.Fatalf("lenient framing failed: %v", err)
	}
	if raw.Type != 999 {
		t.Errorf("type = %d, want 999", raw.Type)
	}
}

// Every truncation of a valid buffer must produce an error, never a panic or
// an out-of-bounds read.
func TestTruncationSweep(t *testing.T) {
	buf := mkEvent(7, 8, schema.OpenE, 1, [][]byte{
		append([]byte("/etc/passwd"), 0),
		le32(0x241),
		le32(0o644),
	})
	for n := 0; n < len(buf); n++ {
		if _, err := NewRawEvent(buf[:n]); err == nil {
			t.Errorf("truncated to %d bytes: framing unexpectedly succeeded", n)
		}
	}
}

func TestRawEventEncodeVerbatim(t *testing.T) {
	buf := mkEvent(42, 43, schema.EventType(999), 0, nil)
	raw, err := NewRawEvent(buf)
	if err != nil {
		t.Fatalf("NewRawEvent: %v", err)
	}

	var out bytes.Buffer
	if err := raw.EncodeTo(&out); err != nil {
		t.Fatalf("EncodeTo: %v", err)
	}
	if !bytes.Equal(out.Bytes(), buf) {
		t.Errorf("re-encoded bytes differ:\n got %x\nwant %x", out.Bytes(), buf)
	}
}

func TestHeaderFields(t *testing.T) {
	buf := mkEvent(1234567890, 4242, schema.CloseX, 0, [][]byte{le64(0)})
	raw, err := NewRawEvent(buf)
	if err != nil {
		t.Fatalf("NewRawEvent: %v", err)
	}
	if raw.Ts != 1234567890 || raw.Tid != 4242 {
		t.Errorf("header = ts %d tid %d, want 1234567890/4242", raw.Ts, raw.Tid)
	}
	if raw.Type != schema.CloseX || raw.NParams != 1 {
		t.Errorf("header = type %d nparams %d, want %d/1", raw.Type, raw.NParams, schema.CloseX)
	}
}
