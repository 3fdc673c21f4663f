package fields

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecodeIntsTooShort(t *testing.T) {
	tests := []struct {
		name string
		fn   func([]byte) error
		need int
	}{
		{"uint8", func(b []byte) error { _, err := DecodeUint8(b); return err }, 1},
		{"uint16", func(b []byte) error { _, err := DecodeUint16(b); return err }, 2},
		{"uint32", func(b []byte) error { _, err := DecodeUint32(b); return err }, 4},
		{"uint64", func(b []byte) error { _, err := DecodeUint64(b); return err }, 8},
		{"int64", func(b []byte) error { _, err := DecodeInt64(b); return err }, 8},
		{"bool", func(b []byte) error { _, err := DecodeBool(b); return err }, 4},
	}
	for _, tt := range tests {
		for n := 0; n < tt.need; n++ {
			if err := tt.fn(make([]byte, n)); !errors.Is(err, ErrBufTooShort) {
				t.Errorf("%s with %d bytes: got %v, want ErrBufTooShort", tt.name, n, err)
			}
		}
		if err := tt.fn(make([]byte, tt.need)); err != nil {
			t.Errorf("%s with %d bytes: %v", tt.name, tt.need, err)
		}
	}
}

func TestDecodeIntLittleEndian(t *testing.T) {
	v, err := DecodeUint32([]byte{0x41, 0x02, 0x00, 0x00})
	if err != nil || v != 0x241 {
		t.Errorf("got %#x (%v), want 0x241", v, err)
	}
}

func TestCharBufNulHandling(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"terminated", []byte("comm\x00"), "comm"},
		{"unterminated", []byte("comm"), "comm"},
		{"embedded nul cuts", []byte("co\x00mm"), "co"},
		{"empty", []byte{}, ""},
	}
	for _, tt := range tests {
		got, err := DecodeCharBuf(tt.in, false)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestCharBufInvalidUTF8(t *testing.T) {
	bad := []byte{0xff, 'a', 0xfe}

	if _, err := DecodeCharBuf(bad, false); !errors.Is(err, ErrInvalidString) {
		t.Errorf("strict: got %v, want ErrInvalidString", err)
	}
	got, err := DecodeCharBuf(bad, true)
	if err != nil {
		t.Fatalf("lossy: %v", err)
	}
	if got.String() != "�a�" {
		t.Errorf("lossy: got %q", got)
	}
}

func TestCharBufArraySplit(t *testing.T) {
	in := []byte("ls\x00-la\x00/tmp\x00")
	got, err := DecodeCharBufArray(in, false)
	if err != nil {
		t.Fatalf("DecodeCharBufArray: %v", err)
	}
	want := []string{"ls", "-la", "/tmp"}
	if len(got) != len(want) {
		t.Fatalf("got %d elements, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].String() != want[i] {
			t.Errorf("element %d = %q, want %q", i, got[i], want[i])
		}
	}

	var buf bytes.Buffer
	if err := EncodeCharBufArray(&buf, got); err != nil {
		t.Fatalf("EncodeCharBufArray: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), in) {
		t.Errorf("re-encode = %q, want %q", buf.Bytes(), in)
	}
}

func TestOpenFlagsString(t *testing.T) {
	tests := []struct {
		flags OpenFlags
		want  string
	}{
		{0, "0"},
		{ORdonly, "O_RDONLY"},
		{ORdonly | OTrunc | ONonblock, "O_RDONLY|O_NONBLOCK|O_TRUNC"},
		{ORdonly | 1<<30, "O_RDONLY|0x40000000"},
	}
	for _, tt := range tests {
		if got := tt.flags.String(); got != tt.want {
			t.Errorf("OpenFlags(%#x) = %q, want %q", uint32(tt.flags), got, tt.want)
		}
	}
}

func TestSockFamilyKnown(t *testing.T) {
	if !AfInet.Known() || AfInet.String() != "AF_INET" {
		t.Errorf("AF_INET misreported: %v %q", AfInet.Known(), AfInet.String())
	}
	odd := SockFamily(200)
	if odd.Known() {
		t.Errorf("family 200 reported known")
	}
	if odd.String() != "unknown(200)" {
		t.Errorf("family 200 = %q", odd.String())
	}
}

// A family value above one byte must not alias into a known family: the
// parameter is 4 bytes wide on the wire.
func TestSockFamilyWideValue(t *testing.T) {
	in := []byte{0x02, 0x01, 0x00, 0x00} // 258, not AF_INET
	got, err := DecodeSockFamily(in)
	if err != nil {
		t.Fatalf("DecodeSockFamily: %v", err)
	}
	if got != SockFamily(258) {
		t.Fatalf("decoded %d, want 258", uint32(got))
	}
	if got.Known() {
		t.Errorf("family 258 reported known")
	}
	if got.String() != "unknown(258)" {
		t.Errorf("family 258 = %q", got.String())
	}
	var buf bytes.Buffer
	if err := EncodeSockFamily(&buf, got); err != nil {
		t.Fatalf("EncodeSockFamily: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), in) {
		t.Errorf("re-encode = % x, want % x", buf.Bytes(), in)
	}
}

func TestSockAddrRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		sa   *SockAddr
	}{
		{"inet", &SockAddr{Family: AfInet, IP: []byte{192, 168, 0, 7}, Port: 8080}},
		{"inet6", &SockAddr{Family: AfInet6, IP: bytes.Repeat([]byte{0x20, 0x01}, 8), Port: 53}},
		{"unix", &SockAddr{Family: AfUnix, Path: CharBuf("/run/x.sock")}},
		{"unknown family", &SockAddr{Family: SockFamily(42), Raw: ByteBuf{1, 2, 3}}},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := EncodeSockAddr(&buf, tt.sa); err != nil {
			t.Fatalf("%s: encode: %v", tt.name, err)
		}
		if buf.Len() != SockAddrSize(tt.sa) {
			t.Errorf("%s: size = %d, SockAddrSize = %d", tt.name, buf.Len(), SockAddrSize(tt.sa))
		}
		got, err := DecodeSockAddr(buf.Bytes(), false)
		if err != nil {
			t.Fatalf("%s: decode: %v", tt.name, err)
		}
		if got.String() != tt.sa.String() {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.sa)
		}
	}
}

func TestSockAddrTooShort(t *testing.T) {
	tests := [][]byte{
		{},
		{byte(AfInet)},
		{byte(AfInet), 10, 0, 0, 1},
		{byte(AfInet6), 0, 0, 0},
	}
	for _, in := range tests {
		if _, err := DecodeSockAddr(in, false); !errors.Is(err, ErrBufTooShort) {
			t.Errorf("%v: got %v, want ErrBufTooShort", in, err)
		}
	}
}

func TestSockoptValDispatch(t *testing.T) {
	vals := []SockoptVal{
		SockoptBuf{0x01, 0x02},
		SockoptErrno(-13),
		SockoptUint32(4096),
		SockoptUint64(1 << 33),
		SockoptInterval(500000000),
	}
	for _, v := range vals {
		var buf bytes.Buffer
		if err := EncodeSockoptVal(&buf, v); err != nil {
			t.Fatalf("%T: encode: %v", v, err)
		}
		if buf.Len() != SockoptValSize(v) {
			t.Errorf("%T: size = %d, SockoptValSize = %d", v, buf.Len(), SockoptValSize(v))
		}
		got, err := DecodeSockoptVal(buf.Bytes())
		if err != nil {
			t.Fatalf("%T: decode: %v", v, err)
		}
		if got.SockoptIdx() != v.SockoptIdx() {
			t.Errorf("%T: idx = %d, want %d", v, got.SockoptIdx(), v.SockoptIdx())
		}
	}
}

func TestSockoptValUnknownDiscriminator(t *testing.T) {
	if _, err := DecodeSockoptVal([]byte{0x7f, 1, 2, 3}); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("got %v, want ErrUnknownVariant", err)
	}
	if _, err := DecodeSockoptVal(nil); !errors.Is(err, ErrBufTooShort) {
		t.Errorf("empty: got %v, want ErrBufTooShort", err)
	}
}

func TestRelTimeDuration(t *testing.T) {
	v, err := DecodeRelTime([]byte{0x00, 0xca, 0x9a, 0x3b, 0, 0, 0, 0})
	if err != nil {
		t.Fatalf("DecodeRelTime: %v", err)
	}
	if v.Duration().Seconds() != 1.0 {
		t.Errorf("duration = %v, want 1s", v.Duration())
	}
}
