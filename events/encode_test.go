package events

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	"scap-recorder/fields"
	"scap-recorder/schema"
)

func u32p(v uint32) *uint32 { return &v }
func u64p(v uint64) *uint64 { return &v }
func i64p(v int64) *int64   { return &v }
func u16p(v uint16) *uint16 { return &v }
func openFlagsP(v fields.OpenFlags) *fields.OpenFlags {
	return &v
}
func cloneFlagsP(v fields.CloneFlags) *fields.CloneFlags {
	return &v
}
func sockFamilyP(v fields.SockFamily) *fields.SockFamily {
	return &v
}

// roundTrip encodes a payload, reframes the bytes and decodes into a fresh
// value of the same kind.
func roundTrip(t *testing.T, p Payload) Payload {
	t.Helper()
	var buf bytes.Buffer
	if err := p.EncodeTo(&buf, Metadata{Ts: 99, Tid: 100}); err != nil {
		t.Fatalf("EncodeTo: %v", err)
	}
	raw, err := NewRawEventStrict(buf.Bytes())
	if err != nil {
		t.Fatalf("reframe: %v", err)
	}
	out := newPayload(p.EventType())
	if err := out.Decode(raw); err != nil {
		t.Fatalf("redecode: %v", err)
	}
	return out
}

func TestRoundTripKinds(t *testing.T) {
	tests := []struct {
		name string
		p    Payload
	}{
		{"generic_e", &GenericEnter{ID: u16p(7), NativeID: u16p(307)}},
		{"open_e", &OpenEnter{
			Name:  fields.FsPath("/var/log/syslog"),
			Flags: openFlagsP(fields.ORdonly | fields.OCloexec),
			Mode:  u32p(0),
		}},
		{"open_x full", &OpenExit{
			Fd:    i64p(3),
			Name:  fields.FsPath("/etc/shadow"),
			Flags: openFlagsP(fields.ORdonly),
			Mode:  u32p(0o600),
			Dev:   u32p(0x801),
			Ino:   u64p(131072),
		}},
		{"open_x short tail", &OpenExit{
			Fd:    i64p(3),
			Name:  fields.FsPath("/etc/shadow"),
			Flags: openFlagsP(fields.ORdonly),
			Mode:  u32p(0o600),
		}},
		{"close_e", &CloseEnter{Fd: i64p(12)}},
		{"read_x", &ReadExit{Res: i64p(4), Data: fields.ByteBuf{0xca, 0xfe, 0xba, 0xbe}}},
		{"write_e", &WriteEnter{Fd: i64p(1), Size: u32p(512)}},
		{"socket_e", &SocketEnter{Domain: sockFamilyP(fields.AfInet), Type: u32p(1), Proto: u32p(6)}},
		{"connect_e inet", &ConnectEnter{
			Fd:   i64p(5),
			Addr: &fields.SockAddr{Family: fields.AfInet, IP: []byte{10, 0, 0, 1}, Port: 443},
		}},
		{"bind_x unix", &BindExit{
			Res:  i64p(0),
			Addr: &fields.SockAddr{Family: fields.AfUnix, Path: fields.CharBuf("/run/app.sock")},
		}},
		{"execve_x", &ExecveExit{
			Res:  i64p(0),
			Exe:  fields.CharBuf("/usr/bin/id"),
			Args: []fields.CharBuf{fields.CharBuf("id"), fields.CharBuf("-u")},
			Tid:  i64p(4321),
			Pid:  i64p(4321),
			Ptid: i64p(1),
			Cwd:  fields.CharBuf("/home/user"),
			Comm: fields.CharBuf("id"),
			Env:  []fields.CharBuf{fields.CharBuf("HOME=/home/user")},
		}},
		{"clone_x", &CloneExit{
			Res:   i64p(0),
			Exe:   fields.CharBuf("/bin/sh"),
			Args:  []fields.CharBuf{fields.CharBuf("sh")},
			Tid:   i64p(100),
			Pid:   i64p(100),
			Ptid:  i64p(99),
			Flags: cloneFlagsP(fields.CloneFiles | fields.CloneVm),
		}},
		{"chdir_x", &ChdirExit{Res: i64p(0), Path: fields.FsPath("/srv")}},
		{"setsockopt_e", &SetsockoptEnter{
			Fd:      i64p(8),
			Level:   levelP(fields.SolSocket),
			Optname: nameP(fields.SoRcvtimeo),
			Val:     fields.SockoptInterval(1500000000),
			Optlen:  u32p(16),
		}},
		{"procexit_e", &ProcexitEnter{Status: i64p(0)}},
		{"setresuid_e", &SetresuidEnter{Ruid: u32p(1000), Euid: u32p(0), Suid: u32p(0)}},
		{"nanosleep_e", &NanosleepEnter{Interval: relTimeP(250000000)}},
	}

	for _, tt := range tests {
		got := roundTrip(t, tt.p)
		if !reflect.DeepEqual(got, tt.p) {
			t.Errorf("%s: round trip mismatch\n got %#v\nwant %#v", tt.name, got, tt.p)
		}
	}
}

func levelP(v fields.SockoptLevel) *fields.SockoptLevel { return &v }
func nameP(v fields.SockoptName) *fields.SockoptName    { return &v }
func relTimeP(v fields.RelTime) *fields.RelTime         { return &v }

// Unknown flag bits must survive decode then encode untouched: producers may
// be newer than this schema.
func TestUnknownFlagBitsPreserved(t *testing.T) {
	const future = uint32(1) << 30
	buf := mkEvent(1, 2, schema.OpenE, 1, [][]byte{
		append([]byte("/f"), 0),
		le32(uint32(fields.ORdonly) | future),
		le32(0),
	})
	raw, err := NewRawEvent(buf)
	if err != nil {
		t.Fatalf("NewRawEvent: %v", err)
	}
	var e OpenEnter
	if err := e.Decode(raw); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if uint32(*e.Flags)&future == 0 {
		t.Fatalf("future bit lost on decode")
	}

	var out bytes.Buffer
	if err := e.EncodeTo(&out, Metadata{Ts: 1, Tid: 2}); err != nil {
		t.Fatalf("EncodeTo: %v", err)
	}
	if !bytes.Equal(out.Bytes(), buf) {
		t.Errorf("future bit not preserved through re-encode")
	}
}

// Closed flag-sets decode unrecognized values without error, but report them
// as not known. Values above one byte must neither alias into a known family
// nor change on re-encode.
func TestFlagSetUnrecognizedValue(t *testing.T) {
	tests := []struct {
		name   string
		domain uint32
	}{
		{"small", 99},
		{"wide", 258}, // low byte alone would read as AF_INET
	}
	for _, tt := range tests {
		buf := mkEvent(1, 2, schema.SocketE, 0, [][]byte{le32(tt.domain), le32(1), le32(0)})
		raw, err := NewRawEvent(buf)
		if err != nil {
			t.Fatalf("%s: NewRawEvent: %v", tt.name, err)
		}
		var e SocketEnter
		if err := e.Decode(raw); err != nil {
			t.Fatalf("%s: Decode: %v", tt.name, err)
		}
		if e.Domain == nil || e.Domain.Known() {
			t.Errorf("%s: domain = %v, want unrecognized value", tt.name, e.Domain)
		}
		if uint32(*e.Domain) != tt.domain {
			t.Errorf("%s: raw domain = %d, want %d", tt.name, uint32(*e.Domain), tt.domain)
		}

		var out bytes.Buffer
		if err := e.EncodeTo(&out, Metadata{Ts: 1, Tid: 2}); err != nil {
			t.Fatalf("%s: EncodeTo: %v", tt.name, err)
		}
		if !bytes.Equal(out.Bytes(), buf) {
			t.Errorf("%s: unrecognized domain not preserved through re-encode", tt.name)
		}
	}
}

// A fixed-layout kind cannot carry an absent interior field; encoding one
// reports the size mismatch rather than a missing parameter.
func TestEncodeFixedLayoutBadParamSize(t *testing.T) {
	e := &SetresuidEnter{Ruid: u32p(1000), Suid: u32p(1000)} // euid absent
	var out bytes.Buffer
	err := e.EncodeTo(&out, Metadata{})
	if !errors.Is(err, ErrBadParamSize) {
		t.Fatalf("got %v, want ErrBadParamSize", err)
	}
}

func TestEncodeBackfillsLength(t *testing.T) {
	e := &ReadExit{Res: i64p(3), Data: fields.ByteBuf("abc")}
	var out bytes.Buffer
	if err := e.EncodeTo(&out, Metadata{}); err != nil {
		t.Fatalf("EncodeTo: %v", err)
	}
	b := out.Bytes()
	declared := binary.LittleEndian.Uint32(b[16:20])
	if int(declared) != len(b) {
		t.Errorf("declared length %d, buffer %d", declared, len(b))
	}
}

func TestEncodeOmitsTrailingAbsent(t *testing.T) {
	e := &OpenExit{
		Fd:    i64p(3),
		Name:  fields.FsPath("/a"),
		Flags: openFlagsP(0),
		Mode:  u32p(0),
	}
	var out bytes.Buffer
	if err := e.EncodeTo(&out, Metadata{}); err != nil {
		t.Fatalf("EncodeTo: %v", err)
	}
	nparams := binary.LittleEndian.Uint16(out.Bytes()[22:24])
	if nparams != 4 {
		t.Errorf("nparams = %d, want 4 with dev/ino omitted", nparams)
	}
}

// An absent optional field sitting before a present one is carried as a
// zero-length parameter and comes back absent.
func TestInteriorAbsentRoundTrip(t *testing.T) {
	e := &OpenExit{
		Fd:    i64p(3),
		Name:  fields.FsPath("/a"),
		Flags: openFlagsP(0),
		Mode:  u32p(0),
		Ino:   u64p(42), // dev stays absent
	}
	got := roundTrip(t, e).(*OpenExit)
	if got.Dev != nil {
		t.Errorf("dev = %v, want absent", got.Dev)
	}
	if got.Ino == nil || *got.Ino != 42 {
		t.Errorf("ino = %v, want 42", got.Ino)
	}
}

func TestEncodeParamTooLong(t *testing.T) {
	// open_e uses one-byte lengths; a 300-byte path cannot be encoded.
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	e := &OpenEnter{Name: fields.FsPath(long), Flags: openFlagsP(0), Mode: u32p(0)}
	var out bytes.Buffer
	if err := e.EncodeTo(&out, Metadata{}); !errors.Is(err, ErrParamTooLong) {
		t.Errorf("got %v, want ErrParamTooLong", err)
	}
}

// decode(encode(decode(bytes))) == decode(bytes) for a buffer with data the
// schema does not fully describe (unknown flag bits, unrecognized enum).
func TestDoubleDecodeStability(t *testing.T) {
	buf := mkEvent(5, 6, schema.SocketE, 0, [][]byte{le32(77), le32(2), le32(0)})
	raw, _ := NewRawEvent(buf)
	first, err := DecodeAny(raw)
	if err != nil {
		t.Fatalf("DecodeAny: %v", err)
	}

	var rebuf bytes.Buffer
	if err := first.EncodeTo(&rebuf); err != nil {
		t.Fatalf("EncodeTo: %v", err)
	}
	reraw, err := NewRawEvent(rebuf.Bytes())
	if err != nil {
		t.Fatalf("reframe: %v", err)
	}
	second, err := DecodeAny(reraw)
	if err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if !reflect.DeepEqual(first.Payload, second.Payload) {
		t.Errorf("payload changed across re-encode:\n first %#v\nsecond %#v", first.Payload, second.Payload)
	}
}
