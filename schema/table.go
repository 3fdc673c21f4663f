// Package schema holds the static, per-event-kind metadata the codec decodes
// against: the numeric event type ids, the ordered field descriptors for each
// kind, and the parameter length-table format each kind uses on the wire.
//
// The table is built once at init and never mutated, so lookups are safe from
// any goroutine without locking.
package schema

// EventType identifies one event kind. Enter events are even, the matching
// exit events odd, following the producer's numbering convention.
type EventType uint16

const (
	GenericE    EventType = 0
	GenericX    EventType = 1
	OpenE       EventType = 2
	OpenX       EventType = 3
	CloseE      EventType = 4
	CloseX      EventType = 5
	ReadE       EventType = 6
	ReadX       EventType = 7
	WriteE      EventType = 8
	WriteX      EventType = 9
	SocketE     EventType = 10
	SocketX     EventType = 11
	ConnectE    EventType = 12
	ConnectX    EventType = 13
	BindE       EventType = 14
	BindX       EventType = 15
	ExecveE     EventType = 16
	ExecveX     EventType = 17
	CloneE      EventType = 18
	CloneX      EventType = 19
	ChdirE      EventType = 20
	ChdirX      EventType = 21
	SetsockoptE EventType = 22
	SetsockoptX EventType = 23
	ProcexitE   EventType = 24
	SetresuidE  EventType = 25
	SetresuidX  EventType = 26
	NanosleepE  EventType = 27
	NanosleepX  EventType = 28

	// NumEventTypes is one past the highest assigned event type.
	NumEventTypes EventType = 29
)

// FieldClass is the declared type of one field descriptor. It selects the
// decode/encode routine from the field type library and, for fixed-width
// classes, the static size used by fixed-layout events.
type FieldClass uint8

const (
	ClassUint8 FieldClass = iota
	ClassUint16
	ClassUint32
	ClassUint64
	ClassInt8
	ClassInt16
	ClassInt32
	ClassInt64
	ClassFd        // file descriptor, signed 64-bit
	ClassErrno     // syscall result, signed 64-bit
	ClassSyscallID // native syscall number, 16-bit
	ClassByteBuf
	ClassCharBuf
	ClassFsPath
	ClassCharBufArray
	ClassRelTime
	ClassAbsTime
	ClassOpenFlags
	ClassCloneFlags
	ClassSockFamily
	ClassSockoptLevel
	ClassSockoptName
	ClassSockAddr
	ClassSockoptVal
)

// FixedSize returns the on-wire size of the class and true when it is
// statically known. Variable-size classes return false and may only appear
// in events that carry a parameter length table.
func (c FieldClass) FixedSize() (int, bool) {
	switch c {
	case ClassUint8, ClassInt8, ClassSockoptLevel, ClassSockoptName:
		return 1, true
	case ClassUint16, ClassInt16, ClassSyscallID:
		return 2, true
	case ClassUint32, ClassInt32, ClassOpenFlags, ClassCloneFlags, ClassSockFamily:
		return 4, true
	case ClassUint64, ClassInt64, ClassFd, ClassErrno, ClassRelTime, ClassAbsTime:
		return 8, true
	default:
		return 0, false
	}
}

// LenTable is the parameter length-table format of one event kind.
type LenTable uint8

const (
	// LenNone means the event has a fixed layout: every field has a static
	// size and no length table is written.
	LenNone LenTable = iota
	// LenSmall means one length byte per parameter.
	LenSmall
	// LenLarge means two length bytes per parameter, for events that can
	// carry parameters longer than 255 bytes.
	LenLarge
)

// Width returns the per-parameter length-table overhead in bytes.
func (l LenTable) Width() int {
	switch l {
	case LenSmall:
		return 1
	case LenLarge:
		return 2
	default:
		return 0
	}
}

// Field describes one parameter of an event kind.
type Field struct {
	Name  string
	Class FieldClass

	// Optional marks a tail field that older producers may omit. Decoding
	// treats a missing or empty parameter for an optional field as absent;
	// for a non-optional field it is an error.
	Optional bool
}

// Entry is the full schema row for one event kind.
type Entry struct {
	Type     EventType
	Name     string
	LenTable LenTable
	Fields   []Field
}

var entries = []Entry{
	{GenericE, "generic_e", LenNone, []Field{
		{Name: "id", Class: ClassSyscallID},
		{Name: "native_id", Class: ClassSyscallID},
	}},
	{GenericX, "generic_x", LenNone, []Field{
		{Name: "id", Class: ClassSyscallID},
	}},
	{OpenE, "open_e", LenSmall, []Field{
		{Name: "name", Class: ClassFsPath},
		{Name: "flags", Class: ClassOpenFlags},
		{Name: "mode", Class: ClassUint32},
	}},
	{OpenX, "open_x", LenSmall, []Field{
		{Name: "fd", Class: ClassFd},
		{Name: "name", Class: ClassFsPath},
		{Name: "flags", Class: ClassOpenFlags},
		{Name: "mode", Class: ClassUint32},
		{Name: "dev", Class: ClassUint32, Optional: true},
		{Name: "ino", Class: ClassUint64, Optional: true},
	}},
	{CloseE, "close_e", LenNone, []Field{
		{Name: "fd", Class: ClassFd},
	}},
	{CloseX, "close_x", LenNone, []Field{
		{Name: "res", Class: ClassErrno},
	}},
	{ReadE, "read_e", LenNone, []Field{
		{Name: "fd", Class: ClassFd},
		{Name: "size", Class: ClassUint32},
	}},
	{ReadX, "read_x", LenLarge, []Field{
		{Name: "res", Class: ClassErrno},
		{Name: "data", Class: ClassByteBuf},
	}},
	{WriteE, "write_e", LenNone, []Field{
		{Name: "fd", Class: ClassFd},
		{Name: "size", Class: ClassUint32},
	}},
	{WriteX, "write_x", LenLarge, []Field{
		{Name: "res", Class: ClassErrno},
		{Name: "data", Class: ClassByteBuf},
	}},
	{SocketE, "socket_e", LenNone, []Field{
		{Name: "domain", Class: ClassSockFamily},
		{Name: "type", Class: ClassUint32},
		{Name: "proto", Class: ClassUint32},
	}},
	{SocketX, "socket_x", LenNone, []Field{
		{Name: "fd", Class: ClassFd},
	}},
	{ConnectE, "connect_e", LenSmall, []Field{
		{Name: "fd", Class: ClassFd},
		{Name: "addr", Class: ClassSockAddr},
	}},
	{ConnectX, "connect_x", LenSmall, []Field{
		{Name: "res", Class: ClassErrno},
		{Name: "addr", Class: ClassSockAddr, Optional: true},
	}},
	{BindE, "bind_e", LenNone, []Field{
		{Name: "fd", Class: ClassFd},
	}},
	{BindX, "bind_x", LenSmall, []Field{
		{Name: "res", Class: ClassErrno},
		{Name: "addr", Class: ClassSockAddr, Optional: true},
	}},
	{ExecveE, "execve_e", LenSmall, []Field{
		{Name: "filename", Class: ClassFsPath},
	}},
	{ExecveX, "execve_x", LenLarge, []Field{
		{Name: "res", Class: ClassErrno},
		{Name: "exe", Class: ClassCharBuf},
		{Name: "args", Class: ClassCharBufArray},
		{Name: "tid", Class: ClassInt64},
		{Name: "pid", Class: ClassInt64},
		{Name: "ptid", Class: ClassInt64},
		{Name: "cwd", Class: ClassCharBuf, Optional: true},
		{Name: "comm", Class: ClassCharBuf, Optional: true},
		{Name: "env", Class: ClassCharBufArray, Optional: true},
	}},
	{CloneE, "clone_e", LenNone, nil},
	{CloneX, "clone_x", LenLarge, []Field{
		{Name: "res", Class: ClassErrno},
		{Name: "exe", Class: ClassCharBuf},
		{Name: "args", Class: ClassCharBufArray},
		{Name: "tid", Class: ClassInt64},
		{Name: "pid", Class: ClassInt64},
		{Name: "ptid", Class: ClassInt64},
		{Name: "flags", Class: ClassCloneFlags, Optional: true},
	}},
	{ChdirE, "chdir_e", LenNone, nil},
	{ChdirX, "chdir_x", LenSmall, []Field{
		{Name: "res", Class: ClassErrno},
		{Name: "path", Class: ClassFsPath},
	}},
	{SetsockoptE, "setsockopt_e", LenSmall, []Field{
		{Name: "fd", Class: ClassFd},
		{Name: "level", Class: ClassSockoptLevel},
		{Name: "optname", Class: ClassSockoptName},
		{Name: "val", Class: ClassSockoptVal},
		{Name: "optlen", Class: ClassUint32, Optional: true},
	}},
	{SetsockoptX, "setsockopt_x", LenNone, []Field{
		{Name: "res", Class: ClassErrno},
	}},
	{ProcexitE, "procexit_e", LenNone, []Field{
		{Name: "status", Class: ClassErrno},
	}},
	{SetresuidE, "setresuid_e", LenNone, []Field{
		{Name: "ruid", Class: ClassUint32},
		{Name: "euid", Class: ClassUint32},
		{Name: "suid", Class: ClassUint32},
	}},
	{SetresuidX, "setresuid_x", LenNone, []Field{
		{Name: "res", Class: ClassErrno},
	}},
	{NanosleepE, "nanosleep_e", LenNone, []Field{
		{Name: "interval", Class: ClassRelTime},
	}},
	{NanosleepX, "nanosleep_x", LenNone, []Field{
		{Name: "res", Class: ClassErrno},
	}},
}

var table [NumEventTypes]*Entry

func init() {
	for i := range entries {
		e := &entries[i]
		if table[e.Type] != nil {
			panic("schema: duplicate event type " + e.Name)
		}
		for _, f := range e.Fields {
			if _, fixed := f.Class.FixedSize(); !fixed && e.LenTable == LenNone {
				panic("schema: variable field " + f.Name + " in fixed-layout event " + e.Name)
			}
		}
		table[e.Type] = e
	}
}

// Lookup returns the schema entry for an event type, or nil when the type is
// not known to this build.
func Lookup(t EventType) *Entry {
	if t >= NumEventTypes {
		return nil
	}
	return table[t]
}

// Name returns the schema name of an event type, or "unknown" for types
// outside the table.
func Name(t EventType) string {
	if e := Lookup(t); e != nil {
		return e.Name
	}
	return "unknown"
}
