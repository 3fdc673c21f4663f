package fields

import (
	"fmt"
	"io"
	"strings"
)

// Bit-flags types hold an open set of independently meaningful bits. The raw
// value is stored as-is, so bits newer than this table survive a
// decode/encode round trip untouched.

type flagName struct {
	mask uint32
	name string
}

func flagString(v uint32, names []flagName) string {
	if v == 0 {
		return "0"
	}
	var parts []string
	rest := v
	for _, fn := range names {
		if v&fn.mask == fn.mask && fn.mask != 0 {
			parts = append(parts, fn.name)
			rest &^= fn.mask
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", rest))
	}
	return strings.Join(parts, "|")
}

// OpenFlags are the open(2) flags as normalized by the capture producer.
type OpenFlags uint32

const (
	ORdonly    OpenFlags = 1 << 0
	OWronly    OpenFlags = 1 << 1
	OCreat     OpenFlags = 1 << 2
	OAppend    OpenFlags = 1 << 3
	ODsync     OpenFlags = 1 << 4
	OExcl      OpenFlags = 1 << 5
	ONonblock  OpenFlags = 1 << 6
	OSync      OpenFlags = 1 << 7
	OTrunc     OpenFlags = 1 << 8
	ODirect    OpenFlags = 1 << 9
	ODirectory OpenFlags = 1 << 10
	OLargefile OpenFlags = 1 << 11
	OCloexec   OpenFlags = 1 << 12
	OTmpfile   OpenFlags = 1 << 13
)

var openFlagNames = []flagName{
	{uint32(ORdonly), "O_RDONLY"},
	{uint32(OWronly), "O_WRONLY"},
	{uint32(OCreat), "O_CREAT"},
	{uint32(OAppend), "O_APPEND"},
	{uint32(ODsync), "O_DSYNC"},
	{uint32(OExcl), "O_EXCL"},
	{uint32(ONonblock), "O_NONBLOCK"},
	{uint32(OSync), "O_SYNC"},
	{uint32(OTrunc), "O_TRUNC"},
	{uint32(ODirect), "O_DIRECT"},
	{uint32(ODirectory), "O_DIRECTORY"},
	{uint32(OLargefile), "O_LARGEFILE"},
	{uint32(OCloexec), "O_CLOEXEC"},
	{uint32(OTmpfile), "O_TMPFILE"},
}

func DecodeOpenFlags(b []byte) (OpenFlags, error) {
	v, err := DecodeUint32(b)
	return OpenFlags(v), err
}

func EncodeOpenFlags(w io.Writer, v OpenFlags) error {
	return EncodeUint32(w, uint32(v))
}

func (f OpenFlags) String() string {
	return flagString(uint32(f), openFlagNames)
}

// CloneFlags are the clone(2) flags as normalized by the capture producer.
type CloneFlags uint32

const (
	CloneFiles         CloneFlags = 1 << 0
	CloneFs            CloneFlags = 1 << 1
	CloneIo            CloneFlags = 1 << 2
	CloneNewIpc        CloneFlags = 1 << 3
	CloneNewNet        CloneFlags = 1 << 4
	CloneNewNs         CloneFlags = 1 << 5
	CloneNewPid        CloneFlags = 1 << 6
	CloneNewUts        CloneFlags = 1 << 7
	CloneParent        CloneFlags = 1 << 8
	CloneParentSettid  CloneFlags = 1 << 9
	ClonePtrace        CloneFlags = 1 << 10
	CloneSighand       CloneFlags = 1 << 11
	CloneSysvsem       CloneFlags = 1 << 12
	CloneThread        CloneFlags = 1 << 13
	CloneUntraced      CloneFlags = 1 << 14
	CloneVfork         CloneFlags = 1 << 15
	CloneVm            CloneFlags = 1 << 16
	CloneNewUser       CloneFlags = 1 << 17
	CloneChildCleartid CloneFlags = 1 << 18
	CloneChildSettid   CloneFlags = 1 << 19
)

var cloneFlagNames = []flagName{
	{uint32(CloneFiles), "CLONE_FILES"},
	{uint32(CloneFs), "CLONE_FS"},
	{uint32(CloneIo), "CLONE_IO"},
	{uint32(CloneNewIpc), "CLONE_NEWIPC"},
	{uint32(CloneNewNet), "CLONE_NEWNET"},
	{uint32(CloneNewNs), "CLONE_NEWNS"},
	{uint32(CloneNewPid), "CLONE_NEWPID"},
	{uint32(CloneNewUts), "CLONE_NEWUTS"},
	{uint32(CloneParent), "CLONE_PARENT"},
	{uint32(CloneParentSettid), "CLONE_PARENT_SETTID"},
	{uint32(ClonePtrace), "CLONE_PTRACE"},
	{uint32(CloneSighand), "CLONE_SIGHAND"},
	{uint32(CloneSysvsem), "CLONE_SYSVSEM"},
	{uint32(CloneThread), "CLONE_THREAD"},
	{uint32(CloneUntraced), "CLONE_UNTRACED"},
	{uint32(CloneVfork), "CLONE_VFORK"},
	{uint32(CloneVm), "CLONE_VM"},
	{uint32(CloneNewUser), "CLONE_NEWUSER"},
	{uint32(CloneChildCleartid), "CLONE_CHILD_CLEARTID"},
	{uint32(CloneChildSettid), "CLONE_CHILD_SETTID"},
}

func DecodeCloneFlags(b []byte) (CloneFlags, error) {
	v, err := DecodeUint32(b)
	return CloneFlags(v), err
}

func EncodeCloneFlags(w io.Writer, v CloneFlags) error {
	return EncodeUint32(w, uint32(v))
}

func (f CloneFlags) String() string {
	return flagString(uint32(f), cloneFlagNames)
}

// Flag-set types hold exactly one value from a closed enumeration. A value
// outside the table decodes without error but reports Known() == false, since
// producers may be newer than this schema.

// SockFamily is a socket address family. It is 4 bytes on the wire as an
// event parameter; inside a socket address it is packed into one byte, which
// the sockaddr codec handles itself.
type SockFamily uint32

const (
	AfUnspec SockFamily = 0
	AfUnix   SockFamily = 1
	AfInet   SockFamily = 2
	AfInet6  SockFamily = 10
)

var sockFamilyNames = map[SockFamily]string{
	AfUnspec: "AF_UNSPEC",
	AfUnix:   "AF_UNIX",
	AfInet:   "AF_INET",
	AfInet6:  "AF_INET6",
}

func DecodeSockFamily(b []byte) (SockFamily, error) {
	v, err := DecodeUint32(b)
	return SockFamily(v), err
}

func EncodeSockFamily(w io.Writer, v SockFamily) error {
	return EncodeUint32(w, uint32(v))
}

func (f SockFamily) Known() bool {
	_, ok := sockFamilyNames[f]
	return ok
}

func (f SockFamily) String() string {
	if name, ok := sockFamilyNames[f]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint32(f))
}

// SockoptLevel is the normalized setsockopt(2) level.
type SockoptLevel uint8

const (
	SockoptLevelUnknown SockoptLevel = 0
	SolSocket           SockoptLevel = 1
	SolTcp              SockoptLevel = 2
	SolIp               SockoptLevel = 3
	SolIpv6             SockoptLevel = 4
)

var sockoptLevelNames = map[SockoptLevel]string{
	SockoptLevelUnknown: "UNKNOWN",
	SolSocket:           "SOL_SOCKET",
	SolTcp:              "SOL_TCP",
	SolIp:               "SOL_IP",
	SolIpv6:             "SOL_IPV6",
}

func DecodeSockoptLevel(b []byte) (SockoptLevel, error) {
	v, err := DecodeUint8(b)
	return SockoptLevel(v), err
}

func EncodeSockoptLevel(w io.Writer, v SockoptLevel) error {
	return EncodeUint8(w, uint8(v))
}

func (l SockoptLevel) Known() bool {
	_, ok := sockoptLevelNames[l]
	return ok
}

func (l SockoptLevel) String() string {
	if name, ok := sockoptLevelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(l))
}

// SockoptName is the normalized setsockopt(2) option name.
type SockoptName uint8

const (
	SockoptNameUnknown SockoptName = 0
	SoDebug            SockoptName = 1
	SoReuseaddr        SockoptName = 2
	SoType             SockoptName = 3
	SoError            SockoptName = 4
	SoDontroute        SockoptName = 5
	SoBroadcast        SockoptName = 6
	SoSndbuf           SockoptName = 7
	SoRcvbuf           SockoptName = 8
	SoKeepalive        SockoptName = 9
	SoOobinline        SockoptName = 10
	SoLinger           SockoptName = 11
	SoRcvtimeo         SockoptName = 12
	SoSndtimeo         SockoptName = 13
)

var sockoptNameNames = map[SockoptName]string{
	SockoptNameUnknown: "UNKNOWN",
	SoDebug:            "SO_DEBUG",
	SoReuseaddr:        "SO_REUSEADDR",
	SoType:             "SO_TYPE",
	SoError:            "SO_ERROR",
	SoDontroute:        "SO_DONTROUTE",
	SoBroadcast:        "SO_BROADCAST",
	SoSndbuf:           "SO_SNDBUF",
	SoRcvbuf:           "SO_RCVBUF",
	SoKeepalive:        "SO_KEEPALIVE",
	SoOobinline:        "SO_OOBINLINE",
	SoLinger:           "SO_LINGER",
	SoRcvtimeo:         "SO_RCVTIMEO",
	SoSndtimeo:         "SO_SNDTIMEO",
}

func DecodeSockoptName(b []byte) (SockoptName, error) {
	v, err := DecodeUint8(b)
	return SockoptName(v), err
}

func EncodeSockoptName(w io.Writer, v SockoptName) error {
	return EncodeUint8(w, uint8(v))
}

func (n SockoptName) Known() bool {
	_, ok := sockoptNameNames[n]
	return ok
}

func (n SockoptName) String() string {
	if name, ok := sockoptNameNames[n]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(n))
}
