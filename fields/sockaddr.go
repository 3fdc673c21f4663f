package fields

import (
	"fmt"
	"io"
	"net"
)

// SockAddr is a socket address parameter: a one-byte family followed by a
// family-specific payload. Unknown families are carried as raw bytes so they
// survive re-encoding.
type SockAddr struct {
	Family SockFamily

	// AF_INET / AF_INET6
	IP   net.IP
	Port uint16

	// AF_UNIX
	Path CharBuf

	// unrecognized family payload
	Raw ByteBuf
}

func DecodeSockAddr(b []byte, lossy bool) (*SockAddr, error) {
	if len(b) < 1 {
		return nil, ErrBufTooShort
	}
	sa := &SockAddr{Family: SockFamily(b[0])}
	rest := b[1:]

	switch sa.Family {
	case AfInet:
		if len(rest) < 6 {
			return nil, ErrBufTooShort
		}
		sa.IP = net.IPv4(rest[0], rest[1], rest[2], rest[3]).To4()
		port, _ := DecodeUint16(rest[4:6])
		sa.Port = port
	case AfInet6:
		if len(rest) < 18 {
			return nil, ErrBufTooShort
		}
		sa.IP = net.IP(rest[:16])
		port, _ := DecodeUint16(rest[16:18])
		sa.Port = port
	case AfUnix:
		path, err := DecodeCharBuf(rest, lossy)
		if err != nil {
			return nil, err
		}
		sa.Path = path
	default:
		sa.Raw = ByteBuf(rest)
	}
	return sa, nil
}

func EncodeSockAddr(w io.Writer, sa *SockAddr) error {
	if err := EncodeUint8(w, uint8(sa.Family)); err != nil {
		return err
	}
	switch sa.Family {
	case AfInet:
		if _, err := w.Write(sa.IP.To4()); err != nil {
			return err
		}
		return EncodeUint16(w, sa.Port)
	case AfInet6:
		if _, err := w.Write(sa.IP.To16()); err != nil {
			return err
		}
		return EncodeUint16(w, sa.Port)
	case AfUnix:
		return EncodeCharBuf(w, sa.Path)
	default:
		return EncodeByteBuf(w, sa.Raw)
	}
}

// SockAddrSize is the encoded size of a socket address.
func SockAddrSize(sa *SockAddr) int {
	switch sa.Family {
	case AfInet:
		return 1 + 4 + 2
	case AfInet6:
		return 1 + 16 + 2
	case AfUnix:
		return 1 + CharBufSize(sa.Path)
	default:
		return 1 + len(sa.Raw)
	}
}

func (sa *SockAddr) String() string {
	switch sa.Family {
	case AfInet, AfInet6:
		return fmt.Sprintf("%s:%d", sa.IP, sa.Port)
	case AfUnix:
		return sa.Path.String()
	default:
		return fmt.Sprintf("%s(%d bytes)", sa.Family, len(sa.Raw))
	}
}
