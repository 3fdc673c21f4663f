// Package events implements the event codec: framing raw byte buffers into
// events, decoding them into typed per-kind structs against the schema table,
// and encoding events back to the identical wire layout.
//
// The codec is stateless. Decoded events borrow from the buffer they were
// decoded from and must not outlive it; the codec itself holds nothing
// between calls, so any number of goroutines may decode independent buffers
// concurrently.
package events

import (
	"encoding/binary"
	"io"
	"time"

	"scap-recorder/schema"
)

// HeaderSize is the fixed on-wire header size.
const HeaderSize = 24

// Header is the fixed-size record in front of every event.
//
// Wire layout, little-endian:
//
//	timestamp  u64  nanoseconds since the epoch
//	tid        u64  thread id of the acting thread
//	len        u32  total event length, header and parameters included
//	type       u16  event type id
//	nparams    u16  number of parameters that follow
type Header struct {
	Ts      uint64
	Tid     uint64
	Len     uint32
	Type    schema.EventType
	NParams uint16
}

func decodeHeader(b []byte) Header {
	return Header{
		Ts:      binary.LittleEndian.Uint64(b[0:8]),
		Tid:     binary.LittleEndian.Uint64(b[8:16]),
		Len:     binary.LittleEndian.Uint32(b[16:20]),
		Type:    schema.EventType(binary.LittleEndian.Uint16(b[20:22])),
		NParams: binary.LittleEndian.Uint16(b[22:24]),
	}
}

func (h Header) encodeTo(w io.Writer) error {
	var buf [HeaderSize]byte
	binary.LittleEndian.PutUint64(buf[0:8], h.Ts)
	binary.LittleEndian.PutUint64(buf[8:16], h.Tid)
	binary.LittleEndian.PutUint32(buf[16:20], h.Len)
	binary.LittleEndian.PutUint16(buf[20:22], uint16(h.Type))
	binary.LittleEndian.PutUint16(buf[22:24], h.NParams)
	_, err := w.Write(buf[:])
	return err
}

// Time converts the header timestamp to wall-clock time.
func (h Header) Time() time.Time {
	return time.Unix(0, int64(h.Ts))
}

// Metadata is the event envelope a typed payload is encoded under: the two
// header fields that are not derived from the payload itself.
type Metadata struct {
	Ts  uint64
	Tid uint64
}
