package events

import (
	"fmt"
	"io"

	"scap-recorder/schema"
)

// RawEvent is a framed but not yet decoded event: the parsed header plus a
// zero-copy view of the parameter bytes. It owns no data; its lifetime is
// bounded by the buffer it was framed from.
type RawEvent struct {
	Header

	// LossyStrings makes string decoding substitute U+FFFD for invalid
	// UTF-8 instead of failing. Off by default.
	LossyStrings bool

	payload []byte
}

// NewRawEvent frames a buffer into a raw event. The declared length is
// treated as a hint and cross-checked against the buffer: it must cover at
// least the header and at most the buffer, since callers may over-allocate
// or under-deliver. Event types without a schema entry are accepted here and
// surface as an unknown kind downstream.
func NewRawEvent(buf []byte) (*RawEvent, error) {
	return newRawEvent(buf, false)
}

// NewRawEventStrict frames like NewRawEvent but additionally rejects event
// types that have no schema entry with ErrUnknownEventType.
func NewRawEventStrict(buf []byte) (*RawEvent, error) {
	return newRawEvent(buf, true)
}

func newRawEvent(buf []byte, strict bool) (*RawEvent, error) {
	if len(buf) < HeaderSize {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", ErrTooShort, len(buf), HeaderSize)
	}
	h := decodeHeader(buf)
	if h.Len < HeaderSize || int(h.Len) > len(buf) {
		return nil, fmt.Errorf("%w: declared %d, buffer %d", ErrLengthMismatch, h.Len, len(buf))
	}
	if strict && schema.Lookup(h.Type) == nil {
		return nil, fmt.Errorf("%w: type %d", ErrUnknownEventType, h.Type)
	}
	return &RawEvent{Header: h, payload: buf[HeaderSize:h.Len]}, nil
}

// Payload returns the unparsed parameter bytes (length table included).
func (r *RawEvent) Payload() []byte {
	return r.payload
}

// EncodeTo re-emits the event exactly as framed: header then payload bytes,
// untouched. Unknown kinds forward losslessly this way.
func (r *RawEvent) EncodeTo(w io.Writer) error {
	if err := r.Header.encodeTo(w); err != nil {
		return err
	}
	_, err := w.Write(r.payload)
	return err
}

// splitParams slices the payload into one byte range per parameter using the
// entry's length-table format. The table overhead plus the sum of all
// parameter lengths must consume the payload exactly; any shortfall or
// excess is a decode failure, never a silent truncation.
func (r *RawEvent) splitParams(entry *schema.Entry) ([][]byte, error) {
	n := int(r.NParams)
	payload := r.payload

	if entry.LenTable == schema.LenNone {
		// Fixed layout: parameter sizes come from the schema itself.
		if n > len(entry.Fields) {
			return nil, fmt.Errorf("%w: %d params for fixed layout with %d fields",
				ErrParamCountMismatch, n, len(entry.Fields))
		}
		params := make([][]byte, n)
		off := 0
		for i := 0; i < n; i++ {
			size, _ := entry.Fields[i].Class.FixedSize()
			if off+size > len(payload) {
				return nil, fmt.Errorf("%w: payload ends inside parameter %d",
					ErrParamCountMismatch, i)
			}
			params[i] = payload[off : off+size]
			off += size
		}
		if off != len(payload) {
			return nil, fmt.Errorf("%w: %d payload bytes left over",
				ErrParamCountMismatch, len(payload)-off)
		}
		return params, nil
	}

	width := entry.LenTable.Width()
	tableLen := n * width
	if tableLen > len(payload) {
		return nil, fmt.Errorf("%w: payload shorter than length table",
			ErrParamCountMismatch)
	}
	table := payload[:tableLen]
	data := payload[tableLen:]

	params := make([][]byte, n)
	off := 0
	for i := 0; i < n; i++ {
		var plen int
		if width == 1 {
			plen = int(table[i])
		} else {
			plen = int(uint16(table[2*i]) | uint16(table[2*i+1])<<8)
		}
		if off+plen > len(data) {
			return nil, fmt.Errorf("%w: payload ends inside parameter %d",
				ErrParamCountMismatch, i)
		}
		params[i] = data[off : off+plen]
		off += plen
	}
	if off != len(data) {
		return nil, fmt.Errorf("%w: %d payload bytes left over",
			ErrParamCountMismatch, len(data)-off)
	}
	return params, nil
}
