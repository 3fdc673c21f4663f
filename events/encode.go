package events

import (
	"bytes"
	"fmt"
	"io"

	"scap-recorder/fields"
	"scap-recorder/schema"
)

// paramBuf accumulates one encoded byte slice per parameter, in schema
// order. A nil slice marks an absent field: absent trailing fields are
// dropped from the event, absent interior fields become zero-length
// parameters, matching what the decoder reads back as absent.
type paramBuf struct {
	params [][]byte
}

func (p *paramBuf) raw(b []byte) {
	p.params = append(p.params, b)
}

func (p *paramBuf) absent() {
	p.params = append(p.params, nil)
}

func (p *paramBuf) uint16Field(v *uint16) {
	if v == nil {
		p.absent()
		return
	}
	var buf bytes.Buffer
	fields.EncodeUint16(&buf, *v)
	p.raw(buf.Bytes())
}

func (p *paramBuf) uint32Field(v *uint32) {
	if v == nil {
		p.absent()
		return
	}
	var buf bytes.Buffer
	fields.EncodeUint32(&buf, *v)
	p.raw(buf.Bytes())
}

func (p *paramBuf) uint64Field(v *uint64) {
	if v == nil {
		p.absent()
		return
	}
	var buf bytes.Buffer
	fields.EncodeUint64(&buf, *v)
	p.raw(buf.Bytes())
}

func (p *paramBuf) int64Field(v *int64) {
	if v == nil {
		p.absent()
		return
	}
	var buf bytes.Buffer
	fields.EncodeInt64(&buf, *v)
	p.raw(buf.Bytes())
}

func (p *paramBuf) byteBufField(v fields.ByteBuf) {
	if v == nil {
		p.absent()
		return
	}
	p.raw(v)
}

func (p *paramBuf) charBufField(v fields.CharBuf) {
	if v == nil {
		p.absent()
		return
	}
	var buf bytes.Buffer
	fields.EncodeCharBuf(&buf, v)
	p.raw(buf.Bytes())
}

func (p *paramBuf) charBufArrayField(v []fields.CharBuf) {
	if v == nil {
		p.absent()
		return
	}
	var buf bytes.Buffer
	fields.EncodeCharBufArray(&buf, v)
	p.raw(buf.Bytes())
}

func (p *paramBuf) relTimeField(v *fields.RelTime) {
	if v == nil {
		p.absent()
		return
	}
	var buf bytes.Buffer
	fields.EncodeRelTime(&buf, *v)
	p.raw(buf.Bytes())
}

func (p *paramBuf) openFlagsField(v *fields.OpenFlags) {
	if v == nil {
		p.absent()
		return
	}
	var buf bytes.Buffer
	fields.EncodeOpenFlags(&buf, *v)
	p.raw(buf.Bytes())
}

func (p *paramBuf) cloneFlagsField(v *fields.CloneFlags) {
	if v == nil {
		p.absent()
		return
	}
	var buf bytes.Buffer
	fields.EncodeCloneFlags(&buf, *v)
	p.raw(buf.Bytes())
}

func (p *paramBuf) sockFamilyField(v *fields.SockFamily) {
	if v == nil {
		p.absent()
		return
	}
	var buf bytes.Buffer
	fields.EncodeSockFamily(&buf, *v)
	p.raw(buf.Bytes())
}

func (p *paramBuf) sockoptLevelField(v *fields.SockoptLevel) {
	if v == nil {
		p.absent()
		return
	}
	var buf bytes.Buffer
	fields.EncodeSockoptLevel(&buf, *v)
	p.raw(buf.Bytes())
}

func (p *paramBuf) sockoptNameField(v *fields.SockoptName) {
	if v == nil {
		p.absent()
		return
	}
	var buf bytes.Buffer
	fields.EncodeSockoptName(&buf, *v)
	p.raw(buf.Bytes())
}

func (p *paramBuf) sockAddrField(v *fields.SockAddr) {
	if v == nil {
		p.absent()
		return
	}
	var buf bytes.Buffer
	fields.EncodeSockAddr(&buf, v)
	p.raw(buf.Bytes())
}

func (p *paramBuf) sockoptValField(v fields.SockoptVal) {
	if v == nil {
		p.absent()
		return
	}
	var buf bytes.Buffer
	fields.EncodeSockoptVal(&buf, v)
	p.raw(buf.Bytes())
}

// writeEvent serializes a typed event: header, length table in the kind's
// declared width, then the parameter payloads in schema order. The header's
// total length is computed from the serialized parameters, never taken from
// the caller.
func writeEvent(w io.Writer, m Metadata, typ schema.EventType, params [][]byte) error {
	entry := schema.Lookup(typ)
	if entry == nil {
		return fmt.Errorf("%w: type %d", ErrUnknownEventType, typ)
	}

	// Absent trailing fields are omitted entirely, so older-schema
	// consumers see a shorter, still well-formed event.
	n := len(params)
	for n > 0 && params[n-1] == nil {
		n--
	}
	params = params[:n]

	width := entry.LenTable.Width()
	total := HeaderSize + width*n
	for i, prm := range params {
		if entry.LenTable == schema.LenNone {
			size, _ := entry.Fields[i].Class.FixedSize()
			if len(prm) != size {
				return fmt.Errorf("%w: field %q is %d bytes, layout needs %d",
					ErrBadParamSize, entry.Fields[i].Name, len(prm), size)
			}
		}
		switch {
		case entry.LenTable == schema.LenSmall && len(prm) > 0xff:
			return fmt.Errorf("%w: field %q is %d bytes", ErrParamTooLong, entry.Fields[i].Name, len(prm))
		case entry.LenTable == schema.LenLarge && len(prm) > 0xffff:
			return fmt.Errorf("%w: field %q is %d bytes", ErrParamTooLong, entry.Fields[i].Name, len(prm))
		}
		total += len(prm)
	}

	h := Header{
		Ts:      m.Ts,
		Tid:     m.Tid,
		Len:     uint32(total),
		Type:    typ,
		NParams: uint16(n),
	}
	if err := h.encodeTo(w); err != nil {
		return err
	}

	for _, prm := range params {
		switch entry.LenTable {
		case schema.LenSmall:
			if _, err := w.Write([]byte{byte(len(prm))}); err != nil {
				return err
			}
		case schema.LenLarge:
			if _, err := w.Write([]byte{byte(len(prm)), byte(len(prm) >> 8)}); err != nil {
				return err
			}
		}
	}
	for _, prm := range params {
		if len(prm) == 0 {
			continue
		}
		if _, err := w.Write(prm); err != nil {
			return err
		}
	}
	return nil
}
