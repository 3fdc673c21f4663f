package events

import (
	"io"

	"scap-recorder/fields"
	"scap-recorder/schema"
)

// File event kinds. Field order mirrors the schema table; absent fields are
// nil.

type OpenEnter struct {
	Name  fields.FsPath
	Flags *fields.OpenFlags
	Mode  *uint32
}

func (e *OpenEnter) EventType() schema.EventType { return schema.OpenE }

func (e *OpenEnter) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.OpenE)
	if err != nil {
		return err
	}
	if err := d.charBufField(&e.Name); err != nil {
		return err
	}
	if err := d.openFlagsField(&e.Flags); err != nil {
		return err
	}
	return d.uint32Field(&e.Mode)
}

func (e *OpenEnter) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.charBufField(e.Name)
	p.openFlagsField(e.Flags)
	p.uint32Field(e.Mode)
	return writeEvent(w, m, schema.OpenE, p.params)
}

type OpenExit struct {
	Fd    *int64
	Name  fields.FsPath
	Flags *fields.OpenFlags
	Mode  *uint32
	Dev   *uint32
	Ino   *uint64
}

func (e *OpenExit) EventType() schema.EventType { return schema.OpenX }

func (e *OpenExit) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.OpenX)
	if err != nil {
		return err
	}
	if err := d.int64Field(&e.Fd); err != nil {
		return err
	}
	if err := d.charBufField(&e.Name); err != nil {
		return err
	}
	if err := d.openFlagsField(&e.Flags); err != nil {
		return err
	}
	if err := d.uint32Field(&e.Mode); err != nil {
		return err
	}
	if err := d.uint32Field(&e.Dev); err != nil {
		return err
	}
	return d.uint64Field(&e.Ino)
}

func (e *OpenExit) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.int64Field(e.Fd)
	p.charBufField(e.Name)
	p.openFlagsField(e.Flags)
	p.uint32Field(e.Mode)
	p.uint32Field(e.Dev)
	p.uint64Field(e.Ino)
	return writeEvent(w, m, schema.OpenX, p.params)
}

type CloseEnter struct {
	Fd *int64
}

func (e *CloseEnter) EventType() schema.EventType { return schema.CloseE }

func (e *CloseEnter) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.CloseE)
	if err != nil {
		return err
	}
	return d.int64Field(&e.Fd)
}

func (e *CloseEnter) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.int64Field(e.Fd)
	return writeEvent(w, m, schema.CloseE, p.params)
}

type CloseExit struct {
	Res *int64
}

func (e *CloseExit) EventType() schema.EventType { return schema.CloseX }

func (e *CloseExit) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.CloseX)
	if err != nil {
		return err
	}
	return d.int64Field(&e.Res)
}

func (e *CloseExit) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.int64Field(e.Res)
	return writeEvent(w, m, schema.CloseX, p.params)
}

type ReadEnter struct {
	Fd   *int64
	Size *uint32
}

func (e *ReadEnter) EventType() schema.EventType { return schema.ReadE }

func (e *ReadEnter) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.ReadE)
	if err != nil {
		return err
	}
	if err := d.int64Field(&e.Fd); err != nil {
		return err
	}
	return d.uint32Field(&e.Size)
}

func (e *ReadEnter) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.int64Field(e.Fd)
	p.uint32Field(e.Size)
	return writeEvent(w, m, schema.ReadE, p.params)
}

type ReadExit struct {
	Res  *int64
	Data fields.ByteBuf
}

func (e *ReadExit) EventType() schema.EventType { return schema.ReadX }

func (e *ReadExit) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.ReadX)
	if err != nil {
		return err
	}
	if err := d.int64Field(&e.Res); err != nil {
		return err
	}
	return d.byteBufField(&e.Data)
}

func (e *ReadExit) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.int64Field(e.Res)
	p.byteBufField(e.Data)
	return writeEvent(w, m, schema.ReadX, p.params)
}

type WriteEnter struct {
	Fd   *int64
	Size *uint32
}

func (e *WriteEnter) EventType() schema.EventType { return schema.WriteE }

func (e *WriteEnter) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.WriteE)
	if err != nil {
		return err
	}
	if err := d.int64Field(&e.Fd); err != nil {
		return err
	}
	return d.uint32Field(&e.Size)
}

func (e *WriteEnter) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.int64Field(e.Fd)
	p.uint32Field(e.Size)
	return writeEvent(w, m, schema.WriteE, p.params)
}

type WriteExit struct {
	Res  *int64
	Data fields.ByteBuf
}

func (e *WriteExit) EventType() schema.EventType { return schema.WriteX }

func (e *WriteExit) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.WriteX)
	if err != nil {
		return err
	}
	if err := d.int64Field(&e.Res); err != nil {
		return err
	}
	return d.byteBufField(&e.Data)
}

func (e *WriteExit) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.int64Field(e.Res)
	p.byteBufField(e.Data)
	return writeEvent(w, m, schema.WriteX, p.params)
}

type ChdirEnter struct{}

func (e *ChdirEnter) EventType() schema.EventType { return schema.ChdirE }

func (e *ChdirEnter) Decode(raw *RawEvent) error {
	_, err := raw.paramDecoder(schema.ChdirE)
	return err
}

func (e *ChdirEnter) EncodeTo(w io.Writer, m Metadata) error {
	return writeEvent(w, m, schema.ChdirE, nil)
}

type ChdirExit struct {
	Res  *int64
	Path fields.FsPath
}

func (e *ChdirExit) EventType() schema.EventType { return schema.ChdirX }

func (e *ChdirExit) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.ChdirX)
	if err != nil {
		return err
	}
	if err := d.int64Field(&e.Res); err != nil {
		return err
	}
	return d.charBufField(&e.Path)
}

func (e *ChdirExit) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.int64Field(e.Res)
	p.charBufField(e.Path)
	return writeEvent(w, m, schema.ChdirX, p.params)
}
