package events

import (
	"io"

	"scap-recorder/fields"
	"scap-recorder/schema"
)

// Network event kinds.

type SocketEnter struct {
	Domain *fields.SockFamily
	Type   *uint32
	Proto  *uint32
}

func (e *SocketEnter) EventType() schema.EventType { return schema.SocketE }

func (e *SocketEnter) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.SocketE)
	if err != nil {
		return err
	}
	if err := d.sockFamilyField(&e.Domain); err != nil {
		return err
	}
	if err := d.uint32Field(&e.Type); err != nil {
		return err
	}
	return d.uint32Field(&e.Proto)
}

func (e *SocketEnter) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.sockFamilyField(e.Domain)
	p.uint32Field(e.Type)
	p.uint32Field(e.Proto)
	return writeEvent(w, m, schema.SocketE, p.params)
}

type SocketExit struct {
	Fd *int64
}

func (e *SocketExit) EventType() schema.EventType { return schema.SocketX }

func (e *SocketExit) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.SocketX)
	if err != nil {
		return err
	}
	return d.int64Field(&e.Fd)
}

func (e *SocketExit) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.int64Field(e.Fd)
	return writeEvent(w, m, schema.SocketX, p.params)
}

type ConnectEnter struct {
	Fd   *int64
	Addr *fields.SockAddr
}

func (e *ConnectEnter) EventType() schema.EventType { return schema.ConnectE }

func (e *ConnectEnter) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.ConnectE)
	if err != nil {
		return err
	}
	if err := d.int64Field(&e.Fd); err != nil {
		return err
	}
	return d.sockAddrField(&e.Addr)
}

func (e *ConnectEnter) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.int64Field(e.Fd)
	p.sockAddrField(e.Addr)
	return writeEvent(w, m, schema.ConnectE, p.params)
}

type ConnectExit struct {
	Res  *int64
	Addr *fields.SockAddr
}

func (e *ConnectExit) EventType() schema.EventType { return schema.ConnectX }

func (e *ConnectExit) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.ConnectX)
	if err != nil {
		return err
	}
	if err := d.int64Field(&e.Res); err != nil {
		return err
	}
	return d.sockAddrField(&e.Addr)
}

func (e *ConnectExit) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.int64Field(e.Res)
	p.sockAddrField(e.Addr)
	return writeEvent(w, m, schema.ConnectX, p.params)
}

type BindEnter struct {
	Fd *int64
}

func (e *BindEnter) EventType() schema.EventType { return schema.BindE }

func (e *BindEnter) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.BindE)
	if err != nil {
		return err
	}
	return d.int64Field(&e.Fd)
}

func (e *BindEnter) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.int64Field(e.Fd)
	return writeEvent(w, m, schema.BindE, p.params)
}

type BindExit struct {
	Res  *int64
	Addr *fields.SockAddr
}

func (e *BindExit) EventType() schema.EventType { return schema.BindX }

func (e *BindExit) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.BindX)
	if err != nil {
		return err
	}
	if err := d.int64Field(&e.Res); err != nil {
		return err
	}
	return d.sockAddrField(&e.Addr)
}

func (e *BindExit) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.int64Field(e.Res)
	p.sockAddrField(e.Addr)
	return writeEvent(w, m, schema.BindX, p.params)
}

type SetsockoptEnter struct {
	Fd      *int64
	Level   *fields.SockoptLevel
	Optname *fields.SockoptName
	Val     fields.SockoptVal
	Optlen  *uint32
}

func (e *SetsockoptEnter) EventType() schema.EventType { return schema.SetsockoptE }

func (e *SetsockoptEnter) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.SetsockoptE)
	if err != nil {
		return err
	}
	if err := d.int64Field(&e.Fd); err != nil {
		return err
	}
	if err := d.sockoptLevelField(&e.Level); err != nil {
		return err
	}
	if err := d.sockoptNameField(&e.Optname); err != nil {
		return err
	}
	if err := d.sockoptValField(&e.Val); err != nil {
		return err
	}
	return d.uint32Field(&e.Optlen)
}

func (e *SetsockoptEnter) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.int64Field(e.Fd)
	p.sockoptLevelField(e.Level)
	p.sockoptNameField(e.Optname)
	p.sockoptValField(e.Val)
	p.uint32Field(e.Optlen)
	return writeEvent(w, m, schema.SetsockoptE, p.params)
}

type SetsockoptExit struct {
	Res *int64
}

func (e *SetsockoptExit) EventType() schema.EventType { return schema.SetsockoptX }

func (e *SetsockoptExit) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.SetsockoptX)
	if err != nil {
		return err
	}
	return d.int64Field(&e.Res)
}

func (e *SetsockoptExit) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.int64Field(e.Res)
	return writeEvent(w, m, schema.SetsockoptX, p.params)
}
