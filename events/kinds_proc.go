package events

import (
	"io"

	"scap-recorder/fields"
	"scap-recorder/schema"
)

// Process event kinds.

type ExecveEnter struct {
	Filename fields.FsPath
}

func (e *ExecveEnter) EventType() schema.EventType { return schema.ExecveE }

func (e *ExecveEnter) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.ExecveE)
	if err != nil {
		return err
	}
	return d.charBufField(&e.Filename)
}

func (e *ExecveEnter) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.charBufField(e.Filename)
	return writeEvent(w, m, schema.ExecveE, p.params)
}

type ExecveExit struct {
	Res  *int64
	Exe  fields.CharBuf
	Args []fields.CharBuf
	Tid  *int64
	Pid  *int64
	Ptid *int64
	Cwd  fields.CharBuf
	Comm fields.CharBuf
	Env  []fields.CharBuf
}

func (e *ExecveExit) EventType() schema.EventType { return schema.ExecveX }

func (e *ExecveExit) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.ExecveX)
	if err != nil {
		return err
	}
	if err := d.int64Field(&e.Res); err != nil {
		return err
	}
	if err := d.charBufField(&e.Exe); err != nil {
		return err
	}
	if err := d.charBufArrayField(&e.Args); err != nil {
		return err
	}
	if err := d.int64Field(&e.Tid); err != nil {
		return err
	}
	if err := d.int64Field(&e.Pid); err != nil {
		return err
	}
	if err := d.int64Field(&e.Ptid); err != nil {
		return err
	}
	if err := d.charBufField(&e.Cwd); err != nil {
		return err
	}
	if err := d.charBufField(&e.Comm); err != nil {
		return err
	}
	return d.charBufArrayField(&e.Env)
}

func (e *ExecveExit) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.int64Field(e.Res)
	p.charBufField(e.Exe)
	p.charBufArrayField(e.Args)
	p.int64Field(e.Tid)
	p.int64Field(e.Pid)
	p.int64Field(e.Ptid)
	p.charBufField(e.Cwd)
	p.charBufField(e.Comm)
	p.charBufArrayField(e.Env)
	return writeEvent(w, m, schema.ExecveX, p.params)
}

type CloneEnter struct{}

func (e *CloneEnter) EventType() schema.EventType { return schema.CloneE }

func (e *CloneEnter) Decode(raw *RawEvent) error {
	_, err := raw.paramDecoder(schema.CloneE)
	return err
}

func (e *CloneEnter) EncodeTo(w io.Writer, m Metadata) error {
	return writeEvent(w, m, schema.CloneE, nil)
}

type CloneExit struct {
	Res   *int64
	Exe   fields.CharBuf
	Args  []fields.CharBuf
	Tid   *int64
	Pid   *int64
	Ptid  *int64
	Flags *fields.CloneFlags
}

func (e *CloneExit) EventType() schema.EventType { return schema.CloneX }

func (e *CloneExit) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.CloneX)
	if err != nil {
		return err
	}
	if err := d.int64Field(&e.Res); err != nil {
		return err
	}
	if err := d.charBufField(&e.Exe); err != nil {
		return err
	}
	if err := d.charBufArrayField(&e.Args); err != nil {
		return err
	}
	if err := d.int64Field(&e.Tid); err != nil {
		return err
	}
	if err := d.int64Field(&e.Pid); err != nil {
		return err
	}
	if err := d.int64Field(&e.Ptid); err != nil {
		return err
	}
	return d.cloneFlagsField(&e.Flags)
}

func (e *CloneExit) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.int64Field(e.Res)
	p.charBufField(e.Exe)
	p.charBufArrayField(e.Args)
	p.int64Field(e.Tid)
	p.int64Field(e.Pid)
	p.int64Field(e.Ptid)
	p.cloneFlagsField(e.Flags)
	return writeEvent(w, m, schema.CloneX, p.params)
}

type ProcexitEnter struct {
	Status *int64
}

func (e *ProcexitEnter) EventType() schema.EventType { return schema.ProcexitE }

func (e *ProcexitEnter) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.ProcexitE)
	if err != nil {
		return err
	}
	return d.int64Field(&e.Status)
}

func (e *ProcexitEnter) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.int64Field(e.Status)
	return writeEvent(w, m, schema.ProcexitE, p.params)
}

type SetresuidEnter struct {
	Ruid *uint32
	Euid *uint32
	Suid *uint32
}

func (e *SetresuidEnter) EventType() schema.EventType { return schema.SetresuidE }

func (e *SetresuidEnter) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.SetresuidE)
	if err != nil {
		return err
	}
	if err := d.uint32Field(&e.Ruid); err != nil {
		return err
	}
	if err := d.uint32Field(&e.Euid); err != nil {
		return err
	}
	return d.uint32Field(&e.Suid)
}

func (e *SetresuidEnter) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.uint32Field(e.Ruid)
	p.uint32Field(e.Euid)
	p.uint32Field(e.Suid)
	return writeEvent(w, m, schema.SetresuidE, p.params)
}

type SetresuidExit struct {
	Res *int64
}

func (e *SetresuidExit) EventType() schema.EventType { return schema.SetresuidX }

func (e *SetresuidExit) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.SetresuidX)
	if err != nil {
		return err
	}
	return d.int64Field(&e.Res)
}

func (e *SetresuidExit) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.int64Field(e.Res)
	return writeEvent(w, m, schema.SetresuidX, p.params)
}
