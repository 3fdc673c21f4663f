package events

import (
	"io"

	"scap-recorder/fields"
	"scap-recorder/schema"
)

// GenericEnter covers syscalls without a dedicated event kind; it records
// only the normalized and native syscall numbers.
type GenericEnter struct {
	ID       *uint16
	NativeID *uint16
}

func (e *GenericEnter) EventType() schema.EventType { return schema.GenericE }

func (e *GenericEnter) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.GenericE)
	if err != nil {
		return err
	}
	if err := d.uint16Field(&e.ID); err != nil {
		return err
	}
	return d.uint16Field(&e.NativeID)
}

func (e *GenericEnter) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.uint16Field(e.ID)
	p.uint16Field(e.NativeID)
	return writeEvent(w, m, schema.GenericE, p.params)
}

type GenericExit struct {
	ID *uint16
}

func (e *GenericExit) EventType() schema.EventType { return schema.GenericX }

func (e *GenericExit) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.GenericX)
	if err != nil {
		return err
	}
	return d.uint16Field(&e.ID)
}

func (e *GenericExit) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.uint16Field(e.ID)
	return writeEvent(w, m, schema.GenericX, p.params)
}

type NanosleepEnter struct {
	Interval *fields.RelTime
}

func (e *NanosleepEnter) EventType() schema.EventType { return schema.NanosleepE }

func (e *NanosleepEnter) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.NanosleepE)
	if err != nil {
		return err
	}
	return d.relTimeField(&e.Interval)
}

func (e *NanosleepEnter) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.relTimeField(e.Interval)
	return writeEvent(w, m, schema.NanosleepE, p.params)
}

type NanosleepExit struct {
	Res *int64
}

func (e *NanosleepExit) EventType() schema.EventType { return schema.NanosleepX }

func (e *NanosleepExit) Decode(raw *RawEvent) error {
	d, err := raw.paramDecoder(schema.NanosleepX)
	if err != nil {
		return err
	}
	return d.int64Field(&e.Res)
}

func (e *NanosleepExit) EncodeTo(w io.Writer, m Metadata) error {
	var p paramBuf
	p.int64Field(e.Res)
	return writeEvent(w, m, schema.NanosleepX, p.params)
}
