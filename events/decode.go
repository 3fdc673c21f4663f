package events

import (
	"fmt"

	"scap-recorder/fields"
	"scap-recorder/schema"
)

// decoder walks a raw event's parameter ranges and the schema's field
// descriptors in lock-step. Each accessor consumes the next descriptor,
// decodes its bytes through the field type library, and attaches the field
// name to any failure. A missing or empty parameter leaves the target nil
// when the descriptor is tail-optional and fails with ErrMissingField when
// it is not.
type decoder struct {
	entry  *schema.Entry
	params [][]byte
	idx    int
	lossy  bool
}

// paramDecoder verifies the raw event is of the wanted kind, splits the payload
// into parameter ranges and returns the cursor for the kind's fields.
func (r *RawEvent) paramDecoder(want schema.EventType) (*decoder, error) {
	if r.Type != want {
		return nil, fmt.Errorf("%w: event is %s, target is %s",
			ErrTypeMismatch, schema.Name(r.Type), schema.Name(want))
	}
	entry := schema.Lookup(want)
	if entry == nil {
		return nil, fmt.Errorf("%w: type %d", ErrUnknownEventType, want)
	}
	params, err := r.splitParams(entry)
	if err != nil {
		return nil, err
	}
	return &decoder{entry: entry, params: params, lossy: r.LossyStrings}, nil
}

// next consumes the next field descriptor. It returns the descriptor's name
// and raw bytes; nil bytes mean the field is absent and already accounted
// for (tail-optional), so the caller leaves the target unset.
func (d *decoder) next() (string, []byte, error) {
	f := d.entry.Fields[d.idx]
	d.idx++
	if d.idx > len(d.params) || len(d.params[d.idx-1]) == 0 {
		if !f.Optional {
			return f.Name, nil, &DecodeError{Type: d.entry.Type, Field: f.Name, Err: ErrMissingField}
		}
		return f.Name, nil, nil
	}
	return f.Name, d.params[d.idx-1], nil
}

func (d *decoder) fail(name string, err error) error {
	return &DecodeError{Type: d.entry.Type, Field: name, Err: err}
}

func (d *decoder) uint16Field(dst **uint16) error {
	name, b, err := d.next()
	if err != nil || b == nil {
		return err
	}
	v, err := fields.DecodeUint16(b)
	if err != nil {
		return d.fail(name, err)
	}
	*dst = &v
	return nil
}

func (d *decoder) uint32Field(dst **uint32) error {
	name, b, err := d.next()
	if err != nil || b == nil {
		return err
	}
	v, err := fields.DecodeUint32(b)
	if err != nil {
		return d.fail(name, err)
	}
	*dst = &v
	return nil
}

func (d *decoder) uint64Field(dst **uint64) error {
	name, b, err := d.next()
	if err != nil || b == nil {
		return err
	}
	v, err := fields.DecodeUint64(b)
	if err != nil {
		return d.fail(name, err)
	}
	*dst = &v
	return nil
}

// int64Field covers fds, errno results and plain 64-bit integers; they share
// the wire layout.
func (d *decoder) int64Field(dst **int64) error {
	name, b, err := d.next()
	if err != nil || b == nil {
		return err
	}
	v, err := fields.DecodeInt64(b)
	if err != nil {
		return d.fail(name, err)
	}
	*dst = &v
	return nil
}

func (d *decoder) byteBufField(dst *fields.ByteBuf) error {
	_, b, err := d.next()
	if err != nil || b == nil {
		return err
	}
	v, _ := fields.DecodeByteBuf(b)
	*dst = v
	return nil
}

func (d *decoder) charBufField(dst *fields.CharBuf) error {
	name, b, err := d.next()
	if err != nil || b == nil {
		return err
	}
	v, err := fields.DecodeCharBuf(b, d.lossy)
	if err != nil {
		return d.fail(name, err)
	}
	*dst = v
	return nil
}

func (d *decoder) charBufArrayField(dst *[]fields.CharBuf) error {
	name, b, err := d.next()
	if err != nil || b == nil {
		return err
	}
	v, err := fields.DecodeCharBufArray(b, d.lossy)
	if err != nil {
		return d.fail(name, err)
	}
	*dst = v
	return nil
}

func (d *decoder) relTimeField(dst **fields.RelTime) error {
	name, b, err := d.next()
	if err != nil || b == nil {
		return err
	}
	v, err := fields.DecodeRelTime(b)
	if err != nil {
		return d.fail(name, err)
	}
	*dst = &v
	return nil
}

func (d *decoder) openFlagsField(dst **fields.OpenFlags) error {
	name, b, err := d.next()
	if err != nil || b == nil {
		return err
	}
	v, err := fields.DecodeOpenFlags(b)
	if err != nil {
		return d.fail(name, err)
	}
	*dst = &v
	return nil
}

func (d *decoder) cloneFlagsField(dst **fields.CloneFlags) error {
	name, b, err := d.next()
	if err != nil || b == nil {
		return err
	}
	v, err := fields.DecodeCloneFlags(b)
	if err != nil {
		return d.fail(name, err)
	}
	*dst = &v
	return nil
}

func (d *decoder) sockFamilyField(dst **fields.SockFamily) error {
	name, b, err := d.next()
	if err != nil || b == nil {
		return err
	}
	v, err := fields.DecodeSockFamily(b)
	if err != nil {
		return d.fail(name, err)
	}
	*dst = &v
	return nil
}

func (d *decoder) sockoptLevelField(dst **fields.SockoptLevel) error {
	name, b, err := d.next()
	if err != nil || b == nil {
		return err
	}
	v, err := fields.DecodeSockoptLevel(b)
	if err != nil {
		return d.fail(name, err)
	}
	*dst = &v
	return nil
}

func (d *decoder) sockoptNameField(dst **fields.SockoptName) error {
	name, b, err := d.next()
	if err != nil || b == nil {
		return err
	}
	v, err := fields.DecodeSockoptName(b)
	if err != nil {
		return d.fail(name, err)
	}
	*dst = &v
	return nil
}

func (d *decoder) sockAddrField(dst **fields.SockAddr) error {
	name, b, err := d.next()
	if err != nil || b == nil {
		return err
	}
	v, err := fields.DecodeSockAddr(b, d.lossy)
	if err != nil {
		return d.fail(name, err)
	}
	*dst = v
	return nil
}

func (d *decoder) sockoptValField(dst *fields.SockoptVal) error {
	name, b, err := d.next()
	if err != nil || b == nil {
		return err
	}
	v, err := fields.DecodeSockoptVal(b)
	if err != nil {
		return d.fail(name, err)
	}
	*dst = v
	return nil
}
