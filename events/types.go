package events

import (
	"fmt"
	"io"

	"scap-recorder/fields"
	"scap-recorder/schema"
)

// Payload is one event kind's decoded parameter set. Every kind in the
// schema table implements it; callers dispatch on the concrete type.
type Payload interface {
	// EventType returns the kind this payload decodes.
	EventType() schema.EventType

	// Decode fills the payload from a raw event of the matching kind.
	Decode(raw *RawEvent) error

	// EncodeTo writes the full event (header included) under the given
	// envelope, in the exact layout Decode reads back.
	EncodeTo(w io.Writer, m Metadata) error
}

// AnyEvent is the tagged union over all known event kinds. Payload is nil
// for kinds outside the schema table; Raw always retains the framed event,
// so unknown kinds can still be forwarded byte-for-byte.
type AnyEvent struct {
	Metadata
	Type    schema.EventType
	Payload Payload
	Raw     *RawEvent
}

// DecodeAny decodes a raw event into the union. An event type without a
// schema entry is not an error: the union carries the raw event with a nil
// payload. Decode failures of known kinds are returned as-is.
func DecodeAny(raw *RawEvent) (*AnyEvent, error) {
	ev := &AnyEvent{
		Metadata: Metadata{Ts: raw.Ts, Tid: raw.Tid},
		Type:     raw.Type,
		Raw:      raw,
	}
	p := newPayload(raw.Type)
	if p == nil {
		return ev, nil
	}
	if err := p.Decode(raw); err != nil {
		return nil, err
	}
	ev.Payload = p
	return ev, nil
}

// Name returns the schema name of the event's kind.
func (e *AnyEvent) Name() string {
	return schema.Name(e.Type)
}

// EncodeTo writes the event's bytes: through the typed payload when one was
// decoded, verbatim from the raw view otherwise.
func (e *AnyEvent) EncodeTo(w io.Writer) error {
	if e.Payload != nil {
		return e.Payload.EncodeTo(w, e.Metadata)
	}
	return e.Raw.EncodeTo(w)
}

// newPayload returns a fresh payload struct for a kind, nil for kinds this
// build does not know.
func newPayload(t schema.EventType) Payload {
	switch t {
	case schema.GenericE:
		return &GenericEnter{}
	case schema.GenericX:
		return &GenericExit{}
	case schema.OpenE:
		return &OpenEnter{}
	case schema.OpenX:
		return &OpenExit{}
	case schema.CloseE:
		return &CloseEnter{}
	case schema.CloseX:
		return &CloseExit{}
	case schema.ReadE:
		return &ReadEnter{}
	case schema.ReadX:
		return &ReadExit{}
	case schema.WriteE:
		return &WriteEnter{}
	case schema.WriteX:
		return &WriteExit{}
	case schema.SocketE:
		return &SocketEnter{}
	case schema.SocketX:
		return &SocketExit{}
	case schema.ConnectE:
		return &ConnectEnter{}
	case schema.ConnectX:
		return &ConnectExit{}
	case schema.BindE:
		return &BindEnter{}
	case schema.BindX:
		return &BindExit{}
	case schema.ExecveE:
		return &ExecveEnter{}
	case schema.ExecveX:
		return &ExecveExit{}
	case schema.CloneE:
		return &CloneEnter{}
	case schema.CloneX:
		return &CloneExit{}
	case schema.ChdirE:
		return &ChdirEnter{}
	case schema.ChdirX:
		return &ChdirExit{}
	case schema.SetsockoptE:
		return &SetsockoptEnter{}
	case schema.SetsockoptX:
		return &SetsockoptExit{}
	case schema.ProcexitE:
		return &ProcexitEnter{}
	case schema.SetresuidE:
		return &SetresuidEnter{}
	case schema.SetresuidX:
		return &SetresuidExit{}
	case schema.NanosleepE:
		return &NanosleepEnter{}
	case schema.NanosleepX:
		return &NanosleepExit{}
	default:
		return nil
	}
}

// FieldMap decodes the event generically into name -> value pairs, walking
// the schema entry instead of a typed struct. Values are copied out of the
// input buffer, so the map may outlive it; this is the convenience path for
// storage and rule matching, not the hot path. Absent fields are omitted.
func (r *RawEvent) FieldMap() (map[string]interface{}, error) {
	entry := schema.Lookup(r.Type)
	if entry == nil {
		return nil, fmt.Errorf("%w: type %d", ErrUnknownEventType, r.Type)
	}
	params, err := r.splitParams(entry)
	if err != nil {
		return nil, err
	}

	out := make(map[string]interface{}, len(entry.Fields))
	for i, f := range entry.Fields {
		if i >= len(params) {
			if !f.Optional {
				return nil, &DecodeError{Type: entry.Type, Field: f.Name, Err: ErrMissingField}
			}
			break
		}
		b := params[i]
		if len(b) == 0 {
			if !f.Optional {
				return nil, &DecodeError{Type: entry.Type, Field: f.Name, Err: ErrMissingField}
			}
			continue
		}
		v, err := decodeFieldValue(f.Class, b, r.LossyStrings)
		if err != nil {
			return nil, &DecodeError{Type: entry.Type, Field: f.Name, Err: err}
		}
		out[f.Name] = v
	}
	return out, nil
}

func decodeFieldValue(c schema.FieldClass, b []byte, lossy bool) (interface{}, error) {
	switch c {
	case schema.ClassUint8:
		v, err := fields.DecodeUint8(b)
		return uint64(v), err
	case schema.ClassUint16, schema.ClassSyscallID:
		v, err := fields.DecodeUint16(b)
		return uint64(v), err
	case schema.ClassUint32:
		v, err := fields.DecodeUint32(b)
		return uint64(v), err
	case schema.ClassUint64:
		v, err := fields.DecodeUint64(b)
		return v, err
	case schema.ClassInt8:
		v, err := fields.DecodeInt8(b)
		return int64(v), err
	case schema.ClassInt16:
		v, err := fields.DecodeInt16(b)
		return int64(v), err
	case schema.ClassInt32:
		v, err := fields.DecodeInt32(b)
		return int64(v), err
	case schema.ClassInt64, schema.ClassFd, schema.ClassErrno:
		v, err := fields.DecodeInt64(b)
		return v, err
	case schema.ClassByteBuf:
		v, _ := fields.DecodeByteBuf(b)
		return append([]byte(nil), v...), nil
	case schema.ClassCharBuf, schema.ClassFsPath:
		v, err := fields.DecodeCharBuf(b, lossy)
		return v.String(), err
	case schema.ClassCharBufArray:
		v, err := fields.DecodeCharBufArray(b, lossy)
		if err != nil {
			return nil, err
		}
		out := make([]string, len(v))
		for i, s := range v {
			out[i] = s.String()
		}
		return out, nil
	case schema.ClassRelTime:
		v, err := fields.DecodeRelTime(b)
		return v.Duration(), err
	case schema.ClassAbsTime:
		v, err := fields.DecodeAbsTime(b)
		return v.Time(), err
	case schema.ClassOpenFlags:
		v, err := fields.DecodeOpenFlags(b)
		return v.String(), err
	case schema.ClassCloneFlags:
		v, err := fields.DecodeCloneFlags(b)
		return v.String(), err
	case schema.ClassSockFamily:
		v, err := fields.DecodeSockFamily(b)
		return v.String(), err
	case schema.ClassSockoptLevel:
		v, err := fields.DecodeSockoptLevel(b)
		return v.String(), err
	case schema.ClassSockoptName:
		v, err := fields.DecodeSockoptName(b)
		return v.String(), err
	case schema.ClassSockAddr:
		v, err := fields.DecodeSockAddr(b, lossy)
		if err != nil {
			return nil, err
		}
		return v.String(), nil
	case schema.ClassSockoptVal:
		v, err := fields.DecodeSockoptVal(b)
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("%v", v), nil
	default:
		return nil, fmt.Errorf("unhandled field class %d", c)
	}
}
