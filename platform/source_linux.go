//go:build linux

package platform

import (
	"fmt"
	"log"

	"github.com/cilium/ebpf"
	"github.com/cilium/ebpf/link"
	"github.com/cilium/ebpf/ringbuf"
	"github.com/cilium/ebpf/rlimit"
)

// tracepoint hooks the capture object may provide; missing programs are
// skipped with a warning so trimmed-down capture objects still load.
var capturePrograms = []struct {
	group, name, prog string
}{
	{"raw_syscalls", "sys_enter", "trace_sys_enter"},
	{"raw_syscalls", "sys_exit", "trace_sys_exit"},
	{"sched", "sched_process_exit", "trace_sched_process_exit"},
}

type linuxSource struct {
	coll   *ebpf.Collection
	links  []link.Link
	reader *ringbuf.Reader
}

// NewSource loads the compiled capture object, attaches its tracepoints and
// opens the ring buffer the kernel side writes codec-framed events into.
func NewSource(cfg Config) (Source, error) {
	if err := rlimit.RemoveMemlock(); err != nil {
		return nil, fmt.Errorf("failed to remove memlock: %v", err)
	}

	spec, err := ebpf.LoadCollectionSpec(cfg.ObjPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load capture object %s: %v", cfg.ObjPath, err)
	}
	coll, err := ebpf.NewCollection(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to load capture programs: %v", err)
	}

	src := &linuxSource{coll: coll}

	for _, tp := range capturePrograms {
		prog, ok := coll.Programs[tp.prog]
		if !ok {
			continue
		}
		l, err := link.Tracepoint(tp.group, tp.name, prog, nil)
		if err != nil {
			log.Printf("Warning: Failed to attach %s/%s: %v", tp.group, tp.name, err)
			continue
		}
		src.links = append(src.links, l)
	}
	if len(src.links) == 0 {
		src.Close()
		return nil, fmt.Errorf("no capture tracepoints attached")
	}

	events, ok := coll.Maps["events"]
	if !ok {
		src.Close()
		return nil, fmt.Errorf("capture object has no events map")
	}
	reader, err := ringbuf.NewReader(events)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("failed to create ringbuf reader: %v", err)
	}
	src.reader = reader

	return src, nil
}

func (s *linuxSource) Read() (Record, error) {
	rec, err := s.reader.Read()
	if err != nil {
		if err == ringbuf.ErrClosed {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("ring buffer read: %v", err)
	}
	return Record{RawSample: rec.RawSample}, nil
}

func (s *linuxSource) Close() error {
	if s.reader != nil {
		s.reader.Close()
	}
	for _, l := range s.links {
		l.Close()
	}
	if s.coll != nil {
		s.coll.Close()
	}
	return nil
}
