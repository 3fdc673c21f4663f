// Package platform provides the platform-specific event sources feeding the
// codec. On Linux, events come from an eBPF ring buffer; other platforms get
// a no-op source so the rest of the recorder can be developed and tested
// anywhere.
package platform

// Record is one raw event record from the kernel, codec-framed bytes plus
// drop accounting.
type Record struct {
	// RawSample contains the raw event data
	RawSample []byte
	// LostSamples indicates how many samples were dropped by the kernel
	LostSamples uint64
}

// Source defines a platform-agnostic interface for reading raw event
// records. This abstraction keeps the decode/store pipeline platform
// independent and lets tests feed canned buffers.
type Source interface {
	// Read returns the next record, blocking until one is available.
	Read() (Record, error)
	// Close cleans up any resources and unblocks pending reads.
	Close() error
}

// Config holds configuration for creating an event source.
type Config struct {
	// ObjPath is the compiled BPF object exposing the capture programs
	// and the "events" ring buffer map.
	ObjPath string
}
