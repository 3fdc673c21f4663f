//go:build darwin

package platform

import "fmt"

// NewSource is a stub on macOS; the recorder runs without live capture and
// serves whatever is already in the database.
func NewSource(cfg Config) (Source, error) {
	return nil, fmt.Errorf("live capture is only supported on Linux")
}
