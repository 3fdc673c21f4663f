package web

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"scap-recorder/binary"
)

func newTestServer(t *testing.T) (*Server, *binary.Cache) {
	t.Helper()
	cache, err := binary.NewCache(16, t.TempDir())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	return NewServer(nil, nil, cache, ":0"), cache
}

func TestBinaryDownload(t *testing.T) {
	s, cache := newTestServer(t)

	content := []byte("#!/bin/sh\necho hi\n")
	src := filepath.Join(t.TempDir(), "tool.sh")
	if err := os.WriteFile(src, content, 0755); err != nil {
		t.Fatalf("write source: %v", err)
	}
	hash, err := binary.CalculateMD5(src)
	if err != nil {
		t.Fatalf("CalculateMD5: %v", err)
	}
	if err := cache.StoreBinary(src, hash); err != nil {
		t.Fatalf("StoreBinary: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/binaries/"+hash, nil)
	rec := httptest.NewRecorder()
	s.handleBinaryDownload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != string(content) {
		t.Errorf("body = %q, want %q", got, content)
	}
}

func TestBinaryDownloadRejectsBadRequests(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"not archived", "/api/binaries/0123456789abcdef0123456789abcdef", http.StatusNotFound},
		{"short hash", "/api/binaries/abc123", http.StatusBadRequest},
		{"traversal", "/api/binaries/../../etc/passwd", http.StatusBadRequest},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", tt.path, nil)
		rec := httptest.NewRecorder()
		s.handleBinaryDownload(rec, req)
		if rec.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.name, rec.Code, tt.want)
		}
	}
}
