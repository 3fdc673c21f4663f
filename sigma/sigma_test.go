package sigma

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"scap-recorder/database"
)

const testRule = `title: Suspicious shell exec
id: 9f2d8c1e-3a44-4a8a-9c55-0c1f6f2d8b11
status: test
level: high
logsource:
  category: process_creation
detection:
  selection:
    Image|endswith: '/nc'
  condition: selection
`

func newTestDetector(t *testing.T) (*Detector, *database.DB) {
	t.Helper()

	db, err := database.NewDB(t.TempDir())
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	rulesDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(rulesDir, "shell.yml"), []byte(testRule), 0644); err != nil {
		t.Fatalf("write rule: %v", err)
	}

	d, err := NewDetector(rulesDir, db)
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}
	t.Cleanup(d.Close)
	return d, db
}

func TestCheckEventMatch(t *testing.T) {
	d, _ := newTestDetector(t)

	if n := d.RuleCount(); n != 1 {
		t.Fatalf("RuleCount = %d, want 1", n)
	}

	event := map[string]interface{}{
		"exe": "/usr/bin/nc",
		"pid": int64(1234),
	}
	matches := d.CheckEvent(context.Background(), event)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Rule.Title != "Suspicious shell exec" {
		t.Errorf("matched rule %q", matches[0].Rule.Title)
	}

	benign := map[string]interface{}{"exe": "/usr/bin/ls"}
	if got := d.CheckEvent(context.Background(), benign); len(got) != 0 {
		t.Errorf("benign event matched %d rules", len(got))
	}
}

func TestStoreMatch(t *testing.T) {
	d, db := newTestDetector(t)

	event := map[string]interface{}{"exe": "/usr/bin/nc"}
	matches := d.CheckEvent(context.Background(), event)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}

	if err := d.StoreMatch(matches[0], 42, event); err != nil {
		t.Fatalf("StoreMatch: %v", err)
	}

	stored, err := db.RecentMatches(10)
	if err != nil {
		t.Fatalf("RecentMatches: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("got %d stored matches, want 1", len(stored))
	}
	if stored[0].EventID != 42 || stored[0].Severity != "high" {
		t.Errorf("stored match = %+v", stored[0])
	}
}
