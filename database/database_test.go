package database

import (
	"testing"
	"time"
)

func TestInsertAndQueryEvents(t *testing.T) {
	db, err := NewDB(t.TempDir())
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC().Truncate(time.Second)
	id, err := db.InsertEvent(&EventRecord{
		Timestamp: now,
		Tid:       4242,
		EventType: 2,
		Name:      "open_e",
		Fields:    map[string]interface{}{"name": "/etc/hosts", "mode": float64(0)},
	})
	if err != nil {
		t.Fatalf("InsertEvent: %v", err)
	}
	if id == 0 {
		t.Fatal("InsertEvent returned id 0")
	}

	if _, err := db.InsertEvent(&EventRecord{
		Timestamp: now, Tid: 1, EventType: 999, Name: "unknown",
	}); err != nil {
		t.Fatalf("InsertEvent without fields: %v", err)
	}

	events, err := db.RecentEvents(10)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	// Most recent first.
	if events[0].Name != "unknown" || events[1].Name != "open_e" {
		t.Errorf("order = %s, %s", events[0].Name, events[1].Name)
	}
	if events[1].Fields["name"] != "/etc/hosts" {
		t.Errorf("fields round trip = %v", events[1].Fields)
	}
	if events[1].Tid != 4242 {
		t.Errorf("tid = %d, want 4242", events[1].Tid)
	}

	counts, err := db.EventCounts()
	if err != nil {
		t.Fatalf("EventCounts: %v", err)
	}
	if counts["open_e"] != 1 || counts["unknown"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestInsertMatch(t *testing.T) {
	db, err := NewDB(t.TempDir())
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	defer db.Close()

	err = db.InsertMatch(&MatchRecord{
		Timestamp: time.Now(),
		RuleID:    "rule-1",
		RuleName:  "suspicious exec",
		Severity:  "high",
		EventID:   7,
		EventData: `{"exe":"/tmp/x"}`,
	})
	if err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}

	matches, err := db.RecentMatches(5)
	if err != nil {
		t.Fatalf("RecentMatches: %v", err)
	}
	if len(matches) != 1 || matches[0].RuleName != "suspicious exec" {
		t.Errorf("matches = %v", matches)
	}
}
