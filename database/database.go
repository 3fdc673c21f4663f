// Package database stores decoded events in SQLite for later inspection.
package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB handles database operations
type DB struct {
	Db *sql.DB
}

// EventRecord is one decoded event row.
type EventRecord struct {
	ID        int64                  `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Tid       uint64                 `json:"tid"`
	EventType uint16                 `json:"event_type"`
	Name      string                 `json:"name"`
	Fields    map[string]interface{} `json:"fields"`
}

// ExecRecord is the denormalized view of an execve exit event, kept in its
// own table so detection queries do not have to unpack JSON.
type ExecRecord struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Tid       uint64    `json:"tid"`
	Pid       int64     `json:"pid"`
	Ptid      int64     `json:"ptid"`
	Exe       string    `json:"exe"`
	CmdLine   string    `json:"cmdline"`
	Cwd       string    `json:"cwd"`
	Comm      string    `json:"comm"`
	BinaryMD5 string    `json:"binary_md5"`
}

// MatchRecord is one stored detection rule match.
type MatchRecord struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	RuleID    string    `json:"rule_id"`
	RuleName  string    `json:"rule_name"`
	Severity  string    `json:"severity"`
	EventID   int64     `json:"event_id"`
	EventData string    `json:"event_data"`
}

func NewDB(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "events.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %v", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %v", err)
	}

	return &DB{Db: db}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME NOT NULL,
			tid INTEGER NOT NULL,
			event_type INTEGER NOT NULL,
			name TEXT NOT NULL,
			fields TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_events_name ON events(name)`,
		`CREATE TABLE IF NOT EXISTS exec_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME NOT NULL,
			tid INTEGER NOT NULL,
			pid INTEGER,
			ptid INTEGER,
			exe TEXT,
			cmdline TEXT,
			cwd TEXT,
			comm TEXT,
			binary_md5 TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exec_events_exe ON exec_events(exe)`,
		`CREATE TABLE IF NOT EXISTS sigma_matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME NOT NULL,
			rule_id TEXT,
			rule_name TEXT,
			severity TEXT,
			event_id INTEGER,
			event_data TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertEvent stores one decoded event and returns its row id. Fields are
// serialized as JSON; nil stores an empty column for events without
// decodable fields.
func (d *DB) InsertEvent(rec *EventRecord) (int64, error) {
	var fieldsJSON []byte
	if rec.Fields != nil {
		var err error
		fieldsJSON, err = json.Marshal(rec.Fields)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal fields: %v", err)
		}
	}
	res, err := d.Db.Exec(
		`INSERT INTO events (timestamp, tid, event_type, name, fields) VALUES (?, ?, ?, ?, ?)`,
		rec.Timestamp, int64(rec.Tid), rec.EventType, rec.Name, string(fieldsJSON))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertExec stores the denormalized exec row.
func (d *DB) InsertExec(rec *ExecRecord) (int64, error) {
	res, err := d.Db.Exec(
		`INSERT INTO exec_events (timestamp, tid, pid, ptid, exe, cmdline, cwd, comm, binary_md5)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp, int64(rec.Tid), rec.Pid, rec.Ptid, rec.Exe, rec.CmdLine, rec.Cwd, rec.Comm, rec.BinaryMD5)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertMatch stores one detection match.
func (d *DB) InsertMatch(rec *MatchRecord) error {
	_, err := d.Db.Exec(
		`INSERT INTO sigma_matches (timestamp, rule_id, rule_name, severity, event_id, event_data)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Timestamp, rec.RuleID, rec.RuleName, rec.Severity, rec.EventID, rec.EventData)
	return err
}

// RecentEvents returns the newest events, most recent first.
func (d *DB) RecentEvents(limit int) ([]EventRecord, error) {
	rows, err := d.Db.Query(
		`SELECT id, timestamp, tid, event_type, name, fields
		 FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EventRecord
	for rows.Next() {
		var rec EventRecord
		var tid int64
		var fieldsJSON sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &tid, &rec.EventType, &rec.Name, &fieldsJSON); err != nil {
			return nil, err
		}
		rec.Tid = uint64(tid)
		if fieldsJSON.Valid && fieldsJSON.String != "" {
			if err := json.Unmarshal([]byte(fieldsJSON.String), &rec.Fields); err != nil {
				return nil, fmt.Errorf("bad fields JSON in row %d: %v", rec.ID, err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// RecentMatches returns the newest detection matches, most recent first.
func (d *DB) RecentMatches(limit int) ([]MatchRecord, error) {
	rows, err := d.Db.Query(
		`SELECT id, timestamp, rule_id, rule_name, severity, event_id, event_data
		 FROM sigma_matches ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MatchRecord
	for rows.Next() {
		var rec MatchRecord
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.RuleID, &rec.RuleName,
			&rec.Severity, &rec.EventID, &rec.EventData); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// EventCounts returns per-kind event totals.
func (d *DB) EventCounts() (map[string]int64, error) {
	rows, err := d.Db.Query(`SELECT name, COUNT(*) FROM events GROUP BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var name string
		var n int64
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		out[name] = n
	}
	return out, rows.Err()
}

func (d *DB) Close() error {
	return d.Db.Close()
}
