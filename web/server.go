// Package web serves the recorder's JSON API.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"scap-recorder/binary"
	"scap-recorder/database"
	"scap-recorder/sigma"
)

type Server struct {
	db            *database.DB
	sigmaDetector *sigma.Detector
	binaryCache   *binary.Cache
	listenAddr    string
}

func NewServer(db *database.DB, sigmaDetector *sigma.Detector, binaryCache *binary.Cache, listenAddr string) *Server {
	return &Server{
		db:            db,
		sigmaDetector: sigmaDetector,
		binaryCache:   binaryCache,
		listenAddr:    listenAddr,
	}
}

func (s *Server) Start(ctx context.Context) error {
	// Log request details around every handler
	logHandler := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			fmt.Printf("[%s] %s %s\n", time.Now().Format("15:04:05"), r.Method, r.URL.Path)
			h(w, r)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/events", logHandler(s.handleEvents))
	mux.HandleFunc("/api/execs", logHandler(s.handleExecs))
	mux.HandleFunc("/api/stats", logHandler(s.handleStats))
	if s.sigmaDetector != nil {
		mux.HandleFunc("/api/sigma/matches", logHandler(s.handleSigmaMatches))
	}
	if s.binaryCache != nil {
		mux.HandleFunc("/api/binaries/", logHandler(s.handleBinaryDownload))
	}

	srv := &http.Server{
		Addr:    s.listenAddr,
		Handler: mux,
	}

	fmt.Printf("Starting web server on %s\n", s.listenAddr)

	// Graceful shutdown goroutine
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func limitParam(r *http.Request) int {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	return limit
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// handleEvents returns the newest decoded events. Optional ?limit=N caps
// the result, defaulting to 100.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.db.RecentEvents(limitParam(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, events)
}

func (s *Server) handleExecs(w http.ResponseWriter, r *http.Request) {
	rows, err := s.db.Db.Query(`
		SELECT id, timestamp, tid, pid, ptid, exe, cmdline, cwd, comm, binary_md5
		FROM exec_events ORDER BY id DESC LIMIT ?`, limitParam(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	var execs []database.ExecRecord
	for rows.Next() {
		var rec database.ExecRecord
		var tid int64
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &tid, &rec.Pid, &rec.Ptid,
			&rec.Exe, &rec.CmdLine, &rec.Cwd, &rec.Comm, &rec.BinaryMD5); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		rec.Tid = uint64(tid)
		execs = append(execs, rec)
	}
	if err := rows.Err(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, execs)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.db.EventCounts()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	stats := map[string]interface{}{
		"eventCounts": counts,
	}
	if s.sigmaDetector != nil {
		stats["activeRules"] = s.sigmaDetector.RuleCount()
	}
	writeJSON(w, stats)
}

func (s *Server) handleSigmaMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.db.RecentMatches(limitParam(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, matches)
}

// handleBinaryDownload serves an archived executable by its MD5 hash, as
// recorded in the exec table's binary_md5 column.
func (s *Server) handleBinaryDownload(w http.ResponseWriter, r *http.Request) {
	hash := strings.ToLower(strings.TrimPrefix(r.URL.Path, "/api/binaries/"))
	if len(hash) != 32 || strings.Trim(hash, "0123456789abcdef") != "" {
		http.Error(w, "invalid hash", http.StatusBadRequest)
		return
	}
	if !s.binaryCache.HasBinary(hash) {
		http.Error(w, "binary not archived", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, s.binaryCache.GetBinaryPath(hash))
}
