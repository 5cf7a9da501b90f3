package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/tpdash/tprules/internal/store"
)

// Server serves compiled rule documents and the static dashboard.
type Server struct {
	store     *store.Store // may be nil when serving a plain rules file
	addr      string
	staticDir string
	rulesPath string // fallback document when no snapshot is recorded
}

// New creates a dashboard server.
func New(s *store.Store, addr, staticDir, rulesPath string) *Server {
	return &Server{store: s, addr: addr, staticDir: staticDir, rulesPath: rulesPath}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/rules", s.getRules)
	mux.HandleFunc("GET /api/snapshots", s.listSnapshots)
	mux.HandleFunc("GET /api/snapshots/{id}", s.getSnapshot)
	mux.HandleFunc("GET /health", s.health)

	// Dashboard HTML/CSS/JS plus the compiled JSON next to it.
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))

	return withCORS(mux)
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	fmt.Printf("Serving dashboard on http://%s\n", s.addr)
	return http.ListenAndServe(s.addr, s.Handler())
}

// withCORS adds CORS headers for frontend development.
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getRules serves the latest recorded document, falling back to the compiled
// rules file on disk when nothing has been recorded yet.
func (s *Server) getRules(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		raw, err := s.store.LatestDocument()
		if err == nil {
			writeRawJSON(w, raw)
			return
		}
		if !errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	if s.rulesPath != "" {
		raw, err := os.ReadFile(s.rulesPath)
		if err == nil {
			writeRawJSON(w, raw)
			return
		}
	}

	writeError(w, http.StatusNotFound, "no compiled rules available")
}

func (s *Server) listSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "snapshot store not configured")
		return
	}

	limit := 20
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			offset = n
		}
	}

	snaps, err := s.store.ListSnapshots(limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"snapshots": snaps,
		"limit":     limit,
		"offset":    offset,
	})
}

func (s *Server) getSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "snapshot store not configured")
		return
	}

	id := r.PathValue("id")

	// Support prefix matching, so short ids from `tprules list` work.
	snaps, err := s.store.ListSnapshots(100, 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var fullID string
	for _, sn := range snaps {
		if strings.HasPrefix(sn.ID, id) {
			fullID = sn.ID
			break
		}
	}
	if fullID == "" {
		writeError(w, http.StatusNotFound, "snapshot not found")
		return
	}

	_, raw, err := s.store.GetSnapshot(fullID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeRawJSON(w, raw)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeRawJSON(w http.ResponseWriter, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
