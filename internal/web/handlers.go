package web

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/refdata/internal/matrix"
	"github.com/JonMunkholm/refdata/internal/report"
)

// maxPageSize caps the limit query parameter of the matrix listings.
const maxPageSize = 5000

// handleHealth reports that the server is up and has a snapshot.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.snap == nil || s.snap.Data == nil {
		http.Error(w, "no snapshot loaded", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok\n")
}

// handleListTables returns every source table with its read statistics.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.snap.Tables())
}

// handleSummary returns entity counts, matrix size and warnings.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.snap.Summary())
}

// handleEntity returns one entity of the graph by any of its aliases.
func (s *Server) handleEntity(w http.ResponseWriter, r *http.Request) {
	kindParam := chi.URLParam(r, "kind")
	kind, ok := kinds[kindParam]
	if !ok {
		respondNotFound(w, r, "unknown entity kind "+strconv.Quote(kindParam))
		return
	}

	alias := chi.URLParam(r, "alias")
	e, ok := s.snap.Data.Lookup(kind, alias)
	if !ok {
		respondNotFound(w, r, string(kind)+" "+strconv.Quote(alias)+" not found")
		return
	}
	writeJSON(w, r, e)
}

// handleMatrixImpacts returns a page of the matrix rows.
func (s *Server) handleMatrixImpacts(w http.ResponseWriter, r *http.Request) {
	if !s.hasMatrix(w, r) {
		return
	}
	writeJSON(w, r, page(r, s.snap.Export.Impacts))
}

// handleMatrixFlows returns a page of the matrix columns.
func (s *Server) handleMatrixFlows(w http.ResponseWriter, r *http.Request) {
	if !s.hasMatrix(w, r) {
		return
	}
	writeJSON(w, r, page(r, s.snap.Export.Flows))
}

// handleImpactIndexCSV streams index_C.csv.
func (s *Server) handleImpactIndexCSV(w http.ResponseWriter, r *http.Request) {
	if !s.hasMatrix(w, r) {
		return
	}
	s.writeCSV(w, r, "index_C.csv", func(out io.Writer) error {
		return matrix.WriteImpactIndex(out, s.snap.Export.Impacts)
	})
}

// handleFlowIndexCSV streams index_B.csv.
func (s *Server) handleFlowIndexCSV(w http.ResponseWriter, r *http.Request) {
	if !s.hasMatrix(w, r) {
		return
	}
	s.writeCSV(w, r, "index_B.csv", func(out io.Writer) error {
		return matrix.WriteFlowIndex(out, s.snap.Export.Flows)
	})
}

// handleFlowsPage renders the HTML flow listing.
func (s *Server) handleFlowsPage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := report.WriteFlows(r.Context(), &buf, s.snap.Data); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) hasMatrix(w http.ResponseWriter, r *http.Request) bool {
	if s.snap.Export == nil {
		respondNotFound(w, r, "no characterization matrix in this snapshot")
		return false
	}
	return true
}

// writeCSV renders into a buffer first so a failure can still be reported
// with a proper status.
func (s *Server) writeCSV(w http.ResponseWriter, r *http.Request, filename string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(buf.Bytes())
}

// page applies the offset and limit query parameters to rows.
func page[T any](r *http.Request, rows []T) []T {
	offset := parseIntParam(r, "offset", 0)
	limit := parseIntParam(r, "limit", maxPageSize)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
