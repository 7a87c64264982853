package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/reidoko/HRT841-GO-Enrichment/pkg/enrichment"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/logging"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/validation"
	"github.com/reidoko/HRT841-GO-Enrichment/pkg/visualization"
)

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
	Nodes  int    `json:"nodes"`
	Links  int    `json:"links"`
	Terms  int    `json:"terms"`
}

// ColorResponse is the /api/color payload.
type ColorResponse struct {
	QueryID string         `json:"queryId"`
	Matches map[string]int `json:"matches"`
	Default int            `json:"default"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.mu.RLock()
	view := visualization.Export(s.graph, s.positions)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := visualization.RenderHTML(w, view, s.pageTitle); err != nil {
		s.logger.Error("render page", logging.Error(err))
	}
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.mu.RLock()
	view := visualization.Export(s.graph, s.positions)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleColor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req validation.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.ValidateQueryRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	query, err := s.buildQuery(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	applied, err := query.Apply(s.graph)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	for _, rule := range req.Rules {
		s.metrics.RecordColorQuery(rule.Kind)
	}

	queryID := uuid.NewString()
	s.logger.Info("coloring query applied",
		logging.String("query_id", queryID),
		logging.Int("rules", len(req.Rules)),
		logging.Int("default_nodes", applied.Default),
	)

	writeJSON(w, http.StatusOK, ColorResponse{
		QueryID: queryID,
		Matches: applied.Matches,
		Default: applied.Default,
	})
}

// buildQuery turns a validated request into coloring rules. A term rule
// without an explicit color expands into the standard enriched/purified
// pair.
func (s *Server) buildQuery(req *validation.QueryRequest) (*enrichment.Query, error) {
	query := enrichment.NewQuery()
	if req.Default != "" {
		query.Default = req.Default
	}

	for _, rule := range req.Rules {
		switch rule.Kind {
		case "term":
			if s.results == nil {
				return nil, fmt.Errorf("no enrichment results loaded")
			}
			if rule.Color == "" {
				query.Rules = append(query.Rules,
					s.results.TermAny(rule.Term, enrichment.EnrichedColor, enrichment.PurifiedColor)...)
			} else {
				query.Rules = append(query.Rules, s.results.TermEnriched(rule.Term, rule.Color))
			}
		case "gene":
			query.Rules = append(query.Rules, enrichment.HasGene(rule.Gene, colorOr(rule.Color, enrichment.MatchColor)))
		case "orthogroup":
			query.Rules = append(query.Rules, enrichment.HasOrthogroup(rule.Orthogroup, colorOr(rule.Color, enrichment.MatchColor)))
		case "size":
			query.Rules = append(query.Rules, enrichment.SizeAtLeast(rule.MinSize, colorOr(rule.Color, enrichment.MatchColor)))
		}
	}

	return query, nil
}

func colorOr(color, fallback string) string {
	if color == "" {
		return fallback
	}
	return color
}

func (s *Server) handleTerms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	terms := []string{}
	if s.results != nil {
		terms = s.results.Terms()
	}
	writeJSON(w, http.StatusOK, map[string][]string{"terms": terms})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.graph.GetStatistics()

	terms := 0
	if s.results != nil {
		terms = len(s.results.Terms())
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "healthy",
		Uptime: time.Since(s.startTime).Round(time.Second).String(),
		Nodes:  stats.NodeCount,
		Links:  stats.LinkCount,
		Terms:  terms,
	})
}
