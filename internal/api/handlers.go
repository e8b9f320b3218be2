package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/MikeSquared-Agency/quill/internal/agentcfg"
)

type processRequest struct {
	YAML   string `json:"yaml"`
	Source string `json:"source,omitempty"`
}

// processConfig handles POST /api/v1/process.
func (s *Server) processConfig(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid JSON: %v", err)})
		return
	}
	if req.YAML == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "yaml is required"})
		return
	}

	source := req.Source
	if source == "" {
		source = "api"
	}

	result, err := s.proc.Process(r.Context(), req.YAML, source)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type variablesRequest struct {
	Template string `json:"template"`
}

// extractVariables handles POST /api/v1/variables.
func (s *Server) extractVariables(w http.ResponseWriter, r *http.Request) {
	var req variablesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid JSON: %v", err)})
		return
	}

	vars := s.engine.Variables(req.Template)
	writeJSON(w, http.StatusOK, map[string]any{
		"variables": vars,
		"count":     len(vars),
	})
}

type promptsRequest struct {
	YAML   string            `json:"yaml"`
	Values map[string]string `json:"values"`
}

// generatePrompts handles POST /api/v1/prompts. Invalid variable values are
// reported with 422 and per-variable validity, not as a server error.
func (s *Server) generatePrompts(w http.ResponseWriter, r *http.Request) {
	var req promptsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid JSON: %v", err)})
		return
	}
	if req.YAML == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "yaml is required"})
		return
	}

	file, err := agentcfg.Parse(req.YAML)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	agents := file.AgentList()
	template := file.Template()

	prompts, validations, ok := s.proc.GeneratePrompts(template, req.Values, agents)
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"valid":     false,
			"variables": validations,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"valid":     true,
		"variables": validations,
		"prompts":   prompts,
	})
}

// recentRuns handles GET /api/v1/runs/recent.
func (s *Server) recentRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "run history requires a database"})
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	runs, err := s.store.RecentRuns(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list runs", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list runs"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"runs":  runs,
		"count": len(runs),
	})
}
