package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tinkerloft/opsdesk/internal/model"
	"github.com/tinkerloft/opsdesk/internal/outcome"
)

// SubmitInquiryRequest is the JSON body for POST /api/v1/inquiries.
type SubmitInquiryRequest struct {
	Question     string   `json:"question"`
	RequesterID  string   `json:"requester_id"`
	ChannelID    string   `json:"channel_id,omitempty"`
	Environments []string `json:"environments,omitempty"`
	Deadline     string   `json:"deadline,omitempty"` // RFC 3339
}

func (s *Server) handleSubmitInquiry(w http.ResponseWriter, r *http.Request) {
	var req SubmitInquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	if req.RequesterID == "" {
		writeError(w, http.StatusBadRequest, "requester_id is required")
		return
	}

	inquiry := model.NewInquiry(req.Question, req.RequesterID, req.ChannelID)

	if len(req.Environments) > 0 {
		envs := make([]model.Environment, 0, len(req.Environments))
		for _, name := range req.Environments {
			env, ok := model.ParseEnvironment(name)
			if !ok {
				writeError(w, http.StatusBadRequest, "unknown environment: "+name)
				return
			}
			envs = append(envs, env)
		}
		inquiry = inquiry.WithEnvironments(envs...)
	}

	if req.Deadline != "" {
		deadline, err := time.Parse(time.RFC3339, req.Deadline)
		if err != nil {
			writeError(w, http.StatusBadRequest, "deadline must be RFC 3339: "+err.Error())
			return
		}
		inquiry = inquiry.WithDeadline(deadline)
	}

	out, err := s.supervisor.Handle(r.Context(), inquiry)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetOutcome(w http.ResponseWriter, r *http.Request) {
	if s.outcomes == nil {
		writeError(w, http.StatusNotImplemented, "outcome store not configured")
		return
	}

	id := chi.URLParam(r, "id")
	out, err := s.outcomes.Get(r.Context(), id)
	if errors.Is(err, outcome.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no outcome for inquiry "+id)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMetricsSummary(w http.ResponseWriter, r *http.Request) {
	if s.outcomes == nil {
		writeError(w, http.StatusNotImplemented, "outcome store not configured")
		return
	}

	period := outcome.ParsePeriod(r.URL.Query().Get("period"))
	summary, err := s.outcomes.Summarize(r.Context(), period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
