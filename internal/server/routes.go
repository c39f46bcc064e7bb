package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/supportbot/internal/analytics"
)

type messageRequest struct {
	Content string `json:"content"`
}

type feedbackRequest struct {
	RecordID string `json:"record_id"`
	Feedback string `json:"feedback"`
}

func (s *Server) registerRoutes(r chi.Router) {
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Post("/{id}/messages", s.handleMessage)
		r.Delete("/{id}", s.handleEndSession)
		r.Get("/{id}/ws", s.handleWebSocket)
	})

	r.Route("/api/analytics", func(r chi.Router) {
		r.Get("/stats", s.handleStats)
		r.Get("/failed", s.handleFailed)
	})

	r.Post("/api/feedback", s.handleFeedback)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": sess.ID})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.sessions.Get(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}

	res := s.engine.RespondIn(r.Context(), sess, req.Content)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.End(id) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "analytics not configured", http.StatusServiceUnavailable)
		return
	}

	stats, err := s.store.GetStatistics(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleFailed(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "analytics not configured", http.StatusServiceUnavailable)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	failed, err := s.store.RecentFailed(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, failed)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "analytics not configured", http.StatusServiceUnavailable)
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Feedback != analytics.FeedbackPositive && req.Feedback != analytics.FeedbackNegative {
		http.Error(w, "feedback must be 'positive' or 'negative'", http.StatusBadRequest)
		return
	}

	if err := s.store.UpdateFeedback(r.Context(), req.RecordID, req.Feedback); err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
