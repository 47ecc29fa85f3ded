package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/WrestlingNewsHub/internal/domain"
)

const (
	defaultOutcomeLimit = 20
	maxOutcomeLimit     = 100
)

type handler struct {
	posts   PostRetriever
	journal domain.EventReader
}

type errorResponse struct {
	Error string `json:"error"`
}

// recentPosts always answers with a post list. Only an unexpected failure
// raises the status to 500, and even then the fallback catalog is the body.
func (h *handler) recentPosts(w http.ResponseWriter, r *http.Request) {
	result := h.posts.Retrieve(r.Context())

	status := http.StatusOK
	if result.Outcome == domain.OutcomeUnexpectedError {
		status = http.StatusInternalServerError
	}

	kind := "live"
	if result.Degraded() {
		kind = "fallback"
	}
	w.Header().Set("X-Posts-Source", kind)
	writeJSON(w, status, result.Posts)
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
		"version": ServiceVersion,
	})
}

func (h *handler) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": ServiceName,
		"endpoints": map[string]string{
			"/api/posts":    "GET - Fetch recent posts",
			"/api/tweets":   "GET - Fetch recent posts (legacy alias)",
			"/api/health":   "GET - Health check",
			"/api/outcomes": "GET - Recent retrieval outcomes",
			"/metrics":      "GET - Prometheus metrics",
		},
		"username":  h.posts.Handle(),
		"max_posts": h.posts.MaxPosts(),
	})
}

func (h *handler) outcomes(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "retrieval journal is not configured"})
		return
	}

	limit := defaultOutcomeLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxOutcomeLimit {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be between 1 and 100"})
			return
		}
		limit = n
	}

	events, err := h.journal.Recent(r.Context(), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to read retrieval journal", "error", err, "request_id", RequestID(r.Context()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to read retrieval journal"})
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
