package http

import (
	"context"
	"net/http"
	"time"

	"github.com/WrestlingNewsHub/internal/domain"
	"github.com/WrestlingNewsHub/pkg/config"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ServiceName    = "Wrestling News Hub API"
	ServiceVersion = "1.0.0"
)

// PostRetriever is the pipeline as the HTTP layer sees it.
type PostRetriever interface {
	Retrieve(ctx context.Context) domain.Retrieval
	Handle() string
	MaxPosts() int
}

// NewRouter wires every route. journal may be nil when the journal is disabled.
func NewRouter(posts PostRetriever, journal domain.EventReader, corsOrigins []string) *mux.Router {
	h := &handler{posts: posts, journal: journal}

	r := mux.NewRouter()
	r.Use(recoverMiddleware, requestIDMiddleware, accessLogMiddleware, corsMiddleware(corsOrigins))

	r.HandleFunc("/", h.root).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/health", h.health).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/posts", h.recentPosts).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/tweets", h.recentPosts).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/outcomes", h.outcomes).Methods(http.MethodGet, http.MethodOptions)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func NewHTTPServer(cfg *config.Config, posts PostRetriever, journal domain.EventReader) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           NewRouter(posts, journal, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
