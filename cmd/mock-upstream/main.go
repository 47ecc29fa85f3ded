// Command mock-upstream serves canned Twitter API v2 responses for local runs.
// Point TWITTER_API_URL at it and set any non-empty TWITTER_BEARER_TOKEN.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/WrestlingNewsHub/pkg/logging"
	"github.com/gorilla/mux"
)

const mockUserID = "1000000001"

func main() {
	logging.Setup(true)

	addr := ":8081"
	if port := os.Getenv("MOCK_PORT"); port != "" {
		addr = ":" + port
	}

	r := mux.NewRouter()
	r.Use(requireBearer)
	r.HandleFunc("/2/users/by/username/{username}", resolveUser).Methods(http.MethodGet)
	r.HandleFunc("/2/users/{id}/tweets", listTweets).Methods(http.MethodGet)

	slog.Info("Mock upstream server running", "address", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"title":  "Unauthorized",
				"status": http.StatusUnauthorized,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func resolveUser(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	slog.Debug("Resolving user", "username", username)
	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]string{
			"id":       mockUserID,
			"name":     username,
			"username": username,
		},
	})
}

func listTweets(w http.ResponseWriter, r *http.Request) {
	if mux.Vars(r)["id"] != mockUserID {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"errors": []map[string]string{{"detail": "Could not find user"}},
		})
		return
	}

	limit := 10
	if n, err := strconv.Atoi(r.URL.Query().Get("max_results")); err == nil && n > 0 {
		limit = n
	}

	now := time.Now().UTC()
	tweets := make([]map[string]any, 0, limit)
	for i := range limit {
		tweets = append(tweets, map[string]any{
			"id":         strconv.Itoa(2000000000 + i),
			"text":       fmt.Sprintf("Mock wrestling update #%d", i+1),
			"created_at": now.Add(-time.Duration(i) * time.Hour).Format(time.RFC3339),
			"public_metrics": map[string]int{
				"retweet_count": i,
				"like_count":    10 * i,
			},
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": tweets,
		"meta": map[string]int{"result_count": len(tweets)},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
