package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/WrestlingNewsHub/internal/infra/metrics"
	"github.com/sony/gobreaker"
)

const userAgent = "wrestling-news-hub/1.0"

// StatusError is returned when the upstream answers with anything but 200.
type StatusError struct {
	Source     string
	Call       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned status %d", e.Source, e.Call, e.StatusCode)
}

// NewHTTPClient returns the client shared by upstream sources.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if we have 3 consecutive failures
			return counts.ConsecutiveFailures >= 3
		},
		// A caller hanging up says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("CircuitBreaker state changed", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerTransitions.WithLabelValues(name, to.String()).Inc()
		},
	})
}

// fetcher performs single-shot GETs through a circuit breaker. There are no retries:
// one failed call is a failed call.
type fetcher struct {
	source string
	client *http.Client
	cb     *gobreaker.CircuitBreaker
}

func newFetcher(source string, client *http.Client) fetcher {
	if client == nil {
		client = NewHTTPClient(10 * time.Second)
	}
	return fetcher{
		source: source,
		client: client,
		cb:     newCircuitBreaker(source),
	}
}

func (f fetcher) get(ctx context.Context, call, endpoint string, header http.Header, decode func(io.Reader) error) error {
	start := time.Now()
	defer func() {
		metrics.UpstreamRequestDuration.WithLabelValues(f.source, call).Observe(time.Since(start).Seconds())
	}()

	_, err := f.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header = header.Clone()
		if req.Header == nil {
			req.Header = make(http.Header)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			metrics.UpstreamResponses.WithLabelValues(f.source, call, "error").Inc()
			return nil, fmt.Errorf("%s %s request failed: %w", f.source, call, err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				slog.Warn("Failed to close response body", "error", err)
			}
		}()

		metrics.UpstreamResponses.WithLabelValues(f.source, call, strconv.Itoa(resp.StatusCode)).Inc()
		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			return nil, &StatusError{Source: f.source, Call: call, StatusCode: resp.StatusCode}
		}

		if err := decode(resp.Body); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}
