package factory

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/WrestlingNewsHub/internal/domain"
	"github.com/WrestlingNewsHub/internal/infra/transformer"
	"github.com/WrestlingNewsHub/internal/infra/upstream"
	"github.com/WrestlingNewsHub/pkg/config"
)

// NewPostSource creates the configured upstream source.
func NewPostSource(cfg *config.Config) (domain.PostSource, error) {
	if cfg.UpstreamTimeout <= 0 {
		return nil, fmt.Errorf("invalid upstream timeout: %s", cfg.UpstreamTimeout)
	}
	tr, err := transformer.Get(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("unknown post source %q: %w", cfg.Source, err)
	}
	client := upstream.NewHTTPClient(cfg.UpstreamTimeout)

	switch cfg.Source {
	case transformer.TwitterName:
		if err := validateBaseURL(cfg.TwitterAPIURL); err != nil {
			return nil, fmt.Errorf("invalid twitter api url: %w", err)
		}
		slog.Info("Registered post source", "source", cfg.Source, "base_url", cfg.TwitterAPIURL)
		return upstream.NewTwitterClient(cfg.TwitterAPIURL, client, tr), nil
	case transformer.NitterName:
		if cfg.NitterInstance == "" {
			return nil, fmt.Errorf("nitter instance not configured")
		}
		slog.Info("Registered post source", "source", cfg.Source, "instance", cfg.NitterInstance)
		return upstream.NewNitterClient(cfg.NitterInstance, client, tr), nil
	default:
		return nil, fmt.Errorf("no client for post source %q", cfg.Source)
	}
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}
