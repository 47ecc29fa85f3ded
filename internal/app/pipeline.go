package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/WrestlingNewsHub/internal/domain"
	"github.com/WrestlingNewsHub/internal/infra/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultHandle   = "JesseRodPodcast"
	DefaultMaxPosts = 5
	tracerName      = "wrestling-news-hub"
	unknownSource   = "unknown"
)

// PipelineConfig is everything the pipeline reads; nothing comes from the environment.
type PipelineConfig struct {
	Handle     string
	Credential string
	MaxPosts   int
}

// PostPipeline fetches the configured account's recent posts and degrades to
// the fallback catalog on any failure.
type PostPipeline struct {
	cfg      PipelineConfig
	source   domain.PostSource
	recorder domain.OutcomeRecorder
}

func NewPostPipeline(cfg PipelineConfig, source domain.PostSource, recorder domain.OutcomeRecorder) *PostPipeline {
	if cfg.Handle == "" {
		cfg.Handle = DefaultHandle
	}
	if cfg.MaxPosts <= 0 {
		cfg.MaxPosts = DefaultMaxPosts
	}
	return &PostPipeline{
		cfg:      cfg,
		source:   source,
		recorder: recorder,
	}
}

// Handle returns the account the pipeline republishes.
func (p *PostPipeline) Handle() string {
	return p.cfg.Handle
}

// MaxPosts returns the listing limit.
func (p *PostPipeline) MaxPosts() int {
	return p.cfg.MaxPosts
}

// GetRecentPosts never fails and never returns an empty slice.
func (p *PostPipeline) GetRecentPosts(ctx context.Context) []domain.Post {
	return p.Retrieve(ctx).Posts
}

// Retrieve runs one retrieval and reports how it ended. Either every post is
// live or the whole fallback catalog is served; results are never mixed.
func (p *PostPipeline) Retrieve(ctx context.Context) domain.Retrieval {
	tr := otel.Tracer(tracerName)
	ctx, span := tr.Start(ctx, "retrieve",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("handle", p.cfg.Handle)),
	)
	defer span.End()

	start := time.Now()
	source, posts, err := p.run(ctx)
	result := domain.Retrieval{
		Posts:   posts,
		Outcome: domain.OutcomeOf(err),
		Err:     err,
	}
	if err != nil {
		result.Posts = domain.FallbackCatalog()
		span.RecordError(err)
		if result.Outcome == domain.OutcomeUnexpectedError {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.SetAttributes(
		attribute.String("source", source),
		attribute.String("outcome", string(result.Outcome)),
		attribute.Int("post_count", len(result.Posts)),
	)

	p.observe(ctx, source, result, time.Since(start))
	return result
}

// run calls into the source. Any panic from it becomes ErrUnexpected.
func (p *PostPipeline) run(ctx context.Context) (source string, posts []domain.Post, err error) {
	source = unknownSource
	defer func() {
		if r := recover(); r != nil {
			posts = nil
			err = fmt.Errorf("%w: panic: %v", domain.ErrUnexpected, r)
		}
	}()

	source = p.source.Name()
	posts, err = p.fetchLive(ctx)
	return source, posts, err
}

func (p *PostPipeline) fetchLive(ctx context.Context) ([]domain.Post, error) {
	if p.source.RequiresCredential() && p.cfg.Credential == "" {
		return nil, domain.ErrCredentialMissing
	}

	accountID, err := p.source.ResolveAccount(ctx, p.cfg.Handle, p.cfg.Credential)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrResolutionFailed, err)
	}
	if accountID == "" {
		return nil, fmt.Errorf("%w: empty account id", domain.ErrResolutionFailed)
	}

	raw, err := p.source.ListPosts(ctx, accountID, p.cfg.Credential, p.cfg.MaxPosts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrListingFailed, err)
	}

	return p.normalize(raw)
}

// normalize turns raw posts into records. Zero posts is a failure in its own
// right: empty live data is never served.
func (p *PostPipeline) normalize(raw []domain.RawPost) ([]domain.Post, error) {
	if len(raw) == 0 {
		return nil, domain.ErrEmptyResult
	}
	if len(raw) > p.cfg.MaxPosts {
		raw = raw[:p.cfg.MaxPosts]
	}

	posts := make([]domain.Post, 0, len(raw))
	for i, rp := range raw {
		post := domain.Post{
			Text:      rp.Text,
			URL:       domain.StatusURL(p.cfg.Handle, rp.ID),
			CreatedAt: rp.CreatedAt,
			ID:        rp.ID,
		}
		if !post.Valid() {
			return nil, fmt.Errorf("%w: post %d is missing id, text or created_at", domain.ErrListingFailed, i)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// observe never fails the request: a panicking recorder is logged and dropped.
func (p *PostPipeline) observe(ctx context.Context, source string, result domain.Retrieval, elapsed time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Recording retrieval outcome panicked", "panic", r)
		}
	}()

	switch result.Outcome {
	case domain.OutcomeLive:
		slog.Info("Fetched posts", "source", source, "handle", p.cfg.Handle, "count", len(result.Posts))
	case domain.OutcomeCredentialMissing:
		slog.Info("Bearer token not configured, serving sample posts", "source", source)
	case domain.OutcomeUnexpectedError:
		slog.Error("Post retrieval failed unexpectedly, serving sample posts",
			"source", source, "handle", p.cfg.Handle, "error", result.Err)
	default:
		slog.Warn("Post retrieval degraded, serving sample posts",
			"source", source, "handle", p.cfg.Handle, "outcome", result.Outcome, "error", result.Err)
	}

	metrics.RetrievalsTotal.WithLabelValues(source, string(result.Outcome)).Inc()
	metrics.RetrievalDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	kind := "live"
	if result.Degraded() {
		kind = "fallback"
	}
	metrics.PostsServed.WithLabelValues(kind).Add(float64(len(result.Posts)))

	if p.recorder == nil {
		return
	}
	event := &domain.RetrievalEvent{
		ID:         uuid.NewString(),
		Handle:     p.cfg.Handle,
		Source:     source,
		Outcome:    result.Outcome,
		PostCount:  len(result.Posts),
		DurationMs: elapsed.Milliseconds(),
		OccurredAt: time.Now().UTC(),
	}
	if result.Err != nil {
		event.Reason = result.Err.Error()
	}
	p.recorder.Record(ctx, event)
}
