package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitTracer_WithoutExporter(t *testing.T) {
	ctx := context.Background()
	shutdown, err := InitTracer(ctx, "wrestling-news-hub-test", "test", "")
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(ctx, "span")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, shutdown(ctx))
}
