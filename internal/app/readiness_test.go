package app

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadinessWaiter_NothingConfigured(t *testing.T) {
	w := NewReadinessWaiter(nil, nil, "")
	assert.NoError(t, w.WaitForDependencies(context.Background()))
}

func TestReadinessWaiter_ContextCancelled(t *testing.T) {
	// Reserve a port and close it so nothing answers there.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	w := NewReadinessWaiter(nil, []string{addr}, "retrieval_events")
	w.interval = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, w.WaitForDependencies(ctx), context.DeadlineExceeded)
}
