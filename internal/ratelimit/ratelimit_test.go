package ratelimit

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rezkam/jobqueue/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGate(t *testing.T) (*Gate, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return &Gate{Client: client}, mr
}

func TestCheckRate_AllowsUpToLimit(t *testing.T) {
	gate, _ := newTestGate(t)
	ctx := context.Background()

	for i := 0; i < queue.SubmissionLimit; i++ {
		allowed, err := gate.CheckRate(ctx, "tenant-a")
		require.NoError(t, err)
		assert.True(t, allowed, "submission %d should be allowed", i+1)
	}
}

func TestCheckRate_DeniesAfterLimit(t *testing.T) {
	gate, _ := newTestGate(t)
	ctx := context.Background()

	for i := 0; i < queue.SubmissionLimit; i++ {
		_, err := gate.CheckRate(ctx, "tenant-a")
		require.NoError(t, err)
	}

	allowed, err := gate.CheckRate(ctx, "tenant-a")
	require.NoError(t, err)
	assert.False(t, allowed, "11th submission within the window must be denied")
}

func TestCheckRate_EvictsEntriesOutsideWindow(t *testing.T) {
	gate, mr := newTestGate(t)
	ctx := context.Background()

	for i := 0; i < queue.SubmissionLimit; i++ {
		_, err := gate.CheckRate(ctx, "tenant-a")
		require.NoError(t, err)
	}

	// FastForward advances miniredis's TTL clock, not the wall clock the
	// entry scores come from, so the old entries disappear here because the
	// key's window-length TTL runs out.
	mr.FastForward(queue.SubmissionWindow + 1)

	allowed, err := gate.CheckRate(ctx, "tenant-a")
	require.NoError(t, err)
	assert.True(t, allowed, "entries from a window that has fully elapsed must no longer count")
}

func TestCheckRate_TenantsAreIsolated(t *testing.T) {
	gate, _ := newTestGate(t)
	ctx := context.Background()

	for i := 0; i < queue.SubmissionLimit; i++ {
		_, err := gate.CheckRate(ctx, "tenant-a")
		require.NoError(t, err)
	}

	allowed, err := gate.CheckRate(ctx, "tenant-b")
	require.NoError(t, err)
	assert.True(t, allowed, "a different tenant's window must be independent")
}

func TestCheckRate_FailsOpenWhenRedisUnreachable(t *testing.T) {
	gate, mr := newTestGate(t)
	mr.Close()

	allowed, err := gate.CheckRate(context.Background(), "tenant-a")
	require.NoError(t, err, "an unreachable store must never surface an error to the caller")
	assert.True(t, allowed, "the rate gate fails open")
}

func TestCheckConcurrency(t *testing.T) {
	gate := &Gate{}
	assert.True(t, gate.CheckConcurrency(0))
	assert.True(t, gate.CheckConcurrency(4))
	assert.False(t, gate.CheckConcurrency(5))
	assert.False(t, gate.CheckConcurrency(6))
}
