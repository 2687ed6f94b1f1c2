// Package ratelimit implements a per-tenant sliding-window submission
// limiter backed by Redis sorted sets, grounded in the go-redis/v9
// sorted-set usage attested across the pack's
// flyingrobots-go-redis-work-queue manifests. The teacher itself has no
// Redis usage to ground this on; the fail-open-with-a-warning idiom is
// instead grounded on the teacher's own "log and continue" style for
// non-fatal transient conditions (its old worker package's slog.Warn
// calls on recoverable failures).
package ratelimit

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rezkam/jobqueue/internal/queue"
)

// Gate implements queue.RateGate against Redis.
type Gate struct {
	Client *redis.Client
}

// NewGate constructs a Gate from a Redis URL.
func NewGate(redisURL string) (*Gate, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	return &Gate{Client: redis.NewClient(opts)}, nil
}

func (g *Gate) Close() error {
	return g.Client.Close()
}

// CheckRate evicts entries outside the sliding window, checks cardinality
// against the limit, and if allowed inserts a new entry and refreshes the
// key's TTL. On an unreachable Redis it fails open (returns true, nil) and
// warns once per failure; the error is never propagated to the caller.
func (g *Gate) CheckRate(ctx context.Context, tenantID string) (bool, error) {
	key := fmt.Sprintf("rate:%s", tenantID)
	now := time.Now().UnixMilli()
	windowStart := now - queue.SubmissionWindow.Milliseconds()

	if err := g.Client.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("(%d", windowStart)).Err(); err != nil {
		g.warnUnreachable(ctx, err)
		return true, nil
	}

	count, err := g.Client.ZCard(ctx, key).Result()
	if err != nil {
		g.warnUnreachable(ctx, err)
		return true, nil
	}

	if count >= queue.SubmissionLimit {
		return false, nil
	}

	member := fmt.Sprintf("%d:%s", now, randomSuffix())
	if err := g.Client.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: member}).Err(); err != nil {
		g.warnUnreachable(ctx, err)
		return true, nil
	}
	if err := g.Client.Expire(ctx, key, queue.SubmissionWindow).Err(); err != nil {
		g.warnUnreachable(ctx, err)
		return true, nil
	}

	return true, nil
}

// CheckConcurrency never touches Redis and never fails open: the running
// count is read from the store by the caller, and this is a pure
// comparison against the fixed concurrency cap.
func (g *Gate) CheckConcurrency(runningCount int64) bool {
	return runningCount < queue.ConcurrencyLimit
}

// warnUnreachable logs a single warning for this CheckRate call's failure;
// CheckRate always returns immediately after the first Redis error, so
// this fires at most once per call.
func (g *Gate) warnUnreachable(ctx context.Context, err error) {
	slog.WarnContext(ctx, "rate gate store unreachable, failing open", slog.String("error", err.Error()))
}

func randomSuffix() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
