package queue

import (
	"context"
	"time"
)

// JobHandler executes a job's payload. The reference handler below is a
// stub; a real deployment pins a handler per payload shape and registers
// its own.
type JobHandler interface {
	Handle(ctx context.Context, payload []byte) error
}

// StubHandler is the reference handler: it simulates work and always
// succeeds. Grounded on the teacher's simulated-work pattern in its older
// internal/worker/worker.go processing loop.
type StubHandler struct {
	SimulatedWork time.Duration
}

func (h StubHandler) Handle(ctx context.Context, payload []byte) error {
	if h.SimulatedWork <= 0 {
		return nil
	}
	select {
	case <-time.After(h.SimulatedWork):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
