package domain

import "errors"

// Domain errors returned by the store and checked by the service layer.
var (
	// ErrNotFound indicates the requested job does not exist.
	ErrNotFound = errors.New("job not found")

	// ErrInvalidArgument indicates a missing tenantId/payload or a
	// malformed identifier.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrRateLimited indicates the submission-rate or concurrency
	// admission gate denied a submission.
	ErrRateLimited = errors.New("rate limited")

	// ErrJobOwnershipLost indicates an ack/retry/dlq write found the job
	// no longer claimed by the calling worker (lease stolen by a peer).
	ErrJobOwnershipLost = errors.New("job ownership lost")
)
