package domain_test

import (
	"testing"

	"github.com/rezkam/jobqueue/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestStatusCounts_ZeroValueHasAllBuckets(t *testing.T) {
	var c domain.StatusCounts
	assert.Equal(t, int64(0), c.Pending)
	assert.Equal(t, int64(0), c.Running)
	assert.Equal(t, int64(0), c.Completed)
	assert.Equal(t, int64(0), c.Failed)
}

func TestDefaultMaxRetries(t *testing.T) {
	assert.Equal(t, 3, domain.DefaultMaxRetries)
}
