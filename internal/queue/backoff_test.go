package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryBackoff(t *testing.T) {
	cases := []struct {
		retryCount int
		want       time.Duration
	}{
		{0, 30 * time.Second},
		{1, 60 * time.Second},
		{2, 120 * time.Second},
		{3, 240 * time.Second},
		{4, 480 * time.Second},
		{5, 600 * time.Second}, // would be 960s uncapped; capped at 10min
		{10, 600 * time.Second},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, retryBackoff(c.retryCount), "retryCount=%d", c.retryCount)
	}
}
