package config

import "errors"

// ErrRedisURLRequired is returned when the rate gate's keyed counter store
// connection string is not configured.
var ErrRedisURLRequired = errors.New("JOBQUEUE_REDIS_URL is required")

// RedisConfig holds the rate gate's keyed counter store connection
// configuration, read from JOBQUEUE_REDIS_URL.
type RedisConfig struct {
	URL string `env:"JOBQUEUE_REDIS_URL"`
}

// Validate validates the redis configuration.
func (c *RedisConfig) Validate() error {
	if c.URL == "" {
		return ErrRedisURLRequired
	}
	return nil
}
