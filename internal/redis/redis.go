// Package redis provides redis client initialization with connection
// verification and retry, plus a health check for the readiness endpoint.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrEmptyConnectionURL is returned when no redis URL is configured.
	ErrEmptyConnectionURL = errors.New("empty redis connection URL")
	// ErrFailedToParseConnString is returned when the redis URL cannot be parsed.
	ErrFailedToParseConnString = errors.New("failed to parse redis connection string")
	// ErrNotReady is returned when redis does not answer a ping within the
	// configured attempts.
	ErrNotReady = errors.New("redis did not become ready within the given time period")
	// ErrHealthcheckFailed is returned by the health check on a failed ping.
	ErrHealthcheckFailed = errors.New("redis healthcheck failed")
)

// Config holds redis connection configuration with environment variable support.
type Config struct {
	// ConnectionURL accepts redis:// and rediss:// schemes. Empty disables the
	// cache backend entirely; the service runs with direct fetches only.
	ConnectionURL  string        `env:"REDIS_URL"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}

// Connect creates a redis client and verifies connectivity with a ping,
// retrying with the configured interval before giving up.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}

	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseConnString, err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	attempts := max(cfg.RetryAttempts, 1)

	var lastErr error
	for i := range attempts {
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		} else {
			lastErr = err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				_ = client.Close()
				return nil, errors.Join(ErrNotReady, ctx.Err())
			case <-time.After(cfg.RetryInterval):
			}
		}
	}

	_ = client.Close()
	return nil, errors.Join(ErrNotReady, lastErr)
}

// Healthcheck returns a function suitable for readiness probes.
func Healthcheck(client *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrHealthcheckFailed, err)
		}
		return nil
	}
}
