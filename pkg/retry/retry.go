package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gduverger/instapack/pkg/logger"
)

type Config struct {
	MaxRetries          uint64
	InitialInterval     time.Duration
	MaxInterval         time.Duration
	Multiplier          float64
	RandomizationFactor float64
}

// DefaultConfig matches the pacing the upstream source tolerates: slow
// exponential growth with jitter, capped at a minute.
func DefaultConfig() Config {
	return Config{
		MaxRetries:          3,
		InitialInterval:     2 * time.Second,
		MaxInterval:         60 * time.Second,
		Multiplier:          1.6,
		RandomizationFactor: 0.3,
	}
}

// Permanent marks err as non-retryable so Do gives up immediately.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

func Do(ctx context.Context, log logger.Logger, operationName string, operation func() error, cfg Config) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = cfg.InitialInterval
	bo.MaxInterval = cfg.MaxInterval
	bo.Multiplier = cfg.Multiplier
	bo.RandomizationFactor = cfg.RandomizationFactor
	bo.Reset()

	retryable := backoff.WithMaxRetries(bo, cfg.MaxRetries)
	retryableWithContext := backoff.WithContext(retryable, ctx)

	notify := func(err error, t time.Duration) {
		log.Warn(
			"Operation failed, retrying...",
			"operation", operationName,
			"error", err,
			"next_attempt_in", t.Round(time.Millisecond).String(),
		)
	}

	return backoff.RetryNotify(operation, retryableWithContext, notify)
}
