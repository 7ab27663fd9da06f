package connector

import (
	"context"
	"time"
)

// RetryConfig defines connection retry behavior.
type RetryConfig struct {
	MaxRetries int           `json:"max_retries" yaml:"max_retries"`
	BaseDelay  time.Duration `json:"base_delay" yaml:"base_delay"`
	MaxDelay   time.Duration `json:"max_delay" yaml:"max_delay"`
	Backoff    float64       `json:"backoff" yaml:"backoff"`
}

// retry runs fn until it succeeds, the attempts run out or ctx is done. A
// nil config means a single attempt.
func retry(ctx context.Context, cfg *RetryConfig, fn func(context.Context) error) error {
	if cfg == nil || cfg.MaxRetries <= 0 {
		return fn(ctx)
	}
	delay := cfg.BaseDelay
	if delay <= 0 {
		delay = time.Second // default
	}
	backoff := cfg.Backoff
	if backoff < 1 {
		backoff = 2
	}

	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(ctx); err == nil || attempt >= cfg.MaxRetries {
			return err
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = time.Duration(float64(delay) * backoff)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
}
