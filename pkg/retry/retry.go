package retry

import (
	"context"
	"math/rand"
	"time"
)

type Operation = func() error

type Config struct {
	MaxRetries    int
	BackoffFactor float64
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	Jitter        time.Duration
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxRetries:    3,
		BackoffFactor: 2.0,
		InitialDelay:  250 * time.Millisecond,
		MaxDelay:      10 * time.Second,
		Jitter:        50 * time.Millisecond,
	}
}

type Retrier struct {
	config *Config
	rnd    *rand.Rand
}

func NewRetrier(config *Config) *Retrier {
	return &Retrier{
		config: config,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func NewDefaultRetrier() *Retrier {
	return NewRetrier(NewDefaultConfig())
}

// Do runs op until it succeeds, the retry budget is exhausted, or ctx is
// cancelled. The last operation error wins over the retry bookkeeping.
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if attempt >= r.config.MaxRetries {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.backoff(attempt)):
		}
	}
}

// backoff computes the wait before the given retry attempt: exponential
// growth from InitialDelay, capped at MaxDelay, plus random jitter.
func (r *Retrier) backoff(attempt int) time.Duration {
	delay := float64(r.config.InitialDelay)
	for i := 0; i < attempt; i++ {
		delay *= r.config.BackoffFactor
		if delay >= float64(r.config.MaxDelay) {
			delay = float64(r.config.MaxDelay)
			break
		}
	}

	jitter := time.Duration(r.rnd.Float64() * float64(r.config.Jitter))
	return time.Duration(delay) + jitter
}
