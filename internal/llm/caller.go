package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// Generator is the single upstream capability the caller retries around:
// one prompt in, one text reply out. The model id is provider construction
// state, not per-call state.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// CallerConfig controls the retry state machine.
type CallerConfig struct {
	// MaxRetries is the total attempt budget. Must be positive.
	MaxRetries int
	// Classify maps upstream errors to retry classes. Defaults to
	// ClassifyByMessage.
	Classify Classifier
	// BackoffUnit scales the backoff schedule. Defaults to one second
	// (rate limits wait 2^i units, transients 1+i units).
	BackoffUnit time.Duration
	// AttemptTimeout, when positive, bounds each generate call with its
	// own deadline. Zero leaves the upstream call unbounded.
	AttemptTimeout time.Duration
}

// Caller retries a Generator with classified backoff. One Call owns its
// loop state exclusively; a Caller is safe for concurrent use.
type Caller struct {
	gen   Generator
	cfg   CallerConfig
	sleep func(ctx context.Context, d time.Duration) error
}

// NewCaller validates the configuration up front so a bad retry budget or
// missing generator fails at construction, not mid-call.
func NewCaller(gen Generator, cfg CallerConfig) (*Caller, error) {
	if gen == nil {
		return nil, fmt.Errorf("%w: nil generator", ErrInvalidConfig)
	}
	if cfg.MaxRetries <= 0 {
		return nil, fmt.Errorf("%w: max retries must be positive, got %d", ErrInvalidConfig, cfg.MaxRetries)
	}
	if cfg.Classify == nil {
		cfg.Classify = ClassifyByMessage
	}
	if cfg.BackoffUnit <= 0 {
		cfg.BackoffUnit = time.Second
	}
	return &Caller{gen: gen, cfg: cfg, sleep: sleepContext}, nil
}

// Call runs the attempt loop. It returns the first non-empty model reply,
// or a *CallError wrapping ErrRateLimitExceeded, ErrAuthentication,
// ErrTransient or ErrEmptyResponse once the budget is spent or a
// non-retryable error is hit. Backoff waits abort early when ctx is done.
func (c *Caller) Call(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	lastKind := ErrTransient

	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		text, err := c.generate(ctx, prompt)

		if err == nil {
			if strings.TrimSpace(text) != "" {
				return text, nil
			}
			// Empty replies are retried on the linear schedule but
			// surfaced as their own terminal class.
			lastErr = nil
			lastKind = ErrEmptyResponse
			if attempt == c.cfg.MaxRetries-1 {
				break
			}
			if werr := c.wait(ctx, linearBackoff(attempt, c.cfg.BackoffUnit)); werr != nil {
				return "", werr
			}
			continue
		}

		lastErr = err
		var wait time.Duration
		switch c.cfg.Classify(err) {
		case ClassAuthFailed:
			return "", &CallError{Kind: ErrAuthentication, Attempts: attempt + 1, Last: err}
		case ClassRateLimited:
			lastKind = ErrRateLimitExceeded
			wait = exponentialBackoff(attempt, c.cfg.BackoffUnit)
		default:
			lastKind = ErrTransient
			wait = linearBackoff(attempt, c.cfg.BackoffUnit)
		}
		if attempt == c.cfg.MaxRetries-1 {
			break
		}
		log.Printf("model call failed (attempt %d/%d), retrying in %v: %v", attempt+1, c.cfg.MaxRetries, wait, err)
		if werr := c.wait(ctx, wait); werr != nil {
			return "", werr
		}
	}

	return "", &CallError{Kind: lastKind, Attempts: c.cfg.MaxRetries, Last: lastErr}
}

func (c *Caller) generate(ctx context.Context, prompt string) (string, error) {
	if c.cfg.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.AttemptTimeout)
		defer cancel()
	}
	return c.gen.Generate(ctx, prompt)
}

func (c *Caller) wait(ctx context.Context, d time.Duration) error {
	if err := c.sleep(ctx, d); err != nil {
		return fmt.Errorf("backoff aborted: %w", err)
	}
	return nil
}

func exponentialBackoff(attempt int, unit time.Duration) time.Duration {
	return time.Duration(1<<attempt) * unit
}

func linearBackoff(attempt int, unit time.Duration) time.Duration {
	return time.Duration(1+attempt) * unit
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
