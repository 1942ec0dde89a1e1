package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedGenerator replays one canned outcome per attempt.
type scriptedGenerator struct {
	script []func() (string, error)
	calls  int
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	step := g.calls
	g.calls++
	if step >= len(g.script) {
		step = len(g.script) - 1
	}
	return g.script[step]()
}

func succeed(text string) func() (string, error) {
	return func() (string, error) { return text, nil }
}

func fail(msg string) func() (string, error) {
	return func() (string, error) { return "", errors.New(msg) }
}

// newTestCaller swaps the context-aware sleep for a recorder so backoff
// schedules are asserted without real waiting.
func newTestCaller(t *testing.T, gen Generator, cfg CallerConfig) (*Caller, *[]time.Duration) {
	t.Helper()
	caller, err := NewCaller(gen, cfg)
	require.NoError(t, err)
	waits := &[]time.Duration{}
	caller.sleep = func(ctx context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
	return caller, waits
}

func TestNewCallerRejectsBadConfig(t *testing.T) {
	_, err := NewCaller(nil, CallerConfig{MaxRetries: 3})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewCaller(&scriptedGenerator{script: []func() (string, error){succeed("ok")}}, CallerConfig{MaxRetries: 0})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewCaller(&scriptedGenerator{script: []func() (string, error){succeed("ok")}}, CallerConfig{MaxRetries: -1})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestCallReturnsFirstNonEmptyText(t *testing.T) {
	gen := &scriptedGenerator{script: []func() (string, error){succeed("analysis text")}}
	caller, waits := newTestCaller(t, gen, CallerConfig{MaxRetries: 3})

	text, err := caller.Call(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "analysis text", text)
	assert.Equal(t, 1, gen.calls)
	assert.Empty(t, *waits)
}

func TestCallRetriesRateLimitWithExponentialBackoff(t *testing.T) {
	gen := &scriptedGenerator{script: []func() (string, error){
		fail("429 too many requests"),
		fail("quota exceeded for project"),
		succeed("finally"),
	}}
	caller, waits := newTestCaller(t, gen, CallerConfig{MaxRetries: 3})

	text, err := caller.Call(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "finally", text)
	assert.Equal(t, 3, gen.calls)
	// 2^0 + 2^1 units of backoff before the winning attempt.
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *waits)
}

func TestCallRateLimitExhaustsBudget(t *testing.T) {
	gen := &scriptedGenerator{script: []func() (string, error){fail("RESOURCE_EXHAUSTED: slow down")}}
	caller, waits := newTestCaller(t, gen, CallerConfig{MaxRetries: 3})

	_, err := caller.Call(context.Background(), "prompt")
	require.ErrorIs(t, err, ErrRateLimitExceeded)
	assert.Equal(t, 3, gen.calls)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *waits)

	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, 3, callErr.Attempts)
	assert.Contains(t, callErr.Error(), "RESOURCE_EXHAUSTED")
}

func TestCallAuthErrorAbortsImmediately(t *testing.T) {
	gen := &scriptedGenerator{script: []func() (string, error){fail("invalid api key provided")}}
	caller, waits := newTestCaller(t, gen, CallerConfig{MaxRetries: 3})

	_, err := caller.Call(context.Background(), "prompt")
	require.ErrorIs(t, err, ErrAuthentication)
	assert.Equal(t, 1, gen.calls)
	assert.Empty(t, *waits)

	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, 1, callErr.Attempts)
}

func TestCallTransientUsesLinearBackoff(t *testing.T) {
	gen := &scriptedGenerator{script: []func() (string, error){
		fail("connection reset by peer"),
		fail("connection reset by peer"),
		fail("connection reset by peer"),
		succeed("recovered"),
	}}
	caller, waits := newTestCaller(t, gen, CallerConfig{MaxRetries: 4})

	text, err := caller.Call(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second, 3 * time.Second}, *waits)
}

func TestCallTransientExhaustsBudget(t *testing.T) {
	gen := &scriptedGenerator{script: []func() (string, error){fail("upstream timeout")}}
	caller, _ := newTestCaller(t, gen, CallerConfig{MaxRetries: 2})

	_, err := caller.Call(context.Background(), "prompt")
	require.ErrorIs(t, err, ErrTransient)
	assert.Equal(t, 2, gen.calls)
}

func TestCallEmptyRepliesSurfaceAsEmptyResponse(t *testing.T) {
	gen := &scriptedGenerator{script: []func() (string, error){succeed("  \n")}}
	caller, waits := newTestCaller(t, gen, CallerConfig{MaxRetries: 3})

	_, err := caller.Call(context.Background(), "prompt")
	require.ErrorIs(t, err, ErrEmptyResponse)
	assert.Equal(t, 3, gen.calls)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *waits)
}

func TestCallBackoffAbortsOnCancel(t *testing.T) {
	gen := &scriptedGenerator{script: []func() (string, error){fail("429")}}
	caller, err := NewCaller(gen, CallerConfig{MaxRetries: 3, BackoffUnit: time.Hour})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, callErr := caller.Call(ctx, "prompt")
		done <- callErr
	}()
	cancel()

	select {
	case callErr := <-done:
		require.ErrorIs(t, callErr, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("call did not abort after cancellation")
	}
	assert.LessOrEqual(t, gen.calls, 1)
}

func TestClassifyByMessage(t *testing.T) {
	cases := []struct {
		msg  string
		want Class
	}{
		{"429 Too Many Requests", ClassRateLimited},
		{"rate_limit hit", ClassRateLimited},
		{"Quota exceeded", ClassRateLimited},
		{"code = RESOURCE_EXHAUSTED", ClassRateLimited},
		{"invalid API key", ClassAuthFailed},
		{"Authentication required", ClassAuthFailed},
		{"http 401 unauthorized", ClassAuthFailed},
		{"http 403 forbidden", ClassAuthFailed},
		{"code = INVALID_ARGUMENT", ClassAuthFailed},
		{"connection reset by peer", ClassTransient},
		{"upstream timeout", ClassTransient},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyByMessage(fmt.Errorf("model call: %s", tc.msg)))
		})
	}
}
