package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")
var errPermanent = errors.New("permanent")

func classify(err error) Action {
	if errors.Is(err, errTransient) {
		return Retry
	}
	return Stop
}

func policy() Policy {
	return Policy{MaxAttempts: 3, InitialBackoff: time.Millisecond}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	val, err := Do(context.Background(), policy(), classify, func() (int, error) {
		calls++
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, val)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesTransientError(t *testing.T) {
	calls := 0
	val, err := Do(context.Background(), policy(), classify, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errTransient
		}
		return 7, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 7, val)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), policy(), classify, func() (int, error) {
		calls++
		return 0, errPermanent
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, errPermanent)

	var permErr *PermanentError
	assert.ErrorAs(t, err, &permErr)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), policy(), classify, func() (int, error) {
		calls++
		return 0, errTransient
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, errTransient)
}

func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := Policy{MaxAttempts: 5, InitialBackoff: time.Hour}
	_, err := Do(ctx, p, classify, func() (int, error) {
		return 0, errTransient
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_OnRetryCallback(t *testing.T) {
	var attempts []int
	p := policy()
	p.OnRetry = func(attempt int, err error, backoff time.Duration) {
		attempts = append(attempts, attempt)
	}

	_, err := Do(context.Background(), p, classify, func() (int, error) {
		return 0, errTransient
	})

	require.Error(t, err)
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestDoVoid(t *testing.T) {
	calls := 0
	err := DoVoid(context.Background(), policy(), classify, func() error {
		calls++
		if calls < 2 {
			return errTransient
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
