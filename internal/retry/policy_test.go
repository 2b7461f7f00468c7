package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, BackoffLinear, p.Mode)
	assert.Equal(t, time.Second, p.Initial)
	assert.Equal(t, 30*time.Second, p.Max)
	assert.Equal(t, 2, p.MaxRetries)
	require.NoError(t, p.Validate())
}

func TestNewPolicy_Overrides(t *testing.T) {
	p := NewPolicy("FIXED", 5*time.Second, 2*time.Second, 5)
	assert.Equal(t, BackoffFixed, p.Mode)
	assert.Equal(t, 2*time.Second, p.Initial, "initial is clamped to max")
	assert.Equal(t, 5, p.MaxRetries)

	p = NewPolicy("sideways", 0, 0, -1)
	assert.Equal(t, DefaultPolicy(), p)
}

func TestDelay(t *testing.T) {
	fixed := NewPolicy("fixed", 100*time.Millisecond, time.Second, 3)
	linear := NewPolicy("linear", 100*time.Millisecond, 250*time.Millisecond, 3)
	exp := NewPolicy("exp", 100*time.Millisecond, 500*time.Millisecond, 5)

	assert.Equal(t, time.Duration(0), fixed.Delay(0))
	assert.Equal(t, 100*time.Millisecond, fixed.Delay(3))
	assert.Equal(t, 200*time.Millisecond, linear.Delay(2))
	assert.Equal(t, 250*time.Millisecond, linear.Delay(3))
	assert.Equal(t, 400*time.Millisecond, exp.Delay(3))
	assert.Equal(t, 500*time.Millisecond, exp.Delay(4))
	assert.Equal(t, 500*time.Millisecond, exp.Delay(80))
}

func TestValidMode(t *testing.T) {
	assert.True(t, ValidMode(""))
	assert.True(t, ValidMode(" Exponential"))
	assert.False(t, ValidMode("random"))
}

func TestDo(t *testing.T) {
	p := NewPolicy("fixed", time.Millisecond, time.Millisecond, 2)

	calls := 0
	err := p.Do(t.Context(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = p.Do(t.Context(), func(context.Context) error {
		calls++
		return ferrors.NetworkError("down").Build()
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = p.Do(t.Context(), func(context.Context) error {
		calls++
		return ferrors.ValidationError("bad payload").Build()
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "non-retryable errors stop immediately")
}

func TestDo_ContextCanceled(t *testing.T) {
	p := NewPolicy("fixed", time.Hour, time.Hour, 3)
	ctx, cancel := context.WithCancel(t.Context())
	calls := 0
	err := p.Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return errors.New("flaky")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
