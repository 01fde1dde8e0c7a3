package mandel

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessMismatch(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("startup: %w", ProcessMismatch(4, 3))
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.NotErrorIs(t, err, ErrProtocol)
	assert.EqualError(t, err,
		"startup: configuration error: expected number of processes is 4, but current number of processes is 3")

	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 4, cerr.Expected)
	assert.Equal(t, 3, cerr.Actual)
}

func TestInvalidf(t *testing.T) {
	t.Parallel()

	err := Invalidf("step %v", -1)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.EqualError(t, err, "configuration error: step -1")
}

func TestViolate(t *testing.T) {
	t.Parallel()

	defer func() {
		r := recover()
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrProtocol))
		assert.EqualError(t, err, "protocol violation: row 3 recorded twice")
	}()
	Violate("row %d recorded twice", 3)
}

func TestIsCancellationError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsCancellationError(fmt.Errorf("x: %w", context.Canceled)))
	assert.True(t, IsCancellationError(context.DeadlineExceeded))
	assert.False(t, IsCancellationError(ErrProtocol))
}
