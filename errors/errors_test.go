package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinels_AreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{ErrInvalidArgument, ErrRange, ErrTypeInvalid, ErrComparator}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}

			assert.NotErrorIs(t, a, b)
		}
	}
}

func TestSentinels_SurviveWrapping(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("%w: eleSize must be at least 1, got %d", ErrInvalidArgument, 0)

	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.NotErrorIs(t, err, ErrRange)
	assert.Contains(t, err.Error(), "invalid argument")
}

func TestCollection_Add(t *testing.T) {
	t.Parallel()

	t.Run("adds non-nil errors", func(t *testing.T) {
		t.Parallel()

		c := &Collection{}
		c.Add(ErrInvalidArgument)
		c.Add(ErrRange)

		assert.True(t, c.HasError())
		assert.Equal(t, 2, c.Len())
	})

	t.Run("ignores nil errors", func(t *testing.T) {
		t.Parallel()

		c := &Collection{}

		c.Add(nil)

		assert.False(t, c.HasError())
		assert.Empty(t, c.errors)
	})

	t.Run("handles mixed nil and non-nil errors", func(t *testing.T) {
		t.Parallel()

		c := &Collection{}

		c.Add(ErrRange)
		c.Add(nil)
		c.Add(errors.New("other")) //nolint:err113

		assert.True(t, c.HasError())
		assert.Len(t, c.errors, 2)
	})
}

func TestCollection_Clear(t *testing.T) {
	t.Parallel()

	c := &Collection{}
	c.Add(ErrRange)
	c.Add(ErrTypeInvalid)

	c.Clear()

	assert.False(t, c.HasError())
	assert.Empty(t, c.errors)
	assert.NoError(t, c.GetError())
}

func TestCollection_GetError(t *testing.T) {
	t.Parallel()

	t.Run("returns nil when empty", func(t *testing.T) {
		t.Parallel()

		c := &Collection{}

		assert.NoError(t, c.GetError())
	})

	t.Run("returns single error unchanged", func(t *testing.T) {
		t.Parallel()

		c := &Collection{}
		err1 := fmt.Errorf("%w: field 3 outside record of 2", ErrInvalidArgument)
		c.Add(err1)

		assert.Equal(t, err1, c.GetError())
	})

	t.Run("returns joined errors for multiple errors", func(t *testing.T) {
		t.Parallel()

		c := &Collection{}
		c.Add(fmt.Errorf("%w: eleSize 0", ErrInvalidArgument))
		c.Add(fmt.Errorf("%w: begin 4 > end 2", ErrRange))

		err := c.GetError()

		require.Error(t, err)
		require.ErrorIs(t, err, ErrInvalidArgument)
		require.ErrorIs(t, err, ErrRange)
		assert.NotErrorIs(t, err, ErrTypeInvalid)
	})
}
