package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New("something went wrong")

	assert.Error(t, err)
	assert.Equal(t, "something went wrong", err.Error())
}

func TestWrap(t *testing.T) {
	t.Run("WrapsWithContext", func(t *testing.T) {
		err := Wrap(ErrNotFound, "principal lookup")

		assert.Error(t, err)
		assert.Equal(t, "principal lookup: not found", err.Error())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("NilErrorReturnsNil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "no-op"))
	})

	t.Run("PreservesChainThroughMultipleWraps", func(t *testing.T) {
		err := Wrap(Wrap(ErrConflict, "inner"), "outer")

		assert.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, "outer: inner: conflict", err.Error())
	})
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrInvalidInput)

	assert.True(t, Is(err, ErrInvalidInput))
	assert.False(t, Is(err, ErrNotFound))
}

func TestAs(t *testing.T) {
	type customError struct{ error }

	inner := &customError{error: New("custom")}
	err := fmt.Errorf("wrapped: %w", inner)

	var target *customError
	assert.True(t, As(err, &target))
	assert.Equal(t, inner, target)
}

func TestDomainErrorsAreDistinct(t *testing.T) {
	domainErrors := []error{
		ErrNotFound,
		ErrConflict,
		ErrInvalidInput,
		ErrInvalidState,
		ErrUnauthorized,
		ErrForbidden,
	}

	for i, a := range domainErrors {
		for j, b := range domainErrors {
			if i == j {
				continue
			}
			assert.NotErrorIs(t, a, b)
		}
	}
}
