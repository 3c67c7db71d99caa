package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPersistenceWrapsPlainErrors(t *testing.T) {
	base := errors.New("conn reset")
	err := Persistence("insert sale", base)

	var pe *PersistenceError
	assert.ErrorAs(t, err, &pe)
	assert.Equal(t, "insert sale", pe.Op)
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "insert sale: conn reset", err.Error())
}

func TestPersistencePassesThroughTypedErrors(t *testing.T) {
	assert.Nil(t, Persistence("x", nil))

	nf := fmt.Errorf("member 1: %w", ErrNotFound)
	assert.Same(t, nf, Persistence("x", nf))

	ve := Invalid("name", "required")
	assert.Same(t, ve, Persistence("x", ve))
}

func TestValidationErrorUnwrapsSentinel(t *testing.T) {
	sentinel := errors.New("empty")
	err := error(&ValidationError{Reason: "cart is empty", Err: sentinel})

	assert.True(t, IsValidation(err))
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, "validation: cart is empty", err.Error())
	assert.Equal(t, "validation: phone: too long", Invalid("phone", "too long").Error())
}
