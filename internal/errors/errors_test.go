package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorMessage(t *testing.T) {
	cause := stderrors.New("connection refused")

	err := GenerationService("calling text generation", cause)
	assert.Equal(t, "GENERATION_SERVICE: calling text generation: connection refused", err.Error())
	assert.NotEmpty(t, err.StackTrace())
	assert.ErrorIs(t, err, cause)

	plain := Validation("email is required")
	assert.Equal(t, "VALIDATION: email is required", plain.Error())
	assert.Nil(t, plain.Unwrap())
}

func TestTypeOfUnwrapsChain(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NotFound("interview not found", nil))

	assert.Equal(t, ErrTypeNotFound, TypeOf(wrapped))
	assert.True(t, Is(wrapped, ErrTypeNotFound))
	assert.False(t, Is(wrapped, ErrTypeValidation))

	assert.Equal(t, ErrTypeInternal, TypeOf(stderrors.New("boom")))
	assert.False(t, Is(nil, ErrTypeInternal))
}

func TestConstructorsMessages(t *testing.T) {
	mismatch := AnswerCountMismatch(3, 5)
	require.Equal(t, ErrTypeAnswerCountMismatch, mismatch.Type)
	assert.Contains(t, mismatch.Message, "(3)")
	assert.Contains(t, mismatch.Message, "(5)")

	transition := InvalidStateTransition("PENDING", "COMPLETED")
	require.Equal(t, ErrTypeInvalidStateTransition, transition.Type)
	assert.Equal(t, "cannot move interview from PENDING to COMPLETED", transition.Message)
}
