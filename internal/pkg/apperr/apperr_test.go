package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHelpersSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("submit: %w", NotFound("session not found"))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsBadRequest(err))

	e, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, 404, e.Status)
	assert.Equal(t, "not_found", e.Code)
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("failed to record decision", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to record decision: connection reset", err.Error())
	assert.Equal(t, "failed to record decision", err.Message)
}

func TestWrapDoesNotMutate(t *testing.T) {
	base := Conflict("session already completed")
	wrapped := base.Wrap(errors.New("rows=0"))
	assert.Nil(t, base.Err)
	assert.NotNil(t, wrapped.Err)
	assert.True(t, IsConflict(wrapped))
}
