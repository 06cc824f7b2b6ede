package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := NotFound("member", "m-1")

	assert.True(t, stderrors.Is(err, ErrNotFound))
	assert.False(t, stderrors.Is(err, ErrConstraint))
	assert.Equal(t, "member not found: m-1", err.Error())
}

func TestErrorIsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("failed to delete member: %w", Constraint("member is payer of 2 activities"))

	assert.True(t, stderrors.Is(err, ErrConstraint))
	assert.Equal(t, CodeConstraint, CodeOf(err))
}

func TestValidationCarriesField(t *testing.T) {
	err := Validation("amount", "must be greater than zero")

	assert.Equal(t, "amount: must be greater than zero", err.Error())
	assert.Equal(t, "amount", FieldOf(fmt.Errorf("create activity: %w", err)))
	assert.True(t, stderrors.Is(err, ErrValidation))
}

func TestTimeoutUnwrapsCause(t *testing.T) {
	err := Timeout("request timed out", context.DeadlineExceeded)

	require.True(t, stderrors.Is(err, ErrTimeout))
	assert.True(t, stderrors.Is(err, context.DeadlineExceeded))
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, CodeUnknown, CodeOf(stderrors.New("boom")))
	assert.Equal(t, "", FieldOf(stderrors.New("boom")))
}
