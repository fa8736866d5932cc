package scheduling

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"clinic-scheduling-server/internal/models"
)

func TestKindOf(t *testing.T) {
	err := newError(KindConflict, "slot taken")
	assert.Equal(t, KindConflict, KindOf(err))
	assert.True(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(err, KindNotFound))

	// Wrapping keeps the kind visible.
	wrapped := fmt.Errorf("booking failed: %w", err)
	assert.Equal(t, KindConflict, KindOf(wrapped))

	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestErrorMessage(t *testing.T) {
	plain := newError(KindInvalidRange, "duration must be positive")
	assert.Equal(t, "invalid_range: duration must be positive", plain.Error())

	cause := errors.New("record not found")
	withCause := &Error{Kind: KindNotFound, Message: "appointment x not found", Cause: cause}
	assert.Contains(t, withCause.Error(), "record not found")
	assert.ErrorIs(t, withCause, cause)
}

func TestInvalidTransitionMessage(t *testing.T) {
	err := errInvalidTransition(models.StatusCompleted, models.StatusCancelled)
	assert.Equal(t, KindInvalidTransition, err.Kind)
	assert.Contains(t, err.Message, "COMPLETED")
	assert.Contains(t, err.Message, "CANCELLED")
}
