package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelMatchingSurvivesDetailAndWrapping(t *testing.T) {
	detailed := WithMessage(ErrNotCancellable, "order is %s", "preparing")
	assert.ErrorIs(t, detailed, ErrNotCancellable)
	assert.NotErrorIs(t, detailed, ErrAlreadyFinalized)

	cause := errors.New("connection reset")
	wrapped := Wrap(ErrPaymentIndeterminate, cause)
	assert.ErrorIs(t, wrapped, ErrPaymentIndeterminate)
	assert.ErrorIs(t, wrapped, cause)

	// Matching holds through further fmt wrapping too.
	outer := fmt.Errorf("checkout: %w", wrapped)
	assert.ErrorIs(t, outer, ErrPaymentIndeterminate)
	assert.Equal(t, KindPaymentIndeterminate, KindOf(outer))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindNotFound, KindOf(ErrOrderNotFound))
}
