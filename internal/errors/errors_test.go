package errors

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestMarkClassifiesError(t *testing.T) {
	err := NewError("transaction already processed").
		WithHint("This payment confirmation was already applied").
		Mark(ErrAlreadyProcessed)

	assert.True(t, IsAlreadyProcessed(err))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, "This payment confirmation was already applied", Hint(err))
}

func TestWithErrorPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := WithError(cause).
		WithHint("Failed to persist payment transaction").
		WithReportableDetails(map[string]any{"transaction_id": "txn_123"}).
		Mark(ErrDatabase)

	assert.True(t, IsDatabase(err))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, map[string]any{"transaction_id": "txn_123"}, Details(err))
}

func TestNewErrorfFormatsMessage(t *testing.T) {
	err := NewErrorf("invalid month count: %d", -2).Mark(ErrValidation)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "invalid month count: -2")
}
