package confirm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmResolvesTrue(t *testing.T) {
	gate := NewGate()

	req, err := gate.Ask("Delete product", "This cannot be undone", VariantDanger, "Delete", "Keep")
	require.NoError(t, err)

	gate.Confirm()

	assert.True(t, <-req.Result())
	assert.Nil(t, gate.Pending())
}

func TestCancelResolvesFalse(t *testing.T) {
	gate := NewGate()

	req, err := gate.Ask("Delete product", "This cannot be undone", VariantDanger, "Delete", "Keep")
	require.NoError(t, err)

	gate.Cancel()

	assert.False(t, <-req.Result())
	assert.Nil(t, gate.Pending())
}

func TestNothingPendingByDefault(t *testing.T) {
	gate := NewGate()

	assert.Nil(t, gate.Pending())

	// resolving with nothing pending is a no-op
	gate.Confirm()
	gate.Cancel()
	assert.Nil(t, gate.Pending())
}

func TestSecondAskRejectedWhilePending(t *testing.T) {
	gate := NewGate()

	first, err := gate.Ask("First", "", VariantInfo, "OK", "Cancel")
	require.NoError(t, err)

	_, err = gate.Ask("Second", "", VariantInfo, "OK", "Cancel")
	assert.ErrorIs(t, err, ErrConfirmationPending)

	// the first caller still gets its answer
	gate.Confirm()
	assert.True(t, <-first.Result())

	// once resolved, a new request is accepted again
	_, err = gate.Ask("Third", "", VariantInfo, "OK", "Cancel")
	assert.NoError(t, err)
}

func TestPendingExposesRequestFields(t *testing.T) {
	gate := NewGate()

	_, err := gate.Ask("Remove user", "Remove jane@example.com?", VariantWarning, "Remove", "Keep")
	require.NoError(t, err)

	pending := gate.Pending()
	require.NotNil(t, pending)
	assert.Equal(t, "Remove user", pending.Title)
	assert.Equal(t, VariantWarning, pending.Variant)
	assert.Equal(t, "Remove", pending.ConfirmLabel)

	gate.Cancel()
}
