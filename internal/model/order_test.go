package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusReadyForPickup.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}

func TestIsValidCancellationReason(t *testing.T) {
	for _, reason := range CancellationReasons {
		assert.True(t, IsValidCancellationReason(reason))
	}
	assert.False(t, IsValidCancellationReason(""))
	assert.False(t, IsValidCancellationReason("changed my mind"))
}
