package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	for _, name := range []string{"Planned", "planned", "PLANNED", " Planned "} {
		status, ok := ParseOrderStatus(name)
		assert.True(t, ok, name)
		assert.Equal(t, OrderPlanned, status)
	}

	_, ok := ParseOrderStatus("Cancelled")
	assert.False(t, ok)
	_, ok = ParseOrderStatus("")
	assert.False(t, ok)
}

func TestOrderStatusStoredNames(t *testing.T) {
	// Stored representations are part of the persisted contract.
	assert.Equal(t, "Planned", OrderPlanned.StoredName())
	assert.Equal(t, "InProgress", OrderInProgress.StoredName())
	assert.Equal(t, "Finished", OrderFinished.StoredName())
	assert.Equal(t, []string{"Planned", "InProgress", "Finished"}, OrderStatusNames())
}

func TestStatusValidity(t *testing.T) {
	assert.True(t, OrderInProgress.Valid())
	assert.False(t, OrderStatus("Paused").Valid())

	assert.True(t, ResourceAvailable.Valid())
	assert.True(t, ResourceInUse.Valid())
	assert.True(t, ResourceStopped.Valid())
	assert.False(t, ResourceStatus("Broken").Valid())
}
