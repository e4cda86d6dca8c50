package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCapability(t *testing.T) {
	cases := []struct {
		role     string
		required string
		want     bool
	}{
		{RoleAdmin, RoleWaiter, true},
		{RoleAdmin, RoleKitchen, true},
		{RoleAdmin, RoleCashier, true},
		{RoleAdmin, RoleAdmin, true},
		{RoleWaiter, RoleWaiter, true},
		{RoleWaiter, RoleKitchen, false},
		{RoleWaiter, RoleAdmin, false},
		{RoleKitchen, RoleCashier, false},
		{RoleCashier, RoleCashier, true},
		{"", RoleWaiter, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, HasCapability(tc.role, tc.required),
			"role=%q required=%q", tc.role, tc.required)
	}
}

func TestStatusSets(t *testing.T) {
	for _, status := range []string{StatusPending, StatusInPreparation, StatusReady, StatusDelivered, StatusCancelled} {
		assert.True(t, AllowedStatuses[status], status)
	}
	assert.False(t, AllowedStatuses["bogus"])
	assert.False(t, AllowedStatuses[""])

	assert.NotContains(t, KitchenQueueStatuses, StatusReady)
	assert.Contains(t, ServerQueueStatuses, StatusReady)
	assert.NotContains(t, ServerQueueStatuses, StatusDelivered)
}
