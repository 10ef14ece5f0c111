package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicehq/servicehub/internal/domain/tenant"
	ierr "github.com/servicehq/servicehub/internal/errors"
)

func TestComputeExtension(t *testing.T) {
	tests := []struct {
		name       string
		center     *tenant.ServiceCenter
		now        time.Time
		months     int
		wantBase   time.Time
		wantExpiry time.Time
	}{
		{
			name: "active subscription carries over from current expiry",
			center: &tenant.ServiceCenter{
				IsEnabled:              true,
				TrialEndsAt:            ts("2024-06-01T00:00:00Z"),
				SubscriptionValidUntil: tsp("2025-06-01T00:00:00Z"),
			},
			now:        ts("2025-03-01T09:00:00Z"),
			months:     12,
			wantBase:   ts("2025-06-01T00:00:00Z"),
			wantExpiry: ts("2026-06-01T00:00:00Z"),
		},
		{
			name: "active trial converts from trial end date",
			center: &tenant.ServiceCenter{
				IsEnabled:   true,
				TrialEndsAt: ts("2025-01-20T14:00:00Z"),
			},
			now:        ts("2025-01-10T00:00:00Z"),
			months:     12,
			wantBase:   ts("2025-01-20T00:00:00Z"),
			wantExpiry: ts("2026-01-20T00:00:00Z"),
		},
		{
			name: "lapsed center starts fresh from today",
			center: &tenant.ServiceCenter{
				IsEnabled:              true,
				TrialEndsAt:            ts("2024-01-20T00:00:00Z"),
				SubscriptionValidUntil: tsp("2024-06-01T00:00:00Z"),
			},
			now:        ts("2025-03-15T18:45:00Z"),
			months:     12,
			wantBase:   ts("2025-03-15T00:00:00Z"),
			wantExpiry: ts("2026-03-15T00:00:00Z"),
		},
		{
			name: "subscription valid through its expiry date still carries over",
			center: &tenant.ServiceCenter{
				IsEnabled:              true,
				SubscriptionValidUntil: tsp("2025-06-01T00:00:00Z"),
			},
			now:        ts("2025-06-01T23:00:00Z"),
			months:     12,
			wantBase:   ts("2025-06-01T00:00:00Z"),
			wantExpiry: ts("2026-06-01T00:00:00Z"),
		},
		{
			name: "month end clamps to shorter month",
			center: &tenant.ServiceCenter{
				IsEnabled:              true,
				SubscriptionValidUntil: tsp("2025-01-31T00:00:00Z"),
			},
			now:        ts("2025-01-15T00:00:00Z"),
			months:     1,
			wantBase:   ts("2025-01-31T00:00:00Z"),
			wantExpiry: ts("2025-02-28T00:00:00Z"),
		},
		{
			name: "month end clamps to leap day",
			center: &tenant.ServiceCenter{
				IsEnabled:              true,
				SubscriptionValidUntil: tsp("2024-01-31T00:00:00Z"),
			},
			now:        ts("2024-01-15T00:00:00Z"),
			months:     1,
			wantBase:   ts("2024-01-31T00:00:00Z"),
			wantExpiry: ts("2024-02-29T00:00:00Z"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ext, err := ComputeExtension(tc.center, tc.now, tc.months)
			require.NoError(t, err)
			assert.True(t, ext.Base.Equal(tc.wantBase), "base: got %s want %s", ext.Base, tc.wantBase)
			assert.True(t, ext.NewExpiry.Equal(tc.wantExpiry), "expiry: got %s want %s", ext.NewExpiry, tc.wantExpiry)
		})
	}
}

func TestComputeExtensionRejectsNonPositiveMonths(t *testing.T) {
	center := &tenant.ServiceCenter{IsEnabled: true}
	now := ts("2025-03-01T00:00:00Z")

	for _, months := range []int{0, -1, -12} {
		_, err := ComputeExtension(center, now, months)
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	}
}

func TestComputeExtensionNeverBackdates(t *testing.T) {
	// Whatever the center's history, the new expiry is strictly after now
	// and never earlier than what a fresh start would yield.
	now := ts("2025-03-15T00:00:00Z")
	centers := []*tenant.ServiceCenter{
		{IsEnabled: true},
		{IsEnabled: true, TrialEndsAt: ts("2020-01-01T00:00:00Z")},
		{IsEnabled: true, SubscriptionValidUntil: tsp("2021-06-01T00:00:00Z")},
		{IsEnabled: true, TrialEndsAt: ts("2025-04-01T00:00:00Z")},
		{IsEnabled: true, SubscriptionValidUntil: tsp("2025-09-01T00:00:00Z")},
	}
	floor := ts("2026-03-15T00:00:00Z")

	for _, center := range centers {
		ext, err := ComputeExtension(center, now, 12)
		require.NoError(t, err)
		assert.False(t, ext.NewExpiry.Before(floor), "expiry %s before fresh-start floor %s", ext.NewExpiry, floor)
	}
}

func TestComputeExtensionIsPure(t *testing.T) {
	center := &tenant.ServiceCenter{
		IsEnabled:              true,
		SubscriptionValidUntil: tsp("2025-06-01T00:00:00Z"),
	}
	now := ts("2025-03-01T00:00:00Z")

	first, err := ComputeExtension(center, now, 12)
	require.NoError(t, err)
	second, err := ComputeExtension(center, now, 12)
	require.NoError(t, err)
	assert.True(t, first.NewExpiry.Equal(second.NewExpiry))
	// The center itself is untouched.
	assert.True(t, center.SubscriptionValidUntil.Equal(ts("2025-06-01T00:00:00Z")))
}
