package subscription

import (
	"time"

	"github.com/servicehq/servicehub/internal/domain/tenant"
	ierr "github.com/servicehq/servicehub/internal/errors"
	"github.com/servicehq/servicehub/internal/types"
)

// Extension is the result of computing a subscription extension. Base is the
// point the extension grows from; it is recorded on the history entry as the
// previous expiry.
type Extension struct {
	Base      time.Time
	NewExpiry time.Time
}

// ComputeExtension determines the new subscription expiry for adding the
// given number of calendar months at the given instant. The carry-over rule
// guarantees a center never loses already-paid or already-trialed time, and
// an extension is never backdated:
//
//  1. an active subscription extends from its current expiry;
//  2. an active trial converts, extending from the trial end date;
//  3. otherwise the extension starts from today.
//
// Pure: repeated calls on an unmodified center yield the same result. The
// caller owns persisting the new expiry and writing history.
func ComputeExtension(center *tenant.ServiceCenter, now time.Time, months int) (Extension, error) {
	if months <= 0 {
		return Extension{}, ierr.NewErrorf("invalid extension month count: %d", months).
			WithHint("Extension must cover at least one month").
			WithReportableDetails(map[string]any{
				"months": months,
			}).
			Mark(ierr.ErrValidation)
	}

	var base time.Time
	switch {
	case IsSubscriptionActive(center, now):
		base = types.DateOnly(*center.SubscriptionValidUntil)
	case IsTrialActive(center, now):
		base = types.DateOnly(center.TrialEndsAt)
	default:
		base = types.DateOnly(now)
	}

	return Extension{
		Base:      base,
		NewExpiry: types.AddMonthsClamped(base, months),
	}, nil
}
