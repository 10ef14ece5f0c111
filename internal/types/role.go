package types

import (
	"github.com/samber/lo"

	ierr "github.com/servicehq/servicehub/internal/errors"
)

// UserRole is the role a caller authenticates with. Roles are threaded
// explicitly through every call rather than read from ambient state.
type UserRole string

const (
	// UserRoleAdmin is the platform operator; never tied to a service center.
	UserRoleAdmin UserRole = "admin"
	// UserRoleCenterAdmin owns exactly one service center and its billing.
	UserRoleCenterAdmin UserRole = "centeradmin"
	// UserRoleStaff is a member of a service center with no billing authority.
	UserRoleStaff UserRole = "staff"
)

func (r UserRole) Validate() error {
	allowed := []UserRole{UserRoleAdmin, UserRoleCenterAdmin, UserRoleStaff}
	if !lo.Contains(allowed, r) {
		return ierr.NewErrorf("invalid user role: %s", r).
			WithHint("Please provide a valid user role").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r UserRole) IsPlatformAdmin() bool {
	return r == UserRoleAdmin
}
