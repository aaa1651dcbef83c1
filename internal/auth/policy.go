package auth

import (
	"slices"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/models"
)

// Policy grants access to callers whose role is listed and, when Owner is
// set, who also own the resource.
type Policy struct {
	Roles []models.Role
	Owner *uint
}

func (p Policy) Allows(id Identity) bool {
	if len(p.Roles) > 0 && !slices.Contains(p.Roles, id.Role) {
		return false
	}
	if p.Owner != nil && *p.Owner != id.UserID {
		return false
	}
	return true
}

func Role(roles ...models.Role) Policy {
	return Policy{Roles: roles}
}

func OwnedBy(ownerID uint, roles ...models.Role) Policy {
	return Policy{Roles: roles, Owner: &ownerID}
}

// Authorize passes when any policy allows id, and returns Forbidden with
// message otherwise.
func Authorize(id Identity, message string, policies ...Policy) error {
	for _, p := range policies {
		if p.Allows(id) {
			return nil
		}
	}
	return apperrors.Forbidden(message)
}
