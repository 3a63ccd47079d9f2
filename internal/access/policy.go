// Package access is the single authorization predicate table for the
// system. Route guards, handlers and the operations client all call the
// same pure functions, so role semantics are not re-derived per screen.
package access

import "rentaldesk-backend/internal/domain"

// RoleSet restricts an action to the roles it contains. A nil RoleSet means
// no restriction: any authenticated role passes.
type RoleSet map[domain.Role]struct{}

func NewRoleSet(roles ...domain.Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

func (s RoleSet) Contains(role domain.Role) bool {
	_, ok := s[role]
	return ok
}

var (
	staffOrAdmin = NewRoleSet(domain.RoleStaff, domain.RoleAdmin)
	adminOnly    = NewRoleSet(domain.RoleAdmin)
)

// CanAccess reports whether a user holding role may reach a resource
// restricted to required. The zero Role means unauthenticated and is always
// denied. Pure function of its inputs: the same call backs both route
// guarding and inline control gating.
func CanAccess(role domain.Role, required RoleSet) bool {
	if role == "" {
		return false
	}
	if required == nil {
		return true
	}
	return required.Contains(role)
}

// CanManageFleet reports whether role may create, edit or delete cars.
// Customers are read-only for the fleet.
func CanManageFleet(role domain.Role) bool {
	return CanAccess(role, staffOrAdmin)
}

// CanManageRentals reports whether role may create rentals, edit their
// dates or process returns. Customers may only view their own rentals.
func CanManageRentals(role domain.Role) bool {
	return CanAccess(role, staffOrAdmin)
}

// IsAdminOnly reports whether role may use admin tooling.
func IsAdminOnly(role domain.Role) bool {
	return CanAccess(role, adminOnly)
}
