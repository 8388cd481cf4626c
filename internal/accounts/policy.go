package accounts

import "github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"

// Policy is the authorization surface resolved once from the role claim at
// session start. Handlers consult the policy; nothing downstream inspects
// roles or email lists again.
type Policy struct {
	role enums.UserRole
}

// PolicyFor resolves the policy for a role. Unknown roles get the customer
// policy.
func PolicyFor(role enums.UserRole) Policy {
	if !role.IsValid() {
		role = enums.UserRoleCustomer
	}
	return Policy{role: role}
}

// Role returns the role the policy was resolved from.
func (p Policy) Role() enums.UserRole {
	return p.role
}

// IsAdmin reports whether the session belongs to studio staff.
func (p Policy) IsAdmin() bool {
	return p.role == enums.UserRoleAdmin
}

// CanManageCatalog gates shape create/update/deactivate.
func (p Policy) CanManageCatalog() bool {
	return p.IsAdmin()
}

// CanManagePromos gates promo rule administration.
func (p Policy) CanManagePromos() bool {
	return p.IsAdmin()
}

// CanViewAllOrders gates the order admin surface.
func (p Policy) CanViewAllOrders() bool {
	return p.IsAdmin()
}

// CanSetProductionStatus gates production tracking updates.
func (p Policy) CanSetProductionStatus() bool {
	return p.IsAdmin()
}

// CanViewCapacity gates the weekly load view.
func (p Policy) CanViewCapacity() bool {
	return p.IsAdmin()
}
