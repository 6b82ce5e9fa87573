package services

// Group names mirrored from the identity store.
const (
	GroupManager      = "Manager"
	GroupDeliveryCrew = "Delivery Crew"
)

// Role is the privilege level derived from group membership.
type Role int

const (
	RoleCustomer Role = iota
	RoleDeliveryCrew
	RoleManager
)

func (r Role) String() string {
	switch r {
	case RoleManager:
		return "manager"
	case RoleDeliveryCrew:
		return "delivery-crew"
	default:
		return "customer"
	}
}

// Principal is the authenticated actor making a request, with its role
// already resolved. Passing it explicitly keeps every access check pure.
type Principal struct {
	UserID   string
	Username string
	Role     Role
}

// ResolveRole derives the role from the ambient identity data.
// Manager membership is checked before Delivery Crew, so a user in both
// groups is Manager-privileged; superusers are always Manager.
func ResolveRole(isSuperuser bool, groups []string) Role {
	if isSuperuser {
		return RoleManager
	}
	for _, g := range groups {
		if g == GroupManager {
			return RoleManager
		}
	}
	for _, g := range groups {
		if g == GroupDeliveryCrew {
			return RoleDeliveryCrew
		}
	}
	return RoleCustomer
}
