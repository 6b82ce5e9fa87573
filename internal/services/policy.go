package services

// Resource names a guarded resource type.
type Resource string

const (
	ResourceMenuItems         Resource = "menu-items"
	ResourceCategories        Resource = "categories"
	ResourceManagerGroup      Resource = "manager-group"
	ResourceDeliveryCrewGroup Resource = "delivery-crew-group"
	ResourceCart              Resource = "cart"
	ResourceOrders            Resource = "orders"
	ResourceOrderAssignment   Resource = "order-assignment"
	ResourceOrderStatus       Resource = "order-status"
)

// Operation is the kind of access requested.
type Operation string

const (
	OpRead  Operation = "read"
	OpWrite Operation = "write"
)

type policyKey struct {
	resource Resource
	op       Operation
}

// policy is the declarative allow table keyed by (resource, operation).
// Ownership constraints (own cart, own order, assigned-to-self) are
// enforced by the services next to the data they need; this table
// covers the role axis. Listing and creating orders is open to every
// authenticated principal; the stricter single-order operations carry
// their own rows.
var policy = map[policyKey][]Role{
	{ResourceMenuItems, OpRead}:          {RoleCustomer, RoleDeliveryCrew, RoleManager},
	{ResourceMenuItems, OpWrite}:         {RoleManager},
	{ResourceCategories, OpRead}:         {RoleCustomer, RoleDeliveryCrew, RoleManager},
	{ResourceCategories, OpWrite}:        {RoleManager},
	{ResourceManagerGroup, OpRead}:       {RoleManager},
	{ResourceManagerGroup, OpWrite}:      {RoleManager},
	{ResourceDeliveryCrewGroup, OpRead}:  {RoleManager},
	{ResourceDeliveryCrewGroup, OpWrite}: {RoleManager},
	{ResourceCart, OpRead}:               {RoleCustomer, RoleDeliveryCrew, RoleManager},
	{ResourceCart, OpWrite}:              {RoleCustomer, RoleDeliveryCrew, RoleManager},
	{ResourceOrders, OpRead}:             {RoleCustomer, RoleDeliveryCrew, RoleManager},
	{ResourceOrders, OpWrite}:            {RoleCustomer, RoleDeliveryCrew, RoleManager},
	{ResourceOrderAssignment, OpWrite}:   {RoleManager},
	{ResourceOrderStatus, OpWrite}:       {RoleDeliveryCrew, RoleManager},
}

// Authorize reports whether the role may perform the operation on the
// resource. Unknown pairs are denied.
func Authorize(role Role, resource Resource, op Operation) bool {
	for _, allowed := range policy[policyKey{resource, op}] {
		if allowed == role {
			return true
		}
	}
	return false
}
