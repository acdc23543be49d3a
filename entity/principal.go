package entity

// Role is the authenticated caller's capability class. The core trusts the
// identity provider for it and gates every operation on it once, up front.
type Role string

const (
	RoleCustomer        Role = "customer"
	RoleRestaurantOwner Role = "restaurant_owner"
	RoleDeliveryPartner Role = "delivery_partner"
	RoleDeliveryPerson  Role = "delivery_person"
	RoleAdmin           Role = "admin"
)

// Principal is the authenticated caller as seen by services.
type Principal struct {
	UserID uint `json:"userId"`
	Role   Role `json:"role"`
}

func (p Principal) Is(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
