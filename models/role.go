package models

// Role is the closed set of user roles.
type Role string

const (
	RoleUser         Role = "user"
	RoleHotelManager Role = "hotel manager"
	RoleAdmin        Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleHotelManager, RoleAdmin:
		return true
	}
	return false
}

// In reports whether r is one of roles.
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}
