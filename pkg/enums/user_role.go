package enums

import "fmt"

// UserRole distinguishes marketplace customers, retailers and the moderators
// who review community content reports.
type UserRole string

const (
	UserRoleCustomer  UserRole = "customer"
	UserRoleRetailer  UserRole = "retailer"
	UserRoleModerator UserRole = "moderator"
)

var validUserRoles = []UserRole{
	UserRoleCustomer,
	UserRoleRetailer,
	UserRoleModerator,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// SelfRegisterable reports whether the role may be chosen at signup.
// Moderators are provisioned by operators, never through the public
// register endpoint.
func (r UserRole) SelfRegisterable() bool {
	return r == UserRoleCustomer || r == UserRoleRetailer
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
