package enums

import "fmt"

// UserRole represents the closed set of storefront principals.
type UserRole string

const (
	UserRoleCustomer     UserRole = "customer"
	UserRoleAdmin        UserRole = "admin"
	UserRoleEditor       UserRole = "editor"
	UserRoleMerchandiser UserRole = "merchandiser"
)

var validUserRoles = []UserRole{
	UserRoleCustomer,
	UserRoleAdmin,
	UserRoleEditor,
	UserRoleMerchandiser,
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

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}

// Capability names an operation a role may be allowed to perform.
type Capability string

const (
	CapabilityAdminContent   Capability = "admin_content"
	CapabilityCatalogWrite   Capability = "catalog_write"
	CapabilityMediaSignature Capability = "media_signature"
)

var capabilitiesByRole = map[UserRole][]Capability{
	UserRoleAdmin:        {CapabilityAdminContent, CapabilityCatalogWrite, CapabilityMediaSignature},
	UserRoleEditor:       {CapabilityAdminContent},
	UserRoleMerchandiser: {CapabilityAdminContent, CapabilityCatalogWrite},
}

// Can reports whether the role is granted the capability.
func (r UserRole) Can(cap Capability) bool {
	for _, granted := range capabilitiesByRole[r] {
		if granted == cap {
			return true
		}
	}
	return false
}

// AdminRoles returns the roles allowed onto the admin surface.
func AdminRoles() []UserRole {
	return []UserRole{UserRoleAdmin, UserRoleEditor, UserRoleMerchandiser}
}
