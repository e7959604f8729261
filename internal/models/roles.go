// internal/models/roles.go

package models

// Role identifies which of the four account collections a record lives in.
type Role string

const (
	RoleCitizen    Role = "ROLE_CITIZEN"
	RoleTechnician Role = "ROLE_TECHNICIAN"
	RoleOfficer    Role = "ROLE_OFFICER"
	RoleHead       Role = "ROLE_HEAD"
)

// IsValid reports whether r is one of the four account variants.
func (r Role) IsValid() bool {
	switch r {
	case RoleCitizen, RoleTechnician, RoleOfficer, RoleHead:
		return true
	}
	return false
}

// String returns the wire form of the role.
func (r Role) String() string {
	return string(r)
}

// Label is the human form used in outbound mail ("Officer", "Technician").
func (r Role) Label() string {
	switch r {
	case RoleCitizen:
		return "Citizen"
	case RoleTechnician:
		return "Technician"
	case RoleOfficer:
		return "Officer"
	case RoleHead:
		return "Head"
	}
	return "User"
}

// ResolutionOrder is the fixed priority in which account collections are
// probed for an email. Citizen wins when an email exists in more than one.
func ResolutionOrder() []Role {
	return []Role{
		RoleCitizen,
		RoleTechnician,
		RoleOfficer,
		RoleHead,
	}
}

// FromString converts a string to a Role.
func FromString(role string) (Role, bool) {
	r := Role(role)
	if r.IsValid() {
		return r, true
	}
	return "", false
}
