package valueobject

import (
	"errors"
	"fmt"
)

var ErrInvalidRole = errors.New("invalid role")

// Role is the closed set of roles a principal can hold.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole accepts exactly "ADMIN" or "USER". Anything else is rejected
// rather than mapped to a default.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, value)
	}
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// Authority returns the granted-authority name for the role, e.g. ROLE_ADMIN.
func (r Role) Authority() string {
	return "ROLE_" + string(r)
}
