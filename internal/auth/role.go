package auth

import "fmt"

// Role is one of the two fixed authorization levels.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", fmt.Errorf("invalid role: %q", s)
	}
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// HomePath is where a freshly authenticated session of this role lands.
func (r Role) HomePath() string {
	if r == RoleAdmin {
		return "/admin"
	}
	return "/dashboard"
}
