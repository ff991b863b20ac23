package composite

import "fmt"

// Role names used in error reports and by NamedSolids.
const (
	RoleLeader        = "leader"
	RoleFollower      = "follower"
	RoleCutter        = "cutter"
	RoleNonProduction = "non_production"
)

// DuplicateNameError is returned when a name is already taken within a
// role. The composite is left unchanged.
type DuplicateNameError struct {
	Role string
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate %s name %q", e.Role, e.Name)
}

// NameNotFoundError is returned by name lookups that miss.
type NameNotFoundError struct {
	Role string
	Name string
}

func (e *NameNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Role, e.Name)
}
