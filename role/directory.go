package role

// Directory is the capability contract a role source must satisfy.
// *Graph implements it; applications backed by a database can supply
// their own implementation instead.
type Directory interface {
	// RoleByName resolves a role by name, returning an error wrapping
	// ErrUnknownRole when the name is absent.
	RoleByName(name string) (*Role, error)
	// AllRoles enumerates every role in the directory.
	AllRoles() []*Role
}

// User is the capability contract for an actor: produce the set of roles
// currently held. A nil User is treated as holding only the anonymous
// role, not as an error.
type User interface {
	Roles() []*Role
}

// StaticUser is a User with a fixed role set.
type StaticUser struct {
	roles []*Role
}

// NewStaticUser creates a user holding the given roles.
func NewStaticUser(roles ...*Role) *StaticUser {
	return &StaticUser{roles: roles}
}

// Roles implements User.
func (u *StaticUser) Roles() []*Role {
	return u.roles
}

// UserFunc is an adapter to use an ordinary function as a User.
type UserFunc func() []*Role

// Roles implements User.
func (f UserFunc) Roles() []*Role { return f() }
