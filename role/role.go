package role

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownRole is returned when a name does not resolve to a
	// registered role.
	ErrUnknownRole = errors.New("unknown role")
	// ErrCycle is returned when an edge insertion would create a cycle
	// in the role graph.
	ErrCycle = errors.New("role hierarchy cycle")
)

// AnonymousName is the reserved name of the built-in anonymous role.
// It always resolves without a directory lookup.
const AnonymousName = "anonymous"

// Role is a named permission group arranged in a parent/child hierarchy.
// A role holding parents inherits every rule granted to them; the parent
// and child edge sets are kept as mutual inverses.
type Role struct {
	name     string
	parents  map[string]*Role
	children map[string]*Role
}

func newRole(name string) *Role {
	return &Role{
		name:     name,
		parents:  make(map[string]*Role),
		children: make(map[string]*Role),
	}
}

// Name returns the unique name of this role.
func (r *Role) Name() string { return r.name }

// AddParent inserts a parent edge and the inverse child edge. It returns
// ErrCycle when the parent is the role itself or already a descendant of
// the role.
func (r *Role) AddParent(parent *Role) error {
	if parent == r {
		return fmt.Errorf("%w: %s cannot be its own parent", ErrCycle, r.name)
	}
	// A parent that can already be reached through the child edges would
	// close a loop and make traversal non-terminating.
	for _, d := range r.Descendants() {
		if d == parent {
			return fmt.Errorf("%w: %s is a descendant of %s", ErrCycle, parent.name, r.name)
		}
	}
	r.parents[parent.name] = parent
	parent.children[r.name] = r
	return nil
}

// AddParents inserts parent edges for every given role. It stops at the
// first edge that would create a cycle.
func (r *Role) AddParents(parents ...*Role) error {
	for _, p := range parents {
		if err := r.AddParent(p); err != nil {
			return err
		}
	}
	return nil
}

// Parents returns the direct parents of this role.
func (r *Role) Parents() []*Role {
	return sortedRoles(r.parents)
}

// Children returns the direct children of this role.
func (r *Role) Children() []*Role {
	return sortedRoles(r.children)
}

// Ancestors returns every role reachable by following parent edges
// transitively, not including the role itself.
func (r *Role) Ancestors() []*Role {
	return traverse(r, func(n *Role) map[string]*Role { return n.parents }, false)
}

// Family returns the role itself plus all of its ancestors. A user
// holding this role is treated as simultaneously holding every role in
// its family.
func (r *Role) Family() []*Role {
	return traverse(r, func(n *Role) map[string]*Role { return n.parents }, true)
}

// Descendants returns the transitive closure over child edges, not
// including the role itself.
func (r *Role) Descendants() []*Role {
	return traverse(r, func(n *Role) map[string]*Role { return n.children }, false)
}

// traverse walks the graph breadth-first from start along the edges
// selected by next. The visited set guards against diamonds.
func traverse(start *Role, next func(*Role) map[string]*Role, includeStart bool) []*Role {
	visited := map[string]bool{start.name: true}
	queue := []*Role{start}
	var out []*Role
	if includeStart {
		out = append(out, start)
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, n := range sortedRoles(next(current)) {
			if visited[n.name] {
				continue
			}
			visited[n.name] = true
			out = append(out, n)
			queue = append(queue, n)
		}
	}
	return out
}

func sortedRoles(m map[string]*Role) []*Role {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*Role, 0, len(names))
	for _, name := range names {
		out = append(out, m[name])
	}
	return out
}
