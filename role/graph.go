package role

import (
	"fmt"
	"sync"
)

// Graph is an explicit role registry owning the name→role index. Unlike
// a process-wide registry, independent policy instances can each own a
// Graph, which keeps tests isolated.
//
// Role definition and edge wiring are a setup-phase activity; Graph
// guards its index with a mutex so a live server can still resolve names
// concurrently afterwards.
type Graph struct {
	mu        sync.RWMutex
	roles     map[string]*Role
	anonymous *Role
}

// NewGraph creates an empty role graph with the built-in anonymous role.
func NewGraph() *Graph {
	return &Graph{
		roles:     make(map[string]*Role),
		anonymous: newRole(AnonymousName),
	}
}

// Define registers a role under the given name and returns it. Defining
// an existing name returns the already-registered role, so Define is
// idempotent. The reserved anonymous name returns the built-in role.
func (g *Graph) Define(name string) *Role {
	if name == AnonymousName {
		return g.anonymous
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if r, ok := g.roles[name]; ok {
		return r
	}
	r := newRole(name)
	g.roles[name] = r
	return r
}

// Get resolves a role by name. The reserved anonymous name resolves to
// the built-in anonymous role without a directory lookup.
func (g *Graph) Get(name string) (*Role, error) {
	if name == AnonymousName {
		return g.anonymous, nil
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.roles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRole, name)
	}
	return r, nil
}

// Anonymous returns the built-in anonymous role. It represents an
// unauthenticated or role-less actor and has no parents.
func (g *Graph) Anonymous() *Role {
	return g.anonymous
}

// All enumerates every registered role, not including anonymous.
func (g *Graph) All() []*Role {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedRoles(g.roles)
}

// RoleByName implements Directory.
func (g *Graph) RoleByName(name string) (*Role, error) {
	return g.Get(name)
}

// AllRoles implements Directory.
func (g *Graph) AllRoles() []*Role {
	return g.All()
}
