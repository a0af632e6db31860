package acl

import (
	"sort"
	"sync"

	"github.com/kbukum/rbackit/role"
)

// Any is the wildcard matching every method or resource in a rule.
const Any = "*"

// Rule is an (role, method, resource) triple. Its presence in the allow
// set grants access when matched; presence in the deny set revokes it,
// and deny wins over allow for the same match.
type Rule struct {
	Role     string
	Method   string
	Resource string
}

// Store records allow and deny rule triples plus exempt resources. It is
// a pure set: membership tests are exact, wildcard expansion happens in
// the resolver. Inserts are idempotent.
//
// The store is built once during setup and read on every permission
// check; the lock makes the read path safe in a multi-threaded server.
type Store struct {
	mu      sync.RWMutex
	allowed map[Rule]struct{}
	denied  map[Rule]struct{}
	exempt  map[string]struct{}
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		allowed: make(map[Rule]struct{}),
		denied:  make(map[Rule]struct{}),
		exempt:  make(map[string]struct{}),
	}
}

// Allow inserts an allow triple for r, and for every descendant of r
// when withChildren is set. Granting a role access "with children" keeps
// specializations from silently losing what their parent was granted.
func (s *Store) Allow(r *role.Role, method, resource string, withChildren bool) {
	s.insert(s.allowed, r, method, resource, withChildren)
}

// Deny inserts a deny triple for r, and for every descendant of r when
// withChildren is set.
func (s *Store) Deny(r *role.Role, method, resource string, withChildren bool) {
	s.insert(s.denied, r, method, resource, withChildren)
}

func (s *Store) insert(set map[Rule]struct{}, r *role.Role, method, resource string, withChildren bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if withChildren {
		for _, child := range r.Descendants() {
			set[Rule{child.Name(), method, resource}] = struct{}{}
		}
	}
	set[Rule{r.Name(), method, resource}] = struct{}{}
}

// IsAllowed reports whether the exact triple is in the allow set.
func (s *Store) IsAllowed(roleName, method, resource string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.allowed[Rule{roleName, method, resource}]
	return ok
}

// IsDenied reports whether the exact triple is in the deny set.
func (s *Store) IsDenied(roleName, method, resource string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.denied[Rule{roleName, method, resource}]
	return ok
}

// Exempt marks a resource as bypassing all permission checking.
func (s *Store) Exempt(resource string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exempt[resource] = struct{}{}
}

// IsExempt reports whether the resource bypasses permission checking.
func (s *Store) IsExempt(resource string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.exempt[resource]
	return ok
}

// AllowedRules returns a sorted snapshot of the allow set.
func (s *Store) AllowedRules() []Rule {
	return s.snapshot(s.allowed)
}

// DeniedRules returns a sorted snapshot of the deny set.
func (s *Store) DeniedRules() []Rule {
	return s.snapshot(s.denied)
}

func (s *Store) snapshot(set map[Rule]struct{}) []Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Rule, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role < out[j].Role
		}
		if out[i].Method != out[j].Method {
			return out[i].Method < out[j].Method
		}
		return out[i].Resource < out[j].Resource
	})
	return out
}
