// Package rbac is a role-based access-control decision engine: given an
// actor's roles, a method and a resource, it decides whether access is
// permitted.
//
// Rules are declared against an RBAC instance by role name, buffered,
// and compiled into an immutable Policy:
//
//	g := role.NewGraph()
//	everyone := g.Define("everyone")
//	staff := g.Define("staff")
//	staff.AddParent(everyone)
//
//	r := rbac.New(g, rbac.WithWhitelist())
//	r.Allow([]string{"staff"}, []string{"GET", "POST"}, "articles")
//	r.Deny([]string{"everyone"}, []string{"POST"}, "articles")
//
//	p, err := r.Compile()
//	ok := p.Permitted(role.NewStaticUser(staff).Roles(), "GET", "articles")
//
// Two modes exist. Whitelist is default-deny: only an explicit allow
// match permits. Blacklist (the default) is default-allow: everything is
// permitted unless denied — and to keep allow declarations meaningful,
// compilation synthesizes deny rules for every role not named in them.
//
// Deny always wins over allow, exempt resources bypass checking
// entirely, and a role inherits every rule granted to its ancestors.
package rbac
