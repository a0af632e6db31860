// Package role models a hierarchy of named roles as a directed acyclic
// graph with parent/child edges.
//
// Roles inherit upward: a child role is treated as also holding every
// role reachable through its parent edges (its Family). Edge insertion
// rejects cycles, so traversal always terminates.
//
//	g := role.NewGraph()
//	everyone := g.Define("everyone")
//	staff := g.Define("staff")
//	if err := staff.AddParent(everyone); err != nil {
//	    // would have created a cycle
//	}
//
// The Graph satisfies the Directory contract consumed by package rbac;
// a database-backed role source can replace it by implementing the same
// interface.
package role
