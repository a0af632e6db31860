// Package acl stores access-control rule triples.
//
// A Store holds two disjoint sets of (role, method, resource) triples —
// allowed and denied — plus a set of exempt resources. It answers exact
// membership queries only; combining wildcards, role families and
// deny-overrides-allow precedence is the resolver's job (package rbac).
package acl
