// Package policy loads declarative access-control documents from YAML
// files and builds them into compiled rbac policies.
//
//	doc, err := policy.Load("policy.yml")
//	graph, p, err := policy.Build(doc)
//	ok := p.Permitted(userRoles, "GET", "articles")
//
// The document's mode can be overridden with the RBAC_MODE environment
// variable, optionally sourced from a .env file.
package policy
