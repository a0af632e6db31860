// Package jwtroles extracts role names from JWT bearer tokens and
// resolves them against a role directory. It is the bridge between a
// token-issuing identity provider and the access-control policy: the
// token carries role names, the directory turns them into roles, and
// the policy decides.
package jwtroles
