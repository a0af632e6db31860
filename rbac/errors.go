package rbac

import "errors"

// ErrMisconfigured is returned when a permission check needs a
// collaborator that was never configured (for example CheckUser without
// a user loader). It is a fatal configuration error, not a per-request
// condition; permission denial itself is a Decision, never an error.
var ErrMisconfigured = errors.New("rbac: missing required configuration")
