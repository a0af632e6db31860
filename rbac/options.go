package rbac

import (
	"context"

	"github.com/kbukum/rbackit/audit"
	"github.com/kbukum/rbackit/logger"
	"github.com/kbukum/rbackit/observability"
	"github.com/kbukum/rbackit/role"
)

// UserLoader returns the current actor. A nil User means the actor holds
// only the anonymous role.
type UserLoader func(ctx context.Context) role.User

// Option configures an RBAC instance.
type Option func(*RBAC)

// WithWhitelist switches the instance to whitelist (default-deny) mode.
// The default is blacklist (default-allow).
func WithWhitelist() Option {
	return func(r *RBAC) { r.mode = Whitelist }
}

// WithMode sets the mode explicitly.
func WithMode(m Mode) Option {
	return func(r *RBAC) { r.mode = m }
}

// WithDirectory replaces the role directory used to resolve rule
// declarations. By default the role graph itself is the directory; a
// database-backed role source can be plugged in here. The anonymous
// role still comes from the graph.
func WithDirectory(d role.Directory) Option {
	return func(r *RBAC) { r.dir = d }
}

// WithUserLoader sets the loader used by CheckUser to resolve the
// current actor.
func WithUserLoader(l UserLoader) Option {
	return func(r *RBAC) { r.userLoader = l }
}

// WithFailureHook sets a callback invoked whenever the mode policy does
// not permit a request. Denial stays a normal outcome, not an error; the
// hook is for integration layers that want a side effect on it.
func WithFailureHook(h func()) Option {
	return func(r *RBAC) { r.failureHook = h }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *RBAC) { r.log = l.WithComponent("rbac") }
}

// WithMetrics records decision and compile metrics on the given
// instruments.
func WithMetrics(m *observability.DecisionMetrics) Option {
	return func(r *RBAC) { r.metrics = m }
}

// WithAudit records every resolved decision on the given recorder.
func WithAudit(rec *audit.Recorder) Option {
	return func(r *RBAC) { r.audit = rec }
}

// RuleOption configures a single Allow or Deny declaration.
type RuleOption func(*ruleOptions)

type ruleOptions struct {
	withChildren bool
}

// WithChildren overrides whether the rule cascades to the roles'
// descendants. Allow defaults to true, Deny to false: a child role
// should not silently lose access granted to the parent it specializes,
// but denying a general role should not cascade to specializations
// unless asked.
func WithChildren(v bool) RuleOption {
	return func(o *ruleOptions) { o.withChildren = v }
}
