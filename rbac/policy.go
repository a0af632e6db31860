package rbac

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/rbackit/acl"
	"github.com/kbukum/rbackit/audit"
	"github.com/kbukum/rbackit/logger"
	"github.com/kbukum/rbackit/observability"
	"github.com/kbukum/rbackit/role"
)

// Policy is the compiled, immutable form of an RBAC instance. It is safe
// for concurrent use; mutation after compilation is unsupported.
type Policy struct {
	store       *acl.Store
	anonymous   *role.Role
	mode        Mode
	userLoader  UserLoader
	failureHook func()
	log         *logger.Logger
	metrics     *observability.DecisionMetrics
	audit       *audit.Recorder
}

// Mode returns the mode the policy was compiled with.
func (p *Policy) Mode() Mode { return p.mode }

// Store exposes the underlying rule store for inspection.
func (p *Policy) Store() *acl.Store { return p.store }

// Check resolves the actor's role set against the rule store and returns
// the tri-state decision.
//
// Exempt resources short-circuit to Allowed. Otherwise the actor's roles
// expand to their full ancestor families (whitelist mode additionally
// includes anonymous, so anonymous-targeted allows apply universally),
// and every (role, method|*, resource|*) combination is tested: any deny
// match wins immediately, an allow match is recorded and the scan
// continues because a later combination could still deny.
func (p *Policy) Check(roles []*role.Role, method, resource string) Decision {
	start := time.Now()
	d := p.resolveDecision(roles, method, resource)

	if p.metrics != nil {
		p.metrics.RecordDecision(p.mode.String(), d.String(), time.Since(start))
	}
	if p.audit != nil {
		p.audit.Record(audit.Event{
			Roles:    roleNames(roles),
			Method:   method,
			Resource: resource,
			Decision: d.String(),
			Mode:     p.mode.String(),
			Duration: time.Since(start),
		})
	}
	p.log.Debug("permission check", logger.Fields(
		logger.FieldRoles, roleNames(roles),
		logger.FieldMethod, method,
		logger.FieldResource, resource,
		logger.FieldDecision, d.String(),
	))
	return d
}

func (p *Policy) resolveDecision(roles []*role.Role, method, resource string) Decision {
	if p.store.IsExempt(resource) {
		return Allowed
	}

	expanded := make(map[string]struct{})
	if p.mode == Whitelist {
		expanded[p.anonymous.Name()] = struct{}{}
	}
	for _, r := range roles {
		for _, f := range r.Family() {
			expanded[f.Name()] = struct{}{}
		}
	}

	methods := [2]string{method, acl.Any}
	resources := [2]string{resource, acl.Any}

	allowed := false
	for name := range expanded {
		for _, m := range methods {
			for _, res := range resources {
				if p.store.IsDenied(name, m, res) {
					return Denied
				}
				if !allowed && p.store.IsAllowed(name, m, res) {
					allowed = true
				}
			}
		}
	}
	if allowed {
		return Allowed
	}
	return Unspecified
}

// Permitted applies the mode policy to Check's decision: whitelist mode
// permits only Allowed, blacklist mode permits everything but Denied.
// The failure hook, when configured, fires on every non-permitted
// outcome.
func (p *Policy) Permitted(roles []*role.Role, method, resource string) bool {
	ok := p.mode.Permits(p.Check(roles, method, resource))
	if !ok && p.failureHook != nil {
		p.failureHook()
	}
	return ok
}

// PermittedUser resolves the roles of the given user and applies the
// mode policy. A nil user holds only the anonymous role.
func (p *Policy) PermittedUser(u role.User, method, resource string) bool {
	return p.Permitted(p.userRoles(u), method, resource)
}

// CheckUser loads the current actor through the configured user loader
// and applies the mode policy. It returns ErrMisconfigured when no
// loader was configured.
func (p *Policy) CheckUser(ctx context.Context, method, resource string) (bool, error) {
	if p.userLoader == nil {
		return false, fmt.Errorf("%w: user loader", ErrMisconfigured)
	}
	ctx, span := observability.StartSpan(ctx, observability.SpanPermissionCheck)
	defer span.End()
	span.SetAttributes(
		attribute.String("method", method),
		attribute.String("resource", resource),
	)
	return p.PermittedUser(p.userLoader(ctx), method, resource), nil
}

func (p *Policy) userRoles(u role.User) []*role.Role {
	if u == nil {
		return []*role.Role{p.anonymous}
	}
	roles := u.Roles()
	if len(roles) == 0 {
		return []*role.Role{p.anonymous}
	}
	return roles
}

func roleNames(roles []*role.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, r.Name())
	}
	return out
}
