package rbac

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/rbackit/acl"
	"github.com/kbukum/rbackit/audit"
	"github.com/kbukum/rbackit/logger"
	"github.com/kbukum/rbackit/observability"
	"github.com/kbukum/rbackit/role"
)

// pendingRule is a buffered allow/deny declaration. Declarations
// reference roles by name because the role hierarchy may still be under
// construction when rules are declared; names resolve at compile time.
type pendingRule struct {
	role         string
	method       string
	resource     string
	withChildren bool
}

// RBAC is the rule declaration surface. Declarations buffer until
// Compile resolves them against the role directory and produces an
// immutable Policy.
//
// Declaration is a setup-phase activity and is not safe for concurrent
// use; the compiled Policy is immutable and safe to share.
type RBAC struct {
	graph       *role.Graph
	dir         role.Directory
	mode        Mode
	userLoader  UserLoader
	failureHook func()
	log         *logger.Logger
	metrics     *observability.DecisionMetrics
	audit       *audit.Recorder

	pendingAllow []pendingRule
	pendingDeny  []pendingRule
	exempt       []string

	once     sync.Once
	compiled *Policy
	err      error
}

// New creates an RBAC instance over the given role graph. The graph
// doubles as the role directory unless WithDirectory overrides it.
func New(graph *role.Graph, opts ...Option) *RBAC {
	r := &RBAC{
		graph: graph,
		dir:   graph,
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Allow declares that the named roles may use the given methods on the
// resource. Repeated declarations are additive. The declaration cascades
// to the roles' descendants unless WithChildren(false) is given.
//
// Resource acl.Any matches every resource; a method acl.Any matches
// every method.
func (r *RBAC) Allow(roles []string, methods []string, resource string, opts ...RuleOption) {
	o := ruleOptions{withChildren: true}
	for _, opt := range opts {
		opt(&o)
	}
	r.pendingAllow = append(r.pendingAllow, expand(roles, methods, resource, o.withChildren)...)
}

// Deny declares that the named roles may not use the given methods on
// the resource. Deny wins over allow. Unlike Allow, the declaration does
// not cascade to descendants unless WithChildren(true) is given.
func (r *RBAC) Deny(roles []string, methods []string, resource string, opts ...RuleOption) {
	o := ruleOptions{withChildren: false}
	for _, opt := range opts {
		opt(&o)
	}
	r.pendingDeny = append(r.pendingDeny, expand(roles, methods, resource, o.withChildren)...)
}

// Exempt excludes a resource from permission checking entirely. Exempt
// resources resolve to Allowed regardless of roles or deny rules.
func (r *RBAC) Exempt(resource string) {
	r.exempt = append(r.exempt, resource)
}

func expand(roles []string, methods []string, resource string, withChildren bool) []pendingRule {
	out := make([]pendingRule, 0, len(roles)*len(methods))
	for _, rn := range roles {
		for _, m := range methods {
			out = append(out, pendingRule{
				role:         rn,
				method:       strings.ToUpper(m),
				resource:     resource,
				withChildren: withChildren,
			})
		}
	}
	return out
}

// Policy compiles the buffered declarations exactly once and returns the
// result. The error from the first compilation is remembered;
// declarations made after the first call have no effect.
func (r *RBAC) Policy() (*Policy, error) {
	r.once.Do(func() {
		r.compiled, r.err = r.Compile()
	})
	return r.compiled, r.err
}

// Permitted resolves the given role set against the compiled policy,
// compiling it first if needed.
func (r *RBAC) Permitted(roles []*role.Role, method, resource string) (bool, error) {
	p, err := r.Policy()
	if err != nil {
		return false, err
	}
	return p.Permitted(roles, method, resource), nil
}

// Compile materializes the buffered declarations into an immutable
// Policy: role names resolve through the directory, withChildren expands
// into per-descendant triples, and blacklist mode synthesizes the
// complementary deny rules. Compile does not consume the buffer, so it
// can be called again after further declarations if a rebuilt policy is
// wanted.
func (r *RBAC) Compile() (*Policy, error) {
	_, span := observability.StartSpan(context.Background(), observability.SpanPolicyCompile)
	defer span.End()

	start := time.Now()
	store := acl.NewStore()

	for _, res := range r.exempt {
		store.Exempt(res)
	}

	for _, pr := range r.pendingAllow {
		ro, err := r.resolve(pr.role)
		if err != nil {
			return nil, fmt.Errorf("allow %s %s %s: %w", pr.role, pr.method, pr.resource, err)
		}
		store.Allow(ro, pr.method, pr.resource, pr.withChildren)
	}

	denies := r.pendingDeny
	if r.mode == Blacklist {
		denies = append(r.synthesizeDenies(), denies...)
	}
	for _, pr := range denies {
		ro, err := r.resolve(pr.role)
		if err != nil {
			return nil, fmt.Errorf("deny %s %s %s: %w", pr.role, pr.method, pr.resource, err)
		}
		store.Deny(ro, pr.method, pr.resource, pr.withChildren)
	}

	p := &Policy{
		store:       store,
		anonymous:   r.graph.Anonymous(),
		mode:        r.mode,
		userLoader:  r.userLoader,
		failureHook: r.failureHook,
		log:         r.log,
		metrics:     r.metrics,
		audit:       r.audit,
	}

	elapsed := time.Since(start)
	r.log.Info("policy compiled", logger.Fields(
		logger.FieldMode, r.mode.String(),
		"allow_rules", len(store.AllowedRules()),
		"deny_rules", len(store.DeniedRules()),
		logger.FieldDuration, elapsed.Milliseconds(),
	))
	if r.metrics != nil {
		r.metrics.RecordCompile(elapsed)
	}
	return p, nil
}

// MustCompile is like Compile but panics on error. Intended for
// setup-phase wiring where a bad policy should abort startup.
func (r *RBAC) MustCompile() *Policy {
	p, err := r.Compile()
	if err != nil {
		panic(fmt.Sprintf("rbac.MustCompile: %v", err))
	}
	return p
}

func (r *RBAC) resolve(name string) (*role.Role, error) {
	if name == role.AnonymousName {
		return r.graph.Anonymous(), nil
	}
	return r.dir.RoleByName(name)
}

// synthesizeDenies keeps blacklist semantics consistent across the role
// hierarchy: in default-allow mode an allow declaration would otherwise
// be meaningless, because every role not named in it already had access.
// For each allow declaration, every other role in the role universe is
// denied the same methods on the same resource, unless an identical
// allow declaration covers it.
func (r *RBAC) synthesizeDenies() []pendingRule {
	declared := make(map[pendingRule]struct{}, len(r.pendingAllow))
	for _, pr := range r.pendingAllow {
		declared[pr] = struct{}{}
	}

	type group struct {
		resource     string
		role         string
		withChildren bool
	}
	methodsByGroup := make(map[group][]string)
	var order []group
	for _, pr := range r.pendingAllow {
		g := group{pr.resource, pr.role, pr.withChildren}
		if _, seen := methodsByGroup[g]; !seen {
			order = append(order, g)
		}
		methodsByGroup[g] = append(methodsByGroup[g], pr.method)
	}

	universe := []string{role.AnonymousName}
	for _, ro := range r.dir.AllRoles() {
		universe = append(universe, ro.Name())
	}
	sort.Strings(universe)

	var out []pendingRule
	for _, g := range order {
		for _, other := range universe {
			if other == g.role {
				continue
			}
			for _, m := range methodsByGroup[g] {
				candidate := pendingRule{other, m, g.resource, g.withChildren}
				if _, ok := declared[candidate]; ok {
					continue
				}
				out = append(out, candidate)
			}
		}
	}
	return out
}
