package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/rbackit/logger"
	"github.com/kbukum/rbackit/rbac"
	"github.com/kbukum/rbackit/role"
)

const rolesContextKey = "rbackit/roles"

// RBACConfig configures the access-control middleware.
type RBACConfig struct {
	// Policy is the compiled policy enforced on every request.
	Policy *rbac.Policy
	// Roles resolves the actor's roles from the request. When unset,
	// RolesFromContext is used; an empty result means anonymous.
	Roles func(c *gin.Context) []*role.Role
	// Resource maps the request to an opaque resource identifier. When
	// unset, the matched route pattern (gin's FullPath) is used, and an
	// unmatched request is rejected with 404 before any checking.
	Resource func(c *gin.Context) string
	// OnDenied is invoked when the policy does not permit the request.
	// Defaults to a JSON 403 response.
	OnDenied gin.HandlerFunc
	// SkipPaths are URL path prefixes that bypass access control.
	SkipPaths []string
	// Logger defaults to a no-op logger.
	Logger *logger.Logger
}

// RBAC returns a Gin middleware enforcing the compiled policy. The
// resource identifier is the matched route, the method is the request
// method, and the actor's roles come from the configured resolver.
func RBAC(cfg RBACConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("middleware")

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		var resource string
		if cfg.Resource != nil {
			resource = cfg.Resource(c)
		} else {
			resource = c.FullPath()
		}
		if resource == "" {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error": "resource not found",
			})
			return
		}

		var roles []*role.Role
		if cfg.Roles != nil {
			roles = cfg.Roles(c)
		} else {
			roles = RolesFromContext(c)
		}

		if !cfg.Policy.PermittedUser(userOf(roles), c.Request.Method, resource) {
			log.Warn("request denied", logger.Fields(
				logger.FieldMethod, c.Request.Method,
				logger.FieldResource, resource,
			))
			if cfg.OnDenied != nil {
				cfg.OnDenied(c)
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "permission denied",
			})
			return
		}
		c.Next()
	}
}

// SetRoles stores the actor's roles in the Gin context for the default
// role resolver. Typically called by an authentication middleware that
// runs earlier in the chain.
func SetRoles(c *gin.Context, roles []*role.Role) {
	c.Set(rolesContextKey, roles)
}

// RolesFromContext returns the roles stored by SetRoles, or nil.
func RolesFromContext(c *gin.Context) []*role.Role {
	v, ok := c.Get(rolesContextKey)
	if !ok {
		return nil
	}
	roles, ok := v.([]*role.Role)
	if !ok {
		return nil
	}
	return roles
}

func userOf(roles []*role.Role) role.User {
	if len(roles) == 0 {
		return nil
	}
	return role.NewStaticUser(roles...)
}
