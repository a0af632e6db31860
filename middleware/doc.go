// Package middleware integrates the policy engine with Gin.
//
// The RBAC middleware maps each request to a resource identifier (the
// matched route), resolves the actor's roles, and enforces the compiled
// policy, rejecting denied requests with a 403 by default:
//
//	engine.Use(middleware.RBAC(middleware.RBACConfig{
//	    Policy: p,
//	    Roles:  jwtroles.GinResolver(graph, jwtCfg),
//	}))
package middleware
