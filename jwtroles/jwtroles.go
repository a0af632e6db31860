package jwtroles

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/rbackit/role"
)

// ErrNoRolesClaim is returned when the token carries no roles claim.
var ErrNoRolesClaim = errors.New("jwtroles: token has no roles claim")

// Config configures role extraction from JWT bearer tokens.
type Config struct {
	// Secret is the HMAC verification key.
	Secret string
	// Claim is the claim holding the role names (default: "roles").
	// The claim value may be a list of strings or a single string.
	Claim string
}

func (c *Config) claim() string {
	if c.Claim == "" {
		return "roles"
	}
	return c.Claim
}

// Names verifies the token and extracts the role names from the
// configured claim.
func Names(tokenString string, cfg Config) ([]string, error) {
	token, err := gojwt.Parse(tokenString, func(t *gojwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	}, gojwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return nil, fmt.Errorf("jwtroles: %w", err)
	}

	claims, ok := token.Claims.(gojwt.MapClaims)
	if !ok {
		return nil, ErrNoRolesClaim
	}
	raw, ok := claims[cfg.claim()]
	if !ok {
		return nil, ErrNoRolesClaim
	}

	switch v := raw.(type) {
	case string:
		return []string{v}, nil
	case []interface{}:
		names := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("jwtroles: roles claim contains non-string value %v", item)
			}
			names = append(names, s)
		}
		return names, nil
	default:
		return nil, fmt.Errorf("jwtroles: unsupported roles claim type %T", raw)
	}
}

// Resolve maps role names to roles through the directory. Names unknown
// to the directory are skipped: a token minted against a wider role set
// should not break resolution of the roles this policy does know.
func Resolve(dir role.Directory, names []string) []*role.Role {
	out := make([]*role.Role, 0, len(names))
	for _, n := range names {
		r, err := dir.RoleByName(n)
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}

// GinResolver returns a role resolver for middleware.RBACConfig.Roles.
// It reads the Authorization bearer token and resolves its role names
// through the directory; any failure yields no roles, which the policy
// treats as the anonymous actor.
func GinResolver(dir role.Directory, cfg Config) func(c *gin.Context) []*role.Role {
	return func(c *gin.Context) []*role.Role {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			return nil
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return nil
		}
		names, err := Names(parts[1], cfg)
		if err != nil {
			return nil
		}
		return Resolve(dir, names)
	}
}
