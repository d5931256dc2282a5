package middleware

import (
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/warehouse-ops/pkg/auth"
	"github.com/wms-platform/warehouse-ops/pkg/errors"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
)

// ContextKeyPrincipal is the gin key holding the authenticated *auth.Principal
const ContextKeyPrincipal = "principal"

// TokenValidator validates bearer tokens
type TokenValidator interface {
	ValidateToken(token string) (*auth.Principal, error)
}

// BearerAuth rejects requests without a valid bearer token. Paths listed in
// public are passed through untouched.
func BearerAuth(validator TokenValidator, public ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(public))
	for _, p := range public {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.FullPath()] || skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			AbortWithAppError(c, errors.ErrUnauthorized("missing bearer token"))
			return
		}

		principal, err := validator.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			AbortWithAppError(c, errors.ErrUnauthorized(err.Error()))
			return
		}

		c.Set(ContextKeyPrincipal, principal)
		c.Request = c.Request.WithContext(logging.ContextWithUserID(c.Request.Context(), principal.Username))

		c.Next()
	}
}

// RequireRole rejects principals whose role is not listed. Requests without a
// principal pass through, which only happens when BearerAuth is not
// installed.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if principal == nil || slices.Contains(roles, principal.Role) {
			c.Next()
			return
		}
		AbortWithAppError(c, errors.ErrForbidden("role "+principal.Role+" may not "+c.Request.Method+" "+c.FullPath()))
	}
}

// GetPrincipal returns the authenticated principal, if any
func GetPrincipal(c *gin.Context) *auth.Principal {
	if val, ok := c.Get(ContextKeyPrincipal); ok {
		if p, ok := val.(*auth.Principal); ok {
			return p
		}
	}
	return nil
}
