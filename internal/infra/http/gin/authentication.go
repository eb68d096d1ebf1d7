package ginserver

import (
	"errors"
	"log/slog"
	"strings"

	gin "github.com/gin-gonic/gin"

	authapp "stayhub/internal/app/auth"
	"stayhub/internal/app/authz"
	domainauth "stayhub/internal/domain/auth"
	domainuser "stayhub/internal/domain/user"
)

const principalContextKey = "stayhub.principal"
const tokenContextKey = "stayhub.token"

// AuthMiddleware resolves a bearer token into the request principal. A
// missing or invalid token leaves the request anonymous; the application
// layer rejects operations that need identity.
type AuthMiddleware struct {
	Service *authapp.Service
	Logger  *slog.Logger
}

func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" || m.Service == nil {
		c.Next()
		return
	}
	user, err := m.Service.ResolveToken(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, domainauth.ErrSessionNotFound) && m.Logger != nil {
			m.Logger.Debug("token validation failed", "error", err)
		}
		c.Next()
		return
	}
	c.Set(principalContextKey, authz.Principal{
		ID:    user.ID,
		Name:  user.Name,
		Roles: append([]domainuser.Role(nil), user.Roles...),
	})
	c.Set(tokenContextKey, token)
	c.Next()
}

func currentPrincipal(c *gin.Context) (authz.Principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return authz.Principal{}, false
	}
	p, ok := val.(authz.Principal)
	return p, ok
}

// principalOrAnonymous never fails: unauthenticated requests carry the
// zero principal and are rejected by the services that require identity.
func principalOrAnonymous(c *gin.Context) authz.Principal {
	p, _ := currentPrincipal(c)
	return p
}

func bearerTokenFromContext(c *gin.Context) string {
	if val, exists := c.Get(tokenContextKey); exists {
		if token, ok := val.(string); ok && token != "" {
			return token
		}
	}
	return extractBearerToken(c.GetHeader("Authorization"))
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
