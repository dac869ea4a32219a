package middleware

import (
	"net/http"
	"strings"

	"portal_orcamentos/internal/domain/entities"
	"portal_orcamentos/pkg"

	"github.com/gin-gonic/gin"
)

const contextActorKey = "actor"

var (
	errUnauthorized = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Missing or invalid session token", http.StatusUnauthorized)
	errForbidden    = pkg.NewDomainErrorSimple("FORBIDDEN", "Operation not allowed for this role", http.StatusForbidden)
)

// TokenParser resolves a session token to the actor it was issued for.
type TokenParser interface {
	Parse(token string) (entities.Actor, error)
}

// RequireAuth accepts "Authorization: Bearer <token>". Browsers cannot set headers
// on an EventSource, so the access_token query parameter is accepted too.
func RequireAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = strings.TrimSpace(c.Query("access_token"))
		}
		if token == "" {
			c.AbortWithStatusJSON(errUnauthorized.HTTPStatus, errUnauthorized.ToHTTPError())
			return
		}

		actor, err := parser.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(errUnauthorized.HTTPStatus, errUnauthorized.ToHTTPError())
			return
		}
		c.Set(contextActorKey, &actor)
		c.Next()
	}
}

func RequireRole(role entities.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)
		if actor == nil || actor.Role != role {
			c.AbortWithStatusJSON(errForbidden.HTTPStatus, errForbidden.ToHTTPError())
			return
		}
		c.Next()
	}
}

// ActorFrom returns the authenticated actor, or nil outside RequireAuth.
func ActorFrom(c *gin.Context) *entities.Actor {
	v, ok := c.Get(contextActorKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*entities.Actor)
	return actor
}

// WithActor stores actor on the context the way RequireAuth does.
func WithActor(c *gin.Context, actor *entities.Actor) {
	c.Set(contextActorKey, actor)
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
