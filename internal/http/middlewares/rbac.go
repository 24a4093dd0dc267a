package middlewares

import (
	"github.com/geocoder89/cityevents/internal/actorctx"
	"github.com/geocoder89/cityevents/internal/authz"
	"github.com/geocoder89/cityevents/internal/http/respond"
	"github.com/gin-gonic/gin"
)

// Authorize resolves the caller and applies the policy for op. It runs
// before the body is read, so auth failures win over validation failures.
func (m *AuthMiddleware) Authorize(op authz.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := m.principal(c)
		if err != nil {
			rejectInvalidToken(c, m.log, err)
			return
		}

		decision := authz.Decide(op, p)

		switch decision {
		case authz.Allow:
			if p != nil {
				c.Set(CtxPrincipal, p)
				c.Request = c.Request.WithContext(actorctx.WithPrincipal(c.Request.Context(), p))
			}
			c.Next()
		case authz.DenyUnauthenticated:
			m.log.DebugContext(c.Request.Context(), "access denied",
				"op", op, "decision", decision.String(), "request_id", respond.RequestID(c))
			respond.Unauthorized(c, "Full authentication is required to access this resource")
		default:
			m.log.DebugContext(c.Request.Context(), "access denied",
				"op", op, "decision", decision.String(), "subject", p.Subject, "request_id", respond.RequestID(c))
			respond.Forbidden(c, "Access is denied")
		}
	}
}
