package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/internal/metrics"
	"github.com/kingrain94/remote-config-api/internal/policy"
	"github.com/kingrain94/remote-config-api/internal/utils"
	"github.com/kingrain94/remote-config-api/pkg/logger"
)

type AuthzMiddleware struct {
	authorizer *policy.Authorizer
	metrics    *metrics.Metrics
	logger     *logger.Logger
}

func NewAuthzMiddleware(authorizer *policy.Authorizer, m *metrics.Metrics, logger *logger.Logger) *AuthzMiddleware {
	return &AuthzMiddleware{
		authorizer: authorizer,
		metrics:    m,
		logger:     logger,
	}
}

// Require checks the caller's role against the policy for object/action.
// It must run after JWTAuth or APIKeyAuth.
func (m *AuthzMiddleware) Require(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := domain.Role(c.GetString(string(utils.RoleKey)))

		allowed, enforced, err := m.authorizer.Authorize(role, object, action)
		if err != nil {
			m.logger.Error("policy evaluation failed", err,
				zap.String("object", object),
				zap.String("action", action))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Authorization failed"})
			return
		}

		if m.metrics != nil {
			m.metrics.RecordAuthzDecision(string(m.authorizer.Mode()), allowed)
		}

		if !allowed {
			if enforced {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
				return
			}
			m.logger.Warn("policy would deny request",
				zap.String("role", string(role)),
				zap.String("object", object),
				zap.String("action", action),
				zap.String("mode", string(m.authorizer.Mode())))
		}

		c.Next()
	}
}
