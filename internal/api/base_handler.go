package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kingrain94/remote-config-api/internal/api/dto"
	"github.com/kingrain94/remote-config-api/internal/service"
	"github.com/kingrain94/remote-config-api/internal/utils"
	"github.com/kingrain94/remote-config-api/pkg/logger"
)

const internalErrorMessage = "internal server error"

type BaseHandler struct {
	logger *logger.Logger
}

func NewBaseHandler(logger *logger.Logger) *BaseHandler {
	return &BaseHandler{logger: logger}
}

func (h *BaseHandler) RequestCtx(ginCtx *gin.Context) context.Context {
	ctx := ginCtx.Request.Context()
	for k, v := range ginCtx.Keys {
		// Convert string keys to proper context key types to avoid collisions
		contextKey := utils.ContextKey(k)
		ctx = context.WithValue(ctx, contextKey, v)
	}
	return ctx
}

// RespondError writes err as dto.Error with the status its sentinel maps to.
// Unmapped errors are logged and answered with a generic message.
func (h *BaseHandler) RespondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status != http.StatusInternalServerError {
		c.JSON(status, dto.Error{Error: err.Error()})
		return
	}

	if h != nil && h.logger != nil {
		h.logger.Error("request failed", err,
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()))
	}
	c.JSON(status, dto.Error{Error: internalErrorMessage})
}

// PathID returns the :id parameter. Ids are UUIDs; anything else cannot name
// a row and is answered with notFound.
func (h *BaseHandler) PathID(c *gin.Context, notFound error) (string, bool) {
	id := c.Param("id")
	if !IsUUID(id) {
		h.RespondError(c, notFound)
		return "", false
	}
	return id, true
}

func IsUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrTenantNotFound),
		errors.Is(err, service.ErrConfigNotFound),
		errors.Is(err, service.ErrTemplateNotFound),
		errors.Is(err, service.ErrNotPublished),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrKeyNameRequired),
		errors.Is(err, service.ErrInvalidJSON):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrDuplicateKeyName):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrSearchUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
