package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/remote-config-api/internal/api/dto"
)

//go:generate mockery --name SetupService --output ../mocks
type SetupService interface {
	Script() (string, error)
	Status(ctx context.Context) dto.SetupStatusResponse
}

type SetupHandler struct {
	*BaseHandler
	service SetupService
}

func NewSetupHandler(base *BaseHandler, service SetupService) *SetupHandler {
	return &SetupHandler{BaseHandler: base, service: service}
}

// GetSQL godoc
// @Summary Database setup script
// @Description The SQL an operator runs once against a fresh database
// @Tags setup
// @Produce plain
// @Success 200 {string} string
// @Failure 500 {object} dto.Error
// @Router /setup/sql [get]
func (h *SetupHandler) GetSQL(c *gin.Context) {
	script, err := h.service.Script()
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Error{Error: "Failed to load setup SQL"})
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(script))
}

// GetStatus godoc
// @Summary Setup status
// @Description Whether the database is reachable and initialised
// @Tags setup
// @Produce json
// @Success 200 {object} dto.SetupStatusResponse
// @Router /setup/status [get]
func (h *SetupHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Status(h.RequestCtx(c)))
}
