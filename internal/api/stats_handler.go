package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/remote-config-api/internal/api/dto"
	"github.com/kingrain94/remote-config-api/internal/service"
	"github.com/kingrain94/remote-config-api/internal/templates"
)

//go:generate mockery --name StatsService --output ../mocks
type StatsService interface {
	Get(ctx context.Context) (dto.StatsResponse, error)
}

type StatsHandler struct {
	*BaseHandler
	service StatsService
}

func NewStatsHandler(base *BaseHandler, service StatsService) *StatsHandler {
	return &StatsHandler{BaseHandler: base, service: service}
}

// GetStats godoc
// @Summary Usage statistics
// @Description Config count, total public reads and tenant count
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StatsResponse
// @Failure 500 {object} dto.Error
// @Router /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.service.Get(h.RequestCtx(c))
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListTemplates godoc
// @Summary Starter templates
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TemplateResponse
// @Router /templates [get]
func (h *StatsHandler) ListTemplates(c *gin.Context) {
	all, err := templates.All()
	if err != nil {
		h.RespondError(c, err)
		return
	}

	resp := make([]dto.TemplateResponse, len(all))
	for i, t := range all {
		resp[i] = dto.TemplateResponse{Type: t.Type, Name: t.Name, Description: t.Description}
	}
	c.JSON(http.StatusOK, resp)
}

// GetTemplate godoc
// @Summary One starter template with its JSON
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param type path string true "Template type"
// @Success 200 {object} dto.TemplateResponse
// @Failure 404 {object} dto.Error
// @Router /templates/{type} [get]
func (h *StatsHandler) GetTemplate(c *gin.Context) {
	t, ok := templates.Get(c.Param("type"))
	if !ok {
		h.RespondError(c, service.ErrTemplateNotFound)
		return
	}

	c.JSON(http.StatusOK, dto.TemplateResponse{Type: t.Type, Name: t.Name, Description: t.Description, JSON: t.JSON})
}
