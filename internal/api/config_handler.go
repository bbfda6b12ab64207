package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/remote-config-api/internal/api/dto"
	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/internal/service"
	"github.com/kingrain94/remote-config-api/pkg/utils"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

//go:generate mockery --name ConfigService --output ../mocks
type ConfigService interface {
	Create(ctx context.Context, req dto.CreateConfigRequest) (dto.ConfigResponse, error)
	GetByID(ctx context.Context, id string) (dto.ConfigResponse, error)
	List(ctx context.Context, filter domain.AppConfigFilter) ([]dto.ConfigResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateConfigRequest) (dto.ConfigResponse, error)
	SaveDraft(ctx context.Context, id string, raw []byte) (dto.ConfigResponse, error)
	Publish(ctx context.Context, id string) (dto.ConfigResponse, error)
	Delete(ctx context.Context, id string) error
}

//go:generate mockery --name IntegrationService --output ../mocks
type IntegrationService interface {
	Get(ctx context.Context, configID string) (dto.IntegrationResponse, error)
}

type ConfigHandler struct {
	*BaseHandler
	service     ConfigService
	integration IntegrationService
}

func NewConfigHandler(base *BaseHandler, service ConfigService, integration IntegrationService) *ConfigHandler {
	return &ConfigHandler{BaseHandler: base, service: service, integration: integration}
}

// CreateConfig godoc
// @Summary Create a config
// @Description Drafts default to {} unless draft_json or a template is given
// @Tags configs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateConfigRequest true "Config"
// @Success 201 {object} dto.ConfigResponse
// @Failure 400 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Failure 409 {object} dto.Error
// @Router /configs [post]
func (h *ConfigHandler) CreateConfig(c *gin.Context) {
	var req dto.CreateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error{Error: err.Error()})
		return
	}

	if !IsUUID(req.TenantID) {
		h.RespondError(c, service.ErrTenantNotFound)
		return
	}

	cfg, err := h.service.Create(h.RequestCtx(c), req)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, cfg)
}

// ListConfigs godoc
// @Summary List configs
// @Description Most recently updated first. q searches key and tenant names.
// @Tags configs
// @Produce json
// @Security BearerAuth
// @Param tenant_id query string false "Tenant ID"
// @Param q query string false "Free-text search"
// @Param published query bool false "Only published (true) or never published (false)"
// @Param updated_since query string false "RFC3339 or YYYY-MM-DD"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} dto.ConfigResponse
// @Failure 400 {object} dto.Error
// @Router /configs [get]
func (h *ConfigHandler) ListConfigs(c *gin.Context) {
	filter, err := parseConfigFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Error{Error: err.Error()})
		return
	}

	if filter.TenantID != "" && !IsUUID(filter.TenantID) {
		c.JSON(http.StatusOK, []dto.ConfigResponse{})
		return
	}

	configs, err := h.service.List(h.RequestCtx(c), filter)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, configs)
}

func parseConfigFilter(c *gin.Context) (domain.AppConfigFilter, error) {
	filter := domain.AppConfigFilter{
		TenantID: c.Query("tenant_id"),
		Query:    strings.TrimSpace(c.Query("q")),
		Limit:    defaultListLimit,
	}

	if raw := c.Query("published"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, err
		}
		filter.Published = &published
	}

	if raw := c.Query("updated_since"); raw != "" {
		since, err := utils.ParseUserTime(raw, false)
		if err != nil {
			return filter, err
		}
		filter.UpdatedSince = since
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return filter, strconv.ErrSyntax
		}
		filter.Limit = min(limit, maxListLimit)
	}

	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filter, strconv.ErrSyntax
		}
		filter.Offset = offset
	}

	return filter, nil
}

// GetConfig godoc
// @Summary Get a config
// @Tags configs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Config ID"
// @Success 200 {object} dto.ConfigResponse
// @Failure 404 {object} dto.Error
// @Router /configs/{id} [get]
func (h *ConfigHandler) GetConfig(c *gin.Context) {
	id, ok := h.PathID(c, service.ErrConfigNotFound)
	if !ok {
		return
	}

	cfg, err := h.service.GetByID(h.RequestCtx(c), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// UpdateConfig godoc
// @Summary Rename a config
// @Tags configs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Config ID"
// @Param body body dto.UpdateConfigRequest true "New key name"
// @Success 200 {object} dto.ConfigResponse
// @Failure 400 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Failure 409 {object} dto.Error
// @Router /configs/{id} [put]
func (h *ConfigHandler) UpdateConfig(c *gin.Context) {
	id, ok := h.PathID(c, service.ErrConfigNotFound)
	if !ok {
		return
	}

	var req dto.UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error{Error: err.Error()})
		return
	}

	cfg, err := h.service.Update(h.RequestCtx(c), id, req)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// SaveDraft godoc
// @Summary Save the draft
// @Description Replaces draft_json. draft_text is parsed first and rejected when it is not JSON.
// @Tags configs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Config ID"
// @Param body body dto.SaveDraftRequest true "Draft"
// @Success 200 {object} dto.ConfigResponse
// @Failure 400 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Router /configs/{id}/draft [put]
func (h *ConfigHandler) SaveDraft(c *gin.Context) {
	id, ok := h.PathID(c, service.ErrConfigNotFound)
	if !ok {
		return
	}

	var req dto.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error{Error: service.ErrInvalidJSON.Error()})
		return
	}

	raw := []byte(req.Draft)
	if req.DraftText != nil {
		raw = []byte(*req.DraftText)
	}
	if len(raw) == 0 {
		c.JSON(http.StatusBadRequest, dto.Error{Error: "draft_json or draft_text is required"})
		return
	}

	cfg, err := h.service.SaveDraft(h.RequestCtx(c), id, raw)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// PublishConfig godoc
// @Summary Publish the draft
// @Description Copies draft_json verbatim into published_json. Concurrent publishes are last-write-wins.
// @Tags configs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Config ID"
// @Success 200 {object} dto.ConfigResponse
// @Failure 404 {object} dto.Error
// @Router /configs/{id}/publish [post]
func (h *ConfigHandler) PublishConfig(c *gin.Context) {
	id, ok := h.PathID(c, service.ErrConfigNotFound)
	if !ok {
		return
	}

	cfg, err := h.service.Publish(h.RequestCtx(c), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// DeleteConfig godoc
// @Summary Delete a config
// @Tags configs
// @Security BearerAuth
// @Param id path string true "Config ID"
// @Success 204
// @Failure 404 {object} dto.Error
// @Router /configs/{id} [delete]
func (h *ConfigHandler) DeleteConfig(c *gin.Context) {
	id, ok := h.PathID(c, service.ErrConfigNotFound)
	if !ok {
		return
	}

	if err := h.service.Delete(h.RequestCtx(c), id); err != nil {
		h.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetIntegration godoc
// @Summary Integration snippets
// @Description Endpoints and code snippets an application uses to read the published config
// @Tags configs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Config ID"
// @Success 200 {object} dto.IntegrationResponse
// @Failure 404 {object} dto.Error
// @Router /configs/{id}/integration [get]
func (h *ConfigHandler) GetIntegration(c *gin.Context) {
	id, ok := h.PathID(c, service.ErrConfigNotFound)
	if !ok {
		return
	}

	resp, err := h.integration.Get(h.RequestCtx(c), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
