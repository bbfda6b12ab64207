package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/remote-config-api/internal/api/dto"
	"github.com/kingrain94/remote-config-api/internal/service"
)

//go:generate mockery --name TenantService --output ../mocks
type TenantService interface {
	Create(ctx context.Context, req dto.CreateTenantRequest) (dto.TenantResponse, error)
	GetByID(ctx context.Context, id string) (dto.TenantResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateTenantRequest) (dto.TenantResponse, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]dto.TenantResponse, error)
}

type TenantHandler struct {
	*BaseHandler
	service TenantService
}

func NewTenantHandler(base *BaseHandler, service TenantService) *TenantHandler {
	return &TenantHandler{BaseHandler: base, service: service}
}

// CreateTenant godoc
// @Summary Create a new tenant
// @Description Create a tenant. A blank api_key is generated.
// @Tags tenants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateTenantRequest true "Tenant object"
// @Success 201 {object} dto.TenantResponse
// @Failure 400 {object} dto.Error
// @Failure 401 {object} dto.Error
// @Failure 500 {object} dto.Error
// @Router /tenants [post]
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	var req dto.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error{Error: err.Error()})
		return
	}

	tenant, err := h.service.Create(h.RequestCtx(c), req)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tenant)
}

// ListTenants godoc
// @Summary List all tenants
// @Description Newest first
// @Tags tenants
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TenantResponse
// @Failure 401 {object} dto.Error
// @Failure 500 {object} dto.Error
// @Router /tenants [get]
func (h *TenantHandler) ListTenants(c *gin.Context) {
	tenants, err := h.service.List(h.RequestCtx(c))
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tenants)
}

// GetTenant godoc
// @Summary Get a tenant
// @Tags tenants
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tenant ID"
// @Success 200 {object} dto.TenantResponse
// @Failure 404 {object} dto.Error
// @Router /tenants/{id} [get]
func (h *TenantHandler) GetTenant(c *gin.Context) {
	id, ok := h.PathID(c, service.ErrTenantNotFound)
	if !ok {
		return
	}

	tenant, err := h.service.GetByID(h.RequestCtx(c), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// UpdateTenant godoc
// @Summary Update a tenant
// @Tags tenants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tenant ID"
// @Param body body dto.UpdateTenantRequest true "Tenant fields"
// @Success 200 {object} dto.TenantResponse
// @Failure 400 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Router /tenants/{id} [put]
func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	id, ok := h.PathID(c, service.ErrTenantNotFound)
	if !ok {
		return
	}

	var req dto.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error{Error: err.Error()})
		return
	}

	tenant, err := h.service.Update(h.RequestCtx(c), id, req)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// DeleteTenant godoc
// @Summary Delete a tenant
// @Description Deletes the tenant and every config it owns
// @Tags tenants
// @Security BearerAuth
// @Param id path string true "Tenant ID"
// @Success 204
// @Failure 404 {object} dto.Error
// @Router /tenants/{id} [delete]
func (h *TenantHandler) DeleteTenant(c *gin.Context) {
	id, ok := h.PathID(c, service.ErrTenantNotFound)
	if !ok {
		return
	}

	if err := h.service.Delete(h.RequestCtx(c), id); err != nil {
		h.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
