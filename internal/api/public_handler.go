package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/remote-config-api/internal/api/dto"
	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/internal/metrics"
	"github.com/kingrain94/remote-config-api/internal/service"
)

const (
	eqPrefix            = "eq."
	publishedJSONColumn = "published_json"
)

//go:generate mockery --name PublishedConfigService --output ../mocks
type PublishedConfigService interface {
	GetPublished(ctx context.Context, tenantID, keyName string) (*domain.AppConfig, error)
}

// PublicHandler serves published configs to external applications in the
// two shapes the integration snippets use.
type PublicHandler struct {
	*BaseHandler
	service PublishedConfigService
	metrics *metrics.Metrics
}

func NewPublicHandler(base *BaseHandler, service PublishedConfigService, m *metrics.Metrics) *PublicHandler {
	return &PublicHandler{BaseHandler: base, service: service, metrics: m}
}

// ListPublished godoc
// @Summary Read a published config (table shape)
// @Description Filters use the eq. operator. The response is an array; it is empty when nothing published matches.
// @Tags public
// @Produce json
// @Param apikey header string true "Public API key"
// @Param key_name query string true "eq.<key_name>"
// @Param tenant_id query string true "eq.<tenant_id>"
// @Param select query string false "published_json"
// @Success 200 {array} dto.PublishedConfigRow
// @Failure 400 {object} dto.Error
// @Failure 401 {object} dto.Error
// @Router /rest/v1/app_configs [get]
func (h *PublicHandler) ListPublished(c *gin.Context) {
	keyName, okKey := parseEq(c.Query("key_name"))
	tenantID, okTenant := parseEq(c.Query("tenant_id"))
	if !okKey || !okTenant {
		c.JSON(http.StatusBadRequest, dto.Error{Error: "key_name and tenant_id must use the eq. filter"})
		return
	}
	if sel := c.Query("select"); sel != "" && sel != publishedJSONColumn {
		c.JSON(http.StatusBadRequest, dto.Error{Error: "only published_json can be selected"})
		return
	}
	if !IsUUID(tenantID) {
		h.record("rest", "not_published")
		c.JSON(http.StatusOK, []dto.PublishedConfigRow{})
		return
	}

	cfg, err := h.service.GetPublished(h.RequestCtx(c), tenantID, keyName)
	if err != nil {
		if errors.Is(err, service.ErrNotPublished) {
			h.record("rest", "not_published")
			c.JSON(http.StatusOK, []dto.PublishedConfigRow{})
			return
		}
		h.record("rest", "error")
		h.RespondError(c, err)
		return
	}

	h.record("rest", "served")
	c.JSON(http.StatusOK, []dto.PublishedConfigRow{{PublishedJSON: json.RawMessage(cfg.PublishedJSON)}})
}

// GetPublishedConfig godoc
// @Summary Read a published config (procedure shape)
// @Description Returns the published JSON object itself
// @Tags public
// @Accept json
// @Produce json
// @Param apikey header string true "Public API key"
// @Param body body dto.PublishedConfigRequest true "Config address"
// @Success 200 {object} object
// @Failure 400 {object} dto.Error
// @Failure 401 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Router /rest/v1/rpc/get_published_config [post]
func (h *PublicHandler) GetPublishedConfig(c *gin.Context) {
	var req dto.PublishedConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error{Error: err.Error()})
		return
	}
	if !IsUUID(req.TenantID) {
		h.record("rpc", "not_published")
		h.RespondError(c, service.ErrNotPublished)
		return
	}

	cfg, err := h.service.GetPublished(h.RequestCtx(c), req.TenantID, req.KeyName)
	if err != nil {
		if errors.Is(err, service.ErrNotPublished) {
			h.record("rpc", "not_published")
		} else {
			h.record("rpc", "error")
		}
		h.RespondError(c, err)
		return
	}

	h.record("rpc", "served")
	c.Data(http.StatusOK, "application/json; charset=utf-8", cfg.PublishedJSON)
}

func (h *PublicHandler) record(shape, result string) {
	if h.metrics != nil {
		h.metrics.RecordPublishedRead(shape, result)
	}
}

func parseEq(raw string) (string, bool) {
	value, ok := strings.CutPrefix(raw, eqPrefix)
	return value, ok && value != ""
}
