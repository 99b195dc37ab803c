package handler

import (
	"github.com/gin-gonic/gin"

	appbilling "github.com/backoffice/backend/internal/application/billing"
)

// ProvisioningHandler handles tenant provisioning API endpoints
type ProvisioningHandler struct {
	BaseHandler
	provisioningService *appbilling.ProvisioningService
}

// NewProvisioningHandler creates a new ProvisioningHandler
func NewProvisioningHandler(provisioningService *appbilling.ProvisioningService) *ProvisioningHandler {
	return &ProvisioningHandler{
		provisioningService: provisioningService,
	}
}

// ProvisionTenant godoc
// @ID           provisionTenant
// @Summary      Provision a tenant
// @Description  Ensure the tenant has a wallet and an active subscription on the standard plan
// @Tags         provisioning
// @Produce      json
// @Param        tenantId path string true "Tenant ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /tenants/{tenantId}/provision [post]
func (h *ProvisioningHandler) ProvisionTenant(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID format")
		return
	}

	if err := h.provisioningService.ProvisionTenant(c.Request.Context(), tenantID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, map[string]any{
		"tenant_id":   tenantID,
		"provisioned": true,
	})
}

// ProvisionAll godoc
// @ID           provisionAllTenants
// @Summary      Provision all tenants
// @Description  Run best-effort provisioning across every tenant and report per-tenant failures
// @Tags         provisioning
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /provisioning/run [post]
func (h *ProvisioningHandler) ProvisionAll(c *gin.Context) {
	report, err := h.provisioningService.ProvisionAllTenants(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}
