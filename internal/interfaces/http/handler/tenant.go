package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appbilling "github.com/backoffice/backend/internal/application/billing"
	"github.com/backoffice/backend/internal/domain/identity"
	"github.com/backoffice/backend/internal/domain/shared"
)

// TenantHandler handles tenant directory API endpoints
type TenantHandler struct {
	BaseHandler
	tenantRepo   identity.TenantRepository
	provisioning *appbilling.ProvisioningService
	logger       *zap.Logger
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantRepo identity.TenantRepository, provisioning *appbilling.ProvisioningService, logger *zap.Logger) *TenantHandler {
	return &TenantHandler{
		tenantRepo:   tenantRepo,
		provisioning: provisioning,
		logger:       logger,
	}
}

// RegisterTenantRequest represents a request to register a tenant in the directory
type RegisterTenantRequest struct {
	Code string `json:"code" binding:"required,min=1,max=50"`
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// TenantResponse represents a tenant in API responses
type TenantResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	Provisioned bool   `json:"provisioned,omitempty"`
}

func toTenantResponse(t *identity.Tenant) TenantResponse {
	return TenantResponse{
		ID:     t.ID.String(),
		Code:   t.Code,
		Name:   t.Name,
		Status: string(t.Status),
	}
}

// Register godoc
// @ID           registerTenant
// @Summary      Register a tenant
// @Description  Add a tenant to the directory and provision its wallet and standard subscription
// @Tags         tenant
// @Accept       json
// @Produce      json
// @Param        request body RegisterTenantRequest true "Tenant registration request"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /tenants [post]
func (h *TenantHandler) Register(c *gin.Context) {
	var req RegisterTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tenant, err := identity.NewTenant(req.Code, req.Name)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if err := h.tenantRepo.Save(c.Request.Context(), tenant); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			h.Conflict(c, "Tenant code already registered")
			return
		}
		h.HandleDomainError(c, err)
		return
	}

	// Provisioning is best-effort: the directory row survives a failure
	// and the tenant can be repaired through the provisioning endpoint.
	response := toTenantResponse(tenant)
	if err := h.provisioning.ProvisionTenant(c.Request.Context(), tenant.ID); err != nil {
		h.logger.Warn("provisioning after registration failed",
			zap.String("tenant_id", tenant.ID.String()),
			zap.String("tenant_code", tenant.Code),
			zap.Error(err))
	} else {
		response.Provisioned = true
	}

	h.Created(c, response)
}

// Get godoc
// @ID           getTenant
// @Summary      Get a tenant
// @Description  Get a tenant directory entry by ID
// @Tags         tenant
// @Produce      json
// @Param        tenantId path string true "Tenant ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /tenants/{tenantId} [get]
func (h *TenantHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID format")
		return
	}

	tenant, err := h.tenantRepo.FindByID(c.Request.Context(), tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.NotFound(c, "Tenant not found")
			return
		}
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toTenantResponse(tenant))
}
