package handler

import (
	"github.com/gin-gonic/gin"

	appbilling "github.com/backoffice/backend/internal/application/billing"
)

// SubscriptionHandler handles tenant subscription API endpoints
type SubscriptionHandler struct {
	BaseHandler
	adminService *appbilling.AdminSubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(adminService *appbilling.AdminSubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		adminService: adminService,
	}
}

// GetCurrent godoc
// @ID           getTenantSubscription
// @Summary      Get current tenant subscription
// @Description  Get the tenant's current subscription, preferring the active row over pending ones
// @Tags         subscription
// @Produce      json
// @Param        tenantId path string true "Tenant ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /tenants/{tenantId}/subscription [get]
func (h *SubscriptionHandler) GetCurrent(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID format")
		return
	}

	subscription, err := h.adminService.GetTenantSubscription(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, subscription)
}

// AssignPlan godoc
// @ID           assignTenantPlan
// @Summary      Assign a plan to a tenant
// @Description  Put the tenant on the given plan, expiring any previously active subscription
// @Tags         subscription
// @Accept       json
// @Produce      json
// @Param        tenantId path string true "Tenant ID" format(uuid)
// @Param        request body billing.ActivateSubscriptionRequest true "Plan assignment request"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /tenants/{tenantId}/subscription [post]
func (h *SubscriptionHandler) AssignPlan(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID format")
		return
	}

	var req appbilling.ActivateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	subscription, err := h.adminService.AssignPlan(
		c.Request.Context(),
		getActor(c),
		tenantID,
		req.PlanID,
		req.PricePaid,
		req.PaymentReference,
	)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, subscription)
}

// Deactivate godoc
// @ID           deactivateTenantSubscription
// @Summary      Deactivate tenant subscription
// @Description  Expire the tenant's active subscription and record the transition
// @Tags         subscription
// @Produce      json
// @Param        tenantId path string true "Tenant ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /tenants/{tenantId}/subscription [delete]
func (h *SubscriptionHandler) Deactivate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID format")
		return
	}

	subscription, err := h.adminService.DeactivateTenantSubscription(c.Request.Context(), getActor(c), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, subscription)
}

// History godoc
// @ID           getTenantSubscriptionHistory
// @Summary      Get tenant subscription history
// @Description  List the tenant's subscription transitions, newest first
// @Tags         subscription
// @Produce      json
// @Param        tenantId path string true "Tenant ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /tenants/{tenantId}/subscription/history [get]
func (h *SubscriptionHandler) History(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID format")
		return
	}

	history, err := h.adminService.GetTenantSubscriptionHistory(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, history)
}

// ListPlans godoc
// @ID           listSubscriptionPlans
// @Summary      List subscription plans
// @Description  List active subscription plans, standard plans first
// @Tags         subscription
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /plans [get]
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	plans, err := h.adminService.ListPlans(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, plans)
}
