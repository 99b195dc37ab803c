package handler

import (
	"github.com/gin-gonic/gin"

	appbilling "github.com/backoffice/backend/internal/application/billing"
)

// WalletHandler handles tenant wallet API endpoints
type WalletHandler struct {
	BaseHandler
	walletService *appbilling.WalletService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService *appbilling.WalletService) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

// GetWallet godoc
// @ID           getTenantWallet
// @Summary      Get tenant wallet
// @Description  Get the tenant's wallet, creating it with a zero balance if it does not exist yet
// @Tags         wallet
// @Produce      json
// @Param        tenantId path string true "Tenant ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /tenants/{tenantId}/wallet [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID format")
		return
	}

	wallet, err := h.walletService.GetOrCreateWallet(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, wallet)
}

// Credit godoc
// @ID           creditTenantWallet
// @Summary      Credit tenant wallet
// @Description  Add funds to the tenant's wallet and record a ledger entry
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        tenantId path string true "Tenant ID" format(uuid)
// @Param        request body billing.CreditWalletRequest true "Credit request"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /tenants/{tenantId}/wallet/credit [post]
func (h *WalletHandler) Credit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID format")
		return
	}

	var req appbilling.CreditWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transaction, err := h.walletService.Credit(
		c.Request.Context(),
		tenantID,
		req.Amount,
		req.Reason,
		req.Reference,
		getActor(c),
	)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, transaction)
}

// Debit godoc
// @ID           debitTenantWallet
// @Summary      Debit tenant wallet
// @Description  Deduct funds from the tenant's wallet and record a ledger entry
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        tenantId path string true "Tenant ID" format(uuid)
// @Param        request body billing.DebitWalletRequest true "Debit request"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /tenants/{tenantId}/wallet/debit [post]
func (h *WalletHandler) Debit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID format")
		return
	}

	var req appbilling.DebitWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transaction, err := h.walletService.Debit(
		c.Request.Context(),
		tenantID,
		req.Amount,
		req.Reason,
		req.Reference,
		getActor(c),
	)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, transaction)
}

// ListTransactions godoc
// @ID           listWalletTransactions
// @Summary      List wallet transactions
// @Description  List one page of the tenant's wallet ledger entries, newest first
// @Tags         wallet
// @Produce      json
// @Param        tenantId path string true "Tenant ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /tenants/{tenantId}/wallet/transactions [get]
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID format")
		return
	}

	page, err := h.walletService.ListTransactions(c.Request.Context(), tenantID, getFilter(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
