package handler

import (
	"github.com/estatekit/backend/internal/application/ledger"
	domainledger "github.com/estatekit/backend/internal/domain/ledger"
	"github.com/estatekit/backend/internal/domain/shared/service"
	"github.com/estatekit/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WalletHandler exposes the wallet ledger operations
type WalletHandler struct {
	BaseHandler
	walletService *ledger.WalletService
	authorizer    service.Authorizer
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService *ledger.WalletService, authorizer service.Authorizer) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		authorizer:    authorizer,
	}
}

// RegisterRoutes registers wallet routes on the given router group
func (h *WalletHandler) RegisterRoutes(rg *gin.RouterGroup) {
	wallets := rg.Group("/wallets")
	{
		wallets.GET("/:residentId", h.GetWallet)
		wallets.GET("/:residentId/transactions", h.GetStatement)
		wallets.POST("/:residentId/credit", h.Credit)
		wallets.POST("/:residentId/debit", h.Debit)
		wallets.POST("/:residentId/allocations", h.Allocate)
	}
}

// GetWallet returns the resident's wallet balance
func (h *WalletHandler) GetWallet(c *gin.Context) {
	var uri dto.ResidentIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ValidationError(c, err)
		return
	}

	wallet, err := h.walletService.GetWallet(c.Request.Context(), uuid.MustParse(uri.ResidentID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, wallet)
}

// GetStatement lists the resident's wallet transactions
func (h *WalletHandler) GetStatement(c *gin.Context) {
	var uri dto.ResidentIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ValidationError(c, err)
		return
	}
	var query dto.StatementQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}
	query.Normalize()

	residentID := uuid.MustParse(uri.ResidentID)
	filter := domainledger.WalletTransactionFilter{
		FromDate: query.FromDate,
		ToDate:   query.ToDate,
		Limit:    query.PageSize,
		Offset:   query.Offset(),
	}
	if query.Type != "" {
		txType := domainledger.TransactionType(query.Type)
		filter.Type = &txType
	}
	if query.Reason != "" {
		reason := domainledger.TransactionReason(query.Reason)
		filter.Reason = &reason
	}

	ctx := c.Request.Context()
	transactions, err := h.walletService.GetStatement(ctx, residentID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	total, err := h.walletService.CountTransactions(ctx, residentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, transactions, total, query.Page, query.PageSize)
}

// Credit credits the resident's wallet, sweeping outstanding invoices when a
// house is given
func (h *WalletHandler) Credit(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.authorizer.Authorize(ctx, service.PermissionWalletCredit); err != nil {
		h.HandleError(c, err)
		return
	}

	var uri dto.ResidentIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ValidationError(c, err)
		return
	}
	var req dto.CreditWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.walletService.CreditWallet(ctx, ledger.CreditWalletRequest{
		ResidentID:  uuid.MustParse(uri.ResidentID),
		HouseID:     parseOptionalUUID(req.HouseID),
		Amount:      req.Amount,
		Reason:      domainledger.TransactionReason(req.Reason),
		ReferenceID: parseOptionalUUID(req.ReferenceID),
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Debit debits the resident's wallet
func (h *WalletHandler) Debit(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.authorizer.Authorize(ctx, service.PermissionWalletDebit); err != nil {
		h.HandleError(c, err)
		return
	}

	var uri dto.ResidentIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ValidationError(c, err)
		return
	}
	var req dto.DebitWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.walletService.DebitWallet(ctx, ledger.DebitWalletRequest{
		ResidentID:  uuid.MustParse(uri.ResidentID),
		Amount:      req.Amount,
		Reason:      domainledger.TransactionReason(req.Reason),
		ReferenceID: parseOptionalUUID(req.ReferenceID),
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Allocate sweeps the wallet balance against the house's outstanding invoices
func (h *WalletHandler) Allocate(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.authorizer.Authorize(ctx, service.PermissionWalletDebit); err != nil {
		h.HandleError(c, err)
		return
	}

	var uri dto.ResidentIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ValidationError(c, err)
		return
	}
	var req dto.AllocateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.walletService.AllocateWalletToInvoices(ctx,
		uuid.MustParse(uri.ResidentID), uuid.MustParse(req.HouseID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// parseOptionalUUID converts a validated optional UUID string to *uuid.UUID
func parseOptionalUUID(s *string) *uuid.UUID {
	if s == nil || *s == "" {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil
	}
	return &id
}
