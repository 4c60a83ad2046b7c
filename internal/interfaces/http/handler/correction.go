package handler

import (
	appbilling "github.com/estatekit/backend/internal/application/billing"
	"github.com/estatekit/backend/internal/domain/billing"
	"github.com/estatekit/backend/internal/domain/shared/service"
	"github.com/estatekit/backend/internal/domain/shared/valueobject"
	"github.com/estatekit/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CorrectionHandler exposes balanced correction batches and payment reversals
// against issued invoices.
type CorrectionHandler struct {
	BaseHandler
	correctionService *appbilling.CorrectionService
	authorizer        service.Authorizer
}

// NewCorrectionHandler creates a new CorrectionHandler
func NewCorrectionHandler(correctionService *appbilling.CorrectionService, authorizer service.Authorizer) *CorrectionHandler {
	return &CorrectionHandler{
		correctionService: correctionService,
		authorizer:        authorizer,
	}
}

// RegisterRoutes registers correction routes on the given router group
func (h *CorrectionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("/:id/corrections", h.Create)
		invoices.GET("/:id/corrections", h.List)
		invoices.POST("/:id/payment-reversals", h.ReversePayment)
	}
}

// Create records a balanced batch of credit and debit notes against an invoice
func (h *CorrectionHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	actor, err := h.authorizer.Authorize(ctx, service.PermissionInvoiceCorrect)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ValidationError(c, err)
		return
	}
	var req dto.CreateCorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	entries := make([]billing.CorrectionEntry, len(req.Entries))
	for i, e := range req.Entries {
		entries[i] = billing.CorrectionEntry{
			Type:        billing.CorrectionType(e.Type),
			Amount:      valueobject.NewMoneyNGN(e.Amount),
			Description: e.Description,
		}
	}

	result, err := h.correctionService.CreateInvoiceCorrection(ctx, appbilling.CreateCorrectionRequest{
		OriginalInvoiceID: uuid.MustParse(uri.ID),
		Entries:           entries,
		Reason:            req.Reason,
		ActorID:           actor.UserID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// List returns the correction notes recorded against an invoice
func (h *CorrectionHandler) List(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ValidationError(c, err)
		return
	}

	notes, err := h.correctionService.ListCorrections(c.Request.Context(), uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, notes)
}

// ReversePayment credits an applied payment back to the payer's wallet
func (h *CorrectionHandler) ReversePayment(c *gin.Context) {
	ctx := c.Request.Context()
	actor, err := h.authorizer.Authorize(ctx, service.PermissionInvoiceCorrect)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ValidationError(c, err)
		return
	}
	var req dto.ReversePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	invoice, err := h.correctionService.ReversePaymentAllocation(ctx, uuid.MustParse(uri.ID), req.Amount, actor.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}
