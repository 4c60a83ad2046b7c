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

// InvoiceHandler exposes invoice issuance and queries
type InvoiceHandler struct {
	BaseHandler
	invoiceService *appbilling.InvoiceService
	authorizer     service.Authorizer
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *appbilling.InvoiceService, authorizer service.Authorizer) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		authorizer:     authorizer,
	}
}

// RegisterRoutes registers invoice routes on the given router group
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.Create)
		invoices.GET("", h.List)
		invoices.GET("/outstanding", h.ListOutstanding)
		invoices.GET("/:id", h.Get)
		invoices.POST("/:id/void", h.Void)
	}
}

// Create issues a numbered invoice with its items
func (h *InvoiceHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	actor, err := h.authorizer.Authorize(ctx, service.PermissionInvoiceCreate)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	items := make([]billing.NewInvoiceItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = billing.NewInvoiceItemInput{
			Description: item.Description,
			Amount:      valueobject.NewMoneyNGN(item.Amount),
		}
	}

	invoice, err := h.invoiceService.CreateInvoice(ctx, appbilling.CreateInvoiceRequest{
		ResidentID:       uuid.MustParse(req.ResidentID),
		HouseID:          uuid.MustParse(req.HouseID),
		BillingProfileID: parseOptionalUUID(req.BillingProfileID),
		Items:            items,
		DueDate:          req.DueDate,
		Type:             billing.InvoiceTypeRegular,
		ActorID:          actor.UserID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// Get returns an invoice with its items
func (h *InvoiceHandler) Get(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ValidationError(c, err)
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List returns invoices matching the query filter
func (h *InvoiceHandler) List(c *gin.Context) {
	var query dto.InvoiceListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}
	query.Normalize()

	filter := billing.InvoiceFilter{
		DueFrom: query.DueFrom,
		DueTo:   query.DueTo,
		Limit:   query.PageSize,
		Offset:  query.Offset(),
	}
	if query.ResidentID != "" {
		id := uuid.MustParse(query.ResidentID)
		filter.ResidentID = &id
	}
	if query.HouseID != "" {
		id := uuid.MustParse(query.HouseID)
		filter.HouseID = &id
	}
	if query.Status != "" {
		status := billing.InvoiceStatus(query.Status)
		filter.Status = &status
	}
	if query.Type != "" {
		invoiceType := billing.InvoiceType(query.Type)
		filter.Type = &invoiceType
	}

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}

// ListOutstanding returns unpaid and partially paid invoices for a resident
// and house, oldest due date first.
func (h *InvoiceHandler) ListOutstanding(c *gin.Context) {
	var query dto.OutstandingInvoicesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}

	invoices, err := h.invoiceService.ListOutstanding(c.Request.Context(),
		uuid.MustParse(query.ResidentID), uuid.MustParse(query.HouseID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}

// Void voids an invoice that carries no payment
func (h *InvoiceHandler) Void(c *gin.Context) {
	ctx := c.Request.Context()
	actor, err := h.authorizer.Authorize(ctx, service.PermissionInvoiceCreate)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ValidationError(c, err)
		return
	}
	var req dto.VoidInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	invoice, err := h.invoiceService.VoidInvoice(ctx, uuid.MustParse(uri.ID), req.Reason, actor.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}
