package handler

import (
	"context"

	appapproval "github.com/estatekit/backend/internal/application/approval"
	"github.com/estatekit/backend/internal/domain/approval"
	"github.com/estatekit/backend/internal/domain/shared/service"
	"github.com/estatekit/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ApprovalHandler exposes the two-party approval workflow
type ApprovalHandler struct {
	BaseHandler
	approvalService *appapproval.ApprovalService
	authorizer      service.Authorizer
}

// NewApprovalHandler creates a new ApprovalHandler
func NewApprovalHandler(approvalService *appapproval.ApprovalService, authorizer service.Authorizer) *ApprovalHandler {
	return &ApprovalHandler{
		approvalService: approvalService,
		authorizer:      authorizer,
	}
}

// RegisterRoutes registers approval routes on the given router group
func (h *ApprovalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	approvals := rg.Group("/approvals")
	{
		approvals.POST("", h.Create)
		approvals.GET("", h.List)
		approvals.GET("/:id", h.Get)
		approvals.POST("/:id/approve", h.Approve)
		approvals.POST("/:id/reject", h.Reject)
	}
}

// Create submits a pending approval request
func (h *ApprovalHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	actor, err := h.authorizer.Authorize(ctx, service.PermissionApprovalRequest)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req dto.CreateApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	payload, err := approval.DecodePayload(approval.RequestType(req.Type), req.Payload)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	input := appapproval.CreateRequestInput{
		Payload:  payload,
		EntityID: req.EntityID,
		Reason:   req.Reason,
	}
	if len(req.CurrentValues) > 0 {
		input.CurrentValues = req.CurrentValues
	}

	request, err := h.approvalService.CreateRequest(ctx, actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, request)
}

// Get returns one approval request
func (h *ApprovalHandler) Get(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ValidationError(c, err)
		return
	}

	request, err := h.approvalService.GetRequest(c.Request.Context(), uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

// List returns approval requests matching the query filter
func (h *ApprovalHandler) List(c *gin.Context) {
	var query dto.ApprovalListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}
	query.Normalize()

	filter := approval.RequestFilter{
		Limit:  query.PageSize,
		Offset: query.Offset(),
	}
	if query.Type != "" {
		requestType := approval.RequestType(query.Type)
		filter.Type = &requestType
	}
	if query.Status != "" {
		status := approval.RequestStatus(query.Status)
		filter.Status = &status
	}
	if query.EntityID != "" {
		filter.EntityID = &query.EntityID
	}
	if query.RequestedBy != "" {
		id := uuid.MustParse(query.RequestedBy)
		filter.RequestedBy = &id
	}

	requests, err := h.approvalService.ListRequests(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, requests)
}

// Approve applies the requested change and marks the request approved
func (h *ApprovalHandler) Approve(c *gin.Context) {
	h.review(c, h.approvalService.ApproveRequest)
}

// Reject marks the request rejected without applying anything
func (h *ApprovalHandler) Reject(c *gin.Context) {
	h.review(c, h.approvalService.RejectRequest)
}

func (h *ApprovalHandler) review(c *gin.Context, decide func(context.Context, *service.Actor, uuid.UUID, string) (*approval.ApprovalRequest, error)) {
	ctx := c.Request.Context()
	actor, err := h.authorizer.Authorize(ctx, service.PermissionApprovalReview)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ValidationError(c, err)
		return
	}
	var req dto.ReviewApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	request, err := decide(ctx, actor, uuid.MustParse(uri.ID), req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}
