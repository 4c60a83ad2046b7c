package dto

import "encoding/json"

// CreateApprovalRequest represents an approval request submission. The payload
// shape depends on type and is decoded against the closed variant set.
type CreateApprovalRequest struct {
	Type          string          `json:"type" binding:"required"`
	EntityID      string          `json:"entity_id" binding:"required"`
	Payload       json.RawMessage `json:"payload" binding:"required"`
	CurrentValues json.RawMessage `json:"current_values"`
	Reason        string          `json:"reason" binding:"required,min=10,max=500"`
}

// ReviewApprovalRequest represents an approve or reject decision
type ReviewApprovalRequest struct {
	Notes string `json:"notes" binding:"max=500"`
}

// ApprovalListQuery filters an approval request listing
type ApprovalListQuery struct {
	ListRequest
	Type        string `form:"type"`
	Status      string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	EntityID    string `form:"entity_id"`
	RequestedBy string `form:"requested_by" binding:"omitempty,uuid"`
}
