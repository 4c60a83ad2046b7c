package service

import (
	"context"

	"github.com/google/uuid"
)

// Role is the role an actor holds within the estate
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleChairman Role = "chairman"
	RoleManager  Role = "manager"
	RoleResident Role = "resident"
)

// IsValid checks if the role is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleChairman, RoleManager, RoleResident:
		return true
	}
	return false
}

// CanReviewApprovals returns true if the role may approve or reject approval requests
func (r Role) CanReviewApprovals() bool {
	return r == RoleAdmin || r == RoleChairman
}

// Actor identifies the authenticated user performing an operation
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

// Authorizer is the authorization collaborator consulted at the entry of every
// mutating operation. The core trusts its verdict and does not re-derive roles
// itself except where an operation is explicitly role-gated.
type Authorizer interface {
	// Authorize verifies the actor holds the named permission.
	// Returns the acting user when authorized.
	Authorize(ctx context.Context, permission string) (*Actor, error)
}

// Permission keys consulted by the financial core
const (
	PermissionWalletCredit    = "wallet.credit"
	PermissionWalletDebit     = "wallet.debit"
	PermissionInvoiceCreate   = "invoice.create"
	PermissionInvoiceCorrect  = "invoice.correct"
	PermissionLevyGenerate    = "levy.generate"
	PermissionApprovalRequest = "approval.request"
	PermissionApprovalReview  = "approval.review"
)
