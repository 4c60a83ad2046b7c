package auth

import (
	"context"

	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/estatekit/backend/internal/domain/shared/service"
)

type actorContextKey struct{}

// WithActor returns a context carrying the authenticated actor.
// The HTTP auth middleware stores the actor here after token validation.
func WithActor(ctx context.Context, actor *service.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext retrieves the authenticated actor from context
func ActorFromContext(ctx context.Context) (*service.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(*service.Actor)
	return actor, ok
}

// rolePermissions maps each role to the permissions it holds.
// Admin and chairman hold the full set; managers run day-to-day billing
// but cannot review approvals; residents may only raise requests.
var rolePermissions = map[service.Role]map[string]bool{
	service.RoleAdmin: {
		service.PermissionWalletCredit:    true,
		service.PermissionWalletDebit:     true,
		service.PermissionInvoiceCreate:   true,
		service.PermissionInvoiceCorrect:  true,
		service.PermissionLevyGenerate:    true,
		service.PermissionApprovalRequest: true,
		service.PermissionApprovalReview:  true,
	},
	service.RoleChairman: {
		service.PermissionWalletCredit:    true,
		service.PermissionWalletDebit:     true,
		service.PermissionInvoiceCreate:   true,
		service.PermissionInvoiceCorrect:  true,
		service.PermissionLevyGenerate:    true,
		service.PermissionApprovalRequest: true,
		service.PermissionApprovalReview:  true,
	},
	service.RoleManager: {
		service.PermissionWalletCredit:    true,
		service.PermissionWalletDebit:     true,
		service.PermissionInvoiceCreate:   true,
		service.PermissionInvoiceCorrect:  true,
		service.PermissionLevyGenerate:    true,
		service.PermissionApprovalRequest: true,
	},
	service.RoleResident: {
		service.PermissionApprovalRequest: true,
	},
}

// RoleAuthorizer authorizes operations against the static role-permission
// table using the actor placed in the request context by the auth middleware.
type RoleAuthorizer struct{}

// NewRoleAuthorizer creates a new RoleAuthorizer
func NewRoleAuthorizer() *RoleAuthorizer {
	return &RoleAuthorizer{}
}

// Authorize implements service.Authorizer
func (a *RoleAuthorizer) Authorize(ctx context.Context, permission string) (*service.Actor, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor == nil {
		return nil, shared.ErrUnauthorized
	}
	if !rolePermissions[actor.Role][permission] {
		return nil, shared.ErrUnauthorized
	}
	return actor, nil
}
