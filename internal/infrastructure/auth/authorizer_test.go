package auth

import (
	"context"
	"testing"

	"github.com/estatekit/backend/internal/domain/shared"
	"github.com/estatekit/backend/internal/domain/shared/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleAuthorizer_Authorize(t *testing.T) {
	authorizer := NewRoleAuthorizer()

	t.Run("grants permission held by role", func(t *testing.T) {
		actor := &service.Actor{UserID: uuid.New(), Role: service.RoleManager}
		ctx := WithActor(context.Background(), actor)

		got, err := authorizer.Authorize(ctx, service.PermissionLevyGenerate)
		require.NoError(t, err)
		assert.Equal(t, actor, got)
	})

	t.Run("denies permission the role lacks", func(t *testing.T) {
		ctx := WithActor(context.Background(), &service.Actor{UserID: uuid.New(), Role: service.RoleManager})

		_, err := authorizer.Authorize(ctx, service.PermissionApprovalReview)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("denies when no actor in context", func(t *testing.T) {
		_, err := authorizer.Authorize(context.Background(), service.PermissionWalletCredit)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("residents may only raise approval requests", func(t *testing.T) {
		ctx := WithActor(context.Background(), &service.Actor{UserID: uuid.New(), Role: service.RoleResident})

		_, err := authorizer.Authorize(ctx, service.PermissionApprovalRequest)
		require.NoError(t, err)

		_, err = authorizer.Authorize(ctx, service.PermissionWalletDebit)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("chairman can review approvals", func(t *testing.T) {
		ctx := WithActor(context.Background(), &service.Actor{UserID: uuid.New(), Role: service.RoleChairman})

		_, err := authorizer.Authorize(ctx, service.PermissionApprovalReview)
		require.NoError(t, err)
	})
}

func TestActorFromContext(t *testing.T) {
	t.Run("round trips the actor", func(t *testing.T) {
		actor := &service.Actor{UserID: uuid.New(), Role: service.RoleAdmin}
		ctx := WithActor(context.Background(), actor)

		got, ok := ActorFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, actor, got)
	})

	t.Run("missing actor", func(t *testing.T) {
		_, ok := ActorFromContext(context.Background())
		assert.False(t, ok)
	})
}
