package service

import (
	"context"
	"testing"

	"Tasker/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc := NewUserService(repo.NewMemoryUserRepo())
	ctx := context.Background()

	u, err := svc.Register(ctx, " alice ", "wonderland")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.NotEqual(t, "wonderland", u.PasswordHash)

	got, err := svc.ValidateCredentials(ctx, "alice", "wonderland")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.ValidateCredentials(ctx, "alice", "looking-glass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.ValidateCredentials(ctx, "mad-hatter", "wonderland")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_RegisterRejectsDuplicates(t *testing.T) {
	svc := NewUserService(repo.NewMemoryUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "wonderland")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "another")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(ctx, "  ", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
