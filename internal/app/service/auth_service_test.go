package service

import (
	"context"
	"testing"

	"lenspost/internal/common"
	"lenspost/internal/common/security"
	"lenspost/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService() (*AuthService, *memUserRepo) {
	users := newMemUserRepo()
	issuer := security.NewTokenIssuer([]byte("test-key"), 0)
	return NewAuthService(users, issuer), users
}

func TestRegister(t *testing.T) {
	svc, users := newAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "a@x.com", Password: "correcthorse"})
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, model.RoleMember, resp.User.Role)

	stored, err := users.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "correcthorse", stored.HashedPassword)
	assert.True(t, security.CheckPasswordHash("correcthorse", stored.HashedPassword))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, users := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "a@x.com", Password: "correcthorse"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Username: "impostor", Email: "a@x.com", Password: "batterystaple"})
	assert.ErrorIs(t, err, common.ErrConflict)

	// The original record is untouched.
	stored, err := users.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Username)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Register(context.Background(), RegisterRequest{Username: "", Email: "a@x.com", Password: "short"})
	assert.ErrorIs(t, err, common.ErrValidation)

	var vErr *common.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "username")
	assert.Contains(t, vErr.Fields, "password")
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "a@x.com", Password: "correcthorse"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginRequest{Email: "a@x.com", Password: "correcthorse"})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.User.Username)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "a@x.com", Password: "correcthorse"})
	require.NoError(t, err)

	_, unknownErr := svc.Login(ctx, LoginRequest{Email: "nobody@x.com", Password: "correcthorse"})
	_, badPassErr := svc.Login(ctx, LoginRequest{Email: "a@x.com", Password: "wrongpassword"})

	require.Error(t, unknownErr)
	require.Error(t, badPassErr)
	assert.ErrorIs(t, unknownErr, common.ErrUnauthorized)
	assert.ErrorIs(t, badPassErr, common.ErrUnauthorized)
	// Same message for both, so accounts can't be enumerated.
	assert.Equal(t, unknownErr.Error(), badPassErr.Error())
}
