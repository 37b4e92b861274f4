package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/happyshop-api/internal/application/auth"
	"github.com/jhoicas/happyshop-api/internal/application/dto"
	"github.com/jhoicas/happyshop-api/internal/domain"
	"github.com/jhoicas/happyshop-api/pkg/jwt"
)

var jwtCfg = auth.JWTConfig{Secret: "test-secret", ExpMinutes: 5, Issuer: "happyshop"}

func TestAuthUseCase_Login_TokenLigadoASesion(t *testing.T) {
	repo := new(MockAccountRepository)
	ctx := context.Background()
	repo.On("FindByUsername", ctx, "alice").Return(storedCustomer(t, 1, "alice", "pw1"), nil)
	sessions := newManager(repo)
	uc := auth.NewAuthUseCase(sessions, jwtCfg)

	out, err := uc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, sessions.SessionID(), out.SessionID)
	assert.Equal(t, "customer", out.Account.Role)
	require.NotNil(t, out.Account.LoyaltyPoints)

	claims, err := jwt.Parse(jwtCfg.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.SessionID, claims.ID)
	assert.Equal(t, int64(1), claims.AccountID)
}

func TestAuthUseCase_Login_CamposVacios(t *testing.T) {
	uc := auth.NewAuthUseCase(newManager(new(MockAccountRepository)), jwtCfg)
	_, err := uc.Login(context.Background(), dto.LoginRequest{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthUseCase_Logout(t *testing.T) {
	repo := new(MockAccountRepository)
	ctx := context.Background()
	repo.On("FindByUsername", ctx, "alice").Return(storedCustomer(t, 1, "alice", "pw1"), nil)
	uc := auth.NewAuthUseCase(newManager(repo), jwtCfg)

	out, err := uc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)

	me, err := uc.Me()
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	require.NoError(t, uc.Logout(out.SessionID))
	assert.ErrorIs(t, uc.Logout(out.SessionID), domain.ErrNotLoggedIn)

	_, err = uc.Me()
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
}
