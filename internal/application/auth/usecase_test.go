package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Requisiciones-api/internal/application/auth"
	"github.com/jhoicas/Requisiciones-api/internal/application/dto"
	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/Requisiciones-api/pkg/jwt"
)

const secret = "secret-de-pruebas"

func TestAuth_EnsureAdminYLogin(t *testing.T) {
	store := memory.NewStore()
	uc := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "test"})
	ctx := context.Background()

	created, err := uc.EnsureAdmin(ctx, "Admin@Empresa.co", "clave-segura", "")
	require.NoError(t, err)
	assert.True(t, created)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@empresa.co", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, resp.User.Role)

	userID, role, err := pkgjwt.Parse(secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, entity.RoleAdmin, role)

	created, err = uc.EnsureAdmin(ctx, "admin@empresa.co", "otra-clave-segura", "")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "admin@empresa.co", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@empresa.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.EnsureAdmin(ctx, "a@b.co", "corta", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuth_UsuarioInactivo(t *testing.T) {
	store := memory.NewStore()
	uc := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 5})
	ctx := context.Background()

	_, err := uc.EnsureAdmin(ctx, "x@empresa.co", "clave-segura", "X")
	require.NoError(t, err)
	u, err := store.Users().GetByEmail(ctx, "x@empresa.co")
	require.NoError(t, err)
	u.Status = entity.UserStatusInactive
	require.NoError(t, store.Users().Update(ctx, u))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "x@empresa.co", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
