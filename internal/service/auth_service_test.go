package service

import (
	"context"
	"testing"
	"time"

	"tiendapos/internal/apierror"
	"tiendapos/internal/auth"
	"tiendapos/internal/config"
	"tiendapos/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-unit-tests"

func newAuthFixture(t *testing.T) (*fixture, AuthService) {
	t.Helper()
	f := newFixture(t)
	cfg := &config.Config{JWTSecret: testSecret, JWTExpirationHours: 8, JWTRefreshHours: 24}
	return f, NewAuthService(f.st.Usuarios(), f.st.Areas(), cfg)
}

func TestLogin_Success(t *testing.T) {
	f, svc := newAuthFixture(t)
	piso := f.area(t, "Piso 1")
	_, err := svc.CrearUsuario(f.ctx, f.admin, dto.CrearUsuarioRequest{
		Username: "vendedor1", Nombre: "Vendedor Uno", Password: "secreto123", Rol: auth.RolVendedor, AreaID: &piso,
	})
	require.NoError(t, err)

	resp, err := svc.Login(f.ctx, dto.LoginRequest{Username: "vendedor1", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, auth.RolVendedor, resp.User.Rol)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, piso.String(), claims["area_id"])
	assert.Equal(t, auth.RolVendedor, claims["rol"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f, svc := newAuthFixture(t)
	_, err := svc.CrearUsuario(f.ctx, f.admin, dto.CrearUsuarioRequest{
		Username: "admin", Nombre: "Admin", Password: "secreto123", Rol: auth.RolAdministrador,
	})
	require.NoError(t, err)

	_, err = svc.Login(f.ctx, dto.LoginRequest{Username: "admin", Password: "otra-clave"})
	assert.True(t, apierror.Is(err, apierror.KindValidacion))

	_, errNoExiste := svc.Login(f.ctx, dto.LoginRequest{Username: "nadie", Password: "secreto123"})
	assert.Equal(t, err.Error(), errNoExiste.Error())
}

func TestRefresh_Success(t *testing.T) {
	f, svc := newAuthFixture(t)
	_, err := svc.CrearUsuario(f.ctx, f.admin, dto.CrearUsuarioRequest{
		Username: "almacen", Nombre: "Almacen", Password: "secreto123", Rol: auth.RolAlmacenero,
	})
	require.NoError(t, err)
	login, err := svc.Login(f.ctx, dto.LoginRequest{Username: "almacen", Password: "secreto123"})
	require.NoError(t, err)

	resp, err := svc.Refresh(f.ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "almacen", resp.User.Username)
}

func TestRefresh_ExpiredToken(t *testing.T) {
	_, svc := newAuthFixture(t)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "00000000-0000-0000-0000-000000000001",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), signed)
	assert.True(t, apierror.Is(err, apierror.KindValidacion))
}

func TestCrearUsuario(t *testing.T) {
	f, svc := newAuthFixture(t)

	_, err := svc.CrearUsuario(f.ctx, f.como(auth.RolAlmacenero), dto.CrearUsuarioRequest{
		Username: "x", Nombre: "Equis", Password: "secreto123", Rol: auth.RolVendedor,
	})
	assert.True(t, apierror.Is(err, apierror.KindProhibido))

	_, err = svc.CrearUsuario(f.ctx, f.admin, dto.CrearUsuarioRequest{
		Username: "x", Nombre: "Equis", Password: "secreto123", Rol: "gerente",
	})
	assert.True(t, apierror.Is(err, apierror.KindValidacion))

	u, err := svc.CrearUsuario(f.ctx, f.admin, dto.CrearUsuarioRequest{
		Username: " caja ", Nombre: "Cafeteria", Password: "secreto123", Rol: auth.RolCafeteria,
	})
	require.NoError(t, err)
	assert.Equal(t, "caja", u.Username)
	assert.True(t, u.Activo)

	us, err := svc.ListarUsuarios(f.ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, us, 1)
}
