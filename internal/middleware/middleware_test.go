package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tiendapos/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func firmar(t *testing.T, claims JWTClaims) string {
	t.Helper()
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func servir(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ── JWT ─────────────────────────────────────────────────────────────────────

func TestJWTAuth(t *testing.T) {
	r := gin.New()
	r.GET("/p", JWTAuth(secret), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, servir(r, http.MethodGet, "/p", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, servir(r, http.MethodGet, "/p", map[string]string{
		"Authorization": "Bearer basura",
	}).Code)

	vencido := firmar(t, JWTClaims{
		UserID:           uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	})
	assert.Equal(t, http.StatusUnauthorized, servir(r, http.MethodGet, "/p", map[string]string{
		"Authorization": "Bearer " + vencido,
	}).Code)

	sinUsuario := firmar(t, JWTClaims{UserID: "no-es-uuid", Rol: auth.RolAdministrador})
	assert.Equal(t, http.StatusUnauthorized, servir(r, http.MethodGet, "/p", map[string]string{
		"Authorization": "Bearer " + sinUsuario,
	}).Code)

	ok := firmar(t, JWTClaims{UserID: uuid.NewString(), Rol: auth.RolAdministrador})
	assert.Equal(t, http.StatusOK, servir(r, http.MethodGet, "/p", map[string]string{
		"Authorization": "Bearer " + ok,
	}).Code)
}

func TestRequireRoleEIdentidad(t *testing.T) {
	var quien auth.Identidad
	r := gin.New()
	r.GET("/ventas", JWTAuth(secret), RequireRole(auth.RolAdministrador, auth.RolVendedor), func(c *gin.Context) {
		quien = Identidad(c)
		c.Status(http.StatusOK)
	})

	almacen := firmar(t, JWTClaims{UserID: uuid.NewString(), Rol: auth.RolAlmacenero})
	assert.Equal(t, http.StatusForbidden, servir(r, http.MethodGet, "/ventas", map[string]string{
		"Authorization": "Bearer " + almacen,
	}).Code)

	usuario, area := uuid.New(), uuid.New()
	vendedor := firmar(t, JWTClaims{UserID: usuario.String(), Rol: auth.RolVendedor, AreaID: area.String()})
	require.Equal(t, http.StatusOK, servir(r, http.MethodGet, "/ventas", map[string]string{
		"Authorization": "Bearer " + vendedor,
	}).Code)
	assert.Equal(t, usuario, quien.UsuarioID)
	assert.Equal(t, auth.RolVendedor, quien.Rol)
	require.NotNil(t, quien.AreaID)
	assert.Equal(t, area, *quien.AreaID)
}

// ── CORS / request id ───────────────────────────────────────────────────────

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := servir(r, http.MethodGet, "/health", map[string]string{"Origin": "http://localhost:5173"})
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	w = servir(r, http.MethodGet, "/health", map[string]string{"Origin": "http://evil.test"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = servir(r, http.MethodOptions, "/health", map[string]string{"Origin": "http://localhost:5173"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequestID(t *testing.T) {
	var visto string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) {
		visto = c.GetString(RequestIDKey)
		c.Status(http.StatusOK)
	})

	w := servir(r, http.MethodGet, "/x", map[string]string{RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", visto)

	w = servir(r, http.MethodGet, "/x", nil)
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}

// ── Rate limiting ───────────────────────────────────────────────────────────

func TestRateLimiter_SinRedisDejaPasar(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.Use(RateLimiter(rdb, 1, time.Minute))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, servir(r, http.MethodGet, "/x", nil).Code)
	}
}

func TestRateLimiter_LimiteCeroDesactiva(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(nil, 0, time.Minute))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, servir(r, http.MethodGet, "/x", nil).Code)
}
