//go:build integration

package router_test

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tiendapos/internal/config"
	"tiendapos/internal/infra"
	"tiendapos/internal/router"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func do(t *testing.T, srv *httptest.Server, method, path string, body any, token string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// expect asserts the status and decodes the body into dest when given.
func expect(t *testing.T, resp *http.Response, status int, dest any) {
	t.Helper()
	if resp.StatusCode != status {
		var body map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		require.Failf(t, "unexpected status", "want %d got %d: %v", status, resp.StatusCode, body)
	}
	if dest == nil {
		resp.Body.Close()
		return
	}
	decodeJSON(t, resp, dest)
}

type conID struct {
	ID string `json:"id"`
}

type errorBody struct {
	Detail string `json:"detail"`
	Tipo   string `json:"tipo"`
}

// ── Suite setup ──────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("tiendapos_test"),
		tcPostgres.WithUsername("tiendapos"),
		tcPostgres.WithPassword("tiendapos"),
		tcPostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, pgC)
	require.NoError(t, err)
	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, rdC)
	require.NoError(t, err)
	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		ZonaHoraria:        "UTC",
		NombreTienda:       "Tienda E2E",
		CORSOrigenes:       "*",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("tiendapos2026"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`INSERT INTO usuarios (id, username, nombre, password_hash, rol, activo, created_at, updated_at)
		VALUES (gen_random_uuid(), 'admin', 'Admin E2E', ?, 'administrador', true, NOW(), NOW())`, string(hash)).Error)

	svcs, err := router.NewServicios(cfg, db, rdb)
	require.NoError(t, err)
	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	srv := httptest.NewServer(router.New(cfg, db, rdb, svcs, smtpCB))
	t.Cleanup(srv.Close)

	var login struct {
		AccessToken string `json:"access_token"`
	}
	expect(t, do(t, srv, http.MethodPost, "/v1/auth/login",
		map[string]string{"username": "admin", "password": "tiendapos2026"}, ""), http.StatusOK, &login)
	require.NotEmpty(t, login.AccessToken)

	return &testEnv{server: srv, token: login.AccessToken}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	return do(t, e.server, method, path, body, e.token)
}

func (e *testEnv) saldo(t *testing.T, cuentaID string) decimal.Decimal {
	t.Helper()
	var cuentas []struct {
		ID    string          `json:"id"`
		Saldo decimal.Decimal `json:"saldo"`
	}
	expect(t, e.do(t, http.MethodGet, "/v1/cuentas", nil), http.StatusOK, &cuentas)
	for _, c := range cuentas {
		if c.ID == cuentaID {
			return c.Saldo
		}
	}
	require.Failf(t, "cuenta no encontrada", cuentaID)
	return decimal.Zero
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Receive, move, sell by transfer, then check stock, ledger and report.
func TestE2E_CicloCompleto(t *testing.T) {
	env := setupTestEnv(t)

	var area, prod, cuenta conID
	expect(t, env.do(t, http.MethodPost, "/v1/areas",
		map[string]any{"nombre": "Piso 1", "tipo": "piso_venta"}), http.StatusCreated, &area)
	expect(t, env.do(t, http.MethodPost, "/v1/productos", map[string]any{
		"codigo": "X1", "descripcion": "Camisa lino", "precio_costo": "10", "precio_venta": "25", "pago_trabajador": "2",
	}), http.StatusCreated, &prod)
	expect(t, env.do(t, http.MethodPost, "/v1/cuentas",
		map[string]any{"nombre": "Banco", "tipo": "banco"}), http.StatusCreated, &cuenta)
	expect(t, env.do(t, http.MethodPost, "/v1/cuentas/"+cuenta.ID+"/depositos",
		map[string]any{"monto": "100", "descripcion": "capital"}), http.StatusCreated, nil)

	// 1. Receive 5 paid from the account
	var entrada struct {
		Unidades []struct {
			Rango string `json:"rango"`
		} `json:"unidades"`
	}
	expect(t, env.do(t, http.MethodPost, "/v1/inventario/entradas", map[string]any{
		"producto_info_id": prod.ID, "proveedor": "Textil SA", "comprador": "Ana",
		"metodo_pago": "transferencia", "cantidad": 5, "cuenta_id": cuenta.ID,
	}), http.StatusCreated, &entrada)
	require.Len(t, entrada.Unidades, 1)
	assert.Equal(t, "1-5", entrada.Unidades[0].Rango)
	assert.True(t, decimal.NewFromInt(50).Equal(env.saldo(t, cuenta.ID)))

	// 2. Move 3 to the floor
	var salida struct {
		ID        string   `json:"id"`
		UnidadIDs []uint64 `json:"unidad_ids"`
	}
	expect(t, env.do(t, http.MethodPost, "/v1/inventario/salidas", map[string]any{
		"producto_info_id": prod.ID, "area_id": area.ID, "cantidad": 3,
	}), http.StatusCreated, &salida)
	assert.Equal(t, []uint64{1, 2, 3}, salida.UnidadIDs)

	// 3. Sell unit 2 by transfer
	var venta struct {
		Total decimal.Decimal `json:"total"`
	}
	expect(t, env.do(t, http.MethodPost, "/v1/ventas", map[string]any{
		"producto_info_id": prod.ID, "area_id": area.ID, "unidad_ids": []uint64{2},
		"metodo_pago": "transferencia", "cuenta_id": cuenta.ID,
	}), http.StatusCreated, &venta)
	assert.Equal(t, "25", venta.Total.String())
	assert.True(t, decimal.NewFromInt(75).Equal(env.saldo(t, cuenta.ID)))

	var resumen []struct {
		Almacen  int `json:"almacen"`
		Vendidas int `json:"vendidas"`
		Areas    []struct {
			Cantidad int `json:"cantidad"`
		} `json:"areas"`
	}
	expect(t, env.do(t, http.MethodGet, "/v1/inventario/resumen?producto_info_id="+prod.ID, nil), http.StatusOK, &resumen)
	require.Len(t, resumen, 1)
	assert.Equal(t, 2, resumen[0].Almacen)
	assert.Equal(t, 1, resumen[0].Vendidas)
	require.Len(t, resumen[0].Areas, 1)
	assert.Equal(t, 2, resumen[0].Areas[0].Cantidad)

	// 4. The exit can no longer be reverted: unit 2 left the floor
	var conflicto errorBody
	expect(t, env.do(t, http.MethodDelete, "/v1/inventario/salidas/"+salida.ID, nil), http.StatusBadRequest, &conflicto)
	assert.Equal(t, "conflicto", conflicto.Tipo)

	// 5. Withdrawing the whole balance leaves it at zero, which is refused
	var fondos errorBody
	expect(t, env.do(t, http.MethodPost, "/v1/cuentas/"+cuenta.ID+"/extracciones",
		map[string]any{"monto": "75", "descripcion": "retiro"}), http.StatusBadRequest, &fondos)
	assert.Equal(t, "fondos_insuficientes", fondos.Tipo)

	// 6. The report values the sale at its price on the day
	hoy := time.Now().UTC().Format("2006-01-02")
	var rep struct {
		Bruto         decimal.Decimal `json:"bruto"`
		Costo         decimal.Decimal `json:"costo"`
		Comisiones    decimal.Decimal `json:"comisiones"`
		Transferencia decimal.Decimal `json:"transferencia"`
		Neto          decimal.Decimal `json:"neto"`
	}
	expect(t, env.do(t, http.MethodGet, "/v1/reportes/ganancias?desde="+hoy+"&hasta="+hoy, nil), http.StatusOK, &rep)
	assert.Equal(t, "25", rep.Bruto.String())
	assert.Equal(t, "10", rep.Costo.String())
	assert.Equal(t, "2", rep.Comisiones.String())
	assert.Equal(t, "25", rep.Transferencia.String())
	assert.Equal(t, "13", rep.Neto.String())
}

func TestE2E_SinTokenYRolInsuficiente(t *testing.T) {
	env := setupTestEnv(t)

	expect(t, do(t, env.server, http.MethodGet, "/v1/productos", nil, ""), http.StatusUnauthorized, nil)

	expect(t, env.do(t, http.MethodPost, "/v1/usuarios", map[string]any{
		"username": "vend", "nombre": "Vendedor", "password": "secreto123", "rol": "vendedor",
	}), http.StatusCreated, nil)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	expect(t, do(t, env.server, http.MethodPost, "/v1/auth/login",
		map[string]string{"username": "vend", "password": "secreto123"}, ""), http.StatusOK, &login)

	expect(t, do(t, env.server, http.MethodGet, "/v1/cuentas", nil, login.AccessToken), http.StatusForbidden, nil)
	expect(t, do(t, env.server, http.MethodGet, "/v1/productos", nil, login.AccessToken), http.StatusOK, nil)
}

func TestE2E_EnviarReporteEncola(t *testing.T) {
	env := setupTestEnv(t)

	expect(t, env.do(t, http.MethodPost, "/v1/reportes/ganancias/email", map[string]any{
		"destinatario": "dueno@tienda.test", "desde": "2026-03-01", "hasta": "2026-03-31",
	}), http.StatusAccepted, nil)
}
