//go:build integration

package router

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/...

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/CzarAl/domus-backend/internal/config"
	"github.com/CzarAl/domus-backend/internal/dto"
	"github.com/CzarAl/domus-backend/internal/infra"
	"github.com/CzarAl/domus-backend/internal/model"
	"github.com/CzarAl/domus-backend/internal/scope"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

type testEnv struct {
	server   *httptest.Server
	db       *gorm.DB
	token    string
	sucursal uuid.UUID
	raiz     uuid.UUID
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

// status sends a request and returns only the status code; safe to call from
// goroutines other than the test's.
func (e *testEnv) status(method, path string, body any) (int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, err
		}
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)
	resp, err := e.server.Client().Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Setup ────────────────────────────────────────────────────────────────────

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("domus_test"),
		tcpostgres.WithUsername("domus"),
		tcpostgres.WithPassword("domus"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })
	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })
	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                         "test",
		JWTSecret:                   "test-secret-key",
		JWTExpirationHours:          8,
		JWTRefreshHours:             24,
		LoginMaxAttempts:            5,
		LoginLockMinutes:            15,
		TenantStatusCacheTTLSeconds: 1,
		DatabaseURL:                 pgURL,
		RedisURL:                    rdURL,
		DBAutoMigrate:               true,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.DBAutoMigrate)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	env := &testEnv{db: db, raiz: uuid.New(), sucursal: uuid.New()}
	seedTenant(t, db, env.raiz, env.sucursal)

	rt := New(cfg, db, rdb)
	env.server = httptest.NewServer(rt.Engine)
	t.Cleanup(env.server.Close)

	resp := env.do(t, http.MethodPost, "/v1/auth/login", dto.LoginRequest{Correo: "owner@e2e.test", Contrasena: "domus2026"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	decodeJSON(t, resp, &login)
	require.NotEmpty(t, login.AccessToken)
	env.token = login.AccessToken
	return env
}

func seedTenant(t *testing.T, db *gorm.DB, raiz, sucursal uuid.UUID) {
	t.Helper()
	hash, err := infra.NewBcryptHasher().Hash("domus2026")
	require.NoError(t, err)

	owner := uuid.New()
	vence := time.Now().AddDate(0, 1, 0)
	rows := []any{
		&model.Empresa{ID: raiz, Nombre: "Tienda E2E", Estado: model.EmpresaActiva, FechaCreacion: time.Now()},
		&model.Sucursal{ID: sucursal, IDRaiz: raiz, Nombre: "Centro"},
		&model.Usuario{ID: owner, Correo: "owner@e2e.test", Nombre: "Owner", Contrasena: hash,
			Nivel: string(scope.NivelUsuario), IDRaiz: raiz, Activo: true},
		&model.Suscripcion{IDUsuario: owner, Estado: "activa", FechaVencimiento: &vence},
	}
	for _, row := range rows {
		require.NoError(t, db.Create(row).Error)
	}
}

func (e *testEnv) crearProducto(t *testing.T, stock int, precio string) dto.ProductoResponse {
	t.Helper()
	suc := e.sucursal.String()
	resp := e.do(t, http.MethodPost, "/v1/inventario", dto.CrearProductoRequest{
		IDSucursal:  &suc,
		Nombre:      "Café molido",
		PrecioVenta: decimal.RequireFromString(precio),
		Stock:       stock,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var p dto.ProductoResponse
	decodeJSON(t, resp, &p)
	return p
}

func (e *testEnv) crearCliente(t *testing.T) dto.ClienteResponse {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/v1/clientes", dto.ClienteRequest{Nombre: "Cliente Mostrador"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var c dto.ClienteResponse
	decodeJSON(t, resp, &c)
	return c
}

func (e *testEnv) abrirCaja(t *testing.T, monto int64) dto.SesionCajaResponse {
	t.Helper()
	suc := e.sucursal.String()
	resp := e.do(t, http.MethodPost, "/v1/caja/abrir", dto.AbrirCajaRequest{IDSucursal: &suc, MontoInicial: decimal.NewFromInt(monto)})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var s dto.SesionCajaResponse
	decodeJSON(t, resp, &s)
	return s
}

func (e *testEnv) venta(cliente, producto string, cantidad int) dto.CrearVentaRequest {
	suc := e.sucursal.String()
	return dto.CrearVentaRequest{
		IDCliente:  cliente,
		IDSucursal: &suc,
		MetodoPago: "efectivo",
		Productos:  []dto.ItemVentaRequest{{IDProducto: producto, Cantidad: cantidad}},
	}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_CicloDeVenta(t *testing.T) {
	env := setupTestEnv(t)

	sesion := env.abrirCaja(t, 100)
	assert.True(t, sesion.Abierta)

	suc := env.sucursal.String()
	resp := env.do(t, http.MethodPost, "/v1/caja/abrir", dto.AbrirCajaRequest{IDSucursal: &suc, MontoInicial: decimal.NewFromInt(50)})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	producto := env.crearProducto(t, 3, "10.00")
	cliente := env.crearCliente(t)

	resp = env.do(t, http.MethodPost, "/v1/ventas", env.venta(cliente.ID, producto.ID, 2))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var venta dto.VentaResponse
	decodeJSON(t, resp, &venta)
	assert.True(t, venta.Total.Equal(decimal.NewFromInt(20)), "total=%s", venta.Total)
	assert.Len(t, venta.Folio, 8)
	assert.Equal(t, sesion.ID, venta.IDSesion)

	resp = env.do(t, http.MethodGet, "/v1/inventario/"+producto.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var actualizado dto.ProductoResponse
	decodeJSON(t, resp, &actualizado)
	assert.Equal(t, 1, actualizado.Stock)

	resp = env.do(t, http.MethodPost, "/v1/ventas", env.venta(cliente.ID, producto.ID, 5))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	var ventas int64
	require.NoError(t, env.db.Model(&model.Venta{}).Where("id_raiz = ?", env.raiz).Count(&ventas).Error)
	assert.Equal(t, int64(1), ventas)

	resp = env.do(t, http.MethodPost, "/v1/caja/cerrar/"+sesion.ID, map[string]string{"monto_declarado": "120"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cerrada dto.SesionCajaResponse
	decodeJSON(t, resp, &cerrada)
	assert.False(t, cerrada.Abierta)
	require.NotNil(t, cerrada.MontoCierre)
	assert.True(t, cerrada.MontoCierre.Equal(decimal.NewFromInt(20)), "cierre=%s", cerrada.MontoCierre)
}

func TestE2E_StockConcurrente(t *testing.T) {
	env := setupTestEnv(t)
	env.abrirCaja(t, 0)
	producto := env.crearProducto(t, 5, "3.50")
	cliente := env.crearCliente(t)

	codes := concurrently(t, 10, func() (int, error) {
		return env.status(http.MethodPost, "/v1/ventas", env.venta(cliente.ID, producto.ID, 1))
	})
	oks := codes[http.StatusCreated]
	assert.Equal(t, 5, codes[http.StatusConflict])
	assert.Equal(t, 5, oks)
	var stock int
	require.NoError(t, env.db.Model(&model.Producto{}).Select("stock").Where("id = ?", producto.ID).Scan(&stock).Error)
	assert.Equal(t, 0, stock)
}

func TestE2E_EmpresaSuspendidaBloqueaEscrituras(t *testing.T) {
	env := setupTestEnv(t)
	require.NoError(t, env.db.Model(&model.Empresa{}).Where("id = ?", env.raiz).Update("estado", model.EmpresaSuspendida).Error)
	time.Sleep(1100 * time.Millisecond) // status cache TTL

	suc := env.sucursal.String()
	resp := env.do(t, http.MethodPost, "/v1/caja/abrir", dto.AbrirCajaRequest{IDSucursal: &suc})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/v1/inventario", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_AdminSaaSRequiereAdminMaster(t *testing.T) {
	env := setupTestEnv(t)
	resp := env.do(t, http.MethodGet, "/v1/admin-saas/empresas", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	env.token = ""
	resp = env.do(t, http.MethodGet, "/v1/ventas", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

// concurrently runs fn n times in parallel and counts the status codes.
func concurrently(t *testing.T, n int, fn func() (int, error)) map[int]int {
	t.Helper()
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		codes = map[int]int{}
		errs  []error
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			code, err := fn()
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			codes[code]++
		}()
	}
	close(start)
	wg.Wait()
	require.Empty(t, errs)
	return codes
}

func TestE2E_AperturasConcurrentes(t *testing.T) {
	env := setupTestEnv(t)
	suc := env.sucursal.String()

	const n = 12
	codes := concurrently(t, n, func() (int, error) {
		return env.status(http.MethodPost, "/v1/caja/abrir", dto.AbrirCajaRequest{IDSucursal: &suc, MontoInicial: decimal.NewFromInt(100)})
	})

	assert.Equal(t, 1, codes[http.StatusCreated], "codes=%v", codes)
	assert.Equal(t, n-1, codes[http.StatusConflict], "codes=%v", codes)

	var abiertas int64
	require.NoError(t, env.db.Model(&model.SesionCaja{}).
		Where("id_raiz = ? AND id_sucursal = ? AND abierta", env.raiz, env.sucursal).
		Count(&abiertas).Error)
	assert.Equal(t, int64(1), abiertas)
}

func TestE2E_CierreContraVentasConcurrentes(t *testing.T) {
	env := setupTestEnv(t)
	sesion := env.abrirCaja(t, 0)
	producto := env.crearProducto(t, 50, "4.00")
	cliente := env.crearCliente(t)
	venta := env.venta(cliente.ID, producto.ID, 1)

	var cierre int
	codes := concurrently(t, 16, func() (int, error) {
		return env.status(http.MethodPost, "/v1/ventas", venta)
	})
	require.Equal(t, 16, codes[http.StatusCreated], "codes=%v", codes)

	// Race a second batch of sales against the close itself.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		cierre, _ = env.status(http.MethodPost, "/v1/caja/cerrar/"+sesion.ID, nil)
	}()
	tarde := concurrently(t, 16, func() (int, error) {
		return env.status(http.MethodPost, "/v1/ventas", venta)
	})
	wg.Wait()
	require.Equal(t, http.StatusOK, cierre)
	for code := range tarde {
		assert.Contains(t, []int{http.StatusCreated, http.StatusBadRequest}, code, "codes=%v", tarde)
	}

	var cerrada model.SesionCaja
	require.NoError(t, env.db.First(&cerrada, "id = ?", sesion.ID).Error)
	require.False(t, cerrada.Abierta)
	require.NotNil(t, cerrada.MontoCierre)

	var suma decimal.Decimal
	require.NoError(t, env.db.Model(&model.MovimientoCaja{}).
		Select("COALESCE(SUM(monto), 0)").Where("id_sesion = ?", sesion.ID).Scan(&suma).Error)
	var ventas int64
	require.NoError(t, env.db.Model(&model.Venta{}).Where("id_sesion = ?", sesion.ID).Count(&ventas).Error)

	// Every recorded sale landed before the close and is counted in it.
	assert.True(t, cerrada.MontoCierre.Equal(suma), "cierre=%s movimientos=%s", cerrada.MontoCierre, suma)
	assert.True(t, suma.Equal(decimal.NewFromInt(4*ventas)), "movimientos=%s ventas=%d", suma, ventas)
	assert.Equal(t, int64(16+tarde[http.StatusCreated]), ventas)
}
