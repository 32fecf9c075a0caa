package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/CzarAl/domus-backend/internal/apierror"
	"github.com/CzarAl/domus-backend/internal/dto"
	"github.com/CzarAl/domus-backend/internal/model"
	"github.com/CzarAl/domus-backend/internal/scope"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fechaFija = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

type tenant struct {
	raiz     uuid.UUID
	sucursal uuid.UUID
	owner    scope.Contexto
	vendedor scope.Contexto
}

func nuevoTenant() tenant {
	raiz, suc := uuid.New(), uuid.New()
	return tenant{
		raiz:     raiz,
		sucursal: suc,
		owner:    scope.Contexto{IDUsuario: uuid.New(), IDRaiz: raiz, Nivel: scope.NivelUsuario},
		vendedor: scope.Contexto{IDUsuario: uuid.New(), IDRaiz: raiz, Nivel: scope.NivelVendedor, IDSucursal: &suc},
	}
}

func newTestCaja(guard EmpresaGuard) (*cajaService, *fakeCajaRepo) {
	repo := newFakeCajaRepo()
	svc := NewCajaService(repo, guard).(*cajaService)
	svc.now = func() time.Time { return fechaFija }
	return svc, repo
}

func TestCaja_AbrirYConflicto(t *testing.T) {
	tn := nuevoTenant()
	svc, _ := newTestCaja(&fakeGuard{})
	ctx := context.Background()

	s, err := svc.Abrir(ctx, tn.vendedor, dto.AbrirCajaRequest{MontoInicial: dec("100.00")})
	require.NoError(t, err)
	assert.True(t, s.Abierta)
	assert.Equal(t, tn.sucursal.String(), s.IDSucursal)
	assert.True(t, s.MontoInicial.Equal(dec("100")))

	_, err = svc.Abrir(ctx, tn.vendedor, dto.AbrirCajaRequest{MontoInicial: dec("50")})
	require.ErrorIs(t, err, apierror.ErrCajaYaAbierta)

	// A different branch of the same tenant is independent.
	otra := uuid.New().String()
	_, err = svc.Abrir(ctx, tn.owner, dto.AbrirCajaRequest{IDSucursal: &otra, MontoInicial: dec("0")})
	require.NoError(t, err)
}

func TestCaja_AbrirValidaciones(t *testing.T) {
	tn := nuevoTenant()
	svc, _ := newTestCaja(&fakeGuard{})
	ctx := context.Background()

	_, err := svc.Abrir(ctx, tn.owner, dto.AbrirCajaRequest{MontoInicial: dec("10")})
	assert.ErrorIs(t, err, apierror.ErrSucursalRequerida)

	otra := uuid.New().String()
	_, err = svc.Abrir(ctx, tn.vendedor, dto.AbrirCajaRequest{IDSucursal: &otra, MontoInicial: dec("10")})
	assert.ErrorIs(t, err, apierror.ErrSucursalNoAutorizada)

	_, err = svc.Abrir(ctx, tn.vendedor, dto.AbrirCajaRequest{MontoInicial: dec("-1")})
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	bloqueado, _ := newTestCaja(&fakeGuard{err: apierror.ErrEmpresaSuspendida})
	_, err = bloqueado.Abrir(ctx, tn.vendedor, dto.AbrirCajaRequest{MontoInicial: dec("10")})
	assert.ErrorIs(t, err, apierror.ErrEmpresaSuspendida)
}

func TestCaja_AbrirConcurrente(t *testing.T) {
	tn := nuevoTenant()
	svc, repo := newTestCaja(&fakeGuard{})
	ctx := context.Background()

	const n = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicto int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Abrir(ctx, tn.vendedor, dto.AbrirCajaRequest{MontoInicial: dec("10")})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case apierror.KindOf(err) == apierror.KindConflict:
				conflicto++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicto)
	assert.Len(t, repo.sesiones, 1)
}

func TestCaja_CerrarSumaMovimientosYDesvio(t *testing.T) {
	tn := nuevoTenant()
	svc, _ := newTestCaja(&fakeGuard{})
	ctx := context.Background()

	s, err := svc.Abrir(ctx, tn.vendedor, dto.AbrirCajaRequest{MontoInicial: dec("100")})
	require.NoError(t, err)

	_, err = svc.RegistrarMovimiento(ctx, tn.vendedor, dto.MovimientoManualRequest{IDSesion: s.ID, Tipo: model.MovimientoIngreso, Monto: dec("50"), Concepto: "fondo"})
	require.NoError(t, err)
	mov, err := svc.RegistrarMovimiento(ctx, tn.vendedor, dto.MovimientoManualRequest{IDSesion: s.ID, Tipo: model.MovimientoEgreso, Monto: dec("20"), Concepto: "insumos"})
	require.NoError(t, err)
	assert.True(t, mov.Monto.Equal(dec("-20")))

	declarado := dec("127")
	cerrada, err := svc.Cerrar(ctx, tn.vendedor, uuid.MustParse(s.ID), dto.CerrarCajaRequest{MontoDeclarado: &declarado})
	require.NoError(t, err)
	assert.False(t, cerrada.Abierta)
	require.NotNil(t, cerrada.MontoCierre)
	assert.True(t, cerrada.MontoCierre.Equal(dec("30")))
	require.NotNil(t, cerrada.Desvio)
	assert.True(t, cerrada.Desvio.Monto.Equal(dec("-3")))
	assert.Equal(t, "advertencia", cerrada.Desvio.Clasificacion)
	require.NotNil(t, cerrada.FechaCierre)

	_, err = svc.Cerrar(ctx, tn.vendedor, uuid.MustParse(s.ID), dto.CerrarCajaRequest{})
	assert.ErrorIs(t, err, apierror.ErrSesionNoEncontrada)

	_, err = svc.RegistrarMovimiento(ctx, tn.vendedor, dto.MovimientoManualRequest{IDSesion: s.ID, Tipo: model.MovimientoIngreso, Monto: dec("1"), Concepto: "x"})
	assert.ErrorIs(t, err, apierror.ErrSesionNoEncontrada)

	// Closed, so the branch can open again.
	_, err = svc.Abrir(ctx, tn.vendedor, dto.AbrirCajaRequest{MontoInicial: dec("0")})
	require.NoError(t, err)
}

func TestCaja_CerrarFueraDeScope(t *testing.T) {
	tn := nuevoTenant()
	svc, _ := newTestCaja(&fakeGuard{})
	ctx := context.Background()

	s, err := svc.Abrir(ctx, tn.vendedor, dto.AbrirCajaRequest{MontoInicial: dec("0")})
	require.NoError(t, err)

	ajeno := nuevoTenant()
	_, err = svc.Cerrar(ctx, ajeno.owner, uuid.MustParse(s.ID), dto.CerrarCajaRequest{})
	assert.ErrorIs(t, err, apierror.ErrSesionNoEncontrada)

	otraSuc := uuid.New()
	vendedorOtra := tn.vendedor
	vendedorOtra.IDSucursal = &otraSuc
	_, err = svc.Cerrar(ctx, vendedorOtra, uuid.MustParse(s.ID), dto.CerrarCajaRequest{})
	assert.ErrorIs(t, err, apierror.ErrSesionNoEncontrada)
}

func TestCaja_ReporteYListados(t *testing.T) {
	tn := nuevoTenant()
	svc, _ := newTestCaja(&fakeGuard{})
	ctx := context.Background()

	s, err := svc.Abrir(ctx, tn.vendedor, dto.AbrirCajaRequest{MontoInicial: dec("100")})
	require.NoError(t, err)
	_, err = svc.RegistrarMovimiento(ctx, tn.vendedor, dto.MovimientoManualRequest{IDSesion: s.ID, Tipo: model.MovimientoIngreso, Monto: dec("40"), Concepto: "a"})
	require.NoError(t, err)
	_, err = svc.RegistrarMovimiento(ctx, tn.vendedor, dto.MovimientoManualRequest{IDSesion: s.ID, Tipo: model.MovimientoEgreso, Monto: dec("15"), Concepto: "b"})
	require.NoError(t, err)

	rep, err := svc.Reporte(ctx, tn.owner, uuid.MustParse(s.ID))
	require.NoError(t, err)
	assert.True(t, rep.Ingresos.Equal(dec("40")))
	assert.True(t, rep.Egresos.Equal(dec("-15")))
	assert.True(t, rep.Saldo.Equal(dec("125")))
	assert.Len(t, rep.Movimientos, 2)

	abiertas, err := svc.ListarAbiertas(ctx, tn.owner)
	require.NoError(t, err)
	assert.Len(t, abiertas, 1)

	otraSuc := uuid.New()
	vendedorOtra := tn.vendedor
	vendedorOtra.IDSucursal = &otraSuc
	abiertas, err = svc.ListarAbiertas(ctx, vendedorOtra)
	require.NoError(t, err)
	assert.Empty(t, abiertas)
}

func TestClasificarDesvio(t *testing.T) {
	cases := map[string]string{
		"0":     "normal",
		"1":     "normal",
		"-1":    "normal",
		"1.01":  "advertencia",
		"-5":    "advertencia",
		"5.01":  "critico",
		"-12.5": "critico",
	}
	for pct, want := range cases {
		assert.Equal(t, want, clasificarDesvio(dec(pct)), pct)
	}
	assert.True(t, porcentajeDesvio(dec("5"), decimal.Zero).Equal(dec("100")))
	assert.True(t, porcentajeDesvio(decimal.Zero, decimal.Zero).IsZero())
}
