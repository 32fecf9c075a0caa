package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/CzarAl/domus-backend/internal/dto"
	"github.com/CzarAl/domus-backend/internal/model"
	"github.com/CzarAl/domus-backend/internal/repository"
	"github.com/CzarAl/domus-backend/internal/scope"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory repositories shared by the service tests. Each one guards its
// state with a mutex so the concurrency tests exercise the same conditional
// writes the SQL implementations rely on.

var (
	_ repository.CajaRepository      = (*fakeCajaRepo)(nil)
	_ repository.ProductoRepository  = (*fakeProductoRepo)(nil)
	_ repository.VentaRepository     = (*fakeVentaRepo)(nil)
	_ repository.ClienteRepository   = (*fakeClienteRepo)(nil)
	_ repository.AuditoriaRepository = (*fakeAuditoriaRepo)(nil)
	_ repository.EmpresaRepository   = (*fakeEmpresaRepo)(nil)
	_ repository.UsuarioRepository   = (*fakeUsuarioRepo)(nil)
	_ repository.TxScope             = (*fakeTx)(nil)
)

func enScope(q repository.SesionScope, idRaiz, idSucursal uuid.UUID) bool {
	if q.IDRaiz != idRaiz {
		return false
	}
	return q.IDSucursal == nil || *q.IDSucursal == idSucursal
}

// ── Caja ──────────────────────────────────────────────────────────────────────

type fakeCajaRepo struct {
	mu          sync.Mutex
	sesiones    map[uuid.UUID]*model.SesionCaja
	movimientos []model.MovimientoCaja
	errMov      error
}

func newFakeCajaRepo() *fakeCajaRepo {
	return &fakeCajaRepo{sesiones: map[uuid.UUID]*model.SesionCaja{}}
}

func (r *fakeCajaRepo) CreateSesion(_ context.Context, s *model.SesionCaja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.sesiones {
		if o.Abierta && o.IDRaiz == s.IDRaiz && o.IDSucursal == s.IDSucursal {
			return repository.ErrDuplicado
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.sesiones[s.ID] = &cp
	return nil
}

func (r *fakeCajaRepo) FindSesionAbierta(_ context.Context, idRaiz, idSucursal uuid.UUID) (*model.SesionCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sesiones {
		if s.Abierta && s.IDRaiz == idRaiz && s.IDSucursal == idSucursal {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCajaRepo) FindSesion(_ context.Context, id uuid.UUID, q repository.SesionScope) (*model.SesionCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sesiones[id]
	if !ok || !enScope(q, s.IDRaiz, s.IDSucursal) {
		return nil, repository.ErrNotFound
	}
	cp := *s
	for _, m := range r.movimientos {
		if m.IDSesion == id {
			cp.Movimientos = append(cp.Movimientos, m)
		}
	}
	return &cp, nil
}

func (r *fakeCajaRepo) ListSesiones(_ context.Context, q repository.SesionScope, filter dto.SesionFilter) ([]model.SesionCaja, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.SesionCaja
	for _, s := range r.sesiones {
		if !enScope(q, s.IDRaiz, s.IDSucursal) {
			continue
		}
		if (filter.Estado == "abierta" && !s.Abierta) || (filter.Estado == "cerrada" && s.Abierta) {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCajaRepo) CerrarSesion(_ context.Context, id uuid.UUID, q repository.SesionScope, cerrar func(s *model.SesionCaja, suma decimal.Decimal)) (*model.SesionCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sesiones[id]
	if !ok || !s.Abierta || !enScope(q, s.IDRaiz, s.IDSucursal) {
		return nil, repository.ErrNotFound
	}
	suma := decimal.Zero
	for _, m := range r.movimientos {
		if m.IDSesion == id {
			suma = suma.Add(m.Monto)
		}
	}
	cerrar(s, suma)
	cp := *s
	return &cp, nil
}

func (r *fakeCajaRepo) BloquearSesionAbierta(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sesiones[id]; ok && s.Abierta {
		return nil
	}
	return repository.ErrNotFound
}

func (r *fakeCajaRepo) CreateMovimiento(_ context.Context, m *model.MovimientoCaja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.errMov != nil {
		return r.errMov
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *fakeCajaRepo) ListMovimientos(_ context.Context, idSesion uuid.UUID) ([]model.MovimientoCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.MovimientoCaja
	for _, m := range r.movimientos {
		if m.IDSesion == idSesion {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeCajaRepo) DeleteMovimientosByVenta(_ context.Context, idVenta uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.movimientos[:0]
	for _, m := range r.movimientos {
		if m.IDVenta == nil || *m.IDVenta != idVenta {
			kept = append(kept, m)
		}
	}
	r.movimientos = kept
	return nil
}

// ── Productos ─────────────────────────────────────────────────────────────────

type fakeProductoRepo struct {
	mu         sync.Mutex
	productos  map[uuid.UUID]*model.Producto
	errRestore error
	// antesDeUpdate runs before Update touches the row.
	antesDeUpdate func()
}

func newFakeProductoRepo() *fakeProductoRepo {
	return &fakeProductoRepo{productos: map[uuid.UUID]*model.Producto{}}
}

func (r *fakeProductoRepo) add(p model.Producto) uuid.UUID {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.mu.Lock()
	r.productos[p.ID] = &p
	r.mu.Unlock()
	return p.ID
}

func (r *fakeProductoRepo) stock(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.productos[id].Stock
}

func (r *fakeProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.add(*p)
	return nil
}

func (r *fakeProductoRepo) FindByID(_ context.Context, id uuid.UUID, q repository.SesionScope) (*model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok || !enScope(q, p.IDRaiz, p.IDSucursal) {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductoRepo) List(_ context.Context, q repository.SesionScope, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Producto
	for _, p := range r.productos {
		if enScope(q, p.IDRaiz, p.IDSucursal) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, int64(len(out)), nil
}

func (r *fakeProductoRepo) Update(_ context.Context, id uuid.UUID, q repository.SesionScope, cambios map[string]any) error {
	if r.antesDeUpdate != nil {
		r.antesDeUpdate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok || !enScope(q, p.IDRaiz, p.IDSucursal) {
		return repository.ErrNotFound
	}
	for col, v := range cambios {
		switch col {
		case "nombre":
			p.Nombre = v.(string)
		case "descripcion":
			d := v.(string)
			p.Descripcion = &d
		case "foto_url":
			f := v.(string)
			p.FotoURL = &f
		case "costo_compra":
			p.CostoCompra = v.(decimal.Decimal)
		case "precio_venta":
			p.PrecioVenta = v.(decimal.Decimal)
		case "stock":
			p.Stock = v.(int)
		case "numero_serie":
			n := v.(string)
			p.NumeroSerie = &n
		default:
			return fmt.Errorf("columna desconocida %q", col)
		}
	}
	return nil
}

func (r *fakeProductoRepo) Delete(_ context.Context, id uuid.UUID, q repository.SesionScope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok || !enScope(q, p.IDRaiz, p.IDSucursal) {
		return repository.ErrNotFound
	}
	delete(r.productos, id)
	return nil
}

func (r *fakeProductoRepo) BajoStock(_ context.Context, q repository.SesionScope, limite int) ([]model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Producto
	for _, p := range r.productos {
		if enScope(q, p.IDRaiz, p.IDSucursal) && p.Stock <= limite {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductoRepo) DescontarStock(_ context.Context, id uuid.UUID, n int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok || p.Stock < n {
		return false, nil
	}
	p.Stock -= n
	return true, nil
}

func (r *fakeProductoRepo) RestaurarStock(_ context.Context, id uuid.UUID, n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.errRestore != nil {
		return r.errRestore
	}
	if p, ok := r.productos[id]; ok {
		p.Stock += n
	}
	return nil
}

// ── Ventas ────────────────────────────────────────────────────────────────────

type fakeVentaRepo struct {
	mu     sync.Mutex
	ventas map[uuid.UUID]model.Venta
	folios map[string]bool
}

func newFakeVentaRepo() *fakeVentaRepo {
	return &fakeVentaRepo{ventas: map[uuid.UUID]model.Venta{}, folios: map[string]bool{}}
}

func (r *fakeVentaRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ventas)
}

func (r *fakeVentaRepo) Create(_ context.Context, v *model.Venta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.folios[v.Folio] {
		return repository.ErrDuplicado
	}
	r.folios[v.Folio] = true
	r.ventas[v.ID] = *v
	return nil
}

func (r *fakeVentaRepo) FindByID(_ context.Context, id uuid.UUID, q repository.SesionScope) (*model.Venta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.ventas[id]
	if !ok || !enScope(q, v.IDRaiz, v.IDSucursal) {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

func (r *fakeVentaRepo) List(_ context.Context, q repository.SesionScope, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Venta
	for _, v := range r.ventas {
		if enScope(q, v.IDRaiz, v.IDSucursal) {
			out = append(out, v)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeVentaRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.ventas[id]; ok {
		delete(r.folios, v.Folio)
		delete(r.ventas, id)
	}
	return nil
}

// ── Clientes / auditoría ──────────────────────────────────────────────────────

type fakeClienteRepo struct {
	mu       sync.Mutex
	clientes map[uuid.UUID]model.Cliente
}

func newFakeClienteRepo() *fakeClienteRepo {
	return &fakeClienteRepo{clientes: map[uuid.UUID]model.Cliente{}}
}

func (r *fakeClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = *c
	return nil
}

func (r *fakeClienteRepo) FindByID(_ context.Context, id, idRaiz uuid.UUID) (*model.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clientes[id]
	if !ok || c.IDRaiz != idRaiz {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *fakeClienteRepo) List(_ context.Context, idRaiz uuid.UUID) ([]model.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Cliente
	for _, c := range r.clientes {
		if c.IDRaiz == idRaiz {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeClienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.Create(ctx, c)
}

func (r *fakeClienteRepo) Delete(_ context.Context, id, idRaiz uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clientes[id]
	if !ok || c.IDRaiz != idRaiz {
		return repository.ErrNotFound
	}
	delete(r.clientes, id)
	return nil
}

type fakeAuditoriaRepo struct {
	mu      sync.Mutex
	entries []model.AuditoriaTienda
	err     error
}

func (r *fakeAuditoriaRepo) Create(_ context.Context, a *model.AuditoriaTienda) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, *a)
	return nil
}

func (r *fakeAuditoriaRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// ── TxScope ───────────────────────────────────────────────────────────────────

// fakeTx hands the same in-memory repositories to every unit of work. It is
// never atomic, so failed sales go through compensation.
type fakeTx struct {
	caja      *fakeCajaRepo
	productos *fakeProductoRepo
	ventas    *fakeVentaRepo
	auditoria *fakeAuditoriaRepo
	calls     int
}

func (t *fakeTx) Atomic() bool { return false }

func (t *fakeTx) Execute(_ context.Context, fn func(repos repository.TxRepos) error) error {
	t.calls++
	return fn(t)
}

func (t *fakeTx) Caja() repository.CajaRepository           { return t.caja }
func (t *fakeTx) Productos() repository.ProductoRepository  { return t.productos }
func (t *fakeTx) Ventas() repository.VentaRepository        { return t.ventas }
func (t *fakeTx) Auditoria() repository.AuditoriaRepository { return t.auditoria }

// ── Guard ─────────────────────────────────────────────────────────────────────

type fakeGuard struct {
	err         error
	invalidadas []uuid.UUID
}

func (g *fakeGuard) EnsureActiva(context.Context, scope.Contexto) error { return g.err }

func (g *fakeGuard) Invalidar(_ context.Context, id uuid.UUID) {
	g.invalidadas = append(g.invalidadas, id)
}

// ── Empresas ──────────────────────────────────────────────────────────────────

type fakeEmpresaRepo struct {
	mu       sync.Mutex
	empresas map[uuid.UUID]*model.Empresa
	cuentas  []model.CuentaMatriz
	finds    int
}

func newFakeEmpresaRepo() *fakeEmpresaRepo {
	return &fakeEmpresaRepo{empresas: map[uuid.UUID]*model.Empresa{}}
}

func (r *fakeEmpresaRepo) Create(_ context.Context, e *model.Empresa) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.empresas[e.ID] = &cp
	return nil
}

func (r *fakeEmpresaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Empresa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	e, ok := r.empresas[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEmpresaRepo) List(context.Context) ([]model.Empresa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Empresa
	for _, e := range r.empresas {
		out = append(out, *e)
	}
	return out, nil
}

func (r *fakeEmpresaRepo) UpdateEstado(_ context.Context, id uuid.UUID, estado string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.empresas[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.Estado = estado
	e.CancelacionPendiente = estado == model.EmpresaCancelacionPendiente
	return nil
}

func (r *fakeEmpresaRepo) SolicitarCancelacion(_ context.Context, id uuid.UUID, fecha time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.empresas[id]
	if !ok || e.CancelacionPendiente {
		return repository.ErrNoAplicado
	}
	e.CancelacionPendiente = true
	e.Estado = model.EmpresaCancelacionPendiente
	e.FechaCancelacionSolicitada = &fecha
	return nil
}

func (r *fakeEmpresaRepo) CreateSucursal(context.Context, *model.Sucursal) error { return nil }

func (r *fakeEmpresaRepo) ContarCuentasVencidas(_ context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.cuentas {
		if c.IDEmpresaMatriz == id && c.Estado == model.CuentaVencida {
			n++
		}
	}
	return n, nil
}

func (r *fakeEmpresaRepo) ListCuentas(_ context.Context, q repository.CuentaScope) ([]model.CuentaMatriz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CuentaMatriz
	for _, c := range r.cuentas {
		if q.IDEmpresa != nil && c.IDEmpresaMatriz != *q.IDEmpresa {
			continue
		}
		if q.Estado != "" && c.Estado != q.Estado {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeEmpresaRepo) FindPeriodoActivo(_ context.Context, id uuid.UUID) (*model.CuentaMatriz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *model.CuentaMatriz
	for i := range r.cuentas {
		c := &r.cuentas[i]
		if c.IDEmpresaMatriz != id || c.Estado != model.CuentaActiva || c.Tipo != model.CuentaMensual {
			continue
		}
		if best == nil || c.FechaVencimiento.After(best.FechaVencimiento) {
			best = c
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	cp := *best
	return &cp, nil
}

func (r *fakeEmpresaRepo) CreateCuenta(_ context.Context, c *model.CuentaMatriz) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.cuentas = append(r.cuentas, *c)
	return nil
}

func (r *fakeEmpresaRepo) MarcarPagadas(_ context.Context, id uuid.UUID, fecha time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.cuentas {
		c := &r.cuentas[i]
		if c.IDEmpresaMatriz == id && c.Estado == model.CuentaVencida {
			c.Estado = model.CuentaPagada
			c.FechaPago = &fecha
			n++
		}
	}
	if e, ok := r.empresas[id]; ok {
		e.Estado = model.EmpresaActiva
	}
	return n, nil
}

func (r *fakeEmpresaRepo) MarcarVencidas(_ context.Context, now time.Time) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[uuid.UUID]bool{}
	var ids []uuid.UUID
	for i := range r.cuentas {
		c := &r.cuentas[i]
		if c.Estado == model.CuentaActiva && c.FechaVencimiento.Before(now) {
			c.Estado = model.CuentaVencida
			if !seen[c.IDEmpresaMatriz] {
				seen[c.IDEmpresaMatriz] = true
				ids = append(ids, c.IDEmpresaMatriz)
			}
		}
	}
	var suspendidas []uuid.UUID
	for _, id := range ids {
		if e, ok := r.empresas[id]; ok && e.Estado == model.EmpresaActiva {
			e.Estado = model.EmpresaSuspendida
			suspendidas = append(suspendidas, id)
		}
	}
	return suspendidas, nil
}

func (r *fakeEmpresaRepo) EliminarConBackup(_ context.Context, id, eliminadoPor uuid.UUID, now time.Time) (*model.EmpresaBackup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.empresas[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	datos, _ := json.Marshal(map[string]any{"empresa": e})
	delete(r.empresas, id)
	return &model.EmpresaBackup{IDEmpresa: id, Datos: datos, EliminadoPor: eliminadoPor, Fecha: now}, nil
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

type fakeUsuarioRepo struct {
	mu            sync.Mutex
	usuarios      map[uuid.UUID]*model.Usuario
	suscripciones map[uuid.UUID]*model.Suscripcion
}

func newFakeUsuarioRepo() *fakeUsuarioRepo {
	return &fakeUsuarioRepo{
		usuarios:      map[uuid.UUID]*model.Usuario{},
		suscripciones: map[uuid.UUID]*model.Suscripcion{},
	}
}

func (r *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.usuarios[u.ID] = &cp
	return nil
}

func (r *fakeUsuarioRepo) FindByCorreo(_ context.Context, correo string) (*model.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.usuarios {
		if u.Correo == correo {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.usuarios[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUsuarioRepo) UpdateIntentos(_ context.Context, id uuid.UUID, intentos int, bloqueadoHasta *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.usuarios[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IntentosFallidos = intentos
	u.BloqueadoHasta = bloqueadoHasta
	return nil
}

func (r *fakeUsuarioRepo) FindSuscripcion(_ context.Context, idUsuario uuid.UUID) (*model.Suscripcion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.suscripciones[idUsuario]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

// plainHasher compares passwords verbatim; bcrypt itself is covered in infra.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "plain:" + plain, nil }
func (plainHasher) Verificar(plain, digest string) bool {
	return digest == "plain:"+plain
}

func productoEn(idRaiz, idSucursal uuid.UUID, nombre string) model.Producto {
	return model.Producto{IDRaiz: idRaiz, IDSucursal: idSucursal, Nombre: nombre, PrecioVenta: decimal.NewFromInt(10), Stock: 2}
}
