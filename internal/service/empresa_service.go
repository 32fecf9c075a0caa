package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/CzarAl/domus-backend/internal/apierror"
	"github.com/CzarAl/domus-backend/internal/dto"
	"github.com/CzarAl/domus-backend/internal/model"
	"github.com/CzarAl/domus-backend/internal/repository"
	"github.com/CzarAl/domus-backend/internal/scope"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmpresaService covers tenant billing: the owner-facing operations and the
// SaaS administration panel.
type EmpresaService interface {
	// Owner side
	SolicitarCancelacion(ctx context.Context, sc scope.Contexto) error
	Deuda(ctx context.Context, sc scope.Contexto) (*dto.DeudaResponse, error)
	CrearAjuste(ctx context.Context, sc scope.Contexto, req dto.AjusteRequest) (*dto.AjusteResponse, error)

	// SaaS admin side
	ListEmpresas(ctx context.Context) ([]dto.EmpresaResponse, error)
	ListCuentas(ctx context.Context, filter dto.CuentaFilter) ([]dto.CuentaMatrizResponse, error)
	Suspender(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
	MarcarPagado(ctx context.Context, id uuid.UUID) (int64, error)
	AprobarCancelacion(ctx context.Context, id uuid.UUID) error
	EliminarDefinitivo(ctx context.Context, sc scope.Contexto, id uuid.UUID) (json.RawMessage, error)

	// BarrerVencidas marks overdue billing records and suspends their tenants.
	BarrerVencidas(ctx context.Context) (int, error)
}

type empresaService struct {
	repo  repository.EmpresaRepository
	guard EmpresaGuard
	now   Clock
}

func NewEmpresaService(repo repository.EmpresaRepository, guard EmpresaGuard) EmpresaService {
	return &empresaService{repo: repo, guard: guard, now: systemClock}
}

// ── Owner side ────────────────────────────────────────────────────────────────

func (s *empresaService) SolicitarCancelacion(ctx context.Context, sc scope.Contexto) error {
	if sc.Nivel != scope.NivelUsuario {
		return apierror.ErrPermisosInsuficiente
	}
	err := s.repo.SolicitarCancelacion(ctx, sc.IDRaiz, s.now())
	if errors.Is(err, repository.ErrNoAplicado) {
		if _, ferr := s.repo.FindByID(ctx, sc.IDRaiz); errors.Is(ferr, repository.ErrNotFound) {
			return apierror.ErrEmpresaNoEncontrada
		}
		return apierror.ErrCancelacionPendiente
	}
	if err != nil {
		return apierror.Persistencia("solicitar la cancelación", err)
	}
	s.guard.Invalidar(ctx, sc.IDRaiz)
	return nil
}

func (s *empresaService) Deuda(ctx context.Context, sc scope.Contexto) (*dto.DeudaResponse, error) {
	id := sc.IDRaiz
	cuentas, err := s.repo.ListCuentas(ctx, repository.CuentaScope{IDEmpresa: &id, Estado: model.CuentaVencida})
	if err != nil {
		return nil, apierror.Persistencia("consultar la deuda", err)
	}
	resp := &dto.DeudaResponse{Cuentas: make([]dto.CuentaMatrizResponse, 0, len(cuentas)), Total: decimal.Zero}
	for i := range cuentas {
		resp.Cuentas = append(resp.Cuentas, cuentaToResponse(&cuentas[i]))
		resp.Total = resp.Total.Add(cuentas[i].MontoTotal)
	}
	return resp, nil
}

// CrearAjuste charges extra resources for the rest of the active period:
// costo_unitario × cantidad × dias_restantes / dias_periodo.
func (s *empresaService) CrearAjuste(ctx context.Context, sc scope.Contexto, req dto.AjusteRequest) (*dto.AjusteResponse, error) {
	if err := s.guard.EnsureActiva(ctx, sc); err != nil {
		return nil, err
	}

	periodo, err := s.repo.FindPeriodoActivo(ctx, sc.IDRaiz)
	if err != nil {
		return nil, notFoundOr(err, apierror.ErrSinPeriodoActivo, "buscar el periodo activo")
	}

	hoy := truncDia(s.now())
	diasRestantes := diasEntre(hoy, truncDia(periodo.FechaVencimiento))
	diasPeriodo := diasEntre(truncDia(periodo.PeriodoInicio), truncDia(periodo.PeriodoFin))
	if diasRestantes <= 0 || diasPeriodo <= 0 {
		return nil, apierror.ErrPeriodoPorVencer
	}

	monto := req.CostoUnitario.
		Mul(decimal.NewFromInt(int64(req.Cantidad))).
		Mul(decimal.NewFromInt(int64(diasRestantes))).
		Div(decimal.NewFromInt(int64(diasPeriodo))).
		Round(2)

	recurso, cantidad, costo := req.Recurso, req.Cantidad, req.CostoUnitario
	cuenta := &model.CuentaMatriz{
		IDEmpresaMatriz:  sc.IDRaiz,
		PeriodoInicio:    hoy,
		PeriodoFin:       periodo.FechaVencimiento,
		MontoTotal:       monto,
		Estado:           model.CuentaActiva,
		Tipo:             model.CuentaAjuste,
		Recurso:          &recurso,
		Cantidad:         &cantidad,
		CostoUnitario:    &costo,
		FechaVencimiento: periodo.FechaVencimiento,
	}
	if err := s.repo.CreateCuenta(ctx, cuenta); err != nil {
		return nil, apierror.Persistencia("crear el ajuste", err)
	}

	return &dto.AjusteResponse{
		Cuenta:         cuentaToResponse(cuenta),
		DiasRestantes:  diasRestantes,
		DiasPeriodo:    diasPeriodo,
		MontoProrrateo: monto,
	}, nil
}

// ── SaaS admin side ───────────────────────────────────────────────────────────

func (s *empresaService) ListEmpresas(ctx context.Context) ([]dto.EmpresaResponse, error) {
	empresas, err := s.repo.List(ctx)
	if err != nil {
		return nil, apierror.Persistencia("listar empresas", err)
	}
	out := make([]dto.EmpresaResponse, 0, len(empresas))
	for _, e := range empresas {
		out = append(out, dto.EmpresaResponse{
			ID:                   e.ID.String(),
			Nombre:               e.Nombre,
			Estado:               e.Estado,
			CancelacionPendiente: e.CancelacionPendiente,
			FechaCreacion:        formatTime(e.FechaCreacion),
		})
	}
	return out, nil
}

func (s *empresaService) ListCuentas(ctx context.Context, filter dto.CuentaFilter) ([]dto.CuentaMatrizResponse, error) {
	var q repository.CuentaScope
	q.Estado = filter.Estado
	if filter.IDEmpresa != "" {
		id, err := parseUUID(filter.IDEmpresa, "id_empresa")
		if err != nil {
			return nil, err
		}
		q.IDEmpresa = &id
	}
	cuentas, err := s.repo.ListCuentas(ctx, q)
	if err != nil {
		return nil, apierror.Persistencia("listar cuentas", err)
	}
	out := make([]dto.CuentaMatrizResponse, 0, len(cuentas))
	for i := range cuentas {
		out = append(out, cuentaToResponse(&cuentas[i]))
	}
	return out, nil
}

func (s *empresaService) Suspender(ctx context.Context, id uuid.UUID) error {
	return s.cambiarEstado(ctx, id, model.EmpresaSuspendida)
}

func (s *empresaService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if err := s.sinVencidas(ctx, id); err != nil {
		return err
	}
	return s.cambiarEstado(ctx, id, model.EmpresaActiva)
}

func (s *empresaService) MarcarPagado(ctx context.Context, id uuid.UUID) (int64, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return 0, notFoundOr(err, apierror.ErrEmpresaNoEncontrada, "buscar la empresa")
	}
	n, err := s.repo.MarcarPagadas(ctx, id, s.now())
	if err != nil {
		return 0, apierror.Persistencia("marcar pagado", err)
	}
	s.guard.Invalidar(ctx, id)
	return n, nil
}

func (s *empresaService) AprobarCancelacion(ctx context.Context, id uuid.UUID) error {
	if err := s.sinVencidas(ctx, id); err != nil {
		return err
	}
	return s.cambiarEstado(ctx, id, model.EmpresaSuspendida)
}

func (s *empresaService) EliminarDefinitivo(ctx context.Context, sc scope.Contexto, id uuid.UUID) (json.RawMessage, error) {
	backup, err := s.repo.EliminarConBackup(ctx, id, sc.IDUsuario, s.now())
	if err != nil {
		return nil, notFoundOr(err, apierror.ErrEmpresaNoEncontrada, "eliminar la empresa")
	}
	s.guard.Invalidar(ctx, id)
	return backup.Datos, nil
}

func (s *empresaService) BarrerVencidas(ctx context.Context) (int, error) {
	ids, err := s.repo.MarcarVencidas(ctx, s.now())
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		s.guard.Invalidar(ctx, id)
	}
	return len(ids), nil
}

func (s *empresaService) sinVencidas(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.ContarCuentasVencidas(ctx, id)
	if err != nil {
		return apierror.Persistencia("verificar la deuda", err)
	}
	if n > 0 {
		return apierror.ErrCuentasVencidas
	}
	return nil
}

func (s *empresaService) cambiarEstado(ctx context.Context, id uuid.UUID, estado string) error {
	if err := s.repo.UpdateEstado(ctx, id, estado); err != nil {
		return notFoundOr(err, apierror.ErrEmpresaNoEncontrada, "actualizar la empresa")
	}
	s.guard.Invalidar(ctx, id)
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func truncDia(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func diasEntre(desde, hasta time.Time) int {
	return int(hasta.Sub(desde).Hours() / 24)
}

func cuentaToResponse(c *model.CuentaMatriz) dto.CuentaMatrizResponse {
	return dto.CuentaMatrizResponse{
		ID:               c.ID.String(),
		IDEmpresa:        c.IDEmpresaMatriz.String(),
		PeriodoInicio:    c.PeriodoInicio.Format("2006-01-02"),
		PeriodoFin:       c.PeriodoFin.Format("2006-01-02"),
		MontoTotal:       c.MontoTotal,
		Estado:           c.Estado,
		Tipo:             c.Tipo,
		FechaVencimiento: c.FechaVencimiento.Format("2006-01-02"),
		FechaPago:        formatTimePtr(c.FechaPago),
	}
}
