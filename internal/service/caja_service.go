package service

import (
	"context"
	"errors"

	"github.com/CzarAl/domus-backend/internal/apierror"
	"github.com/CzarAl/domus-backend/internal/dto"
	"github.com/CzarAl/domus-backend/internal/model"
	"github.com/CzarAl/domus-backend/internal/repository"
	"github.com/CzarAl/domus-backend/internal/scope"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CajaService manages register sessions. Per (tenant, branch) the lifecycle is
// CLOSED → OPEN → CLOSED, with at most one OPEN session at a time.
type CajaService interface {
	Abrir(ctx context.Context, sc scope.Contexto, req dto.AbrirCajaRequest) (*dto.SesionCajaResponse, error)
	Cerrar(ctx context.Context, sc scope.Contexto, id uuid.UUID, req dto.CerrarCajaRequest) (*dto.SesionCajaResponse, error)
	RegistrarMovimiento(ctx context.Context, sc scope.Contexto, req dto.MovimientoManualRequest) (*dto.MovimientoResponse, error)
	ListarAbiertas(ctx context.Context, sc scope.Contexto) ([]dto.SesionCajaResponse, error)
	ListarSesiones(ctx context.Context, sc scope.Contexto, filter dto.SesionFilter) (*dto.SesionListResponse, error)
	Reporte(ctx context.Context, sc scope.Contexto, id uuid.UUID) (*dto.ReporteCajaResponse, error)
	// SesionAbierta returns the open session of a branch or ErrSinCajaAbierta.
	SesionAbierta(ctx context.Context, idRaiz, idSucursal uuid.UUID) (*model.SesionCaja, error)
}

type cajaService struct {
	repo  repository.CajaRepository
	guard EmpresaGuard
	now   Clock
}

func NewCajaService(repo repository.CajaRepository, guard EmpresaGuard) CajaService {
	return &cajaService{repo: repo, guard: guard, now: systemClock}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *cajaService) Abrir(ctx context.Context, sc scope.Contexto, req dto.AbrirCajaRequest) (*dto.SesionCajaResponse, error) {
	if err := s.guard.EnsureActiva(ctx, sc); err != nil {
		return nil, err
	}
	explicita, err := parseUUIDPtr(req.IDSucursal, "id_sucursal")
	if err != nil {
		return nil, err
	}
	idSucursal, err := scope.ResolverSucursal(sc, explicita)
	if err != nil {
		return nil, err
	}
	if req.MontoInicial.IsNegative() {
		return nil, apierror.Validacion("monto_inicial no puede ser negativo")
	}

	// Fast path; the partial unique index settles concurrent opens.
	if _, err := s.repo.FindSesionAbierta(ctx, sc.IDRaiz, idSucursal); err == nil {
		return nil, apierror.ErrCajaYaAbierta
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apierror.Persistencia("buscar la caja abierta", err)
	}

	sesion := &model.SesionCaja{
		IDRaiz:        sc.IDRaiz,
		IDSucursal:    idSucursal,
		IDUsuario:     sc.IDUsuario,
		MontoInicial:  req.MontoInicial,
		FechaApertura: s.now(),
		Abierta:       true,
	}
	if err := s.repo.CreateSesion(ctx, sesion); err != nil {
		if errors.Is(err, repository.ErrDuplicado) {
			return nil, apierror.ErrCajaYaAbierta
		}
		return nil, apierror.Persistencia("abrir la caja", err)
	}

	resp := sesionToResponse(sesion)
	return &resp, nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// monto_cierre is the sum of the session movements. A declared amount, when
// given, is stored next to it with the deviation against
// monto_inicial + monto_cierre.

func (s *cajaService) Cerrar(ctx context.Context, sc scope.Contexto, id uuid.UUID, req dto.CerrarCajaRequest) (*dto.SesionCajaResponse, error) {
	if err := s.guard.EnsureActiva(ctx, sc); err != nil {
		return nil, err
	}
	q, err := lecturaScope(sc)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sesion, err := s.repo.CerrarSesion(ctx, id, q, func(ses *model.SesionCaja, suma decimal.Decimal) {
		cierre := suma
		ses.MontoCierre = &cierre
		ses.FechaCierre = &now
		ses.Abierta = false
		ses.Observaciones = req.Observaciones
		if req.MontoDeclarado != nil {
			declarado := *req.MontoDeclarado
			esperado := ses.MontoInicial.Add(suma)
			desvio := declarado.Sub(esperado)
			clasificacion := clasificarDesvio(porcentajeDesvio(desvio, esperado))
			ses.MontoDeclarado = &declarado
			ses.Desvio = &desvio
			ses.ClasificacionDesvio = &clasificacion
		}
	})
	if err != nil {
		return nil, notFoundOr(err, apierror.ErrSesionNoEncontrada, "cerrar la caja")
	}

	resp := sesionToResponse(sesion)
	return &resp, nil
}

// ── RegistrarMovimiento ───────────────────────────────────────────────────────
// Manual income/expense. Egresos are stored negative.

func (s *cajaService) RegistrarMovimiento(ctx context.Context, sc scope.Contexto, req dto.MovimientoManualRequest) (*dto.MovimientoResponse, error) {
	if err := s.guard.EnsureActiva(ctx, sc); err != nil {
		return nil, err
	}
	idSesion, err := parseUUID(req.IDSesion, "id_sesion")
	if err != nil {
		return nil, err
	}
	if !req.Monto.IsPositive() {
		return nil, apierror.Validacion("monto debe ser mayor a cero")
	}
	q, err := lecturaScope(sc)
	if err != nil {
		return nil, err
	}

	sesion, err := s.repo.FindSesion(ctx, idSesion, q)
	if err != nil {
		return nil, notFoundOr(err, apierror.ErrSesionNoEncontrada, "buscar la sesión")
	}
	if !sesion.Abierta {
		return nil, apierror.ErrSesionNoEncontrada
	}

	monto := req.Monto
	if req.Tipo == model.MovimientoEgreso {
		monto = monto.Neg()
	}
	mov := &model.MovimientoCaja{
		IDSesion:   sesion.ID,
		Tipo:       req.Tipo,
		Concepto:   req.Concepto,
		Monto:      monto,
		IDUsuario:  sc.IDUsuario,
		IDRaiz:     sesion.IDRaiz,
		IDSucursal: sesion.IDSucursal,
		Fecha:      s.now(),
	}
	if err := s.repo.CreateMovimiento(ctx, mov); err != nil {
		return nil, apierror.Persistencia("registrar el movimiento", err)
	}
	resp := movimientoToResponse(mov)
	return &resp, nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *cajaService) ListarAbiertas(ctx context.Context, sc scope.Contexto) ([]dto.SesionCajaResponse, error) {
	list, err := s.ListarSesiones(ctx, sc, dto.SesionFilter{Estado: "abierta", Page: 1, Limit: 200})
	if err != nil {
		return nil, err
	}
	return list.Data, nil
}

func (s *cajaService) ListarSesiones(ctx context.Context, sc scope.Contexto, filter dto.SesionFilter) (*dto.SesionListResponse, error) {
	q, err := lecturaScope(sc)
	if err != nil {
		return nil, err
	}
	sesiones, total, err := s.repo.ListSesiones(ctx, q, filter)
	if err != nil {
		return nil, apierror.Persistencia("listar sesiones", err)
	}
	resp := &dto.SesionListResponse{
		Data:  make([]dto.SesionCajaResponse, 0, len(sesiones)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range sesiones {
		resp.Data = append(resp.Data, sesionToResponse(&sesiones[i]))
	}
	return resp, nil
}

func (s *cajaService) Reporte(ctx context.Context, sc scope.Contexto, id uuid.UUID) (*dto.ReporteCajaResponse, error) {
	q, err := lecturaScope(sc)
	if err != nil {
		return nil, err
	}
	sesion, err := s.repo.FindSesion(ctx, id, q)
	if err != nil {
		return nil, notFoundOr(err, apierror.ErrSesionNoEncontrada, "buscar la sesión")
	}

	rep := &dto.ReporteCajaResponse{
		Sesion:      sesionToResponse(sesion),
		Ingresos:    decimal.Zero,
		Egresos:     decimal.Zero,
		Movimientos: make([]dto.MovimientoResponse, 0, len(sesion.Movimientos)),
	}
	for i := range sesion.Movimientos {
		m := &sesion.Movimientos[i]
		if m.Monto.IsNegative() {
			rep.Egresos = rep.Egresos.Add(m.Monto)
		} else {
			rep.Ingresos = rep.Ingresos.Add(m.Monto)
		}
		rep.Movimientos = append(rep.Movimientos, movimientoToResponse(m))
	}
	rep.Saldo = sesion.MontoInicial.Add(rep.Ingresos).Add(rep.Egresos)
	return rep, nil
}

func (s *cajaService) SesionAbierta(ctx context.Context, idRaiz, idSucursal uuid.UUID) (*model.SesionCaja, error) {
	sesion, err := s.repo.FindSesionAbierta(ctx, idRaiz, idSucursal)
	if err != nil {
		return nil, notFoundOr(err, apierror.ErrSinCajaAbierta, "buscar la caja abierta")
	}
	return sesion, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

var cien = decimal.NewFromInt(100)

func porcentajeDesvio(desvio, esperado decimal.Decimal) decimal.Decimal {
	if esperado.IsZero() {
		if desvio.IsZero() {
			return decimal.Zero
		}
		return cien
	}
	return desvio.Div(esperado).Mul(cien).Round(2)
}

// clasificarDesvio returns "normal" | "advertencia" | "critico"
// normal: |desvio| <= 1%, advertencia: <= 5%, critico: > 5%
func clasificarDesvio(pct decimal.Decimal) string {
	abs := pct.Abs()
	switch {
	case abs.LessThanOrEqual(decimal.NewFromInt(1)):
		return "normal"
	case abs.LessThanOrEqual(decimal.NewFromInt(5)):
		return "advertencia"
	default:
		return "critico"
	}
}

func sesionToResponse(s *model.SesionCaja) dto.SesionCajaResponse {
	resp := dto.SesionCajaResponse{
		ID:             s.ID.String(),
		IDSucursal:     s.IDSucursal.String(),
		IDUsuario:      s.IDUsuario.String(),
		MontoInicial:   s.MontoInicial,
		MontoCierre:    s.MontoCierre,
		MontoDeclarado: s.MontoDeclarado,
		Abierta:        s.Abierta,
		FechaApertura:  formatTime(s.FechaApertura),
		FechaCierre:    formatTimePtr(s.FechaCierre),
	}
	if s.Desvio != nil && s.ClasificacionDesvio != nil {
		esperado := s.MontoInicial
		if s.MontoCierre != nil {
			esperado = esperado.Add(*s.MontoCierre)
		}
		resp.Desvio = &dto.DesvioResponse{
			Monto:         *s.Desvio,
			Porcentaje:    porcentajeDesvio(*s.Desvio, esperado),
			Clasificacion: *s.ClasificacionDesvio,
		}
	}
	return resp
}

func movimientoToResponse(m *model.MovimientoCaja) dto.MovimientoResponse {
	return dto.MovimientoResponse{
		ID:       m.ID.String(),
		Tipo:     m.Tipo,
		Concepto: m.Concepto,
		Monto:    m.Monto,
		IDVenta:  uuidPtrString(m.IDVenta),
		Fecha:    formatTime(m.Fecha),
	}
}
