package repository

import (
	"context"

	"github.com/CzarAl/domus-backend/internal/dto"
	"github.com/CzarAl/domus-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SesionScope narrows session lookups to a tenant and, for sellers, a branch.
type SesionScope struct {
	IDRaiz     uuid.UUID
	IDSucursal *uuid.UUID
}

func (s SesionScope) apply(q *gorm.DB) *gorm.DB {
	q = q.Where("id_raiz = ?", s.IDRaiz)
	if s.IDSucursal != nil {
		q = q.Where("id_sucursal = ?", *s.IDSucursal)
	}
	return q
}

type CajaRepository interface {
	// CreateSesion returns ErrDuplicado when the branch already has an open session.
	CreateSesion(ctx context.Context, s *model.SesionCaja) error
	FindSesionAbierta(ctx context.Context, idRaiz, idSucursal uuid.UUID) (*model.SesionCaja, error)
	FindSesion(ctx context.Context, id uuid.UUID, scope SesionScope) (*model.SesionCaja, error)
	ListSesiones(ctx context.Context, scope SesionScope, filter dto.SesionFilter) ([]model.SesionCaja, int64, error)
	// CerrarSesion locks the open session, sums its movements and lets cerrar
	// fill in the closing fields before the row is saved. ErrNotFound when the
	// session is missing, out of scope or already closed.
	CerrarSesion(ctx context.Context, id uuid.UUID, scope SesionScope, cerrar func(s *model.SesionCaja, suma decimal.Decimal)) (*model.SesionCaja, error)
	// BloquearSesionAbierta takes a shared lock on an open session for the
	// rest of the transaction so it cannot be closed underneath a sale.
	BloquearSesionAbierta(ctx context.Context, id uuid.UUID) error
	CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error
	ListMovimientos(ctx context.Context, idSesion uuid.UUID) ([]model.MovimientoCaja, error)
	DeleteMovimientosByVenta(ctx context.Context, idVenta uuid.UUID) error
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) CreateSesion(ctx context.Context, s *model.SesionCaja) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r *cajaRepo) FindSesionAbierta(ctx context.Context, idRaiz, idSucursal uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).
		Where("id_raiz = ? AND id_sucursal = ? AND abierta = true", idRaiz, idSucursal).
		First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *cajaRepo) FindSesion(ctx context.Context, id uuid.UUID, scope SesionScope) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := scope.apply(r.db.WithContext(ctx)).
		Preload("Movimientos", func(db *gorm.DB) *gorm.DB { return db.Order("fecha ASC") }).
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *cajaRepo) ListSesiones(ctx context.Context, scope SesionScope, filter dto.SesionFilter) ([]model.SesionCaja, int64, error) {
	var sesiones []model.SesionCaja
	var total int64

	q := scope.apply(r.db.WithContext(ctx).Model(&model.SesionCaja{}))
	switch filter.Estado {
	case "abierta":
		q = q.Where("abierta = true")
	case "cerrada":
		q = q.Where("abierta = false")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("fecha_apertura DESC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&sesiones).Error
	return sesiones, total, err
}

func (r *cajaRepo) CerrarSesion(ctx context.Context, id uuid.UUID, scope SesionScope, cerrar func(s *model.SesionCaja, suma decimal.Decimal)) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := scope.apply(tx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND abierta = true", id).
			First(&s).Error
		if err != nil {
			return translate(err)
		}

		var suma decimal.Decimal
		err = tx.Model(&model.MovimientoCaja{}).
			Select("COALESCE(SUM(monto), 0)").
			Where("id_sesion = ?", id).
			Scan(&suma).Error
		if err != nil {
			return err
		}

		cerrar(&s, suma)
		res := tx.Model(&model.SesionCaja{}).
			Where("id = ? AND abierta = true", id).
			Updates(map[string]any{
				"abierta":              false,
				"monto_cierre":         s.MontoCierre,
				"monto_declarado":      s.MontoDeclarado,
				"desvio":               s.Desvio,
				"clasificacion_desvio": s.ClasificacionDesvio,
				"observaciones":        s.Observaciones,
				"fecha_cierre":         s.FechaCierre,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cajaRepo) BloquearSesionAbierta(ctx context.Context, id uuid.UUID) error {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "SHARE"}).
		Select("id").
		Where("id = ? AND abierta = true", id).
		First(&s).Error
	return translate(err)
}

func (r *cajaRepo) CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *cajaRepo) ListMovimientos(ctx context.Context, idSesion uuid.UUID) ([]model.MovimientoCaja, error) {
	var movs []model.MovimientoCaja
	err := r.db.WithContext(ctx).Where("id_sesion = ?", idSesion).Order("fecha ASC").Find(&movs).Error
	return movs, err
}

func (r *cajaRepo) DeleteMovimientosByVenta(ctx context.Context, idVenta uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id_venta = ?", idVenta).Delete(&model.MovimientoCaja{}).Error
}
