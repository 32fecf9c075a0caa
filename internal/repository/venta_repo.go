package repository

import (
	"context"
	"time"

	"github.com/CzarAl/domus-backend/internal/dto"
	"github.com/CzarAl/domus-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VentaRepository interface {
	// Create inserts the sale together with its Detalles.
	Create(ctx context.Context, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID, scope SesionScope) (*model.Venta, error)
	List(ctx context.Context, scope SesionScope, filter dto.VentaFilter) ([]model.Venta, int64, error)
	// Delete removes a sale and its lines; only used to undo a failed sale.
	Delete(ctx context.Context, id uuid.UUID) error
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) Create(ctx context.Context, v *model.Venta) error {
	return translate(r.db.WithContext(ctx).Create(v).Error)
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID, scope SesionScope) (*model.Venta, error) {
	var v model.Venta
	err := scope.apply(r.db.WithContext(ctx)).
		Preload("Detalles.Producto").
		Where("id = ?", id).
		First(&v).Error
	if err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (r *ventaRepo) List(ctx context.Context, scope SesionScope, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	q := scope.apply(r.db.WithContext(ctx).Model(&model.Venta{}))
	if filter.Fecha != "" {
		if dia, err := time.Parse("2006-01-02", filter.Fecha); err == nil {
			q = q.Where("fecha >= ? AND fecha < ?", dia, dia.AddDate(0, 0, 1))
		}
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Detalles.Producto").
		Order("fecha DESC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id_venta = ?", id).Delete(&model.DetalleVenta{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Venta{}).Error
	})
}
