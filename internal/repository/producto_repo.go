package repository

import (
	"context"

	"github.com/CzarAl/domus-backend/internal/dto"
	"github.com/CzarAl/domus-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductoRepository is the data access contract for the inventario table.
// Every lookup is scoped by tenant and, when set, by branch.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID, scope SesionScope) (*model.Producto, error)
	List(ctx context.Context, scope SesionScope, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	// Update writes only the given columns.
	Update(ctx context.Context, id uuid.UUID, scope SesionScope, cambios map[string]any) error
	Delete(ctx context.Context, id uuid.UUID, scope SesionScope) error
	BajoStock(ctx context.Context, scope SesionScope, limite int) ([]model.Producto, error)

	// DescontarStock subtracts n only if at least n units remain.
	// It reports false, with no error, when the condition did not hold.
	DescontarStock(ctx context.Context, id uuid.UUID, n int) (bool, error)
	// RestaurarStock adds n back; used to undo a decrement.
	RestaurarStock(ctx context.Context, id uuid.UUID, n int) error
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID, scope SesionScope) (*model.Producto, error) {
	var p model.Producto
	if err := scope.apply(r.db.WithContext(ctx)).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *productoRepo) List(ctx context.Context, scope SesionScope, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := scope.apply(r.db.WithContext(ctx).Model(&model.Producto{}))
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("nombre ASC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) Update(ctx context.Context, id uuid.UUID, scope SesionScope, cambios map[string]any) error {
	res := scope.apply(r.db.WithContext(ctx).Model(&model.Producto{})).
		Where("id = ?", id).
		Updates(cambios)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productoRepo) Delete(ctx context.Context, id uuid.UUID, scope SesionScope) error {
	res := scope.apply(r.db.WithContext(ctx)).Where("id = ?", id).Delete(&model.Producto{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productoRepo) BajoStock(ctx context.Context, scope SesionScope, limite int) ([]model.Producto, error) {
	var productos []model.Producto
	err := scope.apply(r.db.WithContext(ctx)).
		Where("stock <= ?", limite).
		Order("stock ASC, nombre ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) DescontarStock(ctx context.Context, id uuid.UUID, n int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("id = ? AND stock >= ?", id, n).
		Update("stock", gorm.Expr("stock - ?", n))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *productoRepo) RestaurarStock(ctx context.Context, id uuid.UUID, n int) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", n)).Error
}
