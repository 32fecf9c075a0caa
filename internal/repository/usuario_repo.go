package repository

import (
	"context"
	"time"

	"github.com/CzarAl/domus-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByCorreo(ctx context.Context, correo string) (*model.Usuario, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	// UpdateIntentos persists the failed-login counter and optional lock.
	UpdateIntentos(ctx context.Context, id uuid.UUID, intentos int, bloqueadoHasta *time.Time) error
	// FindSuscripcion returns the most recent subscription of an owner.
	FindSuscripcion(ctx context.Context, idUsuario uuid.UUID) (*model.Suscripcion, error)
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *usuarioRepo) FindByCorreo(ctx context.Context, correo string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Where("LOWER(correo) = LOWER(?)", correo).First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *usuarioRepo) UpdateIntentos(ctx context.Context, id uuid.UUID, intentos int, bloqueadoHasta *time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Usuario{}).Where("id = ?", id).
		Updates(map[string]any{"intentos_fallidos": intentos, "bloqueado_hasta": bloqueadoHasta}).Error
}

func (r *usuarioRepo) FindSuscripcion(ctx context.Context, idUsuario uuid.UUID) (*model.Suscripcion, error) {
	var s model.Suscripcion
	err := r.db.WithContext(ctx).
		Where("id_usuario = ?", idUsuario).
		Order("fecha_vencimiento DESC NULLS FIRST").
		First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}
