package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario is a login identity. Nivel: "admin_master" | "usuario" | "vendedor".
// For admin_master IDRaiz equals its own ID.
type Usuario struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Correo     string     `gorm:"uniqueIndex;not null"`
	Nombre     string     `gorm:"not null"`
	Contrasena string     `gorm:"not null"`
	Nivel      string     `gorm:"type:varchar(20);not null"`
	IDRaiz     uuid.UUID  `gorm:"column:id_raiz;type:uuid;not null;index"`
	IDSucursal *uuid.UUID `gorm:"column:id_sucursal;type:uuid"`
	// IntentosFallidos counts consecutive failed logins; reset on success.
	IntentosFallidos int `gorm:"not null;default:0"`
	BloqueadoHasta   *time.Time
	Activo           bool `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Usuario) TableName() string { return "usuarios" }
