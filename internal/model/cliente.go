package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente belongs to a tenant, not to a branch.
type Cliente struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IDRaiz           uuid.UUID `gorm:"column:id_raiz;type:uuid;not null;index"`
	NumeroCliente    string    `gorm:"type:varchar(8);not null"`
	Nombre           string    `gorm:"not null"`
	Telefono         *string
	Email            *string
	Direccion        *string
	CodigoPostal     *string
	RFC              *string    `gorm:"column:rfc"`
	IDUsuarioCreador *uuid.UUID `gorm:"column:id_usuario_creador;type:uuid"`
	FechaRegistro    time.Time  `gorm:"not null"`
}

func (Cliente) TableName() string { return "clientes" }
