package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditoriaTienda is append-only.
type AuditoriaTienda struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IDRaiz      uuid.UUID `gorm:"column:id_raiz;type:uuid;not null;index"`
	IDSucursal  uuid.UUID `gorm:"column:id_sucursal;type:uuid;not null"`
	IDUsuario   uuid.UUID `gorm:"column:id_usuario;type:uuid;not null"`
	Accion      string    `gorm:"type:varchar(40);not null"`
	Descripcion string    `gorm:"not null"`
	FechaHora   time.Time `gorm:"not null"`
}

func (AuditoriaTienda) TableName() string { return "auditoria_tienda" }

const AccionCrearVenta = "CREAR_VENTA"
