package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SesionCaja is one open→closed lifecycle of the register of a branch.
// At most one row per (IDRaiz, IDSucursal) may have Abierta=true; the partial
// unique index uq_sesiones_caja_abierta enforces it.
type SesionCaja struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IDRaiz       uuid.UUID       `gorm:"column:id_raiz;type:uuid;not null;index"`
	IDSucursal   uuid.UUID       `gorm:"column:id_sucursal;type:uuid;not null;index"`
	IDUsuario    uuid.UUID       `gorm:"column:id_usuario;type:uuid;not null"`
	MontoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// MontoCierre is SUM(movimientos_caja.monto) at close time.
	MontoCierre    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MontoDeclarado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Desvio         *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// ClasificacionDesvio: "normal" | "advertencia" | "critico"
	ClasificacionDesvio *string `gorm:"type:varchar(20)"`
	Observaciones       *string
	FechaApertura       time.Time `gorm:"not null"`
	FechaCierre         *time.Time
	Abierta             bool `gorm:"not null;default:true"`

	Movimientos []MovimientoCaja `gorm:"foreignKey:IDSesion"`
}

func (SesionCaja) TableName() string { return "sesiones_caja" }

// Tipos de movimiento de caja.
const (
	MovimientoIngreso = "ingreso"
	MovimientoEgreso  = "egreso"
)

// MovimientoCaja is an immutable cash ledger entry. Egresos carry a negative
// Monto so the session balance is a plain sum.
type MovimientoCaja struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IDSesion   uuid.UUID       `gorm:"column:id_sesion;type:uuid;index;not null"`
	Tipo       string          `gorm:"type:varchar(20);not null"`
	Concepto   string          `gorm:"not null"`
	Monto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IDUsuario  uuid.UUID       `gorm:"column:id_usuario;type:uuid;not null"`
	IDRaiz     uuid.UUID       `gorm:"column:id_raiz;type:uuid;not null;index"`
	IDSucursal uuid.UUID       `gorm:"column:id_sucursal;type:uuid;not null"`
	// IDVenta links the movement to the sale that produced it.
	IDVenta *uuid.UUID `gorm:"column:id_venta;type:uuid;index"`
	Fecha   time.Time  `gorm:"not null"`
}

func (MovimientoCaja) TableName() string { return "movimientos_caja" }
