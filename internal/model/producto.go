package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is an inventory row of a single branch. Stock only goes down
// through the conditional decrement in ProductoRepository.DescontarStock.
type Producto struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IDRaiz           uuid.UUID `gorm:"column:id_raiz;type:uuid;not null;index"`
	IDSucursal       uuid.UUID `gorm:"column:id_sucursal;type:uuid;not null;index"`
	Nombre           string    `gorm:"index;not null"`
	Descripcion      *string
	FotoURL          *string         `gorm:"column:foto_url"`
	CostoCompra      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PrecioVenta      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock            int             `gorm:"not null;default:0"`
	NumeroSerie      *string
	FechaAdquisicion *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Producto) TableName() string { return "inventario" }
