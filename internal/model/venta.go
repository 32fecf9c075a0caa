package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is written exactly once per completed sale and never updated.
type Venta struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Folio      string          `gorm:"type:varchar(8);uniqueIndex;not null"`
	IDCliente  uuid.UUID       `gorm:"column:id_cliente;type:uuid;not null;index"`
	IDUsuario  uuid.UUID       `gorm:"column:id_usuario;type:uuid;not null"`
	IDRaiz     uuid.UUID       `gorm:"column:id_raiz;type:uuid;not null;index"`
	IDSucursal uuid.UUID       `gorm:"column:id_sucursal;type:uuid;not null;index"`
	IDSesion   uuid.UUID       `gorm:"column:id_sesion;type:uuid;not null;index"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago string          `gorm:"type:varchar(20);not null"`
	Fecha      time.Time       `gorm:"not null;index"`

	Detalles []DetalleVenta `gorm:"foreignKey:IDVenta"`
}

func (Venta) TableName() string { return "ventas" }

// DetalleVenta is one sale line. PrecioUnitario is the product price at sale time.
type DetalleVenta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IDVenta        uuid.UUID       `gorm:"column:id_venta;type:uuid;not null;index"`
	IDProducto     uuid.UUID       `gorm:"column:id_producto;type:uuid;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IDRaiz         uuid.UUID       `gorm:"column:id_raiz;type:uuid;not null"`
	IDSucursal     uuid.UUID       `gorm:"column:id_sucursal;type:uuid;not null"`

	Producto *Producto `gorm:"foreignKey:IDProducto"`
}

func (DetalleVenta) TableName() string { return "detalles_venta" }
