package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from the query string of GET /v1/ventas.
type VentaFilter struct {
	Fecha      string `form:"fecha"       validate:"omitempty,datetime=2006-01-02"`
	IDSucursal string `form:"id_sucursal" validate:"omitempty,uuid"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	IDProducto string `json:"id_producto" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1,max=100000"`
}

type CrearVentaRequest struct {
	IDCliente  string             `json:"id_cliente"  validate:"required,uuid"`
	IDSucursal *string            `json:"id_sucursal" validate:"omitempty,uuid"`
	MetodoPago string             `json:"metodo_pago" validate:"required,oneof=efectivo tarjeta transferencia"`
	Productos  []ItemVentaRequest `json:"productos"   validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	IDProducto     string          `json:"id_producto"`
	Nombre         string          `json:"nombre"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID         string              `json:"id"`
	Folio      string              `json:"folio"`
	IDCliente  string              `json:"id_cliente"`
	IDSucursal string              `json:"id_sucursal"`
	IDSesion   string              `json:"id_sesion"`
	Total      decimal.Decimal     `json:"total"`
	MetodoPago string              `json:"metodo_pago"`
	Productos  []ItemVentaResponse `json:"productos"`
	Fecha      string              `json:"fecha"`
}
