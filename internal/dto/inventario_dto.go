package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	IDSucursal       *string         `json:"id_sucursal"       validate:"omitempty,uuid"`
	Nombre           string          `json:"nombre"            validate:"required,min=1,max=200"`
	Descripcion      *string         `json:"descripcion"       validate:"omitempty,max=1000"`
	FotoURL          *string         `json:"foto_url"          validate:"omitempty,url"`
	CostoCompra      decimal.Decimal `json:"costo_compra"      validate:"min=0"`
	PrecioVenta      decimal.Decimal `json:"precio_venta"      validate:"required,gt=0"`
	Stock            int             `json:"stock"             validate:"min=0"`
	NumeroSerie      *string         `json:"numero_serie"      validate:"omitempty,max=100"`
	FechaAdquisicion *string         `json:"fecha_adquisicion" validate:"omitempty,datetime=2006-01-02"`
}

// ActualizarProductoRequest is a partial update; nil fields are left untouched.
type ActualizarProductoRequest struct {
	Nombre      *string          `json:"nombre"       validate:"omitempty,min=1,max=200"`
	Descripcion *string          `json:"descripcion"  validate:"omitempty,max=1000"`
	FotoURL     *string          `json:"foto_url"     validate:"omitempty,url"`
	CostoCompra *decimal.Decimal `json:"costo_compra"`
	PrecioVenta *decimal.Decimal `json:"precio_venta"`
	Stock       *int             `json:"stock"        validate:"omitempty,min=0"`
	NumeroSerie *string          `json:"numero_serie" validate:"omitempty,max=100"`
}

// ProductoFilter is bound from the query string of GET /v1/inventario.
type ProductoFilter struct {
	Nombre     string `form:"nombre"`
	IDSucursal string `form:"id_sucursal" validate:"omitempty,uuid"`
	Page       int    `form:"page,default=1"    validate:"min=1"`
	Limit      int    `form:"limit,default=100" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID               string          `json:"id"`
	IDSucursal       string          `json:"id_sucursal"`
	Nombre           string          `json:"nombre"`
	Descripcion      *string         `json:"descripcion"`
	FotoURL          *string         `json:"foto_url"`
	CostoCompra      decimal.Decimal `json:"costo_compra"`
	PrecioVenta      decimal.Decimal `json:"precio_venta"`
	Stock            int             `json:"stock"`
	NumeroSerie      *string         `json:"numero_serie"`
	FechaAdquisicion *string         `json:"fecha_adquisicion"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
