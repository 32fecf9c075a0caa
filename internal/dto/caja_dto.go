package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	// IDSucursal is mandatory for admins and owners, optional for sellers.
	IDSucursal   *string         `json:"id_sucursal"   validate:"omitempty,uuid"`
	MontoInicial decimal.Decimal `json:"monto_inicial" validate:"min=0"`
}

type CerrarCajaRequest struct {
	// MontoDeclarado is the counted cash; when omitted no deviation is recorded.
	MontoDeclarado *decimal.Decimal `json:"monto_declarado"`
	Observaciones  *string          `json:"observaciones"   validate:"omitempty,max=500"`
}

type MovimientoManualRequest struct {
	IDSesion string          `json:"id_sesion" validate:"required,uuid"`
	Tipo     string          `json:"tipo"      validate:"required,oneof=ingreso egreso"`
	Monto    decimal.Decimal `json:"monto"     validate:"required,gt=0"`
	Concepto string          `json:"concepto"  validate:"required,min=3,max=200"`
}

// SesionFilter is bound from the query string of GET /v1/caja/sesiones.
type SesionFilter struct {
	Estado string `form:"estado,default=all" validate:"oneof=abierta cerrada all"`
	Page   int    `form:"page,default=1"     validate:"min=1"`
	Limit  int    `form:"limit,default=50"   validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DesvioResponse struct {
	Monto         decimal.Decimal `json:"monto"`
	Porcentaje    decimal.Decimal `json:"porcentaje"`
	Clasificacion string          `json:"clasificacion"` // normal | advertencia | critico
}

type SesionCajaResponse struct {
	ID             string           `json:"id"`
	IDSucursal     string           `json:"id_sucursal"`
	IDUsuario      string           `json:"id_usuario"`
	MontoInicial   decimal.Decimal  `json:"monto_inicial"`
	MontoCierre    *decimal.Decimal `json:"monto_cierre"`
	MontoDeclarado *decimal.Decimal `json:"monto_declarado"`
	Desvio         *DesvioResponse  `json:"desvio"`
	Abierta        bool             `json:"abierta"`
	FechaApertura  string           `json:"fecha_apertura"`
	FechaCierre    *string          `json:"fecha_cierre"`
}

type SesionListResponse struct {
	Data  []SesionCajaResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

type MovimientoResponse struct {
	ID       string          `json:"id"`
	Tipo     string          `json:"tipo"`
	Concepto string          `json:"concepto"`
	Monto    decimal.Decimal `json:"monto"`
	IDVenta  *string         `json:"id_venta"`
	Fecha    string          `json:"fecha"`
}

type ReporteCajaResponse struct {
	Sesion      SesionCajaResponse   `json:"sesion"`
	Ingresos    decimal.Decimal      `json:"ingresos"`
	Egresos     decimal.Decimal      `json:"egresos"`
	Saldo       decimal.Decimal      `json:"saldo"` // monto_inicial + ingresos + egresos
	Movimientos []MovimientoResponse `json:"movimientos"`
}
