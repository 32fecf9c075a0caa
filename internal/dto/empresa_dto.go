package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AjusteRequest asks for a prorated charge for extra resources in the
// current billing period.
type AjusteRequest struct {
	Recurso       string          `json:"recurso"        validate:"required,oneof=sucursal vendedor"`
	Cantidad      int             `json:"cantidad"       validate:"required,min=1"`
	CostoUnitario decimal.Decimal `json:"costo_unitario" validate:"required,gt=0"`
}

// CuentaFilter is bound from the query string of GET /v1/admin-saas/cuentas-matriz.
type CuentaFilter struct {
	IDEmpresa string `form:"id_empresa" validate:"omitempty,uuid"`
	Estado    string `form:"estado"     validate:"omitempty,oneof=activa vencida pagada"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EmpresaResponse struct {
	ID                   string `json:"id"`
	Nombre               string `json:"nombre"`
	Estado               string `json:"estado"`
	CancelacionPendiente bool   `json:"cancelacion_pendiente"`
	FechaCreacion        string `json:"fecha_creacion"`
}

type CuentaMatrizResponse struct {
	ID               string          `json:"id"`
	IDEmpresa        string          `json:"id_empresa_matriz"`
	PeriodoInicio    string          `json:"periodo_inicio"`
	PeriodoFin       string          `json:"periodo_fin"`
	MontoTotal       decimal.Decimal `json:"monto_total"`
	Estado           string          `json:"estado"`
	Tipo             string          `json:"tipo"`
	FechaVencimiento string          `json:"fecha_vencimiento"`
	FechaPago        *string         `json:"fecha_pago"`
}

type AjusteResponse struct {
	Cuenta         CuentaMatrizResponse `json:"cuenta"`
	DiasRestantes  int                  `json:"dias_restantes"`
	DiasPeriodo    int                  `json:"dias_periodo"`
	MontoProrrateo decimal.Decimal      `json:"monto_prorrateo"`
}

type DeudaResponse struct {
	Cuentas []CuentaMatrizResponse `json:"cuentas"`
	Total   decimal.Decimal        `json:"total"`
}

type MensajeResponse struct {
	Mensaje string `json:"mensaje"`
}
