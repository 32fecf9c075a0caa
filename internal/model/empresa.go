package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de empresa.
const (
	EmpresaActiva               = "activa"
	EmpresaSuspendida           = "suspendida"
	EmpresaCancelacionPendiente = "cancelacion_pendiente"
)

// Empresa is the tenant. Its ID is the tenant root id (id_raiz).
type Empresa struct {
	ID                         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre                     string    `gorm:"not null"`
	Estado                     string    `gorm:"type:varchar(30);not null;default:'activa'"`
	CancelacionPendiente       bool      `gorm:"not null;default:false"`
	FechaCancelacionSolicitada *time.Time
	FechaCreacion              time.Time `gorm:"not null"`
}

func (Empresa) TableName() string { return "empresas" }

// Sucursal is a branch of a tenant.
type Sucursal struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IDRaiz    uuid.UUID `gorm:"column:id_raiz;type:uuid;not null;index"`
	Nombre    string    `gorm:"not null"`
	Direccion *string
}

func (Sucursal) TableName() string { return "sucursales" }

// Estados de cuenta matriz.
const (
	CuentaActiva  = "activa"
	CuentaVencida = "vencida"
	CuentaPagada  = "pagada"

	CuentaMensual = "mensual"
	CuentaAjuste  = "ajuste"
)

// CuentaMatriz is one billing record of a tenant: either the monthly charge
// or a prorated adjustment ("ajuste").
type CuentaMatriz struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IDEmpresaMatriz  uuid.UUID       `gorm:"column:id_empresa_matriz;type:uuid;not null;index"`
	PeriodoInicio    time.Time       `gorm:"not null"`
	PeriodoFin       time.Time       `gorm:"not null"`
	MontoTotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado           string          `gorm:"type:varchar(20);not null;default:'activa'"`
	Tipo             string          `gorm:"type:varchar(20);not null;default:'mensual'"`
	Recurso          *string         `gorm:"type:varchar(40)"`
	Cantidad         *int
	CostoUnitario    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	FechaVencimiento time.Time        `gorm:"not null;index"`
	FechaPago        *time.Time
}

func (CuentaMatriz) TableName() string { return "cuentas_matriz" }

// Suscripcion gates owner ("usuario") logins.
type Suscripcion struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IDUsuario        uuid.UUID `gorm:"column:id_usuario;type:uuid;not null;index"`
	Estado           string    `gorm:"type:varchar(20);not null"`
	FechaVencimiento *time.Time
}

func (Suscripcion) TableName() string { return "suscripciones" }

// EmpresaBackup keeps a JSON snapshot of a tenant before hard delete.
type EmpresaBackup struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IDEmpresa    uuid.UUID       `gorm:"column:id_empresa;type:uuid;not null;index"`
	Datos        json.RawMessage `gorm:"type:jsonb;not null"`
	EliminadoPor uuid.UUID       `gorm:"type:uuid;not null"`
	Fecha        time.Time       `gorm:"not null"`
}

func (EmpresaBackup) TableName() string { return "empresas_backup" }
