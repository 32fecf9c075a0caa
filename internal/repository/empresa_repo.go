package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/CzarAl/domus-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CuentaScope filters billing records; zero values mean "any".
type CuentaScope struct {
	IDEmpresa *uuid.UUID
	Estado    string
}

type EmpresaRepository interface {
	Create(ctx context.Context, e *model.Empresa) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Empresa, error)
	List(ctx context.Context) ([]model.Empresa, error)
	UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error
	SolicitarCancelacion(ctx context.Context, id uuid.UUID, fecha time.Time) error

	CreateSucursal(ctx context.Context, s *model.Sucursal) error

	ContarCuentasVencidas(ctx context.Context, id uuid.UUID) (int64, error)
	ListCuentas(ctx context.Context, scope CuentaScope) ([]model.CuentaMatriz, error)
	// FindPeriodoActivo returns the latest active monthly billing record.
	FindPeriodoActivo(ctx context.Context, id uuid.UUID) (*model.CuentaMatriz, error)
	CreateCuenta(ctx context.Context, c *model.CuentaMatriz) error
	// MarcarPagadas settles every overdue record and reactivates the company.
	MarcarPagadas(ctx context.Context, id uuid.UUID, fecha time.Time) (int64, error)
	// MarcarVencidas flips active records past due to overdue and suspends
	// their companies. Returns only the companies that went from active to
	// suspended.
	MarcarVencidas(ctx context.Context, now time.Time) ([]uuid.UUID, error)

	// EliminarConBackup snapshots every row of the tenant into
	// empresas_backup and then deletes them.
	EliminarConBackup(ctx context.Context, id, eliminadoPor uuid.UUID, now time.Time) (*model.EmpresaBackup, error)
}

type empresaRepo struct{ db *gorm.DB }

func NewEmpresaRepository(db *gorm.DB) EmpresaRepository { return &empresaRepo{db: db} }

func (r *empresaRepo) Create(ctx context.Context, e *model.Empresa) error {
	return translate(r.db.WithContext(ctx).Create(e).Error)
}

func (r *empresaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Empresa, error) {
	var e model.Empresa
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (r *empresaRepo) List(ctx context.Context) ([]model.Empresa, error) {
	var empresas []model.Empresa
	err := r.db.WithContext(ctx).Order("fecha_creacion DESC").Find(&empresas).Error
	return empresas, err
}

func (r *empresaRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error {
	res := r.db.WithContext(ctx).Model(&model.Empresa{}).Where("id = ?", id).
		Updates(map[string]any{
			"estado":                estado,
			"cancelacion_pendiente": estado == model.EmpresaCancelacionPendiente,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *empresaRepo) SolicitarCancelacion(ctx context.Context, id uuid.UUID, fecha time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Empresa{}).
		Where("id = ? AND cancelacion_pendiente = false", id).
		Updates(map[string]any{
			"estado":                       model.EmpresaCancelacionPendiente,
			"cancelacion_pendiente":        true,
			"fecha_cancelacion_solicitada": fecha,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoAplicado
	}
	return nil
}

func (r *empresaRepo) CreateSucursal(ctx context.Context, s *model.Sucursal) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *empresaRepo) ContarCuentasVencidas(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.CuentaMatriz{}).
		Where("id_empresa_matriz = ? AND estado = ?", id, model.CuentaVencida).
		Count(&n).Error
	return n, err
}

func (r *empresaRepo) ListCuentas(ctx context.Context, scope CuentaScope) ([]model.CuentaMatriz, error) {
	var cuentas []model.CuentaMatriz
	q := r.db.WithContext(ctx)
	if scope.IDEmpresa != nil {
		q = q.Where("id_empresa_matriz = ?", *scope.IDEmpresa)
	}
	if scope.Estado != "" {
		q = q.Where("estado = ?", scope.Estado)
	}
	err := q.Order("fecha_vencimiento ASC").Find(&cuentas).Error
	return cuentas, err
}

func (r *empresaRepo) FindPeriodoActivo(ctx context.Context, id uuid.UUID) (*model.CuentaMatriz, error) {
	var c model.CuentaMatriz
	err := r.db.WithContext(ctx).
		Where("id_empresa_matriz = ? AND tipo = ? AND estado = ?", id, model.CuentaMensual, model.CuentaActiva).
		Order("fecha_vencimiento DESC").
		First(&c).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *empresaRepo) CreateCuenta(ctx context.Context, c *model.CuentaMatriz) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *empresaRepo) MarcarPagadas(ctx context.Context, id uuid.UUID, fecha time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.CuentaMatriz{}).
			Where("id_empresa_matriz = ? AND estado = ?", id, model.CuentaVencida).
			Updates(map[string]any{"estado": model.CuentaPagada, "fecha_pago": fecha})
		if res.Error != nil {
			return res.Error
		}
		n = res.RowsAffected
		return tx.Model(&model.Empresa{}).Where("id = ?", id).
			Updates(map[string]any{"estado": model.EmpresaActiva, "cancelacion_pendiente": false}).Error
	})
	return n, err
}

func (r *empresaRepo) MarcarVencidas(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	var suspendidas []uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uuid.UUID
		err := tx.Raw(`UPDATE cuentas_matriz SET estado = ?
			WHERE estado = ? AND fecha_vencimiento < ?
			RETURNING id_empresa_matriz`, model.CuentaVencida, model.CuentaActiva, now).
			Scan(&ids).Error
		if err != nil || len(ids) == 0 {
			return err
		}
		// Only tenants that were still active count as suspended here.
		return tx.Raw(`UPDATE empresas SET estado = ?
			WHERE id IN ? AND estado = ?
			RETURNING id`, model.EmpresaSuspendida, dedupe(ids), model.EmpresaActiva).
			Scan(&suspendidas).Error
	})
	return suspendidas, err
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// usuarioBackup omits the password digest from the snapshot.
type usuarioBackup struct {
	ID         uuid.UUID  `json:"id"`
	Correo     string     `json:"correo"`
	Nombre     string     `json:"nombre"`
	Nivel      string     `json:"nivel"`
	IDSucursal *uuid.UUID `json:"id_sucursal" gorm:"column:id_sucursal"`
}

type empresaSnapshot struct {
	Empresa    model.Empresa        `json:"empresa"`
	Sucursales []model.Sucursal     `json:"sucursales"`
	Usuarios   []usuarioBackup      `json:"usuarios"`
	Clientes   []model.Cliente      `json:"clientes"`
	Inventario []model.Producto     `json:"inventario"`
	Ventas     []model.Venta        `json:"ventas"`
	Cuentas    []model.CuentaMatriz `json:"cuentas_matriz"`
}

// tablas owned by id_raiz, in delete order.
var tablasTenant = []string{
	"detalles_venta",
	"movimientos_caja",
	"auditoria_tienda",
	"ventas",
	"sesiones_caja",
	"inventario",
	"clientes",
}

func (r *empresaRepo) EliminarConBackup(ctx context.Context, id, eliminadoPor uuid.UUID, now time.Time) (*model.EmpresaBackup, error) {
	var backup model.EmpresaBackup
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var snap empresaSnapshot
		if err := tx.First(&snap.Empresa, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		steps := []func() error{
			func() error { return tx.Where("id_raiz = ?", id).Find(&snap.Sucursales).Error },
			func() error {
				return tx.Model(&model.Usuario{}).Where("id_raiz = ?", id).Find(&snap.Usuarios).Error
			},
			func() error { return tx.Where("id_raiz = ?", id).Find(&snap.Clientes).Error },
			func() error { return tx.Where("id_raiz = ?", id).Find(&snap.Inventario).Error },
			func() error { return tx.Preload("Detalles").Where("id_raiz = ?", id).Find(&snap.Ventas).Error },
			func() error { return tx.Where("id_empresa_matriz = ?", id).Find(&snap.Cuentas).Error },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}

		datos, err := json.Marshal(snap)
		if err != nil {
			return err
		}
		backup = model.EmpresaBackup{IDEmpresa: id, Datos: datos, EliminadoPor: eliminadoPor, Fecha: now}
		if err := tx.Create(&backup).Error; err != nil {
			return err
		}

		for _, tabla := range tablasTenant {
			if err := tx.Exec("DELETE FROM "+tabla+" WHERE id_raiz = ?", id).Error; err != nil {
				return err
			}
		}
		stmts := []string{
			"DELETE FROM suscripciones WHERE id_usuario IN (SELECT id FROM usuarios WHERE id_raiz = ?)",
			"DELETE FROM usuarios WHERE id_raiz = ?",
			"DELETE FROM sucursales WHERE id_raiz = ?",
			"DELETE FROM cuentas_matriz WHERE id_empresa_matriz = ?",
			"DELETE FROM empresas WHERE id = ?",
		}
		for _, stmt := range stmts {
			if err := tx.Exec(stmt, id).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &backup, nil
}
