package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxRepos is the set of repositories bound to a single unit of work.
type TxRepos interface {
	Caja() CajaRepository
	Productos() ProductoRepository
	Ventas() VentaRepository
	Auditoria() AuditoriaRepository
}

// TxScope runs a group of writes as one unit. When Atomic reports false the
// caller is responsible for undoing partial work on failure.
type TxScope interface {
	Execute(ctx context.Context, fn func(repos TxRepos) error) error
	Atomic() bool
}

type gormTxScope struct{ db *gorm.DB }

// NewTxScope returns a TxScope backed by database transactions.
func NewTxScope(db *gorm.DB) TxScope { return &gormTxScope{db: db} }

func (s *gormTxScope) Atomic() bool { return true }

func (s *gormTxScope) Execute(ctx context.Context, fn func(repos TxRepos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(gormTxRepos{tx: tx})
	})
}

type gormTxRepos struct{ tx *gorm.DB }

func (r gormTxRepos) Caja() CajaRepository           { return NewCajaRepository(r.tx) }
func (r gormTxRepos) Productos() ProductoRepository  { return NewProductoRepository(r.tx) }
func (r gormTxRepos) Ventas() VentaRepository        { return NewVentaRepository(r.tx) }
func (r gormTxRepos) Auditoria() AuditoriaRepository { return NewAuditoriaRepository(r.tx) }
