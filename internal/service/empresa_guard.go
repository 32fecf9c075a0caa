package service

import (
	"context"
	"errors"
	"time"

	"github.com/CzarAl/domus-backend/internal/apierror"
	"github.com/CzarAl/domus-backend/internal/model"
	"github.com/CzarAl/domus-backend/internal/repository"
	"github.com/CzarAl/domus-backend/internal/scope"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EmpresaGuard blocks mutations for tenants that are not active or owe money.
type EmpresaGuard interface {
	EnsureActiva(ctx context.Context, sc scope.Contexto) error
	// Invalidar drops any cached verdict for the tenant.
	Invalidar(ctx context.Context, idEmpresa uuid.UUID)
}

type empresaGuard struct {
	repo  repository.EmpresaRepository
	cache EstadoCache
}

// NewEmpresaGuard builds the guard; cache may be nil.
func NewEmpresaGuard(repo repository.EmpresaRepository, cache EstadoCache) EmpresaGuard {
	return &empresaGuard{repo: repo, cache: cache}
}

func (g *empresaGuard) EnsureActiva(ctx context.Context, sc scope.Contexto) error {
	if sc.Nivel == scope.NivelAdminMaster {
		return nil
	}
	if g.cache != nil && g.cache.Activa(ctx, sc.IDRaiz) {
		return nil
	}

	empresa, err := g.repo.FindByID(ctx, sc.IDRaiz)
	if err != nil {
		return notFoundOr(err, apierror.ErrEmpresaNoEncontrada, "verificar la empresa")
	}
	if empresa.Estado != model.EmpresaActiva {
		return apierror.ErrEmpresaSuspendida
	}

	vencidas, err := g.repo.ContarCuentasVencidas(ctx, sc.IDRaiz)
	if err != nil {
		return apierror.Persistencia("verificar la deuda", err)
	}
	if vencidas > 0 {
		return apierror.ErrEmpresaConDeuda
	}

	if g.cache != nil {
		g.cache.MarcarActiva(ctx, sc.IDRaiz)
	}
	return nil
}

func (g *empresaGuard) Invalidar(ctx context.Context, idEmpresa uuid.UUID) {
	if g.cache != nil {
		g.cache.Invalidar(ctx, idEmpresa)
	}
}

// ── Cache ─────────────────────────────────────────────────────────────────────

// EstadoCache remembers tenants recently verified as active. Only positive
// verdicts are cached, so a failure never outlives the database state.
type EstadoCache interface {
	Activa(ctx context.Context, id uuid.UUID) bool
	MarcarActiva(ctx context.Context, id uuid.UUID)
	Invalidar(ctx context.Context, id uuid.UUID)
}

const estadoCachePrefix = "empresa:activa:"

type redisEstadoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisEstadoCache returns nil when ttl is not positive, which disables caching.
func NewRedisEstadoCache(rdb *redis.Client, ttl time.Duration) EstadoCache {
	if rdb == nil || ttl <= 0 {
		return nil
	}
	return &redisEstadoCache{rdb: rdb, ttl: ttl}
}

func (c *redisEstadoCache) Activa(ctx context.Context, id uuid.UUID) bool {
	err := c.rdb.Get(ctx, estadoCachePrefix+id.String()).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Msg("empresa_guard: cache read")
	}
	return err == nil
}

func (c *redisEstadoCache) MarcarActiva(ctx context.Context, id uuid.UUID) {
	if err := c.rdb.Set(ctx, estadoCachePrefix+id.String(), "1", c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("empresa_guard: cache write")
	}
}

func (c *redisEstadoCache) Invalidar(ctx context.Context, id uuid.UUID) {
	if err := c.rdb.Del(ctx, estadoCachePrefix+id.String()).Err(); err != nil {
		log.Warn().Err(err).Msg("empresa_guard: cache invalidate")
	}
}
