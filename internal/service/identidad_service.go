package service

import (
	"context"
	"errors"

	"github.com/CzarAl/domus-backend/internal/apierror"
	"github.com/CzarAl/domus-backend/internal/infra"
	"github.com/CzarAl/domus-backend/internal/repository"
	"github.com/CzarAl/domus-backend/internal/scope"

	"github.com/google/uuid"
)

// TokenVerifier is satisfied by *infra.TokenService.
type TokenVerifier interface {
	Verificar(token string) (*infra.Claims, error)
}

// IdentidadService turns a bearer token into the caller's tenant context.
type IdentidadService interface {
	Resolver(ctx context.Context, token string) (scope.Contexto, error)
}

type identidadService struct {
	tokens    TokenVerifier
	usuarios  repository.UsuarioRepository
	refrescar bool
}

// NewIdentidadService builds the resolver. With refrescar set, level and
// branch are reloaded from the persisted user on every request.
func NewIdentidadService(tokens TokenVerifier, usuarios repository.UsuarioRepository, refrescar bool) IdentidadService {
	return &identidadService{tokens: tokens, usuarios: usuarios, refrescar: refrescar}
}

func (s *identidadService) Resolver(ctx context.Context, token string) (scope.Contexto, error) {
	claims, err := s.tokens.Verificar(token)
	if err != nil {
		return scope.Contexto{}, err
	}
	if claims.Tipo != infra.TokenAcceso {
		return scope.Contexto{}, apierror.ErrTokenInvalido
	}

	sc, err := contextoDesdeClaims(claims)
	if err != nil {
		return scope.Contexto{}, err
	}
	if !s.refrescar {
		return sc, nil
	}

	u, err := s.usuarios.FindByID(ctx, sc.IDUsuario)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return scope.Contexto{}, apierror.ErrUsuarioNoEncontrado
	case err != nil:
		return scope.Contexto{}, apierror.Persistencia("cargar el usuario", err)
	case !u.Activo:
		return scope.Contexto{}, apierror.ErrUsuarioNoEncontrado
	}

	nivel, ok := scope.ParseNivel(u.Nivel)
	if !ok {
		return scope.Contexto{}, apierror.ErrTokenInvalido
	}
	sc.Nivel = nivel
	sc.IDRaiz = u.IDRaiz
	sc.IDSucursal = u.IDSucursal
	return sc, nil
}

func contextoDesdeClaims(c *infra.Claims) (scope.Contexto, error) {
	idUsuario, err := uuid.Parse(c.IDUsuario)
	if err != nil {
		return scope.Contexto{}, apierror.ErrTokenInvalido
	}
	idRaiz, err := uuid.Parse(c.IDRaiz)
	if err != nil {
		return scope.Contexto{}, apierror.ErrTokenInvalido
	}
	nivel, ok := scope.ParseNivel(c.Nivel)
	if !ok {
		return scope.Contexto{}, apierror.ErrTokenInvalido
	}

	sc := scope.Contexto{IDUsuario: idUsuario, IDRaiz: idRaiz, Nivel: nivel}
	if c.IDSucursal != nil && *c.IDSucursal != "" {
		suc, err := uuid.Parse(*c.IDSucursal)
		if err != nil {
			return scope.Contexto{}, apierror.ErrTokenInvalido
		}
		sc.IDSucursal = &suc
	}
	return sc, nil
}
