package service

import (
	"context"
	"errors"
	"time"

	"github.com/CzarAl/domus-backend/internal/apierror"
	"github.com/CzarAl/domus-backend/internal/config"
	"github.com/CzarAl/domus-backend/internal/dto"
	"github.com/CzarAl/domus-backend/internal/infra"
	"github.com/CzarAl/domus-backend/internal/model"
	"github.com/CzarAl/domus-backend/internal/repository"
	"github.com/CzarAl/domus-backend/internal/scope"
)

// TokenIssuer is satisfied by *infra.TokenService.
type TokenIssuer interface {
	TokenVerifier
	Emitir(claims infra.Claims, ttl time.Duration) (string, error)
}

// PasswordHasher is satisfied by *infra.BcryptHasher.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verificar(plain, digest string) bool
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
}

type authService struct {
	repo   repository.UsuarioRepository
	tokens TokenIssuer
	hasher PasswordHasher
	cfg    *config.Config
	now    Clock
}

func NewAuthService(repo repository.UsuarioRepository, tokens TokenIssuer, hasher PasswordHasher, cfg *config.Config) AuthService {
	return &authService{repo: repo, tokens: tokens, hasher: hasher, cfg: cfg, now: systemClock}
}

// ── Login ─────────────────────────────────────────────────────────────────────
// After LoginMaxAttempts consecutive failures the account is locked for
// LoginLockMinutes. A locked account is rejected even with the right password.

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByCorreo(ctx, req.Correo)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apierror.ErrCredenciales
	}
	if err != nil {
		return nil, apierror.Persistencia("buscar el usuario", err)
	}
	if !user.Activo {
		return nil, apierror.ErrCredenciales
	}

	now := s.now()
	if user.BloqueadoHasta != nil && now.Before(*user.BloqueadoHasta) {
		return nil, apierror.ErrUsuarioBloqueado
	}

	if !s.hasher.Verificar(req.Contrasena, user.Contrasena) {
		intentos := user.IntentosFallidos + 1
		var hasta *time.Time
		if intentos >= s.cfg.LoginMaxAttempts {
			t := now.Add(s.cfg.LoginLock())
			hasta = &t
			intentos = 0
		}
		if err := s.repo.UpdateIntentos(ctx, user.ID, intentos, hasta); err != nil {
			return nil, apierror.Persistencia("registrar el intento", err)
		}
		if hasta != nil {
			return nil, apierror.ErrUsuarioBloqueado
		}
		return nil, apierror.ErrCredenciales
	}

	if user.IntentosFallidos != 0 || user.BloqueadoHasta != nil {
		if err := s.repo.UpdateIntentos(ctx, user.ID, 0, nil); err != nil {
			return nil, apierror.Persistencia("registrar el intento", err)
		}
	}

	if err := s.verificarSuscripcion(ctx, user, now); err != nil {
		return nil, err
	}
	return s.emitir(user)
}

func (s *authService) verificarSuscripcion(ctx context.Context, user *model.Usuario, now time.Time) error {
	if nivel, _ := scope.ParseNivel(user.Nivel); nivel != scope.NivelUsuario {
		return nil
	}
	sub, err := s.repo.FindSuscripcion(ctx, user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return apierror.ErrSuscripcionInactiva.WithMessage("Suscripción pendiente de pago")
	}
	if err != nil {
		return apierror.Persistencia("verificar la suscripción", err)
	}
	if sub.Estado != "activa" {
		return apierror.ErrSuscripcionInactiva.WithMessage("Suscripción no activa")
	}
	if sub.FechaVencimiento != nil && now.After(*sub.FechaVencimiento) {
		return apierror.ErrSuscripcionInactiva.WithMessage("Suscripción vencida")
	}
	return nil
}

// ── Refresh ───────────────────────────────────────────────────────────────────

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims, err := s.tokens.Verificar(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Tipo != infra.TokenRefresco {
		return nil, apierror.ErrTokenInvalido
	}
	sc, err := contextoDesdeClaims(claims)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, sc.IDUsuario)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apierror.ErrUsuarioNoEncontrado
	}
	if err != nil {
		return nil, apierror.Persistencia("cargar el usuario", err)
	}
	if !user.Activo {
		return nil, apierror.ErrUsuarioNoEncontrado
	}
	if err := s.verificarSuscripcion(ctx, user, s.now()); err != nil {
		return nil, err
	}
	return s.emitir(user)
}

func (s *authService) emitir(user *model.Usuario) (*dto.LoginResponse, error) {
	claims := infra.Claims{
		IDUsuario:  user.ID.String(),
		IDRaiz:     user.IDRaiz.String(),
		Nivel:      user.Nivel,
		IDSucursal: uuidPtrString(user.IDSucursal),
	}
	if user.Nivel == scope.NivelAdminMaster.String() {
		claims.IDRaiz = user.ID.String()
	}

	access := claims
	access.Tipo = infra.TokenAcceso
	accessToken, err := s.tokens.Emitir(access, s.cfg.AccessTTL())
	if err != nil {
		return nil, err
	}
	refresh := claims
	refresh.Tipo = infra.TokenRefresco
	refreshToken, err := s.tokens.Emitir(refresh, s.cfg.RefreshTTL())
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		Usuario: dto.UsuarioResponse{
			ID:         user.ID.String(),
			Correo:     user.Correo,
			Nombre:     user.Nombre,
			Nivel:      user.Nivel,
			IDRaiz:     claims.IDRaiz,
			IDSucursal: claims.IDSucursal,
		},
	}, nil
}
