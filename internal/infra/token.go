package infra

import (
	"errors"
	"time"

	"github.com/CzarAl/domus-backend/internal/apierror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token kinds carried in the "typ" claim.
const (
	TokenAcceso   = "access"
	TokenRefresco = "refresh"
)

// Claims are the custom claims embedded in every token.
type Claims struct {
	IDUsuario  string  `json:"id_usuario"`
	IDRaiz     string  `json:"id_raiz"`
	Nivel      string  `json:"nivel"`
	IDSucursal *string `json:"id_sucursal,omitempty"`
	Tipo       string  `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 tokens.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// Emitir signs claims with the given lifetime.
func (s *TokenService) Emitir(claims Claims, ttl time.Duration) (string, error) {
	now := s.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.IDUsuario,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verificar checks signature, algorithm and expiry. It returns
// apierror.ErrTokenExpirado or apierror.ErrTokenInvalido on failure.
func (s *TokenService) Verificar(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, apierror.ErrTokenExpirado
	case err != nil || !parsed.Valid:
		return nil, apierror.ErrTokenInvalido.Wrap(err)
	}
	return claims, nil
}
