package middleware

import (
	"context"
	"strings"

	"github.com/CzarAl/domus-backend/internal/apierror"
	"github.com/CzarAl/domus-backend/internal/scope"

	"github.com/gin-gonic/gin"
)

const ContextoKey = "contexto"

// Resolver turns a bearer token into the caller's tenant context.
// Satisfied by service.IdentidadService.
type Resolver interface {
	Resolver(ctx context.Context, token string) (scope.Contexto, error)
}

// JWTAuth resolves the Bearer token on every protected route and stores the
// resulting scope.Contexto in both the gin context and the request context.
func JWTAuth(res Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abort(c, apierror.ErrTokenInvalido.WithMessage("Autenticacion requerida"))
			return
		}

		sc, err := res.Resolver(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			abort(c, err)
			return
		}

		c.Set(ContextoKey, sc)
		c.Request = c.Request.WithContext(scope.WithContexto(c.Request.Context(), sc))
		c.Next()
	}
}

// RequireNivel rejects callers whose level is not in the allowed list.
func RequireNivel(niveles ...scope.Nivel) gin.HandlerFunc {
	allowed := make(map[scope.Nivel]bool, len(niveles))
	for _, n := range niveles {
		allowed[n] = true
	}
	return func(c *gin.Context) {
		sc, ok := GetContexto(c)
		if !ok || !allowed[sc.Nivel] {
			abort(c, apierror.ErrPermisosInsuficiente)
			return
		}
		c.Next()
	}
}

// GetContexto returns the caller context set by JWTAuth.
func GetContexto(c *gin.Context) (scope.Contexto, bool) {
	v, ok := c.Get(ContextoKey)
	if !ok {
		return scope.Contexto{}, false
	}
	sc, ok := v.(scope.Contexto)
	return sc, ok
}

func abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apierror.HTTPStatus(err), apierror.Envelope(err))
}
