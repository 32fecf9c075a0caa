package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/CzarAl/domus-backend/internal/apierror"
	"github.com/CzarAl/domus-backend/internal/scope"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

type resolverStub struct {
	sc  scope.Contexto
	err error
}

func (r resolverStub) Resolver(context.Context, string) (scope.Contexto, error) { return r.sc, r.err }

func perform(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	sc := scope.Contexto{IDUsuario: uuid.New(), IDRaiz: uuid.New(), Nivel: scope.NivelUsuario}

	r := gin.New()
	r.GET("/ok", JWTAuth(resolverStub{sc: sc}), func(c *gin.Context) {
		got, ok := GetContexto(c)
		require.True(t, ok)
		fromReq, ok := scope.FromContext(c.Request.Context())
		require.True(t, ok)
		assert.Equal(t, got, fromReq)
		c.String(http.StatusOK, got.IDRaiz.String())
	})
	r.GET("/expirado", JWTAuth(resolverStub{err: apierror.ErrTokenExpirado}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := perform(r, http.MethodGet, "/ok", "abc")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, sc.IDRaiz.String(), w.Body.String())

	w = perform(r, http.MethodGet, "/ok", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(r, http.MethodGet, "/expirado", "abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body apierror.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apierror.ErrTokenExpirado.Code, body.Code)
}

func TestRequireNivel(t *testing.T) {
	vendedor := scope.Contexto{IDRaiz: uuid.New(), Nivel: scope.NivelVendedor}
	admin := scope.Contexto{IDRaiz: uuid.New(), Nivel: scope.NivelAdminMaster}
	handler := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	r := gin.New()
	r.GET("/v", JWTAuth(resolverStub{sc: vendedor}), RequireNivel(scope.NivelAdminMaster), handler)
	r.GET("/a", JWTAuth(resolverStub{sc: admin}), RequireNivel(scope.NivelAdminMaster), handler)

	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodGet, "/v", "t").Code)
	assert.Equal(t, http.StatusNoContent, perform(r, http.MethodGet, "/a", "t").Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute, "Demasiados intentos")
	ahora := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return ahora }

	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, http.MethodPost, "/login", "").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodPost, "/login", "").Code)
	w := perform(r, http.MethodPost, "/login", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	ahora = ahora.Add(2 * time.Minute)
	assert.Equal(t, 1, rl.Purge())
	assert.Equal(t, http.StatusOK, perform(r, http.MethodPost, "/login", "").Code)
}

func TestRequestIDYRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Logger(), Recovery())
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	assert.NotContains(t, w.Body.String(), "boom")

	w = perform(r, http.MethodGet, "/panic", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/x", func(c *gin.Context) { _ = c.Error(apierror.ErrCajaYaAbierta) })
	r.GET("/y", func(c *gin.Context) { _ = c.Error(apierror.Persistencia("abrir", assert.AnError)) })

	assert.Equal(t, http.StatusConflict, perform(r, http.MethodGet, "/x", "").Code)
	w := perform(r, http.MethodGet, "/y", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}
