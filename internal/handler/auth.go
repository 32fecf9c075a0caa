package handler

import (
	"net/http"

	"github.com/CzarAl/domus-backend/internal/dto"
	"github.com/CzarAl/domus-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Login de usuario
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Failure 403 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary Renueva el par de tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Perfil godoc
// @Summary Devuelve la identidad del token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.PerfilResponse
// @Router /v1/perfil [get]
func (h *AuthHandler) Perfil(c *gin.Context) {
	sc, ok := contexto(c)
	if !ok {
		return
	}
	resp := dto.PerfilResponse{
		IDUsuario: sc.IDUsuario.String(),
		IDRaiz:    sc.IDRaiz.String(),
		Nivel:     sc.Nivel.String(),
	}
	if sc.IDSucursal != nil {
		s := sc.IDSucursal.String()
		resp.IDSucursal = &s
	}
	c.JSON(http.StatusOK, resp)
}
