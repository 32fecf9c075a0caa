package handler

import (
	"net/http"

	"github.com/CzarAl/domus-backend/internal/dto"
	"github.com/CzarAl/domus-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

// Abrir godoc
// @Summary Abre una nueva sesion de caja
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCajaRequest true "Datos de apertura"
// @Success 201 {object} dto.SesionCajaResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/abrir [post]
func (h *CajaHandler) Abrir(c *gin.Context) {
	sc, ok := contexto(c)
	if !ok {
		return
	}
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), sc, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar godoc
// @Summary Cierra una sesion de caja
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de sesion"
// @Param body body dto.CerrarCajaRequest false "Monto contado"
// @Success 200 {object} dto.SesionCajaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja/cerrar/{id} [post]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	sc, ok := contexto(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.CerrarCajaRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), sc, id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Abiertas godoc
// @Summary Lista las sesiones abiertas visibles para el usuario
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.SesionCajaResponse
// @Router /v1/caja/abierta [get]
func (h *CajaHandler) Abiertas(c *gin.Context) {
	sc, ok := contexto(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListarAbiertas(c.Request.Context(), sc)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Sesiones godoc
// @Summary Historial de sesiones de caja
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param estado query string false "abierta | cerrada | all"
// @Param page query int false "Pagina"
// @Param limit query int false "Tamaño de pagina"
// @Success 200 {object} dto.SesionListResponse
// @Router /v1/caja/sesiones [get]
func (h *CajaHandler) Sesiones(c *gin.Context) {
	sc, ok := contexto(c)
	if !ok {
		return
	}
	var filter dto.SesionFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarSesiones(c.Request.Context(), sc, filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reporte godoc
// @Summary Obtiene el reporte de una sesion de caja
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de sesion"
// @Success 200 {object} dto.ReporteCajaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja/{id}/reporte [get]
func (h *CajaHandler) Reporte(c *gin.Context) {
	sc, ok := contexto(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Reporte(c.Request.Context(), sc, id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movimiento godoc
// @Summary Registra un ingreso o egreso manual
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovimientoManualRequest true "Movimiento"
// @Success 201 {object} dto.MovimientoResponse
// @Router /v1/caja/movimiento [post]
func (h *CajaHandler) Movimiento(c *gin.Context) {
	sc, ok := contexto(c)
	if !ok {
		return
	}
	var req dto.MovimientoManualRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarMovimiento(c.Request.Context(), sc, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
