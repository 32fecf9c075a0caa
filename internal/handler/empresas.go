package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/CzarAl/domus-backend/internal/dto"
	"github.com/CzarAl/domus-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EmpresasHandler serves the tenant-owner billing endpoints and the SaaS
// administration panel.
type EmpresasHandler struct{ svc service.EmpresaService }

func NewEmpresasHandler(svc service.EmpresaService) *EmpresasHandler {
	return &EmpresasHandler{svc: svc}
}

// ── Owner side ────────────────────────────────────────────────────────────────

// Deuda godoc
// @Summary Cuentas vencidas de la empresa del usuario
// @Tags pagos
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DeudaResponse
// @Router /v1/pagos/deuda [get]
func (h *EmpresasHandler) Deuda(c *gin.Context) {
	sc, ok := contexto(c)
	if !ok {
		return
	}
	resp, err := h.svc.Deuda(c.Request.Context(), sc)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SolicitarCancelacion godoc
// @Summary Solicita la cancelacion de la empresa
// @Tags empresas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MensajeResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/empresas/solicitar-cancelacion [post]
func (h *EmpresasHandler) SolicitarCancelacion(c *gin.Context) {
	sc, ok := contexto(c)
	if !ok {
		return
	}
	if err := h.svc.SolicitarCancelacion(c.Request.Context(), sc); err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MensajeResponse{Mensaje: "Cancelación solicitada"})
}

// CrearAjuste godoc
// @Summary Cargo prorrateado por recursos adicionales
// @Tags ajustes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AjusteRequest true "Recurso adicional"
// @Success 201 {object} dto.AjusteResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/ajustes [post]
func (h *EmpresasHandler) CrearAjuste(c *gin.Context) {
	sc, ok := contexto(c)
	if !ok {
		return
	}
	var req dto.AjusteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearAjuste(c.Request.Context(), sc, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ── SaaS admin side ───────────────────────────────────────────────────────────

// ListEmpresas godoc
// @Summary Lista todas las empresas
// @Tags admin-saas
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.EmpresaResponse
// @Router /v1/admin-saas/empresas [get]
func (h *EmpresasHandler) ListEmpresas(c *gin.Context) {
	resp, err := h.svc.ListEmpresas(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListCuentas godoc
// @Summary Lista cuentas matriz
// @Tags admin-saas
// @Produce json
// @Security BearerAuth
// @Param id_empresa query string false "Empresa"
// @Param estado query string false "activa | vencida | pagada"
// @Success 200 {array} dto.CuentaMatrizResponse
// @Router /v1/admin-saas/cuentas-matriz [get]
func (h *EmpresasHandler) ListCuentas(c *gin.Context) {
	var filter dto.CuentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListCuentas(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CuentasVencidas godoc
// @Summary Lista las cuentas vencidas de todas las empresas
// @Tags admin-saas
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.CuentaMatrizResponse
// @Router /v1/admin-saas/cuentas-vencidas [get]
func (h *EmpresasHandler) CuentasVencidas(c *gin.Context) {
	resp, err := h.svc.ListCuentas(c.Request.Context(), dto.CuentaFilter{Estado: "vencida"})
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Suspender godoc
// @Summary Suspende una empresa
// @Tags admin-saas
// @Security BearerAuth
// @Param id path string true "ID de empresa"
// @Success 200 {object} dto.MensajeResponse
// @Router /v1/admin-saas/empresas/{id}/suspender [post]
func (h *EmpresasHandler) Suspender(c *gin.Context) {
	h.accion(c, "Empresa suspendida", h.svc.Suspender)
}

// Reactivar godoc
// @Summary Reactiva una empresa sin deuda
// @Tags admin-saas
// @Security BearerAuth
// @Param id path string true "ID de empresa"
// @Success 200 {object} dto.MensajeResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/admin-saas/empresas/{id}/reactivar [post]
func (h *EmpresasHandler) Reactivar(c *gin.Context) {
	h.accion(c, "Empresa reactivada", h.svc.Reactivar)
}

// AprobarCancelacion godoc
// @Summary Aprueba la cancelacion de una empresa sin deuda
// @Tags admin-saas
// @Security BearerAuth
// @Param id path string true "ID de empresa"
// @Success 200 {object} dto.MensajeResponse
// @Router /v1/admin-saas/empresas/{id}/aprobar-cancelacion [post]
func (h *EmpresasHandler) AprobarCancelacion(c *gin.Context) {
	h.accion(c, "Cancelación aprobada", h.svc.AprobarCancelacion)
}

// MarcarPagado godoc
// @Summary Marca como pagadas las cuentas vencidas y reactiva la empresa
// @Tags admin-saas
// @Security BearerAuth
// @Param id path string true "ID de empresa"
// @Success 200 {object} dto.MensajeResponse
// @Router /v1/admin-saas/empresas/{id}/marcar-pagado [post]
func (h *EmpresasHandler) MarcarPagado(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	n, err := h.svc.MarcarPagado(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MensajeResponse{Mensaje: fmt.Sprintf("%d cuentas marcadas como pagadas", n)})
}

// EliminarDefinitivo godoc
// @Summary Elimina una empresa y todos sus datos, guardando un respaldo JSON
// @Tags admin-saas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de empresa"
// @Param descargar query bool false "Devolver el respaldo como archivo"
// @Success 200 {object} dto.MensajeResponse
// @Router /v1/admin-saas/empresas/{id}/eliminar-definitivo [delete]
func (h *EmpresasHandler) EliminarDefinitivo(c *gin.Context) {
	sc, ok := contexto(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	datos, err := h.svc.EliminarDefinitivo(c.Request.Context(), sc, id)
	if err != nil {
		responderError(c, err)
		return
	}
	if c.Query("descargar") == "true" {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="empresa_%s_backup.json"`, id))
		c.Data(http.StatusOK, "application/json", datos)
		return
	}
	c.JSON(http.StatusOK, dto.MensajeResponse{Mensaje: "Empresa eliminada; respaldo guardado"})
}

func (h *EmpresasHandler) accion(c *gin.Context, mensaje string, fn func(ctx context.Context, id uuid.UUID) error) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), id); err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MensajeResponse{Mensaje: mensaje})
}
