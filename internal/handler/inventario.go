package handler

import (
	"net/http"
	"strconv"

	"github.com/CzarAl/domus-backend/internal/dto"
	"github.com/CzarAl/domus-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// Crear godoc
// @Summary Crea un producto en una sucursal
// @Tags inventario
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearProductoRequest true "Producto"
// @Success 201 {object} dto.ProductoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/inventario [post]
func (h *InventarioHandler) Crear(c *gin.Context) {
	sc, ok := contexto(c)
	if !ok {
		return
	}
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), sc, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista productos
// @Tags inventario
// @Produce json
// @Security BearerAuth
// @Param nombre query string false "Filtro por nombre"
// @Param id_sucursal query string false "Sucursal"
// @Success 200 {object} dto.ProductoListResponse
// @Router /v1/inventario [get]
func (h *InventarioHandler) Listar(c *gin.Context) {
	sc, ok := contexto(c)
	if !ok {
		return
	}
	var filter dto.ProductoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), sc, filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Obtiene un producto
// @Tags inventario
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de producto"
// @Success 200 {object} dto.ProductoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/inventario/{id} [get]
func (h *InventarioHandler) Obtener(c *gin.Context) {
	sc, ok := contexto(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), sc, id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary Actualiza parcialmente un producto
// @Tags inventario
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de producto"
// @Param body body dto.ActualizarProductoRequest true "Campos a modificar"
// @Success 200 {object} dto.ProductoResponse
// @Router /v1/inventario/{id} [put]
func (h *InventarioHandler) Actualizar(c *gin.Context) {
	sc, ok := contexto(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), sc, id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Elimina un producto
// @Tags inventario
// @Security BearerAuth
// @Param id path string true "ID de producto"
// @Success 204
// @Router /v1/inventario/{id} [delete]
func (h *InventarioHandler) Eliminar(c *gin.Context) {
	sc, ok := contexto(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), sc, id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BajoStock godoc
// @Summary Productos con stock bajo
// @Tags inventario
// @Produce json
// @Security BearerAuth
// @Param limite query int false "Umbral (default 5)"
// @Success 200 {array} dto.ProductoResponse
// @Router /v1/inventario/bajo-stock [get]
func (h *InventarioHandler) BajoStock(c *gin.Context) {
	sc, ok := contexto(c)
	if !ok {
		return
	}
	limite, _ := strconv.Atoi(c.Query("limite"))
	resp, err := h.svc.BajoStock(c.Request.Context(), sc, limite)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
