package service

import (
	"context"
	"time"

	"github.com/CzarAl/domus-backend/internal/apierror"
	"github.com/CzarAl/domus-backend/internal/dto"
	"github.com/CzarAl/domus-backend/internal/model"
	"github.com/CzarAl/domus-backend/internal/repository"
	"github.com/CzarAl/domus-backend/internal/scope"

	"github.com/google/uuid"
)

const limiteBajoStockDefault = 5

// InventarioService manages the products of each branch.
type InventarioService interface {
	Crear(ctx context.Context, sc scope.Contexto, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Obtener(ctx context.Context, sc scope.Contexto, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, sc scope.Contexto, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, sc scope.Contexto, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, sc scope.Contexto, id uuid.UUID) error
	// BajoStock lists products with stock <= limite; limite <= 0 uses the default.
	BajoStock(ctx context.Context, sc scope.Contexto, limite int) ([]dto.ProductoResponse, error)
}

type inventarioService struct {
	repo  repository.ProductoRepository
	guard EmpresaGuard
}

func NewInventarioService(repo repository.ProductoRepository, guard EmpresaGuard) InventarioService {
	return &inventarioService{repo: repo, guard: guard}
}

func (s *inventarioService) Crear(ctx context.Context, sc scope.Contexto, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if err := s.guard.EnsureActiva(ctx, sc); err != nil {
		return nil, err
	}
	explicita, err := parseUUIDPtr(req.IDSucursal, "id_sucursal")
	if err != nil {
		return nil, err
	}
	idSucursal, err := scope.ResolverSucursal(sc, explicita)
	if err != nil {
		return nil, err
	}
	if !req.PrecioVenta.IsPositive() {
		return nil, apierror.Validacion("precio_venta debe ser mayor a cero")
	}
	if req.CostoCompra.IsNegative() || req.Stock < 0 {
		return nil, apierror.Validacion("costo_compra y stock no pueden ser negativos")
	}

	p := &model.Producto{
		IDRaiz:      sc.IDRaiz,
		IDSucursal:  idSucursal,
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		FotoURL:     req.FotoURL,
		CostoCompra: req.CostoCompra,
		PrecioVenta: req.PrecioVenta,
		Stock:       req.Stock,
		NumeroSerie: req.NumeroSerie,
	}
	if req.FechaAdquisicion != nil {
		f, err := time.Parse("2006-01-02", *req.FechaAdquisicion)
		if err != nil {
			return nil, apierror.Validacion("fecha_adquisicion inválida")
		}
		p.FechaAdquisicion = &f
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apierror.Persistencia("crear el producto", err)
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *inventarioService) Obtener(ctx context.Context, sc scope.Contexto, id uuid.UUID) (*dto.ProductoResponse, error) {
	q, err := lecturaScope(sc)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, id, q)
	if err != nil {
		return nil, notFoundOr(err, apierror.ErrProductoNoEncontrado, "buscar el producto")
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *inventarioService) Listar(ctx context.Context, sc scope.Contexto, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	q, err := lecturaScope(sc)
	if err != nil {
		return nil, err
	}
	if q, err = conSucursal(q, filter.IDSucursal); err != nil {
		return nil, err
	}
	productos, total, err := s.repo.List(ctx, q, filter)
	if err != nil {
		return nil, apierror.Persistencia("listar el inventario", err)
	}
	resp := &dto.ProductoListResponse{
		Data:  make([]dto.ProductoResponse, 0, len(productos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range productos {
		resp.Data = append(resp.Data, productoToResponse(&productos[i]))
	}
	return resp, nil
}

func (s *inventarioService) Actualizar(ctx context.Context, sc scope.Contexto, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	if err := s.guard.EnsureActiva(ctx, sc); err != nil {
		return nil, err
	}
	q, err := lecturaScope(sc)
	if err != nil {
		return nil, err
	}
	cambios, err := cambiosProducto(req)
	if err != nil {
		return nil, err
	}
	if len(cambios) > 0 {
		if err := s.repo.Update(ctx, id, q, cambios); err != nil {
			return nil, notFoundOr(err, apierror.ErrProductoNoEncontrado, "actualizar el producto")
		}
	}
	p, err := s.repo.FindByID(ctx, id, q)
	if err != nil {
		return nil, notFoundOr(err, apierror.ErrProductoNoEncontrado, "buscar el producto")
	}
	resp := productoToResponse(p)
	return &resp, nil
}

// cambiosProducto maps the fields present in req to their columns. An explicit
// stock is an absolute count set by the owner, written as a single UPDATE.
func cambiosProducto(req dto.ActualizarProductoRequest) (map[string]any, error) {
	cambios := map[string]any{}
	if req.Nombre != nil {
		cambios["nombre"] = *req.Nombre
	}
	if req.Descripcion != nil {
		cambios["descripcion"] = *req.Descripcion
	}
	if req.FotoURL != nil {
		cambios["foto_url"] = *req.FotoURL
	}
	if req.CostoCompra != nil {
		if req.CostoCompra.IsNegative() {
			return nil, apierror.Validacion("costo_compra no puede ser negativo")
		}
		cambios["costo_compra"] = *req.CostoCompra
	}
	if req.PrecioVenta != nil {
		if !req.PrecioVenta.IsPositive() {
			return nil, apierror.Validacion("precio_venta debe ser mayor a cero")
		}
		cambios["precio_venta"] = *req.PrecioVenta
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, apierror.Validacion("stock no puede ser negativo")
		}
		cambios["stock"] = *req.Stock
	}
	if req.NumeroSerie != nil {
		cambios["numero_serie"] = *req.NumeroSerie
	}
	return cambios, nil
}

func (s *inventarioService) Eliminar(ctx context.Context, sc scope.Contexto, id uuid.UUID) error {
	if err := s.guard.EnsureActiva(ctx, sc); err != nil {
		return err
	}
	q, err := lecturaScope(sc)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, q); err != nil {
		return notFoundOr(err, apierror.ErrProductoNoEncontrado, "eliminar el producto")
	}
	return nil
}

func (s *inventarioService) BajoStock(ctx context.Context, sc scope.Contexto, limite int) ([]dto.ProductoResponse, error) {
	if limite <= 0 {
		limite = limiteBajoStockDefault
	}
	q, err := lecturaScope(sc)
	if err != nil {
		return nil, err
	}
	productos, err := s.repo.BajoStock(ctx, q, limite)
	if err != nil {
		return nil, apierror.Persistencia("consultar bajo stock", err)
	}
	out := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		out = append(out, productoToResponse(&productos[i]))
	}
	return out, nil
}

func productoToResponse(p *model.Producto) dto.ProductoResponse {
	resp := dto.ProductoResponse{
		ID:          p.ID.String(),
		IDSucursal:  p.IDSucursal.String(),
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		FotoURL:     p.FotoURL,
		CostoCompra: p.CostoCompra,
		PrecioVenta: p.PrecioVenta,
		Stock:       p.Stock,
		NumeroSerie: p.NumeroSerie,
	}
	if p.FechaAdquisicion != nil {
		f := p.FechaAdquisicion.Format("2006-01-02")
		resp.FechaAdquisicion = &f
	}
	return resp
}
