package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/CzarAl/domus-backend/internal/apierror"
	"github.com/CzarAl/domus-backend/internal/dto"
	"github.com/CzarAl/domus-backend/internal/model"
	"github.com/CzarAl/domus-backend/internal/repository"
	"github.com/CzarAl/domus-backend/internal/scope"
	"github.com/CzarAl/domus-backend/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	maxIntentosFolio = 3

	// MaxCantidadLinea bounds the merged quantity of one product in a sale.
	MaxCantidadLinea = 100000
)

var errFolioDuplicado = errors.New("folio duplicado")

// ReciboEncolador is satisfied by *worker.Dispatcher.
type ReciboEncolador interface {
	EncolarRecibo(ctx context.Context, job worker.ReciboJob) error
}

// VentaService records sales. A sale either lands completely (stock
// decremented, sale and lines written, cash movement and audit entry created)
// or leaves no trace.
type VentaService interface {
	Crear(ctx context.Context, sc scope.Contexto, req dto.CrearVentaRequest) (*dto.VentaResponse, error)
	Obtener(ctx context.Context, sc scope.Contexto, id uuid.UUID) (*dto.VentaResponse, error)
	Listar(ctx context.Context, sc scope.Contexto, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	tx        repository.TxScope
	ventas    repository.VentaRepository
	productos repository.ProductoRepository
	clientes  repository.ClienteRepository
	caja      CajaService
	guard     EmpresaGuard
	recibos   ReciboEncolador
	now       Clock
	folio     func() string
}

// NewVentaService wires the sale engine; recibos may be nil.
func NewVentaService(
	tx repository.TxScope,
	ventas repository.VentaRepository,
	productos repository.ProductoRepository,
	clientes repository.ClienteRepository,
	caja CajaService,
	guard EmpresaGuard,
	recibos ReciboEncolador,
) VentaService {
	return &ventaService{
		tx:        tx,
		ventas:    ventas,
		productos: productos,
		clientes:  clientes,
		caja:      caja,
		guard:     guard,
		recibos:   recibos,
		now:       systemClock,
		folio:     nuevoFolio,
	}
}

func nuevoFolio() string { return uuid.New().String()[:8] }

// linea is a validated, priced sale line.
type linea struct {
	producto *model.Producto
	cantidad int
	subtotal decimal.Decimal
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func (s *ventaService) Crear(ctx context.Context, sc scope.Contexto, req dto.CrearVentaRequest) (*dto.VentaResponse, error) {
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
	if len(req.Productos) == 0 {
		return nil, apierror.Validacion("La venta debe incluir al menos un producto")
	}

	sesion, err := s.caja.SesionAbierta(ctx, sc.IDRaiz, idSucursal)
	if err != nil {
		return nil, err
	}

	idCliente, err := parseUUID(req.IDCliente, "id_cliente")
	if err != nil {
		return nil, err
	}
	cliente, err := s.clientes.FindByID(ctx, idCliente, sc.IDRaiz)
	if err != nil {
		return nil, notFoundOr(err, apierror.ErrClienteNoEncontrado, "buscar el cliente")
	}

	lineas, total, err := s.prepararLineas(ctx, sc.IDRaiz, idSucursal, req.Productos)
	if err != nil {
		return nil, err
	}

	venta := &model.Venta{
		ID:         uuid.New(),
		IDCliente:  cliente.ID,
		IDUsuario:  sc.IDUsuario,
		IDRaiz:     sc.IDRaiz,
		IDSucursal: idSucursal,
		IDSesion:   sesion.ID,
		Total:      total,
		MetodoPago: req.MetodoPago,
		Fecha:      s.now(),
	}
	for _, l := range lineas {
		venta.Detalles = append(venta.Detalles, model.DetalleVenta{
			ID:             uuid.New(),
			IDVenta:        venta.ID,
			IDProducto:     l.producto.ID,
			Cantidad:       l.cantidad,
			PrecioUnitario: l.producto.PrecioVenta,
			Subtotal:       l.subtotal,
			IDRaiz:         sc.IDRaiz,
			IDSucursal:     idSucursal,
		})
	}

	for intento := 1; ; intento++ {
		venta.Folio = s.folio()
		err = s.registrar(ctx, sc, venta, lineas)
		if !errors.Is(err, errFolioDuplicado) || intento == maxIntentosFolio {
			break
		}
		log.Warn().Str("folio", venta.Folio).Int("intento", intento).Msg("venta: folio duplicado, reintentando")
	}
	if err != nil {
		return nil, s.clasificarFallo(err)
	}

	log.Info().
		Str("folio", venta.Folio).
		Str("id_raiz", sc.IDRaiz.String()).
		Str("id_sucursal", idSucursal.String()).
		Str("total", total.StringFixed(2)).
		Msg("venta registrada")

	if cliente.Email != nil && *cliente.Email != "" && s.recibos != nil {
		job := worker.ReciboJob{IDVenta: venta.ID, IDRaiz: sc.IDRaiz, Email: *cliente.Email}
		if err := s.recibos.EncolarRecibo(ctx, job); err != nil {
			log.Warn().Err(err).Str("folio", venta.Folio).Msg("venta: no se pudo encolar el recibo")
		}
	}

	nombres := make(map[uuid.UUID]string, len(lineas))
	for _, l := range lineas {
		nombres[l.producto.ID] = l.producto.Nombre
	}
	resp := ventaToResponse(venta, nombres)
	return &resp, nil
}

// prepararLineas merges repeated products, checks they belong to the branch
// and that the stock read now covers the requested quantity. The stock check
// is repeated atomically by DescontarStock.
func (s *ventaService) prepararLineas(ctx context.Context, idRaiz, idSucursal uuid.UUID, items []dto.ItemVentaRequest) ([]linea, decimal.Decimal, error) {
	q := repository.SesionScope{IDRaiz: idRaiz, IDSucursal: &idSucursal}
	orden := make([]uuid.UUID, 0, len(items))
	cantidades := make(map[uuid.UUID]int, len(items))
	for _, it := range items {
		if it.Cantidad < 1 || it.Cantidad > MaxCantidadLinea {
			return nil, decimal.Zero, apierror.Validacion(fmt.Sprintf("cantidad debe estar entre 1 y %d", MaxCantidadLinea))
		}
		id, err := parseUUID(it.IDProducto, "id_producto")
		if err != nil {
			return nil, decimal.Zero, err
		}
		if _, ok := cantidades[id]; !ok {
			orden = append(orden, id)
		}
		if cantidades[id] > MaxCantidadLinea-it.Cantidad {
			return nil, decimal.Zero, apierror.Validacion(fmt.Sprintf("cantidad total de %s excede %d", id, MaxCantidadLinea))
		}
		cantidades[id] += it.Cantidad
	}

	total := decimal.Zero
	lineas := make([]linea, 0, len(orden))
	for _, id := range orden {
		p, err := s.productos.FindByID(ctx, id, q)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, decimal.Zero, apierror.ErrProductoNoEncontrado.WithMessage("Producto %s no encontrado", id)
			}
			return nil, decimal.Zero, apierror.Persistencia("buscar el producto", err)
		}
		n := cantidades[id]
		if p.Stock < n {
			return nil, decimal.Zero, apierror.ErrStockInsuficiente.WithMessage("Stock insuficiente para %s", p.Nombre)
		}
		subtotal := p.PrecioVenta.Mul(decimal.NewFromInt(int64(n)))
		total = total.Add(subtotal)
		lineas = append(lineas, linea{producto: p, cantidad: n, subtotal: subtotal})
	}
	return lineas, total, nil
}

// registrar runs the write set of a sale as one unit. On a non-atomic scope
// every completed step is undone before returning the error.
func (s *ventaService) registrar(ctx context.Context, sc scope.Contexto, venta *model.Venta, lineas []linea) error {
	var descontadas []linea
	ventaCreada := false

	err := s.tx.Execute(ctx, func(repos repository.TxRepos) error {
		if err := repos.Caja().BloquearSesionAbierta(ctx, venta.IDSesion); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apierror.ErrSinCajaAbierta
			}
			return err
		}

		for _, l := range lineas {
			ok, err := repos.Productos().DescontarStock(ctx, l.producto.ID, l.cantidad)
			if err != nil {
				return err
			}
			if !ok {
				return apierror.ErrDescuentoStock.WithMessage("Stock insuficiente para %s", l.producto.Nombre)
			}
			descontadas = append(descontadas, l)
		}

		if err := repos.Ventas().Create(ctx, venta); err != nil {
			if errors.Is(err, repository.ErrDuplicado) {
				return errFolioDuplicado
			}
			return err
		}
		ventaCreada = true

		idVenta := venta.ID
		mov := &model.MovimientoCaja{
			IDSesion:   venta.IDSesion,
			Tipo:       model.MovimientoIngreso,
			Concepto:   "Venta folio " + venta.Folio,
			Monto:      venta.Total,
			IDUsuario:  sc.IDUsuario,
			IDRaiz:     venta.IDRaiz,
			IDSucursal: venta.IDSucursal,
			IDVenta:    &idVenta,
			Fecha:      venta.Fecha,
		}
		if err := repos.Caja().CreateMovimiento(ctx, mov); err != nil {
			return err
		}

		return repos.Auditoria().Create(ctx, &model.AuditoriaTienda{
			IDRaiz:      venta.IDRaiz,
			IDSucursal:  venta.IDSucursal,
			IDUsuario:   sc.IDUsuario,
			Accion:      model.AccionCrearVenta,
			Descripcion: fmt.Sprintf("Venta creada folio %s por %s", venta.Folio, venta.Total.StringFixed(2)),
			FechaHora:   venta.Fecha,
		})
	})
	if err == nil || s.tx.Atomic() {
		return err
	}

	if cerr := s.compensar(ctx, venta.ID, ventaCreada, descontadas); cerr != nil {
		log.Error().
			Err(cerr).
			AnErr("causa", err).
			Str("id_venta", venta.ID.String()).
			Str("folio", venta.Folio).
			Msg("venta: compensación fallida")
		return apierror.ErrVentaParcial.Wrap(errors.Join(err, cerr))
	}
	return err
}

func (s *ventaService) compensar(ctx context.Context, idVenta uuid.UUID, ventaCreada bool, descontadas []linea) error {
	return s.tx.Execute(ctx, func(repos repository.TxRepos) error {
		var errs []error
		if ventaCreada {
			if err := repos.Caja().DeleteMovimientosByVenta(ctx, idVenta); err != nil {
				errs = append(errs, err)
			}
			if err := repos.Ventas().Delete(ctx, idVenta); err != nil {
				errs = append(errs, err)
			}
		}
		for _, l := range descontadas {
			if err := repos.Productos().RestaurarStock(ctx, l.producto.ID, l.cantidad); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

func (s *ventaService) clasificarFallo(err error) error {
	if apierror.KindOf(err) != 0 {
		return err
	}
	if errors.Is(err, errFolioDuplicado) {
		return apierror.Persistencia("generar el folio", err)
	}
	return apierror.Persistencia("registrar la venta", err)
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *ventaService) Obtener(ctx context.Context, sc scope.Contexto, id uuid.UUID) (*dto.VentaResponse, error) {
	q, err := lecturaScope(sc)
	if err != nil {
		return nil, err
	}
	v, err := s.ventas.FindByID(ctx, id, q)
	if err != nil {
		return nil, notFoundOr(err, apierror.ErrVentaNoEncontrada, "buscar la venta")
	}
	resp := ventaToResponse(v, nil)
	return &resp, nil
}

func (s *ventaService) Listar(ctx context.Context, sc scope.Contexto, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	q, err := lecturaScope(sc)
	if err != nil {
		return nil, err
	}
	if q, err = conSucursal(q, filter.IDSucursal); err != nil {
		return nil, err
	}

	ventas, total, err := s.ventas.List(ctx, q, filter)
	if err != nil {
		return nil, apierror.Persistencia("listar ventas", err)
	}
	resp := &dto.VentaListResponse{
		Data:  make([]dto.VentaResponse, 0, len(ventas)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range ventas {
		resp.Data = append(resp.Data, ventaToResponse(&ventas[i], nil))
	}
	return resp, nil
}

// ventaToResponse takes product names from the preloaded Producto of each
// line, falling back to nombres.
func ventaToResponse(v *model.Venta, nombres map[uuid.UUID]string) dto.VentaResponse {
	resp := dto.VentaResponse{
		ID:         v.ID.String(),
		Folio:      v.Folio,
		IDCliente:  v.IDCliente.String(),
		IDSucursal: v.IDSucursal.String(),
		IDSesion:   v.IDSesion.String(),
		Total:      v.Total,
		MetodoPago: v.MetodoPago,
		Productos:  make([]dto.ItemVentaResponse, 0, len(v.Detalles)),
		Fecha:      formatTime(v.Fecha),
	}
	for _, d := range v.Detalles {
		nombre := nombres[d.IDProducto]
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		resp.Productos = append(resp.Productos, dto.ItemVentaResponse{
			IDProducto:     d.IDProducto.String(),
			Nombre:         nombre,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		})
	}
	return resp
}
