package service

import (
	"context"

	"github.com/CzarAl/domus-backend/internal/apierror"
	"github.com/CzarAl/domus-backend/internal/dto"
	"github.com/CzarAl/domus-backend/internal/model"
	"github.com/CzarAl/domus-backend/internal/repository"
	"github.com/CzarAl/domus-backend/internal/scope"

	"github.com/google/uuid"
)

// ClienteService manages customers. Customers are shared by every branch of
// a tenant.
type ClienteService interface {
	Crear(ctx context.Context, sc scope.Contexto, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	Obtener(ctx context.Context, sc scope.Contexto, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, sc scope.Contexto) ([]dto.ClienteResponse, error)
	Actualizar(ctx context.Context, sc scope.Contexto, id uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	Eliminar(ctx context.Context, sc scope.Contexto, id uuid.UUID) error
}

type clienteService struct {
	repo  repository.ClienteRepository
	guard EmpresaGuard
	now   Clock
}

func NewClienteService(repo repository.ClienteRepository, guard EmpresaGuard) ClienteService {
	return &clienteService{repo: repo, guard: guard, now: systemClock}
}

func (s *clienteService) Crear(ctx context.Context, sc scope.Contexto, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	if err := s.guard.EnsureActiva(ctx, sc); err != nil {
		return nil, err
	}
	id := uuid.New()
	creador := sc.IDUsuario
	c := &model.Cliente{
		ID:               id,
		IDRaiz:           sc.IDRaiz,
		NumeroCliente:    id.String()[:8],
		Nombre:           req.Nombre,
		Telefono:         req.Telefono,
		Email:            req.Email,
		Direccion:        req.Direccion,
		CodigoPostal:     req.CodigoPostal,
		RFC:              req.RFC,
		IDUsuarioCreador: &creador,
		FechaRegistro:    s.now(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, apierror.Persistencia("crear el cliente", err)
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) Obtener(ctx context.Context, sc scope.Contexto, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id, sc.IDRaiz)
	if err != nil {
		return nil, notFoundOr(err, apierror.ErrClienteNoEncontrado, "buscar el cliente")
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) Listar(ctx context.Context, sc scope.Contexto) ([]dto.ClienteResponse, error) {
	clientes, err := s.repo.List(ctx, sc.IDRaiz)
	if err != nil {
		return nil, apierror.Persistencia("listar clientes", err)
	}
	out := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		out = append(out, clienteToResponse(&clientes[i]))
	}
	return out, nil
}

func (s *clienteService) Actualizar(ctx context.Context, sc scope.Contexto, id uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	if err := s.guard.EnsureActiva(ctx, sc); err != nil {
		return nil, err
	}
	c, err := s.repo.FindByID(ctx, id, sc.IDRaiz)
	if err != nil {
		return nil, notFoundOr(err, apierror.ErrClienteNoEncontrado, "buscar el cliente")
	}
	c.Nombre = req.Nombre
	c.Telefono = req.Telefono
	c.Email = req.Email
	c.Direccion = req.Direccion
	c.CodigoPostal = req.CodigoPostal
	c.RFC = req.RFC
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, apierror.Persistencia("actualizar el cliente", err)
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) Eliminar(ctx context.Context, sc scope.Contexto, id uuid.UUID) error {
	if err := s.guard.EnsureActiva(ctx, sc); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, sc.IDRaiz); err != nil {
		return notFoundOr(err, apierror.ErrClienteNoEncontrado, "eliminar el cliente")
	}
	return nil
}

func clienteToResponse(c *model.Cliente) dto.ClienteResponse {
	return dto.ClienteResponse{
		ID:            c.ID.String(),
		NumeroCliente: c.NumeroCliente,
		Nombre:        c.Nombre,
		Telefono:      c.Telefono,
		Email:         c.Email,
		Direccion:     c.Direccion,
		CodigoPostal:  c.CodigoPostal,
		RFC:           c.RFC,
		FechaRegistro: formatTime(c.FechaRegistro),
	}
}
