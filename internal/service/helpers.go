package service

import (
	"errors"
	"time"

	"github.com/CzarAl/domus-backend/internal/apierror"
	"github.com/CzarAl/domus-backend/internal/repository"
	"github.com/CzarAl/domus-backend/internal/scope"

	"github.com/google/uuid"
)

const isoFormat = "2006-01-02T15:04:05Z07:00"

// Clock lets tests pin "now".
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// parseUUIDPtr parses an optional id coming from a request body.
func parseUUIDPtr(s *string, campo string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, apierror.Validacion(campo + " inválido")
	}
	return &id, nil
}

func parseUUID(s, campo string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apierror.Validacion(campo + " inválido")
	}
	return id, nil
}

// lecturaScope is the repository filter for read paths: whole tenant for
// admins and owners, the assigned branch for sellers.
func lecturaScope(sc scope.Contexto) (repository.SesionScope, error) {
	suc, err := scope.FiltroSucursal(sc)
	if err != nil {
		return repository.SesionScope{}, err
	}
	return repository.SesionScope{IDRaiz: sc.IDRaiz, IDSucursal: suc}, nil
}

// notFoundOr maps repository.ErrNotFound to nf and anything else to a
// persistence error for op.
func notFoundOr(err error, nf *apierror.Error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return nf
	}
	return apierror.Persistencia(op, err)
}

func formatTime(t time.Time) string { return t.UTC().Format(isoFormat) }

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// conSucursal narrows a read scope to an explicit branch from a query
// string. A seller may only name their own branch.
func conSucursal(q repository.SesionScope, idSucursal string) (repository.SesionScope, error) {
	if idSucursal == "" {
		return q, nil
	}
	id, err := parseUUID(idSucursal, "id_sucursal")
	if err != nil {
		return q, err
	}
	if q.IDSucursal != nil && *q.IDSucursal != id {
		return q, apierror.ErrSucursalNoAutorizada
	}
	q.IDSucursal = &id
	return q, nil
}
