package scope

import (
	"github.com/CzarAl/domus-backend/internal/apierror"

	"github.com/google/uuid"
)

// ResolverSucursal decides the branch a mutating operation runs against.
//
// Admins and owners must name the branch explicitly. Sellers always operate on
// their assigned branch; naming a different one is rejected.
func ResolverSucursal(sc Contexto, explicita *uuid.UUID) (uuid.UUID, error) {
	switch sc.Nivel {
	case NivelAdminMaster, NivelUsuario:
		if explicita == nil || *explicita == uuid.Nil {
			return uuid.Nil, apierror.ErrSucursalRequerida
		}
		return *explicita, nil
	case NivelVendedor:
		if sc.IDSucursal == nil || *sc.IDSucursal == uuid.Nil {
			return uuid.Nil, apierror.ErrVendedorSinSucursal
		}
		if explicita != nil && *explicita != uuid.Nil && *explicita != *sc.IDSucursal {
			return uuid.Nil, apierror.ErrSucursalNoAutorizada
		}
		return *sc.IDSucursal, nil
	default:
		return uuid.Nil, apierror.ErrTokenInvalido
	}
}

// FiltroSucursal returns the branch filter for listings: nil for privileged
// levels (whole tenant), the assigned branch for sellers.
func FiltroSucursal(sc Contexto) (*uuid.UUID, error) {
	switch sc.Nivel {
	case NivelAdminMaster, NivelUsuario:
		return nil, nil
	case NivelVendedor:
		if sc.IDSucursal == nil || *sc.IDSucursal == uuid.Nil {
			return nil, apierror.ErrVendedorSinSucursal
		}
		id := *sc.IDSucursal
		return &id, nil
	default:
		return nil, apierror.ErrTokenInvalido
	}
}
