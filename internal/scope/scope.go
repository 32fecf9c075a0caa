// Package scope holds the per-request tenant context and the rules that
// decide which branch a request operates on.
package scope

import (
	"context"

	"github.com/google/uuid"
)

// Nivel is the closed set of access levels carried by a token.
type Nivel int

const (
	NivelAdminMaster Nivel = iota + 1
	NivelUsuario           // tenant owner
	NivelVendedor          // seller bound to one branch
)

var nivelNombres = map[Nivel]string{
	NivelAdminMaster: "admin_master",
	NivelUsuario:     "usuario",
	NivelVendedor:    "vendedor",
}

func (n Nivel) String() string {
	if s, ok := nivelNombres[n]; ok {
		return s
	}
	return "desconocido"
}

// ParseNivel maps the persisted/token representation to a Nivel.
func ParseNivel(s string) (Nivel, bool) {
	for n, name := range nivelNombres {
		if name == s {
			return n, true
		}
	}
	return 0, false
}

// Privilegiado reports whether n may act on any branch of its tenant.
func (n Nivel) Privilegiado() bool {
	return n == NivelAdminMaster || n == NivelUsuario
}

// Contexto is the verified identity of the caller. It is derived per request
// and never persisted.
type Contexto struct {
	IDUsuario  uuid.UUID
	IDRaiz     uuid.UUID
	Nivel      Nivel
	IDSucursal *uuid.UUID
}

type ctxKey struct{}

// WithContexto stores sc in ctx.
func WithContexto(ctx context.Context, sc Contexto) context.Context {
	return context.WithValue(ctx, ctxKey{}, sc)
}

// FromContext returns the Contexto stored by WithContexto.
func FromContext(ctx context.Context) (Contexto, bool) {
	sc, ok := ctx.Value(ctxKey{}).(Contexto)
	return sc, ok
}
