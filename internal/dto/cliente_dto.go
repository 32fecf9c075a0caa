package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ClienteRequest struct {
	Nombre       string  `json:"nombre"        validate:"required,min=2,max=150"`
	Telefono     *string `json:"telefono"      validate:"omitempty,max=30"`
	Email        *string `json:"email"         validate:"omitempty,email"`
	Direccion    *string `json:"direccion"     validate:"omitempty,max=300"`
	CodigoPostal *string `json:"codigo_postal" validate:"omitempty,max=10"`
	RFC          *string `json:"rfc"           validate:"omitempty,min=12,max=13"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClienteResponse struct {
	ID            string  `json:"id"`
	NumeroCliente string  `json:"numero_cliente"`
	Nombre        string  `json:"nombre"`
	Telefono      *string `json:"telefono"`
	Email         *string `json:"email"`
	Direccion     *string `json:"direccion"`
	CodigoPostal  *string `json:"codigo_postal"`
	RFC           *string `json:"rfc"`
	FechaRegistro string  `json:"fecha_registro"`
}
