package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Correo     string `json:"correo"     validate:"required,email"`
	Contrasena string `json:"contrasena" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID         string  `json:"id"`
	Correo     string  `json:"correo"`
	Nombre     string  `json:"nombre"`
	Nivel      string  `json:"nivel"`
	IDRaiz     string  `json:"id_raiz"`
	IDSucursal *string `json:"id_sucursal"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"`
	Usuario      UsuarioResponse `json:"usuario"`
}

// PerfilResponse echoes the verified token identity.
type PerfilResponse struct {
	IDUsuario  string  `json:"id_usuario"`
	IDRaiz     string  `json:"id_raiz"`
	Nivel      string  `json:"nivel"`
	IDSucursal *string `json:"id_sucursal"`
}
