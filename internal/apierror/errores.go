package apierror

// ── Identidad ────────────────────────────────────────────────────────────────

var (
	ErrTokenInvalido        = newError(KindAuth, "token_invalido", "Token inválido")
	ErrTokenExpirado        = newError(KindAuth, "token_expirado", "Token expirado")
	ErrCredenciales         = newError(KindAuth, "credenciales_invalidas", "Credenciales inválidas")
	ErrUsuarioBloqueado     = newError(KindAuth, "usuario_bloqueado", "Usuario bloqueado temporalmente")
	ErrSuscripcionInactiva  = newError(KindAuthorization, "suscripcion_inactiva", "Suscripción inactiva o vencida")
	ErrUsuarioNoEncontrado  = newError(KindAuth, "usuario_no_encontrado", "Usuario no encontrado")
	ErrPermisosInsuficiente = newError(KindAuthorization, "permisos_insuficientes", "Permisos insuficientes")
)

// ── Empresa ──────────────────────────────────────────────────────────────────

var (
	ErrEmpresaSuspendida    = newError(KindAuthorization, "empresa_suspendida", "Empresa suspendida")
	ErrEmpresaConDeuda      = newError(KindAuthorization, "empresa_con_deuda", "Empresa con deuda")
	ErrEmpresaNoEncontrada  = newError(KindNotFound, "empresa_no_encontrada", "Empresa no encontrada")
	ErrSinPeriodoActivo     = newError(KindValidation, "sin_periodo_activo", "No hay periodo activo")
	ErrPeriodoPorVencer     = newError(KindValidation, "periodo_por_vencer", "Periodo por vencer")
	ErrCuentasVencidas      = newError(KindConflict, "cuentas_vencidas", "Empresa tiene cuentas vencidas")
	ErrCancelacionPendiente = newError(KindConflict, "cancelacion_pendiente", "Ya existe una solicitud de cancelación")
)

// ── Sucursal ─────────────────────────────────────────────────────────────────

var (
	ErrSucursalRequerida    = newError(KindValidation, "sucursal_requerida", "Debe especificar sucursal")
	ErrVendedorSinSucursal  = newError(KindAuthorization, "vendedor_sin_sucursal", "Vendedor sin sucursal asignada")
	ErrSucursalNoAutorizada = newError(KindAuthorization, "sucursal_no_autorizada", "Sucursal no autorizada")
)

// ── Caja ─────────────────────────────────────────────────────────────────────

var (
	ErrCajaYaAbierta      = newError(KindConflict, "caja_ya_abierta", "Ya existe una caja abierta en esta sucursal")
	ErrSesionNoEncontrada = newError(KindNotFound, "sesion_no_encontrada", "Sesión no encontrada o ya cerrada")
	ErrSinCajaAbierta     = newError(KindValidation, "sin_caja_abierta", "No hay una caja abierta en esta sucursal")
)

// ── Venta / inventario / clientes ────────────────────────────────────────────

var (
	ErrClienteNoEncontrado  = newError(KindNotFound, "cliente_no_encontrado", "Cliente no encontrado")
	ErrProductoNoEncontrado = newError(KindNotFound, "producto_no_encontrado", "Producto no encontrado")
	ErrStockInsuficiente    = newError(KindConflict, "stock_insuficiente", "Stock insuficiente")
	ErrDescuentoStock       = newError(KindConflict, "descuento_stock_fallido", "No se pudo descontar el stock")
	ErrVentaNoEncontrada    = newError(KindNotFound, "venta_no_encontrada", "Venta no encontrada")
	ErrVentaParcial         = newError(KindPersistence, "venta_parcial", "La venta quedó incompleta; requiere revisión")
)
