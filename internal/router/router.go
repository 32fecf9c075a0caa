package router

import (
	"context"
	"time"

	"github.com/CzarAl/domus-backend/internal/config"
	"github.com/CzarAl/domus-backend/internal/handler"
	"github.com/CzarAl/domus-backend/internal/infra"
	"github.com/CzarAl/domus-backend/internal/middleware"
	"github.com/CzarAl/domus-backend/internal/repository"
	"github.com/CzarAl/domus-backend/internal/scope"
	"github.com/CzarAl/domus-backend/internal/service"
	"github.com/CzarAl/domus-backend/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Router is the wired HTTP surface plus the pieces main drives in the
// background.
type Router struct {
	Engine   *gin.Engine
	Empresas service.EmpresaService

	limiters []*middleware.RateLimiter
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Router {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	general := middleware.NewRateLimiter(1000, time.Minute, "Demasiadas solicitudes")
	login := middleware.NewRateLimiter(5, time.Minute, "Demasiados intentos de login, espera un minuto")

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(general.Middleware())

	// ── Infrastructure ───────────────────────────────────────────────────────
	tokens := infra.NewTokenService(cfg.JWTSecret)
	tx := repository.NewTxScope(db)
	dispatcher := worker.NewDispatcher(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	empresaRepo := repository.NewEmpresaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	clienteRepo := repository.NewClienteRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	guard := service.NewEmpresaGuard(empresaRepo, service.NewRedisEstadoCache(rdb, cfg.TenantStatusTTL()))
	identidad := service.NewIdentidadService(tokens, usuarioRepo, cfg.AuthRefreshIdentity)
	authSvc := service.NewAuthService(usuarioRepo, tokens, infra.NewBcryptHasher(), cfg)
	cajaSvc := service.NewCajaService(cajaRepo, guard)
	ventaSvc := service.NewVentaService(tx, ventaRepo, productoRepo, clienteRepo, cajaSvc, guard, dispatcher)
	inventarioSvc := service.NewInventarioService(productoRepo, guard)
	clienteSvc := service.NewClienteService(clienteRepo, guard)
	empresaSvc := service.NewEmpresaService(empresaRepo, guard)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	empresasH := handler.NewEmpresasHandler(empresaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(map[string]handler.Check{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", login.Middleware(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	v1 := r.Group("/v1", middleware.JWTAuth(identidad))
	{
		v1.GET("/perfil", authH.Perfil)

		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", cajaH.Abrir)
			caja.POST("/cerrar/:id", cajaH.Cerrar)
			caja.GET("/abierta", cajaH.Abiertas)
			caja.GET("/sesiones", cajaH.Sesiones)
			caja.GET("/:id/reporte", cajaH.Reporte)
			caja.POST("/movimiento", cajaH.Movimiento)
		}

		ventas := v1.Group("/ventas")
		{
			ventas.POST("", ventasH.Crear)
			ventas.GET("", ventasH.Listar)
			ventas.GET("/:id", ventasH.Obtener)
		}

		inv := v1.Group("/inventario")
		{
			inv.GET("/bajo-stock", inventarioH.BajoStock)
			inv.POST("", inventarioH.Crear)
			inv.GET("", inventarioH.Listar)
			inv.GET("/:id", inventarioH.Obtener)
			inv.PUT("/:id", inventarioH.Actualizar)
			inv.DELETE("/:id", inventarioH.Eliminar)
		}

		clientes := v1.Group("/clientes")
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.Obtener)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", clientesH.Eliminar)
		}

		owner := middleware.RequireNivel(scope.NivelUsuario)
		v1.GET("/pagos/deuda", owner, empresasH.Deuda)
		v1.POST("/empresas/solicitar-cancelacion", owner, empresasH.SolicitarCancelacion)
		v1.POST("/ajustes", owner, empresasH.CrearAjuste)

		admin := v1.Group("/admin-saas", middleware.RequireNivel(scope.NivelAdminMaster))
		{
			admin.GET("/empresas", empresasH.ListEmpresas)
			admin.GET("/cuentas-matriz", empresasH.ListCuentas)
			admin.GET("/cuentas-vencidas", empresasH.CuentasVencidas)
			admin.POST("/empresas/:id/suspender", empresasH.Suspender)
			admin.POST("/empresas/:id/reactivar", empresasH.Reactivar)
			admin.POST("/empresas/:id/marcar-pagado", empresasH.MarcarPagado)
			admin.POST("/empresas/:id/aprobar-cancelacion", empresasH.AprobarCancelacion)
			admin.DELETE("/empresas/:id/eliminar-definitivo", empresasH.EliminarDefinitivo)
		}
	}

	// Swagger UI, only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return &Router{Engine: r, Empresas: empresaSvc, limiters: []*middleware.RateLimiter{general, login}}
}

// StartPurge drops expired rate-limit windows until ctx is done.
func (rt *Router) StartPurge(ctx context.Context, interval time.Duration) {
	for _, rl := range rt.limiters {
		rl.StartPurge(ctx, interval)
	}
}
