package router

import (
	"time"

	"tiendapos/internal/auth"
	"tiendapos/internal/config"
	"tiendapos/internal/handler"
	"tiendapos/internal/infra"
	"tiendapos/internal/middleware"
	"tiendapos/internal/repository"
	"tiendapos/internal/service"
	"tiendapos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Servicios is the service layer shared by the HTTP API and the workers.
type Servicios struct {
	Auth         service.AuthService
	Catalogo     service.CatalogoService
	Inventario   service.InventarioService
	Contabilidad service.ContabilidadService
	Gastos       service.GastoService
	Cafeteria    service.CafeteriaService
	Reportes     service.ReporteService
	Dispatcher   *worker.Dispatcher
	Loc          *time.Location
}

// NewServicios wires Service ← Repository ← DB/Redis.
func NewServicios(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*Servicios, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	uow := repository.NewUnitOfWork(db)
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	historialRepo := repository.NewHistorialPrecioRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	areaRepo := repository.NewAreaRepository(db)
	unidadRepo := repository.NewUnidadRepository(db)
	inventarioRepo := repository.NewInventarioRepository(db)
	cuentaRepo := repository.NewCuentaRepository(db)
	gastoRepo := repository.NewGastoRepository(db)
	cafeteriaRepo := repository.NewCafeteriaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	contabilidad := service.NewContabilidadService(uow, cuentaRepo)
	dispatcher := worker.NewDispatcher(rdb)

	return &Servicios{
		Auth:         service.NewAuthService(usuarioRepo, areaRepo, cfg),
		Catalogo:     service.NewCatalogoService(uow, productoRepo, historialRepo, categoriaRepo, areaRepo, inventarioRepo),
		Inventario:   service.NewInventarioService(uow, productoRepo, areaRepo, unidadRepo, inventarioRepo, contabilidad),
		Contabilidad: contabilidad,
		Gastos:       service.NewGastoService(gastoRepo, areaRepo),
		Cafeteria:    service.NewCafeteriaService(uow, cafeteriaRepo, contabilidad),
		Reportes: service.NewReporteService(
			productoRepo, historialRepo, inventarioRepo, gastoRepo, cafeteriaRepo,
			infra.NewReportes(cfg.NombreTienda), dispatcher, loc,
		),
		Dispatcher: dispatcher,
		Loc:        loc,
	}, nil
}

// New returns a configured Gin engine over svcs.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, svcs *Servicios, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Origenes()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(rdb, cfg.RateLimitPorMinuto, time.Minute))

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(svcs.Auth)
	usuariosH := handler.NewUsuariosHandler(svcs.Auth)
	catalogoH := handler.NewCatalogoHandler(svcs.Catalogo)
	inventarioH := handler.NewInventarioHandler(svcs.Inventario)
	cuentasH := handler.NewCuentasHandler(svcs.Contabilidad)
	gastosH := handler.NewGastosHandler(svcs.Gastos, svcs.Loc)
	cafeteriaH := handler.NewCafeteriaHandler(svcs.Cafeteria)
	reportesH := handler.NewReportesHandler(svcs.Reportes, rdb, svcs.Loc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	authG := r.Group("/v1/auth")
	{
		authG.POST("/login", middleware.LoginRateLimiter(rdb), authH.Login)
		authG.POST("/refresh", authH.Refresh)
	}

	// Protected routes. Each service checks the caller's role per operation;
	// RequireRole only guards groups that belong to a single role.
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	admin := middleware.RequireRole(auth.RolAdministrador)
	{
		v1.GET("/categorias", catalogoH.ListarCategorias)
		v1.POST("/categorias", admin, catalogoH.CrearCategoria)
		v1.GET("/areas", catalogoH.ListarAreas)
		v1.POST("/areas", admin, catalogoH.CrearArea)

		prods := v1.Group("/productos")
		{
			prods.GET("", catalogoH.ListarProductos)
			prods.GET("/:id", catalogoH.ObtenerProducto)
			prods.GET("/:id/historial-precios", catalogoH.HistorialPrecios)
			prods.GET("/:id/precio-vigente", catalogoH.PrecioVigente)
			prods.POST("", admin, catalogoH.CrearProducto)
			prods.PUT("/:id/precios", admin, catalogoH.ActualizarPrecios)
		}

		inv := v1.Group("/inventario")
		{
			inv.POST("/entradas", inventarioH.RecibirStock)
			inv.DELETE("/entradas/:id", inventarioH.EliminarEntrada)
			inv.POST("/salidas", inventarioH.MoverAArea)
			inv.DELETE("/salidas/:id", inventarioH.RevertirSalida)
			inv.POST("/transferencias", inventarioH.Transferir)
			inv.DELETE("/transferencias/:id", inventarioH.RevertirTransferencia)
			inv.POST("/ajustes", inventarioH.AjustarInventario)
			inv.DELETE("/ajustes/:id", inventarioH.RevertirAjuste)
			inv.GET("/resumen", inventarioH.ResumenStock)
			inv.GET("/unidades", inventarioH.ListarUnidades)
		}

		v1.POST("/ventas", inventarioH.Vender)
		v1.DELETE("/ventas/:id", inventarioH.RevertirVenta)

		cuentas := v1.Group("/cuentas", admin)
		{
			cuentas.POST("", cuentasH.Crear)
			cuentas.GET("", cuentasH.Listar)
			cuentas.POST("/:id/depositos", cuentasH.Depositar)
			cuentas.POST("/:id/extracciones", cuentasH.Extraer)
			cuentas.GET("/:id/transacciones", cuentasH.ListarTransacciones)
			cuentas.POST("/transferencias", cuentasH.Transferir)
		}
		v1.DELETE("/transacciones/:id", admin, cuentasH.RevertirTransaccion)

		gastos := v1.Group("/gastos", admin)
		{
			gastos.POST("/fijos", gastosH.CrearFijo)
			gastos.GET("/fijos", gastosH.ListarFijos)
			gastos.DELETE("/fijos/:id", gastosH.DesactivarFijo)
			gastos.POST("/variables", gastosH.RegistrarVariable)
			gastos.GET("/variables", gastosH.ListarVariables)
		}

		caf := v1.Group("/cafeteria", middleware.RequireRole(auth.RolAdministrador, auth.RolCafeteria))
		{
			caf.POST("/productos", cafeteriaH.CrearProducto)
			caf.GET("/productos", cafeteriaH.ListarProductos)
			caf.POST("/entradas", cafeteriaH.RecibirProducto)
			caf.POST("/traslados", cafeteriaH.MoverAArea)
			caf.POST("/elaboraciones", cafeteriaH.CrearElaboracion)
			caf.GET("/elaboraciones", cafeteriaH.ListarElaboraciones)
			caf.POST("/ventas", cafeteriaH.Vender)
			caf.DELETE("/ventas/:id", cafeteriaH.RevertirVenta)
		}

		rep := v1.Group("/reportes", admin)
		{
			rep.GET("/ganancias", reportesH.Ganancias)
			rep.GET("/ganancias/:formato", reportesH.Exportar)
			rep.POST("/ganancias/email", reportesH.Enviar)
			rep.GET("/cafeteria", reportesH.Cafeteria)
			rep.GET("/fallidos", reportesH.Fallidos)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
		}
	}

	// Swagger UI, only outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
