package router

import (
	"time"

	"farmacia/internal/config"
	"farmacia/internal/handler"
	"farmacia/internal/middleware"
	"farmacia/internal/repository"
	"farmacia/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services bundles the resource services the HTTP layer depends on.
type Services struct {
	TiposMedicamento service.TipoMedicamentoService
	Medicamentos     service.MedicamentoService
	Alertas          service.AlertaService
}

// NewServices builds the services over gorm repositories.
// Dependency graph: Handler ← Service ← Repository ← DB
func NewServices(cfg *config.Config, db *gorm.DB, ahora func() time.Time) *Services {
	tipoRepo := repository.NewTipoMedicamentoRepository(db)
	medicamentoRepo := repository.NewMedicamentoRepository(db)

	return &Services{
		TiposMedicamento: service.NewTipoMedicamentoService(tipoRepo),
		Medicamentos:     service.NewMedicamentoService(medicamentoRepo, tipoRepo, ahora),
		Alertas: service.NewAlertaService(medicamentoRepo, service.AlertaConfig{
			StockBajo:         cfg.StockBajoUmbral,
			StockCritico:      cfg.StockCriticoUmbral,
			DiasProximoVencer: cfg.DiasProximoVencer,
		}, ahora),
	}
}

// New returns a configured Gin engine. health is mounted at /health when non-nil.
func New(cfg *config.Config, svcs *Services, limiter *middleware.RateLimiter, health gin.HandlerFunc) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	if limiter != nil {
		r.Use(limiter.Middleware())
	}

	tiposH := handler.NewTiposMedicamentoHandler(svcs.TiposMedicamento)
	medicamentosH := handler.NewMedicamentosHandler(svcs.Medicamentos)
	alertasH := handler.NewAlertasHandler(svcs.Alertas)

	if health != nil {
		r.GET("/health", health)
	}

	api := r.Group("/api")
	{
		tipos := api.Group("/tipos-medicamento")
		{
			tipos.GET("", tiposH.Obtener)
			tipos.POST("", tiposH.Crear)
			tipos.PUT("", tiposH.Actualizar)
			tipos.DELETE("", tiposH.Eliminar)
		}

		meds := api.Group("/medicamentos")
		{
			meds.GET("", medicamentosH.Obtener)
			meds.POST("", medicamentosH.Crear)
			meds.PUT("", medicamentosH.Actualizar)
			meds.DELETE("", medicamentosH.Eliminar)
			meds.GET("/alertas", alertasH.Listar)
		}
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

// NewFromServices mounts svcs plus the DB/Redis health check.
func NewFromServices(cfg *config.Config, svcs *Services, db *gorm.DB, rdb *redis.Client, limiter *middleware.RateLimiter) *gin.Engine {
	return New(cfg, svcs, limiter, handler.Health(db, rdb))
}
