package handlers

import (
	"gencontrol/internal/logger"
	"gencontrol/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services       *service.Service
	log            *logger.Logger
	allowedOrigins []string
}

// NewHandler constructs a new HTTP handler with dependencies.
// An empty allowedOrigins list accepts any origin.
func NewHandler(services *service.Service, log *logger.Logger, allowedOrigins []string) *Handler {
	return &Handler{services: services, log: log, allowedOrigins: allowedOrigins}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(h.corsConfig()))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Flagged audit stream (HTTP upgrade) on the same port
	router.GET("/ws", h.operatorMiddleware, h.wsConnect)

	return router
}

func (h *Handler) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	if len(h.allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = h.allowedOrigins
	}
	return cfg
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.operatorMiddleware)
	{
		api.POST("/predict", h.predict)
		api.POST("/detect", h.detect)
		h.registerAuditRoutes(api)
		h.registerLearningRoutes(api)
		h.registerCatalogRoutes(api)
		h.registerEquipmentRoutes(api)
	}
}

func (h *Handler) registerAuditRoutes(api *gin.RouterGroup) {
	audits := api.Group("/audits")
	{
		audits.POST("", h.runAudit)
		audits.GET("", h.listAudits)
	}
}

func (h *Handler) registerLearningRoutes(api *gin.RouterGroup) {
	learning := api.Group("/learning")
	{
		learning.POST("/relearn", h.relearn)
		learning.GET("/overrides", h.listOverrides)
	}
}

func (h *Handler) registerCatalogRoutes(api *gin.RouterGroup) {
	cat := api.Group("/catalog")
	{
		cat.GET("/scenarios", h.listScenarios)
		cat.GET("/engines", h.listEngines)
	}
}

func (h *Handler) registerEquipmentRoutes(api *gin.RouterGroup) {
	eq := api.Group("/equipment")
	{
		eq.POST("", h.registerEquipment)
		eq.GET("", h.listEquipment)
		eq.GET("/:id", h.getEquipment)
		eq.GET("/:id/next-index", h.nextIndex)
	}
}
