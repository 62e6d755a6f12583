package router

import (
	"net/http"
	"time"

	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/auth"
	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/config"
	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/logger"
	"github.com/dangreenberg93/cin7-uploader/internal/interfaces/http/handler"
	"github.com/dangreenberg93/cin7-uploader/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles the handler set served by the API
type Handlers struct {
	Uploads   *handler.UploadHandler
	Templates *handler.TemplateHandler
	Results   *handler.ResultHandler
	Webhooks  *handler.WebhookHandler
	ERP       *handler.ERPHandler
}

// Router builds the gin engine for the API
type Router struct {
	cfg        *config.Config
	log        *zap.Logger
	tokens     *auth.TokenService
	handlers   Handlers
	apiVersion string
	startTime  time.Time
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(cfg *config.Config, log *zap.Logger, tokens *auth.TokenService, handlers Handlers, opts ...RouterOption) *Router {
	r := &Router{
		cfg:        cfg,
		log:        log,
		tokens:     tokens,
		handlers:   handlers,
		apiVersion: "v1",
		startTime:  time.Now(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Build assembles the engine with middleware and all routes
func (r *Router) Build() *gin.Engine {
	if r.cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(r.log))
	engine.Use(logger.Recovery(r.log))
	if r.cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(r.cfg.HTTP.MaxBodySize))
	}

	authCfg := middleware.DefaultAuthConfig(r.tokens)
	authCfg.Logger = r.log
	engine.Use(middleware.TokenAuthWithConfig(authCfg))

	engine.GET("/health", r.health)

	api := engine.Group("/api/" + r.apiVersion)
	api.GET("/health", r.health)

	uploads := api.Group("/uploads")
	{
		uploads.POST("", r.handlers.Uploads.Create)
		uploads.GET("", r.handlers.Uploads.List)
		uploads.GET("/:id", r.handlers.Uploads.Get)
		uploads.GET("/:id/results", r.handlers.Uploads.Results)
		uploads.POST("/:id/validate", r.handlers.Uploads.Validate)
		uploads.POST("/:id/submit", r.handlers.Uploads.Submit)
	}

	templates := api.Group("/templates")
	{
		templates.GET("", r.handlers.Templates.List)
		templates.POST("", r.handlers.Templates.Create)
		templates.GET("/:id", r.handlers.Templates.Get)
		templates.DELETE("/:id", r.handlers.Templates.Delete)
		templates.POST("/auto-detect", r.handlers.Templates.AutoDetect)
	}

	results := api.Group("/results")
	{
		results.GET("/failed", r.handlers.Results.ListFailed)
		results.POST("/:id/retry", r.handlers.Results.Retry)
		results.POST("/:id/resolve", r.handlers.Results.Resolve)
		results.POST("/:id/review", r.handlers.Results.Review)
	}

	webhooks := api.Group("/webhooks")
	{
		webhooks.POST("/missive",
			middleware.WebhookSecret(r.cfg.Webhook.SharedSecret, r.log),
			r.handlers.Webhooks.Missive)
		webhooks.GET("/queue", r.handlers.Webhooks.Queue)
	}

	erp := api.Group("/erp")
	{
		erp.GET("/connection", r.handlers.ERP.TestConnection)
		erp.POST("/cache/refresh", r.handlers.ERP.RefreshCache)
		erp.GET("/cache/age", r.handlers.ERP.CacheAge)
	}

	return engine
}

// health reports process liveness and uptime
func (r *Router) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"name":   r.cfg.App.Name,
		"uptime": time.Since(r.startTime).Round(time.Second).String(),
	})
}
