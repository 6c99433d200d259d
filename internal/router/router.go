package router

import (
	"github.com/gin-gonic/gin"

	prometheusHandler "github.com/jwalitptl/clinic-registry/internal/handler/prometheus"
	"github.com/jwalitptl/clinic-registry/internal/middleware"
	apperrors "github.com/jwalitptl/clinic-registry/pkg/errors"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type RouterConfig struct {
	CORSConfig      middleware.CORSConfig
	SecurityConfig  middleware.SecurityConfig
	SizeLimitConfig middleware.SizeLimitConfig
	CompressConfig  middleware.CompressConfig
	// RateLimiters guard the API routes only; probes and /metrics stay open.
	RateLimiters []gin.HandlerFunc
}

type Router struct {
	engine  *gin.Engine
	metrics *prometheusHandler.Handler
	health  Handler
	api     []Handler
	config  RouterConfig
}

func NewRouter(config RouterConfig, metrics *prometheusHandler.Handler, health Handler, api ...Handler) (*Router, error) {
	gin.SetMode(gin.ReleaseMode)

	if err := middleware.ConfigureValidation(nil); err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		metrics.Middleware(),
		middleware.Recovery(),
		middleware.ErrorHandler(),
		middleware.SecurityHeaders(config.SecurityConfig),
		middleware.CORS(config.CORSConfig),
	)

	engine.NoRoute(func(c *gin.Context) {
		c.Error(apperrors.NotFound("route", nil))
	})

	return &Router{
		engine:  engine,
		metrics: metrics,
		health:  health,
		api:     api,
		config:  config,
	}, nil
}

func (r *Router) Setup() {
	root := r.engine.Group("")
	r.health.RegisterRoutes(root)
	root.GET("/metrics", r.metrics.Handler())

	api := r.engine.Group("")
	api.Use(middleware.SizeLimit(r.config.SizeLimitConfig))
	api.Use(middleware.Compress(r.config.CompressConfig))
	api.Use(r.config.RateLimiters...)
	for _, h := range r.api {
		h.RegisterRoutes(api)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
