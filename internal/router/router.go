package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinicdesk/clinic-api/internal/middleware"
	"github.com/clinicdesk/clinic-api/pkg/metrics"
)

// Handler registers its routes on an API group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	CORSConfig     middleware.CORSConfig
	Metrics        *metrics.Metrics
}

type Router struct {
	engine *gin.Engine
	auth   *middleware.AuthMiddleware
}

func NewRouter(auth *middleware.AuthMiddleware, cfg Config) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)
	if cfg.Metrics != nil {
		engine.Use(middleware.Metrics(cfg.Metrics))
	}
	engine.Use(middleware.CORS(cfg.CORSConfig))

	if cfg.RateLimitRPS > 0 {
		engine.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).RateLimit())
	}

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Router{engine: engine, auth: auth}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// RegisterPublic mounts handlers that need no token, auth/login included.
func (r *Router) RegisterPublic(handlers ...Handler) {
	api := r.engine.Group("/api/v1")
	for _, h := range handlers {
		h.RegisterRoutes(api)
	}
}

// RegisterProtected mounts handlers behind bearer-token authentication.
func (r *Router) RegisterProtected(handlers ...Handler) {
	api := r.engine.Group("/api/v1")
	api.Use(r.auth.Authenticate())
	for _, h := range handlers {
		h.RegisterRoutes(api)
	}
}
