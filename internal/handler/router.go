package handler

import (
	"strings"

	"gadgetbot/internal/observability"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterConfig carries everything the HTTP boundary needs
type RouterConfig struct {
	Chat           ChatResponder
	Graph          GraphInfo
	Build          BuildInfo
	Metrics        *observability.Collector
	Logger         *zap.Logger
	AllowedOrigins string
}

// NewRouter wires middleware and routes
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID(logger))
	router.Use(AccessLog(logger))
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.GinMiddleware())
	}

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitOrigins(cfg.AllowedOrigins)
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", requestIDHeader}
	router.Use(cors.New(corsConfig))

	chatHandler := NewChatHandler(cfg.Chat, logger)
	healthHandler := NewHealthHandler(cfg.Graph, cfg.Build)

	router.GET("/", healthHandler.Health)
	router.GET("/health", healthHandler.Health)
	router.GET("/version", healthHandler.Version)
	router.POST("/chat", chatHandler.Chat)
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/chat", chatHandler.Chat)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "endpoint not found"})
	})

	return router
}

func splitOrigins(origins string) []string {
	var out []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
