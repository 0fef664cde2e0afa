package api

import (
	"context"
	"net/http"
	"time"

	"driveup-workers/internal/common/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	services Services
	checks   map[string]ReadinessCheck
	timeout  time.Duration
	logger   logger.Logger
}

func NewServer(opts Options) *Server {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Server{
		services: opts.Services,
		checks:   opts.Checks,
		timeout:  timeout,
		logger:   log.WithFields(map[string]interface{}{"component": "http"}),
	}
}

func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger(), requestMetrics())

	router.GET("/health", s.health)
	router.GET("/ready", s.ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		cars := api.Group("/cars")
		cars.POST("/recommendations", s.recommend)
		cars.GET("/models", s.listModels)
		cars.GET("/variants", s.listVariants)
		cars.GET("/variant-details", s.variantDetails)
		cars.GET("/search", s.searchModels)
		cars.POST("/drivebot-query", s.driveBotQuery)

		api.GET("/fuel-prices/:city", s.fuelPrices)
		api.POST("/consultations", s.bookConsultation)
	}

	return router
}

func (s *Server) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), s.timeout)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}
	c.JSON(status, gin.H{"checks": results})
}
