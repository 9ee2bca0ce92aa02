package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires all routes. gatherer serves /metrics and may be nil.
func NewRouter(r *Resolver, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), r.requestMetrics())

	router.GET("/health", r.health)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api", r.auth.Middleware())

	api.GET("/plants", r.listPlants)
	api.POST("/plants", r.createPlant)
	api.GET("/plants/:id", r.getPlant)
	api.PUT("/plants/:id", r.updatePlant)
	api.DELETE("/plants/:id", r.deletePlant)
	api.POST("/plants/:id/water", r.waterPlant)
	api.GET("/plants/:id/waterings", r.listWaterings)

	api.GET("/rooms", r.listRooms)
	api.POST("/rooms", r.createRoom)
	api.PUT("/rooms/:id", r.renameRoom)
	api.DELETE("/rooms/:id", r.deleteRoom)

	api.GET("/notifications", r.notifications)
	api.GET("/dashboard", r.dashboard)
	api.GET("/usage", r.usage)
	api.POST("/wizard", r.rateLimit, r.createPlantWithWizard)

	api.GET("/ws", r.subscribe)

	return router
}

func (r *Resolver) requestMetrics() gin.HandlerFunc {
	m := r.controller.Metrics()
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func (r *Resolver) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := r.controller.Ping(ctx); err != nil {
		r.log.Error("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "version": r.version})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": r.version})
}
