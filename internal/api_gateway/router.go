package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loyalty-points-ledger/internal/api_gateway/handler"
	"github.com/loyalty-points-ledger/internal/api_gateway/middleware"
	"github.com/loyalty-points-ledger/internal/identity"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	gate identity.Gate,
	registry *prometheus.Registry,
	creditHandler *handler.CreditHandler,
	merchantHandler *handler.MerchantHandler,
	accountHandler *handler.AccountHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Caller-facing operations require a verified credential
		authed := v1.Group("", middleware.Auth(logger, gate))
		{
			authed.POST("/credit", creditHandler.Credit)
			authed.GET("/merchants/:id/balance", creditHandler.Balance)

			me := authed.Group("/me")
			{
				me.GET("/merchants", accountHandler.ParticipatedMerchants)
				me.GET("/redemptions", accountHandler.Redemptions)
			}
		}

		// Merchant administration
		merchants := v1.Group("/merchants")
		{
			merchants.POST("", merchantHandler.Create)
			merchants.GET("", merchantHandler.List)
			merchants.GET("/:id", merchantHandler.GetByID)
		}

		// Account administration
		accounts := v1.Group("/accounts")
		{
			accounts.GET("", accountHandler.List)
			accounts.GET("/:id", accountHandler.GetByID)
			accounts.PUT("/:id", accountHandler.Update)
			accounts.DELETE("/:id", accountHandler.Delete)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})

	// Prometheus metrics
	if registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}
}
