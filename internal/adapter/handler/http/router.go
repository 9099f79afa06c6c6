package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MikeRez0/storefront/internal/adapter/config"
	"github.com/MikeRez0/storefront/internal/core/port"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type Router struct {
	*gin.Engine
	addr   string
	logger *zap.Logger
}

func NewRouter(
	conf *config.HTTP,
	service port.Service,
	metrics RequestMetrics,
	orderHandler *OrderHandler,
	paymentHandler *PaymentHandler,
	logger *zap.Logger) (*Router, error) {

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger), requestMetrics(metrics))

	// Swagger
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/healthz", healthCheck(service, logger))

	api := router.Group("/api")
	{
		api.POST("/checkout", orderHandler.Checkout)

		orders := api.Group("/orders")
		{
			orders.Use(userScope(&orderHandler.Handler))
			orders.GET("", orderHandler.ListOrdersByUser)
			orders.GET("/:id", orderHandler.GetOrder)
		}

		api.POST("/webhooks/stripe", paymentHandler.StripeWebhook)

		payments := api.Group("/payments")
		{
			payments.GET("/:id/status", paymentHandler.PaymentStatus)
			// no id: reaches the service, which answers 400
			payments.GET("/status", paymentHandler.PaymentStatus)
		}
	}

	return &Router{Engine: router, addr: conf.HostString, logger: logger}, nil
}

func healthCheck(service port.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := service.Ping(ctx.Request.Context()); err != nil {
			logger.Error("health check failed", zap.Error(err))
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Serve listens on the configured address and shuts down once ctx is done
func (r *Router) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              r.addr,
		Handler:           r.Engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	r.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
