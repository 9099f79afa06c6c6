package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MikeRez0/storefront/internal/adapter/cache"
	"github.com/MikeRez0/storefront/internal/adapter/client/mercadopago"
	"github.com/MikeRez0/storefront/internal/adapter/config"
	"github.com/MikeRez0/storefront/internal/adapter/handler/http"
	"github.com/MikeRez0/storefront/internal/adapter/logger"
	"github.com/MikeRez0/storefront/internal/adapter/metrics"
	"github.com/MikeRez0/storefront/internal/adapter/payment/stripe"
	"github.com/MikeRez0/storefront/internal/adapter/storage"
	"github.com/MikeRez0/storefront/internal/adapter/storage/repository"
	"github.com/MikeRez0/storefront/internal/core/port"
	"github.com/MikeRez0/storefront/internal/core/service"
	"go.uber.org/zap"
)

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error:%s", err)
		return
	}

	log := logger.NewLogger(conf.App)
	if log == nil {
		fmt.Printf("error creating log")
		return
	}
	defer func() {
		err := log.Sync()
		if err != nil {
			fmt.Printf("log error: %s", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.NewDBStorage(ctx, conf.Database)
	if err != nil {
		log.Error("database error", zap.Error(err))
		return
	}
	defer db.Close()
	err = db.RunMigrations()
	if err != nil {
		log.Error("database migration error", zap.Error(err))
		return
	}

	repo, err := repository.NewRepository(db)
	if err != nil {
		log.Error("order repo creating error", zap.Error(err))
		return
	}

	verifier, err := stripe.NewEventVerifier(conf.Stripe, log.Named("Stripe"))
	if err != nil {
		log.Error("stripe verifier creating error", zap.Error(err))
		return
	}

	mp, err := mercadopago.NewClient(conf.MercadoPago, log.Named("MercadoPago"))
	if err != nil {
		log.Error("mercadopago client creating error", zap.Error(err))
		return
	}
	var prober port.PaymentStatusProber = mp
	if conf.Cache.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, conf.Cache)
		if err != nil {
			log.Error("redis error", zap.Error(err))
			return
		}
		defer func() { _ = rdb.Close() }()
		prober = cache.NewPaymentStatusCache(mp, rdb, conf.Cache.PaymentStatusTTL, log.Named("Cache"))
	}

	m := metrics.NewMetrics()

	svc, err := service.NewService(repo, verifier, prober, m, log.Named("Service"))
	if err != nil {
		log.Error("order service creating error", zap.Error(err))
		return
	}

	exposeDetails := !conf.App.IsProduction()

	orderHandler, err := http.NewOrderHandler(svc, log.Named("Order handler"), exposeDetails)
	if err != nil {
		log.Error("order handler creating error", zap.Error(err))
		return
	}
	paymentHandler, err := http.NewPaymentHandler(svc, log.Named("Payment handler"), exposeDetails)
	if err != nil {
		log.Error("payment handler creating error", zap.Error(err))
		return
	}

	r, err := http.NewRouter(conf.HTTP, svc, m, orderHandler, paymentHandler, log.Named("Router"))
	if err != nil {
		log.Error("router creating error", zap.Error(err))
		return
	}

	log.Info("starting server", zap.String("address", conf.HTTP.HostString))
	err = r.Serve(ctx)
	if err != nil {
		log.Error("router serve error", zap.Error(err))
		return
	}
}
