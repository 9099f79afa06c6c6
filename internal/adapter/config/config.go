package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Database    *Database
	HTTP        *HTTP
	Stripe      *Stripe
	MercadoPago *MercadoPago
	Cache       *Cache
	App         *App
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

type App struct {
	LogLevel string `env:"LOG_LEVEL"`
	Mode     string `env:"APP_MODE"`
}

func (a *App) IsProduction() bool {
	return a.Mode == AppModeProduction
}

type Database struct {
	DSN      string `env:"DATABASE_URI"`
	MaxConns int32  `env:"DATABASE_MAX_CONNS"`
}

type HTTP struct {
	HostString string `env:"RUN_ADDRESS"`
}

type Stripe struct {
	WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
}

type MercadoPago struct {
	AccessToken string        `env:"MERCADOPAGO_ACCESS_TOKEN"`
	BaseURL     string        `env:"MERCADOPAGO_API_URL" envDefault:"https://api.mercadopago.com"`
	Timeout     time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"5s"`
}

type Cache struct {
	RedisURL         string        `env:"REDIS_URL"`
	PaymentStatusTTL time.Duration `env:"PAYMENT_STATUS_CACHE_TTL" envDefault:"5s"`
}

func NewConfig() (*Config, error) {
	// .env is optional, real environment wins
	_ = godotenv.Load()

	var db Database
	var http HTTP
	var stripe Stripe
	var mp MercadoPago
	var cache Cache
	var app App

	flag.StringVar(&db.DSN, "d", "", "Database string")
	flag.StringVar(&http.HostString, "a", `localhost:8080`, "HTTP server endpoint")
	flag.StringVar(&app.LogLevel, "l", `error`, "Log level")
	flag.StringVar(&app.Mode, "m", `DEV`, "PROD / DEV")
	flag.Parse()

	err := env.Parse(&db)
	if err != nil {
		return nil, fmt.Errorf("error parsing env database config: %w", err)
	}
	err = env.Parse(&http)
	if err != nil {
		return nil, fmt.Errorf("error parsing http config: %w", err)
	}
	err = env.Parse(&app)
	if err != nil {
		return nil, fmt.Errorf("error parsing app config: %w", err)
	}
	err = env.Parse(&stripe)
	if err != nil {
		return nil, fmt.Errorf("error parsing stripe config: %w", err)
	}
	err = env.Parse(&mp)
	if err != nil {
		return nil, fmt.Errorf("error parsing mercadopago config: %w", err)
	}
	err = env.Parse(&cache)
	if err != nil {
		return nil, fmt.Errorf("error parsing cache config: %w", err)
	}

	if stripe.WebhookSecret == "" {
		return nil, fmt.Errorf("STRIPE_WEBHOOK_SECRET is required")
	}

	config := Config{
		Database:    &db,
		HTTP:        &http,
		Stripe:      &stripe,
		MercadoPago: &mp,
		Cache:       &cache,
		App:         &app,
	}

	return &config, nil
}
