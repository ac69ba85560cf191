package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Database *Database
	HTTP     *HTTP
	Stripe   *Stripe
	App      *App
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

type App struct {
	LogLevel string `env:"LOG_LEVEL"`
	Mode     string
}

type Database struct {
	DSN string `env:"DATABASE_URI"`
}

type HTTP struct {
	HostString string `env:"RUN_ADDRESS"`
}

type Stripe struct {
	APIKey        string        `env:"STRIPE_API_KEY"`
	WebhookSecret string        `env:"STRIPE_WEBHOOK_SECRET"`
	BaseURL       string        `env:"STRIPE_BASE_URL"`
	Timeout       time.Duration `env:"STRIPE_TIMEOUT"`
}

func NewConfig() (*Config, error) {
	var db Database
	var http HTTP
	var stripe Stripe
	var app App

	flag.StringVar(&db.DSN, "d", "", "Database string")
	flag.StringVar(&http.HostString, "a", `localhost:8080`, "HTTP server endpoint")
	flag.StringVar(&stripe.BaseURL, "s", `https://api.stripe.com`, "Stripe API address")
	flag.DurationVar(&stripe.Timeout, "t", 10*time.Second, "Stripe request timeout")
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

	config := Config{
		Database: &db,
		HTTP:     &http,
		Stripe:   &stripe,
		App:      &app,
	}

	return &config, nil
}
