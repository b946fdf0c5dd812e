package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Config holds all runtime configuration, parsed once from the environment.
type Config struct {
	Environment    string   `env:"ENVIRONMENT" envDefault:"development"`
	GinMode        string   `env:"GIN_MODE" envDefault:"debug"`
	ServerPort     string   `env:"SERVER_PORT" envDefault:"8080"`
	JWTSecret      string   `env:"JWT_SECRET"`
	UploadPath     string   `env:"UPLOAD_PATH" envDefault:"./uploads"`
	DebugSQL       bool     `env:"DEBUG_SQL"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	DOIPrefix      string   `env:"DOI_PREFIX" envDefault:"10.5555"`

	DB      Database `envPrefix:"DB_"`
	SMTP    SMTP     `envPrefix:"SMTP_"`
	Payment Payment  `envPrefix:"PAYMENT_"`
}

type Database struct {
	Host     string `env:"HOST" envDefault:"127.0.0.1"`
	Port     string `env:"PORT" envDefault:"3306"`
	Database string `env:"DATABASE"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
}

type SMTP struct {
	Host          string `env:"HOST"`
	Port          int    `env:"PORT" envDefault:"587"`
	User          string `env:"USER"`
	Pass          string `env:"PASS"`
	From          string `env:"FROM"` // e.g. "Journal Portal <no-reply@your.org>"
	SkipTLSVerify bool   `env:"SKIP_TLS_VERIFY"`
}

type Payment struct {
	ServerKey string `env:"SERVER_KEY"`
	Sandbox   bool   `env:"SANDBOX" envDefault:"true"`
	APCAmount int64  `env:"APC_AMOUNT" envDefault:"1500"`
	Currency  string `env:"CURRENCY" envDefault:"USD"`
}

// App is the loaded configuration, set by Load during startup.
var App *Config

// Load parses the environment into a Config and stores it in App.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment config: %w", err)
	}
	App = cfg
	return cfg, nil
}
