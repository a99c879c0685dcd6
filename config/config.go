package config

import (
	"fmt"
	"strings"
	"time"

	jlconfig "github.com/JeremyLoy/config"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds every setting read from the environment (and an optional .env
// file). Unset variables keep the values from Default.
type Config struct {
	Port     string `config:"PORT"`
	AppEnv   string `config:"APP_ENV"`
	LogLevel string `config:"LOG_LEVEL"`

	PostgresUser     string `config:"POSTGRES_USER"`
	PostgresPassword string `config:"POSTGRES_PASSWORD"`
	PostgresHost     string `config:"POSTGRES_HOST"`
	PostgresPort     string `config:"POSTGRES_PORT"`
	PostgresDatabase string `config:"POSTGRES_DATABASE"`
	PostgresSSLMode  string `config:"POSTGRES_SSLMODE"`
	VerbosePostgres  bool   `config:"VERBOSE_POSTGRES"`
	MigratePostgres  bool   `config:"MIGRATE_POSTGRES"`

	RedisURL string `config:"REDIS_URL"`

	SessionKey        string `config:"SESSION_KEY"`
	JWTSecret         string `config:"JWT_SECRET"`
	JWTTTLMinutes     int    `config:"JWT_TTL_MINUTES"`
	AdminPasswordHash string `config:"ADMIN_PASSWORD_HASH"`
	CORSOrigins       string `config:"CORS_ORIGINS"`

	MaxQueueSize               int `config:"MAX_QUEUE_SIZE"`
	DefaultTargetScore         int `config:"DEFAULT_TARGET_SCORE"`
	ConfirmationTimeoutSeconds int `config:"CONFIRMATION_TIMEOUT_SECONDS"`
	ChampionCooldownSeconds    int `config:"CHAMPION_COOLDOWN_SECONDS"`
	CooldownSweepSeconds       int `config:"COOLDOWN_SWEEP_SECONDS"`
}

func Default() *Config {
	return &Config{
		Port:     "8080",
		AppEnv:   "development",
		LogLevel: "info",

		PostgresHost:    "localhost",
		PostgresPort:    "5432",
		PostgresSSLMode: "disable",

		RedisURL: "localhost:6379",

		SessionKey:    "courtside-session",
		JWTSecret:     "courtside-secret",
		JWTTTLMinutes: 12 * 60,
		CORSOrigins:   "*",

		MaxQueueSize:               10,
		DefaultTargetScore:         15,
		ConfirmationTimeoutSeconds: 60,
		ChampionCooldownSeconds:    300,
		CooldownSweepSeconds:       10,
	}
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, relying on system environment variables")
	}

	cfg := Default()
	if err := jlconfig.FromEnv().To(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == Default().JWTSecret && cfg.IsProduction() {
		log.Warn().Msg("Using the default JWT secret in production, set JWT_SECRET")
	}
	if cfg.AdminPasswordHash == "" {
		log.Warn().Msg("ADMIN_PASSWORD_HASH is empty, admin login is disabled")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.MaxQueueSize < 1:
		return fmt.Errorf("MAX_QUEUE_SIZE must be at least 1, got %d", c.MaxQueueSize)
	case c.DefaultTargetScore < 1:
		return fmt.Errorf("DEFAULT_TARGET_SCORE must be at least 1, got %d", c.DefaultTargetScore)
	case c.ConfirmationTimeoutSeconds < 1:
		return fmt.Errorf("CONFIRMATION_TIMEOUT_SECONDS must be at least 1, got %d", c.ConfirmationTimeoutSeconds)
	case c.ChampionCooldownSeconds < 0:
		return fmt.Errorf("CHAMPION_COOLDOWN_SECONDS must not be negative, got %d", c.ChampionCooldownSeconds)
	case c.CooldownSweepSeconds < 1:
		return fmt.Errorf("COOLDOWN_SWEEP_SECONDS must be at least 1, got %d", c.CooldownSweepSeconds)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) ConfirmationTimeout() time.Duration {
	return time.Duration(c.ConfirmationTimeoutSeconds) * time.Second
}

func (c *Config) ChampionCooldown() time.Duration {
	return time.Duration(c.ChampionCooldownSeconds) * time.Second
}

func (c *Config) CooldownSweepInterval() time.Duration {
	return time.Duration(c.CooldownSweepSeconds) * time.Second
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLMinutes) * time.Minute
}

func (c *Config) AllowedOrigins() []string {
	origins := make([]string, 0)
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
