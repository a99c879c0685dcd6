package config

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"
)

// NewLogger builds the root logger and installs it as the global zerolog
// logger. Development gets a console writer, everything else JSON.
func NewLogger(cfg *Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	var l zerolog.Logger
	if cfg.IsProduction() {
		l = zerolog.New(os.Stdout)
	} else {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	l = l.Level(level).With().Timestamp().Logger()

	log.Logger = l
	return l
}

// gormWriter feeds gorm's logger into zerolog.
type gormWriter struct {
	l zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.l.Debug().Msgf(format, args...)
}

// GormLogger returns a gorm logger backed by l. Verbose logs every query.
func GormLogger(l zerolog.Logger, verbose bool) logger.Interface {
	level := logger.Warn
	if verbose {
		level = logger.Info
	}
	return logger.New(gormWriter{l: l.With().Str("component", "gorm").Logger()}, logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
