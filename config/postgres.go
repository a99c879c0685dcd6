package config

import (
	"Courtside/models/postgres"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectGORM returns a GORM DB instance connected to PostgreSQL
func ConnectGORM(cfg *Config, l zerolog.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresHost,
		cfg.PostgresPort, cfg.PostgresDatabase, cfg.PostgresSSLMode)

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening PostgreSQL connection: %w", err)
	}

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		TranslateError: true,
		Logger:         GormLogger(l, cfg.VerbosePostgres),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to PostgreSQL with GORM: %w", err)
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging PostgreSQL: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	l.Info().Str("host", cfg.PostgresHost).Str("database", cfg.PostgresDatabase).
		Msg("Successfully connected to PostgreSQL with GORM")
	return db, nil
}

// MigrateDatabase migrates the GORM models to the database
func MigrateDatabase(db *gorm.DB) error {
	err := db.AutoMigrate(
		&postgres.Team{},
		&postgres.Match{},
	)
	if err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	return nil
}
