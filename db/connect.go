package db

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ieqi-server/confs"
	"ieqi-server/entities"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the reading store selected by cfg.Driver, configures the
// connection pool and, when enabled, creates the ieqi_logs table.
func Connect(cfg confs.DatabaseConfig, gormLevel logger.LogLevel, log *slog.Logger) (Database, error) {
	dialector, err := dialectorFor(cfg, log)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:      logger.Default.LogMode(gormLevel),
		PrepareStmt: true,
		NowFunc:     func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.Driver == confs.DriverSQLite {
		// SQLite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("database connection established", "driver", cfg.Driver)

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(&entities.Reading{}); err != nil {
			return nil, fmt.Errorf("failed to create ieqi_logs table: %w", err)
		}
		log.Info("ieqi_logs table ready")
	}

	return &GormDatabase{DB: db}, nil
}

func dialectorFor(cfg confs.DatabaseConfig, log *slog.Logger) (gorm.Dialector, error) {
	switch cfg.Driver {
	case confs.DriverSQLite:
		log.Info("opening sqlite database", "path", cfg.Path)
		return sqlite.Open(cfg.Path), nil
	case confs.DriverPostgres, "":
		dsn, err := PostgresDSN(cfg)
		if err != nil {
			return nil, err
		}
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// PostgresDSN builds the connection string from DB_URL or from the individual
// parameters. Remote hosts get sslmode=require unless the URL already sets it.
func PostgresDSN(cfg confs.DatabaseConfig) (string, error) {
	if cfg.URL != "" {
		dsn := cfg.URL
		if !strings.Contains(dsn, "sslmode=") {
			if strings.Contains(dsn, "?") {
				dsn += "&sslmode=require"
			} else {
				dsn += "?sslmode=require"
			}
		}
		return dsn, nil
	}

	if cfg.Host == "" || cfg.Port == "" || cfg.User == "" || cfg.Password == "" || cfg.Name == "" {
		return "", fmt.Errorf("missing required database configuration: DB_URL or (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}

	sslMode := "require"
	if cfg.Host == "localhost" || cfg.Host == "127.0.0.1" {
		sslMode = "disable"
	}

	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, sslMode), nil
}
