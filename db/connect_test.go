package db

import (
	"path/filepath"
	"strings"
	"testing"

	"ieqi-server/confs"
	"ieqi-server/entities"
	"ieqi-server/logging"

	"gorm.io/gorm/logger"
)

func TestPostgresDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  confs.DatabaseConfig
		want string
	}{
		{
			name: "url without sslmode",
			cfg:  confs.DatabaseConfig{URL: "postgres://u:p@db.example.com/ieqi"},
			want: "postgres://u:p@db.example.com/ieqi?sslmode=require",
		},
		{
			name: "url with query",
			cfg:  confs.DatabaseConfig{URL: "postgres://u:p@db.example.com/ieqi?connect_timeout=5"},
			want: "postgres://u:p@db.example.com/ieqi?connect_timeout=5&sslmode=require",
		},
		{
			name: "url keeps sslmode",
			cfg:  confs.DatabaseConfig{URL: "postgres://u:p@localhost/ieqi?sslmode=disable"},
			want: "postgres://u:p@localhost/ieqi?sslmode=disable",
		},
		{
			name: "local parameters",
			cfg:  confs.DatabaseConfig{Host: "localhost", Port: "5432", User: "u", Password: "p", Name: "ieqi"},
			want: "host=localhost user=u password=p dbname=ieqi port=5432 sslmode=disable TimeZone=UTC",
		},
		{
			name: "remote parameters",
			cfg:  confs.DatabaseConfig{Host: "db.example.com", Port: "5432", User: "u", Password: "p", Name: "ieqi"},
			want: "host=db.example.com user=u password=p dbname=ieqi port=5432 sslmode=require TimeZone=UTC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PostgresDSN(tt.cfg)
			if err != nil {
				t.Fatalf("PostgresDSN() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("PostgresDSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPostgresDSNMissingParameters(t *testing.T) {
	_, err := PostgresDSN(confs.DatabaseConfig{Host: "localhost"})
	if err == nil || !strings.Contains(err.Error(), "DB_URL") {
		t.Fatalf("PostgresDSN() error = %v, want missing configuration error", err)
	}
}

func TestConnectSQLiteCreatesTable(t *testing.T) {
	cfg := confs.DatabaseConfig{
		Driver:      confs.DriverSQLite,
		Path:        filepath.Join(t.TempDir(), "ieqi.db"),
		AutoMigrate: true,
	}

	database, err := Connect(cfg, logger.Silent, logging.Discard())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer database.Close() //nolint:errcheck // test cleanup

	if !database.GetDB().Migrator().HasTable("ieqi_logs") {
		t.Error("ieqi_logs table was not created")
	}
	for _, col := range []string{"id", "device_id", "temperature", "humidity", "light", "ieqi", "created_at"} {
		if !database.GetDB().Migrator().HasColumn(&entities.Reading{}, col) {
			t.Errorf("ieqi_logs is missing column %s", col)
		}
	}
}

func TestConnectUnsupportedDriver(t *testing.T) {
	_, err := Connect(confs.DatabaseConfig{Driver: "mysql"}, logger.Silent, logging.Discard())
	if err == nil {
		t.Fatal("Connect() expected error for unsupported driver")
	}
}
