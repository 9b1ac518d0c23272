package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"task-tracker/internal/config"

	"gorm.io/gorm/logger"
)

func TestDefaultPoolConfig(t *testing.T) {
	config := DefaultPoolConfig()

	if config.Driver != DriverPostgres {
		t.Errorf("Expected Driver to be postgres, got %s", config.Driver)
	}
	if config.MaxOpenConns != 25 {
		t.Errorf("Expected MaxOpenConns to be 25, got %d", config.MaxOpenConns)
	}
	if config.MaxIdleConns != 10 {
		t.Errorf("Expected MaxIdleConns to be 10, got %d", config.MaxIdleConns)
	}
	if config.ConnMaxLifetime != time.Hour {
		t.Errorf("Expected ConnMaxLifetime to be 1 hour, got %v", config.ConnMaxLifetime)
	}
	if config.ConnMaxIdleTime != time.Minute*30 {
		t.Errorf("Expected ConnMaxIdleTime to be 30 minutes, got %v", config.ConnMaxIdleTime)
	}
	if config.LogLevel != logger.Warn {
		t.Errorf("Expected LogLevel to be Warn, got %v", config.LogLevel)
	}
}

func TestPoolConfigFrom(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "development"},
		Database: config.DatabaseConfig{
			Driver:          "sqlite",
			SQLitePath:      "tasks.db",
			MaxOpenConns:    3,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Minute,
		},
	}

	pc := PoolConfigFrom(cfg)

	if pc.Driver != DriverSQLite || pc.DSN != "tasks.db" {
		t.Errorf("Expected sqlite tasks.db, got %s %s", pc.Driver, pc.DSN)
	}
	if pc.MaxOpenConns != 3 || pc.MaxIdleConns != 1 {
		t.Errorf("Expected pool limits 3/1, got %d/%d", pc.MaxOpenConns, pc.MaxIdleConns)
	}
	if pc.LogLevel != logger.Info {
		t.Errorf("Expected Info log level outside production, got %v", pc.LogLevel)
	}
}

func TestNewDatabasePool_WithNilConfig(t *testing.T) {
	_, err := NewDatabasePool(nil)

	if err == nil {
		t.Error("Expected error due to empty DSN, got nil")
	}
}

func TestNewDatabasePool_InvalidConfigs(t *testing.T) {
	tests := []struct {
		name   string
		config *PoolConfig
	}{
		{
			name:   "empty DSN",
			config: &PoolConfig{Driver: DriverSQLite},
		},
		{
			name: "negative limits",
			config: &PoolConfig{
				Driver:       DriverSQLite,
				DSN:          ":memory:",
				MaxOpenConns: -1,
			},
		},
		{
			name: "negative lifetime",
			config: &PoolConfig{
				Driver:          DriverSQLite,
				DSN:             ":memory:",
				ConnMaxLifetime: -time.Hour,
			},
		},
		{
			name:   "unknown driver",
			config: &PoolConfig{Driver: "oracle", DSN: "whatever"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewDatabasePool(tt.config); err == nil {
				t.Error("Expected error but pool creation succeeded")
			}
		})
	}
}

func TestNewDatabasePool_SQLite(t *testing.T) {
	config := DefaultPoolConfig()
	config.Driver = DriverSQLite
	config.DSN = filepath.Join(t.TempDir(), "pool.db")
	config.LogLevel = logger.Silent

	pool, err := NewDatabasePool(config)
	if err != nil {
		t.Fatalf("Expected pool creation to succeed, got: %v", err)
	}
	defer pool.Close()

	if err := pool.Migrate(); err != nil {
		t.Fatalf("Expected migration to succeed, got: %v", err)
	}
	if err := pool.Health(context.Background()); err != nil {
		t.Errorf("Expected healthy pool, got: %v", err)
	}
	if !pool.DB.Migrator().HasTable("tasks") || !pool.DB.Migrator().HasTable("users") {
		t.Error("Expected tasks and users tables to exist")
	}

	stats := pool.Stats()
	if stats["driver"] != DriverSQLite {
		t.Errorf("Expected driver in stats, got %v", stats["driver"])
	}
}

func TestDatabasePool_WithoutConnection(t *testing.T) {
	pool := &DatabasePool{DB: nil, config: &PoolConfig{MaxOpenConns: 10}}

	if _, hasError := pool.Stats()["error"]; !hasError {
		t.Error("Expected error in stats when DB is nil")
	}
	if err := pool.Health(context.Background()); err == nil {
		t.Error("Expected error when checking health with nil DB")
	}
	if err := pool.Migrate(); err == nil {
		t.Error("Expected error when migrating with nil DB")
	}
	if err := pool.Close(); err != nil {
		t.Errorf("Expected no error when closing nil DB, got: %v", err)
	}
}
