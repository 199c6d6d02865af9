package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/hyeon/stockpilot/pkg/config"
)

func TestNewAndMigrate(t *testing.T) {
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	os.Setenv("DATABASE_ENABLED", "true")
	defer os.Unsetenv("DATABASE_ENABLED")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		t.Errorf("Failed to ping database: %v", err)
	}

	if err := db.Migrate(ctx); err != nil {
		t.Errorf("Migrate() failed: %v", err)
	}

	// Second run must be a no-op
	if err := db.Migrate(ctx); err != nil {
		t.Errorf("Migrate() second run failed: %v", err)
	}
}
