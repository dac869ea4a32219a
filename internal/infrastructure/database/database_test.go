package database

import (
	"context"
	"testing"

	"portal_orcamentos/internal/config"
)

func TestOpenGorm(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		db, err := OpenGorm(config.Config{
			Storage: config.StorageConfig{Driver: config.DriverSQLite},
			SQLite:  config.SQLiteConfig{Path: "file:TestOpenGorm?mode=memory&cache=shared"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer sqlDB.Close()
		if err := sqlDB.Ping(); err != nil {
			t.Fatalf("ping: %v", err)
		}
	})

	t.Run("memory driver is rejected", func(t *testing.T) {
		if _, err := OpenGorm(config.Config{Storage: config.StorageConfig{Driver: config.DriverMemory}}); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestNewDynamoDBClient(t *testing.T) {
	client, err := NewDynamoDBClient(context.Background(), config.DynamoDBConfig{
		Region:          "us-east-1",
		Endpoint:        "http://localhost:8000",
		AccessKeyID:     "local",
		SecretAccessKey: "local",
	})
	if err != nil || client == nil {
		t.Fatalf("unexpected result: %v", err)
	}
	if got := client.Options().BaseEndpoint; got == nil || *got != "http://localhost:8000" {
		t.Fatalf("unexpected endpoint: %v", got)
	}
}

func TestNewRedisClient(t *testing.T) {
	c := NewRedisClient(config.RedisConfig{Addr: " cache:6379 ", DB: 2})
	defer c.Close()
	if c.Options().Addr != "cache:6379" || c.Options().DB != 2 {
		t.Fatalf("unexpected options: %+v", c.Options())
	}
}
