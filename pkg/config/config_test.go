package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.MongoDatabase != "nearcircle" {
		t.Errorf("MongoDatabase = %s, want nearcircle", cfg.MongoDatabase)
	}
	if cfg.CommentWeight != 3 || cfg.LikeWeight != 1 {
		t.Errorf("weights = %d/%d, want 3/1", cfg.CommentWeight, cfg.LikeWeight)
	}
	if cfg.NotifyInterval != 15*time.Minute {
		t.Errorf("NotifyInterval = %v, want 15m", cfg.NotifyInterval)
	}
	if cfg.SyncWorkers != 4 {
		t.Errorf("SyncWorkers = %d, want 4", cfg.SyncWorkers)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("COMMENT_WEIGHT", "10")
	t.Setenv("NOTIFY_INTERVAL", "30s")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("Port = %s, want 9000", cfg.Port)
	}
	if cfg.CommentWeight != 10 {
		t.Errorf("CommentWeight = %d, want 10", cfg.CommentWeight)
	}
	if cfg.NotifyInterval != 30*time.Second {
		t.Errorf("NotifyInterval = %v, want 30s", cfg.NotifyInterval)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	content := "POSTGRES_CONN_STR=host=envfile-db\nLIKE_WEIGHT=7\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	defer os.Unsetenv("POSTGRES_CONN_STR")
	defer os.Unsetenv("LIKE_WEIGHT")

	cfg := Load()

	if cfg.PostgresConnStr != "host=envfile-db" {
		t.Errorf("PostgresConnStr = %q, value defined only in .env never reached Config", cfg.PostgresConnStr)
	}
	if cfg.LikeWeight != 7 {
		t.Errorf("LikeWeight = %d, want 7 from .env", cfg.LikeWeight)
	}
}

func TestLoadEnvironmentWinsOverDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=7777\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("PORT", "9999")

	if cfg := Load(); cfg.Port != "9999" {
		t.Errorf("Port = %s, environment variable must win over .env", cfg.Port)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SYNC_WORKERS", "lots")
	t.Setenv("NOTIFY_INTERVAL", "soon")

	cfg := Load()

	if cfg.SyncWorkers != 4 {
		t.Errorf("SyncWorkers = %d, want default 4 on parse failure", cfg.SyncWorkers)
	}
	if cfg.NotifyInterval != 15*time.Minute {
		t.Errorf("NotifyInterval = %v, want default 15m on parse failure", cfg.NotifyInterval)
	}
}
