package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFile_DefaultsMatch(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if !reflect.DeepEqual(cfg, GetDefaults()) {
		t.Errorf("defaults mismatch\n got: %+v\nwant: %+v", cfg, GetDefaults())
	}
}

func TestLoadFile_Overrides(t *testing.T) {
	path := writeConfig(t, `
connection:
  uri: mongodb://db:27017
  database: shop
  collection: orders
query:
  combine_policy: connector_nor
  empty_marker: "<none>"
  debounce_ms: 250
log:
  level: debug
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Connection.URI != "mongodb://db:27017" || cfg.Connection.Collection != "orders" {
		t.Errorf("connection = %+v", cfg.Connection)
	}
	if cfg.Query.CombinePolicy != "connector_nor" || cfg.Query.EmptyMarker != "<none>" {
		t.Errorf("query = %+v", cfg.Query)
	}
	if cfg.Debounce() != 250*time.Millisecond {
		t.Errorf("Debounce() = %v", cfg.Debounce())
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Errorf("LogLevel() = %v", cfg.LogLevel())
	}
	// untouched keys keep their defaults
	if cfg.General.DefaultPageSize != 100 {
		t.Errorf("DefaultPageSize = %d", cfg.General.DefaultPageSize)
	}
}

func TestLoadFile_EnvironmentOverride(t *testing.T) {
	t.Setenv("LAZYMONGO_CONNECTION_URI", "mongodb://env:27017")

	cfg, err := LoadFile(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Connection.URI != "mongodb://env:27017" {
		t.Errorf("URI = %q", cfg.Connection.URI)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadFile() should fail for a missing file")
	}
}

func TestLogLevelFallback(t *testing.T) {
	cfg := GetDefaults()
	cfg.Log.Level = "loud"
	if cfg.LogLevel() != slog.LevelInfo {
		t.Errorf("LogLevel() = %v", cfg.LogLevel())
	}

	cfg.History.Path = "/tmp/h.db"
	if p, _ := cfg.HistoryPath(); p != "/tmp/h.db" {
		t.Errorf("HistoryPath() = %q", p)
	}
}
