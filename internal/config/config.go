package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppName names the config directory and the environment prefix
const AppName = "lazymongo"

// Config holds all application configuration
type Config struct {
	General     GeneralConfig     `mapstructure:"general"`
	Connection  ConnectionConfig  `mapstructure:"connection"`
	UI          UIConfig          `mapstructure:"ui"`
	Data        DataConfig        `mapstructure:"data"`
	Query       QueryConfig       `mapstructure:"query"`
	History     HistoryConfig     `mapstructure:"history"`
	Performance PerformanceConfig `mapstructure:"performance"`
	Export      ExportConfig      `mapstructure:"export"`
	Log         LogConfig         `mapstructure:"log"`
}

type GeneralConfig struct {
	DefaultPageSize int  `mapstructure:"default_page_size"`
	MaxFilters      int  `mapstructure:"max_filters"`
	AutoConnect     bool `mapstructure:"auto_connect"`
}

type ConnectionConfig struct {
	Name             string `mapstructure:"name"`
	URI              string `mapstructure:"uri"`
	Database         string `mapstructure:"database"`
	Collection       string `mapstructure:"collection"`
	ConnectTimeoutMs int    `mapstructure:"connect_timeout_ms"`
	Discover         bool   `mapstructure:"discover"`
	DiscoverPorts    []int  `mapstructure:"discover_ports"`
}

type UIConfig struct {
	Theme           string `mapstructure:"theme"`
	MouseEnabled    bool   `mapstructure:"mouse_enabled"`
	PanelWidthRatio int    `mapstructure:"panel_width_ratio"`
}

type DataConfig struct {
	MaxCellDisplayLength int `mapstructure:"max_cell_display_length"`
	SampleSize           int `mapstructure:"sample_size"`
}

type QueryConfig struct {
	EmptyMarker      string `mapstructure:"empty_marker"`
	CombinePolicy    string `mapstructure:"combine_policy"`
	DebounceMs       int    `mapstructure:"debounce_ms"`
	AggregationLimit int    `mapstructure:"aggregation_limit"`
	AllowDiskUse     bool   `mapstructure:"allow_disk_use"`
}

type HistoryConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	MaxEntries        int    `mapstructure:"max_entries"`
	Path              string `mapstructure:"path"`
	SaveFailedQueries bool   `mapstructure:"save_failed_queries"`
}

type PerformanceConfig struct {
	ConnectionPoolSize int `mapstructure:"connection_pool_size"`
	QueryTimeout       int `mapstructure:"query_timeout"`
	CacheEntries       int `mapstructure:"cache_entries"`
}

type ExportConfig struct {
	Directory     string `mapstructure:"directory"`
	DefaultFormat string `mapstructure:"default_format"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// defaults mirrors GetDefaults as viper keys
var defaults = map[string]any{
	"general.default_page_size":        100,
	"general.max_filters":              20,
	"general.auto_connect":             true,
	"connection.name":                  "",
	"connection.uri":                   "",
	"connection.database":              "",
	"connection.collection":            "",
	"connection.connect_timeout_ms":    10000,
	"connection.discover":              true,
	"connection.discover_ports":        []int{27017, 27018, 27019},
	"ui.theme":                         "default",
	"ui.mouse_enabled":                 true,
	"ui.panel_width_ratio":             30,
	"data.max_cell_display_length":     60,
	"data.sample_size":                 500,
	"query.empty_marker":               "[EMPTY]",
	"query.combine_policy":             "and",
	"query.debounce_ms":                500,
	"query.aggregation_limit":          0,
	"query.allow_disk_use":             true,
	"history.enabled":                  true,
	"history.max_entries":              1000,
	"history.path":                     "",
	"history.save_failed_queries":      true,
	"performance.connection_pool_size": 5,
	"performance.query_timeout":        30000,
	"performance.cache_entries":        64,
	"export.directory":                 ".",
	"export.default_format":            "csv",
	"log.level":                        "info",
	"log.file":                         "",
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		General: GeneralConfig{
			DefaultPageSize: 100,
			MaxFilters:      20,
			AutoConnect:     true,
		},
		Connection: ConnectionConfig{
			ConnectTimeoutMs: 10000,
			Discover:         true,
			DiscoverPorts:    []int{27017, 27018, 27019},
		},
		UI: UIConfig{
			Theme:           "default",
			MouseEnabled:    true,
			PanelWidthRatio: 30,
		},
		Data: DataConfig{
			MaxCellDisplayLength: 60,
			SampleSize:           500,
		},
		Query: QueryConfig{
			EmptyMarker:   "[EMPTY]",
			CombinePolicy: "and",
			DebounceMs:    500,
			AllowDiskUse:  true,
		},
		History: HistoryConfig{
			Enabled:           true,
			MaxEntries:        1000,
			SaveFailedQueries: true,
		},
		Performance: PerformanceConfig{
			ConnectionPoolSize: 5,
			QueryTimeout:       30000,
			CacheEntries:       64,
		},
		Export: ExportConfig{
			Directory:     ".",
			DefaultFormat: "csv",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// LAZYMONGO_CONNECTION_URI overrides connection.uri
	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load loads configuration from the first config.yaml found
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")

	// Add config paths in priority order
	// 1. User config directory
	if configDir, err := GetConfigPath(); err == nil {
		v.AddConfigPath(configDir)
	}

	// 2. Current directory
	v.AddConfigPath(".")

	// 3. Default config directory
	v.AddConfigPath("./config")

	// Read config (it's okay if file doesn't exist, we have defaults)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFile loads configuration from an explicit file
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config %s: %w", path, err)
	}
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName), nil
}

// HistoryPath returns the configured history database, defaulting to the config directory
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	dir, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// LogPath returns the configured log file, defaulting to the config directory
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName+".log"), nil
}

// LogLevel parses log.level, defaulting to info
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Debounce returns the refetch quiet period
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Query.DebounceMs) * time.Millisecond
}

// QueryTimeout returns the per-call store timeout
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.Performance.QueryTimeout) * time.Millisecond
}

// ConnectTimeout returns the connection timeout
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.Connection.ConnectTimeoutMs) * time.Millisecond
}
