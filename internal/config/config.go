package config

import (
	"os"
	"strconv"
	"strings"

	"datalens/internal/errors"

	"github.com/spf13/viper"
)

// Storage backends understood by the storage factory
const (
	BackendFilesystem = "fs"
	BackendPostgres   = "postgres"
	BackendS3         = "s3"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Charts    ChartConfig
	Profiling ProfilingConfig
	LogLevel  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// StorageConfig selects the object store and the fixed dataset location
type StorageConfig struct {
	Backend    string
	Bucket     string
	DatasetKey string

	// fs backend
	BaseDir string

	// postgres backend
	DatabaseURL string

	// s3 backend
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Region    string
	S3UseSSL    bool
}

// ChartConfig controls where and how large the rendered chart is
type ChartConfig struct {
	OutputPath string
	Width      int
	Height     int
}

// ProfilingConfig holds the ops/pprof server settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		Storage:   *loadStorageConfig(),
		Charts:    *loadChartConfig(),
		Profiling: *loadProfilingConfig(),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// LoadFile layers an optional YAML file under the environment. Keys are the
// lowercase forms of the environment variable names (storage_backend,
// dataset_key, ...). An empty path means environment and defaults only.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:    v.GetString("port"),
			GinMode: v.GetString("gin_mode"),
		},
		Storage: StorageConfig{
			Backend:     strings.ToLower(v.GetString("storage_backend")),
			Bucket:      v.GetString("storage_bucket"),
			DatasetKey:  v.GetString("dataset_key"),
			BaseDir:     v.GetString("storage_dir"),
			DatabaseURL: v.GetString("database_url"),
			S3Endpoint:  v.GetString("s3_endpoint"),
			S3AccessKey: v.GetString("s3_access_key"),
			S3SecretKey: v.GetString("s3_secret_key"),
			S3Region:    v.GetString("s3_region"),
			S3UseSSL:    v.GetBool("s3_use_ssl"),
		},
		Charts: ChartConfig{
			OutputPath: v.GetString("chart_path"),
			Width:      v.GetInt("chart_width"),
			Height:     v.GetInt("chart_height"),
		},
		Profiling: ProfilingConfig{
			Port:    v.GetString("pprof_port"),
			Enabled: v.GetBool("pprof_enabled"),
		},
		LogLevel: v.GetString("log_level"),
	}

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"port":            "8080",
		"gin_mode":        "debug",
		"storage_backend": BackendFilesystem,
		"storage_bucket":  "data-analysis-visualize",
		"dataset_key":     "Pokemons.csv",
		"storage_dir":     "./data",
		"s3_region":       "us-east-1",
		"s3_use_ssl":      true,
		"chart_path":      "./artifacts/visualization.png",
		"chart_width":     1000,
		"chart_height":    600,
		"pprof_port":      "6060",
		"pprof_enabled":   false,
		"log_level":       "INFO",
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		Backend:     strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", BackendFilesystem)),
		Bucket:      getEnvOrDefault("STORAGE_BUCKET", "data-analysis-visualize"),
		DatasetKey:  getEnvOrDefault("DATASET_KEY", "Pokemons.csv"),
		BaseDir:     getEnvOrDefault("STORAGE_DIR", "./data"),
		DatabaseURL: getEnvOrDefault("DATABASE_URL", ""),
		S3Endpoint:  getEnvOrDefault("S3_ENDPOINT", ""),
		S3AccessKey: getEnvOrDefault("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnvOrDefault("S3_SECRET_KEY", ""),
		S3Region:    getEnvOrDefault("S3_REGION", "us-east-1"),
		S3UseSSL:    getEnvBoolOrDefault("S3_USE_SSL", true),
	}
}

func loadChartConfig() *ChartConfig {
	return &ChartConfig{
		OutputPath: getEnvOrDefault("CHART_PATH", "./artifacts/visualization.png"),
		Width:      getEnvIntOrDefault("CHART_WIDTH", 1000),
		Height:     getEnvIntOrDefault("CHART_HEIGHT", 600),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

// Validate checks the backend-specific required settings
func Validate(config *Config) error {
	if config.Storage.Bucket == "" {
		return errors.ConfigInvalid("STORAGE_BUCKET is required")
	}
	if config.Storage.DatasetKey == "" {
		return errors.ConfigInvalid("DATASET_KEY is required")
	}
	switch config.Storage.Backend {
	case BackendFilesystem:
		if config.Storage.BaseDir == "" {
			return errors.ConfigInvalid("STORAGE_DIR is required for the fs backend")
		}
	case BackendPostgres:
		if config.Storage.DatabaseURL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the postgres backend")
		}
	case BackendS3:
		if config.Storage.S3Endpoint == "" {
			return errors.ConfigInvalid("S3_ENDPOINT is required for the s3 backend")
		}
	default:
		return errors.ConfigInvalid("unknown STORAGE_BACKEND: " + config.Storage.Backend)
	}
	if config.Charts.OutputPath == "" {
		return errors.ConfigInvalid("CHART_PATH is required")
	}
	if config.Charts.Width <= 0 || config.Charts.Height <= 0 {
		return errors.ConfigInvalid("chart dimensions must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
