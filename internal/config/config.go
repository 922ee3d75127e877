package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/dryerd/dryerd/internal/storage"
)

// Config represents the dryerd configuration
type Config struct {
	// Local cache mount
	Storage StorageConfig `mapstructure:"storage"`

	// Remote artifact store
	Blob BlobConfig `mapstructure:"blob"`

	// Model identifiers served by the prediction pipeline
	Models ModelsConfig `mapstructure:"models"`

	// HTTP server settings
	Server ServerConfig `mapstructure:"server"`
}

type StorageConfig struct {
	MountRoot string `mapstructure:"mount_root"`
}

type BlobConfig struct {
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
	Region string `mapstructure:"region"`

	// Endpoint overrides the S3 endpoint (minio, localstack).
	Endpoint string `mapstructure:"endpoint"`

	// LocalDir switches to a filesystem-backed store for development
	// and tests instead of S3.
	LocalDir string `mapstructure:"local_dir"`
}

type ModelsConfig struct {
	DryingTime   string `mapstructure:"drying_time"`
	Distribution string `mapstructure:"distribution"`
}

type ServerConfig struct {
	Addr      string  `mapstructure:"addr"`
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

var (
	cfg *Config
	v   *viper.Viper
)

// Initialize sets up the configuration
func Initialize() error {
	v = viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// 1. Current working directory
	v.AddConfigPath(".")

	// 2. User config directory
	if configDir := getUserConfigDir(); configDir != "" {
		v.AddConfigPath(configDir)
	}

	setDefaults(v)

	// Bind environment variables
	v.SetEnvPrefix("DRYERD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is ok, we'll use defaults
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	expandPaths(cfg)

	return nil
}

// setDefaults sets all default values
func setDefaults(v *viper.Viper) {
	// Storage defaults. DRYERD_HOME takes precedence over the platform
	// mount path, same as at the storage layer.
	root := os.Getenv("DRYERD_HOME")
	if root == "" {
		root = storage.DefaultMountRoot
	}
	v.SetDefault("storage.mount_root", root)

	// Remote store defaults match the provisioned bucket layout
	v.SetDefault("blob.bucket", "dryer-data")
	v.SetDefault("blob.prefix", "Meta/Models/new_models")
	v.SetDefault("blob.region", "")
	v.SetDefault("blob.endpoint", "")
	v.SetDefault("blob.local_dir", "")

	// Model identifiers are opaque artifact names in the bucket
	v.SetDefault("models.drying_time", "predict_drying_time.sklearn")
	v.SetDefault("models.distribution", "predict_distribution.tensorflow")

	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.rate_limit", 10.0) // requests per second per client
	v.SetDefault("server.rate_burst", 20)
}

// getUserConfigDir returns the user's config directory
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "dryerd")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "dryerd")
}

// expandPaths expands ~ and environment variables in path settings
func expandPaths(cfg *Config) {
	cfg.Storage.MountRoot = expandPath(cfg.Storage.MountRoot)
	cfg.Blob.LocalDir = expandPath(cfg.Blob.LocalDir)
}

// expandPath expands ~ and environment variables
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	return os.ExpandEnv(path)
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		panic("config not initialized")
	}
	return cfg
}

// GetViper returns the viper instance
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized")
	}
	return v
}

// Reset discards any loaded configuration. Tests use this to start
// from a clean state.
func Reset() {
	cfg = nil
	v = nil
}
