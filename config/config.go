package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/gallery"
	"github.com/sagarc03/gallery/database"
	galleryhttp "github.com/sagarc03/gallery/http"
	"github.com/sagarc03/gallery/objectstore"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for the gallery server.
type Config struct {
	Env      string                 `mapstructure:"env"`
	Server   ServerConfig           `mapstructure:"server"`
	Storage  StorageConfig          `mapstructure:"storage"`
	Database database.Config        `mapstructure:"database"`
	CORS     galleryhttp.CORSConfig `mapstructure:"cors"`
	Log      LogConfig              `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port  int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Title string `mapstructure:"title"`
	// ShutdownTimeout bounds graceful shutdown after SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=0"`
}

// StorageConfig holds the object store settings plus the key layout.
type StorageConfig struct {
	objectstore.Config `mapstructure:",squash"`

	UploadPrefix  string        `mapstructure:"upload_prefix" validate:"required"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry" validate:"min=0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// IsProduction reports whether Env selects production logging.
func (c *Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

// ServiceConfig returns the GalleryService settings.
func (c *Config) ServiceConfig() gallery.ServiceConfig {
	return gallery.ServiceConfig{
		UploadPrefix:  c.Storage.UploadPrefix,
		PresignExpiry: c.Storage.PresignExpiry,
	}
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"db-type":     "database.type",
	"db-dsn":      "database.dsn",
	"db-table":    "database.table",
	"db-endpoint": "database.endpoint",
	"driver":      "storage.driver",
	"bucket":      "storage.bucket",
	"region":      "storage.region",
	"endpoint":    "storage.endpoint",
	"prefix":      "storage.upload_prefix",
	"port":        "server.port",
	"log-level":   "log.level",
}

// legacyEnv lists the unprefixed variable names each key also answers to.
var legacyEnv = map[string]string{
	"server.port":           "PORT",
	"storage.bucket":        "S3_BUCKET",
	"storage.region":        "S3_REGION",
	"storage.upload_prefix": "S3_UPLOAD_PREFIX",
	"database.table":        "DDB_TABLE",
	"database.region":       "AWS_REGION",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// bindEnv makes every key reachable through GALLERY_<KEY> and, where one
// exists, through its legacy name. The prefixed name wins.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("GALLERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := "GALLERY_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, prefixed, legacy)
	}
}

// setDefaults configures default values on the viper instance.
// Every key that should be settable from the environment needs a default.
func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")

	v.SetDefault("server.port", 3000)
	v.SetDefault("server.title", "Gallery")
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("storage.driver", "s3")
	v.SetDefault("storage.bucket", "luis-asset")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.use_ssl", true)
	v.SetDefault("storage.public_url_template", "")
	v.SetDefault("storage.upload_prefix", gallery.DefaultUploadPrefix)
	v.SetDefault("storage.presign_expiry", gallery.DefaultPresignExpiry)

	v.SetDefault("database.type", "dynamodb")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.table", "uploads")
	v.SetDefault("database.region", "")
	v.SetDefault("database.endpoint", "")

	v.SetDefault("cors.enabled", false)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("log.level", "info")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	bindEnv(v)

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// The metadata table lives next to the bucket unless told otherwise.
	if cfg.Database.Region == "" {
		cfg.Database.Region = cfg.Storage.Region
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
