package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Server holds the HTTP server settings.
type Server struct {
	Address string `mapstructure:"address"`
	Debug   bool   `mapstructure:"debug"`
}

// DB holds the record store connection parameters.
type DB struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// Storage describes where templates, assets and archived documents live.
type Storage struct {
	Type     string `mapstructure:"type"`
	BasePath string `mapstructure:"basepath"`
	S3       S3     `mapstructure:"s3"`
}

// S3 holds the settings of an S3-compatible bucket.
type S3 struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// Logging holds the logger settings.
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Auth configures bearer token verification.
type Auth struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// Templates locates document templates and static assets inside storage.
type Templates struct {
	Prefix       string `mapstructure:"prefix"`
	AssetsPrefix string `mapstructure:"assets_prefix"`
	Catalog      string `mapstructure:"catalog"`
	Logo         string `mapstructure:"logo"`
}

// Signatures controls how signature images are fetched and sized.
type Signatures struct {
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
	DocxMaxWidth  int           `mapstructure:"docx_max_width"`
	DocxMaxHeight int           `mapstructure:"docx_max_height"`
	DocxFallbackW int           `mapstructure:"docx_fallback_width"`
	DocxFallbackH int           `mapstructure:"docx_fallback_height"`
	XLSXWidth     int           `mapstructure:"xlsx_width"`
	XLSXHeight    int           `mapstructure:"xlsx_height"`
}

// Documents controls archiving of generated files.
type Documents struct {
	Archive bool   `mapstructure:"archive"`
	Prefix  string `mapstructure:"prefix"`
}

// Chapter carries the organization details printed on documents.
type Chapter struct {
	Name   string `mapstructure:"name"`
	Number string `mapstructure:"number"`
	City   string `mapstructure:"city"`
	About  string `mapstructure:"about"`
}

// Config groups every configuration section.
type Config struct {
	Server     Server     `mapstructure:"server"`
	DB         DB         `mapstructure:"database"`
	Storage    Storage    `mapstructure:"storage"`
	Logging    Logging    `mapstructure:"logging"`
	Auth       Auth       `mapstructure:"auth"`
	Templates  Templates  `mapstructure:"templates"`
	Signatures Signatures `mapstructure:"signatures"`
	Documents  Documents  `mapstructure:"documents"`
	Chapter    Chapter    `mapstructure:"chapter"`
}

// Load reads the configuration from file and environment using viper.
func Load() (Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/capitulo862")

	viper.SetEnvPrefix("APP")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()
	bindEnvironmentVariables()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		// no file: environment variables and defaults only
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// setDefaults sets the default values
func setDefaults() {
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.debug", false)

	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "capitulo862.db")

	viper.SetDefault("storage.type", "local")
	viper.SetDefault("storage.basepath", "./data")
	viper.SetDefault("storage.s3.region", "us-east-1")
	viper.SetDefault("storage.s3.bucket", "capitulo862")
	viper.SetDefault("storage.s3.endpoint", "")
	viper.SetDefault("storage.s3.access_key", "")
	viper.SetDefault("storage.s3.secret_key", "")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	viper.SetDefault("auth.jwt_secret", "")
	viper.SetDefault("auth.issuer", "")

	viper.SetDefault("templates.prefix", "templates")
	viper.SetDefault("templates.assets_prefix", "assets")
	viper.SetDefault("templates.catalog", "catalog.yaml")
	viper.SetDefault("templates.logo", "logo.png")

	viper.SetDefault("signatures.fetch_timeout", 10*time.Second)
	viper.SetDefault("signatures.docx_max_width", 150)
	viper.SetDefault("signatures.docx_max_height", 60)
	viper.SetDefault("signatures.docx_fallback_width", 150)
	viper.SetDefault("signatures.docx_fallback_height", 50)
	viper.SetDefault("signatures.xlsx_width", 120)
	viper.SetDefault("signatures.xlsx_height", 50)

	viper.SetDefault("documents.archive", false)
	viper.SetDefault("documents.prefix", "documents")

	viper.SetDefault("chapter.name", "Capítulo Cavaleiros do Guaporé")
	viper.SetDefault("chapter.number", "862")
	viper.SetDefault("chapter.city", "")
	viper.SetDefault("chapter.about", "")
}

// bindEnvironmentVariables binds environment variables to config keys
func bindEnvironmentVariables() {
	viper.BindEnv("server.address", "APP_SERVER_ADDRESS")
	viper.BindEnv("server.debug", "APP_SERVER_DEBUG")

	viper.BindEnv("database.driver", "APP_DATABASE_DRIVER")
	viper.BindEnv("database.dsn", "APP_DATABASE_DSN")

	viper.BindEnv("storage.type", "APP_STORAGE_TYPE")
	viper.BindEnv("storage.basepath", "APP_STORAGE_BASEPATH")
	viper.BindEnv("storage.s3.region", "APP_STORAGE_S3_REGION")
	viper.BindEnv("storage.s3.bucket", "APP_STORAGE_S3_BUCKET")
	viper.BindEnv("storage.s3.endpoint", "APP_STORAGE_S3_ENDPOINT")
	viper.BindEnv("storage.s3.access_key", "APP_STORAGE_S3_ACCESS_KEY")
	viper.BindEnv("storage.s3.secret_key", "APP_STORAGE_S3_SECRET_KEY")

	viper.BindEnv("logging.level", "APP_LOGGING_LEVEL")
	viper.BindEnv("logging.format", "APP_LOGGING_FORMAT")

	viper.BindEnv("auth.jwt_secret", "APP_AUTH_JWT_SECRET")
	viper.BindEnv("auth.issuer", "APP_AUTH_ISSUER")

	viper.BindEnv("templates.prefix", "APP_TEMPLATES_PREFIX")
	viper.BindEnv("templates.assets_prefix", "APP_TEMPLATES_ASSETS_PREFIX")
	viper.BindEnv("templates.catalog", "APP_TEMPLATES_CATALOG")
	viper.BindEnv("templates.logo", "APP_TEMPLATES_LOGO")

	viper.BindEnv("signatures.fetch_timeout", "APP_SIGNATURES_FETCH_TIMEOUT")

	viper.BindEnv("documents.archive", "APP_DOCUMENTS_ARCHIVE")
	viper.BindEnv("documents.prefix", "APP_DOCUMENTS_PREFIX")

	viper.BindEnv("chapter.name", "APP_CHAPTER_NAME")
	viper.BindEnv("chapter.number", "APP_CHAPTER_NUMBER")
	viper.BindEnv("chapter.city", "APP_CHAPTER_CITY")
}

// validateConfig checks the loaded configuration
func validateConfig(cfg Config) error {
	if cfg.Server.Address == "" {
		return fmt.Errorf("server address cannot be empty")
	}

	if cfg.DB.Driver != "postgres" && cfg.DB.Driver != "sqlite" {
		return fmt.Errorf("database driver must be 'postgres' or 'sqlite', got: %s", cfg.DB.Driver)
	}

	if cfg.DB.DSN == "" {
		return fmt.Errorf("database DSN cannot be empty")
	}

	if cfg.Storage.Type != "local" && cfg.Storage.Type != "s3" {
		return fmt.Errorf("storage type must be 'local' or 's3', got: %s", cfg.Storage.Type)
	}

	if cfg.Storage.Type == "local" && cfg.Storage.BasePath == "" {
		return fmt.Errorf("storage basepath cannot be empty for local storage")
	}

	if cfg.Storage.Type == "s3" {
		if cfg.Storage.S3.Region == "" {
			return fmt.Errorf("S3 region cannot be empty")
		}
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket cannot be empty")
		}
	}

	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("auth jwt_secret cannot be empty")
	}

	if cfg.Signatures.DocxMaxWidth <= 0 || cfg.Signatures.DocxMaxHeight <= 0 {
		return fmt.Errorf("signature bounding box must be positive")
	}

	validLogLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	isValidLevel := false
	for _, level := range validLogLevels {
		if strings.ToLower(cfg.Logging.Level) == level {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		return fmt.Errorf("invalid logging level: %s. Valid levels: %v", cfg.Logging.Level, validLogLevels)
	}

	return nil
}

// IsDevelopment returns true when running in debug mode
func (c Config) IsDevelopment() bool {
	return c.Server.Debug
}

// String returns the configuration without sensitive values
func (c Config) String() string {
	return fmt.Sprintf("Config{Server: %+v, DB: {Driver: %s, DSN: [HIDDEN]}, Storage: {Type: %s, BasePath: %s, Bucket: %s}, Logging: %+v, Templates: %+v, Documents: %+v}",
		c.Server, c.DB.Driver, c.Storage.Type, c.Storage.BasePath, c.Storage.S3.Bucket, c.Logging, c.Templates, c.Documents)
}
