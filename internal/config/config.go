package config

import (
	"fmt"
	"os"
	"strconv"

	"recipebook/internal/model"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Logger   LoggerConfig   `yaml:"logger"`
	Auth     AuthConfig     `yaml:"auth"`
	S3       S3Config       `yaml:"s3"`
	Transfer TransferConfig `yaml:"transfer"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Supported catalog store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DatabaseConfig holds catalog store configuration.
// Path is used by the sqlite driver, the connection fields by postgres.
type DatabaseConfig struct {
	Driver          string `yaml:"driver"`
	Path            string `yaml:"path"`
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	Database        string `yaml:"database"`
	MaxConnections  int    `yaml:"max_connections"`
	MinConnections  int    `yaml:"min_connections"`
	MaxConnLifetime int    `yaml:"max_conn_lifetime"` // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// S3Config holds AWS S3 configuration for catalog documents.
type S3Config struct {
	Enabled bool   `yaml:"enabled"`
	Bucket  string `yaml:"bucket"`
	Region  string `yaml:"region"`
	Prefix  string `yaml:"prefix"` // Key prefix within bucket (e.g., "catalog/")
}

// TransferConfig holds import/export defaults.
type TransferConfig struct {
	ExportDir     string             `yaml:"export_dir"`
	RecipesFile   string             `yaml:"recipes_file"`
	DishTypesFile string             `yaml:"dish_types_file"`
	MergePolicy   model.MergePolicy  `yaml:"merge_policy"`
	DeletePolicy  model.DeletePolicy `yaml:"delete_policy"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Driver:          DriverSQLite,
			Path:            "data/recipebook.sqlite",
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Database:        "recipebook",
			MaxConnections:  25,
			MinConnections:  5,
			MaxConnLifetime: 300,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "json",
		},
		S3: S3Config{
			Region: "us-east-1",
			Prefix: "catalog/",
		},
		Transfer: TransferConfig{
			ExportDir:     "export",
			RecipesFile:   "recipes.json",
			DishTypesFile: "dish_types.json",
			MergePolicy:   model.MergeDuplicate,
			DeletePolicy:  model.DeleteOrphan,
		},
	}
}

// Load builds the configuration from defaults, the YAML file named by
// RECIPEBOOK_CONFIG (if any) and environment variables, in that order.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("RECIPEBOOK_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadFile overlays the YAML document at path onto c.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnv overrides c with environment variables that are set.
func (c *Config) applyEnv() {
	c.Server.Host = getEnv("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvAsInt("SERVER_PORT", c.Server.Port)

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.Path = getEnv("DB_PATH", c.Database.Path)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvAsInt("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Database = getEnv("DB_NAME", c.Database.Database)
	c.Database.MaxConnections = getEnvAsInt("DB_MAX_CONNECTIONS", c.Database.MaxConnections)
	c.Database.MinConnections = getEnvAsInt("DB_MIN_CONNECTIONS", c.Database.MinConnections)
	c.Database.MaxConnLifetime = getEnvAsInt("DB_MAX_CONN_LIFETIME", c.Database.MaxConnLifetime)

	c.Logger.Level = getEnv("LOG_LEVEL", c.Logger.Level)
	c.Logger.Format = getEnv("LOG_FORMAT", c.Logger.Format)

	c.Auth.APIKey = getEnv("API_KEY", c.Auth.APIKey)

	c.S3.Enabled = getEnvAsBool("S3_ENABLED", c.S3.Enabled)
	c.S3.Bucket = getEnv("S3_BUCKET", c.S3.Bucket)
	c.S3.Region = getEnv("S3_REGION", c.S3.Region)
	c.S3.Prefix = getEnv("S3_PREFIX", c.S3.Prefix)

	c.Transfer.ExportDir = getEnv("EXPORT_DIR", c.Transfer.ExportDir)
	c.Transfer.RecipesFile = getEnv("EXPORT_RECIPES_FILE", c.Transfer.RecipesFile)
	c.Transfer.DishTypesFile = getEnv("EXPORT_DISH_TYPES_FILE", c.Transfer.DishTypesFile)
	c.Transfer.MergePolicy = model.MergePolicy(getEnv("IMPORT_MERGE_POLICY", string(c.Transfer.MergePolicy)))
	c.Transfer.DeletePolicy = model.DeletePolicy(getEnv("DISH_TYPE_DELETE_POLICY", string(c.Transfer.DeletePolicy)))
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required for the sqlite driver")
		}
	case DriverPostgres:
		if err := c.Database.validatePostgres(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid database driver: %s (must be sqlite or postgres)", c.Database.Driver)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	if c.Transfer.RecipesFile == "" || c.Transfer.DishTypesFile == "" {
		return fmt.Errorf("export file names are required")
	}

	if c.Transfer.RecipesFile == c.Transfer.DishTypesFile {
		return fmt.Errorf("export file names must differ")
	}

	if _, err := model.ParseMergePolicy(string(c.Transfer.MergePolicy)); err != nil {
		return err
	}

	if _, err := model.ParseDeletePolicy(string(c.Transfer.DeletePolicy)); err != nil {
		return err
	}

	return nil
}

// ValidateServer checks the settings only the HTTP server needs.
func (c *Config) ValidateServer() error {
	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}
	return nil
}

func (c *DatabaseConfig) validatePostgres() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
