// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultUpstreamBaseURL = "https://gavg8gilmf.execute-api.ap-southeast-2.amazonaws.com/staging"
	DefaultIndex           = "address-activity"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	registerDefaults(v)

	// Enable ENV override like UPSTREAM_BASE_URL
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // ignore error if not found

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	registerDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := overrideFromLegacyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the working directory or the project root.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// registerDefaults makes every key known to viper so AutomaticEnv can bind it.
func registerDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "address-validator")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.base_url", "")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.graphql_path", "/api/gql")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.read_timeout", 15000)
	v.SetDefault("server.write_timeout", 30000)
	v.SetDefault("server.shutdown_timeout", 10000)

	v.SetDefault("upstream.base_url", DefaultUpstreamBaseURL)
	v.SetDefault("upstream.auth_token", "")
	v.SetDefault("upstream.timeout", 10000)

	v.SetDefault("database.elasticsearch.addresses", []string{"http://localhost:9200"})
	v.SetDefault("database.elasticsearch.url", "")
	v.SetDefault("database.elasticsearch.api_key", "")
	v.SetDefault("database.elasticsearch.username", "")
	v.SetDefault("database.elasticsearch.password", "")
	v.SetDefault("database.elasticsearch.index", DefaultIndex)
	v.SetDefault("database.elasticsearch.timeout", 5000)

	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)
	v.SetDefault("database.redis.timeout", 3000)

	v.SetDefault("session.enabled", true)
	v.SetDefault("session.ttl", 86400)

	v.SetDefault("features.server_side_logging", true)
	v.SetDefault("features.debug", false)

	v.SetDefault("maps.api_key", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("observability.service_name", "address-validator")
	v.SetDefault("observability.jaeger_endpoint", "")
}

// expandEnvVars replaces ${VAR} placeholders left in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideFromLegacyEnv maps the flat variable names the deployment already uses.
func overrideFromLegacyEnv(cfg *Config) error {
	if val := firstEnv("GOOGLE_MAPS_API_KEY", "NEXT_PUBLIC_GOOGLE_MAPS_API_KEY"); val != "" {
		cfg.Maps.APIKey = val
	}
	if val := os.Getenv("AUTH_TOKEN"); val != "" {
		cfg.Upstream.AuthToken = val
	}
	if val := os.Getenv("ELASTICSEARCH_API_KEY"); val != "" {
		cfg.Database.Elasticsearch.APIKey = val
	}
	if val := os.Getenv("ELASTICSEARCH_URL"); val != "" {
		cfg.Database.Elasticsearch.URL = val
	}
	if val := os.Getenv("ELASTICSEARCH_INDEX"); val != "" {
		cfg.Database.Elasticsearch.Index = val
	}
	if val := firstEnv("BASE_URL", "NEXT_PUBLIC_BASE_URL"); val != "" {
		cfg.App.BaseURL = val
	}
	if val := os.Getenv("REDIS_ADDRESS"); val != "" {
		cfg.Database.Redis.Address = val
	}
	if val := os.Getenv("JAEGER_ENDPOINT"); val != "" {
		cfg.Observability.JaegerEndpoint = val
	}
	if val := os.Getenv("NODE_ENV"); val != "" && os.Getenv("APP_ENVIRONMENT") == "" {
		cfg.App.Environment = val
	}

	if val, ok := os.LookupEnv("ENABLE_ANALYTICS"); ok && val != "" {
		cfg.Features.ServerSideLogging = ParseBool(val, cfg.Features.ServerSideLogging)
	}
	if val, ok := os.LookupEnv("DEBUG"); ok && val != "" {
		cfg.Features.Debug = ParseBool(val, false)
	}

	if val := os.Getenv("PORT"); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("environment variable PORT is not a valid number: %s", val)
		}
		cfg.Server.Port = port
	}

	return nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	return ""
}

// ParseBool accepts true/1/yes/on (any case) as true and false/0/no/off as false.
func ParseBool(value string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	return defaultValue
}

// applyDefaults fills derived or still-empty fields after env overrides.
func applyDefaults(cfg *Config) {
	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}
	if cfg.Database.Elasticsearch.Index == "" {
		cfg.Database.Elasticsearch.Index = DefaultIndex
	}
	cfg.Upstream.BaseURL = strings.TrimSuffix(cfg.Upstream.BaseURL, "/")

	if cfg.Features.Debug {
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = "console"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}

	if cfg.Database.Elasticsearch.GetURL() == "" {
		return fmt.Errorf("database.elasticsearch.addresses or url is required")
	}
	if cfg.Session.Enabled && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required when session.enabled is set")
	}

	return nil
}
