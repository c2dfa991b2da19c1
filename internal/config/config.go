package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	AI        AIConfig        `mapstructure:"ai"`
	Trending  TrendingConfig  `mapstructure:"trending"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite
	DSN    string `mapstructure:"dsn"`    // Connection string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// AIConfig holds generation gateway settings
type AIConfig struct {
	Provider        string   `mapstructure:"provider"` // gemini or anthropic
	GoogleAPIKey    string   `mapstructure:"google_api_key"`
	AnthropicAPIKey string   `mapstructure:"anthropic_api_key"`
	Endpoint        string   `mapstructure:"endpoint"` // override for the Gemini REST endpoint
	Models          []string `mapstructure:"models"`   // optional ladder override, capability-first
}

// Enabled reports whether a generation credential is available for the
// configured provider. When false, generation-dependent operations are
// disabled but pure-storage reads keep working.
func (c AIConfig) Enabled() bool {
	switch c.Provider {
	case "anthropic":
		return c.AnthropicAPIKey != ""
	default:
		return c.GoogleAPIKey != ""
	}
}

// TrendingConfig holds trending-topic settings
type TrendingConfig struct {
	Region string `mapstructure:"region"`
}

// SchedulerConfig holds cron settings for the scheduler binary
type SchedulerConfig struct {
	TrendingCron string `mapstructure:"trending_cron"`
	GenerateCron string `mapstructure:"generate_cron"`
	CleanupCron  string `mapstructure:"cleanup_cron"`
	HealthPort   string `mapstructure:"health_port"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
	Output string `mapstructure:"output"` // stdout or file path
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	// Load .env file if present (ignore errors if not found)
	_ = godotenv.Load()
	_ = godotenv.Load(".env.local")

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in current directory and configs folder
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")

		// Also check user's home directory
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".newsroom-agent"))
		}
	}

	// Environment variables
	v.SetEnvPrefix("NEWSROOM")
	v.AutomaticEnv()

	// Explicit bindings for nested keys (Viper doesn't auto-bind underscored nested keys)
	v.BindEnv("database.dsn", "NEWSROOM_DATABASE_DSN")
	v.BindEnv("server.port", "NEWSROOM_SERVER_PORT", "PORT")
	v.BindEnv("ai.provider", "NEWSROOM_AI_PROVIDER")
	v.BindEnv("ai.anthropic_api_key", "NEWSROOM_AI_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	v.BindEnv("trending.region", "NEWSROOM_TRENDING_REGION")
	v.BindEnv("logging.level", "NEWSROOM_LOGGING_LEVEL")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// The generation credential is accepted under two variable names;
	// the first present wins.
	if config.AI.GoogleAPIKey == "" {
		config.AI.GoogleAPIKey = resolveGoogleKey()
	}

	return &config, nil
}

// resolveGoogleKey returns the first configured Google credential
func resolveGoogleKey() string {
	for _, name := range []string{"GOOGLE_AI_API_KEY", "GEMINI_API_KEY"} {
		if key := os.Getenv(name); key != "" {
			return key
		}
	}
	return ""
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./data/newsroom.db")

	// Server defaults
	v.SetDefault("server.port", "8080")

	// AI defaults
	v.SetDefault("ai.provider", "gemini")

	// Trending defaults
	v.SetDefault("trending.region", "India")

	// Scheduler defaults
	v.SetDefault("scheduler.trending_cron", "0 */6 * * *")  // Every 6 hours
	v.SetDefault("scheduler.generate_cron", "30 */2 * * *") // Every 2 hours, refill when thin
	v.SetDefault("scheduler.cleanup_cron", "0 3 * * *")     // Daily topic cleanup
	v.SetDefault("scheduler.health_port", "10000")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stdout")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.AI.Provider != "gemini" && c.AI.Provider != "anthropic" {
		return fmt.Errorf("ai.provider must be gemini or anthropic, got %q", c.AI.Provider)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	return nil
}
