package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/hoanghoa12345/stash-box/internal/shared/config"
)

type Config struct {
	Environment      string                              `mapstructure:"environment"`
	Server           sharedConfig.ServerConfig           `mapstructure:"server"`
	Database         sharedConfig.DatabaseConfig         `mapstructure:"database"`
	Logger           sharedConfig.LoggerConfig           `mapstructure:"logger"`
	Session          sharedConfig.SessionConfig          `mapstructure:"session"`
	IdentityProvider sharedConfig.IdentityProviderConfig `mapstructure:"identity_provider"`
	Redis            sharedConfig.RedisConfig            `mapstructure:"redis"`
	RateLimit        sharedConfig.RateLimitConfig        `mapstructure:"rate_limit"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("STASHBOX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if env != "" {
		viper.Set("environment", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The signing secret guards every session; refuse to start without one.
	if config.Session.Secret == "" {
		return nil, fmt.Errorf("session.secret is required")
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "stashbox_dev")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	viper.SetDefault("session.secret", "")
	viper.SetDefault("session.expiry_days", 7)
	viper.SetDefault("session.state_sweep_minutes", 10)

	viper.SetDefault("identity_provider.base_url", "")
	viper.SetDefault("identity_provider.api_key", "")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.limit", 30)
	viper.SetDefault("rate_limit.window_seconds", 60)
}
