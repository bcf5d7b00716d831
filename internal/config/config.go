package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/agronomy-cli/internal/resilience"
)

// Config holds the full application configuration.
type Config struct {
	Soil        SoilConfig        `yaml:"soil" mapstructure:"soil"`
	OpenWeather OpenWeatherConfig `yaml:"openweather" mapstructure:"openweather"`
	Translate   TranslateConfig   `yaml:"translate" mapstructure:"translate"`
	Anthropic   AnthropicConfig   `yaml:"anthropic" mapstructure:"anthropic"`
	Resilience  ResilienceConfig  `yaml:"resilience" mapstructure:"resilience"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Monitoring  MonitoringConfig  `yaml:"monitoring" mapstructure:"monitoring"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// SoilConfig locates the soil survey dataset. Path may be a local file or an
// http(s) URL; .xlsx selects the workbook reader.
type SoilConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// OpenWeatherConfig holds OpenWeather credentials for geocoding and forecasts.
type OpenWeatherConfig struct {
	Key        string  `yaml:"key" mapstructure:"key"`
	BaseURL    string  `yaml:"base_url" mapstructure:"base_url"`
	Country    string  `yaml:"country" mapstructure:"country"`
	RatePerSec float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// TranslateConfig points at a LibreTranslate-compatible service.
type TranslateConfig struct {
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	Key            string `yaml:"key" mapstructure:"key"`
	SourceLanguage string `yaml:"source_language" mapstructure:"source_language"`
}

// AnthropicConfig holds Anthropic API settings for the farm assistant.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ResilienceConfig tunes retry and circuit breaking around external providers.
type ResilienceConfig struct {
	MaxAttempts             int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs        int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs            int `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
	CircuitFailureThreshold int `yaml:"circuit_failure_threshold" mapstructure:"circuit_failure_threshold"`
	CircuitResetSecs        int `yaml:"circuit_reset_secs" mapstructure:"circuit_reset_secs"`
	TimeoutSecs             int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Settings converts the config into resilience guard settings.
func (r ResilienceConfig) Settings() resilience.Settings {
	return resilience.SettingsFrom(
		r.MaxAttempts,
		r.InitialBackoffMs,
		r.MaxBackoffMs,
		r.CircuitFailureThreshold,
		r.CircuitResetSecs,
		r.TimeoutSecs,
	)
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver               string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL          string `yaml:"database_url" mapstructure:"database_url"`
	GeocodeCacheTTLHours int    `yaml:"geocode_cache_ttl_hours" mapstructure:"geocode_cache_ttl_hours"`
}

// GeocodeTTL returns the geocode cache lifetime.
func (s StoreConfig) GeocodeTTL() time.Duration {
	return time.Duration(s.GeocodeCacheTTLHours) * time.Hour
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// MonitoringConfig configures background alerting during serve. Alerting
// is off when WebhookURL is empty; a zero CostThresholdUSD disables the
// spend alert.
type MonitoringConfig struct {
	WebhookURL        string  `yaml:"webhook_url" mapstructure:"webhook_url"`
	CheckIntervalSecs int     `yaml:"check_interval_secs" mapstructure:"check_interval_secs"`
	CostThresholdUSD  float64 `yaml:"cost_threshold_usd" mapstructure:"cost_threshold_usd"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config.yaml and the environment, in
// increasing order of precedence. Variables already set in the process
// environment are never overwritten by .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("AGRONOMY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional provider variables.
	if err := v.BindEnv("openweather.key", "AGRONOMY_OPENWEATHER_KEY", "OPENWEATHER_API_KEY"); err != nil {
		return nil, eris.Wrap(err, "config: bind env")
	}
	if err := v.BindEnv("anthropic.key", "AGRONOMY_ANTHROPIC_KEY", "ANTHROPIC_API_KEY"); err != nil {
		return nil, eris.Wrap(err, "config: bind env")
	}

	// Defaults
	v.SetDefault("soil.path", "data/soil_data.csv")
	v.SetDefault("openweather.key", "")
	v.SetDefault("openweather.base_url", "https://api.openweathermap.org")
	v.SetDefault("openweather.country", "IN")
	v.SetDefault("openweather.rate_per_sec", 1.0)
	v.SetDefault("translate.base_url", "")
	v.SetDefault("translate.key", "")
	v.SetDefault("translate.source_language", "en")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("resilience.max_attempts", 2)
	v.SetDefault("resilience.initial_backoff_ms", 250)
	v.SetDefault("resilience.max_backoff_ms", 2000)
	v.SetDefault("resilience.circuit_failure_threshold", 5)
	v.SetDefault("resilience.circuit_reset_secs", 30)
	v.SetDefault("resilience.timeout_secs", 10)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "agronomy.db")
	v.SetDefault("store.geocode_cache_ttl_hours", 168)
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("monitoring.webhook_url", "")
	v.SetDefault("monitoring.check_interval_secs", 300)
	v.SetDefault("monitoring.cost_threshold_usd", 0.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration for the given mode ("serve" or "cli").
// Missing provider keys are not errors; those features degrade at runtime.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
	case "cli":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch strings.ToLower(c.Store.Driver) {
	case "", "sqlite":
	case "postgres", "postgresql":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required for postgres")
		}
	default:
		errs = append(errs, "store.driver must be sqlite or postgres")
	}

	r := c.Resilience
	if r.MaxAttempts < 1 || r.MaxAttempts > 10 {
		errs = append(errs, "resilience.max_attempts must be between 1 and 10")
	}
	if r.InitialBackoffMs < 0 || r.MaxBackoffMs < r.InitialBackoffMs {
		errs = append(errs, "resilience.max_backoff_ms must be >= initial_backoff_ms >= 0")
	}
	if r.CircuitFailureThreshold < 1 {
		errs = append(errs, "resilience.circuit_failure_threshold must be >= 1")
	}
	if r.TimeoutSecs < 1 {
		errs = append(errs, "resilience.timeout_secs must be >= 1")
	}
	if c.Store.GeocodeCacheTTLHours < 0 {
		errs = append(errs, "store.geocode_cache_ttl_hours must be >= 0")
	}
	if c.Monitoring.CheckIntervalSecs < 0 || c.Monitoring.CostThresholdUSD < 0 {
		errs = append(errs, "monitoring.check_interval_secs and cost_threshold_usd must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
