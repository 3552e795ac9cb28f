package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	BrightData BrightDataConfig `yaml:"brightdata" mapstructure:"brightdata"`
	Enrich     EnrichConfig     `yaml:"enrich" mapstructure:"enrich"`
	Retry      RetryConfig      `yaml:"retry" mapstructure:"retry"`
	Circuit    CircuitConfig    `yaml:"circuit" mapstructure:"circuit"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// BrightDataConfig holds Bright Data API settings.
type BrightDataConfig struct {
	APIKey       string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	SERPZone     string `yaml:"serp_zone" mapstructure:"serp_zone"`
	UnlockerZone string `yaml:"unlocker_zone" mapstructure:"unlocker_zone"`
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout returns the per-request timeout.
func (c BrightDataConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// EnrichConfig configures lead resolution.
type EnrichConfig struct {
	MinConfidence    float64 `yaml:"min_confidence" mapstructure:"min_confidence"`
	ProbeTimeoutSecs int     `yaml:"probe_timeout_secs" mapstructure:"probe_timeout_secs"`
	LeadDelayMs      int     `yaml:"lead_delay_ms" mapstructure:"lead_delay_ms"`
	BatchQueries     bool    `yaml:"batch_queries" mapstructure:"batch_queries"`
	LinkedInScrape   bool    `yaml:"linkedin_scrape" mapstructure:"linkedin_scrape"`
	CompanyResults   int     `yaml:"company_results" mapstructure:"company_results"`
	LinkedInResults  int     `yaml:"linkedin_results" mapstructure:"linkedin_results"`
	PersonResults    int     `yaml:"person_results" mapstructure:"person_results"`
	Similarity       string  `yaml:"similarity" mapstructure:"similarity"`
}

// ProbeTimeout returns the direct probe timeout.
func (c EnrichConfig) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSecs) * time.Second
}

// LeadDelay returns the pause between two leads.
func (c EnrichConfig) LeadDelay() time.Duration {
	return time.Duration(c.LeadDelayMs) * time.Millisecond
}

// RetryConfig configures retries of provider calls.
type RetryConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
}

// CircuitConfig configures the provider circuit breaker.
type CircuitConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// CacheConfig configures the provider response cache.
type CacheConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	TTLHours    int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}

// TTL returns how long cached responses stay valid.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("brightdata.api_key", "")
	v.SetDefault("brightdata.base_url", "https://api.brightdata.com")
	v.SetDefault("brightdata.serp_zone", "serp_api1")
	v.SetDefault("brightdata.unlocker_zone", "web_unlocker1")
	v.SetDefault("brightdata.timeout_secs", 60)
	v.SetDefault("enrich.min_confidence", 0.8)
	v.SetDefault("enrich.probe_timeout_secs", 5)
	v.SetDefault("enrich.lead_delay_ms", 1000)
	v.SetDefault("enrich.batch_queries", false)
	v.SetDefault("enrich.linkedin_scrape", true)
	v.SetDefault("enrich.company_results", 10)
	v.SetDefault("enrich.linkedin_results", 10)
	v.SetDefault("enrich.person_results", 5)
	v.SetDefault("enrich.similarity", "token_sort")
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_backoff_ms", 500)
	v.SetDefault("retry.max_backoff_ms", 10000)
	v.SetDefault("circuit.failure_threshold", 5)
	v.SetDefault("circuit.reset_timeout_secs", 30)
	v.SetDefault("cache.driver", "none")
	v.SetDefault("cache.database_url", "")
	v.SetDefault("cache.ttl_hours", 24)
	v.SetDefault("server.port", 8080)
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
