package config

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/solivagant/quote-api/internal/middleware"
	"github.com/solivagant/quote-api/internal/model"
	"github.com/solivagant/quote-api/internal/service/pricing"
)

// EnvPrefix is the prefix of every environment override, e.g. QUOTE_PORT.
const EnvPrefix = "QUOTE"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`

	// TrustedProxies lists the proxy addresses or CIDRs whose
	// X-Forwarded-For is honoured. Empty trusts none.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	IdleTTL           time.Duration `mapstructure:"idle_ttl"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// PricingConfig optionally replaces the built-in price table. An empty
// Services list keeps pricing.DefaultRules.
type PricingConfig struct {
	Services []ServiceConfig `mapstructure:"services"`
}

// ServiceConfig sets either Price (fixed) or Tiers (time based).
type ServiceConfig struct {
	ID    string            `mapstructure:"id"`
	Price string            `mapstructure:"price"`
	Tiers map[string]string `mapstructure:"tiers"`
}

// envOverrides are applied after the file. Pointer fields stay nil when
// the variable is unset, so only present variables override.
type envOverrides struct {
	Port           *int     `envconfig:"PORT"`
	LogLevel       *string  `envconfig:"LOG_LEVEL"`
	LogFormat      *string  `envconfig:"LOG_FORMAT"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"`
	RateLimit      *bool    `envconfig:"RATE_LIMIT_ENABLED"`
	Metrics        *bool    `envconfig:"METRICS_ENABLED"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.max_body_bytes", 64<<10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", []string{
		"https://www.solivagant.site",
		"https://solivagant.site",
		"http://localhost:3000",
	})

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 5.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("rate_limit.idle_ttl", 10*time.Minute)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "quote_api")
}

// LoadConfig reads path, or config.yaml from the usual locations when path
// is empty. A missing default file is not an error; defaults apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/app/config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	if env.Port != nil {
		c.Server.Port = *env.Port
	}
	if env.LogLevel != nil {
		c.Log.Level = *env.LogLevel
	}
	if env.LogFormat != nil {
		c.Log.Format = *env.LogFormat
	}
	if env.AllowedOrigins != nil {
		c.CORS.AllowedOrigins = env.AllowedOrigins
	}
	if env.RateLimit != nil {
		c.RateLimit.Enabled = *env.RateLimit
	}
	if env.Metrics != nil {
		c.Metrics.Enabled = *env.Metrics
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}

	cors := middleware.CORSConfig{AllowOrigins: c.CORS.AllowedOrigins}
	if err := cors.Validate(); err != nil {
		return fmt.Errorf("cors.allowed_origins: %w", err)
	}

	for _, p := range c.Server.TrustedProxies {
		if p == "" {
			return fmt.Errorf("server.trusted_proxies: empty entry")
		}
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate_limit: requests_per_second and burst must be positive")
	}

	if _, err := c.Pricing.Table(); err != nil {
		return err
	}
	return nil
}

// Table builds the price table described by the configuration.
func (p PricingConfig) Table() (*pricing.Table, error) {
	if len(p.Services) == 0 {
		return pricing.DefaultTable(), nil
	}

	rules := make([]pricing.Rule, 0, len(p.Services))
	for _, s := range p.Services {
		rule, err := s.rule()
		if err != nil {
			return nil, fmt.Errorf("pricing.services: %w", err)
		}
		rules = append(rules, rule)
	}
	return pricing.NewTable(rules...)
}

func (s ServiceConfig) rule() (pricing.Rule, error) {
	switch {
	case s.Price != "" && len(s.Tiers) > 0:
		return pricing.Rule{}, fmt.Errorf("service %q sets both price and tiers", s.ID)
	case s.Price != "":
		price, err := decimal.NewFromString(s.Price)
		if err != nil {
			return pricing.Rule{}, fmt.Errorf("service %q: invalid price %q: %w", s.ID, s.Price, err)
		}
		return pricing.FixedRule(s.ID, price), nil
	case len(s.Tiers) > 0:
		tiers := make(map[model.DurationTier]decimal.Decimal, len(s.Tiers))
		for label, raw := range s.Tiers {
			tier, err := model.ParseDurationTier(label)
			if err != nil {
				return pricing.Rule{}, fmt.Errorf("service %q: %w", s.ID, err)
			}
			price, err := decimal.NewFromString(raw)
			if err != nil {
				return pricing.Rule{}, fmt.Errorf("service %q: invalid price %q for tier %q: %w", s.ID, raw, label, err)
			}
			tiers[tier] = price
		}
		return pricing.TimeBasedRule(s.ID, tiers), nil
	default:
		return pricing.Rule{}, fmt.Errorf("service %q sets neither price nor tiers", s.ID)
	}
}
