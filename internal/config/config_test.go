package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solivagant/quote-api/internal/model"
	"github.com/solivagant/quote-api/internal/service/pricing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(64<<10), cfg.Server.MaxBodyBytes)
	assert.Empty(t, cfg.Server.TrustedProxies)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.ElementsMatch(t, []string{
		"https://www.solivagant.site",
		"https://solivagant.site",
		"http://localhost:3000",
	}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "quote_api", cfg.Metrics.Namespace)

	table, err := cfg.Pricing.Table()
	require.NoError(t, err)
	assert.Equal(t, pricing.DefaultTable().Len(), table.Len())
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  shutdown_timeout: 2s
log:
  level: debug
  format: json
cors:
  allowed_origins:
    - https://app.example
rate_limit:
  enabled: false
pricing:
  services:
    - id: consult
      price: "12.50"
    - id: session
      tiers:
        "15": "1.00"
        "30+5": "2.00"
        "60+15": "3.00"
        "120+30": "4.00"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{"https://app.example"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.RateLimit.Enabled)

	table, err := cfg.Pricing.Table()
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	consult, ok := table.Lookup("consult")
	require.True(t, ok)
	assert.Equal(t, pricing.RuleKindFixed, consult.Kind)
	assert.True(t, decimal.RequireFromString("12.5").Equal(consult.Fixed))

	session, ok := table.Lookup("session")
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("3").Equal(session.Price(model.Tier60Plus15)))
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("QUOTE_PORT", "7070")
	t.Setenv("QUOTE_LOG_LEVEL", "warn")
	t.Setenv("QUOTE_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("QUOTE_RATE_LIMIT_ENABLED", "false")

	cfg, err := LoadConfig(writeConfig(t, "server:\n  port: 9090\n"))
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"wildcard origin", "cors:\n  allowed_origins: [\"*\"]\n"},
		{"bad port", "server:\n  port: 70000\n"},
		{"bad rate", "rate_limit:\n  requests_per_second: 0\n"},
		{"bad price", "pricing:\n  services:\n    - id: a\n      price: cheap\n"},
		{"price and tiers", "pricing:\n  services:\n    - id: a\n      price: \"1\"\n      tiers:\n        \"15\": \"1\"\n"},
		{"missing tier", "pricing:\n  services:\n    - id: a\n      tiers:\n        \"15\": \"1\"\n"},
		{"unknown tier", "pricing:\n  services:\n    - id: a\n      tiers:\n        \"45\": \"1\"\n"},
		{"empty rule", "pricing:\n  services:\n    - id: a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_ShippedFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "config", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Len(t, cfg.CORS.AllowedOrigins, 3)
	assert.Equal(t, 5.0, cfg.RateLimit.RequestsPerSecond)

	table, err := cfg.Pricing.Table()
	require.NoError(t, err)
	assert.Equal(t, pricing.DefaultTable().Len(), table.Len())
}

func TestValidate_OriginsUseGateRules(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	cfg.CORS.AllowedOrigins = []string{"https://a.example", "https://b.example "}
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid allowed origin "https://b.example "`)

	cfg.CORS.AllowedOrigins = []string{"https://a.example"}
	cfg.Server.TrustedProxies = []string{""}
	assert.Error(t, cfg.Validate())
}
