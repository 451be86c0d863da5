// Package config loads service settings from defaults, an optional .env
// file and the process environment, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap/zapcore"
)

const DefaultEnvFile = ".env"

type Config struct {
	Port     int    `koanf:"port"`
	APIKey   string `koanf:"api_key"`
	LogLevel string `koanf:"log_level"`

	SeedProducts bool `koanf:"seed_products"`

	MetricsEnabled bool   `koanf:"metrics_enabled"`
	MetricsToken   string `koanf:"metrics_token"`

	RateLimit  int           `koanf:"rate_limit"`
	RateWindow time.Duration `koanf:"rate_window"`

	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

var defaults = map[string]any{
	"port":             3000,
	"api_key":          "",
	"log_level":        "info",
	"seed_products":    true,
	"metrics_enabled":  false,
	"metrics_token":    "",
	"rate_limit":       0,
	"rate_window":      "1m",
	"shutdown_timeout": "10s",
}

func Load() (Config, error) {
	return LoadFrom(DefaultEnvFile)
}

// LoadFrom is Load with an explicit .env path. A missing file is not an
// error; API_KEY may legitimately be absent and is checked per request.
func LoadFrom(envFile string) (Config, error) {
	var cfg Config
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return cfg, fmt.Errorf("load defaults: %w", err)
	}

	if envFile != "" {
		fileVars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			m := make(map[string]any, len(fileVars))
			for key, v := range fileVars {
				if name := envKey(key); name != "" && strings.TrimSpace(v) != "" {
					m[name] = v
				}
			}
			if err := k.Load(confmap.Provider(m, "."), nil); err != nil {
				return cfg, fmt.Errorf("load %s: %w", envFile, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return cfg, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envValue), nil); err != nil {
		return cfg, fmt.Errorf("load environment: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// envKey maps API_KEY to api_key and drops variables the service does not
// know about. Underscores are kept; "." is the koanf delimiter.
func envKey(s string) string {
	key := strings.ToLower(s)
	if _, ok := defaults[key]; !ok {
		return ""
	}
	return key
}

// envValue treats an empty variable as unset.
func envValue(key, value string) (string, any) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return envKey(key), value
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Port)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("invalid RATE_LIMIT: %d", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateWindow <= 0 {
		return fmt.Errorf("invalid RATE_WINDOW: %v", c.RateWindow)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %v", c.ShutdownTimeout)
	}
	if c.MetricsEnabled && c.MetricsToken == "" {
		return errors.New("METRICS_TOKEN is required when METRICS_ENABLED=true")
	}
	return nil
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("\n--- Products API ---\n")
	fmt.Fprintf(&b, "  port: %d\n", c.Port)
	fmt.Fprintf(&b, "  api_key: %s\n", mask(c.APIKey))
	fmt.Fprintf(&b, "  log_level: %s\n", c.LogLevel)
	fmt.Fprintf(&b, "  seed_products: %t\n", c.SeedProducts)
	fmt.Fprintf(&b, "  metrics_enabled: %t\n", c.MetricsEnabled)
	fmt.Fprintf(&b, "  rate_limit: %d per %s\n", c.RateLimit, c.RateWindow)
	fmt.Fprintf(&b, "  shutdown_timeout: %s\n", c.ShutdownTimeout)
	return b.String()
}

func mask(secret string) string {
	if secret == "" {
		return "<not set>"
	}
	return "****"
}
