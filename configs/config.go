package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides, nested with "__":
// QUICKORDER_CART_SERVICE__BASE_URL, QUICKORDER_REDIS__ADDR.
const EnvPrefix = "QUICKORDER_"

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogLevel string `koanf:"log_level"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout     time.Duration `koanf:"read_timeout"`
		WriteTimeout    time.Duration `koanf:"write_timeout"`
		IdleTimeout     time.Duration `koanf:"idle_timeout"`
		ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	} `koanf:"http"`

	CartService struct {
		// ListenAddr is where cmd/cart-service serves the cart API.
		ListenAddr string `koanf:"listen_addr"`
		// BaseURL is where the storefront reaches it. Empty selects the
		// in-memory fake.
		BaseURL  string        `koanf:"base_url"`
		Timeout  time.Duration `koanf:"timeout"`
		CartPage string        `koanf:"cart_page"`
	} `koanf:"cart_service"`

	Catalog struct {
		Path     string `koanf:"path"`
		Currency string `koanf:"currency"`
	} `koanf:"catalog"`

	SubmitLog struct {
		SQLitePath string `koanf:"sqlite_path"`
	} `koanf:"submit_log"`

	Telemetry struct {
		Enabled bool `koanf:"enabled"`
	} `koanf:"telemetry"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Idempotency struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"idempotency"`

	Rabbit struct {
		URL      string `koanf:"url"`
		Exchange string `koanf:"exchange"`
	} `koanf:"rabbitmq"`

	Security struct {
		JWTSecret string        `koanf:"jwt_secret"`
		Issuer    string        `koanf:"issuer"`
		Audience  string        `koanf:"audience"`
		TTL       time.Duration `koanf:"ttl"`
	} `koanf:"security"`
}

// Load reads <dir>/base.yaml, then the optional <dir>/<envName>.yaml, then
// QUICKORDER_* environment variables. Later sources win.
func Load(dir, envName string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(filepath.Join(dir, "base.yaml")), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// The env overlay is optional so local runs work with base.yaml alone.
	if envName != "" {
		overlay := filepath.Join(dir, envName+".yaml")
		if _, err := os.Stat(overlay); err == nil {
			if err := k.Load(file.Provider(overlay), yaml.Parser()); err != nil {
				return Config{}, fmt.Errorf("load %s overlay: %w", envName, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	return cfg, nil
}

// ValidateStorefront checks what cmd/storefront needs.
func (c Config) ValidateStorefront() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path required")
	}
	if c.CartService.BaseURL != "" && c.CartService.Timeout <= 0 {
		return fmt.Errorf("cart_service.timeout must be positive")
	}
	return nil
}

// ValidateCartService checks what cmd/cart-service needs.
func (c Config) ValidateCartService() error {
	if c.CartService.ListenAddr == "" {
		return fmt.Errorf("cart_service.listen_addr required")
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret required")
	}
	if c.Idempotency.TTL <= 0 {
		return fmt.Errorf("idempotency.ttl must be positive")
	}
	return nil
}
