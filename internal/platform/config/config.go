// Package config loads per-binary configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvDevelopment = "development"

	// devTokenSecret is only used when ENVIRONMENT=development and TOKEN_SECRET is unset.
	devTokenSecret = "dev-secret-key-change-in-production"
)

// Common is shared by every binary.
type Common struct {
	Environment     string        `env:"ENVIRONMENT" env-default:"development"`
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" env-default:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" env-default:"1048576"`
	// TrustedProxies lists CIDRs whose X-Forwarded-For is believed, e.g. the gateway's network.
	TrustedProxies []string `env:"TRUSTED_PROXIES" env-separator:","`
}

// Token configures the shared HMAC secret and token lifetime.
type Token struct {
	Secret string        `env:"TOKEN_SECRET"`
	TTL    time.Duration `env:"TOKEN_EXPIRATION_TIME" env-default:"24h"`
}

// Gateway is the edge proxy configuration.
type Gateway struct {
	Common
	Token
	Addr            string `env:"GATEWAY_ADDR" env-default:":8080"`
	UserServiceURL  string `env:"USER_SERVICE_URL" env-default:"http://localhost:8081"`
	OrderServiceURL string `env:"ORDER_SERVICE_URL" env-default:"http://localhost:8082"`
}

// UserService configures the credential store, token issuer and aggregation.
type UserService struct {
	Common
	Token
	Addr               string        `env:"USER_SERVICE_ADDR" env-default:":8081"`
	DatabaseURL        string        `env:"USER_DATABASE_URL"`
	OrderServiceURL    string        `env:"ORDER_SERVICE_URL" env-default:"http://localhost:8082"`
	OrderClientTimeout time.Duration `env:"ORDER_CLIENT_TIMEOUT" env-default:"2s"`
}

// OrderService configures the order peer.
type OrderService struct {
	Common
	Addr        string `env:"ORDER_SERVICE_ADDR" env-default:":8082"`
	DatabaseURL string `env:"ORDER_DATABASE_URL"`
}

var (
	ErrMissingSecret = errors.New("TOKEN_SECRET is required")
	ErrInvalidTTL    = errors.New("TOKEN_EXPIRATION_TIME must be positive")
)

// LoadGateway reads gateway configuration from the environment.
func LoadGateway() (*Gateway, error) {
	var cfg Gateway
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read gateway config: %w", err)
	}
	cfg.Token.applyDevDefault(cfg.Environment)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadUserService reads user-service configuration from the environment.
func LoadUserService() (*UserService, error) {
	var cfg UserService
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read user-service config: %w", err)
	}
	cfg.Token.applyDevDefault(cfg.Environment)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrderService reads order-service configuration from the environment.
func LoadOrderService() (*OrderService, error) {
	var cfg OrderService
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read order-service config: %w", err)
	}
	return &cfg, nil
}

func (t *Token) applyDevDefault(environment string) {
	if t.Secret == "" && environment == EnvDevelopment {
		t.Secret = devTokenSecret
	}
}

// Validate rejects token settings that would make every token unusable or forgeable.
func (t Token) Validate() error {
	if t.Secret == "" {
		return ErrMissingSecret
	}
	if t.TTL <= 0 {
		return ErrInvalidTTL
	}
	return nil
}

func (g Gateway) Validate() error {
	if err := g.Token.Validate(); err != nil {
		return err
	}
	for name, raw := range map[string]string{"USER_SERVICE_URL": g.UserServiceURL, "ORDER_SERVICE_URL": g.OrderServiceURL} {
		if err := validateURL(raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func (u UserService) Validate() error {
	if err := u.Token.Validate(); err != nil {
		return err
	}
	if u.OrderClientTimeout <= 0 {
		return errors.New("ORDER_CLIENT_TIMEOUT must be positive")
	}
	if err := validateURL(u.OrderServiceURL); err != nil {
		return fmt.Errorf("ORDER_SERVICE_URL: %w", err)
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
