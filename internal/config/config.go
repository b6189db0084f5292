package config

import (
	"fmt"
	"net"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/nguyentranbao-ct/product-gateway/pkg/logger"
)

type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Database DatabaseConfig `envPrefix:"DATABASE_"`
	Auth     AuthConfig     `envPrefix:"AUTH_"`
	Log      logger.Config  `envPrefix:"LOG_"`
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	// CORSOrigins is a regexp matched against the Origin header.
	CORSOrigins  string `env:"CORS_ORIGINS" envDefault:".*"`
	PprofEnabled bool   `env:"PPROF_ENABLED" envDefault:"false"`
}

func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

type DatabaseConfig struct {
	URI         string        `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database    string        `env:"DATABASE" envDefault:"product_gateway"`
	Collection  string        `env:"COLLECTION" envDefault:"products"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"5s"`
	SeedOnStart bool          `env:"SEED_ON_START" envDefault:"false"`
}

type AuthConfig struct {
	APIKeys []string `env:"API_KEYS" envSeparator:"," envDefault:"secret123"`
	// JWTSecret signs session tokens. When empty a random secret is
	// generated at start, so tokens do not survive a restart.
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"30m"`
	Issuer    string        `env:"ISSUER" envDefault:"product-gateway"`
	UsersFile string        `env:"USERS_FILE"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Errorf("load config: %w", err))
	}
	return cfg
}

func (c *Config) validate() error {
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL must be positive")
	}
	if c.Database.Timeout <= 0 {
		return fmt.Errorf("DATABASE_TIMEOUT must be positive")
	}
	for _, k := range c.Auth.APIKeys {
		if k == "" {
			return fmt.Errorf("AUTH_API_KEYS must not contain empty keys")
		}
	}
	return nil
}
