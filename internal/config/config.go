package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config is the console's environment configuration.
type Config struct {
	Backend struct {
		URL     string        `env:"RXADMIN_BACKEND_URL" envDefault:"http://localhost:3000"`
		Timeout time.Duration `env:"RXADMIN_HTTP_TIMEOUT" envDefault:"30s"`
	}

	Frontend struct {
		URL string `env:"RXADMIN_FRONTEND_URL" envDefault:"https://prescripto-frontend-ten.vercel.app"`
	}

	// Home holds the durable storage file and the log.
	Home     string `env:"RXADMIN_HOME"`
	LogLevel string `env:"RXADMIN_LOG_LEVEL" envDefault:"info"`

	// Token, when set, takes precedence over the stored session token.
	Token string `env:"RXADMIN_TOKEN"`
}

// Load reads the given dotenv files (missing ones are skipped) and then the
// environment. Variables already set in the environment win over dotenv values.
func Load(dotenvFiles ...string) (*Config, error) {
	for _, f := range dotenvFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("config.Load: %s: %w", f, err)
		}
	}
	return New()
}

// New parses the environment into a Config.
func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config.New: %w", err)
	}

	cfg.Backend.URL = normalizeBaseURL(cfg.Backend.URL)
	cfg.Frontend.URL = strings.TrimRight(cfg.Frontend.URL, "/")
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if cfg.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config.New: get home dir: %w", err)
		}
		cfg.Home = filepath.Join(home, ".rxadmin")
	}
	return cfg, nil
}

// normalizeBaseURL trims trailing slashes and a trailing "/api" segment; the
// client adds "/api" to every path itself.
func normalizeBaseURL(u string) string {
	u = strings.TrimRight(u, "/")
	u = strings.TrimSuffix(u, "/api")
	return u
}

// StoragePath is the durable session store location.
func (c *Config) StoragePath() string {
	return filepath.Join(c.Home, "storage.json")
}

// LogPath is the debug log location.
func (c *Config) LogPath() string {
	return filepath.Join(c.Home, "rxadmin.log")
}

// LoginURL is the main site's login page.
func (c *Config) LoginURL() string {
	return c.Frontend.URL + "/login"
}

// SignupURL is the main site's registration page.
func (c *Config) SignupURL() string {
	return c.Frontend.URL + "/signup"
}
