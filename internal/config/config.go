package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const insecureJWTSecret = "supersecretkey"

type Config struct {
	Addr          string        `yaml:"addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	DatabasePath  string        `yaml:"database_path"`
	TokenDuration time.Duration `yaml:"token_duration"`
}

func LoadConfig(path string) (*Config, error) {
	apiTimeout := 15 * time.Second
	// session tokens live for a week unless overridden
	tokenDuration := 7 * 24 * time.Hour

	cfg := &Config{
		Addr:          getEnv("CAREERS_ADDR", ":8080"),
		JWTSecret:     getEnv("CAREERS_JWT_SECRET", insecureJWTSecret),
		APITimeout:    apiTimeout,
		DatabasePath:  getEnv("CAREERS_DATABASE_PATH", "careers.db"),
		TokenDuration: tokenDuration,
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate rejects configurations that must never reach a deployed
// environment. The default JWT secret is allowed only when
// CAREERS_ENV=development.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if c.JWTSecret == insecureJWTSecret && os.Getenv("CAREERS_ENV") != "development" {
		return fmt.Errorf("jwt_secret is set to the insecure default; set CAREERS_JWT_SECRET")
	}
	if c.TokenDuration <= 0 {
		return fmt.Errorf("token_duration must be positive")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
