// Package config loads server settings from command-line flags, falling back to
// environment variables and then to defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"postboard/app/captcha"
)

// Store kinds accepted by --store.
const (
	StoreBadger   = "badger"
	StorePostgres = "postgres"
)

var (
	ErrUnknownStore       = errors.New("unknown store")
	ErrMissingDatabaseURL = errors.New("postgres store requires a database url")
)

// Config holds the settings shared by serve and the db commands.
type Config struct {
	Addr            string
	Origin          string
	RecaptchaSecret string
	RecaptchaURL    string
	CaptchaTimeout  time.Duration
	Store           string
	DBPath          string
	DatabaseURL     string
	TLSDomain       string
	CertCacheDir    string

	// Args holds the positional arguments left after the flags.
	Args []string
}

// Load parses args (without the program and subcommand names) using env for fallbacks.
func Load(args []string, env func(string) string) (*Config, error) {
	if env == nil {
		env = os.Getenv
	}
	def := func(key, fallback string) string {
		if v := env(key); v != "" {
			return v
		}
		return fallback
	}

	timeout, err := time.ParseDuration(def("RECAPTCHA_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("RECAPTCHA_TIMEOUT: %w", err)
	}

	cfg := &Config{}
	fs := flag.NewFlagSet("postboard", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", def("POSTBOARD_ADDR", ":8080"), "listen address")
	fs.StringVar(&cfg.Origin, "origin", def("POSTBOARD_ORIGIN", "*"), "allowed CORS origin")
	fs.StringVar(&cfg.RecaptchaSecret, "recaptcha-secret", def("RECAPTCHA_SECRET", ""), "reCAPTCHA shared secret; empty disables the captcha check")
	fs.StringVar(&cfg.RecaptchaURL, "recaptcha-url", def("RECAPTCHA_URL", captcha.DefaultVerifyURL), "reCAPTCHA verification endpoint")
	fs.DurationVar(&cfg.CaptchaTimeout, "captcha-timeout", timeout, "timeout for captcha verification requests")
	fs.StringVar(&cfg.Store, "store", def("POSTBOARD_STORE", StoreBadger), "post store: badger or postgres")
	fs.StringVar(&cfg.DBPath, "db-path", def("POSTBOARD_DB_PATH", "data/badger"), "badger database directory")
	fs.StringVar(&cfg.DatabaseURL, "database-url", def("DATABASE_URL", ""), "postgres connection string")
	fs.StringVar(&cfg.TLSDomain, "tls-domain", def("POSTBOARD_TLS_DOMAIN", ""), "serve HTTPS for this domain with Let's Encrypt certificates")
	fs.StringVar(&cfg.CertCacheDir, "cert-cache", def("POSTBOARD_CERT_CACHE", "data/certs"), "certificate cache directory")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Args = fs.Args()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings are consistent
func (c *Config) Validate() error {
	switch c.Store {
	case StoreBadger:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStore, c.Store)
	}
	return nil
}

// CaptchaEnabled reports whether a reCAPTCHA secret is configured.
func (c *Config) CaptchaEnabled() bool {
	return c.RecaptchaSecret != ""
}
