package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DefaultURLTemplate is the price-ascending rental search for São Paulo.
// The single %d verb receives the page number.
const DefaultURLTemplate = "https://www.imovelweb.com.br/apartamentos-aluguel-sao-paulo-sp-ordem-precio-menor-pagina-%d.html"

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Page range, end exclusive.
	StartPage int `envconfig:"START_PAGE" default:"1"`
	EndPage   int `envconfig:"END_PAGE" default:"1001"`

	URLTemplate string `envconfig:"URL_TEMPLATE" default:"https://www.imovelweb.com.br/apartamentos-aluguel-sao-paulo-sp-ordem-precio-menor-pagina-%d.html"`
	OutputDir   string `envconfig:"OUTPUT_DIR" default:"."`

	// The browser stays visible by default so an operator can solve CAPTCHAs.
	Headless    bool          `envconfig:"HEADLESS" default:"false"`
	ChromeBin   string        `envconfig:"CHROME_BIN"`
	PageTimeout time.Duration `envconfig:"PAGE_TIMEOUT" default:"90s"`

	CookieSettle time.Duration `envconfig:"COOKIE_SETTLE" default:"2s"`
	CaptchaPoll  time.Duration `envconfig:"CAPTCHA_POLL" default:"5s"`
	CooldownMin  time.Duration `envconfig:"COOLDOWN_MIN" default:"5s"`
	CooldownMax  time.Duration `envconfig:"COOLDOWN_MAX" default:"10s"`

	StopOnEmptyPage bool   `envconfig:"STOP_ON_EMPTY_PAGE" default:"false"`
	RespectRobots   bool   `envconfig:"RESPECT_ROBOTS" default:"false"`
	RobotsAgent     string `envconfig:"ROBOTS_AGENT" default:"Mozilla"`

	// Optional sinks. Empty disables them.
	PostgresDSN string `envconfig:"POSTGRES_DSN"`
	MetricsAddr string `envconfig:"METRICS_ADDR"`

	Debug bool `envconfig:"DEBUG" default:"false"`
}

// Load reads the .env file, processes environment variables and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if _, statErr := os.Stat(".env"); statErr == nil {
			log.Printf("[config] .env found but could not be loaded: %v", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects ranges and templates the scraper cannot work with.
func (c *Config) Validate() error {
	if c.StartPage < 1 {
		return fmt.Errorf("config: START_PAGE must be >= 1, got %d", c.StartPage)
	}
	if c.EndPage <= c.StartPage {
		return fmt.Errorf("config: END_PAGE (%d) must be greater than START_PAGE (%d)", c.EndPage, c.StartPage)
	}
	if c.CooldownMax < c.CooldownMin {
		return fmt.Errorf("config: COOLDOWN_MAX (%v) is below COOLDOWN_MIN (%v)", c.CooldownMax, c.CooldownMin)
	}
	if strings.Count(c.URLTemplate, "%d") != 1 {
		return fmt.Errorf("config: URL_TEMPLATE must contain exactly one %%d verb: %q", c.URLTemplate)
	}
	if c.CaptchaPoll <= 0 {
		return fmt.Errorf("config: CAPTCHA_POLL must be positive")
	}
	return nil
}

// PageURL renders the search URL for one page number.
func (c *Config) PageURL(page int) string {
	return fmt.Sprintf(c.URLTemplate, page)
}
