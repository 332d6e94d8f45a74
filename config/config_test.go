package config

import (
	"os"
	"testing"
	"time"
)

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func validConfig() Config {
	return Config{
		StartPage:   1,
		EndPage:     3,
		URLTemplate: DefaultURLTemplate,
		CaptchaPoll: 5 * time.Second,
		CooldownMin: 5 * time.Second,
		CooldownMax: 10 * time.Second,
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"START_PAGE", "END_PAGE", "URL_TEMPLATE", "CAPTCHA_POLL", "COOLDOWN_MIN", "COOLDOWN_MAX", "HEADLESS"} {
		unsetEnv(t, key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StartPage != 1 || cfg.EndPage != 1001 {
		t.Errorf("page range: got [%d, %d), want [1, 1001)", cfg.StartPage, cfg.EndPage)
	}
	if cfg.URLTemplate != DefaultURLTemplate {
		t.Errorf("URLTemplate: got %q, want %q", cfg.URLTemplate, DefaultURLTemplate)
	}
	if cfg.CaptchaPoll != 5*time.Second {
		t.Errorf("CaptchaPoll: got %v, want 5s", cfg.CaptchaPoll)
	}
	if cfg.CooldownMin != 5*time.Second || cfg.CooldownMax != 10*time.Second {
		t.Errorf("cooldown: got [%v, %v], want [5s, 10s]", cfg.CooldownMin, cfg.CooldownMax)
	}
	if cfg.Headless {
		t.Error("Headless should default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	unsetEnv(t, "URL_TEMPLATE")
	unsetEnv(t, "CAPTCHA_POLL")
	t.Setenv("START_PAGE", "4")
	t.Setenv("END_PAGE", "6")
	t.Setenv("COOLDOWN_MIN", "0s")
	t.Setenv("COOLDOWN_MAX", "1s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StartPage != 4 || cfg.EndPage != 6 {
		t.Errorf("page range: got [%d, %d), want [4, 6)", cfg.StartPage, cfg.EndPage)
	}
	if cfg.CooldownMax != time.Second {
		t.Errorf("CooldownMax: got %v, want 1s", cfg.CooldownMax)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"empty range", func(c *Config) { c.EndPage = c.StartPage }, false},
		{"zero start", func(c *Config) { c.StartPage = 0 }, false},
		{"inverted cooldown", func(c *Config) { c.CooldownMax = time.Second }, false},
		{"template without verb", func(c *Config) { c.URLTemplate = "https://example.com/page.html" }, false},
		{"zero poll", func(c *Config) { c.CaptchaPoll = 0 }, false},
	}

	for _, tt := range tests {
		cfg := validConfig()
		tt.mutate(&cfg)
		err := cfg.Validate()
		if (err == nil) != tt.ok {
			t.Errorf("%s: Validate() error = %v, want ok=%v", tt.name, err, tt.ok)
		}
	}
}

func TestPageURL(t *testing.T) {
	cfg := validConfig()
	got := cfg.PageURL(7)
	want := "https://www.imovelweb.com.br/apartamentos-aluguel-sao-paulo-sp-ordem-precio-menor-pagina-7.html"
	if got != want {
		t.Errorf("PageURL(7) = %q; want %q", got, want)
	}
}
