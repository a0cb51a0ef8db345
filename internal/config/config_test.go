package config

import (
	"flag"
	"strings"
	"testing"
)

func TestDefaultsValid(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Defaults().Validate() = %v", err)
	}
	if cfg.Width != 800 || cfg.Height != 600 || cfg.FPS != 30 {
		t.Fatalf("Defaults() = %+v, want 800x600 at 30 fps", cfg)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvBackend, "headless")
	t.Setenv(EnvFPS, " 60 ")
	t.Setenv(EnvWidth, "1024")
	t.Setenv(EnvHeight, "")
	t.Setenv(EnvTimer, "precise")

	cfg, err := FromEnv(Defaults())
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Backend != "headless" || cfg.FPS != 60 || cfg.Width != 1024 || cfg.Height != 600 || cfg.Timer != "precise" {
		t.Fatalf("FromEnv() = %+v", cfg)
	}
}

func TestFromEnvBadInteger(t *testing.T) {
	t.Setenv(EnvFPS, "fast")
	_, err := FromEnv(Defaults())
	if err == nil || !strings.Contains(err.Error(), EnvFPS) {
		t.Fatalf("FromEnv() err = %v, want error naming %s", err, EnvFPS)
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv(EnvFPS, "60")
	cfg, err := FromEnv(Defaults())
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	fs := flag.NewFlagSet("lumen", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse([]string{"-fps", "24", "-backend", "ebiten", "-frames", "5", "-v"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.FPS != 24 || cfg.Backend != "ebiten" || cfg.Frames != 5 || !cfg.Verbose {
		t.Fatalf("cfg = %+v, want flags applied", cfg)
	}
	if cfg.Width != 800 {
		t.Fatalf("Width = %d, want default 800", cfg.Width)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
		want string
	}{
		{"backend", func(c *Config) { c.Backend = "wayland" }, "unknown backend"},
		{"timer", func(c *Config) { c.Timer = "sundial" }, "unknown timer"},
		{"width", func(c *Config) { c.Width = 0 }, "window size must be positive"},
		{"huge", func(c *Config) { c.Height = 70000 }, "too large"},
		{"fps", func(c *Config) { c.FPS = -1 }, "fps must be"},
		{"frames", func(c *Config) { c.Frames = -3 }, "frames must not"},
	}
	for _, tt := range tests {
		cfg := Defaults()
		tt.edit(&cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: Validate() = %v, want %q", tt.name, err, tt.want)
		}
	}
}
