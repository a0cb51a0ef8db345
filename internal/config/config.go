// Package config holds lumen's runtime settings: built-in defaults,
// overridden by LUMEN_* environment variables, overridden by flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	EnvBackend = "LUMEN_BACKEND"
	EnvFPS     = "LUMEN_FPS"
	EnvWidth   = "LUMEN_WIDTH"
	EnvHeight  = "LUMEN_HEIGHT"
	EnvTimer   = "LUMEN_TIMER"
)

// Backends lists the accepted values of Config.Backend.
var Backends = []string{"x11", "headless", "ebiten"}

// Timers lists the accepted values of Config.Timer.
var Timers = []string{"system", "precise"}

// Config is the full set of knobs for one run.
type Config struct {
	Backend string
	Display string
	Width   int
	Height  int
	FPS     int

	// Frames stops the demo after that many frames. Zero runs until closed.
	Frames  int
	Timer   string
	Title   string
	Verbose bool
}

// Defaults returns an 800x600 window on the X11 backend at 30 frames per
// second.
func Defaults() Config {
	return Config{
		Backend: "x11",
		Width:   800,
		Height:  600,
		FPS:     30,
		Timer:   "system",
		Title:   "lumen",
	}
}

// FromEnv returns base with any LUMEN_* variables applied.
func FromEnv(base Config) (Config, error) {
	cfg := base
	if raw := strings.TrimSpace(os.Getenv(EnvBackend)); raw != "" {
		cfg.Backend = raw
	}
	if raw := strings.TrimSpace(os.Getenv(EnvTimer)); raw != "" {
		cfg.Timer = raw
	}
	for _, v := range []struct {
		env string
		dst *int
	}{
		{EnvFPS, &cfg.FPS},
		{EnvWidth, &cfg.Width},
		{EnvHeight, &cfg.Height},
	} {
		raw := strings.TrimSpace(os.Getenv(v.env))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s must be an integer (got %q): %w", v.env, raw, err)
		}
		*v.dst = n
	}
	return cfg, nil
}

// RegisterFlags binds cfg's fields to fs, using the current values as
// defaults.
func (cfg *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "display backend: "+strings.Join(Backends, " | ")+"; also configurable via "+EnvBackend)
	fs.StringVar(&cfg.Display, "display", cfg.Display, "X display to connect to (default $DISPLAY)")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "window width; also configurable via "+EnvWidth)
	fs.IntVar(&cfg.Height, "height", cfg.Height, "window height; also configurable via "+EnvHeight)
	fs.IntVar(&cfg.FPS, "fps", cfg.FPS, "target frames per second; also configurable via "+EnvFPS)
	fs.IntVar(&cfg.Frames, "frames", cfg.Frames, "stop after N frames (0 = run until closed)")
	fs.StringVar(&cfg.Timer, "timer", cfg.Timer, "frame timer: "+strings.Join(Timers, " | ")+"; also configurable via "+EnvTimer)
	fs.StringVar(&cfg.Title, "title", cfg.Title, "window title (ebiten backend)")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "log at debug level")
}

// Validate reports every invalid field.
func (cfg Config) Validate() error {
	var errs []error
	if !oneOf(cfg.Backend, Backends) {
		errs = append(errs, fmt.Errorf("unknown backend %q", cfg.Backend))
	}
	if !oneOf(cfg.Timer, Timers) {
		errs = append(errs, fmt.Errorf("unknown timer %q", cfg.Timer))
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive (got %dx%d)", cfg.Width, cfg.Height))
	}
	if cfg.Width > 0xFFFF || cfg.Height > 0xFFFF {
		errs = append(errs, fmt.Errorf("window size too large (got %dx%d)", cfg.Width, cfg.Height))
	}
	if cfg.FPS <= 0 || cfg.FPS > 1000 {
		errs = append(errs, fmt.Errorf("fps must be in 1..1000 (got %d)", cfg.FPS))
	}
	if cfg.Frames < 0 {
		errs = append(errs, fmt.Errorf("frames must not be negative (got %d)", cfg.Frames))
	}
	return errors.Join(errs...)
}

func oneOf(s string, set []string) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}
