// Command lumen opens a window with a GL context and runs the demo
// application in a fixed-rate loop until the window is closed.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"lumen/app"
	"lumen/hal"
	"lumen/internal/buildinfo"
	"lumen/internal/config"
	"lumen/kernel"
)

func init() {
	// The display connection and the current context belong to one thread.
	runtime.LockOSThread()
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.FromEnv(config.Defaults())
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		return 2
	}

	fs := flag.NewFlagSet("lumen", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		return 2
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	kernel.SetLogger(logger)
	logger.Debug("starting", buildinfo.Attr(), "backend", cfg.Backend, "fps", cfg.FPS,
		"size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))

	timer, err := kernel.NewTimer(cfg.Timer)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		return 2
	}

	demo := app.DefaultConfig()
	demo.MaxFrames = cfg.Frames
	factory := app.DemoFactory(demo)

	kcfg := kernel.Config{
		Width:  cfg.Width,
		Height: cfg.Height,
		FPS:    cfg.FPS,
		Timer:  timer,
	}

	var res kernel.Result
	switch cfg.Backend {
	case "x11":
		res, err = kernel.Run(func() (hal.Display, error) { return hal.OpenX11(cfg.Display) }, kcfg, factory)
	case "headless":
		res, err = kernel.Run(func() (hal.Display, error) {
			return hal.NewHeadless(hal.DefaultHeadlessConfig()), nil
		}, kcfg, factory)
	case "ebiten":
		res, err = kernel.RunEbiten(kcfg, cfg.Title, factory)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "lumen:", err)
		return max(res.ExitCode, 1)
	}

	logger.Info("stopped", "reason", res.Reason, "frames", res.Frames)
	return res.ExitCode
}
