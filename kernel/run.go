package kernel

import (
	"fmt"

	"lumen/app"
	"lumen/hal"
)

// Config controls a run.
type Config struct {
	Width  int
	Height int
	FPS    int

	// Timer paces the loop. Nil means a SystemTimer.
	Timer Timer

	// OnState, when set, observes every loop state transition.
	OnState func(from, to State)
}

// Result summarizes a finished run.
type Result struct {
	ExitCode int
	Frames   int
	Reason   string
	Context  ContextInfo
}

// Opener opens the display a run uses. The run owns and closes it.
type Opener func() (hal.Display, error)

type cleanup struct {
	name string
	fn   func() error
}

// cleanupStack releases resources in reverse order of acquisition.
type cleanupStack []cleanup

func (s *cleanupStack) push(name string, fn func() error) {
	*s = append(*s, cleanup{name: name, fn: fn})
}

// unwind runs and forgets every pending cleanup. Errors are logged so the
// rest still run.
func (s *cleanupStack) unwind() {
	log := logFor("teardown")
	for i := len(*s) - 1; i >= 0; i-- {
		c := (*s)[i]
		if err := c.fn(); err != nil {
			log.Warn("release failed", "step", c.name, "err", err)
		} else {
			log.Debug("released", "step", c.name)
		}
	}
	*s = (*s)[:0]
}

// Run brings up a window with a GL context on the display from open, hosts
// the application built by factory in a fixed-rate loop and tears
// everything down in reverse order, on every path out including a panic in
// an application hook.
//
// A setup failure returns ExitCode 1 and the error. A loop that ends by a
// close request, a destroyed window or the application declining to
// continue returns ExitCode 0 and a nil error.
func Run(open Opener, cfg Config, factory app.Factory) (res Result, err error) {
	if cfg.Timer == nil {
		cfg.Timer = NewSystemTimer()
	}
	if cfg.FPS <= 0 {
		return Result{ExitCode: 1}, fmt.Errorf("kernel: invalid fps %d", cfg.FPS)
	}

	var (
		stack cleanupStack
		loop  *Loop
	)
	defer func() {
		if loop != nil {
			loop.Finish()
		}
	}()
	defer stack.unwind()

	log := logFor("run")
	fail := func(stage string, err error) (Result, error) {
		log.Error("setup failed", "stage", stage, "err", err)
		return Result{ExitCode: 1, Reason: stage + " failed", Context: res.Context}, err
	}

	d, err := open()
	if err != nil {
		return fail("open", err)
	}
	stack.push("close display", d.Close)

	if err := hal.CheckVersion(d, 1, 2); err != nil {
		return fail("version", err)
	}

	candidates, err := hal.ChooseFBConfigs(d, hal.DefaultRequirements())
	if err != nil {
		return fail("fbconfig", err)
	}
	best, visual, err := SelectBest(d, candidates)
	if err != nil {
		return fail("select", err)
	}
	if err := CheckScreen(visual, d.Screen()); err != nil {
		return fail("select", err)
	}
	log.Debug("selected framebuffer configuration", "config", best.String(), "candidates", len(candidates))

	win, err := CreateWindow(d, visual, cfg.Width, cfg.Height)
	if err != nil {
		return fail("window", err)
	}
	stack.push("destroy window", win.Destroy)

	info, err := Negotiate(d, best)
	if err != nil {
		return fail("context", err)
	}
	res.Context = info
	stack.push("destroy context", func() error { return d.DestroyContext(info.Context) })

	gl, err := d.MakeCurrent(win.ID, info.Context)
	if err != nil {
		return fail("make current", err)
	}
	stack.push("release context", d.ReleaseCurrent)
	LogGLStrings(gl)

	loop = NewLoop(d, win, factory(gl), cfg.Timer, cfg.FPS)
	loop.OnStateChange(cfg.OnState)
	if err := loop.Start(); err != nil {
		return fail("initialize", err)
	}

	if err := win.Show(); err != nil {
		loop.Stop(1, "show failed")
		loop.Shutdown()
		return fail("show", err)
	}

	loop.Run()

	return Result{
		ExitCode: loop.ExitCode(),
		Frames:   loop.Frames(),
		Reason:   loop.Reason(),
		Context:  info,
	}, nil
}
