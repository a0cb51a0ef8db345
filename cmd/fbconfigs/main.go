// Command fbconfigs reports what the X server's GLX offers: its version,
// context-creation extensions and the framebuffer configurations lumen
// would choose between.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"lumen/hal"
	"lumen/internal/glproto"
	"lumen/kernel"
)

func main() {
	var (
		display  = flag.String("display", "", "X display to query (default $DISPLAY).")
		all      = flag.Bool("all", false, "List every configuration, not only the usable ones.")
		headless = flag.Bool("headless", false, "Query the built-in simulated server.")
	)
	flag.Parse()

	var (
		d   hal.Display
		err error
	)
	if *headless {
		d = hal.NewHeadless(hal.DefaultHeadlessConfig())
	} else {
		d, err = hal.OpenX11(*display)
		if err != nil {
			fatalf("open: %v", err)
		}
	}
	defer d.Close()

	if err := report(os.Stdout, d, *all); err != nil {
		d.Close()
		fatalf("%v", err)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func report(w io.Writer, d hal.Display, all bool) error {
	major, minor, err := d.QueryVersion()
	if err != nil {
		return fmt.Errorf("query version: %w", err)
	}
	fmt.Fprintf(w, "GLX %d.%d on screen %d\n", major, minor, d.Screen())
	if err := hal.CheckVersion(d, 1, 2); err != nil {
		fmt.Fprintf(w, "warning: %v\n", err)
	}

	exts, err := d.Extensions()
	if err != nil {
		return fmt.Errorf("query extensions: %w", err)
	}
	for _, name := range []string{glproto.ExtCreateContext, glproto.ExtCreateContextProfile} {
		fmt.Fprintf(w, "%s: %s\n", name, yesNo(kernel.HasExtension(exts, name)))
	}

	var list []hal.FBConfig
	if all {
		list, err = d.FBConfigs()
	} else {
		list, err = hal.ChooseFBConfigs(d, hal.DefaultRequirements())
	}
	if err != nil {
		return err
	}

	best, _, bestErr := kernel.SelectBest(d, list)
	worst, hasWorst := kernel.SelectWorst(d, list)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tVISUAL\tRGBA\tDEPTH\tSTENCIL\tDB\tSAMPLES\tUSABLE\t")
	for _, c := range list {
		mark := ""
		switch {
		case bestErr == nil && c.ID == best.ID:
			mark = "best"
		case hasWorst && c.ID == worst.ID:
			mark = "worst"
		}
		_, resolvable := d.Visual(c)
		fmt.Fprintf(tw, "0x%x\t0x%x\t%d/%d/%d/%d\t%d\t%d\t%s\t%d/%d\t%s\t%s\n",
			c.ID, c.VisualID, c.RedSize, c.GreenSize, c.BlueSize, c.AlphaSize,
			c.DepthSize, c.StencilSize, yesNo(c.DoubleBuffer), c.SampleBuffers, c.Samples,
			yesNo(resolvable && hal.DefaultRequirements().Matches(c)), mark)
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
