package kernel

import (
	"fmt"

	"lumen/hal"
)

// SelectBest picks the configuration with the most samples among those with
// sample buffers. Candidates whose visual does not resolve are skipped. The
// first resolvable candidate is the fallback, and on equal sample counts the
// earlier candidate wins.
func SelectBest(r hal.VisualResolver, candidates []hal.FBConfig) (hal.FBConfig, hal.Visual, error) {
	var (
		best   hal.FBConfig
		visual hal.Visual
		found  bool
	)
	for _, cfg := range candidates {
		v, ok := r.Visual(cfg)
		if !ok {
			continue
		}
		if !found || (cfg.Multisampled() && cfg.Samples > best.Samples) {
			best, visual, found = cfg, v, true
		}
	}
	if !found {
		return hal.FBConfig{}, hal.Visual{}, ErrNoUsableConfiguration
	}
	return best, visual, nil
}

// SelectWorst picks the resolvable configuration with the fewest samples,
// counting one without sample buffers as zero. It is only used for
// diagnostics.
func SelectWorst(r hal.VisualResolver, candidates []hal.FBConfig) (hal.FBConfig, bool) {
	var (
		worst hal.FBConfig
		low   int
		found bool
	)
	for _, cfg := range candidates {
		if _, ok := r.Visual(cfg); !ok {
			continue
		}
		n := 0
		if cfg.Multisampled() {
			n = cfg.Samples
		}
		if !found || n < low {
			worst, low, found = cfg, n, true
		}
	}
	return worst, found
}

// CheckScreen fails with ErrVisualScreenMismatch unless v is on screen.
func CheckScreen(v hal.Visual, screen int) error {
	if v.Screen != screen {
		return fmt.Errorf("%w: visual 0x%x on screen %d, display screen %d",
			ErrVisualScreenMismatch, v.ID, v.Screen, screen)
	}
	return nil
}
