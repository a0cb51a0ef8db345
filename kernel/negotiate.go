package kernel

import (
	"errors"
	"fmt"
	"strings"

	"lumen/hal"
	"lumen/internal/glproto"
)

// ContextInfo describes a negotiated context.
type ContextInfo struct {
	Context hal.Context

	// Extended is true when the context came from GLX_ARB_create_context.
	Extended bool

	// Direct is the server's answer to IsDirect. It is informational.
	Direct bool
}

// ContextAttribs requests a forward-compatible 3.2 context.
func ContextAttribs() []uint32 {
	return []uint32{
		glproto.ContextMajorVersionARB, 3,
		glproto.ContextMinorVersionARB, 2,
		glproto.ContextFlagsARB, glproto.ContextForwardCompatibleBitARB,
	}
}

// HasExtension reports whether name appears in the extensions string.
func HasExtension(extensions, name string) bool {
	return strings.Contains(extensions, name)
}

// Negotiate creates a context for cfg. It prefers the ARB path and falls
// back to a legacy RGBA context when the extension is missing or the
// request is refused.
func Negotiate(f hal.ContextFactory, cfg hal.FBConfig) (ContextInfo, error) {
	log := logFor("negotiate")

	exts, err := f.Extensions()
	if err != nil {
		log.Warn("cannot read GLX extensions", "err", err)
	}

	var (
		info   ContextInfo
		arbErr error
	)
	if HasExtension(exts, glproto.ExtCreateContext) {
		ctx, err := f.CreateContextAttribs(cfg, ContextAttribs())
		if err == nil {
			info = ContextInfo{Context: ctx, Extended: true}
		} else {
			arbErr = err
			log.Warn("3.2 forward-compatible context refused, falling back to legacy context", "err", err)
		}
	} else {
		log.Info(glproto.ExtCreateContext + " not supported, using legacy context")
	}

	if !info.Extended {
		ctx, err := f.CreateNewContext(cfg)
		if err != nil {
			return ContextInfo{}, fmt.Errorf("%w: %w", ErrContextCreation, errors.Join(arbErr, err))
		}
		info.Context = ctx
	}

	if err := f.Sync(); err != nil {
		log.Warn("sync after context creation", "err", err)
	}

	direct, err := f.IsDirect(info.Context)
	switch {
	case err != nil:
		log.Warn("cannot query direct rendering", "err", err)
	case direct:
		log.Info("direct GLX rendering context obtained", "extended", info.Extended)
	default:
		log.Info("indirect GLX rendering context obtained", "extended", info.Extended)
	}
	info.Direct = direct
	return info, nil
}

// LogGLStrings logs the strings identifying the current context's
// implementation. Failures are logged and ignored.
func LogGLStrings(gl hal.GL) {
	log := logFor("gl")
	names := []struct {
		key  string
		name uint32
	}{
		{"vendor", glproto.Vendor},
		{"renderer", glproto.Renderer},
		{"version", glproto.Version},
		{"glsl", glproto.ShadingLanguageVersion},
	}
	attrs := make([]any, 0, 2*len(names))
	for _, n := range names {
		s, err := gl.GetString(n.name)
		if err != nil {
			log.Warn("glGetString failed", "name", n.key, "err", err)
			continue
		}
		attrs = append(attrs, n.key, s)
	}
	log.Info("GL context current", attrs...)
}
