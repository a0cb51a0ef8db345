package kernel

import (
	"errors"
	"testing"

	"lumen/hal"
	"lumen/internal/glproto"
)

func TestContextAttribs(t *testing.T) {
	got := ContextAttribs()
	want := []uint32{0x2091, 3, 0x2092, 2, 0x2094, 2}
	if len(got) != len(want) {
		t.Fatalf("ContextAttribs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ContextAttribs() = %v, want %v", got, want)
		}
	}
}

func TestHasExtension(t *testing.T) {
	exts := "GLX_EXT_visual_info GLX_ARB_create_context_profile GLX_ARB_create_context"
	if !HasExtension(exts, glproto.ExtCreateContext) {
		t.Fatal("HasExtension() = false, want true")
	}
	if HasExtension("GLX_EXT_visual_info", glproto.ExtCreateContext) {
		t.Fatal("HasExtension() = true, want false")
	}
	if HasExtension("", glproto.ExtCreateContext) {
		t.Fatal("HasExtension(\"\") = true, want false")
	}
}

func TestNegotiateExtended(t *testing.T) {
	h := hal.NewHeadless(hal.DefaultHeadlessConfig())
	info, err := Negotiate(h, hal.DefaultHeadlessConfig().Configs[0])
	if err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if !info.Extended || !info.Direct || info.Context == 0 {
		t.Fatalf("Negotiate() = %+v, want extended direct context", info)
	}
	if h.Called(hal.OpCreateNewContext) != 0 {
		t.Fatal("legacy path used alongside the extended one")
	}
	if h.Called(hal.OpSync) != 1 {
		t.Fatalf("Sync called %d times, want 1", h.Called(hal.OpSync))
	}
}

func TestNegotiateFallsBackWhenRefused(t *testing.T) {
	cfg := hal.DefaultHeadlessConfig()
	cfg.RejectAttribContexts = true
	h := hal.NewHeadless(cfg)

	info, err := Negotiate(h, cfg.Configs[0])
	if err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if info.Extended {
		t.Fatal("Extended = true, want legacy")
	}
	if h.Called(hal.OpCreateContextAttribs) != 1 || h.Called(hal.OpCreateNewContext) != 1 {
		t.Fatalf("calls = %v, want one attempt on each path", h.Calls())
	}
	if h.Live() != 2 {
		t.Fatalf("Live() = %d, want connection and one context", h.Live())
	}
}

func TestNegotiateWithoutExtension(t *testing.T) {
	cfg := hal.DefaultHeadlessConfig()
	cfg.Extensions = ""
	cfg.Direct = false
	h := hal.NewHeadless(cfg)

	info, err := Negotiate(h, cfg.Configs[0])
	if err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if info.Extended || info.Direct {
		t.Fatalf("Negotiate() = %+v, want indirect legacy context", info)
	}
	if h.Called(hal.OpCreateContextAttribs) != 0 {
		t.Fatal("extended path tried without the extension")
	}
}

func TestNegotiateBothPathsFail(t *testing.T) {
	cfg := hal.DefaultHeadlessConfig()
	cfg.RejectAttribContexts = true
	h := hal.NewHeadless(cfg)
	h.Fail(hal.OpCreateNewContext, errScripted)

	_, err := Negotiate(h, cfg.Configs[0])
	if !errors.Is(err, ErrContextCreation) || !errors.Is(err, errScripted) {
		t.Fatalf("err = %v, want ErrContextCreation wrapping the cause", err)
	}
	if h.Live() != 1 {
		t.Fatalf("Live() = %d, want only the connection", h.Live())
	}
}

func TestNegotiateDiagnosticsAreNotFatal(t *testing.T) {
	cfg := hal.DefaultHeadlessConfig()
	h := hal.NewHeadless(cfg)
	h.Fail(hal.OpIsDirect, errScripted)
	h.Fail(hal.OpSync, errScripted)
	h.Fail(hal.OpExtensions, errScripted)

	info, err := Negotiate(h, cfg.Configs[0])
	if err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if info.Extended || info.Direct {
		t.Fatalf("Negotiate() = %+v, want legacy context reported indirect", info)
	}
}
