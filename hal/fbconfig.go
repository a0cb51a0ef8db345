package hal

import (
	"fmt"

	"lumen/internal/glproto"
)

// FBConfig describes one framebuffer configuration offered by the server.
type FBConfig struct {
	ID       uint32
	VisualID uint32

	RedSize     int
	GreenSize   int
	BlueSize    int
	AlphaSize   int
	DepthSize   int
	StencilSize int

	DoubleBuffer  bool
	SampleBuffers int
	Samples       int

	DrawableType uint32
	RenderType   uint32
	XRenderable  bool
	VisualType   uint32
}

// Multisampled reports whether the configuration has sample buffers.
func (c FBConfig) Multisampled() bool { return c.SampleBuffers > 0 }

func (c FBConfig) String() string {
	return fmt.Sprintf("fbconfig 0x%x visual 0x%x rgba %d/%d/%d/%d depth %d stencil %d db %t samples %d/%d",
		c.ID, c.VisualID, c.RedSize, c.GreenSize, c.BlueSize, c.AlphaSize,
		c.DepthSize, c.StencilSize, c.DoubleBuffer, c.SampleBuffers, c.Samples)
}

// Requirements are the minimums a configuration must meet to be drawn into.
type Requirements struct {
	RedSize      int
	GreenSize    int
	BlueSize     int
	AlphaSize    int
	DepthSize    int
	StencilSize  int
	DoubleBuffer bool
	WindowBit    bool
}

// DefaultRequirements returns RGBA8, 24-bit depth, 8-bit stencil,
// double-buffered, window-capable TrueColor.
func DefaultRequirements() Requirements {
	return Requirements{
		RedSize:      8,
		GreenSize:    8,
		BlueSize:     8,
		AlphaSize:    8,
		DepthSize:    24,
		StencilSize:  8,
		DoubleBuffer: true,
		WindowBit:    true,
	}
}

// Matches reports whether cfg satisfies r.
func (r Requirements) Matches(cfg FBConfig) bool {
	if !cfg.XRenderable {
		return false
	}
	if cfg.RenderType&glproto.RGBABit == 0 {
		return false
	}
	if cfg.VisualType != glproto.TrueColor {
		return false
	}
	if r.WindowBit && cfg.DrawableType&glproto.WindowBit == 0 {
		return false
	}
	if r.DoubleBuffer && !cfg.DoubleBuffer {
		return false
	}
	return cfg.RedSize >= r.RedSize &&
		cfg.GreenSize >= r.GreenSize &&
		cfg.BlueSize >= r.BlueSize &&
		cfg.AlphaSize >= r.AlphaSize &&
		cfg.DepthSize >= r.DepthSize &&
		cfg.StencilSize >= r.StencilSize
}

// DecodeFBConfigs decodes a GetFBConfigs property list: numConfigs runs of
// numProps (attribute, value) pairs.
func DecodeFBConfigs(numConfigs, numProps int, props []uint32) ([]FBConfig, error) {
	if numConfigs < 0 || numProps < 0 {
		return nil, fmt.Errorf("fbconfig: negative counts %d/%d", numConfigs, numProps)
	}
	stride := numProps * 2
	if len(props) < numConfigs*stride {
		return nil, fmt.Errorf("fbconfig: property list has %d words, want %d", len(props), numConfigs*stride)
	}

	out := make([]FBConfig, 0, numConfigs)
	for i := 0; i < numConfigs; i++ {
		var cfg FBConfig
		run := props[i*stride : (i+1)*stride]
		for j := 0; j+1 < len(run); j += 2 {
			setAttrib(&cfg, run[j], run[j+1])
		}
		out = append(out, cfg)
	}
	return out, nil
}

func setAttrib(cfg *FBConfig, attr, val uint32) {
	switch attr {
	case glproto.FBConfigID:
		cfg.ID = val
	case glproto.VisualID:
		cfg.VisualID = val
	case glproto.RedSize:
		cfg.RedSize = int(val)
	case glproto.GreenSize:
		cfg.GreenSize = int(val)
	case glproto.BlueSize:
		cfg.BlueSize = int(val)
	case glproto.AlphaSize:
		cfg.AlphaSize = int(val)
	case glproto.DepthSize:
		cfg.DepthSize = int(val)
	case glproto.StencilSize:
		cfg.StencilSize = int(val)
	case glproto.DoubleBuffer:
		cfg.DoubleBuffer = val != 0
	case glproto.SampleBuffers:
		cfg.SampleBuffers = int(val)
	case glproto.Samples:
		cfg.Samples = int(val)
	case glproto.DrawableType:
		cfg.DrawableType = val
	case glproto.RenderType:
		cfg.RenderType = val
	case glproto.XRenderable:
		cfg.XRenderable = val != 0
	case glproto.XVisualType:
		cfg.VisualType = val
	}
}

// ChooseFBConfigs returns the configurations of d that satisfy req, in the
// order the server listed them.
func ChooseFBConfigs(d interface{ FBConfigs() ([]FBConfig, error) }, req Requirements) ([]FBConfig, error) {
	all, err := d.FBConfigs()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoConfigurations, err)
	}
	var out []FBConfig
	for _, cfg := range all {
		if req.Matches(cfg) {
			out = append(out, cfg)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoConfigurations
	}
	return out, nil
}

// CheckVersion fails with ErrUnsupportedPlatform when the display's GLX
// version is below major.minor.
func CheckVersion(d interface{ QueryVersion() (int, int, error) }, major, minor int) error {
	gotMajor, gotMinor, err := d.QueryVersion()
	if err != nil {
		return fmt.Errorf("%w: query version: %w", ErrUnsupportedPlatform, err)
	}
	if gotMajor < major || (gotMajor == major && gotMinor < minor) {
		return fmt.Errorf("%w: have %d.%d, need %d.%d", ErrUnsupportedPlatform, gotMajor, gotMinor, major, minor)
	}
	return nil
}
