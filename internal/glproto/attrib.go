// Package glproto holds the GLX protocol constants that the X11 display needs
// on top of github.com/jezek/xgb/glx, plus an encoder for GLX render
// commands (the wire form of immediate GL calls on an indirect context).
package glproto

// FBConfig attribute names as they appear in a GetFBConfigs property list.
const (
	DoubleBuffer  = 0x0005
	RedSize       = 0x0008
	GreenSize     = 0x0009
	BlueSize      = 0x000A
	AlphaSize     = 0x000B
	DepthSize     = 0x000C
	StencilSize   = 0x000D
	XVisualType   = 0x0022
	VisualID      = 0x800B
	DrawableType  = 0x8010
	RenderType    = 0x8011
	XRenderable   = 0x8012
	FBConfigID    = 0x8013
	SampleBuffers = 100000
	Samples       = 100001
)

// Attribute values.
const (
	TrueColor = 0x8002
	WindowBit = 0x0001
	RGBABit   = 0x0001
	RGBAType  = 0x8014
)

// GLX_ARB_create_context attributes.
const (
	ContextMajorVersionARB         = 0x2091
	ContextMinorVersionARB         = 0x2092
	ContextFlagsARB                = 0x2094
	ContextForwardCompatibleBitARB = 0x0002
)

// ServerExtensions is the QueryServerString name of the extension list.
const ServerExtensions = 3

// Extension names tested for by substring.
const (
	ExtCreateContext        = "GLX_ARB_create_context"
	ExtCreateContextProfile = "GLX_ARB_create_context_profile"
)

// GL enums used by the indirect GL shim.
const (
	Vendor                 = 0x1F00
	Renderer               = 0x1F01
	Version                = 0x1F02
	ShadingLanguageVersion = 0x8B8C
	ColorBufferBit         = 0x4000
	Triangles              = 0x0004
)
