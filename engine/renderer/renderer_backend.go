package renderer

import (
	"math"

	"github.com/Carmen-Shannon/oxy-bootstrap/engine/window"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// FeatureLevel is the GPU capability tier a device is created against.
type FeatureLevel int

const (
	// FeatureLevel11_0 is the only tier the surface manager requests.
	FeatureLevel11_0 FeatureLevel = iota
)

// Format identifies a texture or view pixel format.
type Format int

const (
	FormatUnknown         Format = iota
	FormatRGBA8Unorm             // 32-bit colour, 8 bits per channel
	FormatD24UnormS8Uint         // 24-bit depth with 8-bit stencil
)

// SwapEffect selects what happens to back buffer contents after presentation.
type SwapEffect int

const (
	// SwapEffectDiscard discards back buffer contents after each present.
	SwapEffectDiscard SwapEffect = iota
)

// BindFlag describes how a texture is bound to the pipeline. Values may be OR'd together.
type BindFlag uint32

const (
	BindRenderTarget BindFlag = 1 << iota
	BindDepthStencil
)

// ComparisonFunc is the comparison used by depth and stencil tests.
type ComparisonFunc int

const (
	ComparisonNever ComparisonFunc = iota
	ComparisonLess
	ComparisonEqual
	ComparisonLessEqual
	ComparisonGreater
	ComparisonNotEqual
	ComparisonGreaterEqual
	ComparisonAlways
)

// StencilOp is the operation applied to the stencil buffer after a stencil test.
type StencilOp int

const (
	StencilOpKeep StencilOp = iota
	StencilOpZero
	StencilOpReplace
	StencilOpIncrSat
	StencilOpDecrSat
	StencilOpInvert
	StencilOpIncr // wraps on overflow
	StencilOpDecr // wraps on underflow
)

// DepthWriteMask selects whether depth tests write to the depth buffer.
type DepthWriteMask int

const (
	DepthWriteMaskZero DepthWriteMask = iota
	DepthWriteMaskAll
)

// FillMode selects how primitives are rasterized.
type FillMode int

const (
	FillSolid FillMode = iota
	FillWireframe
)

// CullMode selects which triangle faces are discarded.
type CullMode int

const (
	CullNone CullMode = iota
	CullFront
	CullBack
)

// ViewDimension is the dimensionality of a resource view.
type ViewDimension int

const (
	ViewDimensionTexture2D ViewDimension = iota
)

// ClearFlags selects which parts of a depth-stencil view are cleared. Values may be OR'd together.
type ClearFlags uint32

const (
	ClearDepth ClearFlags = 1 << iota
	ClearStencil
)

// Rational is a refresh rate expressed as Numerator/Denominator Hz.
// The zero value means "unspecified": the driver picks.
type Rational struct {
	Numerator   uint32
	Denominator uint32
}

// Hz returns the refresh rate rounded to whole hertz, or 0 when the denominator is zero.
func (r Rational) Hz() int {
	if r.Denominator == 0 {
		return 0
	}
	return int(math.Round(float64(r.Numerator) / float64(r.Denominator)))
}

// DisplayMode is one mode supported by an adapter's primary output.
type DisplayMode struct {
	Width       uint32
	Height      uint32
	RefreshRate Rational
	Format      Format
}

// AdapterDesc describes a video adapter.
type AdapterDesc struct {
	Description          string
	DedicatedVideoMemory uint64 // bytes
}

// SwapChainDescriptor configures CreateDeviceAndSwapChain.
type SwapChainDescriptor struct {
	BufferCount   uint32
	Width         uint32
	Height        uint32
	Format        Format
	RefreshRate   Rational
	OutputWindow  window.Window
	SampleCount   uint32
	SampleQuality uint32
	Windowed      bool
	SwapEffect    SwapEffect

	// SyncInterval is the interval Present is expected to be called with.
	// Backends that fix the presentation mode at creation time use it up front.
	SyncInterval uint32
}

// TextureDescriptor configures a 2D texture.
type TextureDescriptor struct {
	Width         uint32
	Height        uint32
	MipLevels     uint32
	ArraySize     uint32
	Format        Format
	SampleCount   uint32
	SampleQuality uint32
	BindFlags     BindFlag
}

// StencilFaceDescriptor holds the stencil operations for one triangle facing.
type StencilFaceDescriptor struct {
	FailOp      StencilOp
	DepthFailOp StencilOp
	PassOp      StencilOp
	Func        ComparisonFunc
}

// DepthStencilDescriptor configures a depth-stencil state.
type DepthStencilDescriptor struct {
	DepthEnable      bool
	DepthWriteMask   DepthWriteMask
	DepthFunc        ComparisonFunc
	StencilEnable    bool
	StencilReadMask  uint8
	StencilWriteMask uint8
	FrontFace        StencilFaceDescriptor
	BackFace         StencilFaceDescriptor
}

// DepthStencilViewDescriptor configures a depth-stencil view.
type DepthStencilViewDescriptor struct {
	Format    Format
	Dimension ViewDimension
	MipSlice  uint32
}

// RasterizerDescriptor configures a rasterizer state.
type RasterizerDescriptor struct {
	FillMode              FillMode
	CullMode              CullMode
	FrontCounterClockwise bool
	DepthBias             int32
	DepthBiasClamp        float32
	SlopeScaledDepthBias  float32
	DepthClipEnable       bool
	ScissorEnable         bool
	MultisampleEnable     bool
	AntialiasedLineEnable bool
}

// Viewport maps normalized device coordinates to the render target.
type Viewport struct {
	TopLeftX float32
	TopLeftY float32
	Width    float32
	Height   float32
	MinDepth float32
	MaxDepth float32
}

// Resource is a GPU object with exactly one owner. Release must be called once by that owner.
type Resource interface {
	Release()
}

// Adapter is a video adapter used to enumerate display modes and describe the GPU.
type Adapter interface {
	Resource

	// Desc describes the adapter.
	//
	// Returns:
	//   - AdapterDesc: the adapter description and dedicated memory
	//   - error: an error if the adapter cannot be queried
	Desc() (AdapterDesc, error)

	// DisplayModes lists the modes of the adapter's primary output that match the given format.
	//
	// Parameters:
	//   - format: the pixel format modes must support
	//
	// Returns:
	//   - []DisplayMode: the matching modes (may be empty)
	//   - error: an error if the adapter has no output or the modes cannot be listed
	DisplayModes(format Format) ([]DisplayMode, error)
}

// Texture is a 2D GPU texture.
type Texture interface {
	Resource

	// Desc returns the descriptor the texture was created with.
	Desc() TextureDescriptor
}

// RenderTargetView is a colour attachment view of a texture.
type RenderTargetView interface {
	Resource
}

// DepthStencilView is a depth-stencil attachment view of a texture.
type DepthStencilView interface {
	Resource
}

// DepthStencilState is an immutable depth and stencil test configuration.
type DepthStencilState interface {
	Resource
}

// RasterizerState is an immutable rasterizer configuration.
type RasterizerState interface {
	Resource
}

// Device creates GPU resources.
type Device interface {
	Resource

	// CreateRenderTargetView creates a colour view of the given texture.
	CreateRenderTargetView(resource Texture) (RenderTargetView, error)

	// CreateTexture2D creates a 2D texture.
	CreateTexture2D(desc TextureDescriptor) (Texture, error)

	// CreateDepthStencilState creates a depth-stencil state object.
	CreateDepthStencilState(desc DepthStencilDescriptor) (DepthStencilState, error)

	// CreateDepthStencilView creates a depth-stencil view of the given texture.
	CreateDepthStencilView(resource Texture, desc DepthStencilViewDescriptor) (DepthStencilView, error)

	// CreateRasterizerState creates a rasterizer state object.
	CreateRasterizerState(desc RasterizerDescriptor) (RasterizerState, error)
}

// Context binds pipeline state and records clear commands.
type Context interface {
	Resource

	// SetDepthStencilState binds a depth-stencil state with the given stencil reference value.
	SetDepthStencilState(state DepthStencilState, stencilRef uint32)

	// SetRenderTargets binds one colour target and one depth-stencil target.
	SetRenderTargets(rtv RenderTargetView, dsv DepthStencilView)

	// SetRasterizerState binds a rasterizer state.
	SetRasterizerState(state RasterizerState)

	// SetViewport binds a single viewport.
	SetViewport(vp Viewport)

	// ClearRenderTargetView fills a colour target with an RGBA colour.
	ClearRenderTargetView(rtv RenderTargetView, color [4]float32) error

	// ClearDepthStencilView resets the selected parts of a depth-stencil target.
	ClearDepthStencilView(dsv DepthStencilView, flags ClearFlags, depth float32, stencil uint8) error
}

// SwapChain owns the presentable back buffers of a window.
type SwapChain interface {
	Resource

	// BackBuffer returns a new reference to the back buffer. The caller owns and releases it.
	BackBuffer() (Texture, error)

	// Present shows the back buffer.
	//
	// Parameters:
	//   - syncInterval: 1 to wait for the vertical blank, 0 to present immediately
	//
	// Returns:
	//   - error: an error if presentation fails
	Present(syncInterval uint32) error

	// SetFullscreenState switches the output between exclusive fullscreen and windowed mode.
	SetFullscreenState(fullscreen bool) error
}

// RendererBackend is the entry point of a GPU API implementation.
type RendererBackend interface {
	// EnumerateAdapter opens the default video adapter for enumeration. The adapter is
	// used only to read display modes and the description and is released by the caller.
	//
	// Parameters:
	//   - target: the window the adapter will present to
	//
	// Returns:
	//   - Adapter: the default adapter
	//   - error: an error if no adapter is available
	EnumerateAdapter(target window.Window) (Adapter, error)

	// CreateDeviceAndSwapChain creates the device, its immediate context and a swap chain
	// for desc.OutputWindow, all on the default adapter. On error nothing is returned and
	// nothing needs releasing.
	//
	// Parameters:
	//   - level: the required feature level
	//   - desc: the swap chain configuration
	//
	// Returns:
	//   - Device: the created device
	//   - Context: the device's immediate context
	//   - SwapChain: the created swap chain
	//   - error: an error if any of the three could not be created
	CreateDeviceAndSwapChain(level FeatureLevel, desc SwapChainDescriptor) (Device, Context, SwapChain, error)
}
