package renderer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-bootstrap/common"
	"github.com/Carmen-Shannon/oxy-bootstrap/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuRendererBackendImpl implements RendererBackend on WebGPU.
//
// WebGPU folds several concepts of the backend abstraction together: there is no separate
// immediate context (the queue plays that role), depth/stencil and rasterizer state are baked
// into pipelines rather than bound, and the swap chain is a configured surface. The types
// below keep the abstraction's ownership model and translate at the edges.
type wgpuRendererBackendImpl struct {
	forceFallbackAdapter bool
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(forceFallbackAdapter bool) RendererBackend {
	return &wgpuRendererBackendImpl{
		forceFallbackAdapter: forceFallbackAdapter,
	}
}

func (b *wgpuRendererBackendImpl) EnumerateAdapter(target window.Window) (Adapter, error) {
	if target == nil {
		return nil, errors.New("no target window")
	}

	surfaceDescriptor := target.SurfaceDescriptor()
	if surfaceDescriptor == nil {
		return nil, errors.New("target window has no surface")
	}

	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		return nil, errors.New("failed to create wgpu instance")
	}

	// The surface makes the request pick the same adapter CreateDeviceAndSwapChain will.
	surface := instance.CreateSurface(surfaceDescriptor)
	if surface == nil {
		instance.Release()
		return nil, errors.New("failed to create surface")
	}

	a, err := instance.RequestAdapter(b.adapterOptions(surface))
	if err != nil {
		surface.Release()
		instance.Release()
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}

	return &wgpuAdapter{
		instance: instance,
		surface:  surface,
		adapter:  a,
		target:   target,
	}, nil
}

func (b *wgpuRendererBackendImpl) adapterOptions(surface *wgpu.Surface) *wgpu.RequestAdapterOptions {
	return &wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.forceFallbackAdapter,
		PowerPreference:      wgpu.PowerPreferenceHighPerformance,
		CompatibleSurface:    surface,
	}
}

func (b *wgpuRendererBackendImpl) CreateDeviceAndSwapChain(level FeatureLevel, desc SwapChainDescriptor) (Device, Context, SwapChain, error) {
	if level != FeatureLevel11_0 {
		return nil, nil, nil, fmt.Errorf("unsupported feature level %d", level)
	}
	if desc.OutputWindow == nil {
		return nil, nil, nil, errors.New("no output window")
	}
	if desc.Format != FormatRGBA8Unorm {
		return nil, nil, nil, fmt.Errorf("unsupported back buffer format %d", desc.Format)
	}
	if desc.SampleCount > 1 {
		return nil, nil, nil, fmt.Errorf("multisampled swap chains are not supported (sample count %d)", desc.SampleCount)
	}

	surfaceDescriptor := desc.OutputWindow.SurfaceDescriptor()
	if surfaceDescriptor == nil {
		return nil, nil, nil, errors.New("output window has no surface")
	}

	// Local release stack: on any failure everything created here is released and
	// the caller receives nothing to clean up.
	stack := &releaseStack{log: common.Logger()}
	fail := func(err error) (Device, Context, SwapChain, error) {
		stack.unwind()
		return nil, nil, nil, err
	}

	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		return fail(errors.New("failed to create wgpu instance"))
	}
	stack.push("instance", instance.Release)

	surface := instance.CreateSurface(surfaceDescriptor)
	if surface == nil {
		return fail(errors.New("failed to create surface"))
	}
	stack.push("surface", surface.Release)

	a, err := instance.RequestAdapter(b.adapterOptions(surface))
	if err != nil {
		return fail(fmt.Errorf("failed to request adapter: %w", err))
	}
	stack.push("adapter", a.Release)

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		return fail(fmt.Errorf("failed to request device: %w", err))
	}
	stack.push("device", d.Release)

	queue := d.GetQueue()
	if queue == nil {
		return fail(errors.New("device has no queue"))
	}
	stack.push("queue", queue.Release)

	capabilities := surface.GetCapabilities(a)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		return fail(errors.New("surface is not presentable with this adapter"))
	}

	chain := &wgpuSwapChain{
		instance:     instance,
		surface:      surface,
		adapter:      a,
		device:       d,
		target:       desc.OutputWindow,
		format:       pickSurfaceFormat(capabilities.Formats),
		alphaMode:    capabilities.AlphaModes[0],
		presentModes: capabilities.PresentModes,
		width:        desc.Width,
		height:       desc.Height,
		refreshRate:  desc.RefreshRate,
	}

	if !desc.Windowed {
		if err := chain.SetFullscreenState(true); err != nil {
			return fail(fmt.Errorf("failed to enter fullscreen: %w", err))
		}
	}
	chain.configure(desc.SyncInterval)

	// Ownership of everything on the stack now belongs to the returned handles.
	stack.discard()

	adapterName := a.GetInfo().Name
	common.Logger().Debug("wgpu device created",
		"adapter", adapterName,
		"surface_format", chain.format,
		"present_mode", chain.presentMode,
	)

	return &wgpuDevice{device: d},
		&wgpuContext{device: d, queue: queue},
		chain,
		nil
}

// pickSurfaceFormat prefers RGBA8 and accepts BGRA8, the other 32-bit colour layout surfaces
// commonly expose. Any other surface keeps its preferred format.
func pickSurfaceFormat(formats []wgpu.TextureFormat) wgpu.TextureFormat {
	for _, want := range []wgpu.TextureFormat{wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatBGRA8Unorm} {
		if slices.Contains(formats, want) {
			return want
		}
	}
	return formats[0]
}

// wgpuAdapter is an enumeration-only adapter with its own instance.
type wgpuAdapter struct {
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	target   window.Window
}

var _ Adapter = &wgpuAdapter{}

func (a *wgpuAdapter) Desc() (AdapterDesc, error) {
	if a.adapter == nil {
		return AdapterDesc{}, errors.New("adapter released")
	}

	info := a.adapter.GetInfo()
	description := info.Name
	if info.DriverDescription != "" {
		description = fmt.Sprintf("%s (%s)", info.Name, info.DriverDescription)
	}

	// WebGPU does not report dedicated memory; the largest allocatable buffer is the closest figure.
	limits := a.adapter.GetLimits()
	return AdapterDesc{
		Description:          description,
		DedicatedVideoMemory: limits.Limits.MaxBufferSize,
	}, nil
}

func (a *wgpuAdapter) DisplayModes(format Format) ([]DisplayMode, error) {
	if format != FormatRGBA8Unorm {
		return nil, fmt.Errorf("unsupported display format %d", format)
	}

	videoModes := a.target.VideoModes()
	if videoModes == nil {
		return nil, errors.New("adapter has no output")
	}

	modes := make([]DisplayMode, 0, len(videoModes))
	for _, vm := range videoModes {
		if vm.RedBits != 8 || vm.GreenBits != 8 || vm.BlueBits != 8 {
			continue
		}
		modes = append(modes, DisplayMode{
			Width:       uint32(vm.Width),
			Height:      uint32(vm.Height),
			RefreshRate: Rational{Numerator: uint32(vm.RefreshRate), Denominator: 1},
			Format:      format,
		})
	}
	return modes, nil
}

func (a *wgpuAdapter) Release() {
	if a.adapter != nil {
		a.adapter.Release()
		a.adapter = nil
	}
	if a.surface != nil {
		a.surface.Release()
		a.surface = nil
	}
	if a.instance != nil {
		a.instance.Release()
		a.instance = nil
	}
}

// wgpuSwapChain is a configured surface plus the instance and adapter it was created from.
// The current surface texture is acquired lazily by the first clear of a frame and released on present.
type wgpuSwapChain struct {
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	target   window.Window

	format       wgpu.TextureFormat
	alphaMode    wgpu.CompositeAlphaMode
	presentModes []wgpu.PresentMode
	presentMode  wgpu.PresentMode
	width        uint32
	height       uint32
	refreshRate  Rational

	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ SwapChain = &wgpuSwapChain{}

// presentModeFor maps a sync interval to a present mode the surface supports.
// Interval 0 prefers Immediate, then Mailbox, neither of which waits for the vertical blank.
// Fifo is always available and is the last resort.
func (s *wgpuSwapChain) presentModeFor(syncInterval uint32) wgpu.PresentMode {
	if syncInterval == 0 {
		for _, mode := range []wgpu.PresentMode{wgpu.PresentModeImmediate, wgpu.PresentModeMailbox} {
			if slices.Contains(s.presentModes, mode) {
				return mode
			}
		}
	}
	return wgpu.PresentModeFifo
}

// configure (re)configures the surface for the present mode matching syncInterval.
func (s *wgpuSwapChain) configure(syncInterval uint32) {
	mode := s.presentModeFor(syncInterval)
	if syncInterval == 0 && mode == wgpu.PresentModeFifo {
		common.Logger().Warn("surface offers no non-blocking present mode; presenting with fifo",
			"present_modes", s.presentModes)
	}
	s.presentMode = mode
	s.surface.Configure(s.adapter, s.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      s.format,
		Width:       s.width,
		Height:      s.height,
		PresentMode: mode,
		AlphaMode:   s.alphaMode,
	})
}

// acquire returns the view of the current surface texture, acquiring it on first use in a frame.
func (s *wgpuSwapChain) acquire() (*wgpu.TextureView, error) {
	if s.surface == nil {
		return nil, errors.New("swap chain released")
	}
	if s.frameView != nil {
		return s.frameView, nil
	}

	surfaceTexture, err := s.surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire surface texture: %w", err)
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return nil, fmt.Errorf("failed to create surface texture view: %w", err)
	}

	s.frameSurface = surfaceTexture
	s.frameView = view
	return view, nil
}

func (s *wgpuSwapChain) releaseFrame() {
	if s.frameView != nil {
		s.frameView.Release()
		s.frameView = nil
	}
	if s.frameSurface != nil {
		s.frameSurface.Release()
		s.frameSurface = nil
	}
}

func (s *wgpuSwapChain) BackBuffer() (Texture, error) {
	if s.surface == nil {
		return nil, errors.New("swap chain released")
	}
	return &wgpuBackBuffer{
		chain: s,
		desc: TextureDescriptor{
			Width:       s.width,
			Height:      s.height,
			MipLevels:   1,
			ArraySize:   1,
			Format:      FormatRGBA8Unorm,
			SampleCount: 1,
			BindFlags:   BindRenderTarget,
		},
	}, nil
}

func (s *wgpuSwapChain) Present(syncInterval uint32) error {
	if s.surface == nil {
		return errors.New("swap chain released")
	}

	// Nothing was drawn this frame, so there is no acquired texture to present.
	if s.frameSurface != nil {
		s.surface.Present()
		s.releaseFrame()
	}

	// A changed interval takes effect from the next frame.
	if s.presentModeFor(syncInterval) != s.presentMode {
		s.configure(syncInterval)
	}
	return nil
}

func (s *wgpuSwapChain) SetFullscreenState(fullscreen bool) error {
	if s.target == nil {
		return errors.New("swap chain released")
	}
	if s.target.Fullscreen() == fullscreen {
		return nil
	}
	return s.target.SetFullscreen(fullscreen, s.refreshRate.Hz())
}

func (s *wgpuSwapChain) Release() {
	s.releaseFrame()
	if s.surface != nil {
		s.surface.Release()
		s.surface = nil
	}
	if s.adapter != nil {
		s.adapter.Release()
		s.adapter = nil
	}
	if s.instance != nil {
		s.instance.Release()
		s.instance = nil
	}
	s.device = nil
	s.target = nil
}

// wgpuBackBuffer refers to whichever surface texture is current. It holds no GPU memory of its own.
type wgpuBackBuffer struct {
	chain *wgpuSwapChain
	desc  TextureDescriptor
}

var _ Texture = &wgpuBackBuffer{}

func (t *wgpuBackBuffer) Desc() TextureDescriptor {
	return t.desc
}

func (t *wgpuBackBuffer) Release() {
	t.chain = nil
}

// wgpuTexture is a device-owned texture.
type wgpuTexture struct {
	texture *wgpu.Texture
	desc    TextureDescriptor
}

var _ Texture = &wgpuTexture{}

func (t *wgpuTexture) Desc() TextureDescriptor {
	return t.desc
}

func (t *wgpuTexture) Release() {
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

// wgpuRenderTargetView targets the swap chain's current surface texture.
type wgpuRenderTargetView struct {
	chain *wgpuSwapChain
}

var _ RenderTargetView = &wgpuRenderTargetView{}

func (v *wgpuRenderTargetView) Release() {
	if v.chain != nil {
		v.chain.releaseFrame()
		v.chain = nil
	}
}

// wgpuDepthStencilView is a texture view over a depth/stencil texture.
type wgpuDepthStencilView struct {
	view   *wgpu.TextureView
	format wgpu.TextureFormat
}

var _ DepthStencilView = &wgpuDepthStencilView{}

func (v *wgpuDepthStencilView) Release() {
	if v.view != nil {
		v.view.Release()
		v.view = nil
	}
}

// wgpuDepthStencilState is the depth/stencil configuration in the form pipelines consume it.
type wgpuDepthStencilState struct {
	state wgpu.DepthStencilState
}

var _ DepthStencilState = &wgpuDepthStencilState{}

func (s *wgpuDepthStencilState) Release() {}

// wgpuRasterizerState is the rasterizer configuration in the form pipelines consume it.
type wgpuRasterizerState struct {
	primitive           wgpu.PrimitiveState
	depthBias           int32
	depthBiasClamp      float32
	depthBiasSlopeScale float32
}

var _ RasterizerState = &wgpuRasterizerState{}

func (s *wgpuRasterizerState) Release() {}

// wgpuDevice creates resources on a wgpu.Device.
type wgpuDevice struct {
	device *wgpu.Device
}

var _ Device = &wgpuDevice{}

func (d *wgpuDevice) CreateRenderTargetView(resource Texture) (RenderTargetView, error) {
	backBuffer, ok := resource.(*wgpuBackBuffer)
	if !ok || backBuffer.chain == nil {
		return nil, errors.New("render target views can only be created for a swap chain back buffer")
	}
	return &wgpuRenderTargetView{chain: backBuffer.chain}, nil
}

func (d *wgpuDevice) CreateTexture2D(desc TextureDescriptor) (Texture, error) {
	format, err := toWGPUTextureFormat(desc.Format)
	if err != nil {
		return nil, err
	}

	var usage wgpu.TextureUsage
	if desc.BindFlags&(BindRenderTarget|BindDepthStencil) != 0 {
		usage |= wgpu.TextureUsageRenderAttachment
	}
	if usage == 0 {
		return nil, errors.New("texture has no bind flags")
	}

	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Texture2D",
		Size: wgpu.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: max(desc.ArraySize, 1),
		},
		MipLevelCount: max(desc.MipLevels, 1),
		SampleCount:   max(desc.SampleCount, 1),
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create texture: %w", err)
	}
	return &wgpuTexture{texture: tex, desc: desc}, nil
}

func (d *wgpuDevice) CreateDepthStencilState(desc DepthStencilDescriptor) (DepthStencilState, error) {
	state := wgpu.DepthStencilState{
		Format:       wgpu.TextureFormatDepth24PlusStencil8,
		DepthCompare: wgpu.CompareFunctionAlways,
		StencilFront: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
		StencilBack: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
	}

	if desc.DepthEnable {
		state.DepthCompare = toWGPUCompare(desc.DepthFunc)
		state.DepthWriteEnabled = desc.DepthWriteMask == DepthWriteMaskAll
	}
	if desc.StencilEnable {
		state.StencilReadMask = uint32(desc.StencilReadMask)
		state.StencilWriteMask = uint32(desc.StencilWriteMask)
		state.StencilFront = toWGPUStencilFace(desc.FrontFace)
		state.StencilBack = toWGPUStencilFace(desc.BackFace)
	}

	return &wgpuDepthStencilState{state: state}, nil
}

func (d *wgpuDevice) CreateDepthStencilView(resource Texture, desc DepthStencilViewDescriptor) (DepthStencilView, error) {
	tex, ok := resource.(*wgpuTexture)
	if !ok || tex.texture == nil {
		return nil, errors.New("depth stencil views can only be created for a device texture")
	}
	if desc.Dimension != ViewDimensionTexture2D {
		return nil, fmt.Errorf("unsupported view dimension %d", desc.Dimension)
	}
	format, err := toWGPUTextureFormat(desc.Format)
	if err != nil {
		return nil, err
	}

	view, err := tex.texture.CreateView(&wgpu.TextureViewDescriptor{
		Label:           "Depth Stencil View",
		Format:          format,
		Dimension:       wgpu.TextureViewDimension2D,
		BaseMipLevel:    desc.MipSlice,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: 1,
		Aspect:          wgpu.TextureAspectAll,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create depth stencil view: %w", err)
	}
	return &wgpuDepthStencilView{view: view, format: format}, nil
}

func (d *wgpuDevice) CreateRasterizerState(desc RasterizerDescriptor) (RasterizerState, error) {
	if desc.FillMode != FillSolid {
		return nil, errors.New("wireframe fill is not supported by WebGPU")
	}

	frontFace := wgpu.FrontFaceCW
	if desc.FrontCounterClockwise {
		frontFace = wgpu.FrontFaceCCW
	}

	var cull wgpu.CullMode
	switch desc.CullMode {
	case CullFront:
		cull = wgpu.CullModeFront
	case CullBack:
		cull = wgpu.CullModeBack
	default:
		cull = wgpu.CullModeNone
	}

	return &wgpuRasterizerState{
		primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: frontFace,
			CullMode:  cull,
		},
		depthBias:           desc.DepthBias,
		depthBiasClamp:      desc.DepthBiasClamp,
		depthBiasSlopeScale: desc.SlopeScaledDepthBias,
	}, nil
}

func (d *wgpuDevice) Release() {
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
}

// wgpuContext records clears on the device queue and holds the bound state that
// pipelines created later are built against.
type wgpuContext struct {
	device *wgpu.Device
	queue  *wgpu.Queue

	renderTarget *wgpuRenderTargetView
	depthTarget  *wgpuDepthStencilView
	depthStencil *wgpuDepthStencilState
	stencilRef   uint32
	rasterizer   *wgpuRasterizerState
	viewport     Viewport
}

var _ Context = &wgpuContext{}
var _ WGPUPipelineState = &wgpuContext{}

// WGPUPipelineState is implemented by the Context of the WebGPU backend. WebGPU bakes
// depth/stencil and rasterizer state into pipelines, so render pipelines built against the
// Renderer read the bound state from here.
//
// Usage:
//
//	if ps, ok := r.Context().(renderer.WGPUPipelineState); ok { ... }
type WGPUPipelineState interface {
	// PipelineState returns the bound depth/stencil state with the rasterizer's depth bias
	// applied, the bound primitive state and the stencil reference.
	//
	// Returns:
	//   - wgpu.DepthStencilState: the depth/stencil state, zero if none is bound
	//   - wgpu.PrimitiveState: the primitive state, zero if no rasterizer state is bound
	//   - uint32: the stencil reference
	PipelineState() (wgpu.DepthStencilState, wgpu.PrimitiveState, uint32)

	// AttachmentFormats returns the formats of the bound render targets.
	//
	// Returns:
	//   - wgpu.TextureFormat: the colour target format, undefined if none is bound
	//   - wgpu.TextureFormat: the depth/stencil target format, undefined if none is bound
	AttachmentFormats() (wgpu.TextureFormat, wgpu.TextureFormat)
}

func (c *wgpuContext) PipelineState() (wgpu.DepthStencilState, wgpu.PrimitiveState, uint32) {
	var depthStencil wgpu.DepthStencilState
	var primitive wgpu.PrimitiveState
	if c.depthStencil != nil {
		depthStencil = c.depthStencil.state
	}
	if c.rasterizer != nil {
		primitive = c.rasterizer.primitive
		depthStencil.DepthBias = c.rasterizer.depthBias
		depthStencil.DepthBiasSlopeScale = c.rasterizer.depthBiasSlopeScale
		depthStencil.DepthBiasClamp = c.rasterizer.depthBiasClamp
	}
	return depthStencil, primitive, c.stencilRef
}

func (c *wgpuContext) AttachmentFormats() (wgpu.TextureFormat, wgpu.TextureFormat) {
	color, depth := wgpu.TextureFormatUndefined, wgpu.TextureFormatUndefined
	if c.renderTarget != nil && c.renderTarget.chain != nil {
		color = c.renderTarget.chain.format
	}
	if c.depthTarget != nil {
		depth = c.depthTarget.format
	}
	return color, depth
}

func (c *wgpuContext) SetDepthStencilState(state DepthStencilState, stencilRef uint32) {
	c.depthStencil, _ = state.(*wgpuDepthStencilState)
	c.stencilRef = stencilRef
}

func (c *wgpuContext) SetRenderTargets(rtv RenderTargetView, dsv DepthStencilView) {
	c.renderTarget, _ = rtv.(*wgpuRenderTargetView)
	c.depthTarget, _ = dsv.(*wgpuDepthStencilView)
}

func (c *wgpuContext) SetRasterizerState(state RasterizerState) {
	c.rasterizer, _ = state.(*wgpuRasterizerState)
}

func (c *wgpuContext) SetViewport(vp Viewport) {
	c.viewport = vp
}

func (c *wgpuContext) ClearRenderTargetView(rtv RenderTargetView, color [4]float32) error {
	target, ok := rtv.(*wgpuRenderTargetView)
	if !ok || target.chain == nil {
		return errors.New("invalid render target view")
	}
	view, err := target.chain.acquire()
	if err != nil {
		return err
	}

	return c.submitPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    view,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: float64(color[0]),
					G: float64(color[1]),
					B: float64(color[2]),
					A: float64(color[3]),
				},
			},
		},
	})
}

func (c *wgpuContext) ClearDepthStencilView(dsv DepthStencilView, flags ClearFlags, depth float32, stencil uint8) error {
	target, ok := dsv.(*wgpuDepthStencilView)
	if !ok || target.view == nil {
		return errors.New("invalid depth stencil view")
	}

	depthLoad, stencilLoad := wgpu.LoadOpLoad, wgpu.LoadOpLoad
	if flags&ClearDepth != 0 {
		depthLoad = wgpu.LoadOpClear
	}
	if flags&ClearStencil != 0 {
		stencilLoad = wgpu.LoadOpClear
	}

	// Depth-only pass: no colour attachments.
	return c.submitPass(&wgpu.RenderPassDescriptor{
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:              target.view,
			DepthLoadOp:       depthLoad,
			DepthStoreOp:      wgpu.StoreOpStore,
			DepthClearValue:   depth,
			StencilLoadOp:     stencilLoad,
			StencilStoreOp:    wgpu.StoreOpStore,
			StencilClearValue: uint32(stencil),
		},
	})
}

// submitPass encodes one render pass that only performs its load operations, then submits it.
func (c *wgpuContext) submitPass(desc *wgpu.RenderPassDescriptor) error {
	if c.device == nil {
		return errors.New("device context released")
	}

	encoder, err := c.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("failed to create command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(desc)
	if c.viewport.Width > 0 && c.viewport.Height > 0 {
		pass.SetViewport(c.viewport.TopLeftX, c.viewport.TopLeftY, c.viewport.Width, c.viewport.Height, c.viewport.MinDepth, c.viewport.MaxDepth)
	}
	if desc.DepthStencilAttachment != nil && c.depthStencil != nil {
		pass.SetStencilReference(c.stencilRef)
	}
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish command encoder: %w", err)
	}
	c.queue.Submit(commandBuffer)
	commandBuffer.Release()
	return nil
}

func (c *wgpuContext) Release() {
	c.renderTarget = nil
	c.depthTarget = nil
	c.depthStencil = nil
	c.rasterizer = nil
	if c.queue != nil {
		c.queue.Release()
		c.queue = nil
	}
	c.device = nil
}

func toWGPUTextureFormat(f Format) (wgpu.TextureFormat, error) {
	switch f {
	case FormatRGBA8Unorm:
		return wgpu.TextureFormatRGBA8Unorm, nil
	case FormatD24UnormS8Uint:
		return wgpu.TextureFormatDepth24PlusStencil8, nil
	default:
		return wgpu.TextureFormatUndefined, fmt.Errorf("unsupported format %d", f)
	}
}

func toWGPUCompare(f ComparisonFunc) wgpu.CompareFunction {
	switch f {
	case ComparisonNever:
		return wgpu.CompareFunctionNever
	case ComparisonLess:
		return wgpu.CompareFunctionLess
	case ComparisonEqual:
		return wgpu.CompareFunctionEqual
	case ComparisonLessEqual:
		return wgpu.CompareFunctionLessEqual
	case ComparisonGreater:
		return wgpu.CompareFunctionGreater
	case ComparisonNotEqual:
		return wgpu.CompareFunctionNotEqual
	case ComparisonGreaterEqual:
		return wgpu.CompareFunctionGreaterEqual
	default:
		return wgpu.CompareFunctionAlways
	}
}

func toWGPUStencilOp(op StencilOp) wgpu.StencilOperation {
	switch op {
	case StencilOpZero:
		return wgpu.StencilOperationZero
	case StencilOpReplace:
		return wgpu.StencilOperationReplace
	case StencilOpIncrSat:
		return wgpu.StencilOperationIncrementClamp
	case StencilOpDecrSat:
		return wgpu.StencilOperationDecrementClamp
	case StencilOpInvert:
		return wgpu.StencilOperationInvert
	case StencilOpIncr:
		return wgpu.StencilOperationIncrementWrap
	case StencilOpDecr:
		return wgpu.StencilOperationDecrementWrap
	default:
		return wgpu.StencilOperationKeep
	}
}

func toWGPUStencilFace(face StencilFaceDescriptor) wgpu.StencilFaceState {
	return wgpu.StencilFaceState{
		Compare:     toWGPUCompare(face.Func),
		FailOp:      toWGPUStencilOp(face.FailOp),
		DepthFailOp: toWGPUStencilOp(face.DepthFailOp),
		PassOp:      toWGPUStencilOp(face.PassOp),
	}
}
