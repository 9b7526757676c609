package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-bootstrap/common"
	"github.com/Carmen-Shannon/oxy-bootstrap/engine/window"
)

const (
	// FieldOfView is the vertical field of view of the projection matrix, in radians.
	FieldOfView = math.Pi / 4

	// DescriptionLimit is the maximum adapter description length in UTF-16 code units.
	DescriptionLimit = 128

	// BackBufferFormat is the colour format of the swap chain and display mode enumeration.
	BackBufferFormat = FormatRGBA8Unorm

	// DepthStencilFormat is the format of the depth/stencil buffer and its view.
	DepthStencilFormat = FormatD24UnormS8Uint

	// RequiredFeatureLevel is the feature level the device is created against.
	RequiredFeatureLevel = FeatureLevel11_0

	stencilReference = 1
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	logger      *slog.Logger

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool

	initialized          bool
	vsyncEnabled         bool
	videoCardMemory      int
	videoCardDescription common.BoundedText

	swapChain          SwapChain
	device             Device
	deviceContext      Context
	renderTargetView   RenderTargetView
	depthStencilBuffer Texture
	depthStencilState  DepthStencilState
	depthStencilView   DepthStencilView
	rasterState        RasterizerState

	projectionMatrix [16]float32
	worldMatrix      [16]float32
	orthoMatrix      [16]float32
}

// Renderer owns the GPU device, swap chain and the fixed render state of a window.
//
// A Renderer is either fully uninitialized (every handle nil) or fully initialized.
// Initialize moves it to the initialized state or leaves it untouched on failure;
// Shutdown moves it back. It is not safe to call from more than one goroutine at a time
// except for the accessors.
type Renderer interface {
	// Initialize creates the device, swap chain, render target, depth/stencil buffer and
	// fixed pipeline state for the target window, then builds the projection, world and
	// orthographic matrices. On failure every resource created so far is released in reverse
	// creation order and the Renderer stays uninitialized.
	//
	// Parameters:
	//   - screenWidth: the back buffer width in pixels (> 0)
	//   - screenHeight: the back buffer height in pixels (> 0)
	//   - vsync: true to present on the vertical blank at the display's refresh rate
	//   - target: the window to present into
	//   - fullscreen: true to start in exclusive fullscreen
	//   - screenDepth: the far clip plane distance (> screenNear)
	//   - screenNear: the near clip plane distance (> 0)
	//
	// Returns:
	//   - error: ErrInvalidArgument, ErrAlreadyInitialized, or a wrapped ErrAdapter,
	//     ErrDeviceCreation or ErrResourceCreation
	Initialize(screenWidth, screenHeight int, vsync bool, target window.Window, fullscreen bool, screenDepth, screenNear float32) error

	// Shutdown leaves fullscreen and releases every GPU resource. Safe to call at any time,
	// including more than once.
	Shutdown()

	// BeginFrame clears the render target to the given colour and resets depth to 1 and stencil to 0.
	//
	// Parameters:
	//   - clearColor: RGBA clear colour, each channel in [0, 1]
	//
	// Returns:
	//   - error: ErrNotInitialized, or a wrapped backend error
	BeginFrame(clearColor [4]float32) error

	// EndFrame presents the back buffer, waiting for the vertical blank when vsync is enabled.
	//
	// Returns:
	//   - error: ErrNotInitialized, or a wrapped ErrPresent
	EndFrame() error

	// Device returns the GPU device, or nil when uninitialized.
	Device() Device

	// Context returns the immediate device context, or nil when uninitialized.
	Context() Context

	// ProjectionMatrix returns the left-handed perspective projection matrix.
	//
	// Returns:
	//   - [16]float32: the matrix in row-vector order, zero when uninitialized
	ProjectionMatrix() [16]float32

	// WorldMatrix returns the world matrix (identity once initialized).
	WorldMatrix() [16]float32

	// OrthoMatrix returns the left-handed orthographic matrix for screen-space drawing.
	OrthoMatrix() [16]float32

	// VideoCardInfo returns the adapter description and its memory in megabytes.
	//
	// Returns:
	//   - string: the description, at most DescriptionLimit UTF-16 code units
	//   - int: the video memory in MB
	VideoCardInfo() (string, int)

	// Initialized reports whether Initialize has completed and Shutdown has not been called since.
	Initialized() bool
}

var _ Renderer = &renderer{}

// NewRenderer creates an uninitialized Renderer with the specified backend type and applies any provided options.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., BackendTypeWGPU)
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the created Renderer
func NewRenderer(backendType RendererBackendType, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
	}

	for _, opt := range options {
		opt(r)
	}

	if r.backend == nil {
		switch r.backendType {
		case BackendTypeWGPU:
			fallthrough
		default:
			r.backend = newWGPURendererBackend(r.forceFallbackAdapter)
		}
	}

	return r
}

func (r *renderer) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return common.Logger()
}

func (r *renderer) Initialize(screenWidth, screenHeight int, vsync bool, target window.Window, fullscreen bool, screenDepth, screenNear float32) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return ErrAlreadyInitialized
	}
	if err := validateSurfaceArgs(screenWidth, screenHeight, target, screenDepth, screenNear); err != nil {
		return err
	}

	log := r.log()
	stack := &releaseStack{log: log}
	defer func() {
		if err != nil {
			stack.unwind()
			r.reset()
			log.Error("renderer initialization failed", "error", err)
		}
	}()

	width, height := uint32(screenWidth), uint32(screenHeight)

	// Enumeration: the adapter only supplies the refresh rate and the description.
	adapter, err := r.backend.EnumerateAdapter(target)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAdapter, err)
	}
	stack.push("adapter", adapter.Release)

	modes, err := adapter.DisplayModes(BackBufferFormat)
	if err != nil {
		return fmt.Errorf("%w: list display modes: %w", ErrAdapter, err)
	}
	refreshRate, matched := matchRefreshRate(modes, width, height)
	if vsync && !matched {
		log.Warn("no display mode matches the screen size; refresh rate left to the driver",
			"width", width, "height", height, "modes", len(modes))
	}

	desc, err := adapter.Desc()
	if err != nil {
		return fmt.Errorf("%w: describe adapter: %w", ErrAdapter, err)
	}
	r.videoCardMemory = common.BytesToMB(desc.DedicatedVideoMemory)
	r.videoCardDescription = common.NewBoundedText(desc.Description, DescriptionLimit)
	if r.videoCardDescription.Truncated() {
		log.Debug("adapter description truncated", "limit", DescriptionLimit)
	}

	stack.pop()

	swapChainDesc := SwapChainDescriptor{
		BufferCount:  1,
		Width:        width,
		Height:       height,
		Format:       BackBufferFormat,
		RefreshRate:  Rational{Numerator: 0, Denominator: 1},
		OutputWindow: target,
		SampleCount:  1,
		Windowed:     !fullscreen,
		SwapEffect:   SwapEffectDiscard,
	}
	if vsync {
		swapChainDesc.RefreshRate = refreshRate
		swapChainDesc.SyncInterval = 1
	}

	device, deviceContext, swapChain, err := r.backend.CreateDeviceAndSwapChain(RequiredFeatureLevel, swapChainDesc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeviceCreation, err)
	}
	r.swapChain = swapChain
	r.device = device
	r.deviceContext = deviceContext
	stack.push("swap chain", func() {
		if err := swapChain.SetFullscreenState(false); err != nil {
			log.Warn("failed to leave fullscreen during rollback", "error", err)
		}
		swapChain.Release()
	})
	stack.push("device", device.Release)
	stack.push("device context", deviceContext.Release)

	backBuffer, err := swapChain.BackBuffer()
	if err != nil {
		return fmt.Errorf("%w: get back buffer: %w", ErrResourceCreation, err)
	}
	rtv, err := device.CreateRenderTargetView(backBuffer)
	backBuffer.Release()
	if err != nil {
		return fmt.Errorf("%w: create render target view: %w", ErrResourceCreation, err)
	}
	r.renderTargetView = rtv
	stack.push("render target view", rtv.Release)

	depthBuffer, err := device.CreateTexture2D(TextureDescriptor{
		Width:       width,
		Height:      height,
		MipLevels:   1,
		ArraySize:   1,
		Format:      DepthStencilFormat,
		SampleCount: 1,
		BindFlags:   BindDepthStencil,
	})
	if err != nil {
		return fmt.Errorf("%w: create depth buffer: %w", ErrResourceCreation, err)
	}
	r.depthStencilBuffer = depthBuffer
	stack.push("depth buffer", depthBuffer.Release)

	depthState, err := device.CreateDepthStencilState(defaultDepthStencilDescriptor())
	if err != nil {
		return fmt.Errorf("%w: create depth stencil state: %w", ErrResourceCreation, err)
	}
	r.depthStencilState = depthState
	stack.push("depth stencil state", depthState.Release)
	deviceContext.SetDepthStencilState(depthState, stencilReference)

	dsv, err := device.CreateDepthStencilView(depthBuffer, DepthStencilViewDescriptor{
		Format:    DepthStencilFormat,
		Dimension: ViewDimensionTexture2D,
		MipSlice:  0,
	})
	if err != nil {
		return fmt.Errorf("%w: create depth stencil view: %w", ErrResourceCreation, err)
	}
	r.depthStencilView = dsv
	stack.push("depth stencil view", dsv.Release)
	deviceContext.SetRenderTargets(rtv, dsv)

	rasterState, err := device.CreateRasterizerState(defaultRasterizerDescriptor())
	if err != nil {
		return fmt.Errorf("%w: create rasterizer state: %w", ErrResourceCreation, err)
	}
	r.rasterState = rasterState
	stack.push("rasterizer state", rasterState.Release)
	deviceContext.SetRasterizerState(rasterState)

	deviceContext.SetViewport(Viewport{
		Width:    float32(screenWidth),
		Height:   float32(screenHeight),
		MinDepth: 0,
		MaxDepth: 1,
	})

	aspect := float32(screenWidth) / float32(screenHeight)
	common.PerspectiveFovLH(r.projectionMatrix[:], FieldOfView, aspect, screenNear, screenDepth)
	common.Identity(r.worldMatrix[:])
	common.OrthographicLH(r.orthoMatrix[:], float32(screenWidth), float32(screenHeight), screenNear, screenDepth)

	stack.discard()
	r.vsyncEnabled = vsync
	r.initialized = true

	log.Info("renderer initialized",
		"adapter", r.videoCardDescription.String(),
		"memory_mb", r.videoCardMemory,
		"width", screenWidth,
		"height", screenHeight,
		"vsync", vsync,
		"fullscreen", fullscreen,
		"refresh_hz", swapChainDesc.RefreshRate.Hz(),
	)
	return nil
}

func (r *renderer) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.swapChain != nil {
		if err := r.swapChain.SetFullscreenState(false); err != nil {
			r.log().Warn("failed to leave fullscreen before release", "error", err)
		}
	}

	release(&r.rasterState)
	release(&r.depthStencilView)
	release(&r.depthStencilState)
	release(&r.depthStencilBuffer)
	release(&r.renderTargetView)
	release(&r.deviceContext)
	release(&r.device)
	release(&r.swapChain)

	if r.initialized {
		r.log().Info("renderer shut down")
	}
	r.reset()
}

func (r *renderer) BeginFrame(clearColor [4]float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return ErrNotInitialized
	}
	if err := r.deviceContext.ClearRenderTargetView(r.renderTargetView, clearColor); err != nil {
		return fmt.Errorf("clear render target: %w", err)
	}
	if err := r.deviceContext.ClearDepthStencilView(r.depthStencilView, ClearDepth|ClearStencil, 1.0, 0); err != nil {
		return fmt.Errorf("clear depth stencil: %w", err)
	}
	return nil
}

func (r *renderer) EndFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return ErrNotInitialized
	}
	var interval uint32
	if r.vsyncEnabled {
		interval = 1
	}
	if err := r.swapChain.Present(interval); err != nil {
		return fmt.Errorf("%w: %w", ErrPresent, err)
	}
	return nil
}

func (r *renderer) Device() Device {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.device
}

func (r *renderer) Context() Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deviceContext
}

func (r *renderer) ProjectionMatrix() [16]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.projectionMatrix
}

func (r *renderer) WorldMatrix() [16]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.worldMatrix
}

func (r *renderer) OrthoMatrix() [16]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orthoMatrix
}

func (r *renderer) VideoCardInfo() (string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.videoCardDescription.String(), r.videoCardMemory
}

func (r *renderer) Initialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initialized
}

// reset returns every field to its uninitialized value without releasing anything.
func (r *renderer) reset() {
	r.initialized = false
	r.vsyncEnabled = false
	r.videoCardMemory = 0
	r.videoCardDescription = common.BoundedText{}
	r.swapChain = nil
	r.device = nil
	r.deviceContext = nil
	r.renderTargetView = nil
	r.depthStencilBuffer = nil
	r.depthStencilState = nil
	r.depthStencilView = nil
	r.rasterState = nil
	r.projectionMatrix = [16]float32{}
	r.worldMatrix = [16]float32{}
	r.orthoMatrix = [16]float32{}
}

// release releases the resource held in handle, if any, and clears the handle.
func release[T Resource](handle *T) {
	if any(*handle) == nil {
		return
	}
	(*handle).Release()
	var zero T
	*handle = zero
}

// validateSurfaceArgs checks the Initialize preconditions.
func validateSurfaceArgs(screenWidth, screenHeight int, target window.Window, screenDepth, screenNear float32) error {
	var errs []error
	if screenWidth <= 0 || screenHeight <= 0 {
		errs = append(errs, fmt.Errorf("screen size %dx%d must be positive", screenWidth, screenHeight))
	}
	if !(screenNear > 0) {
		errs = append(errs, fmt.Errorf("near plane %v must be positive", screenNear))
	}
	if !(screenDepth > screenNear) {
		errs = append(errs, fmt.Errorf("far plane %v must be beyond near plane %v", screenDepth, screenNear))
	}
	if target == nil {
		errs = append(errs, errors.New("target window is nil"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidArgument, errors.Join(errs...))
}

// matchRefreshRate returns the refresh rate of the last mode whose size equals width x height.
// With no match it returns the zero Rational and false.
func matchRefreshRate(modes []DisplayMode, width, height uint32) (Rational, bool) {
	var rate Rational
	matched := false
	for _, m := range modes {
		if m.Width == width && m.Height == height {
			rate = m.RefreshRate
			matched = true
		}
	}
	return rate, matched
}

// defaultDepthStencilDescriptor returns the depth test and stencil configuration bound at initialization.
func defaultDepthStencilDescriptor() DepthStencilDescriptor {
	return DepthStencilDescriptor{
		DepthEnable:      true,
		DepthWriteMask:   DepthWriteMaskAll,
		DepthFunc:        ComparisonLess,
		StencilEnable:    true,
		StencilReadMask:  0xFF,
		StencilWriteMask: 0xFF,
		FrontFace: StencilFaceDescriptor{
			FailOp:      StencilOpKeep,
			DepthFailOp: StencilOpIncr,
			PassOp:      StencilOpKeep,
			Func:        ComparisonAlways,
		},
		BackFace: StencilFaceDescriptor{
			FailOp:      StencilOpKeep,
			DepthFailOp: StencilOpDecr,
			PassOp:      StencilOpKeep,
			Func:        ComparisonAlways,
		},
	}
}

// defaultRasterizerDescriptor returns the rasterizer configuration bound at initialization.
func defaultRasterizerDescriptor() RasterizerDescriptor {
	return RasterizerDescriptor{
		FillMode:              FillSolid,
		CullMode:              CullBack,
		FrontCounterClockwise: false,
		DepthClipEnable:       true,
	}
}
