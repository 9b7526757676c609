package renderer

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-bootstrap/common"
	"github.com/Carmen-Shannon/oxy-bootstrap/engine/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testWidth  = 800
	testHeight = 600
	testFar    = 1000.0
	testNear   = 0.1
)

func newTestRenderer(g *fakeGPU, options ...RendererBuilderOption) Renderer {
	return NewRenderer(BackendTypeWGPU, append([]RendererBuilderOption{WithBackend(g)}, options...)...)
}

func initTestRenderer(t *testing.T, r Renderer, vsync, fullscreen bool) {
	t.Helper()
	require.NoError(t, r.Initialize(testWidth, testHeight, vsync, stubWindow{}, fullscreen, testFar, testNear))
}

func TestInitializeCreatesResourcesInOrder(t *testing.T) {
	g := newFakeGPU()
	r := newTestRenderer(g)
	initTestRenderer(t, r, true, false)

	assert.Equal(t, []string{
		"enumerate adapter",
		"display modes",
		"adapter desc",
		"release adapter",
		"create device",
		"back buffer",
		"create rtv",
		"release back buffer",
		"create texture",
		"create depth stencil state",
		"bind depth stencil state",
		"create depth stencil view",
		"bind render targets",
		"create rasterizer state",
		"bind rasterizer state",
		"set viewport",
	}, g.log)

	assert.True(t, r.Initialized())
	assert.NotNil(t, r.Device())
	assert.NotNil(t, r.Context())
	assert.Equal(t, 8, g.liveCount())
	for _, kind := range []string{"device", "device context", "swap chain", "render target view", "depth buffer", "depth stencil state", "depth stencil view", "rasterizer state"} {
		assert.Equal(t, 1, g.live[kind], kind)
	}
	assert.Zero(t, g.live["adapter"])
	assert.Zero(t, g.live["back buffer"])
	assert.NotNil(t, g.boundRTV)
	assert.NotNil(t, g.boundDSV)
}

func TestInitializeDescriptors(t *testing.T) {
	g := newFakeGPU()
	r := newTestRenderer(g)
	initTestRenderer(t, r, true, false)

	assert.Equal(t, FeatureLevel11_0, g.level)
	assert.Equal(t, uint32(1), g.swapDesc.BufferCount)
	assert.Equal(t, uint32(testWidth), g.swapDesc.Width)
	assert.Equal(t, uint32(testHeight), g.swapDesc.Height)
	assert.Equal(t, FormatRGBA8Unorm, g.swapDesc.Format)
	assert.Equal(t, uint32(1), g.swapDesc.SampleCount)
	assert.Zero(t, g.swapDesc.SampleQuality)
	assert.True(t, g.swapDesc.Windowed)
	assert.Equal(t, SwapEffectDiscard, g.swapDesc.SwapEffect)

	assert.Equal(t, TextureDescriptor{
		Width:       testWidth,
		Height:      testHeight,
		MipLevels:   1,
		ArraySize:   1,
		Format:      FormatD24UnormS8Uint,
		SampleCount: 1,
		BindFlags:   BindDepthStencil,
	}, g.textureDesc)

	assert.True(t, g.depthDesc.DepthEnable)
	assert.Equal(t, DepthWriteMaskAll, g.depthDesc.DepthWriteMask)
	assert.Equal(t, ComparisonLess, g.depthDesc.DepthFunc)
	assert.True(t, g.depthDesc.StencilEnable)
	assert.Equal(t, uint8(0xFF), g.depthDesc.StencilReadMask)
	assert.Equal(t, uint8(0xFF), g.depthDesc.StencilWriteMask)
	assert.Equal(t, StencilFaceDescriptor{FailOp: StencilOpKeep, DepthFailOp: StencilOpIncr, PassOp: StencilOpKeep, Func: ComparisonAlways}, g.depthDesc.FrontFace)
	assert.Equal(t, StencilFaceDescriptor{FailOp: StencilOpKeep, DepthFailOp: StencilOpDecr, PassOp: StencilOpKeep, Func: ComparisonAlways}, g.depthDesc.BackFace)
	assert.Equal(t, uint32(1), g.stencilRef)

	assert.Equal(t, DepthStencilViewDescriptor{Format: FormatD24UnormS8Uint, Dimension: ViewDimensionTexture2D}, g.dsvDesc)

	assert.Equal(t, RasterizerDescriptor{
		FillMode:        FillSolid,
		CullMode:        CullBack,
		DepthClipEnable: true,
	}, g.rasterDesc)

	assert.Equal(t, Viewport{Width: testWidth, Height: testHeight, MinDepth: 0, MaxDepth: 1}, g.viewport)
}

func TestRefreshRateSelection(t *testing.T) {
	tests := []struct {
		name         string
		width        int
		height       int
		vsync        bool
		wantRate     Rational
		wantInterval uint32
	}{
		{name: "vsync uses the last matching mode", width: 800, height: 600, vsync: true, wantRate: Rational{Numerator: 144, Denominator: 1}, wantInterval: 1},
		{name: "vsync with a single match", width: 1024, height: 768, vsync: true, wantRate: Rational{Numerator: 75, Denominator: 1}, wantInterval: 1},
		{name: "vsync without a match is unspecified", width: 1920, height: 1080, vsync: true, wantRate: Rational{}, wantInterval: 1},
		{name: "no vsync is uncapped", width: 800, height: 600, vsync: false, wantRate: Rational{Numerator: 0, Denominator: 1}, wantInterval: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newFakeGPU()
			r := newTestRenderer(g)
			require.NoError(t, r.Initialize(tt.width, tt.height, tt.vsync, stubWindow{}, false, testFar, testNear))

			assert.Equal(t, tt.wantRate, g.swapDesc.RefreshRate)
			assert.Equal(t, tt.wantInterval, g.swapDesc.SyncInterval)
		})
	}
}

func TestMatchRefreshRate(t *testing.T) {
	rate, ok := matchRefreshRate(nil, 800, 600)
	assert.False(t, ok)
	assert.Equal(t, Rational{}, rate)

	rate, ok = matchRefreshRate(newFakeGPU().modes, 800, 600)
	assert.True(t, ok)
	assert.Equal(t, 144, rate.Hz())
}

func TestRationalHz(t *testing.T) {
	assert.Equal(t, 0, Rational{}.Hz())
	assert.Equal(t, 60, Rational{Numerator: 60, Denominator: 1}.Hz())
	assert.Equal(t, 60, Rational{Numerator: 59940, Denominator: 1000}.Hz())
}

func TestVideoCardInfo(t *testing.T) {
	g := newFakeGPU()
	g.adapter.DedicatedVideoMemory = 3584*1024*1024 + 1023
	r := newTestRenderer(g)
	initTestRenderer(t, r, true, false)

	desc, memory := r.VideoCardInfo()
	assert.Equal(t, "Fake GPU", desc)
	assert.Equal(t, 3584, memory)
}

func TestVideoCardDescriptionIsBounded(t *testing.T) {
	g := newFakeGPU()
	g.adapter.Description = strings.Repeat("x", 200)
	r := newTestRenderer(g)
	initTestRenderer(t, r, true, false)

	desc, _ := r.VideoCardInfo()
	assert.Len(t, desc, DescriptionLimit)
}

func TestMatrices(t *testing.T) {
	g := newFakeGPU()
	r := newTestRenderer(g)
	initTestRenderer(t, r, true, false)

	var projection, world, ortho [16]float32
	common.PerspectiveFovLH(projection[:], math.Pi/4, float32(testWidth)/float32(testHeight), testNear, testFar)
	common.Identity(world[:])
	common.OrthographicLH(ortho[:], testWidth, testHeight, testNear, testFar)

	assert.Equal(t, projection, r.ProjectionMatrix())
	assert.Equal(t, world, r.WorldMatrix())
	assert.Equal(t, ortho, r.OrthoMatrix())

	p := r.ProjectionMatrix()
	assert.InDelta(t, p[5]/(4.0/3.0), p[0], 1e-5)
}

func TestShutdownReleasesInOrder(t *testing.T) {
	g := newFakeGPU()
	r := newTestRenderer(g)
	initTestRenderer(t, r, true, true)
	require.True(t, g.fullscreen)

	g.log = nil
	r.Shutdown()

	assert.Equal(t, []string{
		"fullscreen=false",
		"release rasterizer state",
		"release depth stencil view",
		"release depth stencil state",
		"release depth buffer",
		"release render target view",
		"release device context",
		"release device",
		"release swap chain",
	}, g.log)
	assert.False(t, g.fullscreen)
	assert.Zero(t, g.liveCount())
	assert.Zero(t, g.doubleReleases)

	assert.False(t, r.Initialized())
	assert.Nil(t, r.Device())
	assert.Nil(t, r.Context())
	assert.Equal(t, [16]float32{}, r.ProjectionMatrix())
	assert.Equal(t, [16]float32{}, r.WorldMatrix())
	assert.Equal(t, [16]float32{}, r.OrthoMatrix())
	desc, memory := r.VideoCardInfo()
	assert.Empty(t, desc)
	assert.Zero(t, memory)
}

func TestShutdownIsIdempotent(t *testing.T) {
	g := newFakeGPU()
	r := newTestRenderer(g)

	r.Shutdown()
	assert.Empty(t, g.log)

	initTestRenderer(t, r, false, false)
	r.Shutdown()
	r.Shutdown()
	assert.Zero(t, g.liveCount())
	assert.Zero(t, g.doubleReleases)
}

func TestReinitializeAfterShutdown(t *testing.T) {
	g := newFakeGPU()
	r := newTestRenderer(g)

	initTestRenderer(t, r, true, false)
	r.Shutdown()
	initTestRenderer(t, r, true, false)

	assert.True(t, r.Initialized())
	assert.Equal(t, 8, g.liveCount())
	r.Shutdown()
	assert.Zero(t, g.liveCount())
}

func TestInitializeTwiceIsRejected(t *testing.T) {
	g := newFakeGPU()
	r := newTestRenderer(g)
	initTestRenderer(t, r, true, false)
	calls := len(g.log)

	err := r.Initialize(1024, 768, false, stubWindow{}, true, testFar, testNear)
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
	assert.Len(t, g.log, calls)
	assert.Equal(t, 8, g.liveCount())
	assert.True(t, r.Initialized())
	assert.Equal(t, uint32(testWidth), g.swapDesc.Width)
}

func TestInitializeRejectsInvalidArguments(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		target window.Window
		far    float32
		near   float32
	}{
		{name: "zero width", width: 0, height: 600, target: stubWindow{}, far: 1000, near: 0.1},
		{name: "negative height", width: 800, height: -1, target: stubWindow{}, far: 1000, near: 0.1},
		{name: "zero near", width: 800, height: 600, target: stubWindow{}, far: 1000, near: 0},
		{name: "far equals near", width: 800, height: 600, target: stubWindow{}, far: 0.1, near: 0.1},
		{name: "far before near", width: 800, height: 600, target: stubWindow{}, far: 0.05, near: 0.1},
		{name: "nan near", width: 800, height: 600, target: stubWindow{}, far: 1000, near: float32(math.NaN())},
		{name: "nil target", width: 800, height: 600, target: nil, far: 1000, near: 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newFakeGPU()
			r := newTestRenderer(g)

			err := r.Initialize(tt.width, tt.height, true, tt.target, false, tt.far, tt.near)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Empty(t, g.log)
			assert.False(t, r.Initialized())
		})
	}
}

func TestInitializeRollsBackOnFailure(t *testing.T) {
	tests := []struct {
		step string
		want error
	}{
		{step: "enumerate adapter", want: ErrAdapter},
		{step: "display modes", want: ErrAdapter},
		{step: "adapter desc", want: ErrAdapter},
		{step: "create device", want: ErrDeviceCreation},
		{step: "back buffer", want: ErrResourceCreation},
		{step: "create rtv", want: ErrResourceCreation},
		{step: "create texture", want: ErrResourceCreation},
		{step: "create depth stencil state", want: ErrResourceCreation},
		{step: "create depth stencil view", want: ErrResourceCreation},
		{step: "create rasterizer state", want: ErrResourceCreation},
	}

	for _, tt := range tests {
		for _, fullscreen := range []bool{false, true} {
			name := tt.step
			if fullscreen {
				name += " fullscreen"
			}
			t.Run(name, func(t *testing.T) {
				g := newFakeGPU()
				g.failAt = tt.step
				r := newTestRenderer(g)

				err := r.Initialize(testWidth, testHeight, true, stubWindow{}, fullscreen, testFar, testNear)
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.want)
				assert.Contains(t, err.Error(), "injected "+tt.step+" failure")

				assert.Zero(t, g.liveCount(), "live resources: %v", g.live)
				assert.Zero(t, g.doubleReleases)
				assert.False(t, g.fullscreen)

				assert.False(t, r.Initialized())
				assert.Nil(t, r.Device())
				assert.Nil(t, r.Context())
				assert.Equal(t, [16]float32{}, r.ProjectionMatrix())
				desc, memory := r.VideoCardInfo()
				assert.Empty(t, desc)
				assert.Zero(t, memory)

				// A failed Initialize leaves the renderer ready for another attempt.
				g.failAt = ""
				initTestRenderer(t, r, true, fullscreen)
				r.Shutdown()
				assert.Zero(t, g.liveCount())
			})
		}
	}
}

func TestRollbackReleasesNewestFirst(t *testing.T) {
	g := newFakeGPU()
	g.failAt = "create rasterizer state"
	r := newTestRenderer(g)

	require.Error(t, r.Initialize(testWidth, testHeight, true, stubWindow{}, true, testFar, testNear))

	releases := g.entries("release ")
	assert.Equal(t, []string{
		"release adapter",
		"release back buffer",
		"release depth stencil view",
		"release depth stencil state",
		"release depth buffer",
		"release render target view",
		"release device context",
		"release device",
		"release swap chain",
	}, releases)

	windowed := -1
	swapChain := -1
	for i, e := range g.log {
		switch e {
		case "fullscreen=false":
			windowed = i
		case "release swap chain":
			swapChain = i
		}
	}
	require.NotEqual(t, -1, windowed)
	assert.Less(t, windowed, swapChain)
}

func TestFrameRequiresInitialization(t *testing.T) {
	r := newTestRenderer(newFakeGPU())

	assert.ErrorIs(t, r.BeginFrame([4]float32{0, 0, 0, 1}), ErrNotInitialized)
	assert.ErrorIs(t, r.EndFrame(), ErrNotInitialized)
}

func TestBeginAndEndFrame(t *testing.T) {
	tests := []struct {
		name         string
		vsync        bool
		wantInterval uint32
	}{
		{name: "vsync", vsync: true, wantInterval: 1},
		{name: "uncapped", vsync: false, wantInterval: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newFakeGPU()
			r := newTestRenderer(g)
			initTestRenderer(t, r, tt.vsync, false)

			color := [4]float32{0.5, 0.5, 0.5, 1}
			require.NoError(t, r.BeginFrame(color))
			require.NoError(t, r.EndFrame())

			assert.Equal(t, color, g.clearColor)
			assert.Equal(t, ClearDepth|ClearStencil, g.clearFlags)
			assert.Equal(t, float32(1), g.clearDepth)
			assert.Zero(t, g.clearStencil)
			assert.Equal(t, []uint32{tt.wantInterval}, g.presents)
			assert.Equal(t, []string{"clear render target", "clear depth stencil", "present"}, g.log[len(g.log)-3:])
		})
	}
}

func TestFrameErrors(t *testing.T) {
	g := newFakeGPU()
	r := newTestRenderer(g)
	initTestRenderer(t, r, true, false)

	g.failAt = "present"
	err := r.EndFrame()
	assert.ErrorIs(t, err, ErrPresent)

	g.failAt = "clear render target"
	assert.Error(t, r.BeginFrame([4]float32{}))

	g.failAt = "clear depth stencil"
	assert.Error(t, r.BeginFrame([4]float32{}))

	// Frame errors do not tear anything down.
	assert.True(t, r.Initialized())
	assert.Equal(t, 8, g.liveCount())
}

func TestWithLoggerReportsRefreshRateFallback(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	g := newFakeGPU()
	r := newTestRenderer(g, WithLogger(logger))
	require.NoError(t, r.Initialize(1920, 1080, true, stubWindow{}, false, testFar, testNear))

	out := buf.String()
	assert.Contains(t, out, "no display mode matches the screen size")
	assert.Contains(t, out, "renderer initialized")
	assert.Contains(t, out, "releasing gpu resource")
}

func TestWithLoggerReportsInitializationFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	g := newFakeGPU()
	g.failAt = "create device"
	r := newTestRenderer(g, WithLogger(logger))
	err := r.Initialize(testWidth, testHeight, true, stubWindow{}, false, testFar, testNear)

	require.True(t, errors.Is(err, ErrDeviceCreation))
	assert.Contains(t, buf.String(), "renderer initialization failed")
}
