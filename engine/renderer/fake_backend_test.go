package renderer

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-bootstrap/engine/window"
)

// stubWindow satisfies window.Window for tests that only pass the target through to a backend.
type stubWindow struct {
	window.Window
}

// fakeGPU is an in-memory RendererBackend. It records every call in order, counts live
// resources per kind, and fails the step named by failAt.
type fakeGPU struct {
	failAt string

	modes   []DisplayMode
	adapter AdapterDesc

	log            []string
	live           map[string]int
	doubleReleases int
	fullscreen     bool

	level        FeatureLevel
	swapDesc     SwapChainDescriptor
	textureDesc  TextureDescriptor
	depthDesc    DepthStencilDescriptor
	rasterDesc   RasterizerDescriptor
	dsvDesc      DepthStencilViewDescriptor
	stencilRef   uint32
	viewport     Viewport
	boundRTV     RenderTargetView
	boundDSV     DepthStencilView
	clearColor   [4]float32
	clearFlags   ClearFlags
	clearDepth   float32
	clearStencil uint8
	presents     []uint32
}

func newFakeGPU() *fakeGPU {
	return &fakeGPU{
		live: map[string]int{},
		modes: []DisplayMode{
			{Width: 800, Height: 600, RefreshRate: Rational{Numerator: 60, Denominator: 1}, Format: FormatRGBA8Unorm},
			{Width: 1024, Height: 768, RefreshRate: Rational{Numerator: 75, Denominator: 1}, Format: FormatRGBA8Unorm},
			{Width: 800, Height: 600, RefreshRate: Rational{Numerator: 144, Denominator: 1}, Format: FormatRGBA8Unorm},
		},
		adapter: AdapterDesc{
			Description:          "Fake GPU",
			DedicatedVideoMemory: 2048 * 1024 * 1024,
		},
	}
}

func (g *fakeGPU) step(name string) error {
	g.log = append(g.log, name)
	if g.failAt == name {
		return fmt.Errorf("injected %s failure", name)
	}
	return nil
}

func (g *fakeGPU) newResource(kind string) *fakeResource {
	g.live[kind]++
	return &fakeResource{gpu: g, kind: kind}
}

// liveCount returns the number of resources created and not yet released.
func (g *fakeGPU) liveCount() int {
	n := 0
	for _, c := range g.live {
		n += c
	}
	return n
}

// entries returns the log entries that start with prefix, in order.
func (g *fakeGPU) entries(prefix string) []string {
	var out []string
	for _, e := range g.log {
		if strings.HasPrefix(e, prefix) {
			out = append(out, e)
		}
	}
	return out
}

func (g *fakeGPU) EnumerateAdapter(target window.Window) (Adapter, error) {
	if err := g.step("enumerate adapter"); err != nil {
		return nil, err
	}
	return &fakeAdapter{fakeResource: g.newResource("adapter")}, nil
}

func (g *fakeGPU) CreateDeviceAndSwapChain(level FeatureLevel, desc SwapChainDescriptor) (Device, Context, SwapChain, error) {
	if err := g.step("create device"); err != nil {
		return nil, nil, nil, err
	}
	g.level = level
	g.swapDesc = desc
	g.fullscreen = !desc.Windowed
	return &fakeDevice{fakeResource: g.newResource("device")},
		&fakeContext{fakeResource: g.newResource("device context")},
		&fakeSwapChain{fakeResource: g.newResource("swap chain")},
		nil
}

type fakeResource struct {
	gpu      *fakeGPU
	kind     string
	released bool
}

func (r *fakeResource) Release() {
	if r.released {
		r.gpu.doubleReleases++
		return
	}
	r.released = true
	r.gpu.live[r.kind]--
	r.gpu.log = append(r.gpu.log, "release "+r.kind)
}

type fakeTexture struct {
	*fakeResource
	desc TextureDescriptor
}

func (t *fakeTexture) Desc() TextureDescriptor {
	return t.desc
}

type fakeAdapter struct {
	*fakeResource
}

func (a *fakeAdapter) Desc() (AdapterDesc, error) {
	if err := a.gpu.step("adapter desc"); err != nil {
		return AdapterDesc{}, err
	}
	return a.gpu.adapter, nil
}

func (a *fakeAdapter) DisplayModes(format Format) ([]DisplayMode, error) {
	if err := a.gpu.step("display modes"); err != nil {
		return nil, err
	}
	return a.gpu.modes, nil
}

type fakeDevice struct {
	*fakeResource
}

func (d *fakeDevice) CreateRenderTargetView(resource Texture) (RenderTargetView, error) {
	if err := d.gpu.step("create rtv"); err != nil {
		return nil, err
	}
	return d.gpu.newResource("render target view"), nil
}

func (d *fakeDevice) CreateTexture2D(desc TextureDescriptor) (Texture, error) {
	if err := d.gpu.step("create texture"); err != nil {
		return nil, err
	}
	d.gpu.textureDesc = desc
	return &fakeTexture{fakeResource: d.gpu.newResource("depth buffer"), desc: desc}, nil
}

func (d *fakeDevice) CreateDepthStencilState(desc DepthStencilDescriptor) (DepthStencilState, error) {
	if err := d.gpu.step("create depth stencil state"); err != nil {
		return nil, err
	}
	d.gpu.depthDesc = desc
	return d.gpu.newResource("depth stencil state"), nil
}

func (d *fakeDevice) CreateDepthStencilView(resource Texture, desc DepthStencilViewDescriptor) (DepthStencilView, error) {
	if err := d.gpu.step("create depth stencil view"); err != nil {
		return nil, err
	}
	d.gpu.dsvDesc = desc
	return d.gpu.newResource("depth stencil view"), nil
}

func (d *fakeDevice) CreateRasterizerState(desc RasterizerDescriptor) (RasterizerState, error) {
	if err := d.gpu.step("create rasterizer state"); err != nil {
		return nil, err
	}
	d.gpu.rasterDesc = desc
	return d.gpu.newResource("rasterizer state"), nil
}

type fakeContext struct {
	*fakeResource
}

func (c *fakeContext) SetDepthStencilState(state DepthStencilState, stencilRef uint32) {
	c.gpu.log = append(c.gpu.log, "bind depth stencil state")
	c.gpu.stencilRef = stencilRef
}

func (c *fakeContext) SetRenderTargets(rtv RenderTargetView, dsv DepthStencilView) {
	c.gpu.log = append(c.gpu.log, "bind render targets")
	c.gpu.boundRTV = rtv
	c.gpu.boundDSV = dsv
}

func (c *fakeContext) SetRasterizerState(state RasterizerState) {
	c.gpu.log = append(c.gpu.log, "bind rasterizer state")
}

func (c *fakeContext) SetViewport(vp Viewport) {
	c.gpu.log = append(c.gpu.log, "set viewport")
	c.gpu.viewport = vp
}

func (c *fakeContext) ClearRenderTargetView(rtv RenderTargetView, color [4]float32) error {
	if err := c.gpu.step("clear render target"); err != nil {
		return err
	}
	c.gpu.clearColor = color
	return nil
}

func (c *fakeContext) ClearDepthStencilView(dsv DepthStencilView, flags ClearFlags, depth float32, stencil uint8) error {
	if err := c.gpu.step("clear depth stencil"); err != nil {
		return err
	}
	c.gpu.clearFlags = flags
	c.gpu.clearDepth = depth
	c.gpu.clearStencil = stencil
	return nil
}

type fakeSwapChain struct {
	*fakeResource
}

func (s *fakeSwapChain) BackBuffer() (Texture, error) {
	if err := s.gpu.step("back buffer"); err != nil {
		return nil, err
	}
	return &fakeTexture{fakeResource: s.gpu.newResource("back buffer")}, nil
}

func (s *fakeSwapChain) Present(syncInterval uint32) error {
	if err := s.gpu.step("present"); err != nil {
		return err
	}
	s.gpu.presents = append(s.gpu.presents, syncInterval)
	return nil
}

func (s *fakeSwapChain) SetFullscreenState(fullscreen bool) error {
	s.gpu.log = append(s.gpu.log, fmt.Sprintf("fullscreen=%v", fullscreen))
	s.gpu.fullscreen = fullscreen
	return nil
}
