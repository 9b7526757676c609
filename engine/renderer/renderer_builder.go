package renderer

import (
	"log/slog"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithLogger sets the logger used by this renderer instead of the shared common.Logger.
//
// Parameters:
//   - logger: the logger to use, or nil for the shared logger
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option to a renderer
func WithLogger(logger *slog.Logger) RendererBuilderOption {
	return func(r *renderer) {
		r.logger = logger
	}
}

// WithBackend replaces the backend selected by the backend type. Used to run the
// renderer on an alternative GPU API implementation.
//
// Parameters:
//   - backend: the backend to create GPU resources with
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option to a renderer
func WithBackend(backend RendererBackend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = backend
	}
}
