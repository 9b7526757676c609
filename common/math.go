package common

import (
	"github.com/chewxy/math32"
)

// Matrices are 4x4 row-vector transforms (v' = v * M) in the Direct3D convention, stored row by row.
// Read as column-major storage the same 16 floats form the equivalent column-vector matrix,
// so the arrays can be uploaded to WGSL mat4x4<f32> uniforms unchanged.

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// PerspectiveFovLH creates a left-handed perspective projection matrix that maps view-space depth
// in [near, far] to clip-space depth in [0, 1].
//
//	w = h / aspect, h = 1 / tan(fovY / 2), r = far / (far - near)
//	| w 0  0       0 |
//	| 0 h  0       0 |
//	| 0 0  r       1 |
//	| 0 0 -r*near  0 |
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
func PerspectiveFovLH(out []float32, fovY, aspect, near, far float32) {
	h := 1.0 / math32.Tan(fovY/2.0)
	r := far / (far - near)
	Identity(out)

	out[0] = h / aspect
	out[5] = h
	out[10] = r
	out[11] = 1.0
	out[14] = -r * near
	out[15] = 0.0
}

// OrthographicLH creates a left-handed orthographic projection matrix for a view volume of the
// given width and height centred on the view axis. Depth in [near, far] maps to [0, 1].
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - width: view volume width (typically the screen width in pixels)
//   - height: view volume height (typically the screen height in pixels)
//   - near: near clipping plane distance
//   - far: far clipping plane distance (must differ from near)
func OrthographicLH(out []float32, width, height, near, far float32) {
	r := 1.0 / (far - near)
	Identity(out)

	out[0] = 2.0 / width
	out[5] = 2.0 / height
	out[10] = r
	out[14] = -r * near
}

// TransformPoint multiplies the row vector (x, y, z, 1) by m and returns the homogeneous result.
//
// Parameters:
//   - m: source matrix (16 elements)
//   - x, y, z: point coordinates
//
// Returns:
//   - [4]float32: the transformed point (x, y, z, w) before perspective division
func TransformPoint(m []float32, x, y, z float32) [4]float32 {
	var out [4]float32
	for c := 0; c < 4; c++ {
		out[c] = x*m[c] + y*m[4+c] + z*m[8+c] + m[12+c]
	}
	return out
}
