package fractal

import (
	"github.com/Carmen-Shannon/oxy-mandelbrot/common"
	"github.com/go-gl/mathgl/mgl32"
)

// QuadVertexCount is the number of vertices drawn per frame: two triangles covering clip space.
const QuadVertexCount = 6

// QuadVertexStride is the byte stride of one quad vertex (vec3<f32>).
const QuadVertexStride = 12

// QuadVertices returns the full-screen quad as two triangles (A, B, C) and (B, D, C).
//
// Returns:
//   - []mgl32.Vec3: the six clip-space positions
func QuadVertices() []mgl32.Vec3 {
	a := mgl32.Vec3{-1, -1, 0}
	b := mgl32.Vec3{-1, 1, 0}
	c := mgl32.Vec3{1, -1, 0}
	d := mgl32.Vec3{1, 1, 0}
	return []mgl32.Vec3{a, b, c, b, d, c}
}

// QuadVertexData returns the quad vertices as bytes ready for a vertex buffer upload.
//
// Returns:
//   - []byte: tightly packed vec3<f32> positions
func QuadVertexData() []byte {
	return common.SliceToBytes(QuadVertices())
}
