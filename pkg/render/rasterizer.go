// Package render provides software rasterization of a scene graph to a
// framebuffer, and drawing of that framebuffer to a terminal.
package render

import (
	"math"

	"github.com/taigrr/turntable/pkg/math3d"
)

// Vertex represents a vertex with all attributes needed for rasterization.
type Vertex struct {
	Position math3d.Vec3 // World position
	Normal   math3d.Vec3 // World normal (for lighting)
	Color    Color       // Lit vertex color
}

// Triangle represents a triangle to be rasterized.
type Triangle struct {
	V [3]Vertex
}

// Rasterizer draws lit triangles into a framebuffer with a depth buffer.
type Rasterizer struct {
	camera       *Camera
	fb           *Framebuffer
	zbuffer      []float64 // row-major, NDC depth
	frustum      Frustum
	frustumDirty bool

	CullingStats CullingStats

	// DisableBackfaceCulling draws both sides of every triangle, for
	// models with inconsistent winding.
	DisableBackfaceCulling bool
}

// CullingStats counts per-frame mesh culling decisions. Meshes without
// bounds are not counted.
type CullingStats struct {
	MeshesTested int
	MeshesCulled int
	MeshesDrawn  int
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera:       camera,
		fb:           fb,
		frustumDirty: true,
	}
	r.Resize()
	return r
}

// SetCamera replaces the camera used for projection.
func (r *Rasterizer) SetCamera(camera *Camera) {
	r.camera = camera
	r.frustumDirty = true
}

// Resize resizes the depth buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// ClearDepth clears the Z-buffer (call before each frame).
func (r *Rasterizer) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// updateFrustum recomputes the cached frustum after SetCamera. The camera
// may have moved between frames, so Surface sets it once per frame.
func (r *Rasterizer) updateFrustum() {
	if r.frustumDirty {
		r.frustum = r.camera.GetFrustum()
		r.frustumDirty = false
	}
}

// ResetCullingStats resets the culling statistics (call once per frame).
func (r *Rasterizer) ResetCullingStats() {
	r.CullingStats = CullingStats{}
}

// IsVisible tests if a world-space AABB is visible in the frustum.
func (r *Rasterizer) IsVisible(worldBounds math3d.AABB) bool {
	r.updateFrustum()
	return r.frustum.IntersectAABB(worldBounds)
}

func (r *Rasterizer) getDepth(x, y int) float64 {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.Width()+x]
}

func (r *Rasterizer) setDepth(x, y int, z float64) {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return
	}
	r.zbuffer[y*r.Width()+x] = z
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y  float64 // Screen coordinates
	Z     float64 // NDC depth (for Z-buffer)
	W     float64 // Clip W
	Color Color
}

// DrawTriangleGouraud rasterizes a triangle whose vertex colors are already
// lit, interpolating the colors across the face.
func (r *Rasterizer) DrawTriangleGouraud(tri Triangle) {
	var sv [3]screenVertex

	viewProj := r.camera.ViewProjectionMatrix()

	for i := range 3 {
		clipPos := viewProj.MulVec4(math3d.V4FromV3(tri.V[i].Position, 1))

		// No near-plane clipping: triangles reaching behind the camera are dropped.
		if clipPos.W <= 0 {
			return
		}

		ndc := clipPos.PerspectiveDivide()
		sv[i].X = (ndc.X + 1) * 0.5 * float64(r.Width())
		sv[i].Y = (1 - ndc.Y) * 0.5 * float64(r.Height()) // Y flipped
		sv[i].Z = ndc.Z
		sv[i].W = clipPos.W
		sv[i].Color = tri.V[i].Color
	}

	// Backface culling (using screen-space winding)
	edge1 := math3d.V2(sv[1].X-sv[0].X, sv[1].Y-sv[0].Y)
	edge2 := math3d.V2(sv[2].X-sv[0].X, sv[2].Y-sv[0].Y)
	cross := edge1.Cross(edge2)
	if cross == 0 {
		return // Degenerate
	}
	if cross < 0 && !r.DisableBackfaceCulling {
		return // Back-facing
	}

	r.fillTriangle(&sv, cross)
}

// interpolateColor3 interpolates between 3 colors using barycentric coords.
func interpolateColor3(c0, c1, c2 Color, bc math3d.Vec3) Color {
	return RGB(
		uint8(float64(c0.R)*bc.X+float64(c1.R)*bc.Y+float64(c2.R)*bc.Z),
		uint8(float64(c0.G)*bc.X+float64(c1.G)*bc.Y+float64(c2.G)*bc.Z),
		uint8(float64(c0.B)*bc.X+float64(c1.B)*bc.Y+float64(c2.B)*bc.Z),
	)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

// MeshRenderer is the view of a mesh the rasterizer needs. It keeps this
// package independent of the models package.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3)
	GetFace(i int) [3]int
	FaceBaseColor(i int) [4]float64
}

// BoundedMeshRenderer extends MeshRenderer with bounding box support for frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// tryFrustumCull reports whether the mesh is outside the view frustum.
// Meshes without bounds are never culled.
func (r *Rasterizer) tryFrustumCull(mesh MeshRenderer, transform math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMeshRenderer)
	if !ok {
		return false
	}

	r.CullingStats.MeshesTested++

	minBounds, maxBounds := bounded.GetBounds()
	worldBounds := math3d.AABB{Min: minBounds, Max: maxBounds}.Transform(transform)

	if !r.IsVisible(worldBounds) {
		r.CullingStats.MeshesCulled++
		return true
	}

	r.CullingStats.MeshesDrawn++
	return false
}

// DrawMesh renders a mesh with Gouraud shading: lighting is evaluated per
// vertex in world space and interpolated across each face. Each face uses its
// material's base color.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, light Lighting) {
	if r.tryFrustumCull(mesh, transform) {
		return
	}

	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.GetFace(i)
		base := mesh.FaceBaseColor(i)

		var tri Triangle
		for k := range 3 {
			p, n := mesh.GetVertex(face[k])
			wn := transform.MulVec3Dir(n).Normalize()
			tri.V[k] = Vertex{
				Position: transform.MulVec3(p),
				Normal:   wn,
				Color:    light.Shade(base, wn),
			}
		}

		r.DrawTriangleGouraud(tri)
	}
}
