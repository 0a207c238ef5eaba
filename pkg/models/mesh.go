// Package models provides the triangle mesh representation that scene nodes
// carry, and its extraction from glTF documents.
package models

import (
	"github.com/taigrr/turntable/pkg/math3d"
)

// DefaultBaseColor is used for faces without a material.
var DefaultBaseColor = [4]float64{0.8, 0.8, 0.8, 1}

// Mesh represents a triangle mesh in its node's local space.
type Mesh struct {
	Name      string
	Vertices  []MeshVertex
	Faces     []Face
	Materials []Material

	bounds math3d.AABB
}

// MeshVertex holds the vertex attributes the viewer uses.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
}

// Face is a triangle referencing three vertices and an optional material.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials, -1 for none
}

// Material is the subset of a glTF PBR material that shading needs.
type Material struct {
	Name      string
	BaseColor [4]float64 // RGBA in 0-1 range
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:   name,
		bounds: math3d.EmptyAABB(),
	}
}

// CalculateBounds recomputes the local-space bounding box.
func (m *Mesh) CalculateBounds() {
	b := math3d.EmptyAABB()
	for _, v := range m.Vertices {
		b = b.Extend(v.Position)
	}
	m.bounds = b
}

// Bounds returns the local-space bounding box computed by CalculateBounds.
func (m *Mesh) Bounds() math3d.AABB {
	return m.bounds
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// CalculateFlatNormals gives every vertex the normal of the last face that
// references it.
func (m *Mesh) CalculateFlatNormals() {
	m.flatNormals(0)
}

// flatNormals sets face normals for the faces from firstFace on.
func (m *Mesh) flatNormals(firstFace int) {
	for _, f := range m.Faces[firstFace:] {
		n := m.faceNormal(f).Normalize()
		for _, vi := range f.V {
			m.Vertices[vi].Normal = n
		}
	}
}

// CalculateSmoothNormals sets every vertex normal to the average of the
// adjacent face normals.
func (m *Mesh) CalculateSmoothNormals() {
	m.smoothNormals(0, 0)
}

// smoothNormals averages face normals into vertex normals for the vertices
// from firstVertex on, using the faces from firstFace on. Those faces must
// only reference vertices in that range.
func (m *Mesh) smoothNormals(firstVertex, firstFace int) {
	verts := m.Vertices[firstVertex:]
	for i := range verts {
		verts[i].Normal = math3d.Zero3()
	}
	for _, f := range m.Faces[firstFace:] {
		n := m.faceNormal(f)
		for _, vi := range f.V {
			m.Vertices[vi].Normal = m.Vertices[vi].Normal.Add(n)
		}
	}
	for i := range verts {
		verts[i].Normal = verts[i].Normal.Normalize()
	}
}

// faceNormal returns the outward normal of a clockwise face, with length
// twice the face area.
func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	a := m.Vertices[f.V[0]].Position
	b := m.Vertices[f.V[1]].Position
	c := m.Vertices[f.V[2]].Position
	return c.Sub(a).Cross(b.Sub(a))
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]MeshVertex, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Materials: make([]Material, len(m.Materials)),
		bounds:    m.bounds,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	copy(clone.Materials, m.Materials)
	return clone
}

// GetVertex returns the position and normal of vertex i.
// Implements render.MeshRenderer.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3) {
	v := m.Vertices[i]
	return v.Position, v.Normal
}

// GetFace returns the vertex indices of face i.
// Implements render.MeshRenderer.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// GetFaceMaterial returns the material index for face i, -1 if none.
func (m *Mesh) GetFaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetMaterial returns the material at index i, or nil when out of range.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

// FaceBaseColor returns the base colour of face i's material, or
// DefaultBaseColor.
// Implements render.MeshRenderer.
func (m *Mesh) FaceBaseColor(i int) [4]float64 {
	if mat := m.GetMaterial(m.Faces[i].Material); mat != nil {
		return mat.BaseColor
	}
	return DefaultBaseColor
}

// GetBounds returns the local bounding box corners.
// Implements render.BoundedMeshRenderer.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.bounds.Min, m.bounds.Max
}
