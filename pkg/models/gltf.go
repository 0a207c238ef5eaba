package models

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/turntable/pkg/math3d"
)

// MeshReader converts glTF meshes into Mesh values.
type MeshReader struct {
	// Options
	CalculateNormals bool
	SmoothNormals    bool
}

// NewMeshReader creates a reader with default options.
func NewMeshReader() *MeshReader {
	return &MeshReader{
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// Read extracts doc.Meshes[index] into a Mesh in the mesh's own space.
// Node transforms are not applied.
func (r *MeshReader) Read(doc *gltf.Document, index int) (*Mesh, error) {
	if index < 0 || index >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range (%d meshes)", index, len(doc.Meshes))
	}
	src := doc.Meshes[index]

	name := src.Name
	if name == "" {
		name = fmt.Sprintf("mesh%d", index)
	}
	mesh := NewMesh(name)

	materials := make(map[int]int)
	for pi, prim := range src.Primitives {
		firstVertex, firstFace := len(mesh.Vertices), len(mesh.Faces)
		ok, err := r.readPrimitive(doc, prim, mesh, materials)
		if err != nil {
			return nil, fmt.Errorf("primitive %d of mesh %q: %w", pi, name, err)
		}
		// Only this primitive's vertices get generated normals; authored
		// normals of the others are kept.
		if r.CalculateNormals && !ok {
			if r.SmoothNormals {
				mesh.smoothNormals(firstVertex, firstFace)
			} else {
				mesh.flatNormals(firstFace)
			}
		}
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// readPrimitive appends one triangle primitive to mesh. It reports whether
// the primitive carried its own normals.
func (r *MeshReader) readPrimitive(doc *gltf.Document, prim *gltf.Primitive, mesh *Mesh, materials map[int]int) (bool, error) {
	if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
		// Lines and points have no surface to shade or pick.
		return true, nil
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return true, nil
	}
	posAcc, err := accessor(doc, posIdx)
	if err != nil {
		return false, fmt.Errorf("positions: %w", err)
	}
	positions, err := modeler.ReadPosition(doc, posAcc, nil)
	if err != nil {
		return false, fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normAcc, err := accessor(doc, normIdx)
		if err != nil {
			return false, fmt.Errorf("normals: %w", err)
		}
		normals, err = modeler.ReadNormal(doc, normAcc, nil)
		if err != nil {
			return false, fmt.Errorf("read normals: %w", err)
		}
	}

	material := -1
	if prim.Material != nil {
		material = materialIndex(doc, *prim.Material, mesh, materials)
	}

	base := len(mesh.Vertices)
	for i, p := range positions {
		v := MeshVertex{Position: vec3(p)}
		if i < len(normals) {
			v.Normal = vec3(normals[i])
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}

	var indices []uint32
	if prim.Indices != nil {
		idxAcc, err := accessor(doc, *prim.Indices)
		if err != nil {
			return false, fmt.Errorf("indices: %w", err)
		}
		indices, err = modeler.ReadIndices(doc, idxAcc, nil)
		if err != nil {
			return false, fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	// glTF front faces are counter-clockwise; the rasterizer's Y-flipped
	// screen space expects clockwise, so the last two indices swap.
	for i := 0; i+2 < len(indices); i += 3 {
		face := Face{
			V: [3]int{
				base + int(indices[i]),
				base + int(indices[i+2]),
				base + int(indices[i+1]),
			},
			Material: material,
		}
		if face.V[0] >= len(mesh.Vertices) || face.V[1] >= len(mesh.Vertices) || face.V[2] >= len(mesh.Vertices) {
			return false, fmt.Errorf("index out of range in triangle %d", i/3)
		}
		mesh.Faces = append(mesh.Faces, face)
	}

	return len(normals) == len(positions), nil
}

// accessor returns doc.Accessors[idx]. The decoder does not check accessor
// references, so a malformed file can name one that does not exist.
func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("accessor %d out of range (%d accessors)", idx, len(doc.Accessors))
	}
	acc := doc.Accessors[idx]
	if acc.BufferView != nil {
		if bv := *acc.BufferView; bv < 0 || bv >= len(doc.BufferViews) || doc.BufferViews[bv] == nil {
			return nil, fmt.Errorf("accessor %d: buffer view %d out of range", idx, bv)
		}
		if b := doc.BufferViews[*acc.BufferView].Buffer; b < 0 || b >= len(doc.Buffers) {
			return nil, fmt.Errorf("accessor %d: buffer %d out of range", idx, b)
		}
	}
	return acc, nil
}

// materialIndex maps a document material to the mesh-local material list,
// adding it on first use.
func materialIndex(doc *gltf.Document, docIdx int, mesh *Mesh, seen map[int]int) int {
	if idx, ok := seen[docIdx]; ok {
		return idx
	}
	if docIdx < 0 || docIdx >= len(doc.Materials) {
		return -1
	}

	src := doc.Materials[docIdx]
	mat := Material{Name: src.Name, BaseColor: [4]float64{1, 1, 1, 1}}
	if pbr := src.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		mat.BaseColor = *pbr.BaseColorFactor
	}

	mesh.Materials = append(mesh.Materials, mat)
	seen[docIdx] = len(mesh.Materials) - 1
	return seen[docIdx]
}

func vec3(v [3]float32) math3d.Vec3 {
	return math3d.V3(float64(v[0]), float64(v[1]), float64(v[2]))
}
