package loader

import (
	"fmt"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/turntable/pkg/math3d"
	"github.com/taigrr/turntable/pkg/models"
	"github.com/taigrr/turntable/pkg/scene"
)

var identity = [16]float64(math3d.Identity())

// BuildScene converts the document's default scene into a node tree under a
// root named name. Meshes used by several nodes are shared.
func BuildScene(doc *gltf.Document, name string, reader *models.MeshReader) (*scene.Node, error) {
	if reader == nil {
		reader = models.NewMeshReader()
	}
	b := &sceneBuilder{
		doc:    doc,
		reader: reader,
		meshes: make(map[int]*models.Mesh),
		active: make(map[int]bool),
	}

	root := scene.NewNode(name)
	for _, idx := range rootNodes(doc) {
		child, err := b.node(idx)
		if err != nil {
			return nil, err
		}
		root.Add(child)
	}
	return root, nil
}

// rootNodes returns the top-level nodes of the default scene. Without scenes,
// every node that is nobody's child is a root.
func rootNodes(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
			idx = *doc.Scene
		}
		return doc.Scenes[idx].Nodes
	}

	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(isChild) {
				isChild[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

type sceneBuilder struct {
	doc    *gltf.Document
	reader *models.MeshReader
	meshes map[int]*models.Mesh
	active map[int]bool // nodes on the current path, to reject cycles
}

func (b *sceneBuilder) node(idx int) (*scene.Node, error) {
	if idx < 0 || idx >= len(b.doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", idx)
	}
	if b.active[idx] {
		return nil, fmt.Errorf("node %d is its own ancestor", idx)
	}
	b.active[idx] = true
	defer delete(b.active, idx)

	src := b.doc.Nodes[idx]
	name := src.Name
	if name == "" {
		name = fmt.Sprintf("node%d", idx)
	}
	n := scene.NewNode(name)

	if m := src.MatrixOrDefault(); m != identity {
		n.SetTransform(math3d.Mat4(m))
	} else {
		t := src.TranslationOrDefault()
		s := src.ScaleOrDefault()
		n.Position = math3d.V3(t[0], t[1], t[2])
		n.Orientation = math3d.QuatFromArray(src.RotationOrDefault())
		n.Scale = math3d.V3(s[0], s[1], s[2])
	}

	if src.Mesh != nil {
		mesh, err := b.mesh(*src.Mesh)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", name, err)
		}
		n.Mesh = mesh
	}

	for _, c := range src.Children {
		child, err := b.node(c)
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

func (b *sceneBuilder) mesh(idx int) (*models.Mesh, error) {
	if m, ok := b.meshes[idx]; ok {
		return m, nil
	}
	m, err := b.reader.Read(b.doc, idx)
	if err != nil {
		return nil, err
	}
	b.meshes[idx] = m
	return m, nil
}
