// Package scene holds the node hierarchy of a loaded asset.
//
// A Node's local transform is T(Position) * RotY(RotationY) * R(Orientation) * S(Scale).
// Orientation and Scale come from the asset; Position and RotationY are the
// two fields the viewer mutates (recentering and spinning).
package scene

import (
	"github.com/taigrr/turntable/pkg/math3d"
	"github.com/taigrr/turntable/pkg/models"
)

// Node is one element of the scene graph.
type Node struct {
	Name        string
	Position    math3d.Vec3
	RotationY   float64
	Orientation math3d.Quat
	Scale       math3d.Vec3
	Mesh        *models.Mesh

	children []*Node
	parent   *Node
}

// NewNode creates a node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:        name,
		Orientation: math3d.IdentityQuat(),
		Scale:       math3d.One3(),
	}
}

// Add attaches child to n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child.parent != nil {
		child.parent.remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

func (n *Node) remove(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Children returns the direct children of n.
func (n *Node) Children() []*Node {
	return n.children
}

// Parent returns the parent of n, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// RotateY adds angle radians to the node's Y rotation.
func (n *Node) RotateY(angle float64) {
	n.RotationY += angle
}

// SetTransform replaces the asset-provided part of the local transform with
// the decomposition of m.
func (n *Node) SetTransform(m math3d.Mat4) {
	n.Position, n.Orientation, n.Scale = m.Decompose()
}

// LocalMatrix returns the node's transform relative to its parent.
func (n *Node) LocalMatrix() math3d.Mat4 {
	return math3d.Translate(n.Position).
		Mul(math3d.RotateY(n.RotationY)).
		Mul(n.Orientation.Mat4()).
		Mul(math3d.Scale(n.Scale))
}

// WorldMatrix returns the node's transform relative to the root of its tree.
func (n *Node) WorldMatrix() math3d.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul(m)
	}
	return m
}

// Walk visits n and its descendants depth first, passing each node's world
// matrix. Returning false from fn skips that node's children.
func (n *Node) Walk(fn func(node *Node, world math3d.Mat4) bool) {
	var parentWorld math3d.Mat4
	if n.parent != nil {
		parentWorld = n.parent.WorldMatrix()
	} else {
		parentWorld = math3d.Identity()
	}
	n.walk(parentWorld, fn)
}

func (n *Node) walk(parentWorld math3d.Mat4, fn func(*Node, math3d.Mat4) bool) {
	world := parentWorld.Mul(n.LocalMatrix())
	if !fn(n, world) {
		return
	}
	for _, c := range n.children {
		c.walk(world, fn)
	}
}

// Bounds returns the world-space box around every mesh in the subtree. Each
// mesh contributes its local box transformed by the node's world matrix.
func (n *Node) Bounds() math3d.AABB {
	box := math3d.EmptyAABB()
	n.Walk(func(node *Node, world math3d.Mat4) bool {
		if node.Mesh != nil {
			box = box.Union(node.Mesh.Bounds().Transform(world))
		}
		return true
	})
	return box
}

// Stats counts nodes, meshes and triangles in the subtree.
type Stats struct {
	Nodes     int
	Meshes    int
	Triangles int
	Vertices  int
}

// Stats returns the subtree counts.
func (n *Node) Stats() Stats {
	var s Stats
	n.Walk(func(node *Node, _ math3d.Mat4) bool {
		s.Nodes++
		if node.Mesh != nil {
			s.Meshes++
			s.Triangles += node.Mesh.TriangleCount()
			s.Vertices += node.Mesh.VertexCount()
		}
		return true
	})
	return s
}
