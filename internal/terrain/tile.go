package terrain

import (
	"fmt"

	"github.com/Faultbox/planetfall/pkg/math"
)

// Quadrant layout within a parent footprint (p1 is the lower-left corner):
//
//	+----+----+
//	| 1  | 0  |
//	+----+----+
//	| 2  | 3  |
//	+----+----+
//
// Quadrant 2 inherits the parent's p1 exactly.
const (
	QuadUpperRight = 0
	QuadUpperLeft  = 1
	QuadLowerLeft  = 2
	QuadLowerRight = 3
)

// Tile is one quadtree node: a renderable patch of the planet surface.
// A tile is either pooled (inactive), an active leaf showing its mesh, or an
// active parent whose four children are live and whose own mesh stays hidden
// but intact for fast recombination. Children are all-or-none.
type Tile struct {
	face     CubeFace
	depth    int
	quadrant int
	code     uint64

	// Face-relative footprint, p1 lower-left, within [-1,1]².
	p1, p2 math.Vec2

	parent   *Tile
	children [4]*Tile

	active      bool
	meshVisible bool
	mesh        Mesh
}

// SetGeometry (re)initializes a pooled tile as a child of parent in the
// given quadrant, or as a face root when parent is nil. The tile's mesh
// buffers are retained for reuse; only the geometry fields change.
func (t *Tile) SetGeometry(face CubeFace, parent *Tile, quadrant int) error {
	if t.active {
		return fmt.Errorf("%w: SetGeometry on live tile %d", ErrState, t.code)
	}
	if parent == t {
		return fmt.Errorf("%w: tile parented to itself", ErrState)
	}
	if face < 0 || face >= FaceCount {
		return fmt.Errorf("%w: face %d", ErrArgument, face)
	}

	if parent == nil {
		t.face = face
		t.depth = 1
		t.quadrant = 0
		t.p1 = math.Vec2{X: -1, Y: -1}
		t.p2 = math.Vec2{X: 1, Y: 1}
		t.parent = nil
	} else {
		if quadrant < 0 || quadrant > 3 {
			return fmt.Errorf("%w: quadrant %d", ErrArgument, quadrant)
		}
		if parent.face != face {
			return fmt.Errorf("%w: parent face %v, child face %v", ErrState, parent.face, face)
		}
		shape := parent.p2.Sub(parent.p1).Scale(0.5)
		t.face = face
		t.depth = parent.depth + 1
		t.quadrant = quadrant
		switch quadrant {
		case QuadUpperRight:
			t.p1 = parent.p1.Add(shape)
		case QuadUpperLeft:
			t.p1 = math.Vec2{X: parent.p1.X, Y: parent.p1.Y + shape.Y}
		case QuadLowerLeft:
			t.p1 = parent.p1
		case QuadLowerRight:
			t.p1 = math.Vec2{X: parent.p1.X + shape.X, Y: parent.p1.Y}
		}
		t.p2 = t.p1.Add(shape)
		t.parent = parent
	}

	code, err := EncodePosition(t.face, t.Quadrants())
	if err != nil {
		return err
	}
	t.code = code
	t.children = [4]*Tile{}
	return nil
}

// Face returns the cube face the tile lies on.
func (t *Tile) Face() CubeFace { return t.face }

// Depth returns the tile's LOD depth; roots are depth 1.
func (t *Tile) Depth() int { return t.depth }

// Code returns the tile's packed position code.
func (t *Tile) Code() uint64 { return t.code }

// Footprint returns the face-relative rectangle (p1 lower-left).
func (t *Tile) Footprint() (p1, p2 math.Vec2) { return t.p1, t.p2 }

// Width returns the footprint side length in face units; a root spans 2 and
// each level below halves it.
func (t *Tile) Width() float64 { return t.p2.X - t.p1.X }

// HasChildren reports whether the tile has active children. Children are
// all-or-none, so checking the first slot suffices.
func (t *Tile) HasChildren() bool { return t.children[0] != nil }

// Mesh returns the tile's mesh buffers.
func (t *Tile) Mesh() *Mesh { return &t.mesh }

// MeshVisible reports whether the mesh should currently be drawn.
func (t *Tile) MeshVisible() bool { return t.meshVisible }

// Quadrants returns the quadrant path from the face root down to this tile.
func (t *Tile) Quadrants() []int {
	if t.depth <= 1 {
		return nil
	}
	qs := make([]int, t.depth-1)
	for n := t; n.parent != nil; n = n.parent {
		qs[n.depth-2] = n.quadrant
	}
	return qs
}

// NeighborAbove returns the tile adjacent in the +Y face direction at the
// same or coarser depth, or nil at a face edge. Lower quadrants flip to
// their upper sibling; upper quadrants climb to the parent's neighbor and
// descend into the lower child of matching horizontal parity.
//
// TODO: generalize the climb-then-descend parity walk to the left, right
// and below directions, and to crossings between faces. Only "above" is
// needed by edge blending today.
func (t *Tile) NeighborAbove() *Tile {
	if t.parent == nil {
		return nil
	}
	switch t.quadrant {
	case QuadLowerLeft:
		return t.parent.children[QuadUpperLeft]
	case QuadLowerRight:
		return t.parent.children[QuadUpperRight]
	}
	n := t.parent.NeighborAbove()
	if n == nil || !n.HasChildren() {
		return n
	}
	if t.quadrant == QuadUpperLeft {
		return n.children[QuadLowerLeft]
	}
	return n.children[QuadLowerRight]
}
