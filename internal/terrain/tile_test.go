package terrain

import (
	"errors"
	"testing"

	"github.com/Faultbox/planetfall/pkg/math"
)

func newRoot(t *testing.T, face CubeFace) *Tile {
	t.Helper()
	root := &Tile{}
	if err := root.SetGeometry(face, nil, 0); err != nil {
		t.Fatalf("SetGeometry(root): %v", err)
	}
	return root
}

func newChild(t *testing.T, parent *Tile, quadrant int) *Tile {
	t.Helper()
	c := &Tile{}
	if err := c.SetGeometry(parent.face, parent, quadrant); err != nil {
		t.Fatalf("SetGeometry(child q%d): %v", quadrant, err)
	}
	parent.children[quadrant] = c
	return c
}

func TestRootGeometry(t *testing.T) {
	root := newRoot(t, FacePosZ)
	if root.Depth() != 1 {
		t.Errorf("root depth = %d, want 1", root.Depth())
	}
	p1, p2 := root.Footprint()
	if (p1 != math.Vec2{X: -1, Y: -1}) || (p2 != math.Vec2{X: 1, Y: 1}) {
		t.Errorf("root footprint = %v..%v, want (-1,-1)..(1,1)", p1, p2)
	}
	if root.Code() != uint64(FacePosZ)<<5|1 {
		t.Errorf("root code = %d, want %d", root.Code(), uint64(FacePosZ)<<5|1)
	}
}

func TestChildFootprints(t *testing.T) {
	parent := newRoot(t, FacePosX)
	p1, p2 := parent.Footprint()
	shape := p2.Sub(p1).Scale(0.5)

	cases := []struct {
		quadrant int
		wantP1   math.Vec2
	}{
		{QuadLowerLeft, p1},
		{QuadUpperRight, p1.Add(shape)},
		{QuadUpperLeft, math.Vec2{X: p1.X, Y: p1.Y + shape.Y}},
		{QuadLowerRight, math.Vec2{X: p1.X + shape.X, Y: p1.Y}},
	}
	for _, tc := range cases {
		c := newChild(t, parent, tc.quadrant)
		cp1, cp2 := c.Footprint()
		if cp1 != tc.wantP1 {
			t.Errorf("quadrant %d p1 = %v, want %v", tc.quadrant, cp1, tc.wantP1)
		}
		if want := tc.wantP1.Add(shape); cp2 != want {
			t.Errorf("quadrant %d p2 = %v, want %v", tc.quadrant, cp2, want)
		}
		if c.Depth() != parent.Depth()+1 {
			t.Errorf("quadrant %d depth = %d, want %d", tc.quadrant, c.Depth(), parent.Depth()+1)
		}
	}
}

func TestWidthHalvesPerLevel(t *testing.T) {
	tile := newRoot(t, FacePosY)
	rootWidth := tile.Width()
	for depth := 1; depth <= 24; depth++ {
		want := rootWidth / float64(int64(1)<<(depth-1))
		if tile.Width() != want {
			t.Fatalf("width(depth %d) = %v, want %v", depth, tile.Width(), want)
		}
		tile = newChild(t, tile, QuadLowerLeft)
	}
}

func TestSetGeometryErrors(t *testing.T) {
	parent := newRoot(t, FacePosX)

	c := &Tile{}
	if err := c.SetGeometry(parent.face, parent, 4); !errors.Is(err, ErrArgument) {
		t.Errorf("quadrant 4: expected ErrArgument, got %v", err)
	}
	if err := parent.SetGeometry(parent.face, parent, 0); !errors.Is(err, ErrState) {
		t.Errorf("self parent: expected ErrState, got %v", err)
	}

	live := newChild(t, parent, QuadLowerLeft)
	live.active = true
	if err := live.SetGeometry(parent.face, parent, 1); !errors.Is(err, ErrState) {
		t.Errorf("live tile: expected ErrState, got %v", err)
	}

	other := newRoot(t, FaceNegX)
	mismatch := &Tile{}
	if err := mismatch.SetGeometry(FacePosX, other, 0); !errors.Is(err, ErrState) {
		t.Errorf("face mismatch: expected ErrState, got %v", err)
	}
}

func TestQuadrantsPath(t *testing.T) {
	root := newRoot(t, FaceNegY)
	c1 := newChild(t, root, QuadUpperLeft)
	c2 := newChild(t, c1, QuadLowerRight)
	got := c2.Quadrants()
	want := []int{QuadUpperLeft, QuadLowerRight}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Quadrants() = %v, want %v", got, want)
	}
}

func TestNeighborAboveSiblings(t *testing.T) {
	root := newRoot(t, FacePosZ)
	var kids [4]*Tile
	for q := 0; q < 4; q++ {
		kids[q] = newChild(t, root, q)
	}

	if got := kids[QuadLowerLeft].NeighborAbove(); got != kids[QuadUpperLeft] {
		t.Errorf("lower-left above = %v, want upper-left sibling", got)
	}
	if got := kids[QuadLowerRight].NeighborAbove(); got != kids[QuadUpperRight] {
		t.Errorf("lower-right above = %v, want upper-right sibling", got)
	}
}

func TestNeighborAboveClimbs(t *testing.T) {
	root := newRoot(t, FacePosZ)
	var kids [4]*Tile
	for q := 0; q < 4; q++ {
		kids[q] = newChild(t, root, q)
	}

	// Upper children of the lower-left tile must find the (coarser)
	// upper-left sibling of their parent.
	gul := newChild(t, kids[QuadLowerLeft], QuadUpperLeft)
	if got := gul.NeighborAbove(); got != kids[QuadUpperLeft] {
		t.Errorf("grandchild above = %v, want coarse upper-left uncle", got)
	}

	// If the uncle is itself split, descend into the lower child with the
	// same horizontal parity.
	var uncles [4]*Tile
	for q := 0; q < 4; q++ {
		uncles[q] = newChild(t, kids[QuadUpperLeft], q)
	}
	if got := gul.NeighborAbove(); got != uncles[QuadLowerLeft] {
		t.Errorf("grandchild above = %v, want uncle's lower-left child", got)
	}

	gur := newChild(t, kids[QuadLowerLeft], QuadUpperRight)
	if got := gur.NeighborAbove(); got != uncles[QuadLowerRight] {
		t.Errorf("grandchild above = %v, want uncle's lower-right child", got)
	}
}

func TestNeighborAboveFaceEdge(t *testing.T) {
	root := newRoot(t, FacePosZ)
	if got := root.NeighborAbove(); got != nil {
		t.Errorf("root above = %v, want nil (cross-face lookup not implemented)", got)
	}
	top := newChild(t, root, QuadUpperLeft)
	if got := top.NeighborAbove(); got != nil {
		t.Errorf("top-edge child above = %v, want nil", got)
	}
}
