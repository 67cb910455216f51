// Package terrain implements the adaptive level-of-detail quadtree that
// tiles a spherical planet surface. The sphere is parameterized as six cube
// faces; each face holds a quadtree of tiles that subdivide toward the
// viewer and recombine away from it, producing renderable mesh patches.
package terrain

import (
	"fmt"

	"github.com/Faultbox/planetfall/pkg/math"
)

// CubeFace identifies one of the six cube-sphere faces.
type CubeFace int

// The six faces, named by their outward normal.
const (
	FacePosX CubeFace = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ

	// FaceCount is the number of cube faces.
	FaceCount = 6
)

func (f CubeFace) String() string {
	switch f {
	case FacePosX:
		return "+X"
	case FaceNegX:
		return "-X"
	case FacePosY:
		return "+Y"
	case FaceNegY:
		return "-Y"
	case FacePosZ:
		return "+Z"
	case FaceNegZ:
		return "-Z"
	}
	return fmt.Sprintf("CubeFace(%d)", int(f))
}

// FacePosToCube maps a 2D face coordinate in [-1,1]² onto the surface of the
// unit cube, with the face oriented so its outward normal matches the face
// axis. The caller normalizes the result to land on the unit sphere.
func FacePosToCube(face CubeFace, pos math.Vec2) math.Vec3 {
	x, y := pos.X, pos.Y
	switch face {
	case FacePosX:
		return math.Vec3{X: 1, Y: y, Z: -x}
	case FaceNegX:
		return math.Vec3{X: -1, Y: y, Z: x}
	case FacePosY:
		return math.Vec3{X: x, Y: 1, Z: -y}
	case FaceNegY:
		return math.Vec3{X: x, Y: -1, Z: y}
	case FacePosZ:
		return math.Vec3{X: x, Y: y, Z: 1}
	case FaceNegZ:
		return math.Vec3{X: -x, Y: y, Z: -1}
	}
	return math.Vec3{}
}
