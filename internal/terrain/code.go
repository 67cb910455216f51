package terrain

import "fmt"

// Position codes pack a tile's hierarchical address into a uint64 suitable
// as a cache key or cross-process tile identifier:
//
//	bits [0,5)  depth (1..28, roots are depth 1)
//	bits [5,8)  cube face (0..5)
//	bits [8,..) two bits per level below the root, shallowest first
//
// Identical addresses always encode to the same value.
const (
	// MaxCodeDepth is the deepest address a position code can hold.
	MaxCodeDepth = 28

	codeDepthBits = 5
	codeFaceBits  = 3
	codeDepthMask = 1<<codeDepthBits - 1
	codeFaceMask  = 1<<codeFaceBits - 1
)

// EncodePosition packs a face and quadrant path into a position code.
// The address depth is 1 + len(quadrants).
func EncodePosition(face CubeFace, quadrants []int) (uint64, error) {
	if face < 0 || face >= FaceCount {
		return 0, fmt.Errorf("%w: face %d", ErrArgument, face)
	}
	depth := 1 + len(quadrants)
	if depth > MaxCodeDepth {
		return 0, fmt.Errorf("%w: depth %d exceeds %d", ErrCodeOverflow, depth, MaxCodeDepth)
	}
	code := uint64(depth) | uint64(face)<<codeDepthBits
	for i, q := range quadrants {
		if q < 0 || q > 3 {
			return 0, fmt.Errorf("%w: quadrant %d at level %d", ErrArgument, q, i)
		}
		code |= uint64(q) << (codeDepthBits + codeFaceBits + 2*i)
	}
	return code, nil
}

// DecodePosition unpacks a position code produced by EncodePosition.
// It is a total inverse of EncodePosition over its valid domain.
func DecodePosition(code uint64) (CubeFace, []int, error) {
	depth := int(code & codeDepthMask)
	if depth < 1 || depth > MaxCodeDepth {
		return 0, nil, fmt.Errorf("%w: code depth %d", ErrArgument, depth)
	}
	face := CubeFace(code >> codeDepthBits & codeFaceMask)
	if face >= FaceCount {
		return 0, nil, fmt.Errorf("%w: code face %d", ErrArgument, face)
	}
	if depth == 1 {
		return face, nil, nil
	}
	quadrants := make([]int, depth-1)
	for i := range quadrants {
		quadrants[i] = int(code >> (codeDepthBits + codeFaceBits + 2*i) & 3)
	}
	return face, quadrants, nil
}
