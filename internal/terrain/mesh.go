package terrain

import (
	"fmt"

	"github.com/Faultbox/planetfall/pkg/math"
)

// Mesh holds one tile's vertex buffers. Positions are relative to Offset
// (the tile's own center sample) so mesh-local coordinates stay small enough
// for single-precision GPU upload even on a planet-sized world.
type Mesh struct {
	Positions []math.Vec3
	Normals   []math.Vec3

	// Texcoords are world positions wrapped modulo the builder's chunk
	// size: bounded, small-magnitude inputs for procedural texturing that
	// must stay stable far from the origin.
	Texcoords []math.Vec3

	// Offset is the world-space position of the tile's center sample.
	Offset math.Vec3
}

// Transform returns the world-space placement of the mesh.
func (m *Mesh) Transform() math.Mat4 {
	return math.Translate(m.Offset.X, m.Offset.Y, m.Offset.Z)
}

// MeshBuilder samples a HeightField over tile footprints and fills Mesh
// buffers. One builder serves one quadtree; it reuses internal scratch
// buffers between builds and is not safe for concurrent use.
type MeshBuilder struct {
	hf HeightField

	radius      float64
	heightScale float64
	gridSize    int // N: tile polygon width; the sample grid is (N+1)²
	chunkSize   float64
	lipDepth    float64

	samplePos []math.Vec3
	sampleDir []math.Vec3
	sampleNrm []math.Vec3

	indices []uint32
}

// NewMeshBuilder creates a builder for the given height field and planet
// shape. gridSize must be even and at least 2 so every tile has an exact
// center sample.
func NewMeshBuilder(hf HeightField, radius, heightScale float64, gridSize int, chunkSize, lipDepth float64) (*MeshBuilder, error) {
	if gridSize < 2 || gridSize%2 != 0 {
		return nil, fmt.Errorf("%w: grid size %d must be even and >= 2", ErrArgument, gridSize)
	}
	if radius <= 0 {
		return nil, fmt.Errorf("%w: radius %v", ErrArgument, radius)
	}
	b := &MeshBuilder{
		hf:          hf,
		radius:      radius,
		heightScale: heightScale,
		gridSize:    gridSize,
		chunkSize:   chunkSize,
		lipDepth:    lipDepth,
	}
	samples := (gridSize + 1) * (gridSize + 1)
	b.samplePos = make([]math.Vec3, samples)
	b.sampleDir = make([]math.Vec3, samples)
	b.sampleNrm = make([]math.Vec3, samples)
	b.buildIndices()
	return b, nil
}

// Indices returns the triangle index buffer shared by every mesh the
// builder produces; tile topology is constant for a given grid size.
func (b *MeshBuilder) Indices() []uint32 {
	return b.indices
}

// VertexRows returns the vertex grid side length, interior plus lip ring.
func (b *MeshBuilder) VertexRows() int {
	return b.gridSize + 3
}

// Build fills m with geometry for the tile footprint (p1,p2) on face.
// depth is the tile's LOD depth, forwarded to the height field so coarse
// tiles can sample cheaply. Existing buffers in m are reused.
func (b *MeshBuilder) Build(face CubeFace, p1, p2 math.Vec2, depth int, m *Mesh) error {
	if face < 0 || face >= FaceCount {
		return fmt.Errorf("%w: face %d", ErrArgument, face)
	}

	n := b.gridSize
	span := p2.Sub(p1)
	step := span.X / float64(n)
	lod := uint32(depth)

	// Interior height samples over an (N+1)x(N+1) grid.
	for iy := 0; iy <= n; iy++ {
		for ix := 0; ix <= n; ix++ {
			uv := sampleUV(iy*(n+1)+ix, n)
			facePos := p1.Add(uv.Mul(span))
			dir := FacePosToCube(face, facePos).Normalize()
			i := iy*(n+1) + ix
			b.sampleDir[i] = dir
			b.samplePos[i] = b.surfacePoint(dir, lod)
		}
	}

	// Normals per sample; lip vertices reuse their nearest sample's normal.
	for i := range b.samplePos {
		b.sampleNrm[i] = b.sampleNormal(b.sampleDir[i], b.samplePos[i], step, lod)
	}

	center := b.samplePos[(n/2)*(n+1)+n/2]

	// Lip vertices pull toward the planet center so seams against coarser
	// neighbors are masked rather than left as open cracks. The pull depth
	// scales with tile width: big tiles meet big height steps.
	lipFactor := 1 - b.lipDepth*span.X
	if lipFactor < 0 {
		lipFactor = 0
	}

	rows := n + 3
	m.Positions = resizeVec3(m.Positions, rows*rows)
	m.Normals = resizeVec3(m.Normals, rows*rows)
	m.Texcoords = resizeVec3(m.Texcoords, rows*rows)

	for vy := 0; vy < rows; vy++ {
		for vx := 0; vx < rows; vx++ {
			sx := clampInt(vx-1, 0, n)
			sy := clampInt(vy-1, 0, n)
			si := sy*(n+1) + sx
			pos := b.samplePos[si]
			if vx == 0 || vy == 0 || vx == rows-1 || vy == rows-1 {
				pos = pos.Scale(lipFactor)
			}
			vi := vy*rows + vx
			m.Positions[vi] = pos.Sub(center)
			m.Normals[vi] = b.sampleNrm[si]
			m.Texcoords[vi] = pos.Mod(b.chunkSize)
		}
	}
	m.Offset = center
	return nil
}

// surfacePoint places a unit direction on the displaced planet surface.
func (b *MeshBuilder) surfacePoint(dir math.Vec3, lod uint32) math.Vec3 {
	h := b.hf.Height(dir, lod)
	return dir.Scale(b.radius + h*b.heightScale)
}

// sampleNormal approximates the outward surface normal at pos by perturbing
// the query direction along the world axes, keeping the two perturbed
// surface points closest to pos, and crossing the resulting edge vectors.
// Full mesh adjacency is not available when a single tile refreshes, so the
// normal comes from fresh field samples instead of neighboring vertices.
func (b *MeshBuilder) sampleNormal(dir, pos math.Vec3, step float64, lod uint32) math.Vec3 {
	axes := [3]math.Vec3{{X: 1}, {Y: 1}, {Z: 1}}

	var edges [3]math.Vec3
	var dists [3]float64
	for i, axis := range axes {
		pdir := dir.Add(axis.Scale(step)).Normalize()
		q := b.surfacePoint(pdir, lod)
		edges[i] = q.Sub(pos)
		dists[i] = edges[i].Length()
	}

	// Pick the two samples nearest the original point.
	a, c := 0, 1
	if dists[c] < dists[a] {
		a, c = c, a
	}
	if dists[2] < dists[a] {
		a, c = 2, a
	} else if dists[2] < dists[c] {
		c = 2
	}

	normal := edges[a].Cross(edges[c])
	// An axis nearly parallel to dir yields a degenerate edge; fall back to
	// the radial direction rather than emit a junk normal.
	if normal.Length() < 1e-12 {
		return dir
	}
	normal = normal.Normalize()
	if normal.Dot(dir) < 0 {
		normal = normal.Scale(-1)
	}
	return normal
}

// buildIndices fills the shared triangle list for the (N+3)² vertex grid.
func (b *MeshBuilder) buildIndices() {
	rows := b.gridSize + 3
	quads := rows - 1
	b.indices = make([]uint32, 0, quads*quads*6)
	for y := 0; y < quads; y++ {
		for x := 0; x < quads; x++ {
			i0 := uint32(y*rows + x)
			i1 := i0 + 1
			i2 := i0 + uint32(rows)
			i3 := i2 + 1
			b.indices = append(b.indices, i0, i2, i1, i1, i2, i3)
		}
	}
}

// sampleUV maps a flat sample index to its grid coordinate in [0,1]².
// Index 0 is (0,0), the last index is (1,1) and for even n the middle index
// is (0.5,0.5).
func sampleUV(index, n int) math.Vec2 {
	return math.Vec2{
		X: float64(index%(n+1)) / float64(n),
		Y: float64(index/(n+1)) / float64(n),
	}
}

func resizeVec3(s []math.Vec3, n int) []math.Vec3 {
	if cap(s) < n {
		return make([]math.Vec3, n)
	}
	return s[:n]
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
