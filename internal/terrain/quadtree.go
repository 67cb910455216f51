package terrain

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/planetfall/pkg/math"
)

// Config holds the planet shape and traversal tuning for a Quadtree.
type Config struct {
	// Radius is the planet radius in world units.
	Radius float64

	// HeightScale multiplies HeightField samples into world units.
	HeightScale float64

	// MaxLOD caps tile depth. Subdividing at the cap is a no-op no matter
	// how close the viewer is. Must stay below MaxCodeDepth.
	MaxLOD int

	// GridSize is the tile polygon width N; each tile samples an
	// (N+1)x(N+1) height grid. Must be even.
	GridSize int

	// ChunkSize is the wrap period for the texturing coordinates.
	ChunkSize float64

	// LipDepth scales how far a tile's border ring pulls inward.
	LipDepth float64

	// SubdivisionBudget bounds how many subdivisions one tick may perform.
	SubdivisionBudget int

	// SubdivisionFactor is K: a tile splits when the viewer is closer
	// than K times its world width.
	SubdivisionFactor float64

	// HysteresisFactor is H (> 1): children recombine only once the
	// viewer is farther than K*H times the tile's world width, so a
	// viewer hovering at the threshold cannot oscillate.
	HysteresisFactor float64
}

// DefaultConfig returns traversal tuning for an Earth-sized planet.
func DefaultConfig() Config {
	return Config{
		Radius:            6_000_000,
		HeightScale:       1,
		MaxLOD:            20,
		GridSize:          8,
		ChunkSize:         512,
		LipDepth:          0.05,
		SubdivisionBudget: 8,
		SubdivisionFactor: 3,
		HysteresisFactor:  1.2,
	}
}

func (c Config) validate() error {
	if c.MaxLOD < 1 || c.MaxLOD >= MaxCodeDepth {
		return fmt.Errorf("%w: MaxLOD %d outside [1,%d)", ErrArgument, c.MaxLOD, MaxCodeDepth)
	}
	if c.SubdivisionBudget < 1 {
		return fmt.Errorf("%w: subdivision budget %d", ErrArgument, c.SubdivisionBudget)
	}
	if c.SubdivisionFactor <= 0 {
		return fmt.Errorf("%w: subdivision factor %v", ErrArgument, c.SubdivisionFactor)
	}
	if c.HysteresisFactor <= 1 {
		return fmt.Errorf("%w: hysteresis factor %v must exceed 1", ErrArgument, c.HysteresisFactor)
	}
	return nil
}

// MeshCache stores built tile meshes keyed by position code. Load fills m
// and reports whether the code was present. Implementations may assume the
// height field is deterministic for the lifetime of the cache.
type MeshCache interface {
	Load(code uint64, m *Mesh) (bool, error)
	Store(code uint64, m *Mesh) error
}

// Quadtree owns the six face roots and runs the per-tick subdivide/recombine
// traversal. Everything happens synchronously on the caller's goroutine; the
// hierarchy is never observable mid-transition.
type Quadtree struct {
	cfg     Config
	builder *MeshBuilder
	pool    *TilePool
	cache   MeshCache
	log     *zap.Logger

	roots  [6]*Tile
	budget int
	tick   uint64
}

// New builds a quadtree over hf. The height field is probed once with a
// fixed direction; a non-finite result fails construction. cache may be nil.
func New(hf HeightField, cache MeshCache, cfg Config, log *zap.Logger) (*Quadtree, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := probeHeightField(hf); err != nil {
		return nil, fmt.Errorf("height field not ready: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	builder, err := NewMeshBuilder(hf, cfg.Radius, cfg.HeightScale, cfg.GridSize, cfg.ChunkSize, cfg.LipDepth)
	if err != nil {
		return nil, err
	}

	q := &Quadtree{
		cfg:     cfg,
		builder: builder,
		pool:    NewTilePool(func() *Tile { return &Tile{} }),
		cache:   cache,
		log:     log,
	}

	for f := CubeFace(0); f < FaceCount; f++ {
		t := q.pool.Get()
		if err := t.SetGeometry(f, nil, 0); err != nil {
			return nil, err
		}
		if err := q.buildTileMesh(t); err != nil {
			return nil, err
		}
		t.active = true
		t.meshVisible = true
		q.roots[f] = t
	}
	return q, nil
}

// Update runs one traversal tick for the given viewer world position. The
// subdivision budget resets each tick; recombination is unbounded since it
// only returns pooled resources.
func (q *Quadtree) Update(viewer math.Vec3) {
	q.tick++
	q.budget = q.cfg.SubdivisionBudget
	for _, root := range q.roots {
		q.step(root, viewer)
	}
	q.pool.Upkeep()
}

func (q *Quadtree) step(t *Tile, viewer math.Vec3) {
	dist := t.mesh.Offset.Distance(viewer)

	if t.HasChildren() {
		if dist > q.recombineDistance(t) {
			q.recombine(t)
			return
		}
		for _, c := range t.children {
			q.step(c, viewer)
		}
		return
	}

	if dist < q.subdivideDistance(t) && t.depth < q.cfg.MaxLOD && q.budget > 0 {
		if err := q.subdivide(t); err != nil {
			// Contract violation: structural bug, not a retry case.
			q.log.Error("tile subdivision failed",
				zap.Uint64("code", t.code),
				zap.Int("depth", t.depth),
				zap.Error(err))
		}
	}
}

// worldWidth is the approximate span of a tile in world units; a root tile
// covers about one planet radius of chord.
func (q *Quadtree) worldWidth(t *Tile) float64 {
	return t.Width() * 0.5 * q.cfg.Radius
}

func (q *Quadtree) subdivideDistance(t *Tile) float64 {
	return q.cfg.SubdivisionFactor * q.worldWidth(t)
}

func (q *Quadtree) recombineDistance(t *Tile) float64 {
	return q.subdivideDistance(t) * q.cfg.HysteresisFactor
}

// subdivide activates four children pulled from the pool and hides the
// parent mesh. The whole split costs one unit of the tick budget.
func (q *Quadtree) subdivide(t *Tile) error {
	if t.HasChildren() {
		return fmt.Errorf("%w: subdividing non-leaf %d", ErrState, t.code)
	}
	if !t.active {
		return fmt.Errorf("%w: subdividing tile outside active hierarchy", ErrState)
	}
	q.budget--

	for i := 0; i < 4; i++ {
		c := q.pool.Get()
		if err := c.SetGeometry(t.face, t, i); err != nil {
			q.abortSubdivide(t)
			return err
		}
		if err := q.buildTileMesh(c); err != nil {
			q.pool.Recycle(c)
			q.abortSubdivide(t)
			return err
		}
		c.active = true
		c.meshVisible = true
		t.children[i] = c
	}
	t.meshVisible = false
	return nil
}

// abortSubdivide rolls a failed split back to a consistent leaf.
func (q *Quadtree) abortSubdivide(t *Tile) {
	for i, c := range t.children {
		if c == nil {
			continue
		}
		c.active = false
		c.meshVisible = false
		c.parent = nil
		q.pool.Recycle(c)
		t.children[i] = nil
	}
	t.meshVisible = true
}

// recombine collapses the subtree under t depth-first and restores t as a
// visible leaf. Children go back to the pool with their mesh buffers intact.
func (q *Quadtree) recombine(t *Tile) {
	for _, c := range t.children {
		if c.HasChildren() {
			q.recombine(c)
		}
	}
	for i, c := range t.children {
		c.active = false
		c.meshVisible = false
		c.parent = nil
		q.pool.Recycle(c)
		t.children[i] = nil
	}
	t.meshVisible = true
}

// buildTileMesh fills the tile's mesh, going through the cache when one is
// attached. Cache failures degrade to a rebuild, never to a missing mesh.
func (q *Quadtree) buildTileMesh(t *Tile) error {
	if q.cache != nil {
		ok, err := q.cache.Load(t.code, &t.mesh)
		if err != nil {
			q.log.Warn("tile cache load failed", zap.Uint64("code", t.code), zap.Error(err))
		} else if ok {
			return nil
		}
	}
	if err := q.builder.Build(t.face, t.p1, t.p2, t.depth, &t.mesh); err != nil {
		return err
	}
	if q.cache != nil {
		if err := q.cache.Store(t.code, &t.mesh); err != nil {
			q.log.Warn("tile cache store failed", zap.Uint64("code", t.code), zap.Error(err))
		}
	}
	return nil
}

// VisitVisible calls fn for every tile whose mesh should currently be drawn,
// in face order. The renderer consumes mesh buffers and transforms through
// this; the quadtree knows nothing about draw calls.
func (q *Quadtree) VisitVisible(fn func(*Tile)) {
	for _, root := range q.roots {
		visitVisible(root, fn)
	}
}

func visitVisible(t *Tile, fn func(*Tile)) {
	if t.meshVisible {
		fn(t)
		return
	}
	for _, c := range t.children {
		if c != nil {
			visitVisible(c, fn)
		}
	}
}

// Indices returns the shared triangle index buffer for all tile meshes.
func (q *Quadtree) Indices() []uint32 {
	return q.builder.Indices()
}

// ActiveLeaves counts tiles currently showing a mesh.
func (q *Quadtree) ActiveLeaves() int {
	n := 0
	q.VisitVisible(func(*Tile) { n++ })
	return n
}

// Pool exposes the tile pool for stats reporting.
func (q *Quadtree) Pool() *TilePool { return q.pool }
