package terrain

import (
	gomath "math"
	"sort"
	"testing"

	"github.com/Faultbox/planetfall/pkg/math"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Radius = 1000
	cfg.MaxLOD = 6
	cfg.SubdivisionBudget = 4
	return cfg
}

func newTestQuadtree(t *testing.T, cfg Config) *Quadtree {
	t.Helper()
	q, err := New(flatField{}, nil, cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return q
}

// visibleCodes returns the sorted position codes of all drawn tiles.
func visibleCodes(q *Quadtree) []uint64 {
	var codes []uint64
	q.VisitVisible(func(t *Tile) { codes = append(codes, t.Code()) })
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

func sameCodes(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewCreatesSixVisibleRoots(t *testing.T) {
	q := newTestQuadtree(t, testConfig())
	if got := q.ActiveLeaves(); got != 6 {
		t.Errorf("ActiveLeaves() = %d, want 6", got)
	}
	for face, root := range q.roots {
		if root.Face() != CubeFace(face) || root.Depth() != 1 {
			t.Errorf("root %d: face %v depth %d", face, root.Face(), root.Depth())
		}
	}
}

type nanField struct{}

func (nanField) Height(math.Vec3, uint32) float64 { return gomath.NaN() }

func TestNewProbesHeightField(t *testing.T) {
	if _, err := New(nanField{}, nil, testConfig(), nil); err == nil {
		t.Fatal("expected construction to fail for a NaN height field")
	}
	if _, err := New(nil, nil, testConfig(), nil); err == nil {
		t.Fatal("expected construction to fail for a nil height field")
	}
}

func TestConfigValidation(t *testing.T) {
	bad := testConfig()
	bad.HysteresisFactor = 1
	if _, err := New(flatField{}, nil, bad, nil); err == nil {
		t.Error("hysteresis factor 1 must be rejected")
	}
	bad = testConfig()
	bad.MaxLOD = MaxCodeDepth
	if _, err := New(flatField{}, nil, bad, nil); err == nil {
		t.Error("MaxLOD at the codec limit must be rejected")
	}
}

func TestSubdivideThenRecombineRestoresLeaf(t *testing.T) {
	q := newTestQuadtree(t, testConfig())
	root := q.roots[0]

	if err := q.subdivide(root); err != nil {
		t.Fatalf("subdivide: %v", err)
	}
	if !root.HasChildren() {
		t.Fatal("subdivide left no children")
	}
	if root.MeshVisible() {
		t.Error("parent mesh should hide while children are active")
	}
	for i, c := range root.children {
		if c == nil || !c.MeshVisible() || c.Depth() != 2 {
			t.Fatalf("child %d in bad state: %+v", i, c)
		}
	}

	q.recombine(root)
	if root.HasChildren() {
		t.Error("recombine left active children")
	}
	if !root.MeshVisible() {
		t.Error("recombine should restore the parent as a visible leaf")
	}
}

func TestSubdivideNonLeafFails(t *testing.T) {
	q := newTestQuadtree(t, testConfig())
	root := q.roots[0]
	if err := q.subdivide(root); err != nil {
		t.Fatalf("subdivide: %v", err)
	}
	if err := q.subdivide(root); err == nil {
		t.Error("subdividing a non-leaf must fail")
	}
}

func TestBudgetBoundsSubdivisionsPerTick(t *testing.T) {
	cfg := testConfig()
	cfg.SubdivisionBudget = 2
	cfg.MaxLOD = 2
	q := newTestQuadtree(t, cfg)

	// A surface viewer is within subdivision range of every root.
	viewer := math.Vec3{Z: cfg.Radius}

	parents := func() int {
		n := 0
		for _, r := range q.roots {
			if r.HasChildren() {
				n++
			}
		}
		return n
	}

	q.Update(viewer)
	if got := parents(); got != 2 {
		t.Fatalf("parents after tick 1 = %d, want 2", got)
	}
	q.Update(viewer)
	if got := parents(); got != 4 {
		t.Fatalf("parents after tick 2 = %d, want 4", got)
	}
	q.Update(viewer)
	if got := parents(); got != 6 {
		t.Fatalf("parents after tick 3 = %d, want 6", got)
	}
}

func TestMaxLODCapsDepth(t *testing.T) {
	cfg := testConfig()
	cfg.MaxLOD = 2
	q := newTestQuadtree(t, cfg)
	viewer := math.Vec3{Z: cfg.Radius}

	for i := 0; i < 20; i++ {
		q.Update(viewer)
	}
	q.VisitVisible(func(tile *Tile) {
		if tile.Depth() > cfg.MaxLOD {
			t.Fatalf("tile %d deeper than MaxLOD: depth %d", tile.Code(), tile.Depth())
		}
	})
}

func TestFixedViewerConverges(t *testing.T) {
	cfg := testConfig()
	q := newTestQuadtree(t, cfg)
	viewer := math.Vec3{X: 200, Z: cfg.Radius}

	var prev []uint64
	stable := 0
	for i := 0; i < 200; i++ {
		q.Update(viewer)
		codes := visibleCodes(q)
		if sameCodes(prev, codes) {
			stable++
		} else {
			stable = 0
		}
		prev = codes
	}
	// Once the budget catches up, the active-leaf set must stop changing.
	if stable < 50 {
		t.Errorf("leaf set still changing after 200 ticks (stable for %d)", stable)
	}
}

func TestPoolIdleCapHoldsAfterUpdates(t *testing.T) {
	cfg := testConfig()
	cfg.MaxLOD = 4
	q := newTestQuadtree(t, cfg)

	near := math.Vec3{Z: cfg.Radius}
	far := math.Vec3{Z: cfg.Radius * 50}
	for i := 0; i < 30; i++ {
		q.Update(near)
	}
	for i := 0; i < 30; i++ {
		q.Update(far)
	}

	max := q.pool.Constructed() / 2
	if max < 1 {
		max = 1
	}
	if q.pool.IdleCount() > max {
		t.Errorf("IdleCount() = %d, want <= %d", q.pool.IdleCount(), max)
	}
}

// memoryCache is an in-process MeshCache for testing the cache path.
type memoryCache struct {
	meshes map[uint64]Mesh
	loads  int
	hits   int
	stores int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{meshes: map[uint64]Mesh{}}
}

func (c *memoryCache) Load(code uint64, m *Mesh) (bool, error) {
	c.loads++
	cached, ok := c.meshes[code]
	if !ok {
		return false, nil
	}
	c.hits++
	*m = cached
	return true, nil
}

func (c *memoryCache) Store(code uint64, m *Mesh) error {
	c.stores++
	c.meshes[code] = Mesh{
		Positions: append([]math.Vec3(nil), m.Positions...),
		Normals:   append([]math.Vec3(nil), m.Normals...),
		Texcoords: append([]math.Vec3(nil), m.Texcoords...),
		Offset:    m.Offset,
	}
	return nil
}

func TestMeshCacheRoundTrip(t *testing.T) {
	cache := newMemoryCache()
	cfg := testConfig()

	q1, err := New(flatField{}, cache, cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cache.stores != 6 {
		t.Fatalf("stores after first build = %d, want 6", cache.stores)
	}

	q2, err := New(flatField{}, cache, cfg, nil)
	if err != nil {
		t.Fatalf("New (cached): %v", err)
	}
	if cache.hits != 6 {
		t.Errorf("hits on rebuild = %d, want 6", cache.hits)
	}
	for f := 0; f < 6; f++ {
		if q1.roots[f].mesh.Offset != q2.roots[f].mesh.Offset {
			t.Errorf("face %d offset differs between build and cache", f)
		}
	}
}
