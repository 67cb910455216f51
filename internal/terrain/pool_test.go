package terrain

import "testing"

func newTestPool() *TilePool {
	return NewTilePool(func() *Tile { return &Tile{} })
}

func TestPoolConstructsOnDemand(t *testing.T) {
	p := newTestPool()
	a := p.Get()
	b := p.Get()
	if a == nil || b == nil || a == b {
		t.Fatal("Get() must return distinct tiles")
	}
	if p.Constructed() != 2 {
		t.Errorf("Constructed() = %d, want 2", p.Constructed())
	}
}

func TestRecycleDeferredUntilUpkeep(t *testing.T) {
	p := newTestPool()
	a := p.Get()
	p.Recycle(a)

	// Still pending: a fresh Get must construct, not alias the recycled tile.
	b := p.Get()
	if b == a {
		t.Fatal("Get() returned a tile still pending recycle")
	}
	p.Recycle(b)

	p.Upkeep()
	c := p.Get()
	if c != a && c != b {
		t.Error("Get() after Upkeep should reuse a recycled tile")
	}
}

func TestUpkeepCapsIdleTiles(t *testing.T) {
	p := newTestPool()
	var tiles []*Tile
	for i := 0; i < 6; i++ {
		tiles = append(tiles, p.Get())
	}
	for _, tile := range tiles {
		p.Recycle(tile)
	}
	p.Upkeep()

	if max := p.Constructed() / 2; p.IdleCount() > max {
		t.Errorf("IdleCount() = %d, want <= %d", p.IdleCount(), max)
	}
}

func TestUpkeepKeepsAtLeastOne(t *testing.T) {
	p := newTestPool()
	a := p.Get() // constructed = 1, cap would be 0 without the floor
	p.Recycle(a)
	p.Upkeep()
	if p.IdleCount() != 1 {
		t.Errorf("IdleCount() = %d, want 1", p.IdleCount())
	}
}
