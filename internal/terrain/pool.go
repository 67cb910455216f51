package terrain

// TilePool recycles tiles so subdivision does not reallocate mesh buffers
// every time the viewer moves. Get hands ownership out of the free list and
// Recycle hands it back in; a tile is never aliased as both live and pooled.
//
// Recycled tiles park on a pending list first and only become reusable after
// Upkeep runs, so a tile returned mid-traversal cannot be handed out again
// while the traversal that released it is still walking the tree.
type TilePool struct {
	factory func() *Tile

	free    []*Tile
	pending []*Tile

	constructed int
}

// NewTilePool creates a pool that builds new tiles with factory.
func NewTilePool(factory func() *Tile) *TilePool {
	return &TilePool{factory: factory}
}

// Get returns a free tile, constructing one when the free list is empty.
func (p *TilePool) Get() *Tile {
	if n := len(p.free); n > 0 {
		t := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		return t
	}
	p.constructed++
	return p.factory()
}

// Recycle parks a tile for reuse. The tile stays unavailable until the next
// Upkeep.
func (p *TilePool) Recycle(t *Tile) {
	p.pending = append(p.pending, t)
}

// Upkeep moves pending tiles onto the free list, dropping any that would
// push the idle count above max(1, constructed/2). Called once per tick
// after traversal completes.
func (p *TilePool) Upkeep() {
	limit := p.constructed / 2
	if limit < 1 {
		limit = 1
	}
	for _, t := range p.pending {
		if len(p.free) < limit {
			p.free = append(p.free, t)
		}
	}
	for i := range p.pending {
		p.pending[i] = nil
	}
	p.pending = p.pending[:0]
}

// Constructed returns how many tiles the pool has ever built.
func (p *TilePool) Constructed() int { return p.constructed }

// IdleCount returns the current free-list size.
func (p *TilePool) IdleCount() int { return len(p.free) }
