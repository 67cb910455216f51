package game

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/planetfall/internal/config"
	"github.com/Faultbox/planetfall/internal/procgen"
	"github.com/Faultbox/planetfall/internal/terrain"
	"github.com/Faultbox/planetfall/pkg/math"
)

// statsEvery is how many ticks pass between terrain stats log lines.
const statsEvery = 300

type joinRequest struct {
	name  string
	reply chan int
}

// Game owns the world and the terrain quadtree and runs the tick loop.
// The loop goroutine is the only writer; the relay reaches it through the
// Join/Leave/Events/StateJSON channel surface.
type Game struct {
	cfg     *config.Config
	world   *World
	terrain *terrain.Quadtree
	log     *zap.Logger

	events   chan Event
	joins    chan joinRequest
	leaves   chan int
	stateReq chan chan []byte
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New builds the simulation from config. cache may be nil to disable tile
// persistence.
func New(cfg *config.Config, cache terrain.MeshCache, log *zap.Logger) (*Game, error) {
	if log == nil {
		log = zap.NewNop()
	}

	planet := procgen.NewPlanet(cfg.Planet.Seed)
	q, err := terrain.New(planet, cache, quadtreeConfig(cfg), log)
	if err != nil {
		return nil, fmt.Errorf("creating terrain: %w", err)
	}

	// Spawn slightly above the nominal surface on the +Z face.
	spawn := math.Vec3{Z: cfg.Planet.Radius * 1.001}

	return &Game{
		cfg:      cfg,
		world:    NewWorld(spawn),
		terrain:  q,
		log:      log,
		events:   make(chan Event, 64),
		joins:    make(chan joinRequest),
		leaves:   make(chan int, 16),
		stateReq: make(chan chan []byte),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

func quadtreeConfig(cfg *config.Config) terrain.Config {
	return terrain.Config{
		Radius:            cfg.Planet.Radius,
		HeightScale:       cfg.Planet.HeightScale,
		MaxLOD:            cfg.Terrain.MaxLOD,
		GridSize:          cfg.Terrain.GridSize,
		ChunkSize:         cfg.Terrain.ChunkSize,
		LipDepth:          cfg.Terrain.LipDepth,
		SubdivisionBudget: cfg.Terrain.SubdivisionBudget,
		SubdivisionFactor: cfg.Terrain.SubdivisionFactor,
		HysteresisFactor:  cfg.Terrain.HysteresisFactor,
	}
}

// Terrain exposes the quadtree to the renderer-facing layer.
func (g *Game) Terrain() *terrain.Quadtree { return g.terrain }

// Events returns the channel the relay feeds client events into.
func (g *Game) Events() chan<- Event { return g.events }

// Join spawns a player on the loop goroutine and returns its entity ID.
func (g *Game) Join(name string) int {
	req := joinRequest{name: name, reply: make(chan int, 1)}
	g.joins <- req
	return <-req.reply
}

// Leave removes a player's entity.
func (g *Game) Leave(id int) {
	g.leaves <- id
}

// StateJSON returns the current entity state, serialized on the loop
// goroutine so no reader ever sees a half-applied tick.
func (g *Game) StateJSON() []byte {
	reply := make(chan []byte, 1)
	g.stateReq <- reply
	return <-reply
}

// Run drives the tick loop until Stop is called. Call it on its own
// goroutine; everything inside runs single-threaded.
func (g *Game) Run() {
	defer close(g.done)

	interval := time.Second / time.Duration(g.cfg.Terrain.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var tick uint64
	for {
		select {
		case <-g.stop:
			return

		case <-ticker.C:
			tick++
			g.terrain.Update(g.world.ViewerPosition())
			if tick%statsEvery == 0 {
				g.log.Debug("terrain stats",
					zap.Uint64("tick", tick),
					zap.Int("visible_tiles", g.terrain.ActiveLeaves()),
					zap.Int("tiles_constructed", g.terrain.Pool().Constructed()),
					zap.Int("tiles_idle", g.terrain.Pool().IdleCount()),
					zap.Int("entities", g.world.Len()))
			}

		case ev := <-g.events:
			g.apply(ev)

		case req := <-g.joins:
			id := g.world.SpawnPlayer(req.name)
			g.log.Info("player joined", zap.Int("id", id), zap.String("name", req.name))
			req.reply <- id

		case id := <-g.leaves:
			g.world.DeleteEntity(id)
			g.log.Info("player left", zap.Int("id", id))

		case reply := <-g.stateReq:
			b, err := g.world.StateJSON()
			if err != nil {
				g.log.Error("state snapshot failed", zap.Error(err))
			}
			reply <- b
		}
	}
}

// apply handles one client event on the loop goroutine.
func (g *Game) apply(ev Event) {
	switch ev.EventType {
	case EventMove:
		pos, ok := ev.position()
		if !ok {
			g.log.Warn("move event without position", zap.Int("source", ev.SourceID))
			return
		}
		if !g.world.MoveEntity(ev.SourceID, pos) {
			g.log.Warn("move for unknown entity", zap.Int("source", ev.SourceID))
		}

	case EventRequestState:
		// State flows back through StateJSON; nothing to mutate here.

	default:
		g.log.Debug("ignoring unknown event", zap.String("type", ev.EventType))
	}
}

// Stop halts the loop and waits for it to finish. Safe to call twice.
func (g *Game) Stop() {
	g.stopOnce.Do(func() { close(g.stop) })
	<-g.done
}
