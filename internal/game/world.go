// Package game runs the planet simulation: an entity world fed by relay
// events and the per-tick terrain traversal. All world mutation happens on
// the game loop goroutine; other goroutines talk to it through channels.
package game

import (
	"encoding/json"
	"fmt"

	"github.com/Faultbox/planetfall/pkg/math"
)

// Entity is one object in the world: players, items, props.
type Entity struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Location math.Vec3 `json:"location"`
}

// World holds all entities by ID.
type World struct {
	ents     map[int]*Entity
	nextID   int
	viewerID int
	spawn    math.Vec3
}

// NewWorld creates an empty world. spawn is where new players appear and
// the terrain viewer position while nobody is connected.
func NewWorld(spawn math.Vec3) *World {
	return &World{
		ents:   map[int]*Entity{},
		nextID: 1,
		spawn:  spawn,
	}
}

// AddEntity inserts e under a fresh ID and returns it.
func (w *World) AddEntity(e *Entity) int {
	id := w.nextID
	w.nextID++
	e.ID = id
	w.ents[id] = e
	return id
}

// DeleteEntity removes the entity if present.
func (w *World) DeleteEntity(id int) {
	delete(w.ents, id)
	if id == w.viewerID {
		w.viewerID = 0
	}
}

// MoveEntity updates an entity's location, reporting whether it exists.
func (w *World) MoveEntity(id int, loc math.Vec3) bool {
	e, ok := w.ents[id]
	if !ok {
		return false
	}
	e.Location = loc
	return true
}

// Entity returns the entity with the given ID, or nil.
func (w *World) Entity(id int) *Entity {
	return w.ents[id]
}

// Len returns the entity count.
func (w *World) Len() int {
	return len(w.ents)
}

// SpawnPlayer creates a player entity at the spawn point. The first player
// becomes the terrain viewer.
func (w *World) SpawnPlayer(name string) int {
	id := w.AddEntity(&Entity{
		Name:     name,
		Type:     "player",
		Location: w.spawn,
	})
	if w.viewerID == 0 {
		w.viewerID = id
	}
	return id
}

// ViewerPosition returns the world position the terrain should refine
// around: the viewer player if one is connected, else the spawn point.
func (w *World) ViewerPosition() math.Vec3 {
	if e, ok := w.ents[w.viewerID]; ok {
		return e.Location
	}
	return w.spawn
}

// StateJSON serializes all entities for broadcast to clients.
func (w *World) StateJSON() ([]byte, error) {
	b, err := json.Marshal(w.ents)
	if err != nil {
		return nil, fmt.Errorf("marshaling world state: %w", err)
	}
	return b, nil
}
