package game

import (
	"encoding/json"
	"fmt"

	"github.com/Faultbox/planetfall/pkg/math"
)

// Event types accepted from clients. Chat events are fanned back out by
// the relay and never reach the world.
const (
	EventMove         = "Move"
	EventRequestState = "RequestGameState"
	EventChat         = "Chat"
)

// Event is one client-originated game message. SourceID is stamped
// server-side from the sending client's player, never trusted from the wire.
type Event struct {
	EventType string    `json:"event_type"`
	SourceID  int       `json:"source_id"`
	TargetID  int       `json:"target_id"`
	Position  []float64 `json:"position"`
	Text      string    `json:"text,omitempty"`
}

// ParseEvent decodes a client JSON blob into an Event bound to playerID.
func ParseEvent(blob []byte, playerID int) (Event, error) {
	var ev Event
	if !json.Valid(blob) {
		return ev, fmt.Errorf("invalid json")
	}
	if err := json.Unmarshal(blob, &ev); err != nil {
		return ev, fmt.Errorf("parsing event: %w", err)
	}
	ev.SourceID = playerID
	return ev, nil
}

// position converts the wire coordinate triple, tolerating short slices.
func (ev Event) position() (math.Vec3, bool) {
	if len(ev.Position) != 3 {
		return math.Vec3{}, false
	}
	return math.Vec3{X: ev.Position[0], Y: ev.Position[1], Z: ev.Position[2]}, true
}
