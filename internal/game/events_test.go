package game

import (
	"testing"

	"github.com/Faultbox/planetfall/pkg/math"
)

func TestParseEvent(t *testing.T) {
	blob := []byte(`{"event_type":"Move","source_id":42,"position":[1,2,3]}`)
	ev, err := ParseEvent(blob, 7)
	if err != nil {
		t.Fatalf("ParseEvent() error: %v", err)
	}
	if ev.EventType != EventMove {
		t.Errorf("EventType = %q, want %q", ev.EventType, EventMove)
	}
	// The wire source_id must be overridden with the session's player.
	if ev.SourceID != 7 {
		t.Errorf("SourceID = %d, want 7", ev.SourceID)
	}

	pos, ok := ev.position()
	if !ok {
		t.Fatal("position() = false for 3-element position")
	}
	if want := (math.Vec3{X: 1, Y: 2, Z: 3}); pos != want {
		t.Errorf("position() = %v, want %v", pos, want)
	}
}

func TestParseEventRejectsGarbage(t *testing.T) {
	for _, blob := range []string{"", "{", "not json", `[1,2,3`} {
		if _, err := ParseEvent([]byte(blob), 1); err == nil {
			t.Errorf("ParseEvent(%q) should fail", blob)
		}
	}
}

func TestEventPositionShortSlice(t *testing.T) {
	for _, pos := range [][]float64{nil, {}, {1}, {1, 2}, {1, 2, 3, 4}} {
		ev := Event{EventType: EventMove, Position: pos}
		if _, ok := ev.position(); ok {
			t.Errorf("position() = true for %d-element slice", len(pos))
		}
	}
}
