package terrain

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/planetfall/pkg/math"
)

// HeightField supplies surface elevation for a direction on the unit sphere.
// Implementations must be deterministic and side-effect free: the quadtree
// calls Height synchronously from its tick traversal and caches nothing.
// maxLOD bounds how much detail the sample needs; coarse tiles pass small
// values so cheap implementations can skip fine octaves.
type HeightField interface {
	Height(dir math.Vec3, maxLOD uint32) float64
}

// probeDirection is the fixed direction used to verify a height field is
// ready before first use.
var probeDirection = math.Vec3{X: 0, Y: 0, Z: 1}

// probeHeightField performs the one-time readiness check. A non-finite
// sample is a fatal initialization error, not a per-query condition.
func probeHeightField(hf HeightField) error {
	if hf == nil {
		return fmt.Errorf("%w: nil height field", ErrArgument)
	}
	h := hf.Height(probeDirection, 1)
	if gomath.IsNaN(h) || gomath.IsInf(h, 0) {
		return fmt.Errorf("height field probe returned %v", h)
	}
	return nil
}
