package char

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stride-works/kinetic/game"
	"github.com/stride-works/kinetic/settings"
	"github.com/stride-works/kinetic/world"
)

// SlopeClass buckets a ground normal by its angle to world-up.
type SlopeClass uint8

const (
	// SlopeFlat is walkable ground below 45 degrees.
	SlopeFlat SlopeClass = iota
	// SlopeSteep is a 45-95 degree surface; slide and downhill forces apply.
	SlopeSteep
	// SlopeCeiling is 95 degrees or steeper; the body detaches unless moving
	// fast enough along the plane.
	SlopeCeiling
)

// GroundState is the per-tick surface classification produced by the sensor.
type GroundState struct {
	Grounded bool
	Normal   mgl32.Vec3
	Slope    SlopeClass
}

// GroundSensor probes the collision source below and ahead of the body each
// tick and classifies what it finds.
type GroundSensor struct {
	source world.Source
	conf   settings.Movement
}

// NewGroundSensor creates a sensor probing the given collision source.
func NewGroundSensor(source world.Source, conf settings.Movement) *GroundSensor {
	return &GroundSensor{source: source, conf: conf}
}

// Probe classifies the surface under the body. The post-detach refractory
// window reports airborne unconditionally so a jump or ejection cannot
// re-snap on the very next tick.
func (s *GroundSensor) Probe(b *Body) GroundState {
	if b.Refractory() > 0 {
		return s.airborne(b)
	}

	up := b.Up()
	origin := b.Pos().Add(up.Mul(s.conf.ProbeMargin))
	if hit, ok := s.source.Raycast(origin, up.Mul(-1), s.conf.ProbeMargin+s.conf.ProbeDistance); ok {
		return classify(hit.Normal)
	}

	// Falling past a ledge: a forward probe can catch a nearby slope that the
	// downward probe slid off of.
	if !b.Grounded() {
		fwd := b.FacingForward()
		if hit, ok := s.source.Raycast(origin, fwd, s.conf.ProbeDistance); ok {
			if game.AngleBetween(hit.Normal, game.WorldUp()) <= game.ReattachAngle {
				return classify(hit.Normal)
			}
		}
	}
	return s.airborne(b)
}

// airborne reports no contact, retaining the last grounded normal for a short
// grace window so small contact losses do not pop the orientation.
func (s *GroundSensor) airborne(b *Body) GroundState {
	normal := game.WorldUp()
	if b.AirborneTime() < game.NormalGraceTime {
		normal = b.GroundNormal()
	}
	return GroundState{Grounded: false, Normal: normal, Slope: SlopeFlat}
}

func classify(normal mgl32.Vec3) GroundState {
	angle := game.AngleBetween(normal, game.WorldUp())
	slope := SlopeFlat
	switch {
	case angle >= game.CeilingAngle:
		slope = SlopeCeiling
	case angle >= game.SlopeAngle:
		slope = SlopeSteep
	}
	return GroundState{Grounded: true, Normal: normal, Slope: slope}
}
