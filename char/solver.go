package char

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stride-works/kinetic/assert"
	"github.com/stride-works/kinetic/game"
	"github.com/stride-works/kinetic/settings"
	"github.com/stride-works/kinetic/world"
)

// MovementSolver turns latched input, current velocity and the sensor's
// ground state into the body's next velocity, position and orientation. It
// never runs while a lock holder owns the body.
type MovementSolver struct {
	source world.Source
	conf   settings.Movement
}

// NewMovementSolver creates a solver sweeping against the given collision
// source for ground-stick.
func NewMovementSolver(source world.Source, conf settings.Movement) *MovementSolver {
	return &MovementSolver{source: source, conf: conf}
}

// Step advances the body by one fixed tick. The lock check happens before
// either branch; a held lock means an action owns this tick's write.
func (s *MovementSolver) Step(b *Body, gs GroundState, dt float32) {
	assert.IsTrue(b != nil, "body should be non-nil for simulation")
	if b.Locked() {
		return
	}
	if gs.Grounded {
		s.stepGround(b, gs, dt)
	} else {
		s.stepAir(b, gs, dt)
	}
}

func (s *MovementSolver) stepGround(b *Body, gs GroundState, dt float32) {
	n := gs.Normal
	fall := math32.Max(0, -b.vel.Y())

	landed := !b.grounded
	if landed {
		b.land()
		// Landing conversion: fold the into-plane component back into the
		// plane as forward momentum.
		perp := math32.Abs(b.vel.Dot(n))
		lat := game.ProjectOnPlane(b.vel, n)
		if dir, ok := game.SafeNormalize(lat); ok {
			lat = lat.Add(dir.Mul(perp * s.conf.LandingConversion))
		}
		b.vel = lat
	}
	b.groundNormal = n

	lat := game.ProjectOnPlane(b.vel, n)
	speed := lat.Len()

	inDir, hasInput := b.input.Dir()
	var inTan mgl32.Vec3
	if hasInput {
		inTan, hasInput = game.SafeNormalize(game.ProjectOnPlane(inDir, n))
	}

	braking := false
	switch {
	case hasInput && speed < s.conf.MinMoveSpeed:
		// Instant start from (near) standstill, no rotation smoothing.
		lat = lat.Add(inTan.Mul(s.conf.Acceleration * dt))
	case hasInput && game.AngleBetween(lat, inTan) > game.BrakeAngle && !b.rolling:
		braking = true
		lat = lat.Mul(math32.Max(0, 1-s.conf.BrakeFriction*dt))
	case hasInput:
		if dir, ok := game.SafeNormalize(lat); ok {
			rate := s.conf.RotationRate.Sample(speed/s.conf.MaxSpeed) * dt
			newDir := game.RotateTowards(dir, inTan, rate)
			if !b.rolling {
				speed = game.MoveTowards(speed, s.conf.MaxSpeed*b.input.Magnitude(), s.conf.Acceleration*dt)
			}
			lat = newDir.Mul(speed)
		}
	default:
		friction := s.conf.GroundFriction
		if b.rolling {
			friction = s.conf.RollingFriction
		}
		if dir, ok := game.SafeNormalize(lat); ok {
			lat = dir.Mul(game.MoveTowards(speed, 0, friction*dt))
		}
	}
	s.setBraking(b, braking)

	switch gs.Slope {
	case SlopeSteep:
		if down, ok := game.SafeNormalize(game.ProjectOnPlane(game.WorldUp().Mul(-1), n)); ok {
			if fall > 0 {
				lat = lat.Add(down.Mul(fall * s.conf.SlopeBoost * dt))
			}
			if !hasInput {
				lat = lat.Add(down.Mul(s.conf.SlidePush * dt))
			}
		}
	case SlopeCeiling:
		if lat.Len() < s.conf.SlopeSpeedThreshold {
			// Too slow to hold an inverted surface: eject away from it.
			b.detach()
			b.vel = lat.Add(n.Mul(s.conf.DetachNudge))
			b.clampSpeed()
			b.pos = b.pos.Add(b.vel.Mul(dt))
			return
		}
	}

	if b.rolling && lat.Len() < s.conf.MinMoveSpeed {
		b.rolling = false
	}

	b.vel = lat
	b.clampSpeed()
	b.pos = b.pos.Add(b.vel.Mul(dt))

	// The sensor grounds out to ProbeDistance, farther than the running stick
	// sweep reaches. The landing tick must cover the full sensor range or a
	// body grounded in the gap would hang there with its fall converted away.
	reach := s.conf.StickDistance
	if landed {
		reach = math32.Max(reach, s.conf.ProbeDistance)
	}
	s.groundStick(b, n, reach)

	b.orient = game.AlignUp(b.orient, b.Up(), n)
	s.smoothFacing(b, lat, dt)
}

func (s *MovementSolver) stepAir(b *Body, gs GroundState, dt float32) {
	up := game.WorldUp()
	hor := game.ProjectOnPlane(b.vel, up)
	vert := b.vel.Y()

	inDir, hasInput := b.input.Dir()
	switch {
	case hasInput && hor.Len() < s.conf.MinMoveSpeed:
		hor = hor.Add(inDir.Mul(s.conf.Acceleration * dt))
	case hasInput:
		if dir, ok := game.SafeNormalize(hor); ok {
			speed := hor.Len()
			rate := s.conf.RotationRate.Sample(speed/s.conf.MaxSpeed) * s.conf.AirRotationMultiplier * dt
			newDir := game.RotateTowards(dir, inDir, rate)
			speed = game.MoveTowards(speed, s.conf.MaxSpeed*b.input.Magnitude(), s.conf.Acceleration*dt)
			hor = newDir.Mul(speed)
		}
	default:
		hor = hor.Mul(math32.Max(0, 1-s.conf.AirDrag*dt))
	}

	vert -= s.conf.Gravity * dt
	if vert < -s.conf.MaxFallSpeed {
		vert = -s.conf.MaxFallSpeed
	}

	b.grounded = false
	b.rolling = false
	b.vel = mgl32.Vec3{hor.X(), vert, hor.Z()}
	s.setBraking(b, false)

	b.pos = b.pos.Add(b.vel.Mul(dt))

	// gs.Normal is the graced last-ground normal for a short window, then
	// world-up; either way realign minimally.
	b.orient = game.AlignUp(b.orient, b.Up(), gs.Normal)
	s.smoothFacing(b, hor, dt)
}

// groundStick sweeps reach below the body and snaps it onto small
// irregularities instead of letting it hop over them.
func (s *MovementSolver) groundStick(b *Body, n mgl32.Vec3, reach float32) {
	up := b.Up()
	origin := b.pos.Add(up.Mul(s.conf.ProbeMargin))
	hit, ok := s.source.Raycast(origin, up.Mul(-1), s.conf.ProbeMargin+reach)
	if !ok {
		return
	}
	if game.AngleBetween(hit.Normal, n) <= game.SlopeAngle {
		b.pos = hit.Pos
	}
}

// smoothFacing eases the heading toward the direction of travel. Runs only
// from the solver, so a lock holder's forced heading is never fought over.
func (s *MovementSolver) smoothFacing(b *Body, travel mgl32.Vec3, dt float32) {
	dir, ok := game.SafeNormalize(travel)
	if !ok {
		return
	}
	b.facing = game.TurnQuatTowards(b.facing, dir, s.conf.FacingRate*dt)
}

func (s *MovementSolver) setBraking(b *Body, braking bool) {
	if braking == b.braking {
		return
	}
	b.braking = braking
	if braking {
		b.events.emitBrakeBegin()
	} else {
		b.events.emitBrakeEnd()
	}
}
