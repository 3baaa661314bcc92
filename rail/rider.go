package rail

import (
	"github.com/chewxy/math32"

	"github.com/stride-works/kinetic/char"
	"github.com/stride-works/kinetic/game"
	"github.com/stride-works/kinetic/settings"
)

// attachSeedEpsilon is the smallest seed magnitude allowed to decide the
// grind direction on its own.
const attachSeedEpsilon = float32(1e-3)

// Rider grinds a body along a track. While attached it holds the body lock
// and is the sole writer of the body: the locomotion solver is fully
// substituted for the duration of the grind.
type Rider struct {
	body *char.Body
	conf settings.Rail

	track *Track
	// speed is signed along the local tangent; sign is the facing direction
	// on the rail and stays ±1 for the whole grind.
	speed float32
	sign  float32

	refractory float32
}

// NewRider creates a rider for the given body.
func NewRider(body *char.Body, conf settings.Rail) *Rider {
	return &Rider{body: body, conf: conf}
}

// Active reports whether the rider is currently attached to a track.
func (r *Rider) Active() bool { return r.track != nil }

// Speed returns the signed rail speed.
func (r *Rider) Speed() float32 { return r.speed }

// FacingSign returns the facing direction along the rail, ±1 while attached.
func (r *Rider) FacingSign() float32 { return r.sign }

// TryAttach looks for a registered track within attach range and starts a
// grind on it. Attachment is suppressed while either the rider or the body is
// in a post-detach refractory window.
func (r *Rider) TryAttach(reg *Registry) bool {
	if r.Active() || r.refractory > 0 || r.body.Refractory() > 0 {
		return false
	}
	t, _, ok := reg.Closest(r.body.Pos(), r.conf.AttachDistance)
	if !ok {
		return false
	}
	return r.Attach(t) == nil
}

// Attach locks the body and starts grinding t. The signed rail speed is
// seeded from the current velocity along the contact tangent plus an initial
// boost along the body's facing.
func (r *Rider) Attach(t *Track) error {
	if r.Active() {
		return nil
	}
	point, orient, err := t.ClosestPoint(r.body.Pos())
	if err != nil {
		return err
	}
	tangent := game.Forward(orient)

	velDot := r.body.Vel().Dot(tangent)
	faceDot := r.body.FacingForward().Dot(tangent)
	seed := velDot + faceDot*r.conf.InitialBoost

	// The tangent frame carries slerp noise; a near-zero seed must not let
	// that noise pick the grind direction.
	r.sign = 1
	switch {
	case math32.Abs(seed) > attachSeedEpsilon:
		if seed < 0 {
			r.sign = -1
		}
	case faceDot < -game.Epsilon:
		r.sign = -1
	}
	if math32.Abs(seed) < r.conf.MinSpeed {
		seed = r.sign * r.conf.MinSpeed
	}
	r.speed = seed
	r.track = t

	b := r.body
	b.Lock()
	b.SetPosition(point)
	b.SetVelocity(tangent.Mul(r.speed))
	b.ForceUpAlignment(game.Up(orient))
	b.ForceGrounded(true)
	b.ForceRolling(false)
	return nil
}

// Tick advances the grind by one fixed step. Inactive riders only cool their
// re-attach refractory down.
func (r *Rider) Tick(dt float32) {
	if r.refractory > 0 {
		r.refractory -= dt
		if r.refractory < 0 {
			r.refractory = 0
		}
	}
	if !r.Active() {
		return
	}

	point, orient, err := r.track.ClosestPoint(r.body.Pos())
	if err != nil {
		r.Detach()
		return
	}
	tangent := game.Forward(orient)

	// Gravity along the rail is asymmetric: fighting uphill decelerates
	// gently, running downhill accelerates hard.
	if g := -tangent.Y(); math32.Abs(g) > game.Epsilon {
		if r.speed*g >= 0 {
			r.speed += g * r.conf.DownhillAccel * dt
		} else {
			r.speed += g * r.conf.UphillDecel * dt
		}
	}
	if math32.Abs(r.speed) > r.conf.MaxSpeed {
		r.speed = math32.Copysign(r.conf.MaxSpeed, r.speed)
	}

	b := r.body
	b.SetPosition(point)
	b.SetVelocity(tangent.Mul(r.speed))
	b.ForceUpAlignment(game.Up(orient))
	b.RotateTowardsDirection(tangent.Mul(r.sign), r.conf.TurnRate*dt)
	b.ForceGrounded(true)
	b.ForceRolling(false)

	// On an open track, run off an endpoint while still moving toward it.
	if start, end, ok := r.track.Ends(); ok {
		if r.speed > 0 && point.Sub(end).Len() < r.conf.EndDistance {
			r.Detach()
			return
		}
		if r.speed < 0 && point.Sub(start).Len() < r.conf.EndDistance {
			r.Detach()
			return
		}
	}
}

// Detach ends the grind: the body goes airborne, the lock is released, and a
// refractory window suppresses immediately re-grinding the same rail from
// residual proximity.
func (r *Rider) Detach() {
	if !r.Active() {
		return
	}
	r.track = nil
	r.refractory = game.DetachRefractoryTime
	r.body.ForceGrounded(false)
	r.body.ForceRolling(false)
	r.body.Unlock()
}

// DetachForJump ends the grind but keeps the body locked and grounded so the
// caller can immediately launch a jump along the rail's up axis.
func (r *Rider) DetachForJump() {
	if !r.Active() {
		return
	}
	r.track = nil
	r.refractory = game.DetachRefractoryTime
}

// Boost adds rail speed in the facing direction, clamped to the rail cap.
func (r *Rider) Boost() {
	if !r.Active() {
		return
	}
	r.speed += r.sign * r.conf.BoostAmount
	if math32.Abs(r.speed) > r.conf.MaxSpeed {
		r.speed = math32.Copysign(r.conf.MaxSpeed, r.speed)
	}
}

// SwitchFacing flips the facing direction on the rail without changing the
// direction of travel.
func (r *Rider) SwitchFacing() {
	if !r.Active() {
		return
	}
	r.sign = -r.sign
}
