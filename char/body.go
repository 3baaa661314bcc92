package char

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stride-works/kinetic/game"
	"github.com/stride-works/kinetic/kerror"
	"github.com/stride-works/kinetic/settings"
)

// ErrNotLocked is returned by every lock-gated capability when no lock is
// held. The call is a no-op; state stays untouched.
var ErrNotLocked = kerror.New("kinematic body: capability used without holding the lock")

// Body is the single authoritative kinematic state record of a character. The
// solver mutates it while unlocked; a lock-holding action is the only other
// writer, through the capability surface below. Reads are free for anyone.
type Body struct {
	pos, vel mgl32.Vec3

	orient mgl32.Quat
	// facing is the intended heading, smoothed independently of orient.
	// Presentation interpolates toward facing, not orient.
	facing mgl32.Quat

	groundNormal mgl32.Vec3

	grounded, rolling bool
	locked, jumping   bool
	braking           bool

	airborneTime float32
	refractory   float32

	pinForce     mgl32.Vec3
	pinRemaining float32

	landings uint64

	input  InputState
	conf   settings.Movement
	events *Events
}

// NewBody creates a body at the given position with world-up orientation.
func NewBody(pos mgl32.Vec3, conf settings.Movement, events *Events) *Body {
	if events == nil {
		events = NewEvents()
	}
	return &Body{
		pos:          pos,
		orient:       mgl32.QuatIdent(),
		facing:       mgl32.QuatIdent(),
		groundNormal: game.WorldUp(),
		conf:         conf,
		events:       events,
	}
}

// Pos returns the position of the body.
func (b *Body) Pos() mgl32.Vec3 { return b.pos }

// Vel returns the velocity of the body.
func (b *Body) Vel() mgl32.Vec3 { return b.vel }

// Orientation returns the collider orientation of the body.
func (b *Body) Orientation() mgl32.Quat { return b.orient }

// Facing returns the smoothed heading quaternion of the body.
func (b *Body) Facing() mgl32.Quat { return b.facing }

// FacingForward returns the world-space forward axis of the heading.
func (b *Body) FacingForward() mgl32.Vec3 { return game.Forward(b.facing) }

// Up returns the world-space up axis of the collider orientation.
func (b *Body) Up() mgl32.Vec3 { return game.Up(b.orient) }

// GroundNormal returns the normal of the last detected ground surface.
func (b *Body) GroundNormal() mgl32.Vec3 { return b.groundNormal }

// Grounded returns true if the body rests on a surface this tick.
func (b *Body) Grounded() bool { return b.grounded }

// Rolling returns true while the body is in the rolling locomotion sub-state.
func (b *Body) Rolling() bool { return b.rolling }

// Locked returns true while a lock holder owns the body.
func (b *Body) Locked() bool { return b.locked }

// Jumping returns true between a jump launch and its apex or release.
func (b *Body) Jumping() bool { return b.jumping }

// AirborneTime returns the seconds spent airborne since last grounded.
func (b *Body) AirborneTime() float32 { return b.airborneTime }

// Refractory returns the remaining post-detach cooldown during which
// re-grounding and rail re-attachment are suppressed.
func (b *Body) Refractory() float32 { return b.refractory }

// Landings counts normal grounded landings; consumers compare values to learn
// whether a landing happened since they last looked.
func (b *Body) Landings() uint64 { return b.landings }

// Input returns the move input latched for the current tick.
func (b *Body) Input() InputState { return b.input }

// SetInput latches the move input consumed at the next tick.
func (b *Body) SetInput(in InputState) { b.input = in }

// Events returns the notification hub of the body.
func (b *Body) Events() *Events { return b.events }

// SpeedCap returns the clamp applied to the body's speed in its current
// locomotion sub-state.
func (b *Body) SpeedCap() float32 {
	if b.rolling {
		return b.conf.MaxRollingSpeed
	}
	return b.conf.MaxSpeed
}

// Lock acquires exclusive write access for an action. The solver skips the
// body entirely while the lock is held.
func (b *Body) Lock() { b.locked = true }

// Unlock releases exclusive write access.
func (b *Body) Unlock() { b.locked = false }

// SetPosition moves the body. Lock-gated.
func (b *Body) SetPosition(pos mgl32.Vec3) error {
	if !b.locked {
		return ErrNotLocked
	}
	b.pos = pos
	return nil
}

// SetVelocity replaces the body velocity. Lock-gated.
func (b *Body) SetVelocity(vel mgl32.Vec3) error {
	if !b.locked {
		return ErrNotLocked
	}
	b.vel = vel
	return nil
}

// ForceUpAlignment rotates the collider so its up axis matches normal, and
// records normal as the ground normal. Lock-gated.
func (b *Body) ForceUpAlignment(normal mgl32.Vec3) error {
	if !b.locked {
		return ErrNotLocked
	}
	n, ok := game.SafeNormalize(normal)
	if !ok {
		return nil
	}
	b.orient = game.AlignUp(b.orient, b.Up(), n)
	b.groundNormal = n
	return nil
}

// ForceGrounded overrides the grounded flag. Lock-gated.
func (b *Body) ForceGrounded(grounded bool) error {
	if !b.locked {
		return ErrNotLocked
	}
	b.grounded = grounded
	if grounded {
		b.airborneTime = 0
	}
	return nil
}

// ForceRolling overrides the rolling sub-state. Lock-gated; this is the only
// path that may set rolling while airborne.
func (b *Body) ForceRolling(rolling bool) error {
	if !b.locked {
		return ErrNotLocked
	}
	b.rolling = rolling
	return nil
}

// RotateTowardsInput turns the heading toward the latched input direction by
// at most rate radians. Lock-gated; a dead stick is a no-op.
func (b *Body) RotateTowardsInput(rate float32) error {
	if !b.locked {
		return ErrNotLocked
	}
	dir, ok := b.input.Dir()
	if !ok {
		return nil
	}
	b.facing = game.TurnQuatTowards(b.facing, dir, rate)
	return nil
}

// RotateTowardsDirection turns the heading toward dir by at most rate
// radians. Lock-gated.
func (b *Body) RotateTowardsDirection(dir mgl32.Vec3, rate float32) error {
	if !b.locked {
		return ErrNotLocked
	}
	b.facing = game.TurnQuatTowards(b.facing, dir, rate)
	return nil
}

// Boost adds speed along the heading, up to the current speed cap.
// Lock-gated.
func (b *Body) Boost(amount float32) error {
	if !b.locked {
		return ErrNotLocked
	}
	v := b.vel.Add(b.FacingForward().Mul(amount))
	if cap := b.SpeedCap(); v.Len() > cap {
		if dir, ok := game.SafeNormalize(v); ok {
			v = dir.Mul(cap)
		}
	}
	b.vel = v
	return nil
}

// SetJumpPressed feeds a jump input edge. A press while grounded launches the
// body along the ground normal, detaches it and notifies listeners. A release
// while still ascending clamps vertical speed for variable jump height.
// Lock-gated.
func (b *Body) SetJumpPressed(pressed bool) error {
	if !b.locked {
		return ErrNotLocked
	}
	if pressed {
		if !b.grounded {
			return nil
		}
		n := b.groundNormal
		b.vel = game.ProjectOnPlane(b.vel, n).Add(n.Mul(b.conf.JumpSpeed))
		b.grounded = false
		b.rolling = false
		b.jumping = true
		b.airborneTime = 0
		b.refractory = game.DetachRefractoryTime
		b.events.emitJump()
		return nil
	}
	if b.jumping {
		up := game.WorldUp()
		if rise := b.vel.Dot(up); rise > b.conf.JumpCutSpeed {
			b.vel = game.ProjectOnPlane(b.vel, up).Add(up.Mul(b.conf.JumpCutSpeed))
		}
		b.jumping = false
	}
	return nil
}

// Bounce replaces the velocity with force and detaches the body. A positive
// duration pins the velocity to force for that long, raising a bounce
// notification each pinned tick. Lock-gated.
func (b *Body) Bounce(force mgl32.Vec3, duration float32) error {
	if !b.locked {
		return ErrNotLocked
	}
	b.vel = force
	b.grounded = false
	b.rolling = false
	b.refractory = game.DetachRefractoryTime
	if duration > 0 {
		b.pinForce = force
		b.pinRemaining = duration
	} else {
		b.events.emitBounce()
	}
	return nil
}

// BouncePinned returns true while an external bounce force is pinning the
// velocity. Running actions poll this as an abort signal.
func (b *Body) BouncePinned() bool { return b.pinRemaining > 0 }

// Advance runs the per-tick bookkeeping that happens regardless of who owns
// the body: timers, the bounce pin, and position integration while a lock
// holder is steering velocity directly.
func (b *Body) Advance(dt float32) {
	if b.refractory > 0 {
		b.refractory -= dt
		if b.refractory < 0 {
			b.refractory = 0
		}
	}
	if b.grounded {
		b.airborneTime = 0
	} else {
		b.airborneTime += dt
	}
	if b.pinRemaining > 0 {
		b.vel = b.pinForce
		b.pinRemaining -= dt
		b.events.emitBounce()
	}
	if b.locked {
		b.pos = b.pos.Add(b.vel.Mul(dt))
	}
}

// land records a grounded landing after airborne travel.
func (b *Body) land() {
	b.grounded = true
	b.jumping = false
	b.airborneTime = 0
	b.landings++
}

// detach drops ground contact and starts the post-detach refractory window.
func (b *Body) detach() {
	b.grounded = false
	b.rolling = false
	b.refractory = game.DetachRefractoryTime
}

// clampSpeed enforces the speed cap of the current locomotion sub-state.
func (b *Body) clampSpeed() {
	cap := b.SpeedCap()
	if b.vel.Len() <= cap {
		return
	}
	if dir, ok := game.SafeNormalize(b.vel); ok {
		b.vel = dir.Mul(cap)
	}
}
