package action

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stride-works/kinetic/char"
	"github.com/stride-works/kinetic/game"
	"github.com/stride-works/kinetic/settings"
	"github.com/stride-works/kinetic/world"
)

// dashProbeMargin lifts the collision probe origin off the body's center.
const dashProbeMargin = float32(0.1)

// JumpDash holds a fixed forward speed for a duration, ending early on a
// collision. It is the airborne fallback when no homing target is in range.
type JumpDash struct {
	body   *char.Body
	source world.Source
	conf   settings.Actions

	dir    mgl32.Vec3
	timer  float32
	active bool
}

// NewJumpDash creates the dash move probing the given collision source.
func NewJumpDash(body *char.Body, source world.Source, conf settings.Actions) *JumpDash {
	return &JumpDash{body: body, source: source, conf: conf}
}

func (d *JumpDash) Slot() Slot        { return SlotJump }
func (d *JumpDash) HoldRelease() bool { return false }

func (d *JumpDash) IsValid(p Phase) bool {
	return p == PhaseEnter && !d.body.Grounded() && !d.body.Locked()
}

func (d *JumpDash) Begin(Phase) {
	dir, ok := game.SafeNormalize(game.ProjectOnPlane(d.body.FacingForward(), game.WorldUp()))
	if !ok {
		dir = d.body.FacingForward()
	}
	d.dir = dir
	d.timer = 0
	d.active = true
	d.body.Lock()
}

func (d *JumpDash) Tick(dt float32) bool {
	b := d.body
	if !d.active {
		return true
	}
	if b.BouncePinned() {
		return d.finish()
	}

	d.timer += dt
	if d.timer >= d.conf.DashDuration {
		return d.finish()
	}

	travel := d.conf.DashSpeed*dt + dashProbeMargin
	if _, ok := d.source.Raycast(b.Pos(), d.dir, travel); ok {
		return d.finish()
	}

	b.SetVelocity(d.dir.Mul(d.conf.DashSpeed))
	return false
}

func (d *JumpDash) finish() bool {
	d.active = false
	d.body.Unlock()
	return true
}
