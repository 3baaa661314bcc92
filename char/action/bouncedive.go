package action

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stride-works/kinetic/char"
	"github.com/stride-works/kinetic/settings"
	"github.com/stride-works/kinetic/world"
)

// diveProbeMargin lifts the collision probe origin off the body's feet.
const diveProbeMargin = float32(0.1)

// BounceDive slams the body straight down and rebounds off whatever it hits.
// Each successive rebound without a normal landing in between grows the
// bounciness factor; a normal grounded landing resets it to baseline.
type BounceDive struct {
	body   *char.Body
	source world.Source
	conf   settings.Actions

	bounciness   float32
	landingsSeen uint64
	active       bool
}

// NewBounceDive creates the bounce move probing the given collision source.
func NewBounceDive(body *char.Body, source world.Source, conf settings.Actions) *BounceDive {
	return &BounceDive{
		body:       body,
		source:     source,
		conf:       conf,
		bounciness: conf.BounceBaseline,
	}
}

func (d *BounceDive) Slot() Slot        { return SlotAction }
func (d *BounceDive) HoldRelease() bool { return false }

func (d *BounceDive) IsValid(p Phase) bool {
	return p == PhaseEnter && !d.body.Grounded() && !d.body.Locked()
}

func (d *BounceDive) Begin(Phase) {
	if d.body.Landings() != d.landingsSeen {
		d.bounciness = d.conf.BounceBaseline
	}
	d.body.Lock()
	d.body.SetVelocity(mgl32.Vec3{0, -d.conf.BounceForce, 0})
	d.body.ForceRolling(true)
	d.active = true
}

func (d *BounceDive) Tick(dt float32) bool {
	b := d.body
	if !d.active {
		return true
	}

	// An unrelated bounce surface pinning the velocity aborts the dive.
	if b.BouncePinned() {
		b.ForceRolling(false)
		b.Unlock()
		d.active = false
		return true
	}

	down := mgl32.Vec3{0, -1, 0}
	travel := diveProbeMargin + d.conf.BounceForce*dt
	origin := b.Pos().Sub(down.Mul(diveProbeMargin))
	if hit, ok := d.source.Raycast(origin, down, travel+diveProbeMargin); ok {
		if d.bounciness += d.conf.BounceGrowth; d.bounciness > d.conf.BounceMax {
			d.bounciness = d.conf.BounceMax
		}
		rebound := hit.Normal.Mul(d.conf.BounceForce * d.conf.BounceFraction * d.bounciness)
		b.SetPosition(hit.Pos)
		b.Bounce(rebound, 0)
		d.landingsSeen = b.Landings()
		b.ForceRolling(false)
		b.Unlock()
		d.active = false
		return true
	}

	b.SetVelocity(mgl32.Vec3{0, -d.conf.BounceForce, 0})
	return false
}

// Bounciness returns the current rebound multiplier, for tests and tuning.
func (d *BounceDive) Bounciness() float32 { return d.bounciness }
