package action

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stride-works/kinetic/char"
	"github.com/stride-works/kinetic/settings"
)

// spinAimRate is the turn rate, in radians per second, at which a charging
// spin tracks the stick.
const spinAimRate = float32(6)

// SpinCharge is the hold-release roll move: holding the channel charges from
// 0 to 1 over a configured time while the body stands locked in place;
// releasing applies a boost proportional to the charge and drops the body
// into the rolling sub-state when grounded.
type SpinCharge struct {
	body *char.Body
	conf settings.Actions

	charge   float32
	released bool
	active   bool
}

// NewSpinCharge creates the spin-charge move.
func NewSpinCharge(body *char.Body, conf settings.Actions) *SpinCharge {
	return &SpinCharge{body: body, conf: conf}
}

func (s *SpinCharge) Slot() Slot        { return SlotAction }
func (s *SpinCharge) HoldRelease() bool { return true }

func (s *SpinCharge) IsValid(p Phase) bool {
	if p == PhaseExit {
		return s.active
	}
	return s.body.Grounded() && !s.body.Locked()
}

func (s *SpinCharge) Begin(p Phase) {
	if p == PhaseExit {
		s.released = true
		return
	}
	s.charge = 0
	s.released = false
	s.active = true
	s.body.Lock()
	s.body.SetVelocity(mgl32.Vec3{})
}

func (s *SpinCharge) Tick(dt float32) bool {
	if !s.active {
		return true
	}
	if !s.released {
		if s.conf.SpinChargeTime > 0 {
			s.charge += dt / s.conf.SpinChargeTime
			if s.charge > 1 {
				s.charge = 1
			}
		}
		// While charging the body stays planted; turning toward the stick
		// lets the player aim the release.
		s.body.SetVelocity(mgl32.Vec3{})
		s.body.RotateTowardsInput(spinAimRate * dt)
		return false
	}

	if s.body.Grounded() {
		s.body.ForceRolling(true)
	}
	s.body.Boost(s.charge * s.conf.SpinBoostMax)
	s.body.Unlock()
	s.active = false
	return true
}

// Charge returns the current charge fraction, for presentation.
func (s *SpinCharge) Charge() float32 { return s.charge }
