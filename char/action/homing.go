package action

import (
	"github.com/stride-works/kinetic/char"
	"github.com/stride-works/kinetic/game"
	"github.com/stride-works/kinetic/settings"
)

// homingTurnRate is how hard the attack can bend toward a moving target, in
// radians per second.
const homingTurnRate = float32(18)

// HomingAttack steers the airborne body straight at the best-scoring target
// until it connects or a give-up timer elapses.
type HomingAttack struct {
	body    *char.Body
	targets *TargetRegistry
	conf    settings.Actions

	target HomingTarget
	timer  float32
	active bool
}

// NewHomingAttack creates the homing move over the given target registry.
func NewHomingAttack(body *char.Body, targets *TargetRegistry, conf settings.Actions) *HomingAttack {
	return &HomingAttack{body: body, targets: targets, conf: conf}
}

func (h *HomingAttack) Slot() Slot        { return SlotJump }
func (h *HomingAttack) HoldRelease() bool { return false }

func (h *HomingAttack) IsValid(p Phase) bool {
	if p != PhaseEnter || h.body.Grounded() || h.body.Locked() || h.targets == nil {
		return false
	}
	_, ok := h.targets.Best(h.body.Pos(), h.body.FacingForward(), h.conf.HomingRange)
	return ok
}

func (h *HomingAttack) Begin(Phase) {
	target, ok := h.targets.Best(h.body.Pos(), h.body.FacingForward(), h.conf.HomingRange)
	if !ok {
		return
	}
	h.target = target
	h.timer = 0
	h.active = true
	h.body.Lock()
}

func (h *HomingAttack) Tick(dt float32) bool {
	b := h.body
	if !h.active {
		return true
	}
	if b.BouncePinned() {
		return h.finish()
	}

	h.timer += dt
	to := TargetLocation(h.target, b.Pos()).Sub(b.Pos())
	if to.Len() <= h.conf.HomingHitRadius || h.timer >= h.conf.HomingGiveUp {
		return h.finish()
	}
	dir, ok := game.SafeNormalize(to)
	if !ok {
		return h.finish()
	}
	b.SetVelocity(dir.Mul(h.conf.HomingSpeed))
	b.RotateTowardsDirection(dir, homingTurnRate*dt)
	return false
}

func (h *HomingAttack) finish() bool {
	h.active = false
	h.target = nil
	h.body.Unlock()
	return true
}
