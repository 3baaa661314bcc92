package action

import (
	"github.com/stride-works/kinetic/char"
	"github.com/stride-works/kinetic/rail"
)

// Jump forwards jump input edges to the body. Pressing while grinding
// force-detaches the rail first so the launch happens along the rail's up.
// Registered as hold-release so the variable-height release clamp is
// delivered even while another action keeps the dispatcher busy.
type Jump struct {
	body  *char.Body
	rider *rail.Rider

	phase Phase
}

// NewJump creates the jump move. rider may be nil when no rail grinder is
// present; the rail branch then degrades to a plain jump.
func NewJump(body *char.Body, rider *rail.Rider) *Jump {
	return &Jump{body: body, rider: rider}
}

func (j *Jump) Slot() Slot        { return SlotJump }
func (j *Jump) HoldRelease() bool { return true }

func (j *Jump) IsValid(p Phase) bool {
	if p == PhaseExit {
		// The release clamp must always reach the body for variable height.
		return true
	}
	return j.body.Grounded() && (!j.body.Locked() || j.riding())
}

func (j *Jump) Begin(p Phase) {
	j.phase = p
	if p == PhaseExit {
		j.release()
	}
}

func (j *Jump) Tick(float32) bool {
	if j.phase == PhaseExit {
		return true
	}

	b := j.body
	if j.riding() {
		// Rail detach keeps the lock and the rail-up ground normal so the
		// launch leaves the rail cleanly.
		j.rider.DetachForJump()
		b.SetJumpPressed(true)
		b.Unlock()
		return true
	}

	b.Lock()
	b.SetJumpPressed(true)
	b.Unlock()
	return true
}

// release delivers the variable-height clamp. Runs from Begin so a release
// edge arriving while another routine keeps the dispatcher busy still reaches
// the body. A body locked by another holder owns its own velocity; the clamp
// is moot there and skipped.
func (j *Jump) release() {
	b := j.body
	if b.Locked() {
		return
	}
	b.Lock()
	b.SetJumpPressed(false)
	b.Unlock()
}

func (j *Jump) riding() bool {
	return j.rider != nil && j.rider.Active()
}
