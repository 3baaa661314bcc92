package action

import "github.com/stride-works/kinetic/rail"

// RailBoost is an instantaneous speed kick while grinding, delegating to the
// rail rider. Absent or idle riders degrade the move to a no-op.
type RailBoost struct {
	rider *rail.Rider
}

// NewRailBoost creates the rail-boost move. rider may be nil.
func NewRailBoost(rider *rail.Rider) *RailBoost {
	return &RailBoost{rider: rider}
}

func (r *RailBoost) Slot() Slot        { return SlotRail }
func (r *RailBoost) HoldRelease() bool { return false }

func (r *RailBoost) IsValid(p Phase) bool {
	return p == PhaseEnter && r.rider != nil && r.rider.Active()
}

func (r *RailBoost) Begin(Phase) {}

func (r *RailBoost) Tick(float32) bool {
	if r.rider != nil {
		r.rider.Boost()
	}
	return true
}

// RailSwitch flips the facing direction on the rail without changing the
// direction of travel.
type RailSwitch struct {
	rider *rail.Rider
}

// NewRailSwitch creates the rail-switch move. rider may be nil.
func NewRailSwitch(rider *rail.Rider) *RailSwitch {
	return &RailSwitch{rider: rider}
}

func (r *RailSwitch) Slot() Slot        { return SlotSpecial }
func (r *RailSwitch) HoldRelease() bool { return false }

func (r *RailSwitch) IsValid(p Phase) bool {
	return p == PhaseEnter && r.rider != nil && r.rider.Active()
}

func (r *RailSwitch) Begin(Phase) {}

func (r *RailSwitch) Tick(float32) bool {
	if r.rider != nil {
		r.rider.SwitchFacing()
	}
	return true
}
