// Package action implements the contextual-move layer: discrete moves that
// temporarily commandeer the kinematic body through its lock protocol, and
// the dispatcher that resolves which move runs on each input edge.
package action

// Phase tells a move whether its input channel was just activated or just
// released.
type Phase uint8

const (
	PhaseEnter Phase = iota
	PhaseExit
)

// Slot identifies one of the boolean input channels moves are bound to.
type Slot uint8

const (
	SlotJump Slot = iota
	SlotAction
	SlotSpecial
	SlotRail

	slotCount
)

// Action is a discrete move. Begin receives the input edge; Tick is then
// stepped once per simulation tick until it reports completion. An action
// that acquires the body lock must release it on every path out of Tick.
type Action interface {
	// Slot is the input channel the action is bound to.
	Slot() Slot
	// HoldRelease marks press-to-release moves, which are guaranteed a
	// matching Exit edge even if their validity has lapsed by then.
	HoldRelease() bool
	// IsValid reports whether the action can start for the given phase.
	IsValid(p Phase) bool
	// Begin receives the resolved input edge.
	Begin(p Phase)
	// Tick advances the move by one fixed step, reporting true when done.
	Tick(dt float32) bool
}
