// Package sim wires the character engine together and owns the fixed-step
// tick order: input latch, ground probe, solver or lock holder, action step,
// rail step, body bookkeeping. A separate presentation step smooths the
// visual orientation and never touches authoritative state.
package sim

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"github.com/stride-works/kinetic/assert"
	"github.com/stride-works/kinetic/char"
	"github.com/stride-works/kinetic/char/action"
	"github.com/stride-works/kinetic/rail"
	"github.com/stride-works/kinetic/settings"
	"github.com/stride-works/kinetic/world"
)

// presentSmoothing is the presentation slerp rate toward the heading, per
// second.
const presentSmoothing = float32(15)

// Config carries the collaborators a simulator is built from.
type Config struct {
	Settings settings.Settings
	World    world.Source
	Log      *logrus.Logger

	// Start is the spawn position of the body.
	Start mgl32.Vec3
}

// Simulator owns one character's simulation.
type Simulator struct {
	log *logrus.Logger

	body       *char.Body
	sensor     *char.GroundSensor
	solver     *char.MovementSolver
	dispatcher *action.Dispatcher
	rider      *rail.Rider

	rails   *rail.Registry
	targets *action.TargetRegistry

	move   mgl32.Vec2
	ground char.GroundState

	renderOrient mgl32.Quat
}

// New builds a simulator with the default move set registered.
func New(cfg Config) *Simulator {
	assert.IsTrue(cfg.World != nil, "simulator requires a collision source")
	log := cfg.Log
	if log == nil {
		log = logrus.New()
	}

	events := char.NewEvents()
	body := char.NewBody(cfg.Start, cfg.Settings.Movement, events)
	rider := rail.NewRider(body, cfg.Settings.Rail)
	dispatcher := action.NewDispatcher(log)
	targets := action.NewTargetRegistry()

	s := &Simulator{
		log:          log,
		body:         body,
		sensor:       char.NewGroundSensor(cfg.World, cfg.Settings.Movement),
		solver:       char.NewMovementSolver(cfg.World, cfg.Settings.Movement),
		dispatcher:   dispatcher,
		rider:        rider,
		rails:        rail.NewRegistry(),
		targets:      targets,
		renderOrient: mgl32.QuatIdent(),
	}

	// Registration order doubles as resolution priority within a slot.
	dispatcher.Register(action.NewJump(body, rider))
	dispatcher.Register(action.NewHomingAttack(body, targets, cfg.Settings.Actions))
	dispatcher.Register(action.NewJumpDash(body, cfg.World, cfg.Settings.Actions))
	dispatcher.Register(action.NewSpinCharge(body, cfg.Settings.Actions))
	dispatcher.Register(action.NewBounceDive(body, cfg.World, cfg.Settings.Actions))
	dispatcher.Register(action.NewRailSwitch(rider))
	dispatcher.Register(action.NewRailBoost(rider))
	return s
}

// Body returns the authoritative kinematic state record.
func (s *Simulator) Body() *char.Body { return s.body }

// Events returns the notification hub.
func (s *Simulator) Events() *char.Events { return s.body.Events() }

// Rails returns the track registry grinds attach to.
func (s *Simulator) Rails() *rail.Registry { return s.rails }

// Targets returns the homing-target registry.
func (s *Simulator) Targets() *action.TargetRegistry { return s.targets }

// Rider returns the rail-riding controller.
func (s *Simulator) Rider() *rail.Rider { return s.rider }

// Dispatcher returns the action dispatcher, for registering custom moves.
func (s *Simulator) Dispatcher() *action.Dispatcher { return s.dispatcher }

// Ground returns the ground state produced by the sensor this tick.
func (s *Simulator) Ground() char.GroundState { return s.ground }

// SetMoveInput stores the 2D move axis latched at the next tick.
func (s *Simulator) SetMoveInput(move mgl32.Vec2) { s.move = move }

// Press feeds an activation edge on an input slot.
func (s *Simulator) Press(slot action.Slot) { s.dispatcher.Enqueue(slot, action.PhaseEnter) }

// Release feeds a release edge on an input slot.
func (s *Simulator) Release(slot action.Slot) { s.dispatcher.Enqueue(slot, action.PhaseExit) }

// Tick advances the simulation by one fixed step.
func (s *Simulator) Tick(dt float32) {
	b := s.body
	b.SetInput(char.InputState{Move: s.move})

	// Edges first: an action starting now locks the body and owns this
	// tick's write, before the solver gets a chance.
	s.dispatcher.DispatchEdges()

	s.ground = s.sensor.Probe(b)
	s.solver.Step(b, s.ground, dt)
	s.dispatcher.Step(dt)

	if !b.Grounded() && !s.rider.Active() {
		s.rider.TryAttach(s.rails)
	}
	s.rider.Tick(dt)

	b.Advance(dt)

	s.log.Debugf("sim: pos=%v vel=%v grounded=%t locked=%t", b.Pos(), b.Vel(), b.Grounded(), b.Locked())
}

// PresentationUpdate smooths the render orientation toward the heading and
// returns it. Runs at the variable presentation rate; authoritative state is
// read-only here.
func (s *Simulator) PresentationUpdate(dt float32) mgl32.Quat {
	amount := mgl32.Clamp(presentSmoothing*dt, 0, 1)
	s.renderOrient = mgl32.QuatSlerp(s.renderOrient, s.body.Facing(), amount)
	return s.renderOrient
}
