package action

import "github.com/sirupsen/logrus"

type edge struct {
	slot  Slot
	phase Phase
}

// Dispatcher owns move registration and resolution. At most one action runs
// system-wide at a time; input edges arriving while one runs are dropped,
// except the guaranteed Exit edge of a hold-release move.
type Dispatcher struct {
	log *logrus.Logger

	slots [slotCount][]Action
	queue []edge

	running     Action
	pendingExit [slotCount]Action
}

// NewDispatcher creates a dispatcher logging to log.
func NewDispatcher(log *logrus.Logger) *Dispatcher {
	if log == nil {
		log = logrus.New()
	}
	return &Dispatcher{log: log}
}

// Register binds an action to its slot. Resolution scans a slot's actions in
// registration order, so register the most specific moves first.
func (d *Dispatcher) Register(a Action) {
	d.slots[a.Slot()] = append(d.slots[a.Slot()], a)
}

// Enqueue records an input edge for consumption at the next simulation tick.
func (d *Dispatcher) Enqueue(slot Slot, phase Phase) {
	d.queue = append(d.queue, edge{slot: slot, phase: phase})
}

// Busy reports whether an action routine currently runs.
func (d *Dispatcher) Busy() bool {
	return d.running != nil
}

// DispatchEdges consumes the queued input edges, possibly starting an action.
// Called at the top of a simulation tick, before the solver, so a freshly
// started action can lock the body and own this tick's write.
func (d *Dispatcher) DispatchEdges() {
	for _, e := range d.queue {
		d.resolve(e)
	}
	d.queue = d.queue[:0]
}

// Step runs the active action routine to its next suspension point. Exactly
// one resume per tick.
func (d *Dispatcher) Step(dt float32) {
	if d.running == nil {
		return
	}
	if d.running.Tick(dt) {
		d.log.Debugf("action: %T complete", d.running)
		d.running = nil
	}
}

func (d *Dispatcher) resolve(e edge) {
	// A remembered hold-release move always receives its matching release,
	// bypassing both validity checks that may have lapsed since the press and
	// a routine busy on another slot.
	if e.phase == PhaseExit {
		if a := d.pendingExit[e.slot]; a != nil {
			d.pendingExit[e.slot] = nil
			d.log.Debugf("action: forced exit for %T on slot %d", a, e.slot)
			a.Begin(PhaseExit)
			if d.running == nil {
				d.running = a
			}
			return
		}
	}

	if d.running != nil {
		d.log.Debugf("action: edge on slot %d ignored, %T still running", e.slot, d.running)
		return
	}

	for _, a := range d.slots[e.slot] {
		if !a.IsValid(e.phase) {
			continue
		}
		d.log.Debugf("action: starting %T on slot %d phase %d", a, e.slot, e.phase)
		a.Begin(e.phase)
		d.running = a
		if a.HoldRelease() && e.phase == PhaseEnter {
			d.pendingExit[e.slot] = a
		}
		return
	}
}
