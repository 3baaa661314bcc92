package action

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// stubAction records dispatcher interactions for inspection.
type stubAction struct {
	slot        Slot
	holdRelease bool
	valid       bool

	begins []Phase
	ticks  int
	done   bool
}

func (s *stubAction) Slot() Slot         { return s.slot }
func (s *stubAction) HoldRelease() bool  { return s.holdRelease }
func (s *stubAction) IsValid(Phase) bool { return s.valid }
func (s *stubAction) Begin(p Phase)      { s.begins = append(s.begins, p) }
func (s *stubAction) Tick(float32) bool  { s.ticks++; return s.done }

func TestSingleActionRuns(t *testing.T) {
	d := NewDispatcher(nil)
	a := &stubAction{slot: SlotJump, valid: true}
	b := &stubAction{slot: SlotAction, valid: true}
	d.Register(a)
	d.Register(b)

	d.Enqueue(SlotJump, PhaseEnter)
	d.Enqueue(SlotAction, PhaseEnter)
	d.DispatchEdges()

	if len(a.begins) != 1 || a.begins[0] != PhaseEnter {
		t.Fatalf("expected one enter on the first action, got %v", a.begins)
	}
	if len(b.begins) != 0 {
		t.Fatal("an edge arriving while another action runs must be dropped")
	}
	if !d.Busy() {
		t.Fatal("dispatcher must report busy")
	}

	d.Step(1.0 / 60.0)
	if a.ticks != 1 {
		t.Fatalf("expected one resume per tick, got %d", a.ticks)
	}
}

func TestRegistrationOrderResolves(t *testing.T) {
	d := NewDispatcher(nil)
	first := &stubAction{slot: SlotJump, valid: false}
	second := &stubAction{slot: SlotJump, valid: true}
	d.Register(first)
	d.Register(second)

	d.Enqueue(SlotJump, PhaseEnter)
	d.DispatchEdges()

	if len(first.begins) != 0 {
		t.Fatal("an invalid action must be skipped")
	}
	if len(second.begins) != 1 {
		t.Fatal("the next registered action on the slot must start")
	}
}

func TestCompletionFreesSlot(t *testing.T) {
	d := NewDispatcher(nil)
	a := &stubAction{slot: SlotJump, valid: true, done: true}
	d.Register(a)

	d.Enqueue(SlotJump, PhaseEnter)
	d.DispatchEdges()
	d.Step(1.0 / 60.0)

	if d.Busy() {
		t.Fatal("a completed action must free the dispatcher")
	}

	d.Enqueue(SlotJump, PhaseEnter)
	d.DispatchEdges()
	if len(a.begins) != 2 {
		t.Fatal("a new edge after completion must start the action again")
	}
}

func TestHoldReleaseExitAlwaysDelivered(t *testing.T) {
	d := NewDispatcher(nil)
	a := &stubAction{slot: SlotAction, holdRelease: true, valid: true}
	d.Register(a)

	d.Enqueue(SlotAction, PhaseEnter)
	d.DispatchEdges()

	// Validity lapses while the button is held, then the charge routine
	// finishes before the release arrives.
	a.valid = false
	a.done = true
	d.Step(1.0 / 60.0)
	if d.Busy() {
		t.Fatal("expected the routine to complete")
	}

	d.Enqueue(SlotAction, PhaseExit)
	d.DispatchEdges()

	if len(a.begins) != 2 || a.begins[1] != PhaseExit {
		t.Fatalf("the matching exit must be delivered exactly once, got %v", a.begins)
	}
	if !d.Busy() {
		t.Fatal("the forced exit must resume the routine")
	}

	// A second release on the slot has no remembered move to match.
	d.Enqueue(SlotAction, PhaseExit)
	a.done = true
	d.Step(1.0 / 60.0)
	d.DispatchEdges()
	if len(a.begins) != 2 {
		t.Fatalf("no further exit deliveries expected, got %v", a.begins)
	}
}

func TestExitReachesRunningHoldRelease(t *testing.T) {
	d := NewDispatcher(nil)
	a := &stubAction{slot: SlotAction, holdRelease: true, valid: true}
	d.Register(a)

	d.Enqueue(SlotAction, PhaseEnter)
	d.DispatchEdges()
	d.Step(1.0 / 60.0)

	d.Enqueue(SlotAction, PhaseExit)
	d.DispatchEdges()

	if len(a.begins) != 2 || a.begins[1] != PhaseExit {
		t.Fatalf("release while running must reach the holder, got %v", a.begins)
	}
}

type pointTarget mgl32.Vec3

func (p pointTarget) Position() mgl32.Vec3 { return mgl32.Vec3(p) }

type offsetTarget struct {
	pos, aim mgl32.Vec3
}

func (o *offsetTarget) Position() mgl32.Vec3 { return o.pos }

func (o *offsetTarget) HomingLocation(mgl32.Vec3) mgl32.Vec3 { return o.aim }

func TestBestTargetScoring(t *testing.T) {
	r := NewTargetRegistry()
	ahead := pointTarget{0, 0, 10}
	offAxis := pointTarget{8, 0, 8}
	behind := pointTarget{0, 0, -5}
	r.Register(ahead)
	r.Register(offAxis)
	r.Register(behind)

	got, ok := r.Best(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, 25)
	if !ok {
		t.Fatal("expected a target")
	}
	if got != ahead {
		t.Fatalf("the straight-ahead target must win, got %v", got)
	}
}

func TestBestRejectsBehindAndOutOfRange(t *testing.T) {
	r := NewTargetRegistry()
	r.Register(pointTarget{0, 0, -5})
	r.Register(pointTarget{0, 0, 100})

	if _, ok := r.Best(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, 25); ok {
		t.Fatal("targets behind the seeker or out of range must not match")
	}
}

func TestLocationProviderOverridesPosition(t *testing.T) {
	o := &offsetTarget{pos: mgl32.Vec3{0, 0, 10}, aim: mgl32.Vec3{0, 2, 10}}
	got := TargetLocation(o, mgl32.Vec3{})
	if got != o.aim {
		t.Fatalf("expected the provider's location, got %v", got)
	}
}

func TestUnregisterRemovesTarget(t *testing.T) {
	r := NewTargetRegistry()
	p := pointTarget{0, 0, 10}
	r.Register(p)
	r.Register(p)
	if r.Len() != 1 {
		t.Fatalf("re-registering must not duplicate, got %d", r.Len())
	}
	r.Unregister(p)
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", r.Len())
	}
}
