package rail

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stride-works/kinetic/game"
	"github.com/stride-works/kinetic/settings"
)

// nodeFacing authors a control node whose local forward points along fwd.
func nodeFacing(pos, fwd mgl32.Vec3, weight float32) Node {
	f := fwd.Normalize()
	up := mgl32.Vec3{0, 1, 0}
	if math32.Abs(f.Y()) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}
	right := up.Cross(f).Normalize()
	up = f.Cross(right)
	return Node{Position: pos, Orientation: game.FrameToQuat(right, up, f), Weight: weight}
}

// straightTrack runs along +X from the origin to (length, 0, 0).
func straightTrack(length float32) *Track {
	fwd := mgl32.Vec3{1, 0, 0}
	return NewTrack([]Node{
		nodeFacing(mgl32.Vec3{0, 0, 0}, fwd, 1),
		nodeFacing(mgl32.Vec3{length, 0, 0}, fwd, 1),
	}, false, 16)
}

func TestClosestPointOnStraightTrack(t *testing.T) {
	tr := straightTrack(10)

	point, orient, err := tr.ClosestPoint(mgl32.Vec3{5, 3, 0})
	if err != nil {
		t.Fatalf("ClosestPoint: %v", err)
	}
	if point.Sub(mgl32.Vec3{5, 0, 0}).Len() > 0.05 {
		t.Fatalf("expected projection onto the curve near (5,0,0), got %v", point)
	}
	if fwd := game.Forward(orient); fwd.Sub(mgl32.Vec3{1, 0, 0}).Len() > 0.05 {
		t.Fatalf("expected a +x tangent frame, got forward %v", fwd)
	}
	if up := game.Up(orient); up.Sub(mgl32.Vec3{0, 1, 0}).Len() > 0.05 {
		t.Fatalf("expected a world-up frame, got up %v", up)
	}
}

func TestClosestPointIsIdempotent(t *testing.T) {
	tr := straightTrack(10)

	point, _, err := tr.ClosestPoint(mgl32.Vec3{4, 2, 1})
	if err != nil {
		t.Fatalf("ClosestPoint: %v", err)
	}
	again, _, err := tr.ClosestPoint(point)
	if err != nil {
		t.Fatalf("ClosestPoint: %v", err)
	}
	if again.Sub(point).Len() > 1e-3 {
		t.Fatalf("a point on the curve must project onto itself, got %v vs %v", again, point)
	}
}

func TestClosestPointClampsPastEnds(t *testing.T) {
	tr := straightTrack(10)

	point, _, err := tr.ClosestPoint(mgl32.Vec3{20, 0, 0})
	if err != nil {
		t.Fatalf("ClosestPoint: %v", err)
	}
	if point.Sub(mgl32.Vec3{10, 0, 0}).Len() > 0.05 {
		t.Fatalf("query past an open end must clamp to the endpoint, got %v", point)
	}
}

func TestZeroNodeTrackErrors(t *testing.T) {
	tr := NewTrack(nil, false, 0)
	if _, _, err := tr.ClosestPoint(mgl32.Vec3{}); err == nil {
		t.Fatal("expected an error for an empty track")
	}
}

func TestSingleNodeTrackDegenerates(t *testing.T) {
	n := nodeFacing(mgl32.Vec3{3, 1, 2}, mgl32.Vec3{1, 0, 0}, 1)
	tr := NewTrack([]Node{n}, false, 0)

	point, orient, err := tr.ClosestPoint(mgl32.Vec3{100, 0, 0})
	if err != nil {
		t.Fatalf("ClosestPoint: %v", err)
	}
	if point != n.Position {
		t.Fatalf("single-node track must answer with its node, got %v", point)
	}
	if orient != n.Orientation {
		t.Fatalf("single-node track must answer with the node frame, got %v", orient)
	}
}

func TestEndsOpenVersusLoop(t *testing.T) {
	open := straightTrack(10)
	start, end, ok := open.Ends()
	if !ok {
		t.Fatal("open track must expose its endpoints")
	}
	if start != (mgl32.Vec3{0, 0, 0}) || end != (mgl32.Vec3{10, 0, 0}) {
		t.Fatalf("unexpected endpoints %v %v", start, end)
	}

	loop := NewTrack(squareLoopNodes(), true, 16)
	if _, _, ok := loop.Ends(); ok {
		t.Fatal("a looping track has no endpoints")
	}
}

func squareLoopNodes() []Node {
	return []Node{
		nodeFacing(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, 1),
		nodeFacing(mgl32.Vec3{10, 0, 0}, mgl32.Vec3{0, 0, 1}, 1),
		nodeFacing(mgl32.Vec3{10, 0, 10}, mgl32.Vec3{-1, 0, 0}, 1),
		nodeFacing(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, -1}, 1),
	}
}

func TestLoopWrapSpanIsReachable(t *testing.T) {
	loop := NewTrack(squareLoopNodes(), true, 16)

	// The wrap span runs from (0,0,10) back to (0,0,0); a query to its side
	// must land on it, not on the far first span.
	point, orient, err := loop.ClosestPoint(mgl32.Vec3{-3, 0, 5})
	if err != nil {
		t.Fatalf("ClosestPoint: %v", err)
	}
	if point.Z() < 1 || point.Z() > 9 {
		t.Fatalf("expected a point on the closing span, got %v", point)
	}
	if game.Forward(orient).Z() > 0 {
		t.Fatalf("the closing span travels toward -z, got forward %v", game.Forward(orient))
	}
}

func TestTrackIdentity(t *testing.T) {
	a := straightTrack(10)
	b := straightTrack(10)
	if a.ID() != b.ID() {
		t.Fatal("identical node data must hash to the same identity")
	}
	c := straightTrack(11)
	if a.ID() == c.ID() {
		t.Fatal("different node data must hash differently")
	}
	nodes := []Node{
		nodeFacing(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, 1),
		nodeFacing(mgl32.Vec3{10, 0, 0}, mgl32.Vec3{1, 0, 0}, 1),
	}
	if NewTrack(nodes, false, 16).ID() == NewTrack(nodes, true, 16).ID() {
		t.Fatal("the loop flag is part of the identity")
	}
}

func TestTrackFromConfig(t *testing.T) {
	cfg := settings.TrackConfig{
		Nodes: []settings.TrackNode{
			{Position: [3]float32{0, 0, 0}, Yaw: 90, Weight: 1},
			{Position: [3]float32{10, 0, 0}, Yaw: 90, Weight: 1},
		},
	}
	tr := TrackFromConfig(cfg, settings.DefaultRail())

	point, orient, err := tr.ClosestPoint(mgl32.Vec3{5, 2, 0})
	if err != nil {
		t.Fatalf("ClosestPoint: %v", err)
	}
	if point.Sub(mgl32.Vec3{5, 0, 0}).Len() > 0.05 {
		t.Fatalf("expected the authored straight rail, got %v", point)
	}
	// Yaw 90 turns the authored forward onto +x.
	if fwd := game.Forward(orient); fwd.Sub(mgl32.Vec3{1, 0, 0}).Len() > 0.05 {
		t.Fatalf("expected a +x tangent, got %v", fwd)
	}
}

func TestRegistryRejectsBadTracks(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(NewTrack(nil, false, 0)); err == nil {
		t.Fatal("expected an error for an empty track")
	}
	tr := straightTrack(10)
	if err := r.Register(tr); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(straightTrack(10)); err == nil {
		t.Fatal("expected an error for a duplicate identity")
	}
	if r.Len() != 1 {
		t.Fatalf("expected one registered track, got %d", r.Len())
	}
	r.Unregister(tr)
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", r.Len())
	}
}

func TestRegistryClosestPicksNearerTrack(t *testing.T) {
	near := straightTrack(10)
	far := NewTrack([]Node{
		nodeFacing(mgl32.Vec3{0, 20, 0}, mgl32.Vec3{1, 0, 0}, 1),
		nodeFacing(mgl32.Vec3{10, 20, 0}, mgl32.Vec3{1, 0, 0}, 1),
	}, false, 16)

	r := NewRegistry()
	if err := r.Register(far); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(near); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, point, ok := r.Closest(mgl32.Vec3{5, 1, 0}, 5)
	if !ok {
		t.Fatal("expected a track in range")
	}
	if got != near {
		t.Fatal("expected the nearer track to win")
	}
	if point.Sub(mgl32.Vec3{5, 0, 0}).Len() > 0.05 {
		t.Fatalf("unexpected nearest point %v", point)
	}

	if _, _, ok := r.Closest(mgl32.Vec3{5, 10, 0}, 5); ok {
		t.Fatal("no track lies within range of that query")
	}
}
