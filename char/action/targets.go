package action

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stride-works/kinetic/game"
)

// HomingTarget is anything a homing attack can chase.
type HomingTarget interface {
	Position() mgl32.Vec3
}

// LocationProvider customizes the point a homing attack steers toward.
// Targets without one are chased at their own position.
type LocationProvider interface {
	HomingLocation(from mgl32.Vec3) mgl32.Vec3
}

// TargetRegistry holds every live homing target. Registration is tied to
// entity creation and destruction.
type TargetRegistry struct {
	targets *orderedmap.OrderedMap[HomingTarget, struct{}]
}

// NewTargetRegistry returns an empty target registry.
func NewTargetRegistry() *TargetRegistry {
	return &TargetRegistry{targets: orderedmap.NewOrderedMap[HomingTarget, struct{}]()}
}

// Register adds a target. Re-registering is a no-op.
func (r *TargetRegistry) Register(t HomingTarget) {
	r.targets.Set(t, struct{}{})
}

// Unregister removes a target.
func (r *TargetRegistry) Unregister(t HomingTarget) {
	r.targets.Delete(t)
}

// Len returns the number of live targets.
func (r *TargetRegistry) Len() int {
	return r.targets.Len()
}

// Best scores every target in front of the seeker by distance and deflection
// from forward, and returns the lowest-scoring one within maxRange.
func (r *TargetRegistry) Best(from, forward mgl32.Vec3, maxRange float32) (HomingTarget, bool) {
	fwd, ok := game.SafeNormalize(forward)
	if !ok {
		return nil, false
	}

	var best HomingTarget
	bestScore := float32(0)
	for el := r.targets.Front(); el != nil; el = el.Next() {
		t := el.Key
		to := TargetLocation(t, from).Sub(from)
		dist := to.Len()
		if dist > maxRange {
			continue
		}
		dir, ok := game.SafeNormalize(to)
		if !ok {
			// Standing inside the target; it wins outright.
			return t, true
		}
		cos := dir.Dot(fwd)
		if cos <= 0 {
			continue
		}
		score := dist * (2 - cos)
		if best == nil || score < bestScore {
			best = t
			bestScore = score
		}
	}
	return best, best != nil
}

// TargetLocation resolves the point to chase for a target, honoring a custom
// location provider when present.
func TargetLocation(t HomingTarget, from mgl32.Vec3) mgl32.Vec3 {
	if lp, ok := t.(LocationProvider); ok {
		return lp.HomingLocation(from)
	}
	return t.Position()
}
