package rail

import (
	"math"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stride-works/kinetic/kerror"
)

// Registry holds every live track, keyed by identity hash. Registration is
// tied to track creation and destruction; iteration order is registration
// order, so proximity scans are deterministic.
type Registry struct {
	tracks *orderedmap.OrderedMap[uint64, *Track]
}

// NewRegistry returns an empty track registry.
func NewRegistry() *Registry {
	return &Registry{tracks: orderedmap.NewOrderedMap[uint64, *Track]()}
}

// Register adds a track. Zero-node tracks and duplicate registrations are
// configuration errors.
func (r *Registry) Register(t *Track) error {
	if t.NodeCount() == 0 {
		return kerror.New("rail: refusing to register track with no nodes")
	}
	if _, ok := r.tracks.Get(t.ID()); ok {
		return kerror.New("rail: track %x registered twice", t.ID())
	}
	r.tracks.Set(t.ID(), t)
	return nil
}

// Unregister removes a track.
func (r *Registry) Unregister(t *Track) {
	r.tracks.Delete(t.ID())
}

// Len returns the number of registered tracks.
func (r *Registry) Len() int {
	return r.tracks.Len()
}

// Closest returns the registered track whose curve passes nearest to pos,
// along with the nearest curve point, if any lies within maxDist.
func (r *Registry) Closest(pos mgl32.Vec3, maxDist float32) (*Track, mgl32.Vec3, bool) {
	bestD2 := maxDist * maxDist
	if bestD2 <= 0 {
		bestD2 = float32(math.MaxFloat32)
	}
	var best *Track
	var bestPoint mgl32.Vec3
	for el := r.tracks.Front(); el != nil; el = el.Next() {
		point, _, err := el.Value.ClosestPoint(pos)
		if err != nil {
			continue
		}
		if d2 := pos.Sub(point).LenSqr(); d2 < bestD2 {
			bestD2 = d2
			best = el.Value
			bestPoint = point
		}
	}
	return best, bestPoint, best != nil
}
