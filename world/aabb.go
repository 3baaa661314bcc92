package world

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stride-works/kinetic/game"
)

// AABBWorld is a Source backed by a flat set of axis-aligned boxes. Level
// geometry is registered once at load; the set is scanned per probe, which is
// plenty for the handful of boxes a character interacts with.
type AABBWorld struct {
	boxes []cube.BBox
}

// NewAABBWorld returns an empty box world.
func NewAABBWorld() *AABBWorld {
	return &AABBWorld{}
}

// Add registers a collision box.
func (w *AABBWorld) Add(box cube.BBox) {
	w.boxes = append(w.boxes, box)
}

// AddBox registers a collision box from min/max corner coordinates.
func (w *AABBWorld) AddBox(x1, y1, z1, x2, y2, z2 float32) {
	w.Add(cube.Box(x1, y1, z1, x2, y2, z2))
}

// Raycast tests the ray against every registered box and returns the nearest
// entry point, with the normal of the face entered.
func (w *AABBWorld) Raycast(origin, dir mgl32.Vec3, maxDist float32) (Hit, bool) {
	d, ok := game.SafeNormalize(dir)
	if !ok || maxDist <= 0 {
		return Hit{}, false
	}

	best := Hit{Dist: maxDist}
	found := false
	for _, box := range w.boxes {
		if hit, ok := raySlab(origin, d, box, best.Dist); ok {
			best = hit
			found = true
		}
	}
	return best, found
}

// raySlab runs the slab intersection test against one box, accepting only
// entries strictly closer than maxDist.
func raySlab(origin, dir mgl32.Vec3, box cube.BBox, maxDist float32) (Hit, bool) {
	tMin, tMax := float32(0), maxDist
	axis, sign := -1, float32(0)

	min, max := box.Min(), box.Max()
	for i := 0; i < 3; i++ {
		if math32.Abs(dir[i]) < game.Epsilon {
			if origin[i] < min[i] || origin[i] > max[i] {
				return Hit{}, false
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (min[i] - origin[i]) * inv
		t2 := (max[i] - origin[i]) * inv
		s := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1
		}
		if t1 > tMin {
			tMin = t1
			axis = i
			sign = s
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return Hit{}, false
		}
	}
	if axis == -1 {
		// Ray starts inside the box; no face was crossed.
		return Hit{}, false
	}

	normal := mgl32.Vec3{}
	normal[axis] = sign
	return Hit{
		Pos:    origin.Add(dir.Mul(tMin)),
		Normal: normal,
		Dist:   tMin,
	}, true
}
