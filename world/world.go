// Package world provides the collision-query capability the character core
// probes against. The engine itself owns no level geometry; anything that can
// answer a raycast satisfies Source.
package world

import "github.com/go-gl/mathgl/mgl32"

// Hit describes the nearest surface intersected by a probe.
type Hit struct {
	Pos    mgl32.Vec3
	Normal mgl32.Vec3
	Dist   float32
}

// Source is a queryable collision surface. Raycast reports the closest hit
// within maxDist along dir from origin. Dir must be unit length.
type Source interface {
	Raycast(origin, dir mgl32.Vec3, maxDist float32) (Hit, bool)
}
