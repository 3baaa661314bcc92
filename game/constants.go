package game

import "github.com/go-gl/mathgl/mgl32"

const (
	// Epsilon is the threshold under which a vector is treated as zero-length
	// and any normalize/divide depending on it is skipped for the tick.
	Epsilon = float32(1e-5)

	SlopeAngle    = float32(45)
	CeilingAngle  = float32(95)
	ReattachAngle = float32(60)
	BrakeAngle    = float32(135)

	NormalGraceTime      = float32(0.1)
	DetachRefractoryTime = float32(0.1)
)

// WorldUp returns the global up axis.
func WorldUp() mgl32.Vec3 {
	return mgl32.Vec3{0, 1, 0}
}
