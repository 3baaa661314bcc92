package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SafeNormalize normalizes v, reporting false when the vector is too short to
// produce a meaningful direction.
func SafeNormalize(v mgl32.Vec3) (mgl32.Vec3, bool) {
	l := v.Len()
	if l <= Epsilon {
		return mgl32.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// ProjectOnPlane returns v with its component along the plane normal removed.
func ProjectOnPlane(v, normal mgl32.Vec3) mgl32.Vec3 {
	return v.Sub(normal.Mul(v.Dot(normal)))
}

// AngleBetween returns the unsigned angle between two vectors in degrees.
// Zero-length inputs report an angle of zero.
func AngleBetween(a, b mgl32.Vec3) float32 {
	da, okA := SafeNormalize(a)
	db, okB := SafeNormalize(b)
	if !okA || !okB {
		return 0
	}
	return mgl32.RadToDeg(math32.Acos(mgl32.Clamp(da.Dot(db), -1, 1)))
}

// MoveTowards eases current toward target by at most maxDelta.
func MoveTowards(current, target, maxDelta float32) float32 {
	if math32.Abs(target-current) <= maxDelta {
		return target
	}
	if target > current {
		return current + maxDelta
	}
	return current - maxDelta
}

// RotateTowards rotates direction from toward direction to by at most
// maxRadians, pivoting around their mutual perpendicular. Both inputs must be
// unit length. Opposite vectors pick an arbitrary stable pivot.
func RotateTowards(from, to mgl32.Vec3, maxRadians float32) mgl32.Vec3 {
	dot := mgl32.Clamp(from.Dot(to), -1, 1)
	angle := math32.Acos(dot)
	if angle <= maxRadians {
		return to
	}
	axis := from.Cross(to)
	if axis.Len() <= Epsilon {
		// Anti-parallel: any perpendicular axis works.
		axis = from.Cross(WorldUp())
		if axis.Len() <= Epsilon {
			axis = from.Cross(mgl32.Vec3{1, 0, 0})
		}
	}
	axis = axis.Normalize()
	return mgl32.QuatRotate(maxRadians, axis).Rotate(from)
}

// AlignUp returns the minimal-arc rotation taking fromUp onto toUp, composed
// onto orient. Degenerate inputs leave orient untouched.
func AlignUp(orient mgl32.Quat, fromUp, toUp mgl32.Vec3) mgl32.Quat {
	a, okA := SafeNormalize(fromUp)
	b, okB := SafeNormalize(toUp)
	if !okA || !okB {
		return orient
	}
	return mgl32.QuatBetweenVectors(a, b).Mul(orient).Normalize()
}

// Forward returns the local +Z axis of q in world space.
func Forward(q mgl32.Quat) mgl32.Vec3 {
	return q.Rotate(mgl32.Vec3{0, 0, 1})
}

// Up returns the local +Y axis of q in world space.
func Up(q mgl32.Quat) mgl32.Vec3 {
	return q.Rotate(mgl32.Vec3{0, 1, 0})
}

// FrameToQuat builds an orientation from an orthonormal basis. The basis is
// column-major: right, up, forward.
func FrameToQuat(right, up, forward mgl32.Vec3) mgl32.Quat {
	m := mgl32.Mat3FromCols(right, up, forward)
	return mgl32.Mat4ToQuat(m.Mat4()).Normalize()
}

// TurnQuatTowards rotates orient so its forward axis approaches dir, by at
// most maxRadians. A degenerate dir returns orient unchanged.
func TurnQuatTowards(orient mgl32.Quat, dir mgl32.Vec3, maxRadians float32) mgl32.Quat {
	d, ok := SafeNormalize(dir)
	if !ok {
		return orient
	}
	fwd := Forward(orient)
	newFwd := RotateTowards(fwd, d, maxRadians)
	return mgl32.QuatBetweenVectors(fwd, newFwd).Mul(orient).Normalize()
}

// Float32ApproxEq determines whether two floating point numbers are close
// enough to each other by a threshold of 1e-5.
func Float32ApproxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-5
}
