package char

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stride-works/kinetic/game"
)

// InputState is the continuous movement input latched for one simulation
// tick. Move is a normalized 2D axis pair; camera-relative transforms happen
// before it reaches the engine.
type InputState struct {
	Move mgl32.Vec2
}

// Dir returns the world-space movement direction on the horizontal plane,
// reporting false for a dead stick.
func (i InputState) Dir() (mgl32.Vec3, bool) {
	return game.SafeNormalize(mgl32.Vec3{i.Move.X(), 0, i.Move.Y()})
}

// Magnitude returns the input deflection clamped to [0, 1].
func (i InputState) Magnitude() float32 {
	return mgl32.Clamp(i.Move.Len(), 0, 1)
}
