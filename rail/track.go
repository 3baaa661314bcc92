// Package rail implements grind-rail geometry and the rail-riding controller.
// A rail is an authored sequence of control nodes joined by cubic Bézier
// spans; riding substitutes the normal locomotion solver entirely.
package rail

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/zeebo/xxh3"

	"github.com/stride-works/kinetic/game"
	"github.com/stride-works/kinetic/kerror"
	"github.com/stride-works/kinetic/settings"
)

const defaultSegmentsPerSpan = 16

// Node is one authored control point. The node's local forward, scaled by
// Weight, becomes the tangent handle on both adjacent spans, which keeps
// consecutive spans tangent-continuous.
type Node struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	Weight      float32
}

// Track is an immutable curve over authored nodes. The linearized form used
// by queries is built lazily on first use.
type Track struct {
	nodes           []Node
	loop            bool
	segmentsPerSpan int

	segs  []segment
	built bool
	id    uint64
}

// segment is one short linear slice of a span, carrying the interpolated
// orientation frame at both ends.
type segment struct {
	start       mgl32.Vec3
	dir         mgl32.Vec3
	length      float32
	startOrient mgl32.Quat
	endOrient   mgl32.Quat
}

// NewTrack builds a track over the given nodes. A non-positive
// segmentsPerSpan falls back to the default sampling density.
func NewTrack(nodes []Node, loop bool, segmentsPerSpan int) *Track {
	if segmentsPerSpan <= 0 {
		segmentsPerSpan = defaultSegmentsPerSpan
	}
	t := &Track{
		nodes:           append([]Node(nil), nodes...),
		loop:            loop,
		segmentsPerSpan: segmentsPerSpan,
	}
	t.id = t.hash()
	return t
}

// TrackFromConfig builds a track from its authored yaml form.
func TrackFromConfig(cfg settings.TrackConfig, rc settings.Rail) *Track {
	nodes := make([]Node, 0, len(cfg.Nodes))
	for _, n := range cfg.Nodes {
		orient := mgl32.AnglesToQuat(
			mgl32.DegToRad(n.Yaw), mgl32.DegToRad(n.Pitch), mgl32.DegToRad(n.Roll),
			mgl32.YXZ,
		)
		nodes = append(nodes, Node{
			Position:    mgl32.Vec3{n.Position[0], n.Position[1], n.Position[2]},
			Orientation: orient,
			Weight:      n.Weight,
		})
	}
	return NewTrack(nodes, cfg.Loop, rc.SegmentsPerSpan)
}

// ID is a stable identity hash over the authored node data, used as the
// registry key.
func (t *Track) ID() uint64 { return t.id }

// Loop reports whether the track closes back onto its first node.
func (t *Track) Loop() bool { return t.loop }

// NodeCount returns the number of authored nodes.
func (t *Track) NodeCount() int { return len(t.nodes) }

// Ends returns the world positions of the open track's two endpoints. Looping
// tracks and tracks with fewer than two nodes have no endpoints.
func (t *Track) Ends() (start, end mgl32.Vec3, ok bool) {
	if t.loop || len(t.nodes) < 2 {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	return t.nodes[0].Position, t.nodes[len(t.nodes)-1].Position, true
}

// ClosestPoint finds the nearest point on the curve to pos, together with the
// orientation frame interpolated at that point. A track with zero nodes is a
// configuration error.
func (t *Track) ClosestPoint(pos mgl32.Vec3) (mgl32.Vec3, mgl32.Quat, error) {
	switch len(t.nodes) {
	case 0:
		return mgl32.Vec3{}, mgl32.Quat{}, kerror.New("rail: track has no nodes")
	case 1:
		return t.nodes[0].Position, t.nodes[0].Orientation, nil
	}
	if !t.built {
		t.build()
	}

	bestD2 := float32(math.MaxFloat32)
	bestPoint := mgl32.Vec3{}
	bestOrient := mgl32.QuatIdent()
	for i := range t.segs {
		seg := &t.segs[i]
		p := mgl32.Clamp(pos.Sub(seg.start).Dot(seg.dir), 0, seg.length)
		cand := seg.start.Add(seg.dir.Mul(p))
		d2 := pos.Sub(cand).LenSqr()
		if d2 < bestD2 {
			bestD2 = d2
			bestPoint = cand
			bestOrient = mgl32.QuatSlerp(seg.startOrient, seg.endOrient, p/seg.length).Normalize()
		}
	}
	return bestPoint, bestOrient, nil
}

// build linearizes every span into short segments with orientation frames.
func (t *Track) build() {
	t.built = true
	spans := len(t.nodes) - 1
	if t.loop {
		spans++
	}
	t.segs = t.segs[:0]

	for s := 0; s < spans; s++ {
		a := t.nodes[s]
		b := t.nodes[(s+1)%len(t.nodes)]

		p0 := a.Position
		p3 := b.Position
		p1 := p0.Add(game.Forward(a.Orientation).Mul(a.Weight))
		p2 := p3.Sub(game.Forward(b.Orientation).Mul(b.Weight))

		prevPoint := p0
		prevOrient := frameAt(a, b, p0, p1, p2, p3, 0)
		for k := 1; k <= t.segmentsPerSpan; k++ {
			f := float32(k) / float32(t.segmentsPerSpan)
			point := bezierPoint(p0, p1, p2, p3, f)
			orient := frameAt(a, b, p0, p1, p2, p3, f)

			delta := point.Sub(prevPoint)
			if length := delta.Len(); length > game.Epsilon {
				t.segs = append(t.segs, segment{
					start:       prevPoint,
					dir:         delta.Mul(1 / length),
					length:      length,
					startOrient: prevOrient,
					endOrient:   orient,
				})
			}
			prevPoint, prevOrient = point, orient
		}
	}
}

// frameAt builds the orthonormal orientation frame at curve parameter f: the
// Bézier derivative is the forward axis, and the up reference slerped between
// the span's node orientations seats the roll.
func frameAt(a, b Node, p0, p1, p2, p3 mgl32.Vec3, f float32) mgl32.Quat {
	tangent, ok := game.SafeNormalize(bezierDerivative(p0, p1, p2, p3, f))
	if !ok {
		tangent, ok = game.SafeNormalize(p3.Sub(p0))
		if !ok {
			return a.Orientation
		}
	}
	upRef := game.Up(mgl32.QuatSlerp(a.Orientation, b.Orientation, f))
	right, ok := game.SafeNormalize(upRef.Cross(tangent))
	if !ok {
		// Up reference parallel to the tangent; borrow the node's right axis.
		right, ok = game.SafeNormalize(a.Orientation.Rotate(mgl32.Vec3{1, 0, 0}).Cross(tangent))
		if !ok {
			return a.Orientation
		}
	}
	up := tangent.Cross(right)
	return game.FrameToQuat(right, up, tangent)
}

func bezierPoint(p0, p1, p2, p3 mgl32.Vec3, f float32) mgl32.Vec3 {
	omf := 1 - f
	return p0.Mul(omf * omf * omf).
		Add(p1.Mul(3 * omf * omf * f)).
		Add(p2.Mul(3 * omf * f * f)).
		Add(p3.Mul(f * f * f))
}

func bezierDerivative(p0, p1, p2, p3 mgl32.Vec3, f float32) mgl32.Vec3 {
	omf := 1 - f
	return p1.Sub(p0).Mul(3 * omf * omf).
		Add(p2.Sub(p1).Mul(6 * omf * f)).
		Add(p3.Sub(p2).Mul(3 * f * f))
}

func (t *Track) hash() uint64 {
	buf := make([]byte, 0, len(t.nodes)*32+1)
	var scratch [4]byte
	put := func(v float32) {
		binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(v))
		buf = append(buf, scratch[:]...)
	}
	for _, n := range t.nodes {
		put(n.Position.X())
		put(n.Position.Y())
		put(n.Position.Z())
		put(n.Orientation.W)
		put(n.Orientation.V.X())
		put(n.Orientation.V.Y())
		put(n.Orientation.V.Z())
		put(n.Weight)
	}
	if t.loop {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	return xxh3.Hash(buf)
}
