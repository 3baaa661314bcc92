package game

import "sort"

// Keyframe is a single sample of a piecewise-linear curve.
type Keyframe struct {
	T     float32 `yaml:"t"`
	Value float32 `yaml:"value"`
}

// RateCurve is a piecewise-linear sampler used for speed-dependent tuning
// values, such as the turn rate applied at a given normalized speed. It stands
// in for what would be an editor-authored animation curve.
type RateCurve struct {
	Keys []Keyframe `yaml:"keys"`
}

// NewRateCurve returns a curve over the given keyframes, sorted by T.
func NewRateCurve(keys ...Keyframe) RateCurve {
	c := RateCurve{Keys: keys}
	sort.Slice(c.Keys, func(i, j int) bool { return c.Keys[i].T < c.Keys[j].T })
	return c
}

// Sample evaluates the curve at t. Samples outside the keyframe range clamp
// to the nearest keyframe; an empty curve samples to zero.
func (c RateCurve) Sample(t float32) float32 {
	if len(c.Keys) == 0 {
		return 0
	}
	if t <= c.Keys[0].T {
		return c.Keys[0].Value
	}
	last := c.Keys[len(c.Keys)-1]
	if t >= last.T {
		return last.Value
	}
	for i := 1; i < len(c.Keys); i++ {
		if t > c.Keys[i].T {
			continue
		}
		a, b := c.Keys[i-1], c.Keys[i]
		span := b.T - a.T
		if span <= Epsilon {
			return b.Value
		}
		f := (t - a.T) / span
		return a.Value + (b.Value-a.Value)*f
	}
	return last.Value
}
