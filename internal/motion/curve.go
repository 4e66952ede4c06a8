// Package motion implements nine of the ten interpolator containers
// (the dissolve machines live in package dissolve) sharing one contract (gate, step, retire-and-write-dst, curve evaluation).
// Ground: DESIGN NOTES' explicit call to "collapse the 10 containers
// onto one generic interpolator" — structurally modeled on the
// teacher's internal/apu.AudioChannel free-list-less per-channel
// per-frame update loop (UpdateFrame iterating a fixed array of
// channels, advancing timers, and flipping a status bit on
// completion), generalized to an explicit free-list pool since here
// slots are allocated by script action rather than always-on hardware
// channels.
package motion

// Curve selects the interpolation shape for a running motion.
type Curve uint8

const (
	CurveNone Curve = iota
	CurveLinear
	CurveAccelerate
	CurveDecelerate
	CurveRebound
	CurveBounce
)

// Interpolate evaluates the curve at parameter t ∈ [0,1] between src
// and dst, per the table in spec.md §4.7. All arithmetic is done in
// int64/float64 internally; truncation to the target attribute's type
// happens at the caller's final write.
func Interpolate(curve Curve, src, dst int64, t float64) int64 {
	delta := float64(dst - src)
	switch curve {
	case CurveLinear:
		return src + int64(delta*t)
	case CurveAccelerate:
		return src + int64(delta*t*t)
	case CurveDecelerate:
		return dst - int64(delta*(1-t)*(1-t))
	case CurveRebound:
		if t <= 0.5 {
			tt := t / 0.5
			return src + int64((delta/2)*tt*tt)
		}
		tt := (1 - t) / 0.5
		return dst - int64((delta/2)*tt*tt)
	case CurveBounce:
		if t <= 0.5 {
			tt := (0.5 - t) / 0.5
			return src + int64(delta/2) - int64((delta/2)*tt*tt)
		}
		tt := (t - 0.5) / 0.5
		return src + int64(delta/2) + int64((delta/2)*tt*tt)
	default:
		return src
	}
}
