package syscall

import (
	"rfvp/internal/motion"
	"rfvp/internal/value"
)

// curveFromArg maps the bytecode's curve selector int to motion.Curve;
// out-of-range values fall back to CurveNone (jump to dst), matching
// the decoder's general fail-soft posture for malformed operands.
func curveFromArg(v int32) motion.Curve {
	if v < int32(motion.CurveNone) || v > int32(motion.CurveBounce) {
		return motion.CurveNone
	}
	return motion.Curve(v)
}

// motionFamily covers Alpha/Move/MoveR/MoveS2/MoveZ (each with a Stop;
// only Alpha and Move also have a Test), Anim, V3D, and Parts (spec.md §4.5's "motion" family).
var motionFamily = []Descriptor{
	{Name: "MotionAlpha", Arity: 5, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		id := argPrimID(a, 0)
		src := int64(nodeOrZero(m.Prim(), id).Alpha)
		dst := int64(argU8(a, 1))
		dur := argInt32(a, 2)
		curve := curveFromArg(curveArg(a, 3))
		rev := argBool(a, 4)
		m.Motions().Alpha.Push(id, []int64{src}, []int64{dst}, dur, curve, rev)
		return NilResult()
	}},
	{Name: "MotionAlphaStop", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Motions().Alpha.Stop(argPrimID(a, 0))
		return NilResult()
	}},
	{Name: "MotionAlphaTest", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		return ValueResult(value.NewBool(m.Motions().Alpha.Running(argPrimID(a, 0))))
	}},
	{Name: "MotionMove", Arity: 6, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		id := argPrimID(a, 0)
		n := nodeOrZero(m.Prim(), id)
		src := []int64{int64(n.X), int64(n.Y)}
		dst := []int64{int64(argI16(a, 1)), int64(argI16(a, 2))}
		dur := argInt32(a, 3)
		curve := curveFromArg(curveArg(a, 4))
		rev := argBool(a, 5)
		m.Motions().Translate.Push(id, src, dst, dur, curve, rev)
		return NilResult()
	}},
	{Name: "MotionMoveStop", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Motions().Translate.Stop(argPrimID(a, 0))
		return NilResult()
	}},
	{Name: "MotionMoveTest", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		return ValueResult(value.NewBool(m.Motions().Translate.Running(argPrimID(a, 0))))
	}},
	{Name: "MotionMoveR", Arity: 4, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		id := argPrimID(a, 0)
		src := int64(nodeOrZero(m.Prim(), id).Rot)
		dst := int64(argI16(a, 1))
		dur := argInt32(a, 2)
		curve := curveFromArg(curveArg(a, 3))
		m.Motions().Rotate.Push(id, []int64{src}, []int64{dst}, dur, curve, false)
		return NilResult()
	}},
	{Name: "MotionMoveRStop", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Motions().Rotate.Stop(argPrimID(a, 0))
		return NilResult()
	}},
	{Name: "MotionMoveS2", Arity: 5, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		id := argPrimID(a, 0)
		n := nodeOrZero(m.Prim(), id)
		src := []int64{int64(n.FactorX), int64(n.FactorY)}
		dst := []int64{int64(argI16(a, 1)), int64(argI16(a, 2))}
		dur := argInt32(a, 3)
		curve := curveFromArg(curveArg(a, 4))
		m.Motions().Scale.Push(id, src, dst, dur, curve, false)
		return NilResult()
	}},
	{Name: "MotionMoveS2Stop", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Motions().Scale.Stop(argPrimID(a, 0))
		return NilResult()
	}},
	{Name: "MotionMoveZ", Arity: 4, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		id := argPrimID(a, 0)
		src := int64(nodeOrZero(m.Prim(), id).Z)
		dst := int64(argI16(a, 1))
		dur := argInt32(a, 2)
		curve := curveFromArg(curveArg(a, 3))
		m.Motions().Z.Push(id, []int64{src}, []int64{dst}, dur, curve, false)
		return NilResult()
	}},
	{Name: "MotionMoveZStop", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Motions().Z.Stop(argPrimID(a, 0))
		return NilResult()
	}},
	{Name: "MotionAnim", Arity: 4, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		id := argPrimID(a, 0)
		m.Motions().Anim.Push(id, argI16(a, 1), argI16(a, 2), argBool(a, 3))
		return NilResult()
	}},
	{Name: "MotionAnimStop", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Motions().Anim.Stop(argPrimID(a, 0))
		return NilResult()
	}},
	{Name: "MotionV3D", Arity: 8, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		id := argPrimID(a, 0)
		src := []int64{int64(argI16(a, 1)), int64(argI16(a, 2)), int64(argI16(a, 3))}
		dst := []int64{int64(argI16(a, 4)), int64(argI16(a, 5)), int64(argI16(a, 6))}
		dur := argInt32(a, 7)
		m.Motions().V3D.Push(id, src, dst, dur, motion.CurveLinear, false)
		return NilResult()
	}},
	{Name: "MotionParts", Arity: 4, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		id := argPrimID(a, 0)
		src := int64(nodeOrZero(m.Prim(), id).TextureID)
		dst := int64(argI16(a, 1))
		dur := argInt32(a, 2)
		curve := curveFromArg(curveArg(a, 3))
		m.Motions().Parts.Push(id, []int64{src}, []int64{dst}, dur, curve, false)
		return NilResult()
	}},
}
