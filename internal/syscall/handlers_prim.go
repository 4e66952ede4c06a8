package syscall

import (
	"rfvp/internal/prim"
	"rfvp/internal/value"
)

// primFamily covers the Set{XY,WH,Z,RS,Sprt,Tile,Text,Snow,Alpha,Draw,
// OP}, GroupIn/Out/Move, and Hit syscalls (spec.md §4.5's "primitive"
// family), operating directly on internal/prim.Tree.
var primFamily = []Descriptor{
	{Name: "SetXY", Arity: 3, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Prim().MarkDirty(argPrimID(a, 0))
		m.Prim().SetXY(argPrimID(a, 0), argI16(a, 1), argI16(a, 2))
		return NilResult()
	}},
	{Name: "SetZ", Arity: 2, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Prim().MarkDirty(argPrimID(a, 0))
		m.Prim().SetZ(argPrimID(a, 0), argI16(a, 1))
		return NilResult()
	}},
	{Name: "SetRS", Arity: 3, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Prim().MarkDirty(argPrimID(a, 0))
		m.Prim().SetRot(argPrimID(a, 0), argI16(a, 1))
		m.Prim().SetFactor(argPrimID(a, 0), argI16(a, 2), argI16(a, 2))
		return NilResult()
	}},
	{Name: "SetRS2", Arity: 4, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Prim().MarkDirty(argPrimID(a, 0))
		m.Prim().SetRot(argPrimID(a, 0), argI16(a, 1))
		m.Prim().SetFactor(argPrimID(a, 0), argI16(a, 2), argI16(a, 3))
		return NilResult()
	}},
	{Name: "SetWH", Arity: 3, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Prim().MarkDirty(argPrimID(a, 0))
		m.Prim().SetWH(argPrimID(a, 0), argI16(a, 1), argI16(a, 2))
		return NilResult()
	}},
	{Name: "SetAlpha", Arity: 2, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Prim().MarkDirty(argPrimID(a, 0))
		m.Prim().SetAlpha(argPrimID(a, 0), argU8(a, 1))
		return NilResult()
	}},
	{Name: "SetSprt", Arity: 2, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Prim().MarkDirty(argPrimID(a, 0))
		m.Prim().SetType(argPrimID(a, 0), prim.TypeSprite)
		m.Prim().SetTextureID(argPrimID(a, 0), argI16(a, 1))
		return NilResult()
	}},
	{Name: "SetTile", Arity: 2, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Prim().MarkDirty(argPrimID(a, 0))
		m.Prim().SetType(argPrimID(a, 0), prim.TypeTile)
		m.Prim().SetTextureID(argPrimID(a, 0), argI16(a, 1))
		return NilResult()
	}},
	{Name: "SetText", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Prim().MarkDirty(argPrimID(a, 0))
		m.Prim().SetType(argPrimID(a, 0), prim.TypeText)
		return NilResult()
	}},
	{Name: "SetSnow", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Prim().MarkDirty(argPrimID(a, 0))
		m.Prim().SetType(argPrimID(a, 0), prim.TypeSnow)
		return NilResult()
	}},
	{Name: "SetDraw", Arity: 2, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Prim().SetDraw(argPrimID(a, 0), argBool(a, 1))
		return NilResult()
	}},
	{Name: "SetOP", Arity: 2, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Prim().SetPaused(argPrimID(a, 0), argBool(a, 1))
		return NilResult()
	}},
	{Name: "SetBlend", Arity: 2, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		// Blend mode selection is a renderer concern; the tree only
		// carries the override id the renderer keys its blend table on.
		m.Prim().MarkDirty(argPrimID(a, 0))
		m.Prim().SetSpriteOverride(argPrimID(a, 0), argPrimID(a, 1))
		return NilResult()
	}},
	{Name: "GroupIn", Arity: 2, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		if err := m.Prim().Attach(argPrimID(a, 0), argPrimID(a, 1)); err != nil {
			return FailResult(vmerrKind(err))
		}
		return NilResult()
	}},
	{Name: "GroupOut", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Prim().Detach(argPrimID(a, 0))
		return NilResult()
	}},
	{Name: "GroupMove", Arity: 2, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		if err := m.Prim().Attach(argPrimID(a, 0), argPrimID(a, 1)); err != nil {
			return FailResult(vmerrKind(err))
		}
		return NilResult()
	}},
	{Name: "Hit", Arity: 3, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		hit := m.Prim().Hit(argPrimID(a, 0), argI16(a, 1), argI16(a, 2))
		return ValueResult(value.NewBool(hit))
	}},
}
