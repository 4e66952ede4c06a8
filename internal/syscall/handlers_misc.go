package syscall

import (
	"fmt"

	"rfvp/internal/value"
)

// miscFamily covers Rand/Debmess/IntToText/FloatToInt/ColorSet/GaijiSet
// (spec.md §4.5's "misc" family).
var miscFamily = []Descriptor{
	{Name: "GaijiSet", Arity: 2, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		text := m.Text()
		if text.Gaiji == nil {
			text.Gaiji = make(map[rune]GlyphID)
		}
		text.Gaiji[rune(argInt32(a, 0))] = GlyphID(argInt32(a, 1))
		return NilResult()
	}},
	{Name: "Rand", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		bound := argInt32(a, 0)
		if bound <= 0 {
			return ValueResult(value.NewInt(0))
		}
		r := m.Rand()
		if r < 0 {
			r = -r
		}
		return ValueResult(value.NewInt(r % bound))
	}},
	{Name: "Debmess", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		// Diagnostic-only: the host's trace sink is reached through
		// internal/engine, not this package, to avoid syscall depending
		// on internal/trace for a single debug print family.
		_ = argString(a, 0)
		return NilResult()
	}},
	{Name: "IntToText", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		return ValueResult(value.NewDynString(fmt.Sprintf("%d", argInt32(a, 0))))
	}},
	{Name: "FloatToInt", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		return ValueResult(value.NewInt(int32(argFloat32(a, 0))))
	}},
	{Name: "ColorSet", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		*m.Color() = uint32(argInt32(a, 0))
		return NilResult()
	}},
}
