package syscall

import "rfvp/internal/value"

// textFamily covers Buff/Clear/Color/Font/Print/Speed (spec.md §4.5's
// "text" family): accumulates into the active TextState buffer for the
// renderer to draw. Buff appends without committing; Print is the
// signal that the buffer is ready for display (the renderer consumes
// it on next Submit; this package has no renderer dependency).
var textFamily = []Descriptor{
	{Name: "TextBuff", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Text().Buffer += argString(a, 0)
		return NilResult()
	}},
	{Name: "TextClear", Arity: 0, Handler: func(m Machine, _ uint8, _ []value.Value) Result {
		m.Text().Buffer = ""
		return NilResult()
	}},
	{Name: "TextColor", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Text().ColorRGB = uint32(argInt32(a, 0))
		return NilResult()
	}},
	{Name: "TextFont", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Text().FontID = argInt32(a, 0)
		return NilResult()
	}},
	{Name: "TextSpeed", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Text().SpeedMs = argInt32(a, 0)
		return NilResult()
	}},
	{Name: "TextPrint", Arity: 0, Handler: func(m Machine, _ uint8, _ []value.Value) Result {
		t := m.Text()
		t.Buffer = t.Substitute(t.Buffer)
		return NilResult()
	}},
}
