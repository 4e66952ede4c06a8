package syscall

import "rfvp/internal/value"

// dissolveFamily covers Dissolve (fade-out/fade-in select) and the
// blocking DissolveWait (spec.md §4.5/§4.8). Args: mode (0=FadeOut,
// 1=FadeIn), duration_ms, color_id, pending_fade_out.
var dissolveFamily = []Descriptor{
	{Name: "Dissolve", Arity: 4, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		mode := argInt32(a, 0)
		durationMs := argInt32(a, 1)
		colorID := uint32(argInt32(a, 2))
		pending := argBool(a, 3)
		switch mode {
		case 0:
			m.Dissolve().Script.FadeOutTo(colorID, durationMs)
		case 1:
			m.Dissolve().Script.FadeInFrom(durationMs, pending)
		}
		return NilResult()
	}},
	{Name: "DissolveWait", Arity: 0, Blocking: true, Handler: func(m Machine, caller uint8, _ []value.Value) Result {
		if m.Dissolve().Script.IsOff() {
			return NilResult()
		}
		return RetryResult()
	}},
}
