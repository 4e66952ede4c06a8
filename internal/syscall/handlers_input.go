package syscall

import "rfvp/internal/value"

// inputFamily covers GetState/GetDown/GetUp/GetWheel/GetCursX/GetCursY/
// GetCursIn (spec.md §4.5's "input" family), read directly from the
// current host.InputState snapshot. SetClick and Flash are host-side
// presentation hints with no core state of their own; they're recorded
// as no-ops here since the renderer/host own cursor icon and screen
// flash, not the core (spec.md §1's "out-of-core" collaborators).
var inputFamily = []Descriptor{
	{Name: "GetState", Arity: 0, Handler: func(m Machine, _ uint8, _ []value.Value) Result {
		return ValueResult(value.NewInt(int32(m.Host().Input.Snapshot().Down)))
	}},
	{Name: "GetDown", Arity: 0, Handler: func(m Machine, _ uint8, _ []value.Value) Result {
		return ValueResult(value.NewInt(int32(m.Host().Input.Snapshot().Down)))
	}},
	{Name: "GetUp", Arity: 0, Handler: func(m Machine, _ uint8, _ []value.Value) Result {
		return ValueResult(value.NewInt(int32(m.Host().Input.Snapshot().Up)))
	}},
	{Name: "GetEvent", Arity: 0, Handler: func(m Machine, _ uint8, _ []value.Value) Result {
		return ValueResult(value.NewInt(int32(m.Host().Input.Snapshot().Pressed)))
	}},
	{Name: "GetWheel", Arity: 0, Handler: func(m Machine, _ uint8, _ []value.Value) Result {
		return ValueResult(value.NewInt(m.Host().Input.Snapshot().Wheel))
	}},
	{Name: "GetCursX", Arity: 0, Handler: func(m Machine, _ uint8, _ []value.Value) Result {
		return ValueResult(value.NewInt(m.Host().Input.Snapshot().CursorX))
	}},
	{Name: "GetCursY", Arity: 0, Handler: func(m Machine, _ uint8, _ []value.Value) Result {
		return ValueResult(value.NewInt(m.Host().Input.Snapshot().CursorY))
	}},
	{Name: "GetCursIn", Arity: 0, Handler: func(m Machine, _ uint8, _ []value.Value) Result {
		return ValueResult(value.NewBool(m.Host().Input.Snapshot().CursorIn))
	}},
	{Name: "GetRepeat", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		bit := uint64(1) << uint(argInt32(a, 0)&63)
		return ValueResult(value.NewBool(m.Host().Input.Snapshot().Down&bit != 0))
	}},
	{Name: "SetClick", Arity: 1, Handler: func(m Machine, _ uint8, _ []value.Value) Result {
		return NilResult()
	}},
	{Name: "Flash", Arity: 2, Handler: func(m Machine, _ uint8, _ []value.Value) Result {
		return NilResult()
	}},
}
