package syscall

import "rfvp/internal/value"

// timerFamily covers Get/Set/Suspend (spec.md §4.5's "timer" family):
// one free-running, suspendable millisecond counter advanced once per
// tick by internal/engine (see Machine.Timer's Tick).
var timerFamily = []Descriptor{
	{Name: "TimerGet", Arity: 0, Handler: func(m Machine, _ uint8, _ []value.Value) Result {
		return ValueResult(value.NewInt(int32(m.Timer().ValueMs)))
	}},
	{Name: "TimerSet", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Timer().ValueMs = int64(argInt32(a, 0))
		return NilResult()
	}},
	{Name: "TimerSuspend", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Timer().Suspended = argBool(a, 0)
		return NilResult()
	}},
}
