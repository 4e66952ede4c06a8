package syscall

import (
	"rfvp/internal/value"
	"rfvp/internal/vmerr"
)

const resourceExhausted = vmerr.ResourceNotFound

// threadFamily covers Start/Next/Wait/Sleep/Raise/Exit (spec.md §4.5's
// "thread" family), delegating to the Machine's Threads() controller
// (implemented by internal/sched.Scheduler).
var threadFamily = []Descriptor{
	{Name: "ThreadStart", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		addr := uint32(argInt32(a, 0))
		id, ok := m.Threads().Start(addr)
		if !ok {
			return FailResult(resourceExhausted)
		}
		return ValueResult(value.NewInt(int32(id)))
	}},
	{Name: "ThreadNext", Arity: 0, Blocking: true, Handler: func(m Machine, caller uint8, _ []value.Value) Result {
		m.Threads().Next(caller)
		return WaitResult()
	}},
	{Name: "ThreadWait", Arity: 1, Blocking: true, Handler: func(m Machine, caller uint8, a []value.Value) Result {
		m.Threads().Wait(caller, argInt32(a, 0))
		return WaitResult()
	}},
	{Name: "ThreadSleep", Arity: 1, Blocking: true, Handler: func(m Machine, caller uint8, a []value.Value) Result {
		m.Threads().Sleep(caller, argInt32(a, 0))
		return WaitResult()
	}},
	{Name: "ThreadRaise", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Threads().Raise(uint8(argInt32(a, 0)))
		return NilResult()
	}},
	{Name: "ThreadExit", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Threads().Exit(uint8(argInt32(a, 0)))
		return NilResult()
	}},
}
