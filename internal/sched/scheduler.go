// Package sched implements the Scheduler (C4): a fixed pool of 32 VM
// contexts, fair per-tick round-robin dispatch, and wait/sleep/raise
// bookkeeping. Ground: teacher's internal/emulator's frame loop
// (step the CPU until a frame boundary, then hand off to PPU/APU)
// generalized to cooperative multi-context round robin, since rfvp's
// bytecode runs many coroutine-like contexts per tick rather than one
// CPU.
package sched

import (
	"rfvp/internal/decode"
	"rfvp/internal/syscall"
	"rfvp/internal/trace"
	"rfvp/internal/vm"
)

// NumContexts is the scheduler's fixed context pool size (spec.md §4.4).
const NumContexts = 32

// MainContextID is context 0; its exit signals EngineShouldExit.
const MainContextID uint8 = 0

// StepBudget bounds how many instructions a single context may execute
// within one tick before being force-yielded, a host-configurable
// fairness backstop (SPEC_FULL's C3 expansion).
const StepBudget = 10000

// Scheduler owns the fixed context pool and implements syscall.Threads.
type Scheduler struct {
	contexts   [NumContexts]*vm.Context
	code       []byte
	charset    decode.Charset
	table      syscall.Table
	r          *trace.Ring
	stepBudget int
}

// New creates a scheduler with context 0 already running at entryPC,
// using StepBudget as the per-context per-tick fairness backstop. Call
// SetStepBudget afterward to override it (e.g. from internal/config).
func New(code []byte, charset decode.Charset, table syscall.Table, r *trace.Ring, entryPC uint32) *Scheduler {
	s := &Scheduler{code: code, charset: charset, table: table, r: r, stepBudget: StepBudget}
	s.contexts[MainContextID] = vm.NewContext(MainContextID, entryPC)
	return s
}

// SetStepBudget overrides the default StepBudget, per SPEC_FULL.md's
// "step budget is a host-configurable int" expansion.
func (s *Scheduler) SetStepBudget(n int) {
	if n > 0 {
		s.stepBudget = n
	}
}

func (s *Scheduler) Context(id uint8) *vm.Context {
	if int(id) >= NumContexts {
		return nil
	}
	return s.contexts[id]
}

// Start implements syscall.Threads: allocates the first free context
// slot (other than slot 0's special exit semantics) and starts it at
// addr.
func (s *Scheduler) Start(addr uint32) (uint8, bool) {
	for id := 1; id < NumContexts; id++ {
		if s.contexts[id] == nil || !s.contexts[id].Alive {
			s.contexts[id] = vm.NewContext(uint8(id), addr)
			return uint8(id), true
		}
	}
	return 0, false
}

// Next implements syscall.Threads: a single-tick cooperative yield —
// the context remains Running and resumes at the instruction after
// ThreadNext on its next turn.
func (s *Scheduler) Next(caller uint8) {
	// ShouldYield (set by vm.Step for any Blocking syscall) already
	// ends this context's turn for the tick; no status bits to flip.
}

// Wait implements syscall.Threads: a millisecond countdown decremented
// once per tick by Tick, per spec.md §4.4 step 1.
func (s *Scheduler) Wait(caller uint8, ms int32) {
	if ctx := s.Context(caller); ctx != nil {
		ctx.Status |= vm.StatusWait
		ctx.WaitRemainingMs = int64(ms)
	}
}

// Sleep implements syscall.Threads: parks indefinitely until a
// matching ThreadRaise(key), per spec.md §4.4 step 2. The sleep key is
// carried in WaitRemainingMs (repurposed as a tag, not a duration).
func (s *Scheduler) Sleep(caller uint8, key int32) {
	if ctx := s.Context(caller); ctx != nil {
		ctx.Status |= vm.StatusSleep
		ctx.WaitRemainingMs = int64(key)
	}
}

// Raise implements syscall.Threads: wakes every context in Sleep whose
// parked key matches target.
func (s *Scheduler) Raise(target uint8) {
	for _, ctx := range s.contexts {
		if ctx == nil || !ctx.Alive {
			continue
		}
		if ctx.Status&vm.StatusSleep != 0 && ctx.WaitRemainingMs == int64(target) {
			ctx.Status &^= vm.StatusSleep
			ctx.WaitRemainingMs = 0
		}
	}
}

// Exit implements syscall.Threads: clears the target context's state
// immediately; cleanup of any exclusively-held motion/audio resources
// is the caller's (internal/engine's) responsibility, since this
// package has no handle on those containers.
func (s *Scheduler) Exit(ctxID uint8) {
	if ctx := s.Context(ctxID); ctx != nil {
		ctx.Alive = false
		ctx.Status = 0
	}
}

// Tick runs the scheduler to quiescence for one frame: decrement Wait
// countdowns, then fairly round-robin every Running context one step at
// a time until each has yielded, blocked, exited, or exhausted its
// step budget. Round-robin (rather than draining one context to
// quiescence before touching the next) is what gives every runnable
// context at least one step before any context takes its second
// (spec.md §8's scheduler-fairness invariant). Returns true if context
// 0 exited (EngineShouldExit).
func (s *Scheduler) Tick(dtMs int64, m syscall.Machine) bool {
	for _, ctx := range s.contexts {
		if ctx == nil || !ctx.Alive {
			continue
		}
		if ctx.Status&vm.StatusWait != 0 {
			ctx.WaitRemainingMs -= dtMs
			if ctx.WaitRemainingMs <= 0 {
				ctx.Status &^= vm.StatusWait
				ctx.WaitRemainingMs = 0
			}
		}
	}

	runnable := make([]uint8, 0, NumContexts)
	for id := 0; id < NumContexts; id++ {
		if s.runnableAt(uint8(id)) {
			runnable = append(runnable, uint8(id))
		}
	}

	steps := make([]int, NumContexts)
	for len(runnable) > 0 {
		next := runnable[:0]
		for _, id := range runnable {
			if !s.runnableAt(id) || steps[id] >= s.stepBudget {
				continue
			}
			ctx := s.contexts[id]
			outcome := vm.Step(ctx, s.code, s.charset, s.table, m, s.r)
			steps[id]++
			if outcome == vm.Continue && s.runnableAt(id) && steps[id] < s.stepBudget {
				next = append(next, id)
			}
		}
		runnable = next
	}

	main := s.contexts[MainContextID]
	return main == nil || !main.Alive
}

// runnableAt reports whether context id is alive and neither waiting
// nor sleeping.
func (s *Scheduler) runnableAt(id uint8) bool {
	ctx := s.contexts[id]
	return ctx != nil && ctx.Alive && ctx.Status&(vm.StatusWait|vm.StatusSleep) == 0
}
