package vm

import (
	"rfvp/internal/decode"
	"rfvp/internal/syscall"
	"rfvp/internal/trace"
	"rfvp/internal/value"
	"rfvp/internal/vmerr"
)

// StepOutcome tells the scheduler what happened this Step call, so it
// doesn't need to re-read status bits to decide whether to re-invoke
// the context within the same tick (SPEC_FULL's C3 expansion).
type StepOutcome int

const (
	Continue StepOutcome = iota
	Yielded
	Exited
	Fatal
)

// Step decodes and executes one instruction of ctx's program, per
// spec.md §4.3. code is the .hcb file's code section; charset selects
// NLS decoding for PushString; table/m back Syscall dispatch; r is the
// trace sink (nil tolerated).
func Step(ctx *Context, code []byte, charset decode.Charset, table syscall.Table, m syscall.Machine, r *trace.Ring) StepOutcome {
	if !ctx.Alive {
		return Exited
	}
	if ctx.Status&StatusWait != 0 && ctx.WaitRemainingMs > 0 {
		return Yielded
	}

	ctx.ShouldYield = false

	inst, nextPC, err := decode.DecodeAt(code, ctx.PC)
	if err != nil {
		return fail(ctx, r, err)
	}
	ctx.PC = nextPC

	if err := execute(ctx, inst, charset, table, m, r); err != nil {
		return fail(ctx, r, err)
	}

	if !ctx.Alive {
		return Exited
	}
	if ctx.ShouldYield {
		return Yielded
	}
	return Continue
}

func fail(ctx *Context, r *trace.Ring, err error) StepOutcome {
	kind := vmerr.ResourceNotFound
	if e, ok := vmerr.As(err); ok {
		kind = e.Kind
	}
	if r != nil {
		r.Logf(trace.CategoryVM, trace.LevelWarn, "context %d: %v", ctx.ID, err)
	}
	if kind.TerminatesContext() || kind.Fatal() {
		ctx.Alive = false
		ctx.Status = 0
		return Fatal
	}
	return Continue
}

func execute(ctx *Context, inst decode.Instruction, charset decode.Charset, table syscall.Table, m syscall.Machine, r *trace.Ring) error {
	switch inst.Op {
	case decode.Nop:
		return nil

	case decode.InitStack:
		for i := int8(0); i < inst.Locals; i++ {
			if err := ctx.Push(value.Nil_()); err != nil {
				return err
			}
		}
		ctx.FrameBase = uint32(len(ctx.Stack)) - uint32(inst.Locals)
		if len(ctx.CallStack) > 0 {
			ctx.CallStack[len(ctx.CallStack)-1].LocalsCount = inst.Locals
		}
		return nil

	case decode.Call:
		if len(ctx.CallStack) >= MaxCallDepth {
			return vmerr.Newf(vmerr.StackOverflow, "context %d: call depth exceeded", ctx.ID)
		}
		ctx.CallStack = append(ctx.CallStack, Frame{ReturnPC: ctx.PC, PrevFrameBase: ctx.FrameBase})
		ctx.PC = inst.Target
		return nil

	case decode.Syscall:
		return execSyscall(ctx, inst.SyscallID, table, m)

	case decode.Ret:
		return doReturn(ctx)

	case decode.RetV:
		v, err := ctx.Pop()
		if err != nil {
			return err
		}
		ctx.ReturnRegister = v
		return doReturn(ctx)

	case decode.Jmp:
		ctx.PC = inst.Target
		return nil

	case decode.Jz:
		v, err := ctx.Pop()
		if err != nil {
			return err
		}
		if !v.Truthy() {
			ctx.PC = inst.Target
		}
		return nil

	case decode.PushNil:
		return ctx.Push(value.Nil_())
	case decode.PushTrue:
		return ctx.Push(value.NewBool(true))
	case decode.PushI8:
		return ctx.Push(value.NewInt(int32(inst.I8)))
	case decode.PushI16:
		return ctx.Push(value.NewInt(int32(inst.I16)))
	case decode.PushI32:
		return ctx.Push(value.NewInt(inst.I32))
	case decode.PushF32:
		return ctx.Push(value.NewFloat(inst.F32))
	case decode.PushString:
		return ctx.Push(value.NewDynString(decode.ToUTF8(inst.Str, charset, r)))
	case decode.PushGlobal:
		return ctx.Push(m.Globals().Get(inst.GlobalIdx))
	case decode.PushStack:
		v, err := ctx.PeekAt(inst.I8)
		if err != nil {
			return err
		}
		return ctx.Push(v)
	case decode.PushTop:
		v, err := ctx.Top()
		if err != nil {
			return err
		}
		return ctx.Push(v)
	case decode.PushReturn:
		return ctx.Push(ctx.ReturnRegister)

	case decode.PushGlobalTable:
		key, err := ctx.Pop()
		if err != nil {
			return err
		}
		tbl := m.Globals().Get(inst.GlobalIdx)
		return ctx.Push(m.Globals().Tables().Get(tbl.Table(), key))
	case decode.PushLocalTable:
		key, err := ctx.Pop()
		if err != nil {
			return err
		}
		tbl, err := ctx.PeekAt(inst.I8)
		if err != nil {
			return err
		}
		return ctx.Push(m.Globals().Tables().Get(tbl.Table(), key))

	case decode.PopGlobal:
		v, err := ctx.Pop()
		if err != nil {
			return err
		}
		m.Globals().Set(inst.GlobalIdx, v)
		return nil
	case decode.PopStack:
		v, err := ctx.Pop()
		if err != nil {
			return err
		}
		return ctx.ReplaceAt(inst.I8, v)
	case decode.PopGlobalTable:
		v, err := ctx.Pop()
		if err != nil {
			return err
		}
		key, err := ctx.Pop()
		if err != nil {
			return err
		}
		tbl := m.Globals().Get(inst.GlobalIdx)
		m.Globals().Tables().Set(tbl.Table(), key, v)
		return nil
	case decode.PopLocalTable:
		v, err := ctx.Pop()
		if err != nil {
			return err
		}
		key, err := ctx.Pop()
		if err != nil {
			return err
		}
		tbl, err := ctx.PeekAt(inst.I8)
		if err != nil {
			return err
		}
		m.Globals().Tables().Set(tbl.Table(), key, v)
		return nil

	case decode.Neg:
		a, err := ctx.Pop()
		if err != nil {
			return err
		}
		v, err := value.Neg(a)
		if err != nil {
			return err
		}
		return ctx.Push(v)

	default:
		if idx := inst.Op.ArithIndex(); idx >= 0 {
			return execArith(ctx, idx)
		}
		if idx := inst.Op.CompareIndex(); idx >= 0 {
			return execCompare(ctx, idx)
		}
		return vmerr.Newf(vmerr.InvalidPc, "context %d: unhandled opcode %v", ctx.ID, inst.Op)
	}
}

func execArith(ctx *Context, idx int) error {
	b, err := ctx.Pop()
	if err != nil {
		return err
	}
	a, err := ctx.Pop()
	if err != nil {
		return err
	}
	var v value.Value
	switch idx {
	case 0:
		v, err = value.Add(a, b)
	case 1:
		v, err = value.Sub(a, b)
	case 2:
		v, err = value.Mul(a, b)
	case 3:
		v, err = value.Div(a, b)
	case 4:
		v, err = value.Mod(a, b)
	case 5:
		v = value.And(a, b)
	case 6:
		v = value.Or(a, b)
	case 7:
		v = value.Xor(a, b)
	}
	if err != nil {
		return err
	}
	return ctx.Push(v)
}

func execCompare(ctx *Context, idx int) error {
	b, err := ctx.Pop()
	if err != nil {
		return err
	}
	a, err := ctx.Pop()
	if err != nil {
		return err
	}
	v, err := value.Compare(value.CompareOp(idx), a, b)
	if err != nil {
		return err
	}
	return ctx.Push(v)
}

func doReturn(ctx *Context) error {
	ctx.TruncateFrame()
	if len(ctx.CallStack) == 0 {
		// Returning from the entry frame exits the context (thread body
		// ran to completion without an explicit ThreadExit).
		ctx.Alive = false
		ctx.Status = 0
		return nil
	}
	top := ctx.CallStack[len(ctx.CallStack)-1]
	ctx.CallStack = ctx.CallStack[:len(ctx.CallStack)-1]
	ctx.PC = top.ReturnPC
	ctx.FrameBase = top.PrevFrameBase
	return nil
}

func execSyscall(ctx *Context, syscallID uint16, table syscall.Table, m syscall.Machine) error {
	if int(syscallID) >= len(table) {
		return vmerr.Newf(vmerr.UnknownSyscallAtCall, "context %d: syscall id %d out of range", ctx.ID, syscallID)
	}
	d := table[syscallID]
	if len(ctx.Stack) < d.Arity {
		return vmerr.Newf(vmerr.StackUnderflow, "context %d: syscall %q needs %d args, stack has %d", ctx.ID, d.Name, d.Arity, len(ctx.Stack))
	}
	args := ctx.Stack[len(ctx.Stack)-d.Arity:]
	argsCopy := append([]value.Value(nil), args...)
	ctx.Stack = ctx.Stack[:len(ctx.Stack)-d.Arity]

	res := d.Handler(m, ctx.ID, argsCopy)
	switch res.Kind {
	case syscall.ResultValue:
		ctx.Status &^= (StatusWait | StatusDissolve)
		ctx.ReturnRegister = res.Value
		if d.Blocking {
			ctx.ShouldYield = true
		}
		return ctx.Push(ctx.ReturnRegister)
	case syscall.ResultWait:
		// Time/signal-based blocking (ThreadNext/Wait/Sleep): for Wait/
		// Sleep the handler already parked ctx via Machine.Threads(),
		// setting its Wait/Sleep bit and wait_remaining_ms directly;
		// ThreadNext sets no bit. pc stays advanced
		// past this instruction; the context simply yields this tick.
		ctx.ReturnRegister = value.Nil_()
		ctx.ShouldYield = true
		return ctx.Push(value.Nil_())
	case syscall.ResultRetry:
		// Condition-based blocking with no countdown of its own (e.g.
		// DissolveWait): park on the Dissolve bit and rewind pc so the
		// same Syscall instruction (1 opcode byte + u16 id) re-decodes
		// and re-invokes the handler every subsequent tick. No push here:
		// the instruction hasn't returned yet, so nothing goes on the
		// stack until a later tick's ResultValue pushes it exactly once.
		ctx.Status |= StatusDissolve
		ctx.ShouldYield = true
		ctx.PC -= 3
		return nil
	case syscall.ResultFail:
		return &vmerr.Error{Kind: res.FailKind, Msg: "syscall " + d.Name + " failed"}
	default:
		return ctx.Push(value.Nil_())
	}
}
