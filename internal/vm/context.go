// Package vm implements the VM Context (C3): a single cooperatively
// scheduled coroutine — program counter, operand stack, call frames,
// and wait state — plus the Step function that decodes and executes
// one instruction at a time. Ground: teacher's internal/cpu.CPUState
// (explicit register/flag/PC fields, a Step-shaped fetch/execute loop)
// generalized from a fixed register file to an operand-stack machine
// with explicit call frames, since rfvp's bytecode is stack-based
// rather than register-based.
package vm

import (
	"rfvp/internal/value"
	"rfvp/internal/vmerr"
)

// Status is a bitmask of a Context's scheduling state.
type Status uint8

const (
	StatusRunning Status = 1 << iota
	StatusWait
	StatusSleep
	StatusDissolve
)

// MaxStack bounds a single context's operand stack; exceeding it is
// StackOverflow (fatal to the context), per spec.md §4.1.
const MaxStack = 2048

// MaxCallDepth bounds a single context's call stack.
const MaxCallDepth = 256

// Frame is one call-stack record, pushed by Call and popped by Ret/RetV.
type Frame struct {
	ReturnPC      uint32
	PrevFrameBase uint32
	LocalsCount   int8
}

// Context is one VM coroutine (spec.md §3's "VM Context").
type Context struct {
	ID uint8

	PC             uint32
	Stack          []value.Value
	FrameBase      uint32
	CallStack      []Frame
	ReturnRegister value.Value

	Status          Status
	WaitRemainingMs int64
	ShouldYield     bool

	Alive bool
}

// NewContext creates a context at pc, in Running state.
func NewContext(id uint8, pc uint32) *Context {
	return &Context{
		ID:     id,
		PC:     pc,
		Stack:  make([]value.Value, 0, 64),
		Status: StatusRunning,
		Alive:  true,
	}
}

// Reset reinitializes ctx in place for reuse at a new pc. The
// scheduler's thread_start does not use it; it installs a fresh
// NewContext in the freed slot instead.
func (ctx *Context) Reset(pc uint32) {
	ctx.PC = pc
	ctx.Stack = ctx.Stack[:0]
	ctx.FrameBase = 0
	ctx.CallStack = ctx.CallStack[:0]
	ctx.ReturnRegister = value.Nil_()
	ctx.Status = StatusRunning
	ctx.WaitRemainingMs = 0
	ctx.ShouldYield = false
	ctx.Alive = true
}

func (ctx *Context) Push(v value.Value) error {
	if len(ctx.Stack) >= MaxStack {
		return vmerr.Newf(vmerr.StackOverflow, "context %d: stack overflow at depth %d", ctx.ID, len(ctx.Stack))
	}
	ctx.Stack = append(ctx.Stack, v)
	return nil
}

func (ctx *Context) Pop() (value.Value, error) {
	if len(ctx.Stack) == 0 {
		return value.Value{}, vmerr.Newf(vmerr.StackUnderflow, "context %d: pop on empty stack", ctx.ID)
	}
	v := ctx.Stack[len(ctx.Stack)-1]
	ctx.Stack = ctx.Stack[:len(ctx.Stack)-1]
	return v, nil
}

func (ctx *Context) Top() (value.Value, error) {
	if len(ctx.Stack) == 0 {
		return value.Value{}, vmerr.Newf(vmerr.StackUnderflow, "context %d: top of empty stack", ctx.ID)
	}
	return ctx.Stack[len(ctx.Stack)-1], nil
}

// PeekAt reads a stack-relative slot: offset is relative to FrameBase,
// negative addressing the caller-visible arguments below it.
func (ctx *Context) PeekAt(offset int8) (value.Value, error) {
	idx := int64(ctx.FrameBase) + int64(offset)
	if idx < 0 || idx >= int64(len(ctx.Stack)) {
		return value.Value{}, vmerr.Newf(vmerr.StackUnderflow, "context %d: peek_at(%d) out of range (frame_base=%d, len=%d)", ctx.ID, offset, ctx.FrameBase, len(ctx.Stack))
	}
	return ctx.Stack[idx], nil
}

// ReplaceAt writes a stack-relative slot (see PeekAt).
func (ctx *Context) ReplaceAt(offset int8, v value.Value) error {
	idx := int64(ctx.FrameBase) + int64(offset)
	if idx < 0 || idx >= int64(len(ctx.Stack)) {
		return vmerr.Newf(vmerr.StackOverflow, "context %d: replace_at(%d) out of range (frame_base=%d, len=%d)", ctx.ID, offset, ctx.FrameBase, len(ctx.Stack))
	}
	ctx.Stack[idx] = v
	return nil
}

// TruncateFrame drops every value above FrameBase, used when a frame's
// locals are discarded on Ret/RetV.
func (ctx *Context) TruncateFrame() {
	if int(ctx.FrameBase) <= len(ctx.Stack) {
		ctx.Stack = ctx.Stack[:ctx.FrameBase]
	}
}
