// Package decode implements the bytecode decoder (C2): the dense,
// stable opcode table (spec.md §6) and NLS string-to-UTF-8 decoding.
// Ground: teacher's internal/cpu fetch/decode shape (FetchInstruction
// reading a fixed-width word, advancing pc, ExecuteInstruction
// switching on opcode) generalized from cpu's 16-bit fixed-width word
// to this format's 1-byte-opcode-plus-variable-operands encoding.
package decode

import "rfvp/internal/vmerr"

// Op is one decoded opcode.
type Op uint8

const (
	Nop Op = iota
	InitStack
	Call
	Syscall
	Ret
	RetV
	Jmp
	Jz
	PushNil
	PushTrue
	PushI8
	PushI16
	PushI32
	PushF32
	PushString
	PushGlobal
	PushStack
	PushTop
	PushGlobalTable
	PushLocalTable
	PushReturn
	PopGlobal
	PopStack
	PopGlobalTable
	PopLocalTable
	Neg
	// Arithmetic/bitwise family, 8 opcodes: Add Sub Mul Div Mod And Or Xor.
	Add
	Sub
	Mul
	Div
	Mod
	And
	Or
	Xor
	// Comparison family, 6 opcodes: SetE SetNE SetG SetGE SetL SetLE.
	SetE
	SetNE
	SetG
	SetGE
	SetL
	SetLE
)

// ArithIndex returns op's 0-based offset within the Add..Xor family
// (0=Add .. 7=Xor), or -1 if op isn't in that family.
func (op Op) ArithIndex() int {
	if op >= Add && op <= Xor {
		return int(op - Add)
	}
	return -1
}

// CompareIndex returns op's 0-based offset within the SetE..SetLE
// family (0=SetE .. 5=SetLE), or -1 if op isn't in that family.
func (op Op) CompareIndex() int {
	if op >= SetE && op <= SetLE {
		return int(op - SetE)
	}
	return -1
}

func (op Op) String() string {
	names := [...]string{
		"Nop", "InitStack", "Call", "Syscall", "Ret", "RetV", "Jmp", "Jz",
		"PushNil", "PushTrue", "PushI8", "PushI16", "PushI32", "PushF32",
		"PushString", "PushGlobal", "PushStack", "PushTop", "PushGlobalTable",
		"PushLocalTable", "PushReturn", "PopGlobal", "PopStack",
		"PopGlobalTable", "PopLocalTable", "Neg",
		"Add", "Sub", "Mul", "Div", "Mod", "And", "Or", "Xor",
		"SetE", "SetNE", "SetG", "SetGE", "SetL", "SetLE",
	}
	if int(op) < len(names) {
		return names[op]
	}
	return "Unknown"
}

// Instruction is one decoded opcode plus whichever operand fields it
// uses; unused fields are zero.
type Instruction struct {
	Op        Op
	Target    uint32 // Call, Jmp, Jz
	SyscallID uint16
	GlobalIdx uint16
	I8        int8 // InitStack args, PushStack/PopStack offset, PushLocalTable/PopLocalTable idx
	Locals    int8 // InitStack locals
	I16       int16
	I32       int32
	F32       float32
	Str       []byte // PushString raw bytes, pre-NLS-decode
}

// DecodeAt decodes the instruction at pc within code, returning it and
// the offset of the following instruction. Any read past the end of
// code is InvalidPc (fail-closed, per spec.md §4.2).
func DecodeAt(code []byte, pc uint32) (Instruction, uint32, error) {
	r := reader{code: code, pos: pc}
	op, err := r.u8()
	if err != nil {
		return Instruction{}, 0, err
	}
	inst := Instruction{Op: Op(op)}

	switch Op(op) {
	case Nop, Ret, PushNil, PushTrue, PushTop, PushReturn, Neg:
		// no operands
	case InitStack:
		args, err := r.i8()
		if err != nil {
			return Instruction{}, 0, err
		}
		locals, err := r.i8()
		if err != nil {
			return Instruction{}, 0, err
		}
		inst.I8, inst.Locals = args, locals
	case Call, Jmp, Jz:
		v, err := r.u32()
		if err != nil {
			return Instruction{}, 0, err
		}
		inst.Target = v
	case Syscall:
		v, err := r.u16()
		if err != nil {
			return Instruction{}, 0, err
		}
		inst.SyscallID = v
	case RetV:
		// no operands
	case PushI8:
		v, err := r.i8()
		if err != nil {
			return Instruction{}, 0, err
		}
		inst.I8 = v
	case PushI16:
		v, err := r.i16()
		if err != nil {
			return Instruction{}, 0, err
		}
		inst.I16 = v
	case PushI32:
		v, err := r.i32()
		if err != nil {
			return Instruction{}, 0, err
		}
		inst.I32 = v
	case PushF32:
		v, err := r.f32()
		if err != nil {
			return Instruction{}, 0, err
		}
		inst.F32 = v
	case PushString:
		v, err := r.lenPrefixedBytes()
		if err != nil {
			return Instruction{}, 0, err
		}
		inst.Str = v
	case PushGlobal, PopGlobal, PushGlobalTable, PopGlobalTable:
		v, err := r.u16()
		if err != nil {
			return Instruction{}, 0, err
		}
		inst.GlobalIdx = v
	case PushStack, PopStack, PushLocalTable, PopLocalTable:
		v, err := r.i8()
		if err != nil {
			return Instruction{}, 0, err
		}
		inst.I8 = v
	default:
		if op >= byte(Add) && op <= byte(SetLE) {
			// no operands: pairwise arithmetic/compare ops
		} else {
			return Instruction{}, 0, vmerr.Newf(vmerr.InvalidPc, "unknown opcode 0x%02X at pc=%d", op, pc)
		}
	}

	return inst, r.pos, nil
}
