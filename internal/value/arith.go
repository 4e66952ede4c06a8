package value

import "rfvp/internal/vmerr"

// Add, Sub, Mul, Div, Mod implement the numeric coercions: Int⊕Int→Int,
// any operand Float→Float. Strings are never concatenated in-VM.
//
// Div/Mod by zero on Int is recovered to 0 (legacy determinism, spec.md
// §7 DivideByZeroInt). On Float, Div by zero follows IEEE-754 (±Inf /
// NaN) and Mod by zero returns 0.

func bothInt(a, b Value) bool { return a.kind == Int && b.kind == Int }

func asFloat(v Value) (float32, error) {
	switch v.kind {
	case Int:
		return float32(v.i), nil
	case Float:
		return v.f, nil
	default:
		return 0, vmerr.Newf(vmerr.TypeMismatch, "expected numeric value, got %v", v.kind)
	}
}

func Add(a, b Value) (Value, error) {
	if bothInt(a, b) {
		return NewInt(a.i + b.i), nil
	}
	af, err := asFloat(a)
	if err != nil {
		return Value{}, err
	}
	bf, err := asFloat(b)
	if err != nil {
		return Value{}, err
	}
	return NewFloat(af + bf), nil
}

func Sub(a, b Value) (Value, error) {
	if bothInt(a, b) {
		return NewInt(a.i - b.i), nil
	}
	af, err := asFloat(a)
	if err != nil {
		return Value{}, err
	}
	bf, err := asFloat(b)
	if err != nil {
		return Value{}, err
	}
	return NewFloat(af - bf), nil
}

func Mul(a, b Value) (Value, error) {
	if bothInt(a, b) {
		return NewInt(a.i * b.i), nil
	}
	af, err := asFloat(a)
	if err != nil {
		return Value{}, err
	}
	bf, err := asFloat(b)
	if err != nil {
		return Value{}, err
	}
	return NewFloat(af * bf), nil
}

func Div(a, b Value) (Value, error) {
	if bothInt(a, b) {
		if b.i == 0 {
			return NewInt(0), nil // DivideByZeroInt: recovered to 0
		}
		return NewInt(a.i / b.i), nil
	}
	af, err := asFloat(a)
	if err != nil {
		return Value{}, err
	}
	bf, err := asFloat(b)
	if err != nil {
		return Value{}, err
	}
	return NewFloat(af / bf), nil // IEEE-754 semantics (±Inf, NaN) on zero
}

func Mod(a, b Value) (Value, error) {
	if bothInt(a, b) {
		if b.i == 0 {
			return NewInt(0), nil
		}
		return NewInt(a.i % b.i), nil
	}
	af, err := asFloat(a)
	if err != nil {
		return Value{}, err
	}
	bf, err := asFloat(b)
	if err != nil {
		return Value{}, err
	}
	if bf == 0 {
		return NewFloat(float32(0)), nil
	}
	m := af - bf*float32(int64(af/bf))
	return NewFloat(m), nil
}

func Neg(a Value) (Value, error) {
	switch a.kind {
	case Int:
		return NewInt(-a.i), nil
	case Float:
		return NewFloat(-a.f), nil
	default:
		return Value{}, vmerr.Newf(vmerr.TypeMismatch, "expected numeric value, got %v", a.kind)
	}
}

// And, Or implement the spec's mixed-tag rule: bitwise on Int, logical
// on Bool; mixing tags coerces both operands to truthiness and applies
// the logical form. See spec.md §4.3 and the Open Question in §9 — this
// resolves it by matching the most-used legacy path.
func And(a, b Value) Value {
	if a.kind == Int && b.kind == Int {
		return NewInt(a.i & b.i)
	}
	return NewBool(a.Truthy() && b.Truthy())
}

func Or(a, b Value) Value {
	if a.kind == Int && b.kind == Int {
		return NewInt(a.i | b.i)
	}
	return NewBool(a.Truthy() || b.Truthy())
}

// Xor mirrors And/Or's mixed-tag resolution: bitwise on Int, logical
// (not-equal truthiness) otherwise.
func Xor(a, b Value) Value {
	if a.kind == Int && b.kind == Int {
		return NewInt(a.i ^ b.i)
	}
	return NewBool(a.Truthy() != b.Truthy())
}

// BitTest returns true iff (a & b) != 0, Int operands required.
func BitTest(a, b Value) (bool, error) {
	if !bothInt(a, b) {
		return false, vmerr.Newf(vmerr.TypeMismatch, "BitTest requires Int operands, got %v/%v", a.kind, b.kind)
	}
	return (a.i & b.i) != 0, nil
}

// Compare implements the Set{E,NE,G,GE,L,LE} family; numeric operands
// compare by value (promoted like Add), two DynStrings by byte content;
// ordering two ConstStrings is a TypeMismatch, and anything else only
// supports equality/inequality via Equal.
type CompareOp int

const (
	CmpEQ CompareOp = iota
	CmpNE
	CmpGT
	CmpGE
	CmpLT
	CmpLE
)

func Compare(op CompareOp, a, b Value) (Value, error) {
	if op == CmpEQ {
		return NewBool(a.Equal(b)), nil
	}
	if op == CmpNE {
		return NewBool(!a.Equal(b)), nil
	}
	// Ordering comparisons require numeric or matching string operands.
	if (a.kind == DynString || a.kind == ConstString) && a.kind == b.kind {
		var as, bs string
		if a.kind == DynString {
			as, bs = a.dyn, b.dyn
		} else {
			return Value{}, vmerr.Newf(vmerr.TypeMismatch, "cannot order ConstString by content")
		}
		switch op {
		case CmpGT:
			return NewBool(as > bs), nil
		case CmpGE:
			return NewBool(as >= bs), nil
		case CmpLT:
			return NewBool(as < bs), nil
		case CmpLE:
			return NewBool(as <= bs), nil
		}
	}
	af, err := asFloat(a)
	if err != nil {
		return Value{}, err
	}
	bf, err := asFloat(b)
	if err != nil {
		return Value{}, err
	}
	switch op {
	case CmpGT:
		return NewBool(af > bf), nil
	case CmpGE:
		return NewBool(af >= bf), nil
	case CmpLT:
		return NewBool(af < bf), nil
	case CmpLE:
		return NewBool(af <= bf), nil
	default:
		return Value{}, vmerr.Newf(vmerr.TypeMismatch, "unknown compare op %d", op)
	}
}
