// Package value implements the VM's tagged runtime value and the table
// store backing script-visible tables. Ground: the tagged-union style
// mirrors how the teacher's cpu.CPUState keeps a flat, explicit set of
// typed fields rather than an interface{} bag; here the sum type is the
// natural generalization since bytecode values are heterogeneous.
package value

import "fmt"

// Kind tags the active member of a Value.
type Kind uint8

const (
	Nil Kind = iota
	Bool
	Int
	Float
	ConstString
	DynString
	Table
)

// Value is the VM's tagged runtime value. Only the fields relevant to
// Kind are meaningful; the rest are zero.
type Value struct {
	kind Kind

	b bool
	i int32
	f float32

	// ConstString: offset/len into the bytecode's string pool.
	strOffset uint32
	strLen    uint32

	// DynString: owned text, heap-allocated by the VM (e.g. via
	// IntToText/FloatToInt-family syscalls).
	dyn string

	// Table: id into a TableStore.
	table TableID
}

func (v Value) Kind() Kind { return v.kind }

func Nil_() Value                { return Value{kind: Nil} }
func NewBool(b bool) Value        { return Value{kind: Bool, b: b} }
func NewInt(i int32) Value        { return Value{kind: Int, i: i} }
func NewFloat(f float32) Value     { return Value{kind: Float, f: f} }
func NewDynString(s string) Value { return Value{kind: DynString, dyn: s} }
func NewTable(id TableID) Value   { return Value{kind: Table, table: id} }

func NewConstString(offset, length uint32) Value {
	return Value{kind: ConstString, strOffset: offset, strLen: length}
}

func (v Value) Bool() bool          { return v.b }
func (v Value) Int() int32          { return v.i }
func (v Value) Float() float32      { return v.f }
func (v Value) DynString() string   { return v.dyn }
func (v Value) Table() TableID      { return v.table }
func (v Value) ConstStringSpan() (offset, length uint32) { return v.strOffset, v.strLen }

// Truthy implements the spec's truthiness rule: non-zero numeric,
// non-empty string, any table, or true boolean; nil and false are
// falsey.
func (v Value) Truthy() bool {
	switch v.kind {
	case Nil:
		return false
	case Bool:
		return v.b
	case Int:
		return v.i != 0
	case Float:
		return v.f != 0
	case ConstString:
		return v.strLen > 0
	case DynString:
		return len(v.dyn) > 0
	case Table:
		return true
	default:
		return false
	}
}

// Equal implements tag-then-value equality. Values of different kinds
// are never equal, even Int vs Float.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Nil:
		return true
	case Bool:
		return v.b == o.b
	case Int:
		return v.i == o.i
	case Float:
		return v.f == o.f
	case ConstString:
		return v.strOffset == o.strOffset && v.strLen == o.strLen
	case DynString:
		return v.dyn == o.dyn
	case Table:
		return v.table == o.table
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.kind {
	case Nil:
		return "nil"
	case Bool:
		return fmt.Sprintf("%v", v.b)
	case Int:
		return fmt.Sprintf("%d", v.i)
	case Float:
		return fmt.Sprintf("%g", v.f)
	case ConstString:
		return fmt.Sprintf("<const@%d,%d>", v.strOffset, v.strLen)
	case DynString:
		return v.dyn
	case Table:
		return fmt.Sprintf("<table#%d>", v.table)
	default:
		return "<invalid>"
	}
}
