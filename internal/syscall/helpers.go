package syscall

import (
	"rfvp/internal/prim"
	"rfvp/internal/value"
	"rfvp/internal/vmerr"
)

// nodeOrZero reads a node's current state for seeding a motion's src,
// tolerating an out-of-range id (Tree.Node returns nil for ids >=
// NumNodes, since a script can push any int32 as a prim id).
func nodeOrZero(t *prim.Tree, id uint16) prim.Node {
	if n := t.Node(id); n != nil {
		return *n
	}
	return prim.Node{}
}

// vmerrKind extracts the vmerr.Kind from an error returned by a lower
// package (e.g. prim.Tree.Attach's CycleDetected), defaulting to
// ResourceNotFound for anything that isn't a *vmerr.Error.
func vmerrKind(err error) vmerr.Kind {
	if e, ok := vmerr.As(err); ok {
		return e.Kind
	}
	return vmerr.ResourceNotFound
}

// argI16/argU16/argU8/argBool/argF32 tolerate both Int and Float
// operands (scripts routinely push integer literals for what the
// handler treats as a coordinate or duration), truncating as needed.
// Out-of-range argument counts are the caller's (decoder/loader's)
// responsibility via Descriptor.Arity; handlers index defensively with
// a zero-value fallback rather than panicking on a short args slice.

func argAt(args []value.Value, i int) value.Value {
	if i < 0 || i >= len(args) {
		return value.Nil_()
	}
	return args[i]
}

func argInt32(args []value.Value, i int) int32 {
	v := argAt(args, i)
	switch v.Kind() {
	case value.Float:
		return int32(v.Float())
	default:
		return v.Int()
	}
}

func argI16(args []value.Value, i int) int16 { return int16(argInt32(args, i)) }
func argU16(args []value.Value, i int) uint16 { return uint16(argInt32(args, i)) }
func argU8(args []value.Value, i int) uint8   { return uint8(argInt32(args, i)) }
func argBool(args []value.Value, i int) bool  { return argAt(args, i).Truthy() }

func argFloat32(args []value.Value, i int) float32 {
	v := argAt(args, i)
	switch v.Kind() {
	case value.Int:
		return float32(v.Int())
	default:
		return v.Float()
	}
}

func argString(args []value.Value, i int) string {
	v := argAt(args, i)
	if v.Kind() == value.DynString {
		return v.DynString()
	}
	return ""
}

func argPrimID(args []value.Value, i int) uint16 { return argU16(args, i) }

func curveArg(args []value.Value, i int) int32 { return argInt32(args, i) }
