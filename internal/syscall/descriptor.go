package syscall

import (
	"rfvp/internal/hcb"
	"rfvp/internal/value"
	"rfvp/internal/vmerr"
)

// ResultKind tags a Handler's outcome (spec.md §4.5).
type ResultKind uint8

const (
	ResultValue ResultKind = iota
	ResultWait
	ResultRetry
	ResultFail
)

// Result is a syscall handler's outcome: a return Value; ResultWait, a
// yield for time/signal-based blocking the handler has already
// recorded on the context via Machine.Threads() (ThreadWait/ThreadSleep
// set the Wait/Sleep bit there; ThreadNext sets none) — the VM sets no
// bit itself and does not re-invoke the syscall; ResultRetry for
// condition-based blocking with no countdown of its own (e.g.
// DissolveWait) — the VM rewinds pc so the same Syscall instruction
// re-decodes and re-invokes the handler every subsequent tick until it
// stops returning ResultRetry; or a failure carrying a vmerr.Kind, which
// ends the caller's context only when that kind is Fatal or
// TerminatesContext (other kinds are logged and execution continues).
type Result struct {
	Kind     ResultKind
	Value    value.Value
	FailKind vmerr.Kind
}

func ValueResult(v value.Value) Result   { return Result{Kind: ResultValue, Value: v} }
func NilResult() Result                  { return Result{Kind: ResultValue, Value: value.Nil_()} }
func WaitResult() Result                 { return Result{Kind: ResultWait} }
func RetryResult() Result                { return Result{Kind: ResultRetry} }
func FailResult(kind vmerr.Kind) Result  { return Result{Kind: ResultFail, FailKind: kind} }

// Handler is a host-side syscall implementation.
type Handler func(m Machine, caller uint8, args []value.Value) Result

// Descriptor is one entry of the build-time ordered syscall table:
// name, arity, whether it is blocking (the calling context yields after
// it returns a value), and its handler.
type Descriptor struct {
	Name     string
	Arity    int
	Blocking bool
	Handler  Handler
}

// Table is the runtime's canonical, build-time ordered syscall list.
type Table []Descriptor

// indexByName is built once per Table for ResolveFileTable lookups.
func (t Table) indexByName() map[string]int {
	m := make(map[string]int, len(t))
	for i, d := range t {
		m[d.Name] = i
	}
	return m
}

// ResolveFileTable maps a .hcb file's embedded syscall descriptors
// (referenced by bytecode via numeric file-local id) to indices into
// the host's canonical Table, by name. An unresolvable name is a hard
// UnknownSyscall error — the load fails outright, per spec.md §4.5
// ("unknown names are hard errors at load").
func ResolveFileTable(fileSyscalls []hcb.SyscallDescriptor, table Table) ([]int, error) {
	byName := table.indexByName()
	out := make([]int, len(fileSyscalls))
	for i, fs := range fileSyscalls {
		name := string(fs.Name)
		idx, ok := byName[name]
		if !ok {
			return nil, vmerr.Newf(vmerr.UnknownSyscall, "no host handler for syscall %q", name)
		}
		out[i] = idx
	}
	return out, nil
}

// BuildFileTable resolves and materializes a Table ordered by the
// .hcb file's own syscall ids, so internal/vm.Step can index straight
// into it with the bytecode's raw Syscall operand — no separate
// file-id-to-host-id translation layer at call time.
func BuildFileTable(fileSyscalls []hcb.SyscallDescriptor, hostTable Table) (Table, error) {
	ids, err := ResolveFileTable(fileSyscalls, hostTable)
	if err != nil {
		return nil, err
	}
	out := make(Table, len(ids))
	for i, hostIdx := range ids {
		out[i] = hostTable[hostIdx]
	}
	return out, nil
}
