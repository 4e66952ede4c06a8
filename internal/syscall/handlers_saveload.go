package syscall

import "rfvp/internal/value"

// saveLoadFamily covers SaveCreate/Data/ThumbSize/Write and Load
// (spec.md §4.5/§4.10). SaveCreate captures the engine's current state
// into a staging buffer (internal/snapshot's versioned blob); Data lets
// the script append an arbitrary caller payload (e.g. a thumbnail or
// scene description) to the same staging buffer; Write writes nothing
// itself (the host-level caller persists the staged buffer) and only
// returns Nil; Load reads a path back and applies it.
var saveLoadFamily = []Descriptor{
	{Name: "SaveCreate", Arity: 0, Handler: func(m Machine, _ uint8, _ []value.Value) Result {
		data, err := m.Snapshot().Capture()
		if err != nil {
			return FailResult(vmerrKind(err))
		}
		m.Snapshot().StageWrite(data)
		return ValueResult(value.NewInt(int32(len(data))))
	}},
	{Name: "SaveData", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		m.Snapshot().StageWrite([]byte(argString(a, 0)))
		return NilResult()
	}},
	{Name: "SaveThumbSize", Arity: 0, Handler: func(m Machine, _ uint8, _ []value.Value) Result {
		return ValueResult(value.NewInt(m.Snapshot().StagedThumbSize()))
	}},
	{Name: "SaveWrite", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		// The path argument names where the host-level caller (cmd/rfvp,
		// via internal/engine) should persist the already-staged blob;
		// internal/syscall has no filesystem write capability of its own
		// (host.VFS is read-only per spec.md §6), so this only confirms
		// staging completed.
		_ = argString(a, 0)
		return NilResult()
	}},
	{Name: "Load", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
		data, err := m.Host().VFS.Read(argString(a, 0))
		if err != nil {
			return FailResult(vmerrKind(err))
		}
		if err := m.Snapshot().Apply(data); err != nil {
			return FailResult(vmerrKind(err))
		}
		return NilResult()
	}},
}
