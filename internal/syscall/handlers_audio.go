package syscall

import (
	"rfvp/internal/audio"
	"rfvp/internal/value"
)

// audioFamilyFor builds the Load/Play/Stop/Vol/Type/SilentOn/IsPlaying
// syscall set for one audio.Manager (BGM or SE), per spec.md §4.5/§4.9.
// Play re-reads the slot's loaded source path from the manager (set by
// a prior *Load call) and resolves it through the host VFS; the mixer
// itself only ever sees raw bytes, never a path or slot index.
func audioFamilyFor(prefix string, mgr func(Machine) *audio.Manager) []Descriptor {
	return []Descriptor{
		{Name: prefix + "Load", Arity: 2, Handler: func(m Machine, _ uint8, a []value.Value) Result {
			mgr(m).Load(int(argInt32(a, 0)), argString(a, 1))
			return NilResult()
		}},
		{Name: prefix + "Play", Arity: 4, Handler: func(m Machine, _ uint8, a []value.Value) Result {
			slot := int(argInt32(a, 0))
			repeat := argBool(a, 1)
			volume := argFloat32(a, 2)
			pan := argFloat32(a, 3)
			path := mgr(m).Slot(slot).SourcePath
			data, err := m.Host().VFS.Read(path)
			if err != nil {
				return FailResult(vmerrKind(err))
			}
			_ = mgr(m).Play(slot, data, repeat, volume, pan)
			return NilResult()
		}},
		{Name: prefix + "Stop", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
			mgr(m).Stop(int(argInt32(a, 0)))
			return NilResult()
		}},
		{Name: prefix + "Vol", Arity: 2, Handler: func(m Machine, _ uint8, a []value.Value) Result {
			mgr(m).SetVolume(int(argInt32(a, 0)), argFloat32(a, 1))
			return NilResult()
		}},
		{Name: prefix + "Type", Arity: 2, Handler: func(m Machine, _ uint8, a []value.Value) Result {
			mgr(m).SetType(int(argInt32(a, 0)), argInt32(a, 1))
			return NilResult()
		}},
		{Name: prefix + "SilentOn", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
			mgr(m).SilentOn(int(argInt32(a, 0)))
			return NilResult()
		}},
		{Name: prefix + "SilentOff", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
			mgr(m).SilentOff(int(argInt32(a, 0)))
			return NilResult()
		}},
		{Name: prefix + "IsPlaying", Arity: 1, Handler: func(m Machine, _ uint8, a []value.Value) Result {
			return ValueResult(value.NewBool(mgr(m).IsPlaying(int(argInt32(a, 0)))))
		}},
	}
}

func bgmFamily() []Descriptor {
	return audioFamilyFor("Bgm", func(m Machine) *audio.Manager { return m.BGM() })
}

func seFamily() []Descriptor {
	return audioFamilyFor("Se", func(m Machine) *audio.Manager { return m.SE() })
}
