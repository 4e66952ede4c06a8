// Package host defines the engine's external surface: clock, input,
// virtual filesystem, audio mixer, and renderer, bundled behind a
// single Surface passed explicitly to the scheduler and every syscall
// handler. Ground: teacher's internal/emulator/emulator.go wiring
// style (explicit *CPU/*PPU/*APU/*InputSystem fields threaded through
// method calls rather than package-level state) combined with DESIGN
// NOTES' "no ambient singletons" mandate from spec.md §9.
package host

// InputState is one frame's input snapshot (spec.md §6).
type InputState struct {
	Pressed  uint64
	Down     uint64
	Up       uint64
	CursorX  int32
	CursorY  int32
	CursorIn bool
	Wheel    int32
}

// Clock supplies the frame delta, in milliseconds. A negative value is
// the "fast-forward/skip" signal; FastForwardSentinel is the "instant
// complete" signal.
type Clock interface {
	DtMs() int64
}

// FastForwardSentinel is the host's u32::MAX instant-complete signal,
// carried as int64 so Clock.DtMs's sign convention (negative = regular
// fast-forward) stays uniform.
const FastForwardSentinel int64 = 1<<32 - 1

// Input supplies the current frame's input snapshot.
type Input interface {
	Snapshot() InputState
}

// VFS is the read-only virtual filesystem the core loads bytecode,
// textures, and audio sources from.
type VFS interface {
	Read(path string) ([]byte, error)
}

// AudioHandle is an opaque playback handle returned by a mixer's Play.
type AudioHandle uint64

// NoHandle is the zero value meaning "nothing playing".
const NoHandle AudioHandle = 0

// AudioMixer is the host-owned audio backend. internal/audio owns slot
// bookkeeping and decides when to call the mixer; the mixer owns
// decoding, resampling, and actual playback.
type AudioMixer interface {
	Play(data []byte, repeat bool, volume, pan float32) (AudioHandle, error)
	Stop(h AudioHandle)
	SetVolume(h AudioHandle, volume float32)
	SetPan(h AudioHandle, pan float32)
	IsPlaying(h AudioHandle) bool
}

// Renderer consumes a read-only view of the primitive tree once per
// tick. The core never reads it back.
type Renderer interface {
	Submit(tree PrimitiveTreeView)
}

// PrimitiveTreeView is the renderer-facing read view of the primitive
// tree; kept as an interface here (rather than importing internal/prim
// directly) so internal/host has no dependency on internal/prim.
type PrimitiveTreeView interface {
	VisitDrawOrder(visit func(id uint16))
}

// Surface bundles every host-owned source/sink the core consumes.
type Surface struct {
	Clock    Clock
	Input    Input
	VFS      VFS
	Audio    AudioMixer
	Renderer Renderer
}
