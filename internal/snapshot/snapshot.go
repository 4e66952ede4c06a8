// Package snapshot implements the versioned save-state codec (C10): a
// gob-encoded payload describing the primitive tree, the nine motion
// containers, the dissolve machines, the BGM/SE audio slots, the
// global/table stores, and the timer/text state, appended to an
// arbitrary host blob behind the `<payload><u32 len LE>'RFVS'` trailer.
// Ground: teacher's internal/emulator/savestate.go (a single versioned
// gob-encoded struct, `Version uint16` compatibility check, one
// save*State/load*State pair per subsystem) generalized from one fixed
// console's worth of subsystems to rfvp's component set.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"

	"rfvp/internal/audio"
	"rfvp/internal/dissolve"
	"rfvp/internal/host"
	"rfvp/internal/motion"
	"rfvp/internal/prim"
	"rfvp/internal/value"
	"rfvp/internal/vmerr"
)

// CurrentVersion is the payload format this build writes. Loading an
// older version runs it through migrate before use; a newer or
// otherwise unrecognized version is a hard SnapshotVersion error.
const CurrentVersion uint16 = 1

// MaxPayloadBytes bounds a load's payload_len, per spec.md §4.10.
const MaxPayloadBytes = 64 << 20

// trailerMagic is the 4-byte tag appended after payload_len.
var trailerMagic = [4]byte{'R', 'F', 'V', 'S'}

// trailerSize is the fixed-size suffix after the payload: a u32 LE
// length followed by the 4 magic bytes.
const trailerSize = 4 + 4

// TreeState is the exported shape of the primitive tree.
type TreeState struct {
	Nodes      [prim.NumNodes]prim.Node
	CustomRoot uint16
}

// MotionState bundles every container's slot array.
type MotionState struct {
	Alpha     []motion.Slot
	Translate []motion.Slot
	Rotate    []motion.Slot
	Scale     []motion.Slot
	Z         []motion.Slot
	Parts     []motion.Slot
	Snow      []motion.Slot
	V3D       []motion.Slot
	Anim      []motion.AnimSlot
}

// AudioState bundles one manager's slot bookkeeping and category
// volume table.
type AudioState struct {
	Slots      []audio.SlotSnapshot
	TypeVolume map[int32]float32
}

// TableStoreState is the exported shape of a value.TableStore.
type TableStoreState struct {
	Tables map[value.TableID]map[value.Value]value.Value
	NextID value.TableID
}

// TimerState mirrors syscall.TimerState's two fields. Duplicated here
// (rather than importing internal/syscall) to keep internal/snapshot
// free of the syscall-dispatch package; the two structs have identical
// fields, so internal/engine converts a *syscall.TimerState to
// *TimerState by a plain pointer conversion.
type TimerState struct {
	ValueMs   int64
	Suspended bool
}

// TextState mirrors syscall.TextState's five fields (see TimerState's
// note on the duplication). Gaiji is map[rune]int32 here rather than
// map[rune]syscall.GlyphID since GlyphID is an alias for int32 — the
// two map types are identical, which is what lets internal/engine
// convert *syscall.TextState to *TextState by a plain pointer
// conversion instead of a field-by-field copy.
type TextState struct {
	Buffer   string
	ColorRGB uint32
	FontID   int32
	SpeedMs  int32
	Gaiji    map[rune]int32
}

// State is the full gob-encoded payload.
type State struct {
	Version uint16

	Tree    TreeState
	Motions MotionState
	Script  dissolve.State
	Overlay dissolve.State

	BGM AudioState
	SE  AudioState

	Globals []value.Value
	Tables  TableStoreState
	Timer   TimerState
	Text    TextState
}

// Components bundles every live subsystem reference Capture/Apply
// touch, mirroring internal/syscall.Machine's shape without importing
// it (avoiding an import cycle: internal/engine will implement both
// syscall.Machine and syscall.Snapshotter on top of this package).
type Components struct {
	Tree     *prim.Tree
	Motions  *MotionPools
	Dissolve *dissolve.Engine
	BGM      *audio.Manager
	SE       *audio.Manager
	Globals []value.Value
	Tables  *value.TableStore
	Timer   *TimerState
	Text    *TextState
	VFS     host.VFS
}

// MotionPools groups pointer access to the eight curve-based containers
// plus the sprite-animation pool, the way internal/syscall.MotionSet
// does for handlers.
type MotionPools struct {
	Alpha     *motion.Pool
	Translate *motion.Pool
	Rotate    *motion.Pool
	Scale     *motion.Pool
	Z         *motion.Pool
	Parts     *motion.Pool
	Snow      *motion.Pool
	V3D       *motion.V3DContainer
	Anim      *motion.AnimPool
}

// Capture serializes c into a versioned gob payload (no trailer).
func Capture(c *Components) ([]byte, error) {
	nodes, customRoot := c.Tree.Export()
	tables, nextID := c.Tables.Export()

	bgmSlots, bgmVol := c.BGM.Export()
	seSlots, seVol := c.SE.Export()

	st := State{
		Version: CurrentVersion,
		Tree:    TreeState{Nodes: nodes, CustomRoot: customRoot},
		Motions: MotionState{
			Alpha:     c.Motions.Alpha.Export(),
			Translate: c.Motions.Translate.Export(),
			Rotate:    c.Motions.Rotate.Export(),
			Scale:     c.Motions.Scale.Export(),
			Z:         c.Motions.Z.Export(),
			Parts:     c.Motions.Parts.Export(),
			Snow:      c.Motions.Snow.Export(),
			V3D:       c.Motions.V3D.Export(),
			Anim:      c.Motions.Anim.Export(),
		},
		Script:     *c.Dissolve.Script,
		Overlay:    *c.Dissolve.Overlay,
		BGM:        AudioState{Slots: bgmSlots, TypeVolume: bgmVol},
		SE:         AudioState{Slots: seSlots, TypeVolume: seVol},
		Globals: append([]value.Value(nil), c.Globals...),
		Tables:  TableStoreState{Tables: tables, NextID: nextID},
		Timer:   *c.Timer,
		Text:    *c.Text,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(st); err != nil {
		return nil, vmerr.Wrap(vmerr.EncodingError, "snapshot encode", err)
	}
	return buf.Bytes(), nil
}

// Apply decodes payload and installs it into c, in spec.md §4.10's
// fixed order: (1) stop/clear audio and motions, (2) rebuild the
// primitive tree, (3) reload audio sources from the VFS by name, (4)
// restart playing slots, (5) reapply motion state.
func Apply(payload []byte, c *Components) error {
	var st State
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&st); err != nil {
		return vmerr.Wrap(vmerr.SnapshotTruncated, "snapshot decode", err)
	}
	st = migrate(st)
	if st.Version != CurrentVersion {
		return vmerr.Newf(vmerr.SnapshotVersion, "snapshot version %d unsupported (want %d)", st.Version, CurrentVersion)
	}

	// (1) stop/clear audio and motions.
	for i := 0; i < c.BGM.Capacity(); i++ {
		c.BGM.Stop(i)
	}
	for i := 0; i < c.SE.Capacity(); i++ {
		c.SE.Stop(i)
	}

	// (2) rebuild the primitive tree.
	c.Tree.Reset()
	c.Tree.Import(st.Tree.Nodes, st.Tree.CustomRoot)

	// (3) reload audio sources from the VFS by name.
	c.BGM.Import(st.BGM.Slots, st.BGM.TypeVolume)
	c.SE.Import(st.SE.Slots, st.SE.TypeVolume)
	if c.VFS != nil {
		for i := range st.BGM.Slots {
			_ = c.BGM.RestorePlayback(i, c.VFS) // (4) restart playing slots
		}
		for i := range st.SE.Slots {
			_ = c.SE.RestorePlayback(i, c.VFS)
		}
	}

	// (5) reapply motion-container state.
	c.Motions.Alpha.Import(st.Motions.Alpha)
	c.Motions.Translate.Import(st.Motions.Translate)
	c.Motions.Rotate.Import(st.Motions.Rotate)
	c.Motions.Scale.Import(st.Motions.Scale)
	c.Motions.Z.Import(st.Motions.Z)
	c.Motions.Parts.Import(st.Motions.Parts)
	c.Motions.Snow.Import(st.Motions.Snow)
	c.Motions.V3D.Import(st.Motions.V3D)
	c.Motions.Anim.Import(st.Motions.Anim)

	*c.Dissolve.Script = st.Script
	*c.Dissolve.Overlay = st.Overlay

	if len(st.Globals) == len(c.Globals) {
		copy(c.Globals, st.Globals)
	}
	c.Tables.Import(st.Tables.Tables, st.Tables.NextID)
	*c.Timer = st.Timer
	*c.Text = st.Text

	return nil
}

// migrate upgrades an older-version State to CurrentVersion. No prior
// version exists yet, so this is a no-op identity table, ready for a
// version-2 entry.
func migrate(st State) State {
	switch st.Version {
	case CurrentVersion:
		return st
	default:
		return st
	}
}

// EncodeTrailer appends payload's length (LE) and the 'RFVS' magic
// after payload, producing the full on-disk save-file suffix.
func EncodeTrailer(payload []byte) []byte {
	out := make([]byte, 0, len(payload)+trailerSize)
	out = append(out, payload...)
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	out = append(out, lenBuf[:]...)
	out = append(out, trailerMagic[:]...)
	return out
}

// DecodeTrailer scans the tail of data for the magic, reads payload_len,
// and returns the payload slice. Bounds-checks payload_len against
// MaxPayloadBytes and the actual data length before slicing.
func DecodeTrailer(data []byte) ([]byte, error) {
	if len(data) < trailerSize {
		return nil, vmerr.Newf(vmerr.SnapshotTruncated, "save data too short for trailer (%d bytes)", len(data))
	}
	tail := data[len(data)-trailerSize:]
	var magic [4]byte
	copy(magic[:], tail[4:])
	if magic != trailerMagic {
		return nil, vmerr.Newf(vmerr.SnapshotTruncated, "missing RFVS trailer magic")
	}
	payloadLen := binary.LittleEndian.Uint32(tail[:4])
	if payloadLen > MaxPayloadBytes {
		return nil, vmerr.Newf(vmerr.SnapshotTruncated, "payload_len %d exceeds %d byte bound", payloadLen, MaxPayloadBytes)
	}
	if uint64(payloadLen)+trailerSize > uint64(len(data)) {
		return nil, vmerr.Newf(vmerr.SnapshotTruncated, "payload_len %d exceeds available data", payloadLen)
	}
	start := len(data) - trailerSize - int(payloadLen)
	return data[start : start+int(payloadLen)], nil
}
