// Package syscall implements the syscall dispatch table (C5): an
// ordered (name, arity, blocking) descriptor list resolved by name
// against the .hcb file's embedded table at load time, plus the host
// handlers themselves. Ground: teacher's internal/corelx builtin
// dispatch (a name-keyed table of intrinsic handlers resolved at
// compile/link time) and internal/rom's symbol table, generalized from
// a closed compiler-known builtin set to a runtime name-to-id
// resolution against an externally supplied file table.
package syscall

import (
	"fmt"
	"strings"

	"rfvp/internal/audio"
	"rfvp/internal/dissolve"
	"rfvp/internal/host"
	"rfvp/internal/motion"
	"rfvp/internal/prim"
	"rfvp/internal/value"
)

// MotionSet bundles the nine motion containers a Machine exposes to
// syscall handlers (spec.md §4.7).
type MotionSet struct {
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

// Threads is the thread-control surface a Machine exposes; implemented
// by internal/sched.Scheduler. Kept as an interface here so
// internal/syscall never imports internal/sched (which itself imports
// internal/syscall to dispatch Syscall opcodes).
type Threads interface {
	Start(addr uint32) (ctxID uint8, ok bool)
	Next(caller uint8)
	Wait(caller uint8, ms int32)
	Sleep(caller uint8, ms int32)
	Raise(target uint8)
	Exit(ctxID uint8)
}

// Globals is the global/persistent variable surface (spec.md §3's
// non-volatile/volatile global tables), implemented by internal/engine.
type Globals interface {
	Get(idx uint16) value.Value
	Set(idx uint16, v value.Value)
	Tables() *value.TableStore
}

// Machine is everything a syscall handler may touch, implemented by
// internal/engine.Engine. Bundling it as one interface (rather than
// passing six separate params to every handler) mirrors the host.Surface
// "no ambient singletons, one explicit bundle" shape from spec.md §9.
type Machine interface {
	Prim() *prim.Tree
	Motions() *MotionSet
	Dissolve() *dissolve.Engine
	BGM() *audio.Manager
	SE() *audio.Manager
	Host() *host.Surface
	Threads() Threads
	Globals() Globals
	Timer() *TimerState
	Text() *TextState
	Rand() int32
	Color() *uint32
	Snapshot() Snapshotter
}

// Snapshotter is the save/load surface a Machine exposes to the
// SaveCreate/Data/Write/Load syscall family; implemented by
// internal/engine.Engine on top of internal/snapshot.
type Snapshotter interface {
	Capture() ([]byte, error)
	Apply(data []byte) error
	StageWrite(data []byte)
	StagedThumbSize() int32
}

// TimerState backs the Timer syscall family: one free-running,
// suspendable millisecond counter per spec.md's "timer (Get/Set/
// Suspend)" family.
type TimerState struct {
	ValueMs   int64
	Suspended bool
}

func (t *TimerState) Tick(dtMs int64) {
	if !t.Suspended {
		t.ValueMs += dtMs
	}
}

// GlyphID names a gaiji substitution glyph (spec.md's glossary entry:
// "engine-defined custom glyphs substituted for certain text runes").
// An alias (not a defined type) so TextState.Gaiji stays a plain
// map[rune]int32 under the hood, letting internal/engine convert
// *TextState to *snapshot.TextState by pointer conversion the way it
// already does for TimerState, without snapshot needing this alias.
type GlyphID = int32

// TextState backs the text syscall family (Buff/Clear/Color/Font/
// Print/Speed): a single active text buffer the script accumulates
// glyphs into before the renderer consumes it, plus the gaiji
// substitution table GaijiSet (misc family) populates and TextPrint
// consults.
type TextState struct {
	Buffer   string
	ColorRGB uint32
	FontID   int32
	SpeedMs  int32
	Gaiji    map[rune]GlyphID
}

// Substitute returns s with every rune present in the gaiji table
// replaced by its glyph substitution, rendered as a decimal glyph-id
// escape ("\x00<id>\x00") the (external) renderer recognizes, leaving
// every other rune untouched. A nil/empty table is a no-op.
func (t *TextState) Substitute(s string) string {
	if len(t.Gaiji) == 0 {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if id, ok := t.Gaiji[r]; ok {
			fmt.Fprintf(&b, "\x00%d\x00", id)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
