// Package engine wires every core component into the top-level runtime
// struct: the primitive tree, the nine motion containers, the dissolve
// machines, the BGM/SE audio managers, the scheduler's context pool,
// the global/table stores, and the snapshot codec, implementing
// syscall.Machine/Globals/Snapshotter on top of them. Ground: teacher's
// internal/emulator.Emulator (one struct holding every component by
// pointer, wired once at construction, driven by a single per-frame
// entry point) generalized from a fixed CPU/PPU/APU/Input quartet to
// rfvp's component set.
package engine

import (
	"math/rand"

	"rfvp/internal/audio"
	"rfvp/internal/decode"
	"rfvp/internal/dissolve"
	"rfvp/internal/hcb"
	"rfvp/internal/host"
	"rfvp/internal/motion"
	"rfvp/internal/prim"
	"rfvp/internal/sched"
	"rfvp/internal/snapshot"
	"rfvp/internal/syscall"
	"rfvp/internal/trace"
	"rfvp/internal/value"
	"rfvp/internal/vmerr"
)

// Engine is the top-level runtime: it owns every component named by
// C1-C11 and drives them one tick at a time.
type Engine struct {
	tree     *prim.Tree
	motions  *syscall.MotionSet
	dissolve *dissolve.Engine
	bgm      *audio.Manager
	se       *audio.Manager
	surface  *host.Surface
	sched    *sched.Scheduler
	table    syscall.Table

	globalsNV []value.Value
	globalsV  []value.Value
	tables    *value.TableStore

	timer syscall.TimerState
	text  syscall.TextState

	rnd   *rand.Rand
	color uint32

	staged   []byte
	gameMode uint16
	title    string

	r *trace.Ring
}

// New constructs an Engine from a parsed .hcb file, a host surface, and
// a trace ring. charset selects the NLS used to decode PushString
// operands and the embedded title — chosen by config, not by the .hcb
// header itself (see DESIGN.md's NLS-source note). stepBudget overrides
// the scheduler's default per-context per-tick fairness backstop; 0
// keeps sched.StepBudget.
func New(f *hcb.File, surface *host.Surface, charset decode.Charset, stepBudget int, r *trace.Ring) (*Engine, error) {
	table, err := syscall.BuildFileTable(f.Syscalls, syscall.BuildTable())
	if err != nil {
		return nil, err
	}

	e := &Engine{
		tree: prim.NewTree(),
		motions: &syscall.MotionSet{
			Alpha:     motion.NewAlphaPool(),
			Translate: motion.NewTranslatePool(),
			Rotate:    motion.NewRotatePool(),
			Scale:     motion.NewScalePool(),
			Z:         motion.NewZPool(),
			Parts:     motion.NewPartsPool(),
			Snow:      motion.NewSnowPool(),
			V3D:       motion.NewV3DPool(),
			Anim:      motion.NewAnimPool(),
		},
		dissolve:  dissolve.NewEngine(),
		bgm:       audio.NewBGMManager(surface.Audio),
		se:        audio.NewSEManager(surface.Audio),
		surface:   surface,
		table:     table,
		globalsNV: make([]value.Value, f.NonVolatileGlobalCount),
		globalsV:  make([]value.Value, f.VolatileGlobalCount),
		tables:    value.NewTableStore(),
		rnd:       rand.New(rand.NewSource(1)),
		gameMode:  f.GameMode,
		title:     decode.ToUTF8(f.TitleRaw, charset, r),
		r:         r,
	}
	for i := range e.globalsNV {
		e.globalsNV[i] = value.Nil_()
	}
	for i := range e.globalsV {
		e.globalsV[i] = value.Nil_()
	}
	e.sched = sched.New(f.Code, charset, table, r, f.EntryPoint)
	e.sched.SetStepBudget(stepBudget)
	return e, nil
}

func (e *Engine) GameMode() uint16 { return e.gameMode }
func (e *Engine) Title() string    { return e.title }

// Tick advances the scheduler by one frame: refreshes timers, steps
// every runnable context to quiescence, then advances the dissolve and
// motion containers. Returns true once context 0 (the main thread) has
// exited, per spec.md §4.4's EngineShouldExit signal.
func (e *Engine) Tick(dtMs int64) bool {
	fastForward := dtMs == host.FastForwardSentinel
	tickDt := dtMs
	if fastForward {
		tickDt = 0
	}

	e.timer.Tick(tickDt)
	exit := e.sched.Tick(tickDt, e)

	e.dissolve.Tick(tickDt, fastForward)

	gate := func(id uint16) bool { return e.tree.Gated(id, prim.ScopeGlobal) }
	e.tree.ClearDirty()
	e.motions.Alpha.Tick(e.tree, tickDt, fastForward, gate)
	e.motions.Translate.Tick(e.tree, tickDt, fastForward, gate)
	e.motions.Rotate.Tick(e.tree, tickDt, fastForward, gate)
	e.motions.Scale.Tick(e.tree, tickDt, fastForward, gate)
	e.motions.Z.Tick(e.tree, tickDt, fastForward, gate)
	e.motions.Parts.Tick(e.tree, tickDt, fastForward, gate)
	e.motions.Snow.Tick(e.tree, tickDt, fastForward, gate)
	e.motions.Anim.Tick(e.tree, tickDt, fastForward, gate)
	e.motions.V3D.Tick(e.tree, tickDt, fastForward, gate, func(t *prim.Tree) {
		t.IterDrawOrder(prim.Root, func(id uint16) {
			if t.Node(id).Attr&prim.AttrParallax != 0 {
				t.MarkDirty(id)
			}
		})
	})

	if e.surface.Renderer != nil {
		e.surface.Renderer.Submit(treeView{e.tree})
	}

	return exit
}

// treeView adapts *prim.Tree to host.PrimitiveTreeView without giving
// the host package an import on internal/prim.
type treeView struct{ t *prim.Tree }

func (v treeView) VisitDrawOrder(visit func(id uint16)) {
	root := v.t.CustomRoot()
	if root == prim.NoNode {
		root = prim.Root
	}
	v.t.IterDrawOrder(root, visit)
}

// --- syscall.Machine ---

func (e *Engine) Prim() *prim.Tree           { return e.tree }
func (e *Engine) Motions() *syscall.MotionSet { return e.motions }
func (e *Engine) Dissolve() *dissolve.Engine  { return e.dissolve }
func (e *Engine) BGM() *audio.Manager         { return e.bgm }
func (e *Engine) SE() *audio.Manager          { return e.se }
func (e *Engine) Host() *host.Surface         { return e.surface }
func (e *Engine) Threads() syscall.Threads    { return e.sched }
func (e *Engine) Globals() syscall.Globals    { return e }
func (e *Engine) Timer() *syscall.TimerState  { return &e.timer }
func (e *Engine) Text() *syscall.TextState    { return &e.text }

// Rand implements syscall.Machine: advances the engine's PRNG and
// returns the next value, matching Rand's "each call draws fresh
// entropy" usage in miscFamily.
func (e *Engine) Rand() int32 { return e.rnd.Int31() }

func (e *Engine) Color() *uint32         { return &e.color }
func (e *Engine) Snapshot() syscall.Snapshotter { return e }

// --- syscall.Globals ---

// Get implements syscall.Globals: PushGlobal indexes the concatenation
// of non-volatile then volatile globals by idx (spec.md §6).
func (e *Engine) Get(idx uint16) value.Value {
	if int(idx) < len(e.globalsNV) {
		return e.globalsNV[idx]
	}
	i := int(idx) - len(e.globalsNV)
	if i >= 0 && i < len(e.globalsV) {
		return e.globalsV[i]
	}
	return value.Nil_()
}

func (e *Engine) Set(idx uint16, v value.Value) {
	if int(idx) < len(e.globalsNV) {
		e.globalsNV[idx] = v
		return
	}
	i := int(idx) - len(e.globalsNV)
	if i >= 0 && i < len(e.globalsV) {
		e.globalsV[i] = v
	}
}

func (e *Engine) Tables() *value.TableStore { return e.tables }

// --- syscall.Snapshotter ---

func (e *Engine) components() *snapshot.Components {
	return &snapshot.Components{
		Tree: e.tree,
		Motions: &snapshot.MotionPools{
			Alpha:     e.motions.Alpha,
			Translate: e.motions.Translate,
			Rotate:    e.motions.Rotate,
			Scale:     e.motions.Scale,
			Z:         e.motions.Z,
			Parts:     e.motions.Parts,
			Snow:      e.motions.Snow,
			V3D:       e.motions.V3D,
			Anim:      e.motions.Anim,
		},
		Dissolve: e.dissolve,
		BGM:      e.bgm,
		SE:       e.se,
		// Only the non-volatile prefix is captured/restored; volatile
		// globals reset to Nil on load (spec.md §6), handled in Apply
		// below rather than by the snapshot codec itself.
		Globals: e.globalsNV,
		Tables:  e.tables,
		Timer:   (*snapshot.TimerState)(&e.timer),
		Text:    (*snapshot.TextState)(&e.text),
		VFS:     e.surface.VFS,
	}
}

// Capture implements syscall.Snapshotter.
func (e *Engine) Capture() ([]byte, error) {
	return snapshot.Capture(e.components())
}

// Apply implements syscall.Snapshotter: restores the non-volatile
// globals and every other captured component, then resets every
// volatile global to Nil (they never persist across a load).
func (e *Engine) Apply(data []byte) error {
	if err := snapshot.Apply(data, e.components()); err != nil {
		return err
	}
	for i := range e.globalsV {
		e.globalsV[i] = value.Nil_()
	}
	return nil
}

// StageWrite implements syscall.Snapshotter: SaveCreate/SaveData append
// to this buffer; cmd/rfvp drains it with TakeStaged once a frame and
// persists it to disk (host.VFS is read-only from the core's
// perspective, so the core cannot write its own save file).
func (e *Engine) StageWrite(data []byte) { e.staged = append(e.staged, data...) }

func (e *Engine) StagedThumbSize() int32 { return int32(len(e.staged)) }

// TakeStaged returns and clears the current staging buffer, wrapped in
// the on-disk trailer (spec.md §4.10). Returns nil if nothing is staged.
func (e *Engine) TakeStaged() []byte {
	if len(e.staged) == 0 {
		return nil
	}
	out := snapshot.EncodeTrailer(e.staged)
	e.staged = nil
	return out
}

// LoadFile decodes a save-file's trailer and applies its payload,
// mirroring the Load syscall's own Apply call for a host-initiated
// (rather than script-initiated) load, e.g. cmd/rfvp's menu.
func (e *Engine) LoadFile(data []byte) error {
	payload, err := snapshot.DecodeTrailer(data)
	if err != nil {
		return vmerr.Wrap(vmerr.SnapshotTruncated, "engine load file", err)
	}
	return e.Apply(payload)
}
