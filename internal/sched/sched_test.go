package sched

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"rfvp/internal/audio"
	"rfvp/internal/decode"
	"rfvp/internal/dissolve"
	"rfvp/internal/hcb"
	"rfvp/internal/hcbbuild"
	"rfvp/internal/host"
	"rfvp/internal/motion"
	"rfvp/internal/prim"
	"rfvp/internal/syscall"
	"rfvp/internal/value"
	"rfvp/internal/vm"
)

func u16le(v uint16) []byte { b := make([]byte, 2); binary.LittleEndian.PutUint16(b, v); return b }
func u32le(v uint32) []byte { b := make([]byte, 4); binary.LittleEndian.PutUint32(b, v); return b }

type fakeGlobals struct {
	vals   map[uint16]value.Value
	tables *value.TableStore
}

func newFakeGlobals() *fakeGlobals {
	return &fakeGlobals{vals: map[uint16]value.Value{}, tables: value.NewTableStore()}
}
func (g *fakeGlobals) Get(idx uint16) value.Value    { return g.vals[idx] }
func (g *fakeGlobals) Set(idx uint16, v value.Value) { g.vals[idx] = v }
func (g *fakeGlobals) Tables() *value.TableStore     { return g.tables }

type fakeSnapshotter struct{}

func (fakeSnapshotter) Capture() ([]byte, error) { return nil, nil }
func (fakeSnapshotter) Apply([]byte) error       { return nil }
func (fakeSnapshotter) StageWrite([]byte)        {}
func (fakeSnapshotter) StagedThumbSize() int32   { return 0 }

type fakeMachine struct {
	tree     *prim.Tree
	motions  *syscall.MotionSet
	dissolve *dissolve.Engine
	bgm      *audio.Manager
	se       *audio.Manager
	surface  *host.Surface
	threads  syscall.Threads
	globals  *fakeGlobals
	timer    syscall.TimerState
	text     syscall.TextState
}

func newFakeMachine(threads syscall.Threads) *fakeMachine {
	surface := host.NewMemorySurface()
	return &fakeMachine{
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
		dissolve: dissolve.NewEngine(),
		bgm:      audio.NewBGMManager(surface.Audio),
		se:       audio.NewSEManager(surface.Audio),
		surface:  surface,
		threads:  threads,
		globals:  newFakeGlobals(),
	}
}

func (f *fakeMachine) Prim() *prim.Tree                 { return f.tree }
func (f *fakeMachine) Motions() *syscall.MotionSet      { return f.motions }
func (f *fakeMachine) Dissolve() *dissolve.Engine       { return f.dissolve }
func (f *fakeMachine) BGM() *audio.Manager              { return f.bgm }
func (f *fakeMachine) SE() *audio.Manager               { return f.se }
func (f *fakeMachine) Host() *host.Surface              { return f.surface }
func (f *fakeMachine) Threads() syscall.Threads         { return f.threads }
func (f *fakeMachine) Globals() syscall.Globals         { return f.globals }
func (f *fakeMachine) Timer() *syscall.TimerState       { return &f.timer }
func (f *fakeMachine) Text() *syscall.TextState         { return &f.text }
func (f *fakeMachine) Rand() int32                      { return 42 }
func (f *fakeMachine) Color() *uint32                   { c := uint32(0); return &c }
func (f *fakeMachine) Snapshot() syscall.Snapshotter    { return fakeSnapshotter{} }

func TestMainContextExitSignalsEngineShouldExit(t *testing.T) {
	b := hcbbuild.New()
	b.Code(byte(decode.Ret))
	b.SetEntryPoint(0)
	file, err := hcb.Parse(b.Build())
	require.NoError(t, err)

	table := syscall.BuildTable()
	fileTable, err := syscall.BuildFileTable(file.Syscalls, table)
	require.NoError(t, err)

	s := New(file.Code, decode.UTF8, fileTable, nil, file.EntryPoint)
	m := newFakeMachine(s)

	exited := s.Tick(16, m)
	require.True(t, exited)
}

func TestThreadStartRunsSpawnedContextWithinOneTick(t *testing.T) {
	b := hcbbuild.New()
	b.AddSyscall("ThreadStart", 1)

	var threadBody []byte
	threadBody = append(threadBody, byte(decode.PushI32))
	threadBody = append(threadBody, u32le(99)...)
	threadBody = append(threadBody, byte(decode.PopGlobal))
	threadBody = append(threadBody, u16le(0)...)
	threadBody = append(threadBody, byte(decode.Ret))
	threadAddr := b.Code(threadBody...)

	var mainBody []byte
	mainBody = append(mainBody, byte(decode.PushI32))
	mainBody = append(mainBody, u32le(threadAddr)...)
	mainBody = append(mainBody, byte(decode.Syscall))
	mainBody = append(mainBody, u16le(0)...) // file-local syscall id 0 = ThreadStart
	mainBody = append(mainBody, byte(decode.Ret))
	mainAddr := b.Code(mainBody...)

	b.SetEntryPoint(mainAddr)
	file, err := hcb.Parse(b.Build())
	require.NoError(t, err)

	table := syscall.BuildTable()
	fileTable, err := syscall.BuildFileTable(file.Syscalls, table)
	require.NoError(t, err)

	s := New(file.Code, decode.UTF8, fileTable, nil, file.EntryPoint)
	m := newFakeMachine(s)

	exited := s.Tick(16, m)
	require.True(t, exited, "main context should have run to completion and exited")
	require.Equal(t, int32(99), m.globals.Get(0).Int(), "spawned thread should have run within the same tick")
}

func TestWaitCountdownBlocksUntilElapsed(t *testing.T) {
	table := syscall.BuildTable()
	code := []byte{byte(decode.Ret)}
	s := New(code, decode.UTF8, table, nil, 0)
	m := newFakeMachine(s)

	s.Wait(MainContextID, 100)
	ctx := s.Context(MainContextID)
	require.True(t, ctx.Alive)

	exited := s.Tick(40, m)
	require.False(t, exited)
	require.Equal(t, int64(60), ctx.WaitRemainingMs)

	exited = s.Tick(40, m)
	require.False(t, exited)

	exited = s.Tick(40, m)
	require.True(t, exited)
}

func TestTickInterleavesContextsRoundRobin(t *testing.T) {
	// Two contexts each append their id to a shared log on every step via
	// a syscall; both contexts loop (jump back to the start) so they
	// never yield on their own. The scheduler's per-context step budget
	// is set to 5, so each context gets exactly 5 steps (Syscall, Jmp,
	// Syscall, Jmp, Syscall), three of which log. Round-robin
	// fairness requires the log to show every runnable context taking
	// its Nth step before any context takes its (N+1)th: "0,1,0,1,0,1",
	// never "0,0,0,1,1,1".
	var log []uint8
	table := syscall.BuildTable()
	table[0] = syscall.Descriptor{
		Name: "test_log_caller",
		Handler: func(m syscall.Machine, caller uint8, args []value.Value) syscall.Result {
			log = append(log, caller)
			return syscall.NilResult()
		},
	}

	var body []byte
	body = append(body, byte(decode.Syscall))
	body = append(body, u16le(0)...)
	body = append(body, byte(decode.Jmp))
	body = append(body, u32le(0)...)

	s := New(body, decode.UTF8, table, nil, 0)
	s.SetStepBudget(5)
	s.contexts[1] = vm.NewContext(1, 0)
	m := newFakeMachine(s)

	s.Tick(16, m)

	require.Len(t, log, 6)
	require.Equal(t, []uint8{0, 1, 0, 1, 0, 1}, log)
}

func TestRaiseWakesMatchingSleepingContext(t *testing.T) {
	table := syscall.BuildTable()
	code := []byte{byte(decode.Ret)}
	s := New(code, decode.UTF8, table, nil, 0)
	m := newFakeMachine(s)

	s.Sleep(MainContextID, 7)
	require.NotZero(t, s.Context(MainContextID).Status&vm.StatusSleep)

	s.Raise(9) // non-matching key: should not wake
	exited := s.Tick(16, m)
	require.False(t, exited)

	s.Raise(7) // matching key: wakes
	exited = s.Tick(16, m)
	require.True(t, exited)
}
