package vm

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"rfvp/internal/audio"
	"rfvp/internal/decode"
	"rfvp/internal/dissolve"
	"rfvp/internal/host"
	"rfvp/internal/motion"
	"rfvp/internal/prim"
	"rfvp/internal/syscall"
	"rfvp/internal/value"
)

func u16le(v uint16) []byte { b := make([]byte, 2); binary.LittleEndian.PutUint16(b, v); return b }
func u32le(v uint32) []byte { b := make([]byte, 4); binary.LittleEndian.PutUint32(b, v); return b }

func TestStackPushPopTopDiscipline(t *testing.T) {
	ctx := NewContext(0, 0)
	require.NoError(t, ctx.Push(value.NewInt(1)))
	require.NoError(t, ctx.Push(value.NewInt(2)))
	top, err := ctx.Top()
	require.NoError(t, err)
	require.Equal(t, int32(2), top.Int())

	v, err := ctx.Pop()
	require.NoError(t, err)
	require.Equal(t, int32(2), v.Int())

	_, err = ctx.Pop()
	require.NoError(t, err)
	_, err = ctx.Pop()
	require.Error(t, err)
}

func TestPeekAtRespectsFrameBase(t *testing.T) {
	ctx := NewContext(0, 0)
	require.NoError(t, ctx.Push(value.NewInt(10))) // arg, below frame base
	ctx.FrameBase = 1
	require.NoError(t, ctx.Push(value.NewInt(20))) // local 0

	v, err := ctx.PeekAt(0)
	require.NoError(t, err)
	require.Equal(t, int32(20), v.Int())

	v, err = ctx.PeekAt(-1)
	require.NoError(t, err)
	require.Equal(t, int32(10), v.Int())

	_, err = ctx.PeekAt(-2)
	require.Error(t, err)
}

// fakeGlobals/fakeMachine minimally satisfy syscall.Machine for Step tests.

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

type fakeThreads struct{}

func (fakeThreads) Start(addr uint32) (uint8, bool) { return 0, false }
func (fakeThreads) Next(caller uint8)               {}
func (fakeThreads) Wait(caller uint8, ms int32)     {}
func (fakeThreads) Sleep(caller uint8, ms int32)    {}
func (fakeThreads) Raise(target uint8)              {}
func (fakeThreads) Exit(ctxID uint8)                {}

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
	globals  *fakeGlobals
	timer    syscall.TimerState
	text     syscall.TextState
}

func newFakeMachine() *fakeMachine {
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
		globals:  newFakeGlobals(),
	}
}

func (f *fakeMachine) Prim() *prim.Tree              { return f.tree }
func (f *fakeMachine) Motions() *syscall.MotionSet   { return f.motions }
func (f *fakeMachine) Dissolve() *dissolve.Engine    { return f.dissolve }
func (f *fakeMachine) BGM() *audio.Manager           { return f.bgm }
func (f *fakeMachine) SE() *audio.Manager            { return f.se }
func (f *fakeMachine) Host() *host.Surface           { return f.surface }
func (f *fakeMachine) Threads() syscall.Threads      { return fakeThreads{} }
func (f *fakeMachine) Globals() syscall.Globals      { return f.globals }
func (f *fakeMachine) Timer() *syscall.TimerState    { return &f.timer }
func (f *fakeMachine) Text() *syscall.TextState      { return &f.text }
func (f *fakeMachine) Rand() int32                   { return 7 }
func (f *fakeMachine) Color() *uint32                { c := uint32(0); return &c }
func (f *fakeMachine) Snapshot() syscall.Snapshotter { return fakeSnapshotter{} }

func TestStepArithmeticPushesIntResult(t *testing.T) {
	code := []byte{
		byte(decode.PushI8), 3,
		byte(decode.PushI8), 4,
		byte(decode.Add),
		byte(decode.RetV),
	}
	ctx := NewContext(0, 0)
	m := newFakeMachine()
	table := syscall.BuildTable()

	for i := 0; i < 4; i++ {
		out := Step(ctx, code, decode.UTF8, table, m, nil)
		if out != Continue {
			break
		}
	}
	require.Equal(t, int32(7), ctx.ReturnRegister.Int())
}

func TestStepCallInitStackRetDiscipline(t *testing.T) {
	// main: PushI32 argAddr; Call callee; Ret
	// callee: InitStack(1,1); PushStack(-1) [reads the arg]; RetV
	var callee []byte
	callee = append(callee, byte(decode.InitStack), 1, 1)
	callee = append(callee, byte(decode.PushStack), byte(int8(-1)))
	callee = append(callee, byte(decode.RetV))

	var main []byte
	main = append(main, byte(decode.PushI32))
	main = append(main, u32le(42)...)
	calleeAddr := uint32(0) // callee is laid out first, at offset 0
	main = append(main, byte(decode.Call))
	main = append(main, u32le(calleeAddr)...)
	main = append(main, byte(decode.Ret))

	code := append(append([]byte{}, callee...), main...)
	mainAddr := uint32(len(callee))

	ctx := NewContext(0, mainAddr)
	m := newFakeMachine()
	table := syscall.BuildTable()

	for i := 0; i < 10 && ctx.Alive; i++ {
		out := Step(ctx, code, decode.UTF8, table, m, nil)
		if out == Exited || out == Fatal {
			break
		}
	}
	require.Equal(t, int32(42), ctx.ReturnRegister.Int())
	require.False(t, ctx.Alive)
}

func TestStepSyscallSetXYAndReturnsNil(t *testing.T) {
	table := syscall.BuildTable()
	var id uint16
	for i, d := range table {
		if d.Name == "SetXY" {
			id = uint16(i)
		}
	}

	code := []byte{
		byte(decode.PushI8), 1, // prim id
		byte(decode.PushI16),
	}
	code = append(code, int16le(10)...)
	code = append(code, byte(decode.PushI16))
	code = append(code, int16le(-5)...)
	code = append(code, byte(decode.Syscall))
	code = append(code, u16le(id)...)
	code = append(code, byte(decode.Ret))

	ctx := NewContext(0, 0)
	m := newFakeMachine()

	for i := 0; i < 10 && ctx.Alive; i++ {
		out := Step(ctx, code, decode.UTF8, table, m, nil)
		if out == Exited || out == Fatal {
			break
		}
	}
	require.Equal(t, int16(10), m.tree.Node(1).X)
	require.Equal(t, int16(-5), m.tree.Node(1).Y)
	require.Equal(t, value.Nil, ctx.ReturnRegister.Kind())
}

func TestStepDissolveWaitRetriesUntilOff(t *testing.T) {
	table := syscall.BuildTable()
	var dissolveID, waitID uint16
	for i, d := range table {
		switch d.Name {
		case "Dissolve":
			dissolveID = uint16(i)
		case "DissolveWait":
			waitID = uint16(i)
		}
	}

	var code []byte
	code = append(code, byte(decode.PushI8), 0) // mode FadeOut
	code = append(code, byte(decode.PushI32))
	code = append(code, u32le(100)...) // duration
	code = append(code, byte(decode.PushI32))
	code = append(code, u32le(0)...) // color
	code = append(code, byte(decode.PushI8), 0) // pending
	code = append(code, byte(decode.Syscall))
	code = append(code, u16le(dissolveID)...)
	waitPC := uint32(len(code))
	code = append(code, byte(decode.Syscall))
	code = append(code, u16le(waitID)...)
	code = append(code, byte(decode.Ret))

	ctx := NewContext(0, 0)
	m := newFakeMachine()

	// Run until the context parks on DissolveWait: four pushes, then the
	// Dissolve call (not Blocking, so no yield), then the first
	// DissolveWait attempt, which yields.
	for i := 0; i < 10; i++ {
		out := Step(ctx, code, decode.UTF8, table, m, nil)
		if out == Yielded {
			break
		}
	}
	require.Equal(t, waitPC, ctx.PC, "pc should be rewound to re-decode DissolveWait")
	require.NotZero(t, ctx.Status&StatusDissolve)

	m.dissolve.Tick(1000, false)
	require.True(t, m.dissolve.Script.IsOff())

	for i := 0; i < 4 && ctx.Alive; i++ {
		out := Step(ctx, code, decode.UTF8, table, m, nil)
		if out == Exited {
			break
		}
	}
	require.False(t, ctx.Alive)
	require.Zero(t, ctx.Status&StatusDissolve)
}

// TestStepDissolveWaitRetryDoesNotLeakStack drives DissolveWait through
// several ResultRetry ticks (rather than parking once and releasing
// immediately) and asserts the operand stack carries no stray Nils from
// the retries: ResultRetry must push nothing, only the final
// ResultValue push, per spec.md §8's stack-discipline invariant.
func TestStepDissolveWaitRetryDoesNotLeakStack(t *testing.T) {
	table := syscall.BuildTable()
	var dissolveID, waitID uint16
	for i, d := range table {
		switch d.Name {
		case "Dissolve":
			dissolveID = uint16(i)
		case "DissolveWait":
			waitID = uint16(i)
		}
	}

	var code []byte
	code = append(code, byte(decode.PushI8), 0) // mode FadeOut
	code = append(code, byte(decode.PushI32))
	code = append(code, u32le(500)...) // duration
	code = append(code, byte(decode.PushI32))
	code = append(code, u32le(0)...) // color
	code = append(code, byte(decode.PushI8), 0) // pending
	code = append(code, byte(decode.Syscall))
	code = append(code, u16le(dissolveID)...)
	code = append(code, byte(decode.PopGlobal)) // discard Dissolve's own Nil result
	code = append(code, u16le(0)...)
	waitPC := uint32(len(code))
	code = append(code, byte(decode.Syscall))
	code = append(code, u16le(waitID)...)
	code = append(code, byte(decode.Ret))

	ctx := NewContext(0, 0)
	m := newFakeMachine()

	// Drive the Dissolve call, then land on DissolveWait's first attempt.
	for i := 0; i < 10; i++ {
		out := Step(ctx, code, decode.UTF8, table, m, nil)
		if out == Yielded {
			break
		}
	}
	require.Equal(t, waitPC, ctx.PC)
	require.Empty(t, ctx.Stack, "ResultRetry must not push while still blocked")

	// Retry across several ticks with the dissolve still running: every
	// re-decode of DissolveWait should leave the stack untouched.
	for i := 0; i < 31; i++ {
		m.dissolve.Tick(16, false)
		out := Step(ctx, code, decode.UTF8, table, m, nil)
		require.Equal(t, Yielded, out)
		require.Equal(t, waitPC, ctx.PC)
		require.Empty(t, ctx.Stack, "stray value leaked onto the stack during retry %d", i)
	}

	m.dissolve.Tick(1000, false)
	require.True(t, m.dissolve.Script.IsOff())

	out := Step(ctx, code, decode.UTF8, table, m, nil)
	require.Equal(t, Yielded, out, "DissolveWait is Blocking, so even its final successful call yields")
	require.Len(t, ctx.Stack, 1, "the final ResultValue push should land exactly once")

	for i := 0; i < 4 && ctx.Alive; i++ {
		out := Step(ctx, code, decode.UTF8, table, m, nil)
		if out == Exited {
			break
		}
	}
	require.False(t, ctx.Alive)
}

func int16le(v int16) []byte { b := make([]byte, 2); binary.LittleEndian.PutUint16(b, uint16(v)); return b }
