package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rfvp/internal/decode"
	"rfvp/internal/hcb"
	"rfvp/internal/hcbbuild"
	"rfvp/internal/host"
	"rfvp/internal/syscall"
	"rfvp/internal/trace"
	"rfvp/internal/value"
)

func buildMinimalImage() []byte {
	b := hcbbuild.New()
	b.Code(byte(decode.Ret))
	b.SetEntryPoint(0)
	b.SetGlobalCounts(2, 1)
	return b.Build()
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	data := buildMinimalImage()
	f, err := hcb.Parse(data)
	require.NoError(t, err)
	surface := host.NewMemorySurface()
	e, err := New(f, surface, decode.UTF8, 0, trace.New(64))
	require.NoError(t, err)
	return e
}

func TestTickRunsEntryContextToExit(t *testing.T) {
	e := newTestEngine(t)
	exited := e.Tick(16)
	require.True(t, exited)
}

func TestGlobalsSplitNonVolatileAndVolatile(t *testing.T) {
	e := newTestEngine(t)

	e.Set(0, value.NewInt(1))
	e.Set(1, value.NewInt(2))
	e.Set(2, value.NewInt(3)) // index 2 is the single volatile slot

	require.Equal(t, int32(1), e.Get(0).Int())
	require.Equal(t, int32(2), e.Get(1).Int())
	require.Equal(t, int32(3), e.Get(2).Int())

	// Out of range reads return Nil rather than panicking.
	require.Equal(t, value.Nil, e.Get(99).Kind())
}

func TestApplyResetsVolatileGlobalsToNil(t *testing.T) {
	e := newTestEngine(t)
	e.Set(0, value.NewInt(42))
	e.Set(2, value.NewInt(7))

	payload, err := e.Capture()
	require.NoError(t, err)

	e.Set(0, value.NewInt(0))
	e.Set(2, value.NewInt(0))

	require.NoError(t, e.Apply(payload))
	require.Equal(t, int32(42), e.Get(0).Int())
	require.Equal(t, value.Nil, e.Get(2).Kind())
}

func TestCaptureApplyRoundTripsGaijiTable(t *testing.T) {
	e := newTestEngine(t)
	e.Text().Gaiji = map[rune]syscall.GlyphID{'@': 42}

	payload, err := e.Capture()
	require.NoError(t, err)

	e.Text().Gaiji = nil
	require.NoError(t, e.Apply(payload))
	require.Equal(t, syscall.GlyphID(42), e.Text().Gaiji['@'])
}

func TestTakeStagedAndLoadFileRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	e.Set(0, value.NewInt(9))

	payload, err := e.Capture()
	require.NoError(t, err)
	e.StageWrite(payload)
	require.Equal(t, int32(len(payload)), e.StagedThumbSize())

	saveFile := e.TakeStaged()
	require.NotNil(t, saveFile)
	require.Nil(t, e.TakeStaged())

	e.Set(0, value.NewInt(0))
	require.NoError(t, e.LoadFile(saveFile))
	require.Equal(t, int32(9), e.Get(0).Int())
}

func TestRandProducesVaryingValues(t *testing.T) {
	e := newTestEngine(t)
	a := e.Rand()
	b := e.Rand()
	require.NotEqual(t, a, b)
}
