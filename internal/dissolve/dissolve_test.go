package dissolve

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFadeOutReachesFullAlphaAndSettles(t *testing.T) {
	s := New()
	s.FadeOutTo(7, 1000)

	s.Tick(500, false)
	require.InDelta(t, 0.5, s.Alpha, 0.01)
	require.Equal(t, FadeOut, s.Mode)

	s.Tick(500, false)
	require.Equal(t, float32(1), s.Alpha)
	require.True(t, s.IsOff())
}

func TestFadeInPendingFadeOutRestarts(t *testing.T) {
	s := New()
	s.Alpha = 1
	s.FadeInFrom(1000, true)

	s.Tick(1000, false)
	require.Equal(t, FadeOut, s.Mode)
	require.Equal(t, int32(0), s.ElapsedMs)
	require.Equal(t, float32(0), s.Alpha)
}

func TestFadeInWithoutPendingSettlesOff(t *testing.T) {
	s := New()
	s.Alpha = 1
	s.FadeInFrom(1000, false)

	s.Tick(1000, false)
	require.True(t, s.IsOff())
	require.Equal(t, float32(0), s.Alpha)
}

func TestFastForwardCompletesAtomically(t *testing.T) {
	e := NewEngine()
	e.Script.FadeOutTo(1, 5000)
	e.Overlay.FadeInFrom(5000, false)
	e.Overlay.Alpha = 1

	e.Tick(0, true)
	require.True(t, e.Script.IsOff())
	require.True(t, e.Overlay.IsOff())
}

func TestDissolveWaitParksUntilOff(t *testing.T) {
	s := New()
	s.FadeOutTo(1, 300)
	require.False(t, s.IsOff())

	s.Tick(100, false)
	require.False(t, s.IsOff())
	s.Tick(100, false)
	require.False(t, s.IsOff())
	s.Tick(100, false)
	require.True(t, s.IsOff())
}
