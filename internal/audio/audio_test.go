package audio

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rfvp/internal/host"
)

type fakeMixer struct {
	next    host.AudioHandle
	volumes map[host.AudioHandle]float32
	playing map[host.AudioHandle]bool
}

func newFakeMixer() *fakeMixer {
	return &fakeMixer{volumes: map[host.AudioHandle]float32{}, playing: map[host.AudioHandle]bool{}}
}

func (f *fakeMixer) Play(data []byte, repeat bool, volume, pan float32) (host.AudioHandle, error) {
	f.next++
	f.volumes[f.next] = volume
	f.playing[f.next] = true
	return f.next, nil
}

func (f *fakeMixer) Stop(h host.AudioHandle)                 { f.playing[h] = false }
func (f *fakeMixer) SetVolume(h host.AudioHandle, v float32) { f.volumes[h] = v }
func (f *fakeMixer) SetPan(h host.AudioHandle, p float32)    {}
func (f *fakeMixer) IsPlaying(h host.AudioHandle) bool       { return f.playing[h] }

func TestLoadPlayStop(t *testing.T) {
	mixer := newFakeMixer()
	mgr := NewBGMManager(mixer)

	mgr.Load(0, "bgm01.ogg")
	require.NoError(t, mgr.Play(0, []byte("pcm"), true, 0.8, 0))
	require.True(t, mgr.IsPlaying(0))

	mgr.Stop(0)
	require.False(t, mgr.IsPlaying(0))
}

func TestReplaceStopsOldHandleBeforeNew(t *testing.T) {
	mixer := newFakeMixer()
	mgr := NewBGMManager(mixer)
	mgr.Load(0, "a.ogg")
	require.NoError(t, mgr.Play(0, []byte("a"), false, 1, 0))
	first := mgr.Slot(0).Handle

	mgr.Load(0, "b.ogg")
	require.NoError(t, mgr.Play(0, []byte("b"), false, 1, 0))
	second := mgr.Slot(0).Handle

	require.NotEqual(t, first, second)
	require.False(t, mixer.IsPlaying(first))
	require.True(t, mixer.IsPlaying(second))
}

func TestMutePersistsThroughReplay(t *testing.T) {
	mixer := newFakeMixer()
	mgr := NewSEManager(mixer)
	mgr.Load(5, "se.ogg")
	mgr.SilentOn(5)

	require.NoError(t, mgr.Play(5, []byte("x"), false, 1, 0))
	h := mgr.Slot(5).Handle
	require.Equal(t, float32(0), mixer.volumes[h])

	mgr.SetVolume(5, 0.9)
	require.Equal(t, float32(0), mixer.volumes[h], "volume writes clamp to 0 while muted")

	mgr.SilentOff(5)
	require.Equal(t, float32(0.9), mixer.volumes[h])
}

func TestCategoryVolumeAppliesAcrossSlots(t *testing.T) {
	mixer := newFakeMixer()
	mgr := NewSEManager(mixer)
	mgr.Load(1, "a.ogg")
	mgr.Load(2, "b.ogg")
	mgr.SetType(1, 9)
	mgr.SetType(2, 9)
	require.NoError(t, mgr.Play(1, []byte("a"), false, 1, 0))
	require.NoError(t, mgr.Play(2, []byte("b"), false, 1, 0))

	mgr.SetTypeVolume(9, 0.5)
	require.Equal(t, float32(0.5), mixer.volumes[mgr.Slot(1).Handle])
	require.Equal(t, float32(0.5), mixer.volumes[mgr.Slot(2).Handle])
}

func TestInvalidSlotIsNoop(t *testing.T) {
	mixer := newFakeMixer()
	mgr := NewBGMManager(mixer)
	require.NotPanics(t, func() {
		mgr.Load(99, "x")
		mgr.Stop(99)
		mgr.SetVolume(-1, 1)
	})
}
