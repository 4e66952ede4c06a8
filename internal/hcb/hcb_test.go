package hcb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rfvp/internal/hcbbuild"
)

func TestParseRoundTripsBuiltImage(t *testing.T) {
	b := hcbbuild.New()
	b.Code(0x00, 0x08, 0x09) // Nop PushNil PushTrue
	b.SetEntryPoint(0)
	b.SetGlobalCounts(3, 5)
	b.SetGameMode(2)
	b.SetTitle("Test Title")
	b.AddSyscall("SyscallBgmPlay", 2)
	b.AddCustomSyscall("on_click", 1, 0x10)

	data := b.Build()
	f, err := Parse(data)
	require.NoError(t, err)

	require.Equal(t, uint32(0), f.EntryPoint)
	require.Equal(t, uint16(3), f.NonVolatileGlobalCount)
	require.Equal(t, uint16(5), f.VolatileGlobalCount)
	require.Equal(t, uint16(2), f.GameMode)
	require.Equal(t, "Test Title", string(f.TitleRaw))
	require.Equal(t, []byte{0x00, 0x08, 0x09}, f.Code)
	require.Len(t, f.Syscalls, 1)
	require.Equal(t, "SyscallBgmPlay", string(f.Syscalls[0].Name))
	require.EqualValues(t, 2, f.Syscalls[0].ArgCount)
	require.Len(t, f.CustomSyscalls, 1)
	require.Equal(t, uint32(0x10), f.CustomSyscalls[0].CallbackAddr)
}

func TestParseRejectsTruncatedHeader(t *testing.T) {
	_, err := Parse([]byte{0x20, 0x00, 0x00, 0x00})
	require.Error(t, err)
}

func TestParseRejectsOutOfRangeGameMode(t *testing.T) {
	b := hcbbuild.New()
	b.SetGameMode(99)
	data := b.Build()
	_, err := Parse(data)
	require.Error(t, err)
}

func TestParseRejectsSysDescOffsetPastEnd(t *testing.T) {
	_, err := Parse([]byte{0xFF, 0xFF, 0x00, 0x00})
	require.Error(t, err)
}
