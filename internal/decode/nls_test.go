package decode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToUTF8ASCIIRoundTrips(t *testing.T) {
	require.Equal(t, "hello", ToUTF8([]byte("hello"), UTF8, nil))
}

func TestToUTF8ShiftJIS(t *testing.T) {
	// "こんにちは" encoded as Shift-JIS.
	sjis := []byte{0x82, 0xb1, 0x82, 0xf1, 0x82, 0xc9, 0x82, 0xbf, 0x82, 0xcd}
	got := ToUTF8(sjis, ShiftJIS, nil)
	require.Equal(t, "こんにちは", got)
}

func TestToUTF8MalformedDoesNotPanic(t *testing.T) {
	require.NotPanics(t, func() {
		ToUTF8([]byte{0xff, 0xfe, 0x00}, ShiftJIS, nil)
	})
}
