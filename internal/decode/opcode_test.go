package decode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeSimpleOpcodes(t *testing.T) {
	code := []byte{byte(Nop), byte(PushNil), byte(PushTrue)}
	pc := uint32(0)

	inst, next, err := DecodeAt(code, pc)
	require.NoError(t, err)
	require.Equal(t, Nop, inst.Op)
	require.Equal(t, uint32(1), next)

	inst, next, err = DecodeAt(code, next)
	require.NoError(t, err)
	require.Equal(t, PushNil, inst.Op)
	require.Equal(t, uint32(2), next)
}

func TestDecodeJmpOperand(t *testing.T) {
	code := []byte{byte(Jmp), 0x10, 0x00, 0x00, 0x00}
	inst, next, err := DecodeAt(code, 0)
	require.NoError(t, err)
	require.Equal(t, Jmp, inst.Op)
	require.Equal(t, uint32(0x10), inst.Target)
	require.Equal(t, uint32(5), next)
}

func TestDecodeSyscallOperand(t *testing.T) {
	code := []byte{byte(Syscall), 0x2A, 0x00}
	inst, _, err := DecodeAt(code, 0)
	require.NoError(t, err)
	require.Equal(t, uint16(0x2A), inst.SyscallID)
}

func TestDecodePushStringOperand(t *testing.T) {
	code := []byte{byte(PushString), 3, 'a', 'b', 'c'}
	inst, next, err := DecodeAt(code, 0)
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), inst.Str)
	require.Equal(t, uint32(5), next)
}

func TestDecodeInitStackOperands(t *testing.T) {
	code := []byte{byte(InitStack), 2, 3}
	inst, _, err := DecodeAt(code, 0)
	require.NoError(t, err)
	require.Equal(t, int8(2), inst.I8)
	require.Equal(t, int8(3), inst.Locals)
}

func TestDecodeArithmeticFamilyHasNoOperands(t *testing.T) {
	code := []byte{byte(Add), byte(Xor), byte(SetGE)}
	inst, next, err := DecodeAt(code, 0)
	require.NoError(t, err)
	require.Equal(t, Add, inst.Op)
	require.Equal(t, uint32(1), next)
	require.Equal(t, 0, inst.Op.ArithIndex())

	inst, next, err = DecodeAt(code, next)
	require.NoError(t, err)
	require.Equal(t, Xor, inst.Op)
	require.Equal(t, 7, inst.Op.ArithIndex())

	inst, _, err = DecodeAt(code, next)
	require.NoError(t, err)
	require.Equal(t, SetGE, inst.Op)
	require.Equal(t, 3, inst.Op.CompareIndex())
}

func TestDecodeTruncatedOperandFailsClosed(t *testing.T) {
	code := []byte{byte(Jmp), 0x01}
	_, _, err := DecodeAt(code, 0)
	require.Error(t, err)
}

func TestDecodePastEndFailsClosed(t *testing.T) {
	code := []byte{byte(Nop)}
	_, _, err := DecodeAt(code, 5)
	require.Error(t, err)
}

func TestDecodeUnknownOpcode(t *testing.T) {
	code := []byte{0xFF}
	_, _, err := DecodeAt(code, 0)
	require.Error(t, err)
}
