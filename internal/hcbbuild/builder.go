// Package hcbbuild builds synthetic .hcb images in memory, for tests
// and end-to-end scenarios that need a real bytecode program without
// shipping a binary fixture. Ground: teacher's internal/rom/builder.go
// ROMBuilder (append instruction words, then emit a fixed-format
// binary) generalized from ROMBuilder's fixed 32-byte header to this
// format's variable-length trailer.
package hcbbuild

import "encoding/binary"

// Builder accumulates a code section and syscall/custom-syscall
// descriptors, then emits a complete .hcb image via Build.
type Builder struct {
	code                   []byte
	entryPoint             uint32
	nonVolatileGlobalCount uint16
	volatileGlobalCount    uint16
	gameMode               uint16
	title                  []byte
	syscalls               []syscallEntry
	customSyscalls         []customSyscallEntry
}

type syscallEntry struct {
	argCount uint8
	name     string
}

type customSyscallEntry struct {
	callbackAddr uint32
	argCount     uint8
	name         string
}

func New() *Builder {
	return &Builder{}
}

// Code appends raw opcode bytes (use internal/decode.Op constants and
// manual little-endian operand encoding) and returns the offset the
// appended bytes start at.
func (b *Builder) Code(bytes ...byte) uint32 {
	start := uint32(len(b.code))
	b.code = append(b.code, bytes...)
	return start
}

func (b *Builder) CodeLen() uint32 { return uint32(len(b.code)) }

func (b *Builder) SetEntryPoint(pc uint32) { b.entryPoint = pc }

func (b *Builder) SetGlobalCounts(nonVolatile, volatile uint16) {
	b.nonVolatileGlobalCount = nonVolatile
	b.volatileGlobalCount = volatile
}

func (b *Builder) SetGameMode(mode uint16) { b.gameMode = mode }

func (b *Builder) SetTitle(title string) { b.title = []byte(title) }

// AddSyscall registers one file-table syscall entry (resolved to a
// host id by internal/syscall.ResolveFileTable at load time).
func (b *Builder) AddSyscall(name string, argCount uint8) uint16 {
	id := uint16(len(b.syscalls))
	b.syscalls = append(b.syscalls, syscallEntry{argCount: argCount, name: name})
	return id
}

func (b *Builder) AddCustomSyscall(name string, argCount uint8, callbackAddr uint32) {
	b.customSyscalls = append(b.customSyscalls, customSyscallEntry{
		callbackAddr: callbackAddr, argCount: argCount, name: name,
	})
}

// Build emits the complete little-endian .hcb image.
func (b *Builder) Build() []byte {
	var trailer []byte
	trailer = appendU32(trailer, b.entryPoint)
	trailer = appendU16(trailer, b.nonVolatileGlobalCount)
	trailer = appendU16(trailer, b.volatileGlobalCount)
	trailer = appendU16(trailer, b.gameMode)
	trailer = appendLenPrefixed(trailer, b.title)
	trailer = appendU16(trailer, uint16(len(b.syscalls)))
	for _, s := range b.syscalls {
		trailer = append(trailer, s.argCount)
		trailer = appendLenPrefixed(trailer, []byte(s.name))
	}
	trailer = appendU16(trailer, uint16(len(b.customSyscalls)))
	for _, c := range b.customSyscalls {
		trailer = appendU32(trailer, c.callbackAddr)
		trailer = append(trailer, c.argCount)
		trailer = appendLenPrefixed(trailer, []byte(c.name))
	}

	sysDescOffset := uint32(4 + len(b.code))
	out := make([]byte, 4, 4+len(b.code)+len(trailer))
	binary.LittleEndian.PutUint32(out[0:4], sysDescOffset)
	out = append(out, b.code...)
	out = append(out, trailer...)
	return out
}

func appendU16(dst []byte, v uint16) []byte {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	return append(dst, buf[:]...)
}

func appendU32(dst []byte, v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return append(dst, buf[:]...)
}

func appendLenPrefixed(dst []byte, data []byte) []byte {
	dst = append(dst, uint8(len(data)))
	return append(dst, data...)
}
