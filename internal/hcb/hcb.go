// Package hcb parses the .hcb bytecode file format (spec.md §6).
// Ground: teacher's internal/memory/cartridge.go LoadROM (magic/version
// check, bounds-checked header parse, typed errors on anything short
// or malformed) generalized from a fixed 32-byte header to this
// format's variable-length trailer-of-descriptors shape.
package hcb

import (
	"encoding/binary"

	"rfvp/internal/vmerr"
)

// SyscallDescriptor is one entry of the file's builtin syscall table:
// the script references syscalls by name, resolved to a host id at
// load time (internal/syscall.ResolveFileTable).
type SyscallDescriptor struct {
	ArgCount uint8
	Name     []byte
}

// CustomSyscallDescriptor is one script-defined callback syscall.
type CustomSyscallDescriptor struct {
	CallbackAddr uint32
	ArgCount     uint8
	Name         []byte
}

// File is a parsed .hcb program: header fields plus the code section
// slice (still undecoded — internal/decode.DecodeAt walks it lazily).
type File struct {
	EntryPoint             uint32
	NonVolatileGlobalCount uint16
	VolatileGlobalCount    uint16
	GameMode               uint16
	TitleRaw               []byte
	Syscalls               []SyscallDescriptor
	CustomSyscalls         []CustomSyscallDescriptor
	Code                   []byte
}

// Parse reads a complete .hcb image. Every read is bounds-checked;
// any truncation or malformed count fails with vmerr.InvalidPc (the
// loader has no separate "malformed file" kind — a bad header is
// structurally identical to a bad jump target: an out-of-range offset
// into file content).
func Parse(data []byte) (*File, error) {
	r := cursor{data: data}

	sysDescOffset, err := r.u32At(0)
	if err != nil {
		return nil, err
	}
	if sysDescOffset < 4 || uint64(sysDescOffset) > uint64(len(data)) {
		return nil, vmerr.Newf(vmerr.InvalidPc, "hcb: sys_desc_offset %d outside [4,%d]", sysDescOffset, len(data))
	}

	f := &File{Code: data[4:sysDescOffset]}

	r.pos = sysDescOffset
	if f.EntryPoint, err = r.u32(); err != nil {
		return nil, err
	}
	if f.NonVolatileGlobalCount, err = r.u16(); err != nil {
		return nil, err
	}
	if f.VolatileGlobalCount, err = r.u16(); err != nil {
		return nil, err
	}
	if f.GameMode, err = r.u16(); err != nil {
		return nil, err
	}
	if f.GameMode > 15 {
		return nil, vmerr.Newf(vmerr.InvalidPc, "hcb: game_mode %d out of range [0,15]", f.GameMode)
	}
	if f.TitleRaw, err = r.lenPrefixedBytes(); err != nil {
		return nil, err
	}

	syscallCount, err := r.u16()
	if err != nil {
		return nil, err
	}
	f.Syscalls = make([]SyscallDescriptor, syscallCount)
	for i := range f.Syscalls {
		argCount, err := r.u8()
		if err != nil {
			return nil, err
		}
		name, err := r.lenPrefixedBytes()
		if err != nil {
			return nil, err
		}
		f.Syscalls[i] = SyscallDescriptor{ArgCount: argCount, Name: name}
	}

	customCount, err := r.u16()
	if err != nil {
		return nil, err
	}
	f.CustomSyscalls = make([]CustomSyscallDescriptor, customCount)
	for i := range f.CustomSyscalls {
		addr, err := r.u32()
		if err != nil {
			return nil, err
		}
		argCount, err := r.u8()
		if err != nil {
			return nil, err
		}
		name, err := r.lenPrefixedBytes()
		if err != nil {
			return nil, err
		}
		f.CustomSyscalls[i] = CustomSyscallDescriptor{CallbackAddr: addr, ArgCount: argCount, Name: name}
	}

	return f, nil
}

type cursor struct {
	data []byte
	pos  uint32
}

func (c *cursor) need(n uint32) error {
	if uint64(c.pos)+uint64(n) > uint64(len(c.data)) {
		return vmerr.Newf(vmerr.InvalidPc, "hcb: truncated at offset %d (need %d, have %d)", c.pos, n, len(c.data))
	}
	return nil
}

func (c *cursor) u8() (uint8, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	v := c.data[c.pos]
	c.pos++
	return v, nil
}

func (c *cursor) u16() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.data[c.pos:])
	c.pos += 2
	return v, nil
}

func (c *cursor) u32() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.data[c.pos:])
	c.pos += 4
	return v, nil
}

func (c *cursor) u32At(offset uint32) (uint32, error) {
	c.pos = offset
	return c.u32()
}

func (c *cursor) lenPrefixedBytes() ([]byte, error) {
	n, err := c.u8()
	if err != nil {
		return nil, err
	}
	if err := c.need(uint32(n)); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, c.data[c.pos:c.pos+uint32(n)])
	c.pos += uint32(n)
	return out, nil
}
