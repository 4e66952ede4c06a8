package decode

import (
	"encoding/binary"
	"math"

	"rfvp/internal/vmerr"
)

// reader is a bounds-checked little-endian cursor over a code section.
// Any read past len(code) fails closed with InvalidPc rather than
// panicking or wrapping.
type reader struct {
	code []byte
	pos  uint32
}

func (r *reader) need(n uint32) error {
	if uint64(r.pos)+uint64(n) > uint64(len(r.code)) {
		return vmerr.Newf(vmerr.InvalidPc, "decode: need %d bytes at pc=%d, code len=%d", n, r.pos, len(r.code))
	}
	return nil
}

func (r *reader) u8() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.code[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) i8() (int8, error) {
	v, err := r.u8()
	return int8(v), err
}

func (r *reader) u16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.code[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *reader) i16() (int16, error) {
	v, err := r.u16()
	return int16(v), err
}

func (r *reader) u32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.code[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) i32() (int32, error) {
	v, err := r.u32()
	return int32(v), err
}

func (r *reader) f32() (float32, error) {
	v, err := r.u32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// lenPrefixedBytes reads a u8 length followed by that many raw bytes
// (the .hcb string/title/syscall-name encoding).
func (r *reader) lenPrefixedBytes() ([]byte, error) {
	n, err := r.u8()
	if err != nil {
		return nil, err
	}
	if err := r.need(uint32(n)); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.code[r.pos:r.pos+uint32(n)])
	r.pos += uint32(n)
	return out, nil
}
