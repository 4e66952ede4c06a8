package decode

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"rfvp/internal/trace"
	"rfvp/internal/vmerr"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

// Charset selects the .hcb header's declared text encoding.
type Charset uint8

const (
	ShiftJIS Charset = iota
	GBK
	UTF8
)

func (c Charset) decoder() *encoding.Decoder {
	switch c {
	case ShiftJIS:
		return japanese.ShiftJIS.NewDecoder()
	case GBK:
		return simplifiedchinese.GBK.NewDecoder()
	default:
		return unicode.UTF8.NewDecoder()
	}
}

// ToUTF8 decodes raw bytes (a PushString operand, the .hcb title, or a
// syscall name) per the file's declared charset. Malformed input is
// replaced with U+FFFD and logged rather than aborting the decode,
// per spec.md §7's EncodingError ("logged, operation proceeds with
// replacement characters").
func ToUTF8(raw []byte, charset Charset, r *trace.Ring) string {
	out, err := charset.decoder().Bytes(raw)
	if err == nil && bytes.ContainsRune(out, utf8.RuneError) {
		err = errors.New("malformed input replaced with U+FFFD")
	}
	if err != nil && r != nil {
		r.Logf(trace.CategoryVM, trace.LevelWarn, "nls: %s",
			vmerr.Wrap(vmerr.EncodingError, "decode text", err))
	}
	return string(out)
}
