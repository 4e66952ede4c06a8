package value

import (
	"bytes"
	"encoding/gob"
)

// wireValue mirrors Value's fields for gob serialization. Value keeps
// its fields unexported so callers can't construct an inconsistent
// tagged union directly; gob only sees exported fields, so without
// this the snapshot codec would silently round-trip every Value as a
// bare Nil. Ground: the same GobEncoder/GobDecoder escape hatch the
// standard library documents for exactly this case.
type wireValue struct {
	Kind      Kind
	B         bool
	I         int32
	F         float32
	StrOffset uint32
	StrLen    uint32
	Dyn       string
	TableID   TableID
}

func (v Value) GobEncode() ([]byte, error) {
	w := wireValue{
		Kind:      v.kind,
		B:         v.b,
		I:         v.i,
		F:         v.f,
		StrOffset: v.strOffset,
		StrLen:    v.strLen,
		Dyn:       v.dyn,
		TableID:   v.table,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(w); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) GobDecode(data []byte) error {
	var w wireValue
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return err
	}
	*v = Value{
		kind:      w.Kind,
		b:         w.B,
		i:         w.I,
		f:         w.F,
		strOffset: w.StrOffset,
		strLen:    w.StrLen,
		dyn:       w.Dyn,
		table:     w.TableID,
	}
	return nil
}
