package motion

import "rfvp/internal/prim"

// Per spec.md §3, container capacities: 256 for alpha, 512 for each of
// translate/rotate/scale/Z, single slot for v3d/anim/parts/snow (the
// dissolve container's single slots live in package dissolve — see
// DESIGN.md for why that's a deliberate split from this package's nine).
const (
	AlphaCapacity     = 256
	TranslateCapacity = 512
	RotateCapacity    = 512
	ScaleCapacity     = 512
	ZCapacity         = 512
	V3DCapacity       = 1
	SnowCapacity      = 1
	PartsCapacity     = 1
)

func NewAlphaPool() *Pool {
	return NewPool(AlphaCapacity, 1, func(t *prim.Tree, id uint16, c []int64) {
		t.MarkDirty(id)
		t.SetAlpha(id, uint8(c[0]))
	})
}

func NewTranslatePool() *Pool {
	return NewPool(TranslateCapacity, 2, func(t *prim.Tree, id uint16, c []int64) {
		t.MarkDirty(id)
		t.SetXY(id, int16(c[0]), int16(c[1]))
	})
}

func NewRotatePool() *Pool {
	return NewPool(RotateCapacity, 1, func(t *prim.Tree, id uint16, c []int64) {
		t.MarkDirty(id)
		t.SetRot(id, int16(c[0]))
	})
}

func NewScalePool() *Pool {
	return NewPool(ScaleCapacity, 2, func(t *prim.Tree, id uint16, c []int64) {
		t.MarkDirty(id)
		t.SetFactor(id, int16(c[0]), int16(c[1]))
	})
}

func NewZPool() *Pool {
	return NewPool(ZCapacity, 1, func(t *prim.Tree, id uint16, c []int64) {
		t.MarkDirty(id)
		t.SetZ(id, int16(c[0]))
	})
}

// NewPartsPool drives a composite sprite's part/frame selection
// (texture_id) through the shared curve contract, single-instance per
// spec.md §3's container capacity table.
func NewPartsPool() *Pool {
	return NewPool(PartsCapacity, 1, func(t *prim.Tree, id uint16, c []int64) {
		t.MarkDirty(id)
		t.SetTextureID(id, int16(c[0]))
	})
}

// NewSnowPool drives a Snow-type primitive's alpha (its only
// continuously-tunable attribute) through the shared curve contract.
func NewSnowPool() *Pool {
	return NewPool(SnowCapacity, 1, func(t *prim.Tree, id uint16, c []int64) {
		t.MarkDirty(id)
		t.SetAlpha(id, uint8(c[0]))
	})
}

// V3DContainer is the single-instance 3D-parallax motion. Beyond the
// shared contract it additionally marks every primitive flagged
// AttrParallax as dirty whenever it is active, so the renderer rebuilds
// their parallax transform (spec.md §4.7).
type V3DContainer struct {
	pool *Pool
}

func NewV3DPool() *V3DContainer {
	return &V3DContainer{pool: NewPool(V3DCapacity, 3, func(t *prim.Tree, id uint16, c []int64) {
		t.MarkDirty(id)
		// The v3d target prim carries the parallax camera parameters;
		// downstream consumption of these three components is the
		// (external) renderer's concern.
		t.SetXY(id, int16(c[0]), int16(c[1]))
		t.SetZ(id, int16(c[2]))
	})}
}

func (v *V3DContainer) Push(primID uint16, src, dst []int64, durationMs int32, curve Curve, reverse bool) bool {
	return v.pool.Push(primID, src, dst, durationMs, curve, reverse)
}

func (v *V3DContainer) Stop(primID uint16) bool    { return v.pool.Stop(primID) }
func (v *V3DContainer) Running(primID uint16) bool { return v.pool.Running(primID) }
func (v *V3DContainer) Active() bool               { return v.pool.Active() > 0 }

func (v *V3DContainer) Export() []Slot    { return v.pool.Export() }
func (v *V3DContainer) Import(s []Slot) { v.pool.Import(s) }

func (v *V3DContainer) Tick(tree *prim.Tree, dtMs int64, fastForward bool, gate Gate, markParallax func(*prim.Tree)) {
	wasActive := v.Active()
	v.pool.Tick(tree, dtMs, fastForward, gate)
	if wasActive {
		markParallax(tree)
	}
}
