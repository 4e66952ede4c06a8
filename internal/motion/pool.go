package motion

import "rfvp/internal/prim"

// Slot is one running (or free) motion record, sized for the
// container's component count (1 for alpha/rot/Z, 2 for
// translate/scale, 3 for v3d).
type Slot struct {
	PrimID     uint16
	Running    bool
	Reverse    bool
	Src, Dst   []int64
	DurationMs int32
	ElapsedMs  int32
	Curve      Curve
}

// Gate decides, for a given prim id, whether a motion writing to it
// should be skipped this tick (self/ancestor paused, or out of a
// restricted custom-root scope) without retiring it.
type Gate func(primID uint16) bool

// Setter writes a slot's current interpolated components to the
// primitive tree. The tree is passed so the setter can also
// prim.MarkDirty before writing, per spec.md §4.6's "motions call this
// before any write".
type Setter func(tree *prim.Tree, primID uint16, components []int64)

// Pool is the shared interpolator contract backing all but the
// sprite-animation container (which cycles a texture id on a fixed
// period rather than interpolating a curve — see anim.go).
type Pool struct {
	slots      []Slot
	free       []int
	components int
	setter     Setter
}

// NewPool allocates a pool with the given free-list capacity and
// per-slot component count, bound to setter.
func NewPool(capacity, components int, setter Setter) *Pool {
	p := &Pool{
		slots:      make([]Slot, capacity),
		free:       make([]int, capacity),
		components: components,
		setter:     setter,
	}
	for i := range p.free {
		p.free[i] = capacity - 1 - i
	}
	return p
}

// Capacity returns the pool's fixed slot count.
func (p *Pool) Capacity() int { return len(p.slots) }

// Active reports how many slots are currently running.
func (p *Pool) Active() int { return len(p.slots) - len(p.free) }

// Push installs a new motion, retiring any existing running motion for
// the same prim id in this pool first (the spec's "replace policy": no
// blending). Returns false if the pool has no free slot.
func (p *Pool) Push(primID uint16, src, dst []int64, durationMs int32, curve Curve, reverse bool) bool {
	p.stopFor(primID)
	if len(p.free) == 0 {
		return false
	}
	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.slots[idx] = Slot{
		PrimID:     primID,
		Running:    true,
		Reverse:    reverse,
		Src:        append([]int64(nil), src...),
		Dst:        append([]int64(nil), dst...),
		DurationMs: durationMs,
		Curve:      curve,
	}
	return true
}

// stopFor retires (without writing dst) any running slot bound to
// primID, so Push's replace policy starts clean.
func (p *Pool) stopFor(primID uint16) {
	for i := range p.slots {
		if p.slots[i].Running && p.slots[i].PrimID == primID {
			p.retireSlot(i)
		}
	}
}

// Stop explicitly retires the motion for primID without writing dst
// (used by Stop-family syscalls, distinct from natural completion).
func (p *Pool) Stop(primID uint16) bool {
	found := false
	for i := range p.slots {
		if p.slots[i].Running && p.slots[i].PrimID == primID {
			p.retireSlot(i)
			found = true
		}
	}
	return found
}

// Running reports whether a motion for primID is currently active
// (the Test-family syscalls).
func (p *Pool) Running(primID uint16) bool {
	for i := range p.slots {
		if p.slots[i].Running && p.slots[i].PrimID == primID {
			return true
		}
	}
	return false
}

func (p *Pool) retireSlot(idx int) {
	p.slots[idx].Running = false
	p.free = append(p.free, idx)
}

// Export copies every slot (running and free alike) for the snapshot
// codec; slot index is significant since Import restores into the same
// indices without reallocating the free list from scratch.
func (p *Pool) Export() []Slot {
	out := make([]Slot, len(p.slots))
	for i, s := range p.slots {
		out[i] = Slot{
			PrimID:     s.PrimID,
			Running:    s.Running,
			Reverse:    s.Reverse,
			Src:        append([]int64(nil), s.Src...),
			Dst:        append([]int64(nil), s.Dst...),
			DurationMs: s.DurationMs,
			ElapsedMs:  s.ElapsedMs,
			Curve:      s.Curve,
		}
	}
	return out
}

// Import replaces the pool's slots with slots and rebuilds the free
// list from whichever are not Running (snapshot apply step 5).
func (p *Pool) Import(slots []Slot) {
	if len(slots) != len(p.slots) {
		return
	}
	copy(p.slots, slots)
	p.free = p.free[:0]
	for i := len(p.slots) - 1; i >= 0; i-- {
		if !p.slots[i].Running {
			p.free = append(p.free, i)
		}
	}
}

// Tick advances every running motion by dtMs. fastForward (dtMs <
// 0, or the u32::MAX sentinel already translated by the caller into
// fastForward=true) commits every running motion's dst immediately.
func (p *Pool) Tick(tree *prim.Tree, dtMs int64, fastForward bool, gate Gate) {
	step := dtMs
	for i := range p.slots {
		s := &p.slots[i]
		if !s.Running {
			continue
		}
		if s.PrimID == prim.NoNode || gate(s.PrimID) {
			continue
		}

		if fastForward || step < 0 {
			p.setter(tree, s.PrimID, s.Dst)
			p.retireSlot(i)
			continue
		}

		// Reverse only flips a negative step; since negative dt is
		// already fast-forwarded above, this branch only ever sees
		// step >= 0 and Reverse is a no-op here. Resolves spec.md
		// §4.7 step 2's ambiguous reverse-vs-fast-forward ordering in
		// favor of scenario 3 (dt_ms=-1 always retires immediately).
		effStep := step
		if s.Reverse && effStep < 0 {
			effStep = -effStep
		}
		s.ElapsedMs += int32(effStep)

		if s.Curve == CurveNone || s.DurationMs <= 0 || s.ElapsedMs >= s.DurationMs {
			p.setter(tree, s.PrimID, s.Dst)
			p.retireSlot(i)
			continue
		}

		t := float64(s.ElapsedMs) / float64(s.DurationMs)
		out := make([]int64, p.components)
		for c := 0; c < p.components; c++ {
			out[c] = Interpolate(s.Curve, s.Src[c], s.Dst[c], t)
		}
		p.setter(tree, s.PrimID, out)
	}
}
