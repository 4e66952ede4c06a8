package motion

import "rfvp/internal/prim"

// AnimFrameMs is the fixed per-frame baseline for the sprite-animation
// container (spec.md §4.7's "sprite-animation container" paragraph) —
// unlike the other nine containers it does not interpolate a curve, it
// cycles texture_id across a closed [start,end] range at this rate.
const AnimFrameMs = 100

// AnimCapacity matches the other single-purpose containers (V3D, Snow,
// Parts): one slot. Push for the prim already animating replaces it
// (see Push); Push for another prim fails while the slot is busy.
const AnimCapacity = 1

// AnimSlot is one running sprite animation.
type AnimSlot struct {
	PrimID     uint16
	Running    bool
	StartGraph int16
	EndGraph   int16
	Current    int16
	Loop       bool
	AccumMs    int32
}

// AnimPool cycles a primitive's TextureID across [StartGraph,EndGraph]
// at AnimFrameMs per step, optionally looping. It shares the free-list
// and replace-policy shape of Pool but not its curve-based Tick, so it
// is kept as a distinct type rather than squeezed into Pool's
// int64-component contract.
type AnimPool struct {
	slots []AnimSlot
	free  []int
}

func NewAnimPool() *AnimPool {
	p := &AnimPool{
		slots: make([]AnimSlot, AnimCapacity),
		free:  make([]int, AnimCapacity),
	}
	for i := range p.free {
		p.free[i] = AnimCapacity - 1 - i
	}
	return p
}

func (p *AnimPool) Capacity() int { return len(p.slots) }
func (p *AnimPool) Active() int   { return len(p.slots) - len(p.free) }

// Push installs a new sprite animation for primID, replacing any
// existing one for the same prim (no blending, matching the other
// containers' replace policy).
func (p *AnimPool) Push(primID uint16, startGraph, endGraph int16, loop bool) bool {
	p.stopFor(primID)
	if len(p.free) == 0 {
		return false
	}
	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.slots[idx] = AnimSlot{
		PrimID:     primID,
		Running:    true,
		StartGraph: startGraph,
		EndGraph:   endGraph,
		Current:    startGraph,
		Loop:       loop,
	}
	return true
}

func (p *AnimPool) stopFor(primID uint16) {
	for i := range p.slots {
		if p.slots[i].Running && p.slots[i].PrimID == primID {
			p.retireSlot(i)
		}
	}
}

func (p *AnimPool) Stop(primID uint16) bool {
	found := false
	for i := range p.slots {
		if p.slots[i].Running && p.slots[i].PrimID == primID {
			p.retireSlot(i)
			found = true
		}
	}
	return found
}

func (p *AnimPool) Running(primID uint16) bool {
	for i := range p.slots {
		if p.slots[i].Running && p.slots[i].PrimID == primID {
			return true
		}
	}
	return false
}

func (p *AnimPool) retireSlot(idx int) {
	p.slots[idx].Running = false
	p.free = append(p.free, idx)
}

// Export copies every slot for the snapshot codec (see Pool.Export).
func (p *AnimPool) Export() []AnimSlot {
	out := make([]AnimSlot, len(p.slots))
	copy(out, p.slots)
	return out
}

// Import replaces the pool's slots and rebuilds its free list (see
// Pool.Import).
func (p *AnimPool) Import(slots []AnimSlot) {
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

// Tick advances every running animation by dtMs. Fast-forward jumps
// straight to the final frame (EndGraph) and retires non-looping
// animations; looping animations keep running through fast-forward
// since they have no natural end state to commit.
func (p *AnimPool) Tick(tree *prim.Tree, dtMs int64, fastForward bool, gate Gate) {
	for i := range p.slots {
		s := &p.slots[i]
		if !s.Running {
			continue
		}
		if s.PrimID == prim.NoNode || gate(s.PrimID) {
			continue
		}

		if fastForward && !s.Loop {
			s.Current = s.EndGraph
			tree.MarkDirty(s.PrimID)
			tree.SetTextureID(s.PrimID, s.Current)
			p.retireSlot(i)
			continue
		}

		step := dtMs
		if step < 0 {
			step = 0
		}
		s.AccumMs += int32(step)
		finished := false
		for s.AccumMs >= AnimFrameMs && !finished {
			s.AccumMs -= AnimFrameMs
			if s.Current < s.EndGraph {
				s.Current++
			} else if s.Loop {
				s.Current = s.StartGraph
			} else {
				finished = true
			}
		}
		tree.MarkDirty(s.PrimID)
		tree.SetTextureID(s.PrimID, s.Current)
		if finished {
			p.retireSlot(i)
		}
	}
}
