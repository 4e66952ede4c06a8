package prim

// Plain attribute writes. None of these cascade to children; motions
// and syscalls call MarkDirty explicitly before writing, per spec.md
// §4.6.

func (t *Tree) SetXY(id uint16, x, y int16) {
	n := t.Node(id)
	if n == nil {
		return
	}
	n.X, n.Y = x, y
}

func (t *Tree) SetZ(id uint16, z int16) {
	if n := t.Node(id); n != nil {
		n.Z = z
	}
}

func (t *Tree) SetRot(id uint16, rot int16) {
	if n := t.Node(id); n != nil {
		n.Rot = rot
	}
}

func (t *Tree) SetFactor(id uint16, fx, fy int16) {
	if n := t.Node(id); n != nil {
		n.FactorX, n.FactorY = fx, fy
	}
}

func (t *Tree) SetAlpha(id uint16, alpha uint8) {
	if n := t.Node(id); n != nil {
		n.Alpha = alpha
	}
}

func (t *Tree) SetTextureID(id uint16, tex int16) {
	if n := t.Node(id); n != nil {
		n.TextureID = tex
	}
}

func (t *Tree) SetWH(id uint16, w, h int16) {
	if n := t.Node(id); n != nil {
		n.Width, n.Height = w, h
	}
}

func (t *Tree) SetType(id uint16, ty Type) {
	if n := t.Node(id); n != nil {
		n.Type = ty
	}
}

func (t *Tree) SetDraw(id uint16, draw bool) {
	if n := t.Node(id); n != nil {
		n.Draw = draw
	}
}

func (t *Tree) SetPaused(id uint16, paused bool) {
	if n := t.Node(id); n != nil {
		n.Paused = paused
	}
}

func (t *Tree) SetSpriteOverride(id, override uint16) {
	if n := t.Node(id); n != nil {
		n.SpriteOverride = override
	}
}

// Hit reports whether point (px,py) falls within node's axis-aligned
// bounding box in its local coordinate space, for the syscall family's
// Hit test.
func (t *Tree) Hit(id uint16, px, py int16) bool {
	n := t.Node(id)
	if n == nil || !n.Draw {
		return false
	}
	return px >= n.X && px < n.X+n.Width && py >= n.Y && py < n.Y+n.Height
}
