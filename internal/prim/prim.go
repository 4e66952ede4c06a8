// Package prim implements the primitive tree: a fixed 4096-slot scene
// graph of sprite/group/tile/text/snow nodes, addressed by explicit id
// from bytecode. Ground: the teacher's index-based register file style
// (internal/cpu.CPUState's flat array-of-registers, internal/ppu's OAM
// slot table) generalized per DESIGN NOTES into an explicit
// parent/child tree with upward cycle detection, since the teacher's
// PPU sprite table is flat with no parent/child relationship at all.
package prim

import "rfvp/internal/vmerr"

// NumNodes is the fixed capacity of the primitive tree.
const NumNodes = 4096

// NoNode is the sentinel "no primitive" id (4095).
const NoNode uint16 = NumNodes - 1

// Root is the id of the tree's root node.
const Root uint16 = 0

// Type is the primitive's shape.
type Type uint8

const (
	TypeNone Type = iota
	TypeGroup
	TypeSprite
	TypeTile
	TypeText
	TypeSnow
)

// Attribute flag bits, per spec.md §3.
const (
	AttrParallax uint16 = 0x04 // "3D-parallax participant"
	AttrDirty    uint16 = 0x40 // "dirty this frame"
)

// Node is one slot of the primitive tree.
type Node struct {
	Type Type

	X, Y             int16
	Z                int16
	Rot              int16
	FactorX, FactorY int16 // 1000 = unity
	Alpha            uint8

	Parent         uint16
	FirstChild     uint16
	NextSibling    uint16
	SpriteOverride uint16

	Attr   uint16
	Paused bool
	Draw   bool

	TextureID     int16
	Width, Height int16
}

func newNode() Node {
	return Node{
		Parent:         NoNode,
		FirstChild:     NoNode,
		NextSibling:    NoNode,
		SpriteOverride: NoNode,
		Draw:           true,
		FactorX:        1000,
		FactorY:        1000,
	}
}

// RootScope selects how pause/custom-root gating is applied to a
// motion tick phase (spec.md §4.6's "custom-root scope").
type RootScope int

const (
	ScopeGlobal     RootScope = iota // skip only if self/ancestor paused
	ScopeCustomRoot                  // also skip nodes not reachable upward to custom root
)

// Tree is the primitive scene graph.
type Tree struct {
	nodes      [NumNodes]Node
	customRoot uint16
}

// NewTree creates a tree with every slot at its newNode default and the
// root node initialized as an always-visible group.
func NewTree() *Tree {
	t := &Tree{customRoot: NoNode}
	for i := range t.nodes {
		t.nodes[i] = newNode()
	}
	t.nodes[Root].Type = TypeGroup
	return t
}

func validID(id uint16) bool { return id < NumNodes-1 } // exclude sentinel from "valid" addressable ids

// Node returns a pointer to the node at id. Callers must not retain it
// across a tree mutation that could reallocate (the array never
// reallocates, so this is safe for the tree's lifetime).
func (t *Tree) Node(id uint16) *Node {
	if id >= NumNodes {
		return nil
	}
	return &t.nodes[id]
}

// SetCustomRoot installs the nominated custom-root node id (NoNode to
// disable custom-root scoping).
func (t *Tree) SetCustomRoot(id uint16) { t.customRoot = id }

func (t *Tree) CustomRoot() uint16 { return t.customRoot }

// isAncestor reports whether candidate is found by walking upward
// from start via Parent links.
func (t *Tree) isAncestor(candidate, start uint16) bool {
	cur := start
	for cur != NoNode {
		if cur == candidate {
			return true
		}
		cur = t.nodes[cur].Parent
	}
	return false
}

// Attach detaches child from its current parent (if any) and appends
// it to parent's child list (insertion order). Rejects with
// CycleDetected if parent is a descendant of child (i.e. child is an
// ancestor of parent).
func (t *Tree) Attach(child, parent uint16) error {
	if !validID(child) || !validID(parent) {
		return vmerr.Newf(vmerr.ResourceNotFound, "attach: invalid node id child=%d parent=%d", child, parent)
	}
	if t.isAncestor(child, parent) {
		return vmerr.Newf(vmerr.CycleDetected, "attach: node %d is an ancestor of %d", child, parent)
	}
	t.Detach(child)

	p := &t.nodes[parent]
	if p.FirstChild == NoNode {
		p.FirstChild = child
	} else {
		cur := p.FirstChild
		for t.nodes[cur].NextSibling != NoNode {
			cur = t.nodes[cur].NextSibling
		}
		t.nodes[cur].NextSibling = child
	}
	t.nodes[child].Parent = parent
	t.nodes[child].NextSibling = NoNode
	return nil
}

// Detach unlinks node from its parent and siblings, keeping its
// subtree intact.
func (t *Tree) Detach(node uint16) {
	if !validID(node) {
		return
	}
	n := &t.nodes[node]
	parent := n.Parent
	if parent == NoNode {
		return
	}
	p := &t.nodes[parent]
	if p.FirstChild == node {
		p.FirstChild = n.NextSibling
	} else {
		cur := p.FirstChild
		for cur != NoNode && t.nodes[cur].NextSibling != node {
			cur = t.nodes[cur].NextSibling
		}
		if cur != NoNode {
			t.nodes[cur].NextSibling = n.NextSibling
		}
	}
	n.Parent = NoNode
	n.NextSibling = NoNode
}

// MarkDirty sets the dirty flag; motions call this before any write.
func (t *Tree) MarkDirty(node uint16) {
	if !validID(node) {
		return
	}
	t.nodes[node].Attr |= AttrDirty
}

// ClearDirty clears the dirty flag for every node; called once a tick
// after the renderer has consumed the frame.
func (t *Tree) ClearDirty() {
	for i := range t.nodes {
		t.nodes[i].Attr &^= AttrDirty
	}
}

// IsFrozen reports whether node or any ancestor has Paused set.
func (t *Tree) IsFrozen(node uint16) bool {
	cur := node
	for cur != NoNode {
		if t.nodes[cur].Paused {
			return true
		}
		cur = t.nodes[cur].Parent
	}
	return false
}

// UnderCustomRoot reports whether node is reachable upward to the
// installed custom root (inclusive). If no custom root is installed,
// every node qualifies.
func (t *Tree) UnderCustomRoot(node uint16) bool {
	if t.customRoot == NoNode {
		return true
	}
	return t.isAncestor(t.customRoot, node) || node == t.customRoot
}

// Gated reports whether a motion targeting node should be skipped this
// tick under the given scope.
func (t *Tree) Gated(node uint16, scope RootScope) bool {
	if !validID(node) || node == NoNode {
		return true
	}
	if t.IsFrozen(node) {
		return true
	}
	if scope == ScopeCustomRoot && !t.UnderCustomRoot(node) {
		return true
	}
	return false
}

// Export copies the tree's full node array and custom-root setting,
// for the snapshot codec.
func (t *Tree) Export() (nodes [NumNodes]Node, customRoot uint16) {
	return t.nodes, t.customRoot
}

// Reset reinitializes every slot to its newNode default (step 2 of
// snapshot apply's "stop/clear then rebuild" order, spec.md §4.10).
func (t *Tree) Reset() {
	for i := range t.nodes {
		t.nodes[i] = newNode()
	}
	t.nodes[Root].Type = TypeGroup
	t.customRoot = NoNode
}

// Import replaces every slot with nodes and installs customRoot,
// following a Reset (snapshot apply step 2).
func (t *Tree) Import(nodes [NumNodes]Node, customRoot uint16) {
	t.nodes = nodes
	t.customRoot = customRoot
}

// IterDrawOrder walks the subtree rooted at root depth-first, children
// in insertion order, calling visit(id) for each visible node.
// Subtrees under a Draw=false node are skipped entirely.
func (t *Tree) IterDrawOrder(root uint16, visit func(id uint16)) {
	if !validID(root) {
		return
	}
	if !t.nodes[root].Draw {
		return
	}
	visit(root)
	child := t.nodes[root].FirstChild
	for child != NoNode {
		t.IterDrawOrder(child, visit)
		child = t.nodes[child].NextSibling
	}
}
