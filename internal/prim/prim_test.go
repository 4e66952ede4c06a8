package prim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAttachDetach(t *testing.T) {
	tr := NewTree()
	require.NoError(t, tr.Attach(10, Root))
	require.NoError(t, tr.Attach(11, Root))
	require.NoError(t, tr.Attach(12, 10))

	var order []uint16
	tr.IterDrawOrder(Root, func(id uint16) { order = append(order, id) })
	require.Equal(t, []uint16{Root, 10, 12, 11}, order)

	tr.Detach(10)
	require.Equal(t, NoNode, tr.Node(10).Parent)
	// 12 stays attached to 10 even though 10 is detached from the tree.
	require.Equal(t, uint16(10), tr.Node(12).Parent)
}

func TestAttachRejectsCycle(t *testing.T) {
	tr := NewTree()
	require.NoError(t, tr.Attach(10, Root))
	require.NoError(t, tr.Attach(11, 10))

	err := tr.Attach(10, 11)
	require.Error(t, err)
}

func TestAttachReattachMovesNode(t *testing.T) {
	tr := NewTree()
	require.NoError(t, tr.Attach(1, Root))
	require.NoError(t, tr.Attach(2, Root))
	require.NoError(t, tr.Attach(3, 1))

	require.NoError(t, tr.Attach(3, 2))
	require.Equal(t, uint16(2), tr.Node(3).Parent)
	require.Equal(t, NoNode, tr.Node(1).FirstChild)
	require.Equal(t, uint16(3), tr.Node(2).FirstChild)
}

func TestIterDrawOrderSkipsHiddenSubtree(t *testing.T) {
	tr := NewTree()
	require.NoError(t, tr.Attach(1, Root))
	require.NoError(t, tr.Attach(2, 1))
	tr.SetDraw(1, false)

	var order []uint16
	tr.IterDrawOrder(Root, func(id uint16) { order = append(order, id) })
	require.Equal(t, []uint16{Root}, order)
}

func TestMarkDirtyFlag(t *testing.T) {
	tr := NewTree()
	require.Zero(t, tr.Node(5).Attr&AttrDirty)
	tr.MarkDirty(5)
	require.NotZero(t, tr.Node(5).Attr&AttrDirty)
	tr.ClearDirty()
	require.Zero(t, tr.Node(5).Attr&AttrDirty)
}

func TestGatedPauseAndCustomRoot(t *testing.T) {
	tr := NewTree()
	require.NoError(t, tr.Attach(1, Root))
	require.NoError(t, tr.Attach(2, 1))
	require.NoError(t, tr.Attach(3, Root))

	tr.SetPaused(1, true)
	require.True(t, tr.Gated(2, ScopeGlobal), "child of paused ancestor must gate")
	require.False(t, tr.Gated(3, ScopeGlobal))

	tr.SetPaused(1, false)
	tr.SetCustomRoot(1)
	require.False(t, tr.Gated(2, ScopeCustomRoot))
	require.True(t, tr.Gated(3, ScopeCustomRoot), "outside custom-root subtree must gate")
	require.False(t, tr.Gated(3, ScopeGlobal), "global scope ignores custom root")
}
