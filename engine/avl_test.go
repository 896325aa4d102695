package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAVLTreeOrdersByKey(t *testing.T) {
	var tree avlTree
	keys := []Time{50, 10, 40, 20, 30, 5, 45}
	for _, k := range keys {
		tree.add(k, &Event{ActivationTime: k})
	}
	require.Equal(t, len(keys), tree.Len())

	var got []Time
	for tree.Len() > 0 {
		n := tree.removeMin()
		got = append(got, n.key)
	}
	require.Equal(t, []Time{5, 10, 20, 30, 40, 45, 50}, got)
}

func TestAVLTreeRemoveExactNotFound(t *testing.T) {
	var tree avlTree
	a := tree.add(10, &Event{})
	tree.add(20, &Event{})

	// A node never inserted into this tree must be reported not-found,
	// leaving the tree unchanged, per the resolved Open Question on
	// RemoveNode's fallthrough.
	stray := newAVLNode(15, &Event{})
	ok := tree.remove(stray)
	require.False(t, ok)
	require.Equal(t, 2, tree.Len())

	ok = tree.remove(a)
	require.True(t, ok)
	require.Equal(t, 1, tree.Len())
}

func TestAVLTreeStaysBalanced(t *testing.T) {
	var tree avlTree
	r := rand.New(rand.NewSource(1))
	n := 2000
	nodes := make([]*avlNode, 0, n)
	for i := 0; i < n; i++ {
		nodes = append(nodes, tree.add(Time(r.Intn(1_000_000)), &Event{}))
	}
	require.LessOrEqual(t, nodeHeight(tree.root), 2*log2(n+1)+2)

	for _, nd := range nodes {
		tree.remove(nd)
	}
	require.Equal(t, 0, tree.Len())
	require.Nil(t, tree.root)
}

func log2(n int) int {
	l := 0
	for n > 1 {
		n >>= 1
		l++
	}
	return l
}

func TestDrainIntoEmptiesTree(t *testing.T) {
	var tree avlTree
	for i := 0; i < 10; i++ {
		tree.add(Time(i), &Event{ActivationTime: Time(i)})
	}
	out := tree.drainInto(nil)
	require.Len(t, out, 10)
	require.Equal(t, 0, tree.Len())
	require.Nil(t, tree.root)
}
