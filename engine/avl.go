package engine

// avlNode is one node of the ordered event queue, keyed by activation time.
// Unlike the original's intrusive AVLNode mixed directly into CEvent, this is
// a plain pointer-linked struct that merely holds the Event it keys — Go's GC
// makes an intrusive back-pointer scheme unnecessary.
type avlNode struct {
	left, right *avlNode
	height      int // height of nil is 0; no -1 sentinel, no int16 overflow risk
	key         Time
	event       *Event
}

func newAVLNode(key Time, e *Event) *avlNode {
	return &avlNode{key: key, event: e}
}

func nodeHeight(n *avlNode) int {
	if n == nil {
		return 0
	}
	return n.height
}

func balanceFactor(n *avlNode) int {
	return nodeHeight(n.right) - nodeHeight(n.left)
}

func (n *avlNode) updateHeight() {
	lh, rh := nodeHeight(n.left), nodeHeight(n.right)
	if lh > rh {
		n.height = lh + 1
	} else {
		n.height = rh + 1
	}
}

// promoteRight rotates left: the right child becomes this subtree's root.
func (n *avlNode) promoteRight() *avlNode {
	p := n.right
	n.right = p.left
	p.left = n
	n.updateHeight()
	p.updateHeight()
	return p
}

// promoteLeft rotates right: the left child becomes this subtree's root.
func (n *avlNode) promoteLeft() *avlNode {
	p := n.left
	n.left = p.right
	p.right = n
	n.updateHeight()
	p.updateHeight()
	return p
}

func (n *avlNode) repairBalance() *avlNode {
	n.updateHeight()
	bf := balanceFactor(n)

	if bf < -1 {
		if balanceFactor(n.left) > 0 {
			n.left = n.left.promoteRight()
		}
		return n.promoteLeft()
	}
	if bf > 1 {
		if balanceFactor(n.right) < 0 {
			n.right = n.right.promoteLeft()
		}
		return n.promoteRight()
	}
	return n
}

func (n *avlNode) insert(ins *avlNode) *avlNode {
	if ins.key > n.key {
		if n.right != nil {
			n.right = n.right.insert(ins)
		} else {
			n.right = ins
		}
	} else {
		if n.left != nil {
			n.left = n.left.insert(ins)
		} else {
			n.left = ins
		}
	}
	return n.repairBalance()
}

// removeExact removes the exact node target (identity, not just key) from
// the subtree rooted at n. It returns the new subtree root and whether
// target was found. If target is in neither subtree the tree is left
// unchanged and found is false — the original's RemoveNode has an implicit
// fallthrough in that case; this rewrite makes the "not found" outcome
// explicit instead of inferring undefined behavior from the source.
func (n *avlNode) removeExact(target *avlNode) (*avlNode, bool) {
	if n == target {
		if n.left == nil {
			return n.right, true
		}
		if n.right == nil {
			return n.left, true
		}
		newLeft, lifted := n.left.removeRightEnd()
		lifted.left = newLeft
		lifted.right = n.right
		return lifted.repairBalance(), true
	}

	if target.key > n.key {
		if n.right == nil {
			return n, false
		}
		newRight, found := n.right.removeExact(target)
		n.right = newRight
		if !found {
			return n, false
		}
		return n.repairBalance(), true
	}

	if n.left == nil {
		return n, false
	}
	newLeft, found := n.left.removeExact(target)
	n.left = newLeft
	if !found {
		return n, false
	}
	return n.repairBalance(), true
}

// removeLeftEnd removes and returns the leftmost (smallest-key) node of the
// subtree rooted at n.
func (n *avlNode) removeLeftEnd() (*avlNode, *avlNode) {
	if n.left == nil {
		return n.right, n
	}
	newLeft, lifted := n.left.removeLeftEnd()
	n.left = newLeft
	return n.repairBalance(), lifted
}

// removeRightEnd removes and returns the rightmost (largest-key) node of the
// subtree rooted at n.
func (n *avlNode) removeRightEnd() (*avlNode, *avlNode) {
	if n.right == nil {
		return n.left, n
	}
	newRight, lifted := n.right.removeRightEnd()
	n.right = newRight
	return n.repairBalance(), lifted
}

// avlTree is the ordered queue keyed by activation time, rebuilt from the
// original source's AVL implementation without intrusive back-pointers.
type avlTree struct {
	root  *avlNode
	count int
}

func (t *avlTree) Len() int { return t.count }

// add inserts a new node keyed by key, holding e, into the tree.
func (t *avlTree) add(key Time, e *Event) *avlNode {
	n := newAVLNode(key, e)
	if t.root != nil {
		t.root = t.root.insert(n)
	} else {
		t.root = n
	}
	t.count++
	return n
}

// remove removes the exact node n from the tree (identity match, not just a
// key lookup, so two events sharing an activation_time are never confused).
func (t *avlTree) remove(n *avlNode) bool {
	if t.root == nil || n == nil {
		return false
	}
	newRoot, found := t.root.removeExact(n)
	t.root = newRoot
	if found {
		t.count--
	}
	return found
}

// removeMin removes and returns the node with the smallest key.
func (t *avlTree) removeMin() *avlNode {
	if t.root == nil {
		return nil
	}
	newRoot, lifted := t.root.removeLeftEnd()
	t.root = newRoot
	t.count--
	return lifted
}

// drainInto appends every event in the tree to out, in unspecified order,
// and empties the tree. Traversal is iterative with an explicit stack
// rather than the original's recursive descent: a balanced tree bounds
// recursion depth to O(log N), but reset paths may walk residue left over
// from a half-applied rebalance, so an explicit stack is the only safe
// choice for a traversal whose structural guarantees cannot be assumed.
func (t *avlTree) drainInto(out []*Event) []*Event {
	stack := make([]*avlNode, 0, t.count)
	if t.root != nil {
		stack = append(stack, t.root)
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}
		out = append(out, n.event)
		if n.left != nil {
			stack = append(stack, n.left)
		}
		if n.right != nil {
			stack = append(stack, n.right)
		}
	}
	t.root = nil
	t.count = 0
	return out
}
