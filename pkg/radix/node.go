package radix

// alphabetSize is one slot for the space separator plus one per letter a-z.
const alphabetSize = 27

// childSlot maps the leading byte of a key segment to its child-table slot.
// Returns -1 for bytes outside the indexed alphabet.
func childSlot(b byte) int {
	if b == ' ' {
		return 0
	}
	if b >= 'a' && b <= 'z' {
		return int(b-'a') + 1
	}
	return -1
}

// node carries one segment of a stored key. The child table is nil until the
// first child arrives, so the many leaf nodes stay at their minimum size.
type node[V comparable] struct {
	parent   *node[V]
	prefix   string
	values   []V
	children []*node[V]
}

func (n *node[V]) hasValue(value V) bool {
	for _, v := range n.values {
		if v == value {
			return true
		}
	}
	return false
}

func (n *node[V]) removeValue(value V) bool {
	for i, v := range n.values {
		if v == value {
			n.values = append(n.values[:i], n.values[i+1:]...)
			return true
		}
	}
	return false
}

func (n *node[V]) childAt(slot int) *node[V] {
	if n.children == nil {
		return nil
	}
	return n.children[slot]
}

func (n *node[V]) attach(child *node[V]) {
	if n.children == nil {
		n.children = make([]*node[V], alphabetSize)
	}
	n.children[childSlot(child.prefix[0])] = child
}

func (n *node[V]) detach(lead byte) {
	if n.children != nil {
		n.children[childSlot(lead)] = nil
	}
}

func (n *node[V]) childCount() int {
	count := 0
	for _, child := range n.children {
		if child != nil {
			count++
		}
	}
	return count
}

func (n *node[V]) onlyChild() *node[V] {
	for _, child := range n.children {
		if child != nil {
			return child
		}
	}
	return nil
}

// split cuts the segment at the given length and inserts a fresh node above
// this one holding the head. The node itself keeps its values and children
// and is pushed down under the remainder, so no grandchild pointers move.
func (n *node[V]) split(at int) *node[V] {
	upper := &node[V]{parent: n.parent, prefix: n.prefix[:at]}
	n.prefix = n.prefix[at:]
	upper.parent.attach(upper)
	upper.attach(n)
	n.parent = upper
	return upper
}

// tryMerge restores the compressed shape after a removal. A node left with no
// values and one child merges with that child; one with no values and no
// children is detached, which can cascade toward the root.
func (n *node[V]) tryMerge() {
	if len(n.values) > 0 {
		return
	}
	switch n.childCount() {
	case 0:
		if n.parent != nil {
			n.parent.detach(n.prefix[0])
			n.parent.tryMerge()
		}
	case 1:
		n.onlyChild().mergeUp()
	}
}

// mergeUp absorbs the parent's segment and takes its place under the
// grandparent. Merging runs in this direction so only one child pointer
// changes instead of every sibling's parent pointer. The root has no segment
// to give up and is never replaced.
func (n *node[V]) mergeUp() {
	if n.parent == nil || n.parent.parent == nil {
		return
	}
	n.prefix = n.parent.prefix + n.prefix
	n.parent = n.parent.parent
	n.parent.attach(n)
}

func (n *node[V]) collect(out []V) []V {
	out = append(out, n.values...)
	for _, child := range n.children {
		if child != nil {
			out = child.collect(out)
		}
	}
	return out
}

func (n *node[V]) walk(yield func(V) bool) bool {
	for _, v := range n.values {
		if !yield(v) {
			return false
		}
	}
	for _, child := range n.children {
		if child != nil && !child.walk(yield) {
			return false
		}
	}
	return true
}

// overlapLen counts the shared leading bytes of two segments.
func overlapLen(a, b string) int {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return i
}
