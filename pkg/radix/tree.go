/*
Package radix implements a compressed prefix tree over a fixed 27-character
alphabet: the lowercase letters a-z plus the space separator.

Every incoming key is normalized before use: letters are lowercased, every
other rune becomes a single space, and surrounding spaces are trimmed. Several
distinct values may share one key; duplicate key-value pairs are rejected.
Operation cost is bounded by key length, and all keys sharing a prefix sit
under a single subtree, which is what suits the structure to completion
queries.

The tree carries no locking of its own. A single writer may run with no
readers, or any number of readers with no writer; callers needing both at once
wrap the tree the way gazetteer.Directory does.
*/
package radix

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"unicode"
)

var (
	// ErrNilValue rejects the zero value of V, which the tree reserves to
	// mean "absent".
	ErrNilValue = errors.New("radix: cannot store the zero value")
	// ErrInvalidKey reports a key byte outside the indexed alphabet.
	ErrInvalidKey = errors.New("radix: key outside the a-z and space alphabet")
)

// Tree is a compressed prefix tree holding values of type V under normalized
// string keys. The zero Tree is not usable; call New.
type Tree[V comparable] struct {
	root *node[V]
	size int
}

// New returns an empty tree.
func New[V comparable]() *Tree[V] {
	return &Tree[V]{root: &node[V]{}}
}

// Normalize returns the canonical form of a key: letters lowercased, every
// other rune replaced by a single space, leading and trailing spaces trimmed.
// All tree operations apply it to their key argument, so callers only need it
// to predict what a stored key looks like.
func Normalize(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		r = unicode.ToLower(r)
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Trim(b.String(), " ")
}

// Insert stores value under the normalized key and reports whether the tree
// changed: inserting a pair that is already present is a no-op. A key that
// normalizes to the empty string stores the value at the root, where every
// search finds it.
func (t *Tree[V]) Insert(key string, value V) (bool, error) {
	var zero V
	if value == zero {
		return false, ErrNilValue
	}
	key = Normalize(key)

	cur := t.root
	for {
		switch {
		case key == cur.prefix:
			if cur.hasValue(value) {
				return false, nil
			}
			cur.values = append(cur.values, value)
			t.size++
			return true, nil
		case strings.HasPrefix(key, cur.prefix):
			key = key[len(cur.prefix):]
			slot := childSlot(key[0])
			if slot < 0 {
				// Unreachable after Normalize, but never silent.
				return false, fmt.Errorf("%w: %q", ErrInvalidKey, key[0])
			}
			child := cur.childAt(slot)
			if child == nil {
				cur.attach(&node[V]{parent: cur, prefix: key, values: []V{value}})
				t.size++
				return true, nil
			}
			cur = child
		default:
			cur = cur.split(overlapLen(cur.prefix, key))
		}
	}
}

// PrefixSearch returns every value whose key begins with the normalized key,
// in lexicographic key order. A key normalizing to the empty string matches
// the whole tree. A miss yields nil; searching never alters the tree.
func (t *Tree[V]) PrefixSearch(key string) []V {
	n := t.lookupPartial(Normalize(key))
	if n == nil {
		return nil
	}
	return n.collect(nil)
}

// Contains reports whether value is stored under exactly the normalized key.
// Unlike PrefixSearch, a longer stored key is not a match.
func (t *Tree[V]) Contains(key string, value V) bool {
	n := t.lookupExact(Normalize(key))
	return n != nil && n.hasValue(value)
}

// Remove deletes value from the first node whose key starts with the
// normalized key and reports whether anything changed. Removal restores the
// compressed shape: nodes left without values merge with a lone child or
// disappear.
func (t *Tree[V]) Remove(key string, value V) bool {
	n := t.lookupPartial(Normalize(key))
	if n == nil {
		return false
	}
	if !n.removeValue(value) {
		return false
	}
	t.size--
	n.tryMerge()
	return true
}

// All returns an iterator over every value in the tree, in the order
// PrefixSearch with an empty key would yield them. The sequence can be
// ranged over any number of times; iterating during modification is
// undefined.
func (t *Tree[V]) All() iter.Seq[V] {
	return func(yield func(V) bool) {
		t.root.walk(yield)
	}
}

// Len returns the number of stored values.
func (t *Tree[V]) Len() int {
	return t.size
}

// lookupPartial finds the shallowest node whose assembled key starts with
// key: either the walk consumes the key exactly, or the final node's segment
// extends past its end. The walk is read-only.
func (t *Tree[V]) lookupPartial(key string) *node[V] {
	cur := t.root
	for {
		if strings.HasPrefix(cur.prefix, key) {
			return cur
		}
		if !strings.HasPrefix(key, cur.prefix) {
			return nil
		}
		key = key[len(cur.prefix):]
		slot := childSlot(key[0])
		if slot < 0 {
			return nil
		}
		if cur = cur.childAt(slot); cur == nil {
			return nil
		}
	}
}

// lookupExact is lookupPartial with the looser terminal match removed: the
// key must land exactly on a node boundary.
func (t *Tree[V]) lookupExact(key string) *node[V] {
	cur := t.root
	for {
		if key == cur.prefix {
			return cur
		}
		if !strings.HasPrefix(key, cur.prefix) {
			return nil
		}
		key = key[len(cur.prefix):]
		slot := childSlot(key[0])
		if slot < 0 {
			return nil
		}
		if cur = cur.childAt(slot); cur == nil {
			return nil
		}
	}
}
