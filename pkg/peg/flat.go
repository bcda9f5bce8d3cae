package peg

import (
	"fmt"
	"math"
)

// MaxArity is the branching bound of a pegging node: a four-card hand
// holds at most four distinct ranks.
const MaxArity = 4

// FlatNode is one packed node of a flattened pegging tree. The node's
// children occupy positions [First, First+N) of the flat array and their
// minimax values are embedded in Values. IsLeaf marks nodes whose
// children are all terminal; First is unused under it.
type FlatNode struct {
	N      int8
	Plays  [MaxArity]int8
	First  int16
	Values [MaxArity]int8
	IsLeaf bool
}

// FlatTree is the breadth-first packed form of a solved pegging tree,
// root at index 0.
type FlatTree []FlatNode

// Flatten packs a solved tree breadth-first. The recursive tree can be
// released afterwards; only the flat form is retained by the matrix.
func Flatten(root *State) FlatTree {
	queue := []*State{root}
	tree := make(FlatTree, 0, 64)

	for qi := 0; qi < len(queue); qi++ {
		s := queue[qi]

		var fn FlatNode
		n := len(s.Children)
		if n > MaxArity {
			panic(fmt.Sprintf("peg: node has %d children, max %d", n, MaxArity))
		}
		fn.N = int8(n)

		leaf := true
		for i, c := range s.Children {
			fn.Plays[i] = c.Play
			if c.Value < math.MinInt8 || c.Value > math.MaxInt8 {
				panic(fmt.Sprintf("peg: node value %d overflows int8", c.Value))
			}
			fn.Values[i] = int8(c.Value)
			if len(c.Children) > 0 {
				leaf = false
			}
		}
		fn.IsLeaf = leaf

		if !leaf {
			if len(queue) > math.MaxInt16 {
				panic(fmt.Sprintf("peg: flat tree exceeds %d nodes", math.MaxInt16))
			}
			fn.First = int16(len(queue))
			queue = append(queue, s.Children...)
		}
		tree = append(tree, fn)
	}
	return tree
}

// Value recomputes the root minimax value by walking the packed nodes.
// The packed form carries no owner, so the root is taken to be a
// pone-to-act node as NewGame builds it; for such trees Value reproduces
// State.Value of the tree the flat form was built from.
func (t FlatTree) Value() int {
	return t.value(0, Pone)
}

func (t FlatTree) value(i int, owner Role) int {
	n := t[i]
	if n.N == 0 {
		panic("peg: walked into a childless packed node")
	}

	var best int
	for k := 0; k < int(n.N); k++ {
		var v int
		switch {
		case n.IsLeaf:
			v = int(n.Values[k])
		default:
			ci := int(n.First) + k
			if t[ci].N == 0 {
				// Terminal sibling of a deeper branch; its value is
				// embedded in this node.
				v = int(n.Values[k])
			} else {
				v = t.value(ci, owner.Opponent())
			}
		}
		if k == 0 || (owner == Dealer && v > best) || (owner == Pone && v < best) {
			best = v
		}
	}
	return best
}
