package peg

import (
	"math/rand"
	"testing"

	"github.com/yourusername/cribengine/internal/cards"
)

func TestFlattenRoundTrip(t *testing.T) {
	pairs := [][2]cards.PlayHand{
		{{2, 3, 4, 5}, {7, 8, 9, 10}},
		{{1, 1, 2, 2}, {1, 1, 2, 2}},
		{{10, 10, 11, 11}, {11, 11, 10, 10}},
		{{5, 5, 5, 5}, {6, 7, 8, 9}},
		{{1, 5, 10, 13}, {2, 2, 12, 12}},
	}

	for _, pair := range pairs {
		root := NewGame(pair[0].Ranks(), pair[1].Ranks())
		root.Solve()
		flat := Flatten(root)

		if len(flat) == 0 {
			t.Fatalf("pair %v: empty flat tree", pair)
		}
		if got := flat.Value(); got != root.Value {
			t.Errorf("pair %v: flat value %d, recursive value %d", pair, got, root.Value)
		}
	}
}

func TestFlattenRandomRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	for trial := 0; trial < 30; trial++ {
		h1, h2 := randomPlayHand(rng), randomPlayHand(rng)
		if !cards.Compatible(h1, h2) {
			continue
		}
		root := NewGame(h1.Ranks(), h2.Ranks())
		root.Solve()
		flat := Flatten(root)
		if got := flat.Value(); got != root.Value {
			t.Errorf("hands %v/%v: flat value %d, recursive value %d", h1, h2, got, root.Value)
		}
	}
}

func TestFlattenStructure(t *testing.T) {
	root := NewGame([]int8{2, 3, 4, 5}, []int8{7, 8, 9, 10})
	root.Solve()
	flat := Flatten(root)

	// The packing queue mirrors Flatten's: only children of non-leaf
	// nodes get slots of their own.
	queue := []*State{root}
	for qi := 0; qi < len(queue); qi++ {
		s := queue[qi]
		fn := flat[qi]

		if int(fn.N) != len(s.Children) {
			t.Fatalf("node %d: packed %d children, tree has %d", qi, fn.N, len(s.Children))
		}
		leaf := true
		for i, c := range s.Children {
			if fn.Plays[i] != c.Play {
				t.Errorf("node %d child %d: packed play %d, tree play %d", qi, i, fn.Plays[i], c.Play)
			}
			if int(fn.Values[i]) != c.Value {
				t.Errorf("node %d child %d: packed value %d, tree value %d", qi, i, fn.Values[i], c.Value)
			}
			if len(c.Children) > 0 {
				leaf = false
			}
		}
		for i := len(s.Children); i < MaxArity; i++ {
			if fn.Plays[i] != 0 || fn.Values[i] != 0 {
				t.Errorf("node %d: padding slot %d not zeroed", qi, i)
			}
		}
		if fn.IsLeaf != leaf {
			t.Errorf("node %d: IsLeaf = %v, expected %v", qi, fn.IsLeaf, leaf)
		}
		if !leaf {
			if int(fn.First) != len(queue) {
				t.Errorf("node %d: first child index %d, expected %d", qi, fn.First, len(queue))
			}
			queue = append(queue, s.Children...)
		}
	}
	if len(queue) != len(flat) {
		t.Errorf("flat tree has %d nodes, expected %d", len(flat), len(queue))
	}
}
