package strategy

import (
	"fmt"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/yourusername/cribengine/internal/cards"
)

// EnumerateHands sweeps every six-card combination of deck, canonicalizes
// each hand and tallies occurrences per canonical class. It returns the
// classes in first-seen order together with the counts; the counts sum to
// C(len(deck), 6). The full deck yields C(52,6) = 20,358,520 draws.
func EnumerateHands(deck []cards.Card) ([]cards.Hand, map[cards.Hand]int, error) {
	if len(deck) < cards.HandSize {
		return nil, nil, fmt.Errorf("deck has %d cards, need at least %d", len(deck), cards.HandSize)
	}

	gen := combin.NewCombinationGenerator(len(deck), cards.HandSize)
	idx := make([]int, cards.HandSize)
	hand := make([]cards.Card, cards.HandSize)

	var order []cards.Hand
	counts := make(map[cards.Hand]int)
	for gen.Next() {
		gen.Combination(idx)
		for i, k := range idx {
			hand[i] = deck[k]
		}
		h, _, err := cards.Canonicalize(hand)
		if err != nil {
			return nil, nil, fmt.Errorf("enumerating hands: %w", err)
		}
		if _, ok := counts[h]; !ok {
			order = append(order, h)
		}
		counts[h]++
	}
	return order, counts, nil
}
