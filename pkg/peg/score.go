// Package peg solves the Cribbage pegging sub-game exhaustively: for a
// pair of four-card hands it builds the complete play tree under the
// 31-count rules, back-propagates minimax values, and packs each solved
// tree into a cache-friendly fixed-arity flat form. The cross-product of
// all play-hand classes is assembled into a matrix the CFR trainer
// indexes by class id.
package peg

import (
	"sort"

	"github.com/yourusername/cribengine/internal/cards"
)

// MaxCount is the cap on the running total of a single count.
const MaxCount = 31

// PairScores[k-1] is the award for extending a same-rank streak to
// k+1 cards: a pair, a pair royal, a double pair royal.
var PairScores = [3]int{2, 6, 12}

// CardValue returns the count value of a rank (face cards count 10).
func CardValue(rank int8) int {
	return int(cards.PlayValue(rank))
}

// currentCount returns the suffix of history laid since the last Go
// sentinel, i.e. the cards of the count in progress.
func currentCount(history []int8) []int8 {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i] == 0 {
			return history[i+1:]
		}
	}
	return history
}

// scoreLay scores laying play onto history: pairs against the previous
// card, the longest run closed by the play, fifteen and thirty-one.
// history excludes play; total includes it; pairLen is the same-rank
// streak carried into the lay. Returns the points awarded and the new
// pair and run streak lengths.
func scoreLay(history []int8, play int8, total, pairLen int) (pts, newPair, newRun int) {
	if n := len(history); n > 0 && history[n-1] == play {
		newPair = pairLen + 1
		pts += PairScores[newPair-1]
	}

	// Runs live within the current count only; Go sentinels never extend
	// one. The played card closes the window.
	window := append(append([]int8(nil), currentCount(history)...), play)
	for k := len(window); k >= 3; k-- {
		tail := append([]int8(nil), window[len(window)-k:]...)
		sort.Slice(tail, func(a, b int) bool { return tail[a] < tail[b] })
		consecutive := true
		for i := 1; i < len(tail); i++ {
			if tail[i]-tail[i-1] != 1 {
				consecutive = false
				break
			}
		}
		if consecutive {
			newRun = k
			pts += k
			break
		}
	}

	if total == 15 {
		pts += 2
	}
	if total == MaxCount {
		pts++
	}
	return pts, newPair, newRun
}
