package peg

import (
	"github.com/yourusername/cribengine/internal/cards"
)

// Role identifies the player to act at a node. The dealer maximizes the
// pegging differential, the pone minimizes it; the pone always leads.
type Role int8

const (
	Dealer Role = iota
	Pone
)

// Opponent returns the other role.
func (r Role) Opponent() Role {
	return 1 - r
}

// String returns the role name.
func (r Role) String() string {
	if r == Dealer {
		return "dealer"
	}
	return "pone"
}

// State is one node of the pegging game tree. History records every lay
// in order, with rank 0 as the Go sentinel; Diffs carries the rank
// differences between consecutive cards laid since the last sentinel:
// it is cleared when the count resets and restarts empty at the first
// lay after any Go. Value and BestPlay are filled by Solve.
type State struct {
	Owner   Role
	Hands   [2][]int8
	History []int8
	Diffs   []int8
	Total   int
	PairLen int
	RunLen  int
	Scores  [2]int

	// Play is the rank whose lay produced this node (0 for the root and
	// for Go transitions).
	Play int8

	Children []*State
	Value    int
	BestPlay int8
}

// NewGame roots the pegging sub-game for the given four-card hands.
// The pone leads.
func NewGame(dealer, pone []int8) *State {
	return &State{
		Owner: Pone,
		Hands: [2][]int8{
			Dealer: append([]int8(nil), dealer...),
			Pone:   append([]int8(nil), pone...),
		},
	}
}

// appendRank returns a fresh slice of xs extended by v. Child states
// never alias a parent's history.
func appendRank(xs []int8, v int8) []int8 {
	out := make([]int8, len(xs)+1)
	copy(out, xs)
	out[len(xs)] = v
	return out
}

// removeOne returns a copy of hand with the first occurrence of rank
// removed.
func removeOne(hand []int8, rank int8) []int8 {
	out := make([]int8, 0, len(hand)-1)
	removed := false
	for _, r := range hand {
		if !removed && r == rank {
			removed = true
			continue
		}
		out = append(out, r)
	}
	return out
}

// Solve expands the complete sub-tree below s and back-propagates the
// minimax value of the pegging differential (dealer score minus pone
// score). The tie-break is stable: the first candidate in hand order
// achieving the extremum wins.
func (s *State) Solve() {
	if len(s.Hands[Dealer]) == 0 && len(s.Hands[Pone]) == 0 {
		// The last actual card was laid by the player off turn.
		s.Scores[s.Owner.Opponent()]++
		s.Value = s.Scores[Dealer] - s.Scores[Pone]
		s.BestPlay = 0
		return
	}

	// Each distinct rank playable under the cap is tried once.
	var tried [cards.NumRanks + 1]bool
	for _, c := range s.Hands[s.Owner] {
		if tried[c] {
			continue
		}
		tried[c] = true
		if s.Total+CardValue(c) > MaxCount {
			continue
		}
		child := s.playChild(c)
		child.Solve()
		s.Children = append(s.Children, child)
	}

	if len(s.Children) == 0 {
		child := s.goChild()
		child.Solve()
		s.Children = []*State{child}
		s.Value = child.Value
		s.BestPlay = 0
		return
	}

	best := s.Children[0]
	for _, c := range s.Children[1:] {
		if s.Owner == Dealer {
			if c.Value > best.Value {
				best = c
			}
		} else if c.Value < best.Value {
			best = c
		}
	}
	s.Value = best.Value
	s.BestPlay = best.Play
}

// playChild builds the successor state for laying rank c.
func (s *State) playChild(c int8) *State {
	total := s.Total + CardValue(c)
	pts, pairLen, runLen := scoreLay(s.History, c, total, s.PairLen)

	child := &State{
		Owner:   s.Owner.Opponent(),
		Total:   total,
		PairLen: pairLen,
		RunLen:  runLen,
		Scores:  s.Scores,
		Play:    c,
	}
	child.Scores[s.Owner] += pts

	child.Hands = s.Hands
	child.Hands[s.Owner] = removeOne(s.Hands[s.Owner], c)

	child.History = appendRank(s.History, c)
	if n := len(s.History); n == 0 || s.History[n-1] == 0 {
		child.Diffs = nil
	} else {
		child.Diffs = appendRank(s.Diffs, c-s.History[n-1])
	}
	return child
}

// goChild builds the forced-Go successor. A first Go hands the opponent
// a point and keeps the count; a second consecutive Go resets it.
func (s *State) goChild() *State {
	child := &State{
		Owner:  s.Owner.Opponent(),
		Hands:  s.Hands,
		Scores: s.Scores,
		Play:   0,
	}
	child.History = appendRank(s.History, 0)

	if n := len(s.History); n > 0 && s.History[n-1] == 0 {
		// Second consecutive Go: the count resets to 0.
		child.Total = 0
		child.Diffs = nil
		child.PairLen = 0
		child.RunLen = 0
	} else {
		child.Total = s.Total
		child.Diffs = s.Diffs
		child.PairLen = s.PairLen
		child.RunLen = s.RunLen
		child.Scores[s.Owner.Opponent()]++
	}
	return child
}
