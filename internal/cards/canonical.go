package cards

import (
	"fmt"
	"sort"
	"strings"
)

// Hand is the canonical, suit-symmetry-reduced form of a six-card hand:
// four fixed-size suit slots of ascending ranks plus the slot lengths.
// Slots are ordered by length descending, ties broken lexicographically
// on rank contents, so any two raw hands related by a permutation of
// suit labels share the same Hand. The zero padding beyond Len is part
// of the value, which makes Hand comparable and usable as a map key.
type Hand struct {
	Ranks [NumSuits][HandSize]int8
	Len   [NumSuits]int8
}

// Discard identifies a canonical two-card discard from a parent Hand.
// Non-empty slots name which suit slot(s) of the parent the cards came
// from. Comparable, usable as a map key.
type Discard struct {
	Ranks [NumSuits][2]int8
	Len   [NumSuits]int8
}

// PlayHand is the sorted four-rank multiset retained after a discard.
// Suits are irrelevant to pegging, so this is the whole play-phase key.
type PlayHand [4]int8

// Suit returns the ranks held in suit slot i.
func (h Hand) Suit(i int) []int8 {
	return h.Ranks[i][:h.Len[i]]
}

// Shape returns the slot-length partition of the hand.
func (h Hand) Shape() [NumSuits]int8 {
	return h.Len
}

func (h Hand) String() string {
	var b strings.Builder
	for i := 0; i < NumSuits; i++ {
		if i > 0 {
			b.WriteByte('|')
		}
		for j, r := range h.Suit(i) {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(rankNames[r])
		}
	}
	return b.String()
}

// validShape checks the slot lengths against the nine admissible
// partitions of six: non-increasing slot lengths summing to six.
func (h Hand) validShape() bool {
	sum := int8(0)
	for i := 0; i < NumSuits; i++ {
		if h.Len[i] < 0 || h.Len[i] > HandSize {
			return false
		}
		if i > 0 && h.Len[i] > h.Len[i-1] {
			return false
		}
		sum += h.Len[i]
	}
	return sum == HandSize
}

// rankLess orders rank tuples lexicographically, shorter prefix first.
func rankLess(a, b []int8) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func rankEqual(a, b []int8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Canonicalize reduces a six-card raw hand to its canonical Hand and the
// composed suit permutation sp: original suit bucket sp[i] holds exactly
// the ranks of canonical slot i. The permutation lets a caller
// reconstruct the raw suit assignment; it is not part of the database
// key.
func Canonicalize(hand []Card) (Hand, [NumSuits]int8, error) {
	var h Hand
	var sp [NumSuits]int8
	if len(hand) != HandSize {
		return h, sp, fmt.Errorf("hand has %d cards, want %d", len(hand), HandSize)
	}

	var dup [NumRanks + 1][NumSuits + 1]bool
	buckets := make([][]int8, NumSuits)
	for _, c := range hand {
		if !c.Valid() {
			return h, sp, fmt.Errorf("invalid card (%d,%d)", c.Rank, c.Suit)
		}
		if dup[c.Rank][c.Suit] {
			return h, sp, fmt.Errorf("duplicate card %s", c)
		}
		dup[c.Rank][c.Suit] = true
		buckets[c.Suit-1] = append(buckets[c.Suit-1], c.Rank)
	}
	for i := range buckets {
		sort.Slice(buckets[i], func(a, b int) bool { return buckets[i][a] < buckets[i][b] })
	}

	// Lexicographic pass first, then a stable length-descending pass.
	// Ties surviving both passes are true suit symmetries of the hand.
	ord := []int{0, 1, 2, 3}
	sort.SliceStable(ord, func(a, b int) bool {
		return rankLess(buckets[ord[a]], buckets[ord[b]])
	})
	sort.SliceStable(ord, func(a, b int) bool {
		return len(buckets[ord[a]]) > len(buckets[ord[b]])
	})

	for slot, src := range ord {
		copy(h.Ranks[slot][:], buckets[src])
		h.Len[slot] = int8(len(buckets[src]))
		sp[slot] = int8(src)
	}
	if !h.validShape() {
		panic(fmt.Sprintf("cards: canonical hand %v has impossible shape %v", h, h.Len))
	}
	return h, sp, nil
}

// Suit returns the ranks the discard takes from suit slot i.
func (d Discard) Suit(i int) []int8 {
	return d.Ranks[i][:d.Len[i]]
}

// NumCards returns the total rank count of the discard (always 2 for a
// well-formed value).
func (d Discard) NumCards() int {
	n := 0
	for i := 0; i < NumSuits; i++ {
		n += int(d.Len[i])
	}
	return n
}

func (d Discard) String() string {
	var b strings.Builder
	for i := 0; i < NumSuits; i++ {
		if i > 0 {
			b.WriteByte('|')
		}
		for j, r := range d.Suit(i) {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(rankNames[r])
		}
	}
	return b.String()
}

// firstEqualSuit returns the earliest slot of h whose contents equal s.
func firstEqualSuit(h Hand, s []int8) int {
	for i := 0; i < NumSuits; i++ {
		if rankEqual(h.Suit(i), s) {
			return i
		}
	}
	return -1
}

// Discards enumerates the canonical two-card discards of h, modulo the
// hand's residual suit symmetry. Cards drawn from two interchangeable
// suits (identical slot contents) are pinned to the earliest such slots,
// so symmetric raw choices collapse to one canonical Discard. Emission
// order is deterministic.
func Discards(h Hand) []Discard {
	var out []Discard
	seen := make(map[Discard]struct{})
	emit := func(d Discard) {
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}

	// One card from each of two suits.
	for i1 := 0; i1 < NumSuits; i1++ {
		if h.Len[i1] == 0 {
			continue
		}
		s1 := h.Suit(i1)
		for i2 := i1 + 1; i2 < NumSuits; i2++ {
			if h.Len[i2] == 0 {
				continue
			}
			s2 := h.Suit(i2)
			if rankEqual(s1, s2) {
				// Interchangeable suits: pin to the first two slots with
				// this content and emit unordered rank pairs.
				j1 := firstEqualSuit(h, s1)
				j2 := j1 + 1
				for !rankEqual(h.Suit(j2), s1) {
					j2++
				}
				for a := 0; a < len(s1); a++ {
					for b := 0; b < len(s2); b++ {
						if s2[b] < s1[a] {
							continue
						}
						var d Discard
						d.Ranks[j1][0] = s1[a]
						d.Len[j1] = 1
						d.Ranks[j2][0] = s2[b]
						d.Len[j2] = 1
						emit(d)
					}
				}
				continue
			}
			j1 := firstEqualSuit(h, s1)
			j2 := firstEqualSuit(h, s2)
			for _, c1 := range s1 {
				for _, c2 := range s2 {
					var d Discard
					d.Ranks[j1][0] = c1
					d.Len[j1] = 1
					d.Ranks[j2][0] = c2
					d.Len[j2] = 1
					emit(d)
				}
			}
		}
	}

	// Both cards from one suit.
	for i := 0; i < NumSuits; i++ {
		if h.Len[i] < 2 {
			continue
		}
		s := h.Suit(i)
		if firstEqualSuit(h, s) != i {
			continue
		}
		for a := 0; a < len(s); a++ {
			for b := a + 1; b < len(s); b++ {
				var d Discard
				d.Ranks[i][0] = s[a]
				d.Ranks[i][1] = s[b]
				d.Len[i] = 2
				emit(d)
			}
		}
	}

	return out
}

// PlayHandAfter returns the four ranks of h remaining after discard d,
// ascending. It errors if d is not a sub-multiset of h suit by suit.
func PlayHandAfter(h Hand, d Discard) (PlayHand, error) {
	var p PlayHand
	rem := make([]int8, 0, HandSize)
	for i := 0; i < NumSuits; i++ {
		ranks := append([]int8(nil), h.Suit(i)...)
		for _, dr := range d.Suit(i) {
			found := false
			for k, r := range ranks {
				if r == dr {
					ranks = append(ranks[:k], ranks[k+1:]...)
					found = true
					break
				}
			}
			if !found {
				return p, fmt.Errorf("discard %v takes rank %d absent from suit %d of %v", d, dr, i, h)
			}
		}
		rem = append(rem, ranks...)
	}
	if len(rem) != len(p) {
		return p, fmt.Errorf("discard %v leaves %d cards in %v, want %d", d, len(rem), h, len(p))
	}
	sort.Slice(rem, func(a, b int) bool { return rem[a] < rem[b] })
	copy(p[:], rem)
	return p, nil
}

// RankCounts returns the multiset view of the play hand.
func (p PlayHand) RankCounts() [NumRanks + 1]int8 {
	var counts [NumRanks + 1]int8
	for _, r := range p {
		counts[r]++
	}
	return counts
}

// Ranks returns a fresh slice of the four ranks.
func (p PlayHand) Ranks() []int8 {
	return append([]int8(nil), p[:]...)
}

func (p PlayHand) String() string {
	var b strings.Builder
	for i, r := range p {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(rankNames[r])
	}
	return b.String()
}

// Compatible reports whether two play hands can coexist in one deal:
// no rank may appear more than four times across both.
func Compatible(a, b PlayHand) bool {
	ca, cb := a.RankCounts(), b.RankCounts()
	for r := 1; r <= NumRanks; r++ {
		if ca[r]+cb[r] > NumSuits {
			return false
		}
	}
	return true
}
