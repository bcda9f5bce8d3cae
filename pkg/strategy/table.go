// Package strategy builds and owns the discard strategy database: one row
// per (canonical hand, viable discard) pair with deal probabilities and
// the regret/profile columns a CFR trainer mutates, plus the indices the
// play-phase matrix and the trainer look rows up through.
package strategy

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/yourusername/cribengine/internal/cards"
)

// profileEpsilon bounds the drift tolerated in per-block profile sums.
const profileEpsilon = 1e-9

// Role selects the dealer or pone column family of the table.
type Role int

const (
	Dealer Role = iota
	Pone
)

// String returns the role name.
func (r Role) String() string {
	if r == Dealer {
		return "dealer"
	}
	return "pone"
}

// Row is one (canonical hand, discard) pair of the strategy table.
// PDeal, Discard and PlayHand are fixed at build time; the remaining
// columns belong to the training collaborator. Dealt tallies are kept on
// the first row of each parent block only.
type Row struct {
	PDeal    float64
	Discard  cards.Discard
	PlayHand cards.PlayHand

	DealtDealer int
	DealtPone   int

	RegretDealer float64
	RegretPone   float64

	ProfileDealer float64
	ProfilePone   float64

	PPlayDealer float64
	PPlayPone   float64
}

// RowRange is a half-open [Start, End) span of table rows.
type RowRange struct {
	Start int
	End   int
}

// Len returns the number of rows in the range.
func (r RowRange) Len() int {
	return r.End - r.Start
}

// DB is the strategy database. The table and all indices are built once
// from a deck; afterwards only the training columns (dealt, regret,
// profile, p_play) and the play-hand probability aggregates change, via
// the guarded mutators below.
type DB struct {
	mu sync.RWMutex

	// Rows in block order: all discards of a parent hand are contiguous.
	Rows []Row

	// HandRows maps each canonical hand to its contiguous row block.
	HandRows map[cards.Hand]RowRange
	// PlayRows maps each play hand to every row index that yields it.
	PlayRows map[cards.PlayHand][]int

	// Hands and PlayHands preserve first-seen insertion order; HandID and
	// PlayID are the matching dense identifiers.
	Hands     []cards.Hand
	PlayHands []cards.PlayHand
	HandID    map[cards.Hand]int
	PlayID    map[cards.PlayHand]int

	// HandCounts holds the raw occurrence tally behind each PDeal.
	HandCounts map[cards.Hand]int

	// Play-hand reach probabilities: sum of p_play over PlayRows[H].
	PlayProbDealer map[cards.PlayHand]float64
	PlayProbPone   map[cards.PlayHand]float64
}

// Build enumerates the deck and materializes the full strategy table.
// Construction is strictly sequential so row indices, block ranges and
// dense identifiers are deterministic.
func Build(deck []cards.Card) (*DB, error) {
	order, counts, err := EnumerateHands(deck)
	if err != nil {
		return nil, fmt.Errorf("building strategy table: %w", err)
	}

	total := 0
	for _, h := range order {
		total += counts[h]
	}

	db := &DB{
		HandRows:       make(map[cards.Hand]RowRange, len(order)),
		PlayRows:       make(map[cards.PlayHand][]int),
		HandID:         make(map[cards.Hand]int, len(order)),
		PlayID:         make(map[cards.PlayHand]int),
		HandCounts:     counts,
		PlayProbDealer: make(map[cards.PlayHand]float64),
		PlayProbPone:   make(map[cards.PlayHand]float64),
	}

	for _, h := range order {
		ds := cards.Discards(h)
		if len(ds) == 0 {
			panic(fmt.Sprintf("strategy: hand %v has no discards", h))
		}

		start := len(db.Rows)
		pDeal := float64(counts[h]) / float64(total)
		profile := 1.0 / float64(len(ds))

		for _, d := range ds {
			p, err := cards.PlayHandAfter(h, d)
			if err != nil {
				return nil, fmt.Errorf("building strategy table: %w", err)
			}

			rowIdx := len(db.Rows)
			db.Rows = append(db.Rows, Row{
				PDeal:         pDeal,
				Discard:       d,
				PlayHand:      p,
				ProfileDealer: profile,
				ProfilePone:   profile,
				PPlayDealer:   pDeal * profile,
				PPlayPone:     pDeal * profile,
			})

			if _, ok := db.PlayID[p]; !ok {
				db.PlayID[p] = len(db.PlayHands)
				db.PlayHands = append(db.PlayHands, p)
			}
			db.PlayRows[p] = append(db.PlayRows[p], rowIdx)
		}

		db.HandRows[h] = RowRange{Start: start, End: len(db.Rows)}
		db.HandID[h] = len(db.Hands)
		db.Hands = append(db.Hands, h)
		db.checkBlock(h)
	}

	for _, p := range db.PlayHands {
		db.PlayProbDealer[p] = db.sumPlayProb(p, Dealer)
		db.PlayProbPone[p] = db.sumPlayProb(p, Pone)
	}

	return db, nil
}

// checkBlock asserts the profile distribution of a parent block sums to 1.
func (db *DB) checkBlock(h cards.Hand) {
	r := db.HandRows[h]
	sums := make([]float64, 0, r.Len())
	for i := r.Start; i < r.End; i++ {
		sums = append(sums, db.Rows[i].ProfileDealer)
	}
	if math.Abs(floats.Sum(sums)-1) > profileEpsilon {
		panic(fmt.Sprintf("strategy: profile block for %v sums to %v", h, floats.Sum(sums)))
	}
}

// sumPlayProb sums p_play for the given role over all rows yielding p.
func (db *DB) sumPlayProb(p cards.PlayHand, role Role) float64 {
	probs := make([]float64, 0, len(db.PlayRows[p]))
	for _, i := range db.PlayRows[p] {
		if role == Dealer {
			probs = append(probs, db.Rows[i].PPlayDealer)
		} else {
			probs = append(probs, db.Rows[i].PPlayPone)
		}
	}
	return floats.Sum(probs)
}

// NumHands returns the number of canonical hand classes.
func (db *DB) NumHands() int {
	return len(db.Hands)
}

// NumPlayHands returns the number of distinct play-hand classes.
func (db *DB) NumPlayHands() int {
	return len(db.PlayHands)
}

// Block returns the row range of a canonical hand.
func (db *DB) Block(h cards.Hand) (RowRange, bool) {
	r, ok := db.HandRows[h]
	return r, ok
}

// RecordDeal increments the deal tally of h for the given role. The
// tally lives on the first row of the hand's block.
func (db *DB) RecordDeal(h cards.Hand, role Role) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	r, ok := db.HandRows[h]
	if !ok {
		return fmt.Errorf("record deal: unknown hand %v", h)
	}
	if role == Dealer {
		db.Rows[r.Start].DealtDealer++
	} else {
		db.Rows[r.Start].DealtPone++
	}
	return nil
}

// AddRegret accumulates counterfactual regret on a single row.
func (db *DB) AddRegret(row int, role Role, delta float64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if row < 0 || row >= len(db.Rows) {
		return fmt.Errorf("add regret: row %d out of range [0,%d)", row, len(db.Rows))
	}
	if role == Dealer {
		db.Rows[row].RegretDealer += delta
	} else {
		db.Rows[row].RegretPone += delta
	}
	return nil
}

// SetProfile replaces the discard distribution of h for the given role.
// probs must match the block length and sum to 1. The p_play column and
// the play-hand probability aggregates are updated incrementally.
func (db *DB) SetProfile(h cards.Hand, role Role, probs []float64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	r, ok := db.HandRows[h]
	if !ok {
		return fmt.Errorf("set profile: unknown hand %v", h)
	}
	if len(probs) != r.Len() {
		return fmt.Errorf("set profile: %d probabilities for a block of %d", len(probs), r.Len())
	}
	if math.Abs(floats.Sum(probs)-1) > 1e-6 {
		return fmt.Errorf("set profile: distribution sums to %v", floats.Sum(probs))
	}

	for k := 0; k < r.Len(); k++ {
		row := &db.Rows[r.Start+k]
		pPlay := row.PDeal * probs[k]
		if role == Dealer {
			db.PlayProbDealer[row.PlayHand] += pPlay - row.PPlayDealer
			row.ProfileDealer = probs[k]
			row.PPlayDealer = pPlay
		} else {
			db.PlayProbPone[row.PlayHand] += pPlay - row.PPlayPone
			row.ProfilePone = probs[k]
			row.PPlayPone = pPlay
		}
	}
	return nil
}
