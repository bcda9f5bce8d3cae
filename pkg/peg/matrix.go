package peg

import (
	"runtime"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/cribengine/internal/cards"
)

// Matrix holds one packed pegging tree per ordered pair of play-hand
// classes, dealer class on axis 1 and pone class on axis 2. Pairs whose
// combined rank multiset would need more than four of a rank are
// unreachable and stay nil.
type Matrix struct {
	Size  int
	cells []FlatTree
}

// At returns the packed tree for dealer class i against pone class j,
// or nil for an unreachable pair.
func (m *Matrix) At(i, j int) FlatTree {
	return m.cells[i*m.Size+j]
}

// Cells returns the number of solved (non-nil) cells.
func (m *Matrix) Cells() int {
	n := 0
	for _, c := range m.cells {
		if c != nil {
			n++
		}
	}
	return n
}

// MatrixOptions controls matrix assembly.
type MatrixOptions struct {
	Workers  int                   // parallel solvers (0 = GOMAXPROCS)
	Progress func(done, total int) // optional per-cell completion callback
}

// progressInterval is how many solved cells pass between progress logs.
const progressInterval = 10000

// BuildMatrix solves and packs the pegging tree for every reachable
// ordered pair of hands. Each cell is a pure function of its pair and is
// written by exactly one worker, so the sweep needs no locks; the
// recursive tree of a cell is dropped as soon as it is flattened.
func BuildMatrix(hands []cards.PlayHand, opts MatrixOptions) *Matrix {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	m := &Matrix{
		Size:  len(hands),
		cells: make([]FlatTree, len(hands)*len(hands)),
	}

	total := 0
	for i := range hands {
		for j := range hands {
			if cards.Compatible(hands[i], hands[j]) {
				total++
			}
		}
	}

	type pair struct{ i, j int }
	jobs := make(chan pair, workers)
	var done atomic.Int64

	g := errgroup.Group{}
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for p := range jobs {
				root := NewGame(hands[p.i].Ranks(), hands[p.j].Ranks())
				root.Solve()
				m.cells[p.i*m.Size+p.j] = Flatten(root)

				n := done.Add(1)
				if n%progressInterval == 0 {
					log.Info().
						Int64("solved", n).
						Int("total", total).
						Msg("assembling play matrix")
				}
				if opts.Progress != nil {
					opts.Progress(int(n), total)
				}
			}
			return nil
		})
	}

	for i := range hands {
		for j := range hands {
			if cards.Compatible(hands[i], hands[j]) {
				jobs <- pair{i, j}
			}
		}
	}
	close(jobs)
	g.Wait()

	log.Info().
		Int("hands", len(hands)).
		Int("solved", total).
		Int("skipped", len(hands)*len(hands)-total).
		Msg("play matrix complete")
	return m
}
