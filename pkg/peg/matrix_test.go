package peg

import (
	"testing"

	"github.com/yourusername/cribengine/internal/cards"
)

func TestBuildMatrix(t *testing.T) {
	hands := []cards.PlayHand{
		{1, 1, 1, 1},
		{1, 1, 2, 2},
		{5, 5, 6, 6},
	}

	m := BuildMatrix(hands, MatrixOptions{Workers: 2})
	if m.Size != len(hands) {
		t.Fatalf("matrix size %d, expected %d", m.Size, len(hands))
	}

	// A cell is empty exactly when the pair needs five of a rank.
	for i := range hands {
		for j := range hands {
			compatible := cards.Compatible(hands[i], hands[j])
			cell := m.At(i, j)
			if compatible && cell == nil {
				t.Errorf("cell (%d,%d) empty for reachable pair %v/%v", i, j, hands[i], hands[j])
			}
			if !compatible && cell != nil {
				t.Errorf("cell (%d,%d) solved for impossible pair %v/%v", i, j, hands[i], hands[j])
			}
		}
	}
	if m.At(0, 0) != nil || m.At(0, 1) != nil || m.At(1, 0) != nil {
		t.Error("ace-heavy pairs should be unreachable")
	}
	if m.Cells() != 6 {
		t.Errorf("matrix has %d solved cells, expected 6", m.Cells())
	}

	// Each cell matches a direct solve of its pair.
	for i := range hands {
		for j := range hands {
			cell := m.At(i, j)
			if cell == nil {
				continue
			}
			root := NewGame(hands[i].Ranks(), hands[j].Ranks())
			root.Solve()
			if got := cell.Value(); got != root.Value {
				t.Errorf("cell (%d,%d) value %d, direct solve %d", i, j, got, root.Value)
			}
		}
	}
}

func TestBuildMatrixProgress(t *testing.T) {
	hands := []cards.PlayHand{
		{1, 2, 3, 4},
		{11, 12, 13, 13},
	}

	calls := 0
	last := 0
	m := BuildMatrix(hands, MatrixOptions{
		Workers:  1,
		Progress: func(done, total int) { calls++; last = total },
	})

	if m.Cells() != 4 {
		t.Fatalf("matrix has %d solved cells, expected 4", m.Cells())
	}
	if calls != 4 {
		t.Errorf("progress callback ran %d times, expected 4", calls)
	}
	if last != 4 {
		t.Errorf("progress total %d, expected 4", last)
	}
}
