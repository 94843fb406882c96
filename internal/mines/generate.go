package mines

import (
	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// PlaceMines scatters the board's mines uniformly over cells not listed in
// exclude. Previously placed mines are cleared first. Adjacent mine counts
// are recomputed afterwards.
func (b *Board) PlaceMines(exclude map[Point]struct{}) error {
	candidates := make([]int, 0, len(b.cells))
	for i := range b.cells {
		if _, ok := exclude[b.point(i)]; !ok {
			candidates = append(candidates, i)
		}
	}
	if b.mineCount > len(candidates) {
		return &InsufficientSpaceError{
			MineCount: b.mineCount,
			Eligible:  len(candidates),
		}
	}

	for i := range b.cells {
		b.cells[i].IsMine = false
	}

	/*
	 * Pick mineCount candidates at random: swap the picked one with the
	 * last live entry and shrink the live part of the list.
	 */
	k := len(candidates)
	for range b.mineCount {
		i := b.rnd.IntN(k)
		b.cells[candidates[i]].IsMine = true
		k--
		candidates[i] = candidates[k]
	}

	b.computeAdjacency()

	Log.WithFields(logrus.Fields{
		"size":     b.size,
		"mines":    b.mineCount,
		"excluded": len(b.cells) - len(candidates),
	}).Debug("placed mines")

	return nil
}

func (b *Board) computeAdjacency() {
	buf := make([]Point, 0, 8)
	for i := range b.cells {
		c := &b.cells[i]
		c.AdjacentMines = 0
		if c.IsMine {
			continue
		}
		buf = b.neighbors(buf[:0], b.point(i))
		for _, n := range buf {
			if b.cell(n).IsMine {
				c.AdjacentMines++
			}
		}
	}
}
