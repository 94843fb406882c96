package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// CellView is what a player may know about a cell. Mine is only set for open
// cells or once the game is lost, AdjacentMines only for open cells.
type CellView struct {
	Revealed      bool `json:"revealed"`
	Flagged       bool `json:"flagged"`
	Mine          bool `json:"mine,omitempty"`
	AdjacentMines int  `json:"adjacent_mines,omitempty"`
}

func (b *Board) CellView(row, col int) (CellView, error) {
	if err := b.checkBounds(row, col); err != nil {
		return CellView{}, err
	}
	return b.view(Point{row, col}), nil
}

func (b *Board) view(p Point) CellView {
	c := b.cell(p)
	v := CellView{Revealed: c.IsRevealed, Flagged: c.IsFlagged}
	if c.IsRevealed || b.Status() == Lost {
		v.Mine = c.IsMine
	}
	if c.IsRevealed && !c.IsMine {
		v.AdjacentMines = c.AdjacentMines
	}
	return v
}

type CellState int8

const (
	Unknown      CellState = -2
	Flagged      CellState = -1
	Mine         CellState = 64
	ExplodedMine CellState = 65
	/*
	 * Every cell of a player grid is one of:
	 *
	 *  - 0 to 8: the cell is open and has that many mined neighbours.
	 *  - -1: the cell is flagged.
	 *  - -2: the cell is covered.
	 *  - 64: a mine uncovered after the game was lost.
	 *  - 65: the mine that ended the game.
	 */
)

func (s CellState) String() string {
	switch {
	case s == Unknown:
		return "-"
	case s == Flagged:
		return "F"
	case s == Mine:
		return "*"
	case s == ExplodedMine:
		return "X"
	case s == 0:
		return "."
	case 0 < s && s <= 8:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

type Grid []CellState

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			fmt.Fprint(&b, g[y*width+x].String())
			if x < width-1 {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (b *Board) cellState(p Point) CellState {
	v := b.view(p)
	switch {
	case v.Revealed && v.Mine && b.exploded != nil && *b.exploded == p:
		return ExplodedMine
	case v.Revealed && v.Mine:
		return Mine
	case v.Revealed:
		return CellState(v.AdjacentMines)
	case v.Flagged:
		return Flagged
	default:
		return Unknown
	}
}

// PlayerGrid projects the board into row-major cell states without exposing
// covered cells.
func (b *Board) PlayerGrid() Grid {
	grid := make(Grid, len(b.cells))
	for i := range grid {
		grid[i] = b.cellState(b.point(i))
	}
	return grid
}

// [Board] implements [fmt.Stringer]
func (b *Board) String() string {
	return b.PlayerGrid().ToString(b.size)
}
