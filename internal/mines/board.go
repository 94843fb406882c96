package mines

import (
	"math/rand/v2"
)

type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Cell struct {
	IsMine        bool
	IsRevealed    bool
	IsFlagged     bool
	AdjacentMines int
}

// Board is the state of a single game. A Board is not safe for concurrent
// use.
type Board struct {
	size           int
	mineCount      int
	safeZone       int
	cells          []Cell // row-major
	gameOver       bool
	won            bool
	firstClickDone bool
	exploded       *Point
	rnd            *rand.Rand
}

// NewBoard returns a blank board. Mines are placed by the first call to
// [Board.Reveal], so the first revealed cell is never a mine.
func NewBoard(params GameParams, r *rand.Rand) (*Board, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	size, mineCount, safeZone := params.Unpack()
	b := &Board{
		size:      size,
		mineCount: mineCount,
		safeZone:  safeZone,
		cells:     make([]Cell, size*size),
		rnd:       r,
	}
	return b, nil
}

// NewBoardWithMines builds a board with a fixed mine layout. The first click
// protection is disabled since the layout is already known.
func NewBoardWithMines(size int, mines []Point) (*Board, error) {
	b, err := NewBoard(GameParams{Size: size, MineCount: len(mines)}, nil)
	if err != nil {
		return nil, err
	}
	for _, p := range mines {
		if !b.InBounds(p.Row, p.Col) {
			return nil, &OutOfBoundsError{p.Row, p.Col, size}
		}
		b.cells[b.index(p.Row, p.Col)].IsMine = true
	}
	if b.Mines() != len(mines) {
		return nil, ErrInvalidConfiguration
	}
	b.computeAdjacency()
	b.firstClickDone = true
	return b, nil
}

// Clone returns a deep copy of the board. The copy shares the random source.
func (b *Board) Clone() *Board {
	c := *b
	c.cells = append([]Cell(nil), b.cells...)
	if b.exploded != nil {
		p := *b.exploded
		c.exploded = &p
	}
	return &c
}

func (b *Board) Size() int      { return b.size }
func (b *Board) MineCount() int { return b.mineCount }
func (b *Board) SafeZone() int  { return b.safeZone }

func (b *Board) InBounds(row, col int) bool {
	return 0 <= row && row < b.size && 0 <= col && col < b.size
}

func (b *Board) checkBounds(row, col int) error {
	if !b.InBounds(row, col) {
		return &OutOfBoundsError{Row: row, Col: col, Size: b.size}
	}
	return nil
}

func (b *Board) index(row, col int) int {
	return row*b.size + col
}

func (b *Board) point(i int) Point {
	return Point{Row: i / b.size, Col: i % b.size}
}

func (b *Board) cell(p Point) *Cell {
	return &b.cells[b.index(p.Row, p.Col)]
}

// neighbors appends the up to 8 cells around p in row-major order.
func (b *Board) neighbors(dst []Point, p Point) []Point {
	for row := max(0, p.Row-1); row <= min(p.Row+1, b.size-1); row++ {
		for col := max(0, p.Col-1); col <= min(p.Col+1, b.size-1); col++ {
			if row != p.Row || col != p.Col {
				dst = append(dst, Point{row, col})
			}
		}
	}
	return dst
}

// Mines counts cells that hold a mine.
func (b *Board) Mines() (count int) {
	for _, c := range b.cells {
		if c.IsMine {
			count++
		}
	}
	return
}

func (b *Board) FlagCount() (count int) {
	for _, c := range b.cells {
		if c.IsFlagged {
			count++
		}
	}
	return
}

func (b *Board) Status() Status {
	switch {
	case !b.gameOver:
		return Playing
	case b.won:
		return Won
	default:
		return Lost
	}
}

func (b *Board) GameOver() bool { return b.gameOver }

func (b *Board) Started() bool { return b.firstClickDone }
