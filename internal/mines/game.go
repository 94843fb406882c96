package mines

// Reveal opens the cell at row:col. Revealing a flagged or already open cell,
// or any cell after the game has ended, does nothing.
//
// The first reveal of a game places the mines. The clicked cell and its
// neighbours, up to the board's safe zone size, never receive a mine; they are
// opened together with the safe cells bordering them.
func (b *Board) Reveal(row, col int) (RevealResult, error) {
	if err := b.checkBounds(row, col); err != nil {
		return RevealResult{}, err
	}
	p := Point{row, col}
	if c := b.cell(p); c.IsRevealed || c.IsFlagged || b.gameOver {
		return b.result(nil), nil
	}

	if b.firstClickDone {
		changed := b.open(p, nil)
		b.checkWin()
		return b.result(changed), nil
	}

	zone := b.safeZoneAround(p)
	exclude := make(map[Point]struct{}, len(zone))
	for _, z := range zone {
		exclude[z] = struct{}{}
	}
	if err := b.PlaceMines(exclude); err != nil {
		return RevealResult{}, err
	}
	b.firstClickDone = true

	var changed []Point
	for _, z := range zone {
		changed = b.open(z, changed)
	}
	for _, q := range b.border(zone, exclude) {
		if !b.cell(q).IsMine {
			changed = b.open(q, changed)
		}
	}
	b.checkWin()
	return b.result(changed), nil
}

// safeZoneAround lists p followed by its neighbours in row-major order,
// truncated to the board's safe zone size.
func (b *Board) safeZoneAround(p Point) []Point {
	zone := b.neighbors([]Point{p}, p)
	if len(zone) > b.safeZone {
		zone = zone[:b.safeZone]
	}
	return zone
}

func (b *Board) border(zone []Point, inZone map[Point]struct{}) []Point {
	var (
		border []Point
		seen   = make(map[Point]struct{})
		buf    = make([]Point, 0, 8)
	)
	for _, z := range zone {
		buf = b.neighbors(buf[:0], z)
		for _, n := range buf {
			if _, ok := inZone[n]; ok {
				continue
			}
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			border = append(border, n)
		}
	}
	return border
}

// open reveals a single cell and, for cells without adjacent mines, floods
// the surrounding region. Newly revealed cells are appended to changed.
func (b *Board) open(p Point, changed []Point) []Point {
	c := b.cell(p)
	if c.IsRevealed || c.IsFlagged || b.gameOver {
		return changed
	}
	c.IsRevealed = true
	changed = append(changed, p)

	if c.IsMine {
		b.gameOver = true
		b.won = false
		b.exploded = &p
		return b.revealMines(changed)
	}

	if c.AdjacentMines == 0 {
		changed = b.flood(p, changed)
	}
	return changed
}

// flood opens the neighbourhood of an empty cell breadth first. Flagged cells
// are never opened and stop the expansion through them.
func (b *Board) flood(start Point, changed []Point) []Point {
	queue := b.neighbors(nil, start)
	for head := 0; head < len(queue); head++ {
		p := queue[head]
		c := b.cell(p)
		if c.IsRevealed || c.IsFlagged {
			continue
		}
		c.IsRevealed = true
		changed = append(changed, p)
		if c.AdjacentMines == 0 {
			queue = b.neighbors(queue, p)
		}
	}
	return changed
}

func (b *Board) revealMines(changed []Point) []Point {
	for i := range b.cells {
		if c := &b.cells[i]; c.IsMine && !c.IsRevealed {
			c.IsRevealed = true
			changed = append(changed, b.point(i))
		}
	}
	return changed
}

func (b *Board) checkWin() {
	if b.gameOver {
		return
	}
	for _, c := range b.cells {
		if !c.IsMine && !c.IsRevealed {
			return
		}
	}
	b.gameOver = true
	b.won = true
}

func (b *Board) result(changed []Point) RevealResult {
	if changed == nil {
		changed = []Point{}
	}
	return RevealResult{
		Changed: changed,
		Status:  b.Status(),
		Ended:   b.gameOver && len(changed) > 0,
	}
}

// ToggleFlag flags or unflags a covered cell. Open cells and finished games
// are left alone.
func (b *Board) ToggleFlag(row, col int) error {
	if err := b.checkBounds(row, col); err != nil {
		return err
	}
	c := b.cell(Point{row, col})
	if c.IsRevealed || b.gameOver {
		return nil
	}
	c.IsFlagged = !c.IsFlagged
	return nil
}

// Chord opens every covered, unflagged neighbour of an open numbered cell
// once the number of flags around it matches its mine count. A misplaced
// flag makes the chord hit a mine.
func (b *Board) Chord(row, col int) (RevealResult, error) {
	if err := b.checkBounds(row, col); err != nil {
		return RevealResult{}, err
	}
	p := Point{row, col}
	c := b.cell(p)
	if b.gameOver || !c.IsRevealed || c.IsMine || c.AdjacentMines == 0 {
		return b.result(nil), nil
	}

	around := b.neighbors(nil, p)
	flags := 0
	for _, n := range around {
		if b.cell(n).IsFlagged {
			flags++
		}
	}
	if flags != c.AdjacentMines {
		return b.result(nil), nil
	}

	var changed []Point
	for _, n := range around {
		changed = b.open(n, changed)
		if b.gameOver {
			break
		}
	}
	b.checkWin()
	return b.result(changed), nil
}

// Forfeit ends a running game as lost and uncovers every mine.
func (b *Board) Forfeit() RevealResult {
	if b.gameOver {
		return b.result(nil)
	}
	b.gameOver = true
	b.won = false
	return RevealResult{
		Changed: b.revealMines([]Point{}),
		Status:  Lost,
		Ended:   true,
	}
}
