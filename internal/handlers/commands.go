package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

type Move string

const (
	Open    Move = "open"
	Flag    Move = "flag"
	Chord   Move = "chord"
	Forfeit Move = "forfeit"
	Get     Move = "get"
)

func ParseMove(s string) (Move, error) {
	switch m := Move(s); m {
	case Open, Flag, Chord:
		return m, nil
	}
	return "", fmt.Errorf("unknown move %q", s)
}

// Maps command letters to moves and number of arguments
var commandMoves = map[string]struct {
	move  Move
	nargs int
}{
	"g": {Get, 0},
	"o": {Open, 2},
	"f": {Flag, 2},
	"c": {Chord, 2},
	"r": {Forfeit, 0},
}

type Command struct {
	Move     Move
	Row, Col int
}

type CommandError struct {
	Line int    `json:"line"`
	Err  string `json:"error"`
}

// [CommandError] implements [error]
func (e *CommandError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

func parseRowCol(twoStrings []string) (row int, col int, err error) {
	if row, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("first argument must be an int")
		return
	}
	if col, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("second argument must be an int")
		return
	}
	return
}

func parseCommand(c string, size int) (Command, error) {
	parts := strings.Fields(c)
	if len(parts) == 0 {
		return Command{}, errors.New("empty command")
	}
	m, ok := commandMoves[parts[0]]
	if !ok {
		return Command{}, errors.New("unknown command")
	}
	if m.nargs != len(parts)-1 {
		return Command{}, errors.New("invalid number of arguments")
	}
	cmd := Command{Move: m.move}
	if m.nargs == 2 {
		row, col, err := parseRowCol(parts[1:])
		if err != nil {
			return Command{}, err
		}
		if row < 0 || row >= size || col < 0 || col >= size {
			return Command{}, errors.New("invalid cell coordinates")
		}
		cmd.Row, cmd.Col = row, col
	}
	return cmd, nil
}

// ParseCommands reads newline separated commands of the following syntax:
//
//	o row col // open a cell
//	f row col // toggle a flag
//	c row col // chord a cell
//	r         // forfeit
//	g         // no-op, fetch the board
//
// Blank lines are skipped. Every command is checked against a board of the
// given size before any of them runs, so a malformed batch changes nothing.
func ParseCommands(text string, size int) ([]Command, error) {
	var cmds []Command
	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cmd, err := parseCommand(line, size)
		if err != nil {
			return nil, &CommandError{Line: i + 1, Err: err.Error()}
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func (c Command) Apply(b *mines.Board) (mines.RevealResult, error) {
	switch c.Move {
	case Open:
		return b.Reveal(c.Row, c.Col)
	case Flag:
		if err := b.ToggleFlag(c.Row, c.Col); err != nil {
			return mines.RevealResult{}, err
		}
	case Chord:
		return b.Chord(c.Row, c.Col)
	case Forfeit:
		return b.Forfeit(), nil
	}
	return mines.RevealResult{Changed: []mines.Point{}, Status: b.Status()}, nil
}

// ApplyAll runs commands in order and merges their results. Interpretation
// stops once the game is over. The commands run on a copy of b that replaces
// it only if every command succeeds, so a failing batch changes nothing.
func ApplyAll(b *mines.Board, cmds []Command) (mines.RevealResult, error) {
	work := b.Clone()
	merged := mines.RevealResult{Changed: []mines.Point{}, Status: work.Status()}
	for _, c := range cmds {
		if work.GameOver() {
			break
		}
		res, err := c.Apply(work)
		if err != nil {
			return mines.RevealResult{}, err
		}
		merged.Changed = append(merged.Changed, res.Changed...)
		merged.Status = res.Status
		merged.Ended = merged.Ended || res.Ended
	}
	*b = *work
	return merged, nil
}
