package mines

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfiguration = errors.New("invalid board configuration")
	ErrInsufficientSpace    = errors.New("not enough room for mines")
	ErrOutOfBounds          = errors.New("cell out of bounds")
)

// InsufficientSpaceError is returned when the mines do not fit outside the
// excluded cells.
type InsufficientSpaceError struct {
	MineCount int
	Eligible  int
}

// [InsufficientSpaceError] implements [error]
func (e *InsufficientSpaceError) Error() string {
	return fmt.Sprintf(
		"cannot place %d mines in %d eligible cells", e.MineCount, e.Eligible,
	)
}

func (e *InsufficientSpaceError) Is(target error) bool {
	return target == ErrInsufficientSpace
}

type OutOfBoundsError struct {
	Row, Col, Size int
}

// [OutOfBoundsError] implements [error]
func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf(
		"cell %d:%d is outside of %dx%d board", e.Row, e.Col, e.Size, e.Size,
	)
}

func (e *OutOfBoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}
