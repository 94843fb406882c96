package mines

import (
	"fmt"
	"strings"
)

// DefaultSafeZone caps how many cells the first reveal guarantees to be
// free of mines.
const DefaultSafeZone = 10

type GameParams struct {
	Size      int
	MineCount int
	SafeZone  int // 0 means DefaultSafeZone
}

func (p GameParams) Unpack() (size int, mineCount int, safeZone int) {
	safeZone = p.SafeZone
	if safeZone == 0 {
		safeZone = DefaultSafeZone
	}
	return p.Size, p.MineCount, safeZone
}

func (p GameParams) Validate() error {
	switch {
	case p.Size < 1:
		return fmt.Errorf("%w: size must be at least 1, got %d",
			ErrInvalidConfiguration, p.Size)
	case p.MineCount < 0:
		return fmt.Errorf("%w: negative mine count %d",
			ErrInvalidConfiguration, p.MineCount)
	case p.MineCount >= p.Size*p.Size:
		return fmt.Errorf("%w: %d mines do not leave a free cell on %dx%d board",
			ErrInvalidConfiguration, p.MineCount, p.Size, p.Size)
	case p.SafeZone < 0:
		return fmt.Errorf("%w: negative safe zone %d",
			ErrInvalidConfiguration, p.SafeZone)
	}
	return nil
}

func (p GameParams) Seed() string {
	_, _, safeZone := p.Unpack()
	return fmt.Sprintf("%d:%d:%d", p.Size, p.MineCount, safeZone)
}

func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{}
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &p.Size, &p.MineCount, &p.SafeZone)
	if n != 3 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params seed (sseed = "%s", n = %d, err = %w)`,
			sseed, n, err,
		)
	}
	return p, p.Validate()
}
