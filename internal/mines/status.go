package mines

import "fmt"

type Status int

const (
	Playing Status = iota
	Won
	Lost
)

var statusNames = [...]string{
	Playing: "playing",
	Won:     "won",
	Lost:    "lost",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// [Status] implements [encoding.TextMarshaler]
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if name == string(text) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown game status %q", text)
}

// RevealResult reports what a command changed. Changed lists the cells that
// became revealed, in the order they were opened. Ended is set when the
// command moved the game into a terminal state.
type RevealResult struct {
	Changed []Point `json:"changed"`
	Status  Status  `json:"status"`
	Ended   bool    `json:"ended"`
}
