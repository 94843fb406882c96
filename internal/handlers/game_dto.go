package handlers

import (
	"time"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/session"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

type CreateNewGameDTO struct {
	Size      int `schema:"size,required"`
	MineCount int `schema:"mine_count,required"`
	SafeZone  int `schema:"safe_zone"`
}

func ParseCreateNewGameDTO(src map[string][]string) (CreateNewGameDTO, error) {
	var dto CreateNewGameDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type MoveDTO struct {
	Move string `schema:"move,required"`
	Row  int    `schema:"row,required"`
	Col  int    `schema:"col,required"`
}

func ParseMoveDTO(src map[string][]string) (MoveDTO, error) {
	var dto MoveDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type GameSessionDTO struct {
	GameID    string       `json:"game_id"`
	Grid      mines.Grid   `json:"grid"`
	Size      int          `json:"size"`
	MineCount int          `json:"mine_count"`
	SafeZone  int          `json:"safe_zone"`
	Flags     int          `json:"flags"`
	Status    mines.Status `json:"status"`
	StartedAt int64        `json:"started_at"`
	EndedAt   *int64       `json:"ended_at,omitempty"`
}

// NewGameSessionDTO must be called while holding the session's board.
func NewGameSessionDTO(s *session.Session, b *mines.Board) *GameSessionDTO {
	return &GameSessionDTO{
		GameID:    s.ID,
		Grid:      b.PlayerGrid(),
		Size:      b.Size(),
		MineCount: b.MineCount(),
		SafeZone:  b.SafeZone(),
		Flags:     b.FlagCount(),
		Status:    b.Status(),
		StartedAt: s.StartedAt.UnixMilli(),
	}
}

func (dto *GameSessionDTO) setEndedAt(endedAt time.Time) {
	if !endedAt.IsZero() {
		e := endedAt.UnixMilli()
		dto.EndedAt = &e
	}
}

type NewGameDTO struct {
	Token string          `json:"token"`
	Game  *GameSessionDTO `json:"game"`
}

type MoveResultDTO struct {
	Result mines.RevealResult `json:"result"`
	Game   *GameSessionDTO    `json:"game"`
}
