package handlers

import (
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/middleware"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/session"
)

const maxBatchBytes = 64 << 10

type GameHandler struct {
	logger logrus.FieldLogger
	store  *session.Store
	jwt    *config.JWT
	ws     *config.WebSocket
	game   config.GameConfig

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewGameHandler(
	logger logrus.FieldLogger,
	store *session.Store,
	jwt *config.JWT,
	ws *config.WebSocket,
	game config.GameConfig,
	rnd *rand.Rand,
) *GameHandler {
	handler := &GameHandler{
		logger: logger,
		store:  store,
		jwt:    jwt,
		ws:     ws,
		game:   game,
		rnd:    rnd,
	}

	return handler
}

// newRand derives an independent source for a board, since boards outlive
// the request and *rand.Rand is not safe for concurrent use.
func (g *GameHandler) newRand() *rand.Rand {
	g.mu.Lock()
	defer g.mu.Unlock()
	return rand.New(rand.NewPCG(g.rnd.Uint64(), g.rnd.Uint64()))
}

// withSession locates the game named in the path, checks the caller's token
// when auth is set and runs fn with exclusive access to the board.
func (g *GameHandler) withSession(
	r *http.Request,
	auth bool,
	fn func(b *mines.Board) (mines.RevealResult, error),
) (*MoveResultDTO, error) {
	id := r.PathValue("id")
	if auth {
		claims, ok := middleware.SessionClaims(r.Context())
		if !ok || claims.GameID != id {
			return nil, ErrUnauthorized
		}
	}

	s, err := g.store.Get(id)
	if err != nil {
		return nil, err
	}

	var dto MoveResultDTO
	err = s.Do(func(b *mines.Board) error {
		res, err := fn(b)
		if err != nil {
			return err
		}
		dto.Result = res
		dto.Game = NewGameSessionDTO(s, b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto.Game.setEndedAt(s.EndedAt())

	if dto.Result.Ended {
		g.logger.WithFields(logrus.Fields{
			"game":   id,
			"status": dto.Result.Status,
		}).Info("game over")
	}

	return &dto, nil
}

func (g *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateNewGameDTO(r.URL.Query())
	if err != nil {
		badRequest(w, g.logger, err)
		return
	}

	if dto.Size > g.game.MaxSize {
		badRequest(w, g.logger, fmt.Errorf(
			"%w: size %d exceeds limit %d",
			mines.ErrInvalidConfiguration, dto.Size, g.game.MaxSize,
		))
		return
	}

	params := mines.GameParams{
		Size:      dto.Size,
		MineCount: dto.MineCount,
		SafeZone:  dto.SafeZone,
	}
	if params.SafeZone == 0 {
		params.SafeZone = g.game.SafeZone
	}

	board, err := mines.NewBoard(params, g.newRand())
	if err != nil {
		sendError(w, g.logger, err)
		return
	}

	s := g.store.Create(board)
	token, err := g.jwt.Sign(s.ID)
	if err != nil {
		g.store.Delete(s.ID)
		sendError(w, g.logger, fmt.Errorf("unable to sign session token: %w", err))
		return
	}

	g.logger.WithFields(logrus.Fields{
		"game":   s.ID,
		"params": params.Seed(),
	}).Debug("created game")

	var game *GameSessionDTO
	err = s.Do(func(b *mines.Board) error {
		game = NewGameSessionDTO(s, b)
		return nil
	})
	if err != nil {
		sendError(w, g.logger, err)
		return
	}

	sendJSONOrLog(w, g.logger, http.StatusOK, NewGameDTO{Token: token, Game: game})
}

func (g *GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	dto, err := g.withSession(r, false, func(b *mines.Board) (mines.RevealResult, error) {
		return mines.RevealResult{Changed: []mines.Point{}, Status: b.Status()}, nil
	})
	if err != nil {
		sendError(w, g.logger, err)
		return
	}
	sendJSONOrLog(w, g.logger, http.StatusOK, dto.Game)
}

func (g *GameHandler) MakeAMove(w http.ResponseWriter, r *http.Request) {
	moveDTO, err := ParseMoveDTO(r.URL.Query())
	if err != nil {
		badRequest(w, g.logger, err)
		return
	}
	move, err := ParseMove(moveDTO.Move)
	if err != nil {
		badRequest(w, g.logger, err)
		return
	}

	cmd := Command{Move: move, Row: moveDTO.Row, Col: moveDTO.Col}
	dto, err := g.withSession(r, true, cmd.Apply)
	if err != nil {
		sendError(w, g.logger, err)
		return
	}
	sendJSONOrLog(w, g.logger, http.StatusOK, dto)
}

func (g *GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	dto, err := g.withSession(r, true, func(b *mines.Board) (mines.RevealResult, error) {
		return b.Forfeit(), nil
	})
	if err != nil {
		sendError(w, g.logger, err)
		return
	}
	sendJSONOrLog(w, g.logger, http.StatusOK, dto)
}

// Batch accepts newline separated commands in the request body, see
// [ParseCommands]. If any command is malformed the game is left untouched
// and the response names the offending line.
func (g *GameHandler) Batch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBatchBytes))
	if err != nil {
		badRequest(w, g.logger, err)
		return
	}

	dto, err := g.withSession(r, true, batch(string(body)))
	if err != nil {
		sendError(w, g.logger, err)
		return
	}
	sendJSONOrLog(w, g.logger, http.StatusOK, dto)
}

func batch(text string) func(b *mines.Board) (mines.RevealResult, error) {
	return func(b *mines.Board) (mines.RevealResult, error) {
		cmds, err := ParseCommands(text, b.Size())
		if err != nil {
			return mines.RevealResult{}, err
		}
		return ApplyAll(b, cmds)
	}
}
