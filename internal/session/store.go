// Package session keeps running games in memory and serialises access to
// each of them.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

var ErrNotFound = fmt.Errorf("game session not found")

type Session struct {
	ID        string
	StartedAt time.Time

	mu       sync.Mutex
	board    *mines.Board
	endedAt  time.Time
	lastSeen time.Time
}

// Do runs fn with exclusive access to the session's board.
func (s *Session) Do(fn func(b *mines.Board) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := fn(s.board)
	now := time.Now().UTC()
	s.lastSeen = now
	if s.board.GameOver() && s.endedAt.IsZero() {
		s.endedAt = now
	}
	return err
}

// EndedAt is zero while the game is running.
func (s *Session) EndedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endedAt
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	idle     time.Duration
	log      logrus.FieldLogger
}

// NewStore creates an empty store. Sessions untouched for longer than idle
// are dropped by [Store.Sweep]; a zero idle keeps them forever.
func NewStore(idle time.Duration, log logrus.FieldLogger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		idle:     idle,
		log:      log,
	}
}

func (s *Store) Create(board *mines.Board) *Session {
	now := time.Now().UTC()
	session := &Session{
		ID:        uuid.NewString(),
		StartedAt: now,
		board:     board,
		lastSeen:  now,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session
}

func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return session, nil
}

// Deletes a session without checking if it existed.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes idle sessions and reports how many were dropped.
func (s *Store) Sweep(now time.Time) int {
	if s.idle <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for id, session := range s.sessions {
		if now.Sub(session.idleSince()) > s.idle {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}

// Run sweeps the store every period until ctx is done.
func (s *Store) Run(ctx context.Context, period time.Duration) error {
	if period <= 0 || s.idle <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if n := s.Sweep(now); n > 0 {
				s.log.WithFields(logrus.Fields{
					"dropped": n,
					"left":    s.Count(),
				}).Debug("swept idle sessions")
			}
		}
	}
}
