package protocol

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hailam/fianco/internal/storage"
)

func (s *Session) playerLabels() (black, white string) {
	black, white = storage.PlayerEngine, storage.PlayerEngine
	switch s.cfg.HumanColor {
	case "black":
		black = storage.PlayerHuman
	case "white":
		white = storage.PlayerHuman
	}
	return black, white
}

// recordGame stores the current game once. winner is "black", "white" or
// "" for an abandoned game.
func (s *Session) recordGame(winner string) {
	if s.cfg.Store == nil || s.recorded {
		return
	}
	s.recorded = true

	black, white := s.playerLabels()
	rec := &storage.GameRecord{
		Started:  s.started,
		Duration: time.Since(s.started),
		Black:    black,
		White:    white,
		Winner:   winner,
		Moves:    append([]string(nil), s.moves...),
	}

	if err := s.cfg.Store.RecordGame(rec, s.cfg.HumanColor); err != nil {
		log.Error().Err(err).Msg("record-game-failed")
	}
}

// recordUnfinished stores a game that is being abandoned with moves played.
func (s *Session) recordUnfinished() {
	if len(s.moves) == 0 || s.position.IsTerminal() {
		return
	}
	s.recordGame("")
}
