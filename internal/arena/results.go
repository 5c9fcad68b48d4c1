package arena

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/hailam/fianco/internal/board"
	"github.com/hailam/fianco/internal/storage"
)

// Results aggregates a match from A's point of view.
type Results struct {
	Games      int
	WinsA      int
	WinsB      int
	Draws      int
	BlackWins  int
	WhiteWins  int
	TotalPlies int
}

func newResults() *Results {
	return &Results{}
}

// AvgPlies returns the mean game length.
func (r Results) AvgPlies() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.TotalPlies) / float64(r.Games)
}

func (r *Results) add(res gameResult) {
	r.Games++
	r.TotalPlies += len(res.moves)

	switch res.winner {
	case board.NoColor:
		r.Draws++
		return
	case board.Black:
		r.BlackWins++
	case board.White:
		r.WhiteWins++
	}

	if (res.winner == board.White) == res.info.aIsWhite {
		r.WinsA++
	} else {
		r.WinsB++
	}
}

// GameStatistics summarizes a match score.
type GameStatistics struct {
	WinningFraction float64
	EloDifference   float64
	LOS             float64 // Likelihood of superiority
}

// Stat computes match statistics for A.
// https://www.chessprogramming.org/Match_Statistics
func (r Results) Stat() GameStatistics {
	wins, losses, draws := float64(r.WinsA), float64(r.WinsB), float64(r.Draws)
	games := wins + losses + draws
	if games == 0 {
		return GameStatistics{WinningFraction: 0.5, LOS: 0.5}
	}

	fraction := (wins + 0.5*draws) / games
	elo := -math.Log(1/fraction-1) * 400 / math.Ln10
	los := 0.5
	if wins+losses > 0 {
		los = 0.5 + 0.5*math.Erf((wins-losses)/math.Sqrt(2*(wins+losses)))
	}
	return GameStatistics{
		WinningFraction: fraction,
		EloDifference:   elo,
		LOS:             los,
	}
}

func resultString(c board.Color) string {
	switch c {
	case board.White:
		return "1-0"
	case board.Black:
		return "0-1"
	default:
		return "1/2-1/2"
	}
}

func collectResults(ctx context.Context, cfg Config, in <-chan gameResult, results *Results) error {
	for res := range in {
		results.add(res)

		log.Info().
			Int("game", res.info.number).
			Str("result", resultString(res.winner)).
			Str("comment", res.comment).
			Int("plies", len(res.moves)).
			Msg("game-finished")

		stat := results.Stat()
		log.Info().
			Int("wins", results.WinsA).
			Int("losses", results.WinsB).
			Int("draws", results.Draws).
			Float64("fraction", stat.WinningFraction).
			Float64("elo", stat.EloDifference).
			Float64("los", stat.LOS).
			Msg("score")

		if cfg.Store != nil {
			if err := cfg.Store.RecordGame(gameRecord(cfg, res), ""); err != nil {
				return err
			}
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

func gameRecord(cfg Config, res gameResult) *storage.GameRecord {
	white, black := cfg.A.Name, cfg.B.Name
	if !res.info.aIsWhite {
		white, black = black, white
	}

	winner := storage.WinnerDraw
	if res.winner != board.NoColor {
		winner = strings.ToLower(res.winner.String())
	}

	return &storage.GameRecord{
		ID:       fmt.Sprintf("%s-%04d", storage.NewGameID(res.started), res.info.number),
		Started:  res.started,
		Duration: res.duration,
		Black:    black,
		White:    white,
		Winner:   winner,
		Moves:    lo.Map(res.moves, func(m board.Move, _ int) string { return m.String() }),
	}
}
