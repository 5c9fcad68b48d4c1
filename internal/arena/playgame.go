package arena

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/hailam/fianco/internal/board"
	"github.com/hailam/fianco/internal/engine"
)

func playGame(
	ctx context.Context,
	cfg Config,
	engineA, engineB *engine.Engine,
	info gameInfo,
) (gameResult, error) {
	log.Debug().Int("game", info.number).Msg("game-started")

	// Fresh tables make each game independent of scheduling.
	engineA.Clear()
	engineB.Clear()

	res := gameResult{info: info, started: time.Now()}
	finish := func(winner board.Color, comment string) (gameResult, error) {
		res.winner = winner
		res.comment = comment
		res.duration = time.Since(res.started)
		return res, nil
	}

	pos := board.NewPosition()
	for _, m := range info.opening {
		pos.MakeMove(m)
		res.moves = append(res.moves, m)
	}

	for {
		if err := ctx.Err(); err != nil {
			return gameResult{}, err
		}

		if winner := pos.Winner(); winner != board.NoColor {
			return finish(winner, "win")
		}
		if len(res.moves) >= cfg.MaxPlies {
			return finish(board.NoColor, "ply cap")
		}

		legal := pos.GenerateLegalMoves()
		if legal.Len() == 0 {
			// A side that cannot move loses.
			return finish(pos.SideToMove.Other(), "no legal moves")
		}

		eng, player := engineB, cfg.B
		if (pos.SideToMove == board.White) == info.aIsWhite {
			eng, player = engineA, cfg.A
		}

		result := eng.SearchWithLimits(pos, engine.SearchLimits{
			Depth:    player.Depth,
			MoveTime: player.MoveTime,
		})

		move := result.Move
		if move == board.NoMove {
			move = legal.Get(0)
			log.Warn().
				Int("game", info.number).
				Str("player", player.Name).
				Str("fallback", move.String()).
				Msg("no-depth-completed")
		}
		if !legal.Contains(move) {
			return gameResult{}, errors.Errorf("game %d: %s played illegal move %s", info.number, player.Name, move)
		}

		pos.MakeMove(move)
		res.moves = append(res.moves, move)
	}
}
