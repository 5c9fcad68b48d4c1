// Package arena plays engine-vs-engine Fianco matches.
package arena

import (
	"context"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/fianco/internal/board"
	"github.com/hailam/fianco/internal/engine"
	"github.com/hailam/fianco/internal/storage"
)

// DefaultMaxPlies caps a game when Config.MaxPlies is zero.
const DefaultMaxPlies = 200

// Player is one side of a match.
type Player struct {
	Name     string
	Depth    int
	MoveTime time.Duration
	HashMB   int
}

func (p Player) newEngine() *engine.Engine {
	hash := p.HashMB
	if hash <= 0 {
		hash = 16
	}
	return engine.NewEngine(hash)
}

// Config describes a match between A and B.
type Config struct {
	Games        int
	Concurrency  int
	A, B         Player
	OpeningPlies int   // Random plies played before the engines take over
	Seed         int64 // Seed for the opening RNG
	MaxPlies     int   // Games reaching this many plies are draws

	Store *storage.Storage // Optional; each game is recorded when set
}

type gameInfo struct {
	number   int
	opening  []board.Move
	aIsWhite bool
}

type gameResult struct {
	info     gameInfo
	moves    []board.Move
	winner   board.Color // NoColor for a draw
	comment  string
	started  time.Time
	duration time.Duration
}

// Run plays cfg.Games games and returns the aggregated results.
func Run(ctx context.Context, cfg Config) (Results, error) {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.MaxPlies <= 0 {
		cfg.MaxPlies = DefaultMaxPlies
	}

	log.Info().
		Int("numcpu", runtime.NumCPU()).
		Int("gomaxprocs", runtime.GOMAXPROCS(0)).
		Int("concurrency", cfg.Concurrency).
		Int("games", cfg.Games).
		Msg("arena-started")

	g, ctx := errgroup.WithContext(ctx)

	gameInfos := make(chan gameInfo)
	gameResults := make(chan gameResult)
	results := newResults()

	g.Go(func() error {
		defer close(gameInfos)
		return generateGames(ctx, cfg, gameInfos)
	})

	g.Go(func() error {
		return collectResults(ctx, cfg, gameResults, results)
	})

	var wg sync.WaitGroup
	for i := 0; i < cfg.Concurrency; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return playGames(ctx, cfg, gameInfos, gameResults)
		})
	}

	g.Go(func() error {
		wg.Wait()
		close(gameResults)
		return nil
	})

	err := g.Wait()
	log.Info().Int("games", results.Games).Msg("arena-finished")
	return *results, err
}

// generateGames emits games in pairs sharing one random opening, with the
// engines swapping colors between the two.
func generateGames(ctx context.Context, cfg Config, out chan<- gameInfo) error {
	rng := rand.New(rand.NewSource(cfg.Seed))

	var opening []board.Move
	for n := 0; n < cfg.Games; n++ {
		if n%2 == 0 {
			opening = randomOpening(rng, cfg.OpeningPlies)
		}

		info := gameInfo{
			number:   n + 1,
			opening:  opening,
			aIsWhite: n%2 == 0,
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- info:
		}
	}
	return nil
}

// randomOpening plays up to plies random legal moves from the start
// position, stopping early at a terminal position.
func randomOpening(rng *rand.Rand, plies int) []board.Move {
	pos := board.NewPosition()
	var moves []board.Move

	for i := 0; i < plies && !pos.IsTerminal(); i++ {
		legal := pos.GenerateLegalMoves()
		if legal.Len() == 0 {
			break
		}
		m := legal.Get(rng.Intn(legal.Len()))
		pos.MakeMove(m)
		moves = append(moves, m)
	}
	return moves
}

// playGames plays games until the input is drained. Each worker owns its
// engines, so every search stays single-threaded.
func playGames(ctx context.Context, cfg Config, in <-chan gameInfo, out chan<- gameResult) error {
	engineA := cfg.A.newEngine()
	engineB := cfg.B.newEngine()

	for info := range in {
		res, err := playGame(ctx, cfg, engineA, engineB, info)
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- res:
		}
	}
	return nil
}
