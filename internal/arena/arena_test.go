package arena

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/fianco/internal/board"
	"github.com/hailam/fianco/internal/storage"
)

func testConfig() Config {
	return Config{
		Games:        4,
		Concurrency:  2,
		A:            Player{Name: "deep", Depth: 2, MoveTime: time.Hour, HashMB: 1},
		B:            Player{Name: "shallow", Depth: 1, MoveTime: time.Hour, HashMB: 1},
		OpeningPlies: 2,
		Seed:         7,
		MaxPlies:     60,
	}
}

func TestRunAggregates(t *testing.T) {
	store, err := storage.OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	cfg := testConfig()
	cfg.Store = store

	results, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 4, results.Games)
	assert.Equal(t, 4, results.WinsA+results.WinsB+results.Draws)
	assert.Equal(t, results.WinsA+results.WinsB, results.BlackWins+results.WhiteWins)
	assert.Greater(t, results.AvgPlies(), 2.0)
	assert.LessOrEqual(t, results.AvgPlies(), 60.0)

	games, err := store.ListGames(0)
	require.NoError(t, err)
	require.Len(t, games, 4)
	for _, g := range games {
		assert.GreaterOrEqual(t, len(g.Moves), 2)
		assert.ElementsMatch(t, []string{"deep", "shallow"}, []string{g.Black, g.White})
		assert.Contains(t, []string{"black", "white", storage.WinnerDraw}, g.Winner)
	}

	stats, err := store.LoadStats()
	require.NoError(t, err)
	assert.Equal(t, 4, stats.GamesPlayed)
	assert.Equal(t, results.Draws, stats.Draws)
}

func TestRunIndependentOfConcurrency(t *testing.T) {
	cfg := testConfig()

	cfg.Concurrency = 1
	serial, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	cfg.Concurrency = 3
	parallel, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
}

func TestPlyCapIsDraw(t *testing.T) {
	cfg := testConfig()
	cfg.Games = 2
	cfg.OpeningPlies = 0
	cfg.MaxPlies = 1

	results, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, Results{Games: 2, Draws: 2, TotalPlies: 2}, results)
}

func TestGenerateGamesPairsOpenings(t *testing.T) {
	cfg := testConfig()
	cfg.OpeningPlies = 4

	out := make(chan gameInfo, cfg.Games)
	require.NoError(t, generateGames(context.Background(), cfg, out))
	close(out)

	var infos []gameInfo
	for info := range out {
		infos = append(infos, info)
	}
	require.Len(t, infos, 4)

	for i, info := range infos {
		assert.Equal(t, i+1, info.number)
		assert.Equal(t, i%2 == 0, info.aIsWhite)
		assert.Len(t, info.opening, 4)
	}
	assert.Equal(t, infos[0].opening, infos[1].opening)
	assert.Equal(t, infos[2].opening, infos[3].opening)
}

func TestRandomOpeningIsLegal(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		pos := board.NewPosition()
		for _, m := range randomOpening(rng, 10) {
			require.True(t, pos.IsLegal(m), "move %s in %s", m, pos.Text())
			pos.MakeMove(m)
		}
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := testConfig()
	cfg.Concurrency = 1
	_, err := Run(ctx, cfg)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStat(t *testing.T) {
	stat := Results{WinsA: 6, WinsB: 2, Draws: 2}.Stat()
	assert.InDelta(t, 0.7, stat.WinningFraction, 1e-9)
	assert.Greater(t, stat.EloDifference, 0.0)
	assert.Greater(t, stat.LOS, 0.5)

	even := Results{}.Stat()
	assert.Equal(t, 0.5, even.WinningFraction)
	assert.Equal(t, 0.5, even.LOS)
}
