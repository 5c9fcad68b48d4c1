package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/fianco/internal/arena"
	"github.com/hailam/fianco/internal/storage"
)

type Config struct {
	Games        int
	Concurrency  int
	DepthA       int
	DepthB       int
	MoveTime     time.Duration
	HashMB       int
	OpeningPlies int
	Seed         int64
	MaxPlies     int
	Record       bool
	DataDir      string
	LogLevel     string
}

var config Config

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("arena")
		os.Exit(1)
	}
}

func run() error {
	flag.IntVar(&config.Games, "games", 20, "number of games")
	flag.IntVar(&config.Concurrency, "concurrency", runtime.NumCPU(), "games played in parallel")
	flag.IntVar(&config.DepthA, "depth-a", 6, "search depth of engine A")
	flag.IntVar(&config.DepthB, "depth-b", 4, "search depth of engine B")
	flag.DurationVar(&config.MoveTime, "movetime", time.Second, "time budget per move")
	flag.IntVar(&config.HashMB, "hash", 16, "transposition table size in MB per engine")
	flag.IntVar(&config.OpeningPlies, "openings", 4, "random opening plies")
	flag.Int64Var(&config.Seed, "seed", 1, "opening RNG seed")
	flag.IntVar(&config.MaxPlies, "maxplies", arena.DefaultMaxPlies, "plies before a game is drawn")
	flag.BoolVar(&config.Record, "record", false, "record games in the game database")
	flag.StringVar(&config.DataDir, "data", "", "data directory (default: platform data dir)")
	flag.StringVar(&config.LogLevel, "loglevel", "info", "log level")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)

	log.Info().Interface("config", config).Msg("arena-config")

	cfg := arena.Config{
		Games:        config.Games,
		Concurrency:  config.Concurrency,
		A:            arena.Player{Name: "engine-a", Depth: config.DepthA, MoveTime: config.MoveTime, HashMB: config.HashMB},
		B:            arena.Player{Name: "engine-b", Depth: config.DepthB, MoveTime: config.MoveTime, HashMB: config.HashMB},
		OpeningPlies: config.OpeningPlies,
		Seed:         config.Seed,
		MaxPlies:     config.MaxPlies,
	}

	if config.Record {
		var store *storage.Storage
		if config.DataDir == "" {
			store, err = storage.NewStorage()
		} else {
			store, err = storage.Open(config.DataDir)
		}
		if err != nil {
			return err
		}
		defer store.Close()
		cfg.Store = store
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := arena.Run(ctx, cfg)
	stat := results.Stat()
	log.Info().
		Int("games", results.Games).
		Int("wins", results.WinsA).
		Int("losses", results.WinsB).
		Int("draws", results.Draws).
		Int("black_wins", results.BlackWins).
		Int("white_wins", results.WhiteWins).
		Float64("avg_plies", results.AvgPlies()).
		Float64("elo", stat.EloDifference).
		Float64("los", stat.LOS).
		Msg("match-result")
	return err
}
