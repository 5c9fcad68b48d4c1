package main

import (
	"flag"
	"os"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/fianco/internal/engine"
	"github.com/hailam/fianco/internal/protocol"
	"github.com/hailam/fianco/internal/storage"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	depth      = flag.Int("depth", 0, "maximum search depth (0: saved preference)")
	timeLimit  = flag.Duration("time", 0, "time budget per move (0: saved preference)")
	hashMB     = flag.Int("hash", 64, "transposition table size in MB")
	dataDir    = flag.String("data", "", "data directory (default: platform data dir)")
	noStore    = flag.Bool("nostore", false, "do not open the game database")
	human      = flag.String("human", "", "color played by the human for game records (black, white)")
	logLevel   = flag.String("loglevel", "info", "log level (trace, debug, info, warn, error)")
)

func main() {
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("bad log level")
	}
	zerolog.SetGlobalLevel(level)

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("cpu-profiling")
	}

	cfg := protocol.Config{
		Depth:      *depth,
		TimeLimit:  *timeLimit,
		HashMB:     *hashMB,
		HumanColor: *human,
	}

	eng := engine.NewEngine(cfg.HashMB)

	if !*noStore {
		store, err := openStore(*dataDir)
		if err != nil {
			log.Warn().Err(err).Msg("storage disabled")
		} else {
			defer store.Close()
			cfg = applyPreferences(store, eng, cfg)
			cfg.Store = store
		}
	}

	session := protocol.New(eng, cfg)
	if err := session.Run(os.Stdin, os.Stdout); err != nil {
		log.Error().Err(err).Msg("protocol")
	}
}

func openStore(dir string) (*storage.Storage, error) {
	if dir == "" {
		return storage.NewStorage()
	}
	return storage.Open(dir)
}

// applyPreferences fills unset limits from saved preferences and saves
// explicitly given ones.
func applyPreferences(store *storage.Storage, eng *engine.Engine, cfg protocol.Config) protocol.Config {
	prefs, err := store.LoadPreferences()
	if err != nil {
		log.Warn().Err(err).Msg("load preferences")
		return cfg
	}

	if d, ok := engine.ParseDifficulty(prefs.Difficulty); ok {
		eng.SetDifficulty(d)
	}

	if cfg.Depth > 0 {
		prefs.MaxDepth = cfg.Depth
	} else {
		cfg.Depth = prefs.MaxDepth
	}
	if cfg.TimeLimit > 0 {
		prefs.TimeLimit = cfg.TimeLimit
	} else {
		cfg.TimeLimit = prefs.TimeLimit
	}
	if cfg.HumanColor != "" {
		prefs.HumanColor = cfg.HumanColor
	} else {
		cfg.HumanColor = prefs.HumanColor
	}

	if err := store.SavePreferences(prefs); err != nil {
		log.Warn().Err(err).Msg("save preferences")
	}

	log.Debug().
		Int("depth", cfg.Depth).
		Dur("time", cfg.TimeLimit).
		Str("human", cfg.HumanColor).
		Msg("preferences-applied")
	return cfg
}
