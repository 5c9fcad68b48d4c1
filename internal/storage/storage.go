package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	gamePrefix     = "game/"
)

// WinnerDraw marks a game stopped at its move cap.
const WinnerDraw = "draw"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Player labels used in game records
const (
	PlayerHuman  = "human"
	PlayerEngine = "engine"
)

// Preferences stores user settings that seed engine limits at startup.
type Preferences struct {
	Username   string        `json:"username"`
	Difficulty string        `json:"difficulty"`
	MaxDepth   int           `json:"max_depth"`
	TimeLimit  time.Duration `json:"time_limit"`
	HumanColor string        `json:"human_color"`
	LastPlayed time.Time     `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *Preferences {
	return &Preferences{
		Username:   "Player",
		Difficulty: "expert",
		MaxDepth:   11,
		TimeLimit:  10 * time.Second,
		HumanColor: "white",
		LastPlayed: time.Now(),
	}
}

// GameRecord is a completed or abandoned game.
type GameRecord struct {
	ID       string        `json:"id"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Black    string        `json:"black"`
	White    string        `json:"white"`
	Winner   string        `json:"winner"` // "black", "white", "draw" or "" if unfinished
	Moves    []string      `json:"moves"`  // Coordinate moves, e.g. "e1e2"
}

// GameStats stores aggregate game statistics
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`   // Human wins
	Losses         int            `json:"losses"` // Human losses
	Draws          int            `json:"draws"`  // Move-cap games
	Unfinished     int            `json:"unfinished"`
	WinsByColor    map[string]int `json:"wins_by_color"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		WinsByColor: make(map[string]int),
	}
}

// GetWinRate returns the human win rate as a percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the storage in the platform data directory
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (or creates) a database in dir
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{})
	return open(opts)
}

// OpenInMemory opens a database that lives only for the process lifetime
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(badgerLogger{})
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open badger at %q", opts.Dir)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Storage) putJSON(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "marshal %s", key)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	return errors.Wrapf(err, "write %s", key)
}

// getJSON decodes the value at key into v. It returns ErrNotFound if absent.
func (s *Storage) getJSON(key string, v interface{}) error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if err == ErrNotFound {
		return errors.Wrapf(ErrNotFound, "key %s", key)
	}
	return errors.Wrapf(err, "read %s", key)
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	return s.putJSON(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	err := s.getJSON(keyPreferences, prefs)
	if errors.Is(err, ErrNotFound) {
		return prefs, nil
	}
	return prefs, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.putJSON(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	err := s.getJSON(keyStats, stats)
	if errors.Is(err, ErrNotFound) {
		return stats, nil
	}
	if stats.WinsByColor == nil {
		stats.WinsByColor = make(map[string]int)
	}
	return stats, err
}

// NewGameID returns a key-sortable game identifier for a start time.
func NewGameID(started time.Time) string {
	return fmt.Sprintf("%020d", started.UnixNano())
}

// SaveGame stores a game record under its ID
func (s *Storage) SaveGame(rec *GameRecord) error {
	if rec.ID == "" {
		rec.ID = NewGameID(rec.Started)
	}
	return s.putJSON(gamePrefix+rec.ID, rec)
}

// LoadGame loads a single game record
func (s *Storage) LoadGame(id string) (*GameRecord, error) {
	rec := &GameRecord{}
	if err := s.getJSON(gamePrefix+id, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListGames returns up to limit game records, newest first. limit <= 0 means all.
func (s *Storage) ListGames(limit int) ([]*GameRecord, error) {
	var games []*GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(gamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration must seek past the last key with the prefix.
		seek := append([]byte(gamePrefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(opts.Prefix); it.Next() {
			rec := &GameRecord{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			})
			if err != nil {
				return errors.Wrapf(err, "decode %s", it.Item().Key())
			}
			games = append(games, rec)
			if limit > 0 && len(games) >= limit {
				break
			}
		}
		return nil
	})

	return games, err
}

// RecordGame stores a finished game and updates statistics.
// human is "black", "white" or "" when no human took part.
func (s *Storage) RecordGame(rec *GameRecord, human string) error {
	if err := s.SaveGame(rec); err != nil {
		return err
	}

	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlayTime += rec.Duration

	switch {
	case rec.Winner == "":
		stats.Unfinished++
		stats.CurrentStreak = 0
	case rec.Winner == WinnerDraw:
		stats.Draws++
	case human == "":
		stats.WinsByColor[rec.Winner]++
	case rec.Winner == human:
		stats.Wins++
		stats.WinsByColor[rec.Winner]++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestWinStrk {
			stats.LongestWinStrk = stats.CurrentStreak
		}
	default:
		stats.Losses++
		stats.WinsByColor[rec.Winner]++
		stats.CurrentStreak = 0
	}

	log.Debug().
		Str("id", rec.ID).
		Str("winner", rec.Winner).
		Int("plies", len(rec.Moves)).
		Msg("game-recorded")

	return s.SaveStats(stats)
}

// badgerLogger routes badger's internal logging through zerolog.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	log.Error().Str("component", "badger").Msgf(format, args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	log.Warn().Str("component", "badger").Msgf(format, args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	log.Debug().Str("component", "badger").Msgf(format, args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	log.Trace().Str("component", "badger").Msgf(format, args...)
}
