// Package protocol implements the line-oriented Fianco engine protocol.
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/hailam/fianco/internal/board"
	"github.com/hailam/fianco/internal/engine"
	"github.com/hailam/fianco/internal/storage"
)

// Config holds the session defaults.
type Config struct {
	Depth      int           // Default search depth for "go"
	TimeLimit  time.Duration // Default time budget for "go"
	HashMB     int
	HumanColor string           // "black", "white" or "" for game records
	Store      *storage.Storage // Optional; completed games are recorded when set
}

// Session is a protocol handler bound to one engine and one game.
type Session struct {
	cfg    Config
	engine *engine.Engine
	out    *syncWriter

	position *board.Position
	moves    []string // Coordinate moves of the current game
	moveLog  []string // "B: a9-a8" lines
	started  time.Time
	recorded bool

	// Search state. Only the command loop touches these. Each search gets
	// its own stop flag so a late stop cannot leak into the next one.
	searchDone chan struct{}
	searchStop *atomic.Bool
}

// New creates a protocol session. eng may be nil, in which case an engine
// with cfg.HashMB is created.
func New(eng *engine.Engine, cfg Config) *Session {
	if cfg.HashMB <= 0 {
		cfg.HashMB = 64
	}
	if cfg.Depth <= 0 {
		cfg.Depth = engine.DifficultySettings[engine.Expert].Depth
	}
	if cfg.TimeLimit <= 0 {
		cfg.TimeLimit = engine.DifficultySettings[engine.Expert].MoveTime
	}
	if eng == nil {
		eng = engine.NewEngine(cfg.HashMB)
	}

	s := &Session{
		cfg:    cfg,
		engine: eng,
	}
	s.resetGame(board.NewPosition())
	return s
}

// Position returns a copy of the current position.
func (s *Session) Position() *board.Position {
	return s.position.Copy()
}

// syncWriter serializes output from the command loop and the search goroutine.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (sw *syncWriter) printf(format string, args ...interface{}) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	fmt.Fprintf(sw.w, format, args...)
}

// Run reads commands from r until "quit" or end of input, writing responses
// to w. At end of input a running search is allowed to finish.
func (s *Session) Run(r io.Reader, w io.Writer) error {
	s.out = &syncWriter{w: w}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "isready":
			s.out.printf("readyok\n")
		case "new":
			s.handleNewGame()
		case "position":
			s.handlePosition(args)
		case "moves":
			s.handleMoves(args)
		case "legal":
			s.handleLegal()
		case "play":
			s.handlePlay(args)
		case "winner":
			s.out.printf("winner %s\n", colorName(s.position.Winner()))
		case "go":
			s.handleGo(args)
		case "stop":
			s.handleStop()
		case "setoption":
			s.handleSetOption(args)
		case "log":
			for _, l := range s.moveLog {
				s.out.printf("%s\n", l)
			}
		case "clear":
			s.handleStop()
			s.engine.Clear()
		case "quit":
			s.handleStop()
			s.recordUnfinished()
			return nil
		// Debug commands
		case "d":
			s.out.printf("%s", s.position.String())
		case "perft":
			s.handlePerft(args)
		case "eval":
			s.out.printf("eval %d\n", s.engine.Evaluate(s.position))
		default:
			s.errorf("unknown command %q", cmd)
		}
	}

	s.waitSearch()
	s.recordUnfinished()
	return errors.Wrap(scanner.Err(), "read commands")
}

func (s *Session) errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Debug().Str("error", msg).Msg("command-rejected")
	s.out.printf("error %s\n", msg)
}

func colorName(c board.Color) string {
	if c == board.NoColor {
		return "none"
	}
	return strings.ToLower(c.String())
}

func (s *Session) resetGame(pos *board.Position) {
	s.position = pos
	s.moves = nil
	s.moveLog = nil
	s.started = time.Now()
	s.recorded = false
}

// handleNewGame resets the board; search tables are kept.
func (s *Session) handleNewGame() {
	s.handleStop()
	s.recordUnfinished()
	s.resetGame(board.NewPosition())
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e3e4 e7e6
//   - position board <board> <side>
//   - position board <board> <side> moves e3e4
func (s *Session) handlePosition(args []string) {
	if len(args) == 0 {
		s.errorf("position: missing argument")
		return
	}

	var pos *board.Position
	rest := args[1:]

	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "board":
		if len(args) < 3 {
			s.errorf("position: board needs placement and side")
			return
		}
		var err error
		pos, err = board.ParseBoard(args[1] + " " + args[2])
		if err != nil {
			s.errorf("%v", err)
			return
		}
		rest = args[3:]
	default:
		s.errorf("position: unknown form %q", args[0])
		return
	}

	if len(rest) > 0 && rest[0] != "moves" {
		s.errorf("position: unexpected %q", rest[0])
		return
	}

	s.handleStop()
	s.resetGame(pos)

	for _, moveStr := range lo.Drop(rest, 1) {
		if err := s.apply(moveStr); err != nil {
			s.errorf("%v", err)
			return
		}
	}
}

// apply plays a move on the current game.
func (s *Session) apply(moveStr string) error {
	if s.position.IsTerminal() {
		return errors.Errorf("game over, %s won", colorName(s.position.Winner()))
	}

	move, err := s.position.ParseLegalMove(moveStr)
	if err != nil {
		return err
	}

	s.moveLog = append(s.moveLog, move.LogString(s.position.SideToMove))
	s.moves = append(s.moves, move.String())
	s.position.MakeMove(move)
	return nil
}

// handleMoves answers a destination query for one square.
func (s *Session) handleMoves(args []string) {
	if len(args) != 1 {
		s.errorf("moves: expected one square")
		return
	}
	sq, err := board.ParseSquare(args[0])
	if err != nil {
		s.errorf("%v", err)
		return
	}

	dests, forced := s.position.LegalDestinations(sq)
	parts := append([]string{"moves", sq.String()}, lo.Map(dests, func(d board.Square, _ int) string {
		return d.String()
	})...)
	parts = append(parts, "forced", strconv.FormatBool(forced))
	s.out.printf("%s\n", strings.Join(parts, " "))
}

func (s *Session) handleLegal() {
	moves := s.position.GenerateLegalMoves().Slice()
	names := lo.Map(moves, func(m board.Move, _ int) string { return m.String() })
	s.out.printf("%s\n", strings.Join(append([]string{"legal"}, names...), " "))
}

func (s *Session) handlePlay(args []string) {
	if len(args) != 1 {
		s.errorf("play: expected one move")
		return
	}
	if err := s.apply(args[0]); err != nil {
		s.errorf("%v", err)
		return
	}
	s.out.printf("ok\n")

	if winner := s.position.Winner(); winner != board.NoColor {
		s.out.printf("winner %s\n", colorName(winner))
		s.recordGame(colorName(winner))
	}
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth    int
	MoveTime time.Duration
}

// handleGo starts a search on a copy of the current position.
func (s *Session) handleGo(args []string) {
	opts, err := s.parseGoOptions(args)
	if err != nil {
		s.errorf("%v", err)
		return
	}

	s.handleStop()

	s.engine.OnInfo = func(info engine.SearchInfo) {
		s.sendInfo(info)
	}

	stop := new(atomic.Bool)
	limits := engine.SearchLimits{Depth: opts.Depth, MoveTime: opts.MoveTime, Stop: stop}
	pos := s.position.Copy()
	eng := s.engine
	done := make(chan struct{})
	s.searchDone = done
	s.searchStop = stop

	log.Debug().
		Int("depth", limits.Depth).
		Dur("movetime", limits.MoveTime).
		Str("side", pos.SideToMove.String()).
		Msg("search-started")

	go func() {
		defer close(done)

		result := eng.SearchWithLimits(pos, limits)
		if result.Move == board.NoMove {
			s.out.printf("bestmove none\n")
			return
		}
		s.out.printf("bestmove %s\n", result.Move)
	}()
}

// parseGoOptions parses "go" command arguments over the session defaults.
func (s *Session) parseGoOptions(args []string) (GoOptions, error) {
	opts := GoOptions{Depth: s.cfg.Depth, MoveTime: s.cfg.TimeLimit}

	for i := 0; i < len(args); i++ {
		if i+1 >= len(args) {
			return opts, errors.Errorf("go: %s needs a value", args[i])
		}
		value := args[i+1]

		switch args[i] {
		case "depth":
			d, err := strconv.Atoi(value)
			if err != nil {
				return opts, errors.Wrap(err, "go: depth")
			}
			opts.Depth = d
		case "time":
			secs, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return opts, errors.Wrap(err, "go: time")
			}
			opts.MoveTime = time.Duration(secs * float64(time.Second))
		case "movetime":
			ms, err := strconv.Atoi(value)
			if err != nil {
				return opts, errors.Wrap(err, "go: movetime")
			}
			opts.MoveTime = time.Duration(ms) * time.Millisecond
		default:
			return opts, errors.Errorf("go: unknown option %q", args[i])
		}
		i++
	}

	return opts, nil
}

// sendInfo outputs one completed search depth.
func (s *Session) sendInfo(info engine.SearchInfo) {
	parts := []string{
		fmt.Sprintf("depth %d", info.Depth),
		fmt.Sprintf("score %d", info.Score),
		fmt.Sprintf("nodes %d", info.Nodes),
		fmt.Sprintf("time %d", info.Time.Milliseconds()),
	}

	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	if info.HashFull > 0 {
		parts = append(parts, fmt.Sprintf("hashfull %d", info.HashFull))
	}
	parts = append(parts, "move "+info.Move.String())

	s.out.printf("info %s\n", strings.Join(parts, " "))
}

// handleStop stops the current search and waits for its bestmove.
func (s *Session) handleStop() {
	if s.searchStop != nil {
		s.searchStop.Store(true)
	}
	s.waitSearch()
}

func (s *Session) waitSearch() {
	if s.searchDone != nil {
		<-s.searchDone
		s.searchDone = nil
		s.searchStop = nil
	}
}

// handleSetOption processes "setoption name <name> value <value>".
func (s *Session) handleSetOption(args []string) {
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				name = strings.TrimSpace(name + " " + arg)
			} else if readingValue {
				value = strings.TrimSpace(value + " " + arg)
			}
		}
	}

	s.handleStop()

	switch strings.ToLower(name) {
	case "depth":
		d, err := strconv.Atoi(value)
		if err != nil || d < 1 || d > engine.MaxDepth {
			s.errorf("setoption: bad depth %q", value)
			return
		}
		s.cfg.Depth = d
	case "time":
		secs, err := strconv.ParseFloat(value, 64)
		if err != nil || secs <= 0 {
			s.errorf("setoption: bad time %q", value)
			return
		}
		s.cfg.TimeLimit = time.Duration(secs * float64(time.Second))
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb < 1 {
			s.errorf("setoption: bad hash %q", value)
			return
		}
		s.cfg.HashMB = mb
		difficulty := s.engine.Difficulty()
		s.engine = engine.NewEngine(mb)
		s.engine.SetDifficulty(difficulty)
	case "difficulty":
		d, ok := engine.ParseDifficulty(strings.ToLower(value))
		if !ok {
			s.errorf("setoption: unknown difficulty %q", value)
			return
		}
		s.engine.SetDifficulty(d)
		limits := engine.DifficultySettings[d]
		s.cfg.Depth = limits.Depth
		s.cfg.TimeLimit = limits.MoveTime
	default:
		s.errorf("setoption: unknown option %q", name)
		return
	}

	log.Debug().Str("name", name).Str("value", value).Msg("option-set")
}

// handlePerft runs a perft test.
func (s *Session) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 0 {
			s.errorf("perft: bad depth %q", args[0])
			return
		}
		depth = d
	}

	start := time.Now()
	nodes := s.engine.Perft(s.position, depth)
	elapsed := time.Since(start)

	s.out.printf("Nodes: %d\n", nodes)
	s.out.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		s.out.printf("NPS: %.0f\n", nps)
	}
}
