package mines

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
)

type GameStatus int8

const (
	NotStarted GameStatus = iota // mines are placed by the first action
	InProgress
	Won
	Lost
	Abandoned // ended before either side won
)

func (s GameStatus) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case InProgress:
		return "in-progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	case Abandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// [GameStatus] implements [encoding.TextMarshaler]
func (s GameStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func ParseGameStatus(s string) (GameStatus, error) {
	for status := NotStarted; status <= Abandoned; status++ {
		if status.String() == s {
			return status, nil
		}
	}
	return 0, &ConfigError{"status", fmt.Sprintf("unknown game status %q", s)}
}

func (s GameStatus) Ended() bool {
	return s >= Won
}

// Game is a single minesweeper session. It is not safe for concurrent use;
// callers serialise access to one Game.
type Game struct {
	GameParams

	grid      Grid
	adjacency Adjacency
	rnd       *rand.Rand
	counters  MineCounters
	clock     *Stopwatch
	status    GameStatus
	paused    bool
	revealed  int
	changed   mapset.Set[Point]
	onEnd     []func(*Game)
}

type Option func(*Game)

// WithClock replaces the wall clock used for elapsed time.
func WithClock(now func() time.Time) Option {
	return func(g *Game) {
		g.clock = NewStopwatch(now)
	}
}

// WithOnEnd registers fn to be called once when the game ends.
func WithOnEnd(fn func(*Game)) Option {
	return func(g *Game) {
		g.onEnd = append(g.onEnd, fn)
	}
}

func newGame(params GameParams, cache *AdjacencyCache, r *rand.Rand, opts ...Option) (*Game, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	params.Mines = slices.Clone(params.Mines)

	g := &Game{
		GameParams: params,
		grid:       NewGrid(params.Width, params.Height),
		adjacency:  cache.Get(params.Topology, params.Width, params.Height),
		rnd:        r,
		counters:   NewMineCounters(params.Mines),
		changed:    mapset.New[Point](),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.clock == nil {
		g.clock = NewStopwatch(nil)
	}
	if g.rnd == nil {
		g.rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g, nil
}

// NewGame sets up a game on a fresh board. Unless params.NoMinesAtEdges is
// set, mines are placed by the first action so that it never hits a mine.
// With NoMinesAtEdges the mines are placed at once and every edge tile is
// revealed before NewGame returns.
func NewGame(params GameParams, cache *AdjacencyCache, r *rand.Rand, opts ...Option) (*Game, error) {
	g, err := newGame(params, cache, r, opts...)
	if err != nil {
		return nil, err
	}

	if g.NoMinesAtEdges {
		if err := Generate(g.grid, g.GameParams, g.adjacency, g.rnd); err != nil {
			return nil, err
		}
		g.start()
		g.revealEdges()
	}
	return g, nil
}

func (g *Game) start() {
	g.status = InProgress
	g.clock.Start()
}

func (g *Game) revealEdges() {
	for x := range g.Width {
		for y := range g.Height {
			if g.status != InProgress {
				return
			}
			if isEdge(x, y, g.Width, g.Height) && !g.grid[x][y].Revealed {
				g.reveal(Point{x, y})
			}
		}
	}
}

func (g *Game) Status() GameStatus {
	return g.status
}

// Active reports whether the game still accepts actions once unpaused.
func (g *Game) Active() bool {
	return g.status == NotStarted || g.status == InProgress
}

func (g *Game) Paused() bool {
	return g.paused
}

func (g *Game) SquaresRevealed() int {
	return g.revealed
}

func (g *Game) Counters() MineCounters {
	return slices.Clone(g.counters)
}

func (g *Game) Elapsed() time.Duration {
	return g.clock.Elapsed()
}

func (g *Game) Tile(x, y int) (Tile, bool) {
	if !g.ValidatePosition(x, y) {
		return Tile{}, false
	}
	return g.grid[x][y], true
}

func (g *Game) Neighbors(x, y int) []Point {
	if !g.ValidatePosition(x, y) {
		return nil
	}
	return slices.Clone(g.adjacency[x][y])
}

func (g *Game) String() string {
	return g.grid.String()
}

// Action applies one player input to the tile at (x, y). alternate is the
// flagging gesture. Out of bounds coordinates and actions on a paused or
// ended game are ignored; the result reports whether the action was taken.
func (g *Game) Action(x, y int, alternate bool) bool {
	if !g.Active() || g.paused || !g.ValidatePosition(x, y) {
		return false
	}
	p := Point{x, y}

	if g.status == NotStarted {
		if err := generateAround(g.grid, g.GameParams, g.adjacency, g.rnd, p); err != nil {
			Log.WithError(err).WithField("seed", g.Seed()).Error("unable to place mines")
			return false
		}
		g.start()
		alternate = false
	}

	t := g.grid.At(p)
	switch {
	case t.Revealed:
		g.chord(p)
	case alternate:
		if t.Flags == g.MaxFlags() {
			g.setFlags(p, 0)
		} else {
			g.setFlags(p, t.Flags+1)
		}
	case t.Flags > 0:
		g.setFlags(p, t.Flags-1)
	default:
		g.reveal(p)
	}
	return true
}

func (g *Game) setFlags(p Point, n int) {
	t := g.grid.At(p)
	g.counters.Adjust(t.Flags, n)
	t.Flags = n
	g.touch(p)
}

// chord reveals the unflagged neighbours of a revealed tile when the flags
// around it add up to exactly its number.
func (g *Game) chord(p Point) {
	flags := 0
	for _, n := range g.adjacency.Of(p) {
		flags += g.grid.At(n).Flags
	}
	if flags != g.grid.At(p).Number {
		return
	}
	for _, n := range g.adjacency.Of(p) {
		if g.status != InProgress {
			return
		}
		if t := g.grid.At(n); !t.Revealed && t.Flags == 0 {
			g.reveal(n)
		}
	}
}

// reveal opens the tile at p and, through tiles numbered 0, every tile
// connected to it.
func (g *Game) reveal(p Point) {
	if t := g.grid.At(p); t.Mines > 0 {
		g.lose(p)
		return
	}

	var todo deque.Deque
	todo.PushBack(p)
	for todo.Len() > 0 {
		p := todo.PopFront().(Point)
		t := g.grid.At(p)
		if t.Revealed || t.Flags > 0 || t.Mines > 0 {
			continue
		}

		t.Revealed = true
		g.revealed++
		g.touch(p)

		if t.Number == 0 {
			for _, n := range g.adjacency.Of(p) {
				if nt := g.grid.At(n); !nt.Revealed && nt.Flags == 0 {
					todo.PushBack(n)
				}
			}
		}
	}

	g.checkWin()
}

func (g *Game) checkWin() {
	if g.status != InProgress || g.revealed != g.NonMines() {
		return
	}
	for x := range g.Width {
		for y := range g.Height {
			if t := &g.grid[x][y]; t.Flags != t.Mines {
				t.Flags = t.Mines
				g.touch(Point{x, y})
			}
		}
	}
	g.counters.Reset()
	g.finish(Won)
}

func (g *Game) lose(at Point) {
	g.markErrors()
	g.grid.At(at).Error = ErrorBang
	g.touch(at)
	g.finish(Lost)
}

// markErrors shows every mine without the right number of flags and every
// flagged tile that holds no mine.
func (g *Game) markErrors() {
	for x := range g.Width {
		for y := range g.Height {
			t := &g.grid[x][y]
			switch {
			case t.Mines > 0 && t.Mines != t.Flags:
				t.Error = ErrorMine
			case t.Mines == 0 && t.Flags > 0:
				t.Error = ErrorCross
			default:
				continue
			}
			g.touch(Point{x, y})
		}
	}
}

// Forfeit gives up a game that is still being played. A game whose mines
// were never placed is abandoned instead of lost.
func (g *Game) Forfeit() bool {
	switch g.status {
	case NotStarted:
		g.finish(Abandoned)
	case InProgress:
		g.markErrors()
		g.finish(Lost)
	default:
		return false
	}
	return true
}

// End stops the game. It does nothing on a game that has already ended.
func (g *Game) End() {
	g.finish(Abandoned)
}

func (g *Game) finish(s GameStatus) {
	if g.status.Ended() {
		return
	}
	g.status = s
	g.paused = false
	g.clock.Stop()

	Log.WithFields(logrus.Fields{
		"seed":     g.Seed(),
		"status":   s,
		"revealed": g.revealed,
		"elapsed":  g.clock.Seconds(),
	}).Debug("game ended")

	for _, fn := range g.onEnd {
		fn(g)
	}
}

func (g *Game) Pause() bool {
	if g.status != InProgress || g.paused {
		return false
	}
	g.paused = true
	g.clock.Stop()
	return true
}

func (g *Game) Resume() bool {
	if g.status != InProgress || !g.paused {
		return false
	}
	g.paused = false
	g.clock.Start()
	return true
}

func (g *Game) touch(p Point) {
	g.grid.At(p).Version++
	g.changed.Put(p)
}

// DrainChanged returns the tiles changed since the previous call in row
// order and forgets them.
func (g *Game) DrainChanged() []Point {
	points := make([]Point, 0, g.changed.Size())
	g.changed.Each(func(p Point) {
		points = append(points, p)
	})
	g.changed = mapset.New[Point]()

	slices.SortFunc(points, func(a, b Point) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})
	return points
}
