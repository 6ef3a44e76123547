package mines

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestNewGameRejectsBadParams(t *testing.T) {
	tests := []struct {
		name   string
		params GameParams
		field  string
	}{
		{"zero width", GameParams{Width: 0, Height: 9, Mines: []int{1}}, "dimensions"},
		{"negative height", GameParams{Width: 9, Height: -1, Mines: []int{1}}, "dimensions"},
		{"bad topology", GameParams{Width: 9, Height: 9, Topology: 7, Mines: []int{1}}, "topology"},
		{"empty profile", GameParams{Width: 9, Height: 9}, "mine profile"},
		{"negative tier", GameParams{Width: 9, Height: 9, Mines: []int{3, -1}}, "mine profile"},
		{"no room for first click", GameParams{Width: 3, Height: 3, Mines: []int{9}}, "mine profile"},
		{"no room inside edges", GameParams{Width: 3, Height: 3, Mines: []int{2}, NoMinesAtEdges: true}, "mine profile"},
		{"no inside at all", GameParams{Width: 2, Height: 9, Mines: []int{1}, NoMinesAtEdges: true}, "mine profile"},
		{"too many tiers", GameParams{Width: 9, Height: 9, Mines: make([]int, SentinelWeight)}, "mine profile"},
		{"tier larger than the board", GameParams{Width: 9, Height: 9, Mines: []int{math.MaxInt, 1}}, "mine profile"},
		{"tiers that overflow together", GameParams{Width: 9, Height: 9, Mines: []int{40, math.MaxInt - 30}}, "mine profile"},
		{"tiers that overflow inside edges", GameParams{Width: 9, Height: 9, Mines: []int{math.MaxInt, 1}, NoMinesAtEdges: true}, "mine profile"},
		{"tile count overflows", GameParams{Width: 1<<62 + 1, Height: 4, Mines: []int{1}}, "dimensions"},
		{"tile count overflows exactly", GameParams{Width: math.MaxInt, Height: 2, Mines: []int{1}}, "dimensions"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewGame(test.params, nil, newRand(1))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, test.field, cfgErr.Field)
		})
	}
}

func TestNewGameIsDeferred(t *testing.T) {
	g, err := NewGame(GameParams{Width: 9, Height: 9, Topology: Hex, Mines: []int{6, 4}}, nil, newRand(1))
	require.NoError(t, err)

	assert.Equal(t, NotStarted, g.Status())
	assert.True(t, g.Active())
	assert.Equal(t, MineCounters{6, 4}, g.Counters())
	assert.Zero(t, g.Elapsed())
	for x := range 9 {
		for y := range 9 {
			tile, ok := g.Tile(x, y)
			require.True(t, ok)
			assert.Zero(t, tile.Mines)
		}
	}
	_, ok := g.Tile(9, 0)
	assert.False(t, ok)
}

func TestFirstClickIsSafe(t *testing.T) {
	t.Parallel()

	for _, topology := range []Topology{Square, Hex} {
		for _, profile := range [][]int{{10}, {40}, {24, 16}, {2, 2, 2, 1, 1, 1, 1}, {70}} {
			params := GameParams{Width: 9, Height: 9, Topology: topology, Mines: profile}
			t.Run(params.Seed(), func(t *testing.T) {
				r := newRand(42)
				for range 100 {
					g, err := NewGame(params, nil, r)
					require.NoError(t, err)

					x, y := r.IntN(9), r.IntN(9)
					require.True(t, g.Action(x, y, false))
					require.NotEqual(t, Lost, g.Status())

					tile, _ := g.Tile(x, y)
					assert.Zero(t, tile.Mines)
					assert.True(t, tile.Revealed)
					checkNumbers(t, g.grid, g.adjacency)
				}
			})
		}
	}
}

func TestFirstAlternateActionReveals(t *testing.T) {
	g, err := NewGame(GameParams{Width: 9, Height: 9, Mines: []int{10}}, nil, newRand(3))
	require.NoError(t, err)

	require.True(t, g.Action(4, 4, true))
	tile, _ := g.Tile(4, 4)
	assert.True(t, tile.Revealed)
	assert.Zero(t, tile.Flags)
	assert.Equal(t, InProgress, g.Status())
}

func TestFirstClickOnFullBoardWins(t *testing.T) {
	g, err := NewGame(GameParams{Width: 3, Height: 3, Mines: []int{8}}, nil, newRand(1))
	require.NoError(t, err)

	require.True(t, g.Action(1, 1, false))
	tile, _ := g.Tile(1, 1)
	assert.Equal(t, 8, tile.Number)
	assert.Equal(t, Won, g.Status())
}

// play reveals every safe tile left on the board.
func play(g *Game) {
	for x := range g.Width {
		for y := range g.Height {
			if t := g.grid[x][y]; t.Mines == 0 && !t.Revealed {
				g.Action(x, y, false)
			}
		}
	}
}

func TestWinRevealsAllAndFlagsMines(t *testing.T) {
	t.Parallel()

	tests := []GameParams{
		{Width: 9, Height: 9, Topology: Square, Mines: []int{10}},
		{Width: 9, Height: 9, Topology: Hex, Mines: []int{10}},
		{Width: 16, Height: 16, Topology: Hex, Mines: []int{20, 12, 8}},
		{Width: 30, Height: 16, Topology: Square, Mines: []int{60, 40}, NoMinesAtEdges: true},
	}
	for _, params := range tests {
		t.Run(params.Seed(), func(t *testing.T) {
			var ended []GameStatus
			g, err := NewGame(params, nil, newRand(7), WithOnEnd(func(g *Game) {
				ended = append(ended, g.Status())
			}))
			require.NoError(t, err)

			g.Action(params.Width/2, params.Height/2, false)
			// a flag on a mine must not stop the win
			for x := range params.Width {
				if g.grid[x][params.Height/2].Mines > 0 {
					g.Action(x, params.Height/2, true)
					break
				}
			}
			play(g)

			require.Equal(t, Won, g.Status())
			assert.Equal(t, params.NonMines(), g.SquaresRevealed())
			assert.Equal(t, make(MineCounters, params.MaxFlags()), g.Counters())
			assert.Equal(t, []GameStatus{Won}, ended)
			for x := range params.Width {
				for y := range params.Height {
					tile := g.grid[x][y]
					assert.Equal(t, tile.Mines, tile.Flags)
					assert.Equal(t, tile.Mines == 0, tile.Revealed)
				}
			}

			assert.False(t, g.Action(0, 0, false))
			g.End()
			assert.Equal(t, Won, g.Status())
			assert.Len(t, ended, 1)
		})
	}
}

func TestClassicBeginner(t *testing.T) {
	params, err := Preset(Beginner, 1, Square, false)
	require.NoError(t, err)
	require.Equal(t, 71, params.NonMines())

	g, err := NewGame(params, nil, newRand(11))
	require.NoError(t, err)
	require.True(t, g.Action(0, 0, false))
	play(g)

	require.Equal(t, Won, g.Status())
	assert.Equal(t, 71, g.SquaresRevealed())
	mines := 0
	for x := range 9 {
		for y := range 9 {
			if tile := g.grid[x][y]; tile.Mines > 0 {
				mines++
				assert.Equal(t, 1, tile.Flags)
			}
		}
	}
	assert.Equal(t, 10, mines)
}

func TestFlagCycle(t *testing.T) {
	g := load(t, "4:4:sqr:1,1,1:0", board(
		"1###",
		"#2##",
		"##3#",
		"####",
	))
	require.Equal(t, 3, g.MaxFlags())

	steps := []struct {
		flags    int
		counters MineCounters
	}{
		{1, MineCounters{0, 1, 1}},
		{2, MineCounters{1, 0, 1}},
		{3, MineCounters{1, 1, 0}},
		{0, MineCounters{1, 1, 1}},
		{1, MineCounters{0, 1, 1}},
	}
	for i, step := range steps {
		require.True(t, g.Action(3, 3, true), "step %d", i)
		tile, _ := g.Tile(3, 3)
		assert.Equal(t, step.flags, tile.Flags, "step %d", i)
		assert.False(t, tile.Revealed)
		assert.Equal(t, step.counters, g.Counters(), "step %d", i)
	}

	g.Action(3, 3, true)
	g.Action(3, 3, true)

	// a plain click on a flagged tile takes a flag off instead of revealing
	require.True(t, g.Action(3, 3, false))
	tile, _ := g.Tile(3, 3)
	assert.Equal(t, 2, tile.Flags)
	assert.False(t, tile.Revealed)
	assert.Equal(t, MineCounters{1, 0, 1}, g.Counters())

	// counters may go negative when a weight is over-flagged
	g.Action(3, 2, true)
	g.Action(3, 2, true)
	assert.Equal(t, MineCounters{1, -1, 1}, g.Counters())
	assert.Equal(t, InProgress, g.Status())
}

func TestCascade(t *testing.T) {
	g := load(t, "7:3:sqr:3:0", board(
		"###1###",
		"###1###",
		"###1###",
	))

	require.True(t, g.Action(1, 1, true))
	require.True(t, g.Action(0, 0, false))

	assert.Equal(t, 8, g.SquaresRevealed())
	flagged, _ := g.Tile(1, 1)
	assert.False(t, flagged.Revealed)
	assert.Equal(t, 1, flagged.Flags)
	for y := range 3 {
		tile, _ := g.Tile(2, y)
		assert.True(t, tile.Revealed)
		assert.Equal(t, map[int]int{0: 2, 1: 3, 2: 2}[y], tile.Number)
		right, _ := g.Tile(4, y)
		assert.False(t, right.Revealed)
	}

	require.True(t, g.Action(6, 1, false))
	assert.Equal(t, 17, g.SquaresRevealed())
	assert.Equal(t, InProgress, g.Status())

	g.Action(1, 1, true)
	g.Action(1, 1, false)
	assert.Equal(t, Won, g.Status())
}

func TestCascadeReachesAllZeroNeighbours(t *testing.T) {
	t.Parallel()

	for _, topology := range []Topology{Square, Hex} {
		params := GameParams{Width: 16, Height: 16, Topology: topology, Mines: []int{15, 10}}
		t.Run(topology.String(), func(t *testing.T) {
			for seed := range uint64(30) {
				g, err := NewGame(params, nil, newRand(seed))
				require.NoError(t, err)
				g.Action(int(seed)%16, int(seed*7)%16, false)

				for x := range 16 {
					for y := range 16 {
						tile := g.grid[x][y]
						if !tile.Revealed || tile.Number != 0 {
							continue
						}
						for _, n := range g.adjacency[x][y] {
							assert.True(t, g.grid.At(n).Revealed, "%s next to open (%d, %d)", n, x, y)
						}
					}
				}
			}
		})
	}
}

func TestChordUsesWeightSum(t *testing.T) {
	t.Run("reveals when weights match", func(t *testing.T) {
		g := load(t, "3:3:sqr:0,1:0", board(
			"2##",
			"#.#",
			"###",
		))
		center, _ := g.Tile(1, 1)
		require.Equal(t, 2, center.Number)

		g.Action(0, 0, true)
		require.True(t, g.Action(1, 1, false))
		assert.Equal(t, 1, g.SquaresRevealed(), "one flag is not weight 2")

		g.Action(0, 0, true)
		require.True(t, g.Action(1, 1, false))
		assert.Equal(t, Won, g.Status())
		assert.Equal(t, 8, g.SquaresRevealed())
	})

	t.Run("misplaced flags lose", func(t *testing.T) {
		g := load(t, "3:3:sqr:0,1:0", board(
			"2##",
			"#.#",
			"###",
		))
		g.Action(1, 0, true)
		g.Action(1, 0, true)
		require.True(t, g.Action(1, 1, false))

		assert.Equal(t, Lost, g.Status())
		bang, _ := g.Tile(0, 0)
		assert.Equal(t, ErrorBang, bang.Error)
		cross, _ := g.Tile(1, 0)
		assert.Equal(t, ErrorCross, cross.Error)
	})
}

func TestLose(t *testing.T) {
	var ended int
	g := load(t, "3:3:sqr:1,1:0", board(
		"1##",
		"###",
		"##2",
	), WithOnEnd(func(*Game) { ended++ }))

	g.Action(2, 2, true)
	g.Action(1, 0, true)
	require.True(t, g.Action(0, 0, false))

	require.Equal(t, Lost, g.Status())
	assert.Equal(t, 1, ended)

	tests := []struct {
		at   Point
		want ErrorKind
	}{
		{Point{0, 0}, ErrorBang},
		{Point{2, 2}, ErrorMine},
		{Point{1, 0}, ErrorCross},
		{Point{1, 1}, ErrorNone},
	}
	for _, test := range tests {
		tile, _ := g.Tile(test.at.X, test.at.Y)
		assert.Equal(t, test.want, tile.Error, "%s", test.at)
	}

	assert.False(t, g.Action(1, 1, false))
	assert.False(t, g.Forfeit())

	// mines are shown once the game is over
	v := g.TileView(Point{2, 2})
	require.NotNil(t, v.Mines)
	assert.Equal(t, 2, *v.Mines)
	assert.Nil(t, v.Number)
}

func TestForfeitAndEnd(t *testing.T) {
	params := GameParams{Width: 9, Height: 9, Mines: []int{10}}

	t.Run("before the first action", func(t *testing.T) {
		g, err := NewGame(params, nil, newRand(1))
		require.NoError(t, err)
		require.True(t, g.Forfeit())
		assert.Equal(t, Abandoned, g.Status())
	})

	t.Run("in progress", func(t *testing.T) {
		g, err := NewGame(params, nil, newRand(1))
		require.NoError(t, err)
		g.Action(4, 4, false)
		require.True(t, g.Forfeit())
		assert.Equal(t, Lost, g.Status())
		mines := 0
		for x := range 9 {
			for y := range 9 {
				if g.grid[x][y].Error == ErrorMine {
					mines++
				}
			}
		}
		assert.Equal(t, 10, mines)
	})

	t.Run("end", func(t *testing.T) {
		var ended []GameStatus
		g, err := NewGame(params, nil, newRand(1), WithOnEnd(func(g *Game) {
			ended = append(ended, g.Status())
		}))
		require.NoError(t, err)
		g.Action(4, 4, false)
		g.End()
		g.End()
		assert.Equal(t, []GameStatus{Abandoned}, ended)
		assert.False(t, g.Active())
	})
}

func TestNoMinesAtEdges(t *testing.T) {
	for _, topology := range []Topology{Square, Hex} {
		t.Run(topology.String(), func(t *testing.T) {
			params := GameParams{Width: 9, Height: 9, Topology: topology, Mines: []int{20, 5}, NoMinesAtEdges: true}
			g, err := NewGame(params, nil, newRand(5))
			require.NoError(t, err)

			assert.Equal(t, InProgress, g.Status())
			for x := range 9 {
				for y := range 9 {
					if isEdge(x, y, 9, 9) {
						tile := g.grid[x][y]
						assert.Zero(t, tile.Mines)
						assert.True(t, tile.Revealed, "edge (%d, %d)", x, y)
					}
				}
			}
			assert.GreaterOrEqual(t, g.SquaresRevealed(), 32)
		})
	}
}

func TestPauseStopsClock(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	g, err := NewGame(GameParams{Width: 9, Height: 9, Mines: []int{10}}, nil, newRand(1), WithClock(clock.Now))
	require.NoError(t, err)

	assert.False(t, g.Pause(), "nothing to pause before the first action")
	clock.Advance(time.Minute)
	assert.Zero(t, g.Elapsed())

	g.Action(4, 4, false)
	clock.Advance(5 * time.Second)
	require.True(t, g.Pause())
	assert.False(t, g.Pause())
	assert.True(t, g.Paused())

	clock.Advance(10 * time.Second)
	assert.Equal(t, 5*time.Second, g.Elapsed())
	assert.False(t, g.Action(0, 0, false))

	require.True(t, g.Resume())
	assert.False(t, g.Resume())
	clock.Advance(3 * time.Second)
	assert.Equal(t, 8, g.Summary().ElapsedSeconds)

	g.End()
	clock.Advance(time.Hour)
	assert.Equal(t, 8*time.Second, g.Elapsed())
	assert.False(t, g.Resume())
}

func TestDrainChanged(t *testing.T) {
	g := load(t, "7:3:sqr:3:0", board(
		"###1###",
		"###1###",
		"###1###",
	))
	assert.Empty(t, g.DrainChanged())

	g.Action(6, 2, true)
	assert.Equal(t, []Point{{6, 2}}, g.DrainChanged())

	g.Action(0, 0, false)
	changed := g.DrainChanged()
	assert.Equal(t, []Point{
		{0, 0}, {1, 0}, {2, 0},
		{0, 1}, {1, 1}, {2, 1},
		{0, 2}, {1, 2}, {2, 2},
	}, changed)
	assert.Empty(t, g.DrainChanged())

	before, _ := g.Tile(0, 0)
	g.Action(0, 0, false)
	after, _ := g.Tile(0, 0)
	assert.Equal(t, before.Version, after.Version, "chording a zero changes nothing")
}

func TestViewHidesMines(t *testing.T) {
	g := load(t, "7:3:sqr:3:0", board(
		"###1###",
		"###1###",
		"###1###",
	))
	g.Action(0, 0, false)

	v := g.View()
	require.Len(t, v.Tiles, 21)
	for _, tile := range v.Tiles {
		if tile.Revealed {
			assert.NotNil(t, tile.Number)
			assert.NotNil(t, tile.Mines)
		} else {
			assert.Nil(t, tile.Number, "%d, %d", tile.X, tile.Y)
			assert.Nil(t, tile.Mines)
		}
	}

	part := g.ViewOf([]Point{{2, 1}, {9, 9}})
	require.Len(t, part.Tiles, 1)
	assert.Equal(t, 3, *part.Tiles[0].Number)

	out, err := json.Marshal(g.Summary())
	require.NoError(t, err)
	assert.Contains(t, string(out), `"status":"in-progress"`)
	assert.Contains(t, string(out), `"topology":"sqr"`)
	assert.NotContains(t, string(out), `"tiles"`)
}

func TestStatusString(t *testing.T) {
	for s, want := range map[GameStatus]string{
		NotStarted: "not-started",
		InProgress: "in-progress",
		Won:        "won",
		Lost:       "lost",
		Abandoned:  "abandoned",
	} {
		assert.Equal(t, want, s.String())
		assert.Equal(t, s >= Won, s.Ended(), fmt.Sprint(s))
	}
}

func TestParseGameStatus(t *testing.T) {
	for s := NotStarted; s <= Abandoned; s++ {
		got, err := ParseGameStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseGameStatus("paused")
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}
