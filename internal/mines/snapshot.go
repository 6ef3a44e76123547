package mines

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/zyedidia/generic/mapset"
	"gopkg.in/yaml.v2"
)

// BoardSnapshot records the mine layout and revealed tiles of a game.
//
// Board has one line per row. '.' is a revealed tile, '#' a hidden safe
// tile and a digit is a mine of that weight. Flags are not recorded.
type BoardSnapshot struct {
	Seed  string `yaml:"seed"`
	Board string `yaml:"board"`
}

func (s *BoardSnapshot) Serialize() (string, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func LoadSnapshot(in string) (*BoardSnapshot, error) {
	var snapshot BoardSnapshot
	if err := yaml.Unmarshal([]byte(in), &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (g *Game) Snapshot() *BoardSnapshot {
	rows := make([]string, g.Height)
	for y := range g.Height {
		var b strings.Builder
		for x := range g.Width {
			t := g.grid[x][y]
			switch {
			case t.Mines > 0:
				b.WriteString(strconv.Itoa(t.Mines))
			case t.Revealed:
				b.WriteByte('.')
			default:
				b.WriteByte('#')
			}
		}
		rows[y] = b.String()
	}
	return &BoardSnapshot{
		Seed:  g.Seed(),
		Board: strings.Join(rows, "\n"),
	}
}

// Game rebuilds a game from the snapshot. A board without any mine or
// revealed tile starts a fresh game on the snapshot's parameters.
func (s *BoardSnapshot) Game(cache *AdjacencyCache, r *rand.Rand, opts ...Option) (*Game, error) {
	params, err := ParseSeed(s.Seed)
	if err != nil {
		return nil, err
	}
	if params.MaxFlags() > 9 {
		return nil, &ConfigError{"snapshot", "weights above 9 cannot be written in a board"}
	}

	rows := strings.Split(strings.TrimRight(s.Board, "\n"), "\n")
	if len(rows) != params.Height {
		return nil, &ConfigError{"snapshot", fmt.Sprintf("%d rows, want %d", len(rows), params.Height)}
	}

	for y, row := range rows {
		if len(row) != params.Width {
			return nil, &ConfigError{"snapshot", fmt.Sprintf("row %d has %d tiles, want %d", y, len(row), params.Width)}
		}
	}

	g, err := newGame(*params, cache, r, opts...)
	if err != nil {
		return nil, err
	}

	counts := make([]int, params.MaxFlags())
	var revealed []Point
	for y, row := range rows {
		for x, c := range []byte(row) {
			p := Point{x, y}
			switch {
			case c == '.':
				revealed = append(revealed, p)
			case c == '#':
			case '1' <= c && c <= '9':
				w := int(c - '0')
				if w > params.MaxFlags() {
					return nil, &ConfigError{"snapshot", fmt.Sprintf("weight %d at %s exceeds %d", w, p, params.MaxFlags())}
				}
				if params.NoMinesAtEdges && isEdge(x, y, params.Width, params.Height) {
					return nil, &ConfigError{"snapshot", fmt.Sprintf("mine on edge tile %s", p)}
				}
				counts[w-1]++
				placeMine(g.grid, g.adjacency, p, w)
			default:
				return nil, &ConfigError{"snapshot", fmt.Sprintf("unknown tile %q at %s", c, p)}
			}
		}
	}

	placed := 0
	for _, n := range counts {
		placed += n
	}
	if placed == 0 && len(revealed) == 0 {
		if g.NoMinesAtEdges {
			if err := Generate(g.grid, g.GameParams, g.adjacency, g.rnd); err != nil {
				return nil, err
			}
			g.start()
			g.revealEdges()
		}
		return g, nil
	}
	if !slices.Equal(counts, params.Mines) {
		return nil, &ConfigError{"snapshot", fmt.Sprintf("board holds mines %v, seed says %v", counts, params.Mines)}
	}

	g.start()
	for _, p := range revealed {
		g.grid.At(p).Revealed = true
		g.revealed++
	}
	g.changed = mapset.New[Point]()
	g.checkWin()
	return g, nil
}
