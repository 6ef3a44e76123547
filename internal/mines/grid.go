package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrorKind marks tiles shown after a game is lost.
type ErrorKind int8

const (
	ErrorNone  ErrorKind = iota
	ErrorBang            // the mine that was clicked
	ErrorMine            // a mine without the right number of flags
	ErrorCross           // flags on a tile without a mine
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorBang:
		return "bang"
	case ErrorMine:
		return "mine"
	case ErrorCross:
		return "cross"
	default:
		return ""
	}
}

// [ErrorKind] implements [encoding.TextMarshaler]
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type Tile struct {
	Mines    int // weight of the mine on this tile, 0 if safe
	Number   int // sum of the weights of adjacent mines
	Flags    int
	Revealed bool
	Error    ErrorKind
	Version  uint32 // bumped on every change visible to a renderer
}

func (t Tile) String() string {
	switch {
	case t.Error == ErrorBang:
		return "!"
	case t.Error == ErrorMine:
		return "*"
	case t.Error == ErrorCross:
		return "x"
	case t.Revealed:
		return strconv.Itoa(t.Number)
	case t.Flags == 1:
		return "F"
	case t.Flags > 1:
		return "F" + strconv.Itoa(t.Flags)
	default:
		return "-"
	}
}

// Grid holds the tiles of a board indexed [x][y].
type Grid [][]Tile

func NewGrid(width, height int) Grid {
	g := make(Grid, width)
	for x := range g {
		g[x] = make([]Tile, height)
	}
	return g
}

func (g Grid) Width() int {
	return len(g)
}

func (g Grid) Height() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

func (g Grid) At(p Point) *Tile {
	return &g[p.X][p.Y]
}

// String renders the player's view of the grid, one row per line.
func (g Grid) String() string {
	var b strings.Builder
	for y := range g.Height() {
		for x := range g.Width() {
			fmt.Fprintf(&b, "%3s", g[x][y].String())
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}
