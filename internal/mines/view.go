package mines

// TileView is what a renderer may know about a tile. Mines is only set once
// the tile is revealed or the game is over; Number only once it is revealed.
type TileView struct {
	X        int       `json:"x"`
	Y        int       `json:"y"`
	Revealed bool      `json:"revealed"`
	Flags    int       `json:"flags"`
	Mines    *int      `json:"mines,omitempty"`
	Number   *int      `json:"number,omitempty"`
	Error    ErrorKind `json:"error,omitempty"`
	Version  uint32    `json:"version"`
}

type GameView struct {
	Status          GameStatus `json:"status"`
	Width           int        `json:"width"`
	Height          int        `json:"height"`
	Topology        Topology   `json:"topology"`
	NoMinesAtEdges  bool       `json:"no_mines_at_edges"`
	MaxFlags        int        `json:"max_flags"`
	SquaresRevealed int        `json:"squares_revealed"`
	NonMines        int        `json:"non_mines"`
	MineCounters    []int      `json:"mine_counters"`
	ElapsedSeconds  int        `json:"elapsed_seconds"`
	Paused          bool       `json:"paused"`
	Tiles           []TileView `json:"tiles,omitempty"`
}

func (g *Game) TileView(p Point) TileView {
	t := g.grid.At(p)
	v := TileView{
		X:        p.X,
		Y:        p.Y,
		Revealed: t.Revealed,
		Flags:    t.Flags,
		Error:    t.Error,
		Version:  t.Version,
	}
	if t.Revealed || g.status.Ended() {
		mines := t.Mines
		v.Mines = &mines
	}
	if t.Revealed {
		number := t.Number
		v.Number = &number
	}
	return v
}

// Summary is the session level part of the view, without tiles.
func (g *Game) Summary() GameView {
	return GameView{
		Status:          g.status,
		Width:           g.Width,
		Height:          g.Height,
		Topology:        g.Topology,
		NoMinesAtEdges:  g.NoMinesAtEdges,
		MaxFlags:        g.MaxFlags(),
		SquaresRevealed: g.revealed,
		NonMines:        g.NonMines(),
		MineCounters:    g.Counters(),
		ElapsedSeconds:  g.clock.Seconds(),
		Paused:          g.paused,
	}
}

// View returns the whole board in row order.
func (g *Game) View() GameView {
	v := g.Summary()
	v.Tiles = make([]TileView, 0, g.Tiles())
	for y := range g.Height {
		for x := range g.Width {
			v.Tiles = append(v.Tiles, g.TileView(Point{x, y}))
		}
	}
	return v
}

// ViewOf returns the summary with only the given tiles.
func (g *Game) ViewOf(points []Point) GameView {
	v := g.Summary()
	v.Tiles = make([]TileView, 0, len(points))
	for _, p := range points {
		if g.ValidatePosition(p.X, p.Y) {
			v.Tiles = append(v.Tiles, g.TileView(p))
		}
	}
	return v
}
