package mines

import (
	"fmt"
	"strings"
	"sync"
)

// Topology selects the adjacency rule of a board.
type Topology int8

const (
	Square Topology = iota // 8-connected
	Hex                    // 6-connected, even columns offset by half a row
)

func (t Topology) String() string {
	switch t {
	case Square:
		return "sqr"
	case Hex:
		return "hex"
	default:
		return fmt.Sprintf("Topology(%d)", int8(t))
	}
}

// ParseTopology accepts "sqr" and "hex". "square" is kept as an alias of
// "sqr" since older settings stored that spelling.
func ParseTopology(s string) (Topology, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sqr", "square":
		return Square, nil
	case "hex", "hexagonal":
		return Hex, nil
	}
	return 0, &ConfigError{Field: "topology", Reason: fmt.Sprintf("unknown topology %q", s)}
}

// [Topology] implements [encoding.TextMarshaler]
func (t Topology) MarshalText() ([]byte, error) {
	if t != Square && t != Hex {
		return nil, &ConfigError{Field: "topology", Reason: t.String()}
	}
	return []byte(t.String()), nil
}

func (t *Topology) UnmarshalText(b []byte) error {
	parsed, err := ParseTopology(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Adjacency maps [x][y] to the coordinates of every tile next to (x, y).
// A table is never modified after it has been built.
type Adjacency [][][]Point

func (a Adjacency) Width() int {
	return len(a)
}

func (a Adjacency) Height() int {
	if len(a) == 0 {
		return 0
	}
	return len(a[0])
}

func (a Adjacency) Of(p Point) []Point {
	return a[p.X][p.Y]
}

// BuildAdjacency computes the neighbour lists of a width x height board.
func BuildAdjacency(t Topology, width, height int) Adjacency {
	adj := make(Adjacency, width)
	for x := range width {
		adj[x] = make([][]Point, height)
		for y := range height {
			if t == Hex {
				adj[x][y] = hexNeighbors(x, y, width, height)
			} else {
				adj[x][y] = squareNeighbors(x, y, width, height)
			}
		}
	}
	return adj
}

func squareNeighbors(x, y, width, height int) []Point {
	ns := make([]Point, 0, 8)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			xx, yy := x+dx, y+dy
			if (dx != 0 || dy != 0) &&
				0 <= xx && xx < width &&
				0 <= yy && yy < height {
				ns = append(ns, Point{xx, yy})
			}
		}
	}
	return ns
}

func hexNeighbors(x, y, width, height int) []Point {
	// rows of the half-step neighbours in columns x-1 and x+1
	up, down := y, y+1
	if x%2 == 0 {
		up, down = y-1, y
	}
	ns := make([]Point, 0, 6)
	add := func(xx, yy int) {
		if 0 <= xx && xx < width && 0 <= yy && yy < height {
			ns = append(ns, Point{xx, yy})
		}
	}
	add(x-1, down)
	add(x-1, up)
	add(x, y-1)
	add(x+1, up)
	add(x+1, down)
	add(x, y+1)
	return ns
}

// AdjacencyCache remembers the table of the last board shape it was asked
// for. Successive games of the same shape share one table.
type AdjacencyCache struct {
	mu            sync.Mutex
	topology      Topology
	width, height int
	adj           Adjacency
}

func (c *AdjacencyCache) Get(t Topology, width, height int) Adjacency {
	if c == nil {
		return BuildAdjacency(t, width, height)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.adj != nil && c.topology == t && c.width == width && c.height == height {
		return c.adj
	}
	Log.WithField("topology", t).
		WithField("width", width).
		WithField("height", height).
		Debug("building adjacency table")
	c.adj = BuildAdjacency(t, width, height)
	c.topology, c.width, c.height = t, width, height
	return c.adj
}
