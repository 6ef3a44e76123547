package mines

import (
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

// SentinelWeight keeps a tile out of mine placement while it is set as the
// tile's Mines value.
const SentinelWeight = 1000

// Generate places the mines of p on grid and computes every tile's number.
//
// Weight tiers are placed in increasing order by drawing uniformly random
// coordinates and rejecting tiles that already hold a value or that lie on
// the edge when p.NoMinesAtEdges is set.
func Generate(grid Grid, p GameParams, adj Adjacency, r *rand.Rand) error {
	width, height := p.Width, p.Height

	eligible := 0
	for x := range width {
		for y := range height {
			if grid[x][y].Mines == 0 && !(p.NoMinesAtEdges && isEdge(x, y, width, height)) {
				eligible++
			}
		}
	}
	free := eligible
	for i, n := range p.Mines {
		if n < 0 || n > free {
			return &ConfigError{
				"mine profile",
				fmt.Sprintf("%d mines of weight %d do not fit in %d eligible tiles", n, i+1, eligible),
			}
		}
		free -= n
	}

	draws := 0
	for i := 1; i <= len(p.Mines); i++ {
		for placed := 0; placed < p.Mines[i-1]; {
			x, y := r.IntN(width), r.IntN(height)
			draws++

			t := &grid[x][y]
			if t.Mines != 0 {
				continue
			}
			if p.NoMinesAtEdges && isEdge(x, y, width, height) {
				continue
			}

			placeMine(grid, adj, Point{x, y}, i)
			placed++
		}
	}

	Log.WithFields(logrus.Fields{
		"seed":  p.Seed(),
		"draws": draws,
	}).Debug("generated board")
	return nil
}

// placeMine puts a mine of weight w at p and adds w to every neighbour's number.
func placeMine(grid Grid, adj Adjacency, p Point, w int) {
	grid.At(p).Mines = w
	for _, n := range adj.Of(p) {
		grid.At(n).Number += w
	}
}

// generateAround fills grid so that the tile at p holds no mine.
func generateAround(grid Grid, p GameParams, adj Adjacency, r *rand.Rand, at Point) error {
	t := grid.At(at)
	t.Mines = SentinelWeight
	err := Generate(grid, p, adj, r)
	t.Mines = 0
	return err
}
