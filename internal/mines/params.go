package mines

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// GameParams describes the board a game is played on.
//
// Mines is the mine profile: Mines[i-1] tiles carry a mine of weight i, so
// len(Mines) is also the highest number of flags a tile accepts.
type GameParams struct {
	Width          int
	Height         int
	Topology       Topology
	Mines          []int
	NoMinesAtEdges bool
}

func (p GameParams) MaxFlags() int {
	return len(p.Mines)
}

func (p GameParams) Tiles() int {
	return p.Width * p.Height
}

func (p GameParams) TotalMines() (total int) {
	for _, n := range p.Mines {
		total += n
	}
	return
}

// NonMines is the number of tiles that must be revealed to win.
func (p GameParams) NonMines() int {
	return p.Tiles() - p.TotalMines()
}

// EligibleTiles is the number of tiles a mine may be placed on.
func (p GameParams) EligibleTiles() int {
	if p.NoMinesAtEdges {
		return max(0, p.Width-2) * max(0, p.Height-2)
	}
	return p.Tiles()
}

func (p GameParams) ValidatePosition(x, y int) bool {
	return 0 <= x && x < p.Width && 0 <= y && y < p.Height
}

func (p GameParams) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return &ConfigError{"dimensions", fmt.Sprintf("%dx%d is not a board", p.Width, p.Height)}
	}
	if p.Width > math.MaxInt/p.Height {
		return &ConfigError{"dimensions", fmt.Sprintf("%dx%d tiles overflow", p.Width, p.Height)}
	}
	if p.Topology != Square && p.Topology != Hex {
		return &ConfigError{"topology", p.Topology.String()}
	}
	if len(p.Mines) == 0 {
		return &ConfigError{"mine profile", "at least one weight tier is required"}
	}
	if len(p.Mines) >= SentinelWeight {
		return &ConfigError{"mine profile", fmt.Sprintf("%d weight tiers is too many", len(p.Mines))}
	}

	eligible := p.EligibleTiles()
	if !p.NoMinesAtEdges {
		// the first click is always safe, so one tile is never eligible
		eligible--
	}
	// counts are taken off the free tiles tier by tier so the sum never overflows
	free := eligible
	for i, n := range p.Mines {
		if n < 0 {
			return &ConfigError{"mine profile", fmt.Sprintf("negative count %d for weight %d", n, i+1)}
		}
		if n > free {
			return &ConfigError{
				"mine profile",
				fmt.Sprintf("%d mines of weight %d do not fit in %d eligible tiles", n, i+1, max(0, eligible)),
			}
		}
		free -= n
	}
	return nil
}

// Seed is a compact textual form of the parameters,
// "width:height:topology:m1,m2,...:edges".
func (p GameParams) Seed() string {
	edges := 0
	if p.NoMinesAtEdges {
		edges = 1
	}
	return fmt.Sprintf("%d:%d:%s:%s:%d",
		p.Width, p.Height, p.Topology, FormatProfile(p.Mines), edges,
	)
}

func ParseSeed(seed string) (*GameParams, error) {
	parts := strings.Split(strings.TrimSpace(seed), ":")
	if len(parts) != 5 {
		return nil, &ConfigError{"seed", fmt.Sprintf("%q must have 5 parts", seed)}
	}

	var (
		p   GameParams
		err error
	)
	if p.Width, err = strconv.Atoi(parts[0]); err != nil {
		return nil, &ConfigError{"seed", fmt.Sprintf("width %q is not an int", parts[0])}
	}
	if p.Height, err = strconv.Atoi(parts[1]); err != nil {
		return nil, &ConfigError{"seed", fmt.Sprintf("height %q is not an int", parts[1])}
	}
	if p.Topology, err = ParseTopology(parts[2]); err != nil {
		return nil, err
	}
	if p.Mines, err = ParseProfile(parts[3]); err != nil {
		return nil, err
	}
	switch parts[4] {
	case "0":
	case "1":
		p.NoMinesAtEdges = true
	default:
		return nil, &ConfigError{"seed", fmt.Sprintf("edges flag %q must be 0 or 1", parts[4])}
	}
	return &p, nil
}

func FormatProfile(profile []int) string {
	fields := make([]string, len(profile))
	for i, n := range profile {
		fields[i] = strconv.Itoa(n)
	}
	return strings.Join(fields, ",")
}

// ParseProfile reads a comma separated mine profile such as "24,16".
func ParseProfile(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, &ConfigError{"mine profile", "empty"}
	}
	fields := strings.Split(s, ",")
	profile := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, &ConfigError{"mine profile", fmt.Sprintf("%q is not an int", f)}
		}
		profile[i] = n
	}
	return profile, nil
}
