package mines

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

type Difficulty int

const (
	Beginner Difficulty = iota
	Intermediate
	Expert
)

const MaxMinesPerTile = 7

var (
	presetWidths  = [...]int{9, 16, 30}
	presetHeights = [...]int{9, 16, 16}

	// presetMines[minesPerTile-1][difficulty] is the mine profile
	presetMines = [MaxMinesPerTile][3][]int{
		{{10}, {40}, {100}},
		{{6, 4}, {24, 16}, {60, 40}},
		{{5, 3, 2}, {20, 12, 8}, {50, 30, 20}},
		{{4, 3, 2, 1}, {16, 12, 8, 4}, {40, 30, 20, 10}},
		{{4, 2, 2, 1, 1}, {15, 10, 7, 5, 3}, {40, 24, 18, 12, 6}},
		{{3, 2, 2, 1, 1, 1}, {15, 10, 6, 4, 3, 2}, {35, 25, 16, 11, 8, 5}},
		{{2, 2, 2, 1, 1, 1, 1}, {15, 9, 6, 4, 3, 2, 1}, {30, 24, 18, 12, 8, 5, 3}},
	}
)

func (d Difficulty) String() string {
	switch d {
	case Beginner:
		return "beginner"
	case Intermediate:
		return "intermediate"
	case Expert:
		return "expert"
	default:
		return "Difficulty(" + strconv.Itoa(int(d)) + ")"
	}
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner", "0":
		return Beginner, nil
	case "intermediate", "1":
		return Intermediate, nil
	case "expert", "2":
		return Expert, nil
	}
	return 0, &ConfigError{"difficulty", fmt.Sprintf("unknown difficulty %q", s)}
}

// Preset returns the stock board for a difficulty and number of mine weights.
func Preset(d Difficulty, minesPerTile int, t Topology, noMinesAtEdges bool) (GameParams, error) {
	if d < Beginner || d > Expert {
		return GameParams{}, &ConfigError{"difficulty", d.String()}
	}
	if minesPerTile < 1 || minesPerTile > MaxMinesPerTile {
		return GameParams{}, &ConfigError{
			"mines per tile",
			fmt.Sprintf("%d is outside 1..%d", minesPerTile, MaxMinesPerTile),
		}
	}
	p := GameParams{
		Width:          presetWidths[d],
		Height:         presetHeights[d],
		Topology:       t,
		Mines:          slices.Clone(presetMines[minesPerTile-1][d]),
		NoMinesAtEdges: noMinesAtEdges,
	}
	return p, p.Validate()
}
