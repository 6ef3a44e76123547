package main

import (
	"errors"
	"fmt"
	"hash/maphash"
	"math/rand/v2"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vancomm/hexmines/internal/mines"
)

var (
	_ pflag.Value = (*topologyValue)(nil)
	_ pflag.Value = (*difficultyValue)(nil)
)

type topologyValue mines.Topology

func newTopologyValue(val mines.Topology, p *mines.Topology) *topologyValue {
	*p = val
	return (*topologyValue)(p)
}

func (v *topologyValue) String() string {
	return mines.Topology(*v).String()
}

func (v *topologyValue) Set(value string) error {
	t, err := mines.ParseTopology(value)
	if err != nil {
		return err
	}
	*v = topologyValue(t)
	return nil
}

func (v *topologyValue) Type() string {
	return "topology"
}

type difficultyValue mines.Difficulty

func newDifficultyValue(val mines.Difficulty, p *mines.Difficulty) *difficultyValue {
	*p = val
	return (*difficultyValue)(p)
}

func (v *difficultyValue) String() string {
	return mines.Difficulty(*v).String()
}

func (v *difficultyValue) Set(value string) error {
	d, err := mines.ParseDifficulty(value)
	if err != nil {
		return err
	}
	*v = difficultyValue(d)
	return nil
}

func (v *difficultyValue) Type() string {
	return "difficulty"
}

type genOptions struct {
	difficulty     mines.Difficulty
	minesPerTile   int
	topology       mines.Topology
	noMinesAtEdges bool
	width, height  int
	profile        string
	seed           uint64
	x, y           int
}

var gen genOptions

func (o genOptions) params() (mines.GameParams, error) {
	if o.width == 0 && o.height == 0 && o.profile == "" {
		return mines.Preset(o.difficulty, o.minesPerTile, o.topology, o.noMinesAtEdges)
	}
	profile, err := mines.ParseProfile(o.profile)
	if err != nil {
		return mines.GameParams{}, err
	}
	params := mines.GameParams{
		Width:          o.width,
		Height:         o.height,
		Topology:       o.topology,
		Mines:          profile,
		NoMinesAtEdges: o.noMinesAtEdges,
	}
	return params, params.Validate()
}

var errBadClick = errors.New("first click is outside the board")

// generate places the mines of a new game around the first click and
// returns the resulting board.
func (o genOptions) generate() (*mines.BoardSnapshot, error) {
	params, err := o.params()
	if err != nil {
		return nil, err
	}

	seed := o.seed
	if seed == 0 {
		seed = new(maphash.Hash).Sum64()
	}
	g, err := mines.NewGame(params, &mines.AdjacencyCache{}, rand.New(rand.NewPCG(seed, seed)))
	if err != nil {
		return nil, err
	}

	x, y := o.x, o.y
	if x < 0 {
		x = params.Width / 2
	}
	if y < 0 {
		y = params.Height / 2
	}
	if !params.ValidatePosition(x, y) {
		return nil, errBadClick
	}
	g.Action(x, y, false)
	return g.Snapshot(), nil
}

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a board and print it as a YAML snapshot",
	Long: `Generate a board, open one tile and print the result as a YAML snapshot.

Digits are mine weights, '.' marks revealed tiles and '#' hidden safe tiles.
Give --width, --height and --mines for a custom board, otherwise a preset is
used.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, err := gen.generate()
		if err != nil {
			return err
		}
		out, err := snapshot.Serialize()
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	flags := genCmd.Flags()
	flags.Var(newDifficultyValue(mines.Beginner, &gen.difficulty), "difficulty", "Preset size: beginner, intermediate or expert")
	flags.IntVarP(&gen.minesPerTile, "mines-per-tile", "n", 1, "Heaviest mine of the preset")
	flags.Var(newTopologyValue(mines.Hex, &gen.topology), "topology", "Board shape: sqr or hex")
	flags.BoolVar(&gen.noMinesAtEdges, "no-mines-at-edges", false, "Keep the border free of mines and revealed")
	flags.IntVarP(&gen.width, "width", "w", 0, "Width of a custom board, in tiles")
	flags.IntVar(&gen.height, "height", 0, "Height of a custom board, in tiles")
	flags.StringVarP(&gen.profile, "mines", "m", "", "Mine profile of a custom board, e.g. 10,5,2")
	flags.Uint64Var(&gen.seed, "seed", 0, "Random seed, 0 picks one")
	flags.IntVarP(&gen.x, "x", "x", -1, "Column of the first click, -1 for the middle")
	flags.IntVarP(&gen.y, "y", "y", -1, "Row of the first click, -1 for the middle")
}
