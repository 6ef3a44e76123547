package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/vancomm/hexmines/internal/mines"
)

const defaultSessionTTL = 30 * time.Minute

// Game holds the board handed out when a new game request names none.
type Game struct {
	Difficulty     mines.Difficulty
	MinesPerTile   int
	Topology       mines.Topology
	NoMinesAtEdges bool
}

func NewGame() (*Game, error) {
	g := &Game{
		Difficulty:   mines.Beginner,
		MinesPerTile: 1,
		Topology:     mines.Hex,
	}

	var err error
	if s, ok := os.LookupEnv("GAME_DIFFICULTY"); ok {
		if g.Difficulty, err = mines.ParseDifficulty(s); err != nil {
			return nil, fmt.Errorf("unable to parse GAME_DIFFICULTY: %w", err)
		}
	}
	if g.MinesPerTile, err = lookupInt("GAME_MINES_PER_TILE", g.MinesPerTile); err != nil {
		return nil, err
	}
	if s, ok := os.LookupEnv("GAME_TOPOLOGY"); ok {
		if g.Topology, err = mines.ParseTopology(s); err != nil {
			return nil, fmt.Errorf("unable to parse GAME_TOPOLOGY: %w", err)
		}
	}
	if s, ok := os.LookupEnv("GAME_NO_MINES_AT_EDGES"); ok {
		g.NoMinesAtEdges = s != "0"
	}

	if _, err := g.Params(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g Game) Params() (mines.GameParams, error) {
	return mines.Preset(g.Difficulty, g.MinesPerTile, g.Topology, g.NoMinesAtEdges)
}

// SessionTTL is how long an untouched game is kept in memory.
func SessionTTL() (time.Duration, error) {
	s, ok := os.LookupEnv("SESSION_TTL")
	if !ok {
		return defaultSessionTTL, nil
	}
	ttl, err := time.ParseDuration(s)
	if secs, convErr := strconv.Atoi(s); convErr == nil {
		// bare numbers are seconds
		ttl, err = time.Duration(secs)*time.Second, nil
	}
	if err != nil {
		return 0, fmt.Errorf("unable to parse SESSION_TTL: %w", err)
	}
	if ttl <= 0 {
		return 0, fmt.Errorf("SESSION_TTL must be positive, got %s", ttl)
	}
	return ttl, nil
}
