package handlers

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vancomm/hexmines/internal/config"
	"github.com/vancomm/hexmines/internal/mines"
)

// MaxTiles bounds custom boards.
const MaxTiles = 100 * 100

var ErrBoardTooLarge = fmt.Errorf("boards are limited to %d tiles", MaxTiles)

// NewGameDTO names either a custom board (width, height, mines) or a preset
// (difficulty, mines_per_tile). Unset fields fall back to the server defaults.
type NewGameDTO struct {
	Width        int    `schema:"width"`
	Height       int    `schema:"height"`
	Mines        string `schema:"mines"`
	Difficulty   string `schema:"difficulty"`
	MinesPerTile int    `schema:"mines_per_tile"`
	Topology     string `schema:"topology"`
	Edges        *bool  `schema:"edges"`
}

func ParseNewGameDTO(src map[string][]string) (NewGameDTO, error) {
	var dto NewGameDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

func (dto NewGameDTO) Params(defaults config.Game) (mines.GameParams, error) {
	topology := defaults.Topology
	if dto.Topology != "" {
		var err error
		if topology, err = mines.ParseTopology(dto.Topology); err != nil {
			return mines.GameParams{}, err
		}
	}
	edges := defaults.NoMinesAtEdges
	if dto.Edges != nil {
		edges = *dto.Edges
	}

	if dto.Width != 0 || dto.Height != 0 || dto.Mines != "" {
		if dto.Width > MaxTiles || dto.Height > MaxTiles {
			return mines.GameParams{}, ErrBoardTooLarge
		}
		profile, err := mines.ParseProfile(dto.Mines)
		if err != nil {
			return mines.GameParams{}, err
		}
		params := mines.GameParams{
			Width:          dto.Width,
			Height:         dto.Height,
			Topology:       topology,
			Mines:          profile,
			NoMinesAtEdges: edges,
		}
		if err := params.Validate(); err != nil {
			return mines.GameParams{}, err
		}
		if params.Tiles() > MaxTiles {
			return mines.GameParams{}, ErrBoardTooLarge
		}
		return params, nil
	}

	difficulty := defaults.Difficulty
	if dto.Difficulty != "" {
		var err error
		if difficulty, err = mines.ParseDifficulty(dto.Difficulty); err != nil {
			return mines.GameParams{}, err
		}
	}
	minesPerTile := defaults.MinesPerTile
	if dto.MinesPerTile != 0 {
		minesPerTile = dto.MinesPerTile
	}
	return mines.Preset(difficulty, minesPerTile, topology, edges)
}

type ActionDTO struct {
	X   int  `schema:"x,required"`
	Y   int  `schema:"y,required"`
	Alt bool `schema:"alt"`
}

func ParseActionDTO(src map[string][]string) (ActionDTO, error) {
	var dto ActionDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type RecordsDTO struct {
	NewGameDTO
	Status string `schema:"status"`
	Limit  int    `schema:"limit"`
}

func ParseRecordsDTO(src map[string][]string) (RecordsDTO, error) {
	var dto RecordsDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

// GameSessionDTO is a game view addressed to one session. Accepted is set in
// replies to an action.
type GameSessionDTO struct {
	SessionId string `json:"session_id"`
	Accepted  *bool  `json:"accepted,omitempty"`
	mines.GameView
}

func NewGameSessionDTO(id uuid.UUID, accepted *bool, view mines.GameView) *GameSessionDTO {
	return &GameSessionDTO{
		SessionId: id.String(),
		Accepted:  accepted,
		GameView:  view,
	}
}

type TickDTO struct {
	SessionId      string `json:"session_id"`
	ElapsedSeconds int    `json:"elapsed_seconds"`
}

// badRequest reports whether err is the caller's fault.
func badRequest(err error) bool {
	return errors.Is(err, mines.ErrInvalidConfig) ||
		errors.Is(err, ErrBoardTooLarge)
}
