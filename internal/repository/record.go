package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vancomm/hexmines/internal/mines"
)

var (
	ErrDuplicateRecord = errors.New("game already recorded")
	ErrRecordNotFound  = errors.New("record not found")
)

const (
	DefaultRecordsLimit = 10
	MaxRecordsLimit     = 100
)

// GameRecord is a finished game. Board holds the snapshot rows and is only
// exposed through the snapshot endpoint.
type GameRecord struct {
	GameRecordId    int64     `json:"-" db:"game_record_id"`
	SessionId       string    `json:"session_id" db:"session_id"`
	Width           int       `json:"width" db:"width"`
	Height          int       `json:"height" db:"height"`
	Topology        string    `json:"topology" db:"topology"`
	Profile         string    `json:"profile" db:"profile"`
	NoMinesAtEdges  bool      `json:"no_mines_at_edges" db:"no_mines_at_edges"`
	Status          string    `json:"status" db:"status"`
	SquaresRevealed int       `json:"squares_revealed" db:"squares_revealed"`
	ElapsedMs       int64     `json:"elapsed_ms" db:"elapsed_ms"`
	Seed            string    `json:"seed" db:"seed"`
	Board           string    `json:"-" db:"board"`
	EndedAt         time.Time `json:"ended_at" db:"ended_at"`
}

type CreateRecordParams struct {
	SessionId       string
	Params          mines.GameParams
	Status          mines.GameStatus
	SquaresRevealed int
	Elapsed         time.Duration
	Board           string
}

// NewCreateRecordParams captures what is stored about an ended game. It must
// be called while the caller owns g.
func NewCreateRecordParams(sessionId string, g *mines.Game) CreateRecordParams {
	return CreateRecordParams{
		SessionId:       sessionId,
		Params:          g.GameParams,
		Status:          g.Status(),
		SquaresRevealed: g.SquaresRevealed(),
		Elapsed:         g.Elapsed(),
		Board:           g.Snapshot().Board,
	}
}

func (p CreateRecordParams) Args() pgx.NamedArgs {
	return pgx.NamedArgs{
		"session_id":        p.SessionId,
		"width":             p.Params.Width,
		"height":            p.Params.Height,
		"topology":          p.Params.Topology.String(),
		"profile":           mines.FormatProfile(p.Params.Mines),
		"no_mines_at_edges": p.Params.NoMinesAtEdges,
		"status":            p.Status.String(),
		"squares_revealed":  p.SquaresRevealed,
		"elapsed_ms":        p.Elapsed.Milliseconds(),
		"seed":              p.Params.Seed(),
		"board":             p.Board,
	}
}

func (q Queries) CreateRecord(ctx context.Context, params CreateRecordParams) (*GameRecord, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_record (
			session_id, width, height, topology, profile, no_mines_at_edges,
			status, squares_revealed, elapsed_ms, seed, board
		)
		VALUES (
			@session_id, @width, @height, @topology, @profile, @no_mines_at_edges,
			@status, @squares_revealed, @elapsed_ms, @seed, @board
		)
		RETURNING *;`,
		params.Args(),
	)
	record, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameRecord])
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return nil, ErrDuplicateRecord
	}
	return record, err
}

func (q Queries) GetRecord(ctx context.Context, sessionId string) (*GameRecord, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT * FROM game_record WHERE session_id = $1", sessionId,
	)
	record, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameRecord])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	return record, err
}

type RecordFilter struct {
	Params *mines.GameParams
	Status *mines.GameStatus
	Limit  int
}

func (f RecordFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Status != nil {
		clauses = append(clauses, "status = @status")
		args["status"] = f.Status.String()
	}
	if f.Params != nil {
		clauses = append(
			clauses,
			"width = @width",
			"height = @height",
			"topology = @topology",
			"profile = @profile",
			"no_mines_at_edges = @no_mines_at_edges",
		)
		args["width"] = f.Params.Width
		args["height"] = f.Params.Height
		args["topology"] = f.Params.Topology.String()
		args["profile"] = mines.FormatProfile(f.Params.Mines)
		args["no_mines_at_edges"] = f.Params.NoMinesAtEdges
	}
	return strings.Join(clauses, " AND "), args
}

func (f RecordFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return DefaultRecordsLimit
	case f.Limit > MaxRecordsLimit:
		return MaxRecordsLimit
	default:
		return f.Limit
	}
}

// GetRecords returns the fastest games matching the filter.
func (q Queries) GetRecords(ctx context.Context, filter RecordFilter) ([]GameRecord, error) {
	query := "SELECT * FROM game_record"

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	query += " ORDER BY elapsed_ms, ended_at LIMIT @limit;"
	args["limit"] = filter.limit()

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[GameRecord])
}
