package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/hexmines/internal/mines"
)

// emptyRows yields no rows and then err.
type emptyRows struct {
	err error
}

func (r *emptyRows) Close()                                       {}
func (r *emptyRows) Err() error                                   { return r.err }
func (r *emptyRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *emptyRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *emptyRows) Next() bool                                   { return false }
func (r *emptyRows) Scan(dest ...any) error                       { return r.err }
func (r *emptyRows) Values() ([]any, error)                       { return nil, r.err }
func (r *emptyRows) RawValues() [][]byte                          { return nil }
func (r *emptyRows) Conn() *pgx.Conn                              { return nil }

type fakeDB struct {
	err   error
	query string
	args  []any
}

func (db *fakeDB) Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, db.err
}

func (db *fakeDB) Query(_ context.Context, query string, args ...interface{}) (pgx.Rows, error) {
	db.query, db.args = query, args
	return &emptyRows{err: db.err}, nil
}

func (db *fakeDB) QueryRow(context.Context, string, ...interface{}) pgx.Row {
	return &emptyRows{err: db.err}
}

func TestRecordFilterWhereClause(t *testing.T) {
	won := mines.Won
	params := mines.GameParams{Width: 16, Height: 16, Topology: mines.Hex, Mines: []int{24, 16}}

	tests := []struct {
		name   string
		filter RecordFilter
		clause string
		args   pgx.NamedArgs
	}{
		{"empty", RecordFilter{}, "", pgx.NamedArgs{}},
		{"status", RecordFilter{Status: &won}, "status = @status", pgx.NamedArgs{"status": "won"}},
		{
			"params",
			RecordFilter{Status: &won, Params: &params},
			"status = @status AND width = @width AND height = @height AND topology = @topology AND profile = @profile AND no_mines_at_edges = @no_mines_at_edges",
			pgx.NamedArgs{
				"status":            "won",
				"width":             16,
				"height":            16,
				"topology":          "hex",
				"profile":           "24,16",
				"no_mines_at_edges": false,
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			clause, args := test.filter.WhereClause()
			assert.Equal(t, test.clause, clause)
			assert.Equal(t, test.args, args)
		})
	}
}

func TestRecordFilterLimit(t *testing.T) {
	assert.Equal(t, DefaultRecordsLimit, RecordFilter{}.limit())
	assert.Equal(t, 5, RecordFilter{Limit: 5}.limit())
	assert.Equal(t, MaxRecordsLimit, RecordFilter{Limit: 1000}.limit())
}

func TestGetRecordsQuery(t *testing.T) {
	db := &fakeDB{}
	won := mines.Won

	records, err := New(db).GetRecords(context.Background(), RecordFilter{Status: &won, Limit: 3})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, "SELECT * FROM game_record WHERE status = @status ORDER BY elapsed_ms, ended_at LIMIT @limit;", db.query)
	require.Len(t, db.args, 1)
	assert.Equal(t, pgx.NamedArgs{"status": "won", "limit": 3}, db.args[0])
}

func TestCreateRecordDuplicate(t *testing.T) {
	db := &fakeDB{err: &pgconn.PgError{Code: pgerrcode.UniqueViolation}}

	_, err := New(db).CreateRecord(context.Background(), CreateRecordParams{SessionId: "x"})
	assert.ErrorIs(t, err, ErrDuplicateRecord)
}

func TestGetRecordNotFound(t *testing.T) {
	_, err := New(&fakeDB{}).GetRecord(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestNewCreateRecordParams(t *testing.T) {
	params := mines.GameParams{Width: 3, Height: 3, Topology: mines.Square, Mines: []int{8}}
	g, err := mines.NewGame(params, nil, nil)
	require.NoError(t, err)
	require.True(t, g.Action(1, 1, false))
	require.Equal(t, mines.Won, g.Status())

	p := NewCreateRecordParams("abc", g)
	assert.Equal(t, mines.Won, p.Status)
	assert.Equal(t, 1, p.SquaresRevealed)
	assert.Equal(t, "111\n1.1\n111", p.Board)

	args := p.Args()
	assert.Equal(t, "abc", args["session_id"])
	assert.Equal(t, "sqr", args["topology"])
	assert.Equal(t, "8", args["profile"])
	assert.Equal(t, "won", args["status"])
	assert.Equal(t, "3:3:sqr:8:0", args["seed"])
	assert.IsType(t, int64(0), args["elapsed_ms"])
	assert.Less(t, args["elapsed_ms"].(int64), int64(time.Minute/time.Millisecond))
}
