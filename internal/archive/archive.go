package archive

//go:generate mockgen -source=archive.go -destination=mocks/mock_archiver.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrDisabled = errors.New("game archive is disabled")

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	room_id TEXT NOT NULL,
	white_id TEXT NOT NULL DEFAULT '',
	black_id TEXT NOT NULL DEFAULT '',
	result TEXT NOT NULL,
	winner TEXT NOT NULL DEFAULT '',
	draw_reason TEXT NOT NULL DEFAULT '',
	moves TEXT NOT NULL DEFAULT '',
	final_fen TEXT NOT NULL,
	started_at INTEGER NOT NULL,
	ended_at INTEGER NOT NULL
);`

// Record is one finished game.
type Record struct {
	ID         int64     `json:"id"`
	RoomID     string    `json:"roomId"`
	WhiteID    string    `json:"whiteId"`
	BlackID    string    `json:"blackId"`
	Result     string    `json:"result"`
	Winner     string    `json:"winner,omitempty"`
	DrawReason string    `json:"drawReason,omitempty"`
	Moves      []string  `json:"moves"`
	FinalFEN   string    `json:"finalFen"`
	StartedAt  time.Time `json:"startedAt"`
	EndedAt    time.Time `json:"endedAt"`
}

// Archiver stores finished games.
type Archiver interface {
	Record(ctx context.Context, rec Record) error
	List(ctx context.Context, limit int) ([]Record, error)
}

// row is the sqlite shape of a Record. Times are unix milliseconds and moves
// a space separated UCI list.
type row struct {
	ID         int64  `db:"id"`
	RoomID     string `db:"room_id"`
	WhiteID    string `db:"white_id"`
	BlackID    string `db:"black_id"`
	Result     string `db:"result"`
	Winner     string `db:"winner"`
	DrawReason string `db:"draw_reason"`
	Moves      string `db:"moves"`
	FinalFEN   string `db:"final_fen"`
	StartedAt  int64  `db:"started_at"`
	EndedAt    int64  `db:"ended_at"`
}

func (r row) record() Record {
	var moves []string
	if r.Moves != "" {
		moves = strings.Fields(r.Moves)
	}
	return Record{
		ID:         r.ID,
		RoomID:     r.RoomID,
		WhiteID:    r.WhiteID,
		BlackID:    r.BlackID,
		Result:     r.Result,
		Winner:     r.Winner,
		DrawReason: r.DrawReason,
		Moves:      moves,
		FinalFEN:   r.FinalFEN,
		StartedAt:  time.UnixMilli(r.StartedAt),
		EndedAt:    time.UnixMilli(r.EndedAt),
	}
}

// Store is an Archiver backed by a sqlite database.
type Store struct {
	db *sqlx.DB
}

// NewStore creates the games table if needed and returns a Store on db.
func NewStore(ctx context.Context, db *sqlx.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create games table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Record(ctx context.Context, rec Record) error {
	query := `
	INSERT INTO games (room_id, white_id, black_id, result, winner, draw_reason, moves, final_fen, started_at, ended_at)
	VALUES (:room_id, :white_id, :black_id, :result, :winner, :draw_reason, :moves, :final_fen, :started_at, :ended_at)`

	_, err := s.db.NamedExecContext(ctx, query, row{
		RoomID:     rec.RoomID,
		WhiteID:    rec.WhiteID,
		BlackID:    rec.BlackID,
		Result:     rec.Result,
		Winner:     rec.Winner,
		DrawReason: rec.DrawReason,
		Moves:      strings.Join(rec.Moves, " "),
		FinalFEN:   rec.FinalFEN,
		StartedAt:  rec.StartedAt.UnixMilli(),
		EndedAt:    rec.EndedAt.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}
	return nil
}

// List returns up to limit games, most recent first.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	var rows []row
	query := `SELECT * FROM games ORDER BY ended_at DESC, id DESC LIMIT ?`
	if err := s.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	records := make([]Record, len(rows))
	for i, r := range rows {
		records[i] = r.record()
	}
	return records, nil
}

// Disabled is the Archiver used when no archive path is configured.
type Disabled struct{}

func (Disabled) Record(context.Context, Record) error { return nil }

func (Disabled) List(context.Context, int) ([]Record, error) { return nil, ErrDisabled }
