// Package store caches definite solver results in SQLite, keyed by deal ID
// and draw arity.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/domino14/klondike/solver"
)

const schema = `
CREATE TABLE IF NOT EXISTS solves (
	deal_id    TEXT    NOT NULL,
	draw       INTEGER NOT NULL,
	seed       INTEGER NOT NULL,
	deck       TEXT    NOT NULL,
	result     TEXT    NOT NULL,
	nodes      INTEGER NOT NULL,
	elapsed_ms INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (deal_id, draw)
)`

var (
	ErrNotFound  = errors.New("deal not found in store")
	ErrNotCached = errors.New("only definite results are stored")
)

// Record is one stored solve.
type Record struct {
	DealID    string
	Draw      int
	Seed      uint64
	Deck      string
	Result    solver.Result
	Nodes     uint64
	Elapsed   time.Duration
	CreatedAt time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// One connection keeps an in-memory database alive and serializes
	// writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	log.Debug().Str("path", path).Msg("store-opened")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put saves r, replacing any earlier record for the same deal and draw.
// Timeouts are refused with ErrNotCached.
func (s *Store) Put(ctx context.Context, r Record) error {
	if !r.Result.Definite() {
		return ErrNotCached
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO solves
		(deal_id, draw, seed, deck, result, nodes, elapsed_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.DealID, r.Draw, int64(r.Seed), r.Deck, r.Result.String(),
		int64(r.Nodes), r.Elapsed.Milliseconds(), r.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("storing %s: %w", r.DealID, err)
	}
	return nil
}

// Get returns the record for a deal and draw, or ErrNotFound.
func (s *Store) Get(ctx context.Context, dealID string, draw int) (Record, error) {
	var (
		r       Record
		seed    int64
		nodes   int64
		ms      int64
		created int64
		result  string
	)
	row := s.db.QueryRowContext(ctx, `
		SELECT deal_id, draw, seed, deck, result, nodes, elapsed_ms, created_at
		FROM solves WHERE deal_id = ? AND draw = ?`, dealID, draw)
	err := row.Scan(&r.DealID, &r.Draw, &seed, &r.Deck, &result, &nodes, &ms, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	} else if err != nil {
		return Record{}, fmt.Errorf("loading %s: %w", dealID, err)
	}
	res, ok := solver.ParseResult(result)
	if !ok {
		return Record{}, fmt.Errorf("bad stored result %q for %s", result, dealID)
	}
	r.Seed = uint64(seed)
	r.Nodes = uint64(nodes)
	r.Elapsed = time.Duration(ms) * time.Millisecond
	r.CreatedAt = time.Unix(created, 0)
	r.Result = res
	return r, nil
}

// Count returns the number of stored records per result.
func (s *Store) Count(ctx context.Context) (map[solver.Result]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT result, COUNT(*) FROM solves GROUP BY result`)
	if err != nil {
		return nil, fmt.Errorf("counting: %w", err)
	}
	defer rows.Close()
	counts := map[solver.Result]int{}
	for rows.Next() {
		var result string
		var n int
		if err := rows.Scan(&result, &n); err != nil {
			return nil, err
		}
		if res, ok := solver.ParseResult(result); ok {
			counts[res] = n
		}
	}
	return counts, rows.Err()
}
