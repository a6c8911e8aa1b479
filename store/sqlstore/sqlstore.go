package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/lib/pq" // Import pq driver.

	"github.com/battlesnakeio/nol/store"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const migrations = `
CREATE TABLE IF NOT EXISTS games (
	id VARCHAR(255) PRIMARY KEY,
	ended BOOLEAN NOT NULL DEFAULT false,
	created timestamp default now()
);
CREATE TABLE IF NOT EXISTS turns (
	id VARCHAR(255),
	turn INTEGER,
	value jsonb,
	PRIMARY KEY (id, turn)
);
`

// Options tunes the connection pool.
type Options struct {
	MaxOpenConns int
	MaxIdleConns int
}

// NewSQLStore returns a new store using a postgres database.
func NewSQLStore(url string, opts Options) (*Store, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}

	if err = db.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "unable to connect")
	}

	_, err = db.ExecContext(ctx, migrations)
	if err != nil {
		return nil, errors.Wrap(err, "unable to migrate")
	}
	return &Store{db: db}, nil
}

// Store represents an SQL store.
type Store struct {
	db *sql.DB
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// transact is a transaction wrapper, helps avoid failed to close connections.
func (s *Store) transact(
	ctx context.Context, txFunc func(*sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			if rErr := tx.Rollback(); rErr != nil {
				log.WithError(rErr).Warn("rollback failed")
			}
			panic(p) // re-throw panic after Rollback
		} else if err != nil {
			// err is non-nil; don't change it
			if rErr := tx.Rollback(); rErr != nil {
				log.WithError(rErr).Warn("rollback failed")
			}
		} else {
			err = tx.Commit() // err is nil; if Commit returns error update err
		}
	}()
	err = txFunc(tx)
	return err
}

func createGame(ctx context.Context, tx *sql.Tx, id string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO games (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, id)
	return err
}

// CreateGame registers a game if it does not exist yet.
func (s *Store) CreateGame(ctx context.Context, id string) error {
	return s.transact(ctx, func(tx *sql.Tx) error {
		return createGame(ctx, tx, id)
	})
}

// PushTurn upserts a turn, creating the game if needed.
func (s *Store) PushTurn(ctx context.Context, id string, t *store.Turn) error {
	data, err := json.Marshal(t)
	if err != nil {
		return errors.Wrap(err, "unable to marshal turn")
	}
	return s.transact(ctx, func(tx *sql.Tx) error {
		if err := createGame(ctx, tx, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
		INSERT INTO turns (id, turn, value) VALUES ($1, $2, $3)
		ON CONFLICT (id, turn) DO UPDATE SET value=$3`,
			id, t.Turn, data,
		)
		return err
	})
}

// ListTurns will list turns by an offset and limit, it supports
// negative offset.
func (s *Store) ListTurns(ctx context.Context, id string, limit, offset int) ([]*store.Turn, error) {
	if _, err := s.GetGame(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	order := "ASC"
	if offset < 0 {
		order = "DESC"
		offset = -offset
		offset = offset - 1 // adjust the offset for common semantics
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT value FROM turns WHERE id=$1 ORDER BY turn `+
			order+` LIMIT $2 OFFSET $3`,
		id, limit, offset,
	)
	if err != nil {
		return nil, err
	}

	var turns []*store.Turn
	defer rows.Close()
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}

		t := &store.Turn{}
		if err := json.Unmarshal(data, t); err != nil {
			return nil, err
		}

		turns = append(turns, t)
	}

	return turns, rows.Err()
}

// EndGame marks the game as ended.
func (s *Store) EndGame(ctx context.Context, id string) error {
	return s.transact(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE games SET ended = true WHERE id = $1`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

// GetGame will fetch the game summary.
func (s *Store) GetGame(c context.Context, id string) (*store.Game, error) {
	r := s.db.QueryRowContext(c, `
		SELECT games.ended, COUNT(turns.turn), COALESCE(MAX(turns.turn), -1)
		FROM games
		LEFT JOIN turns ON turns.id = games.id
		WHERE games.id = $1
		GROUP BY games.id, games.ended`, id)

	g := &store.Game{ID: id}
	if err := r.Scan(&g.Ended, &g.Turns, &g.LastTurn); err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return g, nil
}
