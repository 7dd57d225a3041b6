// Package history keeps a row per availability check so the outcome
// of past poll cycles survives restarts and can be inspected offline.
package history

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

func Open(path string) (Store, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return Store{}, err
	}
	_, err = database.Exec(Schema)
	if err != nil {
		return Store{}, err
	}
	return Store{db: database}, nil
}

type Check struct {
	ChatId   int64
	Drug     string
	City     string
	Time     time.Time
	Results  int
	TopPrice string
}

func (s Store) Record(ctx context.Context, check Check) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO availability_check (chat_id, drug, city, checked_at, results, top_price)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		check.ChatId, check.Drug, check.City,
		check.Time.Unix(), check.Results, check.TopPrice,
	)
	return err
}

// Recent returns the latest checks, newest first.
func (s Store) Recent(ctx context.Context, limit int) ([]Check, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT chat_id, drug, city, checked_at, results, top_price
		 FROM availability_check
		 ORDER BY checked_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Check
	for rows.Next() {
		var check Check
		var checkedAt int64
		err = rows.Scan(
			&check.ChatId, &check.Drug, &check.City,
			&checkedAt, &check.Results, &check.TopPrice,
		)
		if err != nil {
			return nil, err
		}
		check.Time = time.Unix(checkedAt, 0)
		out = append(out, check)
	}
	return out, rows.Err()
}
