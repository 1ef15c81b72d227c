package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/okian/formline/internal/domain/model"
)

const dateLayout = "2006-01-02"

const createTableSQL = `
CREATE TABLE IF NOT EXISTS betting_history (
	date             TEXT    NOT NULL,
	tipster          TEXT    NOT NULL,
	track            TEXT    NOT NULL,
	horse            TEXT    NOT NULL,
	race_number      INTEGER NOT NULL,
	bsp              REAL,
	morningwap       REAL,
	win_lose         INTEGER NOT NULL DEFAULT 0,
	profit           REAL    NOT NULL DEFAULT 0,
	best_odds        REAL,
	field_size       INTEGER,
	upload_timestamp TEXT,
	UNIQUE(date, tipster, track, horse, race_number)
)`

const insertSQL = `
INSERT INTO betting_history
	(date, tipster, track, horse, race_number, bsp, morningwap, win_lose,
	 profit, best_odds, field_size, upload_timestamp)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectSQL = `
SELECT date, tipster, track, horse, race_number, bsp, morningwap, win_lose,
       profit, best_odds, field_size, upload_timestamp
FROM betting_history ORDER BY rowid`

// SQLiteStore is the durable history store backed by a single sqlite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (creating if absent) the history database at path and
// ensures the schema exists.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	// Single writer; serialized access avoids SQLITE_BUSY on the file store.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Load reads the full history in insertion order. A freshly created database
// yields an empty slice, not an error.
func (s *SQLiteStore) Load(ctx context.Context) ([]model.LinkedBet, error) {
	rows, err := s.db.QueryContext(ctx, selectSQL)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var bets []model.LinkedBet
	for rows.Next() {
		var (
			b               model.LinkedBet
			date            string
			bsp, mwap, best sql.NullFloat64
			fieldSize       sql.NullInt64
			uploaded        sql.NullString
		)
		if err := rows.Scan(&date, &b.Tipster, &b.Track, &b.Horse, &b.RaceNumber,
			&bsp, &mwap, &b.WinLose, &b.Profit, &best, &fieldSize, &uploaded); err != nil {
			return nil, fmt.Errorf("load history: %w", err)
		}
		if t, err := time.ParseInLocation(dateLayout, date, time.UTC); err == nil {
			b.Date = t
		}
		if bsp.Valid {
			b.BSP = model.Float(bsp.Float64)
		}
		if mwap.Valid {
			b.MorningWAP = model.Float(mwap.Float64)
		}
		if best.Valid {
			b.BestOdds = model.Float(best.Float64)
		}
		if fieldSize.Valid {
			b.FieldSize = model.IntPtr(int(fieldSize.Int64))
		}
		if uploaded.Valid {
			if t, err := time.Parse(time.RFC3339, uploaded.String); err == nil {
				b.UploadedAt = t
			}
		}
		bets = append(bets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return bets, nil
}

// Replace swaps the stored history for the given rows in one transaction, so
// readers never observe a partially rewritten table.
func (s *SQLiteStore) Replace(ctx context.Context, bets []model.LinkedBet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM betting_history"); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	defer stmt.Close()

	for _, b := range bets {
		var uploaded any
		if !b.UploadedAt.IsZero() {
			uploaded = b.UploadedAt.UTC().Format(time.RFC3339)
		}
		_, err := stmt.ExecContext(ctx,
			b.Date.Format(dateLayout), b.Tipster, b.Track, b.Horse, b.RaceNumber,
			nullFloat(b.BSP), nullFloat(b.MorningWAP), b.WinLose,
			b.Profit, nullFloat(b.BestOdds), nullInt(b.FieldSize), uploaded)
		if err != nil {
			return fmt.Errorf("replace history: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}

// Count returns the number of stored bets.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM betting_history").Scan(&n); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return n, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
