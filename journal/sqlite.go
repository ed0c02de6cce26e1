package journal

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/signalflow/node"
	"github.com/rustyeddy/signalflow/orchestrate"
	"github.com/rustyeddy/signalflow/pkg/id"
)

// SQLite journals tick records into a SQLite database, one row per sink per
// tick. Missing samples are stored as NULL. Each journal instance owns one
// run row keyed by a time-sortable run id.
type SQLite struct {
	db    *sql.DB
	runID string
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	runID := id.New()
	if _, err := db.Exec(`INSERT INTO runs (run_id, started_at) VALUES (?, ?)`,
		runID, time.Now().UTC()); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db, runID: runID}, nil
}

// RunID is the identifier of the run this journal writes.
func (j *SQLite) RunID() string { return j.runID }

func (j *SQLite) WriteTick(tick int, rec orchestrate.Record) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO records (run_id, tick, name, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for name, v := range rec {
		var value any
		if v.Valid {
			value = v.F
		}
		if _, err := stmt.Exec(j.runID, tick, name, value); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Values returns the journaled sequence for one sink name, in tick order.
func (j *SQLite) Values(name string) ([]node.Value, error) {
	rows, err := j.db.Query(
		`SELECT value FROM records WHERE run_id = ? AND name = ? ORDER BY tick`,
		j.runID, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []node.Value
	for rows.Next() {
		var f sql.NullFloat64
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		if f.Valid {
			out = append(out, node.Some(f.Float64))
		} else {
			out = append(out, node.None)
		}
	}
	return out, rows.Err()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
