package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/metalagman/flowdebug/internal/cases"
)

// CaseRepo persists a case corpus.
type CaseRepo struct {
	db *sql.DB
}

// NewCaseRepo creates a repository over an opened corpus database.
func NewCaseRepo(db *sql.DB) *CaseRepo {
	return &CaseRepo{db: db}
}

// Replace swaps the stored corpus for cs in one transaction.
func (r *CaseRepo) Replace(ctx context.Context, cs []cases.Case) error {
	importedAt := time.Now().UTC().Format(time.RFC3339)
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin replace cases: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cases`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear cases: %w", err)
	}
	for i, c := range cs {
		payload, err := json.Marshal(c)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("marshal case %s: %w", c.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO cases(position, case_id, payload_json, imported_at) VALUES(?, ?, ?, ?)`,
			i, c.ID, string(payload), importedAt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert case %s: %w", c.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace cases: %w", err)
	}
	return nil
}

// Count returns the number of stored cases.
func (r *CaseRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cases`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cases: %w", err)
	}
	return n, nil
}

// List returns the stored cases in import order.
// Payloads go through the same validation as file sources.
func (r *CaseRepo) List(ctx context.Context) ([]cases.Case, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT payload_json FROM cases ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}
	defer rows.Close()

	var doc []any
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		var item any
		if err := json.Unmarshal([]byte(payload), &item); err != nil {
			return nil, fmt.Errorf("parse case payload: %w", err)
		}
		doc = append(doc, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cases: %w", err)
	}
	return cases.Decode(doc)
}

// Load opens the corpus database at path and returns its cases as a store.
func Load(ctx context.Context, path string) (*cases.Store, error) {
	database, err := Open(path)
	if err != nil {
		return nil, &cases.LoadError{Source: path, Err: err}
	}
	defer database.Close()

	cs, err := NewCaseRepo(database).List(ctx)
	if err != nil {
		var le *cases.LoadError
		if errors.As(err, &le) {
			le.Source = path
			return nil, le
		}
		return nil, &cases.LoadError{Source: path, Err: err}
	}
	return cases.NewStore(cs), nil
}
