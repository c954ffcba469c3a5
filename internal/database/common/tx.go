package common

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Rana718/seedling/internal/types"
)

// WithSQLTransaction runs fn inside a database/sql transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func WithSQLTransaction(ctx context.Context, db *sql.DB, d Dialect, fn func(Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&sqlTx{tx: tx, dialect: d}); err != nil {
		return err
	}
	return tx.Commit()
}

type sqlTx struct {
	tx      *sql.Tx
	dialect Dialect
}

func (t *sqlTx) BulkInsert(ctx context.Context, table string, columns []string, records []types.Record) (int64, error) {
	stmts, err := BuildInserts(t.dialect, table, columns, records)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, s := range stmts {
		res, err := t.tx.ExecContext(ctx, s.SQL, s.Args...)
		if err != nil {
			return total, err
		}
		if n, err := res.RowsAffected(); err == nil {
			total += n
		}
	}
	return total, nil
}

// QueryIDs runs an id sampling query and normalizes the scanned values.
func QueryIDs(ctx context.Context, db *sql.DB, query string, args []any) ([]any, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []any
	for rows.Next() {
		var v any
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		ids = append(ids, NormalizeID(v))
	}
	return ids, rows.Err()
}
