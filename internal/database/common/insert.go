package common

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/Rana718/seedling/internal/types"
)

// Tx is the write side of an open transaction.
type Tx interface {
	// BulkInsert writes every record into table. columns lists the allowed
	// keys in insertion order; a record key outside it is an error.
	BulkInsert(ctx context.Context, table string, columns []string, records []types.Record) (int64, error)
}

type Dialect struct {
	Quote       func(string) string
	Placeholder squirrel.PlaceholderFormat
}

type Statement struct {
	SQL  string
	Args []any
}

// BuildInserts renders records as multi-row INSERT statements. Records with
// the same key set share one statement, so a homogeneous batch becomes a
// single INSERT and absent keys fall back to the column default.
func BuildInserts(d Dialect, table string, columns []string, records []types.Record) ([]Statement, error) {
	allowed := make(map[string]bool, len(columns))
	for _, c := range columns {
		allowed[c] = true
	}

	type group struct {
		cols []string
		rows [][]any
	}
	var order []string
	groups := map[string]*group{}

	for i, rec := range records {
		for k := range rec {
			if !allowed[k] {
				return nil, fmt.Errorf("record %d: unknown column %q for table %s", i, k, table)
			}
		}

		var cols []string
		for _, c := range columns {
			if _, ok := rec[c]; ok {
				cols = append(cols, c)
			}
		}
		if len(cols) == 0 {
			return nil, fmt.Errorf("record %d: no columns to insert into %s", i, table)
		}

		row := make([]any, len(cols))
		for j, c := range cols {
			v, err := encodeValue(rec[c])
			if err != nil {
				return nil, fmt.Errorf("record %d column %s: %w", i, c, err)
			}
			row[j] = v
		}

		key := strings.Join(cols, "\x00")
		g, ok := groups[key]
		if !ok {
			g = &group{cols: cols}
			groups[key] = g
			order = append(order, key)
		}
		g.rows = append(g.rows, row)
	}

	stmts := make([]Statement, 0, len(order))
	for _, key := range order {
		g := groups[key]
		quoted := make([]string, len(g.cols))
		for i, c := range g.cols {
			quoted[i] = d.Quote(c)
		}

		q := squirrel.Insert(d.Quote(table)).Columns(quoted...).PlaceholderFormat(d.Placeholder)
		for _, row := range g.rows {
			q = q.Values(row...)
		}
		sql, args, err := q.ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build insert for %s: %w", table, err)
		}
		stmts = append(stmts, Statement{SQL: sql, Args: args})
	}
	return stmts, nil
}

// encodeValue stores nested objects and arrays as JSON text.
func encodeValue(v any) (any, error) {
	switch t := v.(type) {
	case json.Number:
		return t.String(), nil
	case map[string]any, []any:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(raw), nil
	default:
		return v, nil
	}
}

// SelectIDs builds the query that samples up to limit values of column,
// ordered by that column.
func SelectIDs(d Dialect, table, column string, limit int) (string, []any, error) {
	return squirrel.Select(d.Quote(column)).
		From(d.Quote(table)).
		Where(squirrel.NotEq{d.Quote(column): nil}).
		OrderBy(d.Quote(column)).
		Suffix("LIMIT ?", limit).
		PlaceholderFormat(d.Placeholder).
		ToSql()
}
