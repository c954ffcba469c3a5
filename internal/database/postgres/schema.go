package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Rana718/seedling/internal/database/common"
	"github.com/Rana718/seedling/internal/types"
)

func (p *Adapter) GetAllTableNames(ctx context.Context) ([]string, error) {
	return p.relationNames(ctx, "BASE TABLE")
}

func (p *Adapter) GetAllViewNames(ctx context.Context) ([]string, error) {
	return p.relationNames(ctx, "VIEW")
}

func (p *Adapter) relationNames(ctx context.Context, tableType string) ([]string, error) {
	// Check both current_schema() and 'public' for robustness
	rows, err := p.pool.Query(ctx, `
		SELECT DISTINCT table_name FROM information_schema.tables
		WHERE table_schema IN (current_schema(), 'public') AND table_type = $1
		ORDER BY table_name
	`, tableType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0, 32)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetTableColumns returns the columns of tableName in ordinal order with
// key, uniqueness and foreign key details merged in.
func (p *Adapter) GetTableColumns(ctx context.Context, tableName string) ([]types.SchemaColumn, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT DISTINCT ON (c.ordinal_position)
			c.column_name,
			c.udt_name,
			c.is_nullable,
			c.column_default,
			c.character_maximum_length,
			c.is_identity
		FROM information_schema.columns c
		WHERE c.table_name = $1
		  AND c.table_schema IN (current_schema(), 'public')
		ORDER BY c.ordinal_position, c.table_schema
	`, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []types.SchemaColumn
	for rows.Next() {
		var column types.SchemaColumn
		var udtName, isNullable, isIdentity string
		var columnDefault sql.NullString
		var charMaxLength sql.NullInt64

		if err := rows.Scan(&column.Name, &udtName, &isNullable, &columnDefault, &charMaxLength, &isIdentity); err != nil {
			return nil, err
		}

		column.Type = udtName
		column.Nullable = isNullable == "YES"
		column.IsAutoIncrement = isIdentity == "YES"
		if charMaxLength.Valid {
			column.MaxLength = int(charMaxLength.Int64)
		}
		if columnDefault.Valid {
			column.HasDefault = true
			column.Default = columnDefault.String
			if strings.Contains(strings.ToLower(columnDefault.String), "nextval") {
				column.IsAutoIncrement = true
			}
		}
		columns = append(columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	index := make(map[string]*types.SchemaColumn, len(columns))
	for i := range columns {
		index[columns[i].Name] = &columns[i]
	}

	// Only single-column UNIQUE constraints mark a column unique.
	constraintRows, err := p.pool.Query(ctx, `
		WITH fk_columns AS (
			SELECT
				src_attr.attname AS column_name,
				tgt_table.relname AS foreign_table_name,
				tgt_attr.attname AS foreign_column_name
			FROM pg_constraint con
			JOIN pg_class src_table ON con.conrelid = src_table.oid
			JOIN pg_namespace ns ON src_table.relnamespace = ns.oid
			CROSS JOIN LATERAL UNNEST(con.conkey, con.confkey) WITH ORDINALITY AS cols(src_col, tgt_col, ord)
			JOIN pg_attribute src_attr ON src_attr.attrelid = src_table.oid AND src_attr.attnum = cols.src_col
			JOIN pg_class tgt_table ON con.confrelid = tgt_table.oid
			JOIN pg_attribute tgt_attr ON tgt_attr.attrelid = tgt_table.oid AND tgt_attr.attnum = cols.tgt_col
			WHERE src_table.relname = $1
			  AND ns.nspname IN (current_schema(), 'public')
			  AND con.contype = 'f'
		),
		pk_uk_columns AS (
			SELECT
				src_attr.attname AS column_name,
				CASE con.contype WHEN 'p' THEN 'PRIMARY KEY' ELSE 'UNIQUE' END AS constraint_type
			FROM pg_constraint con
			JOIN pg_class src_table ON con.conrelid = src_table.oid
			JOIN pg_namespace ns ON src_table.relnamespace = ns.oid
			CROSS JOIN LATERAL UNNEST(con.conkey) AS cols(src_col)
			JOIN pg_attribute src_attr ON src_attr.attrelid = src_table.oid AND src_attr.attnum = cols.src_col
			WHERE src_table.relname = $1
			  AND ns.nspname IN (current_schema(), 'public')
			  AND (con.contype = 'p' OR (con.contype = 'u' AND array_length(con.conkey, 1) = 1))
		)
		SELECT column_name, 'FOREIGN KEY' AS constraint_type, foreign_table_name, foreign_column_name
		FROM fk_columns
		UNION ALL
		SELECT column_name, constraint_type, NULL, NULL
		FROM pk_uk_columns
	`, tableName)
	if err != nil {
		return nil, err
	}
	defer constraintRows.Close()

	for constraintRows.Next() {
		var columnName, constraintType string
		var fkTable, fkColumn sql.NullString

		if err := constraintRows.Scan(&columnName, &constraintType, &fkTable, &fkColumn); err != nil {
			return nil, err
		}

		col, ok := index[columnName]
		if !ok {
			continue
		}
		switch constraintType {
		case "PRIMARY KEY":
			col.IsPrimary = true
		case "UNIQUE":
			col.IsUnique = true
		case "FOREIGN KEY":
			if fkTable.Valid && fkColumn.Valid && col.ForeignKeyTable == "" {
				col.ForeignKeyTable = fkTable.String
				col.ForeignKeyColumn = fkColumn.String
			}
		}
	}
	return columns, constraintRows.Err()
}

func (p *Adapter) FetchExistingIDs(ctx context.Context, table, column string, limit int) ([]any, error) {
	query, args, err := common.SelectIDs(p.dialect, table, column, limit)
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, query, args...)
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
		ids = append(ids, common.NormalizeID(v))
	}
	return ids, rows.Err()
}
