package mysql

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Rana718/seedling/internal/database/common"
	"github.com/Rana718/seedling/internal/types"
)

func (m *Adapter) GetAllTableNames(ctx context.Context) ([]string, error) {
	return m.relationNames(ctx, "BASE TABLE")
}

func (m *Adapter) GetAllViewNames(ctx context.Context) ([]string, error) {
	return m.relationNames(ctx, "VIEW")
}

func (m *Adapter) relationNames(ctx context.Context, tableType string) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_type = ?
		ORDER BY table_name
	`, tableType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (m *Adapter) GetTableColumns(ctx context.Context, tableName string) ([]types.SchemaColumn, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT
			c.column_name,
			c.data_type,
			c.column_type,
			c.is_nullable,
			c.column_default,
			c.character_maximum_length,
			c.column_key,
			c.extra,
			k.referenced_table_name,
			k.referenced_column_name
		FROM information_schema.columns c
		LEFT JOIN information_schema.key_column_usage k
			ON c.table_schema = k.table_schema
			AND c.table_name = k.table_name
			AND c.column_name = k.column_name
			AND k.referenced_table_name IS NOT NULL
		WHERE c.table_name = ? AND c.table_schema = DATABASE()
		ORDER BY c.ordinal_position
	`, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []types.SchemaColumn
	seen := make(map[string]bool)
	for rows.Next() {
		var column types.SchemaColumn
		var dataType, columnType, isNullable, columnKey, extra string
		var columnDefault, referencedTable, referencedColumn sql.NullString
		var charMaxLength sql.NullInt64

		err := rows.Scan(
			&column.Name,
			&dataType,
			&columnType,
			&isNullable,
			&columnDefault,
			&charMaxLength,
			&columnKey,
			&extra,
			&referencedTable,
			&referencedColumn,
		)
		if err != nil {
			return nil, err
		}
		// A column in several foreign keys yields several rows.
		if seen[column.Name] {
			continue
		}
		seen[column.Name] = true

		column.Type = columnType
		column.Nullable = isNullable == "YES"
		column.IsPrimary = columnKey == "PRI"
		column.IsUnique = columnKey == "UNI"
		column.IsAutoIncrement = strings.Contains(strings.ToLower(extra), "auto_increment")
		if columnDefault.Valid {
			column.HasDefault = true
			column.Default = columnDefault.String
		}
		if strings.Contains(strings.ToLower(extra), "default_generated") {
			column.HasDefault = true
		}
		if charMaxLength.Valid && (dataType == "varchar" || dataType == "char") {
			column.MaxLength = int(charMaxLength.Int64)
		}
		if referencedTable.Valid && referencedColumn.Valid {
			column.ForeignKeyTable = referencedTable.String
			column.ForeignKeyColumn = referencedColumn.String
		}
		columns = append(columns, column)
	}
	return columns, rows.Err()
}

func (m *Adapter) FetchExistingIDs(ctx context.Context, table, column string, limit int) ([]any, error) {
	query, args, err := common.SelectIDs(m.dialect, table, column, limit)
	if err != nil {
		return nil, err
	}
	return common.QueryIDs(ctx, m.db, query, args)
}
