package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Rana718/seedling/internal/database/common"
	"github.com/Rana718/seedling/internal/types"
)

// pragma renders a PRAGMA call on a quoted object name. PRAGMA statements
// take no bind parameters.
func pragma(name, object string) string {
	return fmt.Sprintf(`PRAGMA %s("%s")`, name, strings.ReplaceAll(object, `"`, `""`))
}

func (s *Adapter) GetAllTableNames(ctx context.Context) ([]string, error) {
	return s.masterNames(ctx, "table")
}

func (s *Adapter) GetAllViewNames(ctx context.Context) ([]string, error) {
	return s.masterNames(ctx, "view")
}

func (s *Adapter) masterNames(ctx context.Context, kind string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = ? AND name NOT LIKE 'sqlite_%' ORDER BY name", kind)
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

func (s *Adapter) GetTableColumns(ctx context.Context, tableName string) ([]types.SchemaColumn, error) {
	columns, declared, err := s.tableInfo(ctx, tableName)
	if err != nil {
		return nil, err
	}

	pkCount := 0
	for _, c := range columns {
		if c.IsPrimary {
			pkCount++
		}
	}

	unique, err := s.uniqueColumns(ctx, tableName)
	if err != nil {
		return nil, err
	}

	for i := range columns {
		c := &columns[i]
		// Only a lone INTEGER PRIMARY KEY aliases the rowid.
		c.IsAutoIncrement = c.IsPrimary && pkCount == 1 && strings.EqualFold(declared[i], "INTEGER")
		c.IsUnique = unique[c.Name]
	}

	fkRows, err := s.db.QueryContext(ctx, pragma("foreign_key_list", tableName))
	if err != nil {
		return nil, err
	}
	defer fkRows.Close()

	type fk struct {
		from, table string
		to          sql.NullString
	}
	var fks []fk
	for fkRows.Next() {
		var id, seq int
		var f fk
		var onUpdate, onDelete, match string
		if err := fkRows.Scan(&id, &seq, &f.table, &f.from, &f.to, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}
		fks = append(fks, f)
	}
	if err := fkRows.Err(); err != nil {
		return nil, err
	}
	fkRows.Close()

	for _, f := range fks {
		to := f.to.String
		if !f.to.Valid || to == "" {
			// REFERENCES parent without a column targets the parent's key.
			if to, err = s.primaryKeyOf(ctx, f.table); err != nil {
				return nil, err
			}
		}
		for i := range columns {
			if columns[i].Name == f.from && columns[i].ForeignKeyTable == "" {
				columns[i].ForeignKeyTable = f.table
				columns[i].ForeignKeyColumn = to
				break
			}
		}
	}
	return columns, nil
}

func (s *Adapter) tableInfo(ctx context.Context, tableName string) ([]types.SchemaColumn, []string, error) {
	rows, err := s.db.QueryContext(ctx, pragma("table_info", tableName))
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var columns []types.SchemaColumn
	var declared []string
	for rows.Next() {
		var cid, notNull, pk int
		var column types.SchemaColumn
		var dataType string
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &column.Name, &dataType, &notNull, &defaultValue, &pk); err != nil {
			return nil, nil, err
		}

		column.Type = dataType
		column.Nullable = notNull == 0
		column.IsPrimary = pk > 0
		column.MaxLength = common.DeclaredLength(dataType)
		if defaultValue.Valid {
			column.HasDefault = true
			column.Default = defaultValue.String
		}
		columns = append(columns, column)
		declared = append(declared, strings.TrimSpace(dataType))
	}
	return columns, declared, rows.Err()
}

func (s *Adapter) primaryKeyOf(ctx context.Context, tableName string) (string, error) {
	columns, _, err := s.tableInfo(ctx, tableName)
	if err != nil {
		return "", err
	}
	for _, c := range columns {
		if c.IsPrimary {
			return c.Name, nil
		}
	}
	return "rowid", nil
}

// uniqueColumns returns the columns covered by a single-column unique index.
func (s *Adapter) uniqueColumns(ctx context.Context, tableName string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, pragma("index_list", tableName))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []string
	for rows.Next() {
		var seq, unique int
		var indexName, origin, partial string
		if err := rows.Scan(&seq, &indexName, &unique, &origin, &partial); err != nil {
			return nil, err
		}
		if unique == 1 && origin != "pk" {
			indexes = append(indexes, indexName)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	result := make(map[string]bool)
	for _, name := range indexes {
		cols, err := s.indexColumns(ctx, name)
		if err != nil {
			return nil, err
		}
		if len(cols) == 1 {
			result[cols[0]] = true
		}
	}
	return result, nil
}

func (s *Adapter) indexColumns(ctx context.Context, indexName string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, pragma("index_info", indexName))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var seqno, cid int
		var name sql.NullString
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, err
		}
		if name.Valid {
			columns = append(columns, name.String)
		}
	}
	return columns, rows.Err()
}

func (s *Adapter) FetchExistingIDs(ctx context.Context, table, column string, limit int) ([]any, error) {
	query, args, err := common.SelectIDs(s.dialect, table, column, limit)
	if err != nil {
		return nil, err
	}
	return common.QueryIDs(ctx, s.db, query, args)
}
