package database

import (
	"context"

	"github.com/Rana718/seedling/internal/database/common"
	"github.com/Rana718/seedling/internal/types"
)

// SchemaProvider introspects the catalog of a connected database.
type SchemaProvider interface {
	GetAllTableNames(ctx context.Context) ([]string, error)
	GetAllViewNames(ctx context.Context) ([]string, error)
	// GetTableColumns returns columns in declaration order.
	GetTableColumns(ctx context.Context, tableName string) ([]types.SchemaColumn, error)
	// FetchExistingIDs samples up to limit non-null values of column,
	// ordered by that column.
	FetchExistingIDs(ctx context.Context, table, column string, limit int) ([]any, error)
}

type Tx = common.Tx

// Store runs writes atomically.
type Store interface {
	WithTransaction(ctx context.Context, fn func(Tx) error) error
}

type DatabaseAdapter interface {
	SchemaProvider
	Store

	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error
}
