package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"github.com/Rana718/seedling/internal/database/common"
	"github.com/Rana718/seedling/internal/types"
)

type Adapter struct {
	pool    *pgxpool.Pool
	dialect common.Dialect
}

func New() *Adapter {
	return &Adapter{
		dialect: common.Dialect{
			Quote:       pq.QuoteIdentifier,
			Placeholder: squirrel.Dollar,
		},
	}
}

func (p *Adapter) Connect(ctx context.Context, url string) error {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("failed to parse connection URL: %w", err)
	}

	// Describe without caching: parameter types come from the server, which
	// lets text values land in json, uuid and timestamp columns.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeDescribeExec

	config.MaxConns = 2
	config.MinConns = 0
	config.MaxConnLifetime = 15 * time.Minute
	config.MaxConnIdleTime = 3 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	p.pool = pool
	return nil
}

func (p *Adapter) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *Adapter) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// WithTransaction commits when fn returns nil and rolls back otherwise.
func (p *Adapter) WithTransaction(ctx context.Context, fn func(common.Tx) error) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		return fn(&pgTx{tx: tx, dialect: p.dialect})
	})
}

type pgTx struct {
	tx      pgx.Tx
	dialect common.Dialect
}

func (t *pgTx) BulkInsert(ctx context.Context, table string, columns []string, records []types.Record) (int64, error) {
	stmts, err := common.BuildInserts(t.dialect, table, columns, records)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, s := range stmts {
		tag, err := t.tx.Exec(ctx, s.SQL, s.Args...)
		if err != nil {
			return total, err
		}
		total += tag.RowsAffected()
	}
	return total, nil
}
