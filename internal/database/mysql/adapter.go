package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"

	"github.com/Rana718/seedling/internal/database/common"
)

type Adapter struct {
	db      *sql.DB
	dialect common.Dialect
}

func New() *Adapter {
	return &Adapter{
		dialect: common.Dialect{
			Quote:       common.QuoteBacktick,
			Placeholder: squirrel.Question,
		},
	}
}

var sslParams = strings.NewReplacer(
	"ssl-mode=REQUIRED", "tls=skip-verify",
	"ssl-mode=DISABLED", "tls=false",
	"ssl-mode=VERIFY_CA", "tls=true",
	"ssl-mode=VERIFY_IDENTITY", "tls=true",
	"sslmode=require", "tls=skip-verify",
	"sslmode=disable", "tls=false",
	"sslmode=verify-ca", "tls=true",
	"sslmode=verify-full", "tls=true",
)

// ToDSN accepts either a driver DSN or a mysql:// URL and returns a
// normalized driver DSN.
func ToDSN(url string) (*mysql.Config, error) {
	dsn := url
	if strings.HasPrefix(url, "mysql://") {
		dsn = strings.TrimPrefix(url, "mysql://")

		if at := strings.LastIndex(dsn, "@"); at > 0 {
			credentials := dsn[:at]
			remainder := dsn[at+1:]

			if slash := strings.Index(remainder, "/"); slash > 0 {
				hostPort := remainder[:slash]
				dbAndParams := sslParams.Replace(remainder[slash+1:])
				dsn = fmt.Sprintf("%s@tcp(%s)/%s", credentials, hostPort, dbAndParams)
			}
		}
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse MySQL DSN: %w", err)
	}
	return cfg, nil
}

func (m *Adapter) Connect(ctx context.Context, url string) error {
	cfg, err := ToDSN(url)
	if err != nil {
		return err
	}

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(0)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(3 * time.Minute)

	m.db = db
	return nil
}

func (m *Adapter) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func (m *Adapter) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *Adapter) WithTransaction(ctx context.Context, fn func(common.Tx) error) error {
	return common.WithSQLTransaction(ctx, m.db, m.dialect, fn)
}
