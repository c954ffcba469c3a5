package schema

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rana718/seedling/internal/database/sqlite"
	"github.com/Rana718/seedling/internal/types"
)

func TestDescribeAgainstSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "app.db")

	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = raw.ExecContext(ctx, `
		CREATE TABLE accounts (id INTEGER PRIMARY KEY, name VARCHAR(50) NOT NULL);
		CREATE TABLE users (
			id INTEGER PRIMARY KEY,
			account_id INTEGER NOT NULL REFERENCES accounts(id),
			email VARCHAR(120) NOT NULL UNIQUE,
			bio TEXT
		);
		INSERT INTO accounts (name) VALUES ('Acme'), ('Globex');
	`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	adapter := sqlite.New()
	require.NoError(t, adapter.Connect(ctx, "sqlite://"+path))
	t.Cleanup(func() { _ = adapter.Close() })

	d := NewDescriber(adapter, nil)
	desc, err := d.Describe(ctx, "User")
	require.NoError(t, err)

	assert.Equal(t, "users", desc.TableName)
	assert.Equal(t, "Model: User\n"+
		"Attributes: id: integer, account_id: integer, email: string, bio: text\n"+
		"Validations: account_id, email -> presence, email -> uniqueness, email -> length (maximum: 120)\n"+
		"Associations: belongs_to: account\n", desc.Summary())

	constraints, err := d.ResolveRequiredAssociations(ctx, desc)
	require.NoError(t, err)
	assert.Equal(t, []types.AssociationConstraint{
		{ForeignKey: "account_id", RelatedModel: "Account", SampledIDs: []any{int64(1), int64(2)}},
	}, constraints)

	accounts, err := d.Describe(ctx, "Account")
	require.NoError(t, err)
	require.Len(t, accounts.Associations, 1)
	assert.Equal(t, types.HasMany, accounts.Associations[0].Kind)
	assert.Equal(t, "users", accounts.Associations[0].Name)
}

func TestDescribeWithIrregularTableNames(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "app.db")

	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = raw.ExecContext(ctx, `
		CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
		CREATE TABLE "audit-log" (
			id INTEGER PRIMARY KEY,
			user_id INTEGER REFERENCES users(id),
			action TEXT
		);
		CREATE TABLE "odd""name" (id INTEGER PRIMARY KEY);
	`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	adapter := sqlite.New()
	require.NoError(t, adapter.Connect(ctx, "sqlite://"+path))
	t.Cleanup(func() { _ = adapter.Close() })

	desc, err := NewDescriber(adapter, nil).Describe(ctx, "User")
	require.NoError(t, err)

	require.Len(t, desc.Associations, 1)
	assert.Equal(t, types.HasMany, desc.Associations[0].Kind)
	assert.Equal(t, "audit-log", desc.Associations[0].RelatedTable)
	assert.Equal(t, "user_id", desc.Associations[0].ForeignKey)
}
