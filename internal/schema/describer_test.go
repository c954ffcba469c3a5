package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rana718/seedling/internal/types"
)

type fakeProvider struct {
	tables  []string
	views   []string
	columns map[string][]types.SchemaColumn
	ids     map[string][]any
	idCalls []string
}

func (f *fakeProvider) GetAllTableNames(context.Context) ([]string, error) { return f.tables, nil }
func (f *fakeProvider) GetAllViewNames(context.Context) ([]string, error)  { return f.views, nil }

func (f *fakeProvider) GetTableColumns(_ context.Context, table string) ([]types.SchemaColumn, error) {
	cols, ok := f.columns[table]
	if !ok {
		return nil, errors.New("no such table: " + table)
	}
	return cols, nil
}

func (f *fakeProvider) FetchExistingIDs(_ context.Context, table, column string, limit int) ([]any, error) {
	f.idCalls = append(f.idCalls, table+"."+column)
	ids := f.ids[table]
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func blogProvider() *fakeProvider {
	return &fakeProvider{
		tables: []string{"accounts", "blog_posts", "comments", "schema_migrations", "users"},
		views:  []string{"active_users"},
		columns: map[string][]types.SchemaColumn{
			"accounts": {
				{Name: "id", Type: "int8", IsPrimary: true, IsAutoIncrement: true},
				{Name: "name", Type: "varchar", MaxLength: 80},
			},
			"users": {
				{Name: "id", Type: "int8", IsPrimary: true, IsAutoIncrement: true},
				{Name: "account_id", Type: "int8", ForeignKeyTable: "accounts", ForeignKeyColumn: "id"},
				{Name: "email", Type: "varchar", IsUnique: true, MaxLength: 255},
				{Name: "name", Type: "text"},
				{Name: "manager_id", Type: "int8", Nullable: true, ForeignKeyTable: "users", ForeignKeyColumn: "id"},
				{Name: "created_at", Type: "timestamptz", HasDefault: true},
			},
			"blog_posts": {
				{Name: "id", Type: "uuid", IsPrimary: true, HasDefault: true},
				{Name: "author_id", Type: "int8", ForeignKeyTable: "users", ForeignKeyColumn: "id"},
				{Name: "title", Type: "varchar", MaxLength: 120},
			},
			"comments": {
				{Name: "id", Type: "int8", IsPrimary: true, IsAutoIncrement: true},
				{Name: "commentable_id", Type: "int8"},
				{Name: "commentable_type", Type: "varchar"},
				{Name: "user_id", Type: "int8", Nullable: true, ForeignKeyTable: "users", ForeignKeyColumn: "id"},
			},
		},
		ids: map[string][]any{
			"accounts": {int64(1), int64(2)},
		},
	}
}

func TestDescribeResolvesNames(t *testing.T) {
	d := NewDescriber(blogProvider(), nil)

	for _, name := range []string{"User", "user", "users", "Users"} {
		desc, err := d.Describe(context.Background(), name)
		require.NoError(t, err, name)
		assert.Equal(t, "users", desc.TableName)
		assert.Equal(t, "User", desc.Name)
	}

	desc, err := d.Describe(context.Background(), "BlogPost")
	require.NoError(t, err)
	assert.Equal(t, "blog_posts", desc.TableName)
	assert.Equal(t, "BlogPost", desc.Name)
}

func TestDescribeNotFound(t *testing.T) {
	d := NewDescriber(blogProvider(), nil)

	for _, name := range []string{"Invoice", "SchemaMigration", "schema_migrations", ""} {
		_, err := d.Describe(context.Background(), name)
		var nf *NotFoundError
		assert.ErrorAs(t, err, &nf, name)
	}
}

func TestDescribeView(t *testing.T) {
	d := NewDescriber(blogProvider(), nil)

	_, err := d.Describe(context.Background(), "ActiveUser")
	var abstract *AbstractModelError
	require.ErrorAs(t, err, &abstract)
	assert.Equal(t, "active_users", abstract.Relation)
}

func TestDescribeUsers(t *testing.T) {
	d := NewDescriber(blogProvider(), nil)

	desc, err := d.Describe(context.Background(), "User")
	require.NoError(t, err)

	assert.Equal(t, "id", desc.PrimaryKey)
	assert.Equal(t, []types.Attribute{
		{Name: "id", Type: "integer"},
		{Name: "account_id", Type: "integer"},
		{Name: "email", Type: "string"},
		{Name: "name", Type: "text"},
		{Name: "manager_id", Type: "integer"},
		{Name: "created_at", Type: "datetime"},
	}, desc.Attributes)

	assert.Equal(t, []types.Validation{
		{Attributes: []string{"account_id", "email", "name"}, Kind: "presence"},
		{Attributes: []string{"email"}, Kind: "uniqueness"},
		{Attributes: []string{"email"}, Kind: "length", Options: map[string]any{"maximum": 255}},
	}, desc.Validations)

	assert.Equal(t, []types.Association{
		{Name: "account", Kind: types.BelongsTo, ForeignKey: "account_id", RelatedModel: "Account", RelatedTable: "accounts", RelatedColumn: "id", Required: true},
		{Name: "manager", Kind: types.BelongsTo, ForeignKey: "manager_id", RelatedModel: "User", RelatedTable: "users", RelatedColumn: "id"},
		{Name: "blog_posts", Kind: types.HasMany, ForeignKey: "author_id", RelatedModel: "BlogPost", RelatedTable: "blog_posts", RelatedColumn: "id"},
		{Name: "comments", Kind: types.HasMany, ForeignKey: "user_id", RelatedModel: "Comment", RelatedTable: "comments", RelatedColumn: "id"},
	}, desc.Associations)

	assert.Equal(t,
		"Model: User\n"+
			"Attributes: id: integer, account_id: integer, email: string, name: text, manager_id: integer, created_at: datetime\n"+
			"Validations: account_id, email, name -> presence, email -> uniqueness, email -> length (maximum: 255)\n"+
			"Associations: belongs_to: account, belongs_to: manager, has_many: blog_posts, has_many: comments\n",
		desc.Summary())
}

func TestDescribePolymorphic(t *testing.T) {
	d := NewDescriber(blogProvider(), nil)

	desc, err := d.Describe(context.Background(), "Comment")
	require.NoError(t, err)
	require.Len(t, desc.Associations, 2)

	poly := desc.Associations[0]
	assert.Equal(t, "commentable", poly.Name)
	assert.True(t, poly.Polymorphic)
	assert.True(t, poly.Required)
	assert.Empty(t, poly.RelatedModel)

	assert.Equal(t, "user", desc.Associations[1].Name)
	assert.False(t, desc.Associations[1].Required)
}

func TestResolveRequiredAssociations(t *testing.T) {
	provider := blogProvider()
	d := NewDescriber(provider, nil)

	desc, err := d.Describe(context.Background(), "User")
	require.NoError(t, err)

	constraints, err := d.ResolveRequiredAssociations(context.Background(), desc)
	require.NoError(t, err)
	assert.Equal(t, []types.AssociationConstraint{
		{ForeignKey: "account_id", RelatedModel: "Account", SampledIDs: []any{int64(1), int64(2)}},
	}, constraints)
	// Optional and has_many associations are never sampled.
	assert.Equal(t, []string{"accounts.id"}, provider.idCalls)
}

func TestResolveRequiredAssociationsCapsSample(t *testing.T) {
	provider := blogProvider()
	ids := make([]any, 80)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	provider.ids["accounts"] = ids
	d := NewDescriber(provider, nil)

	desc, err := d.Describe(context.Background(), "User")
	require.NoError(t, err)

	constraints, err := d.ResolveRequiredAssociations(context.Background(), desc)
	require.NoError(t, err)
	assert.Len(t, constraints[0].SampledIDs, MaxAssociationIDs)
}

func TestResolveRequiredAssociationsMissingParent(t *testing.T) {
	d := NewDescriber(blogProvider(), nil)

	desc, err := d.Describe(context.Background(), "BlogPost")
	require.NoError(t, err)

	_, err = d.ResolveRequiredAssociations(context.Background(), desc)
	var missing *MissingParentDataError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "BlogPost", missing.Model)
	assert.Equal(t, "User", missing.RelatedModel)
}

func TestPolymorphicIsNeverSampled(t *testing.T) {
	provider := blogProvider()
	provider.ids["users"] = []any{int64(3)}
	d := NewDescriber(provider, nil)

	desc, err := d.Describe(context.Background(), "Comment")
	require.NoError(t, err)

	constraints, err := d.ResolveRequiredAssociations(context.Background(), desc)
	require.NoError(t, err)
	assert.Empty(t, constraints)
	assert.Empty(t, provider.idCalls)
}

func TestDescribeSkipsUnreadableTables(t *testing.T) {
	p := blogProvider()
	p.tables = append(p.tables, "legacy_dump")

	desc, err := NewDescriber(p, nil).Describe(context.Background(), "User")
	require.NoError(t, err)

	var hasMany []string
	for _, a := range desc.Associations {
		if a.Kind == types.HasMany {
			hasMany = append(hasMany, a.Name)
		}
	}
	assert.ElementsMatch(t, []string{"blog_posts", "comments"}, hasMany)
}
