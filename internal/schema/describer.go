package schema

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/Rana718/seedling/internal/database"
	"github.com/Rana718/seedling/internal/logging"
	"github.com/Rana718/seedling/internal/types"
)

// MaxAssociationIDs caps how many parent identifiers are sampled per
// required association.
const MaxAssociationIDs = 50

// Describer builds model descriptions from a live database catalog.
type Describer struct {
	provider database.SchemaProvider
	logger   *slog.Logger
}

func NewDescriber(provider database.SchemaProvider, logger *slog.Logger) *Describer {
	return &Describer{provider: provider, logger: logging.OrNop(logger)}
}

// Describe resolves name to a base table and derives its attributes,
// validations and associations from the declared constraints.
func (d *Describer) Describe(ctx context.Context, name string) (*types.ModelDescription, error) {
	tables, err := d.tables(ctx)
	if err != nil {
		return nil, err
	}

	table, err := d.resolve(ctx, name, tables)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("resolved model", "model", name, "table", table)

	columns, err := d.provider.GetTableColumns(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	desc := &types.ModelDescription{
		Name:         classify(table),
		TableName:    table,
		PrimaryKey:   primaryKey(columns),
		Attributes:   make([]types.Attribute, 0, len(columns)),
		Validations:  validations(columns),
		Associations: belongsTo(columns),
		Columns:      columns,
	}
	for _, c := range columns {
		desc.Attributes = append(desc.Attributes, types.Attribute{Name: c.Name, Type: types.TypeTag(c.Type)})
	}

	desc.Associations = append(desc.Associations, d.hasMany(ctx, table, tables)...)

	return desc, nil
}

func (d *Describer) tables(ctx context.Context) ([]string, error) {
	all, err := d.provider.GetAllTableNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	tables := make([]string, 0, len(all))
	for _, t := range all {
		if !isInternalTable(t) {
			tables = append(tables, t)
		}
	}
	return tables, nil
}

func (d *Describer) resolve(ctx context.Context, name string, tables []string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", &NotFoundError{Name: name}
	}
	candidates := tableCandidates(name)

	for _, c := range candidates {
		if slices.Contains(tables, c) {
			return c, nil
		}
	}

	views, err := d.provider.GetAllViewNames(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list views: %w", err)
	}
	for _, c := range candidates {
		if slices.Contains(views, c) {
			return "", &AbstractModelError{Name: name, Relation: c}
		}
	}
	return "", &NotFoundError{Name: name}
}

// ResolveRequiredAssociations samples existing parent identifiers for every
// required, non-polymorphic belongs_to association. It fails on the first
// parent table without rows.
func (d *Describer) ResolveRequiredAssociations(ctx context.Context, desc *types.ModelDescription) ([]types.AssociationConstraint, error) {
	var constraints []types.AssociationConstraint

	for _, a := range desc.Associations {
		if a.Kind != types.BelongsTo || !a.Required || a.Polymorphic {
			continue
		}

		ids, err := d.provider.FetchExistingIDs(ctx, a.RelatedTable, a.RelatedColumn, MaxAssociationIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s ids: %w", a.RelatedTable, err)
		}
		if len(ids) == 0 {
			return nil, &MissingParentDataError{
				Model:        desc.Name,
				RelatedModel: a.RelatedModel,
				RelatedTable: a.RelatedTable,
			}
		}

		d.logger.Debug("sampled association ids", "foreign_key", a.ForeignKey, "table", a.RelatedTable, "count", len(ids))
		constraints = append(constraints, types.AssociationConstraint{
			ForeignKey:   a.ForeignKey,
			RelatedModel: a.RelatedModel,
			SampledIDs:   ids,
		})
	}
	return constraints, nil
}

// hasMany scans the other tables for foreign keys into table. A table that
// cannot be introspected is skipped.
func (d *Describer) hasMany(ctx context.Context, table string, tables []string) []types.Association {
	var out []types.Association
	for _, other := range tables {
		if other == table {
			continue
		}
		columns, err := d.provider.GetTableColumns(ctx, other)
		if err != nil {
			d.logger.Debug("skipping table in has_many scan", "table", other, "error", err)
			continue
		}
		for _, c := range columns {
			if c.ForeignKeyTable != table {
				continue
			}
			out = append(out, types.Association{
				Name:          other,
				Kind:          types.HasMany,
				ForeignKey:    c.Name,
				RelatedModel:  classify(other),
				RelatedTable:  other,
				RelatedColumn: c.ForeignKeyColumn,
			})
		}
	}
	return out
}

func primaryKey(columns []types.SchemaColumn) string {
	pk := ""
	for _, c := range columns {
		if c.IsPrimary {
			if pk != "" {
				return "" // composite
			}
			pk = c.Name
		}
	}
	return pk
}

func validations(columns []types.SchemaColumn) []types.Validation {
	var out []types.Validation

	var present []string
	for _, c := range columns {
		if !c.Nullable && !c.IsPrimary && !c.IsAutoIncrement && !c.HasDefault {
			present = append(present, c.Name)
		}
	}
	if len(present) > 0 {
		out = append(out, types.Validation{Attributes: present, Kind: "presence"})
	}

	for _, c := range columns {
		if c.IsUnique && !c.IsPrimary {
			out = append(out, types.Validation{Attributes: []string{c.Name}, Kind: "uniqueness"})
		}
	}

	for _, c := range columns {
		if c.MaxLength > 0 {
			out = append(out, types.Validation{
				Attributes: []string{c.Name},
				Kind:       "length",
				Options:    map[string]any{"maximum": c.MaxLength},
			})
		}
	}
	return out
}

func belongsTo(columns []types.SchemaColumn) []types.Association {
	names := make(map[string]bool, len(columns))
	for _, c := range columns {
		names[c.Name] = true
	}

	var out []types.Association
	for _, c := range columns {
		switch {
		case c.IsForeignKey():
			name := strings.TrimSuffix(c.Name, "_id")
			if name == c.Name || name == "" {
				name = inflection.Singular(c.ForeignKeyTable)
			}
			out = append(out, types.Association{
				Name:          name,
				Kind:          types.BelongsTo,
				ForeignKey:    c.Name,
				RelatedModel:  classify(c.ForeignKeyTable),
				RelatedTable:  c.ForeignKeyTable,
				RelatedColumn: c.ForeignKeyColumn,
				Required:      !c.Nullable,
			})
		case strings.HasSuffix(c.Name, "_id") && names[strings.TrimSuffix(c.Name, "_id")+"_type"]:
			out = append(out, types.Association{
				Name:        strings.TrimSuffix(c.Name, "_id"),
				Kind:        types.BelongsTo,
				ForeignKey:  c.Name,
				Required:    !c.Nullable,
				Polymorphic: true,
			})
		}
	}
	return out
}
