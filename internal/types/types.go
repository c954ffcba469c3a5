package types

import (
	"fmt"
	"sort"
	"strings"
)

type SchemaColumn struct {
	Name             string
	Type             string
	Nullable         bool
	Default          string
	HasDefault       bool
	IsPrimary        bool
	IsUnique         bool
	IsAutoIncrement  bool
	MaxLength        int // declared character limit, 0 when unbounded
	ForeignKeyTable  string
	ForeignKeyColumn string
}

// IsForeignKey reports whether the column references another table.
func (c SchemaColumn) IsForeignKey() bool {
	return c.ForeignKeyTable != "" && c.ForeignKeyColumn != ""
}

type Attribute struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type Validation struct {
	Attributes []string       `json:"attributes"`
	Kind       string         `json:"kind"`
	Options    map[string]any `json:"options,omitempty"`
}

// Association kinds.
const (
	BelongsTo = "belongs_to"
	HasMany   = "has_many"
)

type Association struct {
	Name          string `json:"name"`
	Kind          string `json:"kind"`
	ForeignKey    string `json:"foreign_key"`
	RelatedModel  string `json:"related_model,omitempty"`
	RelatedTable  string `json:"related_table,omitempty"`
	RelatedColumn string `json:"related_column,omitempty"`
	Required      bool   `json:"required"`
	Polymorphic   bool   `json:"polymorphic"`
}

// ModelDescription is the introspected shape of one seedable model. It is
// built once per run and never mutated afterwards.
type ModelDescription struct {
	Name         string        `json:"model"`
	TableName    string        `json:"table"`
	PrimaryKey   string        `json:"primary_key,omitempty"`
	Attributes   []Attribute   `json:"attributes"`
	Validations  []Validation  `json:"validations"`
	Associations []Association `json:"associations"`

	// Columns keeps the raw introspection result for the prompt rules and
	// the insert path.
	Columns []SchemaColumn `json:"-"`
}

// Attribute returns the attribute with the given name.
func (d *ModelDescription) Attribute(name string) (Attribute, bool) {
	for _, a := range d.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// AttributeNames returns the attribute names in column order.
func (d *ModelDescription) AttributeNames() []string {
	names := make([]string, len(d.Attributes))
	for i, a := range d.Attributes {
		names[i] = a.Name
	}
	return names
}

// Summary renders the description as the text block used in prompts and
// logs. Output depends only on the struct fields.
func (d *ModelDescription) Summary() string {
	var b strings.Builder

	attrs := make([]string, len(d.Attributes))
	for i, a := range d.Attributes {
		attrs[i] = fmt.Sprintf("%s: %s", a.Name, a.Type)
	}

	validations := make([]string, len(d.Validations))
	for i, v := range d.Validations {
		validations[i] = fmt.Sprintf("%s -> %s%s", strings.Join(v.Attributes, ", "), v.Kind, formatOptions(v.Options))
	}

	assocs := make([]string, len(d.Associations))
	for i, a := range d.Associations {
		assocs[i] = fmt.Sprintf("%s: %s", a.Kind, a.Name)
	}

	fmt.Fprintf(&b, "Model: %s\n", d.Name)
	fmt.Fprintf(&b, "Attributes: %s\n", strings.Join(attrs, ", "))
	fmt.Fprintf(&b, "Validations: %s\n", strings.Join(validations, ", "))
	fmt.Fprintf(&b, "Associations: %s\n", strings.Join(assocs, ", "))
	return b.String()
}

func formatOptions(opts map[string]any) string {
	if len(opts) == 0 {
		return ""
	}
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %v", k, opts[k])
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// AssociationConstraint pins a foreign key to identifiers that already exist
// in the referenced table.
type AssociationConstraint struct {
	ForeignKey   string `json:"foreign_key"`
	RelatedModel string `json:"related_model"`
	SampledIDs   []any  `json:"ids"`
}

// Record is one generated row keyed by attribute name.
type Record = map[string]any
