package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Rana718/seedling/internal/types"
)

var auditColumns = []string{"created_at", "updated_at"}

// Build renders the generation prompt for count records of desc. Output is a
// pure function of the arguments.
func Build(desc *types.ModelDescription, count int, context string, constraints []types.AssociationConstraint) string {
	var b strings.Builder

	b.WriteString("You are a relational database data generation assistant.\n\n")
	fmt.Fprintf(&b, "Using the following model details, generate %d valid JSON objects.\n\n", count)

	if strings.TrimSpace(context) != "" {
		fmt.Fprintf(&b, "Context: %s\n\n", context)
	}

	b.WriteString(desc.Summary())
	b.WriteString("\n")

	if len(constraints) > 0 {
		b.WriteString(associationBlock(constraints))
		b.WriteString("\n")
	}

	b.WriteString("Rules:\n")
	b.WriteString("- Exclude primary key, auto-increment and audit (created_at, updated_at) columns")
	if excluded := excludedColumns(desc); len(excluded) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(excluded, ", "))
	}
	b.WriteString(".\n")
	b.WriteString("- Use realistic data for each attribute, matching its declared type.\n")
	b.WriteString("- Use only the attribute names listed above as object keys.\n")
	b.WriteString("- Output ONLY valid JSON (an array of objects). No prose, no markdown.\n")

	return b.String()
}

func associationBlock(constraints []types.AssociationConstraint) string {
	var b strings.Builder
	b.WriteString("Association constraints:\n")
	b.WriteString("Use ONLY the following existing IDs.\n")
	b.WriteString("Do NOT create or infer associated records.\n\n")

	for _, c := range constraints {
		ids := make([]string, len(c.SampledIDs))
		for i, id := range c.SampledIDs {
			ids[i] = encodeID(id)
		}
		fmt.Fprintf(&b, "- %s: must be one of [%s] (existing %s records)\n",
			c.ForeignKey, strings.Join(ids, ", "), c.RelatedModel)
	}
	return b.String()
}

func encodeID(id any) string {
	raw, err := json.Marshal(id)
	if err != nil {
		return fmt.Sprintf("%q", fmt.Sprint(id))
	}
	return string(raw)
}

// excludedColumns lists identity and audit columns the generator must leave
// to the database.
func excludedColumns(desc *types.ModelDescription) []string {
	var out []string
	seen := map[string]bool{}
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	add(desc.PrimaryKey)
	for _, c := range desc.Columns {
		if c.IsAutoIncrement {
			add(c.Name)
		}
	}
	for _, name := range auditColumns {
		if _, ok := desc.Attribute(name); ok {
			add(name)
		}
	}
	return out
}
